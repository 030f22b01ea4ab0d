package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"attachmi/internal/api"
	"attachmi/internal/models"
	"attachmi/internal/shell"
)

func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	attachments, err := s.store.ListAttachments(r.Context())
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	s.writeJSON(w, http.StatusOK, attachments)
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	attachment, err := s.store.GetAttachment(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	if attachment == nil {
		s.writeServiceError(w, r, notFoundCode(fmt.Errorf("attachment %d not found", id), ErrCodeAttachmentNotFound))
		return
	}
	s.writeJSON(w, http.StatusOK, attachment)
}

func (s *Server) handleCreateAttachment(w http.ResponseWriter, r *http.Request) {
	var req api.AttachmentCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	if err := validateAttachmentFields(req.Name, req.Date); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	created, err := s.service.CreateAttachmentRecord(r.Context(), models.Attachment{
		Name:        strings.TrimSpace(req.Name),
		Date:        req.Date,
		Description: req.Description,
		Notes:       req.Notes,
		FileName:    req.FileName,
	})
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	s.withLimiter(w, r, s.uploadLimiter, "upload", func() {
		r.Body = http.MaxBytesReader(w, r.Body, uploadMaxBody)
		if err := r.ParseMultipartForm(defaultJSONMaxBody); err != nil {
			s.writeServiceError(w, r, badRequest(fmt.Errorf("parse multipart form: %w", err)))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			s.writeServiceError(w, r, badRequestCode(fmt.Errorf("file field is required"), ErrCodeMissingRequired))
			return
		}
		defer file.Close()

		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			name = header.Filename
		}

		created, err := s.service.CreateAttachment(r.Context(), file, header.Filename, name)
		if err != nil {
			if validationErr := validateAttachmentFields(name, ""); validationErr != nil {
				s.writeServiceError(w, r, validationErr)
				return
			}
			s.writeServiceError(w, r, ioFailure(err))
			return
		}
		s.writeJSON(w, http.StatusCreated, created)
	})
}

func (s *Server) handleUpdateAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req api.AttachmentUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	if err := validateAttachmentFields(req.Name, req.Date); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	attachment := models.Attachment{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Date:        req.Date,
		Description: req.Description,
		Notes:       req.Notes,
	}

	autosave, err := queryBool(r, "autosave")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if autosave {
		// Debounced path: the write happens after the quiet period, with
		// this payload.
		s.saver.Schedule(attachment)
		s.writeJSON(w, http.StatusAccepted, attachment)
		return
	}

	if err := s.service.UpdateAttachment(r.Context(), attachment); err != nil {
		s.writeServiceError(w, r, classifyStoreError(err, ErrCodeAttachmentNotFound))
		return
	}
	updated, err := s.store.GetAttachment(r.Context(), id)
	if err != nil || updated == nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	attachment, err := s.store.GetAttachment(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	if attachment == nil {
		s.writeServiceError(w, r, notFoundCode(fmt.Errorf("attachment %d not found", id), ErrCodeAttachmentNotFound))
		return
	}

	if err := s.service.DeleteAttachment(r.Context(), *attachment); err != nil {
		s.writeServiceError(w, r, classifyStoreError(err, ErrCodeAttachmentNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOpenAttachment(w http.ResponseWriter, r *http.Request) {
	attachment, ok := s.attachmentWithFile(w, r)
	if !ok {
		return
	}
	if err := s.service.OpenFile(r.Context(), attachment.FileName); err != nil {
		s.writeServiceError(w, r, classifyBlobError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	attachment, ok := s.attachmentWithFile(w, r)
	if !ok {
		return
	}
	dest, err := s.service.DownloadFile(r.Context(), attachment.FileName, attachment.Name)
	if errors.Is(err, shell.ErrCancelled) {
		s.writeJSON(w, http.StatusOK, api.DownloadResponse{Cancelled: true})
		return
	}
	if err != nil {
		s.writeServiceError(w, r, classifyBlobError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.DownloadResponse{Dest: dest})
}

// attachmentWithFile loads the attachment for {id} and requires it to carry
// a stored file.
func (s *Server) attachmentWithFile(w http.ResponseWriter, r *http.Request) (*models.Attachment, bool) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	attachment, err := s.store.GetAttachment(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return nil, false
	}
	if attachment == nil {
		s.writeServiceError(w, r, notFoundCode(fmt.Errorf("attachment %d not found", id), ErrCodeAttachmentNotFound))
		return nil, false
	}
	if attachment.FileName == "" {
		s.writeServiceError(w, r, badRequestCode(fmt.Errorf("attachment %d has no stored file", id), ErrCodeInvalidArgument))
		return nil, false
	}
	return attachment, true
}

func validateAttachmentFields(name, date string) error {
	if err := models.ValidateName(name); err != nil {
		return badRequestCode(err, ErrCodeInvalidName)
	}
	if date != "" {
		if err := models.ValidateDate(date); err != nil {
			return badRequestCode(err, ErrCodeInvalidDate)
		}
	}
	return nil
}
