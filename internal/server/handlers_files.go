package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"attachmi/internal/api"
	"attachmi/internal/blobstore"
	"attachmi/internal/shell"
)

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
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
			name = blobstore.NewStorageName(header.Filename, time.Now())
		}
		if strings.ContainsAny(name, "/\\") {
			s.writeServiceError(w, r, badRequestCode(fmt.Errorf("invalid file name %q", name), ErrCodeInvalidFileName))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			s.writeServiceError(w, r, ioFailure(err))
			return
		}
		path, err := s.service.SaveFile(r.Context(), name, data)
		if err != nil {
			s.writeServiceError(w, r, classifyBlobError(err))
			return
		}
		s.writeJSON(w, http.StatusCreated, api.FileSavedResponse{Name: name, Path: path})
	})
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathFileName(w, r)
	if !ok {
		return
	}
	data, err := s.service.LoadFile(r.Context(), name)
	if err != nil {
		s.writeServiceError(w, r, classifyBlobError(err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write(data); err != nil {
		s.log().Error("write file response", "name", name, "error", err)
	}
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathFileName(w, r)
	if !ok {
		return
	}
	if err := s.service.DeleteFile(r.Context(), name); err != nil {
		s.writeServiceError(w, r, classifyBlobError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOpenFile(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathFileName(w, r)
	if !ok {
		return
	}
	if err := s.service.OpenFile(r.Context(), name); err != nil {
		s.writeServiceError(w, r, classifyBlobError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	name, ok := s.pathFileName(w, r)
	if !ok {
		return
	}
	displayName := strings.TrimSpace(r.URL.Query().Get("as"))
	if displayName == "" {
		displayName = name
	}

	dest, err := s.service.DownloadFile(r.Context(), name, displayName)
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
