package server

import (
	"fmt"
	"net/http"
	"strings"

	"attachmi/internal/api"
)

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := s.store.ListCollections(r.Context())
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	s.writeJSON(w, http.StatusOK, collections)
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req api.CollectionCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.writeServiceError(w, r, badRequestCode(fmt.Errorf("name is required"), ErrCodeInvalidName))
		return
	}

	created, err := s.service.CreateCollection(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.service.DeleteCollection(r.Context(), id); err != nil {
		s.writeServiceError(w, r, classifyStoreError(err, ErrCodeCollectionNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCollectionAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	attachments, err := s.service.AttachmentsIn(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	s.writeJSON(w, http.StatusOK, attachments)
}

func (s *Server) handleAttachmentCollections(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	refs, err := s.service.CollectionsFor(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	s.writeJSON(w, http.StatusOK, refs)
}

func (s *Server) handleAddToCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	attachmentID, ok := s.pathID(w, r, "attachmentID")
	if !ok {
		return
	}
	if err := s.service.AddToCollection(r.Context(), collectionID, attachmentID); err != nil {
		s.writeServiceError(w, r, classifyStoreError(err, ErrCodeCollectionNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFromCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	attachmentID, ok := s.pathID(w, r, "attachmentID")
	if !ok {
		return
	}
	if err := s.service.RemoveFromCollection(r.Context(), collectionID, attachmentID); err != nil {
		s.writeServiceError(w, r, classifyStoreError(err, ErrCodeCollectionNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
