package server

import (
	"fmt"
	"net/http"

	"attachmi/internal/api"
)

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.state.Snapshot())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req api.SearchRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}
	s.service.SetSearchText(req.Text)
	s.writeJSON(w, http.StatusOK, s.state.Snapshot())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req api.SelectRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	if req.ID == nil {
		s.service.Select(nil)
		s.writeJSON(w, http.StatusOK, s.state.Snapshot())
		return
	}

	attachment, err := s.store.GetAttachment(r.Context(), *req.ID)
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return
	}
	if attachment == nil {
		s.writeServiceError(w, r, notFoundCode(fmt.Errorf("attachment %d not found", *req.ID), ErrCodeAttachmentNotFound))
		return
	}

	s.service.Select(attachment)
	if _, err := s.service.CollectionsFor(r.Context(), attachment.ID); err != nil {
		s.log().Warn("load selection membership", "id", attachment.ID, "error", err)
	}
	s.writeJSON(w, http.StatusOK, s.state.Snapshot())
}

func (s *Server) handleSelectNext(w http.ResponseWriter, _ *http.Request) {
	s.service.SelectNext()
	s.writeJSON(w, http.StatusOK, s.state.Snapshot())
}

func (s *Server) handleSelectPrevious(w http.ResponseWriter, _ *http.Request) {
	s.service.SelectPrevious()
	s.writeJSON(w, http.StatusOK, s.state.Snapshot())
}
