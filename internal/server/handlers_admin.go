package server

import (
	"net/http"

	"attachmi/internal/api"
)

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	apply, err := queryBool(r, "apply")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	result, err := s.service.SweepOrphanBlobs(r.Context(), apply)
	if err != nil {
		s.writeServiceError(w, r, ioFailure(err))
		return
	}
	s.writeJSON(w, http.StatusOK, api.SweepResponse{
		Candidates: result.Candidates,
		Deleted:    result.Deleted,
		Failed:     result.Failed,
		DryRun:     result.DryRun,
		Orphans:    result.Orphans,
	})
}
