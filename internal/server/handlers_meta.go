package server

import (
	"net/http"

	"attachmi/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	snap := s.state.Snapshot()
	s.writeJSON(w, http.StatusOK, api.InfoResponse{
		Version:         s.opts.Version,
		DBPath:          s.opts.DBPath,
		BlobDir:         s.opts.BlobDir,
		AttachmentCount: len(snap.Attachments),
		CollectionCount: len(snap.Collections),
	})
}
