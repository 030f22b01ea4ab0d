package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Attachments.
	mux.HandleFunc("GET /v1/attachments", s.handleListAttachments)
	mux.HandleFunc("POST /v1/attachments", s.handleCreateAttachment)
	mux.HandleFunc("POST /v1/attachments/upload", s.handleUploadAttachment)
	mux.HandleFunc("GET /v1/attachments/{id}", s.handleGetAttachment)
	mux.HandleFunc("PATCH /v1/attachments/{id}", s.handleUpdateAttachment)
	mux.HandleFunc("DELETE /v1/attachments/{id}", s.handleDeleteAttachment)
	mux.HandleFunc("POST /v1/attachments/{id}/open", s.handleOpenAttachment)
	mux.HandleFunc("POST /v1/attachments/{id}/download", s.handleDownloadAttachment)
	mux.HandleFunc("GET /v1/attachments/{id}/collections", s.handleAttachmentCollections)

	// Collections and membership.
	mux.HandleFunc("GET /v1/collections", s.handleListCollections)
	mux.HandleFunc("POST /v1/collections", s.handleCreateCollection)
	mux.HandleFunc("DELETE /v1/collections/{id}", s.handleDeleteCollection)
	mux.HandleFunc("GET /v1/collections/{id}/attachments", s.handleCollectionAttachments)
	mux.HandleFunc("PUT /v1/collections/{id}/attachments/{attachmentID}", s.handleAddToCollection)
	mux.HandleFunc("DELETE /v1/collections/{id}/attachments/{attachmentID}", s.handleRemoveFromCollection)

	// Raw file storage.
	mux.HandleFunc("POST /v1/files", s.handleUploadFile)
	mux.HandleFunc("GET /v1/files/{name}", s.handleGetFile)
	mux.HandleFunc("DELETE /v1/files/{name}", s.handleDeleteFile)
	mux.HandleFunc("POST /v1/files/{name}/open", s.handleOpenFile)
	mux.HandleFunc("POST /v1/files/{name}/download", s.handleDownloadFile)

	// Session state.
	mux.HandleFunc("GET /v1/state", s.handleState)
	mux.HandleFunc("PUT /v1/search", s.handleSearch)
	mux.HandleFunc("PUT /v1/selection", s.handleSelect)
	mux.HandleFunc("POST /v1/selection/next", s.handleSelectNext)
	mux.HandleFunc("POST /v1/selection/previous", s.handleSelectPrevious)

	// Admin.
	mux.HandleFunc("POST /v1/admin/sweep", s.handleSweep)

	return s.withRequestLogging(mux)
}
