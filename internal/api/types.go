// Package api holds the wire types shared by the HTTP server and the CLI
// client, plus the client itself.
package api

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// InfoResponse describes the running instance.
type InfoResponse struct {
	Version         string `json:"version"`
	DBPath          string `json:"db_path"`
	BlobDir         string `json:"blob_dir"`
	AttachmentCount int    `json:"attachment_count"`
	CollectionCount int    `json:"collection_count"`
}

// AttachmentCreateRequest creates a metadata-only attachment record, or one
// referencing an already-uploaded file.
type AttachmentCreateRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`
	FileName    string `json:"fileName,omitempty"`
}

// AttachmentUpdateRequest carries the mutable metadata fields. The stored
// file name is not among them.
type AttachmentUpdateRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

// CollectionCreateRequest creates a named collection.
type CollectionCreateRequest struct {
	Name string `json:"name"`
}

// SearchRequest sets the session search text.
type SearchRequest struct {
	Text string `json:"text"`
}

// SelectRequest sets the session selection. A nil ID clears it.
type SelectRequest struct {
	ID *int64 `json:"id"`
}

// FileSavedResponse reports where an uploaded file landed.
type FileSavedResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// DownloadResponse reports the outcome of a download request. Cancelled is
// set when the destination prompt was dismissed.
type DownloadResponse struct {
	Dest      string `json:"dest,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

// SweepResponse summarizes an orphan-blob sweep.
type SweepResponse struct {
	Candidates int      `json:"candidates"`
	Deleted    int      `json:"deleted"`
	Failed     int      `json:"failed"`
	DryRun     bool     `json:"dryRun"`
	Orphans    []string `json:"orphans,omitempty"`
}
