// Package service contains the attachment service: the only component that
// performs multi-step operations across the metadata and blob stores, and
// the only writer of the session state.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"attachmi/internal/blobstore"
	"attachmi/internal/models"
	"attachmi/internal/shell"
	"attachmi/internal/state"
	"attachmi/internal/store"
)

// AttachmentService orchestrates the blob store, metadata store, and OS
// shell behind a single API, and mirrors every committed mutation into the
// session state. State is never updated optimistically: a failed storage
// call leaves it untouched.
type AttachmentService struct {
	store  store.MetadataStore
	blobs  blobstore.BlobStore
	shell  shell.Shell
	state  *state.Store
	logger *slog.Logger
	now    func() time.Time
}

// New constructs an AttachmentService.
func New(metadata store.MetadataStore, blobs blobstore.BlobStore, sh shell.Shell, st *state.Store, logger *slog.Logger) *AttachmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttachmentService{
		store:  metadata,
		blobs:  blobs,
		shell:  sh,
		state:  st,
		logger: logger,
		now:    time.Now,
	}
}

// Load populates the session state from storage. The initialized flag flips
// regardless of outcome, so the UI can stop showing its loading placeholder.
func (s *AttachmentService) Load(ctx context.Context) error {
	defer s.state.SetInitialized(true)

	attachments, err := s.store.ListAttachments(ctx)
	if err != nil {
		s.logger.Error("load attachments", "error", err)
		s.state.SetAttachments(nil)
		return err
	}
	s.state.SetAttachments(attachments)

	collections, err := s.store.ListCollections(ctx)
	if err != nil {
		s.logger.Error("load collections", "error", err)
		s.state.SetCollections(nil)
		return err
	}
	s.state.SetCollections(collections)
	return nil
}

// CreateAttachment persists content and inserts the metadata row, in that
// order: the blob must exist before a row references it, so a crash between
// the two steps can only leave a reclaimable orphan blob, never a dangling
// row. The new attachment is appended to state and selected. A nil content
// reader creates a metadata-only attachment.
func (s *AttachmentService) CreateAttachment(ctx context.Context, content io.Reader, originalFileName, displayName string) (models.Attachment, error) {
	var zero models.Attachment
	if err := models.ValidateName(displayName); err != nil {
		return zero, err
	}

	attachment := models.Attachment{
		Name: strings.TrimSpace(displayName),
		Date: models.Today(s.now()),
	}

	if content != nil {
		storageName := blobstore.NewStorageName(originalFileName, s.now())
		if _, err := s.blobs.Save(ctx, storageName, content); err != nil {
			s.logger.Error("save blob", "storage_name", storageName, "error", err)
			return zero, fmt.Errorf("save file: %w", err)
		}
		attachment.FileName = storageName
	}

	if err := s.store.CreateAttachment(ctx, &attachment); err != nil {
		s.logger.Error("create attachment row", "error", err)
		if attachment.FileName != "" {
			if delErr := s.blobs.Delete(ctx, attachment.FileName); delErr != nil {
				s.logger.Warn("remove blob after failed insert", "storage_name", attachment.FileName, "error", delErr)
			}
		}
		return zero, err
	}

	s.state.AppendAttachment(attachment)
	s.Select(&attachment)
	return attachment, nil
}

// CreateAttachmentRecord inserts a metadata row for an already-saved blob
// (or none). Used by the host boundary, where saving bytes and creating the
// record are separate operations.
func (s *AttachmentService) CreateAttachmentRecord(ctx context.Context, attachment models.Attachment) (models.Attachment, error) {
	var zero models.Attachment
	if strings.TrimSpace(attachment.Date) == "" {
		attachment.Date = models.Today(s.now())
	}
	if err := s.store.CreateAttachment(ctx, &attachment); err != nil {
		s.logger.Error("create attachment row", "error", err)
		return zero, err
	}
	s.state.AppendAttachment(attachment)
	s.Select(&attachment)
	return attachment, nil
}

// UpdateAttachment writes the mutable metadata fields, then replaces the
// matching state entry. The stored file name is preserved no matter what
// the input carries: the blob association is immutable after creation.
func (s *AttachmentService) UpdateAttachment(ctx context.Context, attachment models.Attachment) error {
	err := s.store.UpdateAttachment(ctx, attachment.ID, store.AttachmentUpdate{
		Name:        attachment.Name,
		Date:        attachment.Date,
		Description: attachment.Description,
		Notes:       attachment.Notes,
	})
	if err != nil {
		s.logger.Error("update attachment", "id", attachment.ID, "error", err)
		return err
	}

	for _, existing := range s.state.Attachments() {
		if existing.ID == attachment.ID {
			attachment.FileName = existing.FileName
			break
		}
	}
	s.state.ReplaceAttachment(attachment)
	return nil
}

// DeleteAttachment removes the blob (best effort), the metadata row
// (membership cascades), and the state entry. When the deleted attachment
// is selected, selection advances over the filtered view first; deleting
// the sole filtered item clears it. Ordering matters: advancing needs the
// item still present in the list.
func (s *AttachmentService) DeleteAttachment(ctx context.Context, attachment models.Attachment) error {
	if selected := s.state.SelectedAttachment(); selected != nil && selected.ID == attachment.ID {
		if len(s.state.FilteredAttachments()) <= 1 {
			s.Select(nil)
		} else {
			s.SelectNext()
		}
	}

	if attachment.FileName != "" {
		if err := s.blobs.Delete(ctx, attachment.FileName); err != nil {
			// A missing blob must never block removing the row.
			s.logger.Warn("delete blob", "storage_name", attachment.FileName, "error", err)
		}
	}

	if err := s.store.DeleteAttachment(ctx, attachment.ID); err != nil {
		s.logger.Error("delete attachment row", "id", attachment.ID, "error", err)
		return err
	}

	s.state.RemoveAttachment(attachment.ID)
	return nil
}

// Select sets or clears the current selection. No storage side effects.
func (s *AttachmentService) Select(attachment *models.Attachment) {
	s.state.SetSelected(attachment)
}

// SelectNext advances selection over the filtered view, wrapping from the
// last item to the first. With no selection, or a selection absent from the
// filtered view, the first item is selected.
func (s *AttachmentService) SelectNext() {
	filtered := s.state.FilteredAttachments()
	if len(filtered) == 0 {
		return
	}

	selected := s.state.SelectedAttachment()
	if selected == nil {
		s.Select(&filtered[0])
		return
	}

	idx := indexOfAttachment(filtered, selected.ID)
	if idx == -1 || idx == len(filtered)-1 {
		s.Select(&filtered[0])
		return
	}
	s.Select(&filtered[idx+1])
}

// SelectPrevious retreats selection over the filtered view, wrapping from
// the first item to the last. With no selection, or a selection absent from
// the filtered view, the last item is selected.
func (s *AttachmentService) SelectPrevious() {
	filtered := s.state.FilteredAttachments()
	if len(filtered) == 0 {
		return
	}

	selected := s.state.SelectedAttachment()
	if selected == nil {
		s.Select(&filtered[len(filtered)-1])
		return
	}

	idx := indexOfAttachment(filtered, selected.ID)
	if idx <= 0 {
		s.Select(&filtered[len(filtered)-1])
		return
	}
	s.Select(&filtered[idx-1])
}

// SetSearchText updates the search text. Funneled through the service so
// the state keeps a single writer.
func (s *AttachmentService) SetSearchText(text string) {
	s.state.SetSearchText(text)
}

// OpenAttachment opens the stored file with the OS default application.
// Attachments without a file are a logged no-op; failures are logged, not
// surfaced.
func (s *AttachmentService) OpenAttachment(ctx context.Context, attachment models.Attachment) {
	if attachment.FileName == "" {
		s.logger.Info("no file associated with attachment", "id", attachment.ID)
		return
	}
	if err := s.OpenFile(ctx, attachment.FileName); err != nil {
		s.logger.Error("open attachment", "id", attachment.ID, "error", err)
	}
}

// DownloadAttachment copies the stored file to a user-chosen destination.
// Attachments without a file are a logged no-op; cancellation is silent;
// failures are logged, not surfaced.
func (s *AttachmentService) DownloadAttachment(ctx context.Context, attachment models.Attachment) {
	if attachment.FileName == "" {
		s.logger.Info("no file associated with attachment", "id", attachment.ID)
		return
	}
	dest, err := s.DownloadFile(ctx, attachment.FileName, attachment.Name)
	if err != nil {
		if errors.Is(err, shell.ErrCancelled) {
			s.logger.Debug("download cancelled", "id", attachment.ID)
			return
		}
		s.logger.Error("download attachment", "id", attachment.ID, "error", err)
		return
	}
	s.logger.Debug("attachment downloaded", "id", attachment.ID, "dest", dest)
}

// SaveFile persists raw bytes under a storage name and returns the path.
func (s *AttachmentService) SaveFile(ctx context.Context, name string, data []byte) (string, error) {
	return s.blobs.Save(ctx, name, bytes.NewReader(data))
}

// LoadFile reads the blob stored under name.
func (s *AttachmentService) LoadFile(ctx context.Context, name string) ([]byte, error) {
	rc, err := s.blobs.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// OpenFile opens the blob stored under name with the OS default application.
func (s *AttachmentService) OpenFile(ctx context.Context, name string) error {
	rc, err := s.blobs.Open(ctx, name)
	if err != nil {
		return err
	}
	_ = rc.Close()

	path, err := s.blobs.Path(name)
	if err != nil {
		return err
	}
	return s.shell.OpenPath(ctx, path)
}

// DownloadFile copies the blob stored under name to a destination chosen
// via the shell, pre-filled with the display name plus the blob's original
// extension, then reveals the copy in the file browser. Cancellation
// propagates as shell.ErrCancelled.
func (s *AttachmentService) DownloadFile(ctx context.Context, name, displayName string) (string, error) {
	rc, err := s.blobs.Open(ctx, name)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	dest, err := s.shell.ChooseSavePath(ctx, suggestedFileName(displayName, name))
	if err != nil {
		return "", err
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return "", err
	}

	if err := s.shell.RevealPath(ctx, dest); err != nil {
		s.logger.Warn("reveal download", "dest", dest, "error", err)
	}
	return dest, nil
}

// DeleteFile removes the blob stored under name.
func (s *AttachmentService) DeleteFile(ctx context.Context, name string) error {
	return s.blobs.Delete(ctx, name)
}

// suggestedFileName appends the storage name's extension to the display
// name, unless the display name already ends with it.
func suggestedFileName(displayName, storageName string) string {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = storageName
	}
	ext := filepath.Ext(storageName)
	if ext == "" || strings.EqualFold(filepath.Ext(displayName), ext) {
		return displayName
	}
	return displayName + ext
}

func indexOfAttachment(attachments []models.Attachment, id int64) int {
	for i := range attachments {
		if attachments[i].ID == id {
			return i
		}
	}
	return -1
}
