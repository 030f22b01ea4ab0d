package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"attachmi/internal/models"
)

const attachmentColumns = "id, name, date, description, notes, file_name"

// ListAttachments returns all attachments, most recently created first.
// Ids are assigned monotonically, so id descending equals creation order.
func (s *Store) ListAttachments(ctx context.Context) ([]models.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+attachmentColumns+` FROM attachments ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttachments(rows)
}

// GetAttachment returns one attachment by id, or nil if absent.
func (s *Store) GetAttachment(ctx context.Context, id int64) (*models.Attachment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id)
	return scanAttachment(row)
}

// CreateAttachment inserts one attachment row and assigns its id.
// Description and notes default to empty; file_name may be absent.
func (s *Store) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	if attachment == nil {
		return fmt.Errorf("attachment is required")
	}
	if err := models.ValidateName(attachment.Name); err != nil {
		return err
	}
	if err := models.ValidateDate(attachment.Date); err != nil {
		return err
	}
	attachment.Name = strings.TrimSpace(attachment.Name)
	attachment.Date = strings.TrimSpace(attachment.Date)
	attachment.FileName = strings.TrimSpace(attachment.FileName)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments (name, date, description, notes, file_name)
		VALUES (?, ?, ?, ?, ?)
	`,
		attachment.Name,
		attachment.Date,
		attachment.Description,
		attachment.Notes,
		nullIfEmpty(attachment.FileName),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	attachment.ID = id
	return nil
}

// AttachmentUpdate carries the mutable metadata fields of an attachment.
// The file name is deliberately absent: the blob association is immutable
// after creation.
type AttachmentUpdate struct {
	Name        string
	Date        string
	Description string
	Notes       string
}

// UpdateAttachment writes metadata fields for one attachment.
func (s *Store) UpdateAttachment(ctx context.Context, id int64, update AttachmentUpdate) error {
	if err := models.ValidateName(update.Name); err != nil {
		return err
	}
	if err := models.ValidateDate(update.Date); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE attachments SET name = ?, date = ?, description = ?, notes = ?
		WHERE id = ?
	`,
		strings.TrimSpace(update.Name),
		strings.TrimSpace(update.Date),
		update.Description,
		update.Notes,
		id,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("attachment %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAttachment deletes one attachment row. Membership rows cascade.
func (s *Store) DeleteAttachment(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("attachment %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListFileNames returns the storage names referenced by attachment rows.
func (s *Store) ListFileNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT file_name FROM attachments WHERE file_name IS NOT NULL AND file_name != ''")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func collectAttachments(rows *sql.Rows) ([]models.Attachment, error) {
	attachments := []models.Attachment{}
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		if attachment == nil {
			continue
		}
		attachments = append(attachments, *attachment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attachments, nil
}

func scanAttachment(scanner interface {
	Scan(dest ...any) error
}) (*models.Attachment, error) {
	attachment := models.Attachment{}
	var fileName sql.NullString

	err := scanner.Scan(
		&attachment.ID,
		&attachment.Name,
		&attachment.Date,
		&attachment.Description,
		&attachment.Notes,
		&fileName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	attachment.FileName = fileName.String
	return &attachment, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
