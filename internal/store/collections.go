package store

import (
	"context"
	"fmt"
	"strings"

	"attachmi/internal/models"
)

// ListCollections returns all collections, newest first, with the member
// count computed from membership at query time.
func (s *Store) ListCollections(ctx context.Context) ([]models.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(ca.attachment_id)
		FROM collections c
		LEFT JOIN collection_attachments ca ON ca.collection_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Count); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

// CreateCollection inserts one collection row and assigns its id.
func (s *Store) CreateCollection(ctx context.Context, collection *models.Collection) error {
	if collection == nil {
		return fmt.Errorf("collection is required")
	}
	if err := models.ValidateName(collection.Name); err != nil {
		return err
	}
	collection.Name = strings.TrimSpace(collection.Name)

	result, err := s.db.ExecContext(ctx, "INSERT INTO collections (name) VALUES (?)", collection.Name)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	collection.ID = id
	collection.Count = 0
	return nil
}

// DeleteCollection deletes one collection row. Membership rows cascade.
func (s *Store) DeleteCollection(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("collection %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetAttachmentCollections returns the collections one attachment belongs to.
func (s *Store) GetAttachmentCollections(ctx context.Context, attachmentID int64) ([]models.CollectionRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name
		FROM collections c
		JOIN collection_attachments ca ON ca.collection_id = c.id
		WHERE ca.attachment_id = ?
		ORDER BY c.id DESC
	`, attachmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := []models.CollectionRef{}
	for rows.Next() {
		var ref models.CollectionRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// GetCollectionAttachments returns the members of one collection, newest first.
func (s *Store) GetCollectionAttachments(ctx context.Context, collectionID int64) ([]models.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.date, a.description, a.notes, a.file_name
		FROM attachments a
		JOIN collection_attachments ca ON ca.attachment_id = a.id
		WHERE ca.collection_id = ?
		ORDER BY a.id DESC
	`, collectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttachments(rows)
}

// AddAttachmentToCollection records membership. Re-adding an existing pair
// is a no-op, not an error.
func (s *Store) AddAttachmentToCollection(ctx context.Context, collectionID, attachmentID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO collection_attachments (collection_id, attachment_id)
		VALUES (?, ?)
	`, collectionID, attachmentID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("collection %d or attachment %d: %w", collectionID, attachmentID, ErrNotFound)
		}
		return err
	}
	return nil
}

// RemoveAttachmentFromCollection removes membership. Removing an absent pair
// succeeds.
func (s *Store) RemoveAttachmentFromCollection(ctx context.Context, collectionID, attachmentID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM collection_attachments WHERE collection_id = ? AND attachment_id = ?
	`, collectionID, attachmentID)
	return err
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
