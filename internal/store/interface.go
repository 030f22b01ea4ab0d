package store

import (
	"context"

	"attachmi/internal/models"
)

// MetadataStore is the structured persistence surface for attachments,
// collections, and membership. It owns referential integrity: deleting an
// attachment or collection cascades its membership rows inside the store.
type MetadataStore interface {
	ListAttachments(ctx context.Context) ([]models.Attachment, error)
	GetAttachment(ctx context.Context, id int64) (*models.Attachment, error)
	CreateAttachment(ctx context.Context, attachment *models.Attachment) error
	UpdateAttachment(ctx context.Context, id int64, update AttachmentUpdate) error
	DeleteAttachment(ctx context.Context, id int64) error
	ListFileNames(ctx context.Context) ([]string, error)

	ListCollections(ctx context.Context) ([]models.Collection, error)
	CreateCollection(ctx context.Context, collection *models.Collection) error
	DeleteCollection(ctx context.Context, id int64) error
	GetAttachmentCollections(ctx context.Context, attachmentID int64) ([]models.CollectionRef, error)
	GetCollectionAttachments(ctx context.Context, collectionID int64) ([]models.Attachment, error)
	AddAttachmentToCollection(ctx context.Context, collectionID, attachmentID int64) error
	RemoveAttachmentFromCollection(ctx context.Context, collectionID, attachmentID int64) error
}

var _ MetadataStore = (*Store)(nil)
