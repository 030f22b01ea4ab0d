package service

import (
	"context"

	"attachmi/internal/models"
)

// CreateCollection inserts a collection and refreshes the state list so the
// derived counts come from the store, not a local guess.
func (s *AttachmentService) CreateCollection(ctx context.Context, name string) (models.Collection, error) {
	var zero models.Collection
	collection := models.Collection{Name: name}
	if err := s.store.CreateCollection(ctx, &collection); err != nil {
		s.logger.Error("create collection", "error", err)
		return zero, err
	}
	s.refreshCollections(ctx)
	return collection, nil
}

// DeleteCollection removes a collection; membership rows cascade. The
// selected attachment's membership is re-read since it may have listed the
// deleted collection.
func (s *AttachmentService) DeleteCollection(ctx context.Context, id int64) error {
	if err := s.store.DeleteCollection(ctx, id); err != nil {
		s.logger.Error("delete collection", "id", id, "error", err)
		return err
	}
	s.refreshCollections(ctx)
	if selected := s.state.SelectedAttachment(); selected != nil {
		s.refreshSelectedMembership(ctx, selected.ID)
	}
	return nil
}

// AddToCollection records membership. Adding an attachment that is already
// a member succeeds without duplicating the pair.
func (s *AttachmentService) AddToCollection(ctx context.Context, collectionID, attachmentID int64) error {
	if err := s.store.AddAttachmentToCollection(ctx, collectionID, attachmentID); err != nil {
		s.logger.Error("add to collection", "collection_id", collectionID, "attachment_id", attachmentID, "error", err)
		return err
	}
	s.refreshCollections(ctx)
	s.refreshSelectedMembership(ctx, attachmentID)
	return nil
}

// RemoveFromCollection removes membership. Removing an absent pair succeeds.
func (s *AttachmentService) RemoveFromCollection(ctx context.Context, collectionID, attachmentID int64) error {
	if err := s.store.RemoveAttachmentFromCollection(ctx, collectionID, attachmentID); err != nil {
		s.logger.Error("remove from collection", "collection_id", collectionID, "attachment_id", attachmentID, "error", err)
		return err
	}
	s.refreshCollections(ctx)
	s.refreshSelectedMembership(ctx, attachmentID)
	return nil
}

// CollectionsFor returns the collections containing an attachment, newest
// first. When the attachment is the current selection the state membership
// slice is refreshed as a side effect.
func (s *AttachmentService) CollectionsFor(ctx context.Context, attachmentID int64) ([]models.CollectionRef, error) {
	refs, err := s.store.GetAttachmentCollections(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if selected := s.state.SelectedAttachment(); selected != nil && selected.ID == attachmentID {
		s.state.SetSelectedCollections(refs)
	}
	return refs, nil
}

// AttachmentsIn returns the members of a collection, newest first.
func (s *AttachmentService) AttachmentsIn(ctx context.Context, collectionID int64) ([]models.Attachment, error) {
	return s.store.GetCollectionAttachments(ctx, collectionID)
}

func (s *AttachmentService) refreshCollections(ctx context.Context) {
	collections, err := s.store.ListCollections(ctx)
	if err != nil {
		s.logger.Error("refresh collections", "error", err)
		return
	}
	s.state.SetCollections(collections)
}

func (s *AttachmentService) refreshSelectedMembership(ctx context.Context, attachmentID int64) {
	selected := s.state.SelectedAttachment()
	if selected == nil || selected.ID != attachmentID {
		return
	}
	refs, err := s.store.GetAttachmentCollections(ctx, attachmentID)
	if err != nil {
		s.logger.Error("refresh selected membership", "attachment_id", attachmentID, "error", err)
		return
	}
	s.state.SetSelectedCollections(refs)
}
