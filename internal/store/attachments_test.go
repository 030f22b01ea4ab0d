package store

import (
	"context"
	"errors"
	"testing"

	"attachmi/internal/models"
)

func TestCreateListAttachments_RoundTripAndOrder(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	first := &models.Attachment{Name: "Invoice", Date: "2025-01-02", FileName: "1735800000000_invoice.pdf"}
	if err := st.CreateAttachment(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected assigned id")
	}

	second := &models.Attachment{Name: "Receipt", Date: "2025-01-03", Description: "groceries", Notes: "paid cash"}
	if err := st.CreateAttachment(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected monotonically increasing ids, got %d then %d", first.ID, second.ID)
	}

	list, err := st.ListAttachments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("expected newest-first order [%d %d], got [%d %d]", second.ID, first.ID, list[0].ID, list[1].ID)
	}
	if list[1].Name != "Invoice" || list[1].Date != "2025-01-02" || list[1].FileName != "1735800000000_invoice.pdf" {
		t.Fatalf("round-trip mismatch: %#v", list[1])
	}
	if list[0].Description != "groceries" || list[0].Notes != "paid cash" {
		t.Fatalf("round-trip mismatch: %#v", list[0])
	}
	if list[0].FileName != "" {
		t.Fatalf("metadata-only attachment must have empty file name, got %q", list[0].FileName)
	}
}

func TestCreateAttachmentValidation(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.CreateAttachment(ctx, &models.Attachment{Name: "", Date: "2025-01-01"}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := st.CreateAttachment(ctx, &models.Attachment{Name: "x", Date: "not-a-date"}); err == nil {
		t.Fatal("expected error for bad date")
	}
}

func TestUpdateAttachment_NeverTouchesFileName(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	a := &models.Attachment{Name: "Contract", Date: "2025-02-01", FileName: "1738000000000_contract.pdf"}
	if err := st.CreateAttachment(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := st.UpdateAttachment(ctx, a.ID, AttachmentUpdate{
		Name:        "Contract (signed)",
		Date:        "2025-02-02",
		Description: "final version",
		Notes:       "countersigned",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetAttachment(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected attachment")
	}
	if got.Name != "Contract (signed)" || got.Date != "2025-02-02" || got.Description != "final version" || got.Notes != "countersigned" {
		t.Fatalf("update mismatch: %#v", got)
	}
	if got.FileName != "1738000000000_contract.pdf" {
		t.Fatalf("file name must be immutable, got %q", got.FileName)
	}
}

func TestUpdateAttachment_Missing(t *testing.T) {
	st := testStore(t)
	err := st.UpdateAttachment(context.Background(), 999, AttachmentUpdate{Name: "x", Date: "2025-01-01"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAttachment(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	a := &models.Attachment{Name: "Temp", Date: "2025-01-01"}
	if err := st.CreateAttachment(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.DeleteAttachment(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := st.GetAttachment(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %#v", got)
	}

	if err := st.DeleteAttachment(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFileNames(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	withFile := &models.Attachment{Name: "A", Date: "2025-01-01", FileName: "1_a.txt"}
	withoutFile := &models.Attachment{Name: "B", Date: "2025-01-01"}
	for _, a := range []*models.Attachment{withFile, withoutFile} {
		if err := st.CreateAttachment(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	names, err := st.ListFileNames(ctx)
	if err != nil {
		t.Fatalf("list file names: %v", err)
	}
	if len(names) != 1 || names[0] != "1_a.txt" {
		t.Fatalf("expected [1_a.txt], got %v", names)
	}
}
