package state

import (
	"testing"

	"attachmi/internal/models"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Invoice #2024.pdf", "invoice 2024pdf"},
		{"Résumé.docx", "resumedocx"},
		{"notes.txt", "notestxt"},
		{"  MIXED Case_under ", "  mixed case_under "},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.raw); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func filterFixture() []models.Attachment {
	return []models.Attachment{
		{ID: 1, Name: "Invoice #2024.pdf"},
		{ID: 2, Name: "Résumé.docx"},
		{ID: 3, Name: "notes.txt"},
	}
}

func TestFilter(t *testing.T) {
	attachments := filterFixture()

	got := Filter(attachments, "invoice 2024")
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("searching 'invoice 2024': expected only the invoice, got %#v", got)
	}

	got = Filter(attachments, "")
	if len(got) != 3 || got[0].ID != 1 || got[2].ID != 3 {
		t.Fatalf("empty search must return all in original order, got %#v", got)
	}

	got = Filter(attachments, "   ")
	if len(got) != 3 {
		t.Fatalf("whitespace-only search must return all, got %#v", got)
	}

	got = Filter(attachments, "resume")
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("searching 'resume': expected the accented name to match, got %#v", got)
	}
}

func TestFilterSearchesAllFields(t *testing.T) {
	attachments := []models.Attachment{
		{ID: 1, Name: "scan.pdf", Description: "Electricity bill"},
		{ID: 2, Name: "misc.pdf", Notes: "warranty receipt!"},
		{ID: 3, Name: "photo.jpg"},
	}

	if got := Filter(attachments, "electricity"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("description match failed: %#v", got)
	}
	if got := Filter(attachments, "warranty receipt"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("notes match failed: %#v", got)
	}
	if got := Filter(attachments, "no such thing"); len(got) != 0 {
		t.Fatalf("expected no matches, got %#v", got)
	}
}
