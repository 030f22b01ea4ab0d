package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage form of attachment dates.
const DateLayout = "2006-01-02"

// Attachment is a user-managed record pairing metadata with an optional
// stored file. FileName is the on-disk storage name, never the user-visible
// name; an empty FileName means the attachment is metadata-only.
type Attachment struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description" yaml:"description"`
	Notes       string `json:"notes" yaml:"notes"`
	FileName    string `json:"fileName,omitempty" yaml:"file_name,omitempty"`
}

// ValidateName checks the user-facing label.
func ValidateName(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// ValidateDate checks the YYYY-MM-DD creation date form.
func ValidateDate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return nil
}

// Today formats now as an attachment date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
