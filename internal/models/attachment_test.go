package models

import (
	"testing"
	"time"
)

func TestValidateDate(t *testing.T) {
	cases := []struct {
		raw     string
		wantErr bool
	}{
		{"2024-01-31", false},
		{"  2024-01-31 ", false},
		{"", true},
		{"2024-13-01", true},
		{"31-01-2024", true},
		{"2024-1-3", true},
	}
	for _, tc := range cases {
		err := ValidateDate(tc.raw)
		if tc.wantErr && err == nil {
			t.Errorf("ValidateDate(%q): expected error", tc.raw)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("ValidateDate(%q): unexpected error %v", tc.raw, err)
		}
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2025, time.March, 7, 23, 59, 0, 0, time.UTC)
	if got := Today(now); got != "2025-03-07" {
		t.Fatalf("expected 2025-03-07, got %q", got)
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Invoice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateName("   "); err == nil {
		t.Fatal("expected error for blank name")
	}
}
