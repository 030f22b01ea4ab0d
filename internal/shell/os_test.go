package shell

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestChooseSavePathDedupes(t *testing.T) {
	dir := t.TempDir()
	sh, err := NewOSShell(dir)
	if err != nil {
		t.Fatalf("new os shell: %v", err)
	}

	first, err := sh.ChooseSavePath(context.Background(), "report.pdf")
	if err != nil {
		t.Fatalf("choose first: %v", err)
	}
	if first != filepath.Join(dir, "report.pdf") {
		t.Fatalf("unexpected destination %q", first)
	}

	if err := os.WriteFile(first, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	second, err := sh.ChooseSavePath(context.Background(), "report.pdf")
	if err != nil {
		t.Fatalf("choose second: %v", err)
	}
	if second != filepath.Join(dir, "report (1).pdf") {
		t.Fatalf("expected deduplicated destination, got %q", second)
	}
}

func TestChooseSavePathStripsDirectories(t *testing.T) {
	sh, err := NewOSShell(t.TempDir())
	if err != nil {
		t.Fatalf("new os shell: %v", err)
	}
	dest, err := sh.ChooseSavePath(context.Background(), "../../etc/passwd")
	if err != nil {
		t.Fatalf("choose: %v", err)
	}
	if filepath.Base(dest) != "passwd" || filepath.Dir(dest) == "/etc" {
		t.Fatalf("unexpected destination %q", dest)
	}
}

func TestChooseSavePathRequiresName(t *testing.T) {
	sh, err := NewOSShell(t.TempDir())
	if err != nil {
		t.Fatalf("new os shell: %v", err)
	}
	if _, err := sh.ChooseSavePath(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank name")
	}
}
