package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"attachmi/internal/blobstore"
	"attachmi/internal/models"
	"attachmi/internal/shell"
	"attachmi/internal/state"
	"attachmi/internal/store"
)

type fakeShell struct {
	saveDir  string
	cancel   bool
	opened   []string
	revealed []string
}

func (f *fakeShell) OpenPath(_ context.Context, path string) error {
	f.opened = append(f.opened, path)
	return nil
}

func (f *fakeShell) RevealPath(_ context.Context, path string) error {
	f.revealed = append(f.revealed, path)
	return nil
}

func (f *fakeShell) ChooseSavePath(_ context.Context, suggestedFileName string) (string, error) {
	if f.cancel {
		return "", shell.ErrCancelled
	}
	return filepath.Join(f.saveDir, suggestedFileName), nil
}

type testEnv struct {
	svc   *AttachmentService
	state *state.Store
	blobs *blobstore.LocalDir
	shell *fakeShell
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "attachmi.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	blobs, err := blobstore.NewLocalDir(filepath.Join(dir, "blobs"))
	if err != nil {
		t.Fatalf("new blob dir: %v", err)
	}

	sh := &fakeShell{saveDir: filepath.Join(dir, "downloads")}
	if err := os.MkdirAll(sh.saveDir, 0o755); err != nil {
		t.Fatalf("mkdir downloads: %v", err)
	}

	sessionState := state.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		svc:   New(st, blobs, sh, sessionState, logger),
		state: sessionState,
		blobs: blobs,
		shell: sh,
	}
}

func TestCreateAttachmentSavesBlobBeforeRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateAttachment(ctx, strings.NewReader("content"), "report.pdf", "Q3 Report")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if !strings.HasSuffix(created.FileName, "_report.pdf") {
		t.Fatalf("unexpected storage name %q", created.FileName)
	}

	data, err := env.svc.LoadFile(ctx, created.FileName)
	if err != nil || string(data) != "content" {
		t.Fatalf("load blob: %v %q", err, data)
	}

	attachments := env.state.Attachments()
	if len(attachments) != 1 || attachments[0].ID != created.ID {
		t.Fatalf("expected state to hold the new attachment, got %#v", attachments)
	}
	selected := env.state.SelectedAttachment()
	if selected == nil || selected.ID != created.ID {
		t.Fatalf("expected new attachment to be selected, got %#v", selected)
	}
}

func TestCreateAttachmentWithoutContent(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.CreateAttachment(context.Background(), nil, "", "Just a note")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.FileName != "" {
		t.Fatalf("expected no storage name, got %q", created.FileName)
	}

	names, err := env.blobs.List(context.Background())
	if err != nil {
		t.Fatalf("list blobs: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty blob dir, got %v", names)
	}
}

type failingCreateStore struct {
	store.MetadataStore
}

func (f failingCreateStore) CreateAttachment(context.Context, *models.Attachment) error {
	return fmt.Errorf("disk full")
}

func TestCreateAttachmentRemovesBlobWhenRowFails(t *testing.T) {
	env := newTestEnv(t)
	env.svc.store = failingCreateStore{env.svc.store}

	_, err := env.svc.CreateAttachment(context.Background(), strings.NewReader("x"), "a.txt", "A")
	if err == nil {
		t.Fatal("expected error")
	}

	names, err := env.blobs.List(context.Background())
	if err != nil {
		t.Fatalf("list blobs: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected blob cleanup after failed insert, got %v", names)
	}
}

func TestUpdateAttachmentPreservesFileName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateAttachment(ctx, strings.NewReader("x"), "scan.png", "Scan")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	update := created
	update.Name = "Renamed scan"
	update.Notes = "rotated"
	update.FileName = "forged_name.png"
	if err := env.svc.UpdateAttachment(ctx, update); err != nil {
		t.Fatalf("update: %v", err)
	}

	attachments := env.state.Attachments()
	if attachments[0].Name != "Renamed scan" || attachments[0].Notes != "rotated" {
		t.Fatalf("metadata not updated: %#v", attachments[0])
	}
	if attachments[0].FileName != created.FileName {
		t.Fatalf("file name must survive updates, got %q", attachments[0].FileName)
	}
	selected := env.state.SelectedAttachment()
	if selected == nil || selected.Name != "Renamed scan" {
		t.Fatalf("selection must follow the update, got %#v", selected)
	}
}

func TestDeleteAttachmentAdvancesSelectionFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := mustCreate(t, env, "First")
	second := mustCreate(t, env, "Second")
	third := mustCreate(t, env, "Third")
	_ = first

	env.svc.Select(&second)
	if err := env.svc.DeleteAttachment(ctx, second); err != nil {
		t.Fatalf("delete: %v", err)
	}

	selected := env.state.SelectedAttachment()
	if selected == nil || selected.ID != third.ID {
		t.Fatalf("expected selection to advance to the next item, got %#v", selected)
	}
	if len(env.state.Attachments()) != 2 {
		t.Fatalf("expected 2 attachments, got %#v", env.state.Attachments())
	}
}

func TestDeleteSoleFilteredItemClearsSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreate(t, env, "Invoice 2024")
	receipt := mustCreate(t, env, "Receipt")

	env.svc.SetSearchText("receipt")
	env.svc.Select(&receipt)

	if err := env.svc.DeleteAttachment(ctx, receipt); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if env.state.SelectedAttachment() != nil {
		t.Fatal("deleting the only filtered item must clear selection")
	}
}

func TestDeleteAttachmentToleratesMissingBlob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateAttachment(ctx, strings.NewReader("x"), "a.txt", "A")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := env.blobs.Delete(ctx, created.FileName); err != nil {
		t.Fatalf("remove blob out of band: %v", err)
	}

	if err := env.svc.DeleteAttachment(ctx, created); err != nil {
		t.Fatalf("delete must not fail on a missing blob: %v", err)
	}
	if len(env.state.Attachments()) != 0 {
		t.Fatal("expected attachment removed from state")
	}
}

func TestSelectNextWrapsOverFilteredView(t *testing.T) {
	env := newTestEnv(t)

	invoiceA := mustCreate(t, env, "Invoice A")
	mustCreate(t, env, "Receipt")
	invoiceB := mustCreate(t, env, "Invoice B")

	env.svc.SetSearchText("invoice")
	env.svc.Select(&invoiceB)

	env.svc.SelectNext()
	selected := env.state.SelectedAttachment()
	if selected == nil || selected.ID != invoiceA.ID {
		t.Fatalf("expected wrap to first filtered item, got %#v", selected)
	}

	env.svc.SelectNext()
	selected = env.state.SelectedAttachment()
	if selected == nil || selected.ID != invoiceB.ID {
		t.Fatalf("expected advance to next filtered item, got %#v", selected)
	}
}

func TestSelectPreviousWrapsOverFilteredView(t *testing.T) {
	env := newTestEnv(t)

	invoiceA := mustCreate(t, env, "Invoice A")
	mustCreate(t, env, "Receipt")
	invoiceB := mustCreate(t, env, "Invoice B")

	env.svc.SetSearchText("invoice")
	env.svc.Select(&invoiceA)

	env.svc.SelectPrevious()
	selected := env.state.SelectedAttachment()
	if selected == nil || selected.ID != invoiceB.ID {
		t.Fatalf("expected wrap to last filtered item, got %#v", selected)
	}
}

func TestSelectNextWithoutSelectionPicksFirst(t *testing.T) {
	env := newTestEnv(t)

	first := mustCreate(t, env, "First")
	mustCreate(t, env, "Second")
	env.svc.Select(nil)

	env.svc.SelectNext()
	selected := env.state.SelectedAttachment()
	if selected == nil || selected.ID != first.ID {
		t.Fatalf("expected first item, got %#v", selected)
	}
}

func TestSelectNextOnEmptyListIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.svc.SelectNext()
	env.svc.SelectPrevious()
	if env.state.SelectedAttachment() != nil {
		t.Fatal("expected no selection on an empty list")
	}
}

func TestOpenAttachmentUsesStoredPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateAttachment(ctx, strings.NewReader("x"), "doc.pdf", "Doc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	env.svc.OpenAttachment(ctx, created)
	if len(env.shell.opened) != 1 || filepath.Base(env.shell.opened[0]) != created.FileName {
		t.Fatalf("expected open of stored blob, got %v", env.shell.opened)
	}
}

func TestOpenAttachmentWithoutFileIsNoop(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.CreateAttachment(context.Background(), nil, "", "Note only")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	env.svc.OpenAttachment(context.Background(), created)
	if len(env.shell.opened) != 0 {
		t.Fatalf("expected no open call, got %v", env.shell.opened)
	}
}

func TestDownloadFileCopiesAndReveals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateAttachment(ctx, strings.NewReader("payload"), "report.pdf", "Q3 Report")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dest, err := env.svc.DownloadFile(ctx, created.FileName, created.Name)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if filepath.Base(dest) != "Q3 Report.pdf" {
		t.Fatalf("expected display name with original extension, got %q", dest)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "payload" {
		t.Fatalf("read download: %v %q", err, data)
	}
	if len(env.shell.revealed) != 1 || env.shell.revealed[0] != dest {
		t.Fatalf("expected reveal of the copy, got %v", env.shell.revealed)
	}
}

func TestDownloadAttachmentCancelledLeavesNoFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateAttachment(ctx, strings.NewReader("x"), "a.txt", "A")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	env.shell.cancel = true
	env.svc.DownloadAttachment(ctx, created)

	entries, err := os.ReadDir(env.shell.saveDir)
	if err != nil {
		t.Fatalf("read downloads: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("cancellation must not write a file, got %v", entries)
	}
}

func TestDownloadFileMissingBlob(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.DownloadFile(context.Background(), "12345_gone.txt", "Gone")
	if !errors.Is(err, blobstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSuggestedFileName(t *testing.T) {
	cases := []struct {
		display, storage, want string
	}{
		{"Q3 Report", "1700000000000_report.pdf", "Q3 Report.pdf"},
		{"report.pdf", "1700000000000_report.pdf", "report.pdf"},
		{"Notes", "1700000000000_notes", "Notes"},
		{"  ", "1700000000000_a.txt", "1700000000000_a.txt"},
	}
	for _, tc := range cases {
		if got := suggestedFileName(tc.display, tc.storage); got != tc.want {
			t.Errorf("suggestedFileName(%q, %q) = %q, want %q", tc.display, tc.storage, got, tc.want)
		}
	}
}

func TestLoadPopulatesState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustCreate(t, env, "Older")
	newer := mustCreate(t, env, "Newer")
	if _, err := env.svc.CreateCollection(ctx, "Taxes"); err != nil {
		t.Fatalf("create collection: %v", err)
	}

	env.state.Reset()
	if err := env.svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	attachments := env.state.Attachments()
	if len(attachments) != 2 || attachments[0].ID != newer.ID {
		t.Fatalf("expected newest-first attachments, got %#v", attachments)
	}
	if len(env.state.Collections()) != 1 {
		t.Fatalf("expected 1 collection, got %#v", env.state.Collections())
	}
	if !env.state.IsInitialized() {
		t.Fatal("expected initialized state after load")
	}
}

func mustCreate(t *testing.T, env *testEnv, name string) models.Attachment {
	t.Helper()
	created, err := env.svc.CreateAttachment(context.Background(), nil, "", name)
	if err != nil {
		t.Fatalf("create %q: %v", name, err)
	}
	return created
}
