package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"attachmi/internal/api"
	"attachmi/internal/blobstore"
	"attachmi/internal/models"
	"attachmi/internal/service"
	"attachmi/internal/shell"
	"attachmi/internal/state"
	"attachmi/internal/store"
)

type stubShell struct {
	saveDir string
	cancel  bool
	opened  []string
}

func (f *stubShell) OpenPath(_ context.Context, path string) error {
	f.opened = append(f.opened, path)
	return nil
}

func (f *stubShell) RevealPath(context.Context, string) error { return nil }

func (f *stubShell) ChooseSavePath(_ context.Context, suggestedFileName string) (string, error) {
	if f.cancel {
		return "", shell.ErrCancelled
	}
	return filepath.Join(f.saveDir, suggestedFileName), nil
}

type testServer struct {
	srv   *Server
	http  *httptest.Server
	state *state.Store
	shell *stubShell
}

func newTestServer(t *testing.T) *testServer {
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

	sh := &stubShell{saveDir: filepath.Join(dir, "downloads")}
	if err := os.MkdirAll(sh.saveDir, 0o755); err != nil {
		t.Fatalf("mkdir downloads: %v", err)
	}

	sessionState := state.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(st, blobs, sh, sessionState, logger)

	srv := New(Options{Addr: "127.0.0.1:0", Version: "test"}, svc, sessionState, st, logger)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)

	return &testServer{srv: srv, http: ts, state: sessionState, shell: sh}
}

func (ts *testServer) request(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, ts.http.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func (ts *testServer) createAttachment(t *testing.T, name string) models.Attachment {
	t.Helper()
	resp := ts.request(t, http.MethodPost, "/v1/attachments", api.AttachmentCreateRequest{Name: name})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create attachment: status %d", resp.StatusCode)
	}
	return decodeBody[models.Attachment](t, resp)
}

func TestAttachmentCRUD(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createAttachment(t, "Q3 Report")
	if created.ID == 0 || created.Date == "" {
		t.Fatalf("unexpected created attachment %#v", created)
	}

	resp := ts.request(t, http.MethodGet, fmt.Sprintf("/v1/attachments/%d", created.ID), nil)
	got := decodeBody[models.Attachment](t, resp)
	if got.Name != "Q3 Report" {
		t.Fatalf("unexpected attachment %#v", got)
	}

	resp = ts.request(t, http.MethodPatch, fmt.Sprintf("/v1/attachments/%d", created.ID), api.AttachmentUpdateRequest{
		Name: "Q3 Report (final)", Date: created.Date, Notes: "signed off",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", resp.StatusCode)
	}
	updated := decodeBody[models.Attachment](t, resp)
	if updated.Name != "Q3 Report (final)" || updated.Notes != "signed off" {
		t.Fatalf("unexpected update result %#v", updated)
	}

	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/v1/attachments/%d", created.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	resp = ts.request(t, http.MethodGet, fmt.Sprintf("/v1/attachments/%d", created.ID), nil)
	errResp := decodeBody[api.ErrorResponse](t, resp)
	if resp.StatusCode != http.StatusNotFound || errResp.ErrorCode != ErrCodeAttachmentNotFound {
		t.Fatalf("expected attachment_not_found, got status %d body %#v", resp.StatusCode, errResp)
	}
}

func TestCreateAttachmentValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.request(t, http.MethodPost, "/v1/attachments", api.AttachmentCreateRequest{Name: "   "})
	errResp := decodeBody[api.ErrorResponse](t, resp)
	if resp.StatusCode != http.StatusBadRequest || errResp.ErrorCode != ErrCodeInvalidName {
		t.Fatalf("expected invalid name rejection, got %d %#v", resp.StatusCode, errResp)
	}

	resp = ts.request(t, http.MethodPost, "/v1/attachments", api.AttachmentCreateRequest{Name: "ok", Date: "31-12-2024"})
	errResp = decodeBody[api.ErrorResponse](t, resp)
	if resp.StatusCode != http.StatusBadRequest || errResp.ErrorCode != ErrCodeInvalidDate {
		t.Fatalf("expected invalid date rejection, got %d %#v", resp.StatusCode, errResp)
	}
}

func TestUploadAttachmentMultipart(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("name", "Contract"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	fw, err := mw.CreateFormFile("file", "contract.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("pdf bytes")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, ts.http.URL+"/v1/attachments/upload", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload: status %d", resp.StatusCode)
	}
	created := decodeBody[models.Attachment](t, resp)
	if created.Name != "Contract" || created.FileName == "" {
		t.Fatalf("unexpected upload result %#v", created)
	}

	fileResp := ts.request(t, http.MethodGet, "/v1/files/"+created.FileName, nil)
	defer fileResp.Body.Close()
	data, _ := io.ReadAll(fileResp.Body)
	if string(data) != "pdf bytes" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestCollectionMembershipRoutes(t *testing.T) {
	ts := newTestServer(t)

	attachment := ts.createAttachment(t, "Receipt")
	resp := ts.request(t, http.MethodPost, "/v1/collections", api.CollectionCreateRequest{Name: "Taxes"})
	collection := decodeBody[models.Collection](t, resp)

	resp = ts.request(t, http.MethodPut, fmt.Sprintf("/v1/collections/%d/attachments/%d", collection.ID, attachment.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("add membership: status %d", resp.StatusCode)
	}

	resp = ts.request(t, http.MethodGet, "/v1/collections", nil)
	collections := decodeBody[[]models.Collection](t, resp)
	if len(collections) != 1 || collections[0].Count != 1 {
		t.Fatalf("expected derived count 1, got %#v", collections)
	}

	resp = ts.request(t, http.MethodGet, fmt.Sprintf("/v1/attachments/%d/collections", attachment.ID), nil)
	refs := decodeBody[[]models.CollectionRef](t, resp)
	if len(refs) != 1 || refs[0].Name != "Taxes" {
		t.Fatalf("unexpected membership %#v", refs)
	}

	resp = ts.request(t, http.MethodPut, fmt.Sprintf("/v1/collections/%d/attachments/%d", 999, attachment.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing collection, got %d", resp.StatusCode)
	}

	resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/v1/collections/%d/attachments/%d", collection.ID, attachment.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("remove membership: status %d", resp.StatusCode)
	}
}

func TestSessionStateRoutes(t *testing.T) {
	ts := newTestServer(t)

	invoice := ts.createAttachment(t, "Invoice 2024")
	ts.createAttachment(t, "Receipt")

	resp := ts.request(t, http.MethodPut, "/v1/search", api.SearchRequest{Text: "invoice"})
	snap := decodeBody[state.Snapshot](t, resp)
	if len(snap.FilteredAttachments) != 1 || snap.FilteredAttachments[0].ID != invoice.ID {
		t.Fatalf("unexpected filtered view %#v", snap.FilteredAttachments)
	}

	resp = ts.request(t, http.MethodPut, "/v1/selection", api.SelectRequest{ID: &invoice.ID})
	snap = decodeBody[state.Snapshot](t, resp)
	if snap.SelectedAttachment == nil || snap.SelectedAttachment.ID != invoice.ID {
		t.Fatalf("unexpected selection %#v", snap.SelectedAttachment)
	}

	// One filtered item: next wraps onto itself.
	resp = ts.request(t, http.MethodPost, "/v1/selection/next", nil)
	snap = decodeBody[state.Snapshot](t, resp)
	if snap.SelectedAttachment == nil || snap.SelectedAttachment.ID != invoice.ID {
		t.Fatalf("unexpected selection after next %#v", snap.SelectedAttachment)
	}

	resp = ts.request(t, http.MethodPut, "/v1/selection", api.SelectRequest{ID: nil})
	snap = decodeBody[state.Snapshot](t, resp)
	if snap.SelectedAttachment != nil {
		t.Fatalf("expected cleared selection, got %#v", snap.SelectedAttachment)
	}
}

func TestDownloadAttachmentCancelled(t *testing.T) {
	ts := newTestServer(t)
	ts.shell.cancel = true

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("name", "Doc")
	fw, _ := mw.CreateFormFile("file", "doc.txt")
	fw.Write([]byte("x"))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.http.URL+"/v1/attachments/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	created := decodeBody[models.Attachment](t, resp)

	resp = ts.request(t, http.MethodPost, fmt.Sprintf("/v1/attachments/%d/download", created.ID), nil)
	dl := decodeBody[api.DownloadResponse](t, resp)
	if resp.StatusCode != http.StatusOK || !dl.Cancelled {
		t.Fatalf("expected cancelled download, got %d %#v", resp.StatusCode, dl)
	}
}

func TestSweepRoute(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("name", "1700000000000_orphan.txt")
	fw, _ := mw.CreateFormFile("file", "orphan.txt")
	fw.Write([]byte("x"))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.http.URL+"/v1/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload file: %v", err)
	}
	saved := decodeBody[api.FileSavedResponse](t, resp)
	if saved.Name != "1700000000000_orphan.txt" {
		t.Fatalf("unexpected saved file %#v", saved)
	}

	resp = ts.request(t, http.MethodPost, "/v1/admin/sweep", nil)
	sweep := decodeBody[api.SweepResponse](t, resp)
	if !sweep.DryRun || sweep.Candidates != 1 {
		t.Fatalf("unexpected dry-run sweep %#v", sweep)
	}

	resp = ts.request(t, http.MethodPost, "/v1/admin/sweep?apply=true", nil)
	sweep = decodeBody[api.SweepResponse](t, resp)
	if sweep.Deleted != 1 {
		t.Fatalf("unexpected apply sweep %#v", sweep)
	}
}

func TestHealthAndInfo(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.request(t, http.MethodGet, "/health", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d", resp.StatusCode)
	}

	ts.createAttachment(t, "One")
	resp = ts.request(t, http.MethodGet, "/v1/info", nil)
	info := decodeBody[api.InfoResponse](t, resp)
	if info.Version != "test" || info.AttachmentCount != 1 {
		t.Fatalf("unexpected info %#v", info)
	}
}

func TestListenAddrRefusesRemoteHosts(t *testing.T) {
	if _, err := ListenAddr("http://127.0.0.1:8321"); err != nil {
		t.Fatalf("loopback must be allowed: %v", err)
	}
	if _, err := ListenAddr("http://localhost:8321"); err != nil {
		t.Fatalf("localhost must be allowed: %v", err)
	}
	if _, err := ListenAddr("http://0.0.0.0:8321"); err == nil {
		t.Fatal("expected remote host to be refused")
	}

	t.Setenv(allowRemoteEnvKey, "true")
	if _, err := ListenAddr("http://0.0.0.0:8321"); err != nil {
		t.Fatalf("override must allow remote hosts: %v", err)
	}
}
