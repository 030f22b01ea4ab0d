package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"attachmi/internal/models"
	"attachmi/internal/state"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "ATTACHMI_HTTP_TIMEOUT"
)

// Client is a simple HTTP client for the attachmi API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) GetInfo(ctx context.Context) (InfoResponse, error) {
	var resp InfoResponse
	err := c.do(ctx, http.MethodGet, "/v1/info", nil, &resp)
	return resp, err
}

// State returns the full session state snapshot.
func (c *Client) State(ctx context.Context) (state.Snapshot, error) {
	var snap state.Snapshot
	err := c.do(ctx, http.MethodGet, "/v1/state", nil, &snap)
	return snap, err
}

// SetSearch sets the session search text and returns the resulting state.
func (c *Client) SetSearch(ctx context.Context, text string) (state.Snapshot, error) {
	var snap state.Snapshot
	err := c.do(ctx, http.MethodPut, "/v1/search", SearchRequest{Text: text}, &snap)
	return snap, err
}

// Select sets the session selection; a nil id clears it.
func (c *Client) Select(ctx context.Context, id *int64) (state.Snapshot, error) {
	var snap state.Snapshot
	err := c.do(ctx, http.MethodPut, "/v1/selection", SelectRequest{ID: id}, &snap)
	return snap, err
}

// SelectNext advances the selection over the filtered view.
func (c *Client) SelectNext(ctx context.Context) (state.Snapshot, error) {
	var snap state.Snapshot
	err := c.do(ctx, http.MethodPost, "/v1/selection/next", nil, &snap)
	return snap, err
}

// SelectPrevious retreats the selection over the filtered view.
func (c *Client) SelectPrevious(ctx context.Context) (state.Snapshot, error) {
	var snap state.Snapshot
	err := c.do(ctx, http.MethodPost, "/v1/selection/previous", nil, &snap)
	return snap, err
}

func (c *Client) ListAttachments(ctx context.Context) ([]models.Attachment, error) {
	var resp []models.Attachment
	err := c.do(ctx, http.MethodGet, "/v1/attachments", nil, &resp)
	return resp, err
}

func (c *Client) GetAttachment(ctx context.Context, id int64) (models.Attachment, error) {
	var resp models.Attachment
	err := c.do(ctx, http.MethodGet, "/v1/attachments/"+formatID(id), nil, &resp)
	return resp, err
}

func (c *Client) CreateAttachment(ctx context.Context, req AttachmentCreateRequest) (models.Attachment, error) {
	var resp models.Attachment
	err := c.do(ctx, http.MethodPost, "/v1/attachments", req, &resp)
	return resp, err
}

func (c *Client) UpdateAttachment(ctx context.Context, id int64, req AttachmentUpdateRequest) (models.Attachment, error) {
	var resp models.Attachment
	err := c.do(ctx, http.MethodPatch, "/v1/attachments/"+formatID(id), req, &resp)
	return resp, err
}

func (c *Client) DeleteAttachment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/v1/attachments/"+formatID(id), nil, nil)
}

// UploadAttachment creates an attachment from file content in one call.
func (c *Client) UploadAttachment(ctx context.Context, displayName, fileName string, content io.Reader) (models.Attachment, error) {
	var resp models.Attachment

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("name", displayName); err != nil {
		return resp, err
	}
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return resp, err
	}
	if _, err := io.Copy(fw, content); err != nil {
		return resp, err
	}
	if err := mw.Close(); err != nil {
		return resp, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/attachments/upload", &buf)
	if err != nil {
		return resp, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	httpResp, err := c.http.Do(req)
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode >= 400 {
		return resp, decodeError(httpResp)
	}
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}

// OpenAttachment asks the server to open the stored file on its host.
func (c *Client) OpenAttachment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/v1/attachments/"+formatID(id)+"/open", nil, nil)
}

// DownloadAttachment asks the server to copy the stored file to a download
// destination on its host.
func (c *Client) DownloadAttachment(ctx context.Context, id int64) (DownloadResponse, error) {
	var resp DownloadResponse
	err := c.do(ctx, http.MethodPost, "/v1/attachments/"+formatID(id)+"/download", nil, &resp)
	return resp, err
}

func (c *Client) ListCollections(ctx context.Context) ([]models.Collection, error) {
	var resp []models.Collection
	err := c.do(ctx, http.MethodGet, "/v1/collections", nil, &resp)
	return resp, err
}

func (c *Client) CreateCollection(ctx context.Context, req CollectionCreateRequest) (models.Collection, error) {
	var resp models.Collection
	err := c.do(ctx, http.MethodPost, "/v1/collections", req, &resp)
	return resp, err
}

func (c *Client) DeleteCollection(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/v1/collections/"+formatID(id), nil, nil)
}

func (c *Client) CollectionAttachments(ctx context.Context, id int64) ([]models.Attachment, error) {
	var resp []models.Attachment
	err := c.do(ctx, http.MethodGet, "/v1/collections/"+formatID(id)+"/attachments", nil, &resp)
	return resp, err
}

func (c *Client) AttachmentCollections(ctx context.Context, id int64) ([]models.CollectionRef, error) {
	var resp []models.CollectionRef
	err := c.do(ctx, http.MethodGet, "/v1/attachments/"+formatID(id)+"/collections", nil, &resp)
	return resp, err
}

func (c *Client) AddToCollection(ctx context.Context, collectionID, attachmentID int64) error {
	path := "/v1/collections/" + formatID(collectionID) + "/attachments/" + formatID(attachmentID)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

func (c *Client) RemoveFromCollection(ctx context.Context, collectionID, attachmentID int64) error {
	path := "/v1/collections/" + formatID(collectionID) + "/attachments/" + formatID(attachmentID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Sweep runs an orphan-blob sweep; apply=false is a dry run.
func (c *Client) Sweep(ctx context.Context, apply bool) (SweepResponse, error) {
	var resp SweepResponse
	path := "/v1/admin/sweep"
	if apply {
		path += "?apply=true"
	}
	err := c.do(ctx, http.MethodPost, path, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		if errResp.Code != "" {
			return fmt.Errorf("%s: %s", errResp.Code, errResp.Error)
		}
		return fmt.Errorf("%s", errResp.Error)
	}
	return fmt.Errorf("api error: %s", resp.Status)
}

func formatID(id int64) string {
	return url.PathEscape(strconv.FormatInt(id, 10))
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
