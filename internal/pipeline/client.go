// Package pipeline implements the HTTP client for the inference backend.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/medseg/scanflow/internal/common"
	"github.com/medseg/scanflow/internal/model"
	"github.com/medseg/scanflow/internal/service"
)

// Client talks to the inference backend over its REST surface.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Backend response envelopes. Every remote payload is decoded into a
// tagged success/failure record at this boundary; unknown shapes are
// rejected here and never leak into the workflow.
type uploadEnvelope struct {
	Error   string `json:"error"`
	JobID   string `json:"job_id"`
	Config  string `json:"config"`
	Success bool   `json:"success"`
}

type runEnvelope struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

type listEnvelope struct {
	Error      string      `json:"error"`
	NiftiFiles []niftiInfo `json:"nifti_files"`
	Success    bool        `json:"success"`
}

type niftiInfo struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	JobID     string `json:"jobId"`
	CreatedAt int64  `json:"created_at"`
}

type slicesEnvelope struct {
	Error          string   `json:"error"`
	OriginalSlices []string `json:"original_slices"`
	ResultSlices   []string `json:"result_slices"`
	Success        bool     `json:"success"`
}

type whoamiEnvelope struct {
	User          *whoamiUser `json:"user"`
	Authenticated bool        `json:"authenticated"`
}

type whoamiUser struct {
	Username string `json:"username"`
}

// NewClient creates a pipeline client for the given backend base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, common.ErrMissingConfig
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Upload submits a scan archive with its inference configuration. The
// returned job id and echoed config must be threaded verbatim into
// RunInference.
func (c *Client) Upload(ctx context.Context, archivePath, config, username string) (*service.UploadResult, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(archivePath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err = io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if err = writer.WriteField("config", config); err != nil {
		return nil, fmt.Errorf("failed to write config field: %w", err)
	}
	if username != "" {
		if err = writer.WriteField("username", username); err != nil {
			return nil, fmt.Errorf("failed to write username field: %w", err)
		}
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/inference/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var envelope uploadEnvelope
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("upload rejected: %s", envelope.Error)
	}
	if envelope.JobID == "" {
		return nil, fmt.Errorf("upload response missing job id")
	}

	return &service.UploadResult{JobID: envelope.JobID, Config: envelope.Config}, nil
}

// RunInference starts segmentation for an uploaded job.
func (c *Client) RunInference(ctx context.Context, jobID, config string) error {
	payload, err := json.Marshal(map[string]string{
		"job_id": jobID,
		"config": config,
	})
	if err != nil {
		return fmt.Errorf("failed to encode run request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/inference/run", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var envelope runEnvelope
	if err := c.do(req, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return fmt.Errorf("inference failed: %s", envelope.Error)
	}
	return nil
}

// ListScans returns every known scan record. When the backend omits
// creation timestamps the listing order is preserved by assigning
// monotonically increasing ones.
func (c *Client) ListScans(ctx context.Context) ([]model.ScanRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/inference/nifti_files", nil)
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("listing scans failed: %s", envelope.Error)
	}

	base := time.Now().UTC()
	records := make([]model.ScanRecord, 0, len(envelope.NiftiFiles))
	for i, nf := range envelope.NiftiFiles {
		createdAt := base.Add(time.Duration(i) * time.Millisecond)
		if nf.CreatedAt > 0 {
			createdAt = time.Unix(nf.CreatedAt, 0).UTC()
		}
		records = append(records, model.ScanRecord{
			ID:        nf.ID,
			Filename:  nf.Filename,
			JobID:     nf.JobID,
			CreatedAt: createdAt,
			State:     model.StateReviewable,
		})
	}
	return records, nil
}

// FetchComparisonSlices returns the paired original/result slice
// sequences for one scan.
func (c *Client) FetchComparisonSlices(ctx context.Context, scanID, jobID string) ([]string, []string, error) {
	query := url.Values{}
	query.Set("nifti_id", scanID)
	query.Set("job_id", jobID)

	req, err := c.newRequest(ctx, http.MethodGet, "/inference/comparison_slices?"+query.Encode(), nil)
	if err != nil {
		return nil, nil, err
	}

	var envelope slicesEnvelope
	if err := c.do(req, &envelope); err != nil {
		return nil, nil, err
	}
	if !envelope.Success {
		return nil, nil, fmt.Errorf("fetching slices failed: %s", envelope.Error)
	}
	return envelope.OriginalSlices, envelope.ResultSlices, nil
}

// Whoami checks the session. An unauthenticated response is not an
// error; a 401 maps to ErrSessionExpired like every other call.
func (c *Client) Whoami(ctx context.Context) (*service.Identity, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/user", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// The session-check route reports "not signed in" as a 401 with an
	// authenticated:false body, which is an answer rather than a fault.
	if resp.StatusCode == http.StatusUnauthorized {
		return &service.Identity{Authenticated: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("session check failed: %d - %s", resp.StatusCode, string(body))
	}

	var envelope whoamiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}

	identity := &service.Identity{Authenticated: envelope.Authenticated}
	if envelope.User != nil {
		identity.Username = envelope.User.Username
	}
	return identity, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do executes the request and decodes the body into out, translating
// transport-level failures into the shared error taxonomy.
func (c *Client) do(req *http.Request, out any) error {
	slog.Debug("pipeline request",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", req.Header.Get("X-Request-ID"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrSessionExpired
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend error: %d - %s", resp.StatusCode, errorField(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorField(body []byte) string {
	var probe struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &probe) == nil && probe.Error != "" {
		return probe.Error
	}
	return string(body)
}
