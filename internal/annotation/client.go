// Package annotation implements the client for the annotation-service
// and training operations the backend proxies.
package annotation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medseg/scanflow/internal/classify"
	"github.com/medseg/scanflow/internal/common"
	"github.com/medseg/scanflow/internal/model"
	"github.com/medseg/scanflow/internal/service"
)

// Client talks to the annotation and training routes of the backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

type dispatchEnvelope struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Tasks   []dispatchTask `json:"tasks"`
	Success bool           `json:"success"`
}

type dispatchTask struct {
	TaskName    string `json:"task_name"`
	RedirectURL string `json:"redirect_url"`
	TaskID      int    `json:"task_id"`
}

type discardEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type correctedEnvelope struct {
	Error          string          `json:"error"`
	CorrectedTasks []correctedTask `json:"correctedTasks"`
}

type correctedTask struct {
	TaskName    string `json:"task_name"`
	NiftiID     string `json:"nifti_id"`
	DatasetType string `json:"dataset_type"`
	TaskID      int    `json:"task_id"`
}

type submitEnvelope struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Results []submitResult `json:"results"`
	Success bool           `json:"success"`
}

type submitResult struct {
	Status    string `json:"status"`
	NewCaseID string `json:"new_case_id"`
	Error     string `json:"error"`
	TaskID    int    `json:"task_id"`
}

type trainEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewClient creates an annotation client for the given backend base URL.
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

// DispatchTasks sends the given scans to the annotation service as new
// tasks, carrying the prompted credentials only inside this request.
func (c *Client) DispatchTasks(ctx context.Context, scanIDs []string, creds service.Credentials) (*service.DispatchResult, error) {
	payload := map[string]any{
		"nifti_ids":     scanIDs,
		"cvat_username": creds.Username,
		"cvat_password": creds.Password,
	}

	var envelope dispatchEnvelope
	if err := c.post(ctx, "/cvat/upload_tasks", payload, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("annotation dispatch failed: %s", envelope.Error)
	}

	result := &service.DispatchResult{Tasks: make([]service.DispatchedTask, 0, len(envelope.Tasks))}
	for _, task := range envelope.Tasks {
		result.Tasks = append(result.Tasks, service.DispatchedTask{
			TaskID:   task.TaskID,
			TaskName: task.TaskName,
			URL:      task.RedirectURL,
		})
	}
	return result, nil
}

// DiscardScans permanently deletes the given scans and their derived
// slices. No credentials are needed; the backend owns the files.
func (c *Client) DiscardScans(ctx context.Context, scanIDs []string) error {
	var envelope discardEnvelope
	if err := c.post(ctx, "/cvat/discard_files", map[string]any{"nifti_ids": scanIDs}, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return fmt.Errorf("discard failed: %s", envelope.Error)
	}
	return nil
}

// ListCorrectedTasks returns the human-corrected tasks. Dataset type
// and display name are re-derived locally from the raw name with the
// same classification rule the predictions view uses, except that
// heart names pass through unrenamed on this screen.
func (c *Client) ListCorrectedTasks(ctx context.Context) ([]model.CorrectedTask, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/cvat/corrected-tasks", nil)
	if err != nil {
		return nil, err
	}

	var envelope correctedEnvelope
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("listing corrected tasks failed: %s", envelope.Error)
	}

	tasks := make([]model.CorrectedTask, 0, len(envelope.CorrectedTasks))
	for _, ct := range envelope.CorrectedTasks {
		raw := rawTaskName(ct.TaskName)
		tasks = append(tasks, model.CorrectedTask{
			TaskID:      ct.TaskID,
			RawName:     raw,
			DisplayName: classify.DisplayName(raw, classify.ViewCorrected),
			ScanID:      ct.NiftiID,
			DatasetType: classify.Classify(raw),
		})
	}
	return tasks, nil
}

// SubmitToDataset promotes corrected tasks into the training dataset.
// The payload carries the display names snapshotted by the caller so
// the dataset keeps whatever the user saw at submission time.
func (c *Client) SubmitToDataset(ctx context.Context, submissions []model.TaskSubmission, creds service.Credentials) ([]service.SubmissionResult, error) {
	taskIDs := make([]int, 0, len(submissions))
	displayNames := make([]string, 0, len(submissions))
	for _, sub := range submissions {
		taskIDs = append(taskIDs, sub.TaskID)
		displayNames = append(displayNames, sub.DisplayName)
	}

	payload := map[string]any{
		"task_ids":      taskIDs,
		"display_names": displayNames,
		"username":      creds.Username,
		"password":      creds.Password,
	}

	var envelope submitEnvelope
	if err := c.post(ctx, "/cvat/send-to-dataset", payload, &envelope); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, fmt.Errorf("dataset submission failed: %s", envelope.Error)
	}

	results := make([]service.SubmissionResult, 0, len(envelope.Results))
	for _, r := range envelope.Results {
		results = append(results, service.SubmissionResult{
			TaskID:    r.TaskID,
			Status:    r.Status,
			NewCaseID: r.NewCaseID,
			Detail:    r.Error,
		})
	}
	return results, nil
}

// StartTraining queues a training run for the given dataset.
func (c *Client) StartTraining(ctx context.Context, req service.TrainingRequest) error {
	payload := map[string]any{
		"dataset_id": req.DatasetID,
		"resolution": string(req.Resolution),
		"folds":      req.Folds,
		"task_ids":   req.TaskIDs,
	}

	var envelope trainEnvelope
	if err := c.post(ctx, "/train-nnunet", payload, &envelope); err != nil {
		return err
	}
	if envelope.Error != "" {
		return fmt.Errorf("training failed to start: %s", envelope.Error)
	}
	return nil
}

// rawTaskName strips the backend's task-name prefix ("Medical Scan -
// <name>"), returning the service-reported case name.
func rawTaskName(taskName string) string {
	if _, after, found := strings.Cut(taskName, " - "); found {
		return strings.TrimSpace(after)
	}
	return taskName
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	slog.Debug("annotation request",
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
		var probe struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &probe) == nil && probe.Error != "" {
			return fmt.Errorf("backend error: %d - %s", resp.StatusCode, probe.Error)
		}
		return fmt.Errorf("backend error: %d - %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
