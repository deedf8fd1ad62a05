// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/medseg/scanflow/internal/model"
)

// Credentials carry the annotation-service login collected from a
// short-lived prompt. They live only for the duration of the call that
// needs them and are never written to disk.
type Credentials struct {
	Username string
	Password string
}

// Valid reports whether both fields are present.
func (c Credentials) Valid() bool {
	return c.Username != "" && c.Password != ""
}

// UploadResult is the backend's answer to an archive upload. The
// echoed config must be passed verbatim to the inference run.
type UploadResult struct {
	JobID  string
	Config string
}

// Identity is the session-check result. Username tags subsequent
// uploads when authenticated.
type Identity struct {
	Username      string
	Authenticated bool
}

// DispatchedTask describes one task the annotation service created.
type DispatchedTask struct {
	TaskName string
	URL      string
	TaskID   int
}

// DispatchResult reports a bulk annotation dispatch.
type DispatchResult struct {
	Tasks []DispatchedTask
}

// SubmissionResult reports one task's dataset submission.
type SubmissionResult struct {
	Status    string
	NewCaseID string
	Detail    string
	TaskID    int
}

// Succeeded reports whether this submission went through.
func (r SubmissionResult) Succeeded() bool {
	return r.Status == "success"
}

// TrainingRequest configures a training run.
type TrainingRequest struct {
	Folds      string
	Resolution model.ResolutionMode
	DatasetID  int
	TaskIDs    []int
}

// PipelineClient is the contract for the inference backend.
type PipelineClient interface {
	// Upload submits a scan archive and returns the job identifier the
	// inference run must consume verbatim.
	Upload(ctx context.Context, archivePath, config, username string) (*UploadResult, error)
	// RunInference starts segmentation for an uploaded job.
	RunInference(ctx context.Context, jobID, config string) error
	// ListScans returns every known scan record.
	ListScans(ctx context.Context) ([]model.ScanRecord, error)
	// FetchComparisonSlices returns the paired slice sequences for a scan.
	FetchComparisonSlices(ctx context.Context, scanID, jobID string) (original, result []string, err error)
	// Whoami checks the session and returns the authenticated username.
	Whoami(ctx context.Context) (*Identity, error)
}

// AnnotationClient is the contract for the annotation and training
// operations the backend proxies.
type AnnotationClient interface {
	// DispatchTasks sends the given scans to the annotation service.
	DispatchTasks(ctx context.Context, scanIDs []string, creds Credentials) (*DispatchResult, error)
	// DiscardScans permanently deletes the given scans and their slices.
	DiscardScans(ctx context.Context, scanIDs []string) error
	// ListCorrectedTasks returns the human-corrected tasks.
	ListCorrectedTasks(ctx context.Context) ([]model.CorrectedTask, error)
	// SubmitToDataset promotes corrected tasks into the training dataset.
	SubmitToDataset(ctx context.Context, submissions []model.TaskSubmission, creds Credentials) ([]SubmissionResult, error)
	// StartTraining queues a training run.
	StartTraining(ctx context.Context, req TrainingRequest) error
}

// Journal records completed bulk actions locally for the history view.
// It is an audit log only, never a source of truth for scan state.
type Journal interface {
	RecordAction(ctx context.Context, action string, ids []string, detail string) error
	ListActions(ctx context.Context, limit int) ([]JournalEntry, error)
	Close() error
}

// JournalEntry is one recorded bulk action.
type JournalEntry struct {
	RecordedAt time.Time
	Action     string
	Detail     string
	IDs        []string
}
