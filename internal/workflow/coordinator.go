// Package workflow coordinates the bulk pipeline actions: upload,
// annotation dispatch, discard, dataset submission, and training.
// Every action validates locally before any network call, mutates
// local state only after the backend confirms, and refreshes the scan
// store wholesale from the backend afterwards.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/medseg/scanflow/internal/common"
	"github.com/medseg/scanflow/internal/model"
	"github.com/medseg/scanflow/internal/service"
	"github.com/medseg/scanflow/internal/store"
)

// Action names used for in-flight guarding and journal records.
const (
	ActionUpload   = "upload"
	ActionDispatch = "dispatch"
	ActionDiscard  = "discard"
	ActionSubmit   = "submit"
	ActionTrain    = "train"
)

// Coordinator owns the scan store and selection and runs all bulk
// actions against the backend clients.
type Coordinator struct {
	pipeline   service.PipelineClient
	annotation service.AnnotationClient
	journal    service.Journal
	scans      *store.Store
	selection  *store.Selection

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewCoordinator wires a coordinator. journal may be nil when history
// recording is disabled.
func NewCoordinator(pipeline service.PipelineClient, annotation service.AnnotationClient, journal service.Journal) *Coordinator {
	return &Coordinator{
		pipeline:   pipeline,
		annotation: annotation,
		journal:    journal,
		scans:      store.New(),
		selection:  store.NewSelection(),
		inFlight:   make(map[string]bool),
	}
}

// Scans exposes the scan store for views.
func (c *Coordinator) Scans() *store.Store { return c.scans }

// Selection exposes the selection set for views.
func (c *Coordinator) Selection() *store.Selection { return c.selection }

// begin marks an action in flight. A second trigger of the same
// action while the first is pending is rejected, not queued.
func (c *Coordinator) begin(action string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[action] {
		return fmt.Errorf("%w: %s", common.ErrActionInFlight, action)
	}
	c.inFlight[action] = true
	return nil
}

func (c *Coordinator) end(action string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, action)
}

// ensureTransition validates that every selected record's lifecycle
// state permits moving to the target state. Runs before any network
// call; a stale or illegal selection fails the whole action.
func (c *Coordinator) ensureTransition(ids []string, to model.LifecycleState) error {
	for _, id := range ids {
		record, ok := c.scans.Get(id)
		if !ok {
			return common.NewValidationError(fmt.Errorf("unknown scan %q", id))
		}
		if !model.CanTransition(record.State, to) {
			return common.NewValidationError(fmt.Errorf(
				"scan %s is %s and cannot become %s", id, record.State, to))
		}
	}
	return nil
}

// RefreshScans replaces the store with the backend's current scan
// list and prunes selected ids that no longer exist.
func (c *Coordinator) RefreshScans(ctx context.Context) error {
	records, err := c.pipeline.ListScans(ctx)
	if err != nil {
		return fmt.Errorf("refreshing scans: %w", err)
	}
	if err := c.scans.Replace(records); err != nil {
		return fmt.Errorf("refreshing scans: %w", err)
	}
	c.selection.Prune(c.scans.Has)
	return nil
}

// UploadAndRun uploads a scan archive and, unless runAfter is false,
// starts inference with the configuration the backend echoed back.
func (c *Coordinator) UploadAndRun(ctx context.Context, archivePath, config, username string, runAfter bool) (*service.UploadResult, error) {
	if archivePath == "" {
		return nil, common.NewValidationError(common.ErrMissingFile)
	}
	if _, err := os.Stat(archivePath); err != nil {
		return nil, common.NewValidationError(fmt.Errorf("%w: %s", common.ErrMissingFile, archivePath))
	}

	if err := c.begin(ActionUpload); err != nil {
		return nil, err
	}
	defer c.end(ActionUpload)

	result, err := c.pipeline.Upload(ctx, archivePath, config, username)
	if err != nil {
		return nil, fmt.Errorf("uploading archive: %w", err)
	}

	if runAfter {
		// The echoed config is authoritative, not the one we sent.
		if err := c.pipeline.RunInference(ctx, result.JobID, result.Config); err != nil {
			return result, fmt.Errorf("starting inference for job %s: %w", result.JobID, err)
		}
	}

	c.record(ctx, ActionUpload, []string{result.JobID}, archivePath)
	return result, nil
}

// DispatchToAnnotation sends every selected scan to the annotation
// service. On success the selection is cleared and the store
// refreshed; on any failure both are left exactly as they were.
func (c *Coordinator) DispatchToAnnotation(ctx context.Context, creds service.Credentials) (*service.DispatchResult, error) {
	if c.selection.Count() == 0 {
		return nil, common.NewValidationError(common.ErrEmptySelection)
	}
	if !creds.Valid() {
		return nil, common.NewValidationError(common.ErrMissingCredentials)
	}
	ids := c.selection.IDs()
	if err := c.ensureTransition(ids, model.StateAnnotationDispatched); err != nil {
		return nil, err
	}

	if err := c.begin(ActionDispatch); err != nil {
		return nil, err
	}
	defer c.end(ActionDispatch)

	result, err := c.annotation.DispatchTasks(ctx, ids, creds)
	if err != nil {
		return nil, fmt.Errorf("dispatching %d scans: %w", len(ids), err)
	}

	c.record(ctx, ActionDispatch, ids, fmt.Sprintf("%d tasks created", len(result.Tasks)))
	c.selection.Clear()
	if err := c.RefreshScans(ctx); err != nil {
		slog.Warn("Scan refresh after dispatch failed", "error", err)
	}
	return result, nil
}

// Discard permanently deletes every selected scan. The caller is
// responsible for confirming with the user first.
func (c *Coordinator) Discard(ctx context.Context) ([]string, error) {
	if c.selection.Count() == 0 {
		return nil, common.NewValidationError(common.ErrEmptySelection)
	}
	ids := c.selection.IDs()
	if err := c.ensureTransition(ids, model.StateDiscarded); err != nil {
		return nil, err
	}

	if err := c.begin(ActionDiscard); err != nil {
		return nil, err
	}
	defer c.end(ActionDiscard)

	if err := c.annotation.DiscardScans(ctx, ids); err != nil {
		return nil, fmt.Errorf("discarding %d scans: %w", len(ids), err)
	}

	c.record(ctx, ActionDiscard, ids, "")
	c.selection.Clear()
	if err := c.RefreshScans(ctx); err != nil {
		slog.Warn("Scan refresh after discard failed", "error", err)
	}
	return ids, nil
}

// SubmitToDataset promotes corrected tasks into the training dataset.
// Display names are snapshotted into the submissions by the caller so
// a rename elsewhere cannot change what the backend records.
func (c *Coordinator) SubmitToDataset(ctx context.Context, submissions []model.TaskSubmission, creds service.Credentials) ([]service.SubmissionResult, error) {
	if len(submissions) == 0 {
		return nil, common.NewValidationError(common.ErrEmptySelection)
	}
	if !creds.Valid() {
		return nil, common.NewValidationError(common.ErrMissingCredentials)
	}

	if err := c.begin(ActionSubmit); err != nil {
		return nil, err
	}
	defer c.end(ActionSubmit)

	results, err := c.annotation.SubmitToDataset(ctx, submissions, creds)
	if err != nil {
		return nil, fmt.Errorf("submitting %d tasks: %w", len(submissions), err)
	}

	succeeded := 0
	for _, r := range results {
		if r.Succeeded() {
			succeeded++
		}
	}
	c.record(ctx, ActionSubmit, nil, fmt.Sprintf("%d/%d tasks accepted", succeeded, len(results)))
	return results, nil
}

// StartTraining queues a training run for the given dataset.
func (c *Coordinator) StartTraining(ctx context.Context, req service.TrainingRequest) error {
	if !model.ValidResolution(req.Resolution) {
		return common.NewValidationError(fmt.Errorf("%w: %q", common.ErrInvalidResolution, req.Resolution))
	}
	if req.DatasetID <= 0 {
		return common.NewValidationError(fmt.Errorf("dataset id must be positive, got %d", req.DatasetID))
	}
	if len(req.TaskIDs) == 0 {
		return common.NewValidationError(common.ErrEmptySelection)
	}

	if err := c.begin(ActionTrain); err != nil {
		return err
	}
	defer c.end(ActionTrain)

	if err := c.annotation.StartTraining(ctx, req); err != nil {
		return fmt.Errorf("queueing training for dataset %d: %w", req.DatasetID, err)
	}

	c.record(ctx, ActionTrain, nil,
		fmt.Sprintf("dataset %d, %s, folds %s", req.DatasetID, req.Resolution, req.Folds))
	return nil
}

// record writes to the journal when one is configured. Journal
// failures are logged and swallowed; the journal is an audit trail,
// never a gate on pipeline actions.
func (c *Coordinator) record(ctx context.Context, action string, ids []string, detail string) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordAction(ctx, action, ids, detail); err != nil {
		slog.Warn("Failed to record action in journal", "action", action, "error", err)
	}
}
