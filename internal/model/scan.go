// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"time"
)

// DatasetType identifies which training dataset a scan belongs to,
// derived from its filename and never user-editable.
type DatasetType string

const (
	DatasetBrain   DatasetType = "brain"
	DatasetHeart   DatasetType = "heart"
	DatasetUnknown DatasetType = "unknown"
)

// DatasetID returns the numeric dataset identifier the training
// service expects for this dataset type.
func (d DatasetType) DatasetID() (int, error) {
	switch d {
	case DatasetBrain:
		return 1, nil
	case DatasetHeart:
		return 2, nil
	default:
		return 0, fmt.Errorf("no dataset id for type %q", d)
	}
}

// LifecycleState tracks where a scan is in the annotation pipeline.
type LifecycleState string

const (
	StateUploading            LifecycleState = "uploading"
	StateInferenceRunning     LifecycleState = "inference_running"
	StateReviewable           LifecycleState = "reviewable"
	StateAnnotationDispatched LifecycleState = "annotation_dispatched"
	StateDiscarded            LifecycleState = "discarded"
	StateCorrected            LifecycleState = "corrected"
	StateDatasetSubmitted     LifecycleState = "dataset_submitted"
	StateTrainingQueued       LifecycleState = "training_queued"
)

// legalTransitions maps each state to the states it may advance to.
// Terminal states map to nil.
var legalTransitions = map[LifecycleState][]LifecycleState{
	StateUploading:            {StateInferenceRunning},
	StateInferenceRunning:     {StateReviewable},
	StateReviewable:           {StateAnnotationDispatched, StateDiscarded},
	StateAnnotationDispatched: {StateCorrected},
	StateDiscarded:            nil,
	StateCorrected:            {StateDatasetSubmitted},
	StateDatasetSubmitted:     {StateTrainingQueued},
	StateTrainingQueued:       nil,
}

// CanTransition reports whether moving from one lifecycle state to
// another is legal.
func CanTransition(from, to LifecycleState) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a state has no outgoing transitions.
func (s LifecycleState) Terminal() bool {
	return len(legalTransitions[s]) == 0
}

// ResolutionMode selects the network configuration for a training run.
type ResolutionMode string

const (
	Resolution2D     ResolutionMode = "2d"
	Resolution3D     ResolutionMode = "3d"
	Resolution3DFull ResolutionMode = "3d_fullres"
)

// ValidResolution reports whether the given mode is one the training
// service accepts.
func ValidResolution(mode ResolutionMode) bool {
	switch mode {
	case Resolution2D, Resolution3D, Resolution3DFull:
		return true
	}
	return false
}

// ScanRecord is one uploaded scan and its derived pipeline state.
type ScanRecord struct {
	CreatedAt   time.Time
	ID          string
	Filename    string
	JobID       string
	DatasetType DatasetType
	State       LifecycleState
}

// Validate checks the invariants every stored record must satisfy.
func (r *ScanRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("scan id is required")
	}
	if r.Filename == "" {
		return fmt.Errorf("scan filename is required")
	}
	return nil
}
