package model

import "fmt"

// CorrectedTask is a scan whose predicted segmentation has been
// human-corrected by the annotation service.
type CorrectedTask struct {
	TaskID      int
	RawName     string
	DisplayName string
	ScanID      string
	DatasetType DatasetType
}

// Validate checks that the task carries the identifiers dataset
// submission needs.
func (t *CorrectedTask) Validate() error {
	if t.TaskID <= 0 {
		return fmt.Errorf("task id is required")
	}
	if t.RawName == "" {
		return fmt.Errorf("task raw name is required")
	}
	return nil
}

// TaskSubmission pairs a task id with the display name snapshotted at
// submission time. The name is captured here rather than re-derived so
// later changes to the derivation rules cannot rename already-submitted
// cases.
type TaskSubmission struct {
	DisplayName string
	TaskID      int
}
