package store

import (
	"testing"
	"time"

	"github.com/medseg/scanflow/internal/model"
)

func testRecords() []model.ScanRecord {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []model.ScanRecord{
		{ID: "j1_BRATS_006.nii.gz", Filename: "j1_BRATS_006.nii.gz", JobID: "j1", CreatedAt: base},
		{ID: "j2_la_018.nii.gz", Filename: "j2_la_018.nii.gz", JobID: "j2", CreatedAt: base.Add(time.Minute)},
		{ID: "j3_chest_01.nii.gz", Filename: "j3_chest_01.nii.gz", JobID: "j3", CreatedAt: base.Add(2 * time.Minute)},
	}
}

func TestStoreReplaceClassifies(t *testing.T) {
	s := New()
	if err := s.Replace(testRecords()); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	r, ok := s.Get("j1_BRATS_006.nii.gz")
	if !ok {
		t.Fatal("brain record missing after Replace")
	}
	if r.DatasetType != model.DatasetBrain {
		t.Errorf("brain record dataset type = %v", r.DatasetType)
	}

	r, _ = s.Get("j2_la_018.nii.gz")
	if r.DatasetType != model.DatasetHeart {
		t.Errorf("heart record dataset type = %v", r.DatasetType)
	}

	r, _ = s.Get("j3_chest_01.nii.gz")
	if r.DatasetType != model.DatasetUnknown {
		t.Errorf("unknown record dataset type = %v", r.DatasetType)
	}
}

func TestStoreReplaceRejectsDuplicateIDs(t *testing.T) {
	s := New()
	records := testRecords()
	records = append(records, records[0])
	if err := s.Replace(records); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestStoreFilteredAndCounts(t *testing.T) {
	s := New()
	if err := s.Replace(testRecords()); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	if got := len(s.Filtered(FilterBrain)); got != 1 {
		t.Errorf("brain filter returned %d records, want 1", got)
	}
	if got := len(s.Filtered(FilterHeart)); got != 1 {
		t.Errorf("heart filter returned %d records, want 1", got)
	}
	if got := len(s.Filtered(FilterAll)); got != 3 {
		t.Errorf("all filter returned %d records, want 3", got)
	}

	counts := s.Counts()
	if counts[model.DatasetBrain] != 1 || counts[model.DatasetHeart] != 1 || counts[model.DatasetUnknown] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestStoreOrderedByCreation(t *testing.T) {
	s := New()
	records := testRecords()
	// Deliberately shuffled input.
	records[0], records[2] = records[2], records[0]
	if err := s.Replace(records); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	all := s.All()
	if all[0].JobID != "j1" || all[2].JobID != "j3" {
		t.Errorf("records not in creation order: %v, %v, %v", all[0].JobID, all[1].JobID, all[2].JobID)
	}
}

func TestParseFilter(t *testing.T) {
	if f, err := ParseFilter(""); err != nil || f != FilterAll {
		t.Errorf("empty filter = %v, %v", f, err)
	}
	if f, err := ParseFilter("heart"); err != nil || f != FilterHeart {
		t.Errorf("heart filter = %v, %v", f, err)
	}
	if _, err := ParseFilter("lungs"); err == nil {
		t.Error("expected error for unknown filter")
	}
}
