package store

import (
	"testing"
)

func TestSelectionToggleSymmetric(t *testing.T) {
	sel := NewSelection()

	sel.Toggle("a")
	if !sel.IsSelected("a") {
		t.Error("toggle should select an absent id")
	}
	sel.Toggle("a")
	if sel.IsSelected("a") {
		t.Error("toggle should deselect a present id")
	}
	if sel.Count() != 0 {
		t.Errorf("count = %d, want 0", sel.Count())
	}
}

func TestSelectionClear(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("a")
	sel.Toggle("b")
	sel.Clear()
	if sel.Count() != 0 {
		t.Errorf("count after clear = %d, want 0", sel.Count())
	}
}

func TestSelectionSurvivesFilterChange(t *testing.T) {
	s := New()
	if err := s.Replace(testRecords()); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	sel := NewSelection()

	// Select the brain record, then view only heart records. The brain
	// record is no longer visible but must stay selected.
	brainID := "j1_BRATS_006.nii.gz"
	sel.Toggle(brainID)

	for _, r := range s.Filtered(FilterHeart) {
		if r.ID == brainID {
			t.Fatal("brain record should be hidden by heart filter")
		}
	}
	if !sel.IsSelected(brainID) {
		t.Error("selection dropped by filter change")
	}

	// Switching back to the full view still shows it selected.
	if got := len(s.Filtered(FilterAll)); got != 3 {
		t.Fatalf("full listing has %d records, want 3", got)
	}
	if !sel.IsSelected(brainID) {
		t.Error("selection dropped after filter restored")
	}
}

func TestSelectionIDsSorted(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("c")
	sel.Toggle("a")
	sel.Toggle("b")

	ids := sel.IDs()
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("IDs() = %v, want sorted [a b c]", ids)
	}
}

func TestSelectionPrune(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("keep")
	sel.Toggle("drop")

	sel.Prune(func(id string) bool { return id == "keep" })

	if !sel.IsSelected("keep") {
		t.Error("pruned an id the predicate kept")
	}
	if sel.IsSelected("drop") {
		t.Error("kept an id the predicate rejected")
	}
}
