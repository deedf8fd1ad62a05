package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()

	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	require.NoError(t, j.Migrate(context.Background()))
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndListActions(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.RecordAction(ctx, "upload", []string{"j1_BRATS_006.nii.gz"}, "brain_scans.zip"))
	require.NoError(t, j.RecordAction(ctx, "dispatch", []string{"j1_BRATS_006.nii.gz", "j2_la_018.nii.gz"}, "2 tasks"))

	entries, err := j.ListActions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "dispatch", entries[0].Action)
	assert.Equal(t, "2 tasks", entries[0].Detail)
	assert.Equal(t, []string{"j1_BRATS_006.nii.gz", "j2_la_018.nii.gz"}, entries[0].IDs)
	assert.Equal(t, "upload", entries[1].Action)
	assert.False(t, entries[0].RecordedAt.IsZero())
}

func TestListActionsLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	for _, action := range []string{"upload", "dispatch", "discard"} {
		require.NoError(t, j.RecordAction(ctx, action, nil, ""))
	}

	entries, err := j.ListActions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "discard", entries[0].Action)
}

func TestRecordActionRequiresAction(t *testing.T) {
	j := newTestJournal(t)

	err := j.RecordAction(context.Background(), "", nil, "")
	require.Error(t, err)
}

func TestMigrateIdempotent(t *testing.T) {
	j := newTestJournal(t)
	require.NoError(t, j.Migrate(context.Background()))
}

func TestNewSQLiteJournalEmptyPath(t *testing.T) {
	_, err := NewSQLiteJournal("")
	require.Error(t, err)
}
