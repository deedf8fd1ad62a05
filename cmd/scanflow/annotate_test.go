package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medseg/scanflow/internal/common"
	"github.com/medseg/scanflow/internal/store"
)

func TestEnsureSelection(t *testing.T) {
	selection := store.NewSelection()

	// Empty selection fails validation before any prompt would run.
	err := ensureSelection(selection)
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
	assert.ErrorIs(t, err, common.ErrEmptySelection)

	selection.Toggle("j1_BRATS_006.nii.gz")
	require.NoError(t, ensureSelection(selection))
}
