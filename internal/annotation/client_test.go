package annotation

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medseg/scanflow/internal/common"
	"github.com/medseg/scanflow/internal/model"
	"github.com/medseg/scanflow/internal/service"
)

var testCreds = service.Credentials{Username: "ravi", Password: "secret"}

func TestDispatchTasks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cvat/upload_tasks", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ravi", payload["cvat_username"])
		assert.Equal(t, "secret", payload["cvat_password"])
		assert.Len(t, payload["nifti_ids"], 2)

		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "Successfully uploaded 2 task(s)",
			"tasks": [
				{"task_id": 11, "task_name": "Medical Scan - BRATS_006", "redirect_url": "https://annotator/tasks/11"},
				{"task_id": 12, "task_name": "Medical Scan - la_018", "redirect_url": "https://annotator/tasks/12"}
			]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	result, err := client.DispatchTasks(context.Background(),
		[]string{"j1_BRATS_006.nii.gz", "j2_la_018.nii.gz"}, testCreds)
	require.NoError(t, err)
	require.Len(t, result.Tasks, 2)
	assert.Equal(t, 11, result.Tasks[0].TaskID)
	assert.Equal(t, "https://annotator/tasks/11", result.Tasks[0].URL)
}

func TestDispatchTasksAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success": false, "error": "CVAT authentication failed"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.DispatchTasks(context.Background(), []string{"j1_BRATS_006.nii.gz"}, testCreds)
	require.Error(t, err)
	assert.True(t, common.IsSessionExpired(err))
}

func TestDiscardScans(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cvat/discard_files", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "message": "Successfully deleted 4 files"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)
	require.NoError(t, client.DiscardScans(context.Background(), []string{"j1_BRATS_006.nii.gz"}))
}

func TestDiscardScansFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success": false, "error": "disk error"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	err = client.DiscardScans(context.Background(), []string{"j1_BRATS_006.nii.gz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk error")
}

func TestListCorrectedTasks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cvat/corrected-tasks", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"correctedTasks": [
				{"task_id": 11, "task_name": "Medical Scan - BRATS_006", "nifti_id": "j1_BRATS_006.nii.gz", "dataset_type": "Dataset001_BrainTumour"},
				{"task_id": 12, "task_name": "Medical Scan - la_018", "nifti_id": "j2_la_018.nii.gz", "dataset_type": "Dataset002_Heart"}
			]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	tasks, err := client.ListCorrectedTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	brain := tasks[0]
	assert.Equal(t, "BRATS_006", brain.RawName)
	assert.Equal(t, "Case 6", brain.DisplayName)
	assert.Equal(t, model.DatasetBrain, brain.DatasetType)

	// Heart names are not renamed on the corrected-tasks screen.
	heart := tasks[1]
	assert.Equal(t, "la_018", heart.RawName)
	assert.Equal(t, "la_018", heart.DisplayName)
	assert.Equal(t, model.DatasetHeart, heart.DatasetType)
}

func TestSubmitToDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cvat/send-to-dataset", r.URL.Path)

		var payload struct {
			TaskIDs      []int    `json:"task_ids"`
			DisplayNames []string `json:"display_names"`
			Username     string   `json:"username"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []int{11}, payload.TaskIDs)
		assert.Equal(t, []string{"Case 6"}, payload.DisplayNames)
		assert.Equal(t, "ravi", payload.Username)

		_, _ = w.Write([]byte(`{
			"success": true,
			"results": [{"task_id": 11, "status": "success", "new_case_id": "BRATS_006"}]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	results, err := client.SubmitToDataset(context.Background(),
		[]model.TaskSubmission{{TaskID: 11, DisplayName: "Case 6"}}, testCreds)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Succeeded())
	assert.Equal(t, "BRATS_006", results[0].NewCaseID)
}

func TestStartTraining(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/train-nnunet", r.URL.Path)

		var payload struct {
			DatasetID  int    `json:"dataset_id"`
			Resolution string `json:"resolution"`
			Folds      string `json:"folds"`
			TaskIDs    []int  `json:"task_ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 2, payload.DatasetID)
		assert.Equal(t, "3d_fullres", payload.Resolution)
		assert.Equal(t, "all", payload.Folds)

		_, _ = w.Write([]byte(`{"message": "training queued"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	err = client.StartTraining(context.Background(), service.TrainingRequest{
		DatasetID:  2,
		Resolution: model.Resolution3DFull,
		Folds:      "all",
		TaskIDs:    []int{11, 12},
	})
	require.NoError(t, err)
}

func TestRawTaskName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Medical Scan - BRATS_006", want: "BRATS_006"},
		{in: "Medical Scan - la_018", want: "la_018"},
		{in: "bare_name", want: "bare_name"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := rawTaskName(tt.in); got != tt.want {
			t.Errorf("rawTaskName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCredentialPrompter(t *testing.T) {
	in := strings.NewReader("ravi\nsecret\n")
	var out strings.Builder

	creds, err := NewCredentialPrompter(in, &out).Prompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ravi", creds.Username)
	assert.Equal(t, "secret", creds.Password)
	assert.Contains(t, out.String(), "username:")
}

func TestCredentialPrompterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never delivers input.
	blocked, _ := net.Pipe()
	defer func() { _ = blocked.Close() }()

	_, err := NewCredentialPrompter(blocked, &strings.Builder{}).Prompt(ctx)
	require.ErrorIs(t, err, ErrPromptCancelled)
}
