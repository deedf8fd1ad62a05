package workflow

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/medseg/scanflow/internal/model"
	"github.com/medseg/scanflow/internal/service"
)

// MockPipelineClient is a testify mock of service.PipelineClient.
type MockPipelineClient struct {
	mock.Mock
}

func (m *MockPipelineClient) Upload(ctx context.Context, archivePath, config, username string) (*service.UploadResult, error) {
	args := m.Called(ctx, archivePath, config, username)
	if result := args.Get(0); result != nil {
		return result.(*service.UploadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPipelineClient) RunInference(ctx context.Context, jobID, config string) error {
	args := m.Called(ctx, jobID, config)
	return args.Error(0)
}

func (m *MockPipelineClient) ListScans(ctx context.Context) ([]model.ScanRecord, error) {
	args := m.Called(ctx)
	if records := args.Get(0); records != nil {
		return records.([]model.ScanRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPipelineClient) FetchComparisonSlices(ctx context.Context, scanID, jobID string) ([]string, []string, error) {
	args := m.Called(ctx, scanID, jobID)
	original, _ := args.Get(0).([]string)
	result, _ := args.Get(1).([]string)
	return original, result, args.Error(2)
}

func (m *MockPipelineClient) Whoami(ctx context.Context) (*service.Identity, error) {
	args := m.Called(ctx)
	if identity := args.Get(0); identity != nil {
		return identity.(*service.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAnnotationClient is a testify mock of service.AnnotationClient.
type MockAnnotationClient struct {
	mock.Mock
}

func (m *MockAnnotationClient) DispatchTasks(ctx context.Context, scanIDs []string, creds service.Credentials) (*service.DispatchResult, error) {
	args := m.Called(ctx, scanIDs, creds)
	if result := args.Get(0); result != nil {
		return result.(*service.DispatchResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnnotationClient) DiscardScans(ctx context.Context, scanIDs []string) error {
	args := m.Called(ctx, scanIDs)
	return args.Error(0)
}

func (m *MockAnnotationClient) ListCorrectedTasks(ctx context.Context) ([]model.CorrectedTask, error) {
	args := m.Called(ctx)
	if tasks := args.Get(0); tasks != nil {
		return tasks.([]model.CorrectedTask), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnnotationClient) SubmitToDataset(ctx context.Context, submissions []model.TaskSubmission, creds service.Credentials) ([]service.SubmissionResult, error) {
	args := m.Called(ctx, submissions, creds)
	if results := args.Get(0); results != nil {
		return results.([]service.SubmissionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnnotationClient) StartTraining(ctx context.Context, req service.TrainingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockJournal is a testify mock of service.Journal.
type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) RecordAction(ctx context.Context, action string, ids []string, detail string) error {
	args := m.Called(ctx, action, ids, detail)
	return args.Error(0)
}

func (m *MockJournal) ListActions(ctx context.Context, limit int) ([]service.JournalEntry, error) {
	args := m.Called(ctx, limit)
	if entries := args.Get(0); entries != nil {
		return entries.([]service.JournalEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJournal) Close() error {
	args := m.Called()
	return args.Error(0)
}
