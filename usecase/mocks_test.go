package usecase_test

import (
	"context"

	"scriptgo/domain/model"
	"scriptgo/domain/repository"
	"scriptgo/infrastructure/clients/llm"

	"github.com/stretchr/testify/mock"
)

type MockScriptRepository struct {
	mock.Mock
}

func (m *MockScriptRepository) Insert(ctx context.Context, script *model.Script) error {
	args := m.Called(ctx, script)
	if args.Error(0) == nil && script.ID == "" {
		script.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockScriptRepository) InsertBatch(ctx context.Context, scripts []*model.Script) error {
	args := m.Called(ctx, scripts)
	return args.Error(0)
}

func (m *MockScriptRepository) Update(ctx context.Context, script *model.Script) error {
	args := m.Called(ctx, script)
	return args.Error(0)
}

func (m *MockScriptRepository) UpdateContent(ctx context.Context, userID, id, content string) error {
	args := m.Called(ctx, userID, id, content)
	return args.Error(0)
}

func (m *MockScriptRepository) GetByID(ctx context.Context, userID, id string) (*model.Script, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Script), args.Error(1)
}

func (m *MockScriptRepository) GetByIDs(ctx context.Context, userID string, ids []string) ([]*model.Script, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Script), args.Error(1)
}

func (m *MockScriptRepository) List(ctx context.Context, userID string, filter repository.ListFilter) ([]*model.Script, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Script), args.Error(1)
}

func (m *MockScriptRepository) Count(ctx context.Context, userID string) (model.ScriptStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.ScriptStats), args.Error(1)
}

func (m *MockScriptRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockScriptRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req llm.Completion) (*llm.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Result), args.Error(1)
}

type MockScriptCache struct {
	mock.Mock
}

func (m *MockScriptCache) GetList(ctx context.Context, userID, view string) ([]*model.Script, bool, error) {
	args := m.Called(ctx, userID, view)
	list, _ := args.Get(0).([]*model.Script)
	return list, args.Bool(1), args.Error(2)
}

func (m *MockScriptCache) SetList(ctx context.Context, userID, view string, list []*model.Script) error {
	args := m.Called(ctx, userID, view, list)
	return args.Error(0)
}

func (m *MockScriptCache) Invalidate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockGenerationLog struct {
	mock.Mock
}

func (m *MockGenerationLog) Record(ctx context.Context, attempts ...model.GenerationAttempt) error {
	args := m.Called(ctx, attempts)
	return args.Error(0)
}

func (m *MockGenerationLog) ListRecent(ctx context.Context, userID string, limit int64) ([]model.GenerationAttempt, error) {
	args := m.Called(ctx, userID, limit)
	list, _ := args.Get(0).([]model.GenerationAttempt)
	return list, args.Error(1)
}

type MockHub struct {
	mock.Mock
}

func (m *MockHub) Broadcast(userID string, ev model.ScriptEvent) {
	m.Called(userID, ev)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, msg model.EmailMessage) {
	m.Called(ctx, msg)
}

type MockComposer struct {
	mock.Mock
}

func (m *MockComposer) ScriptEmail(to string, script *model.Script) (model.EmailMessage, error) {
	args := m.Called(to, script)
	return args.Get(0).(model.EmailMessage), args.Error(1)
}

func (m *MockComposer) CampaignEmail(to string, scripts []*model.Script) (model.EmailMessage, error) {
	args := m.Called(to, scripts)
	return args.Get(0).(model.EmailMessage), args.Error(1)
}

type MockEmailQueue struct {
	mock.Mock
}

func (m *MockEmailQueue) Enqueue(ctx context.Context, msg model.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
