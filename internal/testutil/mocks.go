package testutil

import (
	"context"

	"wordtrainer/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockWordRepository is a mock for WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) CreateWord(ctx context.Context, foreignWord, translatedWord string, groupID *int64) (*domain.Word, error) {
	args := m.Called(ctx, foreignWord, translatedWord, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) UpdateWord(ctx context.Context, id int64, foreignWord, translatedWord string) (*domain.Word, error) {
	args := m.Called(ctx, id, foreignWord, translatedWord)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) DeleteWords(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockWordRepository) ListWords(ctx context.Context) ([]domain.Word, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockWordRepository) FetchWordsByIDs(ctx context.Context, ids []int64) ([]domain.Word, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

func (m *MockWordRepository) CheckAnswer(ctx context.Context, wordID int64, answer string) (*domain.AnswerResult, error) {
	args := m.Called(ctx, wordID, answer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnswerResult), args.Error(1)
}

// MockGroupRepository is a mock for GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) CreateGroup(ctx context.Context, name string) (*domain.Group, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListGroups(ctx context.Context) ([]domain.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockGroupRepository) RenameGroup(ctx context.Context, oldName, newName string) (*domain.Group, error) {
	args := m.Called(ctx, oldName, newName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) DeleteGroup(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGroupRepository) AddWordToGroup(ctx context.Context, groupID, wordID int64) error {
	args := m.Called(ctx, groupID, wordID)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveWordFromGroup(ctx context.Context, wordID int64) error {
	args := m.Called(ctx, wordID)
	return args.Error(0)
}

func (m *MockGroupRepository) ListWordsByGroup(ctx context.Context, groupID int64) ([]domain.Word, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}
