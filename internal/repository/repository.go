package repository

import (
	"context"

	"wordtrainer/internal/domain"
)

// WordRepository defines word data operations
type WordRepository interface {
	CreateWord(ctx context.Context, foreignWord, translatedWord string, groupID *int64) (*domain.Word, error)
	UpdateWord(ctx context.Context, id int64, foreignWord, translatedWord string) (*domain.Word, error)
	DeleteWords(ctx context.Context, ids []int64) error
	ListWords(ctx context.Context) ([]domain.Word, error)
	FetchWordsByIDs(ctx context.Context, ids []int64) ([]domain.Word, error)
	CheckAnswer(ctx context.Context, wordID int64, answer string) (*domain.AnswerResult, error)
}

// GroupRepository defines group and membership data operations
type GroupRepository interface {
	CreateGroup(ctx context.Context, name string) (*domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)
	RenameGroup(ctx context.Context, oldName, newName string) (*domain.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
	AddWordToGroup(ctx context.Context, groupID, wordID int64) error
	RemoveWordFromGroup(ctx context.Context, wordID int64) error
	ListWordsByGroup(ctx context.Context, groupID int64) ([]domain.Word, error)
}

// PracticeStore is the part of word storage a practice session needs
type PracticeStore interface {
	FetchWordsByIDs(ctx context.Context, ids []int64) ([]domain.Word, error)
	CheckAnswer(ctx context.Context, wordID int64, answer string) (*domain.AnswerResult, error)
}
