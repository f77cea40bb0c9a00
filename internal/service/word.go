package service

import (
	"context"
	"strings"

	"wordtrainer/internal/domain"
	"wordtrainer/internal/repository"

	"github.com/samber/lo"
)

// WordService handles word-related business logic
type WordService struct {
	wordRepo repository.WordRepository
}

// NewWordService creates a new word service
func NewWordService(wordRepo repository.WordRepository) *WordService {
	return &WordService{wordRepo: wordRepo}
}

// CreateWord saves a word-translation pair, optionally inside a group
func (s *WordService) CreateWord(ctx context.Context, foreignWord, translatedWord string, groupID *int64) (*domain.Word, error) {
	foreignWord, translatedWord, err := cleanPair(foreignWord, translatedWord)
	if err != nil {
		return nil, err
	}
	return s.wordRepo.CreateWord(ctx, foreignWord, translatedWord, groupID)
}

// UpdateWord changes the text of an existing word
func (s *WordService) UpdateWord(ctx context.Context, id int64, foreignWord, translatedWord string) (*domain.Word, error) {
	foreignWord, translatedWord, err := cleanPair(foreignWord, translatedWord)
	if err != nil {
		return nil, err
	}
	return s.wordRepo.UpdateWord(ctx, id, foreignWord, translatedWord)
}

// DeleteWords deletes the given words; an empty list is a no-op
func (s *WordService) DeleteWords(ctx context.Context, ids []int64) error {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil
	}
	return s.wordRepo.DeleteWords(ctx, ids)
}

// ListWords returns every word in insertion order
func (s *WordService) ListWords(ctx context.Context) ([]domain.Word, error) {
	return s.wordRepo.ListWords(ctx)
}

// cleanPair trims both sides and rejects a pair with nothing to show or nothing to answer
func cleanPair(foreignWord, translatedWord string) (string, string, error) {
	foreignWord = strings.TrimSpace(foreignWord)
	translatedWord = strings.TrimSpace(translatedWord)

	if len(domain.Word{ForeignWord: foreignWord}.Forms()) == 0 {
		return "", "", domain.NewValidationError("foreign word", "cannot be empty")
	}
	if translatedWord == "" {
		return "", "", domain.NewValidationError("translation", "cannot be empty")
	}
	return foreignWord, translatedWord, nil
}
