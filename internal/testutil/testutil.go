package testutil

import (
	"time"

	"wordtrainer/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWord creates a test word outside any group
func NewTestWord(id int64, foreignWord, translatedWord string) *domain.Word {
	return &domain.Word{
		ID:             id,
		ForeignWord:    foreignWord,
		TranslatedWord: translatedWord,
		CreatedAt:      time.Now(),
	}
}

// NewTestGroupWord creates a test word inside a group
func NewTestGroupWord(id int64, foreignWord, translatedWord string, groupID int64) *domain.Word {
	w := NewTestWord(id, foreignWord, translatedWord)
	w.GroupID = &groupID
	return w
}

// NewTestGroup creates a test group
func NewTestGroup(id int64, name string) *domain.Group {
	return &domain.Group{ID: id, Name: name}
}

// Words dereferences test words into a listing
func Words(words ...*domain.Word) []domain.Word {
	out := make([]domain.Word, 0, len(words))
	for _, w := range words {
		out = append(out, *w)
	}
	return out
}
