package domain

import (
	"strings"
	"time"
)

// FormSeparator joins alternate display forms of a foreign word
const FormSeparator = "|"

// Word represents a foreign word and its translation
type Word struct {
	ID             int64
	ForeignWord    string
	TranslatedWord string
	GroupID        *int64
	CreatedAt      time.Time
}

// Forms returns the display forms of the foreign word, one per line.
// Forms are for display only, the translation stays the single accepted answer.
func (w Word) Forms() []string {
	parts := strings.Split(w.ForeignWord, FormSeparator)
	forms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			forms = append(forms, p)
		}
	}
	return forms
}

// Prompt returns the foreign word rendered with one form per line
func (w Word) Prompt() string {
	return strings.Join(w.Forms(), "\n")
}

// InGroup reports whether the word currently belongs to the given group
func (w Word) InGroup(groupID int64) bool {
	return w.GroupID != nil && *w.GroupID == groupID
}
