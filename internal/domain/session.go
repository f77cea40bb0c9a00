package domain

import (
	"sort"

	"github.com/samber/lo"
)

// SessionState holds one user's selection state on the entry screen:
// individually selected words, words selected inside groups and expanded groups.
// It is not safe for concurrent use; the owning MembershipManager serializes access.
type SessionState struct {
	selectedWords []int64
	groupWords    map[int64][]int64
	expanded      []int64
}

// NewSessionState creates an empty selection state
func NewSessionState() *SessionState {
	return &SessionState{groupWords: make(map[int64][]int64)}
}

// ToggleWord flips the selection of a word and reports whether it is now selected
func (s *SessionState) ToggleWord(wordID int64) bool {
	if lo.Contains(s.selectedWords, wordID) {
		s.selectedWords = lo.Without(s.selectedWords, wordID)
		return false
	}
	s.selectedWords = append(s.selectedWords, wordID)
	return true
}

// SetSelectedWords replaces the individual selection
func (s *SessionState) SetSelectedWords(ids []int64) {
	s.selectedWords = lo.Uniq(ids)
}

// IsWordSelected reports whether a word is individually selected
func (s *SessionState) IsWordSelected(wordID int64) bool {
	return lo.Contains(s.selectedWords, wordID)
}

// SelectedWords returns a copy of the individually selected word ids
func (s *SessionState) SelectedWords() []int64 {
	return append([]int64(nil), s.selectedWords...)
}

// ToggleGroupWord flips the selection of a word inside a group
func (s *SessionState) ToggleGroupWord(groupID, wordID int64) bool {
	current := s.groupWords[groupID]
	if lo.Contains(current, wordID) {
		s.setGroupWords(groupID, lo.Without(current, wordID))
		return false
	}
	s.groupWords[groupID] = append(current, wordID)
	return true
}

// SetGroupWords replaces the selection inside a group
func (s *SessionState) SetGroupWords(groupID int64, ids []int64) {
	s.setGroupWords(groupID, lo.Uniq(ids))
}

// GroupWords returns a copy of the selected word ids of a group
func (s *SessionState) GroupWords(groupID int64) []int64 {
	return append([]int64(nil), s.groupWords[groupID]...)
}

// IsGroupWordSelected reports whether a word is selected inside a group
func (s *SessionState) IsGroupWordSelected(groupID, wordID int64) bool {
	return lo.Contains(s.groupWords[groupID], wordID)
}

// RetainGroupWords drops group selections that are not in keep
func (s *SessionState) RetainGroupWords(groupID int64, keep []int64) {
	s.setGroupWords(groupID, lo.Filter(s.groupWords[groupID], func(id int64, _ int) bool {
		return lo.Contains(keep, id)
	}))
}

// DropWords removes words from every selection
func (s *SessionState) DropWords(ids []int64) {
	s.selectedWords = lo.Without(s.selectedWords, ids...)
	s.DropWordsFromGroups(ids)
}

// DropWordsFromGroups removes words from the group selections only
func (s *SessionState) DropWordsFromGroups(ids []int64) {
	for groupID, current := range s.groupWords {
		s.setGroupWords(groupID, lo.Without(current, ids...))
	}
}

// DropGroup forgets a group entirely
func (s *SessionState) DropGroup(groupID int64) {
	delete(s.groupWords, groupID)
	s.expanded = lo.Without(s.expanded, groupID)
}

// Expand marks a group as expanded
func (s *SessionState) Expand(groupID int64) {
	if !lo.Contains(s.expanded, groupID) {
		s.expanded = append(s.expanded, groupID)
	}
}

// Collapse marks a group as collapsed
func (s *SessionState) Collapse(groupID int64) {
	s.expanded = lo.Without(s.expanded, groupID)
}

// IsExpanded reports whether a group is expanded
func (s *SessionState) IsExpanded(groupID int64) bool {
	return lo.Contains(s.expanded, groupID)
}

// Expanded returns the expanded group ids in expansion order
func (s *SessionState) Expanded() []int64 {
	return append([]int64(nil), s.expanded...)
}

// PracticeIDs returns the union of individually selected words and all
// words selected inside groups, without duplicates, in first-seen order.
func (s *SessionState) PracticeIDs() []int64 {
	groupIDs := lo.Keys(s.groupWords)
	sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })

	ids := append([]int64(nil), s.selectedWords...)
	for _, groupID := range groupIDs {
		ids = append(ids, s.groupWords[groupID]...)
	}
	return lo.Uniq(ids)
}

// Reset clears the whole selection
func (s *SessionState) Reset() {
	s.selectedWords = nil
	s.groupWords = make(map[int64][]int64)
	s.expanded = nil
}

func (s *SessionState) setGroupWords(groupID int64, ids []int64) {
	if len(ids) == 0 {
		delete(s.groupWords, groupID)
		return
	}
	s.groupWords[groupID] = ids
}
