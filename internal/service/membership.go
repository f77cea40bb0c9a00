package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"wordtrainer/internal/domain"
	"wordtrainer/internal/repository"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// MembershipManager keeps groups, word membership and the listings of
// expanded groups in step with storage for one user's session state.
//
// Groups are addressed by id except for rename, which goes through a
// name index. Names are not unique; a name resolves to the group with
// the lowest id, which is the same group storage renames.
type MembershipManager struct {
	mu        sync.Mutex
	words     *WordService
	groupRepo repository.GroupRepository
	state     *domain.SessionState
	logger    *zap.Logger

	// groups is the name index source, ordered by id
	groups   []domain.Group
	listings map[int64][]domain.Word
}

// NewMembershipManager creates a membership manager that mutates state
func NewMembershipManager(
	words *WordService,
	groupRepo repository.GroupRepository,
	state *domain.SessionState,
	logger *zap.Logger,
) *MembershipManager {
	return &MembershipManager{
		words:     words,
		groupRepo: groupRepo,
		state:     state,
		logger:    logger,
		listings:  make(map[int64][]domain.Word),
	}
}

// State returns the session state the manager mutates
func (m *MembershipManager) State() *domain.SessionState {
	return m.state
}

// Groups reloads the group index from storage and returns it
func (m *MembershipManager) Groups(ctx context.Context) ([]domain.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reloadGroups(ctx); err != nil {
		return nil, err
	}
	return append([]domain.Group(nil), m.groups...), nil
}

// Group returns a group from the index
func (m *MembershipManager) Group(id int64) (domain.Group, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return lo.Find(m.groups, func(g domain.Group) bool { return g.ID == id })
}

// CreateGroup creates a new group
func (m *MembershipManager) CreateGroup(ctx context.Context, name string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("group name", "cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	group, err := m.groupRepo.CreateGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	m.putGroup(*group)

	m.logger.Info("Group created", zap.Int64("group_id", group.ID), zap.String("name", group.Name))
	return group, nil
}

// RenameGroup renames the first group named oldName
func (m *MembershipManager) RenameGroup(ctx context.Context, oldName, newName string) (*domain.Group, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, domain.NewValidationError("group name", "cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groupByName(oldName); !ok {
		// the index may be stale if groups were created elsewhere
		if err := m.reloadGroups(ctx); err != nil {
			return nil, err
		}
		if _, ok := m.groupByName(oldName); !ok {
			return nil, domain.NewNotFoundError("group", oldName)
		}
	}

	group, err := m.groupRepo.RenameGroup(ctx, oldName, newName)
	if err != nil {
		return nil, err
	}
	m.putGroup(*group)

	if err := m.refreshIfExpanded(ctx, group.ID); err != nil {
		return nil, err
	}

	m.logger.Info("Group renamed",
		zap.Int64("group_id", group.ID),
		zap.String("old_name", oldName),
		zap.String("new_name", group.Name),
	)
	return group, nil
}

// DeleteGroup deletes a group; its words stay but lose their membership
func (m *MembershipManager) DeleteGroup(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.groupRepo.DeleteGroup(ctx, id); err != nil {
		return err
	}

	m.groups = lo.Reject(m.groups, func(g domain.Group, _ int) bool { return g.ID == id })
	delete(m.listings, id)
	m.state.DropGroup(id)

	m.logger.Info("Group deleted", zap.Int64("group_id", id))
	return nil
}

// AddWordToGroup makes groupID the word's group; adding twice is a no-op
func (m *MembershipManager) AddWordToGroup(ctx context.Context, groupID, wordID int64) error {
	return m.AddWordsToGroup(ctx, groupID, []int64{wordID})
}

// AddWordsToGroup moves every word into groupID, stopping at the first failure.
// Listings are refreshed for the words that were moved before the failure.
func (m *MembershipManager) AddWordsToGroup(ctx context.Context, groupID int64, wordIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var moved []int64
	var addErr error
	for _, wordID := range lo.Uniq(wordIDs) {
		if addErr = m.groupRepo.AddWordToGroup(ctx, groupID, wordID); addErr != nil {
			break
		}
		moved = append(moved, wordID)
	}
	if len(moved) == 0 {
		return addErr
	}

	// the words left whatever group they were in before
	kept := m.state.GroupWords(groupID)
	m.state.DropWordsFromGroups(moved)
	m.state.SetGroupWords(groupID, kept)

	affected := append(m.groupsHolding(moved), groupID)
	if err := m.refreshExpanded(ctx, affected); err != nil {
		return err
	}

	m.logger.Info("Words added to group", zap.Int64("group_id", groupID), zap.Int64s("word_ids", moved))
	return addErr
}

// RemoveWordFromGroup clears the word's membership whatever group it was in
func (m *MembershipManager) RemoveWordFromGroup(ctx context.Context, wordID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.groupRepo.RemoveWordFromGroup(ctx, wordID); err != nil {
		return err
	}

	m.state.DropWordsFromGroups([]int64{wordID})
	if err := m.refreshExpanded(ctx, m.groupsHolding([]int64{wordID})); err != nil {
		return err
	}

	m.logger.Info("Word removed from group", zap.Int64("word_id", wordID))
	return nil
}

// ListWordsInGroup returns the words of a group in insertion order.
// Expanded groups are served from their cached listing.
func (m *MembershipManager) ListWordsInGroup(ctx context.Context, groupID int64) ([]domain.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if words, ok := m.listings[groupID]; ok {
		return append([]domain.Word(nil), words...), nil
	}
	return m.groupRepo.ListWordsByGroup(ctx, groupID)
}

// Expand marks a group as expanded and caches its listing.
// Unknown group ids are rejected after one index reload.
func (m *MembershipManager) Expand(ctx context.Context, groupID int64) ([]domain.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.indexOf(groupID); !ok {
		if err := m.reloadGroups(ctx); err != nil {
			return nil, err
		}
		if _, ok := m.indexOf(groupID); !ok {
			return nil, domain.NewNotFoundError("group", groupID)
		}
	}

	words, err := m.groupRepo.ListWordsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	m.state.Expand(groupID)
	m.listings[groupID] = words

	return append([]domain.Word(nil), words...), nil
}

// Collapse marks a group as collapsed and evicts its listing
func (m *MembershipManager) Collapse(groupID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Collapse(groupID)
	delete(m.listings, groupID)
}

// Toggle expands a collapsed group or collapses an expanded one.
// It reports whether the group is expanded afterwards.
func (m *MembershipManager) Toggle(ctx context.Context, groupID int64) (bool, error) {
	m.mu.Lock()
	expanded := m.state.IsExpanded(groupID)
	m.mu.Unlock()

	if expanded {
		m.Collapse(groupID)
		return false, nil
	}
	if _, err := m.Expand(ctx, groupID); err != nil {
		return false, err
	}
	return true, nil
}

// IsExpanded reports whether a group is expanded
func (m *MembershipManager) IsExpanded(groupID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.IsExpanded(groupID)
}

// ToggleGroupWord flips the selection of a word inside an expanded group
func (m *MembershipManager) ToggleGroupWord(groupID, wordID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	words, ok := m.listings[groupID]
	if !ok || !lo.ContainsBy(words, func(w domain.Word) bool { return w.ID == wordID }) {
		return false, domain.NewNotFoundError("word in group", wordID)
	}
	return m.state.ToggleGroupWord(groupID, wordID), nil
}

// ToggleAllGroupWords selects every word of an expanded group, or clears
// the selection when all of them are already selected.
func (m *MembershipManager) ToggleAllGroupWords(groupID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	words, ok := m.listings[groupID]
	if !ok {
		return nil, domain.NewNotFoundError("expanded group", groupID)
	}

	ids := lo.Map(words, func(w domain.Word, _ int) int64 { return w.ID })
	if len(m.state.GroupWords(groupID)) == len(ids) {
		m.state.SetGroupWords(groupID, nil)
	} else {
		m.state.SetGroupWords(groupID, ids)
	}
	return m.state.GroupWords(groupID), nil
}

// Words returns every word in insertion order
func (m *MembershipManager) Words(ctx context.Context) ([]domain.Word, error) {
	return m.words.ListWords(ctx)
}

// CreateWord creates a word and refreshes its group's listing when expanded
func (m *MembershipManager) CreateWord(ctx context.Context, foreignWord, translatedWord string, groupID *int64) (*domain.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	word, err := m.words.CreateWord(ctx, foreignWord, translatedWord, groupID)
	if err != nil {
		return nil, err
	}
	if groupID != nil {
		if err := m.refreshIfExpanded(ctx, *groupID); err != nil {
			return nil, err
		}
	}

	m.logger.Info("Word created", zap.Int64("word_id", word.ID))
	return word, nil
}

// UpdateWord changes a word and refreshes the listings that show it
func (m *MembershipManager) UpdateWord(ctx context.Context, id int64, foreignWord, translatedWord string) (*domain.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	word, err := m.words.UpdateWord(ctx, id, foreignWord, translatedWord)
	if err != nil {
		return nil, err
	}
	if err := m.refreshExpanded(ctx, m.groupsHolding([]int64{id})); err != nil {
		return nil, err
	}
	return word, nil
}

// DeleteWords deletes words, drops them from every selection and
// refreshes the listings that showed them.
func (m *MembershipManager) DeleteWords(ctx context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.words.DeleteWords(ctx, ids); err != nil {
		return err
	}

	m.state.DropWords(ids)
	if err := m.refreshExpanded(ctx, m.groupsHolding(ids)); err != nil {
		return err
	}

	m.logger.Info("Words deleted", zap.Int64s("word_ids", ids))
	return nil
}

func (m *MembershipManager) reloadGroups(ctx context.Context) error {
	groups, err := m.groupRepo.ListGroups(ctx)
	if err != nil {
		return err
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	m.groups = groups

	// forget state of groups deleted elsewhere
	for _, id := range m.state.Expanded() {
		if _, ok := m.indexOf(id); !ok {
			m.state.DropGroup(id)
			delete(m.listings, id)
		}
	}
	return nil
}

func (m *MembershipManager) putGroup(group domain.Group) {
	if i, ok := m.indexOf(group.ID); ok {
		m.groups[i] = group
		return
	}
	m.groups = append(m.groups, group)
	sort.Slice(m.groups, func(i, j int) bool { return m.groups[i].ID < m.groups[j].ID })
}

func (m *MembershipManager) indexOf(id int64) (int, bool) {
	_, i, ok := lo.FindIndexOf(m.groups, func(g domain.Group) bool { return g.ID == id })
	return i, ok
}

func (m *MembershipManager) groupByName(name string) (domain.Group, bool) {
	return lo.Find(m.groups, func(g domain.Group) bool { return g.Name == name })
}

// groupsHolding returns the cached groups whose listing shows any of the words
func (m *MembershipManager) groupsHolding(wordIDs []int64) []int64 {
	var holders []int64
	for groupID, words := range m.listings {
		if lo.ContainsBy(words, func(w domain.Word) bool { return lo.Contains(wordIDs, w.ID) }) {
			holders = append(holders, groupID)
		}
	}
	return holders
}

func (m *MembershipManager) refreshExpanded(ctx context.Context, groupIDs []int64) error {
	for _, groupID := range lo.Uniq(groupIDs) {
		if err := m.refreshIfExpanded(ctx, groupID); err != nil {
			return err
		}
	}
	return nil
}

func (m *MembershipManager) refreshIfExpanded(ctx context.Context, groupID int64) error {
	if !m.state.IsExpanded(groupID) {
		return nil
	}

	words, err := m.groupRepo.ListWordsByGroup(ctx, groupID)
	if err != nil {
		// a stale listing must not be served
		delete(m.listings, groupID)
		m.logger.Error("Failed to refresh group listing", zap.Int64("group_id", groupID), zap.Error(err))
		return err
	}
	m.listings[groupID] = words
	m.state.RetainGroupWords(groupID, lo.Map(words, func(w domain.Word, _ int) int64 { return w.ID }))
	return nil
}
