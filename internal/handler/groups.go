package handler

import (
	"fmt"
	"strings"

	"wordtrainer/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// groupListing is what the groups screen shows for one group
type groupListing struct {
	group    domain.Group
	expanded bool
	words    []domain.Word
}

// handleGroups shows all groups, with the words of expanded ones
func (h *Handler) handleGroups(c tele.Context) error {
	ws := h.workspace(c.Sender().ID)

	ctx, cancel := requestContext()
	defer cancel()

	groups, err := ws.members.Groups(ctx)
	if err != nil {
		h.logger.Error("Failed to list groups", zap.Error(err))
		return alert(c, userMessage(err))
	}

	listings := make([]groupListing, 0, len(groups))
	for _, g := range groups {
		listing := groupListing{group: g, expanded: ws.members.IsExpanded(g.ID)}
		if listing.expanded {
			if listing.words, err = ws.members.ListWordsInGroup(ctx, g.ID); err != nil {
				h.logger.Error("Failed to list group words", zap.Error(err), zap.Int64("group_id", g.ID))
				return alert(c, userMessage(err))
			}
		}
		listings = append(listings, listing)
	}

	text, markup := groupsView(listings, ws.members.State())
	return h.show(c, text, markup)
}

// handleToggleGroup expands or collapses a group
func (h *Handler) handleToggleGroup(c tele.Context, groupID int64) error {
	ws := h.workspace(c.Sender().ID)

	ctx, cancel := requestContext()
	defer cancel()

	if _, err := ws.members.Toggle(ctx, groupID); err != nil {
		h.logger.Error("Failed to toggle group", zap.Error(err), zap.Int64("group_id", groupID))
		return alert(c, userMessage(err))
	}
	return h.handleGroups(c)
}

// handleToggleGroupWord flips the selection of one word inside a group
func (h *Handler) handleToggleGroupWord(c tele.Context, groupID, wordID int64) error {
	ws := h.workspace(c.Sender().ID)
	if _, err := ws.members.ToggleGroupWord(groupID, wordID); err != nil {
		return alert(c, userMessage(err))
	}
	return h.handleGroups(c)
}

// handleToggleAllGroupWords selects or clears every word of a group
func (h *Handler) handleToggleAllGroupWords(c tele.Context, groupID int64) error {
	ws := h.workspace(c.Sender().ID)
	if _, err := ws.members.ToggleAllGroupWords(groupID); err != nil {
		return alert(c, userMessage(err))
	}
	return h.handleGroups(c)
}

// handleRemoveFromGroup takes the selected words out of a group
func (h *Handler) handleRemoveFromGroup(c tele.Context, groupID int64) error {
	userID := c.Sender().ID
	ws := h.workspace(userID)

	ids := ws.members.State().GroupWords(groupID)
	if len(ids) == 0 {
		return alert(c, "Select words in this group first")
	}

	ctx, cancel := requestContext()
	defer cancel()

	for _, wordID := range ids {
		if err := ws.members.RemoveWordFromGroup(ctx, wordID); err != nil {
			h.logger.Error("Failed to remove word from group",
				zap.Error(err),
				zap.Int64("word_id", wordID),
				zap.Int64("user_id", userID),
			)
			return alert(c, userMessage(err))
		}
	}
	return h.handleGroups(c)
}

// handleAddWordToGroup starts the word input flow inside a group
func (h *Handler) handleAddWordToGroup(c tele.Context, groupID int64) error {
	ws := h.workspace(c.Sender().ID)
	group, ok := ws.members.Group(groupID)
	if !ok {
		return alert(c, userMessage(domain.ErrNotFound))
	}

	h.SetState(c.Sender().ID, domain.StateData{State: domain.StateWaitingWord, GroupID: &group.ID})
	return h.show(c, fmt.Sprintf("Send a foreign word for %q", group.Name), cancelMarkup())
}

// handleNewGroup asks for the name of a new group
func (h *Handler) handleNewGroup(c tele.Context) error {
	h.SetState(c.Sender().ID, domain.StateData{State: domain.StateWaitingGroupName})
	return h.show(c, "Send the name of the new group", cancelMarkup())
}

// handleRenameGroup asks for the new name of a group
func (h *Handler) handleRenameGroup(c tele.Context, groupID int64) error {
	ws := h.workspace(c.Sender().ID)
	group, ok := ws.members.Group(groupID)
	if !ok {
		return alert(c, userMessage(domain.ErrNotFound))
	}

	h.SetState(c.Sender().ID, domain.StateData{State: domain.StateWaitingRename, TargetName: group.Name})
	return h.show(c, fmt.Sprintf("Send the new name for %q", group.Name), cancelMarkup())
}

// handleDeleteGroup deletes a group, keeping its words
func (h *Handler) handleDeleteGroup(c tele.Context, groupID int64) error {
	userID := c.Sender().ID
	ws := h.workspace(userID)

	ctx, cancel := requestContext()
	defer cancel()

	if err := ws.members.DeleteGroup(ctx, groupID); err != nil {
		h.logger.Error("Failed to delete group", zap.Error(err), zap.Int64("group_id", groupID))
		return alert(c, userMessage(err))
	}
	return h.handleGroups(c)
}

func (h *Handler) saveGroup(c tele.Context, name string) error {
	userID := c.Sender().ID
	ws := h.workspace(userID)

	ctx, cancel := requestContext()
	defer cancel()

	if _, err := ws.members.CreateGroup(ctx, name); err != nil {
		h.logger.Error("Failed to create group", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(userMessage(err), cancelMarkup())
	}

	h.ResetState(userID)
	return h.handleGroups(c)
}

func (h *Handler) saveRename(c tele.Context, state domain.StateData, newName string) error {
	userID := c.Sender().ID
	ws := h.workspace(userID)

	ctx, cancel := requestContext()
	defer cancel()

	if _, err := ws.members.RenameGroup(ctx, state.TargetName, newName); err != nil {
		h.logger.Error("Failed to rename group",
			zap.Error(err),
			zap.String("old_name", state.TargetName),
			zap.Int64("user_id", userID),
		)
		return c.Send(userMessage(err), cancelMarkup())
	}

	h.ResetState(userID)
	return h.handleGroups(c)
}

// groupsView renders the groups screen
func groupsView(listings []groupListing, state *domain.SessionState) (string, *tele.ReplyMarkup) {
	var text strings.Builder
	text.WriteString("🗂 Your groups")
	if len(listings) == 0 {
		text.WriteString("\n\nNo groups yet.")
	} else {
		text.WriteString("\n\nTap a group to open it, tap its words to select them for practice.")
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	for _, l := range listings {
		arrow := "▶️"
		if l.expanded {
			arrow = "🔽"
		}
		rows = append(rows, markup.Row(markup.Data(arrow+" "+l.group.Name, fmt.Sprintf("group_%d", l.group.ID))))
		if !l.expanded {
			continue
		}

		for _, w := range l.words {
			label := fmt.Sprintf("   %s %s — %s",
				checkMark(state.IsGroupWordSelected(l.group.ID, w.ID)),
				strings.Join(w.Forms(), ", "),
				w.TranslatedWord,
			)
			rows = append(rows, markup.Row(markup.Data(label, fmt.Sprintf("gword_%d_%d", l.group.ID, w.ID))))
		}

		id := l.group.ID
		rows = append(rows,
			markup.Row(
				markup.Data("☑️ All", fmt.Sprintf("gall_%d", id)),
				markup.Data("➖ Remove", fmt.Sprintf("gremove_%d", id)),
				markup.Data("➕ Word", fmt.Sprintf("gadd_%d", id)),
			),
			markup.Row(
				markup.Data("✏️ Rename", fmt.Sprintf("grename_%d", id)),
				markup.Data("🗑 Delete", fmt.Sprintf("gdelete_%d", id)),
			),
		)
	}

	rows = append(rows,
		markup.Row(btnNewGroup),
		markup.Row(btnPractice),
		markup.Row(btnMainMenu),
	)
	markup.Inline(rows...)

	return text.String(), markup
}
