package handler

import (
	"fmt"
	"strings"

	"wordtrainer/internal/domain"

	"github.com/samber/lo"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const wordsPageSize = 10

// handleWords shows the word list on the page last viewed
func (h *Handler) handleWords(c tele.Context) error {
	return h.handleWordsPage(c, h.workspace(c.Sender().ID).wordPage)
}

// handleWordsPage shows one page of the word list with selection marks
func (h *Handler) handleWordsPage(c tele.Context, page int) error {
	ws := h.workspace(c.Sender().ID)

	ctx, cancel := requestContext()
	defer cancel()

	words, err := ws.members.Words(ctx)
	if err != nil {
		h.logger.Error("Failed to list words", zap.Error(err))
		return alert(c, userMessage(err))
	}

	if len(words) == 0 {
		return alert(c, "You have no saved words yet. Send me a word to add one.")
	}

	page, totalPages := clampPage(page, len(words), wordsPageSize)
	ws.wordPage = page

	text, markup := wordsView(words, page, totalPages, ws.members.State())
	return h.show(c, text, markup)
}

// handleToggleWord flips a word's selection and redraws the list
func (h *Handler) handleToggleWord(c tele.Context, wordID int64) error {
	ws := h.workspace(c.Sender().ID)
	ws.members.State().ToggleWord(wordID)
	return h.handleWordsPage(c, ws.wordPage)
}

// handleSelectAllWords selects every word, or clears the selection if all are selected
func (h *Handler) handleSelectAllWords(c tele.Context) error {
	ws := h.workspace(c.Sender().ID)

	ctx, cancel := requestContext()
	defer cancel()

	words, err := ws.members.Words(ctx)
	if err != nil {
		h.logger.Error("Failed to list words", zap.Error(err))
		return alert(c, userMessage(err))
	}

	state := ws.members.State()
	ids := lo.Map(words, func(w domain.Word, _ int) int64 { return w.ID })
	if len(state.SelectedWords()) == len(ids) {
		state.SetSelectedWords(nil)
	} else {
		state.SetSelectedWords(ids)
	}
	return h.handleWordsPage(c, ws.wordPage)
}

// handleDeleteSelected deletes every selected word
func (h *Handler) handleDeleteSelected(c tele.Context) error {
	userID := c.Sender().ID
	ws := h.workspace(userID)

	ids := ws.members.State().SelectedWords()
	if len(ids) == 0 {
		return alert(c, "Select words first")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := ws.members.DeleteWords(ctx, ids); err != nil {
		h.logger.Error("Failed to delete words", zap.Error(err), zap.Int64("user_id", userID))
		return alert(c, userMessage(err))
	}

	h.logger.Info("Words deleted", zap.Int64("user_id", userID), zap.Int("count", len(ids)))

	words, err := ws.members.Words(ctx)
	if err == nil && len(words) == 0 {
		return h.show(c, mainMenuText(len(ws.members.State().PracticeIDs())), mainMenuMarkup())
	}
	return h.handleWordsPage(c, ws.wordPage)
}

// handleEditSelected asks for the new text of the single selected word
func (h *Handler) handleEditSelected(c tele.Context) error {
	userID := c.Sender().ID
	ids := h.workspace(userID).members.State().SelectedWords()
	if len(ids) != 1 {
		return alert(c, "Select exactly one word to edit")
	}

	h.SetState(userID, domain.StateData{State: domain.StateWaitingEdit, TargetWord: ids[0]})
	return h.show(c, fmt.Sprintf("Send the new text as: word %s translation", editSeparator), cancelMarkup())
}

// handleChooseTargetGroup lists groups the selected words can be moved to
func (h *Handler) handleChooseTargetGroup(c tele.Context) error {
	ws := h.workspace(c.Sender().ID)
	if len(ws.members.State().SelectedWords()) == 0 {
		return alert(c, "Select words first")
	}

	ctx, cancel := requestContext()
	defer cancel()

	groups, err := ws.members.Groups(ctx)
	if err != nil {
		h.logger.Error("Failed to list groups", zap.Error(err))
		return alert(c, userMessage(err))
	}
	if len(groups) == 0 {
		return alert(c, "Create a group first")
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(groups)+1)
	for _, g := range groups {
		rows = append(rows, markup.Row(markup.Data("📂 "+g.Name, fmt.Sprintf("addto_%d", g.ID))))
	}
	rows = append(rows, markup.Row(btnWords))
	markup.Inline(rows...)

	return h.show(c, "Add the selected words to which group?", markup)
}

// handleAddSelectedToGroup moves the selected words into a group
func (h *Handler) handleAddSelectedToGroup(c tele.Context, groupID int64) error {
	userID := c.Sender().ID
	ws := h.workspace(userID)
	state := ws.members.State()

	ctx, cancel := requestContext()
	defer cancel()

	ids := state.SelectedWords()
	if err := ws.members.AddWordsToGroup(ctx, groupID, ids); err != nil {
		h.logger.Error("Failed to add words to group",
			zap.Error(err),
			zap.Int64("group_id", groupID),
			zap.Int64("user_id", userID),
		)
		return alert(c, userMessage(err))
	}

	state.SetSelectedWords(nil)
	return h.handleGroups(c)
}

// clampPage keeps page within [1, totalPages] and returns both
func clampPage(page, total, pageSize int) (int, int) {
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

// wordsView renders one page of the word list
func wordsView(words []domain.Word, page, totalPages int, state *domain.SessionState) (string, *tele.ReplyMarkup) {
	text := fmt.Sprintf("📚 Your words (%d, selected %d):\n\nTap a word to select it.", len(words), len(state.SelectedWords()))
	if totalPages > 1 {
		text += fmt.Sprintf(" Page %d of %d.", page, totalPages)
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	start := (page - 1) * wordsPageSize
	end := min(start+wordsPageSize, len(words))
	for _, w := range words[start:end] {
		label := fmt.Sprintf("%s %s — %s", checkMark(state.IsWordSelected(w.ID)), strings.Join(w.Forms(), ", "), w.TranslatedWord)
		rows = append(rows, markup.Row(markup.Data(label, fmt.Sprintf("word_%d", w.ID))))
	}

	// Add pagination buttons
	if totalPages > 1 {
		navRow := tele.Row{}
		if page > 1 {
			navRow = append(navRow, markup.Data("⬅️", fmt.Sprintf("wpage_%d", page-1)))
		}
		if page < totalPages {
			navRow = append(navRow, markup.Data("➡️", fmt.Sprintf("wpage_%d", page+1)))
		}
		rows = append(rows, navRow)
	}

	rows = append(rows,
		markup.Row(markup.Data("☑️ All", "words_all"), markup.Data("🗑 Delete", "words_delete")),
		markup.Row(markup.Data("✏️ Edit", "words_edit"), markup.Data("📂 To group", "words_group")),
		markup.Row(btnPractice),
		markup.Row(btnMainMenu),
	)
	markup.Inline(rows...)

	return text, markup
}

func checkMark(selected bool) string {
	if selected {
		return "✅"
	}
	return "⬜"
}
