package handler

import (
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseCallback splits dynamic callback data such as "gword_3_17" into
// its action ("gword") and numeric arguments ([3 17]).
func parseCallback(data string) (string, []int64, bool) {
	parts := strings.Split(data, "_")

	first := len(parts)
	for i, p := range parts {
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			first = i
			break
		}
	}
	if first == 0 {
		return "", nil, false
	}

	args := make([]int64, 0, len(parts)-first)
	for _, p := range parts[first:] {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return "", nil, false
		}
		args = append(args, n)
	}
	return strings.Join(parts[:first], "_"), args, true
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// If message is not modified, it means it was already edited by another callback
	// Just acknowledge and return nil - don't send new message
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// show edits the message if callback, sends new if command
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}
	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// alert answers a callback with a short notice, or sends it as a message
func alert(c tele.Context, text string) error {
	if c.Callback() == nil {
		return c.Send(text)
	}
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Static buttons whose Unique did not get routed
	key := callback.Unique
	if key == "" {
		key = data
	}
	switch key {
	case btnWords.Unique:
		return h.handleWords(c)
	case btnGroups.Unique:
		return h.handleGroups(c)
	case btnPractice.Unique:
		return h.handlePracticeStart(c)
	case btnAddWord.Unique:
		return h.handleAddWord(c)
	case btnNewGroup.Unique:
		return h.handleNewGroup(c)
	case btnStopPractice.Unique:
		return h.handlePracticeStop(c)
	case btnCancel.Unique:
		return h.handleCancel(c)
	case btnMainMenu.Unique:
		return h.handleStart(c)
	case "words_all":
		return h.handleSelectAllWords(c)
	case "words_delete":
		return h.handleDeleteSelected(c)
	case "words_edit":
		return h.handleEditSelected(c)
	case "words_group":
		return h.handleChooseTargetGroup(c)
	}

	// Dynamic buttons
	action, args, ok := parseCallback(data)
	if ok {
		switch {
		case action == "wpage" && len(args) == 1:
			return h.handleWordsPage(c, int(args[0]))
		case action == "word" && len(args) == 1:
			return h.handleToggleWord(c, args[0])
		case action == "addto" && len(args) == 1:
			return h.handleAddSelectedToGroup(c, args[0])
		case action == "group" && len(args) == 1:
			return h.handleToggleGroup(c, args[0])
		case action == "gword" && len(args) == 2:
			return h.handleToggleGroupWord(c, args[0], args[1])
		case action == "gall" && len(args) == 1:
			return h.handleToggleAllGroupWords(c, args[0])
		case action == "gremove" && len(args) == 1:
			return h.handleRemoveFromGroup(c, args[0])
		case action == "gadd" && len(args) == 1:
			return h.handleAddWordToGroup(c, args[0])
		case action == "grename" && len(args) == 1:
			return h.handleRenameGroup(c, args[0])
		case action == "gdelete" && len(args) == 1:
			return h.handleDeleteGroup(c, args[0])
		}
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID
	h.ResetState(userID)

	selected := len(h.workspace(userID).members.State().PracticeIDs())
	return h.show(c, mainMenuText(selected), mainMenuMarkup())
}
