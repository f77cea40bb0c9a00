package handler

import (
	"errors"
	"fmt"
	"strings"

	"wordtrainer/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// editSeparator splits "foreign = translation" in an edit message
const editSeparator = "="

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingTranslation:
		return h.saveWord(c, state, text)
	case domain.StateWaitingGroupName:
		return h.saveGroup(c, text)
	case domain.StateWaitingRename:
		return h.saveRename(c, state, text)
	case domain.StateWaitingEdit:
		return h.saveEdit(c, state, text)
	case domain.StatePracticing:
		return h.handlePracticeAnswer(c, c.Text())
	default:
		// Idle or waiting for a word - start word input flow
		if text == "" {
			return c.Send("Send me a word to save it.")
		}
		h.SetState(userID, domain.StateData{
			State:       domain.StateWaitingTranslation,
			CurrentWord: text,
			GroupID:     state.GroupID,
		})
		return c.Send("Waiting for the translation", cancelMarkup())
	}
}

// handleAddWord starts the word input flow outside any group
func (h *Handler) handleAddWord(c tele.Context) error {
	h.SetState(c.Sender().ID, domain.StateData{State: domain.StateWaitingWord})
	return h.show(c, "Send the foreign word.\nSeveral forms can be joined with |, e.g. Haus|das Haus", cancelMarkup())
}

func (h *Handler) saveWord(c tele.Context, state domain.StateData, translation string) error {
	userID := c.Sender().ID
	ws := h.workspace(userID)

	ctx, cancel := requestContext()
	defer cancel()

	word, err := ws.members.CreateWord(ctx, state.CurrentWord, translation, state.GroupID)
	if err != nil {
		h.logger.Error("Failed to save word pair",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		if errors.Is(err, domain.ErrNotFound) {
			// the group went away while the word was being typed
			h.ResetState(userID)
		}
		return c.Send(userMessage(err))
	}

	h.logger.Info("Word pair saved",
		zap.Int64("user_id", userID),
		zap.Int64("word_id", word.ID),
	)

	// Reset to waiting for next word, same group
	h.SetState(userID, domain.StateData{State: domain.StateWaitingWord, GroupID: state.GroupID})

	return c.Send("✅ Saved!\n\nSend the next word or go back with /start")
}

func (h *Handler) saveEdit(c tele.Context, state domain.StateData, text string) error {
	foreign, translated, ok := parseEdit(text)
	if !ok {
		return c.Send(fmt.Sprintf("Send it as: word %s translation", editSeparator), cancelMarkup())
	}

	ws := h.workspace(c.Sender().ID)

	ctx, cancel := requestContext()
	defer cancel()

	word, err := ws.members.UpdateWord(ctx, state.TargetWord, foreign, translated)
	if err != nil {
		h.logger.Error("Failed to update word", zap.Error(err), zap.Int64("word_id", state.TargetWord))
		return c.Send(userMessage(err), cancelMarkup())
	}

	h.ResetState(c.Sender().ID)
	return c.Send(fmt.Sprintf("✅ Updated: %s — %s", word.ForeignWord, word.TranslatedWord), mainMenuMarkup())
}

// parseEdit splits "foreign = translation"
func parseEdit(text string) (string, string, bool) {
	foreign, translated, found := strings.Cut(text, editSeparator)
	foreign = strings.TrimSpace(foreign)
	translated = strings.TrimSpace(translated)
	if !found || foreign == "" || translated == "" {
		return "", "", false
	}
	return foreign, translated, true
}

// userMessage turns a service error into a short reply
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "That can't be empty. Try again."
	case errors.Is(err, domain.ErrNotFound):
		return "It doesn't exist anymore."
	case errors.Is(err, domain.ErrSessionState):
		return "No practice is running. Start one from the main menu."
	default:
		return "Something went wrong. Try again later."
	}
}
