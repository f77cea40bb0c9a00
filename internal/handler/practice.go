package handler

import (
	"errors"
	"fmt"

	"wordtrainer/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handlePracticeStart starts practice over everything the user selected
func (h *Handler) handlePracticeStart(c tele.Context) error {
	userID := c.Sender().ID
	ws := h.workspace(userID)

	ctx, cancel := requestContext()
	defer cancel()

	ws.practice.Cancel()
	if err := ws.practice.StartFromState(ctx, ws.members.State()); err != nil {
		h.logger.Error("Failed to start practice", zap.Error(err), zap.Int64("user_id", userID))
		ws.practice.Cancel()
		return alert(c, practiceStartMessage(err))
	}
	if ws.practice.Status() == domain.PracticeIdle {
		return alert(c, "Select words or group words first")
	}

	h.SetState(userID, domain.StateData{State: domain.StatePracticing})

	word, _ := ws.practice.Current()
	return h.show(c, promptText(word, len(ws.practice.Deck())), practiceMarkup())
}

// handlePracticeAnswer scores an answer and presents the next word
func (h *Handler) handlePracticeAnswer(c tele.Context, text string) error {
	userID := c.Sender().ID
	ws := h.workspace(userID)

	ctx, cancel := requestContext()
	defer cancel()

	result, err := ws.practice.Submit(ctx, text)
	if errors.Is(err, domain.ErrSessionState) {
		h.ResetState(userID)
		return c.Send(userMessage(err), mainMenuMarkup())
	}
	if err != nil {
		h.logger.Error("Failed to check answer", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send("Could not check the answer, send it again.", practiceMarkup())
	}

	word, _ := ws.practice.Current()
	return c.Send(feedbackText(*result)+"\n\n"+promptText(word, len(ws.practice.Deck())), practiceMarkup())
}

// handlePracticeStop ends practice and returns to the main menu
func (h *Handler) handlePracticeStop(c tele.Context) error {
	return h.handleStart(c)
}

func practiceMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnStopPractice))
	return markup
}

func promptText(word domain.Word, deckSize int) string {
	return fmt.Sprintf("🎯 Translate (%d words in this round):\n\n%s", deckSize, word.Prompt())
}

func feedbackText(result domain.AnswerResult) string {
	switch {
	case result.Empty():
		return "✍️ Type a translation first."
	case result.Correct:
		return fmt.Sprintf("✅ Correct! %s — %s", result.ForeignWord, result.CorrectTranslation)
	default:
		return fmt.Sprintf("❌ Wrong. %s — %s\nYour answer: %s", result.ForeignWord, result.CorrectTranslation, result.UserAnswer)
	}
}

func practiceStartMessage(err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return "The selected words don't exist anymore."
	}
	return userMessage(err)
}
