package handler

import (
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command and the main menu button
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User opened main menu",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	h.ResetState(userID)
	ws := h.workspace(userID)
	ws.practice.Cancel()

	return h.show(c, mainMenuText(len(ws.members.State().PracticeIDs())), mainMenuMarkup())
}

func mainMenuText(selected int) string {
	if selected == 0 {
		return "🏠 Main menu\n\nSend me a word to save it, or choose an action:"
	}
	return fmt.Sprintf("🏠 Main menu\n\nSelected for practice: %d\n\nChoose an action:", selected)
}
