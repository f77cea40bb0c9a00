package handler

import (
	"context"
	"sync"
	"time"

	"wordtrainer/internal/domain"
	"wordtrainer/internal/repository"
	"wordtrainer/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// requestTimeout bounds the storage calls made for one update
const requestTimeout = 10 * time.Second

// Handler manages all bot interactions
type Handler struct {
	bot           *tele.Bot
	wordService   *service.WordService
	groupRepo     repository.GroupRepository
	practiceStore repository.PracticeStore
	logger        *zap.Logger

	// Per-user workspaces (selection, input state and practice session)
	workspaces   map[int64]*workspace
	workspaceMux sync.Mutex
}

// workspace is everything the bot remembers about one user between updates
type workspace struct {
	state    domain.StateData
	members  *service.MembershipManager
	practice *service.PracticeSession
	wordPage int
	lastSeen time.Time
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	wordService *service.WordService,
	groupRepo repository.GroupRepository,
	practiceStore repository.PracticeStore,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		wordService:   wordService,
		groupRepo:     groupRepo,
		practiceStore: practiceStore,
		logger:        logger,
		workspaces:    make(map[int64]*workspace),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnWords, h.handleWords)
	h.bot.Handle(&btnGroups, h.handleGroups)
	h.bot.Handle(&btnPractice, h.handlePracticeStart)
	h.bot.Handle(&btnAddWord, h.handleAddWord)
	h.bot.Handle(&btnNewGroup, h.handleNewGroup)
	h.bot.Handle(&btnStopPractice, h.handlePracticeStop)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// workspace returns the user's workspace, creating it on first use
func (h *Handler) workspace(userID int64) *workspace {
	h.workspaceMux.Lock()
	defer h.workspaceMux.Unlock()

	ws, exists := h.workspaces[userID]
	if !exists {
		ws = &workspace{
			state: domain.StateData{State: domain.StateIdle},
			members: service.NewMembershipManager(
				h.wordService,
				h.groupRepo,
				domain.NewSessionState(),
				h.logger.With(zap.Int64("user_id", userID)),
			),
			practice: service.NewPracticeSession(h.practiceStore, h.logger.With(zap.Int64("user_id", userID))),
		}
		h.workspaces[userID] = ws
	}
	ws.lastSeen = time.Now()
	return ws
}

// GetState returns user's current input state
func (h *Handler) GetState(userID int64) domain.StateData {
	return h.workspace(userID).state
}

// SetState sets user's input state
func (h *Handler) SetState(userID int64, state domain.StateData) {
	h.workspace(userID).state = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, domain.StateData{State: domain.StateIdle})
}

// EvictIdle forgets workspaces of users inactive for longer than ttl.
// Their selection and any running practice session are discarded.
func (h *Handler) EvictIdle(ttl time.Duration) int {
	h.workspaceMux.Lock()
	defer h.workspaceMux.Unlock()

	cutoff := time.Now().Add(-ttl)
	evicted := 0
	for userID, ws := range h.workspaces {
		if ws.lastSeen.Before(cutoff) {
			delete(h.workspaces, userID)
			evicted++
		}
	}
	return evicted
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnWords = tele.Btn{
		Unique: "words",
		Text:   "📚 Words",
	}
	btnGroups = tele.Btn{
		Unique: "groups",
		Text:   "🗂 Groups",
	}
	btnPractice = tele.Btn{
		Unique: "practice",
		Text:   "🎯 Practice selected",
	}
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ Add word",
	}
	btnNewGroup = tele.Btn{
		Unique: "new_group",
		Text:   "➕ New group",
	}
	btnStopPractice = tele.Btn{
		Unique: "stop_practice",
		Text:   "⏹ Stop",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnWords, btnGroups),
		menu.Row(btnAddWord),
		menu.Row(btnPractice),
	)
	return menu
}

// cancelMarkup returns a keyboard with a single cancel button
func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}
