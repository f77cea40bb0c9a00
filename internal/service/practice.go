package service

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"

	"wordtrainer/internal/domain"
	"wordtrainer/internal/repository"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// PracticeSession drills a shuffled deck of words.
//
// Status moves Idle -> Loading -> Presenting <-> Scoring, with Error on a
// failed deck fetch. Calls are not reentrant: the caller must not submit
// while a Start or Submit for the same session is still running.
type PracticeSession struct {
	store  repository.PracticeStore
	logger *zap.Logger
	rng    *rand.Rand

	status  domain.PracticeStatus
	deck    []domain.Word
	current int
	last    *domain.AnswerResult
	err     error
}

// PracticeOption configures a PracticeSession
type PracticeOption func(*PracticeSession)

// WithRand sets the random source used for shuffling and picking the next word
func WithRand(rng *rand.Rand) PracticeOption {
	return func(p *PracticeSession) {
		p.rng = rng
	}
}

// NewPracticeSession creates an idle practice session
func NewPracticeSession(store repository.PracticeStore, logger *zap.Logger, opts ...PracticeOption) *PracticeSession {
	p := &PracticeSession{
		store:  store,
		logger: logger,
		status: domain.PracticeIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = newSeededRand()
	}
	return p
}

// Start loads the given words and presents the first one of a fresh shuffle.
// An empty id list leaves the session untouched.
func (p *PracticeSession) Start(ctx context.Context, ids []int64) error {
	if p.busy() {
		return fmt.Errorf("start practice while %s: %w", p.status, domain.ErrSessionState)
	}

	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return nil
	}

	p.reset()
	p.status = domain.PracticeLoading

	words, err := p.store.FetchWordsByIDs(ctx, ids)
	if err != nil {
		return p.fail(domain.AsTransport("fetch practice words", err))
	}
	words = lo.UniqBy(words, func(w domain.Word) int64 { return w.ID })
	if len(words) == 0 {
		return p.fail(domain.NewNotFoundError("words", ids))
	}

	p.shuffle(words)
	p.deck = words
	p.current = 0
	p.status = domain.PracticePresenting

	p.logger.Info("Practice started", zap.Int("requested", len(ids)), zap.Int("deck_size", len(words)))
	return nil
}

// StartFromState starts a session over everything selected in state
func (p *PracticeSession) StartFromState(ctx context.Context, state *domain.SessionState) error {
	return p.Start(ctx, state.PracticeIDs())
}

// Submit scores an answer for the presented word and moves to another word.
// A blank answer is rejected locally, keeps the current word and reveals
// no translation.
func (p *PracticeSession) Submit(ctx context.Context, text string) (*domain.AnswerResult, error) {
	if p.status != domain.PracticePresenting {
		return nil, fmt.Errorf("submit answer while %s: %w", p.status, domain.ErrSessionState)
	}

	word := p.deck[p.current]
	text = strings.TrimSpace(text)
	if text == "" {
		// the translation stays hidden until the word is actually answered
		result := &domain.AnswerResult{
			Correct:     false,
			ForeignWord: word.ForeignWord,
			UserAnswer:  "",
			Reason:      domain.ReasonEmptyAnswer,
		}
		p.last = result
		return result, nil
	}

	p.status = domain.PracticeScoring
	result, err := p.store.CheckAnswer(ctx, word.ID, text)
	if err != nil {
		p.status = domain.PracticePresenting
		p.logger.Warn("Failed to check answer", zap.Int64("word_id", word.ID), zap.Error(err))
		return nil, domain.AsTransport("check answer", err)
	}

	p.last = result
	p.advance()
	p.status = domain.PracticePresenting
	return result, nil
}

// Cancel discards the deck and returns to Idle
func (p *PracticeSession) Cancel() {
	p.reset()
}

// Status returns the current status
func (p *PracticeSession) Status() domain.PracticeStatus {
	return p.status
}

// Current returns the word being presented
func (p *PracticeSession) Current() (domain.Word, bool) {
	if p.status != domain.PracticePresenting && p.status != domain.PracticeScoring {
		return domain.Word{}, false
	}
	return p.deck[p.current], true
}

// Index returns the deck position of the presented word
func (p *PracticeSession) Index() int {
	return p.current
}

// Deck returns a copy of the deck in shuffled order
func (p *PracticeSession) Deck() []domain.Word {
	return append([]domain.Word(nil), p.deck...)
}

// LastAnswer returns the feedback for the last submitted answer
func (p *PracticeSession) LastAnswer() (domain.AnswerResult, bool) {
	if p.last == nil {
		return domain.AnswerResult{}, false
	}
	return *p.last, true
}

// Err returns the failure that moved the session to Error
func (p *PracticeSession) Err() error {
	return p.err
}

func (p *PracticeSession) busy() bool {
	return p.status == domain.PracticeLoading || p.status == domain.PracticeScoring
}

func (p *PracticeSession) reset() {
	p.status = domain.PracticeIdle
	p.deck = nil
	p.current = 0
	p.last = nil
	p.err = nil
}

func (p *PracticeSession) fail(err error) error {
	p.status = domain.PracticeError
	p.err = err
	p.logger.Error("Failed to start practice", zap.Error(err))
	return err
}

// shuffle is a Fisher-Yates shuffle from the last position down
func (p *PracticeSession) shuffle(words []domain.Word) {
	for i := len(words) - 1; i > 0; i-- {
		j := p.rng.IntN(i + 1)
		words[i], words[j] = words[j], words[i]
	}
}

// advance picks any other deck position; only the previous one is excluded
func (p *PracticeSession) advance() {
	if len(p.deck) < 2 {
		return
	}
	next := p.current
	for next == p.current {
		next = p.rng.IntN(len(p.deck))
	}
	p.current = next
}

func newSeededRand() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}
