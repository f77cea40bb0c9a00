package domain

// PracticeStatus is the state of a practice session
type PracticeStatus string

const (
	PracticeIdle       PracticeStatus = "idle"
	PracticeLoading    PracticeStatus = "loading"
	PracticePresenting PracticeStatus = "presenting"
	PracticeScoring    PracticeStatus = "scoring"
	PracticeError      PracticeStatus = "error"
)

// AnswerReason explains a result that was not scored by storage
type AnswerReason string

const (
	// ReasonEmptyAnswer marks an answer that was blank after trimming
	ReasonEmptyAnswer AnswerReason = "empty_answer"
)

// AnswerResult is the feedback for a submitted answer
type AnswerResult struct {
	Correct            bool
	ForeignWord        string
	CorrectTranslation string
	UserAnswer         string
	Reason             AnswerReason
}

// Empty reports whether the answer was rejected without scoring
func (r AnswerResult) Empty() bool {
	return r.Reason == ReasonEmptyAnswer
}
