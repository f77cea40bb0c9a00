package domain

// ChatState represents a bot user's current input state
type ChatState string

const (
	StateIdle               ChatState = "idle"
	StateWaitingWord        ChatState = "waiting_word"
	StateWaitingTranslation ChatState = "waiting_translation"
	StateWaitingGroupName   ChatState = "waiting_group_name"
	StateWaitingRename      ChatState = "waiting_rename"
	StateWaitingEdit        ChatState = "waiting_edit"
	StatePracticing         ChatState = "practicing"
)

// StateData holds temporary data for a user's current input state
type StateData struct {
	State       ChatState
	CurrentWord string
	GroupID     *int64 // group chosen for the word being entered
	TargetName  string // group being renamed
	TargetWord  int64  // word being edited
}
