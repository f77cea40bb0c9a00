package domain

// Group is a named collection of words.
// Names are not unique; storage resolves a name to the group with the lowest id.
type Group struct {
	ID   int64
	Name string
}
