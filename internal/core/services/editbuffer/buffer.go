package editbuffer

import (
	"gitlab.com/judge-session.net/internal/domain"
	"gitlab.com/judge-session.net/internal/static/errs"
)

// State of the edit buffer
type State string

const (
	StateViewing State = "VIEWING"
	StateEditing State = "EDITING"
)

// Buffer holds the committed question and, while editing, a draft of it.
// The committed question only changes through Commit.
type Buffer struct {
	committed domain.Question
	draft     *Draft
}

func New(committed domain.Question) *Buffer {
	return &Buffer{committed: committed.Clone()}
}

func (b *Buffer) State() State {
	if b.draft != nil {
		return StateEditing
	}
	return StateViewing
}

// Committed returns a copy of the committed question
func (b *Buffer) Committed() domain.Question {
	return b.committed.Clone()
}

// Begin enters the editing state. An edit already in progress is kept.
func (b *Buffer) Begin() Draft {
	if b.draft == nil {
		d := BeginEdit(b.committed)
		b.draft = &d
	}
	return *b.draft
}

// Draft returns the current draft, if any
func (b *Buffer) Draft() (Draft, bool) {
	if b.draft == nil {
		return Draft{}, false
	}
	return *b.draft, true
}

// Apply replaces the draft with the result of fn
func (b *Buffer) Apply(fn func(Draft) (Draft, error)) (Draft, error) {
	if b.draft == nil {
		return Draft{}, errs.ErrNotEditing
	}
	next, err := fn(*b.draft)
	if err != nil {
		return *b.draft, err
	}
	b.draft = &next
	return next, nil
}

// Commit promotes q to the committed question and leaves the editing state
func (b *Buffer) Commit(q domain.Question) domain.Question {
	b.committed = q.Clone()
	b.draft = nil
	return b.committed.Clone()
}

// Cancel discards the draft unconditionally
func (b *Buffer) Cancel() {
	b.draft = nil
}
