package session

import (
	"context"

	"gitlab.com/judge-session.net/internal/core/services/editbuffer"
	"gitlab.com/judge-session.net/internal/domain"
)

// RunOptions are the user's choices for a single run
type RunOptions struct {
	Language           domain.Language
	CustomInputEnabled bool
	CustomInput        string
}

// INavigator drives one judging session
type INavigator interface {
	// Start visits the first question
	Start(ctx context.Context) error

	// GoToIndex moves to index, loading the question on first visit
	GoToIndex(ctx context.Context, index int) error

	// Next and Previous move by one; at a boundary they only add a notice
	Next(ctx context.Context) error
	Previous(ctx context.Context) error

	// Reload retries whatever failed to load for the current index
	Reload(ctx context.Context) error

	// EditCode replaces the code draft of the current index
	EditCode(code string)

	// Run executes the current code against the committed question
	Run(ctx context.Context, opts RunOptions) (domain.PartitionedResults, error)

	BeginEdit() (domain.Question, error)
	EditDraft(fn func(editbuffer.Draft) (editbuffer.Draft, error)) (domain.Question, error)
	SaveEdit(ctx context.Context) (domain.Question, error)
	CancelEdit() error

	Identity() string
	CurrentIndex() int
	State() domain.SessionState
	DrainNotices() []domain.Notice
}
