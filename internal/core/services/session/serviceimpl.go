package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/core/services/editbuffer"
	"gitlab.com/judge-session.net/internal/core/services/grading"
	"gitlab.com/judge-session.net/internal/core/services/verification"
	"gitlab.com/judge-session.net/internal/domain"
	"gitlab.com/judge-session.net/internal/static/errs"
)

var _ INavigator = (*Navigator)(nil)

// Dependencies are the collaborators a Navigator talks to
type Dependencies struct {
	Questions secondary.QuestionStore
	Executor  secondary.CodeExecutor
	Verifier  verification.ITracker
	Logger    primary.Logger
}

// Navigator implements INavigator. All state is guarded by mu; collaborator
// calls are made without holding it, and their responses are applied to the
// index they were issued for.
type Navigator struct {
	identity    string
	refs        []domain.QuestionRef
	deps        Dependencies
	logger      primary.Logger
	defaultCode string
	maxNotices  int
	now         func() time.Time

	mu           sync.Mutex
	current      int
	buffers      map[int]*editbuffer.Buffer
	code         map[int]string
	edited       map[int]bool
	results      map[int]domain.PartitionedResults
	verification map[int]domain.Verification
	running      map[int]bool
	saving       map[int]bool
	notices      []domain.Notice
}

// NewNavigator creates a navigator over refs. identity is forwarded to every
// collaborator and never interpreted.
func NewNavigator(identity string, refs []domain.QuestionRef, deps Dependencies, opts ...NavigatorOption) (*Navigator, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: session needs at least one question", errs.ErrInvalidIndex)
	}

	n := &Navigator{
		identity:     identity,
		refs:         make([]domain.QuestionRef, len(refs)),
		deps:         deps,
		logger:       deps.Logger,
		maxNotices:   defaultMaxNotices,
		now:          time.Now,
		buffers:      make(map[int]*editbuffer.Buffer),
		code:         make(map[int]string),
		edited:       make(map[int]bool),
		results:      make(map[int]domain.PartitionedResults),
		verification: make(map[int]domain.Verification),
		running:      make(map[int]bool),
		saving:       make(map[int]bool),
	}

	if n.logger == nil {
		n.logger = nopLogger{}
	}

	for i, ref := range refs {
		if ref.Question != nil {
			q := ref.Question.Clone()
			ref.Question = &q
			if ref.QuestionID == "" {
				ref.QuestionID = q.QuestionID
			}
			if ref.Subject == "" {
				ref.Subject = q.Subject
			}
			if ref.QuestionType == "" {
				ref.QuestionType = q.QuestionType
			}
			if ref.Tag == "" {
				ref.Tag = q.Tag
			}
		}
		n.refs[i] = ref
	}

	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

func (n *Navigator) Identity() string {
	return n.identity
}

func (n *Navigator) CurrentIndex() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Start visits the first question
func (n *Navigator) Start(ctx context.Context) error {
	return n.GoToIndex(ctx, 0)
}

// GoToIndex moves to index. Code and results of the index left behind are kept.
// A failed question load is returned, but the move itself stands.
func (n *Navigator) GoToIndex(ctx context.Context, index int) error {
	n.mu.Lock()
	if index < 0 || index >= len(n.refs) {
		n.noticeLocked(domain.NoticeError, n.current, fmt.Sprintf("question %d does not exist", index+1))
		n.mu.Unlock()
		return fmt.Errorf("%w: %d", errs.ErrInvalidIndex, index)
	}
	n.current = index
	n.mu.Unlock()

	return n.visit(ctx, index)
}

// Next moves forward by one. At the last question it only adds a notice.
func (n *Navigator) Next(ctx context.Context) error {
	n.mu.Lock()
	if n.current >= len(n.refs)-1 {
		n.noticeLocked(domain.NoticeInfo, n.current, "this is the last question")
		n.mu.Unlock()
		return nil
	}
	target := n.current + 1
	n.mu.Unlock()

	return n.GoToIndex(ctx, target)
}

// Previous moves back by one. At the first question it only adds a notice.
func (n *Navigator) Previous(ctx context.Context) error {
	n.mu.Lock()
	if n.current <= 0 {
		n.noticeLocked(domain.NoticeInfo, n.current, "this is the first question")
		n.mu.Unlock()
		return nil
	}
	target := n.current - 1
	n.mu.Unlock()

	return n.GoToIndex(ctx, target)
}

// Reload retries a failed question fetch for the current index and refreshes
// its verification status.
func (n *Navigator) Reload(ctx context.Context) error {
	n.mu.Lock()
	index := n.current
	ref := n.refs[index]
	delete(n.verification, index)
	n.mu.Unlock()

	if n.deps.Verifier != nil {
		n.deps.Verifier.Forget(n.identity, verificationKey(ref))
	}
	return n.visit(ctx, index)
}

// visit makes sure index has a code draft, a committed question and a
// verification lookup. The question fetch and the verification fetch run
// concurrently.
func (n *Navigator) visit(ctx context.Context, index int) error {
	n.mu.Lock()
	if _, ok := n.code[index]; !ok {
		n.code[index] = n.defaultCode
	}
	ref := n.refs[index]
	_, loaded := n.buffers[index]
	if !loaded && ref.Question != nil {
		n.buffers[index] = editbuffer.New(*ref.Question)
		loaded = true
	}
	_, verified := n.verification[index]
	n.mu.Unlock()

	var (
		wg      sync.WaitGroup
		loadErr error
	)
	if !loaded {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loadErr = n.loadQuestion(ctx, index, ref)
		}()
	}
	if !verified {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.seedVerification(ctx, index, ref)
		}()
	}
	wg.Wait()

	return loadErr
}

func (n *Navigator) loadQuestion(ctx context.Context, index int, ref domain.QuestionRef) error {
	if n.deps.Questions == nil {
		return n.failLoad(index, fmt.Errorf("%w: no question store configured", errs.ErrNetwork))
	}

	n.logger.Debug("Fetching question", "index", index, "questionId", ref.QuestionID)

	questions, err := n.deps.Questions.FetchQuestions(ctx, n.identity, secondary.QuestionQuery{
		Subject:      ref.Subject,
		QuestionID:   ref.QuestionID,
		QuestionType: ref.QuestionType,
	})
	if err != nil {
		return n.failLoad(index, networkError("fetch question", err))
	}
	if len(questions) == 0 || questions[0] == nil {
		return n.failLoad(index, fmt.Errorf("%w: %s", errs.ErrQuestionNotFound, ref.QuestionID))
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.buffers[index]; !ok {
		n.buffers[index] = editbuffer.New(*questions[0])
	}
	return nil
}

func (n *Navigator) failLoad(index int, err error) error {
	n.logger.Warn("Failed to load question", "index", index, "error", err)

	msg := "could not load the question, try again"
	level := domain.NoticeError
	if errors.Is(err, errs.ErrQuestionNotFound) {
		msg = "question not found"
		level = domain.NoticeWarning
	}

	n.mu.Lock()
	n.noticeLocked(level, index, msg)
	n.mu.Unlock()
	return err
}

// seedVerification looks up the verification for index and, when a verified
// source exists, uses it as the code draft unless the user already typed code.
func (n *Navigator) seedVerification(ctx context.Context, index int, ref domain.QuestionRef) {
	if n.deps.Verifier == nil {
		n.mu.Lock()
		n.verification[index] = domain.Verification{}
		n.mu.Unlock()
		return
	}

	v, err := n.deps.Verifier.Fetch(ctx, n.identity, verificationKey(ref))

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		// unverified for now; the next visit tries again
		n.noticeLocked(domain.NoticeWarning, index, "could not check verification status")
		return
	}

	n.verification[index] = v
	if v.Verified && v.SourceCode != "" && !n.edited[index] {
		n.code[index] = v.SourceCode
	}
}

func verificationKey(ref domain.QuestionRef) verification.Key {
	return verification.Key{
		Subject:      ref.Subject,
		QuestionType: ref.QuestionType,
		QuestionID:   ref.QuestionID,
		Tag:          ref.Tag,
	}
}

// EditCode replaces the code draft of the current index
func (n *Navigator) EditCode(code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.code[n.current] = code
	n.edited[n.current] = true
}

// Run builds a submission from the current code and the committed question,
// executes it and stores the partitioned result for the index the run was
// issued from. A failed run keeps earlier results.
func (n *Navigator) Run(ctx context.Context, opts RunOptions) (domain.PartitionedResults, error) {
	n.mu.Lock()
	index := n.current
	buf, ok := n.buffers[index]
	if !ok {
		n.noticeLocked(domain.NoticeError, index, "question is not loaded yet")
		n.mu.Unlock()
		return domain.PartitionedResults{}, errs.ErrQuestionNotLoaded
	}
	if n.running[index] {
		n.noticeLocked(domain.NoticeWarning, index, "a run is already in progress")
		n.mu.Unlock()
		return domain.PartitionedResults{}, errs.ErrRunInProgress
	}

	question := buf.Committed()
	payload, err := grading.BuildSubmission(grading.SubmissionRequest{
		Identity:           n.identity,
		Question:           &question,
		SourceCode:         n.code[index],
		Language:           opts.Language,
		CustomInput:        opts.CustomInput,
		CustomInputEnabled: opts.CustomInputEnabled,
	})
	if err != nil {
		n.noticeLocked(domain.NoticeError, index, "cannot submit a question without an id")
		n.mu.Unlock()
		return domain.PartitionedResults{}, err
	}
	n.running[index] = true
	n.mu.Unlock()

	n.logger.Info("Running submission",
		"index", index,
		"questionId", payload.QuestionID,
		"language", payload.Language,
		"hiddenCases", payload.HiddenCaseCount,
		"customInput", opts.CustomInputEnabled)

	if n.deps.Executor == nil {
		err = fmt.Errorf("%w: no executor configured", errs.ErrNetwork)
	}
	var raw []domain.ExecutionResult
	if err == nil {
		raw, err = n.deps.Executor.Execute(ctx, payload)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.running, index)

	if err != nil {
		err = networkError("run", err)
		n.logger.Error("Run failed", "index", index, "error", err)
		n.noticeLocked(domain.NoticeError, index, "run failed, previous results are kept")
		return domain.PartitionedResults{}, err
	}

	res := grading.Partition(raw)
	if !opts.CustomInputEnabled {
		res.Normal = domain.ResultBucket{Results: []domain.ExecutionResult{}}
	}
	n.results[index] = res

	n.logger.Info("Run completed",
		"index", index,
		"hiddenPassed", res.Hidden.Summary.Passed,
		"hiddenFailed", res.Hidden.Summary.Failed)

	return res, nil
}

// BeginEdit starts editing the current question
func (n *Navigator) BeginEdit() (domain.Question, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	buf, err := n.bufferLocked()
	if err != nil {
		return domain.Question{}, err
	}
	d := buf.Begin()
	return d.Question(), nil
}

// EditDraft applies fn to the current draft
func (n *Navigator) EditDraft(fn func(editbuffer.Draft) (editbuffer.Draft, error)) (domain.Question, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	buf, err := n.bufferLocked()
	if err != nil {
		return domain.Question{}, err
	}
	if n.saving[n.current] {
		return domain.Question{}, errs.ErrSaveInProgress
	}
	d, err := buf.Apply(fn)
	if err != nil {
		return d.Question(), err
	}
	return d.Question(), nil
}

// SaveEdit persists the current draft. On failure the draft stays in place.
// The draft is frozen until the store answers.
func (n *Navigator) SaveEdit(ctx context.Context) (domain.Question, error) {
	n.mu.Lock()
	index := n.current
	buf, err := n.bufferLocked()
	if err != nil {
		n.mu.Unlock()
		return domain.Question{}, err
	}
	if n.saving[index] {
		n.mu.Unlock()
		return domain.Question{}, errs.ErrSaveInProgress
	}
	draft, ok := buf.Draft()
	if !ok {
		n.mu.Unlock()
		return domain.Question{}, errs.ErrNotEditing
	}
	question := draft.Question()
	n.saving[index] = true
	n.mu.Unlock()

	if n.deps.Questions == nil {
		err = fmt.Errorf("%w: no question store configured", errs.ErrNetwork)
	} else {
		err = n.deps.Questions.SaveQuestion(ctx, n.identity, &question)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.saving, index)

	if err != nil {
		err = networkError("save question", err)
		n.logger.Error("Failed to save question", "index", index, "error", err)
		n.noticeLocked(domain.NoticeError, index, "could not save the question, your changes are kept")
		return domain.Question{}, err
	}

	committed := buf.Commit(question)
	n.refreshRefLocked(index, committed)

	n.logger.Info("Question saved", "index", index, "questionId", committed.QuestionID)
	n.noticeLocked(domain.NoticeInfo, index, "question saved")
	return committed, nil
}

// refreshRefLocked points the ref at index to the committed question. A
// changed lookup key drops the cached verification so the next visit
// fetches it again.
func (n *Navigator) refreshRefLocked(index int, q domain.Question) {
	prev := n.refs[index]
	next := domain.QuestionRef{
		Subject:      q.Subject,
		QuestionID:   q.QuestionID,
		QuestionType: q.QuestionType,
		Tag:          q.Tag,
	}
	if prev.Question != nil {
		cp := q.Clone()
		next.Question = &cp
	}
	n.refs[index] = next

	if verificationKey(prev) != verificationKey(next) {
		delete(n.verification, index)
	}
}

// CancelEdit discards the current draft
func (n *Navigator) CancelEdit() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	buf, err := n.bufferLocked()
	if err != nil {
		return err
	}
	if n.saving[n.current] {
		return errs.ErrSaveInProgress
	}
	buf.Cancel()
	return nil
}

func (n *Navigator) bufferLocked() (*editbuffer.Buffer, error) {
	buf, ok := n.buffers[n.current]
	if !ok {
		return nil, errs.ErrQuestionNotLoaded
	}
	return buf, nil
}

// DrainNotices returns and clears the pending notices
func (n *Navigator) DrainNotices() []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.notices
	n.notices = nil
	return out
}

func (n *Navigator) noticeLocked(level domain.NoticeLevel, index int, msg string) {
	n.notices = append(n.notices, domain.Notice{
		Level:   level,
		Index:   index,
		Message: msg,
		At:      n.now(),
	})
	if over := len(n.notices) - n.maxNotices; over > 0 {
		n.notices = append([]domain.Notice(nil), n.notices[over:]...)
	}
}

func networkError(op string, err error) error {
	if errors.Is(err, errs.ErrNetwork) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", errs.ErrNetwork, op, err)
}
