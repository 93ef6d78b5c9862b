package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gitlab.com/judge-session.net/internal/adapter/logging"
	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/core/ports/secondary/mocks"
	"gitlab.com/judge-session.net/internal/core/services/editbuffer"
	"gitlab.com/judge-session.net/internal/core/services/verification"
	"gitlab.com/judge-session.net/internal/domain"
	"gitlab.com/judge-session.net/internal/static/errs"
)

const identity = "opaque-token"

var verificationQuery = secondary.VerificationQuery{
	Identity:     identity,
	Subject:      "python",
	QuestionType: domain.QuestionTypeCodeTest,
}

func testQuestions() []*domain.Question {
	out := make([]*domain.Question, 0, 3)
	for _, id := range []string{"q-1", "q-2", "q-3"} {
		out = append(out, &domain.Question{
			QuestionID:   id,
			Subject:      "python",
			Tag:          "day-1:" + id,
			QuestionType: domain.QuestionTypeCodeTest,
			Difficulty:   "Easy",
			Score:        10,
			SampleInput:  "3 4",
			SampleOutput: "7",
			HiddenTestCases: []domain.HiddenTestCase{
				{Input: "1 1", Output: "2"},
			},
		})
	}
	return out
}

func testRefs() []domain.QuestionRef {
	refs := make([]domain.QuestionRef, 0, 3)
	for _, q := range testQuestions() {
		refs = append(refs, domain.QuestionRef{
			Subject:      q.Subject,
			QuestionID:   q.QuestionID,
			QuestionType: q.QuestionType,
			Tag:          q.Tag,
		})
	}
	return refs
}

func questionQuery(id string) secondary.QuestionQuery {
	return secondary.QuestionQuery{Subject: "python", QuestionID: id, QuestionType: domain.QuestionTypeCodeTest}
}

// rawResults is what an executor running a program that always prints "7"
// reports for the test questions
func rawResults() []domain.ExecutionResult {
	return []domain.ExecutionResult{
		{Input: "1 1", ExpectedOutput: "2", ActualOutput: "7\n", Kind: domain.TestCaseKindHidden, Status: domain.VerdictPassed},
		{Input: "3 4", ExpectedOutput: "7", ActualOutput: "7\n", Kind: domain.TestCaseKindSample},
	}
}

type fixture struct {
	questions     *mocks.QuestionStore
	verifications *mocks.VerificationStore
	executor      *mocks.CodeExecutor
	nav           *Navigator
}

func newFixture(t *testing.T, refs []domain.QuestionRef, opts ...NavigatorOption) *fixture {
	t.Helper()
	f := &fixture{
		questions:     new(mocks.QuestionStore),
		verifications: new(mocks.VerificationStore),
		executor:      new(mocks.CodeExecutor),
	}
	logger := logging.NewNopLogger()
	nav, err := NewNavigator(identity, refs, Dependencies{
		Questions: f.questions,
		Executor:  f.executor,
		Verifier:  verification.NewTracker(f.verifications, logger),
		Logger:    logger,
	}, opts...)
	require.NoError(t, err)
	f.nav = nav
	return f
}

func (f *fixture) serveAllQuestions() {
	for _, q := range testQuestions() {
		f.questions.On("FetchQuestions", mock.Anything, identity, questionQuery(q.QuestionID)).
			Return([]*domain.Question{q}, nil).Maybe()
	}
}

func (f *fixture) serveVerifications(records []domain.VerificationRecord) {
	f.verifications.On("ListVerifications", mock.Anything, verificationQuery).Return(records, nil).Maybe()
}

func newStartedFixture(t *testing.T) *fixture {
	f := newFixture(t, testRefs())
	f.serveAllQuestions()
	f.serveVerifications([]domain.VerificationRecord{})
	require.NoError(t, f.nav.Start(context.Background()))
	return f
}

func hasNotice(notices []domain.Notice, level domain.NoticeLevel) bool {
	for _, n := range notices {
		if n.Level == level {
			return true
		}
	}
	return false
}

func TestNewNavigatorRequiresQuestions(t *testing.T) {
	_, err := NewNavigator(identity, nil, Dependencies{})
	assert.ErrorIs(t, err, errs.ErrInvalidIndex)
}

func TestStartLoadsFirstQuestion(t *testing.T) {
	f := newFixture(t, testRefs(), WithDefaultCode("# write here"))
	f.serveAllQuestions()
	f.serveVerifications([]domain.VerificationRecord{})

	require.NoError(t, f.nav.Start(context.Background()))

	st := f.nav.State()
	assert.Equal(t, 0, st.CurrentIndex)
	require.NotNil(t, st.Questions[0])
	assert.Equal(t, "q-1", st.Questions[0].QuestionID)
	assert.Nil(t, st.Questions[1])
	assert.Equal(t, "# write here", st.CodeByIndex[0])
	assert.Equal(t, domain.IndexIdle, st.IndexStates[0])
	assert.Equal(t, domain.IndexUnvisited, st.IndexStates[1])
	assert.False(t, st.VerificationByIdx[0].Verified)
	assert.Equal(t, identity, f.nav.Identity())

	f.questions.AssertNumberOfCalls(t, "FetchQuestions", 1)
}

func TestVerificationSeedsCode(t *testing.T) {
	f := newFixture(t, testRefs())
	f.serveAllQuestions()
	f.serveVerifications([]domain.VerificationRecord{
		{QuestionID: "q-2", Tag: "day-1:q-2", Verified: true, SourceCode: "print(sum(map(int, input().split())))"},
	})

	ctx := context.Background()
	require.NoError(t, f.nav.Start(ctx))
	require.NoError(t, f.nav.GoToIndex(ctx, 1))

	st := f.nav.State()
	assert.Equal(t, "", st.CodeByIndex[0])
	assert.Equal(t, "print(sum(map(int, input().split())))", st.CodeByIndex[1])
	assert.True(t, st.VerificationByIdx[1].Verified)
	assert.False(t, st.VerificationByIdx[0].Verified)
}

func TestVerificationNeverOverwritesEditedCode(t *testing.T) {
	f := newFixture(t, testRefs())
	f.serveAllQuestions()
	f.verifications.On("ListVerifications", mock.Anything, verificationQuery).
		Return(nil, errors.New("connection refused")).Once()
	f.serveVerifications([]domain.VerificationRecord{
		{QuestionID: "q-1", Tag: "day-1:q-1", Verified: true, SourceCode: "verified()"},
	})

	ctx := context.Background()
	require.NoError(t, f.nav.Start(ctx))
	assert.True(t, hasNotice(f.nav.DrainNotices(), domain.NoticeWarning))

	f.nav.EditCode("mine()")
	require.NoError(t, f.nav.GoToIndex(ctx, 1))
	require.NoError(t, f.nav.GoToIndex(ctx, 0))

	st := f.nav.State()
	assert.True(t, st.VerificationByIdx[0].Verified)
	assert.Equal(t, "mine()", st.CodeByIndex[0])
}

func TestReloadRefreshesVerification(t *testing.T) {
	f := newFixture(t, testRefs())
	f.serveAllQuestions()
	f.verifications.On("ListVerifications", mock.Anything, verificationQuery).
		Return([]domain.VerificationRecord{}, nil).Once()
	f.serveVerifications([]domain.VerificationRecord{
		{QuestionID: "q-1", Tag: "day-1:q-1", Verified: true, SourceCode: "verified()"},
	})
	ctx := context.Background()

	require.NoError(t, f.nav.Start(ctx))
	assert.False(t, f.nav.State().VerificationByIdx[0].Verified)

	// a plain revisit is served from the cache
	require.NoError(t, f.nav.GoToIndex(ctx, 0))
	assert.False(t, f.nav.State().VerificationByIdx[0].Verified)

	require.NoError(t, f.nav.Reload(ctx))
	st := f.nav.State()
	assert.True(t, st.VerificationByIdx[0].Verified)
	assert.Equal(t, "verified()", st.CodeByIndex[0])
	f.questions.AssertNumberOfCalls(t, "FetchQuestions", 1)
}

func TestNavigationPersistsCodeAndResults(t *testing.T) {
	f := newStartedFixture(t)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(rawResults(), nil)
	ctx := context.Background()

	f.nav.EditCode("X")
	_, err := f.nav.Run(ctx, RunOptions{Language: "python"})
	require.NoError(t, err)

	require.NoError(t, f.nav.GoToIndex(ctx, 1))
	f.nav.EditCode("Y")
	require.NoError(t, f.nav.GoToIndex(ctx, 0))

	st := f.nav.State()
	assert.Equal(t, "X", st.CodeByIndex[0])
	assert.Equal(t, "Y", st.CodeByIndex[1])
	assert.Contains(t, st.ResultsByIndex, 0)
	assert.NotContains(t, st.ResultsByIndex, 1)

	// questions are fetched once per index
	f.questions.AssertNumberOfCalls(t, "FetchQuestions", 2)
}

func TestBoundaryNavigationIsNoOp(t *testing.T) {
	f := newStartedFixture(t)
	ctx := context.Background()
	f.nav.DrainNotices()

	require.NoError(t, f.nav.Previous(ctx))
	assert.Equal(t, 0, f.nav.CurrentIndex())
	notices := f.nav.DrainNotices()
	require.Len(t, notices, 1)
	assert.Equal(t, domain.NoticeInfo, notices[0].Level)

	require.NoError(t, f.nav.Next(ctx))
	require.NoError(t, f.nav.Next(ctx))
	assert.Equal(t, 2, f.nav.CurrentIndex())
	assert.Empty(t, f.nav.DrainNotices())

	require.NoError(t, f.nav.Next(ctx))
	assert.Equal(t, 2, f.nav.CurrentIndex())
	assert.Len(t, f.nav.DrainNotices(), 1)

	require.NoError(t, f.nav.Previous(ctx))
	assert.Equal(t, 1, f.nav.CurrentIndex())
}

func TestInvalidIndex(t *testing.T) {
	f := newStartedFixture(t)
	ctx := context.Background()
	f.nav.DrainNotices()

	assert.ErrorIs(t, f.nav.GoToIndex(ctx, 3), errs.ErrInvalidIndex)
	assert.ErrorIs(t, f.nav.GoToIndex(ctx, -1), errs.ErrInvalidIndex)
	assert.Equal(t, 0, f.nav.CurrentIndex())
	assert.True(t, hasNotice(f.nav.DrainNotices(), domain.NoticeError))
}

func TestRunWritesPartitionedResults(t *testing.T) {
	f := newStartedFixture(t)
	var sent *domain.SubmissionPayload
	f.executor.On("Execute", mock.Anything, mock.MatchedBy(func(p *domain.SubmissionPayload) bool {
		sent = p
		return true
	})).Return(rawResults(), nil).Once()

	f.nav.EditCode("print(7)")
	res, err := f.nav.Run(context.Background(), RunOptions{Language: "python"})
	require.NoError(t, err)

	// the sample case passes, the hidden case printing 7 instead of 2 fails
	assert.Equal(t, domain.ResultSummary{Passed: 1, Failed: 1}, res.Hidden.Summary)
	assert.Empty(t, res.Normal.Results)

	require.NotNil(t, sent)
	assert.Equal(t, identity, sent.Identity)
	assert.Equal(t, "print(7)", sent.SourceCode)
	assert.Equal(t, 2, sent.HiddenCaseCount)
	assert.Nil(t, sent.NormalTestCase)

	st := f.nav.State()
	assert.Equal(t, res, st.ResultsByIndex[0])
	assert.Equal(t, domain.IndexRanHidden, st.IndexStates[0])
}

func TestRunWithCustomInput(t *testing.T) {
	f := newStartedFixture(t)
	raw := append(rawResults(), domain.ExecutionResult{
		Input: "10 20", ExpectedOutput: "30", ActualOutput: "7", Kind: domain.TestCaseKindNormal,
	})
	f.executor.On("Execute", mock.Anything, mock.MatchedBy(func(p *domain.SubmissionPayload) bool {
		return p.NormalTestCase != nil && p.NormalTestCase.Input == "10 20"
	})).Return(raw, nil).Once()

	res, err := f.nav.Run(context.Background(), RunOptions{Language: "python", CustomInputEnabled: true, CustomInput: "10 20"})
	require.NoError(t, err)
	assert.Equal(t, domain.ResultSummary{Passed: 0, Failed: 1}, res.Normal.Summary)
	assert.Equal(t, domain.IndexRanBoth, f.nav.State().IndexStates[0])
}

func TestRunReplacesPriorResults(t *testing.T) {
	f := newStartedFixture(t)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(rawResults(), nil).Once()
	f.executor.On("Execute", mock.Anything, mock.Anything).Return([]domain.ExecutionResult{
		{Input: "1 1", ExpectedOutput: "2", ActualOutput: "2", Kind: domain.TestCaseKindHidden},
		{Input: "3 4", ExpectedOutput: "7", ActualOutput: "7", Kind: domain.TestCaseKindSample},
	}, nil).Once()
	ctx := context.Background()

	_, err := f.nav.Run(ctx, RunOptions{Language: "python"})
	require.NoError(t, err)
	_, err = f.nav.Run(ctx, RunOptions{Language: "python"})
	require.NoError(t, err)

	got := f.nav.State().ResultsByIndex[0]
	assert.Len(t, got.Hidden.Results, 2)
	assert.Equal(t, domain.ResultSummary{Passed: 2, Failed: 0}, got.Hidden.Summary)
}

func TestRunFailureKeepsPriorResults(t *testing.T) {
	f := newStartedFixture(t)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(rawResults(), nil).Once()
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("503 service unavailable")).Once()
	ctx := context.Background()

	f.nav.EditCode("print(7)")
	first, err := f.nav.Run(ctx, RunOptions{Language: "python"})
	require.NoError(t, err)
	f.nav.DrainNotices()

	_, err = f.nav.Run(ctx, RunOptions{Language: "python"})
	assert.ErrorIs(t, err, errs.ErrNetwork)
	assert.True(t, hasNotice(f.nav.DrainNotices(), domain.NoticeError))

	st := f.nav.State()
	assert.Equal(t, first, st.ResultsByIndex[0])
	assert.Equal(t, "print(7)", st.CodeByIndex[0])
	assert.Equal(t, 0, st.CurrentIndex)
	assert.Equal(t, domain.IndexRanHidden, st.IndexStates[0])
}

func TestSecondRunRefusedWhileInFlight(t *testing.T) {
	f := newStartedFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.executor.On("Execute", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(rawResults(), nil).Once()
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(rawResults(), nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := f.nav.Run(ctx, RunOptions{Language: "python"})
		done <- err
	}()
	<-started

	assert.Equal(t, domain.IndexRunning, f.nav.State().IndexStates[0])
	_, err := f.nav.Run(ctx, RunOptions{Language: "python"})
	assert.ErrorIs(t, err, errs.ErrRunInProgress)

	// another index is free to run meanwhile
	require.NoError(t, f.nav.GoToIndex(ctx, 1))
	_, err = f.nav.Run(ctx, RunOptions{Language: "python"})
	require.NoError(t, err)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not settle")
	}

	// settled, so index 0 accepts runs again
	require.NoError(t, f.nav.GoToIndex(ctx, 0))
	_, err = f.nav.Run(ctx, RunOptions{Language: "python"})
	assert.NoError(t, err)
}

func TestStaleResponseGoesToOriginIndex(t *testing.T) {
	f := newStartedFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.executor.On("Execute", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(rawResults(), nil).Once()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := f.nav.Run(ctx, RunOptions{Language: "python"})
		done <- err
	}()
	<-started

	require.NoError(t, f.nav.GoToIndex(ctx, 1))
	close(release)
	require.NoError(t, <-done)

	st := f.nav.State()
	assert.Equal(t, 1, st.CurrentIndex)
	assert.Contains(t, st.ResultsByIndex, 0)
	assert.NotContains(t, st.ResultsByIndex, 1)
	assert.Equal(t, domain.IndexIdle, st.IndexStates[1])
}

func TestRunUsesCommittedQuestion(t *testing.T) {
	f := newStartedFixture(t)
	var sent *domain.SubmissionPayload
	f.executor.On("Execute", mock.Anything, mock.MatchedBy(func(p *domain.SubmissionPayload) bool {
		sent = p
		return true
	})).Return(rawResults(), nil).Once()

	_, err := f.nav.BeginEdit()
	require.NoError(t, err)
	_, err = f.nav.EditDraft(func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.SetField(editbuffer.FieldSampleOutput, "99")
	})
	require.NoError(t, err)

	_, err = f.nav.Run(context.Background(), RunOptions{Language: "python"})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, "7", sent.HiddenTestCases[len(sent.HiddenTestCases)-1].Output)
}

func TestQuestionNotFoundThenReload(t *testing.T) {
	f := newFixture(t, testRefs())
	f.serveVerifications([]domain.VerificationRecord{})
	qs := testQuestions()
	f.questions.On("FetchQuestions", mock.Anything, identity, questionQuery("q-1")).Return([]*domain.Question{qs[0]}, nil)
	f.questions.On("FetchQuestions", mock.Anything, identity, questionQuery("q-2")).Return([]*domain.Question{}, nil).Once()
	f.questions.On("FetchQuestions", mock.Anything, identity, questionQuery("q-2")).Return([]*domain.Question{qs[1]}, nil).Once()
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(rawResults(), nil)
	ctx := context.Background()

	require.NoError(t, f.nav.Start(ctx))
	err := f.nav.GoToIndex(ctx, 1)
	assert.ErrorIs(t, err, errs.ErrQuestionNotFound)
	assert.Equal(t, 1, f.nav.CurrentIndex())
	assert.True(t, hasNotice(f.nav.DrainNotices(), domain.NoticeWarning))

	_, err = f.nav.Run(ctx, RunOptions{Language: "python"})
	assert.ErrorIs(t, err, errs.ErrQuestionNotLoaded)
	_, err = f.nav.BeginEdit()
	assert.ErrorIs(t, err, errs.ErrQuestionNotLoaded)

	require.NoError(t, f.nav.Reload(ctx))
	_, err = f.nav.Run(ctx, RunOptions{Language: "python"})
	require.NoError(t, err)
	assert.Equal(t, "q-2", f.nav.State().Questions[1].QuestionID)

	// other indices were never affected
	require.NoError(t, f.nav.GoToIndex(ctx, 0))
	_, err = f.nav.Run(ctx, RunOptions{Language: "python"})
	require.NoError(t, err)
	f.questions.AssertNumberOfCalls(t, "FetchQuestions", 3)
}

func TestQuestionFetchNetworkError(t *testing.T) {
	f := newFixture(t, testRefs())
	f.serveVerifications([]domain.VerificationRecord{})
	f.questions.On("FetchQuestions", mock.Anything, identity, questionQuery("q-1")).
		Return(nil, errors.New("dial tcp: connection refused"))

	err := f.nav.Start(context.Background())
	assert.ErrorIs(t, err, errs.ErrNetwork)
	assert.True(t, hasNotice(f.nav.DrainNotices(), domain.NoticeError))

	st := f.nav.State()
	assert.Nil(t, st.Questions[0])
	assert.Equal(t, "", st.CodeByIndex[0])
}

func TestEditCancelRestores(t *testing.T) {
	f := newStartedFixture(t)

	_, err := f.nav.BeginEdit()
	require.NoError(t, err)
	q, err := f.nav.EditDraft(func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.SetField(editbuffer.FieldDifficulty, "Hard")
	})
	require.NoError(t, err)
	assert.Equal(t, "Hard", q.Difficulty)
	assert.Len(t, f.nav.State().EditDrafts, 1)

	require.NoError(t, f.nav.CancelEdit())
	assert.Empty(t, f.nav.State().EditDrafts)

	q, err = f.nav.BeginEdit()
	require.NoError(t, err)
	assert.Equal(t, "Easy", q.Difficulty)
}

func TestSaveEdit(t *testing.T) {
	f := newStartedFixture(t)
	f.questions.On("SaveQuestion", mock.Anything, identity, mock.Anything).
		Return(errors.New("timeout")).Once()
	f.questions.On("SaveQuestion", mock.Anything, identity, mock.MatchedBy(func(q *domain.Question) bool {
		return q.Difficulty == "Hard" && len(q.HiddenTestCases) == 2
	})).Return(nil).Once()
	ctx := context.Background()

	_, err := f.nav.SaveEdit(ctx)
	assert.ErrorIs(t, err, errs.ErrNotEditing)

	_, err = f.nav.BeginEdit()
	require.NoError(t, err)
	_, err = f.nav.EditDraft(func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.AddHiddenCase().SetField(editbuffer.FieldDifficulty, "Hard")
	})
	require.NoError(t, err)

	_, err = f.nav.SaveEdit(ctx)
	assert.ErrorIs(t, err, errs.ErrNetwork)
	st := f.nav.State()
	require.Len(t, st.EditDrafts, 1)
	assert.Equal(t, "Hard", st.EditDrafts[0].Question.Difficulty)
	assert.Equal(t, "Easy", st.Questions[0].Difficulty)

	saved, err := f.nav.SaveEdit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hard", saved.Difficulty)

	st = f.nav.State()
	assert.Empty(t, st.EditDrafts)
	assert.Equal(t, "Hard", st.Questions[0].Difficulty)
	f.questions.AssertExpectations(t)
}

func TestDraftFrozenWhileSaving(t *testing.T) {
	f := newStartedFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.questions.On("SaveQuestion", mock.Anything, identity, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(nil).Once()
	ctx := context.Background()

	_, err := f.nav.BeginEdit()
	require.NoError(t, err)
	_, err = f.nav.EditDraft(func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.SetField(editbuffer.FieldDifficulty, "Hard")
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.nav.SaveEdit(ctx)
		done <- err
	}()
	<-started

	_, err = f.nav.EditDraft(func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.SetField(editbuffer.FieldText, "edited while saving")
	})
	assert.ErrorIs(t, err, errs.ErrSaveInProgress)
	assert.ErrorIs(t, f.nav.CancelEdit(), errs.ErrSaveInProgress)
	_, err = f.nav.SaveEdit(ctx)
	assert.ErrorIs(t, err, errs.ErrSaveInProgress)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("save did not settle")
	}

	st := f.nav.State()
	assert.Empty(t, st.EditDrafts)
	assert.Equal(t, "Hard", st.Questions[0].Difficulty)
	assert.Equal(t, "", st.Questions[0].Text)

	// settled, so editing works again
	_, err = f.nav.BeginEdit()
	require.NoError(t, err)
	_, err = f.nav.EditDraft(func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.SetField(editbuffer.FieldText, "after save")
	})
	require.NoError(t, err)
	assert.NoError(t, f.nav.CancelEdit())
	f.questions.AssertExpectations(t)
}

func TestSaveEditRefreshesLookupKey(t *testing.T) {
	f := newFixture(t, testRefs())
	f.serveAllQuestions()
	f.serveVerifications([]domain.VerificationRecord{
		{QuestionID: "q-1", Tag: "day-2:q-1", Verified: true, SourceCode: "retagged()"},
	})
	javaQuery := secondary.VerificationQuery{
		Identity:     identity,
		Subject:      "java",
		QuestionType: domain.QuestionTypeCodeTest,
	}
	f.verifications.On("ListVerifications", mock.Anything, javaQuery).
		Return([]domain.VerificationRecord{}, nil).Once()
	f.questions.On("SaveQuestion", mock.Anything, identity, mock.Anything).Return(nil)
	ctx := context.Background()

	require.NoError(t, f.nav.Start(ctx))
	assert.False(t, f.nav.State().VerificationByIdx[0].Verified)

	_, err := f.nav.BeginEdit()
	require.NoError(t, err)
	_, err = f.nav.EditDraft(func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.SetField(editbuffer.FieldTag, "day-2:q-1")
	})
	require.NoError(t, err)
	_, err = f.nav.SaveEdit(ctx)
	require.NoError(t, err)

	// the next visit looks up the new tag
	require.NoError(t, f.nav.GoToIndex(ctx, 0))
	st := f.nav.State()
	assert.True(t, st.VerificationByIdx[0].Verified)
	assert.Equal(t, "retagged()", st.CodeByIndex[0])

	_, err = f.nav.BeginEdit()
	require.NoError(t, err)
	_, err = f.nav.EditDraft(func(d editbuffer.Draft) (editbuffer.Draft, error) {
		return d.SetField(editbuffer.FieldSubject, "java")
	})
	require.NoError(t, err)
	_, err = f.nav.SaveEdit(ctx)
	require.NoError(t, err)

	require.NoError(t, f.nav.Reload(ctx))
	assert.False(t, f.nav.State().VerificationByIdx[0].Verified)
	f.verifications.AssertCalled(t, "ListVerifications", mock.Anything, javaQuery)
	f.questions.AssertNumberOfCalls(t, "FetchQuestions", 1)
}

func TestInlineQuestionsSkipFetch(t *testing.T) {
	refs := make([]domain.QuestionRef, 0, 3)
	for _, q := range testQuestions() {
		refs = append(refs, domain.QuestionRef{Question: q})
	}
	f := newFixture(t, refs)
	f.serveVerifications([]domain.VerificationRecord{})
	ctx := context.Background()

	require.NoError(t, f.nav.Start(ctx))
	require.NoError(t, f.nav.GoToIndex(ctx, 2))

	st := f.nav.State()
	require.NotNil(t, st.Questions[2])
	assert.Equal(t, "q-3", st.Questions[2].QuestionID)
	f.questions.AssertNotCalled(t, "FetchQuestions", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunWithoutQuestionID(t *testing.T) {
	q := testQuestions()[0]
	q.QuestionID = ""
	f := newFixture(t, []domain.QuestionRef{{Question: q}})
	f.serveVerifications([]domain.VerificationRecord{})

	require.NoError(t, f.nav.Start(context.Background()))
	_, err := f.nav.Run(context.Background(), RunOptions{Language: "python"})
	assert.ErrorIs(t, err, errs.ErrMissingQuestionID)
	f.executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestStateIsSnapshot(t *testing.T) {
	f := newStartedFixture(t)
	f.nav.EditCode("original")

	st := f.nav.State()
	st.CodeByIndex[0] = "tampered"
	st.Questions[0].Difficulty = "tampered"

	again := f.nav.State()
	assert.Equal(t, "original", again.CodeByIndex[0])
	assert.Equal(t, "Easy", again.Questions[0].Difficulty)
}

func TestNoticesAreBounded(t *testing.T) {
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := newFixture(t, testRefs(), WithMaxNotices(2), WithClock(func() time.Time { return stamp }))
	f.serveAllQuestions()
	f.serveVerifications([]domain.VerificationRecord{})
	ctx := context.Background()
	require.NoError(t, f.nav.Start(ctx))

	for i := 0; i < 5; i++ {
		require.NoError(t, f.nav.Previous(ctx))
	}

	notices := f.nav.DrainNotices()
	require.Len(t, notices, 2)
	assert.Equal(t, stamp, notices[0].At)
	assert.Empty(t, f.nav.DrainNotices())
}
