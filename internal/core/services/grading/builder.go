package grading

import (
	"strings"

	"gitlab.com/judge-session.net/internal/domain"
	"gitlab.com/judge-session.net/internal/static/errs"
)

// SubmissionRequest carries everything needed to build a payload
type SubmissionRequest struct {
	Identity           string
	Question           *domain.Question
	SourceCode         string
	Language           domain.Language
	CustomInput        string
	CustomInputEnabled bool
}

// BuildSubmission assembles the payload sent to the execution service.
// The sample case is always appended to the hidden cases, tagged as sample.
func BuildSubmission(req SubmissionRequest) (*domain.SubmissionPayload, error) {
	q := req.Question
	if q == nil || strings.TrimSpace(q.QuestionID) == "" {
		return nil, errs.ErrMissingQuestionID
	}

	cases := make([]domain.TestCase, 0, len(q.HiddenTestCases)+1)
	for _, hc := range q.HiddenTestCases {
		cases = append(cases, domain.TestCase{
			Input:  Normalize(hc.Input),
			Output: Normalize(hc.Output),
			Kind:   domain.TestCaseKindHidden,
		})
	}
	cases = append(cases, domain.TestCase{
		Input:  Normalize(q.SampleInput),
		Output: Normalize(q.SampleOutput),
		Kind:   domain.TestCaseKindSample,
	})

	payload := &domain.SubmissionPayload{
		Identity:        req.Identity,
		QuestionID:      q.QuestionID,
		Subject:         q.Subject,
		Tag:             q.Tag,
		SourceCode:      Normalize(req.SourceCode),
		Language:        req.Language,
		QuestionType:    q.QuestionType,
		Constraints:     q.Constraints,
		Difficulty:      q.Difficulty,
		Score:           q.Score,
		HiddenTestCases: cases,
		HiddenCaseCount: len(cases),
	}

	if req.CustomInputEnabled {
		payload.NormalTestCase = &domain.TestCase{
			Input: Normalize(req.CustomInput),
			Kind:  domain.TestCaseKindNormal,
		}
	}

	return payload, nil
}
