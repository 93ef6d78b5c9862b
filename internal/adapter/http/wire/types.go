package wire

import (
	"gitlab.com/judge-session.net/internal/domain"
)

type HiddenTestCase struct {
	Input  *string `json:"Input" validate:"required"`
	Output *string `json:"Output" validate:"required"`
}

// Question is a question as served by the question service
type Question struct {
	QuestionID      *string          `json:"questionId" validate:"required"`
	Subject         string           `json:"subject"`
	Tags            string           `json:"tags"`
	QuestionType    string           `json:"questionType"`
	Text            string           `json:"text"`
	Constraints     string           `json:"constraints"`
	Difficulty      string           `json:"difficulty"`
	Score           int              `json:"score" validate:"gte=0"`
	SampleInput     string           `json:"sampleInput"`
	SampleOutput    string           `json:"sampleOutput"`
	HiddenTestCases []HiddenTestCase `json:"hiddenTestCases" validate:"dive"`
}

func (q Question) ToDomain() *domain.Question {
	out := &domain.Question{
		QuestionID:      *q.QuestionID,
		Subject:         q.Subject,
		Tag:             q.Tags,
		QuestionType:    domain.QuestionType(q.QuestionType),
		Text:            q.Text,
		Constraints:     q.Constraints,
		Difficulty:      q.Difficulty,
		Score:           q.Score,
		SampleInput:     q.SampleInput,
		SampleOutput:    q.SampleOutput,
		HiddenTestCases: make([]domain.HiddenTestCase, 0, len(q.HiddenTestCases)),
	}
	for _, hc := range q.HiddenTestCases {
		out.HiddenTestCases = append(out.HiddenTestCases, domain.HiddenTestCase{
			Input:  *hc.Input,
			Output: *hc.Output,
		})
	}
	return out
}

// VerificationRecord is one entry of the verification service listing
type VerificationRecord struct {
	QuestionID string  `json:"questionId" validate:"required"`
	Tags       string  `json:"tags"`
	Verified   bool    `json:"verified"`
	SourceCode *string `json:"sourceCode"`
}

func (r VerificationRecord) ToDomain() domain.VerificationRecord {
	out := domain.VerificationRecord{
		QuestionID: r.QuestionID,
		Tag:        r.Tags,
		Verified:   r.Verified,
	}
	if r.SourceCode != nil {
		out.SourceCode = *r.SourceCode
	}
	return out
}

// ExecutionResult is one executed case. Status is what the execution service
// reported and is never trusted.
type ExecutionResult struct {
	Input          *string `json:"input" validate:"required"`
	ExpectedOutput *string `json:"expectedOutput" validate:"required"`
	ActualOutput   *string `json:"actualOutput" validate:"required"`
	Kind           string  `json:"kind" validate:"required,oneof=sample hidden normal"`
	Status         string  `json:"status"`
}

// RunResponse is the body returned by the execution service
type RunResponse struct {
	Results []ExecutionResult `json:"results" validate:"required,dive"`
}

func (r RunResponse) ToDomain() []domain.ExecutionResult {
	out := make([]domain.ExecutionResult, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, domain.ExecutionResult{
			Input:          *res.Input,
			ExpectedOutput: *res.ExpectedOutput,
			ActualOutput:   *res.ActualOutput,
			Kind:           domain.TestCaseKind(res.Kind),
			Status:         domain.Verdict(res.Status),
		})
	}
	return out
}
