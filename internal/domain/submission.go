package domain

// Language is the programming language selected for a run
type Language string

// SubmissionPayload is the body sent to the execution service
type SubmissionPayload struct {
	Identity        string       `json:"identity"`
	QuestionID      string       `json:"questionId"`
	Subject         string       `json:"subject"`
	Tag             string       `json:"tags"`
	SourceCode      string       `json:"sourceCode"`
	Language        Language     `json:"language"`
	QuestionType    QuestionType `json:"questionType"`
	Constraints     string       `json:"constraints"`
	Difficulty      string       `json:"difficulty"`
	Score           int          `json:"score"`
	HiddenTestCases []TestCase   `json:"hiddenTestCases"`
	HiddenCaseCount int          `json:"hiddenCaseCount"`
	NormalTestCase  *TestCase    `json:"normalTestCase,omitempty"`
}
