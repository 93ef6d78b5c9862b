package domain

// QuestionType represents the kind of question served by the session
type QuestionType string

const (
	QuestionTypeCodeTest QuestionType = "code_test"
)

// HiddenTestCase is a test case not shown to the solver
type HiddenTestCase struct {
	Input  string `json:"Input" db:"input"`
	Output string `json:"Output" db:"output"`
}

// Question represents one coding problem
type Question struct {
	QuestionID      string           `json:"questionId" db:"question_id"`
	Subject         string           `json:"subject" db:"subject"`
	Tag             string           `json:"tags" db:"tags"`
	QuestionType    QuestionType     `json:"questionType" db:"question_type"`
	Text            string           `json:"text" db:"text"`
	Constraints     string           `json:"constraints" db:"constraints"`
	Difficulty      string           `json:"difficulty" db:"difficulty"`
	Score           int              `json:"score" db:"score"`
	SampleInput     string           `json:"sampleInput" db:"sample_input"`
	SampleOutput    string           `json:"sampleOutput" db:"sample_output"`
	HiddenTestCases []HiddenTestCase `json:"hiddenTestCases"`
}

// Clone returns a deep copy of the question.
// A nil hidden test case list becomes an empty one.
func (q Question) Clone() Question {
	cp := q
	cp.HiddenTestCases = make([]HiddenTestCase, len(q.HiddenTestCases))
	copy(cp.HiddenTestCases, q.HiddenTestCases)
	return cp
}

// QuestionRef identifies a question inside a session. Question is set when
// the question was supplied inline from a batch list, otherwise it is fetched
// on first visit.
type QuestionRef struct {
	Subject      string       `json:"subject"`
	QuestionID   string       `json:"questionId"`
	QuestionType QuestionType `json:"questionType"`
	Tag          string       `json:"tag"`
	Question     *Question    `json:"question,omitempty"`
}

type QuestionTable struct {
	QuestionID      string
	Subject         string
	Tag             string
	QuestionType    string
	Text            string
	Constraints     string
	Difficulty      string
	Score           string
	SampleInput     string
	SampleOutput    string
	HiddenTestCases string
}

func GetQuestionTable() QuestionTable {
	return QuestionTable{
		QuestionID:      "question_id",
		Subject:         "subject",
		Tag:             "tags",
		QuestionType:    "question_type",
		Text:            "text",
		Constraints:     "constraints",
		Difficulty:      "difficulty",
		Score:           "score",
		SampleInput:     "sample_input",
		SampleOutput:    "sample_output",
		HiddenTestCases: "hidden_test_cases",
	}
}

func (QuestionTable) TableName() string {
	return "questions"
}
