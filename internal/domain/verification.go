package domain

// VerificationRecord is one stored verification for an identity
type VerificationRecord struct {
	QuestionID string `json:"questionId" db:"question_id"`
	Tag        string `json:"tags" db:"tags"`
	Verified   bool   `json:"verified" db:"verified"`
	SourceCode string `json:"sourceCode" db:"source_code"`
}

// Verification is the lookup result for a question+tag pair
type Verification struct {
	Verified   bool   `json:"verified"`
	SourceCode string `json:"sourceCode,omitempty"`
}

type VerificationTable struct {
	Identity     string
	Subject      string
	QuestionType string
	QuestionID   string
	Tag          string
	Verified     string
	SourceCode   string
}

func GetVerificationTable() VerificationTable {
	return VerificationTable{
		Identity:     "identity",
		Subject:      "subject",
		QuestionType: "question_type",
		QuestionID:   "question_id",
		Tag:          "tags",
		Verified:     "verified",
		SourceCode:   "source_code",
	}
}

func (VerificationTable) TableName() string {
	return "verifications"
}
