package sessions

import (
	"github.com/google/uuid"

	"gitlab.com/judge-session.net/internal/domain"
)

// QuestionRefRequest names a question by id or carries it inline
type QuestionRefRequest struct {
	Subject      string           `json:"subject"`
	QuestionID   string           `json:"questionId" validate:"required_without=Question"`
	QuestionType string           `json:"questionType"`
	Tag          string           `json:"tags"`
	Question     *domain.Question `json:"question"`
}

func (r QuestionRefRequest) toDomain() domain.QuestionRef {
	return domain.QuestionRef{
		Subject:      r.Subject,
		QuestionID:   r.QuestionID,
		QuestionType: domain.QuestionType(r.QuestionType),
		Tag:          r.Tag,
		Question:     r.Question,
	}
}

// CreateSessionRequest starts a session over an ordered question list
type CreateSessionRequest struct {
	Questions []QuestionRefRequest `json:"questions" validate:"required,min=1,dive"`
}

type GoToRequest struct {
	Index *int `json:"index" validate:"required"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type RunRequest struct {
	Language           string `json:"language" validate:"required"`
	CustomInputEnabled bool   `json:"customInputEnabled"`
	CustomInput        string `json:"customInput"`
}

type FieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

type CaseFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=Input Output"`
	Value string `json:"value"`
}

// SessionResponse is returned by every session endpoint. Notices are drained
// on each response.
type SessionResponse struct {
	SessionID uuid.UUID                  `json:"sessionId"`
	State     domain.SessionState        `json:"state"`
	Notices   []domain.Notice            `json:"notices"`
	Results   *domain.PartitionedResults `json:"results,omitempty"`
	Draft     *domain.Question           `json:"draft,omitempty"`
}
