package questionport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"gitlab.com/judge-session.net/internal/adapter/http/wire"
	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/domain"
)

var _ secondary.QuestionStore = (*QuestionPort)(nil)

const (
	questionsPath = "/questions"
	serviceName   = "question service"
)

// QuestionPort talks to the question service over HTTP
type QuestionPort struct {
	client *resty.Client
	logger primary.Logger
}

func NewQuestionPort(baseURL string, timeout time.Duration, logger primary.Logger) *QuestionPort {
	return &QuestionPort{
		client: wire.NewClient(baseURL, timeout),
		logger: logger,
	}
}

// FetchQuestions returns zero or one question. A 404 is reported as an empty
// list.
func (p *QuestionPort) FetchQuestions(ctx context.Context, identity string, query secondary.QuestionQuery) ([]*domain.Question, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(identity).
		SetQueryParams(map[string]string{
			"subject":      query.Subject,
			"questionId":   query.QuestionID,
			"questionType": string(query.QuestionType),
		}).
		Get(questionsPath)
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return []*domain.Question{}, nil
	}
	if err := wire.CheckResponse(serviceName, resp, err); err != nil {
		p.logger.Error("Failed to fetch question", "questionId", query.QuestionID, "error", err)
		return nil, err
	}

	var body []wire.Question
	if err := wire.Decode(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(body))
	for _, q := range body {
		if err := wire.Validate(q); err != nil {
			p.logger.Warn("Rejected question from question service", "questionId", query.QuestionID, "error", err)
			return nil, err
		}
		questions = append(questions, q.ToDomain())
	}
	return questions, nil
}

// SaveQuestion replaces the stored question with question
func (p *QuestionPort) SaveQuestion(ctx context.Context, identity string, question *domain.Question) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(identity).
		SetHeader("Content-Type", "application/json").
		SetBody(question).
		Put(fmt.Sprintf("%s/%s", questionsPath, question.QuestionID))
	if err := wire.CheckResponse(serviceName, resp, err); err != nil {
		p.logger.Error("Failed to save question", "questionId", question.QuestionID, "error", err)
		return err
	}
	return nil
}
