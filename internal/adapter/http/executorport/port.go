package executorport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"gitlab.com/judge-session.net/internal/adapter/http/wire"
	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/domain"
)

var _ secondary.CodeExecutor = (*ExecutorPort)(nil)

const runPath = "/run"

// ExecutorPort submits code to the execution service
type ExecutorPort struct {
	client *resty.Client
	logger primary.Logger
}

func NewExecutorPort(baseURL string, timeout time.Duration, logger primary.Logger) *ExecutorPort {
	return &ExecutorPort{
		client: wire.NewClient(baseURL, timeout),
		logger: logger,
	}
}

// Execute posts the payload and returns the raw per-case results. The whole
// response is rejected if any case is malformed.
func (p *ExecutorPort) Execute(ctx context.Context, payload *domain.SubmissionPayload) ([]domain.ExecutionResult, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(payload.Identity).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(runPath)
	if err := wire.CheckResponse("execution service", resp, err); err != nil {
		p.logger.Error("Execution request failed", "questionId", payload.QuestionID, "error", err)
		return nil, err
	}

	var body wire.RunResponse
	if err := wire.Decode(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode run response: %w", err)
	}
	if err := wire.Validate(body); err != nil {
		p.logger.Error("Malformed run response", "questionId", payload.QuestionID, "error", err)
		return nil, err
	}

	p.logger.Debug("Execution finished", "questionId", payload.QuestionID, "cases", len(body.Results))
	return body.ToDomain(), nil
}
