package verificationport

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

var _ secondary.VerificationStore = (*VerificationPort)(nil)

const verificationsPath = "/verifications"

type VerificationPort struct {
	client *resty.Client
	logger primary.Logger
}

func NewVerificationPort(baseURL string, timeout time.Duration, logger primary.Logger) *VerificationPort {
	return &VerificationPort{
		client: wire.NewClient(baseURL, timeout),
		logger: logger,
	}
}

// ListVerifications returns every verification the identity holds for the
// subject and question type. Matching on question and tag is left to the
// caller.
func (p *VerificationPort) ListVerifications(ctx context.Context, query secondary.VerificationQuery) ([]domain.VerificationRecord, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(query.Identity).
		SetQueryParams(map[string]string{
			"identity":     query.Identity,
			"subject":      query.Subject,
			"questionType": string(query.QuestionType),
		}).
		Get(verificationsPath)
	if err := wire.CheckResponse("verification service", resp, err); err != nil {
		p.logger.Error("Failed to list verifications", "subject", query.Subject, "error", err)
		return nil, err
	}

	var body []wire.VerificationRecord
	if err := wire.Decode(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decode verifications: %w", err)
	}

	records := make([]domain.VerificationRecord, 0, len(body))
	for _, r := range body {
		if err := wire.Validate(r); err != nil {
			// one bad record should not hide the others
			p.logger.Warn("Skipping malformed verification record", "error", err)
			continue
		}
		records = append(records, r.ToDomain())
	}
	return records, nil
}
