package wire

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"gitlab.com/judge-session.net/internal/static/errs"
)

// NewClient returns a resty client bound to one collaborator
func NewClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// CheckResponse turns a transport failure or a non-2xx status into an
// ErrNetwork error.
func CheckResponse(service string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrNetwork, service, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s returned %d", errs.ErrNetwork, service, resp.StatusCode())
	}
	return nil
}
