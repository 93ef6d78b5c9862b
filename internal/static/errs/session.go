package errs

import "errors"

var (
	SessionNotFound  = errors.New("session not found")
	SessionForbidden = errors.New("session belongs to another identity")
)
