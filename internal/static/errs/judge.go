package errs

import "errors"

var (
	ErrMissingQuestionID = errors.New("question id is missing")
	ErrNetwork           = errors.New("collaborator unreachable")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidIndex      = errors.New("invalid question index")
	ErrRunInProgress     = errors.New("a run is already in progress for this question")
	ErrSaveInProgress    = errors.New("a save is already in progress for this question")
	ErrQuestionNotLoaded = errors.New("question is not loaded")
	ErrNotEditing        = errors.New("no edit in progress")
	ErrUnknownField      = errors.New("unknown question field")
	ErrInvalidFieldValue = errors.New("invalid field value")
	ErrMalformedResponse = errors.New("malformed collaborator response")
)
