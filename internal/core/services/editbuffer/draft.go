package editbuffer

import (
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/judge-session.net/internal/domain"
	"gitlab.com/judge-session.net/internal/static/errs"
)

// Field names an editable question field
type Field string

const (
	FieldText         Field = "Text"
	FieldConstraints  Field = "Constraints"
	FieldDifficulty   Field = "Difficulty"
	FieldScore        Field = "Score"
	FieldSampleInput  Field = "SampleInput"
	FieldSampleOutput Field = "SampleOutput"
	FieldSubject      Field = "Subject"
	FieldTag          Field = "Tag"
	FieldQuestionType Field = "QuestionType"
)

// CaseField names a field of a hidden test case
type CaseField string

const (
	CaseFieldInput  CaseField = "Input"
	CaseFieldOutput CaseField = "Output"
)

// Draft is an immutable copy of a question being edited. Every operation
// returns a new Draft and leaves the receiver untouched.
type Draft struct {
	q domain.Question
}

// BeginEdit deep-copies q into a fresh draft
func BeginEdit(q domain.Question) Draft {
	return Draft{q: q.Clone()}
}

// Question returns a deep copy of the drafted question
func (d Draft) Question() domain.Question {
	return d.q.Clone()
}

func (d Draft) SetField(field Field, value string) (Draft, error) {
	next := d.q.Clone()
	switch field {
	case FieldText:
		next.Text = value
	case FieldConstraints:
		next.Constraints = value
	case FieldDifficulty:
		next.Difficulty = value
	case FieldSampleInput:
		next.SampleInput = value
	case FieldSampleOutput:
		next.SampleOutput = value
	case FieldSubject:
		next.Subject = value
	case FieldTag:
		next.Tag = value
	case FieldQuestionType:
		next.QuestionType = domain.QuestionType(value)
	case FieldScore:
		score, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return d, fmt.Errorf("%w: score %q is not an integer", errs.ErrInvalidFieldValue, value)
		}
		next.Score = score
	default:
		return d, fmt.Errorf("%w: %s", errs.ErrUnknownField, field)
	}
	return Draft{q: next}, nil
}

// AddHiddenCase appends an empty hidden test case
func (d Draft) AddHiddenCase() Draft {
	next := d.q.Clone()
	next.HiddenTestCases = append(next.HiddenTestCases, domain.HiddenTestCase{})
	return Draft{q: next}
}

// RemoveHiddenCase drops the case at index; out of range is a no-op
func (d Draft) RemoveHiddenCase(index int) Draft {
	if index < 0 || index >= len(d.q.HiddenTestCases) {
		return d
	}
	next := d.q.Clone()
	next.HiddenTestCases = append(next.HiddenTestCases[:index], next.HiddenTestCases[index+1:]...)
	return Draft{q: next}
}

// UpdateHiddenCase sets one field of the case at index; out of range is a no-op
func (d Draft) UpdateHiddenCase(index int, field CaseField, value string) (Draft, error) {
	if index < 0 || index >= len(d.q.HiddenTestCases) {
		return d, nil
	}
	next := d.q.Clone()
	switch field {
	case CaseFieldInput:
		next.HiddenTestCases[index].Input = value
	case CaseFieldOutput:
		next.HiddenTestCases[index].Output = value
	default:
		return d, fmt.Errorf("%w: %s", errs.ErrUnknownField, field)
	}
	return Draft{q: next}, nil
}
