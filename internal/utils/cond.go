package querybuilder

import "strings"

type CondType int

const (
	CondTypeAnd CondType = iota + 1
)

func (c CondType) ToString() string {
	switch c {
	case CondTypeAnd:
		return "AND"
	default:
		return ""
	}
}

type Condition struct {
	condType CondType
	clause   string
	args     []interface{}
}

func buildCondition(conditions []Condition) (string, []interface{}) {
	parts := make([]string, 0, len(conditions)*2)
	args := make([]interface{}, 0)

	for i, cond := range conditions {
		if i > 0 {
			parts = append(parts, cond.condType.ToString())
		}
		parts = append(parts, cond.clause)
		args = append(args, cond.args...)
	}

	return strings.Join(parts, " "), args
}
