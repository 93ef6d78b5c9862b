package grading

import (
	"fmt"
	"strings"
	"unicode"
)

// Normalize converts raw test case text into its canonical line form:
// carriage returns removed, trailing whitespace stripped from every line,
// trailing empty lines dropped. Leading whitespace is kept.
func Normalize(v interface{}) string {
	var text string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		text = t
	case []byte:
		text = string(t)
	default:
		text = fmt.Sprint(t)
	}

	text = strings.ReplaceAll(text, "\r", "")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}

	// drop trailing blank lines
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}

	return strings.Join(lines[:end], "\n")
}
