package domain

// TestCaseKind tags where a test case came from
type TestCaseKind string

const (
	TestCaseKindSample TestCaseKind = "sample"
	TestCaseKindHidden TestCaseKind = "hidden"
	TestCaseKindNormal TestCaseKind = "normal"
)

// Valid reports whether k is one of the known kinds
func (k TestCaseKind) Valid() bool {
	switch k {
	case TestCaseKindSample, TestCaseKindHidden, TestCaseKindNormal:
		return true
	}
	return false
}

// TestCase represents a test case for code execution
type TestCase struct {
	Input  string       `json:"Input"`
	Output string       `json:"Output"`
	Kind   TestCaseKind `json:"kind"`
}
