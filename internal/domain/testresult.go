package domain

// Verdict is the outcome of comparing expected and actual output
type Verdict string

const (
	VerdictPassed Verdict = "Passed"
	VerdictFailed Verdict = "Failed"
)

// ExecutionResult represents the result of a single executed test case
type ExecutionResult struct {
	Input          string       `json:"input"`
	ExpectedOutput string       `json:"expectedOutput"`
	ActualOutput   string       `json:"actualOutput"`
	Kind           TestCaseKind `json:"kind"`
	Status         Verdict      `json:"status"`
}

// ResultSummary counts results by verdict
type ResultSummary struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Total returns the number of results folded into the summary
func (s ResultSummary) Total() int {
	return s.Passed + s.Failed
}

// ResultBucket groups results with their summary
type ResultBucket struct {
	Results []ExecutionResult `json:"results"`
	Summary ResultSummary     `json:"summary"`
}

// PartitionedResults is what a single run produces for one question index
type PartitionedResults struct {
	Normal ResultBucket `json:"normal"`
	Hidden ResultBucket `json:"hidden"`
}
