package grading

import "gitlab.com/judge-session.net/internal/domain"

// Partition splits raw results into the normal (custom input) bucket and the
// hidden bucket, which also holds the sample case. Every status is recomputed;
// whatever the execution service reported is ignored.
func Partition(raw []domain.ExecutionResult) domain.PartitionedResults {
	out := domain.PartitionedResults{
		Normal: domain.ResultBucket{Results: []domain.ExecutionResult{}},
		Hidden: domain.ResultBucket{Results: []domain.ExecutionResult{}},
	}

	for _, r := range raw {
		r.Status = Compare(r.ExpectedOutput, r.ActualOutput)

		bucket := &out.Hidden
		if r.Kind == domain.TestCaseKindNormal {
			bucket = &out.Normal
		}
		bucket.Results = append(bucket.Results, r)
		if r.Status == domain.VerdictPassed {
			bucket.Summary.Passed++
		} else {
			bucket.Summary.Failed++
		}
	}

	return out
}

// Summarize folds a result list by status
func Summarize(results []domain.ExecutionResult) domain.ResultSummary {
	var s domain.ResultSummary
	for _, r := range results {
		if r.Status == domain.VerdictPassed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}
