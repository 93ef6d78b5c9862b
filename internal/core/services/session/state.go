package session

import "gitlab.com/judge-session.net/internal/domain"

// State returns a snapshot of the session; mutating it has no effect on the
// navigator.
func (n *Navigator) State() domain.SessionState {
	n.mu.Lock()
	defer n.mu.Unlock()

	st := domain.SessionState{
		Questions:         make([]*domain.Question, len(n.refs)),
		CurrentIndex:      n.current,
		CodeByIndex:       make(map[int]string, len(n.code)),
		ResultsByIndex:    make(map[int]domain.PartitionedResults, len(n.results)),
		VerificationByIdx: make(map[int]domain.Verification, len(n.verification)),
		IndexStates:       make(map[int]domain.IndexState, len(n.refs)),
	}

	for i := range n.refs {
		if buf, ok := n.buffers[i]; ok {
			q := buf.Committed()
			st.Questions[i] = &q
			if d, editing := buf.Draft(); editing {
				st.EditDrafts = append(st.EditDrafts, domain.EditDraft{Index: i, Question: d.Question()})
			}
		}
		st.IndexStates[i] = n.indexStateLocked(i)
	}
	for i, c := range n.code {
		st.CodeByIndex[i] = c
	}
	for i, r := range n.results {
		st.ResultsByIndex[i] = copyResults(r)
	}
	for i, v := range n.verification {
		st.VerificationByIdx[i] = v
	}

	return st
}

func (n *Navigator) indexStateLocked(i int) domain.IndexState {
	if _, visited := n.code[i]; !visited {
		return domain.IndexUnvisited
	}
	if n.running[i] {
		return domain.IndexRunning
	}
	res, ran := n.results[i]
	if !ran {
		return domain.IndexIdle
	}
	hasNormal := len(res.Normal.Results) > 0
	hasHidden := len(res.Hidden.Results) > 0
	switch {
	case hasNormal && hasHidden:
		return domain.IndexRanBoth
	case hasNormal:
		return domain.IndexRanNormal
	default:
		return domain.IndexRanHidden
	}
}

func copyResults(r domain.PartitionedResults) domain.PartitionedResults {
	out := r
	out.Normal.Results = append([]domain.ExecutionResult{}, r.Normal.Results...)
	out.Hidden.Results = append([]domain.ExecutionResult{}, r.Hidden.Results...)
	return out
}
