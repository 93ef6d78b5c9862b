package domain

import "time"

// NoticeLevel classifies transient user-visible notices
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message surfaced to the user
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Index   int         `json:"index"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// IndexState describes the run sub-state of a single question index
type IndexState string

const (
	IndexUnvisited IndexState = "UNVISITED"
	IndexIdle      IndexState = "IDLE"
	IndexRunning   IndexState = "RUNNING"
	IndexRanNormal IndexState = "RAN_NORMAL"
	IndexRanHidden IndexState = "RAN_HIDDEN"
	IndexRanBoth   IndexState = "RAN_BOTH"
)

// EditDraft is an in-progress edit of the question at Index
type EditDraft struct {
	Index    int      `json:"index"`
	Question Question `json:"question"`
}

// SessionState is a read-only snapshot of a judging session
type SessionState struct {
	Questions         []*Question                `json:"questions"`
	CurrentIndex      int                        `json:"currentIndex"`
	CodeByIndex       map[int]string             `json:"codeByIndex"`
	ResultsByIndex    map[int]PartitionedResults `json:"resultsByIndex"`
	VerificationByIdx map[int]Verification       `json:"verificationByIndex"`
	IndexStates       map[int]IndexState         `json:"indexStates"`
	EditDrafts        []EditDraft                `json:"editDrafts,omitempty"`
}
