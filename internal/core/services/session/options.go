package session

import "time"

const defaultMaxNotices = 50

// NavigatorOption configures a Navigator
type NavigatorOption func(*Navigator)

// WithDefaultCode sets the code an index starts with when nothing was verified
func WithDefaultCode(code string) NavigatorOption {
	return func(n *Navigator) {
		n.defaultCode = code
	}
}

// WithMaxNotices bounds the number of undrained notices kept
func WithMaxNotices(max int) NavigatorOption {
	return func(n *Navigator) {
		if max > 0 {
			n.maxNotices = max
		}
	}
}

// WithClock overrides the time source used to stamp notices
func WithClock(now func() time.Time) NavigatorOption {
	return func(n *Navigator) {
		if now != nil {
			n.now = now
		}
	}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
