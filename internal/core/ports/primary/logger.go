package primary

// Logger is the structured logger used across services and adapters.
// args are alternating key/value pairs.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}
