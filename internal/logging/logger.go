// Package logging is the structured logger handed to every classifier component.
// Production code logs through logrus; tests capture entries with MockLogger.
package logging

// Logger is the structured logger interface. Messages are short constant
// strings; request ids, stages and categories travel as fields.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger carrying err on every entry.
	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger
}

// Field is one key/value pair attached to a log entry. Keys come from the
// Field* constants.
type Field struct {
	Key   string
	Value interface{}
}
