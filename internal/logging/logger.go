// Package logging provides the structured logging abstraction used across
// finrecon. Components depend on the Logger interface; the binary wires a
// logrus-backed implementation and tests use MockLogger.
package logging

// Logger defines structured logging with key/value fields.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a derived logger carrying err as a field.
	WithError(err error) Logger

	// WithField returns a derived logger carrying one extra field.
	WithField(key string, value interface{}) Logger

	// WithFields returns a derived logger carrying the given fields.
	WithFields(fields ...Field) Logger
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field inline.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// OrDefault returns logger, or a text logger at info level when it is nil.
func OrDefault(logger Logger) Logger {
	if logger == nil {
		return NewLogrusAdapter("info", "text")
	}
	return logger
}
