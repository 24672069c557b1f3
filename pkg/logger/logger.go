package logger

// LoggerInstance defines the interface for logging backends.
type LoggerInstance interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

// Logger holds multiple logging backends and dispatches log calls to all of them.
//
// A Logger is created once in main and handed to every component that logs.
// The zero value and a nil *Logger are valid and discard everything.
type Logger struct {
	instances []LoggerInstance
	keyvals   []any
}

// New creates a Logger that fans out to the given backends.
func New(instances ...LoggerInstance) *Logger {
	return &Logger{instances: instances}
}

// Nop returns a Logger without backends.
func Nop() *Logger {
	return &Logger{}
}

// With returns a child Logger that prepends keyvals to every call.
func (l *Logger) With(keyvals ...any) *Logger {
	if l == nil {
		return nil
	}
	merged := make([]any, 0, len(l.keyvals)+len(keyvals))
	merged = append(merged, l.keyvals...)
	merged = append(merged, keyvals...)
	return &Logger{instances: l.instances, keyvals: merged}
}

func (l *Logger) fields(keyvals []any) []any {
	if len(l.keyvals) == 0 {
		return keyvals
	}
	out := make([]any, 0, len(l.keyvals)+len(keyvals))
	out = append(out, l.keyvals...)
	return append(out, keyvals...)
}

// Log writes a message at the default log level to all configured backends.
func (l *Logger) Log(message string, keyvals ...any) {
	if l == nil {
		return
	}
	kv := l.fields(keyvals)
	for _, instance := range l.instances {
		instance.Log(message, kv...)
	}
}

// Info writes a message at INFO level to all configured backends.
func (l *Logger) Info(message string, keyvals ...any) {
	if l == nil {
		return
	}
	kv := l.fields(keyvals)
	for _, instance := range l.instances {
		instance.Info(message, kv...)
	}
}

// Warn writes a message at WARN level to all configured backends.
func (l *Logger) Warn(message string, keyvals ...any) {
	if l == nil {
		return
	}
	kv := l.fields(keyvals)
	for _, instance := range l.instances {
		instance.Warn(message, kv...)
	}
}

// Error writes a message at ERROR level to all configured backends.
func (l *Logger) Error(message string, keyvals ...any) {
	if l == nil {
		return
	}
	kv := l.fields(keyvals)
	for _, instance := range l.instances {
		instance.Error(message, kv...)
	}
}

// Debug writes a message at DEBUG level to all configured backends.
func (l *Logger) Debug(message string, keyvals ...any) {
	if l == nil {
		return
	}
	kv := l.fields(keyvals)
	for _, instance := range l.instances {
		instance.Debug(message, kv...)
	}
}

// Fatal writes a message at FATAL level and terminates the program.
func (l *Logger) Fatal(message string, keyvals ...any) {
	if l == nil {
		return
	}
	kv := l.fields(keyvals)
	for _, instance := range l.instances {
		instance.Fatal(message, kv...)
	}
}
