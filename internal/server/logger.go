package server

import (
	"log"
	"os"
)

// Logger is the logging surface the server needs.
type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

type stdLogger struct {
	l *log.Logger
}

// NewStdLogger wraps l, or a stderr logger prefixed "chromasim: " when l
// is nil.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.New(os.Stderr, "chromasim: ", log.LstdFlags)
	}
	return &stdLogger{l: l}
}

func (s *stdLogger) Infof(format string, v ...any) {
	s.l.Printf("[INFO] "+format, v...)
}

func (s *stdLogger) Errorf(format string, v ...any) {
	s.l.Printf("[ERROR] "+format, v...)
}
