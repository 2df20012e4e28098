// Copyright © 2024 The ELPS authors

package rcatest

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
)

// Logger forwards complete lines written to it to a test log.
type Logger struct {
	t   testing.TB
	buf []byte
}

var _ io.Writer = (*Logger)(nil)

func NewLogger(t testing.TB) *Logger {
	return &Logger{t: t}
}

func (log *Logger) Write(b []byte) (int, error) {
	log.buf = append(log.buf, b...)
	for {
		i := bytes.IndexByte(log.buf, '\n')
		if i < 0 {
			return len(b), nil
		}
		log.t.Log(string(log.buf[:i]))
		log.buf = log.buf[i+1:]
	}
}

// Slog returns a debug level structured logger writing to the test log.
func Slog(t testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(NewLogger(t), &slog.HandlerOptions{Level: slog.LevelDebug}))
}
