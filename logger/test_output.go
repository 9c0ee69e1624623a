package logger

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// SetTestMode sets test mode.
func SetTestMode(t testing.TB) {
	logrus.SetOutput(TestWriter(t))
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetLevel(logrus.DebugLevel)
}

// TestWriter writes into test log.
func TestWriter(t testing.TB) io.Writer {
	return &testWriter{t: t}
}

type testWriter struct {
	t testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
