package logger

import (
	"github.com/sirupsen/logrus"
)

type Instance struct {
	Log logrus.FieldLogger
}

func New(name ...string) Instance {
	if len(name) == 0 {
		return Instance{
			Log: logrus.StandardLogger(),
		}
	}
	return Instance{
		Log: logrus.WithField("module", name[0]),
	}
}

// SetVerbosity maps a 0..5 verbosity level onto the root logger,
// 0 being silent and 5 tracing.
func SetVerbosity(verbosity int) {
	if verbosity <= 0 {
		logrus.SetLevel(logrus.PanicLevel)
		return
	}
	// 1=error .. 5=trace
	lvl := logrus.Level(int(logrus.WarnLevel) + verbosity - 2)
	if lvl > logrus.TraceLevel {
		lvl = logrus.TraceLevel
	}
	logrus.SetLevel(lvl)
}
