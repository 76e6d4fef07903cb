package fragments

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var logger atomic.Pointer[logrus.Entry]

func init() {
	logger.Store(logrus.StandardLogger().WithField("component", "fragments"))
}

// SetLogger replaces the logger used to report skipped or malformed content.
func SetLogger(l logrus.FieldLogger) {
	logger.Store(l.WithField("component", "fragments"))
}

func log() *logrus.Entry {
	return logger.Load()
}
