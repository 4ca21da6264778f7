package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// New returns the root logger of actcheck.
func New(version string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"version": version,
		"program": "actcheck",
	})
}

// SetLevel sets the log level. An empty level keeps the current level.
func SetLevel(logE *logrus.Entry, level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse the log level: %w", err)
	}
	logE.Logger.SetLevel(lvl)
	return nil
}
