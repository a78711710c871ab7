// Package logger builds the process wide logrus logger.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a text logger writing to stdout at the given level. Unknown
// levels fall back to info.
func New(service, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		log.Warnf("invalid log level %q, defaulting to info", level)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.AddHook(serviceHook{service})

	return log
}

type serviceHook struct {
	service string
}

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = h.service
	return nil
}
