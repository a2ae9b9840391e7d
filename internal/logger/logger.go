package logger

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SetupLogger sends all logs to stderr at the given level; stdout stays
// free for command output and the terminal frames.
func SetupLogger(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "log level %q", level)
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}
