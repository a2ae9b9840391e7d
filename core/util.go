package core

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/constant"
)

func pidFilePath(name string) string {
	if name == "" {
		name = constant.ProjectName
	}
	return filepath.Join(os.TempDir(), name+".pid")
}

// createPidFile claims the single GUI instance slot.
func createPidFile(name string) (string, error) {
	pidFile := pidFilePath(name)
	f, err := os.OpenFile(pidFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			logrus.Warnf("Another instance of %s is already running.", constant.ProjectName)
			logrus.Warn("If this is not the case, please delete the pid file: ", pidFile)
			return "", errors.New("pid file already exists")
		}
		return "", errors.Wrap(err, "create pid file")
	}
	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = f.Close()
		return "", errors.Wrap(err, "write pid file")
	}
	return pidFile, f.Close()
}

func removePidFile(name string) error {
	pidFile := pidFilePath(name)
	if err := os.Remove(pidFile); err != nil {
		if os.IsNotExist(err) {
			return errors.New("pid file does not exist")
		}
		logrus.WithError(err).Error("Failed to remove pid file")
		return err
	}
	logrus.Debug("Pid file removed: ", pidFile)
	return nil
}
