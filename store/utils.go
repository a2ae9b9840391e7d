package store

import (
	"os"
	"path/filepath"

	"github.com/hamidzr/stylefind/constant"
)

func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constant.ProjectName)
	}
	return filepath.Join(os.Getenv("HOME"), ".config", constant.ProjectName)
}

func CacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, constant.ProjectName)
	}
	return filepath.Join(os.Getenv("HOME"), ".cache", constant.ProjectName)
}
