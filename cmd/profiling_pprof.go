//go:build pprof

package main

import (
	"os"
	"runtime/pprof"

	"github.com/sirupsen/logrus"
)

// startProfiling writes a CPU profile to $STYLEFIND_CPU_PROFILE (cpu.pprof
// by default) until the returned func is called.
func startProfiling() func() {
	path := os.Getenv("STYLEFIND_CPU_PROFILE")
	if path == "" {
		path = "cpu.pprof"
	}
	f, err := os.Create(path)
	if err != nil {
		logrus.WithError(err).Warn("cpu profile disabled")
		return func() {}
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		logrus.WithError(err).Warn("cpu profile disabled")
		_ = f.Close()
		return func() {}
	}
	return func() {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			logrus.WithError(err).Warn("closing cpu profile")
		}
	}
}
