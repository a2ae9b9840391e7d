package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/internal/cli"
	"github.com/hamidzr/stylefind/model"
)

func main() {
	stopProfiling := startProfiling()
	cmd := cli.InitCLI()
	err := cmd.Execute()
	stopProfiling()
	if err != nil {
		code, cause := model.ExitCodeFromError(err)
		if cause != nil {
			logrus.Error(cause)
		}
		os.Exit(int(code))
	}
}
