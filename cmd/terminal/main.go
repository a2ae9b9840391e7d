// Command terminal runs a stylefind search in the terminal without the CLI
// flag layer. Configuration comes from the config file only.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hamidzr/stylefind/internal/cli"
	internalconfig "github.com/hamidzr/stylefind/internal/config"
	"github.com/hamidzr/stylefind/internal/logger"
	"github.com/hamidzr/stylefind/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: terminal <tab-url> [profile]")
		os.Exit(2)
	}
	profile := ""
	if len(os.Args) > 2 {
		profile = os.Args[2]
	}

	cfg, err := config.Load(profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	internalconfig.ResolvePaths(cfg)
	if err := internalconfig.Validate(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.SetupLogger(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cli.RunTerminalSession(ctx, cfg, os.Args[1], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
