package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hamidzr/stylefind/category"
	"github.com/hamidzr/stylefind/core"
	"github.com/hamidzr/stylefind/internal/config"
	"github.com/hamidzr/stylefind/internal/logger"
	"github.com/hamidzr/stylefind/model"
	"github.com/hamidzr/stylefind/render"
)

// InitCLI builds the command tree.
func InitCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stylefind [tab-url]",
		Short: "stylefind searches the userstyles catalog for styles matching a site",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initConfig, _ := cmd.Flags().GetBool("init-config")
			if initConfig {
				profile, _ := cmd.Flags().GetString("profile")
				configPath, err := config.InitConfigFile(profile)
				if err != nil {
					return errors.Wrap(err, "failed to initialize config")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Config file created at: %s\n", configPath)
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tabURL := ""
			if len(args) == 1 {
				tabURL = args[0]
			}
			return run(cmd, cfg, tabURL)
		},
	}
	rootCmd.SilenceUsage = true

	config.BindFlags(rootCmd)
	rootCmd.AddCommand(installedCmd(), cacheCmd(), browseCmd())
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := config.InitConfig(cmd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize config")
	}
	if err := logger.SetupLogger(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, cfg *model.Config, tabURL string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TerminalMode {
		return RunTerminalSession(ctx, cfg, tabURL, cmd.OutOrStdout())
	}

	a := newApp(cfg)
	defer a.Close()

	deps, err := a.sessionDeps()
	if err != nil {
		return err
	}
	a.watchInstalled(ctx)
	a.serveMetrics(ctx)

	return core.RunGUI(ctx, deps, a.sessionOptions(), cfg.BaseURL, tabURL, core.GUIOptions{
		Title:     cfg.Title,
		MinWidth:  cfg.MinWidth,
		MinHeight: cfg.MinHeight,
	})
}

// RunTerminalSession searches for tabURL and draws result pages to out,
// reading navigation keys from stdin until quit or ctx is done.
func RunTerminalSession(ctx context.Context, cfg *model.Config, tabURL string, out io.Writer) error {
	logrus.Debug("Running in terminal mode")
	if tabURL == "" {
		return errors.New("terminal mode needs a tab url argument")
	}
	a := newApp(cfg)
	defer a.Close()

	deps, err := a.sessionDeps()
	if err != nil {
		return err
	}
	a.watchInstalled(ctx)
	a.serveMetrics(ctx)

	surface := render.NewTextSurface(out, cfg.BaseURL)
	surface.ClearScreen = true
	deps.Surface = surface

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	session := core.NewSession(deps, a.sessionOptions(), tabURL)
	runErr := make(chan error, 1)
	go func() { runErr <- session.Run(sessionCtx) }()
	session.Start()

	err = core.RunTerminal(sessionCtx, session, os.Stdin)
	cancel()
	<-runErr
	if err == nil && ctx.Err() != nil {
		return model.NewExitError(model.UserCanceled, ctx.Err())
	}
	return err
}

func installedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "installed",
		Short: "Inspect installed styles",
	}

	listCmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List installed styles, optionally filtered by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			methodName, _ := cmd.Flags().GetString("method")
			method, ok := core.SearchMethods[methodName]
			if !ok {
				return errors.Errorf("invalid search method: %s", methodName)
			}
			a := newApp(cfg)
			defer a.Close()
			registry, err := a.openRegistry()
			if err != nil {
				return err
			}
			styles := registry.List()
			if len(args) == 1 {
				styles = method(styles, args[0], true, 0)
			}
			out := cmd.OutOrStdout()
			for _, s := range styles {
				fmt.Fprintf(out, "%s\t%s\t%s\n", s.ID, s.Name, s.UpdateURL)
			}
			return nil
		},
	}
	listCmd.Flags().String("method", "default", "name matching method: direct, fuzzy, fuzzy1, fuzzy3 or default")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an installed style by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a := newApp(cfg)
			defer a.Close()
			registry, err := a.openRegistry()
			if err != nil {
				return err
			}
			if err := registry.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, removeCmd)
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the search response cache",
	}

	withCache := func(action func(cmd *cobra.Command, a *app) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a := newApp(cfg)
			defer a.Close()
			if _, err := a.openCache(); err != nil {
				return err
			}
			return action(cmd, a)
		}
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and size",
		Args:  cobra.NoArgs,
		RunE: withCache(func(cmd *cobra.Command, a *app) error {
			stats, err := a.cache.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\nbytes: %d\nlimit: %d\n", stats.Entries, stats.Bytes, a.cfg.CacheMaxBytes)
			return nil
		}),
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		Args:  cobra.NoArgs,
		RunE: withCache(func(cmd *cobra.Command, a *app) error {
			n, err := a.cache.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
			return nil
		}),
	}
	evictCmd := &cobra.Command{
		Use:   "evict",
		Short: "Drop expired and oldest entries until the cache fits its limit",
		Args:  cobra.NoArgs,
		RunE: withCache(func(cmd *cobra.Command, a *app) error {
			n, err := a.cache.EvictIfOverCapacity(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "evicted %d entries\n", n)
			return nil
		}),
	}

	cmd.AddCommand(statsCmd, clearCmd, evictCmd)
	return cmd
}

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <tab-url>",
		Short: "Print the catalog page listing styles for a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			r := newApp(cfg).resolver()
			if r.Resolve(args[0], category.ResolveOptions{}) == "" {
				return errors.Errorf("no category for %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.SearchPageURL(cfg.BaseURL, args[0]))
			return nil
		},
	}
}
