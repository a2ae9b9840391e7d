package config

import (
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/model"
)

// BindFlags registers the configuration flags on cmd.
func BindFlags(cmd *cobra.Command) {
	defaults := model.DefaultConfig()
	flags := cmd.PersistentFlags()

	flags.String("base-url", defaults.BaseURL, "Catalog base URL")
	flags.Duration("request-timeout", defaults.RequestTimeout, "Timeout of a single catalog request")
	flags.Float64("rate-limit", defaults.RateLimit, "Catalog requests per second (0 disables the limit)")
	flags.String("cache-backend", defaults.CacheBackend, "Response cache backend: sqlite or memory")
	flags.String("cache-path", defaults.CachePath, "SQLite cache file (default in the user cache dir)")
	flags.String("installed-path", defaults.InstalledPath, "Directory of the installed styles registry")
	flags.StringP("title", "t", defaults.Title, "Title of the results window")
	flags.IntP("per-page", "n", defaults.ItemsPerPage, "Results shown per page")
	flags.Bool("terminal", defaults.TerminalMode, "Run in terminal-only mode without GUI")
	flags.Float32("min-width", defaults.MinWidth, "Minimum window width")
	flags.Float32("min-height", defaults.MinHeight, "Minimum window height")
	flags.String("log-level", defaults.LogLevel, "Log level: trace, debug, info, warn or error")
	flags.String("metrics-addr", defaults.MetricsAddr, "Serve Prometheus metrics on this address")
	flags.StringP("profile", "P", "", "Config profile; reads config.yaml from a subdirectory of the config dir")
	flags.Bool("init-config", false, "Generate and save default config file")
}

// bindFlagKeys maps each flag onto its config key so flags win over file and env.
func bindFlagKeys(v *viper.Viper, cmd *cobra.Command) error {
	for _, variant := range configKeyVariants {
		if variant.flag == "" {
			continue
		}
		flag := cmd.Flags().Lookup(variant.flag)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(variant.canonical, flag); err != nil {
			return err
		}
	}
	return nil
}

// SetViperDefaults sets every config key to its default so env lookups apply.
func SetViperDefaults(v *viper.Viper) {
	defaults := reflect.ValueOf(*model.DefaultConfig())
	typ := defaults.Type()
	for i := 0; i < typ.NumField(); i++ {
		key := strings.Split(typ.Field(i).Tag.Get("mapstructure"), ",")[0]
		if key == "" || key == "-" {
			continue
		}
		v.SetDefault(key, defaults.Field(i).Interface())
	}
}

// SetViperEnvSettings configures viper environment variable settings.
func SetViperEnvSettings(v *viper.Viper) {
	v.SetEnvPrefix(strings.ToUpper(constant.ProjectName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}
