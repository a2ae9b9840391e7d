package config

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	yamlv3 "gopkg.in/yaml.v3"
)

// configKeyVariant names one setting: its config file key, an accepted
// camelCase spelling and the cobra flag bound to it, if any.
type configKeyVariant struct {
	canonical string
	camel     string
	flag      string
}

var configKeyVariants = []configKeyVariant{
	{canonical: "base_url", camel: "baseUrl", flag: "base-url"},
	{canonical: "request_timeout", camel: "requestTimeout", flag: "request-timeout"},
	{canonical: "rate_limit", camel: "rateLimit", flag: "rate-limit"},
	{canonical: "user_agent", camel: "userAgent"},
	{canonical: "cache_backend", camel: "cacheBackend", flag: "cache-backend"},
	{canonical: "cache_path", camel: "cachePath", flag: "cache-path"},
	{canonical: "cache_ttl", camel: "cacheTtl"},
	{canonical: "cache_max_bytes", camel: "cacheMaxBytes"},
	{canonical: "cache_write_delay", camel: "cacheWriteDelay"},
	{canonical: "cache_cleanup_delay", camel: "cacheCleanupDelay"},
	{canonical: "self_scheme", camel: "selfScheme"},
	{canonical: "self_name", camel: "selfName"},
	{canonical: "installed_path", camel: "installedPath", flag: "installed-path"},
	{canonical: "watch_installed", camel: "watchInstalled"},
	{canonical: "title", flag: "title"},
	{canonical: "items_per_page", camel: "itemsPerPage", flag: "per-page"},
	{canonical: "fade_in_threshold", camel: "fadeInThreshold"},
	{canonical: "terminal_mode", camel: "terminalMode", flag: "terminal"},
	{canonical: "min_width", camel: "minWidth", flag: "min-width"},
	{canonical: "min_height", camel: "minHeight", flag: "min-height"},
	{canonical: "log_level", camel: "logLevel", flag: "log-level"},
	{canonical: "metrics_addr", camel: "metricsAddr", flag: "metrics-addr"},
}

// canonicalByKey maps every accepted spelling to its config file key.
var canonicalByKey = func() map[string]string {
	m := make(map[string]string, len(configKeyVariants)*2)
	for _, k := range configKeyVariants {
		m[k.canonical] = k.canonical
		if k.camel != "" {
			m[k.camel] = k.canonical
		}
	}
	return m
}()

func registerConfigKeyAliases(v *viper.Viper) {
	for _, k := range configKeyVariants {
		if k.camel != "" {
			v.RegisterAlias(k.camel, k.canonical)
		}
	}
}

// validateConfigFileKeys rejects unknown keys and settings spelled twice in
// different styles. Every unknown key is reported at once.
func validateConfigFileKeys(configPath string) error {
	if configPath == "" {
		return nil
	}
	where := configFileDisplayPath(configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrapf(err, "error reading config file %s", where)
	}
	var raw map[string]any
	if err := yamlv3.Unmarshal(data, &raw); err != nil {
		return errors.Wrapf(err, "error parsing config file %s", where)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var unknown []string
	spelledAs := make(map[string]string, len(keys))
	for _, key := range keys {
		canonical, ok := canonicalByKey[key]
		if !ok {
			unknown = append(unknown, strconv.Quote(key))
			continue
		}
		if other, dup := spelledAs[canonical]; dup {
			return errors.Errorf("config file %s sets %q twice: %q is %s and %q is %s",
				where, canonical, other, keyStyle(other), key, keyStyle(key))
		}
		spelledAs[canonical] = key
	}
	if len(unknown) == 1 {
		return errors.Errorf("config file %s contains invalid key %s", where, unknown[0])
	}
	if len(unknown) > 1 {
		return errors.Errorf("config file %s contains invalid keys %s", where, strings.Join(unknown, ", "))
	}
	return nil
}

func keyStyle(key string) string {
	switch {
	case strings.Contains(key, "_"):
		return "snake_case"
	case strings.ToLower(key) == key:
		return "lowercase"
	default:
		return "camelCase"
	}
}

func configFileDisplayPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
