package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/model"
	"github.com/hamidzr/stylefind/store"
)

const configFileName = "config.yaml"

// getConfigPaths returns the config directory paths in priority order
// prefers ~/.config over macos application support dir
func getConfigPaths(profile string) []string {
	var paths []string

	// when a profile is given, prioritize its namespaced configs
	if profile != "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(homeDir, ".config", constant.ProjectName, profile))
		}
		if configDir, err := os.UserConfigDir(); err == nil {
			paths = append(paths, filepath.Join(configDir, constant.ProjectName, profile))
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", constant.ProjectName))
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, constant.ProjectName))
	}
	paths = append(paths, ".")

	return paths
}

// getPreferredConfigDir returns the preferred config directory for writing
func getPreferredConfigDir(profile string) (string, error) {
	base := ""
	if homeDir, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(homeDir, ".config", constant.ProjectName)
	} else if userConfigDir, err := os.UserConfigDir(); err == nil {
		base = filepath.Join(userConfigDir, constant.ProjectName)
	} else {
		return "", fmt.Errorf("unable to determine config directory")
	}
	if profile != "" {
		return filepath.Join(base, profile), nil
	}
	return base, nil
}

// InitConfig initializes Viper configuration with proper priority:
// 1. CLI flags (highest priority)
// 2. Environment variables
// 3. Config file (lowest priority)
func InitConfig(cmd *cobra.Command) (*model.Config, error) {
	v := viper.New()

	v.SetConfigName(strings.TrimSuffix(configFileName, ".yaml"))
	v.SetConfigType("yaml")

	profile, _ := cmd.Flags().GetString("profile")
	for _, path := range getConfigPaths(profile) {
		v.AddConfigPath(path)
	}

	SetViperEnvSettings(v)
	SetViperDefaults(v)
	registerConfigKeyAliases(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// config file not found is ok, we'll use defaults + env vars + flags
	} else if err := validateConfigFileKeys(v.ConfigFileUsed()); err != nil {
		return nil, err
	}

	if err := bindFlagKeys(v, cmd); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	var config model.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	ResolvePaths(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// ResolvePaths fills empty storage paths with the per-user defaults.
func ResolvePaths(cfg *model.Config) {
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(store.CacheDir(), "cache.db")
	}
	if cfg.InstalledPath == "" {
		cfg.InstalledPath = store.ConfigDir()
	}
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.Split(field.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Validate checks the value constraints of cfg.
func Validate(cfg *model.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s: %v does not satisfy %s", fe.Field(), fe.Value(), rule))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// defaultsDocument lists the defaults in struct order, durations as text.
func defaultsDocument(cfg *model.Config) yaml.MapSlice {
	val := reflect.ValueOf(*cfg)
	typ := val.Type()
	doc := make(yaml.MapSlice, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		key := strings.Split(typ.Field(i).Tag.Get("yaml"), ",")[0]
		if key == "" || key == "-" {
			continue
		}
		value := val.Field(i).Interface()
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		doc = append(doc, yaml.MapItem{Key: key, Value: value})
	}
	return doc
}

// InitConfigFile generates and saves a default config file to the appropriate location
func InitConfigFile(profile string) (string, error) {
	configDir, err := getPreferredConfigDir(profile)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	configPath := filepath.Join(configDir, configFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists at %s", configPath)
	}

	yamlData, err := yaml.Marshal(defaultsDocument(model.DefaultConfig()))
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	header := `# stylefind configuration file
# Generated automatically - customize as needed
#
# cache_backend: sqlite or memory
# empty cache_path / installed_path use the per-user cache and config dirs
#

`

	if err := os.WriteFile(configPath, []byte(header+string(yamlData)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return configPath, nil
}
