package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/plnx-tools/livetool/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood in config.yaml and as LIVETOOL_<KEY> environment variables.
const (
	KeyWorkspace = "workspace"
	KeyLinkSpec  = "linkspec"
	KeyLogLevel  = "log_level"
	KeyNoColor   = "no_color"
)

// Keys lists every supported key in display order.
var Keys = []string{KeyWorkspace, KeyLinkSpec, KeyLogLevel, KeyNoColor}

// Dir returns the path to the config directory (~/.livetool/).
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.livetool/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// A missing config file is not an error; a malformed one is.
func Load() error {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyLogLevel, "info")

	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// BindFlags makes flags override config values. Flag names use dashes where
// keys use underscores (--log-level binds log_level).
func BindFlags(flags *pflag.FlagSet) error {
	bindings := map[string]string{
		KeyWorkspace: "workspace",
		KeyLinkSpec:  "linkspec",
		KeyLogLevel:  "log-level",
		KeyNoColor:   "no-color",
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Workspace returns the configured working copy root, or "" for the current directory.
func Workspace() string { return viper.GetString(KeyWorkspace) }

// LinkSpec returns the configured alternate link table path, or "" for the embedded table.
func LinkSpec() string { return viper.GetString(KeyLinkSpec) }

// LogLevel returns the configured log level name.
func LogLevel() string { return viper.GetString(KeyLogLevel) }

// NoColor reports whether colour output is disabled.
func NoColor() bool { return viper.GetBool(KeyNoColor) }

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !isKnown(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func isKnown(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
