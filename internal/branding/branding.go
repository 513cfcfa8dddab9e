// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork for another tool release only edits YAML.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	VendorTool  string `yaml:"vendor_tool"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is empty or malformed.
		defaults = brand{
			CLIName:     "livetool_setup",
			DisplayName: "PetaLinux live tool setup",
			Description: "Link a working copy to a shared PetaLinux tool installation",
			HomeDir:     ".livetool",
			EnvPrefix:   "LIVETOOL",
			VendorTool:  "PetaLinux",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "livetool_setup").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".livetool").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "LIVETOOL").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// VendorTool returns the name of the vendor tool being linked.
func VendorTool() string { load(); return defaults.VendorTool }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("workspace") → "LIVETOOL_WORKSPACE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
