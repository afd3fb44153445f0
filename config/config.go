package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/foldertree/internal/util"
	"gopkg.in/yaml.v3"
)

// Log verbosity values as accepted on the command line and in config files.
// 1 is the quietest, 5 the loudest; values outside the range are clamped.
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl = util.InfoLevel

	// DefaultRootName matches the name of the root folder in the demo tree
	DefaultRootName = "Root"

	// DefaultMarkerCapability is the capability plugin types must declare to be listed
	DefaultMarkerCapability = "INeededInterface"

	// DefaultModuleSymbol is the exported symbol looked up in shared object modules
	DefaultModuleSymbol = "Module"

	// DefaultSeedDemo populates Root/Subfolder/{File1.txt,File2.txt} when no tree file is given
	DefaultSeedDemo = true
)

// Config contains runtime configuration values for a foldertree session.
type Config struct {
	LogLvl           util.LogLevel // Internal log level (Default info)
	RootName         string        // Name of the root folder (Default "Root")
	MarkerCapability string        // Capability a plugin type must declare to be a candidate (Default "INeededInterface")
	ModuleSymbol     string        // Symbol exported by shared object modules (Default "Module")
	SeedDemo         bool          // Seed the demo tree when TreeFile is empty (Default true)
	TreeFile         string        // Optional JSON/YAML tree definition file
	ModulePath       string        // Optional module to load at startup
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	LogLvl           *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"` // verbosity 1 (error) to 5 (trace)
	RootName         *string `yaml:"root_name,omitempty" json:"root_name,omitempty"`
	MarkerCapability *string `yaml:"marker_capability,omitempty" json:"marker_capability,omitempty"`
	ModuleSymbol     *string `yaml:"module_symbol,omitempty" json:"module_symbol,omitempty"`
	SeedDemo         *bool   `yaml:"seed_demo,omitempty" json:"seed_demo,omitempty"`
	TreeFile         *string `yaml:"tree_file,omitempty" json:"tree_file,omitempty"`
	ModulePath       *string `yaml:"module_path,omitempty" json:"module_path,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:           DefaultLogLvl,
		RootName:         DefaultRootName,
		MarkerCapability: DefaultMarkerCapability,
		ModuleSymbol:     DefaultModuleSymbol,
		SeedDemo:         DefaultSeedDemo,
	}
}

// NewConfig creates a Config from defaults with the override applied.
// A nil override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// VerbosityToLogLevel clamps v to [ErrorVerbose, TraceVerbose] and maps it to a log level
func VerbosityToLogLevel(v int) util.LogLevel {
	v = max(ErrorVerbose, min(v, TraceVerbose))
	lvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[v-1]
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerbosityToLogLevel(*override.LogLvl)
	}
	if override.RootName != nil {
		c.RootName = *override.RootName
	}
	if override.MarkerCapability != nil {
		c.MarkerCapability = *override.MarkerCapability
	}
	if override.ModuleSymbol != nil {
		c.ModuleSymbol = *override.ModuleSymbol
	}
	if override.SeedDemo != nil {
		c.SeedDemo = *override.SeedDemo
	}
	if override.TreeFile != nil {
		c.TreeFile = *override.TreeFile
	}
	if override.ModulePath != nil {
		c.ModulePath = *override.ModulePath
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
