package config

import (
	"github.com/brettbedarf/foldertree/internal/util"
	"github.com/ilyakaznacheev/cleanenv"
)

// envVars lists environment overrides. Empty strings and zero values mean unset.
type envVars struct {
	Verbose          int    `env:"FOLDERTREE_VERBOSE" env-description:"log verbosity 1 (error) to 5 (trace)"`
	RootName         string `env:"FOLDERTREE_ROOT_NAME" env-description:"name of the root folder"`
	MarkerCapability string `env:"FOLDERTREE_MARKER" env-description:"capability plugin types must declare"`
	ModuleSymbol     string `env:"FOLDERTREE_MODULE_SYMBOL" env-description:"symbol exported by shared object modules"`
	TreeFile         string `env:"FOLDERTREE_TREE_FILE" env-description:"JSON/YAML tree definition file"`
	ModulePath       string `env:"FOLDERTREE_MODULE" env-description:"module to load at startup"`
}

// LoadConfigOverrideEnv reads FOLDERTREE_* environment variables into a ConfigOverride.
// Only variables that are set produce non-nil fields.
func LoadConfigOverrideEnv() (*ConfigOverride, error) {
	var env envVars
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, err
	}

	override := &ConfigOverride{}
	if env.Verbose != 0 {
		override.LogLvl = util.Pointer(env.Verbose)
	}
	if env.RootName != "" {
		override.RootName = util.Pointer(env.RootName)
	}
	if env.MarkerCapability != "" {
		override.MarkerCapability = util.Pointer(env.MarkerCapability)
	}
	if env.ModuleSymbol != "" {
		override.ModuleSymbol = util.Pointer(env.ModuleSymbol)
	}
	if env.TreeFile != "" {
		override.TreeFile = util.Pointer(env.TreeFile)
	}
	if env.ModulePath != "" {
		override.ModulePath = util.Pointer(env.ModulePath)
	}
	return override, nil
}

// EnvUsage returns a description of the supported environment variables
func EnvUsage() string {
	desc, err := cleanenv.GetDescription(&envVars{}, nil)
	if err != nil {
		return ""
	}
	return desc
}
