// Package paths resolves where acepatch reads its configuration, game tables
// and templates, and where it writes patched output.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names used when nothing else is configured. They
// match the layout the mod kit ships with: tables and templates in Data/,
// results in Output/.
const (
	DefaultDataDirName   = "Data"
	DefaultOutputDirName = "Output"
)

// AppName names the per-user configuration directory.
const AppName = "acepatch"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ACEPATCH_CONFIG_DIR"
	EnvDataDir   = "ACEPATCH_DATA_DIR"
	EnvOutputDir = "ACEPATCH_OUTPUT_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/acepatch (fallback ~/.config/acepatch)
// macOS:   ~/Library/Application Support/acepatch
// Windows: %APPDATA%/acepatch
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > ACEPATCH_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml data_dir > ACEPATCH_DATA_DIR env > $(CWD)/Data.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	return resolve(flag, configYAMLValue, EnvDataDir, DefaultDataDirName)
}

// ResolveOutputDir returns the output directory following the precedence
// chain: flag > config.yaml output_dir > ACEPATCH_OUTPUT_DIR env > $(CWD)/Output.
func ResolveOutputDir(flag, configYAMLValue string) (string, error) {
	return resolve(flag, configYAMLValue, EnvOutputDir, DefaultOutputDirName)
}

func resolve(flag, configYAMLValue, env, defaultName string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if v := os.Getenv(env); v != "" {
		return filepath.Abs(v)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, defaultName), nil
}
