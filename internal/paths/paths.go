// Package paths resolves the configuration file and output locations used by
// the prograde command.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFileName is the name of the optional configuration file.
const ConfigFileName = "prograde.yaml"

// EnvConfigDir overrides the platform configuration directory.
const EnvConfigDir = "PROGRADE_CONFIG_DIR"

// OutputPrefix is prepended to the input file name to form the default
// output path.
const OutputPrefix = "prograde_out_"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/prograde (fallback ~/.config/prograde)
// macOS:   ~/Library/Application Support/prograde
// Windows: %APPDATA%/prograde
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "prograde"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "prograde"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "prograde"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > PROGRADE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveConfigFile returns the configuration file to read. An explicit
// file wins; otherwise prograde.yaml inside ResolveConfigDir("") is used.
// The file need not exist.
func ResolveConfigFile(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	dir, err := ResolveConfigDir("")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// DefaultOutputPath returns prograde_out_<name> next to the input file.
func DefaultOutputPath(input string) string {
	dir, name := filepath.Split(input)
	return filepath.Join(dir, OutputPrefix+name)
}
