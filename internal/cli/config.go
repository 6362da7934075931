package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/prograde/internal/paths"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// Config keys, shared by prograde.yaml and the PROGRADE_* environment.
const (
	cfgKeyVerbosity   = "verbosity"
	cfgKeyLogFormat   = "log_format"
	cfgKeySaveFormat  = "save_format"
	cfgKeyCleanTables = "clean_tables"
	cfgKeyCutoffDate  = "lithology_cutoff_date"

	envPrefix = "PROGRADE"
)

// flagKeys binds config keys to the flags that override them.
var flagKeys = map[string]string{
	cfgKeyVerbosity:  "verbosity",
	cfgKeyLogFormat:  "log-format",
	cfgKeySaveFormat: "format",
}

// loadConfig merges defaults, the configuration file, PROGRADE_* variables
// and flags, in increasing precedence. A missing configuration file is not an
// error unless it was named explicitly.
func loadConfig(cmd *cobra.Command, configFile string) (types.Config, error) {
	def := types.DefaultConfig()
	v := viper.New()
	v.SetDefault(cfgKeyVerbosity, def.Verbosity)
	v.SetDefault(cfgKeyLogFormat, def.LogFormat)
	v.SetDefault(cfgKeySaveFormat, def.SaveFormat)
	v.SetDefault(cfgKeyCleanTables, def.CleanTables)
	v.SetDefault(cfgKeyCutoffDate, def.LithologyCutoffDate)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return types.Config{}, errors.ErrInvalidArgument.Newf("binding flag %s: %v", name, err)
			}
		}
	}

	path, err := paths.ResolveConfigFile(configFile)
	if err != nil {
		return types.Config{}, errors.ErrIO.Newf("resolving config file: %v", err)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		_, statErr := os.Stat(path)
		if configFile != "" || !os.IsNotExist(statErr) {
			return types.Config{}, errors.ErrIO.Newf("reading config %s: %v", path, err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, errors.ErrValidation.Newf("decoding config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write a default " + paths.ConfigFileName + " if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(dir)
			if err != nil {
				return errors.ErrIO.Newf("resolving config dir: %v", err)
			}
			path := filepath.Join(configDir, paths.ConfigFileName)
			written, err := writeConfigIfMissing(path)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "configuration directory (default: $"+paths.EnvConfigDir+" or the platform config dir)")
	return cmd
}

// writeConfigIfMissing creates path holding the default configuration. An
// existing file is left untouched.
func writeConfigIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.ErrIO.Newf("creating config directory: %v", err)
	}
	data, err := yaml.Marshal(types.DefaultConfig())
	if err != nil {
		return false, errors.ErrIO.Newf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, errors.ErrIO.Newf("writing %s: %v", path, err)
	}
	return true, nil
}
