// Package cli implements the prograde command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/prograde/internal/logging"
	"github.com/mesh-intelligence/prograde/internal/model"
	"github.com/mesh-intelligence/prograde/internal/paths"
	"github.com/mesh-intelligence/prograde/internal/project"
	"github.com/mesh-intelligence/prograde/internal/upgrade"
	"github.com/mesh-intelligence/prograde/pkg/errors"
	"github.com/mesh-intelligence/prograde/pkg/types"
)

// cleanDefault is the --clean value when no table list is given.
const cleanDefault = "default"

// rootFlags holds the flag values of one command invocation.
type rootFlags struct {
	project    string
	save       string
	clean      string
	verbosity  string
	logFormat  string
	saveFormat string
	configFile string
}

// NewRootCmd creates the top-level "prograde" command with its flags and
// subcommands registered.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:   "prograde [--project] <in> [--save <out>]",
		Short: "Upgrade a legacy basin project to the current schema",
		Long: `prograde reads a basin project, brings its tables and maps up to the
current schema and writes the upgraded project. Nothing is written when an
upgrade step fails.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(cmd, &flags, args)
		},
	}

	f := root.Flags()
	f.StringVar(&flags.project, "project", "", "project file to upgrade")
	f.StringVar(&flags.save, "save", "", "output file (default: prograde_out_<in> next to the input)")
	f.StringVar(&flags.clean, "clean", "", "clear simulator output tables; --clean=T1,T2 clears the listed tables")
	f.Lookup("clean").NoOptDefVal = cleanDefault
	f.StringVar(&flags.saveFormat, "format", "", "output format: auto, jsonl or sqlite")
	root.PersistentFlags().StringVar(&flags.verbosity, "verbosity", types.VerbosityNormal, "quiet, minimal, normal, detailed or diagnostic")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", types.LogFormatText, "text or json")
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "configuration file (default: "+paths.ConfigFileName+" in the config directory)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// Execute runs the root command and exits with the code of the error that
// stopped it.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "prograde:", err)
		os.Exit(errors.ExitCode(err))
	}
}

func runUpgrade(cmd *cobra.Command, flags *rootFlags, args []string) error {
	cfg, err := loadConfig(cmd, flags.configFile)
	if err != nil {
		return err
	}
	if err := logging.Init(logging.Config{
		Verbosity: cfg.Verbosity,
		Format:    cfg.LogFormat,
		Output:    cmd.ErrOrStderr(),
	}); err != nil {
		return err
	}
	defer logging.Reset()
	log := logging.WithComponent("cli")

	in := flags.project
	if in == "" && len(args) == 1 {
		in = args[0]
	}
	if in == "" {
		return errors.ErrInvalidArgument.New("no project file given")
	}
	out := flags.save
	if out == "" {
		out = paths.DefaultOutputPath(in)
	}
	cutoff, err := cfg.CutoffDate()
	if err != nil {
		return errors.Wrap(types.ErrCutoffDateInvalid, cfg.LithologyCutoffDate)
	}
	opts := upgrade.Options{CutoffDate: cutoff}
	if cmd.Flags().Changed("clean") {
		opts.Clean = true
		opts.CleanTables = cleanTables(flags.clean, cfg.CleanTables)
	}

	log.Info("loading project", "path", in)
	p, err := project.Load(in)
	if err != nil {
		log.Error("load failed", "path", in, "error", err)
		return err
	}
	m, err := model.New(p.Store, p.Grids)
	if err != nil {
		return err
	}
	pipeline, err := upgrade.Default(m, opts)
	if err != nil {
		return err
	}
	if err := pipeline.Run(); err != nil {
		log.Error("upgrade aborted, nothing saved", "error", err, "code", errors.ExitCode(err))
		return err
	}

	log.Info("saving project", "path", out, "format", cfg.SaveFormat)
	if err := p.Save(out, cfg.SaveFormat); err != nil {
		log.Error("save failed", "path", out, "error", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "upgraded %s -> %s\n", in, out)
	return nil
}

// cleanTables returns the tables named on the command line, falling back to
// the configured list when --clean was given without one. An empty result
// selects the simulator output tables.
func cleanTables(flag string, configured []string) []string {
	if flag == cleanDefault || flag == "" {
		return configured
	}
	var tables []string
	for _, t := range strings.Split(flag, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}
