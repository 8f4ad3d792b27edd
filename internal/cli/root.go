// Package cli implements the acepatch command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/paths"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	outputDir string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one command invocation.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	logger    *zap.Logger
}

// NewRootCmd creates the top-level "acepatch" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "acepatch",
		Short: "Add and edit player aircraft in the game's data tables",
		Long: "acepatch adds a new player aircraft, or edits an existing one, across the\n" +
			"PlayerPlane, Skin and AircraftViewer data tables and converts the results\n" +
			"back to native assets with UAssetGUI.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir/acepatch)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "directory holding the tables and templates (default: $(CWD)/Data)")
	root.PersistentFlags().StringVar(&a.flags.outputDir, "output-dir", "", "directory patched tables are written to (default: $(CWD)/Output)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug messages, including converter output")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return types.NewValidationError("", "%s", err)
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newPatchCmd(a, types.ModeAdd))
	root.AddCommand(newPatchCmd(a, types.ModeEdit))
	root.AddCommand(newPlanesCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newRunsCmd(a))
	root.AddCommand(newResumeCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps an error to a process exit code: bad input is the user's
// problem, everything else is ours.
func exitCode(err error) int {
	if errors.Is(err, types.ErrValidation) {
		return exitUserError
	}
	return exitSysError
}

// setup builds the logger and loads config.yaml. It runs before every
// subcommand.
func (a *app) setup(cmd *cobra.Command) error {
	a.logger = newLogger(cmd.ErrOrStderr(), a.flags.verbose)

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir

	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.v = v
	a.logger.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("config_file", v.ConfigFileUsed()),
	)
	return nil
}

// exactArgs is cobra.ExactArgs reporting a ValidationError.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return types.NewValidationError("", "%s", err)
		}
		return nil
	}
}

// changed reports whether the named flag was set on the command line.
func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
