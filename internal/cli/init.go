package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	DataDir         string `yaml:"data_dir,omitempty"`
	OutputDir       string `yaml:"output_dir,omitempty"`
	TemplateDir     string `yaml:"template_dir,omitempty"`
	FormatVersion   string `yaml:"format_version"`
	Converter       string `yaml:"converter,omitempty"`
	ToJSONTimeout   string `yaml:"to_json_timeout"`
	ToNativeTimeout string `yaml:"to_native_timeout"`
	Journal         bool   `yaml:"journal"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration and create the data and output directories",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config(nil)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(a.configDir, 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			configPath := filepath.Join(a.configDir, configFileExt)
			written, err := writeConfigIfMissing(configPath, cfg, a.v.GetString(cfgKeyConverter), a.v.GetBool(cfgKeyJournal))
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			for _, dir := range []string{cfg.DataDir, cfg.OutputDir} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create directory: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if written {
				fmt.Fprintf(out, "Wrote %s\n", configPath)
			} else {
				fmt.Fprintf(out, "Kept existing %s\n", configPath)
			}
			fmt.Fprintf(out, "Data directory:   %s\n", cfg.DataDir)
			fmt.Fprintf(out, "Output directory: %s\n", cfg.OutputDir)
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. An existing file is left alone and reported as not written.
func writeConfigIfMissing(path string, cfg types.Config, converter string, journal bool) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		DataDir:         cfg.DataDir,
		OutputDir:       cfg.OutputDir,
		TemplateDir:     cfg.TemplateDir,
		FormatVersion:   cfg.FormatVersion,
		Converter:       converter,
		ToJSONTimeout:   cfg.ToJSONTimeout.String(),
		ToNativeTimeout: cfg.ToNativeTimeout.String(),
		Journal:         journal,
	})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
