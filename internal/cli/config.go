package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/convert"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/paths"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
)

// config.yaml keys.
const (
	cfgKeyDataDir         = "data_dir"
	cfgKeyOutputDir       = "output_dir"
	cfgKeyTemplateDir     = "template_dir"
	cfgKeyInputs          = "inputs"
	cfgKeyFormatVersion   = "format_version"
	cfgKeyKeyHex          = "key_hex"
	cfgKeyMappingName     = "mapping_name"
	cfgKeyConverter       = "converter"
	cfgKeyToJSONTimeout   = "to_json_timeout"
	cfgKeyToNativeTimeout = "to_native_timeout"
	cfgKeyJournal         = "journal"
)

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; every key has a default.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyFormatVersion, types.DefaultFormatVersion)
	v.SetDefault(cfgKeyToJSONTimeout, types.DefaultToJSONTimeout)
	v.SetDefault(cfgKeyToNativeTimeout, types.DefaultToNativeTimeout)
	v.SetDefault(cfgKeyJournal, true)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// config resolves the directories and merges flags over config.yaml into the
// value the pipeline runs with. inputs holds per-table overrides from the
// command line; they win over the inputs section of config.yaml.
func (a *app) config(inputs map[string]string) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	outputDir, err := paths.ResolveOutputDir(a.flags.outputDir, a.v.GetString(cfgKeyOutputDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve output dir: %w", err)
	}

	cfg := types.Config{
		DataDir:         dataDir,
		OutputDir:       outputDir,
		TemplateDir:     a.v.GetString(cfgKeyTemplateDir),
		FormatVersion:   a.v.GetString(cfgKeyFormatVersion),
		KeyHex:          a.v.GetString(cfgKeyKeyHex),
		MappingName:     a.v.GetString(cfgKeyMappingName),
		ToJSONTimeout:   a.v.GetDuration(cfgKeyToJSONTimeout),
		ToNativeTimeout: a.v.GetDuration(cfgKeyToNativeTimeout),
	}
	if cfg.TemplateDir != "" {
		if cfg.TemplateDir, err = filepath.Abs(cfg.TemplateDir); err != nil {
			return types.Config{}, fmt.Errorf("resolve template dir: %w", err)
		}
	}

	// Viper lowercases map keys, so config.yaml inputs are matched to the
	// table names case-insensitively.
	fromFile := a.v.GetStringMapString(cfgKeyInputs)
	for _, name := range types.StandardTableNames {
		path := inputs[name]
		if path == "" {
			path = fromFile[strings.ToLower(name)]
		}
		if path == "" {
			continue
		}
		if cfg.Inputs == nil {
			cfg.Inputs = make(map[string]string)
		}
		cfg.Inputs[name] = path
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, types.NewValidationError("config", "%s", err)
	}
	return cfg, nil
}

// converter locates UAssetGUI and returns a bridge to it, or nil when it
// cannot be found. The configured command is tried first,
// then the executable's own directory and the data directory, then PATH.
func (a *app) converter(cfg types.Config) *convert.Bridge {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	dirs = append(dirs, cfg.DataDir)

	configured := a.v.GetString(cfgKeyConverter)
	command, err := convert.Locate(configured, dirs...)
	if err != nil {
		// The pipeline warns about each skipped conversion; a configured
		// converter that cannot be found is worth a warning of its own.
		if configured != "" {
			a.logger.Warn("native conversion disabled", zap.Error(err))
		} else {
			a.logger.Debug("native conversion disabled", zap.Error(err))
		}
		return nil
	}
	bridge, err := convert.New(command, convert.Options{
		FormatVersion:   cfg.FormatVersion,
		KeyHex:          cfg.KeyHex,
		MappingName:     cfg.MappingName,
		ToJSONTimeout:   cfg.ToJSONTimeout,
		ToNativeTimeout: cfg.ToNativeTimeout,
	}, a.logger)
	if err != nil {
		a.logger.Warn("native conversion disabled", zap.Error(err))
		return nil
	}
	a.logger.Debug("using converter", zap.Strings("command", bridge.Command()))
	return bridge
}
