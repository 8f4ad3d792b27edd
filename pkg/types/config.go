package types

import (
	"errors"
	"time"
)

// Config holds the resolved settings for one acepatch invocation. The CLI
// fills it from flags, config.yaml and the environment; the pipeline only
// reads it.
type Config struct {
	DataDir     string `json:"data_dir" yaml:"data_dir"`
	OutputDir   string `json:"output_dir" yaml:"output_dir"`
	TemplateDir string `json:"template_dir,omitempty" yaml:"template_dir,omitempty"`

	// Per-table input overrides keyed by table name.
	Inputs map[string]string `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	FormatVersion string `json:"format_version" yaml:"format_version"`
	KeyHex        string `json:"key_hex,omitempty" yaml:"key_hex,omitempty"`
	MappingName   string `json:"mapping_name,omitempty" yaml:"mapping_name,omitempty"`

	ToJSONTimeout   time.Duration `json:"to_json_timeout" yaml:"to_json_timeout"`
	ToNativeTimeout time.Duration `json:"to_native_timeout" yaml:"to_native_timeout"`
}

// Defaults matching what the converter expects for this game.
const (
	DefaultFormatVersion   = "VER_UE4_18"
	DefaultToJSONTimeout   = 3 * time.Minute
	DefaultToNativeTimeout = 5 * time.Minute
)

// Config validation errors.
var (
	ErrDataDirEmpty       = errors.New("data directory must not be empty")
	ErrOutputDirEmpty     = errors.New("output directory must not be empty")
	ErrFormatVersionEmpty = errors.New("format version must not be empty")
	ErrTimeoutInvalid     = errors.New("converter timeout must be positive")
	ErrKeyHexInvalid      = errors.New("key must be a hex string")
)

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.OutputDir == "" {
		return ErrOutputDirEmpty
	}
	if c.FormatVersion == "" {
		return ErrFormatVersionEmpty
	}
	if c.ToJSONTimeout <= 0 || c.ToNativeTimeout <= 0 {
		return ErrTimeoutInvalid
	}
	if c.KeyHex != "" && !isHex(c.KeyHex) {
		return ErrKeyHexInvalid
	}
	return nil
}

// TemplateDirOrData returns TemplateDir, falling back to DataDir.
func (c Config) TemplateDirOrData() string {
	if c.TemplateDir != "" {
		return c.TemplateDir
	}
	return c.DataDir
}

// Input returns the explicit override for a table, if any.
func (c Config) Input(table string) string {
	return c.Inputs[table]
}

func isHex(s string) bool {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
