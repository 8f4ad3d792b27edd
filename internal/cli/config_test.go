package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(content), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	v, err := loadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultFormatVersion, v.GetString(cfgKeyFormatVersion))
	assert.Equal(t, types.DefaultToJSONTimeout, v.GetDuration(cfgKeyToJSONTimeout))
	assert.Equal(t, types.DefaultToNativeTimeout, v.GetDuration(cfgKeyToNativeTimeout))
	assert.True(t, v.GetBool(cfgKeyJournal))
	assert.Empty(t, v.GetString(cfgKeyConverter))
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "format_version: [unclosed\n")
	_, err := loadConfig(dir)
	assert.Error(t, err)
}

func TestAppConfig(t *testing.T) {
	e := newEnv(t)
	writeConfig(t, e.configDir, `
data_dir: /from/yaml/data
output_dir: /from/yaml/out
template_dir: /from/yaml/templates
format_version: VER_UE5_1
key_hex: "0xABCDEF"
to_json_timeout: 30s
inputs:
  SkinDataTable: /from/yaml/Skins.uasset
  AircraftViewerDataTable: /from/yaml/Viewer.json
`)
	v, err := loadConfig(e.configDir)
	require.NoError(t, err)

	a := &app{v: v, flags: rootFlags{outputDir: "/from/flag/out"}}
	cfg, err := a.config(map[string]string{types.AircraftViewerTable: "/from/flag/Viewer.json"})
	require.NoError(t, err)

	assert.Equal(t, filepath.FromSlash("/from/yaml/data"), cfg.DataDir)
	assert.Equal(t, filepath.FromSlash("/from/flag/out"), cfg.OutputDir)
	assert.Equal(t, filepath.FromSlash("/from/yaml/templates"), cfg.TemplateDir)
	assert.Equal(t, "VER_UE5_1", cfg.FormatVersion)
	assert.Equal(t, "0xABCDEF", cfg.KeyHex)
	assert.Equal(t, 30*time.Second, cfg.ToJSONTimeout)
	assert.Equal(t, types.DefaultToNativeTimeout, cfg.ToNativeTimeout)
	assert.Equal(t, map[string]string{
		types.SkinTable:           "/from/yaml/Skins.uasset",
		types.AircraftViewerTable: "/from/flag/Viewer.json",
	}, cfg.Inputs)
}

func TestAppConfig_Invalid(t *testing.T) {
	e := newEnv(t)
	writeConfig(t, e.configDir, "key_hex: not-hex\n")
	v, err := loadConfig(e.configDir)
	require.NoError(t, err)

	a := &app{v: v, flags: rootFlags{dataDir: e.dataDir, outputDir: e.outputDir}}
	_, err = a.config(nil)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestConverter_NotFound(t *testing.T) {
	e := newEnv(t)
	v, err := loadConfig(e.configDir)
	require.NoError(t, err)
	v.Set(cfgKeyConverter, "/nowhere/UAssetGUI.exe")

	a := &app{v: v, logger: zaptest.NewLogger(t)}
	cfg := types.Config{DataDir: e.dataDir, OutputDir: e.outputDir, FormatVersion: types.DefaultFormatVersion}
	assert.Nil(t, a.converter(cfg))
}
