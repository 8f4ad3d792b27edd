package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

func planeRow(id int, sid string) string {
	return fmt.Sprintf(`{"Name": "Row_%d", "Value": [
  {"Name": "PlaneID", "Value": %d},
  {"Name": "PlaneStringID", "Value": %q},
  {"Name": "AlphabeticalSortNumber", "Value": 0},
  {"Name": "SortNumber", "Value": 0},
  {"Name": "Category", "Value": "EPlaneCategory::Fighter"},
  {"Name": "FlareLoadCount", "Value": 4},
  {"Name": "SpWeaponID1", "Value": "8AAM"},
  {"Name": "SpWeaponID2", "Value": ""},
  {"Name": "SpWeaponID3", "Value": ""},
  {"Name": "GunLoadCount", "Value": 300},
  {"Name": "GraphSpeed", "Value": 50},
  {"Name": "Reference", "Value": ""}
]}`, id, id, sid)
}

func skinRow(id int, sid string, no int) string {
	return fmt.Sprintf(`{"Name": "Row_%d", "Value": [
  {"Name": "SkinID", "Value": %d},
  {"Name": "SortNumber", "Value": %d},
  {"Name": "SkinNo", "Value": %d},
  {"Name": "PlaneStringID", "Value": %q},
  {"Name": "bNoseEmblem", "Value": false},
  {"Name": "bWingEmblem", "Value": true},
  {"Name": "bTailEmblem", "Value": false},
  {"Name": "PlaneReference", "Value": ""}
]}`, id, id, id, no, sid)
}

func viewerRow(n int, sid string) string {
	return fmt.Sprintf(`{"Name": "Row_%d", "Value": [
  {"Name": "AircraftViewerID", "Value": %d},
  {"Name": "PlaneStringID", "Value": %q}
]}`, n, n, sid)
}

func document(rows ...string) string {
	return `{"NameMap": [], "Exports": [{"Table": {"Data": [` + strings.Join(rows, ",") + `]}}]}`
}

// env isolates a command invocation: its own config, data and output
// directories, and a PATH without a converter on it.
type env struct {
	configDir string
	dataDir   string
	outputDir string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	e := env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "Data"),
		outputDir: filepath.Join(root, "Output"),
	}
	t.Setenv("PATH", filepath.Join(root, "bin"))
	t.Setenv("ACEPATCH_CONFIG_DIR", "")
	t.Setenv("ACEPATCH_DATA_DIR", "")
	t.Setenv("ACEPATCH_OUTPUT_DIR", "")
	return e
}

// seed writes the stock f18f and f04e rows and both templates.
func (e env) seed(t *testing.T) {
	t.Helper()
	files := map[string]string{
		types.PlayerPlaneTable + ".json":    document(planeRow(101, "f18f"), planeRow(102, "f04e")),
		types.SkinTable + ".json":           document(skinRow(101, "f18f", 0), skinRow(102, "f04e", 0)),
		types.AircraftViewerTable + ".json": document(viewerRow(1, "f04e"), viewerRow(2, "f04e"), viewerRow(3, "f18f")),
		types.PlaneTemplateFile:             planeRow(0, "tmpl"),
		types.SkinTemplateFile:              skinRow(0, "tmpl", 0),
	}
	require.NoError(t, os.MkdirAll(e.dataDir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(e.dataDir, name), []byte(content), 0o644))
	}
}

// run executes the root command with the env's directories and returns
// what it wrote to stdout.
func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{
		"--config-dir", e.configDir,
		"--data-dir", e.dataDir,
		"--output-dir", e.outputDir,
	}, args...))
	err := root.Execute()
	t.Log(errOut.String())
	return out.String(), err
}
