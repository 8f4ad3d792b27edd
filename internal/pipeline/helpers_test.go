package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

const (
	dataDir   = "/data"
	outputDir = "/out"
)

func planeRow(id int, sid string) string {
	return fmt.Sprintf(`{"Name": "Row_%d", "Value": [
  {"Name": "PlaneID", "Value": %d},
  {"Name": "PlaneStringID", "Value": %q},
  {"Name": "AlphabeticalSortNumber", "Value": 0},
  {"Name": "SortNumber", "Value": 0},
  {"Name": "Category", "Value": "EPlaneCategory::Fighter"},
  {"Name": "FlareLoadCount", "Value": 4},
  {"Name": "SpWeaponID1", "Value": ""},
  {"Name": "SpWeaponID2", "Value": ""},
  {"Name": "SpWeaponID3", "Value": ""},
  {"Name": "GunLoadCount", "Value": 300},
  {"Name": "Reference", "Value": {"$type": "UAssetAPI.PropertyTypes.Objects.FSoftObjectPath, UAssetAPI", "AssetPath": {"$type": "UAssetAPI.PropertyTypes.Objects.FTopLevelAssetPath, UAssetAPI", "PackageName": null, "AssetName": "x"}, "SubPathString": null}}
]}`, id, id, sid)
}

func skinRow(id int, sid string, no int) string {
	return fmt.Sprintf(`{"Name": "Row_%d", "Value": [
  {"Name": "SkinID", "Value": %d},
  {"Name": "SortNumber", "Value": %d},
  {"Name": "SkinNo", "Value": %d},
  {"Name": "PlaneStringID", "Value": %q},
  {"Name": "bNoseEmblem", "Value": false},
  {"Name": "bWingEmblem", "Value": false},
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

// seed writes a data directory holding the stock f18f and f04e rows and
// both templates.
func seed(t *testing.T, fs afero.Fs) {
	t.Helper()
	files := map[string]string{
		types.PlayerPlaneTable + ".json":    document(planeRow(101, "f18f"), planeRow(102, "f04e")),
		types.SkinTable + ".json":           document(skinRow(101, "f18f", 0), skinRow(102, "f04e", 0)),
		types.AircraftViewerTable + ".json": document(viewerRow(1, "f04e"), viewerRow(2, "f04e"), viewerRow(3, "f18f")),
		types.PlaneTemplateFile:             planeRow(0, "tmpl"),
		types.SkinTemplateFile:              skinRow(0, "tmpl", 0),
	}
	for name, content := range files {
		writeFile(t, fs, filepath.Join(dataDir, name), content)
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func testConfig() types.Config {
	return types.Config{
		DataDir:         dataDir,
		OutputDir:       outputDir,
		FormatVersion:   types.DefaultFormatVersion,
		ToJSONTimeout:   types.DefaultToJSONTimeout,
		ToNativeTimeout: types.DefaultToNativeTimeout,
	}
}

func newPipeline(t *testing.T, fs afero.Fs, cfg types.Config, opts ...Option) *Pipeline {
	t.Helper()
	opts = append([]Option{WithFs(fs), WithLogger(zaptest.NewLogger(t))}, opts...)
	p, err := New(cfg, opts...)
	require.NoError(t, err)
	return p
}

func addRequest(planeID string) types.Request {
	return types.Request{
		Mode:  types.ModeAdd,
		Plane: types.PlaneValues{PlaneStringID: planeID, Category: types.CategoryMultirole},
		Skins: []types.SkinDescriptor{{SkinNo: 0}, {SkinNo: 1, Emblems: types.Emblems{Nose: true}}},
	}
}

func loadOutput(t *testing.T, fs afero.Fs, tableName string) *table.Document {
	t.Helper()
	doc, err := table.Load(fs, filepath.Join(outputDir, tableName+".json"))
	require.NoError(t, err)
	return doc
}

// fakeConverter copies bytes between paths on the shared filesystem. The
// "native" format in these tests is simply the JSON itself.
type fakeConverter struct {
	fs afero.Fs

	mu    sync.Mutex
	calls []string
	// fail makes ToNative fail for JSON files with these base names.
	fail map[string]bool
	// gate, when set, blocks every call until it is closed.
	gate chan struct{}
}

func (f *fakeConverter) ToJSON(ctx context.Context, nativePath, jsonPath string) error {
	return f.copy(ctx, "tojson", nativePath, jsonPath)
}

func (f *fakeConverter) ToNative(ctx context.Context, jsonPath, nativePath string) error {
	f.mu.Lock()
	fail := f.fail[filepath.Base(jsonPath)]
	f.mu.Unlock()
	if fail {
		f.record("fromjson " + jsonPath)
		return &types.ConversionError{Op: "fromjson", Path: jsonPath, Stderr: "boom", Err: fmt.Errorf("exit status 1")}
	}
	return f.copy(ctx, "fromjson", jsonPath, nativePath)
}

func (f *fakeConverter) copy(ctx context.Context, op, from, to string) error {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.record(op + " " + from)
	data, err := afero.ReadFile(f.fs, from)
	if err != nil {
		return err
	}
	return afero.WriteFile(f.fs, to, data, 0o644)
}

func (f *fakeConverter) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeConverter) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
