package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

func TestPlanes(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)

	planes, err := newPipeline(t, fs, testConfig()).Planes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"f04e", "f18f"}, planes)
	assert.False(t, exists(t, fs, outputDir), "inspection writes nothing")
}

func TestLoadTable_NativeInputStagingRemoved(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)
	require.NoError(t, fs.Rename(
		filepath.Join(dataDir, types.PlayerPlaneTable+".json"),
		filepath.Join(dataDir, types.PlayerPlaneTable+".uasset"),
	))
	conv := &fakeConverter{fs: fs}

	doc, err := newPipeline(t, fs, testConfig(), WithConverter(conv)).LoadTable(context.Background(), types.PlayerPlaneTable)
	require.NoError(t, err)
	assert.Len(t, doc.Rows, 2)

	calls := conv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "tojson "+filepath.Join(dataDir, types.PlayerPlaneTable+".uasset"), calls[0])

	staged, err := afero.Glob(fs, filepath.Join(os.TempDir(), "acepatch-*"))
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestPrefill(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs)
	p := newPipeline(t, fs, testConfig())

	req, err := p.Prefill(context.Background(), "f04e")
	require.NoError(t, err)
	assert.Equal(t, types.ModeEdit, req.Mode)
	assert.Equal(t, "f04e", req.Plane.PlaneStringID)
	assert.Equal(t, 102, req.Plane.PlaneID)
	assert.Equal(t, types.CategoryFighter, req.Plane.Category)
	require.NotNil(t, req.Plane.FlareCount)
	assert.Equal(t, 4, *req.Plane.FlareCount)
	assert.Equal(t, 300, req.Plane.Stats["GunLoadCount"])
	assert.Equal(t, []types.SkinDescriptor{{SkinNo: 0}}, req.Skins)
	require.NoError(t, types.ValidateRequest(req))

	_, err = p.Prefill(context.Background(), "zzzz")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
