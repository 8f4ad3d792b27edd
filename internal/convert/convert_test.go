package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// fakeConverter writes a shell script standing in for UAssetGUI. It appends
// its arguments to args.log next to itself, then runs body.
func fakeConverter(t *testing.T, body string) (exe, logPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake converter is a shell script")
	}
	dir := t.TempDir()
	exe = filepath.Join(dir, "UAssetGUI")
	logPath = filepath.Join(dir, "args.log")
	script := "#!/bin/sh\necho \"$@\" >> '" + logPath + "'\n" + body + "\n"
	require.NoError(t, os.WriteFile(exe, []byte(script), 0o755))
	return exe, logPath
}

const copyBody = `cp "$2" "$3"`

func newBridge(t *testing.T, exe string, opts Options) *Bridge {
	t.Helper()
	b, err := New([]string{exe}, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	return b
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBridge_CommandLines(t *testing.T) {
	exe, logPath := fakeConverter(t, copyBody)
	dir := t.TempDir()
	native := filepath.Join(dir, "Skin.uasset")
	jsonPath := filepath.Join(dir, "Skin.json")
	writeFile(t, native, "native")

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "defaults",
			opts: Options{},
			want: []string{
				"tojson " + native + " " + jsonPath + " VER_UE4_18",
				"fromjson " + jsonPath + " " + native + " VER_UE4_18",
			},
		},
		{
			name: "key and mapping",
			opts: Options{FormatVersion: "VER_UE4_27", KeyHex: "0xABCD", MappingName: "Ace7"},
			want: []string{
				"tojson " + native + " " + jsonPath + " VER_UE4_27 0xABCD",
				"fromjson " + jsonPath + " " + native + " VER_UE4_27 0xABCD Ace7",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(logPath, nil, 0o644))
			b := newBridge(t, exe, tt.opts)

			require.NoError(t, b.ToJSON(context.Background(), native, jsonPath))
			require.NoError(t, b.ToNative(context.Background(), jsonPath, native))

			got, err := os.ReadFile(logPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.Split(strings.TrimSpace(string(got)), "\n"))
		})
	}
}

func TestBridge_LauncherArgumentsComeFirst(t *testing.T) {
	exe, logPath := fakeConverter(t, copyBody)
	dir := t.TempDir()
	in := filepath.Join(dir, "a.json")
	writeFile(t, in, "{}")

	// sh runs the script, the way wine runs UAssetGUI.exe.
	b, err := New([]string{"/bin/sh", exe}, Options{}, nil)
	require.NoError(t, err)
	require.NoError(t, b.ToNative(context.Background(), in, filepath.Join(dir, "a.uasset")))

	got, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "fromjson "+in))
}

func TestBridge_NonZeroExit(t *testing.T) {
	exe, _ := fakeConverter(t, "echo partial output\necho 'bad header' >&2\nexit 3")
	dir := t.TempDir()
	in := filepath.Join(dir, "a.uasset")
	writeFile(t, in, "x")

	err := newBridge(t, exe, Options{}).ToJSON(context.Background(), in, filepath.Join(dir, "a.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrConversion))

	var ce *types.ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, OpToJSON, ce.Op)
	assert.Equal(t, in, ce.Path)
	assert.Equal(t, "partial output\n", ce.Stdout)
	assert.Equal(t, "bad header\n", ce.Stderr)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Contains(t, err.Error(), "stderr:\nbad header")
}

func TestBridge_Timeout(t *testing.T) {
	exe, _ := fakeConverter(t, "exec sleep 10")
	dir := t.TempDir()
	in := filepath.Join(dir, "a.json")
	writeFile(t, in, "{}")

	b := newBridge(t, exe, Options{ToNativeTimeout: 100 * time.Millisecond})
	start := time.Now()
	err := b.ToNative(context.Background(), in, filepath.Join(dir, "a.uasset"))

	assert.ErrorIs(t, err, types.ErrConversion)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 8*time.Second)
}

func TestBridge_MissingOutput(t *testing.T) {
	exe, _ := fakeConverter(t, "exit 0")
	dir := t.TempDir()
	in := filepath.Join(dir, "a.json")
	writeFile(t, in, "{}")

	err := newBridge(t, exe, Options{}).ToNative(context.Background(), in, filepath.Join(dir, "a.uasset"))
	assert.ErrorIs(t, err, errNoOutput)
}

func TestBridge_RoundTripIsIdempotent(t *testing.T) {
	// tojson and fromjson are deterministic transforms of their input.
	exe, _ := fakeConverter(t, `case "$1" in
tojson) { echo '{"from":'; cat "$2"; echo '}'; } > "$3" ;;
fromjson) { echo "$4"; cat "$2"; } > "$3" ;;
esac`)
	dir := t.TempDir()
	native := filepath.Join(dir, "PlayerPlaneDataTable.uasset")
	writeFile(t, native, `"binary"`)

	b := newBridge(t, exe, Options{KeyHex: "0x01"})
	ctx := context.Background()

	jsonPath := filepath.Join(dir, "PlayerPlaneDataTable.json")
	require.NoError(t, b.ToJSON(ctx, native, jsonPath))

	first := filepath.Join(dir, "first.uasset")
	second := filepath.Join(dir, "second.uasset")
	require.NoError(t, b.ToNative(ctx, jsonPath, first))
	require.NoError(t, b.ToNative(ctx, jsonPath, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	c, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestNew_RequiresCommand(t *testing.T) {
	_, err := New(nil, Options{}, nil)
	assert.ErrorIs(t, err, types.ErrConverterNotFound)
	_, err = New([]string{""}, Options{}, nil)
	assert.ErrorIs(t, err, types.ErrConverterNotFound)
}

func TestLocate(t *testing.T) {
	exe, _ := fakeConverter(t, copyBody)
	emptyPath := t.TempDir()
	t.Setenv("PATH", emptyPath)

	t.Run("configured file", func(t *testing.T) {
		got, err := Locate(exe)
		require.NoError(t, err)
		assert.Equal(t, []string{exe}, got)
	})

	t.Run("configured with launcher", func(t *testing.T) {
		got, err := Locate("/bin/sh '" + exe + "'")
		require.NoError(t, err)
		assert.Equal(t, []string{"/bin/sh", exe}, got)
	})

	t.Run("configured missing", func(t *testing.T) {
		_, err := Locate(filepath.Join(emptyPath, "nope.exe"))
		assert.ErrorIs(t, err, types.ErrConverterNotFound)
	})

	t.Run("search dirs", func(t *testing.T) {
		got, err := Locate("", emptyPath, filepath.Dir(exe))
		require.NoError(t, err)
		assert.Equal(t, []string{exe}, got)
	})

	t.Run("on PATH", func(t *testing.T) {
		t.Setenv("PATH", filepath.Dir(exe))
		got, err := Locate("")
		require.NoError(t, err)
		assert.Equal(t, []string{exe}, got)
	})

	t.Run("nothing", func(t *testing.T) {
		_, err := Locate("", emptyPath)
		assert.ErrorIs(t, err, types.ErrConverterNotFound)
	})
}
