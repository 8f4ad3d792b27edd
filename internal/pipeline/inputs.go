package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// input is a table ready to be patched.
type input struct {
	table string
	// source is the file the user pointed at or that was found in the data
	// directory; its stem names the converted output.
	source string
	// json is the document to load. It differs from source when source was
	// a native asset converted into stagingDir.
	json       string
	stagingDir string
}

// resolveSource picks the file a table is read from: the explicit override,
// else <table>.json, else <table>.uasset in the data directory.
func (p *Pipeline) resolveSource(tableName string) (string, error) {
	if explicit := p.cfg.Input(tableName); explicit != "" {
		if ok, _ := afero.Exists(p.fs, explicit); !ok {
			return "", &types.NotFoundError{What: tableName + " input", Path: explicit}
		}
		return explicit, nil
	}
	for _, ext := range []string{".json", ".uasset"} {
		candidate := filepath.Join(p.cfg.DataDir, tableName+ext)
		if ok, _ := afero.Exists(p.fs, candidate); ok {
			return candidate, nil
		}
	}
	return "", &types.NotFoundError{
		What: tableName,
		Path: filepath.Join(p.cfg.DataDir, tableName+".{json,uasset}"),
	}
}

// prepare resolves a table's source and, for native assets, converts it to
// JSON in a fresh staging directory.
func (p *Pipeline) prepare(ctx context.Context, tableName string) (input, error) {
	src, err := p.resolveSource(tableName)
	if err != nil {
		return input{}, err
	}
	in := input{table: tableName, source: src}

	switch strings.ToLower(filepath.Ext(src)) {
	case ".json":
		in.json = src
		return in, nil
	case ".uasset":
	default:
		return input{}, types.NewValidationError("inputs."+tableName, "unsupported input type %q", filepath.Ext(src))
	}

	if p.conv == nil {
		return input{}, fmt.Errorf("%s is a native asset: %w", src, types.ErrConverterNotFound)
	}
	staging, err := afero.TempDir(p.fs, "", "acepatch-"+tableName+"-")
	if err != nil {
		return input{}, fmt.Errorf("creating staging directory: %w", err)
	}
	in.stagingDir = staging
	in.json = filepath.Join(staging, stem(src)+".json")

	p.logger.Info("converting input to JSON", zap.String("step", tableName), zap.String("source", src))
	if err := p.conv.ToJSON(ctx, src, in.json); err != nil {
		return input{}, err
	}
	return in, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
