package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/patch"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// LoadTable reads a table the way Run does, converting a native input when
// needed. The staging directory of a converted input is removed before
// returning; nothing is written to the output directory.
func (p *Pipeline) LoadTable(ctx context.Context, tableName string) (*table.Document, error) {
	in, err := p.prepare(ctx, tableName)
	if err != nil {
		return nil, err
	}
	if in.stagingDir != "" {
		defer func() {
			if err := p.fs.RemoveAll(in.stagingDir); err != nil {
				p.logger.Warn("could not delete staging directory", zap.String("path", in.stagingDir), zap.Error(err))
			}
		}()
	}
	return table.Load(p.fs, in.json)
}

// Planes lists the plane identities in the PlayerPlane table.
func (p *Pipeline) Planes(ctx context.Context) ([]string, error) {
	doc, err := p.LoadTable(ctx, types.PlayerPlaneTable)
	if err != nil {
		return nil, err
	}
	return patch.ListPlanes(doc), nil
}

// Prefill returns the edit request that leaves planeID as it is: its current
// PlayerPlane values and its skins.
func (p *Pipeline) Prefill(ctx context.Context, planeID string) (types.Request, error) {
	planes, err := p.LoadTable(ctx, types.PlayerPlaneTable)
	if err != nil {
		return types.Request{}, err
	}
	values, err := patch.ReadPlane(planes, planeID)
	if err != nil {
		return types.Request{}, err
	}
	skins, err := p.LoadTable(ctx, types.SkinTable)
	if err != nil {
		return types.Request{}, err
	}
	return types.Request{
		Mode:  types.ModeEdit,
		Plane: values,
		Skins: patch.ReadSkins(skins, planeID),
	}, nil
}
