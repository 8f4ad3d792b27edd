package patch

import (
	"strings"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/resolve"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/synth"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// SkinDataTable fields.
const (
	FieldSkinID         = "SkinID"
	FieldSkinNo         = "SkinNo"
	FieldNoseEmblem     = "bNoseEmblem"
	FieldWingEmblem     = "bWingEmblem"
	FieldTailEmblem     = "bTailEmblem"
	FieldPlaneReference = "PlaneReference"
)

// SkinIDFloor is where the free skin id search starts.
const SkinIDFloor = resolve.DefaultFloor

// SkinResult describes what PatchSkins did.
type SkinResult struct {
	Rows []*table.Row
	// IDs are the assigned skin ids, one per descriptor and in descriptor
	// order.
	IDs      []int64
	Removed  int
	NewNames []string
}

// PatchSkins writes one row per descriptor for planeID. In ModeEdit every
// existing row of the plane is dropped first. Skin ids form one contiguous
// block starting at the lowest free id >= SkinIDFloor that can hold all of
// them.
func PatchSkins(doc *table.Document, template *table.Row, mode types.Mode, planeID string, skins []types.SkinDescriptor) (*SkinResult, error) {
	if strings.TrimSpace(planeID) == "" {
		return nil, types.NewValidationError("plane_string_id", "must not be empty")
	}
	if len(skins) == 0 {
		return nil, types.NewValidationError("skins", "at least one skin is required")
	}
	if mode != types.ModeAdd && mode != types.ModeEdit {
		return nil, types.NewValidationError("mode", "unknown mode %q", mode)
	}
	if template == nil {
		return nil, &types.NotFoundError{What: "skin template"}
	}

	remaining := doc.Rows
	if mode == types.ModeEdit {
		remaining = make([]*table.Row, 0, len(doc.Rows))
		for _, r := range doc.Rows {
			if !hasIdentity(planeID)(r) {
				remaining = append(remaining, r)
			}
		}
	}

	start := resolve.NextFreeBlock(remaining, FieldSkinID, SkinIDFloor, len(skins))
	res := &SkinResult{}
	for i, s := range skins {
		id := start + int64(i)
		row, err := synth.Synthesize(template, skinRules(planeID, id, s))
		if err != nil {
			return nil, err
		}
		row.Name = rowName(id)
		res.Rows = append(res.Rows, row)
		res.IDs = append(res.IDs, id)
	}

	if mode == types.ModeEdit {
		res.Removed = doc.RemoveRows(hasIdentity(planeID))
	}
	doc.Rows = append(doc.Rows, res.Rows...)

	// Path-typed references need their strings interned; plain strings do not.
	if ref := template.Get(FieldPlaneReference); ref.Kind() == table.KindSoftObjectPath {
		for _, s := range skins {
			for _, name := range []string{synth.SkinClass(planeID, s.SkinNo), synth.SkinPackage(planeID, s.SkinNo)} {
				if doc.AddName(name) {
					res.NewNames = append(res.NewNames, name)
				}
			}
		}
	}
	return res, nil
}

func skinRules(planeID string, id int64, s types.SkinDescriptor) synth.Rules {
	return synth.Rules{
		FieldSkinID:         synth.SetInt(id),
		FieldSortNumber:     synth.SetInt(id),
		FieldSkinNo:         synth.SetInt(int64(s.SkinNo)),
		FieldPlaneStringID:  synth.SetString(planeID),
		FieldNoseEmblem:     synth.SetBool(s.Emblems.Nose),
		FieldWingEmblem:     synth.SetBool(s.Emblems.Wing),
		FieldTailEmblem:     synth.SetBool(s.Emblems.Tail),
		FieldPlaneReference: synth.Reference(synth.SkinClass(planeID, s.SkinNo)),
	}
}
