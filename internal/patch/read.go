package patch

import (
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/resolve"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/synth"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// ListPlanes returns the plane identities in a PlayerPlane document, sorted.
func ListPlanes(doc *table.Document) []string {
	return resolve.Identities(doc.Rows, FieldPlaneStringID)
}

// ReadPlane reads a plane row back into the value bundle an edit starts
// from. Fields the row lacks, or that are not numeric where a number is
// expected, are left at their zero value.
func ReadPlane(doc *table.Document, planeID string) (types.PlaneValues, error) {
	row, _ := resolve.FindRow(doc.Rows, FieldPlaneStringID, planeID)
	if row == nil {
		return types.PlaneValues{}, &types.NotFoundError{What: "plane", Path: planeID}
	}

	v := types.PlaneValues{PlaneStringID: planeID}
	if n, err := row.Get(FieldPlaneID).ToInt(); err == nil {
		v.PlaneID = int(n)
	}
	if c, ok := row.GetString(FieldCategory); ok {
		v.Category = synth.ParseCategory(c)
	}
	if n, err := row.Get(FieldFlareLoadCount).ToInt(); err == nil {
		v.FlareCount = types.IntPtr(int(n))
	}
	for i, field := range SpWeaponFields {
		v.SpWeapons[i], _ = row.GetString(field)
	}
	for _, field := range types.StatFields {
		if n, err := row.Get(field).ToInt(); err == nil {
			if v.Stats == nil {
				v.Stats = make(map[string]int)
			}
			v.Stats[field] = int(n)
		}
	}
	return v, nil
}

// ReadSkins returns the skin descriptors of a plane in table order.
func ReadSkins(doc *table.Document, planeID string) []types.SkinDescriptor {
	var out []types.SkinDescriptor
	for _, r := range resolve.FindRows(doc.Rows, FieldPlaneStringID, planeID) {
		d := types.SkinDescriptor{
			Emblems: types.Emblems{
				Nose: r.Get(FieldNoseEmblem).Truthy(),
				Wing: r.Get(FieldWingEmblem).Truthy(),
				Tail: r.Get(FieldTailEmblem).Truthy(),
			},
		}
		if n, err := r.Get(FieldSkinNo).ToInt(); err == nil {
			d.SkinNo = int(n)
		}
		out = append(out, d)
	}
	return out
}
