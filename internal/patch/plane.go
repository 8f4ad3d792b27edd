package patch

import (
	"fmt"
	"strings"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/resolve"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/synth"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// PlayerPlane fields.
const (
	FieldPlaneID                = "PlaneID"
	FieldCategory               = "Category"
	FieldFlareLoadCount         = "FlareLoadCount"
	FieldReference              = "Reference"
	FieldAlphabeticalSortNumber = "AlphabeticalSortNumber"
)

// SpWeaponFields are the three special weapon slots, in slot order.
var SpWeaponFields = [3]string{"SpWeaponID1", "SpWeaponID2", "SpWeaponID3"}

// ReferencePlane is the stock plane whose stats seed a newly added plane.
const ReferencePlane = "f18f"

// Plane ids handed out automatically stay inside this range.
const (
	PlaneIDFloor   = resolve.DefaultFloor
	PlaneIDCeiling = 9999
)

// PlaneResult describes what PatchPlane did.
type PlaneResult struct {
	Row        *table.Row
	PlaneID    int64
	Added      bool
	SortNumber int
	// NewNames lists the strings that were added to the NameMap.
	NewNames []string
}

// PatchPlane adds or edits the row for v.PlaneStringID.
//
// In ModeAdd the identity must not exist yet; the template is cloned and
// appended under the caller's PlaneID, or the first free id in
// PlaneIDFloor..PlaneIDCeiling. In ModeEdit the existing row is updated in
// place and its PlaneID is never changed. Afterwards every plane row's sort
// fields are recomputed and the pawn paths are interned in the NameMap.
func PatchPlane(doc *table.Document, template *table.Row, mode types.Mode, v types.PlaneValues) (*PlaneResult, error) {
	if strings.TrimSpace(v.PlaneStringID) == "" {
		return nil, types.NewValidationError("plane_string_id", "must not be empty")
	}

	existing, _ := resolve.FindRow(doc.Rows, FieldPlaneStringID, v.PlaneStringID)
	res := &PlaneResult{}

	switch mode {
	case types.ModeAdd:
		if existing != nil {
			return nil, types.NewValidationError("plane_string_id", "plane %q already exists", v.PlaneStringID)
		}
		if template == nil {
			return nil, &types.NotFoundError{What: "plane template"}
		}
		id, err := pickPlaneID(doc.Rows, v.PlaneID)
		if err != nil {
			return nil, err
		}
		reference, _ := resolve.FindRow(doc.Rows, FieldPlaneStringID, ReferencePlane)
		rules := planeRules(v, synth.FromRow(reference)).With(synth.Rules{
			FieldPlaneID: synth.SetInt(id),
		})
		row, err := synth.Synthesize(template, rules)
		if err != nil {
			return nil, err
		}
		row.Name = rowName(id)
		doc.Rows = append(doc.Rows, row)
		res.Row, res.PlaneID, res.Added = row, id, true

	case types.ModeEdit:
		if existing == nil {
			return nil, &types.NotFoundError{What: "plane", Path: v.PlaneStringID}
		}
		id, err := existing.Get(FieldPlaneID).ToInt()
		if err != nil {
			return nil, &types.FieldCoercionError{
				Row:   existing.Name,
				Field: FieldPlaneID,
				Value: existing.Get(FieldPlaneID).Raw(),
				Err:   err,
			}
		}
		// Rules run on a copy so a failing rule leaves the row untouched.
		updated := existing.Clone()
		if err := synth.Apply(updated, planeRules(v, synth.NoDefaults)); err != nil {
			return nil, err
		}
		*existing = *updated
		res.Row, res.PlaneID = existing, id

	default:
		return nil, types.NewValidationError("mode", "unknown mode %q", mode)
	}

	if err := Renumber(doc.Rows); err != nil {
		return nil, err
	}
	res.SortNumber = resolve.Rank(doc.Rows, FieldPlaneStringID, v.PlaneStringID)

	for _, name := range []string{synth.PawnClass(v.PlaneStringID), synth.PawnPackage(v.PlaneStringID)} {
		if doc.AddName(name) {
			res.NewNames = append(res.NewNames, name)
		}
	}
	return res, nil
}

func pickPlaneID(rows []*table.Row, requested int) (int64, error) {
	if requested == 0 {
		return resolve.NextFreeIDInRange(rows, FieldPlaneID, PlaneIDFloor, PlaneIDCeiling)
	}
	id := int64(requested)
	if _, used := resolve.UsedIDs(rows, FieldPlaneID)[id]; used {
		return 0, types.NewValidationError("plane_id", "%d is already used", id)
	}
	return id, nil
}

// planeRules is the rule table shared by add and edit. PlaneID is absent on
// purpose: only add assigns it.
func planeRules(v types.PlaneValues, defaults synth.Defaults) synth.Rules {
	rules := synth.Rules{
		FieldPlaneStringID: synth.SetString(v.PlaneStringID),
		FieldCategory:      synth.Category(v.CategoryOrDefault()),
		FieldReference:     synth.AssetReference(synth.PawnClass(v.PlaneStringID)),
	}
	if v.FlareCount != nil {
		rules[FieldFlareLoadCount] = synth.SetInt(int64(*v.FlareCount))
	}
	for i, field := range SpWeaponFields {
		rules[field] = synth.SetString(v.SpWeapons[i])
	}
	return rules.With(synth.StatRules(types.StatFields, v.Stats, defaults))
}

// Renumber sets AlphabeticalSortNumber and SortNumber of every plane row to
// the rank of its identity among all identities in rows. Rows that already
// hold the right number are left byte-for-byte unchanged.
func Renumber(rows []*table.Row) error {
	ranks := resolve.Ranks(rows, FieldPlaneStringID)
	for _, r := range rows {
		id, ok := r.GetString(FieldPlaneStringID)
		if !ok || id == "" {
			continue
		}
		rank := int64(ranks[id])
		for _, field := range []string{FieldAlphabeticalSortNumber, FieldSortNumber} {
			p, ok := r.Property(field)
			if !ok {
				continue
			}
			if cur, ok := p.Value().AsInt(); ok && cur == rank {
				continue
			}
			if err := p.Set(table.Int(rank)); err != nil {
				return fmt.Errorf("row %q field %q: %w", r.Name, field, err)
			}
		}
	}
	return nil
}
