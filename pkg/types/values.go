package types

import "maps"

// Mode selects between adding a new plane and editing an existing one.
type Mode string

const (
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

// Emblems says which emblem slots a skin exposes.
type Emblems struct {
	Nose bool `json:"nose"`
	Wing bool `json:"wing"`
	Tail bool `json:"tail"`
}

// SkinDescriptor describes one skin of a plane. SkinNo 0 is the base skin.
type SkinDescriptor struct {
	SkinNo  int     `json:"skin_no" validate:"min=0,max=999"`
	Emblems Emblems `json:"emblems"`
}

// PlaneValues is the flat value bundle collected from the user.
//
// PlaneID 0 lets the patcher pick the next free id. A nil FlareCount keeps the
// value already present in the row. Stats holds overrides keyed by property
// name; stats not listed keep their default.
type PlaneValues struct {
	PlaneStringID string         `json:"plane_string_id" validate:"required,excludesall= /\\."`
	PlaneID       int            `json:"plane_id,omitempty" validate:"min=0"`
	Category      string         `json:"category,omitempty" validate:"omitempty,oneof=Fighter Attacker Multirole"`
	FlareCount    *int           `json:"flare_count,omitempty" validate:"omitempty,min=0"`
	SpWeapons     [3]string      `json:"sp_weapons"`
	Stats         map[string]int `json:"stats,omitempty"`
}

// CategoryOrDefault returns Category, falling back to DefaultCategory.
func (v PlaneValues) CategoryOrDefault() string {
	if v.Category == "" {
		return DefaultCategory
	}
	return v.Category
}

// Clone returns a copy that shares no maps or pointers with v.
func (v PlaneValues) Clone() PlaneValues {
	out := v
	if v.FlareCount != nil {
		n := *v.FlareCount
		out.FlareCount = &n
	}
	if v.Stats != nil {
		out.Stats = maps.Clone(v.Stats)
	}
	return out
}

// Request is everything one pipeline run needs from the caller.
type Request struct {
	Mode  Mode             `json:"mode" validate:"oneof=add edit"`
	Plane PlaneValues      `json:"plane"`
	Skins []SkinDescriptor `json:"skins" validate:"required,min=1,dive"`
}

// Clone returns a deep copy of r.
func (r Request) Clone() Request {
	out := r
	out.Plane = r.Plane.Clone()
	out.Skins = append([]SkinDescriptor(nil), r.Skins...)
	return out
}

// IntPtr is a convenience for building PlaneValues.FlareCount.
func IntPtr(n int) *int {
	return &n
}
