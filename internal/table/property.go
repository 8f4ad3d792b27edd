package table

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// UAssetAPI type discriminators written into new soft object paths.
const (
	softObjectPathType    = "UAssetAPI.PropertyTypes.Objects.FSoftObjectPath, UAssetAPI"
	topLevelAssetPathType = "UAssetAPI.PropertyTypes.Objects.FTopLevelAssetPath, UAssetAPI"
)

// Property is one named field of a Row. Everything except Value is kept
// exactly as it was read: type discriminators, GUIDs, array indices.
type Property struct {
	name string
	raw  []byte
}

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// Value decodes the property's payload.
func (p *Property) Value() Value {
	return parseValue(gjson.GetBytes(p.raw, "Value"))
}

// Set replaces the payload. Soft object paths are merged into an existing
// path structure when there is one; see SetPath.
func (p *Property) Set(v Value) error {
	switch v.kind {
	case KindMissing:
		return errors.New("cannot set a missing value")
	case KindSoftObjectPath:
		return p.SetPath(v.path)
	case KindString:
		return p.setRaw(quote(v.s))
	default:
		return p.setRaw(v.Raw())
	}
}

// SetPath points the property at a new asset. When the current value is
// already a soft object path the asset name is updated in place, keeping the
// surrounding structure and adding a null SubPathString if it was absent.
// Any other current value is replaced by the canonical structure.
func (p *Property) SetPath(path SoftObjectPath) error {
	cur := gjson.GetBytes(p.raw, "Value")
	if !cur.IsObject() || !cur.Get("AssetPath").IsObject() {
		return p.setRaw(string(canonicalPath(path)))
	}

	out, err := sjson.SetBytes(p.raw, "Value.AssetPath.AssetName", path.AssetName)
	if err != nil {
		return fmt.Errorf("set asset name: %w", err)
	}
	if path.PackageName != "" {
		if out, err = sjson.SetBytes(out, "Value.AssetPath.PackageName", path.PackageName); err != nil {
			return fmt.Errorf("set package name: %w", err)
		}
	}
	switch {
	case path.SubPath != "":
		out, err = sjson.SetBytes(out, "Value.SubPathString", path.SubPath)
	case !cur.Get("SubPathString").Exists():
		out, err = sjson.SetRawBytes(out, "Value.SubPathString", []byte("null"))
	}
	if err != nil {
		return fmt.Errorf("set sub path: %w", err)
	}
	p.raw = out
	return nil
}

func (p *Property) setRaw(raw string) error {
	out, err := sjson.SetRawBytes(p.raw, "Value", []byte(raw))
	if err != nil {
		return fmt.Errorf("set property %q: %w", p.name, err)
	}
	p.raw = out
	return nil
}

// Clone returns an independent copy.
func (p *Property) Clone() *Property {
	return &Property{name: p.name, raw: append([]byte(nil), p.raw...)}
}

// MarshalJSON returns the property object.
func (p *Property) MarshalJSON() ([]byte, error) {
	return p.raw, nil
}

type topLevelAssetPathJSON struct {
	Type        string  `json:"$type"`
	PackageName *string `json:"PackageName"`
	AssetName   string  `json:"AssetName"`
}

type softObjectPathJSON struct {
	Type          string                `json:"$type"`
	AssetPath     topLevelAssetPathJSON `json:"AssetPath"`
	SubPathString *string               `json:"SubPathString"`
}

func canonicalPath(p SoftObjectPath) []byte {
	v := softObjectPathJSON{
		Type: softObjectPathType,
		AssetPath: topLevelAssetPathJSON{
			Type:        topLevelAssetPathType,
			PackageName: optional(p.PackageName),
			AssetName:   p.AssetName,
		},
		SubPathString: optional(p.SubPath),
	}
	out, _ := json.Marshal(v)
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func quote(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}
