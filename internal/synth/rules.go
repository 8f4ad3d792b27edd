package synth

import (
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// CategoryEnum qualifies category names for the EPlaneCategory enum.
const CategoryEnum = "EPlaneCategory"

// Set assigns a fixed value.
func Set(v table.Value) Rule {
	return func(p *table.Property) error {
		return p.Set(v)
	}
}

func SetInt(n int64) Rule     { return Set(table.Int(n)) }
func SetString(s string) Rule { return Set(table.String(s)) }
func SetBool(b bool) Rule     { return Set(table.Bool(b)) }

// Category writes an enum-qualified category literal.
func Category(name string) Rule {
	return SetString(CategoryValue(name))
}

// AssetReference points a soft object path property at assetName.
func AssetReference(assetName string) Rule {
	return func(p *table.Property) error {
		return p.SetPath(table.SoftObjectPath{AssetName: assetName})
	}
}

// Reference writes assetName into a property that may hold either a soft
// object path or a plain path string, keeping whichever shape it has.
func Reference(assetName string) Rule {
	return func(p *table.Property) error {
		if p.Value().Kind() == table.KindSoftObjectPath {
			return p.SetPath(table.SoftObjectPath{AssetName: assetName})
		}
		return p.Set(table.String(assetName))
	}
}

// SetCoercedInt assigns v as an integer, coercing numeric strings and whole
// floats. A value that cannot be coerced is a *types.FieldCoercionError.
func SetCoercedInt(v table.Value) Rule {
	return func(p *table.Property) error {
		n, err := v.ToInt()
		if err != nil {
			return &types.FieldCoercionError{Value: v.Raw(), Err: err}
		}
		return p.Set(table.Int(n))
	}
}

// Defaults looks up a default value by property name.
type Defaults func(name string) (table.Value, bool)

// FromRow serves defaults from a reference row. A nil row has no defaults.
func FromRow(row *table.Row) Defaults {
	return func(name string) (table.Value, bool) {
		if row == nil {
			return table.Value{}, false
		}
		v := row.Get(name)
		return v, v.Exists()
	}
}

// NoDefaults never supplies a value.
func NoDefaults(string) (table.Value, bool) { return table.Value{}, false }

// StatRules builds one rule per stat field: the caller's override if there
// is one, else the default, else no rule, leaving the field untouched.
func StatRules(fields []string, overrides map[string]int, defaults Defaults) Rules {
	rules := make(Rules, len(fields))
	for _, name := range fields {
		if n, ok := overrides[name]; ok {
			rules[name] = SetInt(int64(n))
			continue
		}
		if v, ok := defaults(name); ok {
			rules[name] = SetCoercedInt(v)
		}
	}
	return rules
}
