// Package synth builds and rewrites rows from a rule table keyed by
// property name. Rules are small closures so each one can be tested without
// iterating a row, and a table of them describes a whole row update.
package synth

import (
	"errors"
	"fmt"
	"maps"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// Rule rewrites one property in place.
type Rule func(p *table.Property) error

// Rules maps a property name to the rule applied to every property of that
// name. Properties without a rule keep their value.
type Rules map[string]Rule

// With returns a new table holding r overlaid by other.
func (r Rules) With(other Rules) Rules {
	out := maps.Clone(r)
	if out == nil {
		out = make(Rules, len(other))
	}
	maps.Copy(out, other)
	return out
}

// Synthesize deep-copies template and applies rules to the copy. The
// template is never modified.
func Synthesize(template *table.Row, rules Rules) (*table.Row, error) {
	row := template.Clone()
	if err := Apply(row, rules); err != nil {
		return nil, err
	}
	return row, nil
}

// Apply runs rules over row in place. The first failing rule stops the
// update; coercion failures come back as *types.FieldCoercionError naming
// the row and field.
func Apply(row *table.Row, rules Rules) error {
	for _, p := range row.Properties {
		rule, ok := rules[p.Name()]
		if !ok {
			continue
		}
		if err := rule(p); err != nil {
			var fce *types.FieldCoercionError
			if errors.As(err, &fce) {
				fce.Row = row.Name
				fce.Field = p.Name()
				return fce
			}
			return fmt.Errorf("row %q field %q: %w", row.Name, p.Name(), err)
		}
	}
	return nil
}
