// Package patch applies plane, skin and viewer changes to the three aircraft
// tables. Each patcher validates its input before touching the document, so
// a rejected call leaves the document exactly as it was.
package patch

import (
	"fmt"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
)

// Field names shared by more than one table.
const (
	FieldPlaneStringID = "PlaneStringID"
	FieldSortNumber    = "SortNumber"
)

func rowName(id int64) string {
	return fmt.Sprintf("Row_%d", id)
}

func hasIdentity(id string) func(*table.Row) bool {
	return func(r *table.Row) bool {
		s, ok := r.GetString(FieldPlaneStringID)
		return ok && s == id
	}
}
