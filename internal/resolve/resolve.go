// Package resolve answers the identity questions the patchers ask of a
// table: which identities exist, where one sorts among them, which rows
// belong to it, and which numeric ids are still free.
package resolve

import (
	"fmt"
	"sort"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// DefaultFloor is the lowest id handed out for planes and skins; lower ids
// belong to the base game.
const DefaultFloor = 101

// Identities returns the distinct non-empty string values of field across
// rows, sorted lexicographically.
func Identities(rows []*table.Row, field string) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		if id, ok := r.GetString(field); ok && id != "" {
			seen[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Rank returns the 0-based position of id among the identities of rows
// united with id itself.
func Rank(rows []*table.Row, field, id string) int {
	return sort.SearchStrings(Identities(rows, field), id)
}

// Ranks maps every identity to its rank.
func Ranks(rows []*table.Row, field string) map[string]int {
	ids := Identities(rows, field)
	out := make(map[string]int, len(ids))
	for i, id := range ids {
		out[id] = i
	}
	return out
}

// FindRow returns the first row whose field equals value, and its index.
// The index is -1 when there is none.
func FindRow(rows []*table.Row, field, value string) (*table.Row, int) {
	for i, r := range rows {
		if s, ok := r.GetString(field); ok && s == value {
			return r, i
		}
	}
	return nil, -1
}

// FindRows returns every row whose field equals value, in table order.
func FindRows(rows []*table.Row, field, value string) []*table.Row {
	var out []*table.Row
	for _, r := range rows {
		if s, ok := r.GetString(field); ok && s == value {
			out = append(out, r)
		}
	}
	return out
}

// UsedIDs collects the integer values of field. Values that do not coerce
// to an integer are ignored.
func UsedIDs(rows []*table.Row, field string) map[int64]struct{} {
	used := make(map[int64]struct{})
	for _, r := range rows {
		if id, err := r.Get(field).ToInt(); err == nil {
			used[id] = struct{}{}
		}
	}
	return used
}

// NextFreeID returns the smallest integer >= floor that no row uses for
// field. Ids below floor are never considered; an empty table yields floor.
func NextFreeID(rows []*table.Row, field string, floor int64) int64 {
	used := UsedIDs(rows, field)
	id := floor
	for {
		if _, ok := used[id]; !ok {
			return id
		}
		id++
	}
}

// NextFreeIDInRange is NextFreeID bounded by ceiling (inclusive).
func NextFreeIDInRange(rows []*table.Row, field string, floor, ceiling int64) (int64, error) {
	id := NextFreeID(rows, field, floor)
	if id > ceiling {
		return 0, fmt.Errorf("%w: %s %d..%d", types.ErrIDSpaceExhausted, field, floor, ceiling)
	}
	return id, nil
}

// NextFreeBlock returns the smallest start >= floor such that the n ids
// start..start+n-1 are all unused. For n <= 1 it equals NextFreeID.
func NextFreeBlock(rows []*table.Row, field string, floor int64, n int) int64 {
	used := UsedIDs(rows, field)
	start := floor
	for {
		clash := int64(-1)
		for i := int64(0); i < int64(n); i++ {
			if _, ok := used[start+i]; ok {
				clash = start + i
				break
			}
		}
		if clash < 0 {
			return start
		}
		start = clash + 1
	}
}
