package patch

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/resolve"
	"github.com/M4rkoza7/AceCombatExpansionSystem/internal/table"
	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// FieldAircraftViewerID is the numeric id of an AircraftViewer row.
const FieldAircraftViewerID = "AircraftViewerID"

// ReferenceViewerPlane is the stock plane whose viewer rows are copied for
// every new plane.
const ReferenceViewerPlane = "f04e"

// ViewerIDOffset is added to the row number and AircraftViewerID of every
// copied viewer row. It is fixed by the game data.
const ViewerIDOffset = 294

var rowNumber = regexp.MustCompile(`^Row_(\d+)`)

var errNoRowNumber = errors.New("name has no Row_<n> number")

// ViewerResult describes what DuplicateViewer did.
type ViewerResult struct {
	Rows    []*table.Row
	Removed int
	// Skipped lists fields that kept the reference value because it was not
	// numeric.
	Skipped []*types.FieldCoercionError
}

// CheckViewerTarget reports whether target can receive copies of the
// reference plane's viewer rows.
func CheckViewerTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return types.NewValidationError("plane_string_id", "must not be empty")
	}
	if target == ReferenceViewerPlane {
		return types.NewValidationError("plane_string_id", "cannot duplicate viewer rows onto %s itself", ReferenceViewerPlane)
	}
	return nil
}

// DuplicateViewer appends a copy of every ReferenceViewerPlane row for
// target. Row numbers and AircraftViewerID are shifted by ViewerIDOffset;
// a value that is not numeric stays as it was and is reported in Skipped.
// With replace set, rows already belonging to target are removed first.
func DuplicateViewer(doc *table.Document, target string, replace bool) (*ViewerResult, error) {
	if err := CheckViewerTarget(target); err != nil {
		return nil, err
	}

	res := &ViewerResult{}
	for _, src := range resolve.FindRows(doc.Rows, FieldPlaneStringID, ReferenceViewerPlane) {
		row := src.Clone()

		if name, ok := shiftRowName(row.Name); ok {
			row.Name = name
		} else {
			res.Skipped = append(res.Skipped, &types.FieldCoercionError{
				Row:   src.Name,
				Field: "Name",
				Value: strconv.Quote(src.Name),
				Err:   errNoRowNumber,
			})
		}

		if _, err := row.Set(FieldPlaneStringID, table.String(target)); err != nil {
			return nil, fmt.Errorf("row %q: %w", src.Name, err)
		}

		if p, ok := row.Property(FieldAircraftViewerID); ok {
			v := p.Value()
			if n, err := v.ToInt(); err != nil {
				res.Skipped = append(res.Skipped, &types.FieldCoercionError{
					Row:   src.Name,
					Field: FieldAircraftViewerID,
					Value: v.Raw(),
					Err:   err,
				})
			} else if err := p.Set(table.Int(n + ViewerIDOffset)); err != nil {
				return nil, fmt.Errorf("row %q: %w", src.Name, err)
			}
		}
		res.Rows = append(res.Rows, row)
	}

	if replace {
		res.Removed = doc.RemoveRows(hasIdentity(target))
	}
	doc.Rows = append(doc.Rows, res.Rows...)
	return res, nil
}

func shiftRowName(name string) (string, bool) {
	m := rowNumber.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return "", false
	}
	return rowName(n + ViewerIDOffset), true
}
