// Package table reads, edits and writes the JSON form of the game's data
// tables.
//
// A document is treated as mostly opaque: only the row list at
// Exports[0].Table.Data and the NameMap are decoded. Everything else, and
// every key inside rows and properties that acepatch does not change, is
// written back byte-for-byte in its original order.
package table

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/M4rkoza7/AceCombatExpansionSystem/pkg/types"
)

// RowsPath locates the row array inside a document.
const RowsPath = "Exports.0.Table.Data"

const nameMapKey = "NameMap"

var errInvalid = types.ErrInvalidDocument

// Document is one table document held in memory for a single pipeline step.
// It is not safe for concurrent use.
type Document struct {
	Rows []*Row

	raw        []byte
	hasNameMap bool
	names      []string
	nameIndex  map[string]struct{}
}

// Parse decodes a table document and checks its shape.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", errInvalid)
	}
	rows := gjson.GetBytes(data, RowsPath)
	if !rows.IsArray() {
		return nil, fmt.Errorf("%w: %s is missing or not an array", errInvalid, RowsPath)
	}

	doc := &Document{
		raw:       append([]byte(nil), data...),
		nameIndex: make(map[string]struct{}),
	}
	for i, r := range rows.Array() {
		row, err := ParseRow([]byte(r.Raw))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		doc.Rows = append(doc.Rows, row)
	}

	if nm := gjson.GetBytes(data, nameMapKey); nm.Exists() {
		if !nm.IsArray() {
			return nil, fmt.Errorf("%w: NameMap is not an array", errInvalid)
		}
		doc.hasNameMap = true
		for _, n := range nm.Array() {
			doc.appendName(n.String())
		}
	}
	return doc, nil
}

// HasNameMap reports whether the document carries a NameMap.
func (d *Document) HasNameMap() bool { return d.hasNameMap }

// NameMap returns a copy of the interned strings.
func (d *Document) NameMap() []string {
	return append([]string(nil), d.names...)
}

// HasName reports whether s is in the NameMap.
func (d *Document) HasName(s string) bool {
	_, ok := d.nameIndex[s]
	return ok
}

// AddName interns s. It is a no-op, reporting false, when s is already
// present or the document has no NameMap.
func (d *Document) AddName(s string) bool {
	if !d.hasNameMap || d.HasName(s) {
		return false
	}
	d.appendName(s)
	return true
}

func (d *Document) appendName(s string) {
	d.names = append(d.names, s)
	d.nameIndex[s] = struct{}{}
}

// RemoveRows drops every row matching pred and returns how many were removed.
func (d *Document) RemoveRows(pred func(*Row) bool) int {
	kept := d.Rows[:0]
	removed := 0
	for _, r := range d.Rows {
		if pred(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(d.Rows); i++ {
		d.Rows[i] = nil
	}
	d.Rows = kept
	return removed
}

// MarshalJSON returns the compact document.
func (d *Document) MarshalJSON() ([]byte, error) {
	var rows bytes.Buffer
	rows.WriteByte('[')
	for i, r := range d.Rows {
		if i > 0 {
			rows.WriteByte(',')
		}
		b, err := r.MarshalJSON()
		if err != nil {
			return nil, err
		}
		rows.Write(b)
	}
	rows.WriteByte(']')

	out := append([]byte(nil), d.raw...)
	out, err := sjson.SetRawBytes(out, RowsPath, rows.Bytes())
	if err != nil {
		return nil, fmt.Errorf("set rows: %w", err)
	}
	if d.hasNameMap {
		names := d.names
		if names == nil {
			names = []string{}
		}
		if out, err = sjson.SetBytes(out, nameMapKey, names); err != nil {
			return nil, fmt.Errorf("set name map: %w", err)
		}
	}
	if !gjson.ValidBytes(out) {
		return nil, errors.New("encoded document is not valid JSON")
	}
	return out, nil
}

var indentOptions = &pretty.Options{Indent: "  "}

// Bytes returns the document indented by two spaces, the layout the
// converter itself writes.
func (d *Document) Bytes() ([]byte, error) {
	out, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(out, indentOptions), nil
}
