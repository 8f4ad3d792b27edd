package table

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Row is one entry of a data table: a name such as "Row_101" and an ordered
// list of properties. Property names are looked up first-match.
type Row struct {
	Name       string
	Properties []*Property

	raw []byte
}

// ParseRow decodes a single row object.
func ParseRow(data []byte) (*Row, error) {
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, fmt.Errorf("%w: row is not an object", errInvalid)
	}
	row := &Row{
		Name: res.Get("Name").String(),
		raw:  append([]byte(nil), data...),
	}
	values := res.Get("Value")
	if values.Exists() && !values.IsArray() {
		return nil, fmt.Errorf("%w: row %q: Value is not an array", errInvalid, row.Name)
	}
	for _, v := range values.Array() {
		row.Properties = append(row.Properties, &Property{
			name: v.Get("Name").String(),
			raw:  []byte(v.Raw),
		})
	}
	return row, nil
}

// Property returns the first property with the given name.
func (r *Row) Property(name string) (*Property, bool) {
	for _, p := range r.Properties {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// Get returns the value of the first property with the given name, or a
// value of KindMissing.
func (r *Row) Get(name string) Value {
	if p, ok := r.Property(name); ok {
		return p.Value()
	}
	return Value{}
}

// GetString returns a string-valued property.
func (r *Row) GetString(name string) (string, bool) {
	return r.Get(name).AsString()
}

// Set assigns v to the first property with the given name. It reports false
// when the row has no such property.
func (r *Row) Set(name string, v Value) (bool, error) {
	p, ok := r.Property(name)
	if !ok {
		return false, nil
	}
	return true, p.Set(v)
}

// Clone returns a deep copy sharing no state with r.
func (r *Row) Clone() *Row {
	out := &Row{
		Name:       r.Name,
		raw:        append([]byte(nil), r.raw...),
		Properties: make([]*Property, len(r.Properties)),
	}
	for i, p := range r.Properties {
		out.Properties[i] = p.Clone()
	}
	return out
}

// MarshalJSON re-assembles the row object, keeping every key it was read
// with in its original position.
func (r *Row) MarshalJSON() ([]byte, error) {
	out := append([]byte(nil), r.raw...)
	if len(out) == 0 {
		out = []byte("{}")
	}
	out, err := sjson.SetBytes(out, "Name", r.Name)
	if err != nil {
		return nil, fmt.Errorf("row %q: set name: %w", r.Name, err)
	}
	out, err = sjson.SetRawBytes(out, "Value", joinProperties(r.Properties))
	if err != nil {
		return nil, fmt.Errorf("row %q: set properties: %w", r.Name, err)
	}
	return out, nil
}

func joinProperties(props []*Property) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, p := range props {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(p.raw)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
