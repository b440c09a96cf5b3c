package gviz

import "fmt"

// Field is one header/value pair of a row.
type Field struct {
	Header string
	Value  Cell
}

// Row keeps fields in column order so callers resolving headers get a
// deterministic first match.
type Row []Field

// RowFromPairs builds a row from alternating header/value arguments.
// Values go through FromValue.
func RowFromPairs(pairs ...any) Row {
	row := make(Row, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		header, _ := pairs[i].(string)
		row = append(row, Field{Header: header, Value: FromValue(pairs[i+1])})
	}
	return row
}

// Get returns the value of the first field with exactly this header.
func (r Row) Get(header string) (Cell, bool) {
	for _, f := range r {
		if f.Header == header {
			return f.Value, true
		}
	}
	return Cell{}, false
}

// Map returns the row as header -> natural value. The first occurrence of a
// repeated header keeps its name, later ones get a " (2)", " (3)" suffix so
// no cell is lost.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		key := f.Header
		for n := 2; ; n++ {
			if _, taken := m[key]; !taken {
				break
			}
			key = fmt.Sprintf("%s (%d)", f.Header, n)
		}
		m[key] = f.Value.Value()
	}
	return m
}
