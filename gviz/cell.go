package gviz

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CellKind tags the variant held by a Cell.
type CellKind int

const (
	KindNull CellKind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

// Cell is a single untyped value coming out of the sheet. Coercion into
// catalog types happens in the normalizer, not here.
type Cell struct {
	kind CellKind
	str  string
	num  float64
	b    bool
	list []Cell
}

func Null() Cell              { return Cell{kind: KindNull} }
func String(s string) Cell    { return Cell{kind: KindString, str: s} }
func Number(n float64) Cell   { return Cell{kind: KindNumber, num: n} }
func Bool(b bool) Cell        { return Cell{kind: KindBool, b: b} }
func List(items ...Cell) Cell { return Cell{kind: KindList, list: items} }
func (c Cell) Kind() CellKind { return c.kind }
func (c Cell) IsNull() bool   { return c.kind == KindNull }
func (c Cell) Items() []Cell  { return c.list }

// Number returns the numeric payload when the cell holds a number.
func (c Cell) Number() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// String renders the cell the way it would be displayed: null is empty,
// numbers use the shortest decimal form, lists are comma joined.
func (c Cell) String() string {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		return formatNumber(c.num)
	case KindBool:
		return strconv.FormatBool(c.b)
	case KindList:
		parts := make([]string, len(c.list))
		for i, item := range c.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// Value returns the natural Go value of the cell, used to keep the original
// row verbatim.
func (c Cell) Value() any {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		return c.num
	case KindBool:
		return c.b
	case KindList:
		out := make([]any, len(c.list))
		for i, item := range c.list {
			out[i] = item.Value()
		}
		return out
	default:
		return nil
	}
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = FromValue(v)
	return nil
}

// FromValue converts a decoded JSON value into a Cell. Unsupported shapes
// (objects) are kept as their JSON text.
func FromValue(v any) Cell {
	switch t := v.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case bool:
		return Bool(t)
	case []any:
		items := make([]Cell, len(t))
		for i, item := range t {
			items[i] = FromValue(item)
		}
		return List(items...)
	case []string:
		items := make([]Cell, len(t))
		for i, item := range t {
			items[i] = String(item)
		}
		return List(items...)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return Null()
		}
		return String(string(raw))
	}
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 0) {
		if n > 0 {
			return "Infinity"
		}
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
