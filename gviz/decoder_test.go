package gviz

import (
	"errors"
	"testing"
)

const sampleResponse = `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok","sig":"1","table":{"cols":[{"id":"A","label":"Product Name","type":"string"},{"id":"B","label":"","type":"number"},{"id":"","label":"","type":"string"}],"rows":[{"c":[{"v":"Paracetamol"},{"v":9.99,"f":"$9.99"},null]},{"c":[{"v":"Ibuprofen"},{"v":12}]},{"c":[{"v":null},{"v":3.5},{"v":"x"}]}],"parsedNumHeaders":1}});`

func TestUnwrap(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"gviz wrapper", `/*O_o*/ google.visualization.Query.setResponse({"a":1});`, `{"a":1}`, false},
		{"no semicolon", `cb({"a":1})`, `{"a":1}`, false},
		{"trailing whitespace", "cb({\"a\":1});\n  ", `{"a":1}`, false},
		{"bare json", ` {"a":1} `, `{"a":1}`, false},
		{"parens inside payload", `cb({"a":"(x)"});`, `{"a":"(x)"}`, false},
		{"no call", `hello`, "", true},
		{"unterminated", `cb({"a":1}`, "", true},
		{"empty call", `cb();`, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Unwrap(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrMalformedEnvelope) {
					t.Errorf("Expected ErrMalformedEnvelope, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDecodeSample(t *testing.T) {
	rows, err := Decode(sampleResponse)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}

	// Header fallbacks: label, then id, then positional placeholder
	wantHeaders := []string{"Product Name", "B", "col2"}
	for i, h := range wantHeaders {
		if rows[0][i].Header != h {
			t.Errorf("Expected header %d to be %q, got %q", i, h, rows[0][i].Header)
		}
	}

	// Formatted value wins over raw value
	if v, _ := rows[0].Get("B"); v.String() != "$9.99" {
		t.Errorf("Expected formatted value $9.99, got %q", v.String())
	}

	// Null cell and missing trailing cell both become empty strings
	if v, _ := rows[0].Get("col2"); v.Kind() != KindString || v.String() != "" {
		t.Errorf("Expected empty string for null cell, got %#v", v)
	}
	if v, _ := rows[1].Get("col2"); v.String() != "" {
		t.Errorf("Expected empty string for missing cell, got %q", v.String())
	}

	// Raw numeric value kept as a number when no formatted value
	if v, _ := rows[1].Get("B"); v.Kind() != KindNumber {
		t.Errorf("Expected number cell, got kind %d", v.Kind())
	}

	// null v becomes empty string
	if v, _ := rows[2].Get("Product Name"); v.String() != "" || v.IsNull() {
		t.Errorf("Expected empty string for null v, got %#v", v)
	}

	// Row order preserved
	if v, _ := rows[1].Get("Product Name"); v.String() != "Ibuprofen" {
		t.Errorf("Expected second row to be Ibuprofen, got %q", v.String())
	}
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  error
	}{
		{"not json", `cb(not json);`, ErrMalformedEnvelope},
		{"no table", `cb({"status":"ok"});`, ErrMissingTable},
		{"error status", `cb({"status":"error","errors":[{"reason":"access_denied"}]});`, ErrMissingTable},
		{"garbage", `<html>login</html>`, ErrMalformedEnvelope},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.input)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeEmptyTable(t *testing.T) {
	rows, err := Decode(`cb({"table":{"cols":[{"label":"Name"}],"rows":[]}})`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}

func TestRowMapKeepsOriginalValues(t *testing.T) {
	row := RowFromPairs("Name", "Aspirin", "Price", 4.5, "Rx", true, "Notes", nil)
	m := row.Map()

	if m["Name"] != "Aspirin" {
		t.Errorf("Expected Name Aspirin, got %v", m["Name"])
	}
	if m["Price"] != 4.5 {
		t.Errorf("Expected Price 4.5, got %v", m["Price"])
	}
	if m["Rx"] != true {
		t.Errorf("Expected Rx true, got %v", m["Rx"])
	}
	if v, ok := m["Notes"]; !ok || v != nil {
		t.Errorf("Expected Notes present and nil, got %v (present=%v)", v, ok)
	}
}

func TestCellString(t *testing.T) {
	testCases := []struct {
		cell Cell
		want string
	}{
		{Null(), ""},
		{String(" a "), " a "},
		{Number(1234.5), "1234.5"},
		{Number(12), "12"},
		{Bool(true), "true"},
		{List(String("a"), Number(2)), "a,2"},
	}

	for _, tc := range testCases {
		if got := tc.cell.String(); got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}
}

func TestRowMapKeepsRepeatedHeaders(t *testing.T) {
	row := RowFromPairs("Price", 4.5, "Name", "Aspirin", "Price", 6.0, "Price", nil)
	m := row.Map()

	if m["Price"] != 4.5 {
		t.Errorf("Expected the first Price to keep its name, got %v", m["Price"])
	}
	if m["Price (2)"] != 6.0 {
		t.Errorf("Expected the second Price under 'Price (2)', got %v", m["Price (2)"])
	}
	if v, ok := m["Price (3)"]; !ok || v != nil {
		t.Errorf("Expected 'Price (3)' present and nil, got %v (present=%v)", v, ok)
	}
	if len(m) != 4 {
		t.Errorf("Expected 4 keys, got %d", len(m))
	}
}
