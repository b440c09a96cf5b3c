// Package gviz decodes Google Visualization query responses (the JSONP
// envelope served by the sheets gviz endpoint) into plain ordered rows.
// It has no knowledge of what the columns mean.
package gviz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformedEnvelope = errors.New("gviz: malformed response envelope")
	ErrMissingTable      = errors.New("gviz: response has no table")
)

// Response is the object passed to google.visualization.Query.setResponse.
type Response struct {
	Version string          `json:"version"`
	Status  string          `json:"status"`
	Errors  []ResponseError `json:"errors,omitempty"`
	Table   *Table          `json:"table"`
}

type ResponseError struct {
	Reason          string `json:"reason"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailed_message"`
}

type Table struct {
	Cols []Column `json:"cols"`
	Rows []RawRow `json:"rows"`
}

type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type RawRow struct {
	C []*RawCell `json:"c"`
}

// RawCell carries the raw value v and the optional formatted value f.
type RawCell struct {
	V Cell    `json:"v"`
	F *string `json:"f,omitempty"`
}

// Unwrap strips the JSONP call around the payload, e.g.
// "/*O_o*/\ngoogle.visualization.Query.setResponse({...});".
// A bare JSON object is returned as is.
func Unwrap(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}

	open := strings.IndexByte(trimmed, '(')
	if open < 0 {
		return "", ErrMalformedEnvelope
	}

	inner := strings.TrimSpace(trimmed[open+1:])
	inner = strings.TrimSuffix(inner, ";")
	inner = strings.TrimSpace(inner)
	if !strings.HasSuffix(inner, ")") {
		return "", ErrMalformedEnvelope
	}
	inner = strings.TrimSpace(strings.TrimSuffix(inner, ")"))

	if inner == "" {
		return "", ErrMalformedEnvelope
	}
	return inner, nil
}

// Parse unwraps and unmarshals a gviz payload.
func Parse(text string) (*Response, error) {
	inner, err := Unwrap(text)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal([]byte(inner), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return &resp, nil
}

// Decode turns raw response text into rows.
func Decode(text string) ([]Row, error) {
	resp, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return resp.Rows()
}

// Headers resolves one header per column: label, then id, then col<index>.
func (t *Table) Headers() []string {
	headers := make([]string, len(t.Cols))
	for i, col := range t.Cols {
		switch {
		case strings.TrimSpace(col.Label) != "":
			headers[i] = strings.TrimSpace(col.Label)
		case strings.TrimSpace(col.ID) != "":
			headers[i] = strings.TrimSpace(col.ID)
		default:
			headers[i] = "col" + strconv.Itoa(i)
		}
	}
	return headers
}

// Rows converts the table into plain rows keyed by resolved header, in source
// order. Formatted values win over raw values, missing cells become "".
func (r *Response) Rows() ([]Row, error) {
	if r.Status == "error" {
		reason := "unknown"
		if len(r.Errors) > 0 {
			reason = r.Errors[0].Reason
		}
		return nil, fmt.Errorf("%w: source reported error %q", ErrMissingTable, reason)
	}
	if r.Table == nil {
		return nil, ErrMissingTable
	}

	headers := r.Table.Headers()
	rows := make([]Row, 0, len(r.Table.Rows))

	for _, raw := range r.Table.Rows {
		row := make(Row, len(headers))
		for i, header := range headers {
			row[i] = Field{Header: header, Value: cellValue(raw.C, i)}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func cellValue(cells []*RawCell, i int) Cell {
	if i >= len(cells) || cells[i] == nil {
		return String("")
	}
	cell := cells[i]
	if cell.F != nil {
		return String(*cell.F)
	}
	if cell.V.IsNull() {
		return String("")
	}
	return cell.V
}
