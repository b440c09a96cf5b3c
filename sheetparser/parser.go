package sheetparser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/gviz"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/logging"
)

// ErrNoSpreadsheet is returned when no spreadsheet id is configured. The
// loader then serves the fallback dataset.
var ErrNoSpreadsheet = errors.New("no spreadsheet configured")

// Compile-time check to ensure SheetParser implements Parser interface
var _ interfaces.Parser = (*SheetParser)(nil)

// SheetParser downloads one sheet tab and normalizes it into entries.
type SheetParser struct {
	spreadsheetID string
	gid           string
	baseURL       string
	client        *http.Client
}

// Option customizes a SheetParser.
type Option func(*SheetParser)

// WithBaseURL points the parser at another gviz host, mostly for tests.
func WithBaseURL(baseURL string) Option {
	return func(p *SheetParser) { p.baseURL = baseURL }
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *SheetParser) { p.client = client }
}

// NewSheetParser creates a parser for spreadsheetID/gid.
func NewSheetParser(spreadsheetID, gid string, timeout time.Duration, opts ...Option) *SheetParser {
	p := &SheetParser{
		spreadsheetID: spreadsheetID,
		gid:           gid,
		baseURL:       defaultBaseURL,
		client:        &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SourceKey identifies the remote table, used to scope the cache slot.
func (p *SheetParser) SourceKey() string {
	return fmt.Sprintf("sheet_cache_%s_%s", p.spreadsheetID, p.gid)
}

// ParseEntries fetches, decodes and normalizes the sheet.
func (p *SheetParser) ParseEntries(ctx context.Context) ([]entities.Entry, error) {
	if p.spreadsheetID == "" {
		return nil, ErrNoSpreadsheet
	}

	text, err := fetchText(ctx, p.client, SheetURL(p.baseURL, p.spreadsheetID, p.gid))
	if err != nil {
		return nil, err
	}

	rows, err := gviz.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sheet: %w", err)
	}

	// Decoding is synchronous, so check once more before doing the work
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := NormalizeRows(rows)
	logging.Info("Sheet parsed", "rows", len(rows), "source", p.SourceKey())
	return entries, nil
}
