package sheetparser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/giygas/medicines-catalog/logging"
	"golang.org/x/text/encoding/charmap"
)

// ErrHTTPStatus is returned when the sheet endpoint answers with a non 2xx status.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

const (
	defaultBaseURL  = "https://docs.google.com/spreadsheets/d"
	maxResponseSize = 32 * 1024 * 1024
)

// SheetURL builds the gviz JSON endpoint for one tab of a spreadsheet.
func SheetURL(baseURL, spreadsheetID, gid string) string {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	q := url.Values{}
	q.Set("tqx", "out:json")
	q.Set("gid", gid)
	return fmt.Sprintf("%s/%s/gviz/tq?%s", baseURL, url.PathEscape(spreadsheetID), q.Encode())
}

// fetchText downloads the sheet payload. The request is bound to ctx so a
// superseded load aborts the transfer.
func fetchText(ctx context.Context, client *http.Client, sheetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sheetURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*")

	start := time.Now()
	response, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", sheetURL, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrHTTPStatus, response.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	// The endpoint answers in UTF-8, but exported mirrors sometimes do not
	if !utf8.Valid(bodyBytes) {
		decoded, err := io.ReadAll(charmap.Windows1252.NewDecoder().Reader(bytes.NewReader(bodyBytes)))
		if err != nil {
			return "", fmt.Errorf("failed to decode response body: %w", err)
		}
		bodyBytes = decoded
	}

	logging.Debug("Sheet downloaded", "bytes", len(bodyBytes), "duration", time.Since(start).String())
	return string(bodyBytes), nil
}
