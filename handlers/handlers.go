// Package handlers provides the HTTP handlers of the medicines catalog API:
// filtered listings, detail lookup, category and manufacturer listings,
// forced refresh and health checks.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/medicines-catalog/entities"
	"github.com/giygas/medicines-catalog/interfaces"
	"github.com/giygas/medicines-catalog/logging"
)

// ListResponse is the body of GET /medicines
type ListResponse struct {
	Data          []entities.Entry    `json:"data"`
	Total         int                 `json:"total"`
	Manufacturers []string            `json:"manufacturers"`
	Categories    []entities.Category `json:"categories"`
	Advisory      string              `json:"advisory,omitempty"`
	Source        interfaces.Source   `json:"source"`
	Query         string              `json:"query"`
}

// DetailResponse is one entry with its category resolved for display
type DetailResponse struct {
	entities.Entry
	CategoryDetails entities.Category `json:"categoryDetails"`
}

// CategoryCount is a category with the number of entries filed under it
type CategoryCount struct {
	entities.Category
	Count int `json:"count"`
}

// RefreshResponse is the body of POST /refresh
type RefreshResponse struct {
	Source   interfaces.Source `json:"source"`
	Advisory string            `json:"advisory,omitempty"`
	Total    int               `json:"total"`
	LoadedAt string            `json:"loadedAt"`
}

// HealthResponse keeps the JSON field order stable
type HealthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime,omitempty"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// RespondWithJSON writes payload as JSON with the given status code
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// resolveCategory returns the known category or one named after the raw id
func resolveCategory(id string) entities.Category {
	if c, ok := entities.FindCategory(id); ok {
		return c
	}
	return entities.Category{ID: id, Name: id}
}

// countCategories returns every known category with its entry count, in
// display order
func countCategories(entries []entities.Entry) []CategoryCount {
	counts := make(map[string]int)
	for i := range entries {
		counts[entries[i].Category]++
	}

	categories := entities.Categories()
	out := make([]CategoryCount, len(categories))
	for i, c := range categories {
		out[i] = CategoryCount{Category: c, Count: counts[c.ID]}
	}
	return out
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
