package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giygas/medicines-catalog/config"
)

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		expectedCost int64
	}{
		{"Metrics scrape", "/metrics", 0},
		{"Health endpoint", "/health", 5},
		{"Categories", "/categories", 5},
		{"Manufacturers", "/manufacturers", 5},
		{"Refresh", "/refresh", 200},
		{"Listing", "/medicines", 10},
		{"Listing with filters", "/medicines?category=painkillers", 10},
		{"Search", "/medicines?search=ibu", 20},
		{"Empty search", "/medicines?search=", 10},
		{"Detail", "/medicines/med-001", 2},
		{"Default endpoint", "/unknown", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if cost := getTokenCost(req); cost != tt.expectedCost {
				t.Errorf("Expected cost %d, got %d", tt.expectedCost, cost)
			}
		})
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 16, MaxHeaderSize: 64}
	handler := RequestSizeMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name           string
		body           string
		header         string
		expectedStatus int
	}{
		{"small request", "{}", "", http.StatusOK},
		{"body too large", strings.Repeat("x", 17), "", http.StatusRequestEntityTooLarge},
		{"headers too large", "", strings.Repeat("h", 65), http.StatusRequestHeaderFieldsTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/refresh", strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set("X-Padding", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
		})
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 20)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/medicines?search=ibu", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	if rr := send("192.0.2.1:1000"); rr.Code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", rr.Code)
	}

	// Same client on another port shares the bucket
	rr := send("192.0.2.1:2000")
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Expected a Retry-After header")
	}

	if rr := send("192.0.2.2:1000"); rr.Code != http.StatusOK {
		t.Errorf("Expected another client to pass, got %d", rr.Code)
	}
}

func TestRateLimiterEvictIdle(t *testing.T) {
	rl := NewRateLimiter(0.001, 20)
	rl.getBucket("idle")
	rl.getBucket("busy").TakeAvailable(5)

	if removed := rl.evictIdle(); removed != 1 {
		t.Errorf("Expected 1 evicted bucket, got %d", removed)
	}
	if _, ok := rl.clients["busy"]; !ok {
		t.Error("Expected the busy client to be kept")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		expected   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"203.0.113.9", "203.0.113.9"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = tt.remoteAddr
		if got := clientIP(req); got != tt.expected {
			t.Errorf("clientIP(%q) = %q, expected %q", tt.remoteAddr, got, tt.expected)
		}
	}
}
