package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestFreeEndpointsAreNeverLimited(t *testing.T) {
	l := New(0.0001, 1) // effectively no refill
	h := l.Middleware(okHandler())

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("healthz limited on iteration %d: %d", i, rec.Code)
		}
	}
}

func TestProcessImageExhaustsBucket(t *testing.T) {
	l := New(0.0001, 250) // room for two scans, not three
	h := l.Middleware(okHandler())

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/process_image", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if c := do(); c != http.StatusOK {
		t.Fatalf("first scan: %d", c)
	}
	if c := do(); c != http.StatusOK {
		t.Fatalf("second scan: %d", c)
	}
	if c := do(); c != http.StatusTooManyRequests {
		t.Fatalf("third scan: got %d, want 429", c)
	}
}

func TestPreflightIsNeverLimited(t *testing.T) {
	l := New(0.0001, 100)
	h := l.Middleware(okHandler())

	do := func(method string) int {
		req := httptest.NewRequest(method, "/process_image", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// Exhaust the client's bucket with real scans.
	if c := do(http.MethodPost); c != http.StatusOK {
		t.Fatalf("first scan: %d", c)
	}
	if c := do(http.MethodPost); c != http.StatusTooManyRequests {
		t.Fatalf("second scan: got %d, want 429", c)
	}
	// The preflight for the next scan must still get through.
	if c := do(http.MethodOptions); c != http.StatusOK {
		t.Fatalf("preflight: got %d, want 200", c)
	}
}

func TestBucketsAreScopedPerClient(t *testing.T) {
	l := New(0.0001, 100)
	h := l.Middleware(okHandler())

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/process_image", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if c := do("10.0.0.3:1"); c != http.StatusOK {
		t.Fatalf("client A first scan: %d", c)
	}
	if c := do("10.0.0.3:1"); c != http.StatusTooManyRequests {
		t.Fatalf("client A second scan: got %d, want 429", c)
	}
	// A fresh client gets its own bucket.
	if c := do("10.0.0.4:1"); c != http.StatusOK {
		t.Fatalf("client B first scan: %d", c)
	}
}
