// Package handle contains the HTTP handlers for the prescription scanner.
package handle

import (
	"encoding/json"
	"net/http"

	"rx-scanner/api/internal/vision"
)

// Client-facing error messages. Anything unexpected maps to ErrMsgInternal;
// the detail stays in the server log.
const (
	ErrMsgNoImage       = "No image file provided"
	ErrMsgEmptyFilename = "No selected image file"
	ErrMsgTooLarge      = "Image file too large"
	ErrMsgInternal      = "An internal server error occurred during image processing."
)

type Handle struct {
	engine         vision.Engine
	maxUploadBytes int64
}

func New(engine vision.Engine, maxUploadBytes int64) *Handle {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handle{
		engine:         engine,
		maxUploadBytes: maxUploadBytes,
	}
}

// Test is the plaintext greeting the mobile client pings for connectivity.
func (h *Handle) Test(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("hello shravan"))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
