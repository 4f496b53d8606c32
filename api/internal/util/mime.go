package util

import (
	"net/http"
	"strings"
)

// SniffMimeHTTP detects the MIME type of an uploaded image from magic bytes.
func SniffMimeHTTP(b []byte) string {
	// JPEG: FF D8
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	// PNG
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	return "application/octet-stream"
}

// PickMIME takes the explicit MIME when given, otherwise detects from the
// bytes. Multipart metadata is usually right; sniffing covers clients that
// send application/octet-stream.
func PickMIME(explicit string, data []byte) string {
	exp := strings.TrimSpace(explicit)
	if exp != "" && exp != "application/octet-stream" {
		return exp
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "image/jpeg"
}
