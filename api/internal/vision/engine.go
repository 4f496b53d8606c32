// Package vision defines the opaque external-model capability: give it image
// bytes and a MIME type, get free-form text back.
package vision

import "context"

type Engine interface {
	Name() string
	// ExtractPrescription submits the fixed extraction prompt together with
	// the image and returns the model's raw text reply.
	ExtractPrescription(ctx context.Context, image []byte, mime string) (string, error)
}
