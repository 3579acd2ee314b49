// Package qr renders short URLs as QR codes.
package qr

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const (
	// DefaultSize is the side of the rendered image in pixels.
	DefaultSize = 200

	dataURLPrefix = "data:image/png;base64,"
)

// Renderer encodes text as a PNG QR code wrapped in a data URL.
type Renderer struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewRenderer creates a Renderer producing size x size images.
// A non-positive size falls back to DefaultSize.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}

	return &Renderer{
		size:  size,
		level: qrcode.Medium,
	}
}

func (r *Renderer) Render(text string) (string, error) {
	const op = "adapter.qr.Renderer.Render"

	png, err := qrcode.Encode(text, r.level, r.size)
	if err != nil {
		return "", fmt.Errorf("%s: failed to encode qr code: %w", op, err)
	}

	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
