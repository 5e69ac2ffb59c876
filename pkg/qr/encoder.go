package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder renders text payloads into scannable PNG images.
type Encoder struct {
	size int
}

// NewEncoder constructs an encoder producing images of the given pixel size.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = 256
	}
	return &Encoder{size: size}
}

// DataURI encodes the payload as a QR PNG and returns it as a
// data:image/png;base64 URI suitable for direct embedding.
func (e *Encoder) DataURI(payload string) (string, error) {
	png, err := e.PNG(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// PNG encodes the payload as QR PNG bytes.
func (e *Encoder) PNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("qr payload is empty")
	}
	png, err := qrcode.Encode(payload, qrcode.Low, e.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
