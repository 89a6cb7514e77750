//go:build !cgo

package ocr

import (
	"fmt"
	"image"
)

const backendName = "gosseract (disabled: built without cgo)"

// Tesseract is unavailable in builds without cgo.
type Tesseract struct {
	TessdataPrefix string
}

// NewTesseract creates a Tesseract recognizer.
func NewTesseract(tessdataPrefix string) *Tesseract {
	return &Tesseract{TessdataPrefix: tessdataPrefix}
}

// Recognize always fails with ErrRecognitionUnavailable.
func (t *Tesseract) Recognize(img image.Image, mode Mode) (string, error) {
	return "", fmt.Errorf("%w: binary built without cgo", ErrRecognitionUnavailable)
}

// Version returns an empty string.
func (t *Tesseract) Version() string {
	return ""
}

// Info reports the engine as unavailable.
func (t *Tesseract) Info() Info {
	return Info{Available: false, Error: "built without cgo", Backend: backendName}
}
