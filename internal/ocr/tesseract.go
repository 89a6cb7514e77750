//go:build cgo

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

const backendName = "gosseract"

// Tesseract recognizes text with the native Tesseract library.
//
// A new gosseract client is created for every call, so a single Tesseract
// value can be shared by concurrent pipelines.
type Tesseract struct {
	// TessdataPrefix overrides the directory holding *.traineddata files.
	// Empty uses the library default (TESSDATA_PREFIX or the install path).
	TessdataPrefix string
}

// NewTesseract creates a Tesseract recognizer.
func NewTesseract(tessdataPrefix string) *Tesseract {
	return &Tesseract{TessdataPrefix: tessdataPrefix}
}

// Recognize runs Tesseract on img.
//
// The image is handed to the engine as an in-memory PNG, so no temporary
// files are written.
func (t *Tesseract) Recognize(img image.Image, mode Mode) (string, error) {
	mode = mode.WithDefaults()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode region: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.TessdataPrefix); err != nil {
			return "", fmt.Errorf("%w: failed to set tessdata path: %v", ErrRecognitionUnavailable, err)
		}
	}

	if err := client.SetLanguage(mode.Language); err != nil {
		return "", fmt.Errorf("%w: failed to set language: %v", ErrRecognitionUnavailable, err)
	}

	if err := client.SetPageSegMode(gosseract.PageSegMode(mode.PageSegMode)); err != nil {
		return "", fmt.Errorf("%w: failed to set page segmentation mode: %v", ErrRecognitionUnavailable, err)
	}

	if mode.Whitelist != "" {
		if err := client.SetWhitelist(mode.Whitelist); err != nil {
			return "", fmt.Errorf("%w: failed to set whitelist: %v", ErrRecognitionUnavailable, err)
		}
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: failed to set image: %v", ErrRecognitionUnavailable, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: OCR failed: %v", ErrRecognitionUnavailable, err)
	}

	return text, nil
}

// Version returns the linked Tesseract version.
func (t *Tesseract) Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// Info reports whether the engine can run with the configured tessdata.
func (t *Tesseract) Info() Info {
	probe := image.NewGray(image.Rect(0, 0, 8, 8))
	if _, err := t.Recognize(probe, DefaultMode); err != nil {
		return Info{Available: false, Error: err.Error(), Backend: backendName}
	}
	return Info{Available: true, Version: t.Version(), Backend: backendName}
}
