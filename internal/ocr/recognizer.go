package ocr

import (
	"errors"
	"image"
)

// ErrRecognitionUnavailable is returned when the recognition engine cannot be
// invoked or fails.
var ErrRecognitionUnavailable = errors.New("text recognition unavailable")

// Page segmentation modes used by the scoreboard profiles. The values match
// Tesseract's --psm numbering.
const (
	PSMAuto        = 3
	PSMSingleBlock = 6
	PSMSingleLine  = 7
	PSMSparseText  = 11
)

// Mode selects how a region is recognized.
type Mode struct {
	// Language is a Tesseract language code such as "eng".
	Language string `json:"language" mapstructure:"language"`

	// PageSegMode is the Tesseract page segmentation mode. Zero selects
	// PSMSingleBlock.
	PageSegMode int `json:"page_seg_mode" mapstructure:"page_seg_mode"`

	// Whitelist restricts recognized characters when non-empty.
	Whitelist string `json:"whitelist,omitempty" mapstructure:"whitelist"`
}

// DefaultMode is English text in a single uniform block.
var DefaultMode = Mode{Language: "eng", PageSegMode: PSMSingleBlock}

// WithDefaults fills unset fields from DefaultMode.
func (m Mode) WithDefaults() Mode {
	if m.Language == "" {
		m.Language = DefaultMode.Language
	}
	if m.PageSegMode == 0 {
		m.PageSegMode = DefaultMode.PageSegMode
	}
	return m
}

// Recognizer converts an image region into raw multi-line text.
//
// Results are best effort: tokens may be missing, merged or spurious.
type Recognizer interface {
	Recognize(img image.Image, mode Mode) (string, error)
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(img image.Image, mode Mode) (string, error)

// Recognize calls f(img, mode).
func (f RecognizerFunc) Recognize(img image.Image, mode Mode) (string, error) {
	return f(img, mode)
}

// Info describes the state of the recognition backend.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
	Backend   string `json:"backend"`
}
