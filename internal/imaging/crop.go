package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Rect is a pixel rectangle. (X1,Y1) is inclusive, (X2,Y2) is exclusive.
type Rect struct {
	X1 int `json:"x1" mapstructure:"x1"`
	Y1 int `json:"y1" mapstructure:"y1"`
	X2 int `json:"x2" mapstructure:"x2"`
	Y2 int `json:"y2" mapstructure:"y2"`
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// Empty reports whether r contains no pixels.
func (r Rect) Empty() bool {
	return r.X1 >= r.X2 || r.Y1 >= r.Y2
}

// Clamp limits r to a width x height image.
func (r Rect) Clamp(width, height int) Rect {
	return Rect{
		X1: clampInt(r.X1, 0, width),
		Y1: clampInt(r.Y1, 0, height),
		X2: clampInt(r.X2, 0, width),
		Y2: clampInt(r.Y2, 0, height),
	}
}

// FractionalRect describes a rectangle as fractions of the source image size.
// All four values must lie in [0,1] with X1 < X2 and Y1 < Y2.
type FractionalRect struct {
	X1 float64 `json:"x1" mapstructure:"x1"`
	Y1 float64 `json:"y1" mapstructure:"y1"`
	X2 float64 `json:"x2" mapstructure:"x2"`
	Y2 float64 `json:"y2" mapstructure:"y2"`
}

// Validate checks that f is a usable fractional rectangle.
func (f FractionalRect) Validate() error {
	for _, v := range []float64{f.X1, f.Y1, f.X2, f.Y2} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: fractional bounds must be within [0,1], got %+v", ErrInvalidRegion, f)
		}
	}
	if f.X1 >= f.X2 || f.Y1 >= f.Y2 {
		return fmt.Errorf("%w: fractional bounds must satisfy x1 < x2 and y1 < y2, got %+v", ErrInvalidRegion, f)
	}
	return nil
}

// Resolve converts f to pixels for a width x height image, rounding each edge
// to the nearest pixel.
func (f FractionalRect) Resolve(width, height int) Rect {
	return Rect{
		X1: int(math.Round(float64(width) * f.X1)),
		Y1: int(math.Round(float64(height) * f.Y1)),
		X2: int(math.Round(float64(width) * f.X2)),
		Y2: int(math.Round(float64(height) * f.Y2)),
	}
}

// Extract returns the sub-image of img inside r.
//
// r is clamped to the image first. If nothing remains the call fails with
// ErrInvalidRegion. The returned image is a copy whose bounds start at (0,0).
func Extract(img image.Image, r Rect) (*image.NRGBA, error) {
	bounds := img.Bounds()
	clamped := r.Clamp(bounds.Dx(), bounds.Dy())
	if clamped.Empty() {
		return nil, fmt.Errorf("%w: region %s is empty within %dx%d image",
			ErrInvalidRegion, r, bounds.Dx(), bounds.Dy())
	}

	rect := image.Rect(clamped.X1, clamped.Y1, clamped.X2, clamped.Y2).Add(bounds.Min)
	return imaging.Crop(img, rect), nil
}

// ExtractFraction crops img using bounds expressed as fractions of its size.
func ExtractFraction(img image.Image, f FractionalRect) (*image.NRGBA, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return Extract(img, f.Resolve(bounds.Dx(), bounds.Dy()))
}

// EncodedImage is an image encoded as base64 PNG for transport in JSON.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
