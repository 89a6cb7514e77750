package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ColumnBand is a horizontal pixel interval [X1, X2) suppressed across the
// full image height.
type ColumnBand struct {
	X1 int `json:"x1" mapstructure:"x1"`
	X2 int `json:"x2" mapstructure:"x2"`
}

// DefaultMaskFill is the neutral fill painted over masked columns.
var DefaultMaskFill color.Color = color.NRGBA{0, 0, 0, 255}

// MaskColumns paints every band of img with fill and returns the result.
//
// Rank icons and agent portraits sit between the text columns and tend to be
// read as stray glyphs, so they are blacked out before recognition. Bands are
// clamped to the image width; a band that is empty after clamping is skipped.
// Masking is idempotent.
//
// A nil fill means DefaultMaskFill. The input image is never modified.
func MaskColumns(img image.Image, bands []ColumnBand, fill color.Color) *image.NRGBA {
	if fill == nil {
		fill = DefaultMaskFill
	}

	out := imaging.Clone(img)
	width := out.Bounds().Dx()
	height := out.Bounds().Dy()

	for _, band := range bands {
		x1 := clampInt(band.X1, 0, width)
		x2 := clampInt(band.X2, 0, width)
		if x1 >= x2 {
			continue
		}
		patch := imaging.New(x2-x1, height, fill)
		out = imaging.Paste(out, patch, image.Pt(x1, 0))
	}

	return out
}
