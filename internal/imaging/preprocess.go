package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// PreprocessOptions controls OCR normalization.
type PreprocessOptions struct {
	// Scale is the upscale factor applied after grayscale conversion.
	// Values <= 0 or equal to 1 disable resizing.
	Scale float64

	// Threshold is the binarization cut: luminance above it becomes white,
	// everything else black.
	Threshold uint8
}

// DefaultPreprocessOptions doubles the region and cuts at mid-gray.
var DefaultPreprocessOptions = PreprocessOptions{
	Scale:     2.0,
	Threshold: 127,
}

// Preprocess normalizes img for OCR using DefaultPreprocessOptions.
func Preprocess(img image.Image) *image.Gray {
	return PreprocessWith(img, DefaultPreprocessOptions)
}

// PreprocessWith converts img to single-channel luminance, upscales it with
// bicubic (Catmull-Rom) interpolation and applies a fixed two-level threshold.
//
// Alpha is discarded before conversion, so a transparent pixel is binarized
// by its stored color. The output contains only the values 0 and 255. The
// operation is deterministic and never modifies img.
func PreprocessWith(img image.Image, opts PreprocessOptions) *image.Gray {
	opaque := imaging.Clone(img)
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 0xff
	}

	var gray image.Image = effect.Grayscale(opaque)

	if opts.Scale > 0 && opts.Scale != 1.0 {
		b := gray.Bounds()
		w := int(math.Round(float64(b.Dx()) * opts.Scale))
		h := int(math.Round(float64(b.Dy()) * opts.Scale))
		if w > 0 && h > 0 {
			gray = imaging.Resize(gray, w, h, imaging.CatmullRom)
		}
	}

	return binarize(gray, opts.Threshold)
}

// binarize maps luminance above cut to 255 and everything else to 0. img must
// be opaque gray, i.e. R == G == B in every pixel.
func binarize(img image.Image, cut uint8) *image.Gray {
	src := imaging.Clone(img)
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4] > cut {
				out[x] = 0xff
			}
		}
	}
	return dst
}

// SaveDiagnostic writes a normalized image to path for visual inspection.
// The format is chosen from the file extension.
func SaveDiagnostic(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save diagnostic image: %w", err)
	}
	return nil
}
