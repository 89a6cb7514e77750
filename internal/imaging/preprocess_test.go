package imaging

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

// createSplitImage creates an image whose left half is dark and right half is light
func createSplitImage(width, height int, dark, light uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := light
			if x < width/2 {
				v = dark
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestPreprocess_Upscales(t *testing.T) {
	img := createSplitImage(60, 25, 40, 220)

	out := Preprocess(img)

	if out.Bounds().Dx() != 120 || out.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %dx%d, want 120x50", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestPreprocess_TwoLevelOutput(t *testing.T) {
	img := createPatternImage(50, 50)

	out := Preprocess(img)

	for _, v := range out.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("found intermediate gray value %d", v)
		}
	}
}

func TestPreprocess_Threshold(t *testing.T) {
	img := createSplitImage(40, 10, 50, 200)

	out := Preprocess(img)

	// Sample away from the interpolated seam in the middle
	if got := out.GrayAt(5, 5).Y; got != 0 {
		t.Errorf("dark side: got %d, want 0", got)
	}
	if got := out.GrayAt(75, 5).Y; got != 255 {
		t.Errorf("light side: got %d, want 255", got)
	}
}

func TestPreprocess_ThresholdBoundary(t *testing.T) {
	for level := 0; level <= 255; level++ {
		v := uint8(level)
		out := Preprocess(createInMemoryImage(8, 4, color.RGBA{v, v, v, 255}))

		want := uint8(0)
		if v > 127 {
			want = 255
		}
		for _, got := range out.Pix {
			if got != want {
				t.Fatalf("luminance %d: got %d, want %d", v, got, want)
			}
		}
	}
}

func TestPreprocess_IgnoresAlpha(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want uint8
	}{
		{"transparent light", color.NRGBA{200, 200, 200, 0}, 255},
		{"transparent dark", color.NRGBA{50, 50, 50, 0}, 0},
		{"half transparent light", color.NRGBA{200, 200, 200, 128}, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
			for i := 0; i < len(img.Pix); i += 4 {
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = tt.c.R, tt.c.G, tt.c.B, tt.c.A
			}

			out := Preprocess(img)
			if got := out.GrayAt(5, 5).Y; got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPreprocess_Deterministic(t *testing.T) {
	img := createPatternImage(30, 30)

	a := Preprocess(img)
	b := Preprocess(img)

	if string(a.Pix) != string(b.Pix) {
		t.Error("Preprocess is not deterministic")
	}
}

func TestPreprocessWith_NoScale(t *testing.T) {
	img := createSplitImage(30, 10, 10, 250)

	out := PreprocessWith(img, PreprocessOptions{Scale: 1, Threshold: 127})

	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 10 {
		t.Errorf("dimensions: got %dx%d, want 30x10", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestSaveDiagnostic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug_preprocessed.png")

	if err := SaveDiagnostic(Preprocess(createPatternImage(20, 20)), path); err != nil {
		t.Fatalf("SaveDiagnostic failed: %v", err)
	}

	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open diagnostic failed: %v", err)
	}
	if img.Bounds().Dx() != 40 {
		t.Errorf("diagnostic width: got %d, want 40", img.Bounds().Dx())
	}
}

func TestSaveDiagnostic_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.png")
	if err := SaveDiagnostic(Preprocess(createPatternImage(10, 10)), path); err == nil {
		t.Error("SaveDiagnostic should fail for an unwritable path")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("file should not exist")
	}
}
