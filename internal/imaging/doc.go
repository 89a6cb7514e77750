// Package imaging implements the image stages of the scoreboard pipeline:
// decoding screenshots, extracting scoreboard regions, masking columns that
// confuse OCR, and normalizing regions before recognition.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// image bounds origin:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Immutability
//
// No function mutates its input. Every transform returns a freshly
// allocated image, so images can be handed from stage to stage without
// aliasing.
//
// # Error Handling
//
// Fatal conditions are reported with wrapped sentinels so callers can use
// errors.Is:
//   - ErrImageDecode: file unreadable or not a supported raster format
//   - ErrInvalidRegion: a crop rectangle is empty after clamping
//
// Column masking never fails; bands outside the image are clamped away.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless.
package imaging
