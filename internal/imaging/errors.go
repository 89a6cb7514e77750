package imaging

import "errors"

// ErrImageDecode is returned when an input image cannot be read or decoded.
var ErrImageDecode = errors.New("cannot decode image")

// ErrInvalidRegion is returned when a crop rectangle degenerates to an
// empty or out-of-range region.
var ErrInvalidRegion = errors.New("invalid region")
