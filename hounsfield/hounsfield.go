// Package hounsfield converts raw CT detector codes into calibrated
// Hounsfield units and renders a chosen intensity window down to the
// 8-bit display range. All functions allocate fresh matrices and never
// mutate their inputs, so a single raw matrix can feed several
// independent computations within one request.
package hounsfield

import (
	"errors"

	"github.com/suyashkumar/dicom/dicomtag"
)

var (
	// ErrEmptyImage is returned when a range is requested over a matrix
	// with no elements.
	ErrEmptyImage = errors.New("hounsfield: pixel matrix has no elements")

	// ErrDimensionMismatch is returned when the Rows/Columns declared in
	// the image metadata disagree with the actual pixel matrix. Silently
	// truncating or padding would corrupt the rendering, so this is
	// always surfaced.
	ErrDimensionMismatch = errors.New("hounsfield: declared dimensions disagree with pixel matrix")
)

// Calibration holds the per-image linear transform from stored pixel
// codes to Hounsfield units.
type Calibration struct {
	Slope     float64
	Intercept float64
}

// Window is a caller-requested intensity sub-range to be mapped onto
// the display range [0, 255].
type Window struct {
	Low  float64
	High float64
}

// Valid reports whether the window spans a strictly positive range.
// An invalid window does not fail; it renders as an all-black image.
func (w Window) Valid() bool {
	return w.High > w.Low
}

// MetadataStore is the keyed-lookup-with-fallback view of an image's
// metadata that this package needs. The DICOM dataset satisfies it.
type MetadataStore interface {
	GetFloat(tag dicomtag.Tag, def float64) float64
	GetInt(tag dicomtag.Tag, def int) int
}

// ReadCalibration extracts the rescale slope and intercept from the
// image metadata. Images that omit them are treated as identity-scaled
// (slope 1, intercept 0), per the DICOM defaults.
func ReadCalibration(meta MetadataStore) Calibration {
	return Calibration{
		Slope:     meta.GetFloat(dicomtag.RescaleSlope, 1.0),
		Intercept: meta.GetFloat(dicomtag.RescaleIntercept, 0.0),
	}
}
