package hounsfield

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ApplyWindow maps the Hounsfield values of m onto the display range
// [0, 255]: values at win.Low render as 0, values at win.High as 255,
// values outside the window clamp. The output is sized from the
// metadata-declared rows and cols, which must match m's own
// dimensions.
//
// An invalid window (High <= Low) is not an error: it yields an
// all-black matrix of the declared dimensions without reading m at
// all, which is how a nonsense request renders.
func ApplyWindow(m *mat.Dense, win Window, rows, cols int) (*mat.Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: declared %dx%d", ErrDimensionMismatch, rows, cols)
	}

	// NewDense zero-fills, so this is already the black image.
	out := mat.NewDense(rows, cols, nil)
	if !win.Valid() {
		return out, nil
	}

	mRows, mCols := m.Dims()
	if mRows != rows || mCols != cols {
		return nil, fmt.Errorf("%w: declared %dx%d, pixel data %dx%d",
			ErrDimensionMismatch, rows, cols, mRows, mCols)
	}

	// Strictly positive by the validity check above.
	width := win.High - win.Low

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			t := (m.At(y, x) - win.Low) / width * 255
			if t < 0 {
				t = 0
			} else if t > 255 {
				t = 255
			}
			out.Set(y, x, t)
		}
	}

	return out, nil
}
