package hounsfield

import "gonum.org/v1/gonum/mat"

// Range scans the matrix once and returns its true minimum and
// maximum. The running extrema are seeded from the first element
// rather than from fixed sentinels: calibrated CT intensities are
// routinely large-magnitude negative numbers (air sits near -1000 HU),
// and a positive seed would report a bogus maximum for all-negative
// images.
func Range(m *mat.Dense) (low, high float64, err error) {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, ErrEmptyImage
	}

	low = m.At(0, 0)
	high = low
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := m.At(y, x)
			if v < low {
				low = v
			}
			if v > high {
				high = v
			}
		}
	}

	return low, high, nil
}
