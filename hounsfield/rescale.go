package hounsfield

import "gonum.org/v1/gonum/mat"

// Rescale maps every stored pixel code v to v*Slope + Intercept,
// recovering the Hounsfield value of each pixel. The input matrix is
// left untouched; the result is freshly allocated with the same
// dimensions. NaN and infinite inputs propagate arithmetically.
func Rescale(raw *mat.Dense, c Calibration) *mat.Dense {
	rows, cols := raw.Dims()
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}

	out := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			out.Set(y, x, raw.At(y, x)*c.Slope+c.Intercept)
		}
	}

	return out
}
