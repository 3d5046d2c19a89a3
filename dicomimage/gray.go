package dicomimage

import (
	"image"
	"image/color"
	"image/png"
	"net/http"

	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// Gray draws a display matrix (values already in [0, 255]) as an 8-bit
// grayscale image. Matrix row y becomes image row y.
func Gray(m *mat.Dense) *image.Gray {
	rows, cols := m.Dims()

	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(m.At(y, x))})
		}
	}

	return img
}

// PNGSink delivers display matrices to HTTP clients as PNG bodies.
type PNGSink struct{}

func (PNGSink) Send(w http.ResponseWriter, m *mat.Dense) error {
	w.Header().Set("Content-Type", "image/png")

	if err := png.Encode(w, Gray(m)); err != nil {
		return pfx.Err(err)
	}

	return nil
}
