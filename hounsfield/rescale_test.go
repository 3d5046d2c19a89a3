package hounsfield

import (
	"testing"

	"github.com/suyashkumar/dicom/dicomtag"
	"gonum.org/v1/gonum/mat"
)

func TestRescaleIdentity(t *testing.T) {
	raw := mat.NewDense(2, 3, []float64{-1024, 0, 1, 40, 3000, -2048})

	out := Rescale(raw, Calibration{Slope: 1, Intercept: 0})

	if !mat.Equal(raw, out) {
		t.Fatalf("identity calibration changed the matrix:\ngot %v\nwant %v",
			mat.Formatted(out), mat.Formatted(raw))
	}
}

func TestRescaleLinearity(t *testing.T) {
	for _, tc := range []struct {
		value     float64
		slope     float64
		intercept float64
		want      float64
	}{
		{0, 1, -1024, -1024},
		{2048, 1, -1024, 1024},
		{100, 2.5, 0, 250},
		{-40, 0.5, 12, -8},
		{0, 0, 0, 0},
	} {
		raw := mat.NewDense(3, 2, nil)
		for y := 0; y < 3; y++ {
			for x := 0; x < 2; x++ {
				raw.Set(y, x, tc.value)
			}
		}

		out := Rescale(raw, Calibration{Slope: tc.slope, Intercept: tc.intercept})

		rows, cols := out.Dims()
		if rows != 3 || cols != 2 {
			t.Fatalf("Rescale changed dimensions: got %dx%d, want 3x2", rows, cols)
		}
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				if got := out.At(y, x); got != tc.want {
					t.Fatalf("Rescale(%v) with slope %v intercept %v at (%d,%d): got %v, want %v",
						tc.value, tc.slope, tc.intercept, y, x, got, tc.want)
				}
			}
		}
	}
}

func TestRescaleDoesNotMutateInput(t *testing.T) {
	raw := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	want := mat.DenseCopyOf(raw)

	Rescale(raw, Calibration{Slope: 10, Intercept: -5})

	if !mat.Equal(raw, want) {
		t.Fatalf("Rescale mutated its input: got %v, want %v",
			mat.Formatted(raw), mat.Formatted(want))
	}
}

type fakeMeta struct {
	floats map[dicomtag.Tag]float64
	ints   map[dicomtag.Tag]int
}

func (f fakeMeta) GetFloat(tag dicomtag.Tag, def float64) float64 {
	if v, ok := f.floats[tag]; ok {
		return v
	}
	return def
}

func (f fakeMeta) GetInt(tag dicomtag.Tag, def int) int {
	if v, ok := f.ints[tag]; ok {
		return v
	}
	return def
}

func TestReadCalibrationDefaults(t *testing.T) {
	c := ReadCalibration(fakeMeta{})

	if c.Slope != 1 || c.Intercept != 0 {
		t.Fatalf("calibration without metadata: got %+v, want slope 1 intercept 0", c)
	}
}

func TestReadCalibration(t *testing.T) {
	meta := fakeMeta{floats: map[dicomtag.Tag]float64{
		dicomtag.RescaleSlope:     1.5,
		dicomtag.RescaleIntercept: -1024,
	}}

	c := ReadCalibration(meta)

	if c.Slope != 1.5 || c.Intercept != -1024 {
		t.Fatalf("calibration: got %+v, want slope 1.5 intercept -1024", c)
	}
}
