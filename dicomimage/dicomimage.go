// Package dicomimage parses single-frame grayscale DICOM files into a
// pixel matrix plus a keyed metadata store, and renders display
// matrices back out as 8-bit grayscale images.
package dicomimage

import (
	"fmt"
	"io"
	"io/ioutil"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/dicomtag"
	"github.com/suyashkumar/dicom/element"
	"gonum.org/v1/gonum/mat"
)

// Image is one parsed DICOM: its raw pixel matrix and the scalar
// metadata the pipeline consults. Immutable once constructed, so one
// Image may serve concurrent requests.
type Image struct {
	floats map[dicomtag.Tag]float64
	ints   map[dicomtag.Tag]int
	pixels *mat.Dense
}

// NewImage builds an Image directly from a pixel matrix and keyed
// metadata, bypassing DICOM parsing. Useful for synthetic inputs.
func NewImage(pixels *mat.Dense, floats map[dicomtag.Tag]float64, ints map[dicomtag.Tag]int) *Image {
	if floats == nil {
		floats = map[dicomtag.Tag]float64{}
	}
	if ints == nil {
		ints = map[dicomtag.Tag]int{}
	}

	return &Image{floats: floats, ints: ints, pixels: pixels}
}

// GetFloat looks up a float-valued tag, falling back to def when the
// image does not carry it.
func (i *Image) GetFloat(tag dicomtag.Tag, def float64) float64 {
	if v, ok := i.floats[tag]; ok {
		return v
	}
	return def
}

// GetInt looks up an integer-valued tag, falling back to def when the
// image does not carry it.
func (i *Image) GetInt(tag dicomtag.Tag, def int) int {
	if v, ok := i.ints[tag]; ok {
		return v
	}
	return def
}

// FloatPixelData returns the raw pixel matrix. The matrix is shared
// with the Image and must be treated as read-only.
func (i *Image) FloatPixelData() *mat.Dense {
	return i.pixels
}

// FromReader parses one DICOM from the reader. Only native
// single-frame grayscale pixel data is supported; encapsulated or
// multi-frame images are rejected.
//
// The dicom library panics on some malformed inputs, so the whole
// parse runs under a recover that converts panics into errors
// (following SafelyDicomParse).
func FromReader(r io.Reader) (img *Image, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			img, err = nil, fmt.Errorf("dicomimage: parser panic: %v", panicErr)
		}
	}()

	dcm, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	p, err := dicom.NewParserFromBytes(dcm, nil)
	if err != nil {
		return nil, pfx.Err(err)
	}

	parsedData, err := p.Parse(dicom.ParseOptions{DropPixelData: false})
	if parsedData == nil || err != nil {
		return nil, fmt.Errorf("dicomimage: error parsing dicom: %v", err)
	}

	out := &Image{
		floats: map[dicomtag.Tag]float64{},
		ints:   map[dicomtag.Tag]int{},
	}

	var imgPixels []int

	for _, elem := range parsedData.Elements {
		switch {
		case elem.Tag == dicomtag.Rows:
			out.ints[dicomtag.Rows] = int(elem.Value[0].(uint16))

		case elem.Tag == dicomtag.Columns:
			out.ints[dicomtag.Columns] = int(elem.Value[0].(uint16))

		// Rescale parameters have the DS value representation, so they
		// arrive from the parser as strings.
		case elem.Tag == dicomtag.RescaleSlope:
			if v, convErr := strconv.ParseFloat(elem.Value[0].(string), 64); convErr == nil {
				out.floats[dicomtag.RescaleSlope] = v
			}

		case elem.Tag == dicomtag.RescaleIntercept:
			if v, convErr := strconv.ParseFloat(elem.Value[0].(string), 64); convErr == nil {
				out.floats[dicomtag.RescaleIntercept] = v
			}

		case elem.Tag == dicomtag.PixelData:
			data := elem.Value[0].(element.PixelDataInfo)

			if len(data.Frames) != 1 {
				return nil, fmt.Errorf("dicomimage: got %d frames, only single-frame images are supported", len(data.Frames))
			}

			frame := data.Frames[0]
			if frame.IsEncapsulated() {
				return nil, fmt.Errorf("dicomimage: encapsulated pixel data is not supported")
			}

			for j := 0; j < len(frame.NativeData.Data); j++ {
				imgPixels = append(imgPixels, frame.NativeData.Data[j][0])
			}
		}
	}

	cols := out.ints[dicomtag.Columns]
	if cols <= 0 || len(imgPixels) == 0 {
		return nil, fmt.Errorf("dicomimage: no grayscale pixel data found")
	}
	if len(imgPixels)%cols != 0 {
		return nil, fmt.Errorf("dicomimage: %d pixels do not fill %d columns evenly", len(imgPixels), cols)
	}

	// The matrix is shaped by the pixel data actually present; whether
	// that agrees with the declared Rows tag is checked downstream.
	rows := len(imgPixels) / cols
	out.pixels = mat.NewDense(rows, cols, nil)
	for j, v := range imgPixels {
		out.pixels.Set(j/cols, j%cols, float64(v))
	}

	return out, nil
}
