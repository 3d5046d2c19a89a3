package dicomimage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suyashkumar/dicom/dicomtag"
	"gonum.org/v1/gonum/mat"
)

func TestImageMetadataFallbacks(t *testing.T) {
	img := NewImage(mat.NewDense(1, 1, []float64{42}),
		map[dicomtag.Tag]float64{dicomtag.RescaleSlope: 2},
		map[dicomtag.Tag]int{dicomtag.Rows: 512},
	)

	for _, tc := range []struct {
		name string
		got  float64
		want float64
	}{
		{"present float", img.GetFloat(dicomtag.RescaleSlope, 1), 2},
		{"absent float", img.GetFloat(dicomtag.RescaleIntercept, -1024), -1024},
		{"present int", float64(img.GetInt(dicomtag.Rows, 0)), 512},
		{"absent int", float64(img.GetInt(dicomtag.Columns, 7)), 7},
	} {
		if tc.got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestGray(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{0, 127, 255, 10, 20, 30})

	img := Gray(m)

	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("image bounds: got %dx%d, want 3x2", b.Dx(), b.Dy())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got, want := img.GrayAt(x, y).Y, uint8(m.At(y, x)); got != want {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestFromReaderRejectsGarbage(t *testing.T) {
	if _, err := FromReader(bytes.NewReader([]byte("definitely not a dicom file"))); err == nil {
		t.Fatal("expected an error parsing garbage bytes")
	}
}

func TestOpenLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.dcm")
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	rc, err := Open(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(rc); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "payload" {
		t.Fatalf("read %q, want %q", buf.String(), "payload")
	}
}

func TestOpenGoogleStorageErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		path string
	}{
		{"no client", "gs://bucket/object.dcm"},
		{"no object part", "gs://bucket-only"},
	} {
		if _, err := Open(context.Background(), tc.path, nil); err == nil {
			t.Fatalf("%s: expected an error for %q", tc.name, tc.path)
		} else if !strings.Contains(err.Error(), "dicomimage") {
			t.Fatalf("%s: unexpected error text: %v", tc.name, err)
		}
	}
}
