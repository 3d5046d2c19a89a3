// dcmwindow renders a grayscale DICOM with a chosen Hounsfield window
// and saves the result as an image file. With -range it instead prints
// the Hounsfield range of the image. The input may be a local path or
// a Google Storage URL (gs://).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/disintegration/imaging"
	"github.com/neuromed/vision/dicomimage"
	"github.com/neuromed/vision/hounsfield"
	"github.com/suyashkumar/dicom/dicomtag"
)

func main() {
	var dicomPath, outputPath string
	var low, high float64
	var showRange bool
	flag.StringVar(&dicomPath, "dicom", "", "Path to the DICOM file. May be a Google Storage URL (gs://).")
	flag.StringVar(&outputPath, "out", "out.png", "Path where the rendered image will be saved. Format is chosen by extension.")
	flag.Float64Var(&low, "low", 0, "Lower bound of the Hounsfield window.")
	flag.Float64Var(&high, "high", 0, "Upper bound of the Hounsfield window.")
	flag.BoolVar(&showRange, "range", false, "Print the Hounsfield range of the image instead of rendering it.")

	flag.Parse()
	if dicomPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(dicomPath, outputPath, hounsfield.Window{Low: low, High: high}, showRange); err != nil {
		log.Fatalln(err)
	}
}

func run(dicomPath, outputPath string, win hounsfield.Window, showRange bool) error {
	ctx := context.Background()

	var sclient *storage.Client
	if strings.HasPrefix(dicomPath, "gs://") {
		var err error
		sclient, err = storage.NewClient(ctx)
		if err != nil {
			return err
		}
	}

	rc, err := dicomimage.Open(ctx, dicomPath, sclient)
	if err != nil {
		return err
	}
	defer rc.Close()

	img, err := dicomimage.FromReader(rc)
	if err != nil {
		return err
	}

	hu := hounsfield.Rescale(img.FloatPixelData(), hounsfield.ReadCalibration(img))

	if showRange {
		min, max, err := hounsfield.Range(hu)
		if err != nil {
			return err
		}

		fmt.Printf("{\"low\": %g, \"high\": %g}\n", min, max)
		return nil
	}

	display, err := hounsfield.ApplyWindow(hu, win,
		img.GetInt(dicomtag.Rows, 0), img.GetInt(dicomtag.Columns, 0))
	if err != nil {
		return err
	}

	return imaging.Save(dicomimage.Gray(display), outputPath)
}
