package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/gorilla/mux"
	"github.com/neuromed/vision/dicomimage"
	"github.com/neuromed/vision/hounsfield"
	"github.com/suyashkumar/dicom/dicomtag"
	"gonum.org/v1/gonum/mat"
)

// imageSource resolves an image name from the request path to a parsed
// DICOM. Pulled out as an interface so handlers can be exercised
// without DICOM files on disk.
type imageSource interface {
	Image(ctx context.Context, name string) (*dicomimage.Image, error)
}

// imageSink delivers a finished display matrix to the client.
type imageSink interface {
	Send(w http.ResponseWriter, m *mat.Dense) error
}

type handler struct {
	*Global

	source imageSource
	sink   imageSink
}

type rangeResponse struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Pointer fields so that an absent key is distinguishable from 0.
type windowRequest struct {
	Low  *float64 `json:"low"`
	High *float64 `json:"high"`
}

// HounsfieldRange reports the minimum and maximum Hounsfield value in
// the image as {"low": ..., "high": ...}.
func (h *handler) HounsfieldRange(w http.ResponseWriter, r *http.Request) {
	img, err := h.source.Image(r.Context(), mux.Vars(r)["image"])
	if err != nil {
		h.log.Println(err)
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}

	hu := hounsfield.Rescale(img.FloatPixelData(), hounsfield.ReadCalibration(img))

	low, high, err := hounsfield.Range(hu)
	if err != nil {
		h.log.Println(err)
		http.Error(w, "image has no pixel data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rangeResponse{Low: low, High: high}); err != nil {
		h.log.Println(err)
	}
}

// Windowing renders the image with the Hounsfield window named in the
// JSON request body. A body without numeric low and high fields is a
// client error and triggers no pixel computation; a window with
// high <= low renders as an all-black image.
func (h *handler) Windowing(w http.ResponseWriter, r *http.Request) {
	var req windowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Low == nil || req.High == nil {
		http.Error(w, "request body must be a JSON object with numeric low and high fields", http.StatusBadRequest)
		return
	}

	img, err := h.source.Image(r.Context(), mux.Vars(r)["image"])
	if err != nil {
		h.log.Println(err)
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}

	rows := img.GetInt(dicomtag.Rows, 0)
	cols := img.GetInt(dicomtag.Columns, 0)
	win := hounsfield.Window{Low: *req.Low, High: *req.High}

	if !win.Valid() {
		// The black rendering is sized from the declared dimensions and
		// never touches the pixel data.
		black, err := hounsfield.ApplyWindow(new(mat.Dense), win, rows, cols)
		if err != nil {
			h.log.Println(err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if err := h.sink.Send(w, black); err != nil {
			h.log.Println(err)
		}
		return
	}

	hu := hounsfield.Rescale(img.FloatPixelData(), hounsfield.ReadCalibration(img))

	display, err := hounsfield.ApplyWindow(hu, win, rows, cols)
	if err != nil {
		h.log.Println(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.sink.Send(w, display); err != nil {
		h.log.Println(err)
	}
}

func (h *handler) Goroutines(w http.ResponseWriter, r *http.Request) {
	goroutines := fmt.Sprintf("%d goroutines are currently active\n", runtime.NumGoroutine())

	w.Write([]byte(goroutines))
}

// dicomSource resolves image names against a root directory, which may
// be local or a gs:// prefix. Each request re-reads and re-parses its
// image; nothing is cached across requests.
type dicomSource struct {
	root   string
	client *storage.Client
}

func (s dicomSource) Image(ctx context.Context, name string) (*dicomimage.Image, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("invalid image name %q", name)
	}

	full := filepath.Join(s.root, name)
	if strings.HasPrefix(s.root, "gs://") {
		full = s.root + "/" + name
	}

	rc, err := dicomimage.Open(ctx, full, s.client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return dicomimage.FromReader(rc)
}
