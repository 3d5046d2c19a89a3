package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"cloud.google.com/go/storage"
	"github.com/neuromed/vision/dicomimage"
)

var global *Global

func main() {
	errors := make(chan error, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig,
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGUSR1,
	)

	dicomRoot := flag.String("dicom-path", "", "Root path under which the DICOM files sit. May be a Google Storage URL (gs://).")
	port := flag.Int("port", 9019, "Port for HTTP server")
	flag.Parse()

	if *dicomRoot == "" {
		flag.PrintDefaults()
		return
	}

	// Only dial Google Storage when the root actually lives there.
	var sclient *storage.Client
	if strings.HasPrefix(*dicomRoot, "gs://") {
		var err error
		sclient, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
	}

	global = &Global{
		Site:      "NeuroMed Vision",
		log:       log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime),
		DicomRoot: *dicomRoot,
	}

	h := handler{
		Global: global,
		source: dicomSource{root: *dicomRoot, client: sclient},
		sink:   dicomimage.PNGSink{},
	}

	global.log.Println("Launching", global.Site)
	global.log.Println("Serving DICOM files from", global.DicomRoot)

	go func() {
		global.log.Println("Starting HTTP server on port", *port)
		if err := http.ListenAndServe(fmt.Sprintf(`:%d`, *port), router(h)); err != nil {
			errors <- err
			global.log.Println(err)
			sig <- syscall.SIGTERM
			return
		}
	}()

Outer:
	for {
		select {
		case sigl := <-sig:

			if sigl == syscall.SIGUSR1 {
				SigStatus()
				continue
			}

			// By default, exit
			global.log.Printf("\nExit: %s\n", sigl.String())

			break Outer

		case err := <-errors:
			if err == nil {
				global.log.Println("Finished")
				break Outer
			}

			// Return a status code indicating failure
			global.log.Println("Exiting due to error", err)
			os.Exit(1)
		}
	}
}

func SigStatus() {
	global.log.Println("There are", runtime.NumGoroutine(), "goroutines running")
}
