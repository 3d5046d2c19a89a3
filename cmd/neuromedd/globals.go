package main

type Global struct {
	log logger

	Site      string
	DicomRoot string
}

type logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}
