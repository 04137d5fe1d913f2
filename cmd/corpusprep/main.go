// Package main provides the entry point for the corpusprep CLI.
//
// corpusprep normalizes scanned text-line images and their .gt.txt
// transcripts into a bi-level OCR training corpus: it crops background
// margins, scales every line to one height, adds a border, quarantines
// images that are not strictly black and white and removes unpaired files.
//
// Usage:
//
//	corpusprep run -i raw/ -o out/ -q quarantine/
//	corpusprep crop raw/ cropped/
//	corpusprep history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
