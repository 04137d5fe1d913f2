// Package dataset handles the file-level side of the corpus: listing line
// images, pairing them with their transcripts by basename, and the
// destructive operations on the directory (reconcile, rename, move).
//
// A training pair is "<name>.tif" plus "<name>.gt.txt" in the same directory.
package dataset
