// Package pipeline runs the corpus normalization stages in order.
//
// A Pipeline is a list of Steps executed sequentially against a Run. The
// image steps (crop, normalize, border) read every line image of a source
// directory and write the transformed image under the same name into a
// destination directory; files inside one step are processed concurrently
// with a bounded number of workers. The purity step moves impure images
// into quarantine and the reconcile step deletes unpaired files.
//
// Per-file problems never abort a step. They are recorded as events with a
// failure outcome, folded into the run summary and handed to the Run's
// Recorder, if any. A step only returns an error when it cannot run at all,
// for example because its source directory is missing.
package pipeline
