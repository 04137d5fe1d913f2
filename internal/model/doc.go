// Package model defines the records produced by a corpus run: per-file
// events, per-stage tallies and the run summary consumed by the ledger and
// the report writers.
package model
