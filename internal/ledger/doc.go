// Package ledger keeps a persistent history of pipeline runs in SQLite.
//
// Every run gets a row in the runs table when it starts and is updated
// when it finishes. Each per-file outcome produced by a stage is appended
// to the events table, so that after the fact one can see which images
// were quarantined or deleted by which run. The database lives in a single
// file, corpusprep.db, inside the ledger directory (by default the XDG
// data directory).
package ledger
