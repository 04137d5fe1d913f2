package model

import "time"

// Stage names a pipeline stage.
type Stage string

const (
	StageCrop      Stage = "crop"
	StageNormalize Stage = "normalize"
	StageBorder    Stage = "border"
	StagePurity    Stage = "purity"
	StageReconcile Stage = "reconcile"
	StageRename    Stage = "rename"
)

// Outcome is what happened to one file in one stage.
type Outcome string

const (
	// OutcomeProcessed means the transform was applied and written.
	OutcomeProcessed Outcome = "processed"
	// OutcomeUncropped means no foreground was found and the image was
	// passed through unchanged.
	OutcomeUncropped Outcome = "uncropped"
	// OutcomeDecodeFailed means the file could not be decoded; it was skipped.
	OutcomeDecodeFailed Outcome = "decode_failed"
	// OutcomeFailed means the transform or the write failed; it was skipped.
	OutcomeFailed Outcome = "failed"
	// OutcomeKept means the image passed the purity check.
	OutcomeKept Outcome = "kept"
	// OutcomeQuarantined means the image was moved to the quarantine directory.
	OutcomeQuarantined Outcome = "quarantined"
	// OutcomeDeleted means an unmatched image or transcript was removed.
	OutcomeDeleted Outcome = "deleted"
	// OutcomeWouldDelete means a dry run found an unmatched file and left it
	// in place.
	OutcomeWouldDelete Outcome = "would_delete"
	// OutcomeStale means an output image lost its input transcript pair
	// to reconciliation. The output file is left alone.
	OutcomeStale Outcome = "stale"
	// OutcomeRenamed means a file received the rename text.
	OutcomeRenamed Outcome = "renamed"
)

// Failed reports whether o marks a file the stage could not handle.
func (o Outcome) Failed() bool {
	return o == OutcomeDecodeFailed || o == OutcomeFailed
}

// Event records the outcome of one file in one stage.
type Event struct {
	Stage   Stage     `json:"stage"`
	File    string    `json:"file"`
	Outcome Outcome   `json:"outcome"`
	Detail  string    `json:"detail,omitempty"`
	Time    time.Time `json:"time"`
}
