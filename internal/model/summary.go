package model

import (
	"sort"
	"sync"
	"time"
)

// RunStatus is the final state of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunComplete  RunStatus = "complete"
	RunPartial   RunStatus = "partial"
	RunCancelled RunStatus = "cancelled"
)

// StageSummary tallies the outcomes of one stage.
type StageSummary struct {
	Stage  Stage           `json:"stage"`
	Counts map[Outcome]int `json:"counts"`
	// Error is set when the stage itself failed, e.g. its input directory
	// could not be read.
	Error string `json:"error,omitempty"`
}

// Total returns the number of files the stage touched.
func (s *StageSummary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Outcomes returns the recorded outcomes in a stable order.
func (s *StageSummary) Outcomes() []Outcome {
	out := make([]Outcome, 0, len(s.Counts))
	for o := range s.Counts {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RunSummary aggregates every event of a run. It is safe for concurrent use.
type RunSummary struct {
	RunID      string          `json:"run_id"`
	Input      string          `json:"input"`
	Output     string          `json:"output"`
	Quarantine string          `json:"quarantine"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Status     RunStatus       `json:"status"`
	Stages     []*StageSummary `json:"stages"`

	// Quarantined and Deleted list the files moved or removed by the run.
	Quarantined []string `json:"quarantined,omitempty"`
	Deleted     []string `json:"deleted,omitempty"`
	// WouldDelete lists the files a dry-run reconcile left in place.
	WouldDelete []string `json:"would_delete,omitempty"`
	// Stale lists output images whose input pair was reconciled away.
	Stale []string `json:"stale,omitempty"`
	// Failed lists files a stage skipped, as "stage: file".
	Failed []string `json:"failed,omitempty"`

	mu sync.Mutex
}

// NewRunSummary starts a summary for the run id.
func NewRunSummary(runID, input, output, quarantine string) *RunSummary {
	return &RunSummary{
		RunID:      runID,
		Input:      input,
		Output:     output,
		Quarantine: quarantine,
		StartedAt:  time.Now(),
		Status:     RunRunning,
	}
}

// Add folds ev into the summary.
func (s *RunSummary) Add(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stageLocked(ev.Stage)
	st.Counts[ev.Outcome]++

	switch {
	case ev.Outcome == OutcomeQuarantined:
		s.Quarantined = append(s.Quarantined, ev.File)
	case ev.Outcome == OutcomeDeleted:
		s.Deleted = append(s.Deleted, ev.File)
	case ev.Outcome == OutcomeWouldDelete:
		s.WouldDelete = append(s.WouldDelete, ev.File)
	case ev.Outcome == OutcomeStale:
		s.Stale = append(s.Stale, ev.File)
	case ev.Outcome.Failed():
		s.Failed = append(s.Failed, string(ev.Stage)+": "+ev.File)
	}
}

// BeginStage registers stage so that it is listed even if it sees no files.
func (s *RunSummary) BeginStage(stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageLocked(stage)
}

// FailStage records a stage-level error and marks the run partial.
func (s *RunSummary) FailStage(stage Stage, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageLocked(stage).Error = err.Error()
	s.Status = RunPartial
}

// Finish stamps the end time. A running status becomes complete; partial
// and cancelled are kept.
func (s *RunSummary) Finish(status RunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.FinishedAt = time.Now()
	if status == RunComplete && s.Status == RunPartial {
		return
	}
	s.Status = status
}

// Stage returns the summary of stage, or nil if it never ran.
func (s *RunSummary) Stage(stage Stage) *StageSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.Stages {
		if st.Stage == stage {
			return st
		}
	}
	return nil
}

// Count returns how many events of stage had outcome o.
func (s *RunSummary) Count(stage Stage, o Outcome) int {
	st := s.Stage(stage)
	if st == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return st.Counts[o]
}

// Duration is the wall time of the run, up to now if it has not finished.
func (s *RunSummary) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *RunSummary) stageLocked(stage Stage) *StageSummary {
	for _, st := range s.Stages {
		if st.Stage == stage {
			return st
		}
	}
	st := &StageSummary{Stage: stage, Counts: make(map[Outcome]int)}
	s.Stages = append(s.Stages, st)
	return st
}
