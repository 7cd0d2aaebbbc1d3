package pipeline

import (
	"time"
)

// Stage identifiers, in execution order.
const (
	StageLoad      = "load"
	StageDerive    = "derive-applicant-features"
	StageAggregate = "aggregate-supplementary"
	StageJoin      = "join"
	StageEmit      = "emit"
)

// StageStatus represents the current status of a pipeline stage.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
)

// StageState records the runtime state of one stage of a run. The pipeline is
// strictly linear: a failed stage aborts the run and later stages stay pending.
type StageState struct {
	Name      string
	Status    StageStatus
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

// NewStageState creates a pending stage state.
func NewStageState(name string) *StageState {
	return &StageState{Name: name, Status: StageStatusPending}
}

// Start marks the stage active.
func (s *StageState) Start() {
	s.StartTime = time.Now()
	s.Status = StageStatusActive
}

// Complete marks the stage completed.
func (s *StageState) Complete() {
	s.EndTime = time.Now()
	s.Status = StageStatusCompleted
}

// Fail marks the stage failed with the given error.
func (s *StageState) Fail(err error) {
	s.EndTime = time.Now()
	s.Status = StageStatusFailed
	s.Err = err
}

// Duration returns how long the stage ran.
func (s *StageState) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}
