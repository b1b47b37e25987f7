package history

import "time"

// Status is the outcome of a recorded run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one persisted labeling run.
type Run struct {
	ID           string
	Source       string
	Contrast     int
	Mode         string
	K            int
	Threshold    float64
	Status       Status
	ErrorKind    string
	ErrorMessage string
	Rows         int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration is the wall-clock time between start and finish.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failed reports whether the run ended in an error.
func (r Run) Failed() bool {
	return r.Status == StatusFailed
}
