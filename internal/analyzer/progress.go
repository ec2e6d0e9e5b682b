package analyzer

import "time"

// ProgressPhase names the batch stage being reported
type ProgressPhase string

const (
	PhaseReading     ProgressPhase = "reading"
	PhaseClassifying ProgressPhase = "classifying"
	PhaseSaving      ProgressPhase = "saving"
)

// Progress is a batch progress update
type Progress struct {
	Phase       ProgressPhase
	Current     int    // documents finished so far
	Total       int    // documents in the batch
	Description string // name of the document that just finished
	StartedAt   time.Time
}

// ProgressCallback receives progress updates. Calls are serialized.
type ProgressCallback func(Progress)

// ETA estimates the remaining time from the rate so far
func (p Progress) ETA() time.Duration {
	if p.Current == 0 || p.Total == 0 || p.StartedAt.IsZero() {
		return 0
	}
	perDoc := time.Since(p.StartedAt) / time.Duration(p.Current)
	return perDoc * time.Duration(p.Total-p.Current)
}

// Percentage returns completion in the 0-100 range
func (p Progress) Percentage() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Current * 100) / p.Total
}
