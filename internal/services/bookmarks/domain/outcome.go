package domain

import "time"

// Status is the lifecycle state of one record id in the state store
type Status string

// Status values
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is final for automatic processing
// failed records require an explicit operator reset before they run again
func (s Status) Terminal() bool { return s == StatusDone || s == StatusFailed }

// Outcome is the persisted processing result for one record id
type Outcome struct {
	Status    Status    `json:"status"`
	Attempts  int       `json:"attempts,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	OutputRef string    `json:"output_ref,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunSummary is the per run report emitted after a batch drains
type RunSummary struct {
	Processed  int              `json:"processed"`
	Failed     int              `json:"failed"`
	Skipped    int              `json:"skipped"`
	ByCategory map[Category]int `json:"by_category,omitempty"`
	Started    time.Time        `json:"started"`
	Finished   time.Time        `json:"finished"`
}
