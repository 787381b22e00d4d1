package progress

import "sizefit/internal/model"

// Stage identifies a step of a sizing job.
type Stage string

const (
	StageQueued    Stage = "queued"
	StageProbing   Stage = "probing"
	StageSizing    Stage = "sizing"
	StageCompleted Stage = "completed"
	StageError     Stage = "error"
)

// Update conveys stage changes for a job.
type Update struct {
	JobID   string
	Stage   Stage
	Message string // short human-friendly status line
}

// Log is a diagnostic line associated with a job.
type Log struct {
	JobID string
	Line  string
}

// Result is emitted once per job when it completes or fails.
type Result struct {
	JobID   string
	Input   string
	Bitrate model.BitrateResult
	Err     error // nil on success
}

// Reporter is implemented by UI or any observer interested in progress events.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}
