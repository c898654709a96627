package model

import "time"

// TaskStatus is the lifecycle state of a DownloadTask.
type TaskStatus string

const (
	TaskCreated   TaskStatus = "created"
	TaskInFlight  TaskStatus = "in-flight"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

// IsFinished reports whether the status is terminal.
func (s TaskStatus) IsFinished() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the task is still running.
func (s TaskStatus) IsActive() bool {
	return s == TaskInFlight
}

// DownloadTask tracks one transfer from SourceURL into DestinationPath.
type DownloadTask struct {
	ID              string     `json:"id"`
	SourceURL       string     `json:"source_url"`
	DestinationPath string     `json:"destination_path"`
	Deadline        time.Time  `json:"deadline"`
	Status          TaskStatus `json:"status"`
	Err             string     `json:"error,omitempty"`
	Bytes           int64      `json:"bytes"`
	StartedAt       time.Time  `json:"started_at,omitempty"`
	FinishedAt      time.Time  `json:"finished_at,omitempty"`
}
