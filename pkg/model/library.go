package model

import "time"

// LibraryEntry records where a game generation lives on disk.
// InstallPath is either the resolved executable or a content root.
type LibraryEntry struct {
	GameID          string    `json:"game_id"`
	InstallPath     string    `json:"install_path"`
	DetectedVersion string    `json:"detected_version,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}
