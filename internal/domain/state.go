package domain

import "time"

// ConsoleState is console-local persisted state (key/value). It holds the
// opaque session token and small cached snapshots, never backend data.
type ConsoleState struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
