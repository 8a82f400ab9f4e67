package models

import "time"

// BlacklistEntry marks a user as unable to open tickets or leave vouches in a guild.
type BlacklistEntry struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
	AddedBy   string    `json:"added_by,omitempty"` // ID del staff que lo bloqueó
}

// BlacklistPartition is keyed by user ID. Last write wins.
type BlacklistPartition map[string]BlacklistEntry
