package models

import "time"

// Warning is a single moderation warning. Warnings are append-only per user:
// removing one marks it revoked and keeps it in the history.
type Warning struct {
	ID         string     `json:"id"`
	WarnedByID string     `json:"warned_by_id"`
	Reason     string     `json:"reason"`
	Timestamp  time.Time  `json:"timestamp"`
	Revoked    bool       `json:"revoked,omitempty"`
	RevokedBy  string     `json:"revoked_by,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// WarningsPartition is the per-guild slice of the "warnings" collection, keyed by user ID.
type WarningsPartition map[string][]Warning

// ActiveWarnings returns the warnings that were not revoked, oldest first.
func ActiveWarnings(list []Warning) []Warning {
	out := make([]Warning, 0, len(list))
	for _, w := range list {
		if !w.Revoked {
			out = append(out, w)
		}
	}
	return out
}
