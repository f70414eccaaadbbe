// Package session tracks active Claude Code sessions reported over the bus.
package session

import "time"

// StatusPayload is the body of a claude-code/status/<session_id> message.
type StatusPayload struct {
	SessionID string       `json:"session_id"`
	Cwd       string       `json:"cwd"`
	Status    StatusFields `json:"status"`
	Timestamp string       `json:"timestamp,omitempty"`
}

// StatusFields carries the per-session counters. Every field is optional
// and independently absent, so the numeric fields are pointers: a session
// that never reported context usage is excluded from averages rather than
// counted as zero.
type StatusFields struct {
	State          string   `json:"state,omitempty"`
	ContextPercent *float64 `json:"context_percent,omitempty"`
	CostUSD        *float64 `json:"cost_usd,omitempty"`
	LinesAdded     *int     `json:"lines_added,omitempty"`
	LinesRemoved   *int     `json:"lines_removed,omitempty"`
}

// SessionRecord is the registry's view of one session. Status is replaced
// wholesale on every update.
type SessionRecord struct {
	SessionID   string
	Cwd         string
	Status      StatusFields
	LastUpdated time.Time
}

// AggregatedMetrics summarizes the live record set. An empty registry
// yields the zero value.
type AggregatedMetrics struct {
	ActiveSessions        int
	TotalCostUSD          float64
	AverageContextPercent float64
	SessionsWithContext   int
	TotalLinesAdded       int
	TotalLinesRemoved     int
}
