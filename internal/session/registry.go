package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout is how long a session stays active without a status update.
const DefaultTimeout = 300 * time.Second

// Registry is a concurrent table of session_id -> SessionRecord. It has one
// logical writer (the event consumer) and arbitrary concurrent readers, so
// reads share a RWMutex and return point-in-time copies.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*SessionRecord
	timeout time.Duration

	// now is swapped out by tests to control expiry.
	now func() time.Time
}

// NewRegistry creates an empty registry with the given expiry timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		records: make(map[string]*SessionRecord),
		timeout: timeout,
		now:     time.Now,
	}
}

// Upsert inserts or replaces the record for the payload's session. The
// status fields are replaced wholesale and last_updated is refreshed.
// Payloads without a session_id are ignored.
func (r *Registry) Upsert(p StatusPayload) {
	if p.SessionID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[p.SessionID] = &SessionRecord{
		SessionID:   p.SessionID,
		Cwd:         p.Cwd,
		Status:      p.Status,
		LastUpdated: r.now(),
	}
}

// SweepExpired evicts every record older than the timeout and returns the
// evicted session ids, so callers can release name assignments and other
// per-session state. Cheap enough to run after every update.
func (r *Registry) SweepExpired() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var removed []string
	for id, rec := range r.records {
		if now.Sub(rec.LastUpdated) > r.timeout {
			delete(r.records, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Metrics computes an aggregate snapshot of the live record set. The
// context average only counts sessions that reported context usage.
func (r *Registry) Metrics() AggregatedMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var m AggregatedMetrics
	m.ActiveSessions = len(r.records)

	var contextSum float64
	for _, rec := range r.records {
		if rec.Status.ContextPercent != nil {
			contextSum += *rec.Status.ContextPercent
			m.SessionsWithContext++
		}
		if rec.Status.CostUSD != nil {
			m.TotalCostUSD += *rec.Status.CostUSD
		}
		if rec.Status.LinesAdded != nil {
			m.TotalLinesAdded += *rec.Status.LinesAdded
		}
		if rec.Status.LinesRemoved != nil {
			m.TotalLinesRemoved += *rec.Status.LinesRemoved
		}
	}
	if m.SessionsWithContext > 0 {
		m.AverageContextPercent = contextSum / float64(m.SessionsWithContext)
	}
	return m
}

// Snapshot returns a copy of every record, most recently updated first.
func (r *Registry) Snapshot() []SessionRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SessionRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastUpdated.Equal(out[j].LastUpdated) {
			return out[i].LastUpdated.After(out[j].LastUpdated)
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}

// Tooltip renders a short multi-line summary for the tray icon.
func (r *Registry) Tooltip() string {
	m := r.Metrics()
	if m.ActiveSessions == 0 {
		return "Chime\nNo active sessions"
	}

	return strings.Join([]string{
		"Chime",
		fmt.Sprintf("Sessions: %d", m.ActiveSessions),
		fmt.Sprintf("Cost: $%.2f", m.TotalCostUSD),
		fmt.Sprintf("Context: %.0f%%", m.AverageContextPercent),
	}, "\n")
}
