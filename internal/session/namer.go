package session

import (
	"fmt"
	"path/filepath"
	"sync"
	"unicode/utf8"
)

const (
	// maxLabelLen is the longest project label shown in a session name.
	maxLabelLen = 30
	labelTail   = "..."
)

// Namer assigns a stable display name to each session: the project label
// (final path component of the working directory, truncated) plus a 1-based
// ordinal within that project. A name never changes for the lifetime of its
// session_id.
type Namer struct {
	mu      sync.Mutex
	names   map[string]string
	buckets map[string][]string
}

// NewNamer creates an empty Namer.
func NewNamer() *Namer {
	return &Namer{
		names:   make(map[string]string),
		buckets: make(map[string][]string),
	}
}

// NameFor returns the display name for a session, allocating one on first
// sight. Later calls are pure lookups and ignore cwd.
func (n *Namer) NameFor(sessionID, cwd string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	if name, ok := n.names[sessionID]; ok {
		return name
	}

	label := projectLabel(cwd)
	n.buckets[label] = append(n.buckets[label], sessionID)
	name := fmt.Sprintf("%s (%d)", label, len(n.buckets[label]))
	n.names[sessionID] = name
	return name
}

// Remove forgets a session's name. Remaining sessions in the same project
// bucket are not renumbered; a session added afterwards takes the next
// position in the shrunken bucket, so two live sessions can end up sharing
// an ordinal.
func (n *Namer) Remove(sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.names[sessionID]; !ok {
		return
	}
	delete(n.names, sessionID)

	for label, ids := range n.buckets {
		for i, id := range ids {
			if id != sessionID {
				continue
			}
			ids = append(ids[:i], ids[i+1:]...)
			if len(ids) == 0 {
				delete(n.buckets, label)
			} else {
				n.buckets[label] = ids
			}
			return
		}
	}
}

// projectLabel derives the naming bucket from a working directory: the
// final path component, truncated to maxLabelLen with a trailing ellipsis.
func projectLabel(cwd string) string {
	label := cwd
	if cwd != "" {
		label = filepath.Base(cwd)
	}
	if utf8.RuneCountInString(label) > maxLabelLen {
		runes := []rune(label)
		label = string(runes[:maxLabelLen-len(labelTail)]) + labelTail
	}
	return label
}
