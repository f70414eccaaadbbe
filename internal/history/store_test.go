package history

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/chime/pkg/api"
)

func openTestStore(t *testing.T, limit int) (*Store, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CHIME_HOME", home)
	path := filepath.Join(home, "data", "history.db")
	store, err := Open(path, limit)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func record(t *testing.T, store *Store, title string) api.HistoryEntry {
	t.Helper()
	entry, err := store.Record(api.Notification{
		Kind:      api.KindTaskComplete,
		Title:     title,
		Body:      "✅ Task completed\n📁 app",
		SessionID: "sess-1",
		Cwd:       "/home/u/app",
	})
	require.NoError(t, err)
	return entry
}

func TestRecordAndListNewestFirst(t *testing.T) {
	store, _ := openTestStore(t, 10)

	record(t, store, "first")
	record(t, store, "second")
	record(t, store, "third")

	entries, err := store.List(0, false)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Title)
	assert.Equal(t, "second", entries[1].Title)
	assert.Equal(t, "first", entries[2].Title)

	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Read)
	assert.Equal(t, api.KindTaskComplete, entries[0].Kind)
	assert.Equal(t, "sess-1", entries[0].SessionID)
	assert.Equal(t, "/home/u/app", entries[0].Cwd)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestListHonorsRequestedLimit(t *testing.T) {
	store, _ := openTestStore(t, 10)
	for i := 0; i < 5; i++ {
		record(t, store, fmt.Sprintf("entry %d", i))
	}

	entries, err := store.List(2, false)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry 4", entries[0].Title)
}

func TestRecordEvictsOldestBeyondLimit(t *testing.T) {
	store, _ := openTestStore(t, 3)

	oldest := record(t, store, "oldest")
	for i := 0; i < 3; i++ {
		record(t, store, fmt.Sprintf("newer %d", i))
	}

	entries, err := store.List(0, false)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.NotEqual(t, oldest.ID, e.ID)
	}
	assert.Equal(t, "newer 2", entries[0].Title)
}

func TestUnreadLifecycle(t *testing.T) {
	store, _ := openTestStore(t, 10)

	a := record(t, store, "a")
	record(t, store, "b")
	record(t, store, "c")

	count, err := store.UnreadCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, store.MarkRead(a.ID))
	count, err = store.UnreadCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	unread, err := store.List(0, true)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	for _, e := range unread {
		assert.NotEqual(t, a.ID, e.ID)
	}

	require.NoError(t, store.MarkAllRead())
	count, err = store.UnreadCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	unread, err = store.List(0, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkReadUnknownIDIsNoOp(t *testing.T) {
	store, _ := openTestStore(t, 10)
	record(t, store, "only")

	require.NoError(t, store.MarkRead("no-such-id"))

	count, err := store.UnreadCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClearEmptiesHistory(t *testing.T) {
	store, _ := openTestStore(t, 10)
	record(t, store, "a")
	record(t, store, "b")

	require.NoError(t, store.Clear())

	entries, err := store.List(0, false)
	require.NoError(t, err)
	assert.Empty(t, entries)

	count, err := store.UnreadCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHistorySurvivesReopen(t *testing.T) {
	store, path := openTestStore(t, 10)
	entry := record(t, store, "persisted")
	require.NoError(t, store.Close())

	reopened, err := Open(path, 10)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.List(0, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, "persisted", entries[0].Title)
}
