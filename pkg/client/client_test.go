package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/chime/errors"
	"github.com/grovetools/chime/pkg/api"
)

// startStubHub serves the given mux on a fresh unix socket and returns
// the socket path. The directory is created outside t.TempDir to keep
// the path short enough for a unix socket address.
func startStubHub(t *testing.T, mux *http.ServeMux) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "chime")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	socketPath := filepath.Join(dir, "hub.sock")
	ln, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	return socketPath
}

func TestStatusOverUnixSocket(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.StatusResponse{Version: "1.2.3", PID: 42, Unread: 7})
	})

	c := New(startStubHub(t, mux))
	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, 42, status.PID)
	assert.Equal(t, 7, status.Unread)
}

func TestIsRunning(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok"})
	})

	c := New(startStubHub(t, mux))
	assert.True(t, c.IsRunning())

	gone := New(filepath.Join(t.TempDir(), "absent.sock"))
	assert.False(t, gone.IsRunning())
}

func TestUnreachableHubCarriesErrorCode(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "absent.sock"))

	_, err := c.Status(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeHubUnreachable))
}

func TestHistoryBuildsQueryParameters(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.HistoryResponse{Unread: 1})
	})

	c := New(startStubHub(t, mux))
	_, err := c.History(context.Background(), 25, true)
	require.NoError(t, err)
	assert.Equal(t, "limit=25&unread=true", gotQuery)

	_, err = c.History(context.Background(), 0, false)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestMarkReadSendsOptionalID(t *testing.T) {
	var gotBody []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/api/history/read", func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"unread": 3})
	})

	c := New(startStubHub(t, mux))

	unread, err := c.MarkRead(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, 3, unread)
	assert.JSONEq(t, `{"id":"abc-123"}`, string(gotBody))

	_, err = c.MarkRead(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, gotBody)
}

func TestPutSettingsSurfacesValidationError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "notifications.sound_volume 2.00 is outside 0.0..1.0", http.StatusBadRequest)
	})

	c := New(startStubHub(t, mux))
	_, err := c.PutSettings(context.Background(), api.Settings{SoundVolume: 2.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sound_volume")
	assert.Contains(t, err.Error(), "400")
}

func TestEventsStreamParsesFrames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, ": connected\n\n")

		unread := 2
		data, _ := json.Marshal(api.StreamEvent{Type: api.EventUnread, Unread: &unread})
		fmt.Fprintf(w, "data: %s\n\n", data)

		// A malformed frame must be skipped, not kill the stream.
		fmt.Fprintf(w, "data: not-json\n\n")

		data, _ = json.Marshal(api.StreamEvent{Type: api.EventConfigReload, ConfigFile: "/tmp/chime.yml"})
		fmt.Fprintf(w, "data: %s\n\n", data)
	})

	c := New(startStubHub(t, mux))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch, err := c.Events(ctx)
	require.NoError(t, err)

	ev, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, api.EventUnread, ev.Type)
	require.NotNil(t, ev.Unread)
	assert.Equal(t, 2, *ev.Unread)

	ev, ok = <-ch
	require.True(t, ok)
	assert.Equal(t, api.EventConfigReload, ev.Type)
	assert.Equal(t, "/tmp/chime.yml", ev.ConfigFile)

	// Handler returned, so the stream ends and the channel closes.
	_, ok = <-ch
	assert.False(t, ok)
}
