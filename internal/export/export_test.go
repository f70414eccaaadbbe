package export

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBundle(t *testing.T, opts Options) *zip.Reader {
	t.Helper()
	data, err := Bundle(opts)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return zr
}

func member(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(body)
	}
	t.Fatalf("archive has no member %q", name)
	return ""
}

func TestBundleContainsExpectedFiles(t *testing.T) {
	zr := readBundle(t, Options{})

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, Files(), names)
}

func TestScriptsCarryBrokerAddress(t *testing.T) {
	zr := readBundle(t, Options{Host: "192.168.1.50", Port: 2883})

	onStop := member(t, zr, "on-stop.sh")
	assert.Contains(t, onStop, `HOST="${CHIME_HOST:-192.168.1.50}"`)
	assert.Contains(t, onStop, `PORT="${CHIME_PORT:-2883}"`)
	assert.Contains(t, onStop, "claude-code/events/stop")
	assert.NotContains(t, onStop, "__HOST__")

	readme := member(t, zr, "README.txt")
	assert.Contains(t, readme, "tcp://192.168.1.50:2883")
}

func TestScriptsAreExecutable(t *testing.T) {
	zr := readBundle(t, Options{})

	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".sh") {
			continue
		}
		assert.NotZerof(t, f.Mode()&0111, "%s should be executable", f.Name)
	}
}

func TestManifestRoundTrips(t *testing.T) {
	zr := readBundle(t, Options{Host: "10.0.0.2", Port: 1883})

	var m Manifest
	require.NoError(t, toml.Unmarshal([]byte(member(t, zr, "chime-hooks.toml")), &m))

	assert.Equal(t, "10.0.0.2", m.Broker.Host)
	assert.Equal(t, "tcp://10.0.0.2:1883", m.Broker.URL)
	require.Len(t, m.Hooks, 4)
	assert.Equal(t, "Stop", m.Hooks[0].Event)
	assert.Equal(t, "claude-code/events/stop", m.Hooks[0].Topic)

	// Every scripted hook names a file that is actually in the archive.
	for _, h := range m.Hooks {
		member(t, zr, h.Script)
	}
}

func TestBundleIsDeterministic(t *testing.T) {
	opts := Options{Host: "127.0.0.1", Port: 1883}

	first, err := Bundle(opts)
	require.NoError(t, err)
	second, err := Bundle(opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDefaultsFillAbsentOptions(t *testing.T) {
	zr := readBundle(t, Options{})

	install := member(t, zr, "install.sh")
	assert.Contains(t, install, "tcp://127.0.0.1:1883")
}
