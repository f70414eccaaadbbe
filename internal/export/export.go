// Package export generates the Claude Code integration bundle: hook
// scripts that publish events to the bus, an installer, a manifest, and
// a README, packed into a single zip archive.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/grovetools/chime/errors"
	"github.com/grovetools/chime/internal/bus"
)

// Default broker address baked into the scripts when no override is given.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 1883
)

// Options selects the broker address the generated scripts publish to.
type Options struct {
	Host string
	Port int
}

// Manifest is the machine-readable description of the bundle, stored as
// chime-hooks.toml inside the archive.
type Manifest struct {
	Version string         `toml:"version"`
	Broker  ManifestBroker `toml:"broker"`
	Hooks   []ManifestHook `toml:"hooks"`
}

// ManifestBroker records where the scripts publish.
type ManifestBroker struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	URL  string `toml:"url"`
}

// ManifestHook maps one Claude Code hook event to its script and topic.
type ManifestHook struct {
	Event  string `toml:"event"`
	Script string `toml:"script"`
	Topic  string `toml:"topic"`
}

// scriptFiles lists the bundle's shell scripts in archive order.
var scriptFiles = []struct {
	name string
	body string
}{
	{"on-stop.sh", onStopScript},
	{"on-notification.sh", onNotificationScript},
	{"on-permission-request.sh", onPermissionRequestScript},
	{"statusline.sh", statuslineScript},
	{"install.sh", installScript},
}

// Files returns the archive member names in order.
func Files() []string {
	names := make([]string, 0, len(scriptFiles)+3)
	for _, f := range scriptFiles {
		names = append(names, f.name)
	}
	return append(names, "hooks-settings-snippet.json", "chime-hooks.toml", "README.txt")
}

// Bundle renders the zip archive in memory. The same options always
// produce byte-identical output.
func Bundle(opts Options) ([]byte, error) {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	r := strings.NewReplacer("__HOST__", opts.Host, "__PORT__", strconv.Itoa(opts.Port))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range scriptFiles {
		if err := addFile(zw, f.name, r.Replace(f.body), 0755); err != nil {
			return nil, err
		}
	}

	if err := addFile(zw, "hooks-settings-snippet.json", settingsSnippet, 0644); err != nil {
		return nil, err
	}

	manifest, err := renderManifest(opts)
	if err != nil {
		return nil, err
	}
	if err := addFile(zw, "chime-hooks.toml", manifest, 0644); err != nil {
		return nil, err
	}

	if err := addFile(zw, "README.txt", r.Replace(readmeText), 0644); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportFailed, "could not finalize archive")
	}
	return buf.Bytes(), nil
}

// Write renders the bundle and writes it to path.
func Write(path string, opts Options) error {
	data, err := Bundle(opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "could not write archive").
			WithDetail("path", path)
	}
	return nil
}

// DetectLANHost returns the machine's primary non-loopback IPv4 address,
// for bundles aimed at other machines on the network.
func DetectLANHost() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExportFailed, "could not list network interfaces")
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", errors.New(errors.ErrCodeExportFailed, "no non-loopback IPv4 address found")
}

func renderManifest(opts Options) (string, error) {
	m := Manifest{
		Version: "1",
		Broker: ManifestBroker{
			Host: opts.Host,
			Port: opts.Port,
			URL:  fmt.Sprintf("tcp://%s:%d", opts.Host, opts.Port),
		},
		Hooks: []ManifestHook{
			{Event: "Stop", Script: "on-stop.sh", Topic: bus.TopicStop},
			{Event: "Notification", Script: "on-notification.sh", Topic: bus.TopicNotification},
			{Event: "Notification", Script: "on-permission-request.sh", Topic: bus.TopicPermissionRequest},
			{Event: "StatusLine", Script: "statusline.sh", Topic: bus.TopicStatusPrefix + "<session_id>"},
		},
	}

	data, err := toml.Marshal(m)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExportFailed, "could not render manifest")
	}
	return string(data), nil
}

func addFile(zw *zip.Writer, name, body string, mode os.FileMode) error {
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
	hdr.SetMode(mode)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, fmt.Sprintf("could not add %s to archive", name))
	}
	if _, err := io.WriteString(w, body); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, fmt.Sprintf("could not write %s", name))
	}
	return nil
}
