package cmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf16"

	"github.com/spf13/cobra"

	"github.com/grovetools/chime/cli"
	"github.com/grovetools/chime/internal/bus"
)

// NewPublishCmd creates the `publish` command.
func NewPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <topic> [payload]",
		Short: "Publish a message to the event bus",
		Long: `Publishes a single message and waits for the delivery handshake.
This is what the exported hook scripts call; the payload can come from
an argument, a file, or stdin.

Examples:
  # Payload as an argument
  chime publish claude-code/events/stop '{"event":"stop"}'

  # Payload from stdin
  echo '{"event":"stop"}' | chime publish claude-code/events/stop -

  # Against a remote broker
  chime publish --url tcp://192.168.1.50:1883 claude-code/task/complete '{}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runPublish,
	}

	cmd.Flags().String("url", "", "Broker URL, e.g. tcp://127.0.0.1:1883 (default: bus.url from chime.yml)")
	cmd.Flags().StringP("file", "f", "", "Read the payload from a file")
	cmd.Flags().Uint8("qos", 0, "MQTT quality of service (0 or 1)")
	cmd.Flags().BoolP("retain", "r", false, "Retain the message on the broker")
	cmd.Flags().Duration("timeout", 5*time.Second, "Connect and delivery timeout")

	return cmd
}

func runPublish(cmd *cobra.Command, args []string) error {
	topic := args[0]

	payload, err := readPayload(cmd, args)
	if err != nil {
		return err
	}

	qos, _ := cmd.Flags().GetUint8("qos")
	if qos > 1 {
		return fmt.Errorf("qos must be 0 or 1")
	}

	url, _ := cmd.Flags().GetString("url")
	if url == "" {
		cfg, err := cli.ResolveConfig(cli.GetOptions(cmd))
		if err != nil {
			return err
		}
		url = cfg.Bus.URL
	}

	retain, _ := cmd.Flags().GetBool("retain")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	return bus.Publish(bus.PublishOptions{
		URL:     url,
		Topic:   topic,
		Payload: payload,
		QoS:     qos,
		Retain:  retain,
		Timeout: timeout,
	})
}

// readPayload resolves the message body from the argument, --file, or
// stdin when the argument is "-".
func readPayload(cmd *cobra.Command, args []string) ([]byte, error) {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		return normalizePayload(data), nil
	}

	if len(args) < 2 {
		return nil, fmt.Errorf("payload required: pass it as an argument, via --file, or as '-' for stdin")
	}

	if args[1] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return normalizePayload(data), nil
	}

	return []byte(args[1]), nil
}

// normalizePayload strips a byte order mark and trailing whitespace.
// PowerShell pipes prepend a UTF-8 BOM, and redirected PowerShell
// output arrives as UTF-16 LE; both would corrupt the JSON payload.
func normalizePayload(data []byte) []byte {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		data = data[3:]
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		rest := data[2:]
		u16 := make([]uint16, 0, len(rest)/2)
		for i := 0; i+1 < len(rest); i += 2 {
			u16 = append(u16, binary.LittleEndian.Uint16(rest[i:]))
		}
		data = []byte(string(utf16.Decode(u16)))
	}
	return bytes.TrimRight(data, " \t\r\n")
}
