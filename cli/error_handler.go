package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/chime/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeHubAlreadyRunning:
		if chimeErr, ok := err.(*errors.ChimeError); ok {
			fmt.Fprintf(os.Stderr, "❌ The hub is already running (PID %v)\n", chimeErr.Details["pid"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ The hub is already running\n")
		}
		fmt.Fprintf(os.Stderr, "Use 'chime hub status' to inspect it, or 'chime hub restart' to replace it.\n")
		return err

	case errors.ErrCodeHubNotRunning, errors.ErrCodeHubUnreachable:
		fmt.Fprintf(os.Stderr, "❌ The hub is not running\n")
		fmt.Fprintf(os.Stderr, "Start it with 'chime hub start'.\n")
		return err

	case errors.ErrCodeBrokerStart:
		if chimeErr, ok := err.(*errors.ChimeError); ok {
			fmt.Fprintf(os.Stderr, "❌ Could not start the embedded broker on %v\n", chimeErr.Details["listen"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ Could not start the embedded broker\n")
		}
		fmt.Fprintf(os.Stderr, "Another process may hold the port. Change broker.listen in chime.yml or stop the conflicting service.\n")
		return err

	case errors.ErrCodeBusConnect:
		fmt.Fprintf(os.Stderr, "❌ Could not connect to the event bus\n")
		fmt.Fprintf(os.Stderr, "Check bus.url in chime.yml, or enable the embedded broker with broker.enabled: true.\n")
		return err

	case errors.ErrCodeConfigNotFound:
		if chimeErr, ok := err.(*errors.ChimeError); ok {
			fmt.Fprintf(os.Stderr, "❌ Configuration file not found: %v\n", chimeErr.Details["path"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ Configuration file not found\n")
		}
		fmt.Fprintf(os.Stderr, "Chime runs on built-in defaults without one. Run 'chime config show' to see them.\n")
		return err

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Run 'chime config validate' for the full report.\n")
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		// If verbose mode, show full error details
		if h.Verbose {
			if chimeErr, ok := err.(*errors.ChimeError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", chimeErr.ToJSON())
			}
		}
		return err
	}
}
