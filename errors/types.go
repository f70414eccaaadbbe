package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Hub lifecycle errors
	ErrCodeHubAlreadyRunning ErrorCode = "HUB_ALREADY_RUNNING"
	ErrCodeHubNotRunning     ErrorCode = "HUB_NOT_RUNNING"
	ErrCodeHubUnreachable    ErrorCode = "HUB_UNREACHABLE"

	// Bus and broker errors
	ErrCodeBrokerStart ErrorCode = "BROKER_START"
	ErrCodeBusConnect  ErrorCode = "BUS_CONNECT"
	ErrCodeBusPublish  ErrorCode = "BUS_PUBLISH"

	// Event processing errors
	ErrCodePayloadDecode   ErrorCode = "PAYLOAD_DECODE"
	ErrCodeChannelDelivery ErrorCode = "CHANNEL_DELIVERY"

	// Storage errors
	ErrCodeHistoryStore ErrorCode = "HISTORY_STORE"

	// General errors
	ErrCodeExportFailed     ErrorCode = "EXPORT_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// ChimeError represents a structured error with context
type ChimeError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *ChimeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ChimeError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *ChimeError) WithDetail(key string, value interface{}) *ChimeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *ChimeError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new ChimeError
func New(code ErrorCode, message string) *ChimeError {
	return &ChimeError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a ChimeError
func Wrap(err error, code ErrorCode, message string) *ChimeError {
	return &ChimeError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific ChimeError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	chimeErr, ok := err.(*ChimeError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return chimeErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	chimeErr, ok := err.(*ChimeError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return chimeErr.Code
}
