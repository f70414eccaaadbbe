package router

import (
	"encoding/json"

	"github.com/grovetools/chime/errors"
)

// Wire payloads published by the Claude Code hook scripts. Content fields are
// pointers so a present-but-empty string stays distinguishable from an absent
// one during fallback resolution; tool_input keeps its raw bytes because its
// shape varies per tool.

// StopEvent is the payload of claude-code/events/stop.
type StopEvent struct {
	Event     string `json:"event"`
	Cwd       string `json:"cwd"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// PermissionRequest is the payload of claude-code/events/permission-request.
type PermissionRequest struct {
	Event     string             `json:"event"`
	Cwd       string             `json:"cwd"`
	SessionID string             `json:"session_id"`
	Content   *PermissionContent `json:"content"`
	Timestamp string             `json:"timestamp"`
}

// PermissionContent carries the tool details of a permission request. Raw
// holds the original hook input verbatim when the hook script could not
// parse it into the structured fields.
type PermissionContent struct {
	ToolName  *string         `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
	Raw       *string         `json:"raw"`
}

// NotificationEvent is the payload of claude-code/events/notification.
type NotificationEvent struct {
	Event     string               `json:"event"`
	Cwd       string               `json:"cwd"`
	SessionID string               `json:"session_id"`
	Content   *NotificationContent `json:"content"`
	Timestamp string               `json:"timestamp"`
}

// NotificationContent carries the details of an elicitation dialog.
type NotificationContent struct {
	Type     *string `json:"type"`
	Title    *string `json:"title"`
	Message  *string `json:"message"`
	Question *string `json:"question"`
	Raw      *string `json:"raw"`
}

func decodeStopEvent(payload []byte) (*StopEvent, error) {
	var ev StopEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePayloadDecode, "invalid stop event")
	}
	if ev.Event == "" || ev.Cwd == "" {
		return nil, errors.New(errors.ErrCodePayloadDecode, "stop event missing event or cwd")
	}
	return &ev, nil
}

func decodePermissionRequest(payload []byte) (*PermissionRequest, error) {
	var ev PermissionRequest
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePayloadDecode, "invalid permission request")
	}
	if ev.Event == "" || ev.Cwd == "" || ev.Content == nil {
		return nil, errors.New(errors.ErrCodePayloadDecode, "permission request missing event, cwd, or content")
	}
	return &ev, nil
}

func decodeNotificationEvent(payload []byte) (*NotificationEvent, error) {
	var ev NotificationEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePayloadDecode, "invalid notification event")
	}
	if ev.Event == "" || ev.Cwd == "" || ev.Content == nil {
		return nil, errors.New(errors.ErrCodePayloadDecode, "notification event missing event, cwd, or content")
	}
	return &ev, nil
}
