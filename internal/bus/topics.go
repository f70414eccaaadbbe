package bus

// Topic namespace shared with the Claude Code hook scripts. These literals
// are the wire contract: the hub subscribes to TopicSubscribeAll and the
// hooks publish to the concrete topics below.
const (
	// TopicSubscribeAll matches every topic under the claude-code namespace.
	TopicSubscribeAll = "claude-code/#"

	// TopicStop is published when a Claude Code task finishes.
	TopicStop = "claude-code/events/stop"

	// TopicPermissionRequest is published when a tool needs approval or
	// Claude asks the user a question.
	TopicPermissionRequest = "claude-code/events/permission-request"

	// TopicNotification is published for elicitation dialogs.
	TopicNotification = "claude-code/events/notification"

	// TopicTaskComplete and TopicError carry free-form text bodies.
	TopicTaskComplete = "claude-code/task/complete"
	TopicError        = "claude-code/error"

	// TopicStatus carries informational text. Per-session status updates are
	// published under TopicStatusPrefix followed by the session id.
	TopicStatus       = "claude-code/status"
	TopicStatusPrefix = "claude-code/status/"
)

// StatusTopic returns the per-session status topic for a session id.
func StatusTopic(sessionID string) string {
	return TopicStatusPrefix + sessionID
}
