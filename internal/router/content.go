package router

import (
	"github.com/tidwall/gjson"
)

const (
	// questionSentinel is the tool name Claude Code uses when it asks the
	// user a question through the permission-request hook.
	questionSentinel = "AskUserQuestion"

	// rawPreviewLimit bounds how much unparseable raw content is shown.
	rawPreviewLimit = 100

	genericApproval = "A tool needs permission"
	genericQuestion = "Waiting for your answer"
	genericInput    = "Waiting for input"
)

// isQuestion reports whether a permission request is actually Claude asking
// the user a question, identified by the sentinel tool name in either the
// structured field or the raw fallback blob.
func isQuestion(content *PermissionContent) bool {
	if content.ToolName != nil && *content.ToolName == questionSentinel {
		return true
	}
	if content.Raw != nil && gjson.Valid(*content.Raw) {
		tool := gjson.Get(*content.Raw, "tool_name")
		return tool.Type == gjson.String && tool.String() == questionSentinel
	}
	return false
}

// questionText extracts the question being asked, first from the structured
// tool input, then from the raw fallback blob. Returns "" when neither holds
// one.
func questionText(content *PermissionContent) string {
	if res := gjson.GetBytes(content.ToolInput, "questions.0.question"); res.Type == gjson.String {
		return res.String()
	}
	if content.Raw != nil && gjson.Valid(*content.Raw) {
		if res := gjson.Get(*content.Raw, "tool_input.questions.0.question"); res.Type == gjson.String {
			return res.String()
		}
	}
	return ""
}

// approvalInfo builds the tool description line of an approval notification.
// Preference order: structured tool_name with its command, structured
// tool_name alone, tool/command fields recovered from the raw blob, then a
// truncated raw preview.
func approvalInfo(content *PermissionContent) string {
	if content.ToolName != nil {
		tool := *content.ToolName
		if cmd := gjson.GetBytes(content.ToolInput, "command"); cmd.Type == gjson.String {
			return tool + ": " + cmd.String()
		}
		return tool + " needs permission"
	}

	if content.Raw != nil {
		raw := *content.Raw
		if gjson.Valid(raw) {
			parsed := gjson.Parse(raw)
			tool := firstString(parsed, "tool_name", "tool")
			command := firstString(parsed, "tool_input.command", "input.command")
			switch {
			case tool != "" && command != "":
				return tool + ": " + command
			case tool != "":
				return tool + " needs permission"
			case command != "":
				return "command: " + command
			default:
				return genericApproval
			}
		}
		return truncate(raw, rawPreviewLimit)
	}

	return genericApproval
}

// notificationText resolves the message line of an elicitation notification:
// structured message, structured title, then message/title/question from the
// raw blob, then a truncated raw preview or the generic phrase.
func notificationText(content *NotificationContent) string {
	if content.Message != nil {
		return *content.Message
	}
	if content.Title != nil {
		return *content.Title
	}
	if content.Raw != nil {
		raw := *content.Raw
		if gjson.Valid(raw) {
			if s := firstString(gjson.Parse(raw), "message", "title", "question"); s != "" {
				return s
			}
			return genericInput
		}
		return truncate(raw, rawPreviewLimit)
	}
	return genericInput
}

// firstString returns the first path that resolves to a JSON string value.
func firstString(v gjson.Result, paths ...string) string {
	for _, path := range paths {
		if res := v.Get(path); res.Type == gjson.String {
			return res.String()
		}
	}
	return ""
}

// truncate caps s at max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
