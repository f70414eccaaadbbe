// Package router dispatches inbound bus messages by topic: lifecycle events
// become desktop notifications and per-session status updates feed the
// session registry. All dispatch runs on the single consumer goroutine;
// malformed payloads degrade to a raw-text fallback notification and are
// never surfaced as errors.
package router

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grovetools/chime/internal/bus"
	"github.com/grovetools/chime/internal/session"
	"github.com/grovetools/chime/logging"
	"github.com/grovetools/chime/pkg/api"
	"github.com/sirupsen/logrus"
)

// defaultTitle is used when an event carries no session id.
const defaultTitle = "Claude Code"

// Fixed titles for literal topics and for decode-failure fallbacks.
const (
	taskCompleteTitle = "✅ Task complete"
	approvalFallback  = "⚠️ Approval request"
	notificationTitle = "💬 Notification"
	errorNotifyTitle  = "❌ Error"
)

// Notifier receives every composed notification for delivery and recording.
type Notifier interface {
	Notify(n api.Notification)
}

// Options configures a Router. Nil registry and namer are replaced with
// fresh instances; a nil notifier drops notifications.
type Options struct {
	Registry *session.Registry
	Namer    *session.Namer
	Notifier Notifier

	// Muted reports whether notifications for a working directory are
	// suppressed. Muted sessions still update registry and naming state.
	Muted func(cwd string) bool

	// OnSessionsChanged runs after a status update changed the registry,
	// so the tray tooltip and event stream can refresh.
	OnSessionsChanged func()
}

// Router turns (topic, payload) pairs into notifications and state updates.
type Router struct {
	registry          *session.Registry
	namer             *session.Namer
	notifier          Notifier
	muted             func(string) bool
	onSessionsChanged func()
	log               *logrus.Entry
}

// New creates a Router.
func New(opts Options) *Router {
	r := &Router{
		registry:          opts.Registry,
		namer:             opts.Namer,
		notifier:          opts.Notifier,
		muted:             opts.Muted,
		onSessionsChanged: opts.OnSessionsChanged,
		log:               logging.NewLogger("router"),
	}
	if r.registry == nil {
		r.registry = session.NewRegistry(0)
	}
	if r.namer == nil {
		r.namer = session.NewNamer()
	}
	return r
}

// Consume dispatches one inbound message. Exact topic literals match first,
// then the per-session status prefix; anything else is logged and dropped.
func (r *Router) Consume(topic string, payload []byte) {
	text := string(payload)

	switch topic {
	case bus.TopicStop:
		r.handleStop(text)
	case bus.TopicPermissionRequest:
		r.handlePermissionRequest(text)
	case bus.TopicNotification:
		r.handleNotificationEvent(text)
	case bus.TopicTaskComplete:
		r.log.Infof("Task completed: %s", text)
		r.publish(api.Notification{Kind: api.KindTaskComplete, Title: taskCompleteTitle, Body: text})
	case bus.TopicError:
		r.log.Warnf("Error notification: %s", text)
		r.publish(api.Notification{Kind: api.KindError, Title: errorNotifyTitle, Body: text})
	case bus.TopicStatus:
		// Informational only, no notification.
		r.log.Debugf("Status update: %s", text)
	default:
		if strings.HasPrefix(topic, bus.TopicStatusPrefix) {
			r.handleSessionStatus(topic, text)
			return
		}
		r.log.WithField("topic", topic).Debug("Ignoring message on unknown topic")
	}
}

func (r *Router) handleStop(text string) {
	ev, err := decodeStopEvent([]byte(text))
	if err != nil {
		r.log.WithError(err).Warn("Failed to decode stop event")
		r.publish(api.Notification{Kind: api.KindRaw, Title: taskCompleteTitle, Body: text})
		return
	}

	r.log.Debugf("Stop event received for %s", ev.Cwd)
	r.publish(api.Notification{
		Kind:      api.KindTaskComplete,
		Title:     r.displayName(ev.SessionID, ev.Cwd),
		Body:      fmt.Sprintf("✅ Task completed\n📁 %s", projectName(ev.Cwd)),
		SessionID: ev.SessionID,
		Cwd:       ev.Cwd,
	})
}

func (r *Router) handlePermissionRequest(text string) {
	ev, err := decodePermissionRequest([]byte(text))
	if err != nil {
		r.log.WithError(err).Warn("Failed to decode permission request")
		r.publish(api.Notification{Kind: api.KindRaw, Title: approvalFallback, Body: text})
		return
	}

	project := projectName(ev.Cwd)
	title := r.displayName(ev.SessionID, ev.Cwd)

	if isQuestion(ev.Content) {
		question := questionText(ev.Content)
		if question == "" {
			question = genericQuestion
		}
		r.publish(api.Notification{
			Kind:      api.KindQuestion,
			Title:     title,
			Body:      fmt.Sprintf("❓ Question\n%s\n📁 %s", question, project),
			SessionID: ev.SessionID,
			Cwd:       ev.Cwd,
		})
		return
	}

	r.publish(api.Notification{
		Kind:      api.KindApproval,
		Title:     title,
		Body:      fmt.Sprintf("⚠️ Approval needed\n%s\n📁 %s", approvalInfo(ev.Content), project),
		SessionID: ev.SessionID,
		Cwd:       ev.Cwd,
	})
}

func (r *Router) handleNotificationEvent(text string) {
	ev, err := decodeNotificationEvent([]byte(text))
	if err != nil {
		r.log.WithError(err).Warn("Failed to decode notification event")
		r.publish(api.Notification{Kind: api.KindRaw, Title: notificationTitle, Body: text})
		return
	}

	r.publish(api.Notification{
		Kind:      api.KindNotification,
		Title:     r.displayName(ev.SessionID, ev.Cwd),
		Body:      fmt.Sprintf("💬 Input needed\n%s\n📁 %s", notificationText(ev.Content), projectName(ev.Cwd)),
		SessionID: ev.SessionID,
		Cwd:       ev.Cwd,
	})
}

// handleSessionStatus feeds the registry. Decode failures log without a
// notification; a successful upsert also evicts expired sessions and drops
// their name allocations.
func (r *Router) handleSessionStatus(topic, text string) {
	var payload session.StatusPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		r.log.WithError(err).Warn("Failed to decode status payload")
		return
	}
	if payload.SessionID == "" || payload.Cwd == "" {
		r.log.WithField("topic", topic).Warn("Status payload missing session_id or cwd")
		return
	}

	r.registry.Upsert(payload)
	for _, id := range r.registry.SweepExpired() {
		r.namer.Remove(id)
	}

	if r.onSessionsChanged != nil {
		r.onSessionsChanged()
	}
}

// publish hands a composed notification to the sink unless the working
// directory it came from is muted.
func (r *Router) publish(n api.Notification) {
	if n.Cwd != "" && r.muted != nil && r.muted(n.Cwd) {
		r.log.WithField("cwd", n.Cwd).Debug("Notification muted")
		return
	}
	if r.notifier != nil {
		r.notifier.Notify(n)
	}
}

// displayName resolves the SMS-style sender title: the allocated session
// name, or a fixed default when the event has no session id.
func (r *Router) displayName(sessionID, cwd string) string {
	if sessionID == "" {
		return defaultTitle
	}
	return r.namer.NameFor(sessionID, cwd)
}

// projectName extracts the final path component of a working directory.
func projectName(cwd string) string {
	if cwd == "" {
		return cwd
	}
	return filepath.Base(cwd)
}
