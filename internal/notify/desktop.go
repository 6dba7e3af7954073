package notify

import (
	"context"

	"github.com/0xAX/notificator"
)

// AppName labels desktop notifications.
const AppName = "termtasks"

// pusher is the part of *notificator.Notificator the sink uses.
type pusher interface {
	Push(title, text, iconPath, urgency string) error
}

// DesktopSink shows events that carry a Title as desktop notifications.
type DesktopSink struct {
	n pusher
}

// NewDesktopSink returns a sink backed by the platform notifier
// (notify-send, osascript or growlnotify).
func NewDesktopSink() *DesktopSink {
	return &DesktopSink{n: notificator.New(notificator.Options{AppName: AppName})}
}

func (s *DesktopSink) Name() string { return "desktop" }

func (s *DesktopSink) Accepts(ev Event) bool { return ev.Title != "" }

func (s *DesktopSink) Deliver(_ context.Context, ev Event) error {
	urgency := notificator.UR_NORMAL
	if ev.Urgent {
		urgency = notificator.UR_CRITICAL
	}
	return s.n.Push(ev.Title, ev.Body, "", urgency)
}
