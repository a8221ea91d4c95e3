package linebot

import (
	"context"

	"formd/internal/notify"
)

// PushSink delivers owner notifications as LINE push messages.
type PushSink struct {
	Client *Client
	To     string
}

var _ notify.Sink = PushSink{}

func (s PushSink) Deliver(ctx context.Context, ev notify.Event) error {
	text := ev.Title
	if ev.Body != "" {
		text += "\n" + ev.Body
	}
	return s.Client.Push(ctx, s.To, []Message{NewText(text)})
}
