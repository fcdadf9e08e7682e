package notifications

import "context"

// Notifier delivers alert messages to the operator.
type Notifier interface {
	// Send delivers a message with normal notification settings.
	Send(ctx context.Context, text string) error

	// SendSilent delivers a message without triggering a notification,
	// used for status updates and error reports.
	SendSilent(ctx context.Context, text string) error
}

// NopNotifier discards every message. Used when no Telegram credentials
// are configured.
type NopNotifier struct{}

func (NopNotifier) Send(context.Context, string) error       { return nil }
func (NopNotifier) SendSilent(context.Context, string) error { return nil }
