package telegram

import "context"

// Notifier delivers an HTML formatted message to the configured chat destination.
// Failures are returned to the caller, who decides whether they matter.
type Notifier interface {
	Notify(ctx context.Context, htmlText string) error
}
