package domain

import "context"

// Notifier delivers outbound confirmations. Implementations must be safe for
// concurrent use; delivery failures surface as NotificationError and are never
// allowed to fail the booking or refund that triggered them.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}
