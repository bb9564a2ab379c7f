// Package notify delivers human-facing signal and heartbeat messages.
package notify

import "context"

// Notifier sends one pre-rendered message. Delivery is best effort; a failed
// send is logged by the caller and never retried within the cycle.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
