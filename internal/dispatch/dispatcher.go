// Package dispatch fans a committed signal out to order placement and
// notification channels.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"eventtrader/internal/broker"
	"eventtrader/internal/models"
	"eventtrader/internal/notify"
)

// Dispatcher places one order per affected instrument and sends a single
// summary notification for the whole signal. A nil Broker disables trading;
// the notification still goes out. Order failures are recorded per
// instrument and never stop the remaining instruments or the notification.
type Dispatcher struct {
	Broker   broker.Broker
	Notifier notify.Notifier
	Logger   *zap.Logger
}

func (d *Dispatcher) Dispatch(ctx context.Context, record *models.EventRecord, c models.EventClassification, size decimal.Decimal) []models.DispatchOutcome {
	var b strings.Builder
	fmt.Fprintf(&b, "🔥 *Event Signal* (%d%%)\n", record.Confidence)
	fmt.Fprintf(&b, "*Headline:* %s\n", record.Headline)
	fmt.Fprintf(&b, "*Type:* %s\n", record.EventType)
	fmt.Fprintf(&b, "*Sentiment:* %s\n", record.Sentiment)
	fmt.Fprintf(&b, "*Direction:* %s\n", record.Direction)
	fmt.Fprintf(&b, "*Reason:* %s\n", record.Reason)
	fmt.Fprintf(&b, "*Size:* €%s", size.StringFixed(2))

	outcomes := make([]models.DispatchOutcome, 0, len(c.AssetsAffected))
	for _, asset := range c.AssetsAffected {
		fmt.Fprintf(&b, "\n*Asset:* `%s`", asset)

		outcome := models.DispatchOutcome{
			Instrument:         asset,
			RequestedDirection: record.Direction,
			Size:               size,
		}
		if d.Broker != nil {
			accepted, ref, err := d.Broker.PlaceOrder(ctx, asset, record.Direction, size)
			if err != nil {
				d.Logger.Warn("order placement failed",
					zap.String("instrument", asset),
					zap.String("direction", record.Direction),
					zap.Error(err),
				)
			}
			outcome.Accepted = accepted
			outcome.ExternalRef = ref
			if accepted {
				fmt.Fprintf(&b, "\nExec: ✅")
			} else {
				fmt.Fprintf(&b, "\nExec: ❌")
			}
		}
		outcomes = append(outcomes, outcome)
	}

	if d.Notifier != nil {
		if err := d.Notifier.Send(ctx, b.String()); err != nil {
			d.Logger.Warn("notification failed", zap.Error(err))
		}
	}
	return outcomes
}
