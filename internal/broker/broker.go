// Package broker submits sized orders to the execution venue. Order
// placement is best effort: a rejected or failed order never blocks
// notification or the rest of the cycle.
package broker

import (
	"context"

	"github.com/shopspring/decimal"
)

// Broker places one market order per instrument. The amount is in account
// currency; implementations convert to venue currency and contract quantity
// themselves. accepted=false with a nil error means the order was skipped
// for a benign reason, such as a quantity that floors to zero.
type Broker interface {
	PlaceOrder(ctx context.Context, instrument, direction string, amount decimal.Decimal) (accepted bool, ref string, err error)
}
