package models

import "github.com/shopspring/decimal"

// DispatchOutcome records what happened for one (event, instrument) pair.
type DispatchOutcome struct {
	Instrument         string
	RequestedDirection string
	Size               decimal.Decimal
	Accepted           bool
	ExternalRef        string
}
