package broker

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"eventtrader/internal/config"
)

// AlpacaBroker sizes and submits market orders against the Alpaca paper or
// live API. Allocation amounts arrive in account currency and are converted
// to USD at a fixed configured rate before quoting.
type AlpacaBroker struct {
	trading *alpaca.Client
	quotes  *marketdata.Client
	fxRate  decimal.Decimal
	logger  *zap.Logger
}

func NewAlpacaBroker(cfg config.BrokerConfig, logger *zap.Logger) (*AlpacaBroker, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	apiSecret := os.Getenv(cfg.APISecretEnv)
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("alpaca credentials missing: set %s and %s", cfg.APIKeyEnv, cfg.APISecretEnv)
	}
	fxRate := decimal.NewFromFloat(cfg.FXRate)
	if fxRate.LessThanOrEqual(decimal.Zero) {
		fxRate = decimal.NewFromInt(1)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	return &AlpacaBroker{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:     apiKey,
			APISecret:  apiSecret,
			BaseURL:    cfg.BaseURL,
			HTTPClient: httpClient,
		}),
		quotes: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:     apiKey,
			APISecret:  apiSecret,
			HTTPClient: httpClient,
		}),
		fxRate: fxRate,
		logger: logger,
	}, nil
}

// PlaceOrder quotes the instrument, converts the allocation to a whole-share
// quantity rounded down, and submits a market day order. A short direction
// maps to a sell.
func (b *AlpacaBroker) PlaceOrder(ctx context.Context, instrument, direction string, amount decimal.Decimal) (bool, string, error) {
	if err := ctx.Err(); err != nil {
		return false, "", err
	}

	quote, err := b.quotes.GetLatestQuote(instrument, marketdata.GetLatestQuoteRequest{})
	if err != nil {
		return false, "", fmt.Errorf("latest quote for %s: %w", instrument, err)
	}
	price := quote.AskPrice
	if direction == "short" {
		price = quote.BidPrice
	}
	if price <= 0 {
		return false, "", fmt.Errorf("no quoted price for %s", instrument)
	}

	usd := amount.Mul(b.fxRate)
	qty := usd.Div(decimal.NewFromFloat(price)).Floor()
	if qty.LessThanOrEqual(decimal.Zero) {
		b.logger.Debug("allocation below one share, order skipped",
			zap.String("instrument", instrument),
			zap.String("amount_usd", usd.StringFixed(2)),
			zap.Float64("price", price),
		)
		return false, "", nil
	}

	side := alpaca.Buy
	if direction == "short" {
		side = alpaca.Sell
	}
	order, err := b.trading.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:      instrument,
		Qty:         &qty,
		Side:        side,
		Type:        alpaca.Market,
		TimeInForce: alpaca.Day,
	})
	if err != nil {
		return false, "", fmt.Errorf("place order %s %s: %w", side, instrument, err)
	}
	return true, order.ID, nil
}
