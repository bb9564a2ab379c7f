package oracle

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"eventtrader/internal/models"
)

// FallbackChain sends a candidate to the primary oracle and consults the
// secondary exactly once when the primary errors, produces unparseable
// output, declines, or lands under the confidence threshold. When both sides
// fail the threshold the result is the zero classification: no signal.
type FallbackChain struct {
	Primary   Oracle
	Secondary Oracle
	Logger    *zap.Logger

	// Threshold is compared with >= against oracle confidence.
	Threshold int

	// Timeout bounds each provider call; an unbounded oracle call is a defect.
	Timeout time.Duration

	// Limiter paces outbound oracle calls across the whole process.
	Limiter *rate.Limiter
}

func NewFallbackChain(primary, secondary Oracle, logger *zap.Logger, threshold int, timeout time.Duration, requestsPerMin int) *FallbackChain {
	var limiter *rate.Limiter
	if requestsPerMin > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMin)), requestsPerMin)
	}
	return &FallbackChain{
		Primary:   primary,
		Secondary: secondary,
		Logger:    logger,
		Threshold: threshold,
		Timeout:   timeout,
		Limiter:   limiter,
	}
}

func (c *FallbackChain) Name() string { return "fallback_chain" }

func (c *FallbackChain) Classify(ctx context.Context, title, body string) (models.EventClassification, error) {
	result, ok := c.tryOracle(ctx, c.Primary, title, body)
	if ok {
		return result, nil
	}
	result, ok = c.tryOracle(ctx, c.Secondary, title, body)
	if ok {
		return result, nil
	}
	// Both declined or failed: a dropped item, not a pipeline error.
	return models.EventClassification{}, nil
}

func (c *FallbackChain) tryOracle(ctx context.Context, o Oracle, title, body string) (models.EventClassification, bool) {
	if o == nil {
		return models.EventClassification{}, false
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return models.EventClassification{}, false
		}
	}
	callCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	result, err := o.Classify(callCtx, title, body)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warn("oracle call failed", zap.String("oracle", o.Name()), zap.Error(err))
		}
		return models.EventClassification{}, false
	}
	if result.Empty() {
		return models.EventClassification{}, false
	}
	if result.Confidence < c.Threshold {
		if c.Logger != nil {
			c.Logger.Debug("oracle under threshold",
				zap.String("oracle", o.Name()),
				zap.Int("confidence", result.Confidence),
				zap.Int("threshold", c.Threshold),
			)
		}
		return models.EventClassification{}, false
	}
	return result, true
}
