package pipeline

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"eventtrader/internal/fingerprint"
	"eventtrader/internal/models"
	"eventtrader/internal/oracle"
	"eventtrader/internal/repository"
	"eventtrader/internal/source"
)

// Dispatcher forwards a freshly committed record to downstream order and
// notification channels. It is consulted only after a successful insert.
type Dispatcher interface {
	Dispatch(ctx context.Context, record *models.EventRecord, classification models.EventClassification, size decimal.Decimal) []models.DispatchOutcome
}

// Pipeline runs one full collect-classify-commit-dispatch pass per cycle.
type Pipeline struct {
	Sources    []source.Source
	Oracle     oracle.Oracle
	Store      repository.EventStore
	Dispatcher Dispatcher
	Logger     *zap.Logger

	ConfidenceThreshold int
	ClassifyConcurrency int
	Capital             decimal.Decimal
	MaxPositionPct      float64
}

type classified struct {
	item   models.CandidateItem
	result models.EventClassification
}

// RunCycle pulls every source, classifies the new candidates, and commits and
// dispatches the qualified ones. It returns the number of records accepted
// this cycle. Per-item failures are logged and skipped; only a cancelled
// context surfaces as an error.
func (p *Pipeline) RunCycle(ctx context.Context) (int, error) {
	candidates := source.Merge(ctx, p.Logger, p.Sources)
	if len(candidates) == 0 {
		return 0, ctx.Err()
	}

	fresh := p.filterKnown(ctx, candidates)
	if len(fresh) == 0 {
		return 0, ctx.Err()
	}

	results := p.classifyAll(ctx, fresh)

	accepted := 0
	for _, c := range results {
		if ctx.Err() != nil {
			return accepted, ctx.Err()
		}
		if p.processOne(ctx, c) {
			accepted++
		}
	}
	return accepted, ctx.Err()
}

// filterKnown drops candidates whose fingerprint is already committed, before
// any oracle spend. This is a point-in-time check; Commit still decides
// uniqueness for candidates that race within the cycle.
func (p *Pipeline) filterKnown(ctx context.Context, items []models.CandidateItem) []models.CandidateItem {
	fresh := make([]models.CandidateItem, 0, len(items))
	for _, item := range items {
		known, err := p.Store.Exists(ctx, fingerprint.Hash(item.Title))
		if err != nil {
			p.Logger.Warn("duplicate pre-check failed", zap.Error(err))
			// Keep the item; Commit will reject a true duplicate.
			fresh = append(fresh, item)
			continue
		}
		if !known {
			fresh = append(fresh, item)
		}
	}
	return fresh
}

func (p *Pipeline) classifyAll(ctx context.Context, items []models.CandidateItem) []classified {
	limit := p.ClassifyConcurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]classified, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			result, err := p.Oracle.Classify(gctx, item.Title, item.Body)
			if err != nil {
				p.Logger.Warn("classification failed",
					zap.String("source", string(item.Source)),
					zap.String("title", item.Title),
					zap.Error(err),
				)
				return nil
			}
			results[i] = classified{item: item, result: result}
			return nil
		})
	}
	_ = g.Wait()

	out := results[:0]
	for _, c := range results {
		if c.item.Title != "" && !c.result.Empty() {
			out = append(out, c)
		}
	}
	return out
}

// processOne walks a single classified candidate through the gate, the store,
// and the dispatcher. Dispatch happens only when this process inserted the
// record, so a duplicate never trades twice.
func (p *Pipeline) processOne(ctx context.Context, c classified) bool {
	ok, reason := Qualify(c.result, p.ConfidenceThreshold)
	if !ok {
		p.Logger.Debug("candidate rejected",
			zap.String("title", c.item.Title),
			zap.String("reason", reason),
		)
		return false
	}

	record := p.buildRecord(c)
	inserted, err := p.Store.Commit(ctx, record)
	if err != nil {
		p.Logger.Error("commit failed",
			zap.String("fingerprint", record.Fingerprint),
			zap.Error(err),
		)
		return false
	}
	if !inserted {
		p.Logger.Debug("duplicate event skipped", zap.String("fingerprint", record.Fingerprint))
		return false
	}

	size := Size(c.result.Confidence, p.Capital, p.MaxPositionPct, p.ConfidenceThreshold)
	p.Logger.Info("event accepted",
		zap.String("fingerprint", record.Fingerprint),
		zap.String("direction", record.Direction),
		zap.Int("confidence", record.Confidence),
		zap.Strings("assets", c.result.AssetsAffected),
		zap.String("size", size.String()),
	)

	if p.Dispatcher != nil {
		outcomes := p.Dispatcher.Dispatch(ctx, record, c.result, size)
		for _, out := range outcomes {
			p.Logger.Info("dispatch outcome",
				zap.String("instrument", out.Instrument),
				zap.String("direction", out.RequestedDirection),
				zap.String("size", out.Size.String()),
				zap.Bool("accepted", out.Accepted),
				zap.String("ref", out.ExternalRef),
			)
		}
	}
	return true
}

func (p *Pipeline) buildRecord(c classified) *models.EventRecord {
	assets, err := json.Marshal(c.result.AssetsAffected)
	if err != nil {
		assets = []byte("[]")
	}
	return &models.EventRecord{
		Fingerprint: fingerprint.Hash(c.item.Title),
		Headline:    c.item.Title,
		Summary:     c.item.Body,
		Confidence:  c.result.Confidence,
		Direction:   c.result.Direction,
		Reason:      c.result.Reason,
		EventType:   c.result.EventType,
		Sentiment:   c.result.Sentiment,
		Assets:      string(assets),
	}
}
