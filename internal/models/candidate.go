package models

import "time"

// SourceKind identifies which adapter family produced a candidate.
type SourceKind string

const (
	SourceFeed       SourceKind = "feed"
	SourceSocial     SourceKind = "social"
	SourceAggregator SourceKind = "aggregator"
)

// CandidateItem is one raw headline pulled from a source. It lives for a
// single pipeline cycle and is never persisted on its own.
type CandidateItem struct {
	Title       string
	Body        string
	Source      SourceKind
	PublishedAt *time.Time
}
