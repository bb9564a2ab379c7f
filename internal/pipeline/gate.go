package pipeline

import (
	"fmt"

	"eventtrader/internal/models"
)

// Qualify applies the gate every classification must pass before it may
// become a committed record: a real opportunity, a tradeable direction, and
// confidence at or above the configured threshold. The returned reason is
// empty when the classification qualifies.
func Qualify(c models.EventClassification, threshold int) (ok bool, reason string) {
	if c.Empty() {
		return false, "no opportunity"
	}
	if c.Direction != models.DirectionLong && c.Direction != models.DirectionShort {
		return false, fmt.Sprintf("unsupported direction %q", c.Direction)
	}
	if c.Confidence < threshold {
		return false, fmt.Sprintf("confidence %d under threshold %d", c.Confidence, threshold)
	}
	return true, ""
}
