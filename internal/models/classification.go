package models

// EventClassification is the oracle's structured judgment for one candidate.
// The zero value means "no opportunity", which is a normal oracle outcome.
type EventClassification struct {
	Event          string   `json:"event"`
	AssetsAffected []string `json:"assets_affected"`
	Direction      string   `json:"direction"`
	Confidence     int      `json:"confidence"`
	Reason         string   `json:"reason"`
	EventType      string   `json:"event_type"`
	Sentiment      string   `json:"sentiment"`
}

// Empty reports whether the oracle declined to call a trade.
func (c EventClassification) Empty() bool {
	return c.Direction == "" && c.Confidence == 0 && len(c.AssetsAffected) == 0
}
