package pipeline

import (
	"testing"

	"eventtrader/internal/models"
)

func TestQualify(t *testing.T) {
	tests := []struct {
		name string
		c    models.EventClassification
		ok   bool
	}{
		{"qualified long", models.EventClassification{Direction: "long", Confidence: 85, AssetsAffected: []string{"A"}}, true},
		{"qualified short", models.EventClassification{Direction: "short", Confidence: 80, AssetsAffected: []string{"A"}}, true},
		{"no opportunity", models.EventClassification{}, false},
		{"under threshold", models.EventClassification{Direction: "long", Confidence: 79, AssetsAffected: []string{"A"}}, false},
		{"unknown direction", models.EventClassification{Direction: "hold", Confidence: 95, AssetsAffected: []string{"A"}}, false},
	}
	for _, tt := range tests {
		ok, reason := Qualify(tt.c, 80)
		if ok != tt.ok {
			t.Fatalf("%s: ok = %v (reason %q), want %v", tt.name, ok, reason, tt.ok)
		}
		if !ok && reason == "" {
			t.Fatalf("%s: rejection must carry a reason", tt.name)
		}
	}
}
