package billing

import (
	"math"
	"testing"
)

func TestCycleConfidence(t *testing.T) {
	tests := []struct {
		name              string
		source            DataSource
		ageHours          float64
		patternConfidence float64
		expected          float64
	}{
		{"FreshPlaid", SourcePlaid, 1, 0.9, 0.9},
		{"FreshInferred", SourceInferred, 1, 0.9, 0.765},
		{"FreshManual", SourceManual, 1, 0.9, 0.63},
		{"UnknownSourceScoresAsManual", DataSource("csv"), 1, 0.9, 0.63},
		{"ExactlyAtFreshnessWindow", SourcePlaid, 48, 0.9, 0.9},
		{"OneDayStale", SourcePlaid, 72, 0.9, 0.9 * (1 - 24.0/720.0)}, // ≈ 0.87
		{"ThirtyDaysStaleHitsFloor", SourcePlaid, 768, 0.9, 0.45},
		{"BeyondFloorStaysAtFloor", SourcePlaid, 10000, 0.9, 0.45},
		{"ZeroPattern", SourcePlaid, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CycleConfidence(tt.source, tt.ageHours, tt.patternConfidence)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CycleConfidence() = %v, want %v", got, tt.expected)
			}
			if got < 0 || got > 1 {
				t.Errorf("CycleConfidence() = %v, outside [0,1]", got)
			}
		})
	}
}

func TestConfidenceMessage(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		expected   string
	}{
		{"Fresh", 0.9, "Based on fresh data from your bank."},
		{"FreshBoundary", 0.85, "Based on fresh data from your bank."},
		{"Pattern", 0.7, "Estimated from your billing pattern."},
		{"PatternBoundary", 0.65, "Estimated from your billing pattern."},
		{"Limited", 0.5, "Projected from limited history."},
		{"LimitedBoundary", 0.45, "Projected from limited history."},
		{"Unreliable", 0.2, "Unable to determine reliably; verify with your card issuer."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfidenceMessage(tt.confidence); got != tt.expected {
				t.Errorf("ConfidenceMessage(%v) = %q, want %q", tt.confidence, got, tt.expected)
			}
		})
	}
}
