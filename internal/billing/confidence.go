package billing

// Staleness decay parameters: data older than freshnessWindowHours loses
// confidence linearly until it hits stalenessFloor at 30 days.
const (
	freshnessWindowHours = 48.0
	stalenessDecayHours  = 720.0
	stalenessFloor       = 0.5
)

// sourceFactor discounts confidence by provenance. Directly sourced data is
// taken at face value; inferred and manually entered data are discounted.
// Unknown tags score as manual, the conservative floor.
func sourceFactor(source DataSource) float64 {
	switch source {
	case SourcePlaid:
		return 1.0
	case SourceInferred:
		return 0.85
	default:
		return 0.7
	}
}

// CycleConfidence combines pattern confidence, data provenance, and data
// staleness into a single actionable [0,1] score.
func CycleConfidence(source DataSource, dataAgeHours, patternConfidence float64) float64 {
	confidence := patternConfidence * sourceFactor(source)

	if dataAgeHours > freshnessWindowHours {
		decay := 1 - (dataAgeHours-freshnessWindowHours)/stalenessDecayHours
		if decay < stalenessFloor {
			decay = stalenessFloor
		}
		confidence *= decay
	}

	return clamp01(confidence)
}

// ConfidenceMessage maps a confidence score to one of four fixed user-facing
// labels. Pure lookup, no state.
func ConfidenceMessage(confidence float64) string {
	switch {
	case confidence >= 0.85:
		return "Based on fresh data from your bank."
	case confidence >= 0.65:
		return "Estimated from your billing pattern."
	case confidence >= 0.45:
		return "Projected from limited history."
	default:
		return "Unable to determine reliably; verify with your card issuer."
	}
}
