package billing

import (
	"fmt"
	"time"
)

// confidenceDecayPerCycle is subtracted from the pattern confidence for each
// additional cycle projected into the future.
const confidenceDecayPerCycle = 0.05

// ProjectCycles extrapolates a detected pattern forward from the last known
// cycle, producing monthsAhead future projections in chronological order.
// Each projection starts one day after the previous statement date, and its
// confidence decays linearly with distance (floored at zero).
//
// A negative monthsAhead is a caller contract violation and the only error
// this function surfaces.
func ProjectCycles(lastKnownCycle HistoricalCycle, pattern BillingCyclePattern, monthsAhead int) ([]BillingCycleProjection, error) {
	if monthsAhead < 0 {
		return nil, fmt.Errorf("monthsAhead must be non-negative, got %d", monthsAhead)
	}

	projections := make([]BillingCycleProjection, 0, monthsAhead)
	current := StartOfDay(lastKnownCycle.StatementDate)

	for i := 0; i < monthsAhead; i++ {
		var next time.Time
		if pattern.StatementDayOfMonth != nil {
			// Anchored pattern: advance exactly one calendar month, then clamp
			// the target day to the month's length. AddDate would normalize
			// Jan 31 + 1 month into March, so anchor on day 1 instead.
			anchor := time.Date(current.Year(), current.Month()+1, 1, 0, 0, 0, 0, current.Location())
			next = AdjustForMonthEnd(anchor, *pattern.StatementDayOfMonth)
		} else {
			next = current.AddDate(0, 0, pattern.TypicalCycleLength)
		}

		confidence := pattern.Confidence * (1 - float64(i)*confidenceDecayPerCycle)
		if confidence < 0 {
			confidence = 0
		}

		projections = append(projections, BillingCycleProjection{
			CycleStartDate: current.AddDate(0, 0, 1),
			CycleEndDate:   next,
			PaymentDueDate: next.AddDate(0, 0, pattern.DueDateOffset),
			IsProjected:    true,
			Confidence:     confidence,
		})

		current = next
	}

	return projections, nil
}
