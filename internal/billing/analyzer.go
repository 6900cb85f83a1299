package billing

import (
	"fmt"
	"math"
	"sort"
)

// Consistency thresholds for the pattern analyzer.
const (
	// maxConsistentVariance is the population-variance ceiling under which a
	// series of cycle lengths or due offsets counts as consistent
	// (standard deviation below 2 days).
	maxConsistentVariance = 4.0

	// monthEndClipDay is the minimum statement day at which a small spread of
	// observed days is explainable by short months truncating a high target.
	monthEndClipDay = 28

	// maxClipSpread is the widest day-of-month spread attributable to
	// month-end clipping (31 - 28).
	maxClipSpread = 3
)

// DefaultPattern is the conservative fallback returned when fewer than two
// cycles of history exist: a 30-day cycle with a 21-day grace period.
func DefaultPattern() BillingCyclePattern {
	return BillingCyclePattern{
		TypicalCycleLength:  30,
		StatementDayOfMonth: nil,
		DueDateOffset:       21,
		Confidence:          0.3,
	}
}

// AnalyzePattern infers a recurring billing schedule from observed cycles.
// The input may be unsorted and of any length; it is never mutated. Thin or
// noisy data degrades the confidence and quality of the result, it never
// fails the call.
func AnalyzePattern(historicalCycles []HistoricalCycle) PatternAnalysisResult {
	// 1. Sort a copy chronologically by statement date
	cycles := make([]HistoricalCycle, len(historicalCycles))
	copy(cycles, historicalCycles)
	sort.SliceStable(cycles, func(i, j int) bool {
		return cycles[i].StatementDate.Before(cycles[j].StatementDate)
	})

	// 2. Insufficient-data fallback: a deliberate default, not an error
	if len(cycles) < 2 {
		return PatternAnalysisResult{
			Pattern:    DefaultPattern(),
			Quality:    QualityLow,
			Insights:   []string{"Not enough billing history to detect a pattern; assuming a 30-day cycle with payment due 21 days after the statement."},
			SampleSize: len(cycles),
		}
	}

	// 3. Cycle length: mode of consecutive statement-date gaps, falling back
	// to the rounded median when every gap is distinct
	cycleLengths := make([]int, 0, len(cycles)-1)
	for i := 1; i < len(cycles); i++ {
		cycleLengths = append(cycleLengths, DaysBetween(cycles[i-1].StatementDate, cycles[i].StatementDate))
	}

	typicalLength, modeCount := CalculateMode(cycleLengths)
	if modeCount < 2 {
		typicalLength = int(math.Round(CalculateMedianDiscrete(cycleLengths)))
	}
	lengthConsistent := CalculateVariance(cycleLengths) < maxConsistentVariance

	// 4. Statement day-of-month, with month-end clipping awareness
	days := make([]int, len(cycles))
	minDay, maxDay := 32, 0
	for i, c := range cycles {
		days[i] = c.StatementDate.Day()
		if days[i] < minDay {
			minDay = days[i]
		}
		if days[i] > maxDay {
			maxDay = days[i]
		}
	}
	mostCommonDay, _ := CalculateMode(days)

	// Identical days are trivially consistent; otherwise a small spread is
	// accepted only when it sits at the month boundary, where short months
	// truncate a high target day (e.g. the 31st becoming Feb 28).
	dayConsistent := minDay == maxDay ||
		(maxDay-minDay <= maxClipSpread && maxDay >= monthEndClipDay)

	var statementDay *int
	if dayConsistent {
		d := mostCommonDay
		statementDay = &d
	}

	// 5. Due-date offset: rounded median of per-cycle statement-to-due gaps
	offsets := make([]int, len(cycles))
	for i, c := range cycles {
		offsets[i] = DaysBetween(c.StatementDate, c.DueDate)
	}
	dueDateOffset := int(math.Round(CalculateMedianDiscrete(offsets)))
	offsetConsistent := CalculateVariance(offsets) < maxConsistentVariance

	// 6. Confidence: base plus additive bonuses for volume and regularity.
	// More, more-regular data never scores below less, less-regular data.
	confidence := 0.5
	switch {
	case len(cycles) >= 6:
		confidence += 0.2
	case len(cycles) >= 3:
		confidence += 0.1
	}
	if lengthConsistent {
		confidence += 0.15
	}
	if dayConsistent {
		confidence += 0.1
	}
	if offsetConsistent {
		confidence += 0.05
	}
	confidence = clamp01(confidence)

	quality := QualityLow
	switch {
	case confidence >= 0.8 && len(cycles) >= 6:
		quality = QualityHigh
	case confidence >= 0.6 && len(cycles) >= 3:
		quality = QualityMedium
	}

	return PatternAnalysisResult{
		Pattern: BillingCyclePattern{
			TypicalCycleLength:  typicalLength,
			StatementDayOfMonth: statementDay,
			DueDateOffset:       dueDateOffset,
			Confidence:          confidence,
		},
		Quality:    quality,
		Insights:   buildInsights(len(cycles), typicalLength, statementDay, dueDateOffset, lengthConsistent, dayConsistent, offsetConsistent),
		SampleSize: len(cycles),
	}
}

func buildInsights(sampleSize, typicalLength int, statementDay *int, dueDateOffset int, lengthConsistent, dayConsistent, offsetConsistent bool) []string {
	var insights []string

	if lengthConsistent {
		insights = append(insights, fmt.Sprintf("Statements close on a steady %d-day cadence.", typicalLength))
	} else {
		insights = append(insights, fmt.Sprintf("Cycle length varies between statements; using the most representative interval of %d days.", typicalLength))
	}

	if statementDay != nil {
		insights = append(insights, fmt.Sprintf("Statements consistently close on day %d of the month (shorter months clip to their last day).", *statementDay))
	} else {
		insights = append(insights, "No consistent statement day of month detected; projections follow the cycle length instead.")
	}

	if offsetConsistent {
		insights = append(insights, fmt.Sprintf("Payment is reliably due %d days after the statement closes.", dueDateOffset))
	} else {
		insights = append(insights, fmt.Sprintf("Due-date timing fluctuates; using the median grace period of %d days.", dueDateOffset))
	}

	if sampleSize < 6 {
		insights = append(insights, fmt.Sprintf("Only %d cycles observed; confidence improves as more statements arrive.", sampleSize))
	}

	return insights
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
