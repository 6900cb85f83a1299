package billing

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentAnalyses bounds the portfolio fan-out. Each analysis is cheap
// and CPU-bound, so a small pool is enough.
const maxConcurrentAnalyses = 8

// PortfolioSummary aggregates analysis results across a set of accounts.
type PortfolioSummary struct {
	Accounts         int                    `json:"accounts"`
	ByQuality        map[PatternQuality]int `json:"by_quality"`
	MedianConfidence float64                `json:"median_confidence"`
}

// AnalyzeAccounts runs the pattern analyzer over every account's history
// concurrently. Each call is an independent pure computation, so the fan-out
// needs no coordination beyond collecting results. The context cancels
// pending analyses; partial results are discarded on cancellation.
func AnalyzeAccounts(ctx context.Context, histories map[string][]HistoricalCycle) (map[string]PatternAnalysisResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAnalyses)

	var mu sync.Mutex
	results := make(map[string]PatternAnalysisResult, len(histories))

	for accountID, cycles := range histories {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := AnalyzePattern(cycles)
			mu.Lock()
			results[accountID] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SummarizePortfolio condenses per-account results into portfolio-level
// counts and the median pattern confidence.
func SummarizePortfolio(results map[string]PatternAnalysisResult) PortfolioSummary {
	summary := PortfolioSummary{
		Accounts:  len(results),
		ByQuality: make(map[PatternQuality]int),
	}

	confidences := make([]float64, 0, len(results))
	for _, r := range results {
		summary.ByQuality[r.Quality]++
		confidences = append(confidences, r.Pattern.Confidence)
	}
	summary.MedianConfidence = CalculateMedianContinuous(confidences)

	return summary
}
