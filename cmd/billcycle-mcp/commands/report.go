package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"billcycle-mcp/internal/billing"
	"billcycle-mcp/internal/history"
	"billcycle-mcp/internal/visuals"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	reportMonths int
	reportNoOpen bool
)

var reportCmd = &cobra.Command{
	Use:   "report <account-id>",
	Short: "Render a Markdown projection report for one account",
	Long: `Loads the cached observation history for the given account, infers its
billing pattern and writes a Markdown report with projected cycles and
confidence charts into the data directory, then opens it in the default viewer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountID := args[0]

		store := history.NewStore()
		if err := store.LoadAll(cfg.CacheDir); err != nil {
			return fmt.Errorf("failed to load observation caches: %w", err)
		}

		lastKnown, ok := store.LatestCycle(accountID)
		if !ok {
			return fmt.Errorf("no observed cycles for account %q", accountID)
		}

		months := reportMonths
		if months <= 0 {
			months = cfg.MonthsAhead
		}

		result := billing.AnalyzePattern(store.Cycles(accountID))
		projections, err := billing.ProjectCycles(lastKnown, result.Pattern, months)
		if err != nil {
			return err
		}

		now := time.Now()
		confidence := billing.CycleConfidence(
			store.Provenance(accountID),
			store.DataAgeHours(accountID, now),
			result.Pattern.Confidence,
		)

		content := renderReport(accountID, now, result, projections, confidence)

		if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		path := filepath.Join(cfg.DataPath, fmt.Sprintf("%s-report.md", accountID))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info().Str("path", path).Int("projections", len(projections)).Msg("Report written")

		if !reportNoOpen {
			if err := browser.OpenFile(path); err != nil {
				log.Warn().Err(err).Msg("Failed to open report in viewer")
			}
		}

		fmt.Println(path)
		return nil
	},
}

func renderReport(accountID string, now time.Time, result billing.PatternAnalysisResult, projections []billing.BillingCycleProjection, confidence float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Billing Cycle Report: %s\n\n", accountID))
	sb.WriteString(fmt.Sprintf("Generated %s\n\n", now.Format("2006-01-02 15:04")))

	sb.WriteString("## Pattern\n\n")
	sb.WriteString(fmt.Sprintf("- Typical cycle length: %d days\n", result.Pattern.TypicalCycleLength))
	if result.Pattern.StatementDayOfMonth != nil {
		sb.WriteString(fmt.Sprintf("- Statement day of month: %d\n", *result.Pattern.StatementDayOfMonth))
	}
	sb.WriteString(fmt.Sprintf("- Due date offset: %d days\n", result.Pattern.DueDateOffset))
	sb.WriteString(fmt.Sprintf("- Quality: %s (%d cycles observed)\n", result.Quality, result.SampleSize))
	sb.WriteString(fmt.Sprintf("- Overall confidence: %.0f%%\n\n", confidence*100))
	sb.WriteString(fmt.Sprintf("%s\n\n", billing.ConfidenceMessage(confidence)))

	if len(result.Insights) > 0 {
		sb.WriteString("## Insights\n\n")
		for _, insight := range result.Insights {
			sb.WriteString(fmt.Sprintf("- %s\n", insight))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Upcoming Cycles\n\n")
	sb.WriteString("| Cycle Start | Statement | Payment Due | Confidence |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, p := range projections {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.0f%% |\n",
			p.CycleStartDate.Format("2006-01-02"),
			p.CycleEndDate.Format("2006-01-02"),
			p.PaymentDueDate.Format("2006-01-02"),
			p.Confidence*100))
	}
	sb.WriteString("\n")

	sb.WriteString("## Timeline\n\n")
	sb.WriteString(visuals.GenerateCycleTimeline(accountID, projections))
	sb.WriteString("\n\n## Confidence Decay\n\n")
	sb.WriteString(visuals.GenerateConfidenceDecayChart(projections))
	sb.WriteString("\n")

	return sb.String()
}

func init() {
	reportCmd.Flags().IntVar(&reportMonths, "months", 0, "projection horizon in months (defaults to PROJECTION_MONTHS_AHEAD)")
	reportCmd.Flags().BoolVar(&reportNoOpen, "no-open", false, "write the report without opening it")
	rootCmd.AddCommand(reportCmd)
}
