package mcp

import (
	"context"
	"fmt"

	"billcycle-mcp/internal/billing"
	"billcycle-mcp/internal/history"
	"billcycle-mcp/internal/visuals"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type cycleRecord struct {
	StatementDate    string   `json:"statement_date"`
	DueDate          string   `json:"due_date"`
	StatementBalance *float64 `json:"statement_balance,omitempty"`
}

type importCyclesInput struct {
	AccountID string        `json:"account_id"`
	Source    string        `json:"source,omitempty"`
	Cycles    []cycleRecord `json:"cycles"`
}

type importCyclesOutput struct {
	AccountID     string `json:"account_id"`
	Imported      int    `json:"imported"`
	Duplicates    int    `json:"duplicates"`
	TotalObserved int    `json:"total_observed"`
}

func (s *Server) handleImportCycles(ctx context.Context, req *sdk.CallToolRequest, in importCyclesInput) (*sdk.CallToolResult, importCyclesOutput, error) {
	var out importCyclesOutput

	if in.AccountID == "" {
		return nil, out, fmt.Errorf("account_id is required")
	}
	if len(in.Cycles) == 0 {
		return nil, out, fmt.Errorf("cycles must contain at least one record")
	}

	source := billing.DataSource(in.Source)
	if in.Source == "" {
		source = billing.SourceManual
	}

	observations := make([]history.Observation, 0, len(in.Cycles))
	for _, c := range in.Cycles {
		statement, err := parseDay("statement_date", c.StatementDate)
		if err != nil {
			return nil, out, err
		}
		due, err := parseDay("due_date", c.DueDate)
		if err != nil {
			return nil, out, err
		}
		if !statement.Before(due) {
			return nil, out, fmt.Errorf("statement_date %s must precede due_date %s", c.StatementDate, c.DueDate)
		}
		observations = append(observations, history.Observation{
			StatementDate:    statement,
			DueDate:          due,
			StatementBalance: c.StatementBalance,
			Source:           source,
			RecordedAt:       s.now(),
		})
	}

	imported := s.store.Append(in.AccountID, observations)
	if err := s.store.Save(s.cfg.CacheDir, in.AccountID); err != nil {
		log.Warn().Err(err).Str("account", in.AccountID).Msg("Failed to persist observation cache")
	}

	out = importCyclesOutput{
		AccountID:     in.AccountID,
		Imported:      imported,
		Duplicates:    len(observations) - imported,
		TotalObserved: s.store.Count(in.AccountID),
	}
	return nil, out, nil
}

type accountInput struct {
	AccountID string `json:"account_id"`
}

type analyzePatternOutput struct {
	AccountID string                        `json:"account_id"`
	Result    billing.PatternAnalysisResult `json:"result"`
}

func (s *Server) handleAnalyzePattern(ctx context.Context, req *sdk.CallToolRequest, in accountInput) (*sdk.CallToolResult, analyzePatternOutput, error) {
	var out analyzePatternOutput

	if in.AccountID == "" {
		return nil, out, fmt.Errorf("account_id is required")
	}

	out = analyzePatternOutput{
		AccountID: in.AccountID,
		Result:    billing.AnalyzePattern(s.store.Cycles(in.AccountID)),
	}
	return nil, out, nil
}

type projectCyclesInput struct {
	AccountID   string `json:"account_id"`
	MonthsAhead *int   `json:"months_ahead,omitempty"`
}

type projectCyclesOutput struct {
	AccountID       string                           `json:"account_id"`
	Pattern         billing.BillingCyclePattern      `json:"pattern"`
	Quality         billing.PatternQuality           `json:"quality"`
	Projections     []billing.BillingCycleProjection `json:"projections"`
	CycleConfidence float64                          `json:"cycle_confidence"`
	Message         string                           `json:"message"`
	TimelineChart   string                           `json:"timeline_chart,omitempty"`
	ConfidenceChart string                           `json:"confidence_chart,omitempty"`
}

// projectForAccount runs the analyze-then-project pipeline shared by the
// projection and assignment tools.
func (s *Server) projectForAccount(accountID string, monthsAhead int) (projectCyclesOutput, error) {
	var out projectCyclesOutput

	lastKnown, ok := s.store.LatestCycle(accountID)
	if !ok {
		return out, fmt.Errorf("no observed cycles for account %q; call import_cycles first", accountID)
	}

	result := billing.AnalyzePattern(s.store.Cycles(accountID))
	projections, err := billing.ProjectCycles(lastKnown, result.Pattern, monthsAhead)
	if err != nil {
		return out, err
	}

	confidence := billing.CycleConfidence(
		s.store.Provenance(accountID),
		s.store.DataAgeHours(accountID, s.now()),
		result.Pattern.Confidence,
	)

	return projectCyclesOutput{
		AccountID:       accountID,
		Pattern:         result.Pattern,
		Quality:         result.Quality,
		Projections:     projections,
		CycleConfidence: confidence,
		Message:         billing.ConfidenceMessage(confidence),
	}, nil
}

func (s *Server) handleProjectCycles(ctx context.Context, req *sdk.CallToolRequest, in projectCyclesInput) (*sdk.CallToolResult, projectCyclesOutput, error) {
	var out projectCyclesOutput

	if in.AccountID == "" {
		return nil, out, fmt.Errorf("account_id is required")
	}

	monthsAhead := s.cfg.MonthsAhead
	if in.MonthsAhead != nil {
		monthsAhead = *in.MonthsAhead
	}

	out, err := s.projectForAccount(in.AccountID, monthsAhead)
	if err != nil {
		return nil, out, err
	}

	if s.cfg.EnableMermaidCharts {
		out.TimelineChart = visuals.GenerateCycleTimeline(in.AccountID, out.Projections)
		out.ConfidenceChart = visuals.GenerateConfidenceDecayChart(out.Projections)
	}
	return nil, out, nil
}

type assignTransactionInput struct {
	AccountID string `json:"account_id"`
	Date      string `json:"date"`
}

type assignTransactionOutput struct {
	AccountID string                          `json:"account_id"`
	Date      string                          `json:"date"`
	Matched   *billing.BillingCycleProjection `json:"matched,omitempty"`
	Message   string                          `json:"message"`
}

func (s *Server) handleAssignTransaction(ctx context.Context, req *sdk.CallToolRequest, in assignTransactionInput) (*sdk.CallToolResult, assignTransactionOutput, error) {
	var out assignTransactionOutput

	if in.AccountID == "" {
		return nil, out, fmt.Errorf("account_id is required")
	}
	eventDate, err := parseDay("date", in.Date)
	if err != nil {
		return nil, out, err
	}

	projection, err := s.projectForAccount(in.AccountID, s.cfg.MonthsAhead)
	if err != nil {
		return nil, out, err
	}

	matched := billing.AssignTransaction(eventDate, projection.Projections)
	out = assignTransactionOutput{
		AccountID: in.AccountID,
		Date:      in.Date,
		Matched:   matched,
	}
	if matched != nil {
		out.Message = fmt.Sprintf("Transaction falls in the cycle ending %s with payment due %s.",
			matched.CycleEndDate.Format("2006-01-02"), matched.PaymentDueDate.Format("2006-01-02"))
	} else {
		out.Message = "Transaction date falls outside every projected cycle."
	}
	return nil, out, nil
}

type confidenceInput struct {
	AccountID         string   `json:"account_id"`
	Source            string   `json:"source,omitempty"`
	DataAgeHours      *float64 `json:"data_age_hours,omitempty"`
	PatternConfidence *float64 `json:"pattern_confidence,omitempty"`
}

type confidenceOutput struct {
	AccountID    string             `json:"account_id"`
	Source       billing.DataSource `json:"source"`
	DataAgeHours float64            `json:"data_age_hours"`
	Confidence   float64            `json:"confidence"`
	Message      string             `json:"message"`
}

func (s *Server) handleGetConfidence(ctx context.Context, req *sdk.CallToolRequest, in confidenceInput) (*sdk.CallToolResult, confidenceOutput, error) {
	var out confidenceOutput

	if in.AccountID == "" {
		return nil, out, fmt.Errorf("account_id is required")
	}

	source := s.store.Provenance(in.AccountID)
	if in.Source != "" {
		source = billing.DataSource(in.Source)
	}

	ageHours := s.store.DataAgeHours(in.AccountID, s.now())
	if in.DataAgeHours != nil {
		if *in.DataAgeHours < 0 {
			return nil, out, fmt.Errorf("data_age_hours must be non-negative")
		}
		ageHours = *in.DataAgeHours
	}

	patternConfidence := billing.AnalyzePattern(s.store.Cycles(in.AccountID)).Pattern.Confidence
	if in.PatternConfidence != nil {
		patternConfidence = *in.PatternConfidence
	}

	confidence := billing.CycleConfidence(source, ageHours, patternConfidence)
	out = confidenceOutput{
		AccountID:    in.AccountID,
		Source:       source,
		DataAgeHours: ageHours,
		Confidence:   confidence,
		Message:      billing.ConfidenceMessage(confidence),
	}
	return nil, out, nil
}

type portfolioInput struct {
	AccountIDs []string `json:"account_ids,omitempty"`
}

type portfolioOutput struct {
	Results map[string]billing.PatternAnalysisResult `json:"results"`
	Summary billing.PortfolioSummary                 `json:"summary"`
}

func (s *Server) handleAnalyzePortfolio(ctx context.Context, req *sdk.CallToolRequest, in portfolioInput) (*sdk.CallToolResult, portfolioOutput, error) {
	var out portfolioOutput

	histories := s.store.Histories()
	if len(in.AccountIDs) > 0 {
		filtered := make(map[string][]billing.HistoricalCycle, len(in.AccountIDs))
		for _, id := range in.AccountIDs {
			cycles, ok := histories[id]
			if !ok {
				return nil, out, fmt.Errorf("no observed cycles for account %q", id)
			}
			filtered[id] = cycles
		}
		histories = filtered
	}

	results, err := billing.AnalyzeAccounts(ctx, histories)
	if err != nil {
		return nil, out, err
	}

	out = portfolioOutput{
		Results: results,
		Summary: billing.SummarizePortfolio(results),
	}
	return nil, out, nil
}
