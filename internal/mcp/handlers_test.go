package mcp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"billcycle-mcp/internal/config"
	"billcycle-mcp/internal/history"
)

// newTestServer builds a server with an isolated cache dir and a frozen
// clock, bypassing Start so handlers are exercised directly.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		cfg: &config.AppConfig{
			CacheDir:    t.TempDir(),
			MonthsAhead: 12,
		},
		store: history.NewStore(),
		now:   func() time.Time { return time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC) },
	}
}

// importMonths seeds n monthly cycles closing on the 15th, Jan 2024 onward.
func importMonths(t *testing.T, s *Server, accountID string, n int) {
	t.Helper()

	records := make([]cycleRecord, 0, n)
	for i := 0; i < n; i++ {
		statement := time.Date(2024, time.January+time.Month(i), 15, 0, 0, 0, 0, time.UTC)
		records = append(records, cycleRecord{
			StatementDate: statement.Format("2006-01-02"),
			DueDate:       statement.AddDate(0, 0, 21).Format("2006-01-02"),
		})
	}

	_, out, err := s.handleImportCycles(context.Background(), nil, importCyclesInput{
		AccountID: accountID,
		Source:    "plaid",
		Cycles:    records,
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if out.Imported != n {
		t.Fatalf("imported %d cycles, want %d", out.Imported, n)
	}
}

func TestHandleImportCyclesValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		input importCyclesInput
	}{
		{"MissingAccount", importCyclesInput{Cycles: []cycleRecord{{StatementDate: "2024-01-15", DueDate: "2024-02-05"}}}},
		{"NoCycles", importCyclesInput{AccountID: "acct"}},
		{"MalformedDate", importCyclesInput{AccountID: "acct", Cycles: []cycleRecord{{StatementDate: "15.01.2024", DueDate: "2024-02-05"}}}},
		{"DueBeforeStatement", importCyclesInput{AccountID: "acct", Cycles: []cycleRecord{{StatementDate: "2024-02-05", DueDate: "2024-01-15"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.handleImportCycles(context.Background(), nil, tt.input); err == nil {
				t.Error("invalid input accepted, want error")
			}
		})
	}
}

func TestHandleImportCyclesReportsDuplicates(t *testing.T) {
	s := newTestServer(t)
	importMonths(t, s, "acct", 3)

	_, out, err := s.handleImportCycles(context.Background(), nil, importCyclesInput{
		AccountID: "acct",
		Cycles: []cycleRecord{
			{StatementDate: "2024-01-15", DueDate: "2024-02-05"},
			{StatementDate: "2024-04-15", DueDate: "2024-05-06"},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if out.Imported != 1 || out.Duplicates != 1 || out.TotalObserved != 4 {
		t.Errorf("output = %+v, want 1 imported / 1 duplicate / 4 total", out)
	}
}

func TestHandleAnalyzePattern(t *testing.T) {
	s := newTestServer(t)
	importMonths(t, s, "acct", 6)

	_, out, err := s.handleAnalyzePattern(context.Background(), nil, accountInput{AccountID: "acct"})
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if out.Result.Quality != "high" {
		t.Errorf("quality = %v, want high for six regular cycles", out.Result.Quality)
	}
	if out.Result.Pattern.StatementDayOfMonth == nil || *out.Result.Pattern.StatementDayOfMonth != 15 {
		t.Errorf("statement day = %v, want 15", out.Result.Pattern.StatementDayOfMonth)
	}

	// Unknown accounts degrade to the default pattern rather than erroring.
	_, out, err = s.handleAnalyzePattern(context.Background(), nil, accountInput{AccountID: "unknown"})
	if err != nil {
		t.Fatalf("analyze of unknown account errored: %v", err)
	}
	if out.Result.Quality != "low" || out.Result.Pattern.Confidence != 0.3 {
		t.Errorf("unknown account result = %+v, want the conservative default", out.Result)
	}
}

func TestHandleProjectCycles(t *testing.T) {
	s := newTestServer(t)
	importMonths(t, s, "acct", 6)

	three := 3
	_, out, err := s.handleProjectCycles(context.Background(), nil, projectCyclesInput{AccountID: "acct", MonthsAhead: &three})
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}

	if len(out.Projections) != 3 {
		t.Fatalf("got %d projections, want 3", len(out.Projections))
	}
	// Last observed statement closed June 15; the anchored day pattern
	// continues on the 15th.
	want := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)
	if !out.Projections[0].CycleEndDate.Equal(want) {
		t.Errorf("first projected statement = %v, want %v", out.Projections[0].CycleEndDate, want)
	}
	if out.Message == "" {
		t.Error("message is empty")
	}
	if out.CycleConfidence <= 0 || out.CycleConfidence > 1 {
		t.Errorf("cycle confidence = %v, outside (0,1]", out.CycleConfidence)
	}

	if _, _, err := s.handleProjectCycles(context.Background(), nil, projectCyclesInput{AccountID: "empty"}); err == nil {
		t.Error("projection without history accepted, want error")
	}

	negative := -2
	if _, _, err := s.handleProjectCycles(context.Background(), nil, projectCyclesInput{AccountID: "acct", MonthsAhead: &negative}); err == nil {
		t.Error("negative months_ahead accepted, want error")
	}
}

func TestHandleProjectCyclesAttachesCharts(t *testing.T) {
	s := newTestServer(t)
	s.cfg.EnableMermaidCharts = true
	importMonths(t, s, "acct", 6)

	_, out, err := s.handleProjectCycles(context.Background(), nil, projectCyclesInput{AccountID: "acct"})
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}
	if out.TimelineChart == "" || out.ConfidenceChart == "" {
		t.Error("charts missing with ENABLE_MERMAID_CHARTS set")
	}
}

func TestHandleAssignTransaction(t *testing.T) {
	s := newTestServer(t)
	importMonths(t, s, "acct", 6)

	// June 20 falls in the first projected cycle (Jun 16 .. Jul 15).
	_, out, err := s.handleAssignTransaction(context.Background(), nil, assignTransactionInput{AccountID: "acct", Date: "2024-06-20"})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if out.Matched == nil {
		t.Fatal("no cycle matched, want the June/July cycle")
	}
	want := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)
	if !out.Matched.CycleEndDate.Equal(want) {
		t.Errorf("matched cycle ends %v, want %v", out.Matched.CycleEndDate, want)
	}

	// A date before every projected cycle matches nothing.
	_, out, err = s.handleAssignTransaction(context.Background(), nil, assignTransactionInput{AccountID: "acct", Date: "2023-01-01"})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if out.Matched != nil {
		t.Errorf("matched %+v, want none", out.Matched)
	}

	if _, _, err := s.handleAssignTransaction(context.Background(), nil, assignTransactionInput{AccountID: "acct", Date: "junk"}); err == nil {
		t.Error("malformed date accepted, want error")
	}
}

func TestHandleGetConfidence(t *testing.T) {
	s := newTestServer(t)
	importMonths(t, s, "acct", 6)

	_, out, err := s.handleGetConfidence(context.Background(), nil, confidenceInput{AccountID: "acct"})
	if err != nil {
		t.Fatalf("confidence failed: %v", err)
	}
	if out.Source != "plaid" {
		t.Errorf("source = %v, want plaid", out.Source)
	}
	if out.Confidence <= 0 || out.Confidence > 1 {
		t.Errorf("confidence = %v, outside (0,1]", out.Confidence)
	}

	// Overrides exercise the staleness curve: plaid data 72h old with 0.9
	// pattern confidence scores 0.87.
	age := 72.0
	pc := 0.9
	_, out, err = s.handleGetConfidence(context.Background(), nil, confidenceInput{
		AccountID:         "acct",
		Source:            "plaid",
		DataAgeHours:      &age,
		PatternConfidence: &pc,
	})
	if err != nil {
		t.Fatalf("confidence with overrides failed: %v", err)
	}
	if got := fmt.Sprintf("%.4f", out.Confidence); got != "0.8700" {
		t.Errorf("confidence = %s, want 0.8700", got)
	}

	bad := -1.0
	if _, _, err := s.handleGetConfidence(context.Background(), nil, confidenceInput{AccountID: "acct", DataAgeHours: &bad}); err == nil {
		t.Error("negative data_age_hours accepted, want error")
	}
}

func TestHandleAnalyzePortfolio(t *testing.T) {
	s := newTestServer(t)
	importMonths(t, s, "alpha", 6)
	importMonths(t, s, "beta", 2)

	_, out, err := s.handleAnalyzePortfolio(context.Background(), nil, portfolioInput{})
	if err != nil {
		t.Fatalf("portfolio failed: %v", err)
	}
	if out.Summary.Accounts != 2 {
		t.Errorf("accounts = %d, want 2", out.Summary.Accounts)
	}
	if out.Results["alpha"].Quality != "high" || out.Results["beta"].Quality != "low" {
		t.Errorf("qualities = %v / %v, want high / low", out.Results["alpha"].Quality, out.Results["beta"].Quality)
	}

	_, out, err = s.handleAnalyzePortfolio(context.Background(), nil, portfolioInput{AccountIDs: []string{"alpha"}})
	if err != nil {
		t.Fatalf("filtered portfolio failed: %v", err)
	}
	if out.Summary.Accounts != 1 {
		t.Errorf("filtered accounts = %d, want 1", out.Summary.Accounts)
	}

	if _, _, err := s.handleAnalyzePortfolio(context.Background(), nil, portfolioInput{AccountIDs: []string{"ghost"}}); err == nil {
		t.Error("unknown account filter accepted, want error")
	}
}
