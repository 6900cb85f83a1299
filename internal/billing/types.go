package billing

import (
	"time"
)

// DataSource tags the provenance of an account's observations.
type DataSource string

const (
	SourcePlaid    DataSource = "plaid"
	SourceInferred DataSource = "inferred"
	SourceManual   DataSource = "manual"
)

// PatternQuality classifies how trustworthy a detected pattern is.
type PatternQuality string

const (
	QualityHigh   PatternQuality = "high"
	QualityMedium PatternQuality = "medium"
	QualityLow    PatternQuality = "low"
)

// HistoricalCycle is one observed billing cycle as supplied by the caller.
// Entries may arrive unsorted and need not be contiguous.
type HistoricalCycle struct {
	StatementDate    time.Time `json:"statement_date"`
	DueDate          time.Time `json:"due_date"`
	StatementBalance *float64  `json:"statement_balance,omitempty"`
}

// BillingCyclePattern describes the recurring schedule inferred from history.
// It is recomputed on every analysis call and never mutated in place.
type BillingCyclePattern struct {
	TypicalCycleLength  int     `json:"typical_cycle_length"` // days between statements
	StatementDayOfMonth *int    `json:"statement_day_of_month"` // nil = no consistent day
	DueDateOffset       int     `json:"due_date_offset"` // days from statement to due date
	Confidence          float64 `json:"confidence"`      // [0,1]
}

// BillingCycleProjection is one extrapolated future cycle.
type BillingCycleProjection struct {
	CycleStartDate time.Time `json:"cycle_start_date"`
	CycleEndDate   time.Time `json:"cycle_end_date"`
	PaymentDueDate time.Time `json:"payment_due_date"`
	IsProjected    bool      `json:"is_projected"`
	Confidence     float64   `json:"confidence"`
}

// PatternAnalysisResult is the full analyzer output: the detected pattern,
// a quality classification, and diagnostic insights. Insights are for
// presentation only and carry no semantic weight downstream.
type PatternAnalysisResult struct {
	Pattern    BillingCyclePattern `json:"pattern"`
	Quality    PatternQuality      `json:"quality"`
	Insights   []string            `json:"insights"`
	SampleSize int                 `json:"sample_size"`
}
