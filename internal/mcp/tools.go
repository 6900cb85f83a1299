package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools(server *sdk.Server) {
	sdk.AddTool(server, &sdk.Tool{
		Name: "import_cycles",
		Description: "Record observed billing cycles (statement date, due date, optional balance) for a credit-card account. " +
			"Guidance: import at least 3 cycles before analysis and 6 for high-quality patterns; duplicates are ignored. " +
			"Tag the provenance honestly: 'plaid' for bank-sourced data, 'inferred' for derived data, 'manual' for user entry.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"account_id": {Type: "string", Description: "Stable identifier of the credit-card account"},
				"source": {
					Type:        "string",
					Enum:        []any{"plaid", "inferred", "manual"},
					Description: "Provenance of these observations (default: manual)",
				},
				"cycles": {
					Type:        "array",
					Description: "Observed cycles; order does not matter",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"statement_date":    {Type: "string", Description: "Statement close date (YYYY-MM-DD)"},
							"due_date":          {Type: "string", Description: "Payment due date (YYYY-MM-DD)"},
							"statement_balance": {Type: "number", Description: "Optional statement balance"},
						},
						Required: []string{"statement_date", "due_date"},
					},
				},
			},
			Required: []string{"account_id", "cycles"},
		},
	}, s.handleImportCycles)

	sdk.AddTool(server, &sdk.Tool{
		Name: "analyze_pattern",
		Description: "Detect the recurring billing schedule of an account from its observed cycles: typical cycle length, " +
			"statement day of month, due-date offset, and a confidence score with quality classification. " +
			"Thin or irregular history never fails; it returns a conservative default pattern with low confidence. " +
			"STRICT GUARDRAIL: DO NOT estimate billing schedules yourself when this tool reports low quality; " +
			"report the low confidence to the user instead.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"account_id": {Type: "string", Description: "The account to analyze"},
			},
			Required: []string{"account_id"},
		},
	}, s.handleAnalyzePattern)

	sdk.AddTool(server, &sdk.Tool{
		Name: "project_cycles",
		Description: "Extrapolate the detected pattern into future statement/due-date pairs starting after the most recent " +
			"observed cycle. Per-cycle confidence decays with distance; the overall cycle confidence additionally discounts " +
			"data provenance and staleness. Use 'analyze_pattern' first to judge whether projections are trustworthy.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"account_id":   {Type: "string", Description: "The account to project"},
				"months_ahead": {Type: "integer", Description: "Number of future cycles to project (default from configuration)"},
			},
			Required: []string{"account_id"},
		},
	}, s.handleProjectCycles)

	sdk.AddTool(server, &sdk.Tool{
		Name: "assign_transaction",
		Description: "Map a transaction date to the projected billing cycle whose statement period contains it " +
			"(boundaries inclusive), answering which statement a purchase will appear on and when it must be paid.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"account_id": {Type: "string", Description: "The account the transaction belongs to"},
				"date":       {Type: "string", Description: "Transaction date (YYYY-MM-DD)"},
			},
			Required: []string{"account_id", "date"},
		},
	}, s.handleAssignTransaction)

	sdk.AddTool(server, &sdk.Tool{
		Name: "get_confidence",
		Description: "Score how trustworthy an account's projected schedule is by combining pattern confidence, data " +
			"provenance (plaid > inferred > manual), and staleness (decay beyond 48 hours, floored at 30 days). " +
			"Returns the score plus the user-facing message to display alongside projections. " +
			"Explicit overrides exist for what-if scoring.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"account_id": {Type: "string", Description: "The account to score"},
				"source": {
					Type:        "string",
					Enum:        []any{"plaid", "inferred", "manual"},
					Description: "Optional override of the stored provenance",
				},
				"data_age_hours":     {Type: "number", Description: "Optional override of the observed data age in hours"},
				"pattern_confidence": {Type: "number", Description: "Optional override of the analyzed pattern confidence (0-1)"},
			},
			Required: []string{"account_id"},
		},
	}, s.handleGetConfidence)

	sdk.AddTool(server, &sdk.Tool{
		Name: "analyze_portfolio",
		Description: "Analyze every known account (or a given subset) in one pass and summarize pattern quality across the " +
			"portfolio. Accounts are independent, so the analysis fans out concurrently.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"account_ids": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Optional subset of accounts; default is every account with history",
				},
			},
		},
	}, s.handleAnalyzePortfolio)
}
