package visuals

import (
	"fmt"
	"math"
	"strings"

	"billcycle-mcp/internal/billing"
)

// GenerateCycleTimeline creates a Mermaid gantt chart of projected billing
// cycles: one bar per statement period plus a milestone for each due date.
func GenerateCycleTimeline(accountID string, projections []billing.BillingCycleProjection) string {
	if len(projections) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("gantt\n")
	sb.WriteString(fmt.Sprintf("    title Projected Billing Cycles (%s)\n", accountID))
	sb.WriteString("    dateFormat YYYY-MM-DD\n")
	sb.WriteString("    axisFormat %b %d\n")

	for i, p := range projections {
		sb.WriteString(fmt.Sprintf("    section Cycle %d\n", i+1))
		sb.WriteString(fmt.Sprintf("    Statement period : cycle%d, %s, %s\n",
			i+1, p.CycleStartDate.Format("2006-01-02"), p.CycleEndDate.Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("    Payment due : milestone, due%d, %s, 0d\n",
			i+1, p.PaymentDueDate.Format("2006-01-02")))
	}

	sb.WriteString("```")
	return sb.String()
}

// GenerateConfidenceDecayChart creates a Mermaid xychart showing how
// projection confidence decays with distance into the future.
func GenerateConfidenceDecayChart(projections []billing.BillingCycleProjection) string {
	if len(projections) == 0 {
		return ""
	}

	var labels []string
	var values []string

	maxY := 0.0
	for _, p := range projections {
		labels = append(labels, fmt.Sprintf("\"%s\"", p.CycleEndDate.Format("Jan02")))
		values = append(values, fmt.Sprintf("%.2f", p.Confidence))
		if p.Confidence > maxY {
			maxY = p.Confidence
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Projection Confidence Decay\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Confidence\" 0 --> %.1f\n", math.Min(1.0, maxY*1.2+0.1)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
