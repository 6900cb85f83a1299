package billing

import (
	"testing"
	"time"
)

func TestAssignTransaction(t *testing.T) {
	february := BillingCycleProjection{
		CycleStartDate: day(2024, time.February, 1),
		CycleEndDate:   day(2024, time.February, 29),
		PaymentDueDate: day(2024, time.March, 21),
		IsProjected:    true,
		Confidence:     0.85,
	}
	march := BillingCycleProjection{
		CycleStartDate: day(2024, time.March, 1),
		CycleEndDate:   day(2024, time.March, 31),
		PaymentDueDate: day(2024, time.April, 21),
		IsProjected:    true,
		Confidence:     0.8,
	}
	cycles := []BillingCycleProjection{february, march}

	tests := []struct {
		name     string
		event    time.Time
		expected *BillingCycleProjection
	}{
		{"StartBoundaryInclusive", day(2024, time.February, 1), &february},
		{"EndBoundaryInclusive", day(2024, time.February, 29), &february},
		{"MidCycle", day(2024, time.February, 14), &february},
		{"NextCycle", day(2024, time.March, 1), &march},
		{"BeforeAllCycles", day(2024, time.January, 31), nil},
		{"AfterAllCycles", day(2024, time.April, 1), nil},
		{"IntradayTimestampNormalized", time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC), &february},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignTransaction(tt.event, cycles)

			if tt.expected == nil {
				if got != nil {
					t.Errorf("AssignTransaction() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("AssignTransaction() = nil, want cycle ending %v", tt.expected.CycleEndDate)
			}
			if !got.CycleEndDate.Equal(tt.expected.CycleEndDate) {
				t.Errorf("AssignTransaction() matched cycle ending %v, want %v", got.CycleEndDate, tt.expected.CycleEndDate)
			}
		})
	}
}

func TestAssignTransactionEmptyCycles(t *testing.T) {
	if got := AssignTransaction(day(2024, time.February, 1), nil); got != nil {
		t.Errorf("AssignTransaction(nil cycles) = %+v, want nil", got)
	}
}

func TestAssignTransactionFirstMatchWins(t *testing.T) {
	// Overlap should not occur by construction, but the contract scans in
	// order and returns the first hit.
	overlapping := []BillingCycleProjection{
		{CycleStartDate: day(2024, time.January, 1), CycleEndDate: day(2024, time.January, 31)},
		{CycleStartDate: day(2024, time.January, 15), CycleEndDate: day(2024, time.February, 14)},
	}

	got := AssignTransaction(day(2024, time.January, 20), overlapping)
	if got == nil || !got.CycleEndDate.Equal(day(2024, time.January, 31)) {
		t.Errorf("AssignTransaction() = %+v, want the first overlapping cycle", got)
	}
}
