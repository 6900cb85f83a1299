package billing

import "time"

// AssignTransaction maps a point-in-time event, such as a purchase, to the
// first cycle whose closed interval [CycleStartDate, CycleEndDate] contains
// it. Cycles are scanned in the order given; projected cycles do not overlap
// by construction, but the contract does not enforce non-overlap. Returns nil
// when no cycle matches.
func AssignTransaction(eventDate time.Time, cycles []BillingCycleProjection) *BillingCycleProjection {
	day := StartOfDay(eventDate)
	for i := range cycles {
		if !day.Before(cycles[i].CycleStartDate) && !day.After(cycles[i].CycleEndDate) {
			return &cycles[i]
		}
	}
	return nil
}
