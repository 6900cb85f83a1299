package history

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"billcycle-mcp/internal/billing"
)

// Observation is one recorded billing cycle for an account, tagged with its
// provenance and the moment it was recorded. RecordedAt feeds data-staleness
// scoring; it defaults to the append time when the caller omits it.
type Observation struct {
	AccountID        string             `json:"account_id"`
	StatementDate    time.Time          `json:"statement_date"`
	DueDate          time.Time          `json:"due_date"`
	StatementBalance *float64           `json:"statement_balance,omitempty"`
	Source           billing.DataSource `json:"source"`
	RecordedAt       time.Time          `json:"recorded_at"`
}

// identity is the deduplication key: one observation per account and
// statement/due pair.
func (o Observation) identity() string {
	return fmt.Sprintf("%s|%s|%s", o.AccountID, o.StatementDate.Format("2006-01-02"), o.DueDate.Format("2006-01-02"))
}

// Store provides thread-safe storage for cycle observations, partitioned by
// account. The billing engine itself never touches this package; the store is
// the persistence collaborator that feeds it.
type Store struct {
	mu   sync.RWMutex
	logs map[string][]Observation
}

// NewStore creates an empty observation store.
func NewStore() *Store {
	return &Store{logs: make(map[string][]Observation)}
}

// Append adds observations for an account, deduplicating by statement/due
// pair and keeping statement-date order. Returns the number of new entries.
func (s *Store) Append(accountID string, observations []Observation) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logs[accountID]

	existing := make(map[string]bool, len(log))
	for _, o := range log {
		existing[o.identity()] = true
	}

	now := time.Now()
	newCount := 0
	for _, o := range observations {
		o.AccountID = accountID
		if o.RecordedAt.IsZero() {
			o.RecordedAt = now
		}
		if !existing[o.identity()] {
			existing[o.identity()] = true
			log = append(log, o)
			newCount++
		}
	}

	if newCount == 0 {
		return 0
	}

	sort.SliceStable(log, func(i, j int) bool {
		return log[i].StatementDate.Before(log[j].StatementDate)
	})
	s.logs[accountID] = log
	return newCount
}

// Cycles materializes an account's observations as engine input, in
// statement-date order.
func (s *Store) Cycles(accountID string) []billing.HistoricalCycle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[accountID]
	cycles := make([]billing.HistoricalCycle, len(log))
	for i, o := range log {
		cycles[i] = billing.HistoricalCycle{
			StatementDate:    o.StatementDate,
			DueDate:          o.DueDate,
			StatementBalance: o.StatementBalance,
		}
	}
	return cycles
}

// LatestCycle returns the most recent observed cycle for an account, or false
// when no history exists.
func (s *Store) LatestCycle(accountID string) (billing.HistoricalCycle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[accountID]
	if len(log) == 0 {
		return billing.HistoricalCycle{}, false
	}
	last := log[len(log)-1]
	return billing.HistoricalCycle{
		StatementDate:    last.StatementDate,
		DueDate:          last.DueDate,
		StatementBalance: last.StatementBalance,
	}, true
}

// Provenance returns the source of the most recently recorded observation.
// Projections extend the freshest data, so that is the source they inherit.
// Accounts without history report manual, the conservative floor.
func (s *Store) Provenance(accountID string) billing.DataSource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.logs[accountID]
	if len(log) == 0 {
		return billing.SourceManual
	}

	latest := log[0]
	for _, o := range log[1:] {
		if o.RecordedAt.After(latest.RecordedAt) {
			latest = o
		}
	}
	return latest.Source
}

// DataAgeHours reports how stale an account's freshest observation is
// relative to now.
func (s *Store) DataAgeHours(accountID string, now time.Time) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest time.Time
	for _, o := range s.logs[accountID] {
		if o.RecordedAt.After(latest) {
			latest = o.RecordedAt
		}
	}
	if latest.IsZero() {
		return 0
	}

	age := now.Sub(latest).Hours()
	if age < 0 {
		return 0
	}
	return age
}

// Accounts lists every account with at least one observation, sorted for
// deterministic output.
func (s *Store) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]string, 0, len(s.logs))
	for id, log := range s.logs {
		if len(log) > 0 {
			accounts = append(accounts, id)
		}
	}
	sort.Strings(accounts)
	return accounts
}

// Count returns the number of observations held for an account.
func (s *Store) Count(accountID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs[accountID])
}

// Histories snapshots every account's cycles for portfolio-wide analysis.
func (s *Store) Histories() map[string][]billing.HistoricalCycle {
	histories := make(map[string][]billing.HistoricalCycle)
	for _, accountID := range s.Accounts() {
		histories[accountID] = s.Cycles(accountID)
	}
	return histories
}

// Clear drops all observations for an account.
func (s *Store) Clear(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, accountID)
}
