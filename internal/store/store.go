package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"estateiq/server/internal/models"
)

// Store holds the in-memory record collections the analysis models read
// from. Transactions and market snapshots are kept sorted by timestamp
// ascending so that "most recent" lookups can take the last element.
// Appends are serialized behind a single writer lock; readers get copies.
type Store struct {
	mu            sync.RWMutex
	logger        *logrus.Logger
	transactions  []models.Transaction
	snapshots     []models.MarketSnapshot
	neighborhoods []models.Neighborhood
}

// NewStore creates an empty record store.
func NewStore(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{logger: logger}
}

// AddTransactions appends transaction records and re-sorts by date.
// Duplicates accumulate; there is no upsert.
func (s *Store) AddTransactions(records []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = append(s.transactions, records...)
	sort.SliceStable(s.transactions, func(i, j int) bool {
		return s.transactions[i].Date.Before(s.transactions[j].Date)
	})
	s.logger.WithField("batch_size", len(records)).Debug("Added transaction batch")
}

// AddMarketSnapshots appends market snapshots and re-sorts by date.
func (s *Store) AddMarketSnapshots(records []models.MarketSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, records...)
	sort.SliceStable(s.snapshots, func(i, j int) bool {
		return s.snapshots[i].Date.Before(s.snapshots[j].Date)
	})
	s.logger.WithField("batch_size", len(records)).Debug("Added market snapshot batch")
}

// AddNeighborhoods appends neighborhood profiles in insertion order.
func (s *Store) AddNeighborhoods(records []models.Neighborhood) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.neighborhoods = append(s.neighborhoods, records...)
	s.logger.WithField("batch_size", len(records)).Debug("Added neighborhood batch")
}

// Transactions returns a copy of all transactions, oldest first.
func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Snapshots returns a copy of all market snapshots, oldest first.
func (s *Store) Snapshots() []models.MarketSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MarketSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}

// SnapshotsForArea returns snapshots whose area matches case-insensitively,
// oldest first.
func (s *Store) SnapshotsForArea(area string) []models.MarketSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.MarketSnapshot
	for _, snap := range s.snapshots {
		if strings.EqualFold(snap.Area, area) {
			out = append(out, snap)
		}
	}
	return out
}

// LatestSnapshot returns the most recent snapshot for an area.
func (s *Store) LatestSnapshot(area string) (models.MarketSnapshot, bool) {
	snaps := s.SnapshotsForArea(area)
	if len(snaps) == 0 {
		return models.MarketSnapshot{}, false
	}
	return snaps[len(snaps)-1], true
}

// RecentSnapshots returns up to n of the most recent snapshots across all
// areas, oldest first.
func (s *Store) RecentSnapshots(n int) []models.MarketSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.snapshots) {
		n = len(s.snapshots)
	}
	out := make([]models.MarketSnapshot, n)
	copy(out, s.snapshots[len(s.snapshots)-n:])
	return out
}

// SnapshotCount returns the total number of market snapshots.
func (s *Store) SnapshotCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// Areas returns the distinct snapshot areas in first-seen order.
func (s *Store) Areas() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var areas []string
	for _, snap := range s.snapshots {
		key := strings.ToLower(snap.Area)
		if !seen[key] {
			seen[key] = true
			areas = append(areas, snap.Area)
		}
	}
	return areas
}

// Neighborhoods returns a copy of all neighborhood profiles in insertion
// order.
func (s *Store) Neighborhoods() []models.Neighborhood {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Neighborhood, len(s.neighborhoods))
	copy(out, s.neighborhoods)
	return out
}
