package services

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/guilbd/analise-apostas/models"
)

// StatsStore persists collection-run records: the batch index and the raw
// scraped statistics each prediction was derived from.
type StatsStore struct {
	db *sql.DB
}

func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// SaveBatchRecord indexes one generated batch file.
func (s *StatsStore) SaveBatchRecord(runID, filename string, fixtures int, generatedAt time.Time) error {
	query := `
		INSERT INTO prediction_batches (run_id, filename, fixtures, generated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (filename) DO NOTHING
	`
	_, err := s.db.Exec(query, runID, filename, fixtures, generatedAt)
	return err
}

// SaveFixtureStats stores the raw scraped statistics behind one fixture's
// prediction, for later auditing of the picks.
func (s *StatsStore) SaveFixtureStats(runID string, fixture models.Fixture, stats *models.MatchStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO fixture_stats (run_id, match_label, competition, kickoff, stats_json)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = s.db.Exec(query, runID, fixture.Label(), fixture.Competition, fixture.Kickoff, payload)
	return err
}

// RecentBatches returns the newest indexed batches.
func (s *StatsStore) RecentBatches(limit int) ([]models.BatchRecord, error) {
	query := `
		SELECT id, run_id, filename, fixtures, generated_at
		FROM prediction_batches
		ORDER BY generated_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.BatchRecord
	for rows.Next() {
		var record models.BatchRecord
		if err := rows.Scan(&record.ID, &record.RunID, &record.Filename, &record.Fixtures, &record.GeneratedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CountBatches returns the total number of indexed batches.
func (s *StatsStore) CountBatches() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM prediction_batches`).Scan(&count)
	return count, err
}

// CountFixtureStats returns the total number of stored fixture stat rows.
func (s *StatsStore) CountFixtureStats() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM fixture_stats`).Scan(&count)
	return count, err
}
