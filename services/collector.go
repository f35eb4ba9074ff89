package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/guilbd/analise-apostas/logger"
	"github.com/guilbd/analise-apostas/models"
	"github.com/guilbd/analise-apostas/pkg/common"
)

// Broadcaster pushes notifications to connected dashboard clients.
type Broadcaster interface {
	Broadcast(message interface{})
}

// CollectionResult is the outcome of one collection run.
type CollectionResult struct {
	RunID    string       `json:"run_id"`
	Filename string       `json:"arquivo"`
	Batch    models.Batch `json:"palpites"`
	Message  string       `json:"message"`
}

// Collector runs the full pipeline: scrape the day's fixtures, collect each
// match's statistics, compute probabilities, generate picks and persist the
// batch. Only one run may be in flight at a time; concurrent triggers are
// rejected at the boundary instead of racing.
type Collector struct {
	parser     *AcademiaParser
	tipster    *Tipster
	batchStore *BatchStore
	statsStore *StatsStore
	hub        Broadcaster

	running atomic.Bool
}

func NewCollector(parser *AcademiaParser, tipster *Tipster, batchStore *BatchStore, statsStore *StatsStore, hub Broadcaster) *Collector {
	return &Collector{
		parser:     parser,
		tipster:    tipster,
		batchStore: batchStore,
		statsStore: statsStore,
		hub:        hub,
	}
}

// Running reports whether a collection run is in flight.
func (c *Collector) Running() bool {
	return c.running.Load()
}

// Collect executes one collection run. Returns ErrCollectionRunning when a
// previous run has not finished. A fixture that fails to scrape or analyse
// is logged and skipped; it never aborts the rest of the run.
func (c *Collector) Collect(ctx context.Context) (*CollectionResult, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, common.ErrCollectionRunning
	}
	defer c.running.Store(false)

	runID := uuid.NewString()
	started := time.Now()
	logger.WithField("run_id", runID).Printf("Collection run started")

	fixtures, err := c.parser.DailyFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect daily fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil, common.ErrNoFixtures
	}

	var batch models.Batch
	for _, fixture := range fixtures {
		prediction, err := c.processFixture(ctx, runID, fixture)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warnf("Skipping fixture %s: %v", fixture.Label(), err)
			continue
		}
		batch = append(batch, *prediction)
	}

	if len(batch) == 0 {
		return nil, common.ErrNoFixtures
	}

	generatedAt := time.Now()
	filename, err := c.batchStore.Save(batch, generatedAt)
	if err != nil {
		return nil, err
	}

	if c.statsStore != nil {
		if err := c.statsStore.SaveBatchRecord(runID, filename, len(batch), generatedAt); err != nil {
			logger.Errorf("Failed to index batch %s: %v", filename, err)
		}
	}

	if c.hub != nil {
		c.hub.Broadcast(map[string]interface{}{
			"type": "batch_generated",
			"data": map[string]interface{}{
				"arquivo": filename,
				"jogos":   len(batch),
				"data":    ResolveBatchLabel(filename),
			},
		})
	}

	logger.WithField("run_id", runID).Printf(
		"Collection run finished: %d/%d fixtures in %s", len(batch), len(fixtures), time.Since(started).Round(time.Millisecond))

	return &CollectionResult{
		RunID:    runID,
		Filename: filename,
		Batch:    batch,
		Message:  fmt.Sprintf("Coletados palpites para %d jogos", len(batch)),
	}, nil
}

func (c *Collector) processFixture(ctx context.Context, runID string, fixture models.Fixture) (*models.FixturePrediction, error) {
	if fixture.StatsURL == "" {
		return nil, fmt.Errorf("fixture has no statistics link")
	}

	stats, err := c.parser.MatchStats(ctx, fixture.StatsURL)
	if err != nil {
		return nil, err
	}

	if c.statsStore != nil {
		if err := c.statsStore.SaveFixtureStats(runID, fixture, stats); err != nil {
			logger.Warnf("Failed to store stats for %s: %v", fixture.Label(), err)
		}
	}

	numbers := ExtractMatchNumbers(stats)
	probs := ComputeProbabilities(numbers)

	prediction, err := c.tipster.BuildFixturePrediction(fixture, probs)
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}
