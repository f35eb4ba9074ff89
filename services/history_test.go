package services

import (
	"errors"
	"testing"
	"time"

	"github.com/guilbd/analise-apostas/models"
	"github.com/guilbd/analise-apostas/pkg/common"
)

func testBatch() models.Batch {
	markets := models.MarketMap{}
	_ = markets.Set(models.MarketMatchOdds, models.MarketPrediction{Pick: "1", Confidence: "55.0%"})
	return models.Batch{
		{
			MatchLabel:  "Flamengo vs Palmeiras",
			Competition: "Brasileirão Série A",
			Kickoff:     "16:00",
			Markets:     markets,
		},
	}
}

func TestBatchStoreSaveAndLoad(t *testing.T) {
	store, err := NewBatchStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	generatedAt := time.Date(2026, 8, 28, 14, 30, 5, 0, time.Local)
	filename, err := store.Save(testBatch(), generatedAt)
	if err != nil {
		t.Fatalf("Failed to save batch: %v", err)
	}
	if filename != "palpites_20260828_143005.json" {
		t.Errorf("Unexpected filename: %s", filename)
	}

	loaded, err := store.Load(filename)
	if err != nil {
		t.Fatalf("Failed to load batch: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 fixture, got %d", len(loaded))
	}
	if loaded[0].MatchLabel != "Flamengo vs Palmeiras" {
		t.Errorf("Unexpected match label: %s", loaded[0].MatchLabel)
	}
}

func TestBatchStoreLoadMissing(t *testing.T) {
	store, err := NewBatchStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	_, err = store.Load("palpites_20260101_000000.json")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBatchStoreLoadRejectsBadNames(t *testing.T) {
	store, err := NewBatchStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	for _, name := range []string{
		"../palpites_20260101_000000.json",
		"/etc/passwd",
		"notes.txt",
		"palpites_20260101_000000.txt",
	} {
		if _, err := store.Load(name); !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("Load(%q) error = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestBatchStoreListNewestFirst(t *testing.T) {
	store, err := NewBatchStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	times := []time.Time{
		time.Date(2026, 8, 26, 10, 0, 0, 0, time.Local),
		time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local),
		time.Date(2026, 8, 27, 22, 15, 0, 0, time.Local),
	}
	for _, ts := range times {
		if _, err := store.Save(testBatch(), ts); err != nil {
			t.Fatalf("Failed to save batch: %v", err)
		}
	}

	history, err := store.List(0)
	if err != nil {
		t.Fatalf("Failed to list batches: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(history))
	}
	if history[0].Filename != "palpites_20260828_090000.json" {
		t.Errorf("Expected newest batch first, got %s", history[0].Filename)
	}
	if history[2].Filename != "palpites_20260826_100000.json" {
		t.Errorf("Expected oldest batch last, got %s", history[2].Filename)
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatalf("Failed to list batches: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected limit to cap entries at 2, got %d", len(limited))
	}
}

func TestResolveBatchLabel(t *testing.T) {
	label := ResolveBatchLabel("palpites_20260828_143005.json")
	if label != "28/08/2026 14:30:05" {
		t.Errorf("Unexpected label: %s", label)
	}
}

func TestResolveBatchLabelFallsBackToFilename(t *testing.T) {
	for _, name := range []string{
		"palpites_notadate.json",
		"palpites_2026.json",
		"arquivo.json",
	} {
		if got := ResolveBatchLabel(name); got != name {
			t.Errorf("ResolveBatchLabel(%q) = %q, want the raw filename", name, got)
		}
	}
}

func TestParseBatchTimestamp(t *testing.T) {
	ts, err := ParseBatchTimestamp("palpites_20260828_143005.json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := time.Date(2026, 8, 28, 14, 30, 5, 0, time.Local)
	if !ts.Equal(want) {
		t.Errorf("Expected %v, got %v", want, ts)
	}

	if _, err := ParseBatchTimestamp("palpites_bad.json"); !errors.Is(err, common.ErrBadBatchName) {
		t.Errorf("Expected ErrBadBatchName, got %v", err)
	}
}
