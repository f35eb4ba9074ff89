package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilbd/analise-apostas/config"
	"github.com/guilbd/analise-apostas/models"
	"github.com/guilbd/analise-apostas/pkg/common"
)

type fakeHub struct {
	messages []interface{}
}

func (h *fakeHub) Broadcast(message interface{}) {
	h.messages = append(h.messages, message)
}

const collectorFixturesHTML = `
<html><body><div class="matches-today">
  <div class="match-item">
    <div class="teams">Flamengo vs Palmeiras</div>
    <div class="competition">Brasileirão Série A</div>
    <div class="time">16:00</div>
    <a href="/stats/match/flamengo-palmeiras"></a>
  </div>
  <div class="match-item">
    <div class="teams">Santos vs Grêmio</div>
    <div class="competition">Copa do Brasil</div>
    <div class="time">19:30</div>
    <a href="/stats/match/santos-gremio"></a>
  </div>
</div></body></html>`

const collectorStatsHTML = `
<html><body>
<a href="/team/home">Home</a>
<a href="/team/away">Away</a>
<table class="team-stats">
  <tr><td>Média de gols marcados por jogo</td><td>1,8</td><td>1,2</td></tr>
</table>
<table class="team-stats">
  <tr><td>Média de gols marcados por jogo</td><td>1,8</td><td>1,2</td></tr>
</table>
</body></html>`

func newCollectorTestServer(t *testing.T, failStats bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(collectorFixturesHTML))
	})
	mux.HandleFunc("/stats/match/", func(w http.ResponseWriter, r *http.Request) {
		if failStats {
			http.Error(w, "indisponível", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(collectorStatsHTML))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestCollector(t *testing.T, sourceURL string, hub Broadcaster) (*Collector, *BatchStore) {
	t.Helper()
	cfg := &config.Config{
		SourceBaseURL: sourceURL,
		ScrapeRate:    1000,
		ScrapeBurst:   100,
	}
	batchStore, err := NewBatchStore(t.TempDir())
	require.NoError(t, err)

	parser := NewAcademiaParser(NewAcademiaClient(cfg))
	return NewCollector(parser, NewTipster(), batchStore, nil, hub), batchStore
}

func TestCollectProducesBatch(t *testing.T) {
	server := newCollectorTestServer(t, false)
	hub := &fakeHub{}
	collector, batchStore := newTestCollector(t, server.URL, hub)

	result, err := collector.Collect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "Coletados palpites para 2 jogos", result.Message)
	require.Len(t, result.Batch, 2)
	assert.Equal(t, "Flamengo vs Palmeiras", result.Batch[0].MatchLabel)

	// Every fixture carries at least the 1x2 pick and the exact-score block.
	pick, err := result.Batch[0].Markets.Prediction(models.MarketMatchOdds)
	require.NoError(t, err)
	require.NotNil(t, pick)
	scores, err := result.Batch[0].Markets.ExactScores()
	require.NoError(t, err)
	assert.Len(t, scores, 3)

	// The batch is persisted and loadable under the reported filename.
	loaded, err := batchStore.Load(result.Filename)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	require.Len(t, hub.messages, 1)
	message, ok := hub.messages[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "batch_generated", message["type"])
}

func TestCollectRejectsConcurrentRun(t *testing.T) {
	server := newCollectorTestServer(t, false)
	collector, _ := newTestCollector(t, server.URL, nil)

	collector.running.Store(true)
	_, err := collector.Collect(context.Background())
	assert.ErrorIs(t, err, common.ErrCollectionRunning)

	collector.running.Store(false)
	_, err = collector.Collect(context.Background())
	assert.NoError(t, err, "flag must clear once the previous run finishes")
}

func TestCollectNoFixtures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body></body></html>"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	collector, _ := newTestCollector(t, server.URL, nil)
	_, err := collector.Collect(context.Background())
	assert.ErrorIs(t, err, common.ErrNoFixtures)
}

func TestCollectAllFixturesFailing(t *testing.T) {
	server := newCollectorTestServer(t, true)
	collector, _ := newTestCollector(t, server.URL, nil)

	// Stats pages erroring skips every fixture, leaving nothing to save.
	_, err := collector.Collect(context.Background())
	assert.ErrorIs(t, err, common.ErrNoFixtures)
}

func TestCollectCancelledContext(t *testing.T) {
	server := newCollectorTestServer(t, false)
	collector, _ := newTestCollector(t, server.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := collector.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
