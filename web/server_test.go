package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilbd/analise-apostas/config"
	"github.com/guilbd/analise-apostas/models"
	"github.com/guilbd/analise-apostas/services"
)

const testFixturesHTML = `
<html><body><div class="matches-today">
  <div class="match-item">
    <div class="teams">Flamengo vs Palmeiras</div>
    <div class="competition">Brasileirão Série A</div>
    <div class="time">16:00</div>
    <a href="/stats/match/flamengo-palmeiras"></a>
  </div>
</div></body></html>`

const testStatsHTML = `
<html><body>
<table class="team-stats">
  <tr><td>Média de gols marcados por jogo</td><td>1,8</td><td>1,2</td></tr>
</table>
<table class="team-stats">
  <tr><td>Média de gols marcados por jogo</td><td>1,8</td><td>1,2</td></tr>
</table>
</body></html>`

// newTestServer wires a Server against a stubbed source site. No database;
// the handlers under test never touch it.
func newTestServer(t *testing.T, fixturesHTML string) *Server {
	t.Helper()

	sourceMux := http.NewServeMux()
	sourceMux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixturesHTML))
	})
	sourceMux.HandleFunc("/stats/match/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testStatsHTML))
	})
	source := httptest.NewServer(sourceMux)
	t.Cleanup(source.Close)

	cfg := &config.Config{
		SourceBaseURL:  source.URL,
		ScrapeRate:     1000,
		ScrapeBurst:    100,
		CollectTimeout: 30 * time.Second,
		HistoryEntries: 10,
	}

	batchStore, err := services.NewBatchStore(t.TempDir())
	require.NoError(t, err)

	parser := services.NewAcademiaParser(services.NewAcademiaClient(cfg))
	collector := services.NewCollector(parser, services.NewTipster(), batchStore, nil, nil)

	return NewServer(cfg, nil, nil, collector, batchStore, nil, nil)
}

func TestIsAPIRequest(t *testing.T) {
	tests := map[string]bool{
		"/api/coletar_palpites": true,
		"/api/health":           true,
		"/dashboard":            false,
		"/":                     false,
		"/apink":                false,
	}
	for path, want := range tests {
		r := httptest.NewRequest("GET", path, nil)
		if got := isAPIRequest(r); got != want {
			t.Errorf("isAPIRequest(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestRequireAuthRedirectsBrowser(t *testing.T) {
	server := newTestServer(t, testFixturesHTML)

	handler := server.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}

func TestRequireAuthAPIGetsJSON401(t *testing.T) {
	server := newTestServer(t, testFixturesHTML)

	handler := server.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/coletar_palpites", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
}

func TestHandleColetarPalpitesSuccess(t *testing.T) {
	server := newTestServer(t, testFixturesHTML)

	recorder := httptest.NewRecorder()
	server.handleColetarPalpites(recorder, httptest.NewRequest("POST", "/api/coletar_palpites", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Status   string              `json:"status"`
		Message  string              `json:"message"`
		Arquivo  string              `json:"arquivo"`
		Palpites models.Batch        `json:"palpites"`
		Cards    services.DisplayPage `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Equal(t, "success", body.Status)
	assert.True(t, strings.HasPrefix(body.Arquivo, "palpites_"))
	require.Len(t, body.Palpites, 1)
	assert.Equal(t, "Flamengo vs Palmeiras", body.Palpites[0].MatchLabel)
	require.Len(t, body.Cards.Cards, 1)
	assert.NotEmpty(t, body.Cards.Cards[0].Primary)
}

func TestHandleColetarPalpitesNoFixtures(t *testing.T) {
	server := newTestServer(t, "<html><body></body></html>")

	recorder := httptest.NewRecorder()
	server.handleColetarPalpites(recorder, httptest.NewRequest("POST", "/api/coletar_palpites", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Nenhum jogo encontrado para hoje", body["message"])
}

func TestHandleHistoricoAPI(t *testing.T) {
	server := newTestServer(t, testFixturesHTML)

	_, err := server.batchStore.Save(models.Batch{}, time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local))
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.handleHistoricoAPI(recorder, httptest.NewRequest("GET", "/api/palpites/historico", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Historico []services.HistoryEntry `json:"historico"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Historico, 1)
	assert.Equal(t, "palpites_20260828_100000.json", body.Historico[0].Filename)
	assert.Equal(t, "28/08/2026 10:00:00", body.Historico[0].Label)
}

func TestHandleVisualizarRedirectsOnMissingBatch(t *testing.T) {
	server := newTestServer(t, testFixturesHTML)

	r := httptest.NewRequest("GET", "/palpites/visualizar/palpites_20200101_000000.json", nil)
	r = mux.SetURLVars(r, map[string]string{"arquivo": "palpites_20200101_000000.json"})

	recorder := httptest.NewRecorder()
	server.handleVisualizarPage(recorder, r)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/palpites/historico", recorder.Header().Get("Location"))
}

func TestHandleVisualizarRejectsTraversal(t *testing.T) {
	server := newTestServer(t, testFixturesHTML)

	r := httptest.NewRequest("GET", "/palpites/visualizar/x", nil)
	r = mux.SetURLVars(r, map[string]string{"arquivo": "../../etc/passwd"})

	recorder := httptest.NewRecorder()
	server.handleVisualizarPage(recorder, r)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
}
