package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/guilbd/analise-apostas/logger"
	"github.com/guilbd/analise-apostas/pkg/common"
	"github.com/guilbd/analise-apostas/services"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", map[string]interface{}{})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	recent, err := s.statsStore.RecentBatches(s.config.HistoryEntries)
	if err != nil {
		logger.Errorf("Failed to load recent batches: %v", err)
	}

	s.render(w, "dashboard.html", map[string]interface{}{
		"User":    currentUser(r),
		"Batches": recent,
	})
}

func (s *Server) handlePalpitesPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "palpites.html", map[string]interface{}{
		"User": currentUser(r),
	})
}

// handleColetarPalpites triggers one collection run. The response keeps the
// original contract: status, message and the palpites batch; rendered cards
// ride along so the page can inject them directly. A trigger while a run is
// in flight gets 409 instead of racing a second scrape.
func (s *Server) handleColetarPalpites(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.config.CollectTimeout)
	defer cancel()

	result, err := s.collector.Collect(ctx)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Erro ao coletar palpites: " + err.Error()

		switch {
		case errors.Is(err, common.ErrCollectionRunning):
			status = http.StatusConflict
			message = "Uma coleta já está em andamento"
		case errors.Is(err, common.ErrNoFixtures):
			message = "Nenhum jogo encontrado para hoje"
		}

		logger.Errorf("Collection failed: %v", err)
		writeJSON(w, status, map[string]interface{}{
			"status":  "error",
			"message": message,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"message":  result.Message,
		"arquivo":  result.Filename,
		"palpites": result.Batch,
		"cards":    services.RenderBatch(result.Batch),
	})
}

func (s *Server) handleHistoricoPage(w http.ResponseWriter, r *http.Request) {
	history, err := s.batchStore.List(s.config.HistoryEntries)
	if err != nil {
		logger.Errorf("Failed to list batch history: %v", err)
	}

	s.render(w, "historico.html", map[string]interface{}{
		"User":      currentUser(r),
		"Historico": history,
	})
}

func (s *Server) handleHistoricoAPI(w http.ResponseWriter, r *http.Request) {
	history, err := s.batchStore.List(s.config.HistoryEntries)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"historico": history,
	})
}

func (s *Server) handleVisualizarPage(w http.ResponseWriter, r *http.Request) {
	arquivo := mux.Vars(r)["arquivo"]

	batch, err := s.batchStore.Load(arquivo)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrInvalidInput) {
			http.Redirect(w, r, "/palpites/historico", http.StatusSeeOther)
			return
		}
		logger.Errorf("Failed to load batch %s: %v", arquivo, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, "visualizar.html", map[string]interface{}{
		"User":    currentUser(r),
		"Arquivo": arquivo,
		"Data":    services.ResolveBatchLabel(arquivo),
		"Page":    services.RenderBatch(batch),
	})
}
