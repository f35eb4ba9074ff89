package web

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/guilbd/analise-apostas/config"
	"github.com/guilbd/analise-apostas/logger"
	"github.com/guilbd/analise-apostas/services"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	config     *config.Config
	db         *sql.DB
	wsHub      *Hub
	collector  *services.Collector
	batchStore *services.BatchStore
	statsStore *services.StatsStore
	userStore  *services.UserStore
	templates  *template.Template
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

func NewServer(cfg *config.Config, db *sql.DB, hub *Hub, collector *services.Collector,
	batchStore *services.BatchStore, statsStore *services.StatsStore, userStore *services.UserStore) *Server {

	return &Server{
		config:     cfg,
		db:         db,
		wsHub:      hub,
		collector:  collector,
		batchStore: batchStore,
		statsStore: statsStore,
		userStore:  userStore,
		templates:  template.Must(template.ParseFS(templateFS, "templates/*.html")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // fronted by the reverse proxy
			},
		},
	}
}

func (s *Server) Start() error {
	router := mux.NewRouter()

	// Páginas públicas
	router.HandleFunc("/", s.handleIndex).Methods("GET")
	router.HandleFunc("/login", s.handleLoginPage).Methods("GET")
	router.HandleFunc("/login", s.handleLogin).Methods("POST")
	router.HandleFunc("/logout", s.handleLogout).Methods("GET")

	// Páginas autenticadas
	router.Handle("/dashboard", s.requireAuth(s.handleDashboard)).Methods("GET")
	router.Handle("/palpites", s.requireAuth(s.handlePalpitesPage)).Methods("GET")
	router.Handle("/palpites/historico", s.requireAuth(s.handleHistoricoPage)).Methods("GET")
	router.Handle("/palpites/visualizar/{arquivo}", s.requireAuth(s.handleVisualizarPage)).Methods("GET")

	// API
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.Handle("/coletar_palpites", s.requireAuth(s.handleColetarPalpites)).Methods("POST")
	api.Handle("/palpites/historico", s.requireAuth(s.handleHistoricoAPI)).Methods("GET")
	api.Handle("/stats", s.requireAdmin(s.handleStats)).Methods("GET")

	// WebSocket
	router.Handle("/ws", s.requireAuth(s.handleWebSocket))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      c.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleStats reports operational counters for the dashboard.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	batches, err := s.statsStore.CountBatches()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fixtureStats, err := s.statsStore.CountFixtureStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_batches":       batches,
		"total_fixture_stats": fixtureStats,
		"collection_running":  s.collector.Running(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  s.wsHub,
		conn: conn,
		send: make(chan []byte, 64),
	}
	client.hub.register <- client

	welcome, _ := json.Marshal(&WSMessage{
		Type: "connected",
		Data: map[string]interface{}{"time": time.Now().Unix()},
	})
	client.send <- welcome

	go client.writePump()
	go client.readPump()
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		logger.Errorf("Template %s error: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
