package main

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"sync"

	"documind/internal/config"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

//go:embed static
var staticFiles embed.FS

// Server holds the console's shared state: one client per open page.
type Server struct {
	cfg      config.Config
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*wsClient // keyed by session ID
}

func NewServer(cfg config.Config, logger *log.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*wsClient),
	}
}

// Routes builds the console's HTTP handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/sessions/{id}/files", s.handleStageFiles)
	mux.HandleFunc("/healthz", s.handleHealthz)

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))

	return corsMiddleware(mux)
}

// ========== Client registry ==========

func (s *Server) register(c *wsClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.session.ID] = c
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
}

func (s *Server) client(id string) (*wsClient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	return c, ok
}

// CloseAll disconnects every page, used on shutdown.
func (s *Server) CloseAll() {
	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.clients)
	s.mu.RUnlock()
	jsonResp(w, map[string]interface{}{"status": "ok", "sessions": n})
}

// ========== Middleware ==========

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ========== Helpers ==========

func jsonResp(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// requestOrigin is the scheme://host the page was loaded from.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
