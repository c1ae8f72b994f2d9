// internal/httpserver/server.go
//
// HTTP server wiring for the LexiBattle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Realtime endpoint: GET /ws, upgraded and handed to the session hub.
//   - Read-only REST: room snapshots, word pool stats, daily puzzle and
//     finished-match history.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - The handler timeout wraps REST routes only; /ws connections are
//     long-lived and must not inherit it.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/session"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/words"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/ws"
)

// Deps are the collaborators the HTTP surface serves.
type Deps struct {
	Hub          *session.Hub
	Pool         []string // master word pool, used for daily puzzles
	DailySalt    string
	ClientOrigin string
	WS           ws.Options
	Now          func() time.Time // nil means time.Now
}

// Server bundles the router and its dependencies.
type Server struct {
	r    *chi.Mux
	deps Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Now == nil {
		d.Now = time.Now
	}
	d.WS.AllowedOrigin = d.ClientOrigin
	s := &Server{r: chi.NewRouter(), deps: d}

	// --- middleware ---
	s.r.Use(chimw.RequestID)      // add X-Request-ID
	s.r.Use(chimw.RealIP)         // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)      // recover from panics
	s.r.Use(cors(d.ClientOrigin)) // credentials-friendly CORS

	// --- realtime ---
	s.r.Get("/ws", ws.Serve(d.Hub, d.WS))

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"lexibattle-go","endpoints":["/health","/ws","/rooms/{code}","/daily","/matches/recent","/debug/words"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{
				"pool":  words.Stats(),
				"rooms": d.Hub.Rooms().Len(),
			})
		})

		r.Get("/rooms", s.handleRooms)
		r.Get("/rooms/{code}", s.handleRoom)
		r.Get("/matches/recent", s.handleRecentMatches)
		s.mountDaily(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin ("*" echoes the caller).
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allow := origin
			if allow == "*" {
				allow = r.Header.Get("Origin")
			}
			w.Header().Set("Vary", "Origin")
			if allow != "" {
				w.Header().Set("Access-Control-Allow-Origin", allow)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ ROOMS --------------------------------------

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Hub.Rooms().Snapshots())
}

func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	room := s.deps.Hub.Rooms().Get(chi.URLParam(r, "code"))
	if room == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room_not_found"})
		return
	}
	writeJSON(w, http.StatusOK, room.Snapshot())
}

// ----------------------------- HISTORY -------------------------------------

// handleRecentMatches lists finished matches, newest first (?limit, max 100).
func (s *Server) handleRecentMatches(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_limit"})
			return
		}
		limit = min(n, 100)
	}

	recs, err := s.deps.Hub.History().Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("recent matches")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history_failed"})
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
