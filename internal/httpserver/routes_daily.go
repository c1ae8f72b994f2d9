// internal/httpserver/routes_daily.go
//
// HTTP route for the single-player daily puzzle.
//   - GET /daily?difficulty=easy|medium|hard&date=YYYY-MM-DD
//
// The board is derived from the date and DAILY_SALT, so nothing is stored
// and every caller sees the same puzzle for a given day and difficulty.
// Placements are included: the daily puzzle has no opponent and the client
// validates selections locally.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/daily"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/game"
)

// mountDaily registers the /daily route.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDaily)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date := q.Get("date")
	if date == "" {
		date = daily.DateKey(s.deps.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_date"})
		return
	}

	board, err := daily.Build(date, s.deps.DailySalt, s.deps.Pool, game.ParseDifficulty(q.Get("difficulty")))
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("build daily board")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "daily_unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, board)
}
