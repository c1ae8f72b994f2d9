package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MohanKumarMurugan/LexiBattle-V2/assets"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/config"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/history"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/httpserver"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/session"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/words"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/ws"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	if err := words.Init(cfg.WordsPoolFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load word pool")
	}
	pool := words.Pool()
	log.Info().Int("words", len(pool)).Msg("word pool loaded")

	store, closeStore := openHistory(cfg)
	defer closeStore()

	hub := session.NewHub(words.NewAllocator(pool, nil), store, session.Options{
		MatchDuration: cfg.MatchDuration,
		PuzzleWords:   cfg.PuzzleWords,
		GridSize:      cfg.GridSize,
	})
	defer hub.Close()

	srv := httpserver.New(httpserver.Deps{
		Hub:          hub,
		Pool:         pool,
		DailySalt:    cfg.DailySalt,
		ClientOrigin: cfg.ClientOrigin,
		WS:           ws.Options{RatePerSec: cfg.WSRatePerSec, Burst: cfg.WSRateBurst},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("port", cfg.Port).Str("origin", cfg.ClientOrigin).Msg("starting lexibattle server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// openHistory selects the SQLite ledger when HISTORY_DB is set and the
// in-memory one otherwise.
func openHistory(cfg config.Config) (history.Store, func()) {
	if cfg.HistoryDB == "" {
		return history.NewMemoryStore(0), func() {}
	}

	db, err := openDB(cfg.HistoryDB)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.HistoryDB).Msg("open history db")
	}
	if err := migrate(db, assets.FS); err != nil {
		log.Fatal().Err(err).Msg("migrate history db")
	}
	log.Info().Str("path", cfg.HistoryDB).Msg("match history on sqlite")
	return history.NewSQLiteStore(db), func() { _ = db.Close() }
}
