// internal/daily/daily.go
//
// Daily practice puzzle: one reproducible board per calendar day.
// The date and a server salt are hashed (HMAC-SHA256) into an rng seed, so
// every client asking for the same day and difficulty gets the same words,
// grid and placements without the server storing anything.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/game"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/words"
)

// Size is the daily board side length.
const Size = 12

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives a deterministic seed pair from HMAC(salt, dateKey).
func Seed(dateKey, salt string) (uint64, uint64) {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}

// Board is the daily puzzle payload.
type Board struct {
	Date       string          `json:"date"`
	Difficulty game.Difficulty `json:"difficulty"`
	game.Puzzle
}

// Build generates the puzzle for dateKey. The difficulty only changes the
// direction set; the word selection is shared by all difficulties of a day.
func Build(dateKey, salt string, pool []string, d game.Difficulty) (Board, error) {
	if dateKey == "" {
		return Board{}, errors.New("daily: empty date")
	}
	s1, s2 := Seed(dateKey, salt)
	rng := rand.New(rand.NewPCG(s1, s2))

	var st words.PoolState
	picked, err := words.NewAllocator(words.Fit(pool, Size), rng).Allocate(&st, words.DefaultCount)
	if err != nil {
		return Board{}, err
	}
	return Board{
		Date:       dateKey,
		Difficulty: d,
		Puzzle:     game.Generate(picked, Size, d.Directions(), rng),
	}, nil
}
