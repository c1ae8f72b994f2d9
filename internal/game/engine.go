// internal/game/engine.go
//
// Board generator for word-search puzzles.
// Responsibilities:
//   - Place each word at a random (start, direction) that stays in bounds and
//     only overlaps cells holding the same letter (legal crossings).
//   - Skip a word after MaxAttempts failed tries (logged, not fatal).
//   - Fill every empty cell with a uniformly random A–Z letter.
//
// Notes:
//   - Generation is a pure function of its inputs: the same words, size,
//     directions and rng state produce the same Puzzle.
//   - Callers must treat Puzzle.Words (placed words) as ground truth.
package game

import (
	"math/rand/v2"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultSize is the multiplayer board side length.
	DefaultSize = 10
	// MaxAttempts bounds the random placement search per word.
	MaxAttempts = 200

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewGrid returns an empty size×size grid with no letters.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for i := range g {
		g[i] = make([]Cell, size)
		for j := range g[i] {
			g[i][j] = Cell{WordIndex: -1}
		}
	}
	return g
}

// Generate builds a puzzle from words on a size×size grid using dirs.
// A nil rng selects a randomly seeded source.
func Generate(words []string, size int, dirs []Direction, rng *rand.Rand) Puzzle {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if len(dirs) == 0 {
		dirs = AllDirections
	}

	p := Puzzle{Grid: NewGrid(size)}
	for _, w := range words {
		placed, ok := place(p.Grid, w, len(p.Words), dirs, rng)
		if !ok {
			log.Debug().Str("word", w).Int("size", size).Msg("word skipped, no placement found")
			continue
		}
		p.Words = append(p.Words, w)
		p.Placements = append(p.Placements, placed)
	}
	fill(p.Grid, rng)
	return p
}

// place tries up to MaxAttempts random placements of word and writes the
// first one that fits.
func place(g Grid, word string, index int, dirs []Direction, rng *rand.Rand) (PlacedWord, bool) {
	size := g.Size()
	if size == 0 || len(word) == 0 {
		return PlacedWord{}, false
	}
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		d := dirs[rng.IntN(len(dirs))]
		start := Coord{Row: rng.IntN(size), Col: rng.IntN(size)}
		if !canPlace(g, word, start, d) {
			continue
		}
		path := make([]Coord, len(word))
		for i := 0; i < len(word); i++ {
			c := Coord{Row: start.Row + i*d.DX, Col: start.Col + i*d.DY}
			g[c.Row][c.Col] = Cell{
				Letter:       string(word[i]),
				IsWordLetter: true,
				WordIndex:    index,
			}
			path[i] = c
		}
		return PlacedWord{Word: word, Path: path, Start: start, Direction: d}, true
	}
	return PlacedWord{}, false
}

// canPlace checks bounds and letter compatibility for every cell of word.
func canPlace(g Grid, word string, start Coord, d Direction) bool {
	for i := 0; i < len(word); i++ {
		c := Coord{Row: start.Row + i*d.DX, Col: start.Col + i*d.DY}
		if !g.InBounds(c) {
			return false
		}
		if l := g[c.Row][c.Col].Letter; l != "" && l != string(word[i]) {
			return false
		}
	}
	return true
}

// fill writes a random letter into every empty cell.
func fill(g Grid, rng *rand.Rand) {
	for i := range g {
		for j := range g[i] {
			if g[i][j].Letter == "" {
				g[i][j].Letter = string(alphabet[rng.IntN(len(alphabet))])
			}
		}
	}
}
