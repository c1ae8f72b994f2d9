// internal/game/types.go
//
// Core type definitions for the word-search board.
// Defines:
//   - Coord / Direction: grid addressing and unit step vectors.
//   - Cell / Grid: the letter matrix shown to players.
//   - PlacedWord: where a word landed, with its full cell path.
//   - Puzzle: the words actually placed plus the grid they live in.

package game

// Coord addresses one grid cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is a unit step: DX moves rows, DY moves columns.
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Cell is one square of the board.
type Cell struct {
	Letter       string `json:"letter"`
	IsWordLetter bool   `json:"isWordLetter"`
	WordIndex    int    `json:"wordIndex"` // -1 when the cell is filler
	Found        bool   `json:"found"`
}

// Grid is a square matrix of cells indexed [row][col].
type Grid [][]Cell

// Size returns the side length of the grid.
func (g Grid) Size() int { return len(g) }

// InBounds reports whether c addresses a cell of g.
func (g Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < len(g) && c.Col >= 0 && c.Col < len(g)
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]Cell(nil), row...)
	}
	return out
}

// PlacedWord records a successful placement.
type PlacedWord struct {
	Word      string    `json:"word"`
	Path      []Coord   `json:"path"`
	Start     Coord     `json:"start"`
	Direction Direction `json:"direction"`
}

// Puzzle is the output of Generate.
// Words lists only the words that were placed, in placement order; cell
// WordIndex values index into it. Placements[i] belongs to Words[i].
type Puzzle struct {
	Words      []string     `json:"words"`
	Grid       Grid         `json:"grid"`
	Placements []PlacedWord `json:"placements,omitempty"`
}

// MarkFound flags every cell of word i as found.
func (p *Puzzle) MarkFound(i int) {
	if i < 0 || i >= len(p.Placements) {
		return
	}
	for _, c := range p.Placements[i].Path {
		p.Grid[c.Row][c.Col].Found = true
	}
}

// Difficulty selects the direction set for single-player boards.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	// easyDirections reads left-to-right, top-to-bottom and both forward diagonals.
	easyDirections = []Direction{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	// mediumDirections adds the two straight reversals.
	mediumDirections = []Direction{{0, 1}, {1, 0}, {1, 1}, {1, -1}, {0, -1}, {-1, 0}}
	// AllDirections is the full 8-way set used for multiplayer.
	AllDirections = []Direction{{0, 1}, {1, 0}, {1, 1}, {1, -1}, {0, -1}, {-1, 0}, {-1, -1}, {-1, 1}}
)

// ParseDifficulty maps a query value to a Difficulty, defaulting to Medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s)
	}
	return Medium
}

// Directions returns the direction set for d.
func (d Difficulty) Directions() []Direction {
	switch d {
	case Easy:
		return easyDirections
	case Hard:
		return AllDirections
	default:
		return mediumDirections
	}
}
