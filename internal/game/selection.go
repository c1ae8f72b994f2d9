// internal/game/selection.go
//
// Claim validation: a player's selection must be a straight line of cells
// (horizontal, vertical or 45° diagonal with a constant unit step) whose
// letters spell a puzzle word forwards or backwards.

package game

// Line expands two endpoints into the straight path between them.
// It returns false when the endpoints are not on a shared row, column or
// 45° diagonal.
func Line(start, end Coord) ([]Coord, bool) {
	dr, dc := end.Row-start.Row, end.Col-start.Col
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return nil, false
	}
	steps := max(abs(dr), abs(dc))
	sr, sc := sign(dr), sign(dc)
	path := make([]Coord, steps+1)
	for i := range path {
		path[i] = Coord{Row: start.Row + i*sr, Col: start.Col + i*sc}
	}
	return path, true
}

// IsStraight reports whether path is non-empty, uses one constant unit step
// in one of the eight directions, and never repeats a cell.
func IsStraight(path []Coord) bool {
	if len(path) == 0 {
		return false
	}
	if len(path) == 1 {
		return true
	}
	dr, dc := path[1].Row-path[0].Row, path[1].Col-path[0].Col
	if abs(dr) > 1 || abs(dc) > 1 || (dr == 0 && dc == 0) {
		return false
	}
	for i := 2; i < len(path); i++ {
		if path[i].Row-path[i-1].Row != dr || path[i].Col-path[i-1].Col != dc {
			return false
		}
	}
	return true
}

// ReadPath concatenates the letters under path. ok is false if any cell is
// out of bounds.
func ReadPath(g Grid, path []Coord) (string, bool) {
	b := make([]byte, 0, len(path))
	for _, c := range path {
		if !g.InBounds(c) {
			return "", false
		}
		b = append(b, g[c.Row][c.Col].Letter...)
	}
	return string(b), true
}

// MatchPath resolves a claimed path against words. The comparison is exact
// and case-sensitive; the first word equal to the selection read forwards or
// backwards wins.
func MatchPath(g Grid, path []Coord, words []string) (int, bool) {
	return MatchOpen(g, path, words, nil)
}

// MatchOpen is MatchPath restricted to the words for which found reports
// false. A nil found admits every word.
func MatchOpen(g Grid, path []Coord, words []string, found func(int) bool) (int, bool) {
	if !IsStraight(path) {
		return -1, false
	}
	s, ok := ReadPath(g, path)
	if !ok {
		return -1, false
	}
	rev := reverse(s)
	for i, w := range words {
		if found != nil && found(i) {
			continue
		}
		if w == s || w == rev {
			return i, true
		}
	}
	return -1, false
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
