// internal/words/words.go
//
// Master word pool management for multiplayer puzzles.
//
// Responsibilities:
//   - Load the master pool from WORDS_POOL_FILE or fall back to the embedded
//     assets/words.txt list.
//   - Normalize entries (uppercase A–Z only, de-duplicated, order kept).
//   - Expose the loaded pool and its size for the allocator and diagnostics.
//
// Initialization is run once (sync.Once); later calls return the first result.

package words

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/MohanKumarMurugan/LexiBattle-V2/assets"
)

// MinWordLen is the shortest word accepted into the pool.
const MinWordLen = 3

var (
	initOnce   sync.Once
	pool       []string
	initialErr error
)

// Init loads the master pool exactly once.
// An empty path selects the embedded default list.
// Returns an error if the pool ends up empty.
func Init(path string) error {
	initOnce.Do(func() {
		var raw []string
		var err error
		if path != "" {
			raw, err = readWordFile(path)
		} else {
			raw, err = assets.PoolList()
		}
		if err != nil {
			initialErr = err
			return
		}
		pool = Normalize(raw)
		if len(pool) == 0 {
			initialErr = errors.New("words: master pool is empty")
		}
	})
	return initialErr
}

// Pool returns the loaded master pool. Callers must not mutate it.
func Pool() []string { return pool }

// Stats returns the number of words in the master pool.
func Stats() int { return len(pool) }

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// Normalize uppercases each entry, drops anything that is not purely A–Z or
// shorter than MinWordLen, and removes duplicates keeping first occurrence.
func Normalize(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.ToUpper(strings.TrimSpace(w))
		if len(w) < MinWordLen || !isUpperAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// isUpperAlpha reports whether s consists only of A–Z.
func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Fit returns the entries of list that are at most maxLen letters long,
// i.e. the words that can be placed on a maxLen×maxLen grid.
func Fit(list []string, maxLen int) []string {
	out := make([]string, 0, len(list))
	for _, w := range list {
		if len(w) <= maxLen {
			out = append(out, w)
		}
	}
	return out
}
