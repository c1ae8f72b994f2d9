// assets/embed.go
//
// Embedded server assets:
//   - words.txt: default master word pool (used when WORDS_POOL_FILE is unset).
//   - sql/*.sql: migrations for the optional match history database.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed words.txt sql/*.sql
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// PoolList returns the embedded master word pool, uppercased.
func PoolList() ([]string, error) {
	return readLines("words.txt")
}
