// internal/words/allocator.go
//
// Word Pool Allocator: serves non-repeating word subsets from the master pool.
//
// Rules:
//   - Words already served in the current match (PoolState.used) are excluded.
//   - When fewer than count eligible words remain, the used set is cleared
//     (a fresh cycle) but the previous allocation stays excluded so a reset
//     never shows an immediate repeat.
//   - Only if even that leaves too few words is the unrestricted pool used.
//   - Every allocation is an independently randomized shuffle-and-take.

package words

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultCount is the number of words served per puzzle.
const DefaultCount = 8

// ErrPoolExhausted means the master pool holds fewer unique words than one
// allocation needs. It is a configuration error.
var ErrPoolExhausted = errors.New("word pool smaller than requested count")

// PoolState is the per-room usage history. The zero value is ready to use.
type PoolState struct {
	used map[string]struct{}
	last []string
}

// Reset clears all history; called on every match (re)start.
func (s *PoolState) Reset() {
	s.used = nil
	s.last = nil
}

// Used reports whether w was served since the last reset or exhaustion cycle.
func (s *PoolState) Used(w string) bool {
	_, ok := s.used[w]
	return ok
}

// UsedCount returns the size of the current cycle's used set.
func (s *PoolState) UsedCount() int { return len(s.used) }

// Last returns a copy of the most recent allocation.
func (s *PoolState) Last() []string { return append([]string(nil), s.last...) }

func (s *PoolState) record(ws []string) {
	if s.used == nil {
		s.used = make(map[string]struct{}, len(ws))
	}
	for _, w := range ws {
		s.used[w] = struct{}{}
	}
	s.last = append(s.last[:0:0], ws...)
}

// Allocator draws word sets from a fixed master pool.
// It is safe for concurrent use; PoolState values are not and belong to
// whoever owns the room lock.
type Allocator struct {
	pool []string

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewAllocator builds an allocator over the de-duplicated pool.
// A nil rng selects a randomly seeded source.
func NewAllocator(pool []string, rng *rand.Rand) *Allocator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Allocator{pool: dedupe(pool), rng: rng}
}

// Fitted returns an allocator over the words of a's pool that fit a
// maxLen×maxLen grid. a itself is returned when every word fits; otherwise
// the new allocator gets its own source seeded from a's.
func (a *Allocator) Fitted(maxLen int) *Allocator {
	fit := Fit(a.pool, maxLen)
	if len(fit) == len(a.pool) {
		return a
	}
	log.Info().Int("pool", len(a.pool)).Int("fit", len(fit)).Int("grid", maxLen).Msg("word pool trimmed to grid size")

	a.mu.Lock()
	seed1, seed2 := a.rng.Uint64(), a.rng.Uint64()
	a.mu.Unlock()
	return &Allocator{pool: fit, rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Size returns the number of unique words in the master pool.
func (a *Allocator) Size() int { return len(a.pool) }

// Allocate returns exactly count distinct words not used in st's current
// cycle, and records them in st.
func (a *Allocator) Allocate(st *PoolState, count int) ([]string, error) {
	if count <= 0 {
		count = DefaultCount
	}
	if len(a.pool) < count {
		return nil, ErrPoolExhausted
	}

	eligible := a.filter(func(w string) bool { return !st.Used(w) })
	if len(eligible) < count {
		log.Info().Int("eligible", len(eligible)).Int("count", count).Msg("word pool low, starting a fresh cycle")
		prev := make(map[string]struct{}, len(st.last))
		for _, w := range st.last {
			prev[w] = struct{}{}
		}
		st.used = nil
		eligible = a.filter(func(w string) bool {
			_, seen := prev[w]
			return !seen
		})
		if len(eligible) < count {
			log.Warn().Int("pool", len(a.pool)).Int("count", count).Msg("pool too small to avoid repeating the previous set")
			eligible = append([]string(nil), a.pool...)
		}
	}

	a.mu.Lock()
	a.rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
	a.mu.Unlock()

	picked := append([]string(nil), eligible[:count]...)
	st.record(picked)
	return picked, nil
}

func (a *Allocator) filter(keep func(string) bool) []string {
	out := make([]string, 0, len(a.pool))
	for _, w := range a.pool {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
