// internal/session/hub.go
//
// Event router for room sessions.
//
// Responsibilities:
//   - Decode inbound frames and dispatch each Message variant.
//   - Run the match lifecycle: start, scoring, chain rounds, expiry.
//   - Reply with the matching *Error event on client mistakes; silently
//     drop late or duplicate word claims.
//
// Every room mutation happens under that room's lock. Sends never block.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/game"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/history"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/words"
)

const (
	// PointsPerWord is awarded for each accepted claim.
	PointsPerWord = 10
	// HighlightColors is the size of the client highlight palette.
	HighlightColors = 8
	// DefaultMatchDuration is the clock length of one match.
	DefaultMatchDuration = 60 * time.Second
)

// Options tunes a Hub. Zero values select defaults.
type Options struct {
	MatchDuration time.Duration
	PuzzleWords   int
	GridSize      int
	Ticker        TickerFactory
	Now           func() time.Time
	Codes         func() string
}

// Hub dispatches client messages to rooms.
type Hub struct {
	rooms   *Registry
	alloc   *words.Allocator
	history history.Store
	opts    Options
}

// NewHub wires a hub over the words of alloc that fit the grid. A nil
// store selects an in-memory ledger.
func NewHub(alloc *words.Allocator, store history.Store, opts Options) *Hub {
	if opts.MatchDuration <= 0 {
		opts.MatchDuration = DefaultMatchDuration
	}
	if opts.PuzzleWords <= 0 {
		opts.PuzzleWords = words.DefaultCount
	}
	if opts.GridSize <= 0 {
		opts.GridSize = game.DefaultSize
	}
	if opts.Ticker == nil {
		opts.Ticker = SystemTicker{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if store == nil {
		store = history.NewMemoryStore(0)
	}
	return &Hub{
		rooms:   NewRegistry(opts.Codes),
		alloc:   alloc.Fitted(opts.GridSize),
		history: store,
		opts:    opts,
	}
}

// Rooms exposes the registry for diagnostics.
func (h *Hub) Rooms() *Registry { return h.rooms }

// History exposes the finished-match ledger.
func (h *Hub) History() history.Store { return h.history }

// Close stops every running match clock.
func (h *Hub) Close() { h.rooms.Close() }

// Handle processes one inbound frame from p.
func (h *Hub) Handle(p Peer, raw []byte) {
	msg, err := Decode(raw)
	if err != nil {
		log.Debug().Err(err).Str("conn", p.ID()).Msg("protocol error")
		p.Send(EvProtocolError, ErrorPayload{Error: err.Error()})
		return
	}

	switch m := msg.(type) {
	case CreateRoom:
		h.createRoom(p)
	case JoinRoom:
		h.joinRoom(p, m)
	case HostStartGame:
		h.startGame(p, m)
	case WordFound:
		h.wordFound(p, m)
	case RoundComplete:
		h.roundComplete(p, m)
	case RequestTimerSync:
		h.timerSync(p, m)
	case GenerateBoards:
		h.generateBoards(p, m)
	case LeaveRoom:
		h.rooms.Leave(m.RoomCode, p.ID())
	default:
		panic(fmt.Sprintf("session: unhandled message %T", m))
	}
}

// Disconnect tears down whatever room p was in.
func (h *Hub) Disconnect(p Peer) {
	h.rooms.Disconnect(p.ID())
}

func (h *Hub) createRoom(p Peer) {
	r, err := h.rooms.Create(p)
	if err != nil {
		log.Warn().Err(err).Str("conn", p.ID()).Msg("create room failed")
		p.Send(EvCreateError, ErrorPayload{Error: clientMessage(err)})
		return
	}
	p.Send(EvHostCreatedRoom, RoomCreated{RoomCode: r.Code, Role: RoleHost})
}

func (h *Hub) joinRoom(p Peer, m JoinRoom) {
	if _, err := h.rooms.Join(m.RoomCode, p); err != nil {
		log.Debug().Err(err).Str("conn", p.ID()).Msg("join room failed")
		p.Send(EvJoinError, ErrorPayload{Error: clientMessage(err)})
	}
}

// newPuzzle allocates words from the room's pool history and lays them
// out. A board on which no word could be placed is an error. Caller holds
// r.mu.
func (h *Hub) newPuzzle(r *Room, st *words.PoolState) (game.Puzzle, error) {
	ws, err := h.alloc.Allocate(st, h.opts.PuzzleWords)
	if err != nil {
		return game.Puzzle{}, err
	}
	p := game.Generate(ws, h.opts.GridSize, game.AllDirections, r.rng)
	if len(p.Words) == 0 {
		return game.Puzzle{}, fmt.Errorf("%d words on a %dx%d grid: %w", len(ws), h.opts.GridSize, h.opts.GridSize, ErrBoardEmpty)
	}
	return p, nil
}

func (h *Hub) startGame(p Peer, m HostStartGame) {
	if err := h.start(p, m.RoomCode); err != nil {
		log.Debug().Err(err).Str("room", m.RoomCode).Str("conn", p.ID()).Msg("start rejected")
		p.Send(EvStartGameError, ErrorPayload{Error: clientMessage(err)})
	}
}

// start resets players, clears pool history, deals the first puzzle and
// starts the clock in one critical section.
func (h *Hub) start(p Peer, code string) error {
	r := h.rooms.Get(code)
	if r == nil {
		return ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.hostID != p.ID():
		return ErrNotHost
	case len(r.players) < MaxParticipants:
		return ErrWaitingForOpponent
	case r.active:
		return ErrGameAlreadyInProgress
	}

	var pool words.PoolState
	puzzle, err := h.newPuzzle(r, &pool)
	if err != nil {
		return fmt.Errorf("start %s: %w", code, err)
	}

	for _, pl := range r.players {
		pl.reset()
	}
	r.pool = pool
	r.setPuzzle(puzzle)
	r.round = 1
	r.highlight = 0
	r.result = nil
	r.active = true
	r.startedAt = h.opts.Now()

	t := newMatchTimer(h.opts.MatchDuration, r.startedAt)
	r.timer = t
	ticks, stop := h.opts.Ticker.Create(time.Second)
	go h.runClock(r, t, ticks, stop)

	r.broadcast(EvGenerateBoards, r.board("shared", ""))
	r.broadcast(EvHostStartGame, GameStarting{Message: "Game starting!", RoomCode: code})
	r.broadcast(EvTimerSync, t.sync())

	log.Info().Str("room", code).Strs("words", puzzle.Words).Dur("duration", h.opts.MatchDuration).Msg("match started")
	return nil
}

// runClock drives t until expiry or cancellation.
func (h *Hub) runClock(r *Room, t *MatchTimer, ticks <-chan time.Time, stop func()) {
	defer stop()
	for {
		select {
		case <-t.stop:
			return
		case now, ok := <-ticks:
			if !ok {
				return
			}
			rec, done := h.tick(r, t, now)
			if rec != nil {
				h.record(*rec)
			}
			if done {
				return
			}
		}
	}
}

// tick publishes one clock reading. At zero it ends the match and returns
// the record to archive.
func (h *Hub) tick(r *Room, t *MatchTimer, now time.Time) (*history.MatchRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.stopped || r.timer != t {
		return nil, true
	}

	if remaining := t.observe(now); remaining > 0 {
		r.broadcast(EvTimerSync, t.sync())
		return nil, false
	}

	t.cancel()
	r.active = false
	r.broadcast(EvTimerSync, TimerSync{TimeRemaining: 0, IsRunning: false})

	res := standings(r)
	r.result = &res
	r.broadcast(EvFinalResults, res)

	ev := log.Info().Str("room", r.Code).Bool("tie", res.IsTie).Int("rounds", r.round)
	if res.Winner != nil {
		ev = ev.Str("winner", string(res.Winner.Role)).Int("score", res.Winner.Score)
	}
	ev.Msg("match finished")

	rec := matchRecord(r, res, now)
	return &rec, true
}

func (h *Hub) record(m history.MatchRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.history.Record(ctx, m); err != nil {
		log.Error().Err(err).Str("room", m.RoomCode).Msg("record match")
	}
}

// liveRoom returns the room if p is one of its participants and a match
// with time left is running. Caller must unlock on ok.
func (h *Hub) liveRoom(p Peer, code string) (*Room, *Player, bool) {
	r := h.rooms.Get(code)
	if r == nil {
		return nil, nil, false
	}
	r.mu.Lock()
	pl := r.players[p.ID()]
	if pl == nil || !r.active || r.timer == nil || r.timer.peek(h.opts.Now()) <= 0 {
		r.mu.Unlock()
		return nil, nil, false
	}
	return r, pl, true
}

func (h *Hub) wordFound(p Peer, m WordFound) {
	r, pl, ok := h.liveRoom(p, m.RoomCode)
	if !ok {
		log.Debug().Str("room", m.RoomCode).Str("conn", p.ID()).Msg("claim outside a live match ignored")
		return
	}
	defer r.mu.Unlock()

	idx, ok := resolveClaim(r.puzzle, r.found, m)
	if !ok || r.found[idx] {
		log.Debug().Str("room", r.Code).Str("conn", p.ID()).Str("word", m.Word).Msg("claim ignored")
		return
	}

	r.found[idx] = true
	r.puzzle.MarkFound(idx)
	pl.Score += PointsPerWord
	pl.WordsFound++
	color := r.highlight % HighlightColors
	r.highlight++

	r.broadcast(EvUpdateScores, UpdateScores{
		Scores:         r.scores(),
		FoundWordIndex: idx,
		FoundWord:      r.puzzle.Words[idx],
		FoundBy:        p.ID(),
		ColorIndex:     color,
	})
	log.Debug().Str("room", r.Code).Str("conn", p.ID()).Str("word", r.puzzle.Words[idx]).Int("score", pl.Score).Msg("word found")

	if len(r.found) == len(r.puzzle.Words) {
		h.nextRound(r)
	}
}

// resolveClaim maps a claim to an index of p.Words. Selections skip words
// already in found, so when a word and its reversal (STAR, RATS) are both
// placed the selection resolves to whichever is still open.
func resolveClaim(p game.Puzzle, found map[int]bool, m WordFound) (int, bool) {
	done := func(i int) bool { return found[i] }
	if len(m.Path) > 0 {
		return game.MatchOpen(p.Grid, m.Path, p.Words, done)
	}
	if m.Start != nil && m.End != nil {
		path, ok := game.Line(*m.Start, *m.End)
		if !ok {
			return -1, false
		}
		return game.MatchOpen(p.Grid, path, p.Words, done)
	}
	if m.WordIndex == nil {
		return -1, false
	}
	i := *m.WordIndex
	if i < 0 || i >= len(p.Words) || p.Words[i] != m.Word {
		return -1, false
	}
	return i, true
}

// nextRound deals a fresh shared puzzle once every word has been found.
// The clock is untouched. Caller holds r.mu.
func (h *Hub) nextRound(r *Room) {
	puzzle, err := h.newPuzzle(r, &r.pool)
	if err != nil {
		log.Error().Err(err).Str("room", r.Code).Msg("chain round allocation failed")
		return
	}
	r.setPuzzle(puzzle)
	r.round++
	for _, pl := range r.players {
		pl.CurrentRound++
	}
	r.broadcast(EvNextBoard, r.board("", fmt.Sprintf("Round %d started! Keep going!", r.round)))
	log.Info().Str("room", r.Code).Int("round", r.round).Strs("words", puzzle.Words).Msg("chain round")
}

// roundComplete resends the current board to the requester. Rounds only
// advance on the server.
func (h *Hub) roundComplete(p Peer, m RoundComplete) {
	r, _, ok := h.liveRoom(p, m.RoomCode)
	if !ok {
		return
	}
	defer r.mu.Unlock()
	p.Send(EvNextBoard, r.board("", fmt.Sprintf("Round %d in progress", r.round)))
}

func (h *Hub) timerSync(p Peer, m RequestTimerSync) {
	r := h.rooms.Get(m.RoomCode)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.players[p.ID()] == nil || r.timer == nil {
		return
	}
	remaining := r.timer.peek(h.opts.Now())
	p.Send(EvTimerSync, TimerSync{TimeRemaining: remaining, IsRunning: r.timer.running && remaining > 0})
}

func (h *Hub) generateBoards(p Peer, m GenerateBoards) {
	if err := h.regenerate(p, m.RoomCode); err != nil {
		msg := clientMessage(err)
		if errors.Is(err, ErrNotHost) {
			msg = msgNotHostGenerate
		}
		log.Debug().Err(err).Str("room", m.RoomCode).Msg("generate rejected")
		p.Send(EvGenerateError, ErrorPayload{Error: msg})
	}
}

// regenerate forces a fresh shared puzzle mid-match without scoring.
func (h *Hub) regenerate(p Peer, code string) error {
	r := h.rooms.Get(code)
	if r == nil {
		return ErrRoomNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hostID != p.ID() {
		return ErrNotHost
	}
	if !r.active {
		return ErrGameNotActive
	}
	puzzle, err := h.newPuzzle(r, &r.pool)
	if err != nil {
		return fmt.Errorf("generate %s: %w", code, err)
	}
	r.setPuzzle(puzzle)
	r.broadcast(EvGenerateBoards, r.board("shared", ""))
	log.Info().Str("room", code).Strs("words", puzzle.Words).Msg("boards regenerated")
	return nil
}
