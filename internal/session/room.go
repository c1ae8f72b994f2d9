// internal/session/room.go
//
// Room aggregate: two participants sharing one puzzle and one clock.
// All fields below mu are guarded by it; handlers and timer ticks hold it
// for their whole mutation.

package session

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/game"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/words"
)

// MaxParticipants is the room capacity.
const MaxParticipants = 2

// Peer is one connected client. Send must not block: implementations
// serialize payload immediately and queue the bytes.
type Peer interface {
	ID() string
	Send(event string, payload any)
}

type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// State is the derived lifecycle phase of a room.
type State int

const (
	StateLobby State = iota
	StateReady
	StateActive
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateReady:
		return "ready"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Player is a participant's per-match standing.
type Player struct {
	Peer         Peer
	Role         Role
	Score        int
	WordsFound   int
	CurrentRound int
}

func (p *Player) reset() {
	p.Score = 0
	p.WordsFound = 0
	p.CurrentRound = 1
}

// Room is created by the Registry and mutated only under mu.
type Room struct {
	Code string

	mu        sync.Mutex
	hostID    string
	players   map[string]*Player
	order     []string // connection ids in join order
	active    bool
	timer     *MatchTimer
	pool      words.PoolState
	puzzle    game.Puzzle
	found     map[int]bool
	round     int
	highlight int
	result    *FinalResults
	startedAt time.Time
	rng       *rand.Rand
}

func newRoom(code string, host Peer) *Room {
	r := &Room{
		Code:    code,
		hostID:  host.ID(),
		players: make(map[string]*Player, MaxParticipants),
		found:   make(map[int]bool),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	r.add(host, RoleHost)
	return r
}

func (r *Room) add(p Peer, role Role) *Player {
	pl := &Player{Peer: p, Role: role, CurrentRound: 1}
	r.players[p.ID()] = pl
	r.order = append(r.order, p.ID())
	return pl
}

func (r *Room) remove(id string) {
	delete(r.players, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// participants returns players in join order.
func (r *Room) participants() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

func (r *Room) broadcast(event string, payload any) {
	for _, pl := range r.participants() {
		pl.Peer.Send(event, payload)
	}
}

func (r *Room) sendExcept(id, event string, payload any) {
	for _, pl := range r.participants() {
		if pl.Peer.ID() != id {
			pl.Peer.Send(event, payload)
		}
	}
}

func (r *Room) state() State {
	switch {
	case r.active:
		return StateActive
	case len(r.players) < MaxParticipants:
		return StateLobby
	case r.result != nil:
		return StateFinished
	default:
		return StateReady
	}
}

func (r *Room) scores() map[string]ScoreEntry {
	out := make(map[string]ScoreEntry, len(r.players))
	for id, pl := range r.players {
		out[id] = ScoreEntry{Score: pl.Score, Role: pl.Role, WordsFound: pl.WordsFound}
	}
	return out
}

// setPuzzle installs p as the shared puzzle and clears the found set.
func (r *Room) setPuzzle(p game.Puzzle) {
	r.puzzle = p
	r.found = make(map[int]bool, len(p.Words))
}

func (r *Room) board(role, message string) Board {
	return Board{
		Words:   append([]string(nil), r.puzzle.Words...),
		Grid:    r.puzzle.Grid,
		Role:    role,
		Round:   r.round,
		Message: message,
	}
}

// cancelTimer stops any running clock; safe without one.
func (r *Room) cancelTimer() {
	if r.timer != nil {
		r.timer.cancel()
	}
}

// ParticipantSnapshot is the public view of one participant.
type ParticipantSnapshot struct {
	ID           string `json:"id"`
	Role         Role   `json:"role"`
	Score        int    `json:"score"`
	WordsFound   int    `json:"wordsFound"`
	CurrentRound int    `json:"currentRound"`
}

// RoomSnapshot is a point-in-time copy of a room for diagnostics.
type RoomSnapshot struct {
	Code          string                `json:"code"`
	State         string                `json:"state"`
	HostID        string                `json:"hostId"`
	Participants  []ParticipantSnapshot `json:"participants"`
	Round         int                   `json:"round"`
	TimeRemaining int                   `json:"timeRemaining"`
	Words         int                   `json:"words"`
	WordsFound    int                   `json:"wordsFound"`
}

// Snapshot copies the room's public state.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := RoomSnapshot{
		Code:       r.Code,
		State:      r.state().String(),
		HostID:     r.hostID,
		Round:      r.round,
		Words:      len(r.puzzle.Words),
		WordsFound: len(r.found),
	}
	if r.timer != nil {
		s.TimeRemaining = r.timer.remaining
	}
	for _, pl := range r.participants() {
		s.Participants = append(s.Participants, ParticipantSnapshot{
			ID:           pl.Peer.ID(),
			Role:         pl.Role,
			Score:        pl.Score,
			WordsFound:   pl.WordsFound,
			CurrentRound: pl.CurrentRound,
		})
	}
	return s
}
