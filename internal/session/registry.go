// internal/session/registry.go
//
// Room Registry: the process-wide table of live rooms.
//
// Responsibilities:
//   - Allocate collision-free 6-character room codes.
//   - Admit at most two participants per room.
//   - Index membership by connection id so leave/disconnect are O(1).
//   - Tear rooms down when their last participant goes.
//
// Lock order is registry before room.

package session

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
	codeRetries  = 10
)

// RandomCode returns a fresh 6-character room code over A-Z0-9.
func RandomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}

// Registry owns every room.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	byConn map[string]*Room
	codes  func() string
}

// NewRegistry builds an empty registry. A nil codes func selects RandomCode.
func NewRegistry(codes func() string) *Registry {
	if codes == nil {
		codes = RandomCode
	}
	return &Registry{
		rooms:  make(map[string]*Room),
		byConn: make(map[string]*Room),
		codes:  codes,
	}
}

// Create opens a room hosted by p.
func (g *Registry) Create(p Peer) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.byConn[p.ID()]; ok {
		return nil, ErrAlreadyInRoom
	}

	code := g.codes()
	for attempt := 0; g.rooms[code] != nil; attempt++ {
		if attempt == codeRetries {
			return nil, ErrRoomCreationFailed
		}
		code = g.codes()
	}

	r := newRoom(code, p)
	g.rooms[code] = r
	g.byConn[p.ID()] = r
	log.Info().Str("room", code).Str("host", p.ID()).Msg("room created")
	return r, nil
}

// Join admits p as the guest of room code and notifies both sides.
func (g *Registry) Join(code string, p Peer) (*Room, error) {
	if code == "" {
		return nil, ErrRoomCodeRequired
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.byConn[p.ID()]; ok {
		return nil, ErrAlreadyInRoom
	}
	r := g.rooms[code]
	if r == nil {
		return nil, fmt.Errorf("join %s: %w", code, ErrRoomNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.players) >= MaxParticipants {
		return nil, fmt.Errorf("join %s: %w", code, ErrRoomFull)
	}

	r.add(p, RoleGuest)
	g.byConn[p.ID()] = r

	p.Send(EvGuestJoinedRoom, RoomJoined{RoomCode: code, Role: RoleGuest, HostID: r.hostID})
	r.sendExcept(p.ID(), EvOpponentJoined, OpponentJoined{GuestID: p.ID()})
	log.Info().Str("room", code).Str("guest", p.ID()).Msg("guest joined")
	return r, nil
}

// Leave removes connection id from its room. A non-empty code must name
// that room. Host rights stay with the departed connection, so a guest left
// alone cannot start a match. Idempotent.
func (g *Registry) Leave(code, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.byConn[id]
	if r == nil || (code != "" && r.Code != code) {
		return
	}
	delete(g.byConn, id)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.remove(id)
	if len(r.players) == 0 {
		r.cancelTimer()
		r.active = false
		delete(g.rooms, r.Code)
		log.Info().Str("room", r.Code).Msg("room deleted (empty)")
		return
	}

	if r.active {
		r.cancelTimer()
		r.active = false
		log.Info().Str("room", r.Code).Msg("match abandoned")
	}
	r.broadcast(EvOpponentLeft, OpponentLeft{})
	log.Info().Str("room", r.Code).Str("conn", id).Msg("participant left")
}

// Disconnect runs Leave for whatever room id is in.
func (g *Registry) Disconnect(id string) { g.Leave("", id) }

// Get returns the live room with code, or nil.
func (g *Registry) Get(code string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rooms[code]
}

// RoomOf returns the room connection id belongs to, or nil.
func (g *Registry) RoomOf(id string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.byConn[id]
}

// Len returns the number of live rooms.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}

// Snapshots copies every room, ordered by code.
func (g *Registry) Snapshots() []RoomSnapshot {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	g.mu.Unlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Code < rooms[j].Code })
	out := make([]RoomSnapshot, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Snapshot())
	}
	return out
}

// Close cancels every running match clock.
func (g *Registry) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range g.rooms {
		r.mu.Lock()
		r.cancelTimer()
		r.active = false
		r.mu.Unlock()
	}
}
