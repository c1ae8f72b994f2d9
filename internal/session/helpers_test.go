package session

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/history"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/words"
)

// --- Peer ---

type sentEvent struct {
	Event string
	Data  json.RawMessage
}

type fakePeer struct {
	id string

	mu     sync.Mutex
	events []sentEvent
}

func newPeer(id string) *fakePeer { return &fakePeer{id: id} }

func (f *fakePeer) ID() string { return f.id }

func (f *fakePeer) Send(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	f.events = append(f.events, sentEvent{Event: event, Data: data})
	f.mu.Unlock()
}

func (f *fakePeer) all(event string) []json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []json.RawMessage
	for _, e := range f.events {
		if e.Event == event {
			out = append(out, e.Data)
		}
	}
	return out
}

func (f *fakePeer) count(event string) int { return len(f.all(event)) }

func (f *fakePeer) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Event
	}
	return out
}

// last decodes the most recent payload of event into v.
func (f *fakePeer) last(t *testing.T, event string, v any) {
	t.Helper()
	got := f.all(event)
	require.NotEmpty(t, got, "no %s event for %s", event, f.id)
	require.NoError(t, json.Unmarshal(got[len(got)-1], v))
}

// --- TickerFactory ---

type MockTickerFactory struct {
	mock.Mock
}

func (m *MockTickerFactory) Create(interval time.Duration) (<-chan time.Time, func()) {
	args := m.Called(interval)
	return args.Get(0).(chan time.Time), args.Get(1).(func())
}

// --- fixture ---

var testWords = []string{
	"CAT", "DOG", "SUN", "MOON", "STAR", "TREE", "FISH", "BIRD", "LAKE", "ROCK",
	"RAIN", "SNOW", "WIND", "FIRE", "LEAF", "ROSE", "BEAR", "WOLF", "FROG", "DUCK",
	"CAKE", "MILK", "SALT", "CORN", "RICE", "BEAN", "PEAR", "PLUM", "LIME", "KIWI",
	"SHIP", "BOAT", "KITE", "DRUM", "BELL", "HAT", "MAP", "KEY", "PEN", "CUP",
}

type fixture struct {
	hub    *Hub
	ticker *MockTickerFactory
	ticks  chan time.Time
	stops  *counter
	store  history.Store
	start  time.Time
	host   *fakePeer
	guest  *fakePeer
}

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) inc() { c.mu.Lock(); c.n++; c.mu.Unlock() }

func (c *counter) get() int { c.mu.Lock(); defer c.mu.Unlock(); return c.n }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, words.NewAllocator(testWords, rand.New(rand.NewPCG(7, 11))), Options{})
}

// newFixtureWith builds a fixture over alloc. Ticker, Now and Codes are
// filled in unless opts sets them.
func newFixtureWith(t *testing.T, alloc *words.Allocator, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		ticker: &MockTickerFactory{},
		ticks:  make(chan time.Time, 256),
		stops:  &counter{},
		store:  history.NewMemoryStore(10),
		start:  time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		host:   newPeer("host-1"),
		guest:  newPeer("guest-1"),
	}
	f.ticker.On("Create", time.Second).Return(f.ticks, func() { f.stops.inc() })

	if opts.Ticker == nil {
		opts.Ticker = f.ticker
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return f.start }
	}
	if opts.Codes == nil {
		opts.Codes = func() string { return "ABC123" }
	}
	f.hub = NewHub(alloc, f.store, opts)
	t.Cleanup(f.hub.Close)
	return f
}

func (f *fixture) send(p Peer, typ string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	frame, _ := json.Marshal(Envelope{Type: typ, Data: raw})
	f.hub.Handle(p, frame)
}

// ready creates ABC123 with both peers in it.
func (f *fixture) ready(t *testing.T) {
	t.Helper()
	f.send(f.host, MsgCreateRoom, struct{}{})
	f.send(f.guest, MsgJoinRoom, JoinRoom{RoomCode: "ABC123"})
	require.Equal(t, 1, f.host.count(EvHostCreatedRoom))
	require.Equal(t, 1, f.guest.count(EvGuestJoinedRoom))
}

// started readies the room and starts a match, returning the first board.
func (f *fixture) started(t *testing.T) Board {
	t.Helper()
	f.ready(t)
	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	var b Board
	f.host.last(t, EvGenerateBoards, &b)
	return b
}

// tick feeds one clock reading, sec seconds after start.
func (f *fixture) tick(sec int) {
	f.ticks <- f.start.Add(time.Duration(sec) * time.Second)
}

func (f *fixture) claim(p Peer, index int, word string) {
	f.send(p, MsgWordFound, map[string]any{
		"roomCode":  "ABC123",
		"wordIndex": index,
		"word":      word,
		"playerId":  p.ID(),
	})
}

func decodeInto(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func scoreOf(t *testing.T, p *fakePeer, id string) ScoreEntry {
	t.Helper()
	var u UpdateScores
	p.last(t, EvUpdateScores, &u)
	e, ok := u.Scores[id]
	require.True(t, ok, fmt.Sprintf("no score for %s", id))
	return e
}
