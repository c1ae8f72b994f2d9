package session

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/game"
	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/words"
)

const wait = 2 * time.Second

func TestCreateAndJoinRoom(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	var created RoomCreated
	f.host.last(t, EvHostCreatedRoom, &created)
	assert.Equal(t, RoomCreated{RoomCode: "ABC123", Role: RoleHost}, created)

	var joined RoomJoined
	f.guest.last(t, EvGuestJoinedRoom, &joined)
	assert.Equal(t, RoomJoined{RoomCode: "ABC123", Role: RoleGuest, HostID: "host-1"}, joined)

	var opp OpponentJoined
	f.host.last(t, EvOpponentJoined, &opp)
	assert.Equal(t, "guest-1", opp.GuestID)
	assert.Zero(t, f.guest.count(EvOpponentJoined))

	snap := f.hub.Rooms().Get("ABC123").Snapshot()
	assert.Equal(t, "ready", snap.State)
	assert.Len(t, snap.Participants, 2)
}

func TestJoinErrors(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	tests := []struct {
		name string
		peer *fakePeer
		code string
		want string
	}{
		{"missing code", newPeer("x1"), "", "Room code is required"},
		{"unknown room", newPeer("x2"), "ZZZ999", "Room not found"},
		{"room full", newPeer("x3"), "ABC123", "Room is full"},
		{"already in a room", f.guest, "ABC123", "Already in a room"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.send(tt.peer, MsgJoinRoom, JoinRoom{RoomCode: tt.code})
			var e ErrorPayload
			tt.peer.last(t, EvJoinError, &e)
			assert.Equal(t, tt.want, e.Error)
		})
	}
}

func TestCreateWhileInRoom(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	f.send(f.guest, MsgCreateRoom, struct{}{})

	var e ErrorPayload
	f.guest.last(t, EvCreateError, &e)
	assert.Equal(t, "Already in a room", e.Error)
	assert.Equal(t, 1, f.hub.Rooms().Len())
}

func TestStartGameErrors(t *testing.T) {
	f := newFixture(t)
	f.send(f.host, MsgCreateRoom, struct{}{})

	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	var e ErrorPayload
	f.host.last(t, EvStartGameError, &e)
	assert.Equal(t, "Waiting for opponent", e.Error)

	f.send(f.guest, MsgJoinRoom, JoinRoom{RoomCode: "ABC123"})
	f.send(f.guest, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	f.guest.last(t, EvStartGameError, &e)
	assert.Equal(t, "Only host can start the game", e.Error)

	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "NOPE00"})
	f.host.last(t, EvStartGameError, &e)
	assert.Equal(t, "Room not found", e.Error)

	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	f.host.last(t, EvStartGameError, &e)
	assert.Equal(t, "Game already in progress", e.Error)
	assert.Equal(t, 1, f.host.count(EvGenerateBoards))
	f.ticker.AssertNumberOfCalls(t, "Create", 1)
}

func TestStartDealsSharedBoard(t *testing.T) {
	f := newFixture(t)
	hostBoard := f.started(t)

	var guestBoard Board
	f.guest.last(t, EvGenerateBoards, &guestBoard)

	assert.Len(t, hostBoard.Words, 8)
	assert.Equal(t, hostBoard, guestBoard)
	assert.Equal(t, "shared", hostBoard.Role)
	assert.Equal(t, 1, hostBoard.Round)
	assert.Equal(t, 10, hostBoard.Grid.Size())

	var starting GameStarting
	f.guest.last(t, EvHostStartGame, &starting)
	assert.Equal(t, GameStarting{Message: "Game starting!", RoomCode: "ABC123"}, starting)

	var ts TimerSync
	f.guest.last(t, EvTimerSync, &ts)
	assert.Equal(t, TimerSync{TimeRemaining: 60, IsRunning: true}, ts)

	assert.Equal(t, []string{EvHostCreatedRoom, EvOpponentJoined, EvGenerateBoards, EvHostStartGame, EvTimerSync}, f.host.names())
}

func TestWordFoundScoresClaimant(t *testing.T) {
	f := newFixture(t)
	b := f.started(t)

	f.claim(f.guest, 3, b.Words[3])

	var u UpdateScores
	f.host.last(t, EvUpdateScores, &u)
	assert.Equal(t, 3, u.FoundWordIndex)
	assert.Equal(t, b.Words[3], u.FoundWord)
	assert.Equal(t, "guest-1", u.FoundBy)
	assert.Equal(t, 0, u.ColorIndex)
	assert.Equal(t, ScoreEntry{Score: 10, Role: RoleGuest, WordsFound: 1}, u.Scores["guest-1"])
	assert.Equal(t, ScoreEntry{Score: 0, Role: RoleHost, WordsFound: 0}, u.Scores["host-1"])

	nonZero := 0
	for _, s := range u.Scores {
		if s.Score != 0 {
			nonZero++
		}
	}
	assert.Equal(t, 1, nonZero)

	// a repeat claim, by either side, changes nothing
	f.claim(f.host, 3, b.Words[3])
	f.claim(f.guest, 3, b.Words[3])
	assert.Equal(t, 1, f.host.count(EvUpdateScores))
	assert.Equal(t, 1, f.guest.count(EvUpdateScores))
}

func TestWordFoundIgnoresBadClaims(t *testing.T) {
	f := newFixture(t)
	b := f.started(t)
	outsider := newPeer("outsider")

	f.claim(f.guest, 3, "NOTAWORD")
	f.claim(f.guest, 99, b.Words[0])
	f.claim(f.guest, -1, b.Words[0])
	f.claim(outsider, 0, b.Words[0])
	f.send(f.guest, MsgWordFound, map[string]any{"roomCode": "ABC123", "word": b.Words[0]})
	f.send(f.guest, MsgWordFound, map[string]any{
		"roomCode": "ABC123",
		"path":     []map[string]int{{"row": 0, "col": 0}, {"row": 1, "col": 2}},
	})

	assert.Zero(t, f.host.count(EvUpdateScores))
	assert.Zero(t, outsider.count(EvUpdateScores))
}

func TestWordFoundByPath(t *testing.T) {
	f := newFixture(t)
	f.started(t)

	r := f.hub.Rooms().Get("ABC123")
	r.mu.Lock()
	placed := r.puzzle.Placements[2]
	r.mu.Unlock()

	reversed := make([]map[string]int, 0, len(placed.Path))
	for i := len(placed.Path) - 1; i >= 0; i-- {
		reversed = append(reversed, map[string]int{"row": placed.Path[i].Row, "col": placed.Path[i].Col})
	}
	f.send(f.host, MsgWordFound, map[string]any{"roomCode": "ABC123", "path": reversed})

	var u UpdateScores
	f.guest.last(t, EvUpdateScores, &u)
	assert.Equal(t, 2, u.FoundWordIndex)
	assert.Equal(t, placed.Word, u.FoundWord)
	assert.Equal(t, "host-1", u.FoundBy)

	r.mu.Lock()
	for _, c := range placed.Path {
		assert.True(t, r.puzzle.Grid[c.Row][c.Col].Found)
	}
	r.mu.Unlock()
}

func TestWordFoundByEndpoints(t *testing.T) {
	f := newFixture(t)
	f.started(t)

	r := f.hub.Rooms().Get("ABC123")
	r.mu.Lock()
	placed := r.puzzle.Placements[1]
	r.mu.Unlock()
	first, last := placed.Path[0], placed.Path[len(placed.Path)-1]

	// a knight's move is never a straight selection
	f.send(f.guest, MsgWordFound, map[string]any{
		"roomCode": "ABC123",
		"start":    first,
		"end":      map[string]int{"row": first.Row + 1, "col": first.Col + 2},
	})
	assert.Zero(t, f.host.count(EvUpdateScores))

	f.send(f.guest, MsgWordFound, map[string]any{"roomCode": "ABC123", "start": first, "end": last})
	var u UpdateScores
	f.host.last(t, EvUpdateScores, &u)
	assert.Equal(t, 1, u.FoundWordIndex)
	assert.Equal(t, "guest-1", u.FoundBy)
}

func TestSimultaneousClaimsFirstWins(t *testing.T) {
	f := newFixture(t)
	b := f.started(t)

	var wg sync.WaitGroup
	for _, p := range []*fakePeer{f.host, f.guest} {
		wg.Add(1)
		go func(p *fakePeer) {
			defer wg.Done()
			f.claim(p, 0, b.Words[0])
		}(p)
	}
	wg.Wait()

	require.Equal(t, 1, f.host.count(EvUpdateScores))
	var u UpdateScores
	f.host.last(t, EvUpdateScores, &u)
	assert.Equal(t, 10, u.Scores["host-1"].Score+u.Scores["guest-1"].Score)
}

func TestHighlightColorsRotate(t *testing.T) {
	f := newFixture(t)
	b := f.started(t)

	var colors []int
	for i := 0; i < 3; i++ {
		f.claim(f.host, i, b.Words[i])
		var u UpdateScores
		f.host.last(t, EvUpdateScores, &u)
		colors = append(colors, u.ColorIndex)
	}
	assert.Equal(t, []int{0, 1, 2}, colors)
}

func TestTimerRunsToZeroOnce(t *testing.T) {
	f := newFixture(t)
	f.started(t)

	for s := 1; s <= 60; s++ {
		f.tick(s)
	}
	require.Eventually(t, func() bool { return f.guest.count(EvFinalResults) == 1 }, wait, 5*time.Millisecond)

	// ticks after expiry are never observed
	f.tick(61)
	f.tick(62)
	assert.Never(t, func() bool { return f.guest.count(EvTimerSync) > 61 }, 50*time.Millisecond, 5*time.Millisecond)

	syncs := f.guest.all(EvTimerSync)
	require.Len(t, syncs, 61)
	prev, zeros := 61, 0
	for i := range syncs {
		var ts TimerSync
		decodeInto(t, syncs[i], &ts)
		assert.LessOrEqual(t, ts.TimeRemaining, prev)
		prev = ts.TimeRemaining
		if ts.TimeRemaining == 0 {
			zeros++
			assert.False(t, ts.IsRunning)
		}
	}
	assert.Equal(t, 1, zeros)
	assert.Equal(t, 1, f.host.count(EvFinalResults))
	assert.Eventually(t, func() bool { return f.stops.get() == 1 }, wait, 5*time.Millisecond)

	assert.Equal(t, "finished", f.hub.Rooms().Get("ABC123").Snapshot().State)

	require.Eventually(t, func() bool {
		recs, _ := f.store.Recent(context.Background(), 10)
		return len(recs) == 1
	}, wait, 5*time.Millisecond)
	recs, _ := f.store.Recent(context.Background(), 10)
	assert.Equal(t, "ABC123", recs[0].RoomCode)
	assert.Equal(t, "host-1", recs[0].HostID)
	assert.Equal(t, "guest-1", recs[0].GuestID)
	assert.True(t, recs[0].IsTie)
}

func TestLateClaimIgnored(t *testing.T) {
	f := newFixture(t)
	b := f.started(t)

	f.tick(60)
	require.Eventually(t, func() bool { return f.host.count(EvFinalResults) == 1 }, wait, 5*time.Millisecond)

	f.claim(f.guest, 0, b.Words[0])
	assert.Zero(t, f.host.count(EvUpdateScores))
}

func TestTimerIgnoresOutOfOrderTicks(t *testing.T) {
	f := newFixture(t)
	f.started(t)

	f.tick(5)
	f.tick(3)
	f.tick(10)
	require.Eventually(t, func() bool { return f.host.count(EvTimerSync) == 4 }, wait, 5*time.Millisecond)

	var got []int
	for _, raw := range f.host.all(EvTimerSync) {
		var ts TimerSync
		decodeInto(t, raw, &ts)
		got = append(got, ts.TimeRemaining)
	}
	assert.Equal(t, []int{60, 55, 55, 50}, got)
}

func TestRequestTimerSync(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	f.send(f.guest, MsgRequestTimerSync, RequestTimerSync{RoomCode: "ABC123"})
	assert.Zero(t, f.guest.count(EvTimerSync))

	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	f.tick(10)
	require.Eventually(t, func() bool { return f.guest.count(EvTimerSync) == 2 }, wait, 5*time.Millisecond)

	f.send(f.guest, MsgRequestTimerSync, RequestTimerSync{RoomCode: "ABC123"})
	require.Equal(t, 3, f.guest.count(EvTimerSync))
	assert.Equal(t, 2, f.host.count(EvTimerSync))

	var ts TimerSync
	f.guest.last(t, EvTimerSync, &ts)
	assert.Equal(t, TimerSync{TimeRemaining: 50, IsRunning: true}, ts)
}

func TestChainRoundDealsFreshPuzzle(t *testing.T) {
	f := newFixture(t)
	first := f.started(t)

	for i, w := range first.Words {
		f.claim(f.host, i, w)
	}

	var next Board
	f.guest.last(t, EvNextBoard, &next)
	assert.Equal(t, 2, next.Round)
	assert.Len(t, next.Words, 8)
	assert.Equal(t, "Round 2 started! Keep going!", next.Message)
	for _, w := range next.Words {
		assert.NotContains(t, first.Words, w)
	}
	assert.Equal(t, 1, f.host.count(EvNextBoard))

	// the clock is untouched
	assert.Equal(t, 1, f.host.count(EvTimerSync))
	f.ticker.AssertNumberOfCalls(t, "Create", 1)

	snap := f.hub.Rooms().Get("ABC123").Snapshot()
	assert.Equal(t, 2, snap.Round)
	assert.Equal(t, 0, snap.WordsFound)
	for _, p := range snap.Participants {
		assert.Equal(t, 2, p.CurrentRound)
	}

	// scoring continues on the new puzzle
	f.claim(f.guest, 0, next.Words[0])
	assert.Equal(t, ScoreEntry{Score: 10, Role: RoleGuest, WordsFound: 1}, scoreOf(t, f.host, "guest-1"))
	assert.Equal(t, ScoreEntry{Score: 80, Role: RoleHost, WordsFound: 8}, scoreOf(t, f.host, "host-1"))
}

func TestRoundCompleteOnlyResyncs(t *testing.T) {
	f := newFixture(t)
	b := f.started(t)

	f.send(f.guest, MsgRoundComplete, RoundComplete{RoomCode: "ABC123", PlayerID: "guest-1", Role: "guest"})

	var got Board
	f.guest.last(t, EvNextBoard, &got)
	assert.Equal(t, b.Words, got.Words)
	assert.Equal(t, 1, got.Round)
	assert.Zero(t, f.host.count(EvNextBoard))
	assert.Equal(t, 1, f.hub.Rooms().Get("ABC123").Snapshot().Round)
}

func TestTieAfterEqualPlay(t *testing.T) {
	f := newFixture(t)
	b := f.started(t)

	for round := 0; round < 2; round++ {
		for i, w := range b.Words {
			p := f.host
			if i >= 4 {
				p = f.guest
			}
			f.claim(p, i, w)
		}
		f.host.last(t, EvNextBoard, &b)
	}

	f.tick(60)
	require.Eventually(t, func() bool { return f.host.count(EvFinalResults) == 1 }, wait, 5*time.Millisecond)

	var res FinalResults
	f.guest.last(t, EvFinalResults, &res)
	assert.True(t, res.IsTie)
	assert.Nil(t, res.Winner)
	assert.Nil(t, res.Loser)
	assert.Equal(t, 80, res.HostScore)
	assert.Equal(t, 80, res.GuestScore)
	assert.Equal(t, 8, res.HostWordsFound)
	assert.Equal(t, 8, res.GuestWordsFound)
}

func TestWinnerAndLoser(t *testing.T) {
	f := newFixture(t)
	b := f.started(t)

	f.claim(f.guest, 0, b.Words[0])
	f.claim(f.guest, 1, b.Words[1])
	f.claim(f.host, 2, b.Words[2])

	f.tick(60)
	require.Eventually(t, func() bool { return f.host.count(EvFinalResults) == 1 }, wait, 5*time.Millisecond)

	var res FinalResults
	f.host.last(t, EvFinalResults, &res)
	assert.False(t, res.IsTie)
	require.NotNil(t, res.Winner)
	require.NotNil(t, res.Loser)
	assert.Equal(t, Standing{ID: "guest-1", Score: 20, WordsFound: 2, Role: RoleGuest}, *res.Winner)
	assert.Equal(t, Standing{ID: "host-1", Score: 10, WordsFound: 1, Role: RoleHost}, *res.Loser)

	require.Eventually(t, func() bool {
		recs, _ := f.store.Recent(context.Background(), 1)
		return len(recs) == 1 && recs[0].WinnerRole == "guest"
	}, wait, 5*time.Millisecond)
}

func TestRestartResetsMatch(t *testing.T) {
	f := newFixture(t)
	b := f.started(t)

	f.claim(f.host, 0, b.Words[0])
	f.tick(60)
	require.Eventually(t, func() bool { return f.host.count(EvFinalResults) == 1 }, wait, 5*time.Millisecond)

	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	require.Equal(t, 2, f.guest.count(EvGenerateBoards))

	snap := f.hub.Rooms().Get("ABC123").Snapshot()
	assert.Equal(t, "active", snap.State)
	assert.Equal(t, 1, snap.Round)
	for _, p := range snap.Participants {
		assert.Zero(t, p.Score)
		assert.Zero(t, p.WordsFound)
		assert.Equal(t, 1, p.CurrentRound)
	}
	f.ticker.AssertNumberOfCalls(t, "Create", 2)
}

func TestGenerateBoards(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	var e ErrorPayload
	f.send(f.guest, MsgGenerateBoards, GenerateBoards{RoomCode: "ABC123"})
	f.guest.last(t, EvGenerateError, &e)
	assert.Equal(t, "Only host can request board generation", e.Error)

	f.send(f.host, MsgGenerateBoards, GenerateBoards{RoomCode: "ABC123"})
	f.host.last(t, EvGenerateError, &e)
	assert.Equal(t, "Game is not active", e.Error)

	f.send(f.host, MsgGenerateBoards, GenerateBoards{RoomCode: "GONE00"})
	f.host.last(t, EvGenerateError, &e)
	assert.Equal(t, "Room not found", e.Error)

	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	var first Board
	f.guest.last(t, EvGenerateBoards, &first)
	f.claim(f.guest, 0, first.Words[0])

	f.send(f.host, MsgGenerateBoards, GenerateBoards{RoomCode: "ABC123"})
	require.Equal(t, 2, f.guest.count(EvGenerateBoards))

	var fresh Board
	f.guest.last(t, EvGenerateBoards, &fresh)
	assert.Equal(t, 1, fresh.Round)
	for _, w := range fresh.Words {
		assert.NotContains(t, first.Words, w)
	}
	assert.Equal(t, 10, scoreOf(t, f.host, "guest-1").Score)
	assert.Equal(t, 0, f.hub.Rooms().Get("ABC123").Snapshot().WordsFound)
}

func TestDisconnectMidMatch(t *testing.T) {
	f := newFixture(t)
	f.started(t)

	f.hub.Disconnect(f.guest)

	assert.Equal(t, 1, f.host.count(EvOpponentLeft))
	r := f.hub.Rooms().Get("ABC123")
	require.NotNil(t, r)
	snap := r.Snapshot()
	assert.Len(t, snap.Participants, 1)
	assert.Equal(t, "lobby", snap.State)
	assert.Eventually(t, func() bool { return f.stops.get() == 1 }, wait, 5*time.Millisecond)

	f.tick(1)
	assert.Never(t, func() bool { return f.host.count(EvTimerSync) > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Zero(t, f.host.count(EvFinalResults))

	// a second disconnect is a no-op
	f.hub.Disconnect(f.guest)
	assert.Equal(t, 1, f.host.count(EvOpponentLeft))
}

func TestHostLeaveKeepsGuestAsGuest(t *testing.T) {
	f := newFixture(t)
	f.ready(t)

	f.send(f.host, MsgLeaveRoom, LeaveRoom{RoomCode: "ABC123"})
	assert.Equal(t, 1, f.guest.count(EvOpponentLeft))

	snap := f.hub.Rooms().Get("ABC123").Snapshot()
	assert.Equal(t, "host-1", snap.HostID)
	require.Len(t, snap.Participants, 1)
	assert.Equal(t, RoleGuest, snap.Participants[0].Role)

	newcomer := newPeer("guest-2")
	f.send(newcomer, MsgJoinRoom, JoinRoom{RoomCode: "ABC123"})
	var joined RoomJoined
	newcomer.last(t, EvGuestJoinedRoom, &joined)
	assert.Equal(t, "host-1", joined.HostID)

	f.send(f.guest, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	var e ErrorPayload
	f.guest.last(t, EvStartGameError, &e)
	assert.Equal(t, "Only host can start the game", e.Error)
	assert.Zero(t, newcomer.count(EvGenerateBoards))
	f.ticker.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLastLeaveDeletesRoom(t *testing.T) {
	f := newFixture(t)
	f.started(t)

	f.send(f.host, MsgLeaveRoom, LeaveRoom{RoomCode: "ABC123"})
	f.send(f.host, MsgLeaveRoom, LeaveRoom{RoomCode: "ABC123"})
	assert.Equal(t, 1, f.hub.Rooms().Len())

	f.hub.Disconnect(f.guest)
	assert.Zero(t, f.hub.Rooms().Len())
	assert.Nil(t, f.hub.Rooms().RoomOf("guest-1"))

	// both connections are free to start over
	f.send(f.guest, MsgCreateRoom, struct{}{})
	assert.Equal(t, 1, f.guest.count(EvHostCreatedRoom))
}

func TestProtocolErrors(t *testing.T) {
	f := newFixture(t)
	p := newPeer("p")

	for _, frame := range []string{`not json`, `{"type":"teleport"}`, `{"data":{}}`, `{"type":"joinRoom","data":[1]}`} {
		f.hub.Handle(p, []byte(frame))
	}
	assert.Equal(t, 4, p.count(EvProtocolError))
	assert.Zero(t, f.hub.Rooms().Len())
}

func TestCreateRoomCodeExhausted(t *testing.T) {
	f := newFixture(t)
	f.send(f.host, MsgCreateRoom, struct{}{})

	other := newPeer("other-1")
	f.send(other, MsgCreateRoom, struct{}{})

	var e ErrorPayload
	other.last(t, EvCreateError, &e)
	assert.Equal(t, "Failed to generate unique room code. Please try again.", e.Error)
	assert.Zero(t, other.count(EvHostCreatedRoom))
	assert.Equal(t, 1, f.hub.Rooms().Len())
	assert.Nil(t, f.hub.Rooms().RoomOf("other-1"))
}

func TestStartFailsOnTinyPool(t *testing.T) {
	alloc := words.NewAllocator([]string{"CAT", "DOG", "SUN"}, rand.New(rand.NewPCG(1, 1)))
	f := newFixtureWith(t, alloc, Options{})
	f.ready(t)

	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})

	var e ErrorPayload
	f.host.last(t, EvStartGameError, &e)
	assert.Equal(t, "Not enough words to build a puzzle", e.Error)
	assert.Zero(t, f.host.count(EvGenerateBoards))
	assert.Zero(t, f.guest.count(EvGenerateBoards))
	assert.Zero(t, f.guest.count(EvHostStartGame))
	assert.Equal(t, "ready", f.hub.Rooms().Get("ABC123").Snapshot().State)
	f.ticker.AssertNotCalled(t, "Create", mock.Anything)
}

func TestPoolIsFittedToGrid(t *testing.T) {
	long := []string{"MOUNTAINS", "ELEPHANTS", "TELESCOPE", "BLUEBERRY", "CROCODILE",
		"SUNFLOWER", "PINEAPPLE", "BUTTERFLY", "CHOCOLATE", "WATERFALL"}

	f := newFixtureWith(t, words.NewAllocator(long, rand.New(rand.NewPCG(1, 1))), Options{GridSize: 6})
	f.ready(t)
	f.send(f.host, MsgHostStartGame, HostStartGame{RoomCode: "ABC123"})
	var e ErrorPayload
	f.host.last(t, EvStartGameError, &e)
	assert.Equal(t, "Not enough words to build a puzzle", e.Error)
	assert.Zero(t, f.host.count(EvGenerateBoards))

	mixed := append(append([]string(nil), long...), testWords...)
	g := newFixtureWith(t, words.NewAllocator(mixed, rand.New(rand.NewPCG(1, 1))), Options{GridSize: 6, PuzzleWords: 4})
	b := g.started(t)
	require.NotEmpty(t, b.Words)
	for _, w := range b.Words {
		assert.LessOrEqual(t, len(w), 6, w)
	}
	assert.Len(t, b.Grid, 6)
}

func TestTimerSyncRequiresMembership(t *testing.T) {
	f := newFixture(t)
	f.started(t)

	outsider := newPeer("outsider")
	f.send(outsider, MsgRequestTimerSync, RequestTimerSync{RoomCode: "ABC123"})
	assert.Zero(t, outsider.count(EvTimerSync))

	f.send(f.guest, MsgRequestTimerSync, RequestTimerSync{RoomCode: "ABC123"})
	assert.Equal(t, 2, f.guest.count(EvTimerSync))
}

func TestReversedWordPairBothScore(t *testing.T) {
	f := newFixture(t)
	f.started(t)

	grid := game.NewGrid(game.DefaultSize)
	for c, ch := range "STAR" {
		grid[0][c].Letter = string(ch)
	}
	forward := []game.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}}
	backward := []game.Coord{{Row: 0, Col: 3}, {Row: 0, Col: 2}, {Row: 0, Col: 1}, {Row: 0, Col: 0}}

	r := f.hub.Rooms().Get("ABC123")
	r.mu.Lock()
	r.setPuzzle(game.Puzzle{
		Words: []string{"STAR", "RATS"},
		Grid:  grid,
		Placements: []game.PlacedWord{
			{Word: "STAR", Path: forward, Start: forward[0], Direction: game.Direction{DX: 0, DY: 1}},
			{Word: "RATS", Path: backward, Start: backward[0], Direction: game.Direction{DX: 0, DY: -1}},
		},
	})
	r.mu.Unlock()

	path := map[string]any{"roomCode": "ABC123", "path": forward}
	f.send(f.host, MsgWordFound, path)
	f.send(f.guest, MsgWordFound, path)

	updates := f.host.all(EvUpdateScores)
	require.Len(t, updates, 2)
	var first, second UpdateScores
	decodeInto(t, updates[0], &first)
	decodeInto(t, updates[1], &second)
	assert.Equal(t, "STAR", first.FoundWord)
	assert.Equal(t, "host-1", first.FoundBy)
	assert.Equal(t, "RATS", second.FoundWord)
	assert.Equal(t, "guest-1", second.FoundBy)
	assert.Equal(t, 1, f.host.count(EvNextBoard), "both words found starts the next round")
}
