// internal/session/messages.go
//
// Wire protocol for room sessions.
// Every frame, in both directions, is a JSON envelope {"type", "data"}.
//
// Inbound frames decode into a closed set of Message types; anything else
// is a protocol error. Outbound events are plain structs marshalled by the
// transport at send time.

package session

import (
	"encoding/json"
	"fmt"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/game"
)

// Envelope is the frame shape shared by both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound message types.
const (
	MsgCreateRoom       = "createRoom"
	MsgJoinRoom         = "joinRoom"
	MsgHostStartGame    = "hostStartGame"
	MsgWordFound        = "wordFound"
	MsgRoundComplete    = "roundComplete"
	MsgRequestTimerSync = "requestTimerSync"
	MsgGenerateBoards   = "generateBoards"
	MsgLeaveRoom        = "leaveRoom"
)

// Outbound event names.
const (
	EvHostCreatedRoom = "hostCreatedRoom"
	EvGuestJoinedRoom = "guestJoinedRoom"
	EvOpponentJoined  = "opponentJoined"
	EvOpponentLeft    = "opponentLeft"
	EvGenerateBoards  = "generateBoards"
	EvNextBoard       = "nextBoard"
	EvHostStartGame   = "hostStartGame"
	EvTimerSync       = "timerSync"
	EvUpdateScores    = "updateScores"
	EvFinalResults    = "finalResults"

	EvCreateError    = "createError"
	EvJoinError      = "joinError"
	EvStartGameError = "startGameError"
	EvGenerateError  = "generateError"
	EvProtocolError  = "protocolError"
)

// Message is the closed union of client requests.
type Message interface{ isMessage() }

type CreateRoom struct{}

type JoinRoom struct {
	RoomCode string `json:"roomCode"`
}

type HostStartGame struct {
	RoomCode string `json:"roomCode"`
}

// WordFound claims a word. A selection (Path, or the Start/End endpoints
// of a drag) is checked against the grid; without one, WordIndex and Word
// must agree with the current puzzle. PlayerID is informational: the
// sender's connection is the claimant.
type WordFound struct {
	RoomCode  string       `json:"roomCode"`
	WordIndex *int         `json:"wordIndex"`
	Word      string       `json:"word"`
	PlayerID  string       `json:"playerId"`
	Path      []game.Coord `json:"path,omitempty"`
	Start     *game.Coord  `json:"start,omitempty"`
	End       *game.Coord  `json:"end,omitempty"`
}

type RoundComplete struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Role     string `json:"role"`
}

type RequestTimerSync struct {
	RoomCode string `json:"roomCode"`
}

type GenerateBoards struct {
	RoomCode string `json:"roomCode"`
}

type LeaveRoom struct {
	RoomCode string `json:"roomCode"`
}

func (CreateRoom) isMessage()       {}
func (JoinRoom) isMessage()         {}
func (HostStartGame) isMessage()    {}
func (WordFound) isMessage()        {}
func (RoundComplete) isMessage()    {}
func (RequestTimerSync) isMessage() {}
func (GenerateBoards) isMessage()   {}
func (LeaveRoom) isMessage()        {}

// Decode parses one inbound frame.
func Decode(raw []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}

	var m Message
	switch env.Type {
	case MsgCreateRoom:
		return CreateRoom{}, nil
	case MsgJoinRoom:
		m = &JoinRoom{}
	case MsgHostStartGame:
		m = &HostStartGame{}
	case MsgWordFound:
		m = &WordFound{}
	case MsgRoundComplete:
		m = &RoundComplete{}
	case MsgRequestTimerSync:
		m = &RequestTimerSync{}
	case MsgGenerateBoards:
		m = &GenerateBoards{}
	case MsgLeaveRoom:
		m = &LeaveRoom{}
	case "":
		return nil, fmt.Errorf("missing message type")
	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}

	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, m); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", env.Type, err)
		}
	}
	return deref(m), nil
}

func deref(m Message) Message {
	switch v := m.(type) {
	case *JoinRoom:
		return *v
	case *HostStartGame:
		return *v
	case *WordFound:
		return *v
	case *RoundComplete:
		return *v
	case *RequestTimerSync:
		return *v
	case *GenerateBoards:
		return *v
	case *LeaveRoom:
		return *v
	}
	return m
}

// Encode builds an outbound frame.
func Encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: event, Data: data})
}

// ---- outbound payloads ----

type RoomCreated struct {
	RoomCode string `json:"roomCode"`
	Role     Role   `json:"role"`
}

type RoomJoined struct {
	RoomCode string `json:"roomCode"`
	Role     Role   `json:"role"`
	HostID   string `json:"hostId"`
}

type OpponentJoined struct {
	GuestID string `json:"guestId"`
}

type OpponentLeft struct{}

// Board carries a puzzle to clients. Placements never leave the server.
type Board struct {
	Words   []string  `json:"words"`
	Grid    game.Grid `json:"grid"`
	Role    string    `json:"role,omitempty"`
	Round   int       `json:"round"`
	Message string    `json:"message,omitempty"`
}

type GameStarting struct {
	Message  string `json:"message"`
	RoomCode string `json:"roomCode"`
}

type TimerSync struct {
	TimeRemaining int  `json:"timeRemaining"`
	IsRunning     bool `json:"isRunning"`
}

// ScoreEntry is one player's line in a scoreboard, keyed by connection id.
type ScoreEntry struct {
	Score      int  `json:"score"`
	Role       Role `json:"role"`
	WordsFound int  `json:"wordsFound"`
}

type UpdateScores struct {
	Scores         map[string]ScoreEntry `json:"scores"`
	FoundWordIndex int                   `json:"foundWordIndex"`
	FoundWord      string                `json:"foundWord"`
	FoundBy        string                `json:"foundBy"`
	ColorIndex     int                   `json:"colorIndex"`
}

// Standing names a winner or loser.
type Standing struct {
	ID         string `json:"id"`
	Score      int    `json:"score"`
	WordsFound int    `json:"wordsFound"`
	Role       Role   `json:"role"`
}

type FinalResults struct {
	Scores          map[string]ScoreEntry `json:"scores"`
	IsTie           bool                  `json:"isTie"`
	Winner          *Standing             `json:"winner,omitempty"`
	Loser           *Standing             `json:"loser,omitempty"`
	HostScore       int                   `json:"hostScore"`
	GuestScore      int                   `json:"guestScore"`
	HostWordsFound  int                   `json:"hostWordsFound"`
	GuestWordsFound int                   `json:"guestWordsFound"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
