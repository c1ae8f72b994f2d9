package session

import (
	"errors"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/words"
)

// Sentinel errors. Their text is what the originating client sees in the
// matching *Error event.
var (
	ErrRoomNotFound          = errors.New("Room not found")
	ErrRoomFull              = errors.New("Room is full")
	ErrRoomCodeRequired      = errors.New("Room code is required")
	ErrRoomCreationFailed    = errors.New("Failed to generate unique room code. Please try again.")
	ErrAlreadyInRoom         = errors.New("Already in a room")
	ErrNotHost               = errors.New("Only host can start the game")
	ErrWaitingForOpponent    = errors.New("Waiting for opponent")
	ErrGameAlreadyInProgress = errors.New("Game already in progress")
	ErrGameNotActive         = errors.New("Game is not active")
	ErrBoardEmpty            = errors.New("Could not place any words on the board")
)

// msgNotHostGenerate replaces ErrNotHost's text on the generateError event.
const msgNotHostGenerate = "Only host can request board generation"

var clientErrors = []error{
	ErrRoomNotFound, ErrRoomFull, ErrRoomCodeRequired, ErrRoomCreationFailed,
	ErrAlreadyInRoom, ErrNotHost, ErrWaitingForOpponent, ErrGameAlreadyInProgress,
	ErrGameNotActive, ErrBoardEmpty,
}

// clientMessage returns the text of the sentinel err wraps, so wrapped
// context never leaks to clients.
func clientMessage(err error) string {
	for _, s := range clientErrors {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	if errors.Is(err, words.ErrPoolExhausted) {
		return "Not enough words to build a puzzle"
	}
	return "Internal error"
}
