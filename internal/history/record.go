package history

import "time"

// MatchRecord is the archived outcome of one finished match.
type MatchRecord struct {
	ID         int64     `json:"id"`
	RoomCode   string    `json:"roomCode"`
	HostID     string    `json:"hostId"`
	GuestID    string    `json:"guestId"`
	HostScore  int       `json:"hostScore"`
	GuestScore int       `json:"guestScore"`
	HostWords  int       `json:"hostWordsFound"`
	GuestWords int       `json:"guestWordsFound"`
	Rounds     int       `json:"rounds"`
	IsTie      bool      `json:"isTie"`
	WinnerRole string    `json:"winnerRole,omitempty"` // "" on a tie
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
