package session

import (
	"sort"
	"time"

	"github.com/MohanKumarMurugan/LexiBattle-V2/internal/history"
)

// standings ranks the room's players by score, then words found. Two
// players level on both is a tie with no winner or loser.
func standings(r *Room) FinalResults {
	ranked := make([]Standing, 0, len(r.players))
	for _, pl := range r.participants() {
		ranked = append(ranked, Standing{ID: pl.Peer.ID(), Score: pl.Score, WordsFound: pl.WordsFound, Role: pl.Role})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].WordsFound > ranked[j].WordsFound
	})

	res := FinalResults{Scores: r.scores()}
	for _, s := range ranked {
		switch s.Role {
		case RoleHost:
			res.HostScore, res.HostWordsFound = s.Score, s.WordsFound
		case RoleGuest:
			res.GuestScore, res.GuestWordsFound = s.Score, s.WordsFound
		}
	}

	res.IsTie = len(ranked) == 2 &&
		ranked[0].Score == ranked[1].Score &&
		ranked[0].WordsFound == ranked[1].WordsFound
	if !res.IsTie && len(ranked) > 0 {
		w := ranked[0]
		res.Winner = &w
		if len(ranked) > 1 {
			l := ranked[1]
			res.Loser = &l
		}
	}
	return res
}

// matchRecord converts a finished room into its history entry.
func matchRecord(r *Room, res FinalResults, finished time.Time) history.MatchRecord {
	m := history.MatchRecord{
		RoomCode:   r.Code,
		HostScore:  res.HostScore,
		GuestScore: res.GuestScore,
		HostWords:  res.HostWordsFound,
		GuestWords: res.GuestWordsFound,
		Rounds:     r.round,
		IsTie:      res.IsTie,
		StartedAt:  r.startedAt,
		FinishedAt: finished,
	}
	for _, pl := range r.participants() {
		if pl.Role == RoleHost {
			m.HostID = pl.Peer.ID()
		} else {
			m.GuestID = pl.Peer.ID()
		}
	}
	if res.Winner != nil {
		m.WinnerRole = string(res.Winner.Role)
	}
	return m
}
