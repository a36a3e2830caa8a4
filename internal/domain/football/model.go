package football

import "time"

// NotAvailable is the placeholder for optional text the provider omitted.
const NotAvailable = "Not available"

type TeamRef struct {
	ID   int64
	Name string
}

type PlayerRef struct {
	ID   int64
	Name string
}

// Standing represents a league table row for one team.
type Standing struct {
	Position     int
	Team         TeamRef
	PlayedGames  int
	Won          int
	Draw         int
	Lost         int
	Points       int
	GoalsFor     int
	GoalsAgainst int
}

type Scorer struct {
	Player PlayerRef
	Team   TeamRef
	Goals  int
}

type Side struct {
	Name string
}

// FullTime holds the final score. Nil values mean the fixture has not been
// played yet or is still in progress.
type FullTime struct {
	Home *int
	Away *int
}

type Score struct {
	FullTime FullTime
}

type Match struct {
	ID       int64
	UTCDate  time.Time
	HomeTeam Side
	AwayTeam Side
	Score    Score
}

// Finished reports whether both full-time goals are known.
func (m Match) Finished() bool {
	return m.Score.FullTime.Home != nil && m.Score.FullTime.Away != nil
}

type Player struct {
	ID       int64
	Name     string
	Position string
}

type Team struct {
	ID         int64
	Name       string
	Venue      string
	ClubColors string
	Founded    int
	Squad      []Player
}

// Clone returns a copy whose squad does not share memory with t.
func (t Team) Clone() Team {
	out := t
	out.Squad = append([]Player(nil), t.Squad...)
	if out.Squad == nil {
		out.Squad = []Player{}
	}
	return out
}

type Area struct {
	Name string
}

type Competition struct {
	ID   int64
	Name string
	Area Area
}

// TeamStats summarizes a team's finished fixtures in one league season.
type TeamStats struct {
	TeamID        int64
	TeamName      string
	TotalMatches  int
	Wins          int
	Draws         int
	Losses        int
	WinPercentage float64
}
