package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/usecase"
)

func renderTable(w io.Writer, result usecase.QueryResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	records := result.Records

	switch result.Descriptor.Intent {
	case query.IntentStandings:
		fmt.Fprintln(tw, "#\tTEAM\tP\tW\tD\tL\tGF\tGA\tPTS")
		for _, s := range records.Standings {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
				s.Position, s.Team.Name, s.PlayedGames, s.Won, s.Draw, s.Lost, s.GoalsFor, s.GoalsAgainst, s.Points)
		}
	case query.IntentScorers:
		fmt.Fprintln(tw, "#\tPLAYER\tTEAM\tGOALS")
		for i, s := range records.Scorers {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, s.Player.Name, s.Team.Name, s.Goals)
		}
	case query.IntentMatches:
		fmt.Fprintln(tw, "DATE\tHOME\tSCORE\tAWAY")
		for _, m := range records.Matches {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", matchDate(m), m.HomeTeam.Name, scoreLine(m), m.AwayTeam.Name)
		}
	case query.IntentTeam:
		if records.Team == nil {
			break
		}
		t := records.Team
		fmt.Fprintf(tw, "Team:\t%s\n", t.Name)
		fmt.Fprintf(tw, "Venue:\t%s\n", t.Venue)
		fmt.Fprintf(tw, "Colors:\t%s\n", t.ClubColors)
		fmt.Fprintf(tw, "Founded:\t%d\n\n", t.Founded)
		fmt.Fprintln(tw, "#\tPLAYER\tPOSITION")
		for i, p := range t.Squad {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, p.Name, p.Position)
		}
	case query.IntentCompetitions:
		fmt.Fprintln(tw, "ID\tNAME\tAREA")
		for _, c := range records.Competitions {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, c.Area.Name)
		}
	case query.IntentTeamStats:
		if records.TeamStats == nil {
			break
		}
		s := records.TeamStats
		fmt.Fprintln(tw, "TEAM\tPLAYED\tW\tD\tL\tWIN%")
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f\n", s.TeamName, s.TotalMatches, s.Wins, s.Draws, s.Losses, s.WinPercentage)
	}

	return tw.Flush()
}

func matchDate(m football.Match) string {
	if m.UTCDate.IsZero() {
		return "-"
	}
	return m.UTCDate.UTC().Format("2006-01-02")
}

func scoreLine(m football.Match) string {
	if !m.Finished() {
		return "-"
	}
	return strconv.Itoa(*m.Score.FullTime.Home) + "-" + strconv.Itoa(*m.Score.FullTime.Away)
}
