package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/domain/lexicon"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	"github.com/riskibarqy/football-query/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	text   string
	lang   query.Language
	result usecase.QueryResult
	err    error
}

func (s *stubRunner) RunQuery(_ context.Context, text string, lang query.Language) (usecase.QueryResult, error) {
	s.text = text
	s.lang = lang
	return s.result, s.err
}

func stubOpener(r *stubRunner) opener {
	return func(context.Context, *logging.Logger) (httpapi.QueryRunner, *lexicon.Lexicon, error) {
		return r, lexicon.Default(), nil
	}
}

func execute(t *testing.T, open opener, args ...string) (string, string, error) {
	t.Helper()

	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoot_PrintsSummaryAndTable(t *testing.T) {
	runner := &stubRunner{result: usecase.QueryResult{
		Descriptor: query.Descriptor{Intent: query.IntentStandings, League: "PL", Season: "2023"},
		Records: usecase.Records{Standings: []football.Standing{
			{Position: 1, Team: football.TeamRef{ID: 50, Name: "Man City"}, PlayedGames: 38, Won: 28, Draw: 7, Lost: 3, Points: 91, GoalsFor: 96, GoalsAgainst: 34},
		}},
	}}

	stdout, _, err := execute(t, stubOpener(runner), "premier", "league", "table")
	require.NoError(t, err)

	assert.Equal(t, "premier league table", runner.text)
	assert.Equal(t, query.LanguageEnglish, runner.lang)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Man City leads the table with 91 points", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "#"))
	assert.Contains(t, lines[3], "Man City")
	assert.True(t, strings.HasSuffix(lines[3], "91"))
}

func TestRoot_JSONOutput(t *testing.T) {
	runner := &stubRunner{result: usecase.QueryResult{
		Descriptor: query.Descriptor{Intent: query.IntentCompetitions},
		Records:    usecase.Records{Competitions: []football.Competition{{ID: 39, Name: "Premier League", Area: football.Area{Name: "England"}}}},
	}}

	stdout, _, err := execute(t, stubOpener(runner), "-o", "json", "--lang", "he", "ליגות")
	require.NoError(t, err)
	assert.Equal(t, query.LanguageHebrew, runner.lang)
	assert.Contains(t, stdout, `"intent": "competitions"`)
	assert.Contains(t, stdout, `"name": "Premier League"`)
}

func TestRoot_PrintsLocalizedFailure(t *testing.T) {
	runner := &stubRunner{err: fault.New(fault.CodeTeamNotFound, "no team", nil)}

	stdout, stderr, err := execute(t, stubOpener(runner), "--lang", "he", "ארסנל")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errQueryFailed))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "הקבוצה לא נמצאה.")
}

func TestRoot_RejectsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, stubOpener(&stubRunner{}), "-o", "xml", "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestRoot_RequiresQuestion(t *testing.T) {
	_, _, err := execute(t, stubOpener(&stubRunner{}))
	require.Error(t, err)
}

func TestSupported_ListsIntentLabels(t *testing.T) {
	stdout, _, err := execute(t, stubOpener(&stubRunner{}), "supported")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 6)
}

func TestRenderTable_Matches(t *testing.T) {
	two, one := 2, 1
	result := usecase.QueryResult{
		Descriptor: query.Descriptor{Intent: query.IntentMatches},
		Records: usecase.Records{Matches: []football.Match{
			{ID: 1, UTCDate: time.Date(2026, 8, 16, 14, 0, 0, 0, time.UTC), HomeTeam: football.Side{Name: "Arsenal"}, AwayTeam: football.Side{Name: "Chelsea"}, Score: football.Score{FullTime: football.FullTime{Home: &two, Away: &one}}},
			{ID: 2, HomeTeam: football.Side{Name: "Arsenal"}, AwayTeam: football.Side{Name: "Man City"}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, result))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"2026-08-16", "Arsenal", "2-1", "Chelsea"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"-", "Arsenal", "-", "Man", "City"}, strings.Fields(lines[2]))
}
