package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	"github.com/riskibarqy/football-query/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls int
	text  string
	lang  query.Language
	run   func(ctx context.Context, text string, lang query.Language) (usecase.QueryResult, error)
}

func (f *fakeRunner) RunQuery(ctx context.Context, text string, lang query.Language) (usecase.QueryResult, error) {
	f.calls++
	f.text = text
	f.lang = lang
	return f.run(ctx, text, lang)
}

func returning(result usecase.QueryResult, err error) *fakeRunner {
	return &fakeRunner{run: func(context.Context, string, query.Language) (usecase.QueryResult, error) {
		return result, err
	}}
}

type envelope struct {
	Data struct {
		Descriptor  map[string]any `json:"descriptor"`
		Intent      string         `json:"intent"`
		IntentLabel string         `json:"intentLabel"`
		Summary     string         `json:"summary"`
		Records     any            `json:"records"`
	} `json:"data"`
	Error *struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Status  string         `json:"status"`
		Details map[string]any `json:"details"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func postQuery(t *testing.T, runner QueryRunner, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	handler := NewHandler(runner, nil, logging.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.RunQuery(rec, req)

	var out envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func standingsResult() usecase.QueryResult {
	return usecase.QueryResult{
		Descriptor: query.Descriptor{Intent: query.IntentStandings, League: "PL", Season: "2023", Limit: query.DefaultLimit},
		Records: usecase.Records{Standings: []football.Standing{
			{Position: 1, Team: football.TeamRef{ID: 42, Name: "Arsenal"}, PlayedGames: 38, Won: 26, Draw: 6, Lost: 6, Points: 84, GoalsFor: 88, GoalsAgainst: 43},
			{Position: 2, Team: football.TeamRef{ID: 50, Name: "Manchester City"}, PlayedGames: 38, Points: 82},
		}},
	}
}

func TestHandler_RunQueryStandings(t *testing.T) {
	t.Parallel()

	runner := returning(standingsResult(), nil)
	rec, body := postQuery(t, runner, `{"query":"Premier League table 2023","language":"en"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Premier League table 2023", runner.text)
	assert.Equal(t, query.LanguageEnglish, runner.lang)
	assert.Equal(t, "standings", body.Data.Intent)
	assert.Equal(t, "PL", body.Data.Descriptor["league"])
	assert.Equal(t, "Arsenal leads the table with 84 points", body.Data.Summary)

	rows, ok := body.Data.Records.([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Arsenal", first["team"].(map[string]any)["name"])
	assert.EqualValues(t, 84, first["points"])
}

func TestHandler_RunQueryDefaultsToEnglish(t *testing.T) {
	t.Parallel()

	runner := returning(standingsResult(), nil)
	rec, _ := postQuery(t, runner, `{"query":"table"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, query.LanguageEnglish, runner.lang)
}

func TestHandler_RunQueryHebrewSummary(t *testing.T) {
	t.Parallel()

	result := usecase.QueryResult{
		Descriptor: query.Descriptor{Intent: query.IntentScorers, League: "383", Season: "2023", Limit: query.DefaultLimit},
		Records: usecase.Records{Scorers: []football.Scorer{
			{Player: football.PlayerRef{ID: 7, Name: "Dor Turgeman"}, Team: football.TeamRef{ID: 604, Name: "Maccabi Tel Aviv"}, Goals: 21},
		}},
	}
	rec, body := postQuery(t, returning(result, nil), `{"query":"מלך השערים","language":"he"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dor Turgeman הוא מלך השערים עם 21 שערים", body.Data.Summary)
}

func TestHandler_RunQueryMatchesKeepsNullScores(t *testing.T) {
	t.Parallel()

	result := usecase.QueryResult{
		Descriptor: query.Descriptor{Intent: query.IntentMatches, League: "PL", Season: "2023", Limit: query.DefaultLimit},
		Records: usecase.Records{Matches: []football.Match{
			{ID: 1, HomeTeam: football.Side{Name: "Arsenal"}, AwayTeam: football.Side{Name: "Chelsea"}},
		}},
	}
	rec, body := postQuery(t, returning(result, nil), `{"query":"last results","language":"en"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Latest match: Arsenal - - - Chelsea", body.Data.Summary)
	rows := body.Data.Records.([]any)
	score := rows[0].(map[string]any)["score"].(map[string]any)["fullTime"].(map[string]any)
	assert.Nil(t, score["home"])
	assert.Nil(t, score["away"])
}

func TestHandler_RunQueryLocalizedInputError(t *testing.T) {
	t.Parallel()

	err := fault.New(fault.CodeInvalidSeason, "season 2019 outside 2021..2026", map[string]any{"season": "2019", "min": 2021, "max": 2026})
	rec, body := postQuery(t, returning(usecase.QueryResult{}, err), `{"query":"table 2019","language":"en"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_ARGUMENT", body.Error.Status)
	assert.Equal(t, "Season 2019 is not supported. Please try a season between 2021 and 2026.", body.Error.Message)
	assert.Equal(t, "INVALID_SEASON", body.Error.Errors[0].Reason)
}

func TestHandler_RunQueryNotFound(t *testing.T) {
	t.Parallel()

	err := fault.New(fault.CodeNoScorersFound, "no scorers", map[string]any{"league": "PL", "season": "2023"})
	rec, body := postQuery(t, returning(usecase.QueryResult{}, err), `{"query":"top scorers","language":"en"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body.Error.Status)
	assert.Equal(t, "PL", body.Error.Details["league"])
}

func TestHandler_RunQueryUpstreamFailures(t *testing.T) {
	t.Parallel()

	t.Run("circuit open", func(t *testing.T) {
		err := fault.Classify(fmt.Errorf("%w: circuit open", usecase.ErrDependencyUnavailable), fault.CodeUnknownError)
		rec, body := postQuery(t, returning(usecase.QueryResult{}, err), `{"query":"table"}`)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Something went wrong while fetching football data. Please try again.", body.Error.Message)
	})

	t.Run("timeout", func(t *testing.T) {
		err := fault.Classify(fmt.Errorf("fetch /standings: %w", context.DeadlineExceeded), fault.CodeUnknownError)
		rec, _ := postQuery(t, returning(usecase.QueryResult{}, err), `{"query":"table"}`)
		require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})
}

func TestHandler_RunQueryUnsupportedLanguageReachesCore(t *testing.T) {
	t.Parallel()

	err := fault.New(fault.CodeInvalidQuery, "unsupported language", map[string]any{"language": "fr"})
	runner := returning(usecase.QueryResult{}, err)
	rec, body := postQuery(t, runner, `{"query":"classement","language":"fr"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, query.Language("fr"), runner.lang)
	assert.True(t, strings.HasPrefix(body.Error.Message, "Invalid query"))
}

func TestHandler_RunQueryRejectsBadPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `query=table`},
		{name: "unknown field", body: `{"query":"table","season":"2023"}`},
		{name: "too long", body: `{"query":"` + strings.Repeat("a", 501) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := returning(standingsResult(), nil)
			rec, body := postQuery(t, runner, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalidInput", body.Error.Errors[0].Reason)
			assert.Zero(t, runner.calls)
		})
	}
}

func TestHandler_SupportedQueries(t *testing.T) {
	t.Parallel()

	handler := NewHandler(returning(usecase.QueryResult{}, nil), nil, logging.NewNop())
	rec := httptest.NewRecorder()
	handler.SupportedQueries(rec, httptest.NewRequest(http.MethodGet, "/v1/queries/supported", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data supportedQueriesDTO `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data.Languages, 2)
	assert.Len(t, body.Data.Intents["en"], 6)
	assert.Len(t, body.Data.Intents["he"], 6)
}
