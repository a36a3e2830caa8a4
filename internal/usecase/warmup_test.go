package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/football-query/internal/domain/football"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/interpret"
	footballmock "github.com/riskibarqy/football-query/internal/mocks/domain/football"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueryService_WarmFillsCache(t *testing.T) {
	t.Parallel()

	gateway := footballmock.NewGateway(t)
	gateway.
		On("Fetch", mock.Anything, football.EndpointStandings, map[string]string{"league": "39", "season": "2026"}).
		Return(football.Payload(standingsDoc), nil).
		Once()
	gateway.
		On("Fetch", mock.Anything, football.EndpointStandings, map[string]string{"league": "383", "season": "2026"}).
		Return(nil, errors.New("proxy status=503")).
		Once()

	service := newQueryServiceForTest(t, gateway, newClock(), nil)
	result, err := service.Warm(context.Background(), []string{"pl", "PL", " 383 ", ""}, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Leagues)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)

	// Served from the warmed cache: the mock allows one standings call for PL.
	got, err := service.RunQuery(context.Background(), "premier league table", query.LanguageEnglish)
	require.NoError(t, err)
	assert.Len(t, got.Records.Standings, 1)
}

func TestQueryService_WarmWithoutLeagues(t *testing.T) {
	t.Parallel()

	service := newQueryServiceForTest(t, footballmock.NewGateway(t), newClock(), nil)
	result, err := service.Warm(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Zero(t, result.Leagues)
}

func TestDiscoverSeasonRange(t *testing.T) {
	t.Parallel()

	fallback := interpret.SeasonRange{Min: 2021, Max: 2023}

	t.Run("discovered", func(t *testing.T) {
		t.Parallel()

		gateway := footballmock.NewGateway(t)
		gateway.
			On("Fetch", mock.Anything, football.EndpointSeasons, map[string]string(nil)).
			Return(football.Payload(`{"response":[2010,2024,2018,2025]}`), nil).
			Once()

		got := DiscoverSeasonRange(context.Background(), gateway, fallback, nil)
		assert.Equal(t, interpret.SeasonRange{Min: 2010, Max: 2025}, got)
	})

	t.Run("upstream failure", func(t *testing.T) {
		t.Parallel()

		gateway := footballmock.NewGateway(t)
		gateway.On("Fetch", mock.Anything, football.EndpointSeasons, mock.Anything).Return(nil, errors.New("down")).Once()

		assert.Equal(t, fallback, DiscoverSeasonRange(context.Background(), gateway, fallback, nil))
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		gateway := footballmock.NewGateway(t)
		gateway.On("Fetch", mock.Anything, football.EndpointSeasons, mock.Anything).Return(football.Payload(`{"response":[]}`), nil).Once()

		assert.Equal(t, fallback, DiscoverSeasonRange(context.Background(), gateway, fallback, nil))
	})
}
