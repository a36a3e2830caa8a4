package transform

// Provider documents follow the API-Football v3 layout: every endpoint wraps
// its items in {"response": [...]}. Required values are pointers so a missing
// key can be told apart from a zero.

type envelope[T any] struct {
	Results  int `json:"results"`
	Response []T `json:"response"`
}

type teamRefDTO struct {
	ID   *int64  `json:"id" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

type goalsForAgainstDTO struct {
	For     *int `json:"for" validate:"required,min=0"`
	Against *int `json:"against" validate:"required,min=0"`
}

type standingRecordDTO struct {
	Played *int                `json:"played" validate:"required,min=0"`
	Win    *int                `json:"win" validate:"required,min=0"`
	Draw   *int                `json:"draw" validate:"required,min=0"`
	Lose   *int                `json:"lose" validate:"required,min=0"`
	Goals  *goalsForAgainstDTO `json:"goals" validate:"required"`
}

type standingRowDTO struct {
	Rank   *int               `json:"rank" validate:"required,min=1"`
	Team   *teamRefDTO        `json:"team" validate:"required"`
	Points *int               `json:"points" validate:"required,min=0"`
	All    *standingRecordDTO `json:"all" validate:"required"`
}

type standingsLeagueDTO struct {
	League struct {
		ID        int64              `json:"id"`
		Name      string             `json:"name"`
		Season    int                `json:"season"`
		Standings [][]standingRowDTO `json:"standings"`
	} `json:"league"`
}

type playerRefDTO struct {
	ID   *int64  `json:"id" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

type scorerGoalsDTO struct {
	Total *int `json:"total" validate:"required,min=0"`
}

type scorerStatDTO struct {
	Team  *teamRefDTO     `json:"team" validate:"required"`
	Goals *scorerGoalsDTO `json:"goals" validate:"required"`
}

type scorerDTO struct {
	Player     *playerRefDTO   `json:"player" validate:"required"`
	Statistics []scorerStatDTO `json:"statistics" validate:"required,min=1,dive"`
}

type fixtureInfoDTO struct {
	ID   *int64  `json:"id" validate:"required"`
	Date *string `json:"date" validate:"required"`
}

type fixtureTeamsDTO struct {
	Home *teamRefDTO `json:"home" validate:"required"`
	Away *teamRefDTO `json:"away" validate:"required"`
}

type fixtureGoalsDTO struct {
	Home *int `json:"home" validate:"omitnil,min=0"`
	Away *int `json:"away" validate:"omitnil,min=0"`
}

type fixtureDTO struct {
	Fixture *fixtureInfoDTO  `json:"fixture" validate:"required"`
	Teams   *fixtureTeamsDTO `json:"teams" validate:"required"`
	Goals   fixtureGoalsDTO  `json:"goals"`
}

type teamColorsDTO struct {
	Player string `json:"player"`
}

type teamProfileTeamDTO struct {
	ID      *int64         `json:"id" validate:"required"`
	Name    *string        `json:"name" validate:"required"`
	Founded *int           `json:"founded"`
	Colors  *teamColorsDTO `json:"colors"`
}

type venueDTO struct {
	Name string `json:"name"`
}

type teamProfileDTO struct {
	Team  *teamProfileTeamDTO `json:"team" validate:"required"`
	Venue *venueDTO           `json:"venue"`
}

type squadPlayerDTO struct {
	ID       *int64  `json:"id" validate:"required"`
	Name     *string `json:"name" validate:"required"`
	Position string  `json:"position"`
}

type squadDTO struct {
	Players []squadPlayerDTO `json:"players" validate:"dive"`
}

type competitionLeagueDTO struct {
	ID   *int64  `json:"id" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

type countryDTO struct {
	Name string `json:"name"`
}

type competitionDTO struct {
	League  *competitionLeagueDTO `json:"league" validate:"required"`
	Country *countryDTO           `json:"country"`
}
