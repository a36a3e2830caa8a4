package football

import "context"

// Provider endpoints used by the query service.
const (
	EndpointStandings  = "/standings"
	EndpointTopScorers = "/players/topscorers"
	EndpointFixtures   = "/fixtures"
	EndpointTeams      = "/teams"
	EndpointSquads     = "/players/squads"
	EndpointLeagues    = "/leagues"
	EndpointSeasons    = "/leagues/seasons"
)

// Payload is the raw provider document returned by the gateway.
type Payload []byte

// Gateway performs the upstream call. Implementations own transport, secrets
// and retry policy; they return an error for any non-success response.
type Gateway interface {
	Fetch(ctx context.Context, endpoint string, params map[string]string) (Payload, error)
}

// DefaultLeagueIDs maps league codes to provider league ids.
var DefaultLeagueIDs = map[string]string{
	"PL":  "39",
	"PD":  "140",
	"BL1": "78",
	"SA":  "135",
	"FL1": "61",
	"383": "383",
}
