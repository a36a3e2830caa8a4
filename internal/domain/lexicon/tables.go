package lexicon

import "github.com/riskibarqy/football-query/internal/domain/query"

// Intent weights in hundredths. Scorer vocabulary outweighs the generic
// league/competition vocabulary; team-stats phrases are the most specific.
const (
	weightStandings    = 100
	weightScorers      = 120
	weightMatches      = 100
	weightTeam         = 110
	weightCompetitions = 90
	weightTeamStats    = 130
)

// MetricWinPercentage is the only metric the team-stats intent computes.
const MetricWinPercentage = "win percentage"

func build() *Lexicon {
	en := query.LanguageEnglish
	he := query.LanguageHebrew

	intents := map[Key][]Pattern{
		{en, query.IntentStandings}: phrases(weightStandings,
			"table", "league table", "standing", "standings", "current standings",
			"position", "positions", "league position", "rank", "ranking", "rankings",
			"team rankings", "who is leading", "who leads", "top of", "bottom of",
			"relegated", "relegation", "promotion", "points",
		),
		{en, query.IntentScorers}: phrases(weightScorers,
			"top scorer", "top scorers", "scorer", "scorers", "goal scorer", "goal scorers",
			"goalscorer", "top goalscorer", "goals", "most goals", "leading scorer",
			"who scored", "best striker", "golden boot", "scoring charts", "goal tally",
			"scoring leader", "goal king",
		),
		{en, query.IntentMatches}: phrases(weightMatches,
			"match", "matches", "game", "games", "fixture", "fixtures", "fixture list",
			"score", "result", "results", "played", "when", "next game", "last game",
			"upcoming", "schedule", "head to head", "h2h", "matchday", "gameweek", "round",
		),
		{en, query.IntentTeam}: phrases(weightTeam,
			"team", "team info", "squad", "roster", "players", "club", "club info",
			"who plays for", "team sheet", "lineup", "formation", "team news",
			"first team", "starting eleven", "bench", "reserves",
		),
		{en, query.IntentCompetitions}: phrases(weightCompetitions,
			"league", "leagues", "competition", "competitions", "competitions list",
			"tournament", "tournaments", "championships", "available leagues",
			"which leagues", "divisions", "cups",
		),
		{en, query.IntentTeamStats}: phrases(weightTeamStats,
			"stats", "statistics", "win percentage", "win rate", "performance",
		),

		{he, query.IntentStandings}: phrases(weightStandings,
			"טבלה", "טבלת", "טבלת ליגה", "דירוג", "דירוג קבוצות", "מיקום",
		),
		{he, query.IntentScorers}: phrases(weightScorers,
			"מלך שערים", "מלך השערים", "כובש", "מבקיע", "מבקיעים", "שערים",
		),
		{he, query.IntentMatches}: phrases(weightMatches,
			"משחק", "משחקים", "תוצאה", "תוצאות", "מחזור", "מתי",
		),
		{he, query.IntentTeam}: phrases(weightTeam,
			"קבוצה", "שחקנים", "סגל", "הרכב",
		),
		{he, query.IntentCompetitions}: phrases(weightCompetitions,
			"ליגות", "תחרויות", "טורנירים",
		),
		{he, query.IntentTeamStats}: phrases(weightTeamStats,
			"סטטיסטיקה", "סטטיסטיקות", "אחוז ניצחונות", "ביצועים",
		),
	}

	labels := map[Key]string{
		{en, query.IntentStandings}:    "league standings",
		{en, query.IntentScorers}:      "top scorers",
		{en, query.IntentMatches}:      "match results",
		{en, query.IntentTeam}:         "team information",
		{en, query.IntentCompetitions}: "available competitions",
		{en, query.IntentTeamStats}:    "team statistics",
		{he, query.IntentStandings}:    "טבלת הליגה",
		{he, query.IntentScorers}:      "מלך השערים",
		{he, query.IntentMatches}:      "תוצאות משחקים",
		{he, query.IntentTeam}:         "מידע על קבוצה",
		{he, query.IntentCompetitions}: "ליגות זמינות",
		{he, query.IntentTeamStats}:    "סטטיסטיקת קבוצה",
	}

	seasons := map[SeasonKind][]Pattern{
		SeasonCurrent:  phrases(0, "this season", "current season", "העונה הנוכחית"),
		SeasonPrevious: phrases(0, "last season", "previous season", "עונה שעברה", "העונה הקודמת"),
	}

	metrics := map[string][]Pattern{
		MetricWinPercentage: phrases(0, "win percentage", "win rate", "stats", "statistics", "performance",
			"אחוז ניצחונות", "סטטיסטיקה", "ביצועים"),
	}

	leagues := []League{
		{Code: "PL", Country: "England", Weight: 100, Aliases: phrases(0,
			"premier league", "english league", "england", "epl",
			"פרמייר ליג", "הליגה האנגלית", "אנגליה")},
		{Code: "PD", Country: "Spain", Weight: 100, Aliases: phrases(0,
			"la liga", "laliga", "spanish league", "spain", "primera division",
			"לה ליגה", "הליגה הספרדית", "ספרד")},
		{Code: "BL1", Country: "Germany", Weight: 100, Aliases: phrases(0,
			"bundesliga", "german league", "germany", "deutsche liga",
			"בונדסליגה", "הליגה הגרמנית", "גרמניה")},
		{Code: "SA", Country: "Italy", Weight: 100, Aliases: phrases(0,
			"serie a", "italian league", "italy", "calcio",
			"סרייה א", "הליגה האיטלקית", "איטליה")},
		{Code: "FL1", Country: "France", Weight: 100, Aliases: phrases(0,
			"ligue 1", "ligue1", "french league", "france",
			"הליגה הצרפתית", "צרפת")},
		{Code: "383", Country: "Israel", Weight: 100, Aliases: phrases(0,
			"ligat haal", "ligat ha'al", "israeli league", "israeli premier league", "israel",
			"ליגת העל", "הליגה הישראלית", "ישראל")},
	}
	for i := range leagues {
		for j := range leagues[i].Aliases {
			leagues[i].Aliases[j].Weight = leagues[i].Weight
		}
	}

	clubs := []Club{
		{ID: "33", Name: "Manchester United", League: "PL", Aliases: phrases(100, "manchester united", "man united", "man utd", "מנצ'סטר יונייטד")},
		{ID: "50", Name: "Manchester City", League: "PL", Aliases: phrases(100, "manchester city", "man city", "מנצ'סטר סיטי")},
		{ID: "40", Name: "Liverpool", League: "PL", Aliases: phrases(100, "liverpool", "ליברפול")},
		{ID: "42", Name: "Arsenal", League: "PL", Aliases: phrases(100, "arsenal", "ארסנל")},
		{ID: "49", Name: "Chelsea", League: "PL", Aliases: phrases(100, "chelsea", "צ'לסי")},
		{ID: "47", Name: "Tottenham", League: "PL", Aliases: phrases(100, "tottenham", "spurs", "טוטנהאם")},
		{ID: "34", Name: "Newcastle", League: "PL", Aliases: phrases(100, "newcastle", "ניוקאסל")},
		{ID: "529", Name: "Barcelona", League: "PD", Aliases: phrases(100, "barcelona", "barca", "ברצלונה")},
		{ID: "541", Name: "Real Madrid", League: "PD", Aliases: phrases(100, "real madrid", "ריאל מדריד")},
		{ID: "530", Name: "Atletico Madrid", League: "PD", Aliases: phrases(100, "atletico madrid", "atletico", "אתלטיקו מדריד")},
		{ID: "157", Name: "Bayern Munich", League: "BL1", Aliases: phrases(100, "bayern munich", "bayern", "באיירן")},
		{ID: "165", Name: "Borussia Dortmund", League: "BL1", Aliases: phrases(100, "borussia dortmund", "dortmund", "דורטמונד")},
		{ID: "496", Name: "Juventus", League: "SA", Aliases: phrases(100, "juventus", "juve", "יובנטוס")},
		{ID: "505", Name: "Inter", League: "SA", Aliases: phrases(100, "inter milan", "internazionale", "אינטר")},
		{ID: "489", Name: "AC Milan", League: "SA", Aliases: phrases(100, "ac milan", "מילאן")},
		{ID: "85", Name: "Paris Saint Germain", League: "FL1", Aliases: phrases(100, "paris saint germain", "paris saint-germain", "psg", "פריז סן ז'רמן")},
	}

	return &Lexicon{
		intents:  intents,
		labels:   labels,
		seasons:  seasons,
		metrics:  metrics,
		leagues:  leagues,
		clubs:    clubs,
		langs:    []query.Language{en, he},
		priority: append([]query.Intent(nil), query.IntentPriority...),
	}
}
