package httpapi

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/usecase"
)

// Placeholders use {name} and are filled from fault details.
var errorTemplates = map[query.Language]map[fault.Code]string{
	query.LanguageEnglish: {
		fault.CodeInvalidQuery:        "Invalid query: the query must be a non-empty string in a supported language.",
		fault.CodeUnknownQueryType:    "Could not understand the query. Try asking about: {supported}.",
		fault.CodeInvalidQueryType:    "This type of question is not supported.",
		fault.CodeInvalidSeason:       "Season {season} is not supported. Please try a season between {min} and {max}.",
		fault.CodeMissingTeamID:       "Please name a team, for example \"Arsenal squad\".",
		fault.CodeNoStandingsFound:    "No standings were found for this league and season.",
		fault.CodeNoScorersFound:      "No top scorers were found for this league and season.",
		fault.CodeNoMatchesFound:      "No matches were found.",
		fault.CodeTeamNotFound:        "The team could not be found.",
		fault.CodeNoCompetitionsFound: "No competitions are available right now.",
		fault.CodeUnknownError:        "Something went wrong while fetching football data. Please try again.",
	},
	query.LanguageHebrew: {
		fault.CodeInvalidQuery:        "שאילתה לא תקינה: השאילתה חייבת להיות מחרוזת לא ריקה בשפה נתמכת.",
		fault.CodeUnknownQueryType:    "לא הצלחתי להבין את השאילתה. נסה לשאול על: {supported}.",
		fault.CodeInvalidQueryType:    "סוג השאלה הזה אינו נתמך.",
		fault.CodeInvalidSeason:       "עונה {season} אינה נתמכת. אנא נסה עונה בין {min} ל-{max}.",
		fault.CodeMissingTeamID:       "אנא ציין שם של קבוצה.",
		fault.CodeNoStandingsFound:    "לא נמצאה טבלה לליגה ולעונה האלה.",
		fault.CodeNoScorersFound:      "לא נמצאו מבקיעים לליגה ולעונה האלה.",
		fault.CodeNoMatchesFound:      "לא נמצאו משחקים.",
		fault.CodeTeamNotFound:        "הקבוצה לא נמצאה.",
		fault.CodeNoCompetitionsFound: "אין ליגות זמינות כרגע.",
		fault.CodeUnknownError:        "אירעה שגיאה בעת טעינת נתוני הכדורגל. אנא נסה שוב.",
	},
}

// LocalizedError renders the user-facing message for ferr in lang, falling
// back to English.
func LocalizedError(lang query.Language, ferr *fault.Error) string {
	templates, ok := errorTemplates[lang]
	if !ok {
		lang = query.LanguageEnglish
		templates = errorTemplates[lang]
	}
	tmpl, ok := templates[ferr.Code]
	if !ok {
		tmpl = templates[fault.CodeUnknownError]
	}

	if len(ferr.Details) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(ferr.Details)*2)
	for key, value := range ferr.Details {
		pairs = append(pairs, "{"+key+"}", detailText(lang, value))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// detailText formats one detail value. Per-language lists, such as the
// supported intents attached to UNKNOWN_QUERY_TYPE, render the entry for lang.
func detailText(lang query.Language, value any) string {
	switch v := value.(type) {
	case map[string][]string:
		items, ok := v[string(lang)]
		if !ok {
			items = v[string(query.LanguageEnglish)]
		}
		return strings.Join(items, ", ")
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(value)
	}
}

// Summarize renders the one-line answer shown above the records.
func Summarize(lang query.Language, result usecase.QueryResult) string {
	he := lang == query.LanguageHebrew
	records := result.Records

	switch {
	case len(records.Standings) > 0:
		top := records.Standings[0]
		if he {
			return fmt.Sprintf("%s מובילה את הטבלה עם %d נקודות", top.Team.Name, top.Points)
		}
		return fmt.Sprintf("%s leads the table with %d points", top.Team.Name, top.Points)
	case len(records.Scorers) > 0:
		top := records.Scorers[0]
		if he {
			return fmt.Sprintf("%s הוא מלך השערים עם %d שערים", top.Player.Name, top.Goals)
		}
		return fmt.Sprintf("%s is the top scorer with %d goals", top.Player.Name, top.Goals)
	case len(records.Matches) > 0:
		m := records.Matches[0]
		line := fmt.Sprintf("%s %s - %s %s", m.HomeTeam.Name, goals(m.Score.FullTime.Home), goals(m.Score.FullTime.Away), m.AwayTeam.Name)
		if he {
			return "המשחק האחרון: " + line
		}
		return "Latest match: " + line
	case records.Team != nil:
		if he {
			return fmt.Sprintf("%s, נוסדה ב-%d, %d שחקנים בסגל", records.Team.Name, records.Team.Founded, len(records.Team.Squad))
		}
		return fmt.Sprintf("%s, founded %d, %d players in the squad", records.Team.Name, records.Team.Founded, len(records.Team.Squad))
	case len(records.Competitions) > 0:
		if he {
			return fmt.Sprintf("%d ליגות זמינות", len(records.Competitions))
		}
		return fmt.Sprintf("%d competitions available", len(records.Competitions))
	case records.TeamStats != nil:
		s := records.TeamStats
		if he {
			return fmt.Sprintf("%s: %d ניצחונות, %d תיקו, %d הפסדים (%.1f%% ניצחונות)", s.TeamName, s.Wins, s.Draws, s.Losses, s.WinPercentage)
		}
		return fmt.Sprintf("%s: %d wins, %d draws, %d losses (%.1f%% win rate)", s.TeamName, s.Wins, s.Draws, s.Losses, s.WinPercentage)
	default:
		if he {
			return "לא נמצאו תוצאות"
		}
		return "No results found"
	}
}

func goals(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
