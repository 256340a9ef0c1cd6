package predictiontypes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WinnerKey is the qualifyingTeams key holding the tournament winner.
const WinnerKey = "Winner"

// Date is a calendar day with no time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp. Timestamps are
// reduced to their UTC calendar day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return DateOf(t.UTC()), nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MatchResult is one authoritative match result. Field names follow the
// results document the contest publishes.
type MatchResult struct {
	Date                 Date   `json:"Date"`
	Team1                string `json:"Team1"`
	Team2                string `json:"Team2"`
	Team1Score           int    `json:"Team1Score"`
	Team2Score           int    `json:"Team2Score"`
	CorrectOutcomePoints int    `json:"CorrectOutcomePoints"`
	ExactScorePoints     int    `json:"ExactScorePoints"`
}

// Outcome classifies the result from Team1's perspective.
func (r MatchResult) Outcome() Outcome {
	return OutcomeOf(r.Team1Score, r.Team2Score)
}

// QualifyingTeams lists, per stage, the teams that actually reached it, plus
// the tournament winner.
type QualifyingTeams struct {
	Stages map[string][]string
	Winner string
}

// Contains reports whether team reached stage. Both sides are normalized.
// A stage absent from the table has no qualifiers.
func (q QualifyingTeams) Contains(stage, team string) bool {
	team = NormalizeTeam(team)
	if team == "" {
		return false
	}
	for _, actual := range q.Stages[stage] {
		if NormalizeTeam(actual) == team {
			return true
		}
	}
	return false
}

// WinnerName returns the normalized winner, or "" when unset.
func (q QualifyingTeams) WinnerName() string {
	return NormalizeTeam(q.Winner)
}

func (q QualifyingTeams) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(q.Stages)+1)
	for stage, teams := range q.Stages {
		out[stage] = teams
	}
	if q.Winner != "" {
		out[WinnerKey] = q.Winner
	}
	return json.Marshal(out)
}

func (q *QualifyingTeams) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("qualifyingTeams must be an object: %w", err)
	}

	parsed := QualifyingTeams{Stages: make(map[string][]string, len(raw))}
	for key, value := range raw {
		if key == WinnerKey {
			var winner *string
			if err := json.Unmarshal(value, &winner); err != nil {
				return fmt.Errorf("qualifyingTeams %q: %w", key, err)
			}
			if winner != nil {
				parsed.Winner = *winner
			}
			continue
		}
		var teams []string
		if err := json.Unmarshal(value, &teams); err != nil {
			return fmt.Errorf("qualifyingTeams %q: %w", key, err)
		}
		parsed.Stages[key] = teams
	}

	*q = parsed
	return nil
}

// Results is the full authoritative input: every played match and the
// qualifying-teams table.
type Results struct {
	Matches         []MatchResult   `json:"matches"`
	QualifyingTeams QualifyingTeams `json:"qualifyingTeams"`
}
