package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	predictionservice "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/application"
	predictiontypes "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/domain/types"
)

const (
	teamCount            = 16
	fixturesPerDay       = 4
	correctOutcomePoints = 3
	exactScorePoints     = 5
)

var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed so failing runs can be replayed.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}

// Tournament is a generated set of authoritative results.
type Tournament struct {
	Teams   []string
	Results predictiontypes.Results
	Start   predictiontypes.Date
	End     time.Time
}

// Submission is a generated prediction sheet and the score it must earn
// under the default rules.
type Submission struct {
	Entry    predictionservice.Entry
	Expected int
}

// SerialFor returns the spreadsheet serial number of midnight on d.
func SerialFor(d predictiontypes.Date) float64 {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return float64(t.Sub(serialEpoch) / (24 * time.Hour))
}

// GenerateTournament creates fixtureCount group games, fixturesPerDay per
// day starting on start, with a shuffled bracket for the qualifying table.
func (g *TestDataGenerator) GenerateTournament(start predictiontypes.Date, fixtureCount int) Tournament {
	teams := g.generateTeams(teamCount)
	startTime := time.Date(start.Year, start.Month, start.Day, 0, 0, 0, 0, time.UTC)

	matches := make([]predictiontypes.MatchResult, 0, fixtureCount)
	var dayTeams []string
	for i := range fixtureCount {
		slot := i % fixturesPerDay
		if slot == 0 {
			dayTeams = append([]string(nil), teams...)
			g.faker.ShuffleStrings(dayTeams)
		}
		day := startTime.AddDate(0, 0, i/fixturesPerDay)
		matches = append(matches, predictiontypes.MatchResult{
			Date:                 predictiontypes.DateOf(day),
			Team1:                dayTeams[2*slot],
			Team2:                dayTeams[2*slot+1],
			Team1Score:           g.faker.Number(0, 4),
			Team2Score:           g.faker.Number(0, 4),
			CorrectOutcomePoints: correctOutcomePoints,
			ExactScorePoints:     exactScorePoints,
		})
	}

	bracket := append([]string(nil), teams...)
	g.faker.ShuffleStrings(bracket)

	lastDay := startTime.AddDate(0, 0, (fixtureCount-1)/fixturesPerDay)
	return Tournament{
		Teams: teams,
		Results: predictiontypes.Results{
			Matches: matches,
			QualifyingTeams: predictiontypes.QualifyingTeams{
				Stages: map[string][]string{
					predictiontypes.StageRoundOf16:     bracket[:16],
					predictiontypes.StageQuarterFinals: bracket[:8],
					predictiontypes.StageSemiFinals:    bracket[:4],
					predictiontypes.StageFinal:         bracket[:2],
				},
				Winner: bracket[0],
			},
		},
		Start: start,
		End:   lastDay.Add(23 * time.Hour),
	}
}

// GenerateSubmission builds a sheet for participant against t. Every fixture
// is predicted exactly, by outcome only, wrongly, with the teams reversed, or
// not at all; stage and winner picks are random. Expected is computed from
// those choices, not by the engine.
func (g *TestDataGenerator) GenerateSubmission(participant string, t Tournament) Submission {
	rules := predictiontypes.DefaultRules()
	rows := []predictiontypes.Row{{"Date", "Team 1", "Goals 1", "Goals 2", "Team 2"}}
	expected := 0

	for _, m := range t.Results.Matches {
		serial := SerialFor(m.Date)
		a, b := m.Team1Score, m.Team2Score
		switch g.faker.Number(0, 4) {
		case 0:
			rows = append(rows, predictiontypes.Row{serial, g.scruffy(m.Team1), float64(a), float64(b), g.scruffy(m.Team2)})
			expected += correctOutcomePoints + exactScorePoints
		case 1:
			s1, s2 := sameOutcomeOtherScore(a, b)
			rows = append(rows, predictiontypes.Row{serial, g.scruffy(m.Team1), float64(s1), float64(s2), g.scruffy(m.Team2)})
			expected += correctOutcomePoints
		case 2:
			s1, s2 := otherOutcome(a, b)
			rows = append(rows, predictiontypes.Row{serial, g.scruffy(m.Team1), float64(s1), float64(s2), g.scruffy(m.Team2)})
		case 3:
			rows = append(rows, predictiontypes.Row{serial, g.scruffy(m.Team2), float64(b), float64(a), g.scruffy(m.Team1)})
			expected += correctOutcomePoints
			if a == b {
				expected += exactScorePoints
			}
		default:
		}
	}

	for _, stage := range rules.Stages {
		for range g.faker.Number(0, 3) {
			team := t.Teams[g.faker.Number(0, len(t.Teams)-1)]
			rows = append(rows, predictiontypes.Row{stage.Name, g.scruffy(team)})
			if t.Results.QualifyingTeams.Contains(stage.Name, team) {
				expected += stage.Bonus
			}
		}
	}

	winner := t.Teams[g.faker.Number(0, len(t.Teams)-1)]
	rows = append(rows, predictiontypes.Row{rules.WinnerLabel, g.scruffy(winner)})
	if predictiontypes.NormalizeTeam(winner) == t.Results.QualifyingTeams.WinnerName() {
		expected += rules.WinnerBonus
	}

	return Submission{
		Entry:    predictionservice.Entry{Participant: participant, Rows: rows},
		Expected: expected,
	}
}

// GenerateSubmissions creates count submissions named user1..userN.
func (g *TestDataGenerator) GenerateSubmissions(count int, t Tournament) []Submission {
	subs := make([]Submission, 0, count)
	for i := range count {
		subs = append(subs, g.GenerateSubmission(fmt.Sprintf("user%d", i+1), t))
	}
	return subs
}

func (g *TestDataGenerator) generateTeams(count int) []string {
	seen := make(map[string]struct{}, count)
	teams := make([]string, 0, count)
	for len(teams) < count {
		name := g.faker.Country()
		key := predictiontypes.NormalizeTeam(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		teams = append(teams, name)
	}
	return teams
}

// scruffy returns name with random case and padding, as typed by hand.
func (g *TestDataGenerator) scruffy(name string) string {
	switch g.faker.Number(0, 2) {
	case 0:
		name = strings.ToUpper(name)
	case 1:
		name = strings.ToLower(name)
	}
	return strings.Repeat(" ", g.faker.Number(0, 2)) + name + strings.Repeat(" ", g.faker.Number(0, 2))
}

func sameOutcomeOtherScore(a, b int) (int, int) {
	switch {
	case a > b:
		return a + 1, b
	case a < b:
		return a, b + 1
	default:
		return a + 1, b + 1
	}
}

func otherOutcome(a, b int) (int, int) {
	if a == b {
		return a + 1, b
	}
	return b, a
}
