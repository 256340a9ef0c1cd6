package predictionservice

import (
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	predictiontypes "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/domain/types"
)

const openerSerial = 44890.0 // 2022-11-25

var (
	openerDay = predictiontypes.Date{Year: 2022, Month: time.November, Day: 25}
	afterCup  = time.Date(2022, time.December, 19, 12, 0, 0, 0, time.UTC)

	qatarEcuador = predictiontypes.MatchResult{
		Date:                 openerDay,
		Team1:                "Qatar",
		Team2:                "Ecuador",
		Team1Score:           0,
		Team2Score:           2,
		CorrectOutcomePoints: 3,
		ExactScorePoints:     5,
	}
)

func testResults(matches ...predictiontypes.MatchResult) *predictiontypes.Results {
	return &predictiontypes.Results{
		Matches: matches,
		QualifyingTeams: predictiontypes.QualifyingTeams{
			Stages: map[string][]string{
				predictiontypes.StageRoundOf16:     {"Argentina", "France", "Brazil", "Croatia", "Morocco", "Portugal", "England", "Netherlands"},
				predictiontypes.StageQuarterFinals: {"brazil", "Argentina", "France", "Croatia"},
				predictiontypes.StageSemiFinals:    {"Argentina", "France"},
				predictiontypes.StageFinal:         {"Argentina", "France"},
			},
			Winner: "Argentina",
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(predictiontypes.DefaultRules(), time.UTC)
	require.NoError(t, err)
	return e
}

func TestEngine_Score_MatchPoints(t *testing.T) {
	tests := []struct {
		name        string
		row         predictiontypes.Row
		now         time.Time
		wantTotal   int
		wantMatched int
		wantMissing int
		wantFuture  int
	}{
		{
			name:        "exact score in stored order",
			row:         predictiontypes.Row{openerSerial, "qatar", 0.0, 2.0, " ECUADOR "},
			now:         afterCup,
			wantTotal:   8,
			wantMatched: 1,
		},
		{
			name:        "reversed pair earns the outcome only",
			row:         predictiontypes.Row{openerSerial, "ecuador", 2.0, 0.0, "qatar"},
			now:         afterCup,
			wantTotal:   3,
			wantMatched: 1,
		},
		{
			name:        "correct outcome wrong score",
			row:         predictiontypes.Row{openerSerial, "Qatar", 1.0, 3.0, "Ecuador"},
			now:         afterCup,
			wantTotal:   3,
			wantMatched: 1,
		},
		{
			name:        "wrong outcome",
			row:         predictiontypes.Row{openerSerial, "Qatar", 2.0, 0.0, "Ecuador"},
			now:         afterCup,
			wantTotal:   0,
			wantMatched: 1,
		},
		{
			name:        "draw predicted for a decided game",
			row:         predictiontypes.Row{openerSerial, "Qatar", 1.0, 1.0, "Ecuador"},
			now:         afterCup,
			wantTotal:   0,
			wantMatched: 1,
		},
		{
			name:        "kick-off time does not matter",
			row:         predictiontypes.Row{openerSerial + 0.75, "Qatar", 0.0, 2.0, "Ecuador"},
			now:         afterCup,
			wantTotal:   8,
			wantMatched: 1,
		},
		{
			name:        "wrong day",
			row:         predictiontypes.Row{openerSerial + 1, "Qatar", 0.0, 2.0, "Ecuador"},
			now:         afterCup,
			wantMissing: 1,
		},
		{
			name:        "empty team1 never matches",
			row:         predictiontypes.Row{openerSerial, nil, 0.0, 2.0, "Ecuador"},
			now:         afterCup,
			wantMissing: 1,
		},
		{
			name:       "future match is skipped",
			row:        predictiontypes.Row{openerSerial, "Qatar", 0.0, 2.0, "Ecuador"},
			now:        time.Date(2022, time.November, 24, 23, 59, 59, 0, time.UTC),
			wantFuture: 1,
		},
		{
			name:        "match later the same day is still future",
			row:         predictiontypes.Row{openerSerial + 0.75, "Qatar", 0.0, 2.0, "Ecuador"},
			now:         time.Date(2022, time.November, 25, 12, 0, 0, 0, time.UTC),
			wantFuture:  1,
			wantMatched: 0,
		},
		{
			name:        "now equal to kick-off is not future",
			row:         predictiontypes.Row{openerSerial, "Qatar", 0.0, 2.0, "Ecuador"},
			now:         time.Date(2022, time.November, 25, 0, 0, 0, 0, time.UTC),
			wantTotal:   8,
			wantMatched: 1,
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := e.Score([]predictiontypes.Row{tt.row}, testResults(qatarEcuador), tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, b.Total)
			assert.Equal(t, tt.wantTotal, b.MatchPoints)
			assert.Len(t, b.Matches, tt.wantMatched)
			assert.Len(t, b.Unmatched, tt.wantMissing)
			assert.Equal(t, tt.wantFuture, b.FutureSkipped)
		})
	}
}

func TestEngine_Score_ReversedAward(t *testing.T) {
	e := newTestEngine(t)
	b, err := e.Score([]predictiontypes.Row{{openerSerial, "ecuador", 2.0, 0.0, "qatar"}}, testResults(qatarEcuador), afterCup)
	require.NoError(t, err)

	want := []MatchAward{{
		Row:           0,
		Result:        qatarEcuador,
		Predicted:     predictiontypes.OutcomeLose,
		Actual:        predictiontypes.OutcomeLose,
		OutcomePoints: 3,
		ExactPoints:   0,
		ReversedTeams: true,
	}}
	if diff := cmp.Diff(want, b.Matches); diff != "" {
		t.Errorf("Matches mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Score_ReversedDrawKeepsExactScore(t *testing.T) {
	draw := qatarEcuador
	draw.Team1Score, draw.Team2Score = 1, 1

	e := newTestEngine(t)
	b, err := e.Score([]predictiontypes.Row{{openerSerial, "Ecuador", 1.0, 1.0, "Qatar"}}, testResults(draw), afterCup)
	require.NoError(t, err)
	require.Equal(t, 8, b.Total)
}

func TestEngine_Score_OutcomeIsOrderIndependent(t *testing.T) {
	faker := gofakeit.New(7)
	e := newTestEngine(t)

	for range 100 {
		home, away := faker.Country(), faker.Country()
		if home == away {
			continue
		}
		hs, as := faker.Number(0, 5), faker.Number(0, 5)
		result := predictiontypes.MatchResult{
			Date: openerDay, Team1: home, Team2: away, Team1Score: hs, Team2Score: as,
			CorrectOutcomePoints: 2, ExactScorePoints: 4,
		}

		straight, err := e.Score([]predictiontypes.Row{{openerSerial, home, float64(hs), float64(as), away}}, testResults(result), afterCup)
		require.NoError(t, err)
		require.Equal(t, 6, straight.Total)

		reversed, err := e.Score([]predictiontypes.Row{{openerSerial, away, float64(as), float64(hs), home}}, testResults(result), afterCup)
		require.NoError(t, err)
		require.Len(t, reversed.Matches, 1)
		require.Equal(t, 2, reversed.Matches[0].OutcomePoints)
		if hs == as {
			require.Equal(t, 4, reversed.Matches[0].ExactPoints)
		} else {
			require.Zero(t, reversed.Matches[0].ExactPoints)
		}
	}
}

func TestEngine_Score_StageBonus(t *testing.T) {
	tests := []struct {
		name      string
		rows      []predictiontypes.Row
		wantTotal int
		wantHits  int
	}{
		{
			name:      "quarter-finalist",
			rows:      []predictiontypes.Row{{"Quarter-finals", "Brazil"}},
			wantTotal: 5,
			wantHits:  1,
		},
		{
			name:      "team that went out earlier",
			rows:      []predictiontypes.Row{{"Quarter-finals", "Portugal"}},
			wantTotal: 0,
		},
		{
			name: "every stage pays its own bonus",
			rows: []predictiontypes.Row{
				{"Round of 16", "Argentina"},
				{"Quarter-finals", "Argentina"},
				{"Semi-finals", "Argentina"},
				{"Final", "Argentina"},
			},
			wantTotal: 3 + 5 + 7 + 10,
			wantHits:  4,
		},
		{
			name: "several teams for one stage add up",
			rows: []predictiontypes.Row{
				{"Semi-finals", "Argentina"},
				{"Semi-finals", "france"},
				{"Semi-finals", "Morocco"},
			},
			wantTotal: 14,
			wantHits:  2,
		},
		{
			name:      "duplicate rows each count",
			rows:      []predictiontypes.Row{{"Final", "France"}, {"Final", "France"}},
			wantTotal: 20,
			wantHits:  2,
		},
		{
			name:      "row naming two stages counts for both",
			rows:      []predictiontypes.Row{{"Semi-finals", "France", "Final"}},
			wantTotal: 17,
			wantHits:  2,
		},
		{
			name:      "blank team",
			rows:      []predictiontypes.Row{{"Final", nil}},
			wantTotal: 0,
		},
		{
			name:      "no stage rows",
			rows:      nil,
			wantTotal: 0,
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := e.Score(tt.rows, testResults(), afterCup)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, b.Total)
			assert.Equal(t, tt.wantTotal, b.StagePoints)
			assert.Len(t, b.StageHits, tt.wantHits)
		})
	}
}

func TestEngine_Score_StageMissingFromTable(t *testing.T) {
	results := testResults()
	delete(results.QualifyingTeams.Stages, predictiontypes.StageFinal)

	e := newTestEngine(t)
	b, err := e.Score([]predictiontypes.Row{{"Final", "Argentina"}}, results, afterCup)
	require.NoError(t, err)
	require.Zero(t, b.Total)
}

func TestEngine_Score_WinnerBonus(t *testing.T) {
	tests := []struct {
		name       string
		rows       []predictiontypes.Row
		winner     string
		wantPoints int
		wantTeam   string
	}{
		{name: "correct winner", rows: []predictiontypes.Row{{"Winner", "Argentina"}}, winner: "Argentina", wantPoints: 12, wantTeam: "argentina"},
		{name: "case insensitive", rows: []predictiontypes.Row{{"Winner", " ARGENTINA "}}, winner: "argentina", wantPoints: 12, wantTeam: "argentina"},
		{name: "wrong winner", rows: []predictiontypes.Row{{"Winner", "France"}}, winner: "Argentina", wantTeam: "france"},
		{name: "winner not decided", rows: []predictiontypes.Row{{"Winner", "Argentina"}}, winner: "", wantTeam: "argentina"},
		{name: "blank prediction against blank winner", rows: []predictiontypes.Row{{"Winner", nil}}, winner: ""},
		{name: "no winner row", rows: []predictiontypes.Row{{"Final", "France"}}, winner: "Argentina"},
		{
			name:       "first winner row wins",
			rows:       []predictiontypes.Row{{"Winner", "France"}, {"Winner", "Argentina"}},
			winner:     "Argentina",
			wantTeam:   "france",
			wantPoints: 0,
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := testResults()
			results.QualifyingTeams.Winner = tt.winner

			b, err := e.Score(tt.rows, results, afterCup)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints, b.WinnerPoints)
			assert.Equal(t, tt.wantPoints > 0, b.WinnerHit)
			assert.Equal(t, tt.wantTeam, b.PredictedWinner)
		})
	}
}

func TestEngine_Score_FullSheet(t *testing.T) {
	croatiaMorocco := predictiontypes.MatchResult{
		Date:  predictiontypes.Date{Year: 2022, Month: time.December, Day: 17},
		Team1: "Croatia", Team2: "Morocco", Team1Score: 2, Team2Score: 1,
		CorrectOutcomePoints: 3, ExactScorePoints: 5,
	}
	// Opener exact (+8), Croatia-Morocco reversed (+3), one fixture with no
	// result, one future fixture, then stage picks worth 18 and the winner.
	sheet := []predictiontypes.Row{
		{"Date", "Team 1", "Score 1", "Score 2", "Team 2"},
		{openerSerial, "Qatar", 0.0, 2.0, "Ecuador"},
		{44912.0, "Morocco", 1.0, 2.0, "Croatia"},
		{44891.0, "England", 2.0, 0.0, "Iran"},
		{44940.0, "Argentina", 1.0, 0.0, "France"},
		{},
		{"Round of 16", "Morocco"},
		{"Quarter-finals", "Brazil"},
		{"Semi-finals", "Brazil"},
		{"Final", "France"},
		{"Winner", "argentina"},
	}
	now := time.Date(2022, time.December, 18, 0, 0, 0, 0, time.UTC)

	e := newTestEngine(t)
	b, err := e.Score(sheet, testResults(qatarEcuador, croatiaMorocco), now)
	require.NoError(t, err)

	assert.Equal(t, 11, b.MatchPoints)
	assert.Equal(t, 18, b.StagePoints)
	assert.Equal(t, 12, b.WinnerPoints)
	assert.Equal(t, 41, b.Total)
	assert.Equal(t, 1, b.FutureSkipped)
	assert.Equal(t, 2, b.Malformed)
	require.Len(t, b.Unmatched, 1)
	assert.Equal(t, Unmatched{Row: 3, Date: predictiontypes.Date{Year: 2022, Month: time.November, Day: 26}, Team1: "england", Team2: "iran"}, b.Unmatched[0])
}

func TestEngine_Score_NegativePointsClampToZero(t *testing.T) {
	bad := qatarEcuador
	bad.CorrectOutcomePoints, bad.ExactScorePoints = -3, -5

	e := newTestEngine(t)
	b, err := e.Score([]predictiontypes.Row{{openerSerial, "Qatar", 0.0, 2.0, "Ecuador"}}, testResults(bad), afterCup)
	require.NoError(t, err)
	require.Zero(t, b.Total)
}

func TestEngine_Score_CustomRules(t *testing.T) {
	rules := predictiontypes.Rules{
		Stages:      []predictiontypes.Stage{{Name: "Third place", Bonus: 4}},
		WinnerLabel: "Champion",
		WinnerBonus: 20,
	}
	e, err := NewEngine(rules, time.UTC)
	require.NoError(t, err)

	results := testResults()
	results.QualifyingTeams.Stages["Third place"] = []string{"Croatia", "Morocco"}

	b, err := e.Score([]predictiontypes.Row{
		{"Third place", "Croatia"},
		{"Champion", "Argentina"},
		{"Final", "France"},
	}, results, afterCup)
	require.NoError(t, err)
	assert.Equal(t, 24, b.Total)
	assert.Equal(t, 1, b.Malformed)
}

func TestEngine_Score_Errors(t *testing.T) {
	var nilEngine *Engine
	_, err := nilEngine.Score(nil, testResults(), afterCup)
	require.ErrorIs(t, err, ErrNilEngine)

	_, err = newTestEngine(t).Score(nil, nil, afterCup)
	require.ErrorIs(t, err, ErrMissingResults)
}

func TestNewEngine_InvalidRules(t *testing.T) {
	rules := predictiontypes.DefaultRules()
	rules.Stages = append(rules.Stages, predictiontypes.Stage{Name: "Final", Bonus: 1})

	_, err := NewEngine(rules, nil)
	require.True(t, errors.Is(err, predictiontypes.ErrInvalidRules))
}

func TestScore(t *testing.T) {
	qualifying := testResults().QualifyingTeams
	rows := []predictiontypes.Row{
		{openerSerial, "qatar", 0.0, 2.0, " ECUADOR "},
		{"Quarter-finals", "Brazil"},
		{"Winner", "Argentina"},
	}

	got, err := Score(rows, []predictiontypes.MatchResult{qatarEcuador}, qualifying, afterCup)
	require.NoError(t, err)
	require.Equal(t, 8+5+12, got)

	got, err = Score(rows, []predictiontypes.MatchResult{}, qualifying, afterCup)
	require.NoError(t, err)
	require.Equal(t, 5+12, got)

	_, err = Score(rows, nil, qualifying, afterCup)
	require.ErrorIs(t, err, ErrMissingResults)
}

func TestScore_IsDeterministic(t *testing.T) {
	rows := []predictiontypes.Row{{openerSerial, "Qatar", 0.0, 2.0, "Ecuador"}, {"Final", "France"}}
	matches := []predictiontypes.MatchResult{qatarEcuador}
	qualifying := testResults().QualifyingTeams

	first, err := Score(rows, matches, qualifying, afterCup)
	require.NoError(t, err)
	for range 5 {
		again, err := Score(rows, matches, qualifying, afterCup)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
	require.Equal(t, qatarEcuador, matches[0])
}
