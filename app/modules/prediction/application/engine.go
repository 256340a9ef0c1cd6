package predictionservice

import (
	"fmt"
	"time"

	"github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/application/rows"
	predictiontypes "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/domain/types"
)

// MatchAward records what one matched prediction earned.
type MatchAward struct {
	Row           int
	Result        predictiontypes.MatchResult
	Predicted     predictiontypes.Outcome
	Actual        predictiontypes.Outcome
	OutcomePoints int
	ExactPoints   int
	ReversedTeams bool
}

// Unmatched is a dated prediction with no result for that day and pairing.
type Unmatched struct {
	Row   int
	Date  predictiontypes.Date
	Team1 string
	Team2 string
}

// StageAward is one correctly predicted qualifier.
type StageAward struct {
	Row    int
	Stage  string
	Team   string
	Points int
}

// Breakdown is the scored form of one participant's predictions. Total is
// the sum of MatchPoints, StagePoints and WinnerPoints.
type Breakdown struct {
	Participant string

	Total        int
	MatchPoints  int
	StagePoints  int
	WinnerPoints int

	Matches   []MatchAward
	StageHits []StageAward
	Unmatched []Unmatched

	PredictedWinner string
	WinnerHit       bool

	FutureSkipped int
	Malformed     int
}

// Engine scores prediction rows against results. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	rules      predictiontypes.Rules
	normalizer *rows.Normalizer
}

// NewEngine validates rules and builds an Engine reading serial dates in loc
// (UTC when nil).
func NewEngine(rules predictiontypes.Rules, loc *time.Location) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	return &Engine{
		rules:      rules,
		normalizer: rows.NewNormalizer(rules, loc),
	}, nil
}

// Rules returns the bonus table the engine was built with.
func (e *Engine) Rules() predictiontypes.Rules {
	return e.rules
}

// Score walks the prediction rows once. Match rows dated after now are
// skipped; stage and winner rows are scored regardless of date.
func (e *Engine) Score(predictions []predictiontypes.Row, results *predictiontypes.Results, now time.Time) (Breakdown, error) {
	if e == nil {
		return Breakdown{}, ErrNilEngine
	}
	if results == nil {
		return Breakdown{}, ErrMissingResults
	}

	var b Breakdown
	winnerSeen := false
	actualWinner := results.QualifyingTeams.WinnerName()

	for p := range e.normalizer.All(predictions) {
		switch p.Kind {
		case predictiontypes.KindMatch:
			e.scoreMatch(&b, p, results.Matches, now)
		case predictiontypes.KindStage, predictiontypes.KindWinner:
			e.scoreStages(&b, p, results.QualifyingTeams)
			if p.Winner && !winnerSeen {
				winnerSeen = true
				b.PredictedWinner = p.Team
				if p.Team != "" && p.Team == actualWinner {
					b.WinnerHit = true
					b.WinnerPoints += e.rules.WinnerBonus
				}
			}
		default:
			b.Malformed++
		}
	}

	b.Total = b.MatchPoints + b.StagePoints + b.WinnerPoints
	return b, nil
}

func (e *Engine) scoreMatch(b *Breakdown, p predictiontypes.Prediction, matches []predictiontypes.MatchResult, now time.Time) {
	m := p.Match
	if m.Date.After(now) {
		b.FutureSkipped++
		return
	}

	day := predictiontypes.DateOf(m.Date)
	idx, reversed, ok := findResult(matches, day, m.Team1, m.Team2)
	if !ok {
		b.Unmatched = append(b.Unmatched, Unmatched{Row: p.Index, Date: day, Team1: m.Team1, Team2: m.Team2})
		return
	}
	result := matches[idx]

	// Outcome is compared from the result's point of view; the exact score is
	// compared in the order the participant wrote it.
	s1, s2 := m.Team1Score, m.Team2Score
	if reversed {
		s1, s2 = s2, s1
	}
	award := MatchAward{
		Row:           p.Index,
		Result:        result,
		Predicted:     predictiontypes.OutcomeOf(s1, s2),
		Actual:        result.Outcome(),
		ReversedTeams: reversed,
	}
	if award.Predicted == award.Actual {
		award.OutcomePoints = max(result.CorrectOutcomePoints, 0)
		if m.Team1Score == result.Team1Score && m.Team2Score == result.Team2Score {
			award.ExactPoints = max(result.ExactScorePoints, 0)
		}
	}

	b.MatchPoints += award.OutcomePoints + award.ExactPoints
	b.Matches = append(b.Matches, award)
}

func (e *Engine) scoreStages(b *Breakdown, p predictiontypes.Prediction, qualifying predictiontypes.QualifyingTeams) {
	for _, stage := range p.Stages {
		if !qualifying.Contains(stage, p.Team) {
			continue
		}
		bonus, _ := e.rules.Bonus(stage)
		b.StagePoints += bonus
		b.StageHits = append(b.StageHits, StageAward{Row: p.Index, Stage: stage, Team: p.Team, Points: bonus})
	}
}

// findResult returns the first result played on day between team1 and team2
// in either order. reversed is set when the result lists them the other way
// round.
func findResult(matches []predictiontypes.MatchResult, day predictiontypes.Date, team1, team2 string) (idx int, reversed bool, ok bool) {
	for i, r := range matches {
		if r.Date != day {
			continue
		}
		rt1 := predictiontypes.NormalizeTeam(r.Team1)
		rt2 := predictiontypes.NormalizeTeam(r.Team2)
		switch {
		case rt1 == team1 && rt2 == team2:
			return i, false, true
		case rt1 == team2 && rt2 == team1:
			return i, true, true
		}
	}
	return -1, false, false
}

var defaultEngine = func() *Engine {
	e, err := NewEngine(predictiontypes.DefaultRules(), time.UTC)
	if err != nil {
		panic(err)
	}
	return e
}()

// Score is the plain scoring contract: default bonus table, serial dates in
// UTC. matches must not be nil; an empty slice is fine.
func Score(predictions []predictiontypes.Row, matches []predictiontypes.MatchResult, qualifying predictiontypes.QualifyingTeams, now time.Time) (int, error) {
	if matches == nil {
		return 0, ErrMissingResults
	}
	b, err := defaultEngine.Score(predictions, &predictiontypes.Results{Matches: matches, QualifyingTeams: qualifying}, now)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}
