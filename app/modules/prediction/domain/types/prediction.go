package predictiontypes

import (
	"strings"
	"time"
)

// Row is one raw prediction row as read from a participant's sheet. Cells
// are loosely typed: numbers, strings or nil for blanks.
type Row []any

// Kind tags which variant a normalized row is.
type Kind int

const (
	KindMalformed Kind = iota
	KindMatch
	KindStage
	KindWinner
)

func (k Kind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindStage:
		return "stage"
	case KindWinner:
		return "winner"
	default:
		return "malformed"
	}
}

// MatchPrediction is a predicted score for one dated fixture. Team names are
// already normalized.
type MatchPrediction struct {
	Date       time.Time
	Team1      string
	Team2      string
	Team1Score int
	Team2Score int
}

// Prediction is the typed form of one Row.
//
// Only the fields for Kind are meaningful: Match for KindMatch, Stages and
// Team for KindStage, Team for KindWinner. A stage row that also carries the
// winner label has Winner set.
type Prediction struct {
	Index  int
	Kind   Kind
	Match  MatchPrediction
	Stages []string
	Winner bool
	Team   string
}

// NormalizeTeam is the equality key for team names.
func NormalizeTeam(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Outcome of a match from the first team's perspective.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeWin
	OutcomeLose
)

// OutcomeOf compares team1Score against team2Score.
func OutcomeOf(team1Score, team2Score int) Outcome {
	switch {
	case team1Score > team2Score:
		return OutcomeWin
	case team1Score < team2Score:
		return OutcomeLose
	default:
		return OutcomeDraw
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	default:
		return "draw"
	}
}
