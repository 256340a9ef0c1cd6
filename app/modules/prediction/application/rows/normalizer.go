package rows

import (
	"iter"
	"time"

	predictiontypes "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/domain/types"
)

// Fixed cell positions of a match row: date, team1, score1, score2, team2.
// Category rows carry their team at colTeam1 as well.
const (
	colDate = iota
	colTeam1
	colScore1
	colScore2
	colTeam2
)

// Normalizer turns raw sheet rows into typed predictions. Rows it cannot
// use come back as KindMalformed; normalization never fails.
type Normalizer struct {
	stages      []string
	winnerLabel string
	loc         *time.Location
}

// NewNormalizer builds a Normalizer for the labels in rules. Serial dates are
// read in loc, or UTC when loc is nil.
func NewNormalizer(rules predictiontypes.Rules, loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	stages := make([]string, 0, len(rules.Stages))
	for _, s := range rules.Stages {
		stages = append(stages, s.Name)
	}
	return &Normalizer{
		stages:      stages,
		winnerLabel: rules.WinnerLabel,
		loc:         loc,
	}
}

// Normalize classifies one row. Category labels win over the match shape:
// a row naming a stage or the winner label is a category prediction even if
// its first cell is numeric.
func (n *Normalizer) Normalize(index int, row predictiontypes.Row) predictiontypes.Prediction {
	p := predictiontypes.Prediction{Index: index, Kind: predictiontypes.KindMalformed}

	stages, winner := n.labels(row)
	if len(stages) > 0 || winner {
		p.Team = NormalizeTeamName(cellAt(row, colTeam1))
		p.Stages = stages
		p.Winner = winner
		if len(stages) > 0 {
			p.Kind = predictiontypes.KindStage
		} else {
			p.Kind = predictiontypes.KindWinner
		}
		return p
	}

	serial, ok := ParseNumber(cellAt(row, colDate))
	if !ok || serial == 0 {
		return p
	}
	score1, ok1 := ParseNumber(cellAt(row, colScore1))
	score2, ok2 := ParseNumber(cellAt(row, colScore2))
	if !ok1 || !ok2 {
		return p
	}

	p.Kind = predictiontypes.KindMatch
	p.Match = predictiontypes.MatchPrediction{
		Date:       SerialToTime(serial, n.loc),
		Team1:      NormalizeTeamName(cellAt(row, colTeam1)),
		Team2:      NormalizeTeamName(cellAt(row, colTeam2)),
		Team1Score: int(score1),
		Team2Score: int(score2),
	}
	return p
}

// All yields the normalized form of each row in order, one at a time.
func (n *Normalizer) All(rows []predictiontypes.Row) iter.Seq[predictiontypes.Prediction] {
	return func(yield func(predictiontypes.Prediction) bool) {
		for i, row := range rows {
			if !yield(n.Normalize(i, row)) {
				return
			}
		}
	}
}

// labels returns the stages the row names, in table order, and whether it
// names the winner label. Only string cells are compared, exactly.
func (n *Normalizer) labels(row predictiontypes.Row) ([]string, bool) {
	texts := make(map[string]struct{}, len(row))
	for _, cell := range row {
		if s, ok := cell.(string); ok {
			texts[s] = struct{}{}
		}
	}
	if len(texts) == 0 {
		return nil, false
	}

	var stages []string
	for _, stage := range n.stages {
		if _, ok := texts[stage]; ok {
			stages = append(stages, stage)
		}
	}
	_, winner := texts[n.winnerLabel]
	return stages, winner
}

func cellAt(row predictiontypes.Row, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}
