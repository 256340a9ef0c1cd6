package predictiontypes

import (
	"errors"
	"fmt"
	"strings"
)

// Stage labels as they appear in prediction sheets and in qualifyingTeams.
const (
	StageRoundOf16     = "Round of 16"
	StageQuarterFinals = "Quarter-finals"
	StageSemiFinals    = "Semi-finals"
	StageFinal         = "Final"

	DefaultWinnerBonus = 12
)

// ErrInvalidRules is returned when a scoring table cannot be used.
var ErrInvalidRules = errors.New("invalid scoring rules")

// Stage is one bracket stage and the bonus for each correctly predicted
// qualifier.
type Stage struct {
	Name  string `yaml:"name"`
	Bonus int    `yaml:"bonus"`
}

// Rules is the static bonus table. Adding a stage needs no change to the
// matching logic.
type Rules struct {
	Stages      []Stage
	WinnerLabel string
	WinnerBonus int
}

// DefaultRules returns the standard four-stage table with a 12 point winner
// bonus.
func DefaultRules() Rules {
	return Rules{
		Stages: []Stage{
			{Name: StageRoundOf16, Bonus: 3},
			{Name: StageQuarterFinals, Bonus: 5},
			{Name: StageSemiFinals, Bonus: 7},
			{Name: StageFinal, Bonus: 10},
		},
		WinnerLabel: WinnerKey,
		WinnerBonus: DefaultWinnerBonus,
	}
}

// Validate checks that labels are non-empty and unique and bonuses are not
// negative.
func (r Rules) Validate() error {
	if strings.TrimSpace(r.WinnerLabel) == "" {
		return fmt.Errorf("%w: winner label is empty", ErrInvalidRules)
	}
	if r.WinnerBonus < 0 {
		return fmt.Errorf("%w: winner bonus %d is negative", ErrInvalidRules, r.WinnerBonus)
	}

	seen := make(map[string]struct{}, len(r.Stages))
	for i, stage := range r.Stages {
		if strings.TrimSpace(stage.Name) == "" {
			return fmt.Errorf("%w: stage %d has no name", ErrInvalidRules, i)
		}
		if stage.Name == r.WinnerLabel {
			return fmt.Errorf("%w: stage %q collides with the winner label", ErrInvalidRules, stage.Name)
		}
		if _, dup := seen[stage.Name]; dup {
			return fmt.Errorf("%w: duplicate stage %q", ErrInvalidRules, stage.Name)
		}
		if stage.Bonus < 0 {
			return fmt.Errorf("%w: stage %q bonus %d is negative", ErrInvalidRules, stage.Name, stage.Bonus)
		}
		seen[stage.Name] = struct{}{}
	}
	return nil
}

// Bonus returns the per-team bonus for stage.
func (r Rules) Bonus(stage string) (int, bool) {
	for _, s := range r.Stages {
		if s.Name == stage {
			return s.Bonus, true
		}
	}
	return 0, false
}
