package predictionmetrics

import (
	"context"
	"time"
)

// Metrics records scoring activity. Implementations must be safe for
// concurrent use; participants are scored in parallel.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)

	// RecordMatchPrediction counts one matched prediction by result:
	// "exact", "outcome" or "miss".
	RecordMatchPrediction(ctx context.Context, result string)
	RecordUnmatchedPrediction(ctx context.Context)
	RecordBonusHit(ctx context.Context, category string)
	RecordParticipantScore(ctx context.Context, participant string, score int)
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(ctx context.Context, operation string) {}

func (NoOpMetrics) RecordOperationSuccess(ctx context.Context, operation string) {}

func (NoOpMetrics) RecordOperationFailure(ctx context.Context, operation string) {}

func (NoOpMetrics) RecordOperationDuration(ctx context.Context, operation string, duration time.Duration) {
}

func (NoOpMetrics) RecordMatchPrediction(ctx context.Context, result string) {}

func (NoOpMetrics) RecordUnmatchedPrediction(ctx context.Context) {}

func (NoOpMetrics) RecordBonusHit(ctx context.Context, category string) {}

func (NoOpMetrics) RecordParticipantScore(ctx context.Context, participant string, score int) {}
