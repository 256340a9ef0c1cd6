package predictionservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	predictiontypes "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/domain/types"
	predictionmetrics "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/infrastructure/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency bounds participant fan-out when none is configured.
const DefaultMaxConcurrency = 4

// Entry is one participant's submission.
type Entry struct {
	Participant string
	Rows        []predictiontypes.Row
}

// Service scores contest entries.
type Service interface {
	ScoreEntry(ctx context.Context, entry Entry, results *predictiontypes.Results, now time.Time) (Breakdown, error)
	ScoreEntries(ctx context.Context, entries []Entry, results *predictiontypes.Results, now time.Time) ([]Breakdown, error)
}

// PredictionService wraps the Engine with logging, tracing and metrics.
type PredictionService struct {
	engine         *Engine
	logger         *slog.Logger
	metrics        predictionmetrics.Metrics
	tracer         trace.Tracer
	maxConcurrency int
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(
	engine *Engine,
	logger *slog.Logger,
	metrics predictionmetrics.Metrics,
	tracer trace.Tracer,
	maxConcurrency int,
) *PredictionService {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &PredictionService{
		engine:         engine,
		logger:         logger,
		metrics:        metrics,
		tracer:         tracer,
		maxConcurrency: maxConcurrency,
	}
}

// withTelemetry wraps an operation with a span, metrics and panic recovery.
func withTelemetry[T any](
	s *PredictionService,
	ctx context.Context,
	operationName string,
	participant string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("participant", participant),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("participant", participant),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("participant", participant),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// ScoreEntry scores one participant. Unmatched predictions are logged and
// counted but never fail the call.
func (s *PredictionService) ScoreEntry(ctx context.Context, entry Entry, results *predictiontypes.Results, now time.Time) (Breakdown, error) {
	return withTelemetry(s, ctx, "ScoreEntry", entry.Participant, func(ctx context.Context) (Breakdown, error) {
		if s.engine == nil {
			return Breakdown{}, ErrNilEngine
		}

		b, err := s.engine.Score(entry.Rows, results, now)
		if err != nil {
			return Breakdown{}, err
		}
		b.Participant = entry.Participant

		s.record(ctx, b)
		return b, nil
	})
}

// ScoreEntries scores every entry independently, at most maxConcurrency at a
// time. Breakdowns come back in input order; ranking is left to the caller.
func (s *PredictionService) ScoreEntries(ctx context.Context, entries []Entry, results *predictiontypes.Results, now time.Time) ([]Breakdown, error) {
	batchID := uuid.New()

	s.logger.InfoContext(ctx, "Scoring entries",
		attr.ExtractCorrelationID(ctx),
		attr.String("batch_id", batchID.String()),
		attr.Int("num_entries", len(entries)),
		attr.Time("as_of", now),
	)

	out := make([]Breakdown, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := s.ScoreEntry(gctx, entry, results, now)
			if err != nil {
				return fmt.Errorf("participant %q: %w", entry.Participant, err)
			}
			out[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Scoring batch failed",
			attr.String("batch_id", batchID.String()),
			attr.Error(err),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Scored entries",
		attr.String("batch_id", batchID.String()),
		attr.Int("num_entries", len(out)),
	)
	return out, nil
}

func (s *PredictionService) record(ctx context.Context, b Breakdown) {
	for _, m := range b.Matches {
		switch {
		case m.ExactPoints > 0:
			s.metrics.RecordMatchPrediction(ctx, "exact")
		case m.Predicted == m.Actual:
			s.metrics.RecordMatchPrediction(ctx, "outcome")
		default:
			s.metrics.RecordMatchPrediction(ctx, "miss")
		}
	}
	for _, hit := range b.StageHits {
		s.metrics.RecordBonusHit(ctx, hit.Stage)
	}
	if b.WinnerHit {
		s.metrics.RecordBonusHit(ctx, s.engine.Rules().WinnerLabel)
	}

	for _, u := range b.Unmatched {
		s.metrics.RecordUnmatchedPrediction(ctx)
		s.logger.DebugContext(ctx, "No result found for prediction",
			attr.String("participant", b.Participant),
			attr.Int("row", u.Row),
			attr.String("date", u.Date.String()),
			attr.String("team1", u.Team1),
			attr.String("team2", u.Team2),
		)
	}
	if len(b.Unmatched) > 0 {
		s.logger.WarnContext(ctx, "Predictions without a matching result",
			attr.ExtractCorrelationID(ctx),
			attr.String("participant", b.Participant),
			attr.Int("num_unmatched", len(b.Unmatched)),
		)
	}

	s.metrics.RecordParticipantScore(ctx, b.Participant, b.Total)
	s.logger.InfoContext(ctx, "Participant scored",
		attr.ExtractCorrelationID(ctx),
		attr.String("participant", b.Participant),
		attr.Int("total", b.Total),
		attr.Int("match_points", b.MatchPoints),
		attr.Int("stage_points", b.StagePoints),
		attr.Int("winner_points", b.WinnerPoints),
		attr.Int("future_skipped", b.FutureSkipped),
		attr.Int("malformed_rows", b.Malformed),
	)
}
