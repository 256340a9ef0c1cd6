package predictionmetrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "prediction"

// PrometheusMetrics implements Metrics on a Prometheus registry.
type PrometheusMetrics struct {
	operationAttempts *prometheus.CounterVec
	operationSuccess  *prometheus.CounterVec
	operationFailure  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	matchPredictions  *prometheus.CounterVec
	unmatched         prometheus.Counter
	bonusHits         *prometheus.CounterVec
	participantScore  *prometheus.GaugeVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_attempts_total",
			Help:      "Scoring operations started.",
		}, []string{"operation"}),
		operationSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_success_total",
			Help:      "Scoring operations that completed.",
		}, []string{"operation"}),
		operationFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_failure_total",
			Help:      "Scoring operations that returned an error.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Duration of scoring operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
		matchPredictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "match_predictions_total",
			Help:      "Match predictions that found a result, by how they scored.",
		}, []string{"result"}),
		unmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "unmatched_predictions_total",
			Help:      "Dated match predictions with no result for that day and pairing.",
		}),
		bonusHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bonus_hits_total",
			Help:      "Correct qualifier and winner predictions, by stage.",
		}, []string{"category"}),
		participantScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "participant_score",
			Help:      "Latest total score per participant.",
		}, []string{"participant"}),
	}

	collectors := []prometheus.Collector{
		m.operationAttempts,
		m.operationSuccess,
		m.operationFailure,
		m.operationDuration,
		m.matchPredictions,
		m.unmatched,
		m.bonusHits,
		m.participantScore,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register prediction metrics: %w", err)
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(ctx context.Context, operation string) {
	m.operationAttempts.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(ctx context.Context, operation string) {
	m.operationSuccess.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(ctx context.Context, operation string) {
	m.operationFailure.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(ctx context.Context, operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordMatchPrediction(ctx context.Context, result string) {
	m.matchPredictions.WithLabelValues(result).Inc()
}

func (m *PrometheusMetrics) RecordUnmatchedPrediction(ctx context.Context) {
	m.unmatched.Inc()
}

func (m *PrometheusMetrics) RecordBonusHit(ctx context.Context, category string) {
	m.bonusHits.WithLabelValues(category).Inc()
}

func (m *PrometheusMetrics) RecordParticipantScore(ctx context.Context, participant string, score int) {
	m.participantScore.WithLabelValues(participant).Set(float64(score))
}
