package prediction

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	predictionservice "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/application"
	predictionmetrics "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/infrastructure/metrics"
	"github.com/Black-And-White-Club/predictor-bot/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"

	defaultMetricsNamespace = "predictor"
)

// Module represents the prediction module.
type Module struct {
	Engine            *predictionservice.Engine
	PredictionService predictionservice.Service
	Metrics           predictionmetrics.Metrics
	logger            *slog.Logger
	config            *config.Config
}

// NewModule wires config into an engine and an instrumented service. A nil
// registerer, or APP_ENV=test, disables Prometheus metrics; a nil tracer
// falls back to a no-op tracer.
func NewModule(
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
) (*Module, error) {
	if cfg == nil {
		return nil, fmt.Errorf("prediction module requires a config")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("prediction")
	}

	rules, err := cfg.Scoring.Rules()
	if err != nil {
		return nil, fmt.Errorf("failed to build scoring rules: %w", err)
	}
	loc, err := cfg.Scoring.Location()
	if err != nil {
		return nil, err
	}
	engine, err := predictionservice.NewEngine(rules, loc)
	if err != nil {
		return nil, err
	}

	var metrics predictionmetrics.Metrics = &predictionmetrics.NoOpMetrics{}
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue
	if registerer != nil && !inTestEnv {
		namespace := cfg.Observability.MetricsNamespace
		if namespace == "" {
			namespace = defaultMetricsNamespace
		}
		promMetrics, err := predictionmetrics.NewPrometheusMetrics(registerer, namespace)
		if err != nil {
			return nil, err
		}
		metrics = promMetrics
	}

	logger.Info("prediction.NewModule called",
		attr.Int("stages", len(rules.Stages)),
		attr.String("timezone", loc.String()),
		attr.String("environment", cfg.Observability.Environment),
	)

	return &Module{
		Engine:            engine,
		PredictionService: predictionservice.NewPredictionService(engine, logger, metrics, tracer, cfg.Scoring.MaxConcurrency),
		Metrics:           metrics,
		logger:            logger,
		config:            cfg,
	}, nil
}
