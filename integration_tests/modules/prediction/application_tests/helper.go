package predictionintegrationtests

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/predictor-bot/app/modules/prediction"
	predictionservice "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/application"
	"github.com/Black-And-White-Club/predictor-bot/config"
)

type TestDeps struct {
	Ctx     context.Context
	Module  *prediction.Module
	Service predictionservice.Service
}

func SetupTestPredictionService(t *testing.T, maxConcurrency int) TestDeps {
	t.Helper()

	cfg := &config.Config{
		Scoring: config.ScoringConfig{MaxConcurrency: maxConcurrency},
	}
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	noOpTracer := noop.NewTracerProvider().Tracer("test_prediction_service")

	module, err := prediction.NewModule(cfg, testLogger, noOpTracer, nil)
	if err != nil {
		t.Fatalf("Failed to build prediction module: %v", err)
	}

	return TestDeps{
		Ctx:     context.Background(),
		Module:  module,
		Service: module.PredictionService,
	}
}
