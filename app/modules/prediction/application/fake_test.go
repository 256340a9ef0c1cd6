package predictionservice

import (
	"context"
	"sync"
	"time"
)

// ------------------------
// Fake Metrics
// ------------------------

// FakeMetrics counts calls so tests can assert what the service recorded.
type FakeMetrics struct {
	mu sync.Mutex

	Attempts  map[string]int
	Successes map[string]int
	Failures  map[string]int
	Matches   map[string]int
	BonusHits map[string]int
	Unmatched int
	Scores    map[string]int
	Durations int
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		Attempts:  map[string]int{},
		Successes: map[string]int{},
		Failures:  map[string]int{},
		Matches:   map[string]int{},
		BonusHits: map[string]int{},
		Scores:    map[string]int{},
	}
}

func (f *FakeMetrics) RecordOperationAttempt(ctx context.Context, operation string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Attempts[operation]++
}

func (f *FakeMetrics) RecordOperationSuccess(ctx context.Context, operation string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Successes[operation]++
}

func (f *FakeMetrics) RecordOperationFailure(ctx context.Context, operation string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Failures[operation]++
}

func (f *FakeMetrics) RecordOperationDuration(ctx context.Context, operation string, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Durations++
}

func (f *FakeMetrics) RecordMatchPrediction(ctx context.Context, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Matches[result]++
}

func (f *FakeMetrics) RecordUnmatchedPrediction(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Unmatched++
}

func (f *FakeMetrics) RecordBonusHit(ctx context.Context, category string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BonusHits[category]++
}

func (f *FakeMetrics) RecordParticipantScore(ctx context.Context, participant string, score int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Scores[participant] = score
}
