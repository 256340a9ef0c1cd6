package predictionservice

import "errors"

// Contract errors. Noisy rows and missing results for a fixture are never
// errors; these only fire when the caller hands over broken containers.
var (
	// ErrMissingResults indicates no results container was supplied.
	ErrMissingResults = errors.New("results are required")

	// ErrNilEngine indicates a service or call was made without an engine.
	ErrNilEngine = errors.New("scoring engine is nil")
)
