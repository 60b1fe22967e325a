// Package model provides the capability interfaces implemented by scoring
// models. boosting.Ensemble satisfies all of them.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Predictor is the interface for models that score a single feature vector.
type Predictor[T any] interface {
	// Predict returns the score for fvec.
	Predict(fvec []T) (float64, error)
}

// TracePredictor is the interface for models that can also report the
// running score after each of their components.
type TracePredictor[T any] interface {
	Predictor[T]

	// PredictWithTrace returns the score and the partial sums, one per tree.
	PredictWithTrace(fvec []T) (float64, []float64, error)
}

// BatchPredictor is the interface for models that score every row of a matrix.
type BatchPredictor interface {
	// PredictBatch returns a rows x 1 matrix of scores.
	PredictBatch(X mat.Matrix) (*mat.Dense, error)
}

// Scaler is the interface for models whose votes can be rescaled in place.
type Scaler interface {
	// Scale multiplies every vote by w.
	Scale(w float64)
}
