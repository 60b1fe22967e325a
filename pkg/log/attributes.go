// Package log defines standard attribute keys for tree model operations.
//
// Keys follow a hierarchical naming convention (e.g. "ensemble.trees",
// "data.samples") so that records from the codec and the scorer can be
// filtered together.
package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "Ensemble".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "decode", "encode", "predict", "predict_batch", "scale"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Tree and Ensemble Shape
const (
	// TreesKey is the number of trees in an ensemble.
	TreesKey = "ensemble.trees"

	// TreeIndexKey is the position of a tree inside its ensemble.
	TreeIndexKey = "ensemble.tree_index"

	// TreeDepthKey is the height of a decoded tree.
	TreeDepthKey = "tree.depth"

	// TreeLeavesKey is the number of leaves of a decoded tree.
	TreeLeavesKey = "tree.leaves"

	// MaxFeatureKey is the largest feature index a model references.
	MaxFeatureKey = "tree.max_feature"

	// WeightKey is a scale factor applied to votes.
	WeightKey = "tree.weight"
)

// Data Shape
const (
	// SamplesKey indicates the number of rows scored.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of columns of the input.
	FeaturesKey = "data.features"

	// WorkersKey is the number of goroutines used by a batch operation.
	WorkersKey = "perf.workers"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationDecode       = "decode"
	OperationEncode       = "encode"
	OperationPredict      = "predict"
	OperationPredictBatch = "predict_batch"
	OperationScale        = "scale"

	PhaseLoading   = "loading"
	PhaseInference = "inference"

	ErrorMalformedDocument = "MALFORMED_DOCUMENT"
	ErrorUnresolvedFeature = "UNRESOLVED_FEATURE"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
)
