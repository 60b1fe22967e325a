package boosting

import (
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gbtree/core/model"
	"github.com/YuminosukeSato/gbtree/core/parallel"
	"github.com/YuminosukeSato/gbtree/pkg/errors"
	"github.com/YuminosukeSato/gbtree/pkg/log"
)

// Predict sums the leaf votes of every tree for fvec, left to right.
// An empty ensemble scores 0.
func Predict[T Number](trees []Node[T], fvec []T) float64 {
	f := 0.0
	for _, tree := range trees {
		f += Eval[T](tree, fvec)
	}
	return f
}

// PredictWithTrace is Predict that also returns the running sum after each
// tree, in tree order. The trace has one entry per tree and its last entry
// equals the returned score.
func PredictWithTrace[T Number](trees []Node[T], fvec []T) (float64, []float64) {
	trace := make([]float64, 0, len(trees))
	f := 0.0
	for _, tree := range trees {
		f += Eval[T](tree, fvec)
		trace = append(trace, f)
	}
	return f, trace
}

const defaultParallelThreshold = 256

type config struct {
	numWorkers        int
	parallelThreshold int
	boundsCheck       bool
	logger            log.Logger
}

// Option configures an Ensemble.
type Option func(*config)

// WithNumWorkers sets the number of goroutines used by PredictBatch.
// 0 means one per CPU core.
func WithNumWorkers(n int) Option {
	return func(c *config) {
		c.numWorkers = n
	}
}

// WithParallelThreshold sets the row count up to which PredictBatch stays
// on the calling goroutine.
func WithParallelThreshold(rows int) Option {
	return func(c *config) {
		c.parallelThreshold = rows
	}
}

// WithBoundsCheck toggles the feature vector length check done by the
// Ensemble methods. When disabled a short vector panics inside Eval.
func WithBoundsCheck(enabled bool) Option {
	return func(c *config) {
		c.boundsCheck = enabled
	}
}

// WithLogger sets the logger used by the ensemble.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// Ensemble is an ordered, additive collection of trees.
//
// Scoring methods are safe for concurrent use. Scale mutates the trees and
// must not run concurrently with anything else on the same Ensemble.
type Ensemble[T Number] struct {
	trees      []Node[T]
	maxFeature int
	cfg        config
}

var (
	_ model.TracePredictor[float64] = (*Ensemble[float64])(nil)
	_ model.BatchPredictor          = (*Ensemble[float64])(nil)
	_ model.Scaler                  = (*Ensemble[float64])(nil)
)

// NewEnsemble wraps trees. The ensemble takes ownership of the slice and of
// the trees in it.
func NewEnsemble[T Number](trees []Node[T], opts ...Option) (*Ensemble[T], error) {
	cfg := config{
		numWorkers:        runtime.NumCPU(),
		parallelThreshold: defaultParallelThreshold,
		boundsCheck:       true,
		logger:            log.GetLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.numWorkers < 0 {
		return nil, errors.NewValidationError("numWorkers", "must not be negative", cfg.numWorkers)
	}
	if cfg.parallelThreshold < 0 {
		return nil, errors.NewValidationError("parallelThreshold", "must not be negative", cfg.parallelThreshold)
	}
	if cfg.logger == nil {
		return nil, errors.NewValidationError("logger", "must not be nil", nil)
	}

	maxFeature := -1
	for i, tree := range trees {
		if tree == nil {
			return nil, errors.NewValidationError("trees", "nil tree", i)
		}
		if err := Validate[T](tree); err != nil {
			return nil, errors.Wrapf(err, "tree %d", i)
		}
		if f := MaxFeature[T](tree); f > maxFeature {
			maxFeature = f
		}
	}

	cfg.logger = cfg.logger.With(log.ComponentKey, "boosting", log.ModelNameKey, "Ensemble")
	return &Ensemble[T]{trees: trees, maxFeature: maxFeature, cfg: cfg}, nil
}

// Len returns the number of trees.
func (e *Ensemble[T]) Len() int {
	return len(e.trees)
}

// Trees returns the trees in order. The slice is shared with the ensemble.
func (e *Ensemble[T]) Trees() []Node[T] {
	return e.trees
}

// MaxFeature returns the largest feature index used by any tree, or -1.
func (e *Ensemble[T]) MaxFeature() int {
	return e.maxFeature
}

// NumFeatures returns the minimum feature vector length the ensemble accepts.
func (e *Ensemble[T]) NumFeatures() int {
	return e.maxFeature + 1
}

func (e *Ensemble[T]) checkLen(op string, n int) error {
	if e.cfg.boundsCheck && n <= e.maxFeature {
		return errors.NewDimensionError(op, e.maxFeature+1, n)
	}
	return nil
}

// Predict returns the ensemble score for fvec.
func (e *Ensemble[T]) Predict(fvec []T) (float64, error) {
	if err := e.checkLen("Predict", len(fvec)); err != nil {
		return 0, err
	}
	return Predict(e.trees, fvec), nil
}

// PredictWithTrace returns the score for fvec and the running sum after
// each tree.
func (e *Ensemble[T]) PredictWithTrace(fvec []T) (float64, []float64, error) {
	if err := e.checkLen("PredictWithTrace", len(fvec)); err != nil {
		return 0, nil, err
	}
	score, trace := PredictWithTrace(e.trees, fvec)
	return score, trace, nil
}

// PredictBatch scores every row of X and returns a rows x 1 matrix.
//
// Rows are split across workers; each row is reduced over the trees in
// order, so results match Predict bit for bit. A panic in a worker is
// returned as *errors.PanicError.
func (e *Ensemble[T]) PredictBatch(X mat.Matrix) (out *mat.Dense, err error) {
	defer errors.Recover(&err, "PredictBatch")

	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "PredictBatch")
	}
	if err := e.checkLen("PredictBatch", cols); err != nil {
		return nil, err
	}

	start := time.Now()
	out = mat.NewDense(rows, 1, nil)

	var (
		mu       sync.Mutex
		firstErr error
	)
	parallel.ParallelizeWithThreshold(rows, e.cfg.parallelThreshold, e.cfg.numWorkers, func(lo, hi int) {
		werr := errors.SafeExecute("PredictBatch", func() error {
			fvec := make([]T, cols)
			for i := lo; i < hi; i++ {
				for j := range fvec {
					fvec[j] = T(X.At(i, j))
				}
				out.Set(i, 0, Predict(e.trees, fvec))
			}
			return nil
		})
		if werr != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = werr
			}
			mu.Unlock()
		}
	})
	if firstErr != nil {
		e.cfg.logger.Error("batch prediction failed", firstErr, log.OperationKey, log.OperationPredictBatch)
		return nil, firstErr
	}

	e.cfg.logger.Debug("batch scored",
		log.OperationKey, log.OperationPredictBatch,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.TreesKey, len(e.trees),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Scale multiplies every vote of every tree by w.
func (e *Ensemble[T]) Scale(w float64) {
	for _, tree := range e.trees {
		Scale[T](tree, w)
	}
	e.cfg.logger.Debug("ensemble scaled", log.OperationKey, log.OperationScale, log.WeightKey, w)
}
