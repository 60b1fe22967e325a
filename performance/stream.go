// Package performance scores unbounded row streams in fixed-size chunks.
package performance

import (
	"context"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gbtree/core/model"
	"github.com/YuminosukeSato/gbtree/pkg/errors"
	"github.com/YuminosukeSato/gbtree/pkg/log"
)

// ScoredChunk holds the scores for one input chunk.
type ScoredChunk struct {
	// Offset is the stream position of the chunk's first row.
	Offset int
	// Scores has one row per input row.
	Scores *mat.Dense
}

// StreamMetrics tracks streaming counters.
type StreamMetrics struct {
	ProcessedSamples uint64
	ProcessedChunks  uint64
	FailedChunks     uint64
}

// StreamScorer feeds matrices arriving on a channel through a BatchPredictor
// and emits their scores in arrival order.
type StreamScorer struct {
	model      model.BatchPredictor
	bufferSize int
	logger     log.Logger

	samples atomic.Uint64
	chunks  atomic.Uint64
	failed  atomic.Uint64
}

// NewStreamScorer creates a scorer whose output channel buffers bufferSize
// chunks.
func NewStreamScorer(m model.BatchPredictor, bufferSize int) (*StreamScorer, error) {
	if m == nil {
		return nil, errors.NewValidationError("model", "must not be nil", nil)
	}
	if bufferSize < 0 {
		return nil, errors.NewValidationError("bufferSize", "must not be negative", bufferSize)
	}
	return &StreamScorer{
		model:      m,
		bufferSize: bufferSize,
		logger:     log.GetLogger().With(log.ComponentKey, "performance", log.OperationKey, "stream"),
	}, nil
}

// Run scores chunks until input is closed or ctx is done. Both returned
// channels are closed when the stream ends. The first scoring error, or
// ctx.Err() on cancellation, is delivered on the error channel and stops
// the stream.
func (s *StreamScorer) Run(ctx context.Context, input <-chan mat.Matrix) (<-chan ScoredChunk, <-chan error) {
	out := make(chan ScoredChunk, s.bufferSize)
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		defer close(out)

		offset := 0
		for {
			select {
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			case X, ok := <-input:
				if !ok {
					s.logger.Debug("stream drained",
						log.SamplesKey, offset,
						"chunks", s.chunks.Load(),
					)
					return
				}

				rows, _ := X.Dims()
				scores, err := s.model.PredictBatch(X)
				if err != nil {
					s.failed.Add(1)
					err = errors.Wrapf(err, "score chunk at row %d", offset)
					s.logger.Error("stream stopped", err, log.SamplesKey, offset)
					errc <- err
					return
				}
				s.samples.Add(uint64(rows))
				s.chunks.Add(1)

				select {
				case out <- ScoredChunk{Offset: offset, Scores: scores}:
				case <-ctx.Done():
					errc <- ctx.Err()
					return
				}
				offset += rows
			}
		}
	}()

	return out, errc
}

// GetMetrics returns a snapshot of the counters.
func (s *StreamScorer) GetMetrics() StreamMetrics {
	return StreamMetrics{
		ProcessedSamples: s.samples.Load(),
		ProcessedChunks:  s.chunks.Load(),
		FailedChunks:     s.failed.Load(),
	}
}
