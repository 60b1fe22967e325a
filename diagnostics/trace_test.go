package diagnostics

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gbtree/boosting"
	"github.com/YuminosukeSato/gbtree/pkg/errors"
)

func stump(vLeft, vRight float64) boosting.Node[float64] {
	return boosting.NewDecision[float64](0, 5, boosting.NewLeaf[float64](vLeft), boosting.NewLeaf[float64](vRight))
}

func TestTraceContributions(t *testing.T) {
	trees := []boosting.Node[float64]{stump(1, 2), stump(-4, 0), stump(0.5, 3)}
	fvec := []float64{3}

	_, trace := boosting.PredictWithTrace(trees, fvec)
	got := TraceContributions(trace)

	require.Len(t, got, len(trees))
	for i, tree := range trees {
		assert.InDelta(t, boosting.Eval[float64](tree, fvec), got[i], 1e-12)
	}

	// The input is left untouched.
	assert.Equal(t, []float64{1, -3, -2.5}, trace)
}

func TestTraceContributionsEdgeCases(t *testing.T) {
	assert.Empty(t, TraceContributions(nil))
	assert.Equal(t, []float64{4}, TraceContributions([]float64{4}))
}

func TestTopContributors(t *testing.T) {
	// contributions: 1, -4, 0.5, 2
	trace := []float64{1, -3, -2.5, -0.5}

	assert.Equal(t, []int{1, 3}, TopContributors(trace, 2))
	assert.Equal(t, []int{1, 3, 0, 2}, TopContributors(trace, 10))
	assert.Empty(t, TopContributors(trace, 0))
}

func TestPlotTrace(t *testing.T) {
	p, err := PlotTrace([]float64{1, 2, 1.5}, "score by tree")
	require.NoError(t, err)
	assert.Equal(t, "score by tree", p.Title.Text)
	assert.Equal(t, "trees", p.X.Label.Text)
}

func TestPlotTraceErrors(t *testing.T) {
	_, err := PlotTrace(nil, "empty")
	var verr *errors.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = PlotTrace([]float64{1, math.NaN()}, "nan")
	assert.Error(t, err)
}

func TestRenderTraceSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTrace(&buf, []float64{0.5, 1, 0.75}, "trace", "svg"))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, RenderTrace(&buf, []float64{1}, "trace", "bogus"))
}
