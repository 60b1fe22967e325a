// Package diagnostics inspects the per-tree running sums produced by
// boosting.PredictWithTrace.
package diagnostics

import (
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/gbtree/pkg/errors"
)

// TraceContributions turns a running-sum trace back into per-tree
// contributions: out[0] = trace[0], out[i] = trace[i] - trace[i-1].
// Values match the trees' leaf votes up to floating-point rounding.
func TraceContributions(trace []float64) []float64 {
	out := make([]float64, len(trace))
	copy(out, trace)
	if len(trace) > 1 {
		floats.Sub(out[1:], trace[:len(trace)-1])
	}
	return out
}

// TopContributors returns the positions of the k trees with the largest
// absolute contribution, largest first. Ties keep tree order.
func TopContributors(trace []float64, k int) []int {
	contrib := TraceContributions(trace)
	if k > len(contrib) {
		k = len(contrib)
	}
	if k <= 0 {
		return []int{}
	}

	// ArgsortStable is ascending, so sort negated magnitudes.
	keys := make([]float64, len(contrib))
	for i, c := range contrib {
		keys[i] = -math.Abs(c)
	}
	inds := make([]int, len(keys))
	floats.ArgsortStable(keys, inds)
	return inds[:k]
}

// PlotTrace draws the running score against the number of trees added.
func PlotTrace(trace []float64, title string) (*plot.Plot, error) {
	if len(trace) == 0 {
		return nil, errors.NewValidationError("trace", "must not be empty", 0)
	}

	pts := make(plotter.XYs, len(trace))
	for i, v := range trace {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "trees"
	p.Y.Label.Text = "partial score"
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, errors.Wrap(err, "build trace line")
	}
	p.Add(line, points)
	return p, nil
}

// RenderTrace plots trace and writes it to w in the given format
// ("svg", "png", "pdf", ...).
func RenderTrace(w io.Writer, trace []float64, title, format string) error {
	p, err := PlotTrace(trace, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return errors.Wrapf(err, "render trace as %s", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write trace plot")
	}
	return nil
}
