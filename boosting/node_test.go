package boosting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gbtree/pkg/errors"
)

// stumpTree is the tree {feature: x, value: 5, left: 1.0, right: 2.0}.
func stumpTree() *Decision[float64] {
	return NewDecision[float64](0, 5, NewLeaf[float64](1.0), NewLeaf[float64](2.0))
}

// deepTree builds
//
//	          x <= 5 (vote 0.5)
//	         /                \
//	  y <= 2.5 (vote 0.25)   z <= -1 (vote 0.75)
//	   /      \               /       \
//	 1.0     -2.0           4.0    y <= 10 (vote 1)
//	                                /      \
//	                              8.0     16.0
//
// with x, y, z at indices 0, 1, 2.
func deepTree() *Decision[float64] {
	yDeep := NewDecision[float64](1, 10, NewLeaf[float64](8), NewLeaf[float64](16))
	yDeep.Vote = 1
	left := NewDecision[float64](1, 2.5, NewLeaf[float64](1), NewLeaf[float64](-2))
	left.Vote = 0.25
	right := NewDecision[float64](2, -1, NewLeaf[float64](4), yDeep)
	right.Vote = 0.75
	root := NewDecision[float64](0, 5, left, right)
	root.Vote = 0.5
	return root
}

func leafVotes[T Number](n Node[T]) []float64 {
	var votes []float64
	Walk[T](n, func(n Node[T], _ int) bool {
		if l, ok := n.(*Leaf[T]); ok {
			votes = append(votes, l.Vote)
		}
		return true
	})
	return votes
}

func TestEvalRouting(t *testing.T) {
	tree := stumpTree()

	assert.Equal(t, 1.0, Eval[float64](tree, []float64{3}))
	assert.Equal(t, 2.0, Eval[float64](tree, []float64{7}))
	// Equality goes left.
	assert.Equal(t, 1.0, Eval[float64](tree, []float64{5}))
}

func TestEvalDeepTree(t *testing.T) {
	tree := deepTree()

	tests := []struct {
		name string
		fvec []float64
		want float64
	}{
		{"left left", []float64{1, 2, 0}, 1},
		{"left right", []float64{1, 3, 0}, -2},
		{"right left", []float64{6, 0, -5}, 4},
		{"right right left", []float64{6, 10, 0}, 8},
		{"right right right", []float64{6, 11, 0}, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Decision votes never leak into the result.
			assert.Equal(t, tt.want, Eval[float64](tree, tt.fvec))
		})
	}
}

func TestEvalLeafIgnoresVector(t *testing.T) {
	leaf := NewLeaf[float64](0.125)

	assert.Equal(t, 0.125, Eval[float64](leaf, nil))
	assert.Equal(t, 0.125, Eval[float64](leaf, []float64{math.NaN(), 1e300}))
}

func TestEvalNaNGoesRight(t *testing.T) {
	assert.Equal(t, 2.0, Eval[float64](stumpTree(), []float64{math.NaN()}))
}

func TestEvalIntegerElementType(t *testing.T) {
	tree := NewDecision[int32](1, 10, NewLeaf[int32](-1), NewLeaf[int32](1))

	assert.Equal(t, -1.0, Eval[int32](tree, []int32{0, 10}))
	assert.Equal(t, 1.0, Eval[int32](tree, []int32{0, 11}))
}

func TestEvalShortVectorPanics(t *testing.T) {
	tree := deepTree()
	assert.Panics(t, func() {
		Eval[float64](tree, []float64{6})
	})
}

func TestNewDecisionRejectsMissingChildren(t *testing.T) {
	assert.Panics(t, func() {
		NewDecision[float64](0, 1, nil, NewLeaf[float64](1))
	})
	assert.Panics(t, func() {
		NewDecision[float64](0, 1, NewLeaf[float64](1), nil)
	})
	assert.Panics(t, func() {
		NewDecision[float64](-1, 1, NewLeaf[float64](1), NewLeaf[float64](2))
	})
}

func TestScaleStump(t *testing.T) {
	tree := stumpTree()
	Scale[float64](tree, 0.5)

	assert.Equal(t, 0.5, Eval[float64](tree, []float64{3}))
	assert.Equal(t, 1.0, Eval[float64](tree, []float64{7}))
}

func TestScaleIncludesDecisionVotes(t *testing.T) {
	tree := deepTree()
	Scale[float64](tree, 2)

	assert.Equal(t, 1.0, tree.Vote)
	assert.Equal(t, 0.5, tree.Left.NodeVote())
	assert.Equal(t, 1.5, tree.Right.NodeVote())
	assert.Equal(t, []float64{2, -4, 8, 16, 32}, leafVotes[float64](tree))
}

func TestScaleLinearity(t *testing.T) {
	weights := [][2]float64{{0.5, 0.1}, {3, -2}, {1e-3, 1e3}, {0.7, 0.7}}

	for _, w := range weights {
		twice := Clone[float64](deepTree())
		once := Clone[float64](deepTree())

		Scale[float64](twice, w[0])
		Scale[float64](twice, w[1])
		Scale[float64](once, w[0]*w[1])

		got, want := leafVotes[float64](twice), leafVotes[float64](once)
		require.Len(t, got, len(want))
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-12, "weights %v leaf %d", w, i)
		}
	}
}

func TestScaleNaNPropagates(t *testing.T) {
	leaf := NewLeaf[float64](1)
	Scale[float64](leaf, math.NaN())
	assert.True(t, math.IsNaN(leaf.Vote))
}

func TestCloneIsDeep(t *testing.T) {
	orig := deepTree()
	cp := Clone[float64](orig)

	Scale[float64](cp, 10)

	assert.Equal(t, []float64{1, -2, 4, 8, 16}, leafVotes[float64](orig))
	assert.Equal(t, 0.5, orig.Vote)
	assert.Equal(t, NumNodes[float64](orig), NumNodes[float64](cp))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate[float64](deepTree()))
	assert.NoError(t, Validate[float64](NewLeaf[float64](1)))

	tests := []struct {
		name     string
		tree     Node[float64]
		wantReason string
	}{
		{"nil root", nil, "missing node at /"},
		{"missing right", &Decision[float64]{Left: NewLeaf[float64](1)}, "missing node at /right"},
		{"typed nil leaf", &Decision[float64]{Left: (*Leaf[float64])(nil), Right: NewLeaf[float64](1)}, "missing node at /left"},
		{"deep missing", &Decision[float64]{
			Left:  NewLeaf[float64](1),
			Right: &Decision[float64]{Feature: 1, Left: NewLeaf[float64](2)},
		}, "missing node at /right/right"},
		{"negative feature", &Decision[float64]{Feature: -2, Left: NewLeaf[float64](1), Right: NewLeaf[float64](2)}, "negative feature index at /"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate[float64](tt.tree)
			var verr *errors.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantReason, verr.Reason)
		})
	}
}
