package boosting

import (
	"fmt"

	"github.com/YuminosukeSato/gbtree/pkg/errors"
)

// Number is the set of element types a feature vector (and therefore a
// split threshold) may have.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Node is a node of a regression tree. The set of implementations is closed:
// every Node is either a *Decision[T] or a *Leaf[T].
//
// A tree is a full binary tree. Each node is owned by exactly one parent and
// there are no shared subtrees.
type Node[T Number] interface {
	// NodeVote returns the vote stored on the node itself.
	NodeVote() float64

	node()
}

// Decision routes a feature vector to its left child when
// fvec[Feature] <= Threshold and to its right child otherwise.
//
// Vote is carried for serialization and scaled with the rest of the tree,
// but Eval never adds it to the score.
type Decision[T Number] struct {
	Feature   int
	Threshold T
	Vote      float64
	Left      Node[T]
	Right     Node[T]
}

// Leaf terminates a path; its Vote is the tree's output.
type Leaf[T Number] struct {
	Vote float64
}

// NewDecision creates a decision node. It panics when a child is missing or
// the feature index is negative, since either would break tree traversal.
func NewDecision[T Number](feature int, threshold T, left, right Node[T]) *Decision[T] {
	if left == nil || right == nil {
		panic("boosting: decision node requires both children")
	}
	if feature < 0 {
		panic(fmt.Sprintf("boosting: negative feature index %d", feature))
	}
	return &Decision[T]{
		Feature:   feature,
		Threshold: threshold,
		Left:      left,
		Right:     right,
	}
}

// NewLeaf creates a leaf with the given vote.
func NewLeaf[T Number](vote float64) *Leaf[T] {
	return &Leaf[T]{Vote: vote}
}

// NodeVote implements Node.
func (d *Decision[T]) NodeVote() float64 { return d.Vote }

// NodeVote implements Node.
func (l *Leaf[T]) NodeVote() float64 { return l.Vote }

func (*Decision[T]) node() {}
func (*Leaf[T]) node()     {}

// Eval walks n with fvec and returns the vote of the leaf it reaches.
// Only the terminal leaf contributes to the result.
//
// fvec must be long enough for every feature index in the tree; a short
// vector panics with a runtime index error. Use Ensemble.Predict for a
// checked variant.
func Eval[T Number](n Node[T], fvec []T) float64 {
	for {
		switch v := n.(type) {
		case *Leaf[T]:
			return v.Vote
		case *Decision[T]:
			if fvec[v.Feature] <= v.Threshold {
				n = v.Left
			} else {
				n = v.Right
			}
		default:
			panic(fmt.Sprintf("boosting: unknown node type %T", n))
		}
	}
}

// Scale multiplies the vote of every node under n by w, in place.
// Decision-node votes are scaled too. Not safe for concurrent use with
// Eval or another Scale on the same tree.
func Scale[T Number](n Node[T], w float64) {
	switch v := n.(type) {
	case *Leaf[T]:
		v.Vote *= w
	case *Decision[T]:
		v.Vote *= w
		Scale[T](v.Left, w)
		Scale[T](v.Right, w)
	default:
		panic(fmt.Sprintf("boosting: unknown node type %T", n))
	}
}

// Clone returns a deep copy of the tree rooted at n.
func Clone[T Number](n Node[T]) Node[T] {
	switch v := n.(type) {
	case *Leaf[T]:
		return &Leaf[T]{Vote: v.Vote}
	case *Decision[T]:
		return &Decision[T]{
			Feature:   v.Feature,
			Threshold: v.Threshold,
			Vote:      v.Vote,
			Left:      Clone[T](v.Left),
			Right:     Clone[T](v.Right),
		}
	default:
		panic(fmt.Sprintf("boosting: unknown node type %T", n))
	}
}

// Validate reports whether n is a full binary tree: no missing node anywhere
// and no negative feature index. Hand-built trees that skip NewDecision
// should be validated before scoring. The error names the first bad node.
func Validate[T Number](n Node[T]) error {
	return validate[T](n, "")
}

func validate[T Number](n Node[T], path string) error {
	at := path
	if at == "" {
		at = "/"
	}
	switch v := n.(type) {
	case *Leaf[T]:
		if v != nil {
			return nil
		}
	case *Decision[T]:
		if v == nil {
			break
		}
		if v.Feature < 0 {
			return errors.NewValidationError("tree", "negative feature index at "+at, v.Feature)
		}
		if err := validate[T](v.Left, path+"/left"); err != nil {
			return err
		}
		return validate[T](v.Right, path+"/right")
	}
	return errors.NewValidationError("tree", "missing node at "+at, nil)
}
