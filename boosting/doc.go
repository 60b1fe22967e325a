// Package boosting represents and evaluates additive ensembles of binary
// regression trees, as produced by gradient boosting.
//
// A tree is built from two node kinds. A *Decision[T] sends a feature vector
// left when fvec[Feature] <= Threshold and right otherwise; a *Leaf[T] holds
// the vote the tree outputs. An ensemble's score is the sum of the leaf
// votes of its trees.
//
// # Evaluating
//
//	score := boosting.Predict(trees, fvec)
//	score, trace := boosting.PredictWithTrace(trees, fvec) // running sums
//
// The Ensemble type adds feature vector length checks and batch scoring over
// gonum matrices:
//
//	ens, err := boosting.NewEnsemble(trees, boosting.WithNumWorkers(4))
//	scores, err := ens.PredictBatch(X)
//
// # Shrinkage
//
// Scale multiplies every vote in a tree (decision-node votes included) by a
// weight, in place:
//
//	boosting.Scale[float64](tree, 0.1)
//
// # Documents
//
// Trees are stored as JSON objects that name their split features:
//
//	{"index": 0, "feature": "x", "value": 5, "vote": 0,
//	 "left": {"index": -1, "vote": 1}, "right": {"index": -1, "vote": 2}}
//
// Decode resolves "feature" through a FeatureIndexer and ignores "index"
// for routing purposes; a node without "feature" is a leaf. Encode writes
// the same shape back using a FeatureNamer. Round trips therefore require
// the naming authority to map names and indices consistently.
package boosting
