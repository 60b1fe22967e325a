// Package gbtree evaluates trained additive ensembles of binary decision
// trees, the kind of model gradient boosting produces, inside Go services.
//
// Training is out of scope. Models arrive as JSON documents that name their
// split features, are decoded against a naming authority, and are scored
// against feature vectors or gonum matrices.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/gbtree/boosting"
//	)
//
//	func main() {
//	    names, err := boosting.NewFeatureMap("x", "y")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    tree, err := boosting.Unmarshal[float64]([]byte(`{
//	        "feature": "x", "value": 5, "vote": 0,
//	        "left":  {"vote": 1},
//	        "right": {"vote": 2}
//	    }`), names)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println(boosting.Eval(tree, []float64{6, 0})) // 2
//	}
//
// # Packages
//
//   - boosting: tree nodes, evaluation, shrinkage, the JSON codec and the
//     Ensemble scorer
//   - diagnostics: per-tree contributions and plots of scoring traces
//   - core/model: capability interfaces implemented by the scorer
//   - core/parallel: row-range fan-out used by batch scoring
//   - pkg/errors: typed errors, warnings and panic recovery
//   - pkg/log: structured logging on zerolog
//
// # Errors
//
// A malformed document yields a *errors.FormatError carrying the path of the
// failing node. A split feature the naming authority does not know yields an
// *errors.UnresolvedFeatureError; errors.IsFatal reports true for it and the
// model must not be used.
//
// # License
//
// gbtree is released under the MIT License.
package gbtree
