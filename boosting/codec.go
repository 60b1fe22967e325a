package boosting

import (
	"context"
	"fmt"
	"strconv"

	"github.com/valyala/fastjson"

	"github.com/YuminosukeSato/gbtree/pkg/errors"
	"github.com/YuminosukeSato/gbtree/pkg/log"
)

// Document field names.
const (
	fieldIndex   = "index"
	fieldValue   = "value"
	fieldLeft    = "left"
	fieldRight   = "right"
	fieldVote    = "vote"
	fieldFeature = "feature"
)

// leafIndex is the index written for leaves.
const leafIndex = -1

type decodeConfig struct {
	driftWarnings bool
	logger        log.Logger
}

// DecodeOption configures Decode and DecodeEnsemble.
type DecodeOption func(*decodeConfig)

// WithDriftWarnings toggles the FeatureDriftWarning emitted when a decision
// node's "index" disagrees with the index resolved from its "feature" name.
// Enabled by default. The resolved index is used either way.
func WithDriftWarnings(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.driftWarnings = enabled
	}
}

// WithDecodeLogger sets the logger used for decode summaries.
func WithDecodeLogger(l log.Logger) DecodeOption {
	return func(c *decodeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newDecodeConfig(opts []DecodeOption) *decodeConfig {
	c := &decodeConfig{driftWarnings: true, logger: log.GetLogger()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(log.ComponentKey, "boosting", log.OperationKey, log.OperationDecode)
	return c
}

// Decode builds a tree from its document form.
//
// A node without a "feature" key is a leaf; otherwise it is a decision node
// whose index is resolved from the feature name through names. The "index"
// key is never trusted for that purpose.
//
// Errors:
//   - *errors.FormatError for a missing or mistyped field. No tree is returned.
//   - *errors.UnresolvedFeatureError when names does not know a feature.
//     This is fatal (errors.IsFatal): the model and the feature metadata are
//     inconsistent and the model must not be used.
func Decode[T Number](doc *fastjson.Value, names FeatureIndexer, opts ...DecodeOption) (Node[T], error) {
	cfg := newDecodeConfig(opts)
	n, err := decodeNode[T](doc, names, "", cfg)
	if err != nil {
		logDecodeError(cfg.logger, err)
		return nil, err
	}
	if cfg.logger.Enabled(context.Background(), log.LevelDebug) {
		cfg.logger.Debug("tree decoded",
			log.TreeDepthKey, Depth[T](n),
			log.TreeLeavesKey, NumLeaves[T](n),
			log.MaxFeatureKey, MaxFeature[T](n),
		)
	}
	return n, nil
}

// Unmarshal parses data as JSON and decodes it with Decode.
func Unmarshal[T Number](data []byte, names FeatureIndexer, opts ...DecodeOption) (Node[T], error) {
	var p fastjson.Parser
	doc, err := p.ParseBytes(data)
	if err != nil {
		return nil, errors.NewFormatError("", "", "invalid JSON: "+err.Error())
	}
	return Decode[T](doc, names, opts...)
}

// DecodeEnsemble decodes a JSON array of tree documents, keeping their order.
// Errors report the failing member's position in their path (e.g. "/3/left").
func DecodeEnsemble[T Number](doc *fastjson.Value, names FeatureIndexer, opts ...DecodeOption) ([]Node[T], error) {
	cfg := newDecodeConfig(opts)
	if doc == nil || doc.Type() != fastjson.TypeArray {
		return nil, errors.NewFormatError("", "", "ensemble must be an array of trees")
	}
	items, _ := doc.Array()

	trees := make([]Node[T], 0, len(items))
	for i, item := range items {
		tree, err := decodeNode[T](item, names, "/"+strconv.Itoa(i), cfg)
		if err != nil {
			logDecodeError(cfg.logger, err, log.TreeIndexKey, i)
			return nil, err
		}
		trees = append(trees, tree)
	}

	cfg.logger.Debug("ensemble decoded", log.TreesKey, len(trees))
	return trees, nil
}

// UnmarshalEnsemble parses data as JSON and decodes it with DecodeEnsemble.
func UnmarshalEnsemble[T Number](data []byte, names FeatureIndexer, opts ...DecodeOption) ([]Node[T], error) {
	var p fastjson.Parser
	doc, err := p.ParseBytes(data)
	if err != nil {
		return nil, errors.NewFormatError("", "", "invalid JSON: "+err.Error())
	}
	return DecodeEnsemble[T](doc, names, opts...)
}

func decodeNode[T Number](doc *fastjson.Value, names FeatureIndexer, path string, cfg *decodeConfig) (Node[T], error) {
	if doc == nil || doc.Type() != fastjson.TypeObject {
		return nil, errors.NewFormatError(path, "", "node must be an object")
	}

	voteVal := doc.Get(fieldVote)
	if voteVal == nil {
		return nil, errors.NewFormatError(path, fieldVote, "is missing")
	}
	vote, err := voteVal.Float64()
	if err != nil {
		return nil, errors.NewFormatError(path, fieldVote, "must be a number")
	}

	// Absence of "feature" is what makes a leaf.
	featureVal := doc.Get(fieldFeature)
	if featureVal == nil {
		return &Leaf[T]{Vote: vote}, nil
	}

	nameBytes, err := featureVal.StringBytes()
	if err != nil {
		return nil, errors.NewFormatError(path, fieldFeature, "must be a string")
	}
	name := string(nameBytes)

	index := names.FeatureIndex(name)
	if index < 0 {
		return nil, errors.NewUnresolvedFeatureError(path, name)
	}
	if cfg.driftWarnings {
		if indexVal := doc.Get(fieldIndex); indexVal != nil {
			// Float64 so that indices written as 1.0 are compared too.
			if docIndex, err := indexVal.Float64(); err == nil && docIndex != float64(index) {
				errors.Warn(errors.NewFeatureDriftWarning(path, name, int(docIndex), index))
			}
		}
	}

	valueVal := doc.Get(fieldValue)
	if valueVal == nil {
		return nil, errors.NewFormatError(path, fieldValue, "is missing")
	}
	threshold, err := decodeThreshold[T](valueVal)
	if err != nil {
		return nil, errors.NewFormatError(path, fieldValue, "must be a number")
	}

	left, err := decodeChild[T](doc, fieldLeft, names, path, cfg)
	if err != nil {
		return nil, err
	}
	right, err := decodeChild[T](doc, fieldRight, names, path, cfg)
	if err != nil {
		return nil, err
	}

	return &Decision[T]{
		Feature:   index,
		Threshold: threshold,
		Vote:      vote,
		Left:      left,
		Right:     right,
	}, nil
}

func decodeChild[T Number](doc *fastjson.Value, field string, names FeatureIndexer, path string, cfg *decodeConfig) (Node[T], error) {
	child := doc.Get(field)
	if child == nil {
		return nil, errors.NewFormatError(path, field, "is missing")
	}
	if child.Type() != fastjson.TypeObject {
		return nil, errors.NewFormatError(path, field, "must be an object")
	}
	return decodeNode[T](child, names, path+"/"+field, cfg)
}

// decodeThreshold accepts integer and floating literals alike.
func decodeThreshold[T Number](v *fastjson.Value) (T, error) {
	if i, err := v.Int64(); err == nil {
		return T(i), nil
	}
	f, err := v.Float64()
	if err != nil {
		return 0, err
	}
	return T(f), nil
}

// logDecodeError reports fatal errors at error level. A FormatError is
// returned to the caller, so it is only logged at debug level.
func logDecodeError(logger log.Logger, err error, fields ...any) {
	if errors.IsFatal(err) {
		logger.Error("decode failed", append([]any{err, log.ErrorCodeKey, log.ErrorUnresolvedFeature}, fields...)...)
		return
	}
	logger.Debug("decode failed", append([]any{
		log.ErrAttrKey, err.Error(),
		log.ErrorCodeKey, log.ErrorMalformedDocument,
	}, fields...)...)
}

// Encode converts the tree rooted at n into its document form, allocating
// values from a. Leaves encode as {"index": -1, "vote": v}; decision nodes
// carry index, value, left, right, vote and the feature name from names.
func Encode[T Number](a *fastjson.Arena, n Node[T], names FeatureNamer) *fastjson.Value {
	switch v := n.(type) {
	case *Leaf[T]:
		o := a.NewObject()
		o.Set(fieldIndex, a.NewNumberInt(leafIndex))
		o.Set(fieldVote, a.NewNumberFloat64(v.Vote))
		return o
	case *Decision[T]:
		o := a.NewObject()
		o.Set(fieldIndex, a.NewNumberInt(v.Feature))
		o.Set(fieldValue, encodeThreshold(a, v.Threshold))
		o.Set(fieldLeft, Encode[T](a, v.Left, names))
		o.Set(fieldRight, Encode[T](a, v.Right, names))
		o.Set(fieldVote, a.NewNumberFloat64(v.Vote))
		o.Set(fieldFeature, a.NewString(names.FeatureName(v.Feature)))
		return o
	default:
		panic(fmt.Sprintf("boosting: unknown node type %T", n))
	}
}

// Marshal encodes n and returns its JSON bytes.
func Marshal[T Number](n Node[T], names FeatureNamer) []byte {
	var a fastjson.Arena
	return Encode[T](&a, n, names).MarshalTo(nil)
}

// EncodeEnsemble encodes trees as a JSON array in their original order.
func EncodeEnsemble[T Number](a *fastjson.Arena, trees []Node[T], names FeatureNamer) *fastjson.Value {
	arr := a.NewArray()
	for i, tree := range trees {
		arr.SetArrayItem(i, Encode[T](a, tree, names))
	}
	return arr
}

// MarshalEnsemble encodes trees and returns the JSON bytes.
func MarshalEnsemble[T Number](trees []Node[T], names FeatureNamer) []byte {
	var a fastjson.Arena
	return EncodeEnsemble[T](&a, trees, names).MarshalTo(nil)
}

// encodeThreshold writes integral element types as JSON integers.
func encodeThreshold[T Number](a *fastjson.Arena, t T) *fastjson.Value {
	if isIntegral[T]() {
		return a.NewNumberString(strconv.FormatInt(int64(t), 10))
	}
	return a.NewNumberFloat64(float64(t))
}

func isIntegral[T Number]() bool {
	var one T = 1
	return one/2 == 0
}
