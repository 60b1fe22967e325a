package boosting

import (
	"github.com/YuminosukeSato/gbtree/pkg/errors"
)

// FeatureIndexer resolves a feature name to its index in the feature vector.
// It returns a negative index for unknown names.
type FeatureIndexer interface {
	FeatureIndex(name string) int
}

// FeatureNamer maps a feature index back to its name.
type FeatureNamer interface {
	FeatureName(index int) string
}

// FeatureNames is a naming authority that works in both directions.
type FeatureNames interface {
	FeatureIndexer
	FeatureNamer
}

// FeatureMap is an immutable in-memory FeatureNames backed by an ordered
// list of names: the i-th name has index i. It is safe for concurrent use.
type FeatureMap struct {
	names []string
	index map[string]int
}

// NewFeatureMap creates a FeatureMap. Names must be non-empty and unique.
func NewFeatureMap(names ...string) (*FeatureMap, error) {
	m := &FeatureMap{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, errors.NewValidationError("names", "feature name must not be empty", i)
		}
		if _, dup := m.index[name]; dup {
			return nil, errors.NewValidationError("names", "duplicate feature name", name)
		}
		m.names[i] = name
		m.index[name] = i
	}
	return m, nil
}

// FeatureIndex implements FeatureIndexer.
func (m *FeatureMap) FeatureIndex(name string) int {
	if i, ok := m.index[name]; ok {
		return i
	}
	return -1
}

// FeatureName implements FeatureNamer. Out-of-range indices yield "".
func (m *FeatureMap) FeatureName(index int) string {
	if index < 0 || index >= len(m.names) {
		return ""
	}
	return m.names[index]
}

// Len returns the number of features.
func (m *FeatureMap) Len() int {
	return len(m.names)
}

// Names returns a copy of the feature names in index order.
func (m *FeatureMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}
