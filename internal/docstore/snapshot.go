package docstore

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// Snapshot is an immutable view of the subtree at Path.
type Snapshot struct {
	Path string
	raw  json.RawMessage
}

func NewSnapshot(path string, raw json.RawMessage) Snapshot {
	return Snapshot{Path: path, raw: raw}
}

func (s Snapshot) Key() string {
	return Base(s.Path)
}

func (s Snapshot) Exists() bool {
	return len(s.raw) > 0
}

// Raw returns the JSON encoding of the subtree, nil when absent.
func (s Snapshot) Raw() json.RawMessage {
	return s.raw
}

// Decode unmarshals the subtree into v. An absent snapshot leaves v untouched.
func (s Snapshot) Decode(v any) error {
	if !s.Exists() {
		return nil
	}
	if err := json.Unmarshal(s.raw, v); err != nil {
		return errors.Wrapf(err, "docstore: decode %q", s.Path)
	}
	return nil
}

// Children returns the direct children of the snapshot, sorted by key.
func (s Snapshot) Children() ([]Snapshot, error) {
	if !s.Exists() {
		return nil, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(s.raw, &m); err != nil {
		return nil, errors.Wrapf(err, "docstore: %q is not a collection", s.Path)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Snapshot, 0, len(keys))
	for _, k := range keys {
		out = append(out, Snapshot{Path: Join(s.Path, k), raw: m[k]})
	}
	return out, nil
}

// Decode children of s into a keyed map.
func DecodeChildren[T any](s Snapshot) (map[string]T, error) {
	children, err := s.Children()
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(children))
	for _, c := range children {
		var v T
		if err := c.Decode(&v); err != nil {
			return nil, err
		}
		out[c.Key()] = v
	}
	return out, nil
}

// SortedKeys returns the keys of m in ascending order. Generated keys are
// time-ordered, so this is also insertion order.
func SortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
