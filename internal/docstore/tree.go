package docstore

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Every backend persists the tree as flat leaves: path -> JSON scalar.
// Objects become nested paths, arrays become index keys, null and empty
// objects produce no leaves at all.

type leaves map[string]json.RawMessage

func flatten(root string, value any) (leaves, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(err, "docstore: encode value")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, errors.Wrap(err, "docstore: decode value")
	}

	out := leaves{}
	if err := walk(root, generic, out); err != nil {
		return nil, err
	}
	return out, nil
}

func walk(p string, v any, out leaves) error {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		for k, child := range t {
			if err := ValidateSegment(k); err != nil {
				return err
			}
			if err := walk(Join(p, k), child, out); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, child := range t {
			if err := walk(Join(p, strconv.Itoa(i)), child, out); err != nil {
				return err
			}
		}
		return nil
	default:
		if p == "" {
			return errors.Wrap(ErrInvalidPath, "scalar cannot be stored at the root")
		}
		raw, err := json.Marshal(t)
		if err != nil {
			return errors.Wrap(err, "docstore: encode leaf")
		}
		out[p] = raw
		return nil
	}
}

// inflate rebuilds the value at root from the leaves at or below it.
// It returns nil when no leaf exists.
func inflate(root string, in leaves) (json.RawMessage, error) {
	if len(in) == 0 {
		return nil, nil
	}
	if raw, ok := in[root]; ok && len(in) == 1 {
		return raw, nil
	}

	paths := make([]string, 0, len(in))
	for p := range in {
		paths = append(paths, p)
	}
	// Shorter paths first so a stale scalar is replaced by a deeper object.
	sort.Strings(paths)

	tree := map[string]any{}
	for _, p := range paths {
		if p == root {
			continue
		}
		rel := p
		if root != "" {
			rel = strings.TrimPrefix(p, root+"/")
		}
		segs := strings.Split(rel, "/")
		node := tree
		for _, seg := range segs[:len(segs)-1] {
			next, ok := node[seg].(map[string]any)
			if !ok {
				next = map[string]any{}
				node[seg] = next
			}
			node = next
		}
		last := segs[len(segs)-1]
		if _, isMap := node[last].(map[string]any); !isMap {
			node[last] = in[p]
		}
	}

	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, errors.Wrap(err, "docstore: encode snapshot")
	}
	return raw, nil
}

// write is one subtree replacement. A nil value deletes the subtree.
type write struct {
	path  string
	value any
}

// plan is the leaf-level effect of a batch of writes.
type plan struct {
	deletes []string
	puts    leaves
}

func (p plan) empty() bool {
	return len(p.deletes) == 0 && len(p.puts) == 0
}

// touched lists the write roots, used for change notifications.
func touched(ws []write) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.path)
	}
	return out
}

func encodeWrites(ws []write) (leaves, error) {
	puts := leaves{}
	for _, w := range ws {
		l, err := flatten(w.path, w.value)
		if err != nil {
			return nil, err
		}
		for k, v := range l {
			puts[k] = v
		}
	}
	return puts, nil
}

// buildPlan combines already encoded puts with the existing leaves found in
// the scope of each write (its subtree and its ancestors).
func buildPlan(ws []write, puts leaves, existing []string) plan {
	del := map[string]struct{}{}
	for _, e := range existing {
		for _, w := range ws {
			if e == w.path || isUnder(e, w.path) || isUnder(w.path, e) {
				del[e] = struct{}{}
				break
			}
		}
	}

	out := plan{puts: puts}
	for e := range del {
		if _, overwritten := puts[e]; !overwritten {
			out.deletes = append(out.deletes, e)
		}
	}
	sort.Strings(out.deletes)
	return out
}

// updateWrites expands a field map into writes relative to base.
func updateWrites(base string, fields map[string]any) ([]write, error) {
	ws := make([]write, 0, len(fields))
	for k, v := range fields {
		rel, err := Clean(k)
		if err != nil {
			return nil, err
		}
		if rel == "" {
			return nil, errors.Wrap(ErrInvalidPath, "empty update field")
		}
		ws = append(ws, write{path: Join(base, rel), value: v})
	}
	sort.Slice(ws, func(i, j int) bool { return ws[i].path < ws[j].path })
	return ws, nil
}
