package docstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"/", "", false},
		{"students/E1", "students/E1", false},
		{"/students/E1/", "students/E1", false},
		{"students//E1", "", true},
		{"students/a.b", "", true},
		{"students/a#b", "", true},
		{"students/a*", "", true},
		{"students/[x]", "", true},
		{"students/a?b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Clean(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelated(t *testing.T) {
	assert.True(t, related("students", "students/E1/notifications/k"))
	assert.True(t, related("students/E1/notifications/k", "students"))
	assert.True(t, related("", "messages/T1"))
	assert.True(t, related("messages/T1", "messages/T1"))
	assert.False(t, related("messages/T1", "messages/T10"))
	assert.False(t, related("students/E1", "teachers/E1"))
}

func TestAncestors(t *testing.T) {
	assert.Equal(t, []string{"a", "a/b"}, ancestors("a/b/c"))
	assert.Empty(t, ancestors("a"))
}

func TestFlattenInflateRoundTrip(t *testing.T) {
	in := map[string]any{
		"email":    "alice@example.com",
		"age":      21,
		"active":   true,
		"nested":   map[string]any{"x": "y"},
		"empty":    map[string]any{},
		"nothing":  nil,
		"sequence": []string{"a", "b"},
	}

	l, err := flatten("students/E1", in)
	require.NoError(t, err)

	assert.JSONEq(t, `"alice@example.com"`, string(l["students/E1/email"]))
	assert.JSONEq(t, `21`, string(l["students/E1/age"]))
	assert.JSONEq(t, `"y"`, string(l["students/E1/nested/x"]))
	assert.JSONEq(t, `"b"`, string(l["students/E1/sequence/1"]))
	assert.NotContains(t, l, "students/E1/empty")
	assert.NotContains(t, l, "students/E1/nothing")

	raw, err := inflate("students/E1", l)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"email":"alice@example.com","age":21,"active":true,
		"nested":{"x":"y"},"sequence":{"0":"a","1":"b"}
	}`, string(raw))
}

func TestFlattenRejectsBadKeys(t *testing.T) {
	_, err := flatten("teachers", map[string]any{"a.b": 1})
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = flatten("", "scalar")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestInflateScalar(t *testing.T) {
	raw, err := inflate("a/b", leaves{"a/b": json.RawMessage(`"v"`)})
	require.NoError(t, err)
	assert.JSONEq(t, `"v"`, string(raw))

	raw, err = inflate("a/b", leaves{})
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestBuildPlanDeletesSubtreeAndAncestors(t *testing.T) {
	ws := []write{{path: "a/b", value: map[string]any{"c": 1}}}
	puts, err := encodeWrites(ws)
	require.NoError(t, err)

	pl := buildPlan(ws, puts, []string{"a", "a/b/old", "a/b/c", "a/bc", "z"})

	assert.Equal(t, []string{"a", "a/b/old"}, pl.deletes)
	assert.Contains(t, pl.puts, "a/b/c")
}

func TestSnapshotChildren(t *testing.T) {
	snap := NewSnapshot("messages/T1", json.RawMessage(`{"k2":{"message":"b"},"k1":{"message":"a"}}`))

	children, err := snap.Children()
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "k1", children[0].Key())
	assert.Equal(t, "messages/T1/k1", children[0].Path)

	type msg struct {
		Message string `json:"message"`
	}
	m, err := DecodeChildren[msg](snap)
	require.NoError(t, err)
	assert.Equal(t, "b", m["k2"].Message)
	assert.Equal(t, []string{"k1", "k2"}, SortedKeys(m))

	empty, err := DecodeChildren[msg](NewSnapshot("x", nil))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewKeyOrdered(t *testing.T) {
	prev := NewKey()
	assert.Len(t, prev, 32)
	for i := 0; i < 1000; i++ {
		k := NewKey()
		assert.Greater(t, k, prev)
		prev = k
	}
}
