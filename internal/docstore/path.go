package docstore

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidPath is returned for paths with empty or illegal segments.
var ErrInvalidPath = errors.New("docstore: invalid path")

const forbiddenChars = "/.#$[]*?\\"

// ValidateSegment checks a single key. Glob metacharacters are refused so a
// subtree can always be matched with a plain prefix pattern.
func ValidateSegment(seg string) error {
	if seg == "" {
		return errors.Wrap(ErrInvalidPath, "empty segment")
	}
	if strings.ContainsAny(seg, forbiddenChars) {
		return errors.Wrapf(ErrInvalidPath, "segment %q contains one of %q", seg, forbiddenChars)
	}
	for _, r := range seg {
		if r < 0x20 || r == 0x7f {
			return errors.Wrapf(ErrInvalidPath, "segment %q contains a control character", seg)
		}
	}
	return nil
}

// Clean normalises p and validates every segment. The root is "".
func Clean(p string) (string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", nil
	}
	for _, seg := range strings.Split(p, "/") {
		if err := ValidateSegment(seg); err != nil {
			return "", err
		}
	}
	return p, nil
}

// Join concatenates segments without validating them.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Base returns the last segment of p.
func Base(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

func isUnder(p, root string) bool {
	if root == "" {
		return p != ""
	}
	return strings.HasPrefix(p, root+"/")
}

// related reports whether a change at one path can alter the snapshot at the other.
func related(a, b string) bool {
	return a == b || isUnder(a, b) || isUnder(b, a)
}

// ancestors lists every proper prefix of p, nearest last. The root is excluded.
func ancestors(p string) []string {
	var out []string
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			out = append(out, p[:i])
		}
	}
	return out
}
