package caps

import (
	"fmt"
	"strings"
)

// DefaultNamespace is used for names parsed without a namespace.
const DefaultNamespace = "minecraft"

// Name identifies a capability, for example "caps:energy".
type Name struct {
	Namespace string
	Path      string
}

// ParseName parses a namespace:path identifier. A missing namespace defaults
// to DefaultNamespace.
func ParseName(s string) (Name, error) {
	ns, path, found := strings.Cut(s, ":")
	if !found {
		ns, path = DefaultNamespace, s
	}
	n := Name{Namespace: ns, Path: path}
	if !validName(ns, false) || !validName(path, true) {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, s)
	}
	return n, nil
}

// String returns the name in namespace:path form.
func (n Name) String() string {
	return n.Namespace + ":" + n.Path
}

// validName reports whether s only contains [a-z0-9_.-], plus '/' for paths.
func validName(s string, path bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
		case r == '/' && path:
		default:
			return false
		}
	}
	return true
}
