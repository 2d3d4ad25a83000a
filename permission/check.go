package permission

import "strings"

// Check reports whether granted satisfies code.
//
// Rules, in order: an empty grant list denies; a bare "*" allows; an exact
// match allows; otherwise each prefix from the longest down to the first
// segment is tried as "<prefix>:*".
func Check(granted []string, code string) bool {
	if len(granted) == 0 {
		return false
	}
	return NewSet(granted).Allows(code)
}

// Set is an indexed, immutable snapshot of granted permission codes.
//
// The zero value denies everything. A Set is safe for concurrent use.
type Set struct {
	codes map[string]struct{}
}

// NewSet indexes granted. Empty entries are ignored.
func NewSet(granted []string) Set {
	codes := make(map[string]struct{}, len(granted))
	for _, c := range granted {
		if c == "" {
			continue
		}
		codes[c] = struct{}{}
	}
	return Set{codes: codes}
}

// Len returns the number of distinct granted codes.
func (s Set) Len() int {
	return len(s.codes)
}

// Has reports whether code was granted verbatim.
func (s Set) Has(code string) bool {
	_, ok := s.codes[code]
	return ok
}

// Allows applies the wildcard rules of [Check] to code.
func (s Set) Allows(code string) bool {
	if len(s.codes) == 0 {
		return false
	}
	if s.Has(Wildcard) {
		return true
	}
	if s.Has(code) {
		return true
	}

	// system:user:list -> system:user:*, system:*
	prefix := code
	for {
		i := strings.LastIndex(prefix, Separator)
		if i < 0 {
			return false
		}
		prefix = prefix[:i]
		if s.Has(prefix + Separator + Wildcard) {
			return true
		}
	}
}

// AllowsPath reports whether the route at path is permitted.
func (s Set) AllowsPath(path string) bool {
	return s.Allows(PathToCode(path))
}

// Codes returns the granted codes in no particular order.
func (s Set) Codes() []string {
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	return out
}
