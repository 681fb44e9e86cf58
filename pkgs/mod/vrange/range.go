// Package vrange implements version ranges of package references.
//
// A range is written in brackets, e.g. "[>=3.8]" or "[>=1.2 <2 || ^3.0]".
// Conditions separated by spaces must all hold; alternatives are separated
// by "||". Supported operators are >, >=, <, <=, = (the default), ~ (same
// major.minor) and ^ (same major). A reference without brackets pins one
// exact version.
package vrange

import (
	"fmt"
	"strconv"
	"strings"
)

type condition struct {
	op  string
	ver string
}

func (c condition) match(v string) bool {
	cmp := Compare(v, c.ver)
	switch c.op {
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case "*":
		return true
	}
	return cmp == 0
}

// Range is a parsed version range.
type Range struct {
	raw  string
	pin  bool
	alts [][]condition
}

var operators = []string{">=", "<=", ">", "<", "=", "~", "^"}

// Parse parses a version range or a pinned version.
func Parse(s string) (*Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("invalid version range: empty")
	}
	r := &Range{raw: s}
	if !strings.HasPrefix(s, "[") {
		if strings.ContainsAny(s, "[] |") {
			return nil, fmt.Errorf("invalid version %q", s)
		}
		r.pin = true
		r.alts = [][]condition{{{op: "=", ver: s}}}
		return r, nil
	}
	if !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("invalid version range %q: missing ']'", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, fmt.Errorf("invalid version range %q: empty", s)
	}
	for _, alt := range strings.Split(body, "||") {
		fields := strings.FieldsFunc(alt, func(c rune) bool {
			return c == ' ' || c == ','
		})
		if len(fields) == 0 {
			return nil, fmt.Errorf("invalid version range %q: empty alternative", s)
		}
		var conds []condition
		for _, f := range fields {
			cs, err := parseCondition(f)
			if err != nil {
				return nil, fmt.Errorf("invalid version range %q: %w", s, err)
			}
			conds = append(conds, cs...)
		}
		r.alts = append(r.alts, conds)
	}
	return r, nil
}

func parseCondition(f string) ([]condition, error) {
	if f == "*" {
		return []condition{{op: "*"}}, nil
	}
	op := "="
	for _, o := range operators {
		if strings.HasPrefix(f, o) {
			op = o
			f = f[len(o):]
			break
		}
	}
	if f == "" {
		return nil, fmt.Errorf("operator %q without version", op)
	}
	switch op {
	case "~":
		upper, err := bump(f, 1)
		if err != nil {
			return nil, err
		}
		return []condition{{">=", f}, {"<", upper}}, nil
	case "^":
		upper, err := bump(f, 0)
		if err != nil {
			return nil, err
		}
		return []condition{{">=", f}, {"<", upper}}, nil
	}
	return []condition{{op, f}}, nil
}

// bump increments the component at index idx and drops the ones after it.
// When v has fewer components, the last one is bumped instead.
func bump(v string, idx int) (string, error) {
	core, _, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if idx >= len(parts) {
		idx = len(parts) - 1
	}
	n, err := strconv.Atoi(parts[idx])
	if err != nil {
		return "", fmt.Errorf("bad version %q", v)
	}
	parts = append(parts[:idx], strconv.Itoa(n+1))
	return strings.Join(parts, "."), nil
}

// Contains reports whether v satisfies the range. Pre-release versions only
// satisfy pinned references.
func (r *Range) Contains(v string) bool {
	if !r.pin && IsPrerelease(v) {
		return false
	}
	for _, alt := range r.alts {
		ok := true
		for _, c := range alt {
			if !c.match(v) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Best returns the highest candidate satisfying the range.
func (r *Range) Best(candidates []string) (string, bool) {
	best, found := "", false
	for _, v := range candidates {
		if !r.Contains(v) {
			continue
		}
		if !found || Compare(v, best) > 0 {
			best, found = v, true
		}
	}
	return best, found
}

// IsPin reports whether the range pins a single version.
func (r *Range) IsPin() bool {
	return r.pin
}

func (r *Range) String() string {
	return r.raw
}
