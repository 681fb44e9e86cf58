package vrange

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Compare compares two versions and returns -1, 0 or 1.
//
// Versions that are semver shaped once prefixed with "v" ("3.8",
// "1.14.0-rc1") are compared with semver rules. Anything else, such as the
// four component "3.45.1.0", falls back to the ordering of GNU "sort -V".
func Compare(a, b string) int {
	ca, cb := canonical(a), canonical(b)
	if ca != "" && cb != "" {
		return semver.Compare(ca, cb)
	}
	return gnuCompare(a, b)
}

// IsPrerelease reports whether v carries a semver pre-release suffix.
func IsPrerelease(v string) bool {
	c := canonical(v)
	return c != "" && semver.Prerelease(c) != ""
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// gnuCompare alternates between non-digit and digit runs. Non-digit runs
// compare character by character with letters before other symbols and '~'
// before everything, including the end of the string. Digit runs compare by
// numeric value.
func gnuCompare(a, b string) int {
	for a != "" || b != "" {
		var sa, sb string
		sa, a = cutRun(a, false)
		sb, b = cutRun(b, false)
		if c := compareText(sa, sb); c != 0 {
			return c
		}
		sa, a = cutRun(a, true)
		sb, b = cutRun(b, true)
		if c := compareNumber(sa, sb); c != 0 {
			return c
		}
	}
	return 0
}

func cutRun(s string, digits bool) (run, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func compareText(a, b string) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		var ca, cb byte
		if i < len(a) {
			ca = a[i]
		}
		if i < len(b) {
			cb = b[i]
		}
		if oa, ob := weight(ca), weight(cb); oa != ob {
			return sign(oa - ob)
		}
	}
	return 0
}

func compareNumber(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return sign(len(a) - len(b))
	}
	return strings.Compare(a, b)
}

func weight(c byte) int {
	switch {
	case c == 0:
		return 0
	case c == '~':
		return -1
	case isAlpha(c):
		return int(c)
	}
	return int(c) + 256
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
