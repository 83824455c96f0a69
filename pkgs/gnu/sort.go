// Package gnu implements the GNU/Debian version ordering used by
// sort -V and dpkg, which is what toolchain --version strings follow.
package gnu

// Compare orders two version strings. It returns a negative number if a
// sorts before b, zero if they are equal and a positive number otherwise.
//
// Strings are compared as alternating non-digit and digit runs. Non-digit
// runs compare character by character with letters before other symbols
// and '~' before everything, including the end of the run. Digit runs
// compare numerically.
func Compare(a, b string) int {
	for a != "" || b != "" {
		var pa, pb string
		pa, a = span(a, false)
		pb, b = span(b, false)
		if c := compareText(pa, pb); c != 0 {
			return c
		}
		pa, a = span(a, true)
		pb, b = span(b, true)
		if c := compareNumber(pa, pb); c != 0 {
			return c
		}
	}
	return 0
}

// AtLeast reports whether have sorts at or after want.
func AtLeast(have, want string) bool {
	return Compare(have, want) >= 0
}

// span splits s into its leading run of digits (digits=true) or
// non-digits (digits=false) and the remainder.
func span(s string, digits bool) (run, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func compareText(a, b string) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		ca, cb := weight(a, i), weight(b, i)
		if ca != cb {
			return ca - cb
		}
	}
	return 0
}

func compareNumber(a, b string) int {
	a, b = trimZeros(a), trimZeros(b)
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return 0
}

func trimZeros(s string) string {
	for len(s) > 0 && s[0] == '0' {
		s = s[1:]
	}
	return s
}

// weight returns the sort weight of s[i]; past the end of s the weight is
// zero, so '~' (negative) sorts before an exhausted run.
func weight(s string, i int) int {
	if i >= len(s) {
		return 0
	}
	c := s[i]
	switch {
	case isAlpha(c):
		return int(c)
	case c == '~':
		return -1
	default:
		return int(c) + 256
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
