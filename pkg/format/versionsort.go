package format

import "strings"

// versionCompare orders strings the way version numbers read: runs of
// digits compare by value, so `v2` sorts before `v10`. A run with leading
// zeros compares as the digits of a fraction, so `a001` < `a01` < `a1`.
// Strings equal under these rules fall back to length, then to plain byte
// order.
func versionCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if !isDigit(ca) || !isDigit(cb) {
			if ca != cb {
				return cmpByte(ca, cb)
			}
			i++
			j++
			continue
		}
		ra := digitRun(a, i)
		rb := digitRun(b, j)
		if c := compareDigitRuns(ra, rb); c != 0 {
			return c
		}
		i += len(ra)
		j += len(rb)
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func compareDigitRuns(a, b string) int {
	fracA := len(a) > 1 && a[0] == '0'
	fracB := len(b) > 1 && b[0] == '0'
	if fracA || fracB {
		// Fractions: digit by digit, a shorter prefix first.
		return strings.Compare(a, b)
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func digitRun(s string, i int) string {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	return s[i:j]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func cmpByte(a, b byte) int {
	if a < b {
		return -1
	}
	return 1
}
