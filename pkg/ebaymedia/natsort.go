package ebaymedia

import "strings"

// NaturalCompare orders file names the way a person reads them:
// case-insensitive, with digit runs compared by numeric value, so
// "img2.jpg" sorts before "img10.jpg". Names that differ only in case
// or in leading zeros tie-break byte-wise, making the order total.
// Returns -1, 0 or 1.
func NaturalCompare(a, b string) int {
	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		if isDigit(a[ai]) && isDigit(b[bi]) {
			aj, bj := ai, bi
			for aj < len(a) && isDigit(a[aj]) {
				aj++
			}
			for bj < len(b) && isDigit(b[bj]) {
				bj++
			}
			if c := compareDigitRuns(a[ai:aj], b[bi:bj]); c != 0 {
				return c
			}
			ai, bi = aj, bj
			continue
		}
		ac, bc := lowerByte(a[ai]), lowerByte(b[bi])
		if ac != bc {
			if ac < bc {
				return -1
			}
			return 1
		}
		ai++
		bi++
	}
	switch {
	case ai < len(a):
		return 1
	case bi < len(b):
		return -1
	}
	return strings.Compare(a, b)
}

// NaturalLess reports whether a sorts before b under NaturalCompare.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// compareDigitRuns compares two digit substrings by numeric value
// without parsing: strip leading zeros, then the longer run is larger,
// equal lengths compare lexicographically.
func compareDigitRuns(a, b string) int {
	for len(a) > 1 && a[0] == '0' {
		a = a[1:]
	}
	for len(b) > 1 && b[0] == '0' {
		b = b[1:]
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
