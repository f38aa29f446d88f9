package vulndb

import (
	"strings"
)

// CompareVersions compares dotted version strings component-wise.
// Non-numeric components count as 0 and a shorter version is padded with
// zeros, so "1.2" == "1.2.0". Returns -1, 0 or 1.
func CompareVersions(v1, v2 string) int {
	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	maxLen := len(parts1)
	if len(parts2) > maxLen {
		maxLen = len(parts2)
	}

	for i := 0; i < maxLen; i++ {
		var n1, n2 int
		if i < len(parts1) {
			n1 = leadingInt(parts1[i])
		}
		if i < len(parts2) {
			n2 = leadingInt(parts2[i])
		}
		if n1 < n2 {
			return -1
		}
		if n1 > n2 {
			return 1
		}
	}
	return 0
}

// IsBelow reports whether version is strictly below threshold. Equal
// versions are not below: the threshold is the first fixed version.
func IsBelow(version, threshold string) bool {
	return CompareVersions(version, threshold) < 0
}

func leadingInt(s string) int {
	n := 0
	seen := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		seen = true
		n = n*10 + int(r-'0')
		if n > 1<<30 {
			break
		}
	}
	if !seen {
		return 0
	}
	return n
}
