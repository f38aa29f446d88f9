package vulndb

import (
	"math"
	"strings"
)

// The live database reports severity as CVSS vector strings, not numbers:
// severity[].score holds e.g. "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H".
// This file computes the base score from such a vector. Only the base
// metric group is read; temporal and environmental metrics are ignored.

// cvssBaseScore computes the base score for a v2 or v3.x vector. The
// second return is false for malformed vectors and for versions this
// scanner does not score.
func cvssBaseScore(vector string) (float64, bool) {
	switch {
	case strings.HasPrefix(vector, "CVSS:3.0/"), strings.HasPrefix(vector, "CVSS:3.1/"):
		return cvss3BaseScore(vector[len("CVSS:3.0/"):])
	case strings.HasPrefix(vector, "CVSS:2.0/"):
		return cvss2BaseScore(strings.TrimPrefix(vector, "CVSS:2.0/"))
	case strings.HasPrefix(vector, "AV:"):
		// v2 vectors commonly appear without a version prefix.
		return cvss2BaseScore(vector)
	}
	return 0, false
}

func vectorMetrics(s string) map[string]string {
	metrics := make(map[string]string)
	for _, part := range strings.Split(s, "/") {
		if k, v, ok := strings.Cut(part, ":"); ok {
			metrics[k] = v
		}
	}
	return metrics
}

func pick(metrics map[string]string, key string, table map[string]float64) (float64, bool) {
	w, ok := table[metrics[key]]
	return w, ok
}

var cvss3Impact = map[string]float64{"H": 0.56, "L": 0.22, "N": 0}

func cvss3BaseScore(s string) (float64, bool) {
	m := vectorMetrics(s)
	scopeChanged := m["S"] == "C"

	prTable := map[string]float64{"N": 0.85, "L": 0.62, "H": 0.27}
	if scopeChanged {
		prTable = map[string]float64{"N": 0.85, "L": 0.68, "H": 0.5}
	}

	av, ok1 := pick(m, "AV", map[string]float64{"N": 0.85, "A": 0.62, "L": 0.55, "P": 0.2})
	ac, ok2 := pick(m, "AC", map[string]float64{"L": 0.77, "H": 0.44})
	pr, ok3 := pick(m, "PR", prTable)
	ui, ok4 := pick(m, "UI", map[string]float64{"N": 0.85, "R": 0.62})
	c, ok5 := pick(m, "C", cvss3Impact)
	i, ok6 := pick(m, "I", cvss3Impact)
	a, ok7 := pick(m, "A", cvss3Impact)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) || (m["S"] != "U" && m["S"] != "C") {
		return 0, false
	}

	iss := 1 - (1-c)*(1-i)*(1-a)
	var impact float64
	if scopeChanged {
		impact = 7.52*(iss-0.029) - 3.25*math.Pow(iss-0.02, 15)
	} else {
		impact = 6.42 * iss
	}
	if impact <= 0 {
		return 0, true
	}

	exploitability := 8.22 * av * ac * pr * ui
	score := impact + exploitability
	if scopeChanged {
		score *= 1.08
	}
	return roundUpTenth(math.Min(score, 10)), true
}

// roundUpTenth is the v3.1 Roundup function: the smallest value with one
// decimal place that is equal to or higher than the input, computed over
// a fixed-point intermediate so 8.6 does not round up to 8.7.
func roundUpTenth(x float64) float64 {
	n := int(math.Round(x * 100000))
	if n%10000 == 0 {
		return float64(n) / 100000
	}
	return (math.Floor(float64(n)/10000) + 1) / 10
}

var cvss2Impact = map[string]float64{"N": 0, "P": 0.275, "C": 0.660}

func cvss2BaseScore(s string) (float64, bool) {
	m := vectorMetrics(s)

	av, ok1 := pick(m, "AV", map[string]float64{"L": 0.395, "A": 0.646, "N": 1.0})
	ac, ok2 := pick(m, "AC", map[string]float64{"H": 0.35, "M": 0.61, "L": 0.71})
	au, ok3 := pick(m, "Au", map[string]float64{"M": 0.45, "S": 0.56, "N": 0.704})
	c, ok4 := pick(m, "C", cvss2Impact)
	i, ok5 := pick(m, "I", cvss2Impact)
	a, ok6 := pick(m, "A", cvss2Impact)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return 0, false
	}

	impact := 10.41 * (1 - (1-c)*(1-i)*(1-a))
	exploitability := 20 * av * ac * au
	fImpact := 1.176
	if impact == 0 {
		fImpact = 0
	}
	return math.Round((0.6*impact+0.4*exploitability-1.5)*fImpact*10) / 10, true
}
