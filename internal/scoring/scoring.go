// Package scoring folds a finding list into one bounded 0-100 posture
// score. Deductions are policy, not math: only boundedness, determinism
// and severity ordering are contractual.
package scoring

import (
	"github.com/MOYARU/posture/internal/config"
	"github.com/MOYARU/posture/internal/report"
)

// uncategorized groups findings without a category under one shared cap.
const uncategorized = "GENERAL"

// Policy carries the per-severity deduction magnitudes and the per-category
// ceiling that keeps a single noisy detector from zeroing the score.
type Policy struct {
	Critical    int
	High        int
	Medium      int
	Low         int
	CategoryCap int
}

func DefaultPolicy() Policy {
	return PolicyFromConfig(config.Default().Score)
}

func PolicyFromConfig(sc config.ScoreConfig) Policy {
	return Policy{
		Critical:    sc.CriticalDeduction,
		High:        sc.HighDeduction,
		Medium:      sc.MediumDeduction,
		Low:         sc.LowDeduction,
		CategoryCap: sc.CategoryCap,
	}
}

func (p Policy) deduction(s report.Severity) int {
	switch s {
	case report.SeverityCritical:
		return p.Critical
	case report.SeverityHigh:
		return p.High
	case report.SeverityMedium:
		return p.Medium
	case report.SeverityLow:
		return p.Low
	default:
		return 0
	}
}

// Aggregate computes the final score: 100 minus the per-category-capped
// deduction sum, clamped to [0,100]. Pure function of the finding list;
// finding order never changes the result.
func Aggregate(findings []report.Finding, p Policy) int {
	perCategory := make(map[string]int)

	for _, f := range findings {
		d := p.deduction(f.Severity)
		if d == 0 {
			continue
		}
		cat := f.Category
		if cat == "" {
			cat = uncategorized
		}
		perCategory[cat] += d
	}

	total := 0
	for _, sum := range perCategory {
		if p.CategoryCap > 0 && sum > p.CategoryCap {
			sum = p.CategoryCap
		}
		total += sum
	}

	score := 100 - total
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
