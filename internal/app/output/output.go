// Package output renders a scan report for the console or as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/MOYARU/posture/internal/app/ui"
	"github.com/MOYARU/posture/internal/report"
)

// PrintJSON writes the raw report to stdout.
func PrintJSON(rep *report.ScanReport) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// PrintReport renders the human-readable console report: score banner,
// findings ordered by severity, and any skipped-family notices.
func PrintReport(rep *report.ScanReport) {
	fmt.Printf("\n%sTarget:%s %s\n", ui.ColorWhite, ui.ColorReset, rep.URL)
	fmt.Printf("%sScore:%s  %s%d/100%s\n", ui.ColorWhite, ui.ColorReset, scoreColor(rep.Score), rep.Score, ui.ColorReset)

	findings := make([]report.Finding, len(rep.Findings))
	copy(findings, rep.Findings)
	sort.SliceStable(findings, func(i, j int) bool {
		wi, wj := findings[i].Severity.Weight(), findings[j].Severity.Weight()
		if wi == wj {
			if findings[i].Category == findings[j].Category {
				return findings[i].Title < findings[j].Title
			}
			return findings[i].Category < findings[j].Category
		}
		return wi > wj
	})

	fmt.Printf("\n%sFindings (%d):%s\n", ui.ColorWhite, len(findings), ui.ColorReset)
	for _, f := range findings {
		printFinding(f)
	}

	if len(rep.Errors) > 0 {
		fmt.Printf("\n%sScan errors:%s\n", ui.ColorYellow, ui.ColorReset)
		for _, e := range rep.Errors {
			fmt.Printf("%s - %s%s\n", ui.ColorGray, e, ui.ColorReset)
		}
	}
	fmt.Println()
}

func printFinding(f report.Finding) {
	fmt.Printf("\n%s[%s]%s", severityColor(f.Severity), f.Severity, ui.ColorReset)
	if f.Category != "" {
		fmt.Printf(" (%s)", f.Category)
	}
	fmt.Printf(" %s\n", f.Title)
	if f.Message != "" {
		fmt.Printf("%s - %s%s\n", ui.ColorGray, f.Message, ui.ColorReset)
	}
	if f.Evidence != "" {
		fmt.Printf("%s - Evidence: %s%s\n", ui.ColorGray, f.Evidence, ui.ColorReset)
	}
	if f.Fix != "" {
		fmt.Printf("%s - Fix: %s%s\n", ui.ColorGray, f.Fix, ui.ColorReset)
	}
	if f.IsPotentiallyFalsePositive {
		fmt.Printf("%s - Note: this finding may be a false positive%s\n", ui.ColorGray, ui.ColorReset)
	}
}

func severityColor(s report.Severity) string {
	switch s {
	case report.SeverityCritical:
		return ui.ColorCritical
	case report.SeverityHigh:
		return ui.ColorHigh
	case report.SeverityMedium:
		return ui.ColorMedium
	case report.SeverityLow:
		return ui.ColorLow
	case report.SeverityInfo:
		return ui.ColorInfo
	default:
		return ui.ColorWhite
	}
}

func scoreColor(score int) string {
	switch {
	case score >= 90:
		return ui.ColorGreen
	case score >= 70:
		return ui.ColorYellow
	default:
		return ui.ColorRed
	}
}
