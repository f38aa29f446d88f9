package report

import "time"

type Severity string
type Confidence string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"

	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Weight orders severities for sorting and score deduction lookups.
// Critical=4 ... Info=0, unknown=-1.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	case SeverityInfo:
		return 0
	default:
		return -1
	}
}

func (s Severity) IsValid() bool {
	return s.Weight() >= 0
}

type Finding struct {
	ID                         string     `json:"id"`
	Category                   string     `json:"category,omitempty"`
	Severity                   Severity   `json:"severity"`
	Confidence                 Confidence `json:"confidence,omitempty"`
	Title                      string     `json:"title"`
	Message                    string     `json:"message"`
	Evidence                   string     `json:"evidence,omitempty"`
	Fix                        string     `json:"fix,omitempty"`
	IsPotentiallyFalsePositive bool       `json:"is_potentially_false_positive,omitempty"`
}

// ScanReport is the top-level result of one scan invocation.
type ScanReport struct {
	ScanID      string    `json:"scanId"`
	ScannerType string    `json:"scannerType"`
	URL         string    `json:"url"`
	Score       int       `json:"score"`
	Findings    []Finding `json:"findings"`
	ScannedAt   time.Time `json:"scannedAt"`
	Errors      []string  `json:"errors,omitempty"`
}
