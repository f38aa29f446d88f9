// Package scanners defines the scanner family contract. A family is one
// self-contained posture check (secrets, exposure, components, headers)
// that takes a prepared scan context and returns findings.
package scanners

import (
	"github.com/MOYARU/posture/internal/report"
	context "github.com/MOYARU/posture/internal/scanners/context"
)

type Category string

const (
	CategorySecrets         Category = "CAT_SECRETS"
	CategoryFileExposure    Category = "CAT_FILE_EXPOSURE"
	CategoryComponents      Category = "CAT_VULN_COMPONENTS"
	CategorySecurityHeaders Category = "CAT_SECURITY_HEADERS"
)

type Family struct {
	ID          string
	Category    Category
	Title       string
	Description string
	Run         func(*context.Context) ([]report.Finding, error)
}
