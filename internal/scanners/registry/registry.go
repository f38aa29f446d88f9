// Package registry enumerates the scanner families shipped with the
// binary.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MOYARU/posture/internal/scanners"
	"github.com/MOYARU/posture/internal/scanners/components"
	"github.com/MOYARU/posture/internal/scanners/exposure"
	"github.com/MOYARU/posture/internal/scanners/headers"
	"github.com/MOYARU/posture/internal/scanners/secrets"
)

// DefaultFamilies returns every built-in scanner family.
func DefaultFamilies() []scanners.Family {
	return []scanners.Family{
		secrets.Family(),
		exposure.Family(),
		components.Family(),
		headers.Family(),
	}
}

// Select filters the default families by ID. An empty selector returns
// everything. A selector naming only unknown IDs is a caller error: a
// typo must not silently widen into a full scan of the target.
func Select(ids []string) ([]scanners.Family, error) {
	all := DefaultFamilies()
	if len(ids) == 0 {
		return all, nil
	}
	known := make(map[string]struct{}, len(all))
	for _, f := range all {
		known[f.ID] = struct{}{}
	}

	want := make(map[string]struct{}, len(ids))
	var unknown []string
	for _, id := range ids {
		if _, ok := known[id]; ok {
			want[id] = struct{}{}
		} else {
			unknown = append(unknown, id)
		}
	}
	if len(want) == 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown scanners: %s", strings.Join(unknown, ", "))
	}

	var out []scanners.Family
	for _, f := range all {
		if _, ok := want[f.ID]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}
