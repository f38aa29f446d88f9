package vulndb

import "strings"

// Technology is one detected component. Multiple detectors contribute
// observations for the same name; the inventory merges them.
type Technology struct {
	Name        string
	Version     string
	Category    string
	DetectedVia string
}

// Inventory accumulates technology detections across detectors. Merge
// rule: first version wins, missing-version entries get filled in, and a
// known version is never overwritten with emptiness.
type Inventory struct {
	order []string
	byKey map[string]*Technology
}

func NewInventory() *Inventory {
	return &Inventory{byKey: make(map[string]*Technology)}
}

func (inv *Inventory) Add(t Technology) {
	key := strings.ToLower(strings.TrimSpace(t.Name))
	if key == "" {
		return
	}

	existing, ok := inv.byKey[key]
	if !ok {
		copied := t
		inv.byKey[key] = &copied
		inv.order = append(inv.order, key)
		return
	}

	if existing.Version == "" && t.Version != "" {
		existing.Version = t.Version
		existing.DetectedVia = t.DetectedVia
	}
	if existing.Category == "" {
		existing.Category = t.Category
	}
}

// List returns the merged technologies in first-seen order.
func (inv *Inventory) List() []Technology {
	out := make([]Technology, 0, len(inv.order))
	for _, key := range inv.order {
		out = append(out, *inv.byKey[key])
	}
	return out
}
