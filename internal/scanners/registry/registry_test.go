package registry

import (
	"strings"
	"testing"
)

func TestSelectEmptyReturnsAll(t *testing.T) {
	families, err := Select(nil)
	if err != nil {
		t.Fatalf("Select(nil): %v", err)
	}
	if len(families) != len(DefaultFamilies()) {
		t.Fatalf("expected every family, got %d", len(families))
	}
}

func TestSelectFiltersByID(t *testing.T) {
	families, err := Select([]string{"SECRET_LEAKS", "SECURITY_HEADERS"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("expected 2 families, got %d", len(families))
	}
	for _, f := range families {
		if f.ID != "SECRET_LEAKS" && f.ID != "SECURITY_HEADERS" {
			t.Fatalf("unexpected family %s", f.ID)
		}
	}
}

func TestSelectIgnoresStrayUnknownIDs(t *testing.T) {
	families, err := Select([]string{"SECRET_LEAKS", "RETIRED_SCANNER"})
	if err != nil {
		t.Fatalf("a selector with at least one known family must not error: %v", err)
	}
	if len(families) != 1 || families[0].ID != "SECRET_LEAKS" {
		t.Fatalf("unexpected selection: %v", families)
	}
}

func TestSelectRejectsWhollyUnknownSelector(t *testing.T) {
	families, err := Select([]string{"TYPO"})
	if err == nil {
		t.Fatalf("a typo must not widen into a full scan, got %d families", len(families))
	}
	if !strings.Contains(err.Error(), "TYPO") {
		t.Fatalf("error should name the unknown id: %v", err)
	}
}
