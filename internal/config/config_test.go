package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Scan.BatchSize != 10 {
		t.Fatalf("default batch size = %d, want 10", cfg.Scan.BatchSize)
	}
	if cfg.Scan.BaselineTolerance <= 0 || cfg.Scan.BaselineTolerance >= 1 {
		t.Fatalf("baseline tolerance %f out of range", cfg.Scan.BaselineTolerance)
	}
	if cfg.Score.CategoryCap <= 0 {
		t.Fatal("category cap must be positive")
	}
	if cfg.Score.CriticalDeduction <= cfg.Score.HighDeduction ||
		cfg.Score.HighDeduction <= cfg.Score.MediumDeduction ||
		cfg.Score.MediumDeduction <= cfg.Score.LowDeduction {
		t.Fatal("deductions must be strictly severity-ordered")
	}
	if cfg.Server.ScannerKey != "" {
		t.Fatal("scanner key must default to unconfigured")
	}
	if cfg.VulnDB.MaxPerTech != 5 {
		t.Fatalf("vulndb per-tech cap = %d, want 5", cfg.VulnDB.MaxPerTech)
	}
}
