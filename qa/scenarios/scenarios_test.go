package scenarios

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenarios found")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString("name: [unclosed"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestPlannerConfigOverrides(t *testing.T) {
	sc := Scenario{SlotMinutes: 15, WindowPolicy: "clamp"}
	cfg := sc.PlannerConfig()
	if cfg.SlotMinutes != 15 || cfg.WindowPolicy != "clamp" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Comfort.PerHour != 10 {
		t.Fatalf("defaults lost: %+v", cfg.Comfort)
	}
}
