package contest

import (
	"testing"

	"replay/internal/scoring"
)

func TestRegistryModeFor(t *testing.T) {
	r := NewRegistry(" ahc999 ", "")
	cases := map[string]scoring.Mode{
		"ahc017": scoring.Inverted,
		"ahc051": scoring.Inverted,
		"ahc999": scoring.Inverted,
		"ahc001": scoring.Normal,
		"":       scoring.Normal,
	}
	for slug, want := range cases {
		if got := r.ModeFor(slug); got != want {
			t.Errorf("ModeFor(%q) = %s, want %s", slug, got, want)
		}
	}
}

func TestRescale(t *testing.T) {
	ratio, ok := Rescale("ahc001")
	if !ok || ratio.String() != "0.05" {
		t.Fatalf("Rescale(ahc001) = %s, %v", ratio, ok)
	}
	ratio, ok = Rescale("hokudai-hitachi2020")
	if !ok || ratio.String() != "0.08" {
		t.Fatalf("Rescale(hokudai-hitachi2020) = %s, %v", ratio, ok)
	}
	if _, ok := Rescale("ahc002"); ok {
		t.Fatal("ahc002 has no rescale")
	}
}

func TestHasWindow(t *testing.T) {
	if (Contest{}).HasWindow() {
		t.Error("zero contest has a window")
	}
	if !(Contest{StartTimeUnix: 10, EndTimeUnix: 20}).HasWindow() {
		t.Error("10..20 has no window")
	}
}
