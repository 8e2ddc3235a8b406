package scoring

import (
	"errors"
	"testing"
)

func sub(task string, score int64, status string) Submission {
	return Submission{Task: task, UserName: "u", Score: score, Status: status}
}

func TestApplyNormal(t *testing.T) {
	cases := []struct {
		name      string
		subs      []Submission
		wantTotal []int64
	}{
		{
			name:      "first submission adds its score",
			subs:      []Submission{sub("A", 100, "AC")},
			wantTotal: []int64{100},
		},
		{
			name:      "higher resubmission replaces",
			subs:      []Submission{sub("A", 100, "AC"), sub("A", 150, "AC")},
			wantTotal: []int64{100, 150},
		},
		{
			name:      "lower or equal resubmission is ignored",
			subs:      []Submission{sub("A", 100, "AC"), sub("A", 90, "WA"), sub("A", 100, "AC")},
			wantTotal: []int64{100, 100, 100},
		},
		{
			name:      "tasks sum",
			subs:      []Submission{sub("A", 100, "AC"), sub("B", 30, "AC"), sub("A", 120, "AC")},
			wantTotal: []int64{100, 130, 150},
		},
		{
			name:      "compile errors are never scored",
			subs:      []Submission{sub("A", 500, "CE"), sub("A", 10, "AC")},
			wantTotal: []int64{0, 10},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewState()
			for i, sb := range c.subs {
				_, got := s.Apply(sb, Normal)
				if got != c.wantTotal[i] {
					t.Fatalf("after %d: total %d, want %d", i, got, c.wantTotal[i])
				}
			}
		})
	}
}

func TestApplyInverted(t *testing.T) {
	cases := []struct {
		name      string
		subs      []Submission
		wantTotal []int64
	}{
		{
			name:      "lower replaces",
			subs:      []Submission{sub("A", 50, "AC"), sub("A", 30, "AC")},
			wantTotal: []int64{50, 30},
		},
		{
			name:      "higher is ignored",
			subs:      []Submission{sub("A", 30, "AC"), sub("A", 50, "AC")},
			wantTotal: []int64{30, 30},
		},
		{
			name:      "zero then zero is a no-op",
			subs:      []Submission{sub("A", 0, "WA"), sub("A", 0, "WA")},
			wantTotal: []int64{0, 0},
		},
		{
			name:      "zero then real score becomes first real score",
			subs:      []Submission{sub("A", 0, "WA"), sub("A", 70, "AC")},
			wantTotal: []int64{0, 70},
		},
		{
			name:      "zero never erases a real score",
			subs:      []Submission{sub("A", 70, "AC"), sub("A", 0, "WA")},
			wantTotal: []int64{70, 70},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewState()
			for i, sb := range c.subs {
				_, got := s.Apply(sb, Inverted)
				if got != c.wantTotal[i] {
					t.Fatalf("after %d: total %d, want %d", i, got, c.wantTotal[i])
				}
			}
		})
	}
}

func TestApplyReturnsOldTotal(t *testing.T) {
	s := NewState()
	s.Apply(sub("A", 40, "AC"), Normal)
	oldTotal, newTotal := s.Apply(sub("B", 2, "AC"), Normal)
	if oldTotal != 40 || newTotal != 42 {
		t.Fatalf("got (%d, %d), want (40, 42)", oldTotal, newTotal)
	}
	if best, ok := s.Best("B"); !ok || best != 2 {
		t.Fatalf("Best(B) = %d, %v", best, ok)
	}
	if _, ok := s.Best("C"); ok {
		t.Fatal("Best(C) reported a task never submitted")
	}
}

func TestBetter(t *testing.T) {
	if !Normal.Better(2, 1) || Normal.Better(1, 1) || Normal.Better(0, 1) {
		t.Error("normal mode ordering is wrong")
	}
	cases := []struct {
		a, b int64
		want bool
	}{
		{30, 50, true},
		{50, 30, false},
		{30, 0, true},
		{0, 30, false},
		{0, 0, false},
		{30, 30, false},
	}
	for _, c := range cases {
		if got := Inverted.Better(c.a, c.b); got != c.want {
			t.Errorf("Inverted.Better(%d, %d) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{"normal": Normal, "Inverted": Inverted, "": Normal} {
		got, err := ParseMode(name)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseMode("descending"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(descending): got %v, want ErrUnknownMode", err)
	}
}
