package ingest

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"replay/internal/contest"
	"replay/internal/scoring"
)

func TestDecode(t *testing.T) {
	in := `[
		{"submission_id":1,"task":"ahc001_a","time_unix":100,"user_name":"alice","score":1000,"status":"AC"},
		{"submission_id":2,"task":"ahc001_a","time_unix":101,"user_name":"bob","score":0,"status":"CE"}
	]`
	got, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []scoring.Submission{
		{ID: 1, Task: "ahc001_a", TimeUnix: 100, UserName: "alice", Score: 1000, Status: "AC"},
		{ID: 2, Task: "ahc001_a", TimeUnix: 101, UserName: "bob", Score: 0, Status: "CE"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]string{
		"no user":        `[{"submission_id":1,"task":"a","score":1}]`,
		"no task":        `[{"submission_id":1,"user_name":"u","score":1}]`,
		"negative score": `[{"submission_id":1,"task":"a","user_name":"u","score":-1}]`,
	}
	for name, in := range cases {
		if _, err := Decode(strings.NewReader(in)); !errors.Is(err, ErrInvalidSubmission) {
			t.Errorf("%s: got %v, want ErrInvalidSubmission", name, err)
		}
	}
	if _, err := Decode(strings.NewReader(`{"not":"an array"}`)); err == nil {
		t.Error("object input decoded without error")
	}
}

func TestSortChronologicalIsStable(t *testing.T) {
	subs := []scoring.Submission{
		{ID: 3, TimeUnix: 20},
		{ID: 1, TimeUnix: 10},
		{ID: 5, TimeUnix: 10},
		{ID: 2, TimeUnix: 10},
	}
	SortChronological(subs)
	var ids []int64
	for _, s := range subs {
		ids = append(ids, s.ID)
	}
	if want := []int64{1, 5, 2, 3}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestWindow(t *testing.T) {
	subs := []scoring.Submission{{ID: 1, TimeUnix: 9}, {ID: 2, TimeUnix: 10}, {ID: 3, TimeUnix: 19}, {ID: 4, TimeUnix: 20}}

	got := Window(subs, contest.Contest{StartTimeUnix: 10, EndTimeUnix: 20})
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("got %+v", got)
	}
	if got := Window(subs, contest.Contest{}); len(got) != 4 {
		t.Fatalf("no window dropped submissions: %+v", got)
	}
	if len(subs) != 4 || subs[0].ID != 1 {
		t.Fatal("Window modified its input")
	}
}

func TestRescaleLastSubmissionPerTask(t *testing.T) {
	subs := []scoring.Submission{
		{ID: 1, UserName: "alice", Task: "A", Score: 1000},
		{ID: 4, UserName: "alice", Task: "A", Score: 1010},
		{ID: 2, UserName: "alice", Task: "B", Score: 30},
		{ID: 3, UserName: "bob", Task: "A", Score: 999},
	}
	Rescale(subs, decimal.RequireFromString("0.05"))

	want := []int64{1000, 51, 2, 50}
	for i, s := range subs {
		if s.Score != want[i] {
			t.Errorf("submission %d: score %d, want %d", s.ID, s.Score, want[i])
		}
	}
}
