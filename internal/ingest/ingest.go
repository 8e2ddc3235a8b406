package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"replay/internal/contest"
	"replay/internal/scoring"
)

// ErrInvalidSubmission is returned by Decode for a record that cannot be scored.
var ErrInvalidSubmission = errors.New("ingest: invalid submission")

// Decode reads a JSON array of submissions in export format.
func Decode(r io.Reader) ([]scoring.Submission, error) {
	var subs []scoring.Submission
	if err := json.NewDecoder(r).Decode(&subs); err != nil {
		return nil, fmt.Errorf("ingest: decode: %w", err)
	}
	for i, sub := range subs {
		switch {
		case sub.UserName == "":
			return nil, fmt.Errorf("%w: #%d (id %d) has no user_name", ErrInvalidSubmission, i, sub.ID)
		case sub.Task == "":
			return nil, fmt.Errorf("%w: #%d (id %d) has no task", ErrInvalidSubmission, i, sub.ID)
		case sub.Score < 0:
			return nil, fmt.Errorf("%w: #%d (id %d) has negative score %d", ErrInvalidSubmission, i, sub.ID, sub.Score)
		}
	}
	return subs, nil
}

// SortChronological orders subs by time. Submissions at the same second keep
// their log order.
func SortChronological(subs []scoring.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].TimeUnix < subs[j].TimeUnix
	})
}

// Window drops submissions outside the contest's [start, end) window.
// Contests without a window keep everything.
func Window(subs []scoring.Submission, c contest.Contest) []scoring.Submission {
	if !c.HasWindow() {
		return subs
	}
	out := subs[:0:0]
	for _, sub := range subs {
		if sub.TimeUnix >= c.StartTimeUnix && sub.TimeUnix < c.EndTimeUnix {
			out = append(out, sub)
		}
	}
	return out
}

// Rescale multiplies the score of each user's last submission per task
// (highest id) by ratio, rounding half away from zero.
func Rescale(subs []scoring.Submission, ratio decimal.Decimal) {
	type key struct{ user, task string }
	last := make(map[key]int)
	for i, sub := range subs {
		k := key{sub.UserName, sub.Task}
		if j, ok := last[k]; !ok || sub.ID > subs[j].ID {
			last[k] = i
		}
	}
	for _, i := range last {
		scaled := decimal.NewFromInt(subs[i].Score).Mul(ratio).Round(0)
		subs[i].Score = scaled.IntPart()
	}
}
