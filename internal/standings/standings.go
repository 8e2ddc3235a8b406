package standings

import (
	"sort"

	"replay/internal/scoring"
)

// TaskEntry is one user's column for one task.
type TaskEntry struct {
	Score         int64 `json:"score"`
	ScoreTime     int64 `json:"score_time"`
	SubmitCount   int   `json:"submit_count"` // non-CE
	SubmitCountCE int   `json:"submit_count_ce"`
}

// Entry is one row of a standings snapshot.
type Entry struct {
	UserName      string                `json:"user_name"`
	Score         int64                 `json:"score"`
	ScoreTime     int64                 `json:"score_time"`
	SubmitCount   int                   `json:"submit_count"` // non-CE
	SubmitCountCE int                   `json:"submit_count_ce"`
	Rank          int                   `json:"rank"`
	Tasks         map[string]*TaskEntry `json:"tasks"`
}

// Snapshot computes the standings as of cursor: only submissions with
// TimeUnix <= cursor count. tasks pre-populates a zero column per task slug
// so every row has the same columns.
//
// Rows are ordered by total (per mode), then for non-zero totals by the time
// the total was reached and the non-CE submission count. Rows with a zero
// total keep the order in which the users first submitted.
func Snapshot(subs []scoring.Submission, cursor int64, mode scoring.Mode, tasks []string) []Entry {
	var rows []*Entry
	byUser := make(map[string]*Entry)
	states := make(map[string]*scoring.State)

	for _, sub := range subs {
		if sub.TimeUnix > cursor {
			continue
		}
		row, ok := byUser[sub.UserName]
		if !ok {
			row = &Entry{UserName: sub.UserName, Tasks: make(map[string]*TaskEntry, len(tasks))}
			for _, task := range tasks {
				row.Tasks[task] = &TaskEntry{}
			}
			byUser[sub.UserName] = row
			states[sub.UserName] = scoring.NewState()
			rows = append(rows, row)
		}
		col, ok := row.Tasks[sub.Task]
		if !ok {
			col = &TaskEntry{}
			row.Tasks[sub.Task] = col
		}

		if scoring.IsCE(sub.Status) {
			row.SubmitCountCE++
			col.SubmitCountCE++
		} else {
			row.SubmitCount++
			col.SubmitCount++
		}

		st := states[sub.UserName]
		oldTotal, newTotal := st.Apply(sub, mode)
		if oldTotal == newTotal {
			continue
		}
		best, _ := st.Best(sub.Task)
		col.Score = best
		col.ScoreTime = sub.TimeUnix
		row.Score = newTotal
		row.ScoreTime = sub.TimeUnix
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return compare(rows[i], rows[j], mode) < 0
	})

	out := make([]Entry, len(rows))
	start := 0
	for i, row := range rows {
		if i > 0 && compare(rows[i-1], row, mode) != 0 {
			start = i
		}
		row.Rank = start + 1
		out[i] = *row
	}
	return out
}

// compare orders a before b when it returns a negative value.
func compare(a, b *Entry, mode scoring.Mode) int {
	if a.Score != b.Score {
		if mode.Better(a.Score, b.Score) {
			return -1
		}
		return 1
	}
	// TODO: ordering among zero totals (e.g. WA-only ahead of CE-only) needs a product decision.
	if a.Score == 0 {
		return 0
	}
	if a.ScoreTime != b.ScoreTime {
		if a.ScoreTime < b.ScoreTime {
			return -1
		}
		return 1
	}
	switch {
	case a.SubmitCount < b.SubmitCount:
		return -1
	case a.SubmitCount > b.SubmitCount:
		return 1
	}
	return 0
}
