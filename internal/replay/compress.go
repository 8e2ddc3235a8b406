package replay

import (
	"sort"

	"replay/internal/scoring"
)

// Axis is the compressed score axis: every total any user reaches in the log,
// ordered worst to best, so a larger index is a better score.
type Axis struct {
	scores []int64
	index  map[int64]int
	users  int
}

// Compress dry-runs the scoring model over the whole log and collects every
// intermediate total. 0 is always on the axis at index 0.
func Compress(subs []scoring.Submission, mode scoring.Mode) *Axis {
	seen := map[int64]struct{}{0: {}}
	states := make(map[string]*scoring.State)
	for _, sub := range subs {
		st, ok := states[sub.UserName]
		if !ok {
			st = scoring.NewState()
			states[sub.UserName] = st
		}
		st.Apply(sub, mode)
		seen[st.Total()] = struct{}{}
	}

	scores := make([]int64, 0, len(seen))
	for s := range seen {
		scores = append(scores, s)
	}
	sort.Slice(scores, func(i, j int) bool {
		return mode.Better(scores[j], scores[i])
	})

	index := make(map[int64]int, len(scores))
	for i, s := range scores {
		index[s] = i
	}
	return &Axis{scores: scores, index: index, users: len(states)}
}

// Len returns the number of buckets.
func (a *Axis) Len() int {
	return len(a.scores)
}

// Index returns the bucket of score.
func (a *Axis) Index(score int64) (int, bool) {
	i, ok := a.index[score]
	return i, ok
}

// Score returns the score held by bucket i.
func (a *Axis) Score(i int) int64 {
	return a.scores[i]
}

// Users returns the number of distinct users in the compressed log.
func (a *Axis) Users() int {
	return a.users
}
