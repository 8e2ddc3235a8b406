package scoring

// StatusCE marks a compile error. CE submissions are counted but never scored.
const StatusCE = "CE"

// Submission is one entry of a contest's submission log.
type Submission struct {
	ID       int64  `json:"submission_id"`
	Task     string `json:"task"`
	TimeUnix int64  `json:"time_unix"`
	UserName string `json:"user_name"`
	Score    int64  `json:"score"`
	Status   string `json:"status"`
}

// IsCE reports whether status is a compile error.
func IsCE(status string) bool {
	return status == StatusCE
}

// State is one user's best score per task and their total.
// The zero value is not usable; call NewState.
type State struct {
	best  map[string]int64
	total int64
}

func NewState() *State {
	return &State{best: make(map[string]int64)}
}

// Total returns the sum of per-task bests.
func (s *State) Total() int64 {
	return s.total
}

// Best returns the stored best for task and whether the task has been scored at all.
func (s *State) Best(task string) (int64, bool) {
	v, ok := s.best[task]
	return v, ok
}

// Apply folds sub into the state and returns the total before and after.
// The total changed iff oldTotal != newTotal.
func (s *State) Apply(sub Submission, mode Mode) (oldTotal, newTotal int64) {
	oldTotal = s.total
	if IsCE(sub.Status) {
		return oldTotal, oldTotal
	}

	stored, seen := s.best[sub.Task]
	if !seen {
		s.best[sub.Task] = sub.Score
		s.total += sub.Score
		return oldTotal, s.total
	}
	if !mode.Replaces(stored, sub.Score) {
		return oldTotal, oldTotal
	}
	s.best[sub.Task] = sub.Score
	s.total += sub.Score - stored
	return oldTotal, s.total
}
