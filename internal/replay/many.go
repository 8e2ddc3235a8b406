package replay

import (
	"golang.org/x/sync/errgroup"

	"replay/internal/scoring"
)

// UserSequence is the reconstruction result for one requested user.
type UserSequence struct {
	User   string  `json:"user"`
	Known  bool    `json:"known"`
	Events []Event `json:"events"`
}

// Many reconstructs the rank sequence of every user in users concurrently.
// Each reconstruction owns its own state; subs is only read. Results keep the
// order of users.
func Many(users []string, subs []scoring.Submission, mode scoring.Mode) ([]UserSequence, error) {
	out := make([]UserSequence, len(users))
	var g errgroup.Group
	g.SetLimit(8)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			seq, err := RankSequence(user, subs, mode)
			if err != nil {
				return err
			}
			if seq == nil {
				seq = []Event{}
			}
			out[i] = UserSequence{User: user, Known: HasUser(user, subs), Events: seq}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
