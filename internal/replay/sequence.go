package replay

import (
	"fmt"

	"replay/internal/fenwick"
	"replay/internal/scoring"
)

// Kind tags an Event.
type Kind string

const (
	// KindUpdate: the target's own total changed.
	KindUpdate Kind = "update"
	// KindOvertake: another user moved ahead of the target.
	KindOvertake Kind = "overtook"
)

// Event is one entry of a rank sequence.
//
// For an update, Score and OldScore are the target's new and old totals.
// For an overtake, Score is the target's total at that time (OldScore equals
// it) and the OvertakeUser fields describe the user who moved ahead.
type Event struct {
	Kind     Kind   `json:"type"`
	User     string `json:"user"`
	TimeUnix int64  `json:"time_unix"`
	Rank     int    `json:"rank"`
	Score    int64  `json:"score"`
	OldScore int64  `json:"old_score"`
	Task     string `json:"task"`
	Status   string `json:"status"`

	OvertakeUserName     string `json:"overtake_user_name,omitempty"`
	OvertakeUserOldScore int64  `json:"overtake_user_old_score"`
	OvertakeUserNewScore int64  `json:"overtake_user_new_score"`
}

// userState is a user's scoring state during one sweep.
type userState struct {
	*scoring.State
	// tiedAfter is the target generation in which the user reached the
	// target's bucket after the target did. Such a user ranks behind the
	// target and counts as overtaking when it later moves ahead. A stale
	// generation means the flag is clear.
	tiedAfter int
}

// ahead reports whether the user, sitting at index, ranks ahead of a target
// at cur during generation gen.
func (st *userState) ahead(index, cur, gen int) bool {
	return index > cur || (index == cur && st.tiedAfter != gen)
}

// HasUser reports whether user has at least one submission in subs.
func HasUser(user string, subs []scoring.Submission) bool {
	for _, sub := range subs {
		if sub.UserName == user {
			return true
		}
	}
	return false
}

// RankSequence replays subs in order and returns the rank history of user.
// A user absent from subs gets an empty sequence and a nil error; an error is
// only returned when a total falls off the compressed axis.
func RankSequence(user string, subs []scoring.Submission, mode scoring.Mode) ([]Event, error) {
	if !HasUser(user, subs) {
		return nil, nil
	}

	axis := Compress(subs, mode)
	zero, _ := axis.Index(0)
	tree := fenwick.New(axis.Len())
	if err := tree.Add(zero, axis.Users()); err != nil {
		return nil, err
	}

	var (
		curScore int64
		curIndex = zero
		curRank  = 1
		gen      = 1
		seq      []Event
	)
	states := make(map[string]*userState)

	for _, sub := range subs {
		st, ok := states[sub.UserName]
		if !ok {
			st = &userState{State: scoring.NewState(), tiedAfter: gen}
			states[sub.UserName] = st
		}
		oldScore, newScore := st.Apply(sub, mode)
		if oldScore == newScore {
			continue
		}

		oldIndex, ok := axis.Index(oldScore)
		if !ok {
			return nil, fmt.Errorf("replay: score %d of %s: %w", oldScore, sub.UserName, fenwick.ErrOutOfRange)
		}
		newIndex, ok := axis.Index(newScore)
		if !ok {
			return nil, fmt.Errorf("replay: score %d of %s: %w", newScore, sub.UserName, fenwick.ErrOutOfRange)
		}
		if err := tree.Move(oldIndex, newIndex); err != nil {
			return nil, fmt.Errorf("replay: submission %d: %w", sub.ID, err)
		}

		if sub.UserName == user {
			rank, err := tree.CountAtLeast(newIndex)
			if err != nil {
				return nil, fmt.Errorf("replay: submission %d: %w", sub.ID, err)
			}
			curScore, curIndex, curRank = newScore, newIndex, rank
			// Users already at the new total got there first; earlier tie flags lapse.
			gen++
			seq = append(seq, Event{
				Kind:     KindUpdate,
				User:     user,
				TimeUnix: sub.TimeUnix,
				Rank:     curRank,
				Score:    newScore,
				OldScore: oldScore,
				Task:     sub.Task,
				Status:   sub.Status,
			})
			continue
		}

		wasAhead := st.ahead(oldIndex, curIndex, gen)
		nowAhead := newIndex > curIndex
		if newIndex == curIndex {
			st.tiedAfter = gen
		} else {
			st.tiedAfter = 0
		}
		switch {
		case wasAhead && !nowAhead:
			// Fell back to or behind the target; only possible when totals can worsen.
			curRank--
			continue
		case wasAhead == nowAhead:
			continue
		}

		curRank++
		seq = append(seq, Event{
			Kind:                 KindOvertake,
			User:                 user,
			TimeUnix:             sub.TimeUnix,
			Rank:                 curRank,
			Score:                curScore,
			OldScore:             curScore,
			Task:                 sub.Task,
			Status:               sub.Status,
			OvertakeUserName:     sub.UserName,
			OvertakeUserOldScore: oldScore,
			OvertakeUserNewScore: newScore,
		})
	}
	return seq, nil
}
