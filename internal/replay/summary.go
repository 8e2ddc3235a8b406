package replay

// Peak is the best rank a user reached through their own score updates.
type Peak struct {
	Rank     int   `json:"rank"`
	TimeUnix int64 `json:"time_unix"`
}

// ScoreSequence returns only the update events of seq, i.e. the user's score history.
func ScoreSequence(seq []Event) []Event {
	out := make([]Event, 0, len(seq))
	for _, ev := range seq {
		if ev.Kind == KindUpdate {
			out = append(out, ev)
		}
	}
	return out
}

// BestRank returns the best rank reached by an update event. On equal rank
// the later update wins. ok is false when seq has no updates.
func BestRank(seq []Event) (peak Peak, ok bool) {
	for _, ev := range seq {
		if ev.Kind != KindUpdate {
			continue
		}
		if !ok || ev.Rank <= peak.Rank {
			peak = Peak{Rank: ev.Rank, TimeUnix: ev.TimeUnix}
			ok = true
		}
	}
	return peak, ok
}
