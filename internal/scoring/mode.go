package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for names other than normal and inverted.
var ErrUnknownMode = errors.New("scoring: unknown mode")

// Mode decides how a task's best score and a user's total are compared.
type Mode interface {
	String() string
	// Replaces reports whether incoming becomes the new best for a task
	// whose stored best is stored.
	Replaces(stored, incoming int64) bool
	// Better reports whether total a ranks strictly ahead of total b.
	Better(a, b int64) bool
}

var (
	// Normal: higher is better.
	Normal Mode = normalMode{}
	// Inverted: lower nonzero is better, 0 means unsolved and ranks last.
	Inverted Mode = invertedMode{}
)

type normalMode struct{}

func (normalMode) String() string { return "normal" }

func (normalMode) Replaces(stored, incoming int64) bool {
	return incoming > stored
}

func (normalMode) Better(a, b int64) bool {
	return a > b
}

type invertedMode struct{}

func (invertedMode) String() string { return "inverted" }

func (invertedMode) Replaces(stored, incoming int64) bool {
	switch {
	case incoming == 0:
		// 0 over 0 is a no-op, 0 over a real score never erases it.
		return false
	case stored == 0:
		return true
	default:
		return incoming < stored
	}
}

func (invertedMode) Better(a, b int64) bool {
	if a == 0 || b == 0 {
		return a != 0 && b == 0
	}
	return a < b
}

// ParseMode maps "normal" or "inverted" (case-insensitive) to a Mode.
// An empty name means normal.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "normal", "":
		return Normal, nil
	case "inverted":
		return Inverted, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}
