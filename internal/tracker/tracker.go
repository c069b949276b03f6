// Package tracker is the progression and day-completion engine. It owns
// the rules for how an exercise's stage and load evolve as training days
// are completed, how a week is archived, and how the schedule and progress
// documents are kept consistent.
//
// Every operation takes an explicit user id; the engine carries no session
// state. All mutations are read-modify-write against the stored document,
// never against caller-cached state.
package tracker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Phuzzle/exerpal/internal/docstore"
)

// Typed failures surfaced to callers. Anything else coming out of the
// engine is a storage failure wrapped with context.
var (
	// ErrMissingWeight: completing a weighted exercise that has no
	// recorded weight.
	ErrMissingWeight = errors.New("no weight recorded for weighted exercise")

	// ErrDayIncomplete: day completion attempted while some exercise in
	// the day has no terminal status.
	ErrDayIncomplete = errors.New("day has unattempted exercises")

	// ErrInvalidInput: malformed operation input (unknown day, bad status
	// value, schedule violating category limits, weight edit on a
	// bodyweight exercise).
	ErrInvalidInput = errors.New("invalid input")
)

// Tracker runs the engine against a document store.
type Tracker struct {
	store docstore.Store
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Tracker. The clock is real time; tests swap it via WithClock.
func New(store docstore.Store, log *slog.Logger) *Tracker {
	return &Tracker{store: store, log: log, now: time.Now}
}

// WithClock replaces the tracker's clock. Test hook.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}
