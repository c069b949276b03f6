// Package models holds the domain types shared by the tracker engine, the
// storage adapters, and the HTTP/MCP surfaces.
package models

import (
	"fmt"
	"time"
)

// ExerciseType distinguishes loaded lifts from bodyweight movements.
type ExerciseType string

const (
	Weighted   ExerciseType = "weighted"
	Bodyweight ExerciseType = "bodyweight"
)

// Status is the per-exercise outcome recorded during a training day.
// An exercise with no status yet is simply absent from the status map.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is one of the two terminal outcomes.
func (s Status) Valid() bool {
	return s == StatusCompleted || s == StatusFailed
}

// DayCount is the fixed number of training days in a schedule.
const DayCount = 5

// DayKey returns the document field name for a day number in [1,5]
// ("day1".."day5").
func DayKey(day int) string {
	return fmt.Sprintf("day%d", day)
}

// Days lists the day keys in training order.
func Days() []string {
	keys := make([]string, 0, DayCount)
	for d := 1; d <= DayCount; d++ {
		keys = append(keys, DayKey(d))
	}
	return keys
}

// Exercise is one assignment inside a schedule day. Sets and Reps must
// always equal the tier at the exercise's stored stage index; the tracker
// enforces this on every edit.
type Exercise struct {
	Name string       `json:"name"`
	Type ExerciseType `json:"type"`
	Sets int          `json:"sets"`
	Reps int          `json:"reps"`
}

// Schedule is a user's five-day exercise assignment. The day/category
// structure is fixed at creation; only exercise-level fields change after.
type Schedule struct {
	ID        string                `json:"id,omitempty"`
	UserID    string                `json:"userId"`
	Name      string                `json:"name,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
	Exercises map[string][]Exercise `json:"exercises"`
}

// ExerciseID builds the composite key correlating a schedule's exercise
// with its progress entries. Exercise names are unique within a schedule,
// so the key is collision-free.
func ExerciseID(scheduleID, exerciseName string) string {
	return scheduleID + "-" + exerciseName
}

// Progress is the single mutable record per user: outcome, load, and stage
// cursor per exercise, plus the day pointer. Weights and stages survive
// cycle resets; statuses do not.
type Progress struct {
	UserID           string             `json:"-"`
	Status           map[string]Status  `json:"exercises"`
	Weights          map[string]float64 `json:"weights"`
	Stages           map[string]int     `json:"progressionStages"`
	CurrentDay       int                `json:"currentDay"`
	LastCompletedDay *int               `json:"lastCompletedDay"`
	LastUpdated      time.Time          `json:"lastUpdated"`
}

// NewProgress returns the default record created on first access.
func NewProgress(userID string) *Progress {
	return &Progress{
		UserID:     userID,
		Status:     map[string]Status{},
		Weights:    map[string]float64{},
		Stages:     map[string]int{},
		CurrentDay: 1,
	}
}

// StageIndex returns the stored stage index for an exercise id, defaulting
// to 0 for exercises that have never advanced.
func (p *Progress) StageIndex(exerciseID string) int {
	return p.Stages[exerciseID]
}

// HistoryEntry is an immutable snapshot of one completed cycle, taken at
// archival time. Entries are append-only and never edited.
type HistoryEntry struct {
	ID               string             `json:"id,omitempty"`
	UserID           string             `json:"userId"`
	ScheduleID       string             `json:"scheduleId"`
	Date             time.Time          `json:"date"`
	LastCompletedDay *int               `json:"lastCompletedDay"`
	Status           map[string]Status  `json:"exercises"`
	Weights          map[string]float64 `json:"weights"`
}
