package models

import "sort"

// CatalogEntry is one selectable exercise within a muscle-group category.
type CatalogEntry struct {
	Name string       `json:"name"`
	Type ExerciseType `json:"type"`
}

// Catalog lists the selectable exercises per muscle-group category.
// Fixed business data; schedules are built from it and validated against
// the per-day limits below.
var Catalog = map[string][]CatalogEntry{
	"pec-dominant": {
		{Name: "Barbell Bench Press", Type: Weighted},
		{Name: "Dumbbell Bench Press", Type: Weighted},
		{Name: "Push-ups", Type: Bodyweight},
	},
	"shoulder-dominant": {
		{Name: "Overhead Press (Barbell)", Type: Weighted},
		{Name: "Push Press", Type: Weighted},
		{Name: "Arnold Press", Type: Weighted},
	},
	"upper-back-horizontal": {
		{Name: "Barbell Row", Type: Weighted},
		{Name: "Bent-Over Row (Dumbbell)", Type: Weighted},
		{Name: "Machine row", Type: Weighted},
	},
	"upper-back-vertical": {
		{Name: "Pull-Ups", Type: Bodyweight},
		{Name: "Lat Pulldowns", Type: Weighted},
		{Name: "Close-Grip Lat Pulldown", Type: Weighted},
	},
	"hip-dominant": {
		{Name: "Deadlifts", Type: Weighted},
		{Name: "Romanian Deadlifts (RDLs)", Type: Weighted},
		{Name: "Barbell Hip Thrust", Type: Weighted},
		{Name: "Good Mornings", Type: Weighted},
	},
	"knee-dominant": {
		{Name: "Barbell Back Squat", Type: Weighted},
		{Name: "Front Squat", Type: Weighted},
		{Name: "Walking Lunges (weighted)", Type: Weighted},
	},
	"hip-dominant-accessory": {
		{Name: "Glute Bridges", Type: Bodyweight},
		{Name: "Single-Leg RDLs", Type: Weighted},
		{Name: "Barbell Hip Thrust", Type: Weighted},
		{Name: "Glute Ham Raises", Type: Bodyweight},
	},
	"quad-dominant-accessory": {
		{Name: "Goblet Squats", Type: Weighted},
		{Name: "Step-Ups", Type: Weighted},
		{Name: "Bulgarian Split Squats", Type: Weighted},
		{Name: "Wall Sit", Type: Bodyweight},
	},
	"calves": {
		{Name: "Standing Calf Raises (Barbell)", Type: Weighted},
		{Name: "Seated Calf Raises (Dumbbell)", Type: Weighted},
		{Name: "Single-Leg Calf Raises", Type: Bodyweight},
	},
	"vanity-lifts": {
		{Name: "Dumbbell Flyes", Type: Weighted},
		{Name: "Barbell Curls", Type: Weighted},
		{Name: "Skullcrushers", Type: Weighted},
		{Name: "Crunches", Type: Bodyweight},
		{Name: "Shrugs", Type: Weighted},
		{Name: "Lateral Raise (Dumbbell)", Type: Weighted},
	},
}

// DayLimits caps how many exercises from each category a day may carry.
// Categories not listed for a day are not allowed on that day.
var DayLimits = map[string]map[string]int{
	"day1": {
		"pec-dominant":          1,
		"upper-back-horizontal": 1,
		"shoulder-dominant":     1,
		"upper-back-vertical":   1,
	},
	"day2": {
		"knee-dominant":           1,
		"hip-dominant-accessory":  1,
		"quad-dominant-accessory": 1,
		"calves":                  1,
	},
	"day3": {
		"shoulder-dominant":     1,
		"upper-back-vertical":   1,
		"pec-dominant":          1,
		"upper-back-horizontal": 1,
	},
	"day4": {
		"hip-dominant":           1,
		"knee-dominant":          1,
		"hip-dominant-accessory": 1,
		"calves":                 1,
	},
	"day5": {
		"vanity-lifts": 6,
	},
}

// CategoryOf returns the category an exercise name belongs to among those
// allowed on the given day. An exercise appearing in several allowed
// categories (Barbell Hip Thrust on day4) resolves to the lexicographically
// first one, so counting against limits is deterministic.
func CategoryOf(dayKey, exerciseName string) (string, bool) {
	limits := DayLimits[dayKey]
	categories := make([]string, 0, len(limits))
	for category := range limits {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		for _, e := range Catalog[category] {
			if e.Name == exerciseName {
				return category, true
			}
		}
	}
	return "", false
}

// LookupExercise finds a catalog entry by name across all categories.
func LookupExercise(name string) (CatalogEntry, bool) {
	for _, entries := range Catalog {
		for _, e := range entries {
			if e.Name == name {
				return e, true
			}
		}
	}
	return CatalogEntry{}, false
}
