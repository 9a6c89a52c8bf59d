package optimizer

import (
	"math"

	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/workhours"
)

// Bounds is an inclusive interval range in minutes.
type Bounds struct {
	Min int
	Max int
}

func (b Bounds) clamp(v int) int {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

var (
	EyeBounds     = Bounds{Min: 15, Max: 30}
	StretchBounds = Bounds{Min: 40, Max: 75}
	WaterBounds   = Bounds{Min: 15, Max: 45}
)

// Base cadences in minutes.
const (
	eyeCadence     = 20.0
	stretchCadence = 50.0
	waterCadence   = 30.0
)

type multipliers struct {
	stretch float64
	water   float64
}

var profileMultipliers = map[models.ExerciseProfile]multipliers{
	models.ExerciseIntense:  {stretch: 1.30, water: 0.85},
	models.ExerciseModerate: {stretch: 1.15, water: 0.90},
	models.ExerciseLight:    {stretch: 1.05, water: 0.95},
	models.ExerciseNone:     {stretch: 1.00, water: 1.00},
}

// Compute derives break intervals for a work day of totalMinutes productive minutes.
func Compute(totalMinutes int, profile models.ExerciseProfile) models.OptimalIntervals {
	mult, ok := profileMultipliers[profile]
	if !ok {
		mult = profileMultipliers[models.ExerciseNone]
	}
	w := float64(totalMinutes)
	if w < 1 {
		w = 1
	}

	eyeTarget := targetCount(w / eyeCadence)
	stretchTarget := targetCount(w / (stretchCadence * mult.stretch))
	waterTarget := targetCount(w / (waterCadence * mult.water))

	return models.OptimalIntervals{
		EyeInterval:     EyeBounds.clamp(interval(w, eyeTarget)),
		StretchInterval: StretchBounds.clamp(interval(w, stretchTarget)),
		WaterInterval:   WaterBounds.clamp(interval(w, waterTarget)),
	}
}

// ForSchedule computes intervals from a schedule's total work minutes.
func ForSchedule(ws models.WorkSchedule) (models.OptimalIntervals, error) {
	cal, err := workhours.New(ws)
	if err != nil {
		return models.OptimalIntervals{}, err
	}
	return Compute(cal.TotalWorkMinutes(), ws.ExerciseProfile), nil
}

func targetCount(v float64) int {
	n := int(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}

func interval(w float64, target int) int {
	return int(math.Round(w / float64(target)))
}
