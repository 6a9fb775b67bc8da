package fitness

import "math"

// Goals are daily targets.
type Goals struct {
	Steps          int
	DistanceMeters float64
	Calories       float64
}

var DefaultGoals = Goals{
	Steps:          10000,
	DistanceMeters: 8000,
	Calories:       2200,
}

type GoalProgress struct {
	Name    string  `json:"name"`
	Actual  float64 `json:"actual"`
	Goal    float64 `json:"goal"`
	Percent float64 `json:"percent"`
}

func Progress(agg DailyAggregate, tf Timeframe) []GoalProgress {
	return DefaultGoals.Progress(agg, tf)
}

// Progress scales the daily goals to the timeframe. Percent is capped at 100.
func (g Goals) Progress(agg DailyAggregate, tf Timeframe) []GoalProgress {
	days := float64(tf.Days())
	return []GoalProgress{
		newGoalProgress("steps", float64(agg.Steps), float64(g.Steps)*days),
		newGoalProgress("distance", agg.Distance, g.DistanceMeters*days),
		newGoalProgress("calories", agg.Calories, g.Calories*days),
	}
}

func newGoalProgress(name string, actual, goal float64) GoalProgress {
	percent := 0.0
	if goal > 0 {
		percent = math.Min(actual/goal*100, 100)
	}
	return GoalProgress{
		Name:    name,
		Actual:  actual,
		Goal:    goal,
		Percent: math.Round(percent*10) / 10,
	}
}
