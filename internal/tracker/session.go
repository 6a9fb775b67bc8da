package tracker

// RunningThreshold splits detected steps into walking and running ones.
const RunningThreshold = 15.0

// Session holds the metrics of the current tracking run.
type Session struct {
	Steps          int          `json:"steps"`
	DistanceMeters float64      `json:"distance"`
	Calories       float64      `json:"calories"`
	ActivityType   ActivityType `json:"activityType"`
}

func NewSession() Session {
	return Session{
		ActivityType: ActivityIdle,
	}
}

func Classify(magnitude float64) ActivityType {
	if magnitude > RunningThreshold {
		return ActivityRunning
	}
	return ActivityWalking
}

// Recompute derives distance and calories from the step count alone. All steps
// are costed with the constants of the current activity.
func Recompute(steps int, activity ActivityType) Session {
	return Session{
		Steps:          steps,
		DistanceMeters: float64(steps) * activity.StrideMeters(),
		Calories:       float64(steps) * activity.KcalPerStep(),
		ActivityType:   activity,
	}
}

// Accumulate applies one detected step of the given magnitude.
func Accumulate(prior Session, magnitude float64) Session {
	return Recompute(prior.Steps+1, Classify(magnitude))
}
