package tracker

import (
	"errors"
	"fmt"
)

var ErrInvalidActivityType = errors.New("invalid activity type")

// ActivityType can be one of:
//   - idle (tracking started, no step yet)
//   - walking
//   - running
type ActivityType string

const (
	ActivityIdle    ActivityType = "idle"
	ActivityWalking ActivityType = "walking"
	ActivityRunning ActivityType = "running"
)

type activityProfile struct {
	strideMeters float64
	kcalPerStep  float64
}

var activityProfiles = map[ActivityType]activityProfile{
	ActivityIdle:    {strideMeters: 0, kcalPerStep: 0},
	ActivityWalking: {strideMeters: 0.7, kcalPerStep: 0.04},
	ActivityRunning: {strideMeters: 2.5, kcalPerStep: 0.07},
}

func (at ActivityType) String() string {
	return string(at)
}

func (at ActivityType) IsValid() bool {
	_, ok := activityProfiles[at]
	return ok
}

// StrideMeters is the assumed distance covered by a single step.
func (at ActivityType) StrideMeters() float64 {
	return activityProfiles[at].strideMeters
}

func (at ActivityType) KcalPerStep() float64 {
	return activityProfiles[at].kcalPerStep
}

func ParseActivityType(s string) (ActivityType, error) {
	at := ActivityType(s)
	if !at.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidActivityType, s)
	}
	return at, nil
}
