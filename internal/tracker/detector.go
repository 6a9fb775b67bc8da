package tracker

import "math"

// StepThreshold is the magnitude a sample delta has to exceed to count as a step.
const StepThreshold = 10.0

// Sample is a single acceleration reading (including gravity), in m/s².
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Magnitude returns the euclidean norm of the per-axis deltas between two samples.
func Magnitude(current, last Sample) float64 {
	dx := current.X - last.X
	dy := current.Y - last.Y
	dz := current.Z - last.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func IsStep(current, last Sample, threshold float64) bool {
	return Magnitude(current, last) > threshold
}

// Detector is a plain threshold filter over consecutive samples: no debouncing,
// no minimal interval between steps, no noise filtering. A single jolt can be a
// step and shaking the device over-counts.
type Detector struct {
	threshold float64
	last      Sample
}

func NewDetector(threshold float64) *Detector {
	return &Detector{
		threshold: threshold,
	}
}

// Detect compares the sample with the previous one, and remembers it for the next call.
// The previous sample of the very first one is the zero vector.
func (d *Detector) Detect(sample Sample) (magnitude float64, isStep bool) {
	magnitude = Magnitude(sample, d.last)
	d.last = sample
	return magnitude, magnitude > d.threshold
}

func (d *Detector) Reset() {
	d.last = Sample{}
}

// CountSteps runs a fresh detector over the samples.
func CountSteps(samples []Sample, threshold float64) int {
	d := NewDetector(threshold)
	steps := 0
	for _, s := range samples {
		if _, isStep := d.Detect(s); isStep {
			steps++
		}
	}
	return steps
}
