package marionette

import (
	"errors"
	"fmt"
	"math"
)

// Step is a single rotation within a sweep step.
type Step struct {
	Axis    Axis
	Degrees float64
}

// RotationPolicy maps directional keys to rotation sweeps.
//
// One key press walks an angle from 0 toward ±SweepLimit in increments of
// StepDegrees, rotating the selected joint by the current angle at every
// stop (so the default {0, 2} walk applies 0° and then 2°). A redraw is
// requested after each stop.
type RotationPolicy struct {
	StepDegrees float64
	SweepLimit  float64
	// ThumbSecondaryScale scales the spread-axis rotation thumb joints add
	// to every flex step.
	ThumbSecondaryScale float64
}

// DefaultRotationPolicy returns the 2° two-stop sweep with a 0.3 thumb
// coupling.
func DefaultRotationPolicy() RotationPolicy {
	return RotationPolicy{
		StepDegrees:         2,
		SweepLimit:          2,
		ThumbSecondaryScale: 0.3,
	}
}

// MaxSweepStops bounds the number of stops one key press may apply.
const MaxSweepStops = 32

// ErrInvalidPolicy is wrapped by RotationPolicy.Validate errors.
var ErrInvalidPolicy = errors.New("invalid rotation policy")

// Stops returns the number of stops in one sweep, or 0 when the step is not
// positive or the limit is negative. Counts above MaxSweepStops are reported
// as MaxSweepStops+1.
func (p RotationPolicy) Stops() int {
	if !(p.StepDegrees > 0) || !(p.SweepLimit >= 0) {
		return 0
	}
	r := math.Floor(p.SweepLimit/p.StepDegrees + 1e-9)
	if r >= MaxSweepStops {
		return MaxSweepStops + 1
	}
	return int(r) + 1
}

// Validate reports whether the policy yields between 1 and MaxSweepStops
// stops per key press with a finite thumb scale.
func (p RotationPolicy) Validate() error {
	n := p.Stops()
	switch {
	case n == 0:
		return fmt.Errorf("%w: step %v and limit %v give no stops", ErrInvalidPolicy, p.StepDegrees, p.SweepLimit)
	case n > MaxSweepStops:
		return fmt.Errorf("%w: limit %v over step %v exceeds %d stops", ErrInvalidPolicy, p.SweepLimit, p.StepDegrees, MaxSweepStops)
	case math.IsNaN(p.ThumbSecondaryScale) || math.IsInf(p.ThumbSecondaryScale, 0):
		return fmt.Errorf("%w: thumb scale %v", ErrInvalidPolicy, p.ThumbSecondaryScale)
	}
	return nil
}

// sweep returns the angles visited walking from 0 to sign·SweepLimit. A
// policy that fails Validate yields no stops.
func (p RotationPolicy) sweep(sign float64) []float64 {
	n := p.Stops()
	if n == 0 || n > MaxSweepStops {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = sign * float64(i) * p.StepDegrees
	}
	return out
}

// Plan returns the rotations a key press applies to j, grouped by sweep
// stop. It returns nil when the key does not apply to the joint.
//
//   - Up and Down flex every joint about its flex axis (Up negative). Thumb
//     joints also turn about the spread axis by ThumbSecondaryScale of the
//     flex angle, spread first on Up and flex first on Down.
//   - Left and Right spread knuckles only (Left positive).
func (p RotationPolicy) Plan(j *Joint, k Key) [][]Step {
	if j == nil {
		return nil
	}
	var plan [][]Step
	switch k {
	case KeyUp, KeyDown:
		sign := -1.0
		if k == KeyDown {
			sign = 1
		}
		for _, a := range p.sweep(sign) {
			flex := Step{Axis: j.FlexAxis, Degrees: a}
			if j.Digit != DigitThumb {
				plan = append(plan, []Step{flex})
				continue
			}
			spread := Step{Axis: j.SpreadAxis, Degrees: a * p.ThumbSecondaryScale}
			if k == KeyUp {
				plan = append(plan, []Step{spread, flex})
			} else {
				plan = append(plan, []Step{flex, spread})
			}
		}
	case KeyLeft, KeyRight:
		if j.Class != ClassKnuckle {
			return nil
		}
		sign := 1.0
		if k == KeyRight {
			sign = -1
		}
		for _, a := range p.sweep(sign) {
			plan = append(plan, []Step{{Axis: j.SpreadAxis, Degrees: a}})
		}
	}
	return plan
}

// Apply runs the sweep for key on joint id. The joint's pivot is read once
// before the first stop and reused for every rotation of the sweep. redraw,
// if not nil, is called after each stop. Apply returns the number of stops
// applied; zero means the key was a no-op for this joint.
func (p RotationPolicy) Apply(c *Chain, id JointID, k Key, redraw func()) int {
	j := c.Joint(id)
	plan := p.Plan(j, k)
	if len(plan) == 0 {
		return 0
	}
	pivot := j.Pivot
	for _, stop := range plan {
		for _, s := range stop {
			c.Rotate(id, s.Axis, s.Degrees, pivot)
		}
		if redraw != nil {
			redraw()
		}
	}
	return len(plan)
}
