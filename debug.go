package marionette

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// debugLog reports frame timing. Only called when Scene.debug is true.
func (s *Scene) debugLog(elapsed time.Duration) {
	s.logger.Debug("frame",
		"frame", s.frame,
		"update", elapsed,
		"redraws", s.redraws,
		"pending", len(s.injectQueue))
}

// debugWorldEpsilon bounds the drift tolerated between a cached world
// matrix and a fresh parent ∘ local composition.
const debugWorldEpsilon = 1e-9

// debugCheckChain verifies the cached pose against a fresh composition and
// the parent-before-child ordering. Violations are logged as errors.
func debugCheckChain(c *Chain, logger *log.Logger) {
	for _, err := range checkChain(c) {
		logger.Error("chain check", "err", err)
	}
}

// checkChain returns every structural or numeric inconsistency in c.
func checkChain(c *Chain) []error {
	var errs []error
	for i := range c.joints {
		j := &c.joints[i]
		want := j.transform.Local()
		if j.Parent != NoJoint {
			if j.Parent >= j.ID {
				errs = append(errs, fmt.Errorf("joint %q: parent %d not before child %d", j.Name, j.Parent, j.ID))
				continue
			}
			want = Compose(c.WorldMatrix(j.Parent), want)
		}
		got := c.WorldMatrix(j.ID)
		if !got.ApproxEqualThreshold(want, debugWorldEpsilon) {
			errs = append(errs, fmt.Errorf("joint %q: cached world matrix is stale", j.Name))
		}
	}
	return errs
}

// debugMaxDepth is the deepest chain expected for a hand: wrist, knuckle,
// mid, distal.
const debugMaxDepth = 4

func chainDepth(c *Chain, id JointID) int {
	depth := 0
	for p := id; p != NoJoint; p = c.joints[p].Parent {
		depth++
	}
	return depth
}

// debugCheckDepth warns when a joint sits deeper than a hand allows.
func debugCheckDepth(c *Chain, logger *log.Logger) {
	for i := range c.joints {
		if d := chainDepth(c, JointID(i)); d > debugMaxDepth {
			logger.Warn("chain deeper than expected", "joint", c.joints[i].Name, "depth", d, "max", debugMaxDepth)
		}
	}
}

// PoseReport is a summary of one joint's current pose.
type PoseReport struct {
	Name   string
	Class  JointClass
	Digit  Digit
	Parent string
	Pivot  mgl64.Vec3
	Flex   float64
	Spread float64
	Steps  int
}

// Report summarizes every joint of the scene's chain in id order.
func (s *Scene) Report() []PoseReport {
	out := make([]PoseReport, 0, s.chain.Len())
	for _, j := range s.chain.Joints() {
		parent := ""
		if p := s.chain.Joint(j.Parent); p != nil {
			parent = p.Name
		}
		out = append(out, PoseReport{
			Name:   j.Name,
			Class:  j.Class,
			Digit:  j.Digit,
			Parent: parent,
			Pivot:  s.chain.PivotWorld(j.ID),
			Flex:   j.NetDegrees(j.FlexAxis),
			Spread: j.NetDegrees(j.SpreadAxis),
			Steps:  len(j.transform.history),
		})
	}
	return out
}
