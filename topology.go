package marionette

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrMalformedTopology is returned by BuildChain when a topology cannot be
// turned into a single-rooted, acyclic chain.
var ErrMalformedTopology = errors.New("malformed topology")

// JointSpec describes one joint of a Topology.
type JointSpec struct {
	Name  string
	Class JointClass
	Digit Digit
	// Parent names an earlier joint, or is empty for the root.
	Parent string
	Pivot  mgl64.Vec3
	Radius float64
	// RestAngle is a build-time rotation about the spread axis, applied
	// about Pivot and committed as the rest pose.
	RestAngle float64
}

// SegmentSpec describes one rigid bone of a Topology. The primitive is
// placed at T(Position) · T(Origin) · Rz(Angle) · T(-Origin) in the owner's
// frame.
type SegmentSpec struct {
	Name     string
	Owner    string
	Geometry Geometry
	Position mgl64.Vec3
	Origin   mgl64.Vec3
	Angle    float64
	// Unpickable excludes the segment from picking.
	Unpickable bool
}

// Topology is the static description a Chain is built from. Joints must be
// listed parent before child.
type Topology struct {
	Joints   []JointSpec
	Segments []SegmentSpec
	// DrawOrder lists joint and segment names in the order a renderer should
	// submit them. When empty, joints are drawn first, then segments.
	DrawOrder []string
}

// DigitSpec sizes one finger of a hand.
type DigitSpec struct {
	Digit Digit
	// Anchor is the knuckle pivot on the palm.
	Anchor mgl64.Vec3
	// Lengths are the three bone heights, proximal to distal.
	Lengths [3]float64
	// KnuckleRest and MidRest are build-time spread-axis offsets in degrees.
	KnuckleRest float64
	MidRest     float64
}

// CarpalSpec is a palm bone fanned out from Origin by Angle degrees about Z.
type CarpalSpec struct {
	Name   string
	Length float64
	Origin mgl64.Vec3
	Angle  float64
}

// HandSpec is the parametric description of the default hand.
type HandSpec struct {
	WristPivot  mgl64.Vec3
	WristRadius float64
	JointRadius float64
	BoneRadius  float64
	Carpals     []CarpalSpec
	// Digits are listed in draw order; thumb last.
	Digits []DigitSpec
}

// Palm dimensions the default anchors are derived from.
const (
	palmWidth  = 12.5
	palmHeight = 10.0
)

// DefaultHand returns the proportions of the reference hand: a 12.5 × 10 palm
// centered on the origin, four fingers on its distal edge and the thumb on
// the proximal corner.
func DefaultHand() HandSpec {
	const r = 1.5
	knuckleY := palmHeight/2 + r*0.75
	carpalOrigin := mgl64.Vec3{0, -palmHeight / 2, 0}
	return HandSpec{
		WristPivot:  mgl64.Vec3{0, -palmHeight * 0.6, 0},
		WristRadius: 1.75,
		JointRadius: r,
		BoneRadius:  r,
		Carpals: []CarpalSpec{
			{Name: "carpal1", Length: 12, Origin: carpalOrigin, Angle: 25},
			{Name: "carpal2", Length: 12, Origin: carpalOrigin, Angle: 7.5},
			{Name: "carpal3", Length: 12, Origin: carpalOrigin, Angle: -7.5},
			{Name: "carpal4", Length: 12, Origin: carpalOrigin, Angle: -25},
			{Name: "carpal0", Length: 6, Origin: mgl64.Vec3{1.5, -palmHeight / 2, 0}, Angle: 80},
		},
		Digits: []DigitSpec{
			{Digit: DigitIndex, Anchor: mgl64.Vec3{-palmWidth/2 + r, knuckleY, 0}, Lengths: [3]float64{4.5, 3.5, 2}},
			{Digit: DigitMiddle, Anchor: mgl64.Vec3{-palmWidth*0.25 + r, knuckleY, 0}, Lengths: [3]float64{5, 4, 2}},
			{Digit: DigitRing, Anchor: mgl64.Vec3{palmWidth*0.25 - r, knuckleY, 0}, Lengths: [3]float64{4.5, 3.5, 2}},
			{Digit: DigitPinky, Anchor: mgl64.Vec3{palmWidth/2 - r, knuckleY, 0}, Lengths: [3]float64{3.5, 3, 2}},
			{
				Digit:       DigitThumb,
				Anchor:      mgl64.Vec3{-palmWidth/2 + r*0.5, -palmHeight / 2, 0},
				Lengths:     [3]float64{3, 3, 2},
				KnuckleRest: 35,
				MidRest:     -15,
			},
		},
	}
}

// DefaultTopology returns the topology of DefaultHand.
func DefaultTopology() Topology {
	return DefaultHand().Topology()
}

// JointName returns the display name of a digit joint. level is 1 for the
// knuckle, 2 for the mid joint and 3 for the distal joint.
func JointName(d Digit, level int) string {
	return fmt.Sprintf("%s_jnt%d", d, level)
}

// WristName is the display name of the root joint.
const WristName = "wrist_jnt"

// Topology lays the hand out bone by bone. Each bone starts half a joint
// radius above its joint and the next joint sits three quarters of a radius
// past the bone's end; the tip sphere is centered on the last bone's end.
func (h HandSpec) Topology() Topology {
	var top Topology
	var carpalNames []string
	top.Joints = append(top.Joints, JointSpec{
		Name:   WristName,
		Class:  ClassWrist,
		Pivot:  h.WristPivot,
		Radius: h.WristRadius,
	})
	for _, c := range h.Carpals {
		top.Segments = append(top.Segments, SegmentSpec{
			Name:     c.Name,
			Owner:    WristName,
			Geometry: Box(1, c.Length, 1),
			Origin:   c.Origin,
			Angle:    c.Angle,
		})
		carpalNames = append(carpalNames, c.Name)
	}

	// Build per digit, but record draw order per layer so all knuckles are
	// submitted before all first bones, and so on.
	layers := make([][]string, 7)
	classes := [3]JointClass{ClassKnuckle, ClassMid, ClassDistal}
	for _, d := range h.Digits {
		parent := WristName
		pivot := d.Anchor
		for level := 1; level <= 3; level++ {
			name := JointName(d.Digit, level)
			var rest float64
			switch level {
			case 1:
				rest = d.KnuckleRest
			case 2:
				rest = d.MidRest
			}
			top.Joints = append(top.Joints, JointSpec{
				Name:      name,
				Class:     classes[level-1],
				Digit:     d.Digit,
				Parent:    parent,
				Pivot:     pivot,
				Radius:    h.JointRadius,
				RestAngle: rest,
			})
			length := d.Lengths[level-1]
			bonePos := pivot.Add(mgl64.Vec3{0, h.JointRadius/2 + length/2, 0})
			bone := fmt.Sprintf("%s%d", d.Digit, level)
			top.Segments = append(top.Segments, SegmentSpec{
				Name:     bone,
				Owner:    name,
				Geometry: Cylinder(h.BoneRadius, length),
				Position: bonePos,
			})
			layers[(level-1)*2] = append(layers[(level-1)*2], name)
			layers[(level-1)*2+1] = append(layers[(level-1)*2+1], bone)

			if level == 3 {
				tip := fmt.Sprintf("%s_tip", d.Digit)
				top.Segments = append(top.Segments, SegmentSpec{
					Name:     tip,
					Owner:    name,
					Geometry: Sphere(h.JointRadius),
					Position: bonePos.Add(mgl64.Vec3{0, length / 2, 0}),
				})
				layers[6] = append(layers[6], tip)
			}
			parent = name
			pivot = bonePos.Add(mgl64.Vec3{0, length/2 + h.JointRadius*0.75, 0})
		}
	}

	top.DrawOrder = append(top.DrawOrder, carpalNames...)
	top.DrawOrder = append(top.DrawOrder, WristName)
	for _, l := range layers {
		top.DrawOrder = append(top.DrawOrder, l...)
	}
	return top
}

// Placement returns the segment's primitive placement in its owner's frame.
func (s SegmentSpec) Placement() mgl64.Mat4 {
	m := translate(s.Position)
	if s.Angle != 0 {
		m = m.Mul4(PivotRotation(AxisZ, s.Angle, s.Origin))
	}
	return m
}

// validate checks the structural invariants BuildChain relies on and
// returns the parent index of every joint.
func (top Topology) validate() ([]JointID, error) {
	if len(top.Joints) == 0 {
		return nil, fmt.Errorf("%w: no joints", ErrMalformedTopology)
	}
	index := make(map[string]JointID, len(top.Joints))
	parents := make([]JointID, len(top.Joints))
	roots := 0
	for i, js := range top.Joints {
		if js.Name == "" {
			return nil, fmt.Errorf("%w: joint %d has no name", ErrMalformedTopology, i)
		}
		if _, dup := index[js.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate joint %q", ErrMalformedTopology, js.Name)
		}
		if js.Parent == "" {
			roots++
			if js.Class != ClassWrist {
				return nil, fmt.Errorf("%w: root joint %q is %s, want wrist", ErrMalformedTopology, js.Name, js.Class)
			}
			parents[i] = NoJoint
		} else {
			p, ok := index[js.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: joint %q: parent %q not defined before it", ErrMalformedTopology, js.Name, js.Parent)
			}
			if js.Class == ClassWrist {
				return nil, fmt.Errorf("%w: wrist joint %q has a parent", ErrMalformedTopology, js.Name)
			}
			parents[i] = p
		}
		index[js.Name] = JointID(i)
	}
	if roots != 1 {
		return nil, fmt.Errorf("%w: %d root joints, want 1", ErrMalformedTopology, roots)
	}

	names := make(map[string]bool, len(top.Joints)+len(top.Segments))
	for name := range index {
		names[name] = true
	}
	for _, ss := range top.Segments {
		if _, ok := index[ss.Owner]; !ok {
			return nil, fmt.Errorf("%w: segment %q: owner %q not found", ErrMalformedTopology, ss.Name, ss.Owner)
		}
		if ss.Name == "" || names[ss.Name] {
			return nil, fmt.Errorf("%w: segment name %q empty or already used", ErrMalformedTopology, ss.Name)
		}
		names[ss.Name] = true
	}
	if len(top.DrawOrder) > 0 {
		if len(top.DrawOrder) != len(names) {
			return nil, fmt.Errorf("%w: draw order lists %d elements, have %d", ErrMalformedTopology, len(top.DrawOrder), len(names))
		}
		seen := make(map[string]bool, len(top.DrawOrder))
		for _, n := range top.DrawOrder {
			if !names[n] || seen[n] {
				return nil, fmt.Errorf("%w: draw order entry %q unknown or repeated", ErrMalformedTopology, n)
			}
			seen[n] = true
		}
	}
	return parents, nil
}
