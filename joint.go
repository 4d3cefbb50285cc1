package marionette

import "github.com/go-gl/mathgl/mgl64"

// JointID indexes a Joint inside its Chain. IDs are dense, start at zero and
// never change after the chain is built.
type JointID int

// NoJoint marks the absence of a joint, e.g. the root's parent.
const NoJoint JointID = -1

// SegmentID indexes a Segment inside its Chain.
type SegmentID int

// NoSegment marks a pick that landed on a joint rather than a segment.
const NoSegment SegmentID = -1

// Joint is a rotatable node of the hand. Its world pose is its parent's world
// pose composed with its own local transform.
//
// Structure fields (ID, Name, Class, Digit, Pivot, Parent, axes, Geometry)
// are fixed by the chain at build time. Material is the only field callers
// are expected to change.
type Joint struct {
	ID     JointID
	Name   string
	Class  JointClass
	Digit  Digit
	Parent JointID

	// Pivot is the rest-space point the joint rotates about. The joint's
	// sphere is drawn centered on it.
	Pivot mgl64.Vec3

	// FlexAxis is the principal curl axis used by Up/Down.
	FlexAxis Axis
	// SpreadAxis is the splay axis used by Left/Right and by the thumb's
	// secondary curl.
	SpreadAxis Axis

	Geometry Geometry
	Material Material

	transform Transform
	world     mgl64.Mat4
	dirty     bool
	children  []JointID
}

// IsRoot reports whether the joint has no parent.
func (j *Joint) IsRoot() bool {
	return j.Parent == NoJoint
}

// Local returns the joint's accumulated local matrix.
func (j *Joint) Local() mgl64.Mat4 {
	return j.transform.Local()
}

// History returns the rotations applied to the joint since build.
func (j *Joint) History() []Rotation {
	return j.transform.History()
}

// NetDegrees returns the net user rotation about axis.
func (j *Joint) NetDegrees(axis Axis) float64 {
	return j.transform.NetDegrees(axis)
}

// Children returns the ids of the joint's direct children.
func (j *Joint) Children() []JointID {
	out := make([]JointID, len(j.children))
	copy(out, j.children)
	return out
}

// Placement returns the matrix that moves the joint's sphere from its own
// origin to the pivot, in the joint's frame.
func (j *Joint) Placement() mgl64.Mat4 {
	return translate(j.Pivot)
}

// Segment is a rigid visual bone attached to a joint. It never rotates on its
// own; its world pose is the owner's world pose times Placement.
type Segment struct {
	ID    SegmentID
	Name  string
	Owner JointID

	// Placement positions the primitive in the owner's frame.
	Placement mgl64.Mat4

	Geometry Geometry
	Material Material
	Pickable bool
}

// DrawKind tells a renderer what kind of element a Drawable is.
type DrawKind uint8

const (
	DrawJoint DrawKind = iota
	DrawSegment
)

// Drawable is the renderer's view of one joint or segment.
type Drawable struct {
	Kind     DrawKind
	Joint    JointID
	Segment  SegmentID
	Name     string
	Model    mgl64.Mat4
	Geometry Geometry
	Material Material
	// Order is the position in draw order, used to break ties.
	Order int
}
