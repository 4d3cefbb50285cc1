package marionette

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// drawRef points at a joint or a segment in draw order.
type drawRef struct {
	kind  DrawKind
	index int
}

// Chain owns every Joint and Segment of the hand. Joints are stored by value
// in a slice and refer to their parent by index; a parent always has a lower
// index than its children.
//
// World matrices are cached per joint. Rotating a joint marks it and its
// descendants dirty; ancestors and siblings keep their cached matrices.
type Chain struct {
	joints    []Joint
	segments  []Segment
	byName    map[string]JointID
	segByName map[string]SegmentID
	order     []drawRef

	// recomputes counts world matrix evaluations; tests use it to check
	// that clean joints are not recomputed.
	recomputes int
}

// BuildChain creates a Chain from a topology. Errors wrap
// ErrMalformedTopology.
func BuildChain(top Topology) (*Chain, error) {
	parents, err := top.validate()
	if err != nil {
		return nil, err
	}

	c := &Chain{
		joints:    make([]Joint, len(top.Joints)),
		segments:  make([]Segment, len(top.Segments)),
		byName:    make(map[string]JointID, len(top.Joints)),
		segByName: make(map[string]SegmentID, len(top.Segments)),
	}
	for i, js := range top.Joints {
		id := JointID(i)
		j := &c.joints[i]
		*j = Joint{
			ID:         id,
			Name:       js.Name,
			Class:      js.Class,
			Digit:      js.Digit,
			Parent:     parents[i],
			Pivot:      js.Pivot,
			FlexAxis:   AxisX,
			SpreadAxis: AxisZ,
			Geometry:   Sphere(js.Radius),
			Material:   JointMaterial,
			transform:  NewTransform(),
			dirty:      true,
		}
		if js.RestAngle != 0 {
			j.transform.RotateAboutPivot(j.SpreadAxis, js.RestAngle, j.Pivot)
		}
		j.transform.commitRest()
		if j.Parent != NoJoint {
			p := &c.joints[j.Parent]
			p.children = append(p.children, id)
		}
		c.byName[js.Name] = id
	}
	for i, ss := range top.Segments {
		c.segments[i] = Segment{
			ID:        SegmentID(i),
			Name:      ss.Name,
			Owner:     c.byName[ss.Owner],
			Placement: ss.Placement(),
			Geometry:  ss.Geometry,
			Material:  SegmentMaterial,
			Pickable:  !ss.Unpickable,
		}
		c.segByName[ss.Name] = SegmentID(i)
	}

	if len(top.DrawOrder) == 0 {
		for i := range c.joints {
			c.order = append(c.order, drawRef{DrawJoint, i})
		}
		for i := range c.segments {
			c.order = append(c.order, drawRef{DrawSegment, i})
		}
	} else {
		for _, name := range top.DrawOrder {
			if id, ok := c.byName[name]; ok {
				c.order = append(c.order, drawRef{DrawJoint, int(id)})
			} else {
				c.order = append(c.order, drawRef{DrawSegment, int(c.segByName[name])})
			}
		}
	}
	return c, nil
}

// MustBuildChain is like BuildChain but panics on error. Use it for
// topologies known at compile time.
func MustBuildChain(top Topology) *Chain {
	c, err := BuildChain(top)
	if err != nil {
		panic(fmt.Sprintf("marionette: %v", err))
	}
	return c
}

// Len returns the number of joints.
func (c *Chain) Len() int { return len(c.joints) }

// Root returns the id of the wrist.
func (c *Chain) Root() JointID {
	for i := range c.joints {
		if c.joints[i].Parent == NoJoint {
			return JointID(i)
		}
	}
	return NoJoint
}

// Joint returns the joint with the given id, or nil if id is out of range.
func (c *Chain) Joint(id JointID) *Joint {
	if id < 0 || int(id) >= len(c.joints) {
		return nil
	}
	return &c.joints[id]
}

// JointByName looks a joint up by display name.
func (c *Chain) JointByName(name string) (*Joint, bool) {
	id, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return &c.joints[id], true
}

// Joints returns pointers to all joints in id order.
func (c *Chain) Joints() []*Joint {
	out := make([]*Joint, len(c.joints))
	for i := range c.joints {
		out[i] = &c.joints[i]
	}
	return out
}

// Segment returns the segment with the given id, or nil if id is out of range.
func (c *Chain) Segment(id SegmentID) *Segment {
	if id < 0 || int(id) >= len(c.segments) {
		return nil
	}
	return &c.segments[id]
}

// SegmentByName looks a segment up by name.
func (c *Chain) SegmentByName(name string) (*Segment, bool) {
	id, ok := c.segByName[name]
	if !ok {
		return nil, false
	}
	return &c.segments[id], true
}

// Segments returns pointers to all segments in id order.
func (c *Chain) Segments() []*Segment {
	out := make([]*Segment, len(c.segments))
	for i := range c.segments {
		out[i] = &c.segments[i]
	}
	return out
}

// Digit returns the knuckle, mid and distal joint ids of d. Missing joints
// are NoJoint.
func (c *Chain) Digit(d Digit) [3]JointID {
	out := [3]JointID{NoJoint, NoJoint, NoJoint}
	for i := range c.joints {
		j := &c.joints[i]
		if j.Digit != d || d == DigitNone {
			continue
		}
		switch j.Class {
		case ClassKnuckle:
			out[0] = j.ID
		case ClassMid:
			out[1] = j.ID
		case ClassDistal:
			out[2] = j.ID
		}
	}
	return out
}

// Rotate applies one rotation increment to a joint and invalidates the
// cached world matrices of its subtree. It is the only way a chain's pose
// changes.
func (c *Chain) Rotate(id JointID, axis Axis, deg float64, pivot mgl64.Vec3) {
	j := c.Joint(id)
	if j == nil {
		panic(fmt.Sprintf("marionette: rotate on unknown joint %d", id))
	}
	j.transform.RotateAboutPivot(axis, deg, pivot)
	c.markSubtreeDirty(id)
}

// ResetPose returns every joint to its rest pose.
func (c *Chain) ResetPose() {
	for i := range c.joints {
		c.joints[i].transform.reset()
		c.joints[i].dirty = true
	}
}

// markSubtreeDirty flags id and all its descendants for recomputation.
func (c *Chain) markSubtreeDirty(id JointID) {
	j := &c.joints[id]
	j.dirty = true
	for _, child := range j.children {
		c.markSubtreeDirty(child)
	}
}

// WorldMatrix returns the joint's world matrix: its parent's world matrix
// composed with its local matrix, or the local matrix for the root. Cached
// matrices are reused until the joint or an ancestor rotates.
func (c *Chain) WorldMatrix(id JointID) mgl64.Mat4 {
	j := c.Joint(id)
	if j == nil {
		panic(fmt.Sprintf("marionette: world matrix of unknown joint %d", id))
	}
	if j.dirty {
		parent := mgl64.Ident4()
		if j.Parent != NoJoint {
			parent = c.WorldMatrix(j.Parent)
		}
		j.world = Compose(parent, j.transform.Local())
		j.dirty = false
		c.recomputes++
	}
	return j.world
}

// UpdateWorld refreshes every dirty world matrix. Parents come before
// children in id order, so one pass suffices.
func (c *Chain) UpdateWorld() {
	for i := range c.joints {
		if c.joints[i].dirty {
			c.WorldMatrix(JointID(i))
		}
	}
}

// PivotWorld returns the joint's pivot in world space.
func (c *Chain) PivotWorld(id JointID) mgl64.Vec3 {
	return mgl64.TransformCoordinate(c.joints[id].Pivot, c.WorldMatrix(id))
}

// SegmentWorld returns a segment's world matrix, which is always its owner's.
func (c *Chain) SegmentWorld(id SegmentID) mgl64.Mat4 {
	return c.WorldMatrix(c.segments[id].Owner)
}

// JointModel returns the matrix that maps the joint's sphere to world space.
func (c *Chain) JointModel(id JointID) mgl64.Mat4 {
	return c.WorldMatrix(id).Mul4(c.joints[id].Placement())
}

// SegmentModel returns the matrix that maps the segment's primitive to world
// space.
func (c *Chain) SegmentModel(id SegmentID) mgl64.Mat4 {
	return c.SegmentWorld(id).Mul4(c.segments[id].Placement)
}

// ForEachDrawable calls fn for every joint and segment in draw order.
func (c *Chain) ForEachDrawable(fn func(Drawable)) {
	for i, ref := range c.order {
		switch ref.kind {
		case DrawJoint:
			j := &c.joints[ref.index]
			fn(Drawable{
				Kind:     DrawJoint,
				Joint:    j.ID,
				Segment:  NoSegment,
				Name:     j.Name,
				Model:    c.JointModel(j.ID),
				Geometry: j.Geometry,
				Material: j.Material,
				Order:    i,
			})
		case DrawSegment:
			s := &c.segments[ref.index]
			fn(Drawable{
				Kind:     DrawSegment,
				Joint:    s.Owner,
				Segment:  s.ID,
				Name:     s.Name,
				Model:    c.SegmentModel(s.ID),
				Geometry: s.Geometry,
				Material: s.Material,
				Order:    i,
			})
		}
	}
}

// Drawables returns all drawables in draw order.
func (c *Chain) Drawables() []Drawable {
	out := make([]Drawable, 0, len(c.order))
	c.ForEachDrawable(func(d Drawable) {
		out = append(out, d)
	})
	return out
}
