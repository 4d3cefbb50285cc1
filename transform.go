package marionette

import "github.com/go-gl/mathgl/mgl64"

// Rotation is one rotation increment recorded on a Transform.
type Rotation struct {
	Axis    Axis
	Degrees float64
	Pivot   mgl64.Vec3
}

// Transform accumulates rotations about fixed pivots into a local matrix.
// Each call post-multiplies the current matrix, so the new rotation is
// performed in the frame left by the previous ones.
//
// The zero value is not usable; call NewTransform.
type Transform struct {
	local   mgl64.Mat4
	rest    mgl64.Mat4
	history []Rotation
}

// NewTransform returns an identity transform.
func NewTransform() Transform {
	return Transform{local: mgl64.Ident4(), rest: mgl64.Ident4()}
}

// axisRotation returns the homogeneous rotation of deg degrees about a.
func axisRotation(a Axis, deg float64) mgl64.Mat4 {
	rad := mgl64.DegToRad(deg)
	switch a {
	case AxisX:
		return mgl64.HomogRotate3DX(rad)
	case AxisY:
		return mgl64.HomogRotate3DY(rad)
	case AxisZ:
		return mgl64.HomogRotate3DZ(rad)
	}
	panic("marionette: invalid rotation axis")
}

// translate returns the homogeneous translation by v.
func translate(v mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(v[0], v[1], v[2])
}

// PivotRotation returns T(pivot) · R(axis, deg) · T(-pivot).
func PivotRotation(a Axis, deg float64, pivot mgl64.Vec3) mgl64.Mat4 {
	return translate(pivot).Mul4(axisRotation(a, deg)).Mul4(translate(pivot.Mul(-1)))
}

// RotateAboutPivot appends a rotation of deg degrees about axis, centered on
// pivot, to the local matrix. The pivot is used exactly as given; it is not
// re-derived from the current pose.
func (t *Transform) RotateAboutPivot(axis Axis, deg float64, pivot mgl64.Vec3) {
	t.local = t.local.Mul4(PivotRotation(axis, deg, pivot))
	t.history = append(t.history, Rotation{Axis: axis, Degrees: deg, Pivot: pivot})
}

// Local returns the accumulated local matrix.
func (t *Transform) Local() mgl64.Mat4 {
	return t.local
}

// Rest returns the local matrix as it was when the chain finished building.
func (t *Transform) Rest() mgl64.Mat4 {
	return t.rest
}

// History returns a copy of the rotations applied since the rest pose was
// committed, in application order. Zero-degree steps are included.
func (t *Transform) History() []Rotation {
	out := make([]Rotation, len(t.history))
	copy(out, t.history)
	return out
}

// NetDegrees sums the recorded rotation increments about axis.
func (t *Transform) NetDegrees(axis Axis) float64 {
	var sum float64
	for _, r := range t.history {
		if r.Axis == axis {
			sum += r.Degrees
		}
	}
	return sum
}

// commitRest makes the current local matrix the rest pose and clears the
// history. Build-time offsets go through this so that History only reports
// user input.
func (t *Transform) commitRest() {
	t.rest = t.local
	t.history = t.history[:0]
}

// reset returns the transform to its rest pose.
func (t *Transform) reset() {
	t.local = t.rest
	t.history = t.history[:0]
}

// Compose returns parent ∘ local. A root joint passes the identity as parent.
func Compose(parent, local mgl64.Mat4) mgl64.Mat4 {
	return parent.Mul4(local)
}
