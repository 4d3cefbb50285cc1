package marionette

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Picker resolves viewport positions to the frontmost joint or segment.
type Picker struct {
	camera *Camera
	chain  *Chain

	// JointsOnly skips segments, so a ray through a bone can reach a joint
	// behind it.
	JointsOnly bool
}

// NewPicker returns a picker reading the given camera and chain.
func NewPicker(camera *Camera, chain *Chain) *Picker {
	return &Picker{camera: camera, chain: chain}
}

// Pick casts a ray through viewport pixel (x, y) and returns the nearest hit.
// Ties go to the element drawn first. The result depends only on the camera
// and the chain's pose.
func (p *Picker) Pick(x, y float64) (Target, bool) {
	origin, dir, ok := p.camera.Ray(x, y)
	if !ok {
		return Target{}, false
	}
	return p.PickRay(origin, dir)
}

// PickRay is Pick for an explicit world-space ray.
func (p *Picker) PickRay(origin, dir mgl64.Vec3) (Target, bool) {
	var best Target
	found := false
	p.chain.ForEachDrawable(func(d Drawable) {
		if d.Kind == DrawSegment {
			if p.JointsOnly || !p.chain.segments[d.Segment].Pickable {
				return
			}
		}
		t, hit := intersect(d.Model, d.Geometry, origin, dir)
		if !hit {
			return
		}
		if found && t >= best.Distance {
			return
		}
		best = Target{Joint: d.Joint, Segment: d.Segment, Distance: t}
		if d.Kind == DrawSegment {
			best.Kind = TargetSegment
		} else {
			best.Kind = TargetJoint
		}
		found = true
	})
	return best, found
}

// intersect tests a world ray against a primitive placed by model. The ray
// is moved into the primitive's frame so each test only handles the
// canonical, origin-centered shape. The ray parameter is unchanged by the
// move, so t is comparable across primitives.
func intersect(model mgl64.Mat4, g Geometry, origin, dir mgl64.Vec3) (float64, bool) {
	inv := model.Inv()
	o := mgl64.TransformCoordinate(origin, inv)
	d := mgl64.TransformNormal(dir, inv)
	switch g.Kind {
	case GeometrySphere:
		return raySphere(o, d, g.Radius)
	case GeometryCylinder:
		return rayCylinder(o, d, g.Radius, g.Height/2)
	case GeometryBox:
		return rayBox(o, d, mgl64.Vec3{g.Size[0] / 2, g.Size[1] / 2, g.Size[2] / 2})
	}
	return 0, false
}

const rayEpsilon = 1e-12

// nearestNonNegative returns the smaller of t0, t1 that is >= 0.
func nearestNonNegative(t0, t1 float64) (float64, bool) {
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t0 >= 0 {
		return t0, true
	}
	if t1 >= 0 {
		return t1, true
	}
	return 0, false
}

// raySphere intersects a ray with a sphere of radius r at the origin.
func raySphere(o, d mgl64.Vec3, r float64) (float64, bool) {
	a := d.Dot(d)
	if a < rayEpsilon {
		return 0, false
	}
	b := 2 * o.Dot(d)
	c := o.Dot(o) - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	return nearestNonNegative((-b-sq)/(2*a), (-b+sq)/(2*a))
}

// rayCylinder intersects a ray with a capped cylinder of radius r along Y,
// spanning y in [-h, h].
func rayCylinder(o, d mgl64.Vec3, r, h float64) (float64, bool) {
	best := math.Inf(1)

	// Side wall.
	a := d[0]*d[0] + d[2]*d[2]
	if a > rayEpsilon {
		b := 2 * (o[0]*d[0] + o[2]*d[2])
		c := o[0]*o[0] + o[2]*o[2] - r*r
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t < 0 {
					continue
				}
				if y := o[1] + t*d[1]; y >= -h && y <= h && t < best {
					best = t
				}
			}
		}
	}

	// Caps.
	if math.Abs(d[1]) > rayEpsilon {
		for _, cy := range [2]float64{-h, h} {
			t := (cy - o[1]) / d[1]
			if t < 0 || t >= best {
				continue
			}
			x := o[0] + t*d[0]
			z := o[2] + t*d[2]
			if x*x+z*z <= r*r {
				best = t
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// rayBox intersects a ray with an origin-centered box of the given half
// extents using the slab method.
func rayBox(o, d, half mgl64.Vec3) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < rayEpsilon {
			if o[i] < -half[i] || o[i] > half[i] {
				return 0, false
			}
			continue
		}
		t1 := (-half[i] - o[i]) / d[i]
		t2 := (half[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return nearestNonNegative(tmin, tmax)
}
