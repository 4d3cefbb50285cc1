package marionette

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// orbitAnim holds active tweens for an OrbitTo call.
type orbitAnim struct {
	yaw, pitch, dist *gween.Tween
	doneYaw          bool
	donePitch        bool
	doneDist         bool
}

// Camera is a perspective orbit camera looking at Target from Distance
// away. Yaw turns about the world Y axis and Pitch tilts toward it, both in
// degrees. With zero yaw and pitch the camera sits on +Z looking down -Z.
type Camera struct {
	Target   mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Distance float64
	// FovY is the vertical field of view in degrees.
	FovY      float64
	Near, Far float64
	// Width and Height are the viewport size in pixels.
	Width, Height int

	orbit *orbitAnim
}

// Camera limits.
const (
	maxPitch    = 89
	minDistance = 1
)

// NewCamera returns a camera with a 30° field of view, the default for a
// desktop 3D viewer, on a viewport of the given size.
func NewCamera(width, height int) *Camera {
	return &Camera{
		Distance: 60,
		FovY:     30,
		Near:     0.1,
		Far:      1000,
		Width:    width,
		Height:   height,
	}
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() mgl64.Vec3 {
	yaw := mgl64.DegToRad(c.Yaw)
	pitch := mgl64.DegToRad(c.Pitch)
	dir := mgl64.Vec3{
		math.Sin(yaw) * math.Cos(pitch),
		math.Sin(pitch),
		math.Cos(yaw) * math.Cos(pitch),
	}
	return c.Target.Add(dir.Mul(c.Distance))
}

// View returns the world-to-eye matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the current viewport.
func (c *Camera) Projection() mgl64.Mat4 {
	aspect := 1.0
	if c.Height > 0 {
		aspect = float64(c.Width) / float64(c.Height)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Ray returns the world-space ray through viewport pixel (x, y). Pixel
// coordinates have their origin at the top-left with Y growing downward.
// The direction is unit length. ok is false when the viewport is empty or
// the camera matrices are singular.
func (c *Camera) Ray(x, y float64) (origin, dir mgl64.Vec3, ok bool) {
	if c.Width <= 0 || c.Height <= 0 {
		return origin, dir, false
	}
	view := c.View()
	proj := c.Projection()
	wy := float64(c.Height) - y
	near, err := mgl64.UnProject(mgl64.Vec3{x, wy, 0}, view, proj, 0, 0, c.Width, c.Height)
	if err != nil {
		return origin, dir, false
	}
	far, err := mgl64.UnProject(mgl64.Vec3{x, wy, 1}, view, proj, 0, 0, c.Width, c.Height)
	if err != nil {
		return origin, dir, false
	}
	d := far.Sub(near)
	if d.Len() == 0 {
		return origin, dir, false
	}
	return near, d.Normalize(), true
}

// Project maps a world point to viewport pixels (top-left origin) and a
// depth in [0, 1], where larger is farther.
func (c *Camera) Project(p mgl64.Vec3) (sx, sy, depth float64) {
	win := mgl64.Project(p, c.View(), c.Projection(), 0, 0, c.Width, c.Height)
	return win.X(), float64(c.Height) - win.Y(), win.Z()
}

// PixelsPerUnit returns how many pixels one world unit spans at the given
// eye-space distance.
func (c *Camera) PixelsPerUnit(dist float64) float64 {
	if dist <= 0 {
		return 0
	}
	half := math.Tan(mgl64.DegToRad(c.FovY) / 2)
	return float64(c.Height) / (2 * dist * half)
}

// SetViewport changes the viewport size.
func (c *Camera) SetViewport(width, height int) {
	c.Width = width
	c.Height = height
}

// Orbit turns the camera by the given yaw and pitch deltas in degrees.
// Yaw wraps into [-180, 180) and pitch is clamped short of the poles.
func (c *Camera) Orbit(dyaw, dpitch float64) {
	c.Yaw = wrapYaw(c.Yaw + dyaw)
	c.Pitch = clampPitch(c.Pitch + dpitch)
}

// wrapYaw maps an angle in degrees into [-180, 180).
func wrapYaw(y float64) float64 {
	return y - 360*math.Floor((y+180)/360)
}

// Dolly scales the orbit distance by factor.
func (c *Camera) Dolly(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = math.Max(minDistance, c.Distance*factor)
}

func clampPitch(p float64) float64 {
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}

// OrbitTo animates yaw, pitch and distance to the given values over duration
// seconds. Yaw turns the short way round.
func (c *Camera) OrbitTo(yaw, pitch, distance float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	from := wrapYaw(c.Yaw)
	to := from + wrapYaw(yaw-from)
	c.Yaw = from
	c.orbit = &orbitAnim{
		yaw:   gween.New(float32(from), float32(to), duration, easeFn),
		pitch: gween.New(float32(c.Pitch), float32(clampPitch(pitch)), duration, easeFn),
		dist:  gween.New(float32(c.Distance), float32(math.Max(minDistance, distance)), duration, easeFn),
	}
}

// Animating reports whether an OrbitTo tween is in progress.
func (c *Camera) Animating() bool {
	return c.orbit != nil
}

// Update advances the orbit animation. It reports whether the camera moved.
func (c *Camera) Update(dt float32) bool {
	if c.orbit == nil {
		return false
	}
	a := c.orbit
	if !a.doneYaw {
		v, done := a.yaw.Update(dt)
		c.Yaw = float64(v)
		if done {
			c.Yaw = wrapYaw(c.Yaw)
		}
		a.doneYaw = done
	}
	if !a.donePitch {
		v, done := a.pitch.Update(dt)
		c.Pitch = float64(v)
		a.donePitch = done
	}
	if !a.doneDist {
		v, done := a.dist.Update(dt)
		c.Distance = float64(v)
		a.doneDist = done
	}
	if a.doneYaw && a.donePitch && a.doneDist {
		c.orbit = nil
	}
	return true
}

// Frame points the camera at the center of the chain's bounds and backs off
// until the bounding sphere fits the vertical field of view.
func (c *Camera) Frame(chain *Chain) {
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	n := 0
	chain.ForEachDrawable(func(d Drawable) {
		center := mgl64.TransformCoordinate(mgl64.Vec3{}, d.Model)
		r := d.Geometry.BoundingRadius()
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], center[i]-r)
			hi[i] = math.Max(hi[i], center[i]+r)
		}
		n++
	})
	if n == 0 {
		return
	}
	c.Target = lo.Add(hi).Mul(0.5)
	radius := hi.Sub(lo).Len() / 2
	c.Distance = math.Max(minDistance, radius/math.Sin(mgl64.DegToRad(c.FovY)/2))
}
