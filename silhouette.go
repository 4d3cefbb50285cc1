package marionette

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Silhouette is a drawable projected to the viewport: a disc for spheres and
// a convex outline for cylinders and boxes. Coordinates are viewport pixels
// with a top-left origin.
type Silhouette struct {
	Drawable Drawable
	// Center and Radius describe sphere discs.
	Center [2]float64
	Radius float64
	// Outline is the convex hull of the projected primitive, counter-clockwise
	// in screen space. Empty for spheres.
	Outline [][2]float64
	// Depth is the distance along the view direction; larger is farther.
	Depth float64
	// Fill is the shaded fill color.
	Fill Color
	// Edge is true when the material asks for outlined edges.
	Edge bool
}

// cylinderSides is the number of samples taken around each cylinder cap.
const cylinderSides = 16

// Silhouettes projects every drawable in front of the camera and returns
// them sorted back to front, ties in draw order. The result is appended to
// buf[:0].
func (s *Scene) Silhouettes(buf []Silhouette) []Silhouette {
	return ProjectSilhouettes(s.chain, s.camera, buf)
}

// ProjectSilhouettes is Silhouettes for an explicit chain and camera.
func ProjectSilhouettes(chain *Chain, cam *Camera, buf []Silhouette) []Silhouette {
	out := buf[:0]
	view := cam.View()
	forward := cam.Target.Sub(cam.Eye()).Normalize()
	chain.ForEachDrawable(func(d Drawable) {
		center := mgl64.TransformCoordinate(mgl64.Vec3{}, d.Model)
		eyeZ := mgl64.TransformCoordinate(center, view).Z()
		if -eyeZ <= cam.Near {
			return
		}
		sil := Silhouette{
			Drawable: d,
			Depth:    -eyeZ,
			Fill:     shade(d, center, cam.Eye(), forward),
			Edge:     d.Material.EdgeVisible,
		}
		switch d.Geometry.Kind {
		case GeometrySphere:
			sx, sy, _ := cam.Project(center)
			sil.Center = [2]float64{sx, sy}
			sil.Radius = d.Geometry.Radius * cam.PixelsPerUnit(-eyeZ)
		default:
			pts := primitiveCorners(d.Geometry)
			screen := make([][2]float64, len(pts))
			for i, p := range pts {
				x, y, _ := cam.Project(mgl64.TransformCoordinate(p, d.Model))
				screen[i] = [2]float64{x, y}
			}
			sil.Outline = convexHull(screen)
			sx, sy, _ := cam.Project(center)
			sil.Center = [2]float64{sx, sy}
		}
		out = append(out, sil)
	})
	slices.SortStableFunc(out, func(a, b Silhouette) int {
		if c := cmp.Compare(b.Depth, a.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.Drawable.Order, b.Drawable.Order)
	})
	return out
}

// shade applies a headlight term: surfaces facing the eye keep their full
// color, scaled by the material's diffuse weight, with a small ambient floor.
func shade(d Drawable, center, eye, forward mgl64.Vec3) Color {
	toEye := eye.Sub(center)
	facing := 1.0
	if l := toEye.Len(); l > 0 {
		facing = math.Abs(toEye.Mul(1 / l).Dot(forward))
	}
	k := 0.35 + 0.65*d.Material.Diffuse*facing + 0.2*d.Material.Specular
	return d.Material.Color.Scale(math.Min(k, 1))
}

// primitiveCorners samples the outline points of a non-sphere primitive in
// its local frame.
func primitiveCorners(g Geometry) []mgl64.Vec3 {
	switch g.Kind {
	case GeometryCylinder:
		h := g.Height / 2
		pts := make([]mgl64.Vec3, 0, 2*cylinderSides)
		for i := 0; i < cylinderSides; i++ {
			a := 2 * math.Pi * float64(i) / cylinderSides
			x, z := g.Radius*math.Cos(a), g.Radius*math.Sin(a)
			pts = append(pts, mgl64.Vec3{x, -h, z}, mgl64.Vec3{x, h, z})
		}
		return pts
	case GeometryBox:
		hx, hy, hz := g.Size[0]/2, g.Size[1]/2, g.Size[2]/2
		pts := make([]mgl64.Vec3, 0, 8)
		for _, x := range [2]float64{-hx, hx} {
			for _, y := range [2]float64{-hy, hy} {
				for _, z := range [2]float64{-hz, hz} {
					pts = append(pts, mgl64.Vec3{x, y, z})
				}
			}
		}
		return pts
	}
	return nil
}

// convexHull returns the hull of pts using Andrew's monotone chain.
func convexHull(pts [][2]float64) [][2]float64 {
	if len(pts) < 3 {
		return append([][2]float64(nil), pts...)
	}
	p := append([][2]float64(nil), pts...)
	slices.SortFunc(p, func(a, b [2]float64) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	cross := func(o, a, b [2]float64) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}
	hull := make([][2]float64, 0, 2*len(p))
	for _, pt := range p {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	lower := len(hull) + 1
	for i := len(p) - 2; i >= 0; i-- {
		pt := p[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	return hull[:len(hull)-1]
}
