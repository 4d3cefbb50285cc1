package ebitenview

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/marionette"
)

// discSides is the number of fan points used for a sphere disc.
const discSides = 32

// edgeWidth is the outline width in pixels for materials with edges.
const edgeWidth = 1.5

var arrowKeys = []ebiten.Key{
	ebiten.KeyArrowUp,
	ebiten.KeyArrowDown,
	ebiten.KeyArrowLeft,
	ebiten.KeyArrowRight,
}

// keyFor maps an Ebitengine key to the scene's key set.
func keyFor(k ebiten.Key) marionette.Key {
	switch k {
	case ebiten.KeyArrowUp:
		return marionette.KeyUp
	case ebiten.KeyArrowDown:
		return marionette.KeyDown
	case ebiten.KeyArrowLeft:
		return marionette.KeyLeft
	case ebiten.KeyArrowRight:
		return marionette.KeyRight
	}
	return marionette.KeyOther
}

func (g *Game) appendSilhouette(sil *marionette.Silhouette) {
	if len(sil.Outline) == 0 {
		if sil.Edge {
			g.pts = discPoints(g.pts[:0], sil.Center, sil.Radius+edgeWidth, discSides)
			g.verts, g.inds = appendFan(g.verts, g.inds, g.pts, marionette.ColorBlack)
		}
		g.pts = discPoints(g.pts[:0], sil.Center, sil.Radius, discSides)
		g.verts, g.inds = appendFan(g.verts, g.inds, g.pts, sil.Fill)
		return
	}

	g.verts, g.inds = appendFan(g.verts, g.inds, sil.Outline, sil.Fill)
	if !sil.Edge {
		return
	}
	n := len(sil.Outline)
	for i := range sil.Outline {
		g.pts = edgeQuad(g.pts[:0], sil.Outline[i], sil.Outline[(i+1)%n], edgeWidth)
		g.verts, g.inds = appendFan(g.verts, g.inds, g.pts, marionette.ColorBlack)
	}
}

// appendFan appends a convex polygon as a triangle fan sampling the center
// of the white pixel. Polygons with fewer than three points are skipped.
func appendFan(verts []ebiten.Vertex, inds []uint16, pts [][2]float64, c marionette.Color) ([]ebiten.Vertex, []uint16) {
	n := len(pts)
	if n < 3 {
		return verts, inds
	}
	base := uint16(len(verts))
	r, gr, b, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	for _, p := range pts {
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(p[0]),
			DstY:   float32(p[1]),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: r,
			ColorG: gr,
			ColorB: b,
			ColorA: a,
		})
	}
	// Vertex 0 is the hub.
	for i := 0; i < n-2; i++ {
		inds = append(inds, base, base+uint16(i+1), base+uint16(i+2))
	}
	return verts, inds
}

// discPoints appends n points on the circle of radius r around c.
func discPoints(dst [][2]float64, c [2]float64, r float64, n int) [][2]float64 {
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		dst = append(dst, [2]float64{c[0] + r*math.Cos(a), c[1] + r*math.Sin(a)})
	}
	return dst
}

// edgeQuad appends the rectangle of the given width centered on segment ab.
func edgeQuad(dst [][2]float64, a, b [2]float64, width float64) [][2]float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return dst
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	return append(dst,
		[2]float64{a[0] + nx, a[1] + ny},
		[2]float64{b[0] + nx, b[1] + ny},
		[2]float64{b[0] - nx, b[1] - ny},
		[2]float64{a[0] - nx, a[1] - ny},
	)
}
