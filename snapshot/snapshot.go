// Package snapshot renders a marionette scene to an image without a window.
//
// Silhouettes are rasterized with golang.org/x/image/vector at a supersampled
// size and downscaled with CatmullRom. Images are written as PNG or WebP.
package snapshot

import (
	"image"
	"image/color"
	"math"
	"path/filepath"

	"github.com/phanxgames/marionette"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Options controls Render.
type Options struct {
	// Width and Height are the output size in pixels. Zero uses the scene
	// camera's viewport.
	Width, Height int
	// Supersample renders at this multiple of the output size before
	// downscaling. Values below 1 are treated as 1.
	Supersample int
	// Background fills the image before drawing.
	Background marionette.Color
	// EdgeWidth is the outline width in output pixels for materials with
	// visible edges.
	EdgeWidth float64
}

// DefaultOptions returns 2× supersampling on a white background.
func DefaultOptions() Options {
	return Options{
		Supersample: 2,
		Background:  marionette.ColorWhite,
		EdgeWidth:   1.5,
	}
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// Render draws the scene's current pose as seen by its camera.
func Render(s *marionette.Scene, opts Options) *image.NRGBA {
	return RenderChain(s.Chain(), s.Camera(), opts)
}

// RenderChain draws chain as seen by cam. The camera is not modified; a copy
// is resized to the render target.
func RenderChain(chain *marionette.Chain, cam *marionette.Camera, opts Options) *image.NRGBA {
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = cam.Width
	}
	if h <= 0 {
		h = cam.Height
	}
	ss := max(opts.Supersample, 1)
	sw, sh := w*ss, h*ss

	view := *cam
	view.SetViewport(sw, sh)

	canvas := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background.NRGBA()), image.Point{}, draw.Src)

	edge := opts.EdgeWidth * float64(ss)
	ras := vector.NewRasterizer(sw, sh)
	for _, sil := range marionette.ProjectSilhouettes(chain, &view, nil) {
		fill := image.NewUniform(sil.Fill.NRGBA())
		if len(sil.Outline) == 0 {
			if sil.Edge && edge > 0 {
				disc(ras, sil.Center, sil.Radius+edge)
				paint(ras, canvas, image.NewUniform(color.Black))
			}
			disc(ras, sil.Center, sil.Radius)
			paint(ras, canvas, fill)
			continue
		}
		polygon(ras, sil.Outline)
		paint(ras, canvas, fill)
		if sil.Edge && edge > 0 {
			for i := range sil.Outline {
				segment(ras, sil.Outline[i], sil.Outline[(i+1)%len(sil.Outline)], edge)
			}
			paint(ras, canvas, image.NewUniform(color.Black))
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if ss == 1 {
		draw.Draw(out, out.Bounds(), canvas, image.Point{}, draw.Src)
		return out
	}
	small := image.NewRGBA(out.Bounds())
	draw.CatmullRom.Scale(small, small.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	draw.Draw(out, out.Bounds(), small, image.Point{}, draw.Src)
	return out
}

// paint composites the rasterizer's accumulated path onto dst and resets it.
func paint(ras *vector.Rasterizer, dst *image.RGBA, src image.Image) {
	ras.DrawOp = draw.Over
	ras.Draw(dst, dst.Bounds(), src, image.Point{})
	b := dst.Bounds()
	ras.Reset(b.Dx(), b.Dy())
}

func disc(ras *vector.Rasterizer, c [2]float64, r float64) {
	if r <= 0 {
		return
	}
	x, y := float32(c[0]), float32(c[1])
	rr := float32(r)
	k := float32(kappa * r)
	ras.MoveTo(x+rr, y)
	ras.CubeTo(x+rr, y+k, x+k, y+rr, x, y+rr)
	ras.CubeTo(x-k, y+rr, x-rr, y+k, x-rr, y)
	ras.CubeTo(x-rr, y-k, x-k, y-rr, x, y-rr)
	ras.CubeTo(x+k, y-rr, x+rr, y-k, x+rr, y)
	ras.ClosePath()
}

func polygon(ras *vector.Rasterizer, pts [][2]float64) {
	if len(pts) < 3 {
		return
	}
	ras.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		ras.LineTo(float32(p[0]), float32(p[1]))
	}
	ras.ClosePath()
}

// segment adds a quad of the given width centered on a→b.
func segment(ras *vector.Rasterizer, a, b [2]float64, width float64) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	ras.MoveTo(float32(a[0]+nx), float32(a[1]+ny))
	ras.LineTo(float32(b[0]+nx), float32(b[1]+ny))
	ras.LineTo(float32(b[0]-nx), float32(b[1]-ny))
	ras.LineTo(float32(a[0]-nx), float32(a[1]-ny))
	ras.ClosePath()
}

// Handler returns a snapshot handler for marionette.Scene.SetSnapshotHandler
// that renders each labeled snapshot into dir as <label>.<format>.
func Handler(s *marionette.Scene, dir string, format Format, opts Options) func(label string) error {
	return func(label string) error {
		img := Render(s, opts)
		return WriteFile(filepath.Join(dir, SanitizeLabel(label)+"."+format.String()), img)
	}
}
