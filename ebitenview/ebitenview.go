// Package ebitenview shows a marionette scene in an Ebitengine window.
//
// Left click selects a joint, the arrow keys curl and spread it, right-drag
// orbits the camera and the wheel zooms. Home resets the camera, R resets
// the pose, F3 toggles per-frame debug logging and Escape closes the window.
package ebitenview

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/marionette"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// ResetSeconds is the duration of the Home camera reset animation.
	ResetSeconds float32
	Background   marionette.Color
}

const (
	// orbitDegreesPerPixel converts right-drag distance to camera rotation.
	orbitDegreesPerPixel = 0.4
	// wheelZoom is the dolly factor for one wheel notch.
	wheelZoom = 0.9
	// fpsInterval is how often the FPS overlay text refreshes, in seconds.
	fpsInterval = 0.5
)

// Game implements ebiten.Game for a marionette scene.
type Game struct {
	ctx   context.Context
	scene *marionette.Scene
	cfg   RunConfig

	sils  []marionette.Silhouette
	verts []ebiten.Vertex
	inds  []uint16
	pts   [][2]float64

	dragging     bool
	lastX, lastY int
	debug        bool

	fpsText    string
	fpsElapsed float64
}

// NewGame wraps scene. The camera viewport follows the window size.
func NewGame(ctx context.Context, scene *marionette.Scene, cfg RunConfig) *Game {
	if cfg.Background == (marionette.Color{}) {
		cfg.Background = marionette.ColorWhite
	}
	return &Game{ctx: ctx, scene: scene, cfg: cfg}
}

// Run opens a window on scene and blocks until it is closed, Escape is
// pressed or ctx is cancelled. A cancelled context is returned as ctx.Err().
func Run(ctx context.Context, scene *marionette.Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = marionette.DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = marionette.DefaultHeight
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	scene.Logger().Info("window opened", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	if err := ebiten.RunGame(NewGame(ctx, scene, cfg)); err != nil {
		return err
	}
	return ctx.Err()
}

// Update polls input and advances the scene by one tick.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.scene.PointerPress(float64(x), float64(y))
	}
	for _, ek := range arrowKeys {
		if inpututil.IsKeyJustPressed(ek) {
			g.scene.KeyPress(keyFor(ek))
		}
	}

	g.updateOrbit()
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.scene.Camera().Dolly(math.Pow(wheelZoom, dy))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.scene.ResetCamera(g.cfg.ResetSeconds)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.scene.ResetPose()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
		g.scene.SetDebugMode(g.debug)
	}

	dt := 1 / float64(ebiten.TPS())
	g.scene.Update(float32(dt))
	g.updateFPS(dt)
	return nil
}

func (g *Game) updateOrbit() {
	x, y := ebiten.CursorPosition()
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		g.dragging = false
		return
	}
	if g.dragging {
		dx, dy := x-g.lastX, y-g.lastY
		if dx != 0 || dy != 0 {
			g.scene.Camera().Orbit(-float64(dx)*orbitDegreesPerPixel, float64(dy)*orbitDegreesPerPixel)
		}
	}
	g.dragging = true
	g.lastX, g.lastY = x, y
}

func (g *Game) updateFPS(dt float64) {
	if !g.cfg.ShowFPS {
		return
	}
	g.fpsElapsed += dt
	if g.fpsElapsed < fpsInterval && g.fpsText != "" {
		return
	}
	g.fpsElapsed = 0
	g.fpsText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

// Draw renders the hand back to front in a single triangle batch.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background.NRGBA())

	g.sils = g.scene.Silhouettes(g.sils)
	g.verts, g.inds = g.verts[:0], g.inds[:0]
	for i := range g.sils {
		g.appendSilhouette(&g.sils[i])
	}
	if len(g.inds) > 0 {
		screen.DrawTriangles(g.verts, g.inds, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
	}

	g.drawOverlay(screen)
}

// Layout keeps the camera viewport equal to the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cam := g.scene.Camera()
	if cam.Width != outsideWidth || cam.Height != outsideHeight {
		cam.SetViewport(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	if g.fpsText != "" {
		ebitenutil.DebugPrintAt(screen, g.fpsText, 4, 4)
	}
	status := "click a joint"
	if j := g.scene.SelectedJoint(); j != nil {
		status = fmt.Sprintf("%s  flex %+.1f  spread %+.1f", j.Name,
			j.NetDegrees(j.FlexAxis), j.NetDegrees(j.SpreadAxis))
	}
	if g.debug {
		status += "  [debug]"
	}
	h := screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, status, 4, h-20)
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}
