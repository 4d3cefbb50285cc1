package marionette

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Default viewport size.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// SceneConfig configures NewScene. Zero fields take defaults.
type SceneConfig struct {
	// Topology is the hand to build. Defaults to DefaultTopology.
	Topology *Topology
	// Width and Height size the camera viewport. Default 640 × 480.
	Width, Height int
	// Policy maps keys to rotations. Defaults to DefaultRotationPolicy.
	Policy *RotationPolicy
	// Highlight replaces HighlightMaterial for the selected joint.
	Highlight *Material
	// JointsOnly makes the picker ignore segments.
	JointsOnly bool
	// Logger receives interaction logs. Defaults to NewLogger(os.Stderr, log.WarnLevel).
	Logger *log.Logger
	// Store receives scene events.
	Store EventSink
}

// Scene owns the hand and everything that reads or mutates it: camera,
// picker, selection and rotation policy. All methods must be called from one
// goroutine.
type Scene struct {
	chain     *Chain
	camera    *Camera
	picker    *Picker
	selection *Selection
	policy    RotationPolicy
	logger    *log.Logger
	store     EventSink
	debug     bool
	// restoreLevel is the logger level to put back when debug mode ends,
	// set only when SetDebugMode lowered it.
	restoreLevel *log.Level

	handlers handlerRegistry
	redraws  uint64
	frame    uint64

	injectQueue []syntheticEvent
	testRunner  *TestRunner
	onSnapshot  func(label string) error
}

// NewLogger returns a logger in the format used by the scene and the CLI.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "marionette",
	})
}

// NewScene builds the chain and wires the camera, picker and selection to
// it. The camera is framed on the rest pose. It fails when the topology is
// malformed or the policy does not validate.
func NewScene(cfg SceneConfig) (*Scene, error) {
	top := DefaultTopology()
	if cfg.Topology != nil {
		top = *cfg.Topology
	}
	chain, err := BuildChain(top)
	if err != nil {
		return nil, fmt.Errorf("build chain: %w", err)
	}

	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	cam := NewCamera(w, h)
	cam.Frame(chain)

	policy := DefaultRotationPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewLogger(os.Stderr, log.WarnLevel)
	}

	s := &Scene{
		chain:     chain,
		camera:    cam,
		picker:    NewPicker(cam, chain),
		selection: NewSelection(chain),
		policy:    policy,
		logger:    logger,
		store:     cfg.Store,
	}
	s.picker.JointsOnly = cfg.JointsOnly
	if cfg.Highlight != nil {
		s.selection.SetHighlight(*cfg.Highlight)
	}
	return s, nil
}

// Chain returns the scene's chain.
func (s *Scene) Chain() *Chain { return s.chain }

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Picker returns the scene's picker.
func (s *Scene) Picker() *Picker { return s.picker }

// Selection returns the scene's selection.
func (s *Scene) Selection() *Selection { return s.selection }

// Policy returns the rotation policy.
func (s *Scene) Policy() RotationPolicy { return s.policy }

// Logger returns the scene's logger.
func (s *Scene) Logger() *log.Logger { return s.logger }

// SelectedJoint returns the selected joint, or nil.
func (s *Scene) SelectedJoint() *Joint {
	id, ok := s.selection.Selected()
	if !ok {
		return nil
	}
	return s.chain.Joint(id)
}

// SetEventSink sets the sink that receives scene events. Pass nil to stop.
func (s *Scene) SetEventSink(store EventSink) {
	s.store = store
}

// SetDebugMode enables per-frame timing logs and extra consistency checks.
// Enabling lowers the logger to Debug; disabling restores the previous level.
func (s *Scene) SetDebugMode(enabled bool) {
	if !enabled {
		s.debug = false
		if s.restoreLevel != nil {
			s.logger.SetLevel(*s.restoreLevel)
			s.restoreLevel = nil
		}
		return
	}
	s.debug = true
	if lvl := s.logger.GetLevel(); lvl > log.DebugLevel && s.restoreLevel == nil {
		s.restoreLevel = &lvl
		s.logger.SetLevel(log.DebugLevel)
	}
	debugCheckDepth(s.chain, s.logger)
}

// Frame returns the number of Update calls so far.
func (s *Scene) Frame() uint64 { return s.frame }

// Update advances one frame: consumes at most one injected event, steps the
// script runner and the camera animation, and refreshes world matrices.
func (s *Scene) Update(dt float32) {
	var start time.Time
	if s.debug {
		start = time.Now()
	}

	if !s.processInjected() && s.testRunner != nil && !s.testRunner.Done() {
		s.testRunner.step(s)
	}
	if s.camera.Update(dt) {
		s.RequestRedraw()
	}
	s.chain.UpdateWorld()
	s.frame++

	if s.debug {
		s.debugLog(time.Since(start))
		debugCheckChain(s.chain, s.logger)
	}
}

// RequestRedraw records that the pose or appearance changed, emits
// EventRedraw and notifies redraw callbacks.
func (s *Scene) RequestRedraw() {
	s.redraws++
	joint, name := NoJoint, ""
	if j := s.SelectedJoint(); j != nil {
		joint, name = j.ID, j.Name
	}
	s.emitEvent(Event{Type: EventRedraw, Joint: joint, Name: name})
	for _, h := range s.handlers.redraw {
		h.fn()
	}
}

// Redraws returns the number of redraw requests so far.
func (s *Scene) Redraws() uint64 { return s.redraws }

// ResetPose returns every joint to its rest pose and keeps the selection.
func (s *Scene) ResetPose() {
	s.chain.ResetPose()
	s.logger.Info("pose reset")
	s.RequestRedraw()
}

// ResetCamera animates the camera back to its framed rest view.
func (s *Scene) ResetCamera(duration float32) {
	target := NewCamera(s.camera.Width, s.camera.Height)
	target.FovY = s.camera.FovY
	target.Frame(s.chain)
	s.camera.Target = target.Target
	s.camera.OrbitTo(0, 0, target.Distance, duration, nil)
}
