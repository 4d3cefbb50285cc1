package marionette

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	s, err := NewScene(SceneConfig{Logger: NewLogger(&bytes.Buffer{}, log.DebugLevel)})
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	return s
}

type recordingSink struct {
	events []Event
}

func (r *recordingSink) EmitEvent(e Event) { r.events = append(r.events, e) }

func (r *recordingSink) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func pressOn(t *testing.T, s *Scene, name string) {
	t.Helper()
	j := mustJoint(t, s.Chain(), name)
	x, y, _ := s.Camera().Project(s.Chain().PivotWorld(j.ID))
	s.PointerPress(x, y)
}

func TestNewSceneDefaults(t *testing.T) {
	s := newTestScene(t)
	if s.Camera().Width != DefaultWidth || s.Camera().Height != DefaultHeight {
		t.Errorf("viewport = %dx%d", s.Camera().Width, s.Camera().Height)
	}
	if s.SelectedJoint() != nil {
		t.Error("scene starts with a selection")
	}
	if s.Redraws() != 0 {
		t.Errorf("redraws = %d", s.Redraws())
	}
	if s.Policy() != DefaultRotationPolicy() {
		t.Errorf("policy = %+v", s.Policy())
	}
}

func TestNewSceneRejectsMalformedTopology(t *testing.T) {
	top := Topology{Joints: []JointSpec{{Name: "k", Class: ClassKnuckle, Parent: "missing"}}}
	_, err := NewScene(SceneConfig{Topology: &top})
	if !errors.Is(err, ErrMalformedTopology) {
		t.Errorf("err = %v, want ErrMalformedTopology", err)
	}
}

func TestNewSceneRejectsOversizedSweep(t *testing.T) {
	p := RotationPolicy{StepDegrees: 0.0001, SweepLimit: 10}
	_, err := NewScene(SceneConfig{Policy: &p, Logger: NewLogger(&bytes.Buffer{}, log.WarnLevel)})
	if !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("err = %v, want ErrInvalidPolicy", err)
	}
}

func TestKeyWithoutSelectionIsNoOp(t *testing.T) {
	s := newTestScene(t)
	sink := &recordingSink{}
	s.SetEventSink(sink)
	for _, k := range []Key{KeyUp, KeyDown, KeyLeft, KeyRight, KeyOther} {
		s.KeyPress(k)
	}
	if s.Redraws() != 0 {
		t.Errorf("redraws = %d, want 0", s.Redraws())
	}
	for _, j := range s.Chain().Joints() {
		if len(j.History()) != 0 {
			t.Errorf("%s rotated without selection", j.Name)
		}
	}
	if len(sink.events) != 0 {
		t.Errorf("events = %v", sink.types())
	}
}

func TestPointerPressSelectsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewScene(SceneConfig{Logger: NewLogger(&buf, log.InfoLevel)})
	if err != nil {
		t.Fatal(err)
	}
	pressOn(t, s, "index_jnt1")
	j := s.SelectedJoint()
	if j == nil || j.Name != "index_jnt1" {
		t.Fatalf("selected = %v, want index_jnt1", j)
	}
	if !strings.Contains(buf.String(), "index_jnt1 was clicked") {
		t.Errorf("log = %q", buf.String())
	}
	if s.Redraws() != 1 {
		t.Errorf("redraws = %d, want 1", s.Redraws())
	}
}

func TestPointerMissKeepsSelection(t *testing.T) {
	s := newTestScene(t)
	pressOn(t, s, "ring_jnt2")
	s.PointerPress(0, 0)
	if j := s.SelectedJoint(); j == nil || j.Name != "ring_jnt2" {
		t.Errorf("selected after miss = %v", j)
	}
}

func TestCurlScenario(t *testing.T) {
	s := newTestScene(t)
	if !s.SelectByName("index_jnt1") {
		t.Fatal("select failed")
	}
	j := s.SelectedJoint()
	s.KeyPress(KeyUp)
	assertNear(t, "after one press", j.NetDegrees(AxisX), -2)
	s.KeyPress(KeyUp)
	assertNear(t, "after two presses", j.NetDegrees(AxisX), -4)
	// One redraw for the pick and two per press.
	if s.Redraws() != 5 {
		t.Errorf("redraws = %d, want 5", s.Redraws())
	}
}

func TestSpreadOnMidJointIsNoOp(t *testing.T) {
	s := newTestScene(t)
	s.SelectByName("middle_jnt2")
	before := s.Redraws()
	s.KeyPress(KeyLeft)
	s.KeyPress(KeyRight)
	if s.Redraws() != before {
		t.Errorf("redraws went from %d to %d", before, s.Redraws())
	}
	if h := s.SelectedJoint().History(); len(h) != 0 {
		t.Errorf("history = %v", h)
	}
}

func TestSelectByNameUnknown(t *testing.T) {
	s := newTestScene(t)
	if s.SelectByName("elbow") {
		t.Error("selected unknown joint")
	}
}

func TestEventSinkReceivesEvents(t *testing.T) {
	s := newTestScene(t)
	sink := &recordingSink{}
	s.SetEventSink(sink)

	s.PointerPress(0, 0)
	s.SelectByName("thumb_jnt1")
	s.KeyPress(KeyDown)

	want := []EventType{
		EventPickMiss,
		EventPick, EventRedraw,
		EventRotate, EventRedraw,
		EventRotate, EventRedraw,
		EventKey,
	}
	got := sink.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
	last := sink.events[len(sink.events)-1]
	if last.Name != "thumb_jnt1" || last.Key != KeyDown {
		t.Errorf("key event = %+v", last)
	}
	assertNear(t, "key event degrees", last.Degrees, 2)
}

func TestCallbacksAndRemove(t *testing.T) {
	s := newTestScene(t)
	var picks, keys, redraws int
	hp := s.OnPick(func(PickContext) { picks++ })
	s.OnKey(func(ctx KeyContext) {
		keys++
		if ctx.Stops != 2 {
			t.Errorf("stops = %d", ctx.Stops)
		}
	})
	hr := s.OnRedraw(func() { redraws++ })

	s.SelectByName("pinky_jnt1")
	s.KeyPress(KeyRight)
	if picks != 1 || keys != 1 || redraws != 3 {
		t.Errorf("picks=%d keys=%d redraws=%d, want 1 1 3", picks, keys, redraws)
	}

	hp.Remove()
	hr.Remove()
	s.SelectByName("pinky_jnt2")
	if picks != 1 || redraws != 3 {
		t.Errorf("removed callbacks fired: picks=%d redraws=%d", picks, redraws)
	}
	CallbackHandle{}.Remove()
}

func TestInjectedEventsOnePerFrame(t *testing.T) {
	s := newTestScene(t)
	s.SelectByName("middle_jnt1")
	s.InjectKeys(KeyUp, KeyUp, KeyDown)
	j := s.SelectedJoint()

	s.Update(1.0 / 60)
	assertNear(t, "frame 1", j.NetDegrees(AxisX), -2)
	s.Update(1.0 / 60)
	assertNear(t, "frame 2", j.NetDegrees(AxisX), -4)
	s.Update(1.0 / 60)
	assertNear(t, "frame 3", j.NetDegrees(AxisX), -2)
	if s.Pending() != 0 {
		t.Errorf("pending = %d", s.Pending())
	}
	if s.Frame() != 3 {
		t.Errorf("frame = %d", s.Frame())
	}
}

func TestInjectPressSelects(t *testing.T) {
	s := newTestScene(t)
	j := mustJoint(t, s.Chain(), "pinky_jnt2")
	x, y, _ := s.Camera().Project(s.Chain().PivotWorld(j.ID))
	s.InjectPress(x, y)
	s.Update(1.0 / 60)
	if s.SelectedJoint() != j {
		t.Errorf("selected = %v, want pinky_jnt2", s.SelectedJoint())
	}
}

func TestResetPoseKeepsSelection(t *testing.T) {
	s := newTestScene(t)
	s.SelectByName("index_jnt2")
	s.KeyPress(KeyUp)
	s.ResetPose()
	j := s.SelectedJoint()
	if j == nil || j.Name != "index_jnt2" {
		t.Fatalf("selection lost: %v", j)
	}
	if len(j.History()) != 0 {
		t.Errorf("history after reset = %v", j.History())
	}
}

func TestResetCameraAnimates(t *testing.T) {
	s := newTestScene(t)
	cam := s.Camera()
	rest := cam.Distance
	cam.Orbit(40, 20)
	cam.Dolly(2)
	s.ResetCamera(0.5)
	if !cam.Animating() {
		t.Fatal("camera not animating")
	}
	before := s.Redraws()
	for i := 0; i < 60 && cam.Animating(); i++ {
		s.Update(1.0 / 60)
	}
	if cam.Animating() {
		t.Fatal("animation did not finish")
	}
	if s.Redraws() == before {
		t.Error("camera animation requested no redraws")
	}
	assertNearTol(t, "yaw", cam.Yaw, 0, 1e-3)
	assertNearTol(t, "pitch", cam.Pitch, 0, 1e-3)
	assertNearTol(t, "distance", cam.Distance, rest, 1e-3*rest)
}

func TestResetCameraTurnsShortWay(t *testing.T) {
	s := newTestScene(t)
	cam := s.Camera()
	cam.Orbit(350, 0)
	s.ResetCamera(1)
	for i := 0; i < 30; i++ {
		s.Update(1.0 / 60)
		if cam.Yaw > 0 || cam.Yaw < -10-1e-6 {
			t.Fatalf("frame %d: yaw = %v, want within [-10, 0]", i, cam.Yaw)
		}
	}
}

func TestHighlightConfig(t *testing.T) {
	blue := Material{Color: ColorRoyalBlue, Diffuse: 1, EdgeVisible: true}
	s, err := NewScene(SceneConfig{Highlight: &blue, Logger: NewLogger(&bytes.Buffer{}, log.WarnLevel)})
	if err != nil {
		t.Fatal(err)
	}
	s.SelectByName("ring_jnt3")
	if s.SelectedJoint().Material != blue {
		t.Errorf("material = %+v", s.SelectedJoint().Material)
	}
}

func TestDebugModeLogsFrames(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewScene(SceneConfig{Logger: NewLogger(&buf, log.WarnLevel)})
	if err != nil {
		t.Fatal(err)
	}
	s.SetDebugMode(true)
	s.Update(1.0 / 60)
	out := buf.String()
	if !strings.Contains(out, "frame") {
		t.Errorf("debug log = %q", out)
	}
	if strings.Contains(out, "chain check") {
		t.Errorf("chain check failed: %q", out)
	}
}

func TestDebugModeRestoresLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, log.WarnLevel)
	s, err := NewScene(SceneConfig{Logger: logger})
	if err != nil {
		t.Fatal(err)
	}

	s.SetDebugMode(true)
	s.SetDebugMode(true)
	if logger.GetLevel() != log.DebugLevel {
		t.Fatalf("level = %v, want debug", logger.GetLevel())
	}
	s.SetDebugMode(false)
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, want warn restored", logger.GetLevel())
	}

	buf.Reset()
	s.Update(1.0 / 60)
	s.SelectByName("index_jnt1")
	if buf.Len() != 0 {
		t.Errorf("logged after debug mode ended: %q", buf.String())
	}

	// A logger already at Debug is left alone.
	logger.SetLevel(log.DebugLevel)
	s.SetDebugMode(true)
	s.SetDebugMode(false)
	if logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug kept", logger.GetLevel())
	}
}

func TestRedrawEventNamesSelection(t *testing.T) {
	s := newTestScene(t)
	sink := &recordingSink{}
	s.SetEventSink(sink)

	s.ResetPose()
	s.SelectByName("ring_jnt2")
	s.ResetPose()

	var redraws []Event
	for _, e := range sink.events {
		if e.Type == EventRedraw {
			redraws = append(redraws, e)
		}
	}
	if len(redraws) != 3 || uint64(len(redraws)) != s.Redraws() {
		t.Fatalf("redraw events = %d, redraws = %d, want 3", len(redraws), s.Redraws())
	}
	if redraws[0].Joint != NoJoint || redraws[0].Name != "" {
		t.Errorf("redraw without selection = %+v", redraws[0])
	}
	if redraws[2].Name != "ring_jnt2" {
		t.Errorf("redraw after select = %+v", redraws[2])
	}
}

func TestCallbackRemovesItselfDuringDispatch(t *testing.T) {
	tests := []struct {
		name     string
		register func(s *Scene, fn func()) CallbackHandle
	}{
		{"pick", func(s *Scene, fn func()) CallbackHandle {
			return s.OnPick(func(PickContext) { fn() })
		}},
		{"key", func(s *Scene, fn func()) CallbackHandle {
			return s.OnKey(func(KeyContext) { fn() })
		}},
		{"redraw", func(s *Scene, fn func()) CallbackHandle {
			return s.OnRedraw(fn)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t)
			var once, after int
			var h CallbackHandle
			h = tt.register(s, func() {
				once++
				h.Remove()
			})
			tt.register(s, func() { after++ })

			s.SelectByName("index_jnt1")
			s.KeyPress(KeyUp)
			s.KeyPress(KeyUp)

			if once != 1 {
				t.Errorf("one-shot callback fired %d times, want 1", once)
			}
			if after == 0 {
				t.Error("callback registered after the one-shot never fired")
			}
			j := s.SelectedJoint()
			assertNear(t, "flex", j.NetDegrees(j.FlexAxis), -4)
		})
	}
}

func TestCallbackRemovesLaterCallback(t *testing.T) {
	s := newTestScene(t)
	var second int
	var h2 CallbackHandle
	s.OnRedraw(func() { h2.Remove() })
	h2 = s.OnRedraw(func() { second++ })

	s.RequestRedraw()
	s.RequestRedraw()
	if second > 1 {
		t.Errorf("removed callback fired %d times after removal", second)
	}
	if len(s.handlers.redraw) != 1 {
		t.Errorf("redraw handlers = %d, want 1", len(s.handlers.redraw))
	}
}
