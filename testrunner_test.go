package marionette

import (
	"strings"
	"testing"
)

func TestLoadTestScript(t *testing.T) {
	script := `{"steps": [
		{"action": "select", "joint": "index_jnt1"},
		{"action": "press", "key": "Up", "repeat": 3},
		{"action": "wait", "frames": 2},
		{"action": "snapshot", "label": "curl"},
		{"action": "reset"}
	]}`
	r, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	if r.Len() != 5 {
		t.Errorf("len = %d, want 5", r.Len())
	}
	if r.Done() {
		t.Error("fresh runner reports done")
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"bad json", `{"steps": [`, "parse test script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown key", `{"steps": [{"action": "press", "key": "Space"}]}`, "unknown key"},
		{"select without joint", `{"steps": [{"action": "select"}]}`, "needs a joint"},
		{"unknown action", `{"steps": [{"action": "dance"}]}`, "unknown action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.script))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestRunScriptCurlsFinger(t *testing.T) {
	s := newTestScene(t)
	var labels []string
	s.SetSnapshotHandler(func(label string) error {
		labels = append(labels, label)
		return nil
	})
	r, err := LoadTestScript([]byte(`{"steps": [
		{"action": "select", "joint": "middle_jnt2"},
		{"action": "press", "key": "Down", "repeat": 3},
		{"action": "snapshot", "label": "bent"},
		{"action": "press", "key": "Left"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	frames, ok := s.RunScript(r, 1.0/60, 100)
	if !ok {
		t.Fatalf("script did not finish in %d frames", frames)
	}
	j := s.SelectedJoint()
	if j == nil || j.Name != "middle_jnt2" {
		t.Fatalf("selected = %v", j)
	}
	assertNear(t, "flex", j.NetDegrees(AxisX), 6)
	// Left is ignored by mid joints.
	assertNear(t, "spread", j.NetDegrees(AxisZ), 0)
	if len(labels) != 1 || labels[0] != "bent" {
		t.Errorf("snapshots = %v", labels)
	}
}

func TestRunScriptSnapshotAfterPresses(t *testing.T) {
	s := newTestScene(t)
	var flexAtSnapshot float64
	s.SetSnapshotHandler(func(string) error {
		flexAtSnapshot = s.SelectedJoint().NetDegrees(AxisX)
		return nil
	})
	r, err := LoadTestScript([]byte(`{"steps": [
		{"action": "select", "joint": "ring_jnt1"},
		{"action": "press", "key": "Up", "repeat": 2},
		{"action": "snapshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.RunScript(r, 1.0/60, 50); !ok {
		t.Fatal("script did not finish")
	}
	assertNear(t, "flex at snapshot", flexAtSnapshot, -4)
}

func TestRunScriptWaitAndReset(t *testing.T) {
	s := newTestScene(t)
	r, err := LoadTestScript([]byte(`{"steps": [
		{"action": "select", "joint": "pinky_jnt1"},
		{"action": "press", "key": "Right"},
		{"action": "wait", "frames": 5},
		{"action": "reset"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	frames, ok := s.RunScript(r, 1.0/60, 50)
	if !ok {
		t.Fatal("script did not finish")
	}
	if frames < 7 {
		t.Errorf("frames = %d, want the wait to take effect", frames)
	}
	if h := s.SelectedJoint().History(); len(h) != 0 {
		t.Errorf("history after reset = %v", h)
	}
}

func TestRunScriptClickMisses(t *testing.T) {
	s := newTestScene(t)
	r, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 0, "y": 0}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.RunScript(r, 1.0/60, 10); !ok {
		t.Fatal("script did not finish")
	}
	if s.SelectedJoint() != nil {
		t.Error("corner click selected a joint")
	}
}

func TestRunScriptFrameLimit(t *testing.T) {
	s := newTestScene(t)
	r, err := LoadTestScript([]byte(`{"steps": [{"action": "wait", "frames": 100}]}`))
	if err != nil {
		t.Fatal(err)
	}
	frames, ok := s.RunScript(r, 1.0/60, 10)
	if ok || frames != 10 {
		t.Errorf("frames = %d, ok = %v; want 10, false", frames, ok)
	}
}
