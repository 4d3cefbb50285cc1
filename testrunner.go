package marionette

import (
	"encoding/json"
	"fmt"
)

// Script actions.
const (
	ActionClick    = "click"
	ActionPress    = "press"
	ActionSelect   = "select"
	ActionWait     = "wait"
	ActionSnapshot = "snapshot"
	ActionReset    = "reset"
)

// testStep represents a single action in an interaction script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Key    string  `json:"key,omitempty"`
	Joint  string  `json:"joint,omitempty"`
	Repeat int     `json:"repeat,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for an interaction script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences clicks, key presses and snapshots across frames.
// Attach it to a Scene with SetTestRunner and call Scene.Update until Done.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON interaction script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case ActionClick, ActionWait, ActionSnapshot, ActionReset:
		case ActionPress:
			if ParseKey(st.Key) == KeyOther {
				return nil, fmt.Errorf("parse test script: step %d: unknown key %q", i, st.Key)
			}
		case ActionSelect:
			if st.Joint == "" {
				return nil, fmt.Errorf("parse test script: step %d: select needs a joint", i)
			}
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner to the scene. The runner advances from
// Scene.Update on frames with no injected event to consume.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Len returns the number of steps in the script.
func (r *TestRunner) Len() int {
	return len(r.steps)
}

// step advances the runner by one frame. Called from Scene.Update.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case ActionClick:
		s.InjectPress(st.X, st.Y)
	case ActionPress:
		n := max(st.Repeat, 1)
		k := ParseKey(st.Key)
		for range n {
			s.InjectKey(k)
		}
	case ActionSelect:
		s.SelectByName(st.Joint)
	case ActionWait:
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case ActionSnapshot:
		s.Snapshot(st.Label)
	case ActionReset:
		s.ResetPose()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

// RunScript attaches runner and updates the scene until the script and all
// injected events are finished, or maxFrames frames have passed. It returns
// the number of frames used and whether the script completed.
func (s *Scene) RunScript(runner *TestRunner, dt float32, maxFrames int) (int, bool) {
	s.SetTestRunner(runner)
	for i := 0; i < maxFrames; i++ {
		if runner.Done() && len(s.injectQueue) == 0 {
			return i, true
		}
		s.Update(dt)
	}
	return maxFrames, runner.Done() && len(s.injectQueue) == 0
}
