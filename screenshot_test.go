package marionette

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSnapshotCallsHandler(t *testing.T) {
	s := newTestScene(t)
	var got []string
	s.SetSnapshotHandler(func(label string) error {
		got = append(got, label)
		return nil
	})
	s.Snapshot("rest")
	s.Snapshot("curl")
	if len(got) != 2 || got[0] != "rest" || got[1] != "curl" {
		t.Errorf("labels = %v", got)
	}
}

func TestSnapshotSeesCurrentPose(t *testing.T) {
	s := newTestScene(t)
	j := mustJoint(t, s.Chain(), "index_jnt3")
	var world [3]float64
	s.SetSnapshotHandler(func(string) error {
		p := s.Chain().PivotWorld(j.ID)
		world = [3]float64{p.X(), p.Y(), p.Z()}
		return nil
	})
	before := s.Chain().PivotWorld(j.ID)
	s.SelectByName("index_jnt1")
	s.KeyPress(KeyDown)
	s.Snapshot("moved")
	if world[2] == before.Z() {
		t.Error("snapshot saw the rest pose after a flex")
	}
}

func TestSnapshotWithoutHandler(t *testing.T) {
	s := newTestScene(t)
	s.Snapshot("nothing")
}

func TestSnapshotErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewScene(SceneConfig{Logger: NewLogger(&buf, log.InfoLevel)})
	if err != nil {
		t.Fatal(err)
	}
	s.SetSnapshotHandler(func(string) error { return errors.New("disk full") })
	s.Snapshot("broken")
	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("log = %q", buf.String())
	}
}
