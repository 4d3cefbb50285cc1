package marionette

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCheckChainClean(t *testing.T) {
	c := defaultChain(t)
	if errs := checkChain(c); len(errs) != 0 {
		t.Errorf("fresh chain: %v", errs)
	}
	DefaultRotationPolicy().Apply(c, mustJoint(t, c, "index_jnt1").ID, KeyUp, nil)
	c.UpdateWorld()
	if errs := checkChain(c); len(errs) != 0 {
		t.Errorf("posed chain: %v", errs)
	}
}

func TestCheckChainDetectsStaleCache(t *testing.T) {
	c := defaultChain(t)
	c.UpdateWorld()
	j := mustJoint(t, c, "middle_jnt2")
	// Rotate behind the chain's back so the cache is not invalidated.
	j.transform.RotateAboutPivot(AxisX, 30, j.Pivot)
	errs := checkChain(c)
	if len(errs) == 0 {
		t.Fatal("stale world matrix not detected")
	}
	if !strings.Contains(errs[0].Error(), "middle_jnt2") {
		t.Errorf("err = %v", errs[0])
	}
}

func TestChainDepth(t *testing.T) {
	c := defaultChain(t)
	tests := map[string]int{
		WristName:     1,
		"index_jnt1":  2,
		"index_jnt2":  3,
		"thumb_jnt3":  4,
	}
	for name, want := range tests {
		if got := chainDepth(c, mustJoint(t, c, name).ID); got != want {
			t.Errorf("depth(%s) = %d, want %d", name, got, want)
		}
	}
}

func TestDebugCheckDepthQuietForHand(t *testing.T) {
	var buf bytes.Buffer
	debugCheckDepth(defaultChain(t), NewLogger(&buf, log.DebugLevel))
	if buf.Len() != 0 {
		t.Errorf("unexpected warnings: %s", buf.String())
	}
}

func TestReport(t *testing.T) {
	s := newTestScene(t)
	s.SelectByName("thumb_jnt1")
	s.KeyPress(KeyUp)

	rep := s.Report()
	if len(rep) != 16 {
		t.Fatalf("report rows = %d, want 16", len(rep))
	}
	if rep[0].Name != WristName || rep[0].Parent != "" {
		t.Errorf("first row = %+v", rep[0])
	}
	var thumb PoseReport
	for _, r := range rep {
		if r.Name == "thumb_jnt1" {
			thumb = r
		}
	}
	if thumb.Parent != WristName || thumb.Class != ClassKnuckle || thumb.Digit != DigitThumb {
		t.Errorf("thumb row = %+v", thumb)
	}
	assertNear(t, "thumb flex", thumb.Flex, -2)
	// The rest offset is committed at build time and not reported.
	assertNear(t, "thumb spread", thumb.Spread, -0.6)
	if thumb.Steps != 4 {
		t.Errorf("thumb steps = %d, want 4", thumb.Steps)
	}
}
