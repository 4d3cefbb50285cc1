package ecs

import (
	"math"
	"testing"

	"github.com/phanxgames/marionette"

	"github.com/yohamta/donburi"
)

func TestPoseMirrorCreatesOneEntityPerJoint(t *testing.T) {
	world := donburi.NewWorld()
	s := newScene(t)
	m := NewPoseMirror(world, s.Chain())

	seen := map[string]bool{}
	m.Each(func(info JointInfoData, pose PoseData) {
		seen[info.Name] = true
	})
	if len(seen) != s.Chain().Len() {
		t.Errorf("mirrored %d joints, want %d", len(seen), s.Chain().Len())
	}
	if world.Len() != s.Chain().Len() {
		t.Errorf("world has %d entities", world.Len())
	}
}

func TestPoseMirrorInfo(t *testing.T) {
	world := donburi.NewWorld()
	s := newScene(t)
	m := NewPoseMirror(world, s.Chain())

	j, _ := s.Chain().JointByName("thumb_jnt2")
	e, ok := m.Entity(j.ID)
	if !ok {
		t.Fatal("no entity for thumb_jnt2")
	}
	info := JointInfo.Get(world.Entry(e))
	if info.Name != "thumb_jnt2" || info.Class != marionette.ClassMid || info.Digit != marionette.DigitThumb {
		t.Errorf("info = %+v", info)
	}
	parent := s.Chain().Joint(info.Parent)
	if parent == nil || parent.Name != "thumb_jnt1" {
		t.Errorf("parent = %v", parent)
	}
	if _, ok := m.Entity(marionette.JointID(99)); ok {
		t.Error("entity for unknown joint")
	}
}

func TestPoseMirrorSync(t *testing.T) {
	world := donburi.NewWorld()
	s := newScene(t)
	m := NewPoseMirror(world, s.Chain())

	s.SelectByName("index_jnt1")
	s.KeyPress(marionette.KeyUp)
	tip, _ := s.Chain().JointByName("index_jnt3")
	e, _ := m.Entity(tip.ID)

	stale := Pose.Get(world.Entry(e)).Pivot
	m.Sync()
	pose := Pose.Get(world.Entry(e))
	want := s.Chain().PivotWorld(tip.ID)
	if !pose.Pivot.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("pivot = %v, want %v", pose.Pivot, want)
	}
	if pose.Pivot.ApproxEqualThreshold(stale, 1e-9) {
		t.Error("pivot did not move after a flex")
	}

	k, _ := m.Entity(s.SelectedJoint().ID)
	if flex := Pose.Get(world.Entry(k)).Flex; math.Abs(flex+2) > 1e-9 {
		t.Errorf("knuckle flex = %v, want -2", flex)
	}
}
