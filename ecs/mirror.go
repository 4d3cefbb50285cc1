package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/marionette"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// JointInfoData is the static part of a mirrored joint.
type JointInfoData struct {
	ID     marionette.JointID
	Name   string
	Class  marionette.JointClass
	Digit  marionette.Digit
	Parent marionette.JointID
}

// PoseData is the per-frame part of a mirrored joint.
type PoseData struct {
	World  mgl64.Mat4
	Pivot  mgl64.Vec3
	Flex   float64
	Spread float64
}

// Components attached to every mirrored joint entity.
var (
	JointInfo = donburi.NewComponentType[JointInfoData]()
	Pose      = donburi.NewComponentType[PoseData]()
)

// PoseMirror keeps one Donburi entity per chain joint so ECS systems can
// read the hand's pose without touching the chain.
type PoseMirror struct {
	world    donburi.World
	chain    *marionette.Chain
	entities []donburi.Entity
	query    *donburi.Query
}

// NewPoseMirror creates the joint entities and copies the current pose.
func NewPoseMirror(world donburi.World, chain *marionette.Chain) *PoseMirror {
	m := &PoseMirror{
		world: world,
		chain: chain,
		query: donburi.NewQuery(filter.Contains(JointInfo, Pose)),
	}
	for _, j := range chain.Joints() {
		e := world.Create(JointInfo, Pose)
		JointInfo.SetValue(world.Entry(e), JointInfoData{
			ID:     j.ID,
			Name:   j.Name,
			Class:  j.Class,
			Digit:  j.Digit,
			Parent: j.Parent,
		})
		m.entities = append(m.entities, e)
	}
	m.Sync()
	return m
}

// Sync copies every joint's world matrix, world pivot and net angles into
// its Pose component.
func (m *PoseMirror) Sync() {
	for i := range m.entities {
		m.syncJoint(marionette.JointID(i))
	}
}

// syncJoint refreshes one Pose component and returns the values it held
// before and after.
func (m *PoseMirror) syncJoint(id marionette.JointID) (before, after PoseData, ok bool) {
	e, ok := m.Entity(id)
	if !ok || !m.world.Valid(e) {
		return PoseData{}, PoseData{}, false
	}
	entry := m.world.Entry(e)
	before = *Pose.Get(entry)
	j := m.chain.Joint(id)
	after = PoseData{
		World:  m.chain.WorldMatrix(id),
		Pivot:  m.chain.PivotWorld(id),
		Flex:   j.NetDegrees(j.FlexAxis),
		Spread: j.NetDegrees(j.SpreadAxis),
	}
	Pose.SetValue(entry, after)
	return before, after, true
}

// syncSubtree refreshes id and all of its descendants and returns how many
// components were written.
func (m *PoseMirror) syncSubtree(id marionette.JointID) int {
	n := 0
	stack := []marionette.JointID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, _, ok := m.syncJoint(cur); ok {
			n++
		}
		if j := m.chain.Joint(cur); j != nil {
			stack = append(stack, j.Children()...)
		}
	}
	return n
}

// Entity returns the entity mirroring joint id.
func (m *PoseMirror) Entity(id marionette.JointID) (donburi.Entity, bool) {
	if id < 0 || int(id) >= len(m.entities) {
		return donburi.Null, false
	}
	return m.entities[id], true
}

// Each calls fn for every mirrored joint entity in the world.
func (m *PoseMirror) Each(fn func(info JointInfoData, pose PoseData)) {
	m.query.Each(m.world, func(entry *donburi.Entry) {
		fn(*JointInfo.Get(entry), *Pose.Get(entry))
	})
}
