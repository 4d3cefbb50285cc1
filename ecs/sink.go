package ecs

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/marionette"

	"github.com/yohamta/donburi/features/events"
)

// EventType carries every scene event published through a PoseMirror.
var EventType = events.NewEventType[marionette.Event]()

// PoseDeltaType carries one PoseDelta per rotation stop.
var PoseDeltaType = events.NewEventType[PoseDelta]()

// PoseDelta describes how one rotation stop changed the rotated joint.
type PoseDelta struct {
	Joint marionette.JointID
	Name  string
	Key   marionette.Key
	// Flex and Spread are the joint's net angles after the stop.
	Flex, Spread float64
	// DeltaFlex and DeltaSpread are the changes since the mirrored pose.
	DeltaFlex, DeltaSpread float64
	// Pivot is the joint's world pivot after the stop.
	Pivot mgl64.Vec3
	// Synced is the number of entities refreshed: the joint and its
	// descendants.
	Synced int
}

// EmitEvent implements marionette.EventSink. Every event is published to
// EventType. A rotation stop also refreshes the Pose of the rotated joint's
// subtree and publishes a PoseDelta. Pose resets only request a redraw, so
// call Sync after Scene.ResetPose.
func (m *PoseMirror) EmitEvent(e marionette.Event) {
	EventType.Publish(m.world, e)
	if e.Type != marionette.EventRotate {
		return
	}
	before, after, ok := m.syncJoint(e.Joint)
	if !ok {
		return
	}
	synced := 1
	if j := m.chain.Joint(e.Joint); j != nil {
		for _, c := range j.Children() {
			synced += m.syncSubtree(c)
		}
	}
	PoseDeltaType.Publish(m.world, PoseDelta{
		Joint:       e.Joint,
		Name:        e.Name,
		Key:         e.Key,
		Flex:        after.Flex,
		Spread:      after.Spread,
		DeltaFlex:   after.Flex - before.Flex,
		DeltaSpread: after.Spread - before.Spread,
		Pivot:       after.Pivot,
		Synced:      synced,
	})
}
