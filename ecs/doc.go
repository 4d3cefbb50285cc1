// Package ecs mirrors a marionette hand into a [Donburi] world.
//
// [PoseMirror] keeps one entity per joint carrying [JointInfo] and [Pose]
// components. It is also a marionette.EventSink: attached to a scene it
// publishes every scene event to [EventType] and, for each rotation stop,
// refreshes the rotated subtree and publishes a [PoseDelta] to
// [PoseDeltaType].
//
// Usage:
//
//	mirror := ecs.NewPoseMirror(world, scene.Chain())
//	scene.SetEventSink(mirror)
//	ecs.PoseDeltaType.Subscribe(world, onDelta)
//	...
//	events.ProcessAllEvents(world)
//
// Call Sync after changes that do not rotate a joint, such as a pose reset.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
