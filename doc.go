// Package marionette is a forward-kinematics hand puppet: a tree of rotatable
// joints and rigid bones that can be picked with a pointer and curled or
// spread with the arrow keys.
//
// # Quick start
//
// [NewScene] builds the default hand, frames a camera on it and wires a
// picker, a selection and a rotation policy together:
//
//	scene, err := marionette.NewScene(marionette.SceneConfig{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	scene.PointerPress(320, 160) // select whatever is under the pointer
//	scene.KeyPress(marionette.KeyUp)
//
// The ebitenview package opens a window around a Scene; the snapshot package
// renders one to PNG or WebP without a display.
//
// # Kinematics
//
// A [Chain] owns every [Joint] and [Segment] in one slice each. Joints point
// at their parent by index, and a parent always precedes its children. Each
// joint accumulates rotations about its fixed pivot:
//
//	local = local · T(pivot) · R(axis, degrees) · T(-pivot)
//	world = parent.world · local
//
// World matrices are cached. [Chain.Rotate] invalidates the rotated joint's
// subtree only, so ancestors and siblings keep their cached pose.
//
// # Interaction
//
// [Scene.PointerPress] casts a ray through the pointer and selects the
// nearest joint, or the joint owning the nearest bone. The selected joint is
// highlighted and its previous material is kept for restoration. A miss
// leaves the selection alone.
//
// [Scene.KeyPress] runs the [RotationPolicy]: Up and Down curl any joint in
// two 2° stops (0° then ±2°), thumb joints couple a 0.3× spread rotation to
// every curl stop, and Left and Right spread knuckles only. A redraw is
// requested after every stop.
//
// # Scripts
//
// [LoadTestScript] reads JSON interaction scripts (click, press, select,
// wait, snapshot, reset) that [Scene.Update] replays one frame at a time.
package marionette
