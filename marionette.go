package marionette

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Named colors used by the default hand.
var (
	ColorWhite     = Color{1, 1, 1, 1}
	ColorBlack     = Color{0, 0, 0, 1}
	ColorRed       = Color{1, 0, 0, 1}
	ColorGrey      = Color{0.745, 0.745, 0.745, 1}
	ColorRoyalBlue = Color{0.255, 0.412, 0.882, 1}
)

// NRGBA converts the color to an 8-bit color.NRGBA, clamping each channel.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: clampByte(c.R),
		G: clampByte(c.G),
		B: clampByte(c.B),
		A: clampByte(c.A),
	}
}

// Scale multiplies the RGB channels by k and keeps alpha.
func (c Color) Scale(k float64) Color {
	return Color{c.R * k, c.G * k, c.B * k, c.A}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Material holds the surface properties a renderer needs to draw a shape.
type Material struct {
	Color       Color
	Diffuse     float64
	Specular    float64
	EdgeVisible bool
}

// Default materials for joints and segments.
var (
	JointMaterial   = Material{Color: ColorGrey, Diffuse: 1}
	SegmentMaterial = Material{Color: ColorRoyalBlue, Diffuse: 1}
)

// HighlightMaterial is applied to the selected joint.
var HighlightMaterial = Material{Color: ColorRed, Diffuse: 1, Specular: 0, EdgeVisible: true}

// JointClass is the role of a joint in the hand. It decides which input
// keys rotate the joint.
type JointClass uint8

const (
	ClassWrist   JointClass = iota // root of the hand
	ClassKnuckle                   // first joint of a digit, flexes and spreads
	ClassMid                       // second joint of a digit
	ClassDistal                    // third joint of a digit
)

var classNames = [...]string{"wrist", "knuckle", "mid", "distal"}

func (c JointClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// Digit identifies which finger a joint belongs to.
type Digit uint8

const (
	DigitNone Digit = iota
	DigitThumb
	DigitIndex
	DigitMiddle
	DigitRing
	DigitPinky
)

var digitNames = [...]string{"none", "thumb", "index", "middle", "ring", "pinky"}

func (d Digit) String() string {
	if int(d) < len(digitNames) {
		return digitNames[d]
	}
	return "unknown"
}

// ParseDigit maps a digit name back to its Digit value.
func ParseDigit(name string) (Digit, bool) {
	for i, n := range digitNames {
		if n == name {
			return Digit(i), true
		}
	}
	return DigitNone, false
}

// Key is a symbolic key as delivered by the windowing layer.
type Key uint8

const (
	KeyOther Key = iota // any key the rotation policy ignores
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = [...]string{"Other", "Up", "Down", "Left", "Right"}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "Other"
}

// ParseKey maps a key symbol ("Up", "Down", "Left", "Right") to a Key.
// Anything else maps to KeyOther.
func ParseKey(sym string) Key {
	for i, n := range keyNames {
		if i > 0 && n == sym {
			return Key(i)
		}
	}
	return KeyOther
}

// Axis selects one of the three rotation axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// GeometryKind selects the primitive used to draw and pick a shape.
type GeometryKind uint8

const (
	GeometrySphere   GeometryKind = iota // centered sphere of Radius
	GeometryCylinder                     // Y-aligned cylinder of Radius and Height, centered
	GeometryBox                          // centered box of Size
)

func (g GeometryKind) String() string {
	switch g {
	case GeometrySphere:
		return "sphere"
	case GeometryCylinder:
		return "cylinder"
	case GeometryBox:
		return "box"
	}
	return "unknown"
}

// Geometry describes a primitive in its own local frame. Primitives are
// centered on the origin; Placement on the owner moves them into place.
type Geometry struct {
	Kind   GeometryKind
	Radius float64
	Height float64
	Size   [3]float64
}

// Sphere returns sphere geometry.
func Sphere(radius float64) Geometry {
	return Geometry{Kind: GeometrySphere, Radius: radius}
}

// Cylinder returns Y-aligned cylinder geometry.
func Cylinder(radius, height float64) Geometry {
	return Geometry{Kind: GeometryCylinder, Radius: radius, Height: height}
}

// Box returns box geometry with the given edge lengths.
func Box(x, y, z float64) Geometry {
	return Geometry{Kind: GeometryBox, Size: [3]float64{x, y, z}}
}

// BoundingRadius returns the radius of a sphere centered on the geometry's
// origin that encloses it.
func (g Geometry) BoundingRadius() float64 {
	switch g.Kind {
	case GeometrySphere:
		return g.Radius
	case GeometryCylinder:
		return math.Hypot(g.Radius, g.Height/2)
	case GeometryBox:
		return math.Sqrt(g.Size[0]*g.Size[0]+g.Size[1]*g.Size[1]+g.Size[2]*g.Size[2]) / 2
	}
	return 0
}

// TargetKind tells whether a pick landed on a joint or a segment.
type TargetKind uint8

const (
	TargetJoint TargetKind = iota
	TargetSegment
)

// Target is the result of a successful pick.
type Target struct {
	Kind    TargetKind
	Joint   JointID   // owning joint for segments
	Segment SegmentID // NoSegment for joint hits
	// Distance is the ray parameter of the hit, in world units from the eye.
	Distance float64
}

// EventType identifies a kind of scene event.
type EventType uint8

const (
	EventPick      EventType = iota // a joint was selected by a pick
	EventPickMiss                   // a pointer press hit nothing
	EventKey                        // a key press was routed to the selection
	EventRotate                     // a single rotation step was applied
	EventRedraw                     // a redraw was requested
)

var eventNames = [...]string{"pick", "pick-miss", "key", "rotate", "redraw"}

func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Event carries what happened in the scene to an EventSink.
type Event struct {
	Type    EventType
	Joint   JointID
	Name    string
	Key     Key
	Axis    Axis
	Degrees float64
	X, Y    float64
}

// EventSink receives scene events. The ecs package provides a donburi-backed
// implementation.
type EventSink interface {
	EmitEvent(Event)
}
