package marionette

import "slices"

// PickContext describes a successful pick.
type PickContext struct {
	Joint  *Joint
	Target Target
	X, Y   float64
}

// KeyContext describes a key press routed to the selected joint.
type KeyContext struct {
	Joint *Joint
	Key   Key
	// Stops is the number of sweep stops applied; zero for a no-op.
	Stops int
}

// --- Handler registry ---

type pickHandler struct {
	id uint32
	fn func(PickContext)
}

type keyHandler struct {
	id uint32
	fn func(KeyContext)
}

type redrawHandler struct {
	id uint32
	fn func()
}

type handlerRegistry struct {
	pick   []pickHandler
	key    []keyHandler
	redraw []redrawHandler
	nextID uint32
}

// CallbackHandle allows removing a registered scene callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. It is safe to
// call from inside any callback; a dispatch already in progress still
// reaches callbacks that were registered when it started.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPick:
		h.reg.pick = removeHandler(h.reg.pick, func(p pickHandler) bool { return p.id == h.id })
	case EventKey:
		h.reg.key = removeHandler(h.reg.key, func(k keyHandler) bool { return k.id == h.id })
	case EventRedraw:
		h.reg.redraw = removeHandler(h.reg.redraw, func(r redrawHandler) bool { return r.id == h.id })
	}
}

// removeHandler returns a new slice without the matching handler. The old
// backing array is left untouched so a dispatch loop ranging over it can
// finish when a callback removes itself or another callback.
func removeHandler[T any](s []T, match func(T) bool) []T {
	i := slices.IndexFunc(s, match)
	if i < 0 {
		return s
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// OnPick registers a callback for successful picks.
func (s *Scene) OnPick(fn func(PickContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pick = append(s.handlers.pick, pickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPick}
}

// OnKey registers a callback for key presses that reached a selected joint.
func (s *Scene) OnKey(fn func(KeyContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.key = append(s.handlers.key, keyHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventKey}
}

// OnRedraw registers a callback fired on every redraw request, including
// each stop of a rotation sweep.
func (s *Scene) OnRedraw(fn func()) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.redraw = append(s.handlers.redraw, redrawHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventRedraw}
}

// --- Input entry points ---

// PointerPress handles a primary-button press at viewport pixel (x, y).
// A miss leaves the selection unchanged.
func (s *Scene) PointerPress(x, y float64) {
	t, ok := s.picker.Pick(x, y)
	if !ok {
		s.logger.Debug("pick missed", "x", x, "y", y)
		s.emitEvent(Event{Type: EventPickMiss, Joint: NoJoint, X: x, Y: y})
		return
	}
	s.applyPick(t, x, y)
}

// SelectByName selects a joint by display name, as if its sphere had been
// clicked. It reports whether the joint exists.
func (s *Scene) SelectByName(name string) bool {
	j, ok := s.chain.JointByName(name)
	if !ok {
		s.logger.Warn("select: unknown joint", "joint", name)
		return false
	}
	s.applyPick(Target{Kind: TargetJoint, Joint: j.ID, Segment: NoSegment}, 0, 0)
	return true
}

func (s *Scene) applyPick(t Target, x, y float64) {
	id, ok := s.selection.OnPick(t, true)
	if !ok {
		return
	}
	j := s.chain.Joint(id)
	s.logger.Info(j.Name+" was clicked", "joint", j.Name, "class", j.Class, "digit", j.Digit)
	s.emitEvent(Event{Type: EventPick, Joint: id, Name: j.Name, X: x, Y: y})
	ctx := PickContext{Joint: j, Target: t, X: x, Y: y}
	for _, h := range s.handlers.pick {
		h.fn(ctx)
	}
	s.RequestRedraw()
}

// KeyPress routes a key to the selected joint through the rotation policy.
// Without a selection, or for a key the joint ignores, nothing changes and
// no redraw is requested.
func (s *Scene) KeyPress(k Key) {
	id, ok := s.selection.Selected()
	if !ok {
		s.logger.Debug("key ignored: nothing selected", "key", k)
		return
	}
	j := s.chain.Joint(id)
	stops := s.policy.Apply(s.chain, id, k, func() {
		s.emitEvent(Event{Type: EventRotate, Joint: id, Name: j.Name, Key: k})
		s.RequestRedraw()
	})
	if stops == 0 {
		s.logger.Debug("key ignored for joint", "key", k, "joint", j.Name, "class", j.Class)
		return
	}
	s.logger.Info(k.String()+" was pressed", "key", k, "joint", j.Name,
		"flex", j.NetDegrees(j.FlexAxis), "spread", j.NetDegrees(j.SpreadAxis))
	s.emitEvent(Event{Type: EventKey, Joint: id, Name: j.Name, Key: k,
		Axis: j.FlexAxis, Degrees: j.NetDegrees(j.FlexAxis)})
	ctx := KeyContext{Joint: j, Key: k, Stops: stops}
	for _, h := range s.handlers.key {
		h.fn(ctx)
	}
}

// --- Event sink bridge ---

func (s *Scene) emitEvent(e Event) {
	if s.store == nil {
		return
	}
	s.store.EmitEvent(e)
}
