package marionette

// syntheticEvent is a single injected input event. Pointer events carry
// viewport pixel coordinates, exactly like real presses.
type syntheticEvent struct {
	pointer bool
	x, y    float64
	key     Key
}

// InjectPress queues a pointer press at viewport pixel (x, y). The event is
// consumed on the next Update.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{pointer: true, x: x, y: y})
}

// InjectKey queues a key press. The event is consumed on the next Update.
func (s *Scene) InjectKey(k Key) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{key: k})
}

// InjectKeys queues several key presses, one per frame.
func (s *Scene) InjectKeys(keys ...Key) {
	for _, k := range keys {
		s.InjectKey(k)
	}
}

// Pending returns the number of queued synthetic events.
func (s *Scene) Pending() int {
	return len(s.injectQueue)
}

// processInjected pops one event from the inject queue and feeds it through
// the same path as real input. Returns true if an event was consumed.
func (s *Scene) processInjected() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	if evt.pointer {
		s.PointerPress(evt.x, evt.y)
	} else {
		s.KeyPress(evt.key)
	}
	return true
}
