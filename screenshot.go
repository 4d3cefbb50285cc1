package marionette

// SetSnapshotHandler sets the function that captures a labeled snapshot.
// The snapshot package renders the scene to an image file; windowed
// frontends can read back the framebuffer instead.
func (s *Scene) SetSnapshotHandler(fn func(label string) error) {
	s.onSnapshot = fn
}

// Snapshot captures the current pose under label. Without a handler it only
// logs. Errors are logged and otherwise ignored.
func (s *Scene) Snapshot(label string) {
	if s.onSnapshot == nil {
		s.logger.Debug("snapshot requested without handler", "label", label)
		return
	}
	s.chain.UpdateWorld()
	if err := s.onSnapshot(label); err != nil {
		s.logger.Error("snapshot failed", "label", label, "err", err)
		return
	}
	s.logger.Info("snapshot", "label", label)
}
