package marionette

// Selection tracks which joint keyboard input acts on and keeps the joint's
// pre-highlight material so it can be restored when the selection moves.
// At most one joint is highlighted at a time.
type Selection struct {
	chain     *Chain
	selected  JointID
	saved     Material
	highlight Material
}

// NewSelection returns an empty selection over chain.
func NewSelection(chain *Chain) *Selection {
	return &Selection{
		chain:     chain,
		selected:  NoJoint,
		highlight: HighlightMaterial,
	}
}

// SetHighlight changes the material applied to the selected joint. It takes
// effect on the next pick.
func (s *Selection) SetHighlight(m Material) {
	s.highlight = m
}

// OnPick applies a pick result. A miss changes nothing. A hit restores the
// previously selected joint's material, saves the new joint's material and
// highlights it. Hits on a segment select the segment's owner.
//
// Picking the selected joint again restores and re-applies the highlight,
// which leaves the saved material unchanged.
func (s *Selection) OnPick(t Target, ok bool) (JointID, bool) {
	if !ok {
		return NoJoint, false
	}
	j := s.chain.Joint(t.Joint)
	if j == nil {
		return NoJoint, false
	}
	s.restore()
	s.saved = j.Material
	s.selected = j.ID
	j.Material = s.highlight
	return j.ID, true
}

// Select selects a joint directly, as if it had been picked.
func (s *Selection) Select(id JointID) bool {
	_, ok := s.OnPick(Target{Kind: TargetJoint, Joint: id, Segment: NoSegment}, true)
	return ok
}

// Selected returns the selected joint, if any.
func (s *Selection) Selected() (JointID, bool) {
	return s.selected, s.selected != NoJoint
}

// Saved returns the material the selected joint had before it was
// highlighted.
func (s *Selection) Saved() (Material, bool) {
	if s.selected == NoJoint {
		return Material{}, false
	}
	return s.saved, true
}

// Clear restores the selected joint's material and deselects it. Pointer
// misses never call this.
func (s *Selection) Clear() {
	s.restore()
	s.selected = NoJoint
	s.saved = Material{}
}

func (s *Selection) restore() {
	if s.selected == NoJoint {
		return
	}
	if j := s.chain.Joint(s.selected); j != nil {
		j.Material = s.saved
	}
}
