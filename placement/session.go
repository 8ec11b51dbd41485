package placement

import "tweeshirt-backend/models"

// DragSession tracks one pointer interaction on the Position stage.
// Moves before Start or after End are ignored, so a stray pointer-move
// event can never mutate the placement.
type DragSession struct {
	active    bool
	placement models.Placement
}

func NewDragSession(p models.Placement) *DragSession {
	return &DragSession{placement: p}
}

func (s *DragSession) Start() {
	s.active = true
}

func (s *DragSession) Move(pointerX, pointerY float64, rect Rect) {
	if !s.active {
		return
	}
	s.placement = DragTo(s.placement, pointerX, pointerY, rect)
}

// End finishes the gesture and returns the resulting placement.
func (s *DragSession) End() models.Placement {
	s.active = false
	return s.placement
}

func (s *DragSession) Placement() models.Placement {
	return s.placement
}
