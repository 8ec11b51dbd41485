package placement

import "tweeshirt-backend/models"

// Named anchors map to fixed spots on the print area. Custom keeps
// whatever coordinates the user dragged to.
const (
	AnchorTop    = "top"
	AnchorCenter = "center"
	AnchorBottom = "bottom"
	AnchorLeft   = "left"
	AnchorRight  = "right"
	AnchorCustom = "custom"
)

const (
	MinScale = 20
	MaxScale = 100
)

var anchorPresets = map[string][2]float64{
	AnchorTop:    {50, 20},
	AnchorCenter: {50, 50},
	AnchorBottom: {50, 80},
	AnchorLeft:   {25, 50},
	AnchorRight:  {75, 50},
}

// Rect is the on-screen bounds of the print-area container, in the same
// units as the pointer coordinates passed to DragTo.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Default is the placement a fresh draft starts with.
func Default() models.Placement {
	return models.Placement{Anchor: AnchorCenter, X: 50, Y: 50, Scale: 50}
}

// SelectAnchor applies a named preset. Custom leaves the coordinates
// untouched; unknown anchors are ignored.
func SelectAnchor(p models.Placement, anchor string) models.Placement {
	if preset, ok := anchorPresets[anchor]; ok {
		p.Anchor = anchor
		p.X = preset[0]
		p.Y = preset[1]
		return p
	}
	if anchor == AnchorCustom {
		p.Anchor = AnchorCustom
	}
	return p
}

// DragTo converts an absolute pointer position into percentages of the
// container and clamps both axes to [0,100]. Dragging always produces a
// custom placement so the anchor never disagrees with the coordinates.
func DragTo(p models.Placement, pointerX, pointerY float64, rect Rect) models.Placement {
	if rect.Width <= 0 || rect.Height <= 0 {
		return p
	}
	p.X = clamp((pointerX-rect.Left)/rect.Width*100, 0, 100)
	p.Y = clamp((pointerY-rect.Top)/rect.Height*100, 0, 100)
	p.Anchor = AnchorCustom
	return p
}

// SetScale clamps the scale to [20,100]. Out-of-range values are
// corrected silently, never rejected.
func SetScale(p models.Placement, scale float64) models.Placement {
	p.Scale = clamp(scale, MinScale, MaxScale)
	return p
}

// Normalize makes an externally supplied placement safe to store: named
// anchors snap to their presets, everything else is clamped into range.
func Normalize(p models.Placement) models.Placement {
	if _, ok := anchorPresets[p.Anchor]; ok {
		p = SelectAnchor(p, p.Anchor)
	} else {
		p.Anchor = AnchorCustom
		p.X = clamp(p.X, 0, 100)
		p.Y = clamp(p.Y, 0, 100)
	}
	return SetScale(p, p.Scale)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
