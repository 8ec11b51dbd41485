package placement

import (
	"testing"

	"tweeshirt-backend/models"
)

func TestSelectAnchor_Presets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		anchor string
		wantX  float64
		wantY  float64
	}{
		{AnchorTop, 50, 20},
		{AnchorCenter, 50, 50},
		{AnchorBottom, 50, 80},
		{AnchorLeft, 25, 50},
		{AnchorRight, 75, 50},
	}

	for _, tc := range cases {
		p := SelectAnchor(models.Placement{Anchor: AnchorCustom, X: 3, Y: 97, Scale: 40}, tc.anchor)
		if p.Anchor != tc.anchor || p.X != tc.wantX || p.Y != tc.wantY {
			t.Errorf("SelectAnchor(%s) = %+v, want (%v,%v)", tc.anchor, p, tc.wantX, tc.wantY)
		}
	}
}

func TestSelectAnchor_CenterOverridesAnyPriorState(t *testing.T) {
	t.Parallel()

	priors := []models.Placement{
		{Anchor: AnchorTop, X: 50, Y: 20},
		{Anchor: AnchorCustom, X: 0, Y: 100},
		{Anchor: AnchorCustom, X: 99.9, Y: 0.1},
	}
	for _, prior := range priors {
		p := SelectAnchor(prior, AnchorCenter)
		if p.X != 50 || p.Y != 50 {
			t.Errorf("center from %+v = (%v,%v), want (50,50)", prior, p.X, p.Y)
		}
	}
}

func TestSelectAnchor_CustomKeepsCoords(t *testing.T) {
	t.Parallel()

	p := SelectAnchor(models.Placement{Anchor: AnchorTop, X: 50, Y: 20}, AnchorCustom)
	if p.Anchor != AnchorCustom {
		t.Errorf("anchor = %s, want custom", p.Anchor)
	}
	if p.X != 50 || p.Y != 20 {
		t.Errorf("coords changed to (%v,%v)", p.X, p.Y)
	}
}

func TestDragTo_ClampsToContainer(t *testing.T) {
	t.Parallel()

	rect := Rect{Left: 100, Top: 200, Width: 256, Height: 320}

	cases := []struct {
		name   string
		px, py float64
		wantX  float64
		wantY  float64
	}{
		{"inside", 228, 360, 50, 50},
		{"left of container", 0, 360, 0, 50},
		{"right of container", 1000, 360, 100, 50},
		{"above container", 228, 0, 50, 0},
		{"below container", 228, 5000, 50, 100},
		{"far outside both", -50, -50, 0, 0},
	}

	for _, tc := range cases {
		p := DragTo(Default(), tc.px, tc.py, rect)
		if p.X != tc.wantX || p.Y != tc.wantY {
			t.Errorf("%s: got (%v,%v), want (%v,%v)", tc.name, p.X, p.Y, tc.wantX, tc.wantY)
		}
		if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
			t.Errorf("%s: coords out of range: (%v,%v)", tc.name, p.X, p.Y)
		}
	}
}

func TestDragTo_SetsCustomAnchor(t *testing.T) {
	t.Parallel()

	p := DragTo(models.Placement{Anchor: AnchorCenter, X: 50, Y: 50}, 10, 10, Rect{Width: 100, Height: 100})
	if p.Anchor != AnchorCustom {
		t.Errorf("anchor after drag = %s, want custom", p.Anchor)
	}
}

func TestDragTo_DegenerateRectIgnored(t *testing.T) {
	t.Parallel()

	before := Default()
	after := DragTo(before, 40, 40, Rect{Width: 0, Height: 0})
	if after != before {
		t.Errorf("drag against empty rect changed placement: %+v", after)
	}
}

func TestSetScale_Clamps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{50, 50},
		{20, 20},
		{100, 100},
		{19.9, 20},
		{0, 20},
		{-5, 20},
		{101, 100},
		{500, 100},
	}
	for _, tc := range cases {
		if p := SetScale(Default(), tc.in); p.Scale != tc.want {
			t.Errorf("SetScale(%v) = %v, want %v", tc.in, p.Scale, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	// Named anchor snaps to its preset even if the coords lie.
	p := Normalize(models.Placement{Anchor: AnchorBottom, X: 1, Y: 2, Scale: 300})
	if p.X != 50 || p.Y != 80 || p.Scale != 100 {
		t.Errorf("named anchor normalize = %+v", p)
	}

	// Anything unnamed becomes a clamped custom placement.
	p = Normalize(models.Placement{Anchor: "weird", X: -10, Y: 170, Scale: 5})
	if p.Anchor != AnchorCustom || p.X != 0 || p.Y != 100 || p.Scale != 20 {
		t.Errorf("unnamed anchor normalize = %+v", p)
	}
}

func TestDragSession_IgnoresMovesOutsideGesture(t *testing.T) {
	t.Parallel()

	rect := Rect{Width: 100, Height: 100}
	s := NewDragSession(Default())

	s.Move(10, 10, rect) // before Start
	if got := s.Placement(); got != Default() {
		t.Fatalf("move before start changed placement: %+v", got)
	}

	s.Start()
	s.Move(10, 10, rect)
	p := s.End()
	if p.X != 10 || p.Y != 10 || p.Anchor != AnchorCustom {
		t.Fatalf("placement after drag = %+v", p)
	}

	s.Move(90, 90, rect) // after End
	if got := s.Placement(); got != p {
		t.Fatalf("move after end changed placement: %+v", got)
	}
}
