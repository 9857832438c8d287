package camera

import (
	"math"
	"testing"

	"github.com/san-kum/emsim/internal/field"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func nearVec(a, b field.Vec4) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

func TestKeyboardState(t *testing.T) {
	ks := NewKeyboardState()
	ks.Press(KeyW)
	ks.Press(KeyLeft)
	ks.Press("z")

	if !ks.IsPressed(KeyW) || ks.IsPressed(KeyS) {
		t.Fatal("pressed set mismatch")
	}

	in := ks.Snapshot(DefaultBindings())
	if !in.Has(MoveForward) || !in.Has(RotateLeft) {
		t.Error("snapshot missing held actions")
	}
	if in.Has(MoveBackward) {
		t.Error("snapshot has unheld action")
	}

	ks.Release(KeyW)
	if ks.Snapshot(DefaultBindings()).Has(MoveForward) {
		t.Error("released key still held")
	}
	if !in.Has(MoveForward) {
		t.Error("earlier snapshot changed after release")
	}

	ks.Clear()
	if !ks.Snapshot(DefaultBindings()).Empty() {
		t.Error("Clear left keys pressed")
	}
}

func TestAzimuthWraps(t *testing.T) {
	c := NewController()
	in := NewInput(RotateLeft)
	for i := 0; i < 500; i++ {
		c.Update(0.05, in)
		if c.Azimuth() > math.Pi || c.Azimuth() < -math.Pi {
			t.Fatalf("azimuth %v escaped [-π, π] at step %d", c.Azimuth(), i)
		}
	}

	c.SetAngles(3*math.Pi, 0)
	if !near(c.Azimuth(), math.Pi) && !near(c.Azimuth(), -math.Pi) {
		t.Errorf("SetAngles did not wrap: %v", c.Azimuth())
	}
}

func TestElevationClamps(t *testing.T) {
	c := NewController()
	for i := 0; i < 100; i++ {
		c.Update(0.1, NewInput(RotateUp))
	}
	if c.Elevation() != math.Pi/2 {
		t.Errorf("elevation = %v, want π/2", c.Elevation())
	}
	for i := 0; i < 100; i++ {
		c.Update(0.1, NewInput(RotateDown))
	}
	if c.Elevation() != -math.Pi/2 {
		t.Errorf("elevation = %v, want -π/2", c.Elevation())
	}
}

func TestBasisVectors(t *testing.T) {
	c := NewController()
	if !nearVec(c.Forward(), field.V(1, 0, 0)) {
		t.Errorf("forward = %v", c.Forward())
	}
	if !nearVec(c.Left(), field.V(0, 1, 0)) {
		t.Errorf("left = %v", c.Left())
	}

	c.SetAngles(math.Pi/2, 0)
	if !nearVec(c.Forward(), field.V(0, 1, 0)) {
		t.Errorf("forward at az=π/2 = %v", c.Forward())
	}

	c.SetAngles(0.3, 0.4)
	f, l, u := c.Forward(), c.Left(), c.Up()
	if !near(f.Dot(l), 0) || !near(f.Dot(u), 0) || !near(l.Dot(u), 0) {
		t.Error("basis not orthogonal")
	}
	if !near(f.Len(), 1) || !near(u.Len(), 1) {
		t.Error("basis not normalized")
	}
}

func TestMovement(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want field.Vec4
	}{
		{"forward", NewInput(MoveForward), field.V(16, 0, 0)},
		{"backward", NewInput(MoveBackward), field.V(-16, 0, 0)},
		{"left", NewInput(MoveLeft), field.V(0, 16, 0)},
		{"right", NewInput(MoveRight), field.V(0, -16, 0)},
		{"up", NewInput(MoveUp), field.V(0, 0, 12.8)},
		{"down", NewInput(MoveDown), field.V(0, 0, -12.8)},
		{"opposed", NewInput(MoveForward, MoveBackward), field.V(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			c.Update(1, tt.in)
			if !nearVec(c.Position(), tt.want) {
				t.Errorf("position = %v, want %v", c.Position(), tt.want)
			}
		})
	}
}

func TestDiagonalMovementIsNormalized(t *testing.T) {
	c := NewController()
	c.Update(0.5, NewInput(MoveForward, MoveLeft))
	if !near(c.Position().Len(), 8) {
		t.Errorf("moved %v, want 8", c.Position().Len())
	}
}

func TestViewMatrixProjection(t *testing.T) {
	c := NewController()
	view := c.ViewMatrix(1)

	x, y, depth, ok := view.Project(field.V(10, 0, 0))
	if !ok || !near(x, 0) || !near(y, 0) {
		t.Errorf("point ahead projected to (%v, %v) ok=%v", x, y, ok)
	}
	if depth <= -1 || depth >= 1 {
		t.Errorf("depth %v outside clip range", depth)
	}

	if _, _, _, ok := view.Project(field.V(-10, 0, 0)); ok {
		t.Error("point behind the camera reported visible")
	}

	if x, _, _, _ := view.Project(field.V(10, -1, 0)); x <= 0 {
		t.Errorf("-y should appear on the right, got x=%v", x)
	}
	if _, y, _, _ := view.Project(field.V(10, 0, 1)); y <= 0 {
		t.Errorf("+z should appear above center, got y=%v", y)
	}

	// 90° vertical field of view: a point at 45° up lands on the top edge.
	if _, y, _, _ := view.Project(field.V(10, 0, 10)); !near(y, 1) {
		t.Errorf("45° point at y=%v, want 1", y)
	}
}

func TestViewMatrixFollowsPosition(t *testing.T) {
	c := NewController()
	c.SetPosition(field.V(5, 5, 5))
	c.SetAngles(math.Pi/2, 0)

	x, y, _, ok := c.ViewMatrix(16.0/9.0).Project(field.V(5, 20, 5))
	if !ok || !near(x, 0) || !near(y, 0) {
		t.Errorf("point ahead projected to (%v, %v) ok=%v", x, y, ok)
	}
}

func TestMat4(t *testing.T) {
	m := Translation(field.V(1, 2, 3))
	if got := Identity().Mul(m); got != m {
		t.Error("identity is not neutral")
	}
	p := m.Transform([4]float32{1, 1, 1, 1})
	if p != [4]float32{2, 3, 4, 1} {
		t.Errorf("translate = %v", p)
	}
	if m.At(0, 3) != 1 || m.At(2, 3) != 3 {
		t.Error("translation not in last column")
	}
}

func TestTerminalBindings(t *testing.T) {
	b := TerminalBindings()
	if _, ok := b[KeySpace]; ok {
		t.Error("space should not be bound in the terminal")
	}
	if b[KeyE] != MoveUp || b[KeyC] != MoveDown {
		t.Errorf("vertical bindings = %v/%v", b[KeyE], b[KeyC])
	}
	if _, ok := DefaultBindings()[KeyE]; ok {
		t.Error("TerminalBindings modified the default map")
	}
}

func TestLeftIsUpCrossForward(t *testing.T) {
	c := NewController()
	for _, az := range []float32{-2.5, -1, 0, 0.7, 3} {
		c.SetAngles(az, 0)
		want := c.Up().Cross(c.Forward())
		if !nearVec(c.Left(), want) {
			t.Errorf("az=%v: left = %v, want %v", az, c.Left(), want)
		}

		start := field.V(5, 5, 5)
		c.SetPosition(start)
		c.Update(1, NewInput(MoveLeft))
		if moved := c.Position().Sub(start); moved.Dot(want) <= 0 {
			t.Errorf("az=%v: MoveLeft went %v", az, moved)
		}
	}
}
