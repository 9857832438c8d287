package camera

import (
	"math"

	"github.com/san-kum/emsim/internal/field"
)

const (
	AngleSpeed    = 2.0
	MoveSpeed     = 16.0
	VerticalSpeed = 0.8 * MoveSpeed

	FieldOfView = math.Pi / 2
	NearPlane   = 0.1
	FarPlane    = 1024.0
)

// Controller is a free-flying camera. Azimuth stays in [-π, π] and
// elevation in [-π/2, π/2].
type Controller struct {
	azimuth   float32
	elevation float32
	pos       field.Vec4
}

func NewController() *Controller { return &Controller{} }

func (c *Controller) Azimuth() float32     { return c.azimuth }
func (c *Controller) Elevation() float32   { return c.elevation }
func (c *Controller) Position() field.Vec4 { return c.pos }

func (c *Controller) SetPosition(p field.Vec4) { c.pos = field.V(p[0], p[1], p[2]) }

func (c *Controller) SetAngles(azimuth, elevation float32) {
	c.azimuth, c.elevation = azimuth, elevation
	c.normalize()
}

// Overview places the camera outside the -x face of a grid looking at its
// center.
func (c *Controller) Overview(size field.Size) {
	sy, sz := float32(size.Y), float32(size.Z)
	span := float32(math.Max(float64(sy), float64(sz)))
	c.SetPosition(field.V(-span*0.6, sy*0.5, sz*0.5))
	c.SetAngles(0, 0)
}

func (c *Controller) Update(dt float32, in Input) {
	if in.Has(RotateLeft) {
		c.azimuth += AngleSpeed * dt
	}
	if in.Has(RotateRight) {
		c.azimuth -= AngleSpeed * dt
	}
	if in.Has(RotateUp) {
		c.elevation += AngleSpeed * dt
	}
	if in.Has(RotateDown) {
		c.elevation -= AngleSpeed * dt
	}
	c.normalize()

	forward, left := c.Forward(), c.Left()
	var move field.Vec4
	if in.Has(MoveForward) {
		move = move.Add(forward)
	}
	if in.Has(MoveBackward) {
		move = move.Sub(forward)
	}
	if in.Has(MoveLeft) {
		move = move.Add(left)
	}
	if in.Has(MoveRight) {
		move = move.Sub(left)
	}
	if l := move.Len(); l > 0 {
		c.pos = c.pos.Add(move.Scale(dt * MoveSpeed / l))
	}

	if in.Has(MoveUp) {
		c.pos[2] += dt * VerticalSpeed
	}
	if in.Has(MoveDown) {
		c.pos[2] -= dt * VerticalSpeed
	}
}

func (c *Controller) normalize() {
	for c.azimuth > math.Pi {
		c.azimuth -= 2 * math.Pi
	}
	for c.azimuth < -math.Pi {
		c.azimuth += 2 * math.Pi
	}
	if c.elevation > math.Pi/2 {
		c.elevation = math.Pi / 2
	}
	if c.elevation < -math.Pi/2 {
		c.elevation = -math.Pi / 2
	}
}

// Forward is the unit viewing direction.
func (c *Controller) Forward() field.Vec4 {
	sa, ca := sincos(c.azimuth)
	se, ce := sincos(c.elevation)
	return field.V(ce*ca, ce*sa, se)
}

// Left is the horizontal unit vector to the viewer's left, Up × Forward
// projected onto the ground plane.
func (c *Controller) Left() field.Vec4 {
	sa, ca := sincos(c.azimuth)
	return field.V(-sa, ca, 0)
}

func (c *Controller) Up() field.Vec4 {
	sa, ca := sincos(c.azimuth)
	se, ce := sincos(c.elevation)
	return field.V(-se*ca, -se*sa, ce)
}

// ViewMatrix returns perspective × basis change × rotation × translation.
func (c *Controller) ViewMatrix(aspect float32) Mat4 {
	f, l, u := c.Forward(), c.Left(), c.Up()
	rotation := Mat4{
		f[0], f[1], f[2], 0,
		l[0], l[1], l[2], 0,
		u[0], u[1], u[2], 0,
		0, 0, 0, 1,
	}
	// Camera axes (forward, left, up) to GL axes (right, up, back).
	basis := Mat4{
		0, -1, 0, 0,
		0, 0, 1, 0,
		-1, 0, 0, 0,
		0, 0, 0, 1,
	}
	translation := Translation(c.pos.Scale(-1))
	projection := Perspective(FieldOfView, aspect, NearPlane, FarPlane)
	return projection.Mul(basis).Mul(rotation).Mul(translation)
}

func sincos(a float32) (float32, float32) {
	s, co := math.Sincos(float64(a))
	return float32(s), float32(co)
}
