package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/emsim/internal/camera"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/sim"
)

// Surface draws field arrows as screen-space lines. It implements
// sim.Surface and must be used between rl.BeginDrawing and rl.EndDrawing.
type Surface struct {
	Width, Height int32
	Stride        int
	Cutoff        float32
	drawn         int
}

var _ sim.Surface = (*Surface)(nil)

func NewSurface(w, h int32) *Surface {
	return &Surface{Width: w, Height: h, Stride: 1}
}

func (s *Surface) Aspect() float32 { return float32(s.Width) / float32(s.Height) }
func (s *Surface) Drawn() int      { return s.drawn }

func (s *Surface) Clear() {
	rl.ClearBackground(ColBg)
	s.drawn = 0
}

// DrawField draws one arrow per visited cell. Each arrow fades from its
// tail color to its tip color; the fade is drawn as two halves.
func (s *Surface) DrawField(kind sim.FieldKind, f field.View, base sim.Color, viewProj camera.Mat4) {
	stride := max(s.Stride, 1)
	size := f.Size()
	for z := 0; z < size.Z; z += stride {
		for y := 0; y < size.Y; y += stride {
			for x := 0; x < size.X; x += stride {
				a := sim.ArrowAt(f, size.Index(x, y, z), base)
				if a.Magnitude < s.Cutoff {
					continue
				}
				p0, ok0 := toScreen(viewProj, a.From, s.Width, s.Height)
				p1, ok1 := toScreen(viewProj, a.To, s.Width, s.Height)
				if !ok0 || !ok1 {
					continue
				}
				mid := rl.NewVector2((p0.X+p1.X)/2, (p0.Y+p1.Y)/2)
				rl.DrawLineV(p0, mid, rlColor(a.FromColor))
				rl.DrawLineV(mid, p1, rlColor(mixColor(a.FromColor, a.ToColor)))
				s.drawn++
			}
		}
	}
}

func (s *Surface) DrawBorder(size field.Size, viewProj camera.Mat4) {
	col := rlColor(sim.BorderColor)
	for _, e := range sim.BorderEdges(size) {
		p0, ok0 := toScreen(viewProj, e[0], s.Width, s.Height)
		p1, ok1 := toScreen(viewProj, e[1], s.Width, s.Height)
		if ok0 && ok1 {
			rl.DrawLineV(p0, p1, col)
		}
	}
}

// toScreen maps a world point to window pixels. ok is false behind the eye.
func toScreen(viewProj camera.Mat4, p field.Vec4, w, h int32) (rl.Vector2, bool) {
	x, y, _, ok := viewProj.Project(p)
	if !ok {
		return rl.Vector2{}, false
	}
	return rl.NewVector2((x+1)/2*float32(w), (1-y)/2*float32(h)), true
}

// rlColor converts a renderer color, clamping channels to [0, 1].
func rlColor(c sim.Color) rl.Color {
	ch := func(v float32) uint8 { return uint8(min(max(v, 0), 1)*255 + 0.5) }
	return rl.NewColor(ch(c[0]), ch(c[1]), ch(c[2]), 255)
}

func mixColor(a, b sim.Color) sim.Color {
	return sim.Color{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
}

// keyCodes maps camera keys to raylib key codes.
var keyCodes = map[camera.Key]int32{
	camera.KeyLeft:  rl.KeyLeft,
	camera.KeyRight: rl.KeyRight,
	camera.KeyUp:    rl.KeyUp,
	camera.KeyDown:  rl.KeyDown,
	camera.KeyW:     rl.KeyW,
	camera.KeyA:     rl.KeyA,
	camera.KeyS:     rl.KeyS,
	camera.KeyD:     rl.KeyD,
	camera.KeySpace: rl.KeySpace,
	camera.KeyC:     rl.KeyC,
	camera.KeyE:     rl.KeyE,
}

// pollKeys mirrors the raylib key state into ks.
func pollKeys(ks *camera.KeyboardState, isDown func(int32) bool) {
	for key, code := range keyCodes {
		if isDown(code) {
			ks.Press(key)
		} else {
			ks.Release(key)
		}
	}
}
