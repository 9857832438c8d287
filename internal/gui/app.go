package gui

import (
	"fmt"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/emsim/internal/audio"
	"github.com/san-kum/emsim/internal/camera"
	"github.com/san-kum/emsim/internal/sim"
)

// HUD colors. Field arrows take their colors from sim.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

// Options configure the window.
type Options struct {
	Width, Height int32
	// Stride draws every Stride-th cell along each axis.
	Stride int
	Audio  bool
}

func DefaultOptions() Options {
	return Options{Width: 1280, Height: 720, Stride: 1}
}

// App is the raylib front-end: a free camera over the field arrows, a HUD
// and an energy trace.
type App struct {
	Sim        *sim.FieldsSimulator
	Title      string
	FrameDt    float32
	Camera     *camera.Controller
	Keys       *camera.KeyboardState
	Bindings   camera.Bindings
	Surface    *Surface
	Running    bool
	Telemetry  []float64 // Ring buffer for the total energy graph
	MaxHistory int
	Font       rl.Font
	Audio      *audio.Processor
	Err        error
}

func initWindow(w, h int32) {
	rl.InitWindow(w, h, "emsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(s *sim.FieldsSimulator, title string, frameDt float32, opts Options) *App {
	cam := camera.NewController()
	cam.Overview(s.Size())

	surface := NewSurface(opts.Width, opts.Height)
	surface.Stride = max(opts.Stride, 1)

	return &App{
		Sim:        s,
		Title:      title,
		FrameDt:    frameDt,
		Camera:     cam,
		Keys:       camera.NewKeyboardState(),
		Bindings:   camera.DefaultBindings(),
		Surface:    surface,
		Running:    true,
		Telemetry:  make([]float64, 0, 200),
		MaxHistory: 200,
		Font:       rl.GetFontDefault(),
	}
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(s *sim.FieldsSimulator, title string, frameDt float32, opts Options) error {
	initWindow(opts.Width, opts.Height)
	defer rl.CloseWindow()

	app := NewApp(s, title, frameDt, opts)
	if opts.Audio {
		proc := audio.NewProcessor()
		if err := proc.Start(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			app.Audio = proc
			defer proc.Stop()
		}
	}
	app.RunLoop()
	return app.Err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update(rl.GetFrameTime())
		a.Draw()
	}
}

// Update applies input and advances the simulation by one frame.
func (a *App) Update(frameTime float32) {
	if rl.IsKeyPressed(rl.KeyP) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Camera.Overview(a.Sim.Size())
	}
	if rl.IsKeyPressed(rl.KeyEqual) {
		a.Surface.Stride = max(a.Surface.Stride-1, 1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) {
		a.Surface.Stride++
	}

	pollKeys(a.Keys, rl.IsKeyDown)
	a.Camera.Update(frameTime, a.Keys.Snapshot(a.Bindings))

	if !a.Running || a.Err != nil {
		return
	}
	if err := a.Sim.Update(a.FrameDt); err != nil {
		a.Err = err
		a.Running = false
		return
	}

	e, h := a.Sim.Field().Energy()
	a.Telemetry = append(a.Telemetry, e+h)
	if len(a.Telemetry) > a.MaxHistory {
		a.Telemetry = a.Telemetry[1:]
	}
	if a.Audio != nil {
		a.Audio.OnFrame(a.Sim.Frame(), a.Sim.Time(), a.Sim.Field())
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	a.Sim.Draw(a.Surface, a.Camera.ViewMatrix(a.Surface.Aspect()))
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("emsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s %s", a.Title, a.Sim.Size()), 120, 34, 16, ColText)

	e, h := a.Sim.Field().Energy()
	a.drawText(fmt.Sprintf("frame %d  t=%.3f", a.Sim.Frame(), a.Sim.Time()), 30, 64, 14, ColText)
	a.drawText(fmt.Sprintf("E %.4g  H %.4g", e, h), 30, 84, 14, ColText)
	a.drawText(fmt.Sprintf("%s  %d arrows", a.Sim.Kernel().Name(), a.Surface.Drawn()), 30, 104, 14, ColTextDim)

	a.DrawTelemetry()

	status, col := "RUNNING", ColSelect
	switch {
	case a.Err != nil:
		status, col = "ERROR: "+a.Err.Error(), rl.Red
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, int(a.Surface.Width)-130, 30, 16, col)

	a.drawText("[ARROWS] LOOK  [WASD] MOVE  [SPACE/C] UP/DOWN  [P] PAUSE  [R] RECENTER  [+/-] DENSITY  [Q] QUIT",
		30, int(a.Surface.Height)-40, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), int(a.Surface.Width)-90, int(a.Surface.Height)-40, 14, ColTextDim)

	if a.Audio != nil && a.Audio.Active {
		a.drawText("AUDIO [ON]", 30, int(a.Surface.Height)-70, 14, ColAccent)
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}
	rectX, rectY := 30, int(a.Surface.Height)-140
	width, height := 400, 60

	points := telemetryPoints(a.Telemetry, float32(rectX), float32(rectY), float32(width), float32(height))
	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E+H: %.3e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

// telemetryPoints scales a series into the rectangle at (x, y).
func telemetryPoints(series []float64, x, y, w, h float32) []rl.Vector2 {
	lo, hi := series[0], series[0]
	for _, v := range series {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	points := make([]rl.Vector2, len(series))
	for i, v := range series {
		px := x + float32(i)/float32(len(series))*w
		py := y + h - float32((v-lo)/(hi-lo))*h
		points[i] = rl.NewVector2(px, py)
	}
	return points
}
