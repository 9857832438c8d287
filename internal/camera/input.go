package camera

// Key names a physical key independent of the windowing toolkit.
type Key string

const (
	KeyLeft  Key = "left"
	KeyRight Key = "right"
	KeyUp    Key = "up"
	KeyDown  Key = "down"
	KeyW     Key = "w"
	KeyA     Key = "a"
	KeyS     Key = "s"
	KeyD     Key = "d"
	KeySpace Key = "space"
	KeyC     Key = "c"
	KeyE     Key = "e"
)

type Action int

const (
	RotateLeft Action = iota
	RotateRight
	RotateUp
	RotateDown
	MoveForward
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	actionCount
)

// Bindings maps keys to camera actions.
type Bindings map[Key]Action

func DefaultBindings() Bindings {
	return Bindings{
		KeyLeft:  RotateLeft,
		KeyRight: RotateRight,
		KeyUp:    RotateUp,
		KeyDown:  RotateDown,
		KeyW:     MoveForward,
		KeyS:     MoveBackward,
		KeyA:     MoveLeft,
		KeyD:     MoveRight,
		KeySpace: MoveUp,
		KeyC:     MoveDown,
	}
}

// TerminalBindings moves up with E instead of Space. Terminal front-ends
// use Space to pause.
func TerminalBindings() Bindings {
	b := DefaultBindings()
	delete(b, KeySpace)
	b[KeyE] = MoveUp
	return b
}

// Input is an immutable snapshot of the actions held during one frame.
type Input struct {
	held [actionCount]bool
}

// NewInput builds a snapshot with the given actions held.
func NewInput(actions ...Action) Input {
	var in Input
	for _, a := range actions {
		if a >= 0 && a < actionCount {
			in.held[a] = true
		}
	}
	return in
}

func (in Input) Has(a Action) bool {
	return a >= 0 && a < actionCount && in.held[a]
}

func (in Input) Empty() bool { return in == (Input{}) }

// KeyboardState tracks which keys are currently down.
type KeyboardState struct {
	pressed map[Key]struct{}
}

func NewKeyboardState() *KeyboardState {
	return &KeyboardState{pressed: make(map[Key]struct{})}
}

func (k *KeyboardState) Press(key Key)   { k.pressed[key] = struct{}{} }
func (k *KeyboardState) Release(key Key) { delete(k.pressed, key) }

func (k *KeyboardState) IsPressed(key Key) bool {
	_, ok := k.pressed[key]
	return ok
}

// Clear releases every key. Terminal front-ends without key-up events call
// it once per frame.
func (k *KeyboardState) Clear() {
	for key := range k.pressed {
		delete(k.pressed, key)
	}
}

func (k *KeyboardState) Snapshot(b Bindings) Input {
	var in Input
	for key := range k.pressed {
		if a, ok := b[key]; ok {
			in.held[a] = true
		}
	}
	return in
}
