package types

import "time"

// Grid represents a square board of Width x Width cells addressed by a
// single index in [0, Area).
type Grid struct {
	Width int
}

// Game constants
const (
	DefaultWidth        = 16
	DefaultTickInterval = 300 * time.Millisecond
)

// SeedSnake is the body every run starts from, head first.
var SeedSnake = []int{2, 1, 0}

func (g Grid) Area() int {
	return g.Width * g.Width
}

// Coords returns the column and row of cell i.
func (g Grid) Coords(i int) (col, row int) {
	return i % g.Width, i / g.Width
}

func (g Grid) Index(col, row int) int {
	return row*g.Width + col
}

// Even reports the checkerboard parity of a cell. Parity follows the linear
// index, so on even widths whole columns share a shade.
func (g Grid) Even(i int) bool {
	return i%2 == 0
}

// Orientation is the signed index delta applied to the head every tick.
type Orientation int

// Right, Left, Down and Up orientations for a grid.
func (g Grid) Right() Orientation { return 1 }
func (g Grid) Left() Orientation  { return -1 }
func (g Grid) Down() Orientation  { return Orientation(g.Width) }
func (g Grid) Up() Orientation    { return Orientation(-g.Width) }

// Phase is the lifecycle state of a session.
type Phase int

const (
	Running Phase = iota
	Over
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "RUNNING"
	case Over:
		return "OVER"
	default:
		return "UNKNOWN"
	}
}

// MarshalText lets snapshots carry the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Key is a frontend-independent directional key.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyRight
	KeyDown
	KeyLeft
)

var keyNames = map[string]Key{
	"ArrowUp":    KeyUp,
	"ArrowRight": KeyRight,
	"ArrowDown":  KeyDown,
	"ArrowLeft":  KeyLeft,
}

// ParseKey maps a DOM-style key name to a Key. Unknown names yield KeyNone.
func ParseKey(name string) Key {
	return keyNames[name]
}

func (k Key) String() string {
	for name, key := range keyNames {
		if key == k {
			return name
		}
	}
	return "None"
}

// Orientation returns the delta a key selects on grid g, or 0 for KeyNone.
func (k Key) Orientation(g Grid) Orientation {
	switch k {
	case KeyUp:
		return g.Up()
	case KeyRight:
		return g.Right()
	case KeyDown:
		return g.Down()
	case KeyLeft:
		return g.Left()
	default:
		return 0
	}
}

// TurnLeft returns the key that turns 90 degrees counter-clockwise from k.
func (k Key) TurnLeft() Key {
	switch k {
	case KeyUp:
		return KeyLeft
	case KeyRight:
		return KeyUp
	case KeyDown:
		return KeyRight
	case KeyLeft:
		return KeyDown
	default:
		return k
	}
}

// TurnRight returns the key that turns 90 degrees clockwise from k.
func (k Key) TurnRight() Key {
	switch k {
	case KeyUp:
		return KeyRight
	case KeyRight:
		return KeyDown
	case KeyDown:
		return KeyLeft
	case KeyLeft:
		return KeyUp
	default:
		return k
	}
}

// KeyFor returns the key whose orientation is o on grid g.
func KeyFor(g Grid, o Orientation) Key {
	for _, k := range []Key{KeyUp, KeyRight, KeyDown, KeyLeft} {
		if k.Orientation(g) == o {
			return k
		}
	}
	return KeyNone
}

type Color struct {
	R, G, B uint8
}

// Board palette
var (
	ColorEven  = Color{R: 74, G: 222, B: 128}  // green-400
	ColorOdd   = Color{R: 187, G: 247, B: 208} // green-200
	ColorOver  = Color{R: 248, G: 113, B: 113} // red-400
	ColorSnake = Color{R: 251, G: 146, B: 60}  // orange-400
	ColorFood  = Color{R: 220, G: 38, B: 38}   // red-600
	ColorTitle = Color{R: 74, G: 222, B: 128}
)
