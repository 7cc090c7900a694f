// Package scan implements the space-filling traversal orders, locality
// scorers, and per-block scan cursor used by the adaptive block coder.
package scan

// Method identifies a space-filling traversal order over a rectangular
// block. Values are small and stable since they are transmitted on the
// wire as a 3-bit tag (see Cursor and the block header format).
type Method uint8

const (
	Vertical Method = iota
	Horizontal
	ZigZag
	Hilbert
	Morton

	// numMethods is the count of real methods; methods are tried in this
	// order when an encoder scores a block, and the wire tag 0b111 is
	// reserved as the block-stream terminator since 3 bits can address up
	// to 8 values and only 5 are real methods.
	numMethods = 5
)

// Methods lists every traversal order in the order the encoder evaluates
// them when picking the best one for a block.
var Methods = [numMethods]Method{Vertical, Horizontal, ZigZag, Hilbert, Morton}

func (m Method) String() string {
	switch m {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case ZigZag:
		return "zigzag"
	case Hilbert:
		return "hilbert"
	case Morton:
		return "morton"
	default:
		return "invalid"
	}
}

// Dimensions is a (width, height) pair, reused both for whole-image and
// per-block sizing.
type Dimensions struct {
	Width, Height int
}

// Pos is a zero-based (x, y) coordinate.
type Pos struct {
	X, Y int
}

// HorizontalPos walks row-major: left to right, then top to bottom.
// x = i mod Bw, y = i div Bw.
func HorizontalPos(index int, dim Dimensions) Pos {
	if dim.Width == 0 {
		return Pos{}
	}
	return Pos{X: index % dim.Width, Y: index / dim.Width}
}

// VerticalPos walks column-major: top to bottom, then left to right.
// y = i mod Bh, x = i div Bh.
func VerticalPos(index int, dim Dimensions) Pos {
	if dim.Height == 0 {
		return Pos{}
	}
	return Pos{X: index / dim.Height, Y: index % dim.Height}
}

// ZigZagState is one of the four states of the zig-zag walk.
type ZigZagState uint8

const (
	Right ZigZagState = iota
	LeftDown
	Down
	RightUp
)

// ZigZagMove advances a zig-zag walk by one step from pos in state,
// bounded by a Bw x Bh block, returning the position and state to use
// for the next step.
func ZigZagMove(pos Pos, state ZigZagState, dim Dimensions) (Pos, ZigZagState) {
	bw, bh := dim.Width, dim.Height
	// A block one cell tall or one cell wide has no diagonals: the walk is
	// a straight line along its only row or column.
	if bh == 1 {
		pos.X++
		return pos, state
	}
	if bw == 1 {
		pos.Y++
		return pos, state
	}
	switch state {
	case Right:
		pos.X++
		if pos.Y == bh-1 {
			return pos, RightUp
		}
		return pos, LeftDown
	case LeftDown:
		pos.X--
		pos.Y++
		if pos.Y == bh-1 {
			return pos, Right
		}
		if pos.X == 0 {
			return pos, Down
		}
		return pos, LeftDown
	case Down:
		pos.Y++
		if pos.X == bw-1 {
			return pos, LeftDown
		}
		return pos, RightUp
	case RightUp:
		pos.X++
		pos.Y--
		if pos.X == bw-1 {
			return pos, Down
		}
		if pos.Y == 0 {
			return pos, Right
		}
		return pos, RightUp
	}
	return pos, state
}

// ZigZagOrder returns the full zig-zag traversal of a dim-sized block as
// a flat sequence of positions, starting at (0, 0) in state Right.
func ZigZagOrder(dim Dimensions) []Pos {
	if dim.Width <= 0 || dim.Height <= 0 {
		return nil
	}
	n := dim.Width * dim.Height
	order := make([]Pos, n)
	pos := Pos{}
	state := Right
	order[0] = pos
	for i := 1; i < n; i++ {
		pos, state = ZigZagMove(pos, state, dim)
		order[i] = pos
	}
	return order
}

// hilbertQuadrantSeed maps the low two bits of a linear index to their
// offset within the base 2x2 square.
var hilbertQuadrantSeed = [4]Pos{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// HilbertPos returns the index-th position of a bottom-up Hilbert curve
// traversal of a square, power-of-two-sized block (Bw == Bh, as used by
// the fixed 8x8 block size). The low two bits of index seed a position
// within the base 2x2 square; for n = 4, 8, ..., Bw*Bh (doubling, not
// quadrupling), the next two bits of index transform the running
// position per the standard Hilbert quadrant rules: quadrant 0 swaps
// (x, y); 1 adds (0, n/2); 2 adds (n/2, n/2); 3 reflects
// (x, y) -> (n/2-1-y, n/2-1-x) and adds (n/2, 0).
func HilbertPos(index int, dim Dimensions) Pos {
	p := hilbertQuadrantSeed[index&3]
	rem := index >> 2
	total := dim.Width * dim.Height
	for n := 4; n <= total; n *= 2 {
		half := n / 2
		switch rem & 3 {
		case 0:
			p.X, p.Y = p.Y, p.X
		case 1:
			p.Y += half
		case 2:
			p.X += half
			p.Y += half
		case 3:
			oldY := p.Y
			p.Y = half - 1 - p.X
			p.X = half - 1 - oldY
			p.X += half
		}
		rem >>= 2
	}
	return p
}

// mortonQuadrantSeed maps index mod 4 to its offset within the base 2x2
// square, in Z order (no rotation).
var mortonQuadrantSeed = [4]Pos{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// MortonPos returns the index-th position of a Morton (Z-order) curve
// traversal of a Bw x Bh block: x = (i/4)*2 mod Bw, y = (i/(2*Bh))*2,
// offset by the base 2x2 square position for i mod 4. Unlike HilbertPos
// this is a closed form with no running transform, since Z order only
// interleaves index bits rather than following a continuous path.
func MortonPos(index int, dim Dimensions) Pos {
	d := mortonQuadrantSeed[index%4]
	x := (index / 4 * 2) % dim.Width
	y := (index / (2 * dim.Height)) * 2
	return Pos{X: x + d.X, Y: y + d.Y}
}

// PosFor dispatches to the traversal function matching method. ZigZag
// cannot be computed statelessly from an index alone; callers needing
// ZigZag positions should use ZigZagOrder or drive it incrementally via
// Cursor.
func PosFor(method Method, index int, dim Dimensions) Pos {
	switch method {
	case Horizontal:
		return HorizontalPos(index, dim)
	case Vertical:
		return VerticalPos(index, dim)
	case Hilbert:
		return HilbertPos(index, dim)
	case Morton:
		return MortonPos(index, dim)
	default:
		panic("scan: PosFor does not support stateful methods like ZigZag")
	}
}
