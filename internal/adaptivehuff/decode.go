package adaptivehuff

import "github.com/pixelcodecs/graypix/internal/hufftree"

// walkState tracks whether the decoder's next bit should navigate the
// tree or accumulate into a 9-bit raw value.
type walkState int

const (
	stateTree walkState = iota
	stateValue
)

// Decoder walks an adaptive Huffman tree one bit at a time. It starts in
// stateValue: a brand new tree is a bare NYT root, so the very first
// symbol is always a 9-bit raw value with zero bits of tree navigation.
// After that, state persists across symbols (and, for the adaptive-block
// coder, across block boundaries) exactly as the encoder's prefix choice
// does.
type Decoder struct {
	c         *Coder
	state     walkState
	node      hufftree.NodeIndex
	valueBits []bool
}

// NewDecoder creates a Decoder paired with a fresh Coder tree.
func NewDecoder() *Decoder {
	c := NewCoder()
	return &Decoder{c: c, state: stateValue, node: c.tree.Root}
}

// Step folds one more bit into the walker. ok reports that a symbol was
// just completed (and the tree already updated to reflect it); peof
// reports that the terminator was read instead, at which point the
// caller must stop. Only one of ok and peof is ever true on the same
// call.
func (d *Decoder) Step(bit bool) (symbol int, ok bool, peof bool) {
	if d.state == stateTree {
		n := d.c.tree.Node(d.node)
		if bit {
			d.node = n.Right
		} else {
			d.node = n.Left
		}
	} else {
		d.valueBits = append(d.valueBits, bit)
	}

	n := d.c.tree.Node(d.node)
	switch {
	case n.IsLeaf() && !n.IsNYT:
		symbol, ok = n.Symbol, true
	case n.IsNYT && d.state == stateTree:
		d.state = stateValue
		d.valueBits = d.valueBits[:0]
	case n.IsNYT && d.state == stateValue && len(d.valueBits) == 9:
		val := bitsToInt(d.valueBits)
		d.valueBits = d.valueBits[:0]
		d.state = stateTree
		d.node = d.c.tree.Root
		if val == PEOF {
			return 0, false, true
		}
		symbol, ok = val, true
	}

	if ok {
		d.c.Observe(uint8(symbol))
		d.node = d.c.tree.Root
		d.state = stateTree
	}
	return symbol, ok, false
}

func bitsToInt(bits []bool) int {
	v := 0
	for _, b := range bits {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}
