package scan

// Cursor walks the cells of a single block in a chosen Method's order and
// maps each step to the corresponding (x, y) position within the full
// image. It is the streaming analogue of calling PosFor/ZigZagOrder
// index-by-index, kept as a single mutable cursor since the adaptive
// block decoder advances it one decoded symbol at a time interleaved
// with bitstream reads.
//
// Unlike the table this is ported from, Move handles every Method,
// including Hilbert and Morton -- a block selecting either of those
// orders must still walk every cell of the block correctly for decode to
// round-trip.
type Cursor struct {
	BlockIndex int // which block within the image, row-major over blocks
	BlockSize  Dimensions
	ImageWidth int
	Method     Method

	index     int
	pos       Pos
	zigzag    []Pos
	zigzagIdx int
}

// Reset starts the cursor at the first cell of a new block using method.
func (c *Cursor) Reset(method Method) {
	c.Method = method
	c.index = 0
	c.pos = Pos{}
	c.zigzagIdx = 0
	if method == ZigZag {
		c.zigzag = ZigZagOrder(c.BlockSize)
		if len(c.zigzag) > 0 {
			c.pos = c.zigzag[0]
		}
	}
}

// Pos returns the cursor's current position within the block.
func (c *Cursor) Pos() Pos {
	return c.pos
}

// Move advances the cursor to the next cell of the block.
func (c *Cursor) Move() {
	c.index++
	switch c.Method {
	case Vertical:
		c.pos = VerticalPos(c.index, c.BlockSize)
	case Horizontal:
		c.pos = HorizontalPos(c.index, c.BlockSize)
	case Hilbert:
		c.pos = HilbertPos(c.index, c.BlockSize)
	case Morton:
		c.pos = MortonPos(c.index, c.BlockSize)
	case ZigZag:
		c.zigzagIdx++
		if c.zigzagIdx < len(c.zigzag) {
			c.pos = c.zigzag[c.zigzagIdx]
		}
	}
}

// blocksPerRow returns how many blocks span one row of an image of the
// given width, given the cursor's block width.
func blocksPerRow(imageWidth, blockWidth int) int {
	if blockWidth <= 0 {
		return 0
	}
	return (imageWidth + blockWidth - 1) / blockWidth
}

// StartPosForBlock returns the top-left image coordinate of the
// blockIndex-th block, laid out row-major over a grid of blockSize-sized
// blocks tiling an image of the given width.
func StartPosForBlock(blockIndex, imageWidth int, blockSize Dimensions) Pos {
	perRow := blocksPerRow(imageWidth, blockSize.Width)
	if perRow == 0 {
		return Pos{}
	}
	bx := blockIndex % perRow
	by := blockIndex / perRow
	return Pos{X: bx * blockSize.Width, Y: by * blockSize.Height}
}

// ImagePos returns the cursor's current position translated into full
// image coordinates.
func (c *Cursor) ImagePos() Pos {
	start := StartPosForBlock(c.BlockIndex, c.ImageWidth, c.BlockSize)
	return Pos{X: start.X + c.pos.X, Y: start.Y + c.pos.Y}
}
