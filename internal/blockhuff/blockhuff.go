// Package blockhuff implements the adaptive-block codec: an image is
// tiled into fixed-size blocks, each coded under whichever space-filling
// scan order best suits its content, all sharing one adaptive Huffman
// tree that carries state across block boundaries.
package blockhuff

import (
	"errors"

	"github.com/pixelcodecs/graypix/internal/adaptivehuff"
	"github.com/pixelcodecs/graypix/internal/bitio"
	"github.com/pixelcodecs/graypix/internal/pixmodel"
	"github.com/pixelcodecs/graypix/internal/scan"
)

// ErrInvalidHeader is returned when a stream's image header is truncated
// or describes a degenerate layout.
var ErrInvalidHeader = errors.New("blockhuff: invalid header")

// ErrCorruptStream is returned when a block header where a block is
// expected carries a tag that is not a real scan method (the terminator
// included), when the terminator does not follow the last block, or when
// a PEOF symbol appears inside a block's payload.
var ErrCorruptStream = errors.New("blockhuff: corrupt block header")

// terminator is the 3-bit block-header value that ends the block stream.
// 3 bits address 8 values and only 5 are real scan methods, so this
// value can never collide with one.
const terminator = 0b111

// ImageHeader describes the pixel grid and the fixed block size it is
// tiled with.
type ImageHeader struct {
	Width, Height           int
	BlockWidth, BlockHeight int
}

func writeImageHeader(w *bitio.Writer, h ImageHeader) {
	w.WriteByte(byte(h.Width))
	w.WriteByte(byte(h.Width >> 8))
	w.WriteByte(byte(h.Height))
	w.WriteByte(byte(h.Height >> 8))
	w.WriteByte(byte(h.BlockWidth))
	w.WriteByte(byte(h.BlockHeight))
}

func readImageHeader(r *bitio.Reader) (ImageHeader, error) {
	lo, err := r.ReadByte()
	if err != nil {
		return ImageHeader{}, ErrInvalidHeader
	}
	hi, err := r.ReadByte()
	if err != nil {
		return ImageHeader{}, ErrInvalidHeader
	}
	width := int(lo) | int(hi)<<8
	lo, err = r.ReadByte()
	if err != nil {
		return ImageHeader{}, ErrInvalidHeader
	}
	hi, err = r.ReadByte()
	if err != nil {
		return ImageHeader{}, ErrInvalidHeader
	}
	height := int(lo) | int(hi)<<8
	bw, err := r.ReadByte()
	if err != nil {
		return ImageHeader{}, ErrInvalidHeader
	}
	bh, err := r.ReadByte()
	if err != nil {
		return ImageHeader{}, ErrInvalidHeader
	}
	if width <= 0 || height <= 0 || bw == 0 || bh == 0 {
		return ImageHeader{}, ErrInvalidHeader
	}
	return ImageHeader{Width: width, Height: height, BlockWidth: int(bw), BlockHeight: int(bh)}, nil
}

func blocksAcross(h ImageHeader) int {
	return (h.Width + h.BlockWidth - 1) / h.BlockWidth
}

func blocksDown(h ImageHeader) int {
	return (h.Height + h.BlockHeight - 1) / h.BlockHeight
}

// forEachCell walks every one of a block's blockSize.Width*blockSize.Height
// cells in method's order, invoking fn once per cell with its image
// position and whether that position actually lands inside the width x
// height image. Cells beyond the image's right or bottom edge (when the
// image isn't an exact multiple of the block size) still get a call --
// the encoder must read zero for them and the decoder must still consume
// a symbol for them, per the wire format's fixed per-block symbol count;
// fn decides what, if anything, to do with an out-of-bounds position.
func forEachCell(method scan.Method, blockIndex int, blockSize scan.Dimensions, width, height int, fn func(p scan.Pos, inBounds bool)) {
	c := &scan.Cursor{BlockIndex: blockIndex, BlockSize: blockSize, ImageWidth: width}
	c.Reset(method)
	total := blockSize.Width * blockSize.Height
	for i := 0; i < total; i++ {
		p := c.ImagePos()
		fn(p, p.X < width && p.Y < height)
		c.Move()
	}
}

// chooseMethod scores every traversal order over a block's actual pixel
// content (via a fresh SameNeighboursScorer each time) and returns the
// one with the highest score, short-circuiting as soon as a method
// reaches scan.MaxScore since nothing can beat it. Ties go to whichever
// method was tried first, which is scan.Methods' fixed order.
func chooseMethod(data []byte, header ImageHeader, blockIndex int, blockSize scan.Dimensions) scan.Method {
	best := scan.Methods[0]
	bestScore := -1
	for _, m := range scan.Methods {
		var scorer scan.SameNeighboursScorer
		scorer.Reset()
		forEachCell(m, blockIndex, blockSize, header.Width, header.Height, func(p scan.Pos, inBounds bool) {
			var v byte
			if inBounds {
				v = data[p.Y*header.Width+p.X]
			}
			scorer.Next(v)
		})
		if scorer.Score() > bestScore {
			bestScore = scorer.Score()
			best = m
		}
		if bestScore == scan.MaxScore {
			break
		}
	}
	return best
}

// Encode tiles data (a width x height grayscale raster) into blockW x
// blockH blocks, picks the best-scoring scan order for each, and codes
// every block's pixels with one adaptive Huffman tree shared across the
// whole image. model is reset at the start of every block and applied
// along that block's chosen traversal order.
func Encode(data []byte, width, height, blockW, blockH int, model pixmodel.Model) []byte {
	header := ImageHeader{Width: width, Height: height, BlockWidth: blockW, BlockHeight: blockH}
	blockSize := scan.Dimensions{Width: blockW, Height: blockH}
	numBlocks := blocksAcross(header) * blocksDown(header)

	w := bitio.NewWriter(len(data)/2 + 64)
	writeImageHeader(w, header)

	coder := adaptivehuff.NewCoder()
	for blockIndex := 0; blockIndex < numBlocks; blockIndex++ {
		method := chooseMethod(data, header, blockIndex, blockSize)
		w.WriteBits(uint32(method), 3)

		model.Reset()
		forEachCell(method, blockIndex, blockSize, width, height, func(p scan.Pos, inBounds bool) {
			var v byte
			if inBounds {
				v = data[p.Y*width+p.X]
			}
			coder.EncodeSymbol(w, model.Apply(v))
		})
	}
	w.WriteBits(terminator, 3)
	return w.Finish()
}

// Decode inverts Encode, reading the image header to learn the pixel
// grid and block size, then decoding as many blocks as the header implies
// and checking that the terminator tag follows the last one.
func Decode(stream []byte, model pixmodel.Model) ([]byte, ImageHeader, error) {
	r := bitio.NewReader(stream)
	header, err := readImageHeader(r)
	if err != nil {
		return nil, ImageHeader{}, err
	}
	blockSize := scan.Dimensions{Width: header.BlockWidth, Height: header.BlockHeight}
	numBlocks := blocksAcross(header) * blocksDown(header)

	out := make([]byte, header.Width*header.Height)
	decoder := adaptivehuff.NewDecoder()

	for blockIndex := 0; blockIndex < numBlocks; blockIndex++ {
		tag, err := r.ReadBits(3)
		if err != nil {
			return nil, ImageHeader{}, bitio.ErrUnexpectedEnd
		}
		if tag == terminator {
			return nil, ImageHeader{}, ErrCorruptStream
		}
		if tag >= uint32(len(scan.Methods)) {
			return nil, ImageHeader{}, ErrCorruptStream
		}
		method := scan.Method(tag)

		model.Reset()
		var stepErr error
		forEachCell(method, blockIndex, blockSize, header.Width, header.Height, func(p scan.Pos, inBounds bool) {
			if stepErr != nil {
				return
			}
			for {
				bit, err := r.ReadBit()
				if err != nil {
					stepErr = bitio.ErrUnexpectedEnd
					return
				}
				symbol, ok, peof := decoder.Step(bit)
				if peof {
					stepErr = ErrCorruptStream
					return
				}
				if ok {
					v := model.Revert(byte(symbol))
					if inBounds {
						out[p.Y*header.Width+p.X] = v
					}
					return
				}
			}
		})
		if stepErr != nil {
			return nil, ImageHeader{}, stepErr
		}
	}

	tag, err := r.ReadBits(3)
	if err != nil {
		return nil, ImageHeader{}, bitio.ErrUnexpectedEnd
	}
	if tag != terminator {
		return nil, ImageHeader{}, ErrCorruptStream
	}
	return out, header, nil
}
