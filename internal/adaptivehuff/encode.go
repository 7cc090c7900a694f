package adaptivehuff

import (
	"github.com/pixelcodecs/graypix/internal/bitio"
	"github.com/pixelcodecs/graypix/internal/pixmodel"
)

// EncodeSymbol writes v's current code (the NYT path plus a 9-bit raw
// value on first occurrence, or the existing leaf's path otherwise) and
// updates the tree to account for it.
func (c *Coder) EncodeSymbol(w *bitio.Writer, v uint8) {
	if c.HasSeen(v) {
		w.WriteBoolSlice(c.PathToSymbol(v))
	} else {
		w.WriteBoolSlice(c.PathToNYT())
		w.WriteBits(uint32(v), 9)
	}
	c.Observe(v)
}

// EncodeEOF writes the stream terminator: the current NYT path followed
// by the PEOF raw value. It does not otherwise touch the tree.
func (c *Coder) EncodeEOF(w *bitio.Writer) {
	w.WriteBoolSlice(c.PathToNYT())
	w.WriteBits(PEOF, 9)
}

// Encode runs a whole byte slice through model and a single adaptive
// Huffman tree, terminated by EOF. This is the non-block adaptive mode;
// internal/blockhuff drives a Coder and Decoder directly instead, so it
// can interleave per-block headers and reset the model per block while
// keeping one tree for the whole image.
func Encode(data []byte, model pixmodel.Model) []byte {
	c := NewCoder()
	w := bitio.NewWriter(len(data)/2 + 64)
	for _, v := range data {
		c.EncodeSymbol(w, model.Apply(v))
	}
	c.EncodeEOF(w)
	return w.Finish()
}

// Decode inverts Encode, reading bits until the terminator is reached.
func Decode(stream []byte, model pixmodel.Model) ([]byte, error) {
	d := NewDecoder()
	r := bitio.NewReader(stream)
	var out []byte
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return nil, bitio.ErrUnexpectedEnd
		}
		symbol, ok, peof := d.Step(bit)
		if peof {
			break
		}
		if ok {
			out = append(out, model.Revert(byte(symbol)))
		}
	}
	return out, nil
}
