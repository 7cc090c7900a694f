package bitio

import "testing"

// FuzzReaderNeverPanics mirrors the teacher's FuzzDecode: arbitrary bytes
// must never make the reader panic, only return ErrUnexpectedEnd once the
// underlying slice runs out.
func FuzzReaderNeverPanics(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0xFF, 0x00, 0xAB})
	f.Add([]byte{0x80, 0x7F, 0x55, 0xAA, 0x01})

	f.Fuzz(func(t *testing.T, data []byte) {
		r := NewReader(data)
		for i := 0; i < len(data)*8+8; i++ {
			if _, err := r.ReadBit(); err != nil {
				return
			}
		}
	})
}

// FuzzWriteBitsRoundTrip packs nBits-sized chunks of the fuzz input and
// confirms a Reader recovers exactly the bits a Writer packed, regardless
// of how the input happens to slice into bit-widths.
func FuzzWriteBitsRoundTrip(f *testing.F) {
	f.Add([]byte{0x00, 0x01, 0x02})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) == 0 {
			return
		}
		w := NewWriter(len(data))
		var widths []int
		var values []uint32
		for _, b := range data {
			width := int(b%32) + 1
			v := uint32(b) & ((1 << uint(width)) - 1)
			widths = append(widths, width)
			values = append(values, v)
			w.WriteBits(v, width)
		}
		encoded := w.Finish()

		r := NewReader(encoded)
		for i, width := range widths {
			got, err := r.ReadBits(width)
			if err != nil {
				t.Fatalf("ReadBits(%d) at chunk %d: %v", width, i, err)
			}
			if got != values[i] {
				t.Fatalf("chunk %d: got %d, want %d", i, got, values[i])
			}
		}
	})
}
