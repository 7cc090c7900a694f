package blockhuff

import (
	"bytes"
	"testing"

	"github.com/pixelcodecs/graypix/internal/pixmodel"
)

func TestRoundTripExactBlockGrid(t *testing.T) {
	const w, h = 16, 8
	data := make([]byte, w*h)
	for i := range data {
		data[i] = byte(i % 251)
	}
	encoded := Encode(data, w, h, 8, 8, pixmodel.Identity{})
	decoded, header, err := Decode(encoded, pixmodel.Identity{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if header.Width != w || header.Height != h {
		t.Fatalf("header = %+v, want %dx%d", header, w, h)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch")
	}
}

// TestRoundTripPartialBlocksAtMargins exercises a width/height that does
// not evenly divide the block size, so the last row and column of blocks
// are only partly covered by real pixels.
func TestRoundTripPartialBlocksAtMargins(t *testing.T) {
	const w, h = 13, 11
	data := make([]byte, w*h)
	for i := range data {
		data[i] = byte((i*31 + 7) % 256)
	}
	encoded := Encode(data, w, h, 8, 8, pixmodel.Identity{})
	decoded, _, err := Decode(encoded, pixmodel.Identity{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch:\n got  %v\n want %v", decoded, data)
	}
}

// TestRoundTripTwoDistinctBlockPatterns is a synthetic analogue of the
// top half of the original test.cpp fixture (see
// TestRoundTripOriginalFixture for the literal one): a smooth horizontal
// ramp in the left block (favouring horizontal or vertical scanning)
// next to a flat constant-per-row block (favouring a different order),
// so the two blocks are very likely to pick different scan methods.
func TestRoundTripTwoDistinctBlockPatterns(t *testing.T) {
	const w, h = 16, 8
	data := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < 8; x++ {
			data[y*w+x] = byte(x + 1)
		}
		for x := 8; x < w; x++ {
			data[y*w+x] = byte(y * 10)
		}
	}
	encoded := Encode(data, w, h, 8, 8, pixmodel.Identity{})
	decoded, _, err := Decode(encoded, pixmodel.Identity{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripWithNeighbourDifferenceModel(t *testing.T) {
	const w, h = 24, 16
	data := make([]byte, w*h)
	for i := range data {
		data[i] = byte(80 + (i*3)%40)
	}
	encoded := Encode(data, w, h, 8, 8, &pixmodel.NeighbourDifference{})
	decoded, _, err := Decode(encoded, &pixmodel.NeighbourDifference{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripSingleBlockSmallerThanBlockSize(t *testing.T) {
	const w, h = 5, 3
	data := []byte{
		1, 2, 3, 4, 5,
		5, 4, 3, 2, 1,
		1, 1, 1, 1, 1,
	}
	encoded := Encode(data, w, h, 8, 8, pixmodel.Identity{})
	decoded, _, err := Decode(encoded, pixmodel.Identity{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch:\n got  %v\n want %v", decoded, data)
	}
}

// adaptiveBlocksFixture is the literal 16x16 test vector from the
// original test.cpp's main(): a ramp/constant-per-row top half and a
// zig-zag-numbered/diagonal-ramp bottom half, laid out row-major.
var adaptiveBlocksFixture = []byte{
	1, 2, 3, 4, 5, 6, 7, 8, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 2, 3, 4, 5, 6, 7, 8, 2, 2, 2, 2, 2, 2, 2, 2,
	1, 2, 3, 4, 5, 6, 7, 8, 3, 3, 3, 3, 3, 3, 3, 3,
	1, 2, 3, 4, 5, 6, 7, 8, 4, 4, 4, 4, 4, 4, 4, 4,
	1, 2, 3, 4, 5, 6, 7, 8, 5, 5, 5, 5, 5, 5, 5, 5,
	1, 2, 3, 4, 5, 6, 7, 8, 6, 6, 6, 6, 6, 6, 6, 6,
	1, 2, 3, 4, 5, 6, 7, 8, 7, 7, 7, 7, 7, 7, 7, 7,
	1, 2, 3, 4, 5, 6, 7, 8, 8, 8, 8, 8, 8, 8, 8, 8,

	1, 2, 6, 7, 15, 16, 28, 29, 1, 2, 3, 4, 6, 7, 8, 9,
	3, 5, 8, 14, 17, 27, 30, 43, 2, 3, 4, 5, 7, 8, 9, 10,
	4, 9, 13, 18, 26, 31, 42, 44, 3, 4, 5, 7, 8, 9, 10, 11,
	10, 12, 19, 25, 32, 41, 45, 54, 4, 5, 7, 8, 9, 10, 11, 12,
	11, 20, 24, 33, 40, 46, 53, 55, 5, 7, 8, 9, 10, 11, 12, 13,
	21, 23, 34, 39, 47, 52, 56, 61, 7, 8, 9, 10, 11, 12, 13, 14,
	22, 35, 38, 48, 51, 57, 60, 62, 8, 9, 10, 11, 12, 13, 14, 15,
	36, 37, 49, 50, 58, 59, 63, 64, 9, 10, 11, 12, 13, 14, 15, 16,
}

// TestRoundTripOriginalFixture round-trips the exact 16x16 vector the
// original implementation's test.cpp exercised, under the neighbour
// difference model with an 8x8 block size, matching the original's call
// to encodeImageAdaptiveBlocks/decodeImageAdaptiveBlocks.
func TestRoundTripOriginalFixture(t *testing.T) {
	const w, h = 16, 16
	encoded := Encode(adaptiveBlocksFixture, w, h, 8, 8, &pixmodel.NeighbourDifference{})
	decoded, header, err := Decode(encoded, &pixmodel.NeighbourDifference{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if header.Width != w || header.Height != h {
		t.Fatalf("header = %+v, want %dx%d", header, w, h)
	}
	if !bytes.Equal(decoded, adaptiveBlocksFixture) {
		t.Fatalf("round trip mismatch:\n got  %v\n want %v", decoded, adaptiveBlocksFixture)
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	_, _, err := Decode([]byte{1, 2, 3}, pixmodel.Identity{})
	if err != ErrInvalidHeader {
		t.Fatalf("err = %v, want ErrInvalidHeader", err)
	}
}
