package graypix

import (
	"bytes"
	"errors"
	"testing"
)

func sampleImage(width, height int) []byte {
	pixels := make([]byte, width*height)
	for i := range pixels {
		pixels[i] = byte((i*41 + i*i/5) % 256)
	}
	return pixels
}

func TestRoundTripEveryModeAndModelCombination(t *testing.T) {
	const w, h = 20, 12
	pixels := sampleImage(w, h)

	modes := []Mode{Static, Adaptive, AdaptiveBlocks}
	for _, mode := range modes {
		for _, model := range []bool{false, true} {
			opts := Options{Mode: mode, Model: model}
			encoded, err := Encode(pixels, w, h, opts)
			if err != nil {
				t.Fatalf("mode=%v model=%v Encode: %v", mode, model, err)
			}
			decoded, _, _, err := Decode(encoded, opts)
			if err != nil {
				t.Fatalf("mode=%v model=%v Decode: %v", mode, model, err)
			}
			if !bytes.Equal(decoded, pixels) {
				t.Fatalf("mode=%v model=%v round trip mismatch", mode, model)
			}
		}
	}
}

func TestEncodeRejectsMismatchedPixelCount(t *testing.T) {
	_, err := Encode(make([]byte, 5), 4, 4, Options{Mode: Static})
	var e *Error
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.As(err, &e) || e.Kind != InvalidArgument {
		t.Fatalf("err = %v, want InvalidArgument", err)
	}
}

func TestDecodeClassifiesTruncatedStream(t *testing.T) {
	_, _, _, err := Decode([]byte{1}, Options{Mode: Static})
	var e *Error
	if !errors.As(err, &e) || e.Kind != InvalidHeader {
		t.Fatalf("err = %v, want InvalidHeader", err)
	}
}

func TestAdaptiveBlocksReportsEmbeddedDimensions(t *testing.T) {
	const w, h = 16, 16
	pixels := sampleImage(w, h)
	encoded, err := Encode(pixels, w, h, Options{Mode: AdaptiveBlocks})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, gotW, gotH, err := Decode(encoded, Options{Mode: AdaptiveBlocks})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if gotW != w || gotH != h {
		t.Fatalf("dims = %dx%d, want %dx%d", gotW, gotH, w, h)
	}
	if !bytes.Equal(decoded, pixels) {
		t.Fatalf("round trip mismatch")
	}
}

func TestStaticDecodeReportsZeroDimensions(t *testing.T) {
	const w, h = 10, 5
	pixels := sampleImage(w, h)
	encoded, err := Encode(pixels, w, h, Options{Mode: Static})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, gotW, gotH, err := Decode(encoded, Options{Mode: Static})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if gotW != 0 || gotH != 0 {
		t.Fatalf("dims = %dx%d, want 0x0 for a self-terminating stream with no embedded header", gotW, gotH)
	}
}
