// Package graypix implements a lossless codec for 8-bit raw grayscale
// images, dispatching to one of three coding modes: a static two-pass
// canonical Huffman coder, an adaptive (Vitter FGK/Λ) Huffman coder, and
// an adaptive block-scanning coder that picks a space-filling traversal
// order per 8x8 block. Each mode can optionally run pixels through a
// neighbour-difference preprocessing model before coding.
//
// None of the four (eight, crossed with the model flag) stream formats
// are self-identifying: a caller must decode with the same Mode and
// Model setting it encoded with.
package graypix

import (
	"errors"
	"fmt"

	"github.com/pixelcodecs/graypix/internal/adaptivehuff"
	"github.com/pixelcodecs/graypix/internal/bitio"
	"github.com/pixelcodecs/graypix/internal/blockhuff"
	"github.com/pixelcodecs/graypix/internal/pixmodel"
	"github.com/pixelcodecs/graypix/internal/statichuff"
)

// Kind classifies what went wrong, mirroring spec.md's error taxonomy.
type Kind int

const (
	// InvalidArgument marks a caller mistake: bad dimensions, an unknown
	// Mode, mismatched pixel counts.
	InvalidArgument Kind = iota
	// InvalidHeader marks a compressed stream whose header is truncated
	// or internally inconsistent.
	InvalidHeader
	// CorruptCode marks a compressed stream whose payload does not
	// decode to a valid symbol under its own header.
	CorruptCode
	// UnexpectedEnd marks a compressed stream whose bits run out before
	// decoding is complete: in the middle of a code, or before the
	// stream's end marker.
	UnexpectedEnd
	// IoError marks a failure reading or writing the underlying file.
	IoError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case InvalidHeader:
		return "invalid header"
	case CorruptCode:
		return "corrupt code"
	case UnexpectedEnd:
		return "unexpected end"
	case IoError:
		return "io error"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every exported function in this
// package, carrying a Kind a caller can switch on with errors.As.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// NewInvalidArgument builds an InvalidArgument *Error, for callers (such
// as cmd/graypix) that validate their own arguments before ever calling
// Encode or Decode.
func NewInvalidArgument(msg string) *Error {
	return newError(InvalidArgument, msg, nil)
}

// NewIoError builds an IoError *Error wrapping a failure reading or
// writing a caller-supplied file.
func NewIoError(msg string, err error) *Error {
	return newError(IoError, msg, err)
}

// Mode selects which of the three coding schemes Encode/Decode use.
type Mode int

const (
	// Static is the two-pass canonical Huffman coder (C6).
	Static Mode = iota
	// Adaptive is the single-pass Vitter FGK/Λ Huffman coder (C7).
	Adaptive
	// AdaptiveBlocks tiles the image into blocks, picking the
	// best-scoring space-filling scan order per block (C8).
	AdaptiveBlocks
)

// DefaultBlockSize is the block width and height AdaptiveBlocks uses
// when Options.BlockWidth/BlockHeight are left zero.
const DefaultBlockSize = 8

// Options configures a single Encode or Decode call. The same Options
// (aside from BlockWidth/BlockHeight, which AdaptiveBlocks streams are
// self-describing about) must be used on both ends of a round trip.
type Options struct {
	Mode Mode
	// Model enables neighbour-difference preprocessing.
	Model bool
	// BlockWidth and BlockHeight size the tiles AdaptiveBlocks uses.
	// Zero means DefaultBlockSize. Ignored for Static and Adaptive.
	BlockWidth, BlockHeight int
}

func newModel(enabled bool) pixmodel.Model {
	if enabled {
		return &pixmodel.NeighbourDifference{}
	}
	return pixmodel.Identity{}
}

// Encode compresses pixels (a row-major width*height grayscale raster)
// according to opts.
func Encode(pixels []byte, width, height int, opts Options) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, newError(InvalidArgument, "width and height must be positive", nil)
	}
	if len(pixels) != width*height {
		return nil, newError(InvalidArgument, fmt.Sprintf("got %d pixels, want %d for %dx%d", len(pixels), width*height, width, height), nil)
	}

	model := newModel(opts.Model)
	switch opts.Mode {
	case Static:
		return statichuff.Encode(pixels, model), nil
	case Adaptive:
		return adaptivehuff.Encode(pixels, model), nil
	case AdaptiveBlocks:
		bw, bh := blockSize(opts)
		return blockhuff.Encode(pixels, width, height, bw, bh, model), nil
	default:
		return nil, newError(InvalidArgument, "unknown mode", nil)
	}
}

// Decode decompresses stream back into a flat grayscale pixel sequence.
// Static and Adaptive streams are self-terminating (a padding count and
// a PEOF sentinel respectively) and carry no dimensions of their own, so
// the returned width and height are both 0 for those two modes; callers
// that need to reshape the result into rows already know width, since
// they had to supply it to produce the raw file in the first place.
// AdaptiveBlocks streams carry their own dimensions in the stream's
// image header, so Decode reports them back.
func Decode(stream []byte, opts Options) (pixels []byte, width, height int, err error) {
	model := newModel(opts.Model)
	switch opts.Mode {
	case Static:
		pixels, err = statichuff.Decode(stream, model)
	case Adaptive:
		pixels, err = adaptivehuff.Decode(stream, model)
	case AdaptiveBlocks:
		var header blockhuff.ImageHeader
		pixels, header, err = blockhuff.Decode(stream, model)
		width, height = header.Width, header.Height
	default:
		return nil, 0, 0, newError(InvalidArgument, "unknown mode", nil)
	}
	if err != nil {
		return nil, 0, 0, classify(err)
	}
	return pixels, width, height, nil
}

func blockSize(opts Options) (int, int) {
	bw, bh := opts.BlockWidth, opts.BlockHeight
	if bw == 0 {
		bw = DefaultBlockSize
	}
	if bh == 0 {
		bh = DefaultBlockSize
	}
	return bw, bh
}

// classify maps a sentinel error from an internal package onto this
// package's Kind taxonomy.
func classify(err error) *Error {
	switch {
	case errors.Is(err, bitio.ErrUnexpectedEnd):
		return newError(UnexpectedEnd, "stream ended before decoding was complete", err)
	case errors.Is(err, statichuff.ErrInvalidHeader), errors.Is(err, blockhuff.ErrInvalidHeader):
		return newError(InvalidHeader, "stream header is truncated or inconsistent", err)
	case errors.Is(err, statichuff.ErrCorruptCode), errors.Is(err, blockhuff.ErrCorruptStream):
		return newError(CorruptCode, "stream payload does not decode under its own header", err)
	default:
		return newError(CorruptCode, "decode failed", err)
	}
}
