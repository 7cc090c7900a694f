// Package statichuff implements the static, two-pass canonical Huffman
// codec: one pass to build a histogram and code table, a second to emit
// (or consume) the coded payload.
package statichuff

import (
	"container/heap"
	"errors"
	"sort"

	"github.com/pixelcodecs/graypix/internal/bitio"
	"github.com/pixelcodecs/graypix/internal/hufftree"
	"github.com/pixelcodecs/graypix/internal/pixmodel"
)

// ErrInvalidHeader is returned when a compressed stream's header declares
// code lengths that cannot be satisfied by the bytes actually present.
var ErrInvalidHeader = errors.New("statichuff: invalid header")

// ErrCorruptCode is returned when decoding a payload produces a symbol
// index outside the declared symbol table.
var ErrCorruptCode = errors.New("statichuff: corrupt code in payload")

const numSymbols = 256

// codeEntry is one present symbol's canonical code, built during
// canonicalisation and consumed both to emit the header and to pack the
// payload.
type codeEntry struct {
	symbol int
	length int
	code   uint32
}

// heapNode orders histogram entries (or merged internal nodes) by weight
// for container/heap, grounded on the teacher's nodeHeap: ties are
// broken by a strictly increasing sequence number so Pop order is
// deterministic regardless of map/slice iteration order.
type heapNode struct {
	node hufftree.NodeIndex
	seq  int
}

type nodeHeap struct {
	tree  *hufftree.Tree
	items []heapNode
}

func (h *nodeHeap) Len() int { return len(h.items) }
func (h *nodeHeap) Less(i, j int) bool {
	wi := h.tree.Node(h.items[i].node).Weight
	wj := h.tree.Node(h.items[j].node).Weight
	if wi != wj {
		return wi < wj
	}
	return h.items[i].seq < h.items[j].seq
}
func (h *nodeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *nodeHeap) Push(x any)    { h.items = append(h.items, x.(heapNode)) }
func (h *nodeHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// buildTree builds a Huffman tree from a 256-entry histogram, following
// spec.md 4.6: pop the two lowest-weight nodes repeatedly, join them
// under a new internal node, until one root remains. If only one
// distinct symbol occurs, a dummy second leaf (weight 1, symbol -1) is
// synthesised so the tree has at least two leaves and every present
// symbol gets a real (non-empty) code.
func buildTree(histogram [numSymbols]uint32) *hufftree.Tree {
	t := hufftree.New()
	h := &nodeHeap{tree: t}
	seq := 0
	for sym, count := range histogram {
		if count > 0 {
			idx := t.NewLeaf(int(count), sym)
			heap.Push(h, heapNode{node: idx, seq: seq})
			seq++
		}
	}
	for h.Len() < 2 {
		dummy := t.NewLeaf(1, -1)
		heap.Push(h, heapNode{node: dummy, seq: seq})
		seq++
	}
	for h.Len() > 1 {
		a := heap.Pop(h).(heapNode)
		b := heap.Pop(h).(heapNode)
		parent := t.NewInternal(a.node, b.node)
		heap.Push(h, heapNode{node: parent, seq: seq})
		seq++
	}
	t.Root = h.items[0].node
	return t
}

// codeLengths walks the tree and returns, for every present (non-dummy)
// leaf, its depth (code length).
func codeLengths(t *hufftree.Tree) map[int]int {
	lengths := make(map[int]int)
	t.DepthFirst(t.Root, func(idx hufftree.NodeIndex) bool {
		n := t.Node(idx)
		if n.IsLeaf() && n.Symbol >= 0 {
			lengths[n.Symbol] = len(t.PathFromRoot(idx))
		}
		return true
	})
	return lengths
}

// canonicalize sorts present symbols by (length, symbol) ascending and
// assigns canonical codes per spec.md 4.6: the first code is all-zeros
// of its length; each subsequent code at length L, given the previous
// code C at length P, is (C+1) << (L-P).
func canonicalize(lengths map[int]int) []codeEntry {
	entries := make([]codeEntry, 0, len(lengths))
	for sym, l := range lengths {
		entries = append(entries, codeEntry{symbol: sym, length: l})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}
		return entries[i].symbol < entries[j].symbol
	})
	var code uint32
	prevLen := entries[0].length
	for i := range entries {
		if i > 0 {
			code = (code + 1) << uint(entries[i].length-prevLen)
		}
		entries[i].code = code
		prevLen = entries[i].length
	}
	return entries
}

// header holds the parsed (or about-to-be-written) compact header.
type header struct {
	minLen, maxLen int
	counts         map[int]int     // code length -> symbol count
	symbolsByLen   map[int][]int   // code length -> symbols, ascending canonical-code order
}

func buildHeader(entries []codeEntry) header {
	h := header{
		counts:       make(map[int]int),
		symbolsByLen: make(map[int][]int),
	}
	h.minLen = entries[0].length
	h.maxLen = entries[len(entries)-1].length
	for _, e := range entries {
		h.counts[e.length]++
		h.symbolsByLen[e.length] = append(h.symbolsByLen[e.length], e.symbol)
	}
	return h
}

// writeHeader serializes h per spec.md 4.6's byte layout, with the
// padding byte written as 0 here; the caller backpatches it once the
// payload's padding amount is known.
func writeHeader(w *bitio.Writer, h header) {
	w.WriteBits(uint32(h.maxLen+1), 8)
	w.WriteBits(uint32(h.minLen-1), 8) // 3-bit padding field patched in by caller
	for l := h.minLen; l <= h.maxLen; l++ {
		count := h.counts[l]
		w.WriteBits(uint32(encodeCount(count)), 8)
	}
	for l := h.minLen; l <= h.maxLen; l++ {
		for _, sym := range h.symbolsByLen[l] {
			w.WriteBits(uint32(sym), 8)
		}
	}
}

// encodeCount applies the "255 means 256" convention: a length with all
// 256 symbols assigned to it is stored as 255.
func encodeCount(n int) int {
	if n >= numSymbols {
		return 255
	}
	return n
}

// decodeCount inverts encodeCount.
func decodeCount(b int) int {
	if b == 255 {
		return numSymbols
	}
	return b
}

// Encode applies model over data, builds a static canonical Huffman code
// table, and returns the self-describing compressed stream.
func Encode(data []byte, model pixmodel.Model) []byte {
	if len(data) == 0 {
		return []byte{0, 0}
	}
	transformed := make([]byte, len(data))
	for i, v := range data {
		transformed[i] = model.Apply(v)
	}

	var histogram [numSymbols]uint32
	for _, v := range transformed {
		histogram[v]++
	}

	tree := buildTree(histogram)
	lengths := codeLengths(tree)
	entries := canonicalize(lengths)
	hdr := buildHeader(entries)

	codeOf := make(map[int]codeEntry, len(entries))
	for _, e := range entries {
		codeOf[e.symbol] = e
	}

	w := bitio.NewWriter(len(data)/2 + 64)
	writeHeader(w, hdr)
	for _, v := range transformed {
		e := codeOf[int(v)]
		w.WriteBits(e.code, e.length)
	}
	bitsBeforePad := w.BitLength()
	out := w.Finish()
	padding := (8 - bitsBeforePad%8) % 8

	// Backpatch the padding count into the high 3 bits of the second
	// header byte (padding_and_min_minus_one).
	out[1] |= byte(padding) << 5
	return out
}

// Decode reconstructs the original bytes from a stream produced by
// Encode, applying model.Revert to undo preprocessing. The output length
// is not a parameter: the stream is self-terminating, since the header's
// padding count says exactly how many payload bits are real, and decode
// stops the moment those run out. model must be freshly reset (or
// Identity) since static decoding runs it once across the whole image.
func Decode(stream []byte, model pixmodel.Model) ([]byte, error) {
	if len(stream) < 2 {
		return nil, ErrInvalidHeader
	}
	r := bitio.NewReader(stream)
	maxLenPlus1, _ := r.ReadBits(8)
	if maxLenPlus1 == 0 {
		// Encode's empty-input marker: a bare two-byte header with no
		// payload at all.
		return []byte{}, nil
	}
	maxLen := int(maxLenPlus1) - 1
	paddingAndMin, _ := r.ReadBits(8)
	padding := int(paddingAndMin >> 5)
	minLen := int(paddingAndMin&0x1F) + 1
	if maxLen < minLen || maxLen > 32 || minLen < 1 {
		return nil, ErrInvalidHeader
	}

	counts := make([]int, maxLen+1) // counts[l] for l in [minLen, maxLen]
	total := 0
	for l := minLen; l <= maxLen; l++ {
		b, err := r.ReadBits(8)
		if err != nil {
			return nil, ErrInvalidHeader
		}
		c := decodeCount(int(b))
		counts[l] = c
		total += c
	}

	symbols := make([]int, 0, total)
	for l := minLen; l <= maxLen; l++ {
		for i := 0; i < counts[l]; i++ {
			b, err := r.ReadBits(8)
			if err != nil {
				return nil, ErrInvalidHeader
			}
			symbols = append(symbols, int(b))
		}
	}
	if len(symbols) > numSymbols {
		return nil, ErrInvalidHeader
	}

	if !r.AtByteBoundary() {
		return nil, ErrInvalidHeader
	}

	// code/length walk the payload bit by bit; first/index are the
	// cumulative first_code[length] and first_symbol_index[length]
	// values for the length currently being tried, maintained
	// incrementally rather than precomputed into a table: on a failed
	// match they advance via the same recurrence that built them
	// (first_code[L+1] = (first_code[L] + count[L]) << 1).
	remainingBits := r.BitsRemaining() - padding
	if remainingBits < 0 {
		return nil, ErrInvalidHeader
	}
	var out []byte
	code := 0
	length := 0
	first := 0
	index := 0
	for remainingBits > 0 {
		bit, err := r.ReadBit()
		if err != nil {
			return nil, ErrInvalidHeader
		}
		remainingBits--
		code = (code << 1) | boolToInt(bit)
		length++
		if length > maxLen {
			return nil, ErrCorruptCode
		}
		count := 0
		if length >= minLen && length <= maxLen {
			count = counts[length]
		}
		if count > 0 && code-first < count {
			symIdx := index + (code - first)
			if symIdx < 0 || symIdx >= len(symbols) {
				return nil, ErrCorruptCode
			}
			out = append(out, model.Revert(byte(symbols[symIdx])))
			code, length, first, index = 0, 0, 0, 0
			continue
		}
		index += count
		first = (first + count) << 1
	}
	if length != 0 {
		return nil, bitio.ErrUnexpectedEnd
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
