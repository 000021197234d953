package containers

import "math/bits"

// WaveletMatrix answers access, rank, and select over a sequence of bounded
// unsigned integers. Each of the width bit levels stores one bitmap of the
// sequence's bits at that level, with the sequence stably re-partitioned
// (zeros first) between levels. Access and rank walk the levels once, top
// to bottom; select walks down and then back up.
type WaveletMatrix struct {
	levels []*Bitmap
	zeros  []int // zeros[l] = number of 0-bits at level l
	width  int
	n      int
}

// NewWaveletMatrix builds a wavelet matrix over values. The width is the
// number of bits of the largest value, at least one.
func NewWaveletMatrix(values []uint64) *WaveletMatrix {
	var max uint64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	width := bits.Len64(max)
	if width == 0 {
		width = 1
	}

	wm := &WaveletMatrix{
		levels: make([]*Bitmap, width),
		zeros:  make([]int, width),
		width:  width,
		n:      len(values),
	}
	cur := append([]uint64(nil), values...)
	next := make([]uint64, len(values))
	for l := 0; l < width; l++ {
		shift := uint(width - 1 - l)
		var bb BitmapBuilder
		nz := 0
		for _, v := range cur {
			if v>>shift&1 == 0 {
				nz++
			}
		}
		zi, oi := 0, nz
		for _, v := range cur {
			if v>>shift&1 == 0 {
				bb.Push(false)
				next[zi] = v
				zi++
			} else {
				bb.Push(true)
				next[oi] = v
				oi++
			}
		}
		wm.levels[l] = bb.Build()
		wm.zeros[l] = nz
		cur, next = next, cur
	}
	return wm
}

// Len returns the length of the underlying sequence.
func (w *WaveletMatrix) Len() int { return w.n }

// Access returns the value at position i.
func (w *WaveletMatrix) Access(i int) uint64 {
	var v uint64
	for l := 0; l < w.width; l++ {
		bm := w.levels[l]
		v <<= 1
		if bm.Bit(i) {
			v |= 1
			i = w.zeros[l] + bm.Rank1(i)
		} else {
			i = bm.Rank0(i)
		}
	}
	return v
}

// Rank returns the number of occurrences of symbol s in positions [0, pos).
func (w *WaveletMatrix) Rank(pos int, s uint64) int {
	if bits.Len64(s) > w.width {
		return 0
	}
	if pos > w.n {
		pos = w.n
	}
	lo, hi := 0, pos
	for l := 0; l < w.width; l++ {
		bm := w.levels[l]
		if s>>uint(w.width-1-l)&1 == 0 {
			lo = bm.Rank0(lo)
			hi = bm.Rank0(hi)
		} else {
			lo = w.zeros[l] + bm.Rank1(lo)
			hi = w.zeros[l] + bm.Rank1(hi)
		}
	}
	return hi - lo
}

// Select returns the position of the (k+1)-th occurrence of symbol s, with k
// counted from zero. The second result is false when s occurs at most k
// times.
func (w *WaveletMatrix) Select(k int, s uint64) (int, bool) {
	if k < 0 || bits.Len64(s) > w.width {
		return 0, false
	}
	// Descend to the bottom-level interval holding every occurrence of s.
	lo, hi := 0, w.n
	for l := 0; l < w.width; l++ {
		bm := w.levels[l]
		if s>>uint(w.width-1-l)&1 == 0 {
			lo = bm.Rank0(lo)
			hi = bm.Rank0(hi)
		} else {
			lo = w.zeros[l] + bm.Rank1(lo)
			hi = w.zeros[l] + bm.Rank1(hi)
		}
	}
	if k >= hi-lo {
		return 0, false
	}
	// Walk back up, mapping the bottom-level position to the original one.
	pos := lo + k
	for l := w.width - 1; l >= 0; l-- {
		bm := w.levels[l]
		var ok bool
		if s>>uint(w.width-1-l)&1 == 0 {
			pos, ok = bm.Select0(pos)
		} else {
			pos, ok = bm.Select1(pos - w.zeros[l])
		}
		if !ok {
			return 0, false
		}
	}
	return pos, true
}
