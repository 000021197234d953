package containers

// AdjList couples a flat id sequence with a bitmap of the same length whose
// set bits mark last-sibling positions: bit i is set iff position i holds the
// last child of its parent. Together they encode a parent→children relation
// with constant-time navigation.
type AdjList struct {
	Sequence *Sequence
	Bitmap   *Bitmap
}

// NewAdjList builds an adjacency list from a sequence and its last-sibling
// bitmap. Both must have the same length and the final bitmap position must
// be set (the last group terminates).
func NewAdjList(seq *Sequence, bm *Bitmap) AdjList {
	return AdjList{Sequence: seq, Bitmap: bm}
}

// Len returns the number of child positions.
func (a AdjList) Len() int { return a.Sequence.Len() }

// GetID returns the id stored at the given child position.
func (a AdjList) GetID(pos int) uint64 { return a.Sequence.Get(pos) }

// AtLastSibling reports whether pos holds the last child of its parent.
func (a AdjList) AtLastSibling(pos int) bool { return a.Bitmap.Bit(pos) }

// Find returns the first child position of the k-th parent group, counting
// groups from zero: Find(0) = 0 and Find(k) = Select1(k-1)+1. The half-open
// child range of group k is [Find(k), Find(k+1)). When k exceeds the number
// of groups, Len is returned so that the resulting range is empty.
func (a AdjList) Find(k int) int {
	if k == 0 {
		return 0
	}
	pos, ok := a.Bitmap.Select1(k - 1)
	if !ok {
		return a.Len()
	}
	return pos + 1
}

// Last returns the last child position of the k-th parent group, counting
// groups from zero. The second result is false when k exceeds the number of
// groups.
func (a AdjList) Last(k int) (int, bool) {
	return a.Bitmap.Select1(k)
}
