package hdt

// ObjectIter answers (?,?,O) queries through the object index: every z
// position holding o is mapped back to its y position with rank on the z
// bitmap and to its owning x with rank on the y bitmap.
//
// Positions come out ascending, so triples are grouped by ascending x, then
// ascending y.
type ObjectIter struct {
	triples  *TriplesBitmap
	o        int
	pos, end int // current range in the object index positions
	cur      TripleID
	err      error
}

func newObjectIter(t *TriplesBitmap, o int) *ObjectIter {
	it := &ObjectIter{triples: t, o: o}
	if o <= 0 {
		return it
	}
	it.pos, it.end = t.opIndex.group(o)
	// Object ids are dense in well-formed files; a group whose first z
	// position holds a different id means o is absent.
	if it.pos < it.end {
		posZ := int(t.opIndex.positions.Get(it.pos))
		if t.adjZ.GetID(posZ) != uint64(o) {
			it.pos, it.end = 0, 0
		}
	}
	return it
}

// Next advances to the next triple with object o.
func (it *ObjectIter) Next() bool {
	if it.err != nil || it.pos >= it.end {
		return false
	}

	posZ := int(it.triples.opIndex.positions.Get(it.pos))
	posY := it.triples.adjZ.Bitmap.Rank1(posZ)
	x := it.triples.adjY.Bitmap.Rank1(posY) + 1
	y := int(it.triples.adjY.GetID(posY))

	cur, err := it.triples.coordToTriple(x, y, it.o)
	if err != nil {
		it.err = err
		return false
	}
	it.cur = cur
	it.pos++
	return true
}

// Triple returns the triple produced by the last successful Next.
func (it *ObjectIter) Triple() TripleID { return it.cur }

// Err returns the error that terminated iteration, if any.
func (it *ObjectIter) Err() error { return it.err }
