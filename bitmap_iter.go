package hdt

// BitmapIter iterates triples in storage order, either over the whole table
// or restricted to the slab of one first-coordinate id. It is forward-only
// and single-pass; the enclosing section must outlive it.
type BitmapIter struct {
	triples    *TriplesBitmap
	x          int
	posY, posZ int
	maxY, maxZ int
	cur        TripleID
	err        error
}

func newScanIter(t *TriplesBitmap) *BitmapIter {
	return &BitmapIter{
		triples: t,
		x:       1,
		maxY:    t.adjY.Len(),
		maxZ:    t.adjZ.Len(),
	}
}

func newSubjectIter(t *TriplesBitmap, id int) *BitmapIter {
	if id <= 0 {
		return &BitmapIter{triples: t}
	}
	minY := t.adjY.Find(id - 1)
	maxY := t.adjY.Find(id)
	return &BitmapIter{
		triples: t,
		x:       id,
		posY:    minY,
		posZ:    t.adjZ.Find(minY),
		maxY:    maxY,
		maxZ:    t.adjZ.Find(maxY),
	}
}

// Next advances to the next triple. It returns false when the slab is
// exhausted or a malformed triple surfaced; Err tells the two apart.
func (it *BitmapIter) Next() bool {
	if it.err != nil {
		return false
	}
	if it.posY >= it.maxY || it.posZ >= it.maxZ {
		return false
	}

	y := int(it.triples.adjY.GetID(it.posY))
	z := int(it.triples.adjZ.GetID(it.posZ))
	cur, err := it.triples.coordToTriple(it.x, y, z)
	if err != nil {
		it.err = err
		return false
	}
	it.cur = cur

	// The last z-sibling closes the current y position; the last y-sibling
	// additionally closes the current x group.
	if it.triples.adjZ.AtLastSibling(it.posZ) {
		if it.triples.adjY.AtLastSibling(it.posY) {
			it.x++
		}
		it.posY++
	}
	it.posZ++
	return true
}

// Triple returns the triple produced by the last successful Next.
func (it *BitmapIter) Triple() TripleID { return it.cur }

// Err returns the error that terminated iteration, if any.
func (it *BitmapIter) Err() error { return it.err }
