package hdt

import "fmt"

// PredicateIter answers (?,P,?) queries with the findSubj algorithm of
// Martínez-Prieto et al.: each occurrence of p in the y column is located
// with select on the wavelet matrix, its owning x derived with rank on the y
// bitmap, and its z children delimited with select on the z bitmap.
//
// Triples come out grouped by ascending x, then ascending z within each
// (x, p) pair.
type PredicateIter struct {
	triples   *TriplesBitmap
	p         int
	i         int // next occurrence of p in the y column, 1-based
	occs      int
	x         int
	posZ      int
	remaining int // z positions left in the current y-group after posZ
	cur       TripleID
	err       error
}

func newPredicateIter(t *TriplesBitmap, p int) *PredicateIter {
	it := &PredicateIter{triples: t, p: p, i: 1}
	if p > 0 {
		it.occs = t.waveletY.Rank(t.waveletY.Len(), uint64(p))
	}
	return it
}

// Next advances to the next triple with predicate p.
func (it *PredicateIter) Next() bool {
	if it.err != nil || it.i > it.occs {
		return false
	}

	if it.remaining == 0 {
		posY, ok := it.triples.waveletY.Select(it.i-1, uint64(it.p))
		if !ok {
			it.err = fmt.Errorf("hdt: predicate %d: occurrence %d not found in y column", it.p, it.i)
			return false
		}
		it.x = it.triples.adjY.Bitmap.Rank1(posY) + 1

		// The z positions of y-position posY span (Select1(posY-1),
		// Select1(posY)], with the very first y-group starting at zero.
		it.posZ = 0
		if posY > 0 {
			prev, ok := it.triples.adjZ.Bitmap.Select1(posY - 1)
			if !ok {
				it.err = fmt.Errorf("hdt: predicate %d: z bitmap too short for y position %d", it.p, posY)
				return false
			}
			it.posZ = prev + 1
		}
		end, ok := it.triples.adjZ.Bitmap.Select1(posY)
		if !ok {
			it.err = fmt.Errorf("hdt: predicate %d: z bitmap too short for y position %d", it.p, posY)
			return false
		}
		it.remaining = end - it.posZ
	} else {
		it.remaining--
		it.posZ++
	}

	z := int(it.triples.adjZ.GetID(it.posZ))
	if it.remaining == 0 {
		it.i++
	}
	cur, err := it.triples.coordToTriple(it.x, it.p, z)
	if err != nil {
		it.err = err
		return false
	}
	it.cur = cur
	return true
}

// Triple returns the triple produced by the last successful Next.
func (it *PredicateIter) Triple() TripleID { return it.cur }

// Err returns the error that terminated iteration, if any.
func (it *PredicateIter) Err() error { return it.err }
