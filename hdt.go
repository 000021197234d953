package hdt

import (
	"bufio"
	"fmt"
	"io"
)

// Hdt is a loaded HDT file. The input is consumed in full by Read; every
// structure is immutable afterwards and safe for concurrent queries.
type Hdt struct {
	Header     Header
	Dict       *FourSectDict
	TripleSect *TripleSect
}

// Read loads an HDT file from r: the global control info, the header
// section, the four-section dictionary, and the triples section, in that
// order.
func Read(r io.Reader) (*Hdt, error) {
	br := bufio.NewReader(r)

	global, err := ReadControlInfo(br)
	if err != nil {
		return nil, err
	}
	if global.Type != SectionGlobal {
		return nil, fmt.Errorf("hdt: expected global section, got type %d", global.Type)
	}

	header, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	dict, err := ReadDict(br)
	if err != nil {
		return nil, err
	}
	triples, err := ReadTripleSect(br)
	if err != nil {
		return nil, err
	}

	return &Hdt{Header: header, Dict: dict, TripleSect: triples}, nil
}

// Triple is a fully resolved (subject, predicate, object) of term strings.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// Triples returns an iterator over all triples of the graph, resolved to
// term strings, in storage order.
func (h *Hdt) Triples() *TripleIter {
	return &TripleIter{h: h, ids: h.TripleSect.Scan()}
}

// TriplesWith returns an iterator over the triples whose component of the
// given kind equals term. An unknown term yields an empty iterator.
func (h *Hdt) TriplesWith(kind IdKind, term string) *TripleIter {
	id := h.Dict.StringToID(term, kind)
	if id == 0 {
		return &TripleIter{h: h}
	}
	var ids TripleIDIter
	switch kind {
	case IdKindSubject:
		ids = h.TripleSect.WithS(id)
	case IdKindPredicate:
		ids = h.TripleSect.WithP(id)
	case IdKindObject:
		ids = h.TripleSect.WithO(id)
	}
	return &TripleIter{h: h, ids: ids}
}

// TripleIter translates an id-level iterator into term strings through the
// dictionary. It is forward-only and single-pass; the Hdt must outlive it.
type TripleIter struct {
	h   *Hdt
	ids TripleIDIter
	cur Triple
	err error
}

// Next advances to the next triple. It returns false at the end of the
// sequence or on error; Err tells the two apart.
func (it *TripleIter) Next() bool {
	if it.err != nil || it.ids == nil {
		return false
	}
	if !it.ids.Next() {
		it.err = it.ids.Err()
		return false
	}
	tid := it.ids.Triple()

	s, err := it.h.Dict.IDToString(tid.Subject, IdKindSubject)
	if err != nil {
		it.err = fmt.Errorf("hdt: resolving subject id %d: %w", tid.Subject, err)
		return false
	}
	p, err := it.h.Dict.IDToString(tid.Predicate, IdKindPredicate)
	if err != nil {
		it.err = fmt.Errorf("hdt: resolving predicate id %d: %w", tid.Predicate, err)
		return false
	}
	o, err := it.h.Dict.IDToString(tid.Object, IdKindObject)
	if err != nil {
		it.err = fmt.Errorf("hdt: resolving object id %d: %w", tid.Object, err)
		return false
	}
	it.cur = Triple{Subject: s, Predicate: p, Object: o}
	return true
}

// Triple returns the triple produced by the last successful Next.
func (it *TripleIter) Triple() Triple { return it.cur }

// Err returns the error that terminated iteration, if any.
func (it *TripleIter) Err() error { return it.err }
