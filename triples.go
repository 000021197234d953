package hdt

import (
	"bufio"
	"errors"
	"fmt"
	"math/bits"
	"strconv"

	"github.com/deepteams/hdt/internal/containers"
)

// Order is the declared storage permutation of (subject, predicate, object)
// onto the internal (x, y, z) coordinates of the triple table.
type Order byte

const (
	OrderUnknown Order = iota
	OrderSPO
	OrderSOP
	OrderPSO
	OrderPOS
	OrderOSP
	OrderOPS
)

func (o Order) String() string {
	switch o {
	case OrderSPO:
		return "SPO"
	case OrderSOP:
		return "SOP"
	case OrderPSO:
		return "PSO"
	case OrderPOS:
		return "POS"
	case OrderOSP:
		return "OSP"
	case OrderOPS:
		return "OPS"
	}
	return "Unknown"
}

const (
	triplesFormatBitmap = "<http://purl.org/HDT/hdt#triplesBitmap>"
	triplesFormatList   = "<http://purl.org/HDT/hdt#triplesList>"
)

var (
	// ErrInvalidOrder is returned when the triples section declares no
	// usable component order.
	ErrInvalidOrder = errors.New("hdt: missing or invalid triples order")

	// ErrMalformedTriple is returned when a triple surfaces with a zero
	// coordinate, which no well-formed file contains.
	ErrMalformedTriple = errors.New("hdt: triple with zero coordinate")
)

// TripleID is a triple of 1-based identifiers, already permuted into
// (subject, predicate, object) regardless of the storage order. Zero is
// never a valid component.
type TripleID struct {
	Subject   int
	Predicate int
	Object    int
}

// TripleIDIter is the common shape of the id-level iterators: forward-only,
// single-pass scanners over the triple table. After Next returns false, Err
// distinguishes exhaustion from a malformed triple.
type TripleIDIter interface {
	Next() bool
	Triple() TripleID
	Err() error
}

// TripleSect dispatches over the triple-section encodings. Only the bitmap
// encoding is implemented; triples lists are rejected at load.
type TripleSect struct {
	Bitmap *TriplesBitmap
}

// ReadTripleSect reads the triples section: a control-info preamble of type
// 4 followed by the encoding its format URI declares.
func ReadTripleSect(r *bufio.Reader) (*TripleSect, error) {
	ci, err := ReadControlInfo(r)
	if err != nil {
		return nil, err
	}
	if ci.Type != SectionTriples {
		return nil, fmt.Errorf("hdt: expected triples section, got type %d", ci.Type)
	}
	switch ci.Format {
	case triplesFormatBitmap:
		tb, err := ReadTriplesBitmap(r, ci)
		if err != nil {
			return nil, err
		}
		return &TripleSect{Bitmap: tb}, nil
	case triplesFormatList:
		return nil, fmt.Errorf("%w: triples lists", ErrUnsupportedSection)
	default:
		return nil, fmt.Errorf("%w: triples format %q", ErrUnknownFormat, ci.Format)
	}
}

// Scan iterates all triples in storage order.
func (t *TripleSect) Scan() TripleIDIter { return t.Bitmap.Scan() }

// WithS iterates the triples with the given subject id.
func (t *TripleSect) WithS(id int) TripleIDIter { return t.Bitmap.WithS(id) }

// WithP iterates the triples with the given predicate id.
func (t *TripleSect) WithP(id int) TripleIDIter { return t.Bitmap.WithP(id) }

// WithO iterates the triples with the given object id.
func (t *TripleSect) WithO(id int) TripleIDIter { return t.Bitmap.WithO(id) }

// objectIndex maps each object id to the positions of the z column holding
// it. The positions of all objects are flattened in ascending object order
// into one packed sequence; the bitmap marks the first position of each
// object's group.
type objectIndex struct {
	positions *containers.Sequence
	groups    *containers.Bitmap
}

// group returns the half-open range of index positions of the o-th object
// present in the z column, which is object o when object ids are dense.
func (ix *objectIndex) group(o int) (start, end int) {
	start, ok := ix.groups.Select1(o - 1)
	if !ok {
		return 0, 0
	}
	end, ok = ix.groups.Select1(o)
	if !ok {
		end = ix.positions.Len()
	}
	return start, end
}

// TriplesBitmap is the bitmap-encoded triple table: two adjacency lists over
// the permuted coordinates (adjY maps x-groups to y ids, adjZ maps
// y-positions to z ids), an object index for ??O queries, and a wavelet
// matrix over the y column for ?P? queries. Everything is built at load time
// and immutable afterwards.
type TriplesBitmap struct {
	order    Order
	adjY     containers.AdjList
	adjZ     containers.AdjList
	opIndex  objectIndex
	waveletY *containers.WaveletMatrix
}

// ReadTriplesBitmap reads a bitmap-encoded triple table from r. The section
// control info must carry the storage order as a decimal "order" property;
// the payload is the y and z bitmaps followed by the y and z sequences, each
// with its own framing. The object index and the wavelet matrix are built
// here, after the payload is verified.
func ReadTriplesBitmap(r *bufio.Reader, ci ControlInfo) (*TriplesBitmap, error) {
	prop, ok := ci.Properties["order"]
	n, err := strconv.Atoi(prop)
	if !ok || err != nil || n < 0 || n > 6 {
		return nil, fmt.Errorf("%w: order property %q", ErrInvalidOrder, prop)
	}
	order := Order(n)

	bitmapY, err := containers.ReadBitmap(r)
	if err != nil {
		return nil, fmt.Errorf("hdt: y bitmap: %w", err)
	}
	bitmapZ, err := containers.ReadBitmap(r)
	if err != nil {
		return nil, fmt.Errorf("hdt: z bitmap: %w", err)
	}
	seqY, err := containers.ReadSequence(r)
	if err != nil {
		return nil, fmt.Errorf("hdt: y sequence: %w", err)
	}
	seqZ, err := containers.ReadSequence(r)
	if err != nil {
		return nil, fmt.Errorf("hdt: z sequence: %w", err)
	}

	t := &TriplesBitmap{
		order: order,
		adjY:  containers.NewAdjList(seqY, bitmapY),
		adjZ:  containers.NewAdjList(seqZ, bitmapZ),
	}
	if t.opIndex, err = buildObjectIndex(t.adjZ); err != nil {
		return nil, err
	}

	yIDs := make([]uint64, seqY.Len())
	for i := range yIDs {
		yIDs[i] = seqY.Get(i)
	}
	t.waveletY = containers.NewWaveletMatrix(yIDs)
	return t, nil
}

// buildObjectIndex groups the positions of the z column by object id in one
// counting-sort pass: count occurrences per object, turn the counts into
// group offsets, then scatter the positions, which stay ascending within
// each group because the scan is ascending.
func buildObjectIndex(adjZ containers.AdjList) (objectIndex, error) {
	n := adjZ.Len()
	if n == 0 {
		var bb containers.BitmapBuilder
		return objectIndex{positions: containers.NewSequence(1, nil), groups: bb.Build()}, nil
	}

	var maxObj uint64
	for i := 0; i < n; i++ {
		o := adjZ.GetID(i)
		if o == 0 {
			return objectIndex{}, fmt.Errorf("%w: zero object at z position %d", ErrMalformedTriple, i)
		}
		if o > maxObj {
			maxObj = o
		}
	}

	counts := make([]int, maxObj+1)
	for i := 0; i < n; i++ {
		counts[adjZ.GetID(i)]++
	}
	offsets := make([]int, maxObj+1)
	next := 0
	for o := uint64(1); o <= maxObj; o++ {
		offsets[o] = next
		next += counts[o]
	}

	positions := make([]uint64, n)
	for i := 0; i < n; i++ {
		o := adjZ.GetID(i)
		positions[offsets[o]] = uint64(i)
		offsets[o]++
	}

	var bb containers.BitmapBuilder
	for o := uint64(1); o <= maxObj; o++ {
		for k := 0; k < counts[o]; k++ {
			bb.Push(k == 0)
		}
	}

	width := bits.Len64(uint64(n - 1))
	if width == 0 {
		width = 1
	}
	return objectIndex{
		positions: containers.NewSequence(width, positions),
		groups:    bb.Build(),
	}, nil
}

// coordToTriple permutes internal (x, y, z) coordinates into a TripleID
// according to the storage order.
func (t *TriplesBitmap) coordToTriple(x, y, z int) (TripleID, error) {
	if x == 0 || y == 0 || z == 0 {
		return TripleID{}, fmt.Errorf("%w: (%d,%d,%d)", ErrMalformedTriple, x, y, z)
	}
	switch t.order {
	case OrderSPO:
		return TripleID{x, y, z}, nil
	case OrderSOP:
		return TripleID{x, z, y}, nil
	case OrderPSO:
		return TripleID{y, x, z}, nil
	case OrderPOS:
		return TripleID{y, z, x}, nil
	case OrderOSP:
		return TripleID{z, x, y}, nil
	case OrderOPS:
		return TripleID{z, y, x}, nil
	}
	return TripleID{}, fmt.Errorf("%w: order %d", ErrInvalidOrder, int(t.order))
}

// Scan returns an iterator over all triples in storage order.
func (t *TriplesBitmap) Scan() *BitmapIter { return newScanIter(t) }

// WithS returns an iterator over the triples whose stored-order first
// coordinate is id (the subject for SPO-like orders). Ids outside the stored
// range yield an empty iterator.
func (t *TriplesBitmap) WithS(id int) *BitmapIter { return newSubjectIter(t, id) }

// WithP returns an iterator over the triples whose stored-order second
// coordinate is id (the predicate for SPO-like orders). Ids outside the
// stored range yield an empty iterator.
func (t *TriplesBitmap) WithP(id int) *PredicateIter { return newPredicateIter(t, id) }

// WithO returns an iterator over the triples whose stored-order third
// coordinate is id (the object for SPO-like orders). Ids outside the stored
// range yield an empty iterator.
func (t *TriplesBitmap) WithO(id int) *ObjectIter { return newObjectIter(t, id) }

// NumTriples returns the number of triples in the table.
func (t *TriplesBitmap) NumTriples() int { return t.adjZ.Len() }

// Order returns the declared storage order.
func (t *TriplesBitmap) Order() Order { return t.order }
