package hdt

import (
	"bytes"
	"fmt"
	"testing"
)

// The end-to-end fixture is a small graph whose terms exercise all four
// dictionary sections:
//
//	shared    s1, s2              (subject and object)
//	subjects  zsolo               (subject only)
//	preds     knows, name
//	objects   "Alice", _:b1       (object only)
const (
	termS1    = "http://example.org/s1"
	termS2    = "http://example.org/s2"
	termSolo  = "http://example.org/zsolo"
	termKnows = "http://example.org/knows"
	termName  = "http://example.org/name"
	termAlice = "\"Alice\""
	termBlank = "_:b1"
)

// fixtureGraph lists the string triples in the id order the dictionary
// induces: subjects s1=1 s2=2 zsolo=3, predicates knows=1 name=2, objects
// s1=1 s2=2 "Alice"=3 _:b1=4.
var fixtureGraph = []Triple{
	{termS1, termKnows, termS2},
	{termS1, termName, termAlice},
	{termS2, termKnows, termS1},
	{termSolo, termKnows, termS2},
	{termSolo, termName, termBlank},
}

func encodeFixtureFile(t *testing.T) []byte {
	t.Helper()

	headerBody := "<http://example.org/dataset> <http://rdfs.org/ns/void#triples> \"5\" .\n"

	var out []byte
	out = append(out, encodeControlInfo(SectionGlobal, "<http://purl.org/HDT/hdt#HDTv1>", "")...)
	out = append(out, encodeControlInfo(SectionHeader, "ntriples", fmt.Sprintf("length=%d;", len(headerBody)))...)
	out = append(out, headerBody...)
	out = append(out, encodeControlInfo(SectionDictionary, dictFormatFour, "")...)
	out = append(out, encodePFCSection(t, []string{termS1, termS2}, 8)...)
	out = append(out, encodePFCSection(t, []string{termSolo}, 8)...)
	out = append(out, encodePFCSection(t, []string{termKnows, termName}, 8)...)
	out = append(out, encodePFCSection(t, []string{termAlice, termBlank}, 8)...)
	out = append(out, encodeControlInfo(SectionTriples, triplesFormatBitmap, "order=1;")...)
	out = append(out, encodeTriplesPayload(t, [][3]int{
		{1, 1, 2},
		{1, 2, 3},
		{2, 1, 1},
		{3, 1, 2},
		{3, 2, 4},
	})...)
	return out
}

func collectTriples(t *testing.T, it *TripleIter) []Triple {
	t.Helper()
	var got []Triple
	for it.Next() {
		got = append(got, it.Triple())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	return got
}

func readFixtureFile(t *testing.T) *Hdt {
	t.Helper()
	h, err := Read(bytes.NewReader(encodeFixtureFile(t)))
	if err != nil {
		t.Fatalf("reading fixture file: %v", err)
	}
	return h
}

func TestReadFile(t *testing.T) {
	h := readFixtureFile(t)

	if h.Dict.NumSubjects() != 3 || h.Dict.NumPredicates() != 2 || h.Dict.NumObjects() != 4 {
		t.Errorf("dictionary sizes = %d/%d/%d, want 3/2/4",
			h.Dict.NumSubjects(), h.Dict.NumPredicates(), h.Dict.NumObjects())
	}
	if got := h.TripleSect.Bitmap.NumTriples(); got != len(fixtureGraph) {
		t.Errorf("NumTriples = %d, want %d", got, len(fixtureGraph))
	}
	if !bytes.Contains(h.Header.Body, []byte("void#triples")) {
		t.Errorf("header body = %q", h.Header.Body)
	}
}

func TestTriples(t *testing.T) {
	h := readFixtureFile(t)
	got := collectTriples(t, h.Triples())
	if len(got) != len(fixtureGraph) {
		t.Fatalf("Triples yielded %d, want %d", len(got), len(fixtureGraph))
	}
	for i, want := range fixtureGraph {
		if got[i] != want {
			t.Errorf("triple[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestTriplesWithSubject(t *testing.T) {
	h := readFixtureFile(t)
	all := collectTriples(t, h.Triples())

	for _, term := range []string{termS1, termS2, termSolo} {
		var want []Triple
		for _, tr := range all {
			if tr.Subject == term {
				want = append(want, tr)
			}
		}
		got := collectTriples(t, h.TriplesWith(IdKindSubject, term))
		if len(got) != len(want) {
			t.Fatalf("TriplesWith(subject, %q) = %v, want %v", term, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("TriplesWith(subject, %q)[%d] = %v, want %v", term, i, got[i], want[i])
			}
		}
	}
}

func TestTriplesWithPredicate(t *testing.T) {
	h := readFixtureFile(t)

	got := collectTriples(t, h.TriplesWith(IdKindPredicate, termName))
	want := []Triple{
		{termS1, termName, termAlice},
		{termSolo, termName, termBlank},
	}
	if len(got) != len(want) {
		t.Fatalf("TriplesWith(predicate, name) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TriplesWith(predicate, name)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTriplesWithObject(t *testing.T) {
	h := readFixtureFile(t)

	// s2 is a shared term: its object id equals its subject id.
	got := collectTriples(t, h.TriplesWith(IdKindObject, termS2))
	want := []Triple{
		{termS1, termKnows, termS2},
		{termSolo, termKnows, termS2},
	}
	if len(got) != len(want) {
		t.Fatalf("TriplesWith(object, s2) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TriplesWith(object, s2)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	got = collectTriples(t, h.TriplesWith(IdKindObject, termBlank))
	if len(got) != 1 || got[0] != (Triple{termSolo, termName, termBlank}) {
		t.Errorf("TriplesWith(object, _:b1) = %v", got)
	}
}

func TestTriplesWithUnknownTerm(t *testing.T) {
	h := readFixtureFile(t)
	for _, kind := range []IdKind{IdKindSubject, IdKindPredicate, IdKindObject} {
		if got := collectTriples(t, h.TriplesWith(kind, "http://example.org/nowhere")); len(got) != 0 {
			t.Errorf("TriplesWith(%v, unknown) = %v, want empty", kind, got)
		}
	}
	// A term present only in the wrong position is also unknown.
	if got := collectTriples(t, h.TriplesWith(IdKindSubject, termAlice)); len(got) != 0 {
		t.Errorf("TriplesWith(subject, literal) = %v, want empty", got)
	}
}

func TestDictIDMapping(t *testing.T) {
	h := readFixtureFile(t)
	d := h.Dict

	// Shared terms resolve to the same id as subject and as object.
	for i, term := range []string{termS1, termS2} {
		if id := d.StringToID(term, IdKindSubject); id != i+1 {
			t.Errorf("subject id of %q = %d, want %d", term, id, i+1)
		}
		if id := d.StringToID(term, IdKindObject); id != i+1 {
			t.Errorf("object id of %q = %d, want %d", term, id, i+1)
		}
	}
	// Section-local ids are shifted past the shared range.
	if id := d.StringToID(termSolo, IdKindSubject); id != 3 {
		t.Errorf("subject id of %q = %d, want 3", termSolo, id)
	}
	if id := d.StringToID(termAlice, IdKindObject); id != 3 {
		t.Errorf("object id of %q = %d, want 3", termAlice, id)
	}
	if id := d.StringToID(termBlank, IdKindObject); id != 4 {
		t.Errorf("object id of %q = %d, want 4", termBlank, id)
	}

	// And back again.
	for id := 1; id <= d.NumSubjects(); id++ {
		s, err := d.IDToString(id, IdKindSubject)
		if err != nil {
			t.Fatalf("IDToString(%d, subject): %v", id, err)
		}
		if back := d.StringToID(s, IdKindSubject); back != id {
			t.Errorf("subject %d -> %q -> %d", id, s, back)
		}
	}
	for id := 1; id <= d.NumObjects(); id++ {
		s, err := d.IDToString(id, IdKindObject)
		if err != nil {
			t.Fatalf("IDToString(%d, object): %v", id, err)
		}
		if back := d.StringToID(s, IdKindObject); back != id {
			t.Errorf("object %d -> %q -> %d", id, s, back)
		}
	}
}

func TestReadFileTruncated(t *testing.T) {
	wire := encodeFixtureFile(t)
	for _, cut := range []int{3, 20, len(wire) / 2, len(wire) - 3} {
		if _, err := Read(bytes.NewReader(wire[:cut])); err == nil {
			t.Errorf("cut at %d: expected error", cut)
		}
	}
}
