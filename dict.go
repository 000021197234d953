package hdt

import (
	"bufio"
	"fmt"
)

// IdKind selects which triple position an id or term refers to.
type IdKind int

const (
	IdKindSubject IdKind = iota
	IdKindPredicate
	IdKindObject
)

func (k IdKind) String() string {
	switch k {
	case IdKindSubject:
		return "subject"
	case IdKindPredicate:
		return "predicate"
	case IdKindObject:
		return "object"
	}
	return fmt.Sprintf("IdKind(%d)", int(k))
}

// dictFormatFour is the format URI of the standard four-section dictionary.
const dictFormatFour = "<http://purl.org/HDT/hdt#dictionaryFour>"

// FourSectDict is the standard HDT dictionary: a shared section for terms
// appearing as both subject and object, followed by sections for
// subject-only, predicate, and object-only terms.
//
// Subject ids 1..N_shared resolve in the shared section and higher subject
// ids in the subjects section at id-N_shared; object ids work the same way
// against the objects section. Predicate ids form their own range.
type FourSectDict struct {
	Shared     *DictSectPFC
	Subjects   *DictSectPFC
	Predicates *DictSectPFC
	Objects    *DictSectPFC
}

// ReadDict reads the dictionary: a control-info preamble of type 3 with the
// four-section format, then the shared, subjects, predicates, and objects
// sections in that order.
func ReadDict(r *bufio.Reader) (*FourSectDict, error) {
	ci, err := ReadControlInfo(r)
	if err != nil {
		return nil, err
	}
	if ci.Type != SectionDictionary {
		return nil, fmt.Errorf("hdt: expected dictionary section, got type %d", ci.Type)
	}
	if ci.Format != dictFormatFour {
		return nil, fmt.Errorf("%w: dictionary format %q", ErrUnknownFormat, ci.Format)
	}

	d := &FourSectDict{}
	for _, sect := range []struct {
		name string
		dst  **DictSectPFC
	}{
		{"shared", &d.Shared},
		{"subjects", &d.Subjects},
		{"predicates", &d.Predicates},
		{"objects", &d.Objects},
	} {
		s, err := ReadDictSectPFC(r)
		if err != nil {
			return nil, fmt.Errorf("hdt: %s dictionary: %w", sect.name, err)
		}
		*sect.dst = s
	}
	return d, nil
}

// IDToString translates a 1-based id of the given kind into its term.
func (d *FourSectDict) IDToString(id int, kind IdKind) (string, error) {
	switch kind {
	case IdKindSubject:
		return d.sectionString(id, d.Subjects)
	case IdKindObject:
		return d.sectionString(id, d.Objects)
	case IdKindPredicate:
		return d.Predicates.Extract(id)
	}
	return "", fmt.Errorf("hdt: unknown id kind %d", int(kind))
}

// sectionString resolves an id against the shared section first and then
// against the position-specific section, shifted past the shared range.
func (d *FourSectDict) sectionString(id int, sect *DictSectPFC) (string, error) {
	shared := d.Shared.NumStrings()
	if id <= shared {
		return d.Shared.Extract(id)
	}
	return sect.Extract(id - shared)
}

// StringToID returns the 1-based id of the term for the given kind, or 0
// when the term is not in the dictionary.
func (d *FourSectDict) StringToID(s string, kind IdKind) int {
	var sect *DictSectPFC
	switch kind {
	case IdKindSubject:
		sect = d.Subjects
	case IdKindObject:
		sect = d.Objects
	case IdKindPredicate:
		return d.Predicates.StringToID(s)
	default:
		return 0
	}
	if id := d.Shared.StringToID(s); id != 0 {
		return id
	}
	if id := sect.StringToID(s); id != 0 {
		return id + d.Shared.NumStrings()
	}
	return 0
}

// NumSubjects returns the number of distinct subject terms.
func (d *FourSectDict) NumSubjects() int {
	return d.Shared.NumStrings() + d.Subjects.NumStrings()
}

// NumPredicates returns the number of distinct predicate terms.
func (d *FourSectDict) NumPredicates() int {
	return d.Predicates.NumStrings()
}

// NumObjects returns the number of distinct object terms.
func (d *FourSectDict) NumObjects() int {
	return d.Shared.NumStrings() + d.Objects.NumStrings()
}
