package hdt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/deepteams/hdt/internal/containers"
)

// dictSectTypePFC is the type byte of a plain-front-coded dictionary section.
const dictSectTypePFC = 0x02

// Errors shared across the section readers.
var (
	ErrUnsupportedSection = errors.New("hdt: unsupported section type")
	ErrUnknownFormat      = errors.New("hdt: unknown section format")
)

// IDOutOfBoundsError reports an Extract call with an id outside [1, N].
type IDOutOfBoundsError struct {
	ID  int
	Len int
}

func (e *IDOutOfBoundsError) Error() string {
	return fmt.Sprintf("hdt: id %d out of bounds for dictionary section of %d strings", e.ID, e.Len)
}

// InvalidUTF8Error reports a dictionary entry whose reconstructed bytes are
// not valid UTF-8. Raw holds the bytes as stored; Lossy is the string with
// invalid sequences replaced by U+FFFD.
type InvalidUTF8Error struct {
	Raw   []byte
	Lossy string
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("hdt: invalid UTF-8 in dictionary entry % x (recovered %q)", e.Raw, e.Lossy)
}

// DictSectPFC is one plain-front-coded dictionary section: a sorted string
// sequence cut into blocks of blockSize strings. Each block stores its first
// string verbatim and every following string as the length of the prefix
// shared with its predecessor plus the remaining suffix, all NUL-terminated
// inside one contiguous packed buffer.
type DictSectPFC struct {
	numStrings   int
	packedLength int
	blockSize    int
	blocks       *containers.Sequence // offsets of block headers in packed
	packed       []byte
}

// ReadDictSectPFC reads one dictionary section from r. The wire form is the
// PFC type byte, three vbytes (string count, packed byte length, block
// size), a CRC-8 over that preamble, the packed sequence of block offsets,
// the packed string payload, and a little-endian CRC-32C over the payload.
func ReadDictSectPFC(r *bufio.Reader) (*DictSectPFC, error) {
	typ, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("hdt: reading dictionary section type: %w", err)
	}
	if typ != dictSectTypePFC {
		return nil, fmt.Errorf("%w: dictionary section type 0x%02x, want plain front coding", ErrUnsupportedSection, typ)
	}

	preamble := []byte{typ}
	numStrings, raw, err := containers.ReadVByte(r)
	if err != nil {
		return nil, err
	}
	preamble = append(preamble, raw...)
	packedLength, raw, err := containers.ReadVByte(r)
	if err != nil {
		return nil, err
	}
	preamble = append(preamble, raw...)
	blockSize, raw, err := containers.ReadVByte(r)
	if err != nil {
		return nil, err
	}
	preamble = append(preamble, raw...)

	crc8, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("hdt: reading dictionary section header CRC: %w", err)
	}
	if containers.CRC8(preamble) != crc8 {
		return nil, fmt.Errorf("hdt: dictionary section header: %w", containers.ErrChecksumMismatch)
	}
	if blockSize == 0 {
		return nil, fmt.Errorf("hdt: dictionary section block size must be positive")
	}

	blocks, err := containers.ReadSequence(r)
	if err != nil {
		return nil, err
	}

	packed := make([]byte, packedLength)
	if _, err := io.ReadFull(r, packed); err != nil {
		return nil, fmt.Errorf("hdt: reading dictionary section payload: %w", err)
	}
	var crc32c [4]byte
	if _, err := io.ReadFull(r, crc32c[:]); err != nil {
		return nil, fmt.Errorf("hdt: reading dictionary section payload CRC: %w", err)
	}
	if containers.CRC32C(packed) != binary.LittleEndian.Uint32(crc32c[:]) {
		return nil, fmt.Errorf("hdt: dictionary section payload: %w", containers.ErrChecksumMismatch)
	}

	return &DictSectPFC{
		numStrings:   int(numStrings),
		packedLength: int(packedLength),
		blockSize:    int(blockSize),
		blocks:       blocks,
		packed:       packed,
	}, nil
}

// NumStrings returns the number of strings in the section.
func (d *DictSectPFC) NumStrings() int { return d.numStrings }

// numBlocks is derived from the header fields rather than from the offset
// sequence, which carries a trailing end-of-payload entry in files produced
// by the reference tooling.
func (d *DictSectPFC) numBlocks() int {
	return (d.numStrings + d.blockSize - 1) / d.blockSize
}

// strlen returns the length of the NUL-terminated byte string at offset pos.
func (d *DictSectPFC) strlen(pos int) int {
	end := pos
	for end < len(d.packed) && d.packed[end] != 0 {
		end++
	}
	return end - pos
}

// header returns the verbatim first string of the given block.
func (d *DictSectPFC) header(block int) []byte {
	pos := int(d.blocks.Get(block))
	return d.packed[pos : pos+d.strlen(pos)]
}

// Extract returns the string with the given 1-based id. Ids outside [1, N]
// yield an *IDOutOfBoundsError; entries that do not decode as UTF-8 yield an
// *InvalidUTF8Error carrying the raw bytes and a lossy reconstruction.
func (d *DictSectPFC) Extract(id int) (string, error) {
	if id <= 0 || id > d.numStrings {
		return "", &IDOutOfBoundsError{ID: id, Len: d.numStrings}
	}
	block := (id - 1) / d.blockSize
	offset := (id - 1) % d.blockSize

	pos := int(d.blocks.Get(block))
	slen := d.strlen(pos)
	buf := append([]byte(nil), d.packed[pos:pos+slen]...)
	for k := 0; k < offset; k++ {
		pos += slen + 1
		shared, n, err := containers.DecodeVByteDelta(d.packed, pos)
		if err != nil {
			return "", fmt.Errorf("hdt: dictionary block %d: %w", block, err)
		}
		pos += n
		slen = d.strlen(pos)
		if shared > len(buf) {
			shared = len(buf)
		}
		buf = append(buf[:shared], d.packed[pos:pos+slen]...)
	}

	if !utf8.Valid(buf) {
		return "", &InvalidUTF8Error{
			Raw:   buf,
			Lossy: strings.ToValidUTF8(string(buf), "�"),
		}
	}
	return string(buf), nil
}

// StringToID returns the 1-based id of s, or 0 when s is not in the section.
// A binary search over the block headers narrows the candidate block, which
// is then scanned front to back; a search key equal to a block header
// resolves without entering the scan.
func (d *DictSectPFC) StringToID(s string) int {
	key := []byte(s)
	lo, hi := 0, d.numBlocks()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch cmp := bytes.Compare(key, d.header(mid)); {
		case cmp == 0:
			return mid*d.blockSize + 1
		case cmp < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	if lo == 0 {
		// The key sorts before the first block header.
		return 0
	}
	block := lo - 1
	k := d.locateInBlock(block, key)
	if k == 0 {
		return 0
	}
	return block*d.blockSize + k + 1
}

// locateInBlock scans the block's front-coded strings for key and returns
// its 0-based offset within the block, or 0 when absent. Offset 0 is the
// block header, which the binary search has already ruled out.
func (d *DictSectPFC) locateInBlock(block int, key []byte) int {
	count := d.numStrings - block*d.blockSize
	if count > d.blockSize {
		count = d.blockSize
	}

	pos := int(d.blocks.Get(block))
	slen := d.strlen(pos)
	buf := append([]byte(nil), d.packed[pos:pos+slen]...)
	for k := 1; k < count; k++ {
		pos += slen + 1
		shared, n, err := containers.DecodeVByteDelta(d.packed, pos)
		if err != nil {
			return 0
		}
		pos += n
		slen = d.strlen(pos)
		if shared > len(buf) {
			shared = len(buf)
		}
		buf = append(buf[:shared], d.packed[pos:pos+slen]...)

		switch cmp := bytes.Compare(buf, key); {
		case cmp == 0:
			return k
		case cmp > 0:
			// The block is sorted; the key cannot follow.
			return 0
		}
	}
	return 0
}
