package hdt

import (
	"encoding/binary"
	"math/bits"
	"sort"
	"testing"

	"github.com/deepteams/hdt/internal/containers"
)

// The helpers below synthesise valid section byte streams so that decode
// tests run without binary fixture files. They mirror the wire forms the
// readers consume, including the trailing end-of-payload entry the reference
// tooling writes into the block offset sequence.

func encodeSequenceWire(width int, values []uint64) []byte {
	pre := containers.AppendVByte([]byte{1, byte(width)}, uint64(len(values)))
	out := append(pre, containers.CRC8(pre))

	payload := make([]byte, (len(values)*width+7)/8)
	for i, v := range values {
		for b := 0; b < width; b++ {
			bit := i*width + b
			if v>>uint(b)&1 != 0 {
				payload[bit>>3] |= 1 << (uint(bit) & 7)
			}
		}
	}
	out = append(out, payload...)
	return binary.LittleEndian.AppendUint32(out, containers.CRC32C(payload))
}

func encodeBitmapWire(pattern []bool) []byte {
	pre := containers.AppendVByte([]byte{1}, uint64(len(pattern)))
	out := append(pre, containers.CRC8(pre))

	payload := make([]byte, (len(pattern)+7)/8)
	for i, bit := range pattern {
		if bit {
			payload[i>>3] |= 1 << (uint(i) & 7)
		}
	}
	out = append(out, payload...)
	return binary.LittleEndian.AppendUint32(out, containers.CRC32C(payload))
}

func encodeControlInfo(typ SectionType, format, props string) []byte {
	out := append([]byte("$HDT"), byte(typ))
	out = append(out, format...)
	out = append(out, 0)
	out = append(out, props...)
	out = append(out, 0)
	return binary.LittleEndian.AppendUint16(out, containers.CRC16(out))
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// encodePFCSection front-codes the sorted terms into blocks of blockSize
// strings and wraps them in the dictionary section framing.
func encodePFCSection(t *testing.T, terms []string, blockSize int) []byte {
	t.Helper()
	if !sort.StringsAreSorted(terms) {
		t.Fatal("dictionary terms must be sorted")
	}

	var packed []byte
	var offsets []uint64
	for i, s := range terms {
		if i%blockSize == 0 {
			offsets = append(offsets, uint64(len(packed)))
			packed = append(packed, s...)
		} else {
			shared := commonPrefixLen(terms[i-1], s)
			packed = containers.AppendVByte(packed, uint64(shared))
			packed = append(packed, s[shared:]...)
		}
		packed = append(packed, 0)
	}
	offsets = append(offsets, uint64(len(packed)))

	width := bits.Len64(uint64(len(packed)))
	if width == 0 {
		width = 1
	}

	pre := containers.AppendVByte([]byte{dictSectTypePFC}, uint64(len(terms)))
	pre = containers.AppendVByte(pre, uint64(len(packed)))
	pre = containers.AppendVByte(pre, uint64(blockSize))
	out := append(pre, containers.CRC8(pre))
	out = append(out, encodeSequenceWire(width, offsets)...)
	out = append(out, packed...)
	return binary.LittleEndian.AppendUint32(out, containers.CRC32C(packed))
}

// encodeTriplesPayload derives the y/z bitmaps and sequences from triples
// sorted in storage order and concatenates their wire forms. The
// coordinates are the stored (x, y, z), whatever the declared order.
func encodeTriplesPayload(t *testing.T, triples [][3]int) []byte {
	t.Helper()

	var seqY, seqZ []uint64
	var bitsY, bitsZ []bool
	var maxY, maxZ uint64
	for i, tr := range triples {
		if prev := triples[max(i-1, 0)]; i > 0 && !(prev[0] < tr[0] ||
			(prev[0] == tr[0] && (prev[1] < tr[1] || (prev[1] == tr[1] && prev[2] < tr[2])))) {
			t.Fatalf("triples not in storage order at %d", i)
		}
		lastOfY := i == len(triples)-1 || triples[i+1][0] != tr[0] || triples[i+1][1] != tr[1]
		seqZ = append(seqZ, uint64(tr[2]))
		bitsZ = append(bitsZ, lastOfY)
		maxZ = max(maxZ, uint64(tr[2]))
		if lastOfY {
			lastOfX := i == len(triples)-1 || triples[i+1][0] != tr[0]
			seqY = append(seqY, uint64(tr[1]))
			bitsY = append(bitsY, lastOfX)
			maxY = max(maxY, uint64(tr[1]))
		}
	}

	out := encodeBitmapWire(bitsY)
	out = append(out, encodeBitmapWire(bitsZ)...)
	out = append(out, encodeSequenceWire(bits.Len64(maxY), seqY)...)
	return append(out, encodeSequenceWire(bits.Len64(maxZ), seqZ)...)
}

func collectIDs(t *testing.T, it TripleIDIter) []TripleID {
	t.Helper()
	var got []TripleID
	for it.Next() {
		got = append(got, it.Triple())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	return got
}

func tripleIDsEqual(a, b []TripleID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
