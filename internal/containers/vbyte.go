// Package containers implements the succinct structures that back an HDT
// file: vbyte integers, fixed-width packed sequences, rank/select bit
// vectors, adjacency lists, and a wavelet matrix.
//
// All multi-byte integers on the wire are little-endian. Each structure
// carries its own checksum framing: a CRC-8/CCITT over its metadata preamble
// (including the leading type byte) and a CRC-32C over its payload bytes.
package containers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedVByte is returned when a vbyte runs off the end of its input
// before the terminating byte.
var ErrMalformedVByte = errors.New("containers: malformed vbyte")

// ReadVByte decodes one vbyte-encoded unsigned integer from r: seven payload
// bits per byte, least significant group first, with the high bit set on the
// final byte. It returns the decoded value together with the raw encoded
// bytes so that callers can feed them into preamble checksums.
func ReadVByte(r *bufio.Reader) (uint64, []byte, error) {
	var v uint64
	var shift uint
	raw := make([]byte, 0, 2)
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, nil, fmt.Errorf("containers: reading vbyte: %w: %w", ErrMalformedVByte, err)
			}
			return 0, nil, fmt.Errorf("containers: reading vbyte: %w", err)
		}
		raw = append(raw, b)
		if shift > 63 {
			return 0, nil, ErrMalformedVByte
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 != 0 {
			return v, raw, nil
		}
		shift += 7
	}
}

// DecodeVByteDelta decodes the vbyte at data[pos:]. The encoding is the same
// as ReadVByte's; the name follows its use for the shared-prefix lengths of
// front-coded dictionary blocks. It returns the value and the number of
// bytes consumed.
func DecodeVByteDelta(data []byte, pos int) (int, int, error) {
	var v uint64
	var shift uint
	for i := pos; i < len(data); i++ {
		if shift > 63 {
			return 0, 0, ErrMalformedVByte
		}
		b := data[i]
		v |= uint64(b&0x7f) << shift
		if b&0x80 != 0 {
			return int(v), i - pos + 1, nil
		}
		shift += 7
	}
	return 0, 0, ErrMalformedVByte
}

// AppendVByte appends the vbyte encoding of v to dst.
func AppendVByte(dst []byte, v uint64) []byte {
	for v > 0x7f {
		dst = append(dst, byte(v&0x7f))
		v >>= 7
	}
	return append(dst, byte(v)|0x80)
}
