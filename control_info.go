package hdt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/deepteams/hdt/internal/containers"
)

// SectionType identifies which kind of section a control-info preamble
// introduces.
type SectionType byte

const (
	SectionGlobal     SectionType = 1
	SectionHeader     SectionType = 2
	SectionDictionary SectionType = 3
	SectionTriples    SectionType = 4
)

// hdtCookie opens every control-info preamble.
var hdtCookie = [4]byte{'$', 'H', 'D', 'T'}

// ControlInfo is the decoded preamble of an HDT section: the section type,
// its format URI, and a free-form key=value property map.
type ControlInfo struct {
	Type       SectionType
	Format     string
	Properties map[string]string
}

// ReadControlInfo reads one control-info preamble from r: the 4-byte "$HDT"
// cookie, a section type byte, a NUL-terminated format URI, a NUL-terminated
// "key=value;" property string, and a little-endian CRC-16 over all
// preceding bytes.
func ReadControlInfo(r *bufio.Reader) (ControlInfo, error) {
	history := make([]byte, 0, 64)

	var cookie [4]byte
	if _, err := io.ReadFull(r, cookie[:]); err != nil {
		return ControlInfo{}, fmt.Errorf("hdt: reading control info cookie: %w", err)
	}
	if cookie != hdtCookie {
		return ControlInfo{}, fmt.Errorf("hdt: bad control info cookie %q", cookie[:])
	}
	history = append(history, cookie[:]...)

	typ, err := r.ReadByte()
	if err != nil {
		return ControlInfo{}, fmt.Errorf("hdt: reading section type: %w", err)
	}
	history = append(history, typ)

	format, history, err := readCString(r, history)
	if err != nil {
		return ControlInfo{}, fmt.Errorf("hdt: reading section format: %w", err)
	}
	props, history, err := readCString(r, history)
	if err != nil {
		return ControlInfo{}, fmt.Errorf("hdt: reading section properties: %w", err)
	}

	var crc [2]byte
	if _, err := io.ReadFull(r, crc[:]); err != nil {
		return ControlInfo{}, fmt.Errorf("hdt: reading control info CRC: %w", err)
	}
	if containers.CRC16(history) != binary.LittleEndian.Uint16(crc[:]) {
		return ControlInfo{}, fmt.Errorf("hdt: control info: %w", containers.ErrChecksumMismatch)
	}

	return ControlInfo{
		Type:       SectionType(typ),
		Format:     format,
		Properties: parseProperties(props),
	}, nil
}

// readCString reads a NUL-terminated string, appending the raw bytes
// (terminator included) to history for the preamble checksum.
func readCString(r *bufio.Reader, history []byte) (string, []byte, error) {
	raw, err := r.ReadBytes(0)
	if err != nil {
		return "", history, err
	}
	return string(raw[:len(raw)-1]), append(history, raw...), nil
}

// parseProperties splits a "key=value;key=value;" string into a map.
func parseProperties(s string) map[string]string {
	props := make(map[string]string)
	for _, pair := range strings.Split(s, ";") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		props[k] = v
	}
	return props
}
