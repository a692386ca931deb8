package axml

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"

	"github.com/apkscope/apkscope-cli/internal/errors"
)

// sentinel index meaning "no string"
const noString = 0xFFFFFFFF

// stringPool holds the interned strings of the chunk stream. Strings are
// stored as 16-bit code units with a 16-bit length prefix and decoded
// lazily by index.
type stringPool struct {
	offsets []uint32
	data    []byte
}

var utf16Decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// parseStringPool reads the string block. chunkStart is the offset of the
// block's type word; the strings/styles offsets in the block are relative
// to it.
func parseStringPool(r *reader, chunkStart int) (*stringPool, error) {
	chunkSize, err := r.u32()
	if err != nil {
		return nil, err
	}
	stringCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	styleCount, err := r.u32()
	if err != nil {
		return nil, err
	}
	if _, err := r.u32(); err != nil { // flags, ignored
		return nil, err
	}
	stringsOffset, err := r.u32()
	if err != nil {
		return nil, err
	}
	stylesOffset, err := r.u32()
	if err != nil {
		return nil, err
	}

	pool := &stringPool{offsets: make([]uint32, 0, stringCount)}
	for i := uint32(0); i < stringCount; i++ {
		off, err := r.u32()
		if err != nil {
			return nil, err
		}
		pool.offsets = append(pool.offsets, off)
	}
	for i := uint32(0); i < styleCount; i++ {
		if _, err := r.u32(); err != nil {
			return nil, err
		}
	}

	backing := int(chunkSize) - int(stringsOffset)
	if styleCount > 0 {
		backing = int(stylesOffset) - int(stringsOffset)
	}
	if backing < 0 {
		return nil, errors.NewMalformedChunk("string block declares negative backing region")
	}

	start := chunkStart + int(stringsOffset)
	pool.data, err = r.slice(start, start+backing)
	if err != nil {
		return nil, err
	}

	// position the cursor after the whole chunk
	if err := r.skip(chunkStart + int(chunkSize) - r.off); err != nil {
		return nil, err
	}
	return pool, nil
}

// get decodes the string at idx. The 0xFFFFFFFF sentinel resolves to the
// empty string.
func (p *stringPool) get(idx uint32) (string, error) {
	if idx == noString {
		return "", nil
	}
	if int(idx) >= len(p.offsets) {
		return "", errors.NewMalformedChunk("string index %d outside pool of %d", idx, len(p.offsets))
	}
	off := int(p.offsets[idx])
	if off+2 > len(p.data) {
		return "", errors.NewMalformedChunk("string offset 0x%X outside backing store", off)
	}
	units := int(binary.LittleEndian.Uint16(p.data[off:]))
	start := off + 2
	end := start + units*2
	if end > len(p.data) {
		return "", errors.NewMalformedChunk("string at 0x%X overruns backing store", off)
	}
	decoded, err := utf16Decoder.NewDecoder().Bytes(p.data[start:end])
	if err != nil {
		return "", errors.NewMalformedChunk("invalid UTF-16 at 0x%X: %v", off, err)
	}
	return string(decoded), nil
}
