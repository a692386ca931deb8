package axml

import (
	"encoding/binary"

	"github.com/apkscope/apkscope-cli/internal/errors"
)

// reader is a little-endian cursor over the chunk stream. Every read past
// the end of the input fails the whole decode.
type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) u16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, errors.NewMalformedChunk("truncated input at offset 0x%X", r.off)
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, errors.NewMalformedChunk("truncated input at offset 0x%X", r.off)
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) skip(n int) error {
	if n < 0 || r.remaining() < n {
		return errors.NewMalformedChunk("truncated input at offset 0x%X", r.off)
	}
	r.off += n
	return nil
}

func (r *reader) slice(from, to int) ([]byte, error) {
	if from < 0 || to < from || to > len(r.data) {
		return nil, errors.NewMalformedChunk("region [0x%X, 0x%X) outside input", from, to)
	}
	return r.data[from:to], nil
}
