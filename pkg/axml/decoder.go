// Package axml decodes Android binary XML (the packed resource-chunk form
// of AndroidManifest.xml) back into a textual XML document.
package axml

import (
	"fmt"
	"strings"

	"github.com/apkscope/apkscope-cli/internal/errors"
)

// Chunk type words, little-endian.
const (
	chunkResourceIds    = 0x00080180
	chunkNamespaceStart = 0x00100100
	chunkNamespaceEnd   = 0x00100101
	chunkTagStart       = 0x00100102
	chunkTagEnd         = 0x00100103
	chunkText           = 0x00100104
)

// The file magic and size words plus the string block type word. The
// decoder does not validate them further.
const headerSkip = 12

type namespace struct {
	prefix string
	uri    string
}

type decoder struct {
	r       *reader
	strings *stringPool

	out        strings.Builder
	namespaces []namespace
	depth      int
	firstTag   bool
}

// Decode parses a binary XML chunk stream and returns the reconstructed
// textual document as UTF-8. Partial results are never returned: an
// unknown chunk type, an inconsistent chunk size or truncated input fails
// the whole decode.
func Decode(data []byte) ([]byte, error) {
	d := &decoder{r: &reader{data: data}, firstTag: true}

	if err := d.r.skip(headerSkip); err != nil {
		return nil, err
	}

	var err error
	d.strings, err = parseStringPool(d.r, headerSkip-4)
	if err != nil {
		return nil, err
	}

	for d.r.remaining() >= 4 {
		chunkType, err := d.r.u32()
		if err != nil {
			return nil, err
		}
		switch chunkType {
		case chunkResourceIds:
			err = d.parseResourceIds()
		case chunkNamespaceStart:
			err = d.parseNamespace(true)
		case chunkNamespaceEnd:
			err = d.parseNamespace(false)
		case chunkTagStart:
			err = d.parseTagStart()
		case chunkTagEnd:
			err = d.parseTagEnd()
		case chunkText:
			err = d.parseText()
		default:
			err = errors.NewMalformedChunk("unknown chunk type 0x%08X", chunkType)
		}
		if err != nil {
			return nil, err
		}
	}

	return []byte(d.out.String()), nil
}

func (d *decoder) parseResourceIds() error {
	size, err := d.r.u32()
	if err != nil {
		return err
	}
	if size < 8 || size%4 != 0 {
		return errors.NewMalformedChunk("resource id chunk has invalid size %d", size)
	}
	for i := uint32(0); i < size/4-2; i++ {
		if _, err := d.r.u32(); err != nil {
			return err
		}
	}
	return nil
}

// parseNamespace handles both start and end chunks; they share the same
// layout.
func (d *decoder) parseNamespace(start bool) error {
	if err := d.skipChunkHeader(); err != nil {
		return err
	}
	prefixIdx, err := d.r.u32()
	if err != nil {
		return err
	}
	uriIdx, err := d.r.u32()
	if err != nil {
		return err
	}

	if start {
		prefix, err := d.strings.get(prefixIdx)
		if err != nil {
			return err
		}
		uri, err := d.strings.get(uriIdx)
		if err != nil {
			return err
		}
		d.namespaces = append(d.namespaces, namespace{prefix: prefix, uri: uri})
	} else if n := len(d.namespaces); n > 0 {
		d.namespaces = d.namespaces[:n-1]
	}
	return nil
}

func (d *decoder) parseTagStart() error {
	if err := d.skipChunkHeader(); err != nil {
		return err
	}
	nsIdx, err := d.r.u32()
	if err != nil {
		return err
	}
	nameIdx, err := d.r.u32()
	if err != nil {
		return err
	}
	if _, err := d.r.u32(); err != nil { // flags
		return err
	}
	attrWord, err := d.r.u32()
	if err != nil {
		return err
	}
	if _, err := d.r.u32(); err != nil { // class/style hints
		return err
	}
	attrCount := int(attrWord & 0xFFFF)

	name, err := d.qualifiedName(nsIdx, nameIdx)
	if err != nil {
		return err
	}

	if d.firstTag {
		d.out.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	}

	d.indent()
	d.out.WriteString("<")
	d.out.WriteString(name)

	if d.firstTag && len(d.namespaces) > 0 {
		ns := d.namespaces[0]
		d.writeAttrLine(fmt.Sprintf("xmlns:%s", ns.prefix), ns.uri)
	}
	d.firstTag = false

	for i := 0; i < attrCount; i++ {
		if err := d.parseAttribute(); err != nil {
			return err
		}
	}

	d.out.WriteString("\n")
	d.indent()
	d.out.WriteString(">\n")
	d.depth++
	return nil
}

func (d *decoder) parseAttribute() error {
	nsIdx, err := d.r.u32()
	if err != nil {
		return err
	}
	nameIdx, err := d.r.u32()
	if err != nil {
		return err
	}
	rawIdx, err := d.r.u32()
	if err != nil {
		return err
	}
	typeWord, err := d.r.u32()
	if err != nil {
		return err
	}
	data, err := d.r.u32()
	if err != nil {
		return err
	}

	name, err := d.qualifiedName(nsIdx, nameIdx)
	if err != nil {
		return err
	}
	value, err := d.renderValue(uint8(typeWord>>24), rawIdx, data)
	if err != nil {
		return err
	}
	d.writeAttrLine(name, value)
	return nil
}

func (d *decoder) parseTagEnd() error {
	if err := d.skipChunkHeader(); err != nil {
		return err
	}
	nsIdx, err := d.r.u32()
	if err != nil {
		return err
	}
	nameIdx, err := d.r.u32()
	if err != nil {
		return err
	}
	name, err := d.qualifiedName(nsIdx, nameIdx)
	if err != nil {
		return err
	}
	if d.depth > 0 {
		d.depth--
	}
	d.indent()
	d.out.WriteString("</")
	d.out.WriteString(name)
	d.out.WriteString(">\n")
	return nil
}

func (d *decoder) parseText() error {
	if err := d.skipChunkHeader(); err != nil {
		return err
	}
	nameIdx, err := d.r.u32()
	if err != nil {
		return err
	}
	if err := d.r.skip(8); err != nil { // two reserved words
		return err
	}
	text, err := d.strings.get(nameIdx)
	if err != nil {
		return err
	}
	d.indent()
	d.out.WriteString(escapeXML(text))
	d.out.WriteString("\n")
	return nil
}

// skipChunkHeader discards the chunk size, line number and reserved words
// that every XML chunk carries after its type.
func (d *decoder) skipChunkHeader() error {
	return d.r.skip(12)
}

// qualifiedName resolves a name and its namespace URI index into
// prefix:name form. Tags and attributes without a resolvable prefix keep
// their bare name.
func (d *decoder) qualifiedName(nsIdx, nameIdx uint32) (string, error) {
	name, err := d.strings.get(nameIdx)
	if err != nil {
		return "", err
	}
	uri, err := d.strings.get(nsIdx)
	if err != nil {
		return "", err
	}
	if prefix := d.prefixFor(uri); prefix != "" {
		return prefix + ":" + name, nil
	}
	return name, nil
}

func (d *decoder) prefixFor(uri string) string {
	if uri == "" {
		return ""
	}
	for i := len(d.namespaces) - 1; i >= 0; i-- {
		if d.namespaces[i].uri == uri {
			return d.namespaces[i].prefix
		}
	}
	return ""
}

func (d *decoder) writeAttrLine(name, value string) {
	d.out.WriteString("\n")
	d.indent()
	d.out.WriteString("  ")
	d.out.WriteString(name)
	d.out.WriteString("=\"")
	d.out.WriteString(escapeXML(value))
	d.out.WriteString("\"")
}

func (d *decoder) indent() {
	for i := 0; i < d.depth; i++ {
		d.out.WriteString("  ")
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
