// Package tlk reads the talk table format ("dialog.tlk") far enough to
// answer string-reference lookups. Sound resrefs, variance fields, and
// everything else the format carries are codec territory outside this
// module's scope.
package tlk

import (
	"encoding/binary"
	"fmt"
	"os"
)

const (
	magic   = "TLK "
	version = "V3.0"

	headerSize = 20
	entrySize  = 40

	flagTextPresent = 0x1
)

type entry struct {
	flags  uint32
	offset uint32
	size   uint32
}

// Table is a loaded talk table. Immutable after Load.
type Table struct {
	path       string
	languageID uint32
	textOffset uint32
	entries    []entry
	data       []byte
}

// Load parses the talk table at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading talk table: %w", err)
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("talk table %s too small: %d bytes", path, len(data))
	}
	if string(data[0:4]) != magic || string(data[4:8]) != version {
		return nil, fmt.Errorf("talk table %s: bad signature %q", path, data[0:8])
	}

	languageID := binary.LittleEndian.Uint32(data[8:])
	count := int(binary.LittleEndian.Uint32(data[12:]))
	textOffset := binary.LittleEndian.Uint32(data[16:])

	if headerSize+count*entrySize > len(data) {
		return nil, fmt.Errorf("talk table %s: %d entries exceed file size %d", path, count, len(data))
	}

	entries := make([]entry, count)
	p := headerSize
	for i := range entries {
		entries[i] = entry{
			flags:  binary.LittleEndian.Uint32(data[p:]),
			offset: binary.LittleEndian.Uint32(data[p+28:]),
			size:   binary.LittleEndian.Uint32(data[p+32:]),
		}
		p += entrySize
	}

	return &Table{
		path:       path,
		languageID: languageID,
		textOffset: textOffset,
		entries:    entries,
		data:       data,
	}, nil
}

// Path returns the file the table was loaded from.
func (t *Table) Path() string { return t.path }

// LanguageID returns the table's numeric language code.
func (t *Table) LanguageID() uint32 { return t.languageID }

// Len returns the number of string slots.
func (t *Table) Len() int { return len(t.entries) }

// String returns the text for a string reference. A slot without text,
// or a reference outside the table, yields "" and false rather than an
// error: absent strings are a normal condition for gendered tables.
func (t *Table) String(stringref int) (string, bool) {
	if stringref < 0 || stringref >= len(t.entries) {
		return "", false
	}
	e := t.entries[stringref]
	if e.flags&flagTextPresent == 0 {
		return "", false
	}
	start := int(t.textOffset) + int(e.offset)
	end := start + int(e.size)
	if start < 0 || end > len(t.data) || start > end {
		return "", false
	}
	return string(t.data[start:end]), true
}
