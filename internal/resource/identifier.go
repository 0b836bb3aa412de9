package resource

import (
	"path/filepath"
	"strings"
)

// Identifier names one logical resource: a resref plus a type tag.
// The name is stored case-folded so that two identifiers differing only
// in case compare equal and hash identically; Identifier is safe to use
// directly as a map key. The original-case spelling of a resource, when
// it matters, lives on the descriptor that carries it.
type Identifier struct {
	name string
	typ  Type
}

// NewIdentifier builds an identifier from a resref and type tag. The
// name is folded to lower case; equality is case-insensitive by
// construction.
func NewIdentifier(name string, typ Type) Identifier {
	return Identifier{name: strings.ToLower(name), typ: typ}
}

// IdentifierFromFilename derives an identifier from a loose filename
// such as "C_Bantha.utc". The type comes from the extension; an
// unrecognized extension yields an identifier with TypeInvalid, which
// directory scans skip.
func IdentifierFromFilename(filename string) Identifier {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	return NewIdentifier(name, TypeFromExtension(ext))
}

// Name returns the case-folded resref.
func (id Identifier) Name() string { return id.name }

// Type returns the type tag.
func (id Identifier) Type() Type { return id.typ }

// Filename returns the conventional loose filename, e.g. "c_bantha.utc".
func (id Identifier) Filename() string {
	return id.name + "." + id.typ.Extension()
}

func (id Identifier) String() string { return id.Filename() }
