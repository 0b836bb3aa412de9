package resource

import (
	"fmt"
	"io"
	"os"
)

// FileResource is a lazy handle to one resource inside a backing file:
// a loose file on disk, an archive blob, or a capsule. It owns no bytes;
// Data reads the byte range on demand.
type FileResource struct {
	id Identifier

	// ResName is the original-case spelling from the source table or
	// filename; id carries the folded form used for comparison.
	resname string
	path    string
	offset  uint64
	size    uint64
}

// NewFileResource builds a descriptor for size bytes at offset within
// the file at path.
func NewFileResource(resname string, typ Type, path string, offset, size uint64) FileResource {
	return FileResource{
		id:      NewIdentifier(resname, typ),
		resname: resname,
		path:    path,
		offset:  offset,
		size:    size,
	}
}

// Identifier returns the logical identity of the resource. Two
// descriptors with equal identifiers refer to the same logical resource
// regardless of where their bytes live.
func (fr FileResource) Identifier() Identifier { return fr.id }

// ResName returns the original-case resref.
func (fr FileResource) ResName() string { return fr.resname }

// Path returns the backing file.
func (fr FileResource) Path() string { return fr.path }

// Offset returns the byte offset of the resource within the backing file.
func (fr FileResource) Offset() uint64 { return fr.offset }

// Size returns the resource's byte length.
func (fr FileResource) Size() uint64 { return fr.size }

// Data opens the backing file, reads the descriptor's byte range, and
// closes the file again.
func (fr FileResource) Data() ([]byte, error) {
	f, err := os.Open(fr.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", fr.path, err)
	}
	defer f.Close()
	return fr.DataFrom(f)
}

// DataFrom reads the descriptor's byte range from an already-open
// handle on the backing file. Used by batch queries that share one
// handle per distinct backing path.
func (fr FileResource) DataFrom(r io.ReaderAt) ([]byte, error) {
	data := make([]byte, fr.size)
	if _, err := r.ReadAt(data, int64(fr.offset)); err != nil {
		return nil, fmt.Errorf("reading %s from %s at %d: %w", fr.id, fr.path, fr.offset, err)
	}
	return data, nil
}

// LocationResult reports one physical place a resource was found.
type LocationResult struct {
	Path   string
	Offset uint64
	Size   uint64
}

// ResourceResult carries the bytes of one resolved resource together
// with the path it was read from.
type ResourceResult struct {
	Name string
	Type Type
	Path string
	Data []byte
}

// Identifier returns the logical identity of the resolved resource.
func (rr ResourceResult) Identifier() Identifier {
	return NewIdentifier(rr.Name, rr.Type)
}

// TextureFormat distinguishes the payload kinds a texture lookup can
// resolve; the three kinds are aliases of one logical texture.
type TextureFormat int

const (
	TextureTPC TextureFormat = iota // compressed engine format
	TextureTGA                      // raw image
)

func (tf TextureFormat) String() string {
	if tf == TextureTGA {
		return "TGA"
	}
	return "TPC"
}

// Texture is the undecoded result of a texture lookup: the winning
// payload plus the sidecar metadata when one was found alongside it.
// Decoding either payload is a codec concern outside this package.
type Texture struct {
	Name    string
	Format  TextureFormat
	Path    string
	Data    []byte
	Sidecar []byte // TXI metadata, nil when absent
}
