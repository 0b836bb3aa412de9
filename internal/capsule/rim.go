package capsule

import (
	"encoding/binary"
	"fmt"

	"github.com/holocron-tools/holocron/internal/resource"
)

const (
	rimHeaderSize = 20
	rimEntrySize  = 32
)

// parseRIM reads the RIM layout: a short header followed by a single
// table of (name, type, index, offset, size) entries.
func parseRIM(path string, data []byte) ([]resource.FileResource, error) {
	if len(data) < rimHeaderSize {
		return nil, fmt.Errorf("header truncated: %d bytes", len(data))
	}
	if string(data[4:8]) != version10 {
		return nil, fmt.Errorf("unsupported version %q", data[4:8])
	}

	entryCount := int(binary.LittleEndian.Uint32(data[12:]))
	tableOffset := int(binary.LittleEndian.Uint32(data[16:]))

	if tableOffset+entryCount*rimEntrySize > len(data) {
		return nil, fmt.Errorf("entry table (%d entries at %d) exceeds file size %d", entryCount, tableOffset, len(data))
	}

	resources := make([]resource.FileResource, 0, entryCount)
	p := tableOffset
	for i := 0; i < entryCount; i++ {
		resname := readResRef(data[p : p+resrefSize])
		typ := resource.Type(binary.LittleEndian.Uint32(data[p+16:]))
		offset := uint64(binary.LittleEndian.Uint32(data[p+24:]))
		size := uint64(binary.LittleEndian.Uint32(data[p+28:]))
		resources = append(resources, resource.NewFileResource(resname, typ, path, offset, size))
		p += rimEntrySize
	}
	return resources, nil
}
