package capsule

import (
	"encoding/binary"
	"fmt"

	"github.com/holocron-tools/holocron/internal/resource"
)

const (
	erfHeaderSize    = 160
	erfKeyEntrySize  = 24
	erfListEntrySize = 8
)

// parseERF reads the ERF-family layout: a fixed header, a key list of
// (name, id, type), and a parallel resource list of (offset, size).
func parseERF(path string, data []byte) ([]resource.FileResource, error) {
	if len(data) < erfHeaderSize {
		return nil, fmt.Errorf("header truncated: %d bytes", len(data))
	}
	if string(data[4:8]) != version10 {
		return nil, fmt.Errorf("unsupported version %q", data[4:8])
	}

	entryCount := int(binary.LittleEndian.Uint32(data[16:]))
	keyListOffset := int(binary.LittleEndian.Uint32(data[24:]))
	resourceListOffset := int(binary.LittleEndian.Uint32(data[28:]))

	if keyListOffset+entryCount*erfKeyEntrySize > len(data) {
		return nil, fmt.Errorf("key list (%d entries at %d) exceeds file size %d", entryCount, keyListOffset, len(data))
	}
	if resourceListOffset+entryCount*erfListEntrySize > len(data) {
		return nil, fmt.Errorf("resource list (%d entries at %d) exceeds file size %d", entryCount, resourceListOffset, len(data))
	}

	resources := make([]resource.FileResource, 0, entryCount)
	kp, rp := keyListOffset, resourceListOffset
	for i := 0; i < entryCount; i++ {
		resname := readResRef(data[kp : kp+resrefSize])
		typ := resource.Type(binary.LittleEndian.Uint16(data[kp+20:]))
		offset := uint64(binary.LittleEndian.Uint32(data[rp:]))
		size := uint64(binary.LittleEndian.Uint32(data[rp+4:]))
		resources = append(resources, resource.NewFileResource(resname, typ, path, offset, size))
		kp += erfKeyEntrySize
		rp += erfListEntrySize
	}
	return resources, nil
}
