// Package chitin reads the key+blob archive pair ("chitin.key" plus its
// companion .bif blobs) into a flat list of file resource descriptors.
// The key file maps resource names to (blob, member) slots; each blob
// carries its own table of byte ranges. Nothing here reads resource
// data: descriptors are resolved lazily by the caller.
package chitin

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/holocron-tools/holocron/internal/resource"
	"github.com/holocron-tools/holocron/internal/utils"
)

const (
	keyMagic   = "KEY "
	keyVersion = "V1  "
	bifMagic   = "BIFF"
	bifVersion = "V1  "

	keyHeaderSize   = 64
	keyFileEntry    = 12
	keyTableEntry   = 22
	bifHeaderSize   = 20
	bifTableEntry   = 16
	resrefSize      = 16
	blobIndexShift  = 20
	memberIndexMask = 0xFFFFF
)

// keySlot is one key-table row: a named, typed slot pointing at a
// member of one blob.
type keySlot struct {
	resname string
	typ     resource.Type
	blob    int
	member  int
}

// Load parses chitin.key under root, then each referenced blob's
// resource table, and returns descriptors for every resolvable member.
// A blob that cannot be opened or parsed is logged and excluded; only a
// missing or structurally invalid key file is fatal.
func Load(root string) ([]resource.FileResource, error) {
	keyPath, err := utils.FindFile(root, "chitin.key")
	if err != nil {
		return nil, fmt.Errorf("locating key file: %w", err)
	}

	data, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	blobs, slots, err := parseKey(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", keyPath, err)
	}

	// Group the key slots by owning blob so each blob is visited once.
	byBlob := make([][]keySlot, len(blobs))
	for _, slot := range slots {
		if slot.blob < 0 || slot.blob >= len(blobs) {
			slog.Warn("key entry references unknown blob", "resname", slot.resname, "blob", slot.blob)
			continue
		}
		byBlob[slot.blob] = append(byBlob[slot.blob], slot)
	}

	var resources []resource.FileResource
	for i, name := range blobs {
		if len(byBlob[i]) == 0 {
			continue
		}
		entries, err := loadBlob(root, name, byBlob[i])
		if err != nil {
			slog.Warn("skipping unreadable blob", "blob", name, "error", err)
			continue
		}
		resources = append(resources, entries...)
	}

	slog.Debug("chitin index loaded", "blobs", len(blobs), "resources", len(resources))
	return resources, nil
}

// parseKey walks the key file: header, blob filename table, key table.
func parseKey(data []byte) ([]string, []keySlot, error) {
	if len(data) < keyHeaderSize {
		return nil, nil, fmt.Errorf("key file too small: %d bytes", len(data))
	}
	if string(data[0:4]) != keyMagic || string(data[4:8]) != keyVersion {
		return nil, nil, fmt.Errorf("bad key file signature %q", data[0:8])
	}

	blobCount := int(binary.LittleEndian.Uint32(data[8:]))
	keyCount := int(binary.LittleEndian.Uint32(data[12:]))
	fileTableOffset := int(binary.LittleEndian.Uint32(data[16:]))
	keyTableOffset := int(binary.LittleEndian.Uint32(data[20:]))

	if fileTableOffset+blobCount*keyFileEntry > len(data) {
		return nil, nil, fmt.Errorf("file table (%d entries at %d) exceeds key file size %d", blobCount, fileTableOffset, len(data))
	}
	if keyTableOffset+keyCount*keyTableEntry > len(data) {
		return nil, nil, fmt.Errorf("key table (%d entries at %d) exceeds key file size %d", keyCount, keyTableOffset, len(data))
	}

	blobs := make([]string, blobCount)
	p := fileTableOffset
	for i := range blobs {
		nameOffset := int(binary.LittleEndian.Uint32(data[p+4:]))
		nameSize := int(binary.LittleEndian.Uint16(data[p+8:]))
		if nameOffset+nameSize > len(data) {
			return nil, nil, fmt.Errorf("blob %d filename at %d exceeds key file size %d", i, nameOffset, len(data))
		}
		blobs[i] = string(bytes.TrimRight(data[nameOffset:nameOffset+nameSize], "\x00"))
		p += keyFileEntry
	}

	slots := make([]keySlot, 0, keyCount)
	p = keyTableOffset
	for i := 0; i < keyCount; i++ {
		resname := readResRef(data[p : p+resrefSize])
		typ := resource.Type(binary.LittleEndian.Uint16(data[p+16:]))
		id := binary.LittleEndian.Uint32(data[p+18:])
		slots = append(slots, keySlot{
			resname: resname,
			typ:     typ,
			blob:    int(id >> blobIndexShift),
			member:  int(id & memberIndexMask),
		})
		p += keyTableEntry
	}

	return blobs, slots, nil
}

// loadBlob parses one blob's resource table and materializes the key
// slots that point into it. Member byte ranges come from the blob's own
// table; names come from the key slots.
func loadBlob(root, name string, slots []keySlot) ([]resource.FileResource, error) {
	// Blob names in the key file use backslash separators relative to
	// the root, in whatever case the packer used.
	rel := strings.ReplaceAll(name, "\\", string(filepath.Separator))
	path, err := utils.FindFile(root, rel)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < bifHeaderSize {
		return nil, fmt.Errorf("blob too small: %d bytes", len(data))
	}
	if string(data[0:4]) != bifMagic || string(data[4:8]) != bifVersion {
		return nil, fmt.Errorf("bad blob signature %q", data[0:8])
	}

	variableCount := int(binary.LittleEndian.Uint32(data[8:]))
	tableOffset := int(binary.LittleEndian.Uint32(data[16:]))
	if tableOffset+variableCount*bifTableEntry > len(data) {
		return nil, fmt.Errorf("resource table (%d entries at %d) exceeds blob size %d", variableCount, tableOffset, len(data))
	}

	type member struct {
		offset uint64
		size   uint64
	}
	members := make([]member, variableCount)
	p := tableOffset
	for i := range members {
		members[i] = member{
			offset: uint64(binary.LittleEndian.Uint32(data[p+4:])),
			size:   uint64(binary.LittleEndian.Uint32(data[p+8:])),
		}
		p += bifTableEntry
	}

	resources := make([]resource.FileResource, 0, len(slots))
	for _, slot := range slots {
		if slot.member >= len(members) {
			slog.Warn("key entry references missing blob member", "resname", slot.resname, "blob", name, "member", slot.member)
			continue
		}
		m := members[slot.member]
		resources = append(resources, resource.NewFileResource(slot.resname, slot.typ, path, m.offset, m.size))
	}
	return resources, nil
}

// readResRef decodes a fixed 16-byte, null-padded name field.
func readResRef(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}
