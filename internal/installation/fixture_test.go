package installation

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holocron-tools/holocron/internal/resource"
)

// The tests fabricate whole installations on disk: a key+blob pair,
// module capsules, override files, texture packs, stream directories,
// and talk tables, all minimal but structurally valid.

type fixtureMember struct {
	name string
	typ  resource.Type
	data []byte
}

type fixture struct {
	t    *testing.T
	root string
}

// newFixture lays down the required skeleton: a chitin.key with one
// blob, an empty modules directory, and K1 desktop identity markers.
func newFixture(t *testing.T, chitinMembers ...fixtureMember) *fixture {
	t.Helper()
	f := &fixture{t: t, root: t.TempDir()}

	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "modules"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "data"), 0755))
	f.writeChitin(chitinMembers)

	// K1 desktop markers so identity-dependent paths resolve.
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "swkotor.exe"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "swkotor.ini"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "rims"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "streamwaves"), 0755))

	return f
}

func (f *fixture) open() *Installation {
	f.t.Helper()
	inst, err := Open(f.root)
	require.NoError(f.t, err)
	return inst
}

// writeChitin writes chitin.key plus a single data\fixture.bif holding
// the given members.
func (f *fixture) writeChitin(members []fixtureMember) {
	f.t.Helper()

	bifData := buildBIF(members)
	require.NoError(f.t, os.WriteFile(filepath.Join(f.root, "data", "fixture.bif"), bifData, 0644))

	keyData := buildKey(`data\fixture.bif`, members)
	require.NoError(f.t, os.WriteFile(filepath.Join(f.root, "chitin.key"), keyData, 0644))
}

func (f *fixture) addOverride(subdir, filename string, data []byte) {
	f.t.Helper()
	dir := filepath.Join(f.root, "override")
	if subdir != "" && subdir != "." {
		dir = filepath.Join(dir, subdir)
	}
	require.NoError(f.t, os.MkdirAll(dir, 0755))
	require.NoError(f.t, os.WriteFile(filepath.Join(dir, filename), data, 0644))
}

func (f *fixture) addCapsule(dirname, filename string, members ...fixtureMember) string {
	f.t.Helper()
	dir := filepath.Join(f.root, dirname)
	require.NoError(f.t, os.MkdirAll(dir, 0755))

	var data []byte
	switch filepath.Ext(filename) {
	case ".rim":
		data = buildRIM(members)
	case ".mod":
		data = buildERF("MOD ", members)
	default:
		data = buildERF("ERF ", members)
	}
	path := filepath.Join(dir, filename)
	require.NoError(f.t, os.WriteFile(path, data, 0644))
	return path
}

func (f *fixture) addLoose(dirname, filename string, data []byte) string {
	f.t.Helper()
	dir := filepath.Join(f.root, dirname)
	require.NoError(f.t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, filename)
	require.NoError(f.t, os.WriteFile(path, data, 0644))
	return path
}

func (f *fixture) addTalkTable(filename string, strs []string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(filepath.Join(f.root, filename), buildTLK(strs), 0644))
}

// Binary builders, mirroring the on-disk formats the readers parse.

func buildKey(blobName string, members []fixtureMember) []byte {
	const (
		headerSize = 64
		fileEntry  = 12
		keyEntry   = 22
	)
	fileTableOffset := headerSize
	nameOffset := fileTableOffset + fileEntry
	keyTableOffset := nameOffset + len(blobName) + 1

	out := make([]byte, keyTableOffset+len(members)*keyEntry)
	copy(out[0:4], "KEY ")
	copy(out[4:8], "V1  ")
	binary.LittleEndian.PutUint32(out[8:], 1)
	binary.LittleEndian.PutUint32(out[12:], uint32(len(members)))
	binary.LittleEndian.PutUint32(out[16:], uint32(fileTableOffset))
	binary.LittleEndian.PutUint32(out[20:], uint32(keyTableOffset))

	binary.LittleEndian.PutUint32(out[fileTableOffset+4:], uint32(nameOffset))
	binary.LittleEndian.PutUint16(out[fileTableOffset+8:], uint16(len(blobName)+1))
	copy(out[nameOffset:], blobName)

	p := keyTableOffset
	for i, m := range members {
		copy(out[p:p+16], m.name)
		binary.LittleEndian.PutUint16(out[p+16:], uint16(m.typ))
		binary.LittleEndian.PutUint32(out[p+18:], uint32(i)) // blob 0, member i
		p += keyEntry
	}
	return out
}

func buildBIF(members []fixtureMember) []byte {
	const (
		headerSize = 20
		tableEntry = 16
	)
	tableOffset := headerSize
	dataOffset := tableOffset + len(members)*tableEntry

	size := dataOffset
	for _, m := range members {
		size += len(m.data)
	}
	out := make([]byte, size)
	copy(out[0:4], "BIFF")
	copy(out[4:8], "V1  ")
	binary.LittleEndian.PutUint32(out[8:], uint32(len(members)))
	binary.LittleEndian.PutUint32(out[16:], uint32(tableOffset))

	p, dp := tableOffset, dataOffset
	for i, m := range members {
		binary.LittleEndian.PutUint32(out[p:], uint32(i))
		binary.LittleEndian.PutUint32(out[p+4:], uint32(dp))
		binary.LittleEndian.PutUint32(out[p+8:], uint32(len(m.data)))
		copy(out[dp:], m.data)
		p += tableEntry
		dp += len(m.data)
	}
	return out
}

func buildERF(magic string, members []fixtureMember) []byte {
	const headerSize = 160
	keyListOffset := headerSize
	resourceListOffset := keyListOffset + len(members)*24
	dataOffset := resourceListOffset + len(members)*8

	size := dataOffset
	for _, m := range members {
		size += len(m.data)
	}
	out := make([]byte, size)
	copy(out[0:4], magic)
	copy(out[4:8], "V1.0")
	binary.LittleEndian.PutUint32(out[16:], uint32(len(members)))
	binary.LittleEndian.PutUint32(out[24:], uint32(keyListOffset))
	binary.LittleEndian.PutUint32(out[28:], uint32(resourceListOffset))

	kp, rp, dp := keyListOffset, resourceListOffset, dataOffset
	for i, m := range members {
		copy(out[kp:kp+16], m.name)
		binary.LittleEndian.PutUint32(out[kp+16:], uint32(i))
		binary.LittleEndian.PutUint16(out[kp+20:], uint16(m.typ))
		binary.LittleEndian.PutUint32(out[rp:], uint32(dp))
		binary.LittleEndian.PutUint32(out[rp+4:], uint32(len(m.data)))
		copy(out[dp:], m.data)
		kp += 24
		rp += 8
		dp += len(m.data)
	}
	return out
}

func buildRIM(members []fixtureMember) []byte {
	const headerSize = 20
	tableOffset := headerSize
	dataOffset := tableOffset + len(members)*32

	size := dataOffset
	for _, m := range members {
		size += len(m.data)
	}
	out := make([]byte, size)
	copy(out[0:4], "RIM ")
	copy(out[4:8], "V1.0")
	binary.LittleEndian.PutUint32(out[12:], uint32(len(members)))
	binary.LittleEndian.PutUint32(out[16:], uint32(tableOffset))

	p, dp := tableOffset, dataOffset
	for i, m := range members {
		copy(out[p:p+16], m.name)
		binary.LittleEndian.PutUint32(out[p+16:], uint32(m.typ))
		binary.LittleEndian.PutUint32(out[p+20:], uint32(i))
		binary.LittleEndian.PutUint32(out[p+24:], uint32(dp))
		binary.LittleEndian.PutUint32(out[p+28:], uint32(len(m.data)))
		copy(out[dp:], m.data)
		p += 32
		dp += len(m.data)
	}
	return out
}

func buildTLK(strs []string) []byte {
	const (
		headerSize = 20
		entrySize  = 40
	)
	textOffset := headerSize + len(strs)*entrySize
	textSize := 0
	for _, s := range strs {
		textSize += len(s)
	}

	out := make([]byte, textOffset+textSize)
	copy(out[0:4], "TLK ")
	copy(out[4:8], "V3.0")
	binary.LittleEndian.PutUint32(out[12:], uint32(len(strs)))
	binary.LittleEndian.PutUint32(out[16:], uint32(textOffset))

	p, off := headerSize, 0
	for _, s := range strs {
		if s != "" {
			binary.LittleEndian.PutUint32(out[p:], 0x1)
			binary.LittleEndian.PutUint32(out[p+28:], uint32(off))
			binary.LittleEndian.PutUint32(out[p+32:], uint32(len(s)))
			copy(out[textOffset+off:], s)
			off += len(s)
		}
		p += entrySize
	}
	return out
}
