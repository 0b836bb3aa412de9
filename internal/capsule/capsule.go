// Package capsule reads single-file archive containers: the ERF family
// ("ERF ", "MOD ", "SAV ") and RIM files. The two on-disk layouts share
// one logical contract, so both open into the same Capsule value: an
// ordered list of file resource descriptors pointing back into the
// container itself.
package capsule

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/holocron-tools/holocron/internal/resource"
)

const (
	version10  = "V1.0"
	resrefSize = 16
)

// Capsule is an opened container. It holds descriptors only; member
// bytes are read on demand. Immutable after Open.
type Capsule struct {
	path      string
	resources []resource.FileResource
	byID      map[resource.Identifier]int
}

// Open parses the container at path. The format is chosen by the
// 4-byte signature; anything else is an error.
func Open(path string) (*Capsule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening capsule: %w", err)
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("capsule %s too small: %d bytes", path, len(data))
	}

	var resources []resource.FileResource
	switch magic := string(data[0:4]); magic {
	case "ERF ", "MOD ", "SAV ":
		resources, err = parseERF(path, data)
	case "RIM ":
		resources, err = parseRIM(path, data)
	default:
		return nil, fmt.Errorf("capsule %s: unrecognized signature %q", path, magic)
	}
	if err != nil {
		return nil, fmt.Errorf("capsule %s: %w", path, err)
	}

	// Duplicate (name, type) pairs keep the first table entry, matching
	// the formats' own lookup semantics.
	byID := make(map[resource.Identifier]int, len(resources))
	for i, res := range resources {
		if _, exists := byID[res.Identifier()]; !exists {
			byID[res.Identifier()] = i
		}
	}

	return &Capsule{path: path, resources: resources, byID: byID}, nil
}

// Path returns the container's own path; every member descriptor points
// into this one file.
func (c *Capsule) Path() string { return c.path }

// Resources returns the member descriptors in table order.
func (c *Capsule) Resources() []resource.FileResource { return c.resources }

// Len returns the number of members.
func (c *Capsule) Len() int { return len(c.resources) }

// Info returns the descriptor for one member without reading any data,
// or false if the capsule has no such member.
func (c *Capsule) Info(name string, typ resource.Type) (resource.FileResource, bool) {
	i, ok := c.byID[resource.NewIdentifier(name, typ)]
	if !ok {
		return resource.FileResource{}, false
	}
	return c.resources[i], true
}

// Contains reports whether the capsule has a member with this identity.
func (c *Capsule) Contains(name string, typ resource.Type) bool {
	_, ok := c.byID[resource.NewIdentifier(name, typ)]
	return ok
}

// Data reads one member's bytes, or nil and false if absent.
func (c *Capsule) Data(name string, typ resource.Type) ([]byte, bool, error) {
	res, ok := c.Info(name, typ)
	if !ok {
		return nil, false, nil
	}
	data, err := res.Data()
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

// readResRef decodes a fixed 16-byte, null-padded name field.
func readResRef(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

// IsCapsuleFile reports whether a filename carries one of the container
// extensions this package opens.
func IsCapsuleFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".erf", ".mod", ".rim", ".sav":
		return true
	}
	return false
}
