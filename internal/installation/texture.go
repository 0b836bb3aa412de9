package installation

import (
	"fmt"

	"github.com/holocron-tools/holocron/internal/resource"
)

// Texture resolves a texture by name. The compressed payload, the raw
// payload, and the sidecar metadata are aliases of one logical texture:
// the winning payload is whichever kind appears in the
// highest-priority location, compressed preferred within a location,
// and the sidecar is merged into the result when present anywhere in
// the order. Decoding either payload is an external codec's job.
func (inst *Installation) Texture(name string, opts *SearchOptions) (*resource.Texture, error) {
	opts = opts.withDefaults(DefaultTextureOrder)

	tpc := resource.NewIdentifier(name, resource.TypeTPC)
	tga := resource.NewIdentifier(name, resource.TypeTGA)

	// Walk the order one location at a time so the payload kinds
	// compete per location rather than per kind.
	var winner *resource.ResourceResult
	for _, loc := range opts.Order {
		single := &SearchOptions{Order: []SearchLocation{loc}, Capsules: opts.Capsules, Folders: opts.Folders}
		results, err := inst.Resources([]resource.Identifier{tpc, tga}, single)
		if err != nil {
			return nil, fmt.Errorf("texture %s: %w", name, err)
		}
		if results[tpc] != nil {
			winner = results[tpc]
		} else if results[tga] != nil {
			winner = results[tga]
		}
		if winner != nil {
			break
		}
	}
	if winner == nil {
		return nil, nil
	}

	format := resource.TextureTPC
	if winner.Type == resource.TypeTGA {
		format = resource.TextureTGA
	}
	texture := &resource.Texture{
		Name:   name,
		Format: format,
		Path:   winner.Path,
		Data:   winner.Data,
	}

	sidecar, err := inst.Resource(name, resource.TypeTXI, opts)
	if err != nil {
		return nil, fmt.Errorf("texture %s sidecar: %w", name, err)
	}
	if sidecar != nil {
		texture.Sidecar = sidecar.Data
	}
	return texture, nil
}
