package installation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/holocron-tools/holocron/internal/capsule"
	"github.com/holocron-tools/holocron/internal/resource"
)

// SearchOptions shapes one query. A nil options value means the
// operation's default order with no ad hoc sources. Order is the
// priority order, highest first; a location listed twice is honored
// once, at its first occurrence. Capsules and Folders are consulted by
// the SearchCustomModules and SearchCustomFolders locations and are
// never cached.
type SearchOptions struct {
	Order    []SearchLocation
	Capsules []*capsule.Capsule
	Folders  []string
}

func (opts *SearchOptions) withDefaults(defaultOrder []SearchLocation) *SearchOptions {
	out := SearchOptions{Order: defaultOrder}
	if opts != nil {
		if len(opts.Order) > 0 {
			out.Order = opts.Order
		}
		out.Capsules = opts.Capsules
		out.Folders = opts.Folders
	}
	out.Order = dedupeOrder(out.Order)
	return &out
}

// Locations reports every physical place each queried resource could
// come from, walking the locations in the caller's priority order. A
// result list's ordering reflects strictly that order; the method never
// short-circuits after a hit. Every queried identifier has an entry in
// the returned map; a miss is an empty list, never an error.
func (inst *Installation) Locations(queries []resource.Identifier, opts *SearchOptions) (map[resource.Identifier][]resource.LocationResult, error) {
	opts = opts.withDefaults(DefaultOrder)

	wanted := make(map[resource.Identifier]bool, len(queries))
	results := make(map[resource.Identifier][]resource.LocationResult, len(queries))
	for _, q := range queries {
		wanted[q] = true
		results[q] = []resource.LocationResult{}
	}

	for _, loc := range opts.Order {
		if err := inst.scanLocation(loc, opts, wanted, results); err != nil {
			return nil, fmt.Errorf("searching %s: %w", loc, err)
		}
	}
	return results, nil
}

// Location is the single-identifier form of Locations.
func (inst *Installation) Location(name string, typ resource.Type, opts *SearchOptions) ([]resource.LocationResult, error) {
	id := resource.NewIdentifier(name, typ)
	results, err := inst.Locations([]resource.Identifier{id}, opts)
	if err != nil {
		return nil, err
	}
	return results[id], nil
}

// scanLocation appends one location's matches to the result lists. The
// switch is exhaustive over SearchLocation; adding a location without a
// scan rule is a compile-visible gap here, not a silent no-op.
func (inst *Installation) scanLocation(loc SearchLocation, opts *SearchOptions, wanted map[resource.Identifier]bool, results map[resource.Identifier][]resource.LocationResult) error {
	switch loc {
	case SearchChitin:
		list, err := inst.chitinResources()
		if err != nil {
			return err
		}
		scanFlat(list, wanted, results)

	case SearchModules:
		modules, err := inst.moduleResources()
		if err != nil {
			return err
		}
		for _, name := range eligibleModules(modules) {
			scanFlat(modules[name], wanted, results)
		}

	case SearchLips:
		lips, err := inst.lipResources()
		if err != nil {
			return err
		}
		scanContainers(lips, wanted, results)

	case SearchRims:
		rims, err := inst.rimResources()
		if err != nil {
			return err
		}
		scanContainers(rims, wanted, results)

	case SearchOverride:
		override, err := inst.overrideResources()
		if err != nil {
			return err
		}
		scanContainers(override, wanted, results)

	case SearchTexturesTPA, SearchTexturesTPB, SearchTexturesTPC, SearchTexturesGUI:
		packs, err := inst.texturePackResources()
		if err != nil {
			return err
		}
		scanFlat(packs[texturePackForLocation[loc]], wanted, results)

	case SearchMusic:
		list, err := inst.musicResources()
		if err != nil {
			return err
		}
		scanFlat(list, wanted, results)

	case SearchSound:
		list, err := inst.soundResources()
		if err != nil {
			return err
		}
		scanFlat(list, wanted, results)

	case SearchVoice:
		list, err := inst.voiceResources()
		if err != nil {
			return err
		}
		scanFlat(list, wanted, results)

	case SearchCustomModules:
		for _, caps := range opts.Capsules {
			for id := range wanted {
				if res, ok := caps.Info(id.Name(), id.Type()); ok {
					appendResult(results, id, res)
				}
			}
		}

	case SearchCustomFolders:
		for _, folder := range opts.Folders {
			if err := scanFolder(folder, wanted, results); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("unhandled search location %d", loc)
	}
	return nil
}

// scanFlat matches a flat descriptor list against the query set.
func scanFlat(list []resource.FileResource, wanted map[resource.Identifier]bool, results map[resource.Identifier][]resource.LocationResult) {
	for _, res := range list {
		if wanted[res.Identifier()] {
			appendResult(results, res.Identifier(), res)
		}
	}
}

// scanContainers matches every container's member list, in sorted
// container order so results are stable for a given snapshot.
func scanContainers(containers map[string][]resource.FileResource, wanted map[resource.Identifier]bool, results map[resource.Identifier][]resource.LocationResult) {
	for _, name := range sortedKeys(containers) {
		scanFlat(containers[name], wanted, results)
	}
}

// scanFolder scans one ad hoc directory, non-recursively, deriving an
// identifier from each filename.
func scanFolder(folder string, wanted map[resource.Identifier]bool, results map[resource.Identifier][]resource.LocationResult) error {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return fmt.Errorf("scanning folder %s: %w", folder, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := resource.IdentifierFromFilename(entry.Name())
		if !wanted[id] {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		ext := filepath.Ext(entry.Name())
		name := strings.TrimSuffix(entry.Name(), ext)
		appendResult(results, id, resource.NewFileResource(name, id.Type(), path, 0, uint64(info.Size())))
	}
	return nil
}

func appendResult(results map[resource.Identifier][]resource.LocationResult, id resource.Identifier, res resource.FileResource) {
	results[id] = append(results[id], resource.LocationResult{
		Path:   res.Path(),
		Offset: res.Offset(),
		Size:   res.Size(),
	})
}

// Resources resolves each query to its highest-priority location and
// reads exactly that byte range. A miss is a nil entry in the returned
// map, never an error. One file handle is opened per distinct backing
// path for the whole batch and released before returning.
func (inst *Installation) Resources(queries []resource.Identifier, opts *SearchOptions) (map[resource.Identifier]*resource.ResourceResult, error) {
	locations, err := inst.Locations(queries, opts)
	if err != nil {
		return nil, err
	}

	handles := make(map[string]*os.File)
	defer func() {
		for _, f := range handles {
			f.Close()
		}
	}()

	results := make(map[resource.Identifier]*resource.ResourceResult, len(queries))
	for id, list := range locations {
		if len(list) == 0 {
			results[id] = nil
			continue
		}
		winner := list[0]

		f, ok := handles[winner.Path]
		if !ok {
			f, err = os.Open(winner.Path)
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", winner.Path, err)
			}
			handles[winner.Path] = f
		}

		data := make([]byte, winner.Size)
		if _, err := f.ReadAt(data, int64(winner.Offset)); err != nil {
			return nil, fmt.Errorf("reading %s from %s at %d: %w", id, winner.Path, winner.Offset, err)
		}
		results[id] = &resource.ResourceResult{
			Name: id.Name(),
			Type: id.Type(),
			Path: winner.Path,
			Data: data,
		}
	}
	return results, nil
}

// Resource is the single-identifier form of Resources. A miss returns
// (nil, nil): absent is a genuine result, not an error.
func (inst *Installation) Resource(name string, typ resource.Type, opts *SearchOptions) (*resource.ResourceResult, error) {
	id := resource.NewIdentifier(name, typ)
	results, err := inst.Resources([]resource.Identifier{id}, opts)
	if err != nil {
		return nil, err
	}
	return results[id], nil
}
