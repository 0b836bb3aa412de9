package installation

import (
	"github.com/holocron-tools/holocron/internal/resource"
)

// Comparison tooling needs one winning physical location per store for
// a resource, under a fixed priority: override beats the module
// capsules (with composite grouping already deciding which physical
// form of a module may answer), which beat the archive index. This is
// the Locations algorithm restricted to that order and reduced to the
// first hit.

var winnerOrder = []SearchLocation{SearchOverride, SearchModules, SearchChitin}

// WinningLocation returns the single location that answers for id in
// this installation, or nil if the resource exists nowhere.
func (inst *Installation) WinningLocation(id resource.Identifier) (*resource.LocationResult, error) {
	locations, err := inst.Locations([]resource.Identifier{id}, &SearchOptions{Order: winnerOrder})
	if err != nil {
		return nil, err
	}
	list := locations[id]
	if len(list) == 0 {
		return nil, nil
	}
	winner := list[0]
	return &winner, nil
}

// Resolution pairs one installation with its winning location for a
// resource; Location is nil when the store lacks the resource.
type Resolution struct {
	Install  *Installation
	Location *resource.LocationResult
}

// Resolve reports, per installation, where id would be served from,
// for side-by-side comparison of two or more installations.
func Resolve(id resource.Identifier, installs ...*Installation) ([]Resolution, error) {
	out := make([]Resolution, 0, len(installs))
	for _, inst := range installs {
		location, err := inst.WinningLocation(id)
		if err != nil {
			return nil, err
		}
		out = append(out, Resolution{Install: inst, Location: location})
	}
	return out, nil
}
