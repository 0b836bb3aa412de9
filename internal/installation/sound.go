package installation

import (
	"fmt"

	"github.com/holocron-tools/holocron/internal/audio"
	"github.com/holocron-tools/holocron/internal/resource"
)

// Sound resolves a sound by name, trying the wave payload before the
// mp3 payload within each location, and applies the stream-audio byte
// fixup before returning. A miss returns (nil, nil).
func (inst *Installation) Sound(name string, opts *SearchOptions) (*resource.ResourceResult, error) {
	opts = opts.withDefaults(DefaultSoundOrder)

	wav := resource.NewIdentifier(name, resource.TypeWAV)
	mp3 := resource.NewIdentifier(name, resource.TypeMP3)

	for _, loc := range opts.Order {
		single := &SearchOptions{Order: []SearchLocation{loc}, Capsules: opts.Capsules, Folders: opts.Folders}
		results, err := inst.Resources([]resource.Identifier{wav, mp3}, single)
		if err != nil {
			return nil, fmt.Errorf("sound %s: %w", name, err)
		}
		winner := results[wav]
		if winner == nil {
			winner = results[mp3]
		}
		if winner != nil {
			winner.Data = audio.Fixup(winner.Data)
			return winner, nil
		}
	}
	return nil, nil
}
