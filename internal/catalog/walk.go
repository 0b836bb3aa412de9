package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/holocron-tools/holocron/internal/installation"
	"github.com/holocron-tools/holocron/internal/resource"
)

// Walk enumerates every cacheable search location of an installation
// into catalog entries. Optional locations that are absent contribute
// nothing. The voice directory's name depends on game identity, so an
// undetermined installation is cataloged without it, with a warning.
func Walk(inst *installation.Installation) ([]Entry, error) {
	var entries []Entry

	chitin, err := inst.ChitinResources()
	if err != nil {
		return nil, fmt.Errorf("walking chitin: %w", err)
	}
	for _, res := range chitin {
		entries = append(entries, Entry{Resource: res, Location: "chitin", Container: filepath.Base(res.Path())})
	}

	capsuleDirs := []struct {
		location string
		names    func() ([]string, error)
		members  func(string) ([]resource.FileResource, error)
	}{
		{"modules", inst.ModuleNames, inst.ModuleResources},
		{"lips", inst.LipNames, inst.LipResources},
		{"rims", inst.RimNames, inst.RimResources},
		{"textures", inst.TexturePackNames, inst.TexturePackResources},
	}
	for _, dir := range capsuleDirs {
		names, err := dir.names()
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", dir.location, err)
		}
		for _, name := range names {
			members, err := dir.members(name)
			if err != nil {
				return nil, fmt.Errorf("walking %s/%s: %w", dir.location, name, err)
			}
			for _, res := range members {
				entries = append(entries, Entry{Resource: res, Location: dir.location, Container: name})
			}
		}
	}

	subdirs, err := inst.OverrideList()
	if err != nil {
		return nil, fmt.Errorf("walking override: %w", err)
	}
	for _, subdir := range subdirs {
		members, err := inst.OverrideResources(subdir)
		if err != nil {
			return nil, fmt.Errorf("walking override/%s: %w", subdir, err)
		}
		for _, res := range members {
			entries = append(entries, Entry{Resource: res, Location: "override", Container: subdir})
		}
	}

	looseDirs := []struct {
		location string
		list     func() ([]resource.FileResource, error)
	}{
		{"music", inst.MusicResources},
		{"sound", inst.SoundResources},
	}
	for _, dir := range looseDirs {
		list, err := dir.list()
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", dir.location, err)
		}
		for _, res := range list {
			entries = append(entries, Entry{Resource: res, Location: dir.location, Container: ""})
		}
	}

	voices, err := inst.VoiceResources()
	if err != nil {
		slog.Warn("skipping voice directory", "error", err)
	} else {
		for _, res := range voices {
			entries = append(entries, Entry{Resource: res, Location: "voice", Container: ""})
		}
	}

	return entries, nil
}
