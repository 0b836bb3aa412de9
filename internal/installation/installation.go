// Package installation models one game installation as a logical,
// read-only, case-insensitive resource store layered over loose files,
// key+blob archives, and capsule containers. Queries walk a
// caller-ordered list of search locations; each location's index is
// built lazily on first touch and cached until explicitly reloaded.
package installation

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/holocron-tools/holocron/internal/capsule"
	"github.com/holocron-tools/holocron/internal/chitin"
	"github.com/holocron-tools/holocron/internal/resource"
	"github.com/holocron-tools/holocron/internal/tlk"
	"github.com/holocron-tools/holocron/internal/utils"
)

// Well-known directory names under the installation root. Matched
// case-insensitively; the voice directory name depends on game identity.
const (
	overrideDirName     = "override"
	modulesDirName      = "modules"
	lipsDirName         = "lips"
	rimsDirName         = "rims"
	texturePacksDirName = "texturepacks"
	musicDirName        = "streammusic"
	soundsDirName       = "streamsounds"
	voiceDirNameK1      = "streamwaves"
	voiceDirNameK2      = "streamvoice"

	talkTableName       = "dialog.tlk"
	femaleTalkTableName = "dialogf.tlk"
)

// texturePackNames are the four well-known capsules under texturepacks.
var texturePackNames = []string{
	"swpc_tex_tpa.erf",
	"swpc_tex_tpb.erf",
	"swpc_tex_tpc.erf",
	"swpc_tex_gui.erf",
}

var texturePackForLocation = map[SearchLocation]string{
	SearchTexturesTPA: "swpc_tex_tpa.erf",
	SearchTexturesTPB: "swpc_tex_tpb.erf",
	SearchTexturesTPC: "swpc_tex_tpc.erf",
	SearchTexturesGUI: "swpc_tex_gui.erf",
}

// Installation is the resource store for one game root. It is not safe
// for concurrent use: the caches are plain mutable state with no
// internal locking, so one Installation belongs to one goroutine (or to
// external synchronization).
type Installation struct {
	root string

	game GameVariant

	chitinCache  cache[[]resource.FileResource]
	modules      cache[map[string][]resource.FileResource]
	lips         cache[map[string][]resource.FileResource]
	rims         cache[map[string][]resource.FileResource]
	texturePacks cache[map[string][]resource.FileResource]
	override     cache[map[string][]resource.FileResource]
	music        cache[[]resource.FileResource]
	sounds       cache[[]resource.FileResource]
	voices       cache[[]resource.FileResource]

	talkTable       cache[*tlk.Table]
	femaleTalkTable cache[*tlk.Table]
}

// Open validates the root layout and returns a store with every cache
// unloaded. A root without a readable modules directory and chitin.key
// is not a valid installation.
func Open(root string) (*Installation, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("installation root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("installation root %s is not a directory", root)
	}
	if _, err := utils.FindFile(root, "chitin.key"); err != nil {
		return nil, fmt.Errorf("not a valid installation: %w", err)
	}
	if _, err := utils.FindDir(root, modulesDirName); err != nil {
		return nil, fmt.Errorf("not a valid installation: %w", err)
	}
	return &Installation{root: root}, nil
}

// Root returns the installation root path.
func (inst *Installation) Root() string { return inst.root }

// loadChitin builds the flat archive-index descriptor list.
func (inst *Installation) loadChitin() ([]resource.FileResource, error) {
	return chitin.Load(inst.root)
}

// loadCapsuleDir scans one directory of containers into a map from
// container filename to member descriptors. A missing directory is an
// empty cache; a malformed container is logged and skipped.
func loadCapsuleDir(root, dirname string) (map[string][]resource.FileResource, error) {
	out := make(map[string][]resource.FileResource)

	dir, err := utils.FindDir(root, dirname)
	if err != nil {
		slog.Info("optional capsule directory missing", "dir", dirname)
		return out, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !capsule.IsCapsuleFile(entry.Name()) {
			continue
		}
		caps, err := capsule.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			slog.Warn("skipping malformed capsule", "dir", dirname, "file", entry.Name(), "error", err)
			continue
		}
		out[entry.Name()] = caps.Resources()
	}
	return out, nil
}

// loadLooseDir scans one directory of loose resource files. Files whose
// extension is not a recognized type tag are skipped.
func loadLooseDir(root, dirname string, recursive bool) ([]resource.FileResource, error) {
	dir, err := utils.FindDir(root, dirname)
	if err != nil {
		slog.Info("optional loose directory missing", "dir", dirname)
		return []resource.FileResource{}, nil
	}

	var out []resource.FileResource
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable entry", "dir", dirname, "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if res, ok := looseResource(path, d.Name()); ok {
			out = append(out, res)
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return out, nil
}

// loadOverride walks the override tree and indexes loose files by their
// relative subdirectory, "." for files directly under override.
func loadOverride(root string) (map[string][]resource.FileResource, error) {
	out := make(map[string][]resource.FileResource)

	dir, err := utils.FindDir(root, overrideDirName)
	if err != nil {
		slog.Info("optional override directory missing")
		return out, nil
	}

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable override entry", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}
			if _, exists := out[rel]; !exists {
				out[rel] = []resource.FileResource{}
			}
			return nil
		}
		rel, relErr := filepath.Rel(dir, filepath.Dir(path))
		if relErr != nil {
			return relErr
		}
		if res, ok := looseResource(path, d.Name()); ok {
			out[rel] = append(out[rel], res)
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, fmt.Errorf("scanning override: %w", err)
	}
	return out, nil
}

// loadTexturePacks opens each of the four well-known pack capsules that
// exist. Absent packs, or an absent texturepacks directory, are normal.
func loadTexturePacks(root string) (map[string][]resource.FileResource, error) {
	out := make(map[string][]resource.FileResource)

	dir, err := utils.FindDir(root, texturePacksDirName)
	if err != nil {
		slog.Info("optional texturepacks directory missing")
		return out, nil
	}

	for _, name := range texturePackNames {
		path, err := utils.FindFile(dir, name)
		if err != nil {
			continue
		}
		caps, err := capsule.Open(path)
		if err != nil {
			slog.Warn("skipping malformed texture pack", "file", name, "error", err)
			continue
		}
		out[name] = caps.Resources()
	}
	return out, nil
}

// looseResource derives a descriptor for a loose file, or false when
// the extension is not a recognized type tag.
func looseResource(path, filename string) (resource.FileResource, bool) {
	ext := filepath.Ext(filename)
	typ := resource.TypeFromExtension(ext)
	if !typ.Valid() {
		slog.Debug("skipping unrecognized loose file", "path", path)
		return resource.FileResource{}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		slog.Warn("skipping unreadable loose file", "path", path, "error", err)
		return resource.FileResource{}, false
	}
	name := strings.TrimSuffix(filename, ext)
	return resource.NewFileResource(name, typ, path, 0, uint64(info.Size())), true
}

// voiceDirName picks the stream voice directory for the detected game;
// looking it up with undetermined identity is an error, not a guess.
func (inst *Installation) voiceDirName() (string, error) {
	game, err := inst.Identity()
	if err != nil {
		return "", fmt.Errorf("voice directory requires game identity: %w", err)
	}
	if game.IsK2() {
		return voiceDirNameK2, nil
	}
	return voiceDirNameK1, nil
}

func (inst *Installation) loadVoices() ([]resource.FileResource, error) {
	dirname, err := inst.voiceDirName()
	if err != nil {
		return nil, err
	}
	return loadLooseDir(inst.root, dirname, true)
}

// Per-category cache accessors. Each ensures the cache on first touch.

func (inst *Installation) chitinResources() ([]resource.FileResource, error) {
	return inst.chitinCache.ensure(inst.loadChitin)
}

func (inst *Installation) moduleResources() (map[string][]resource.FileResource, error) {
	return inst.modules.ensure(func() (map[string][]resource.FileResource, error) {
		return loadCapsuleDir(inst.root, modulesDirName)
	})
}

func (inst *Installation) lipResources() (map[string][]resource.FileResource, error) {
	return inst.lips.ensure(func() (map[string][]resource.FileResource, error) {
		return loadCapsuleDir(inst.root, lipsDirName)
	})
}

func (inst *Installation) rimResources() (map[string][]resource.FileResource, error) {
	return inst.rims.ensure(func() (map[string][]resource.FileResource, error) {
		return loadCapsuleDir(inst.root, rimsDirName)
	})
}

func (inst *Installation) texturePackResources() (map[string][]resource.FileResource, error) {
	return inst.texturePacks.ensure(func() (map[string][]resource.FileResource, error) {
		return loadTexturePacks(inst.root)
	})
}

func (inst *Installation) overrideResources() (map[string][]resource.FileResource, error) {
	return inst.override.ensure(func() (map[string][]resource.FileResource, error) {
		return loadOverride(inst.root)
	})
}

func (inst *Installation) musicResources() ([]resource.FileResource, error) {
	return inst.music.ensure(func() ([]resource.FileResource, error) {
		return loadLooseDir(inst.root, musicDirName, true)
	})
}

func (inst *Installation) soundResources() ([]resource.FileResource, error) {
	return inst.sounds.ensure(func() ([]resource.FileResource, error) {
		return loadLooseDir(inst.root, soundsDirName, true)
	})
}

func (inst *Installation) voiceResources() ([]resource.FileResource, error) {
	return inst.voices.ensure(inst.loadVoices)
}

// Explicit reloads, used by editors and file-watchers. Each fully
// replaces the category's cache.

func (inst *Installation) ReloadChitin() error { return inst.chitinCache.reload(inst.loadChitin) }

func (inst *Installation) ReloadModules() error {
	return inst.modules.reload(func() (map[string][]resource.FileResource, error) {
		return loadCapsuleDir(inst.root, modulesDirName)
	})
}

func (inst *Installation) ReloadLips() error {
	return inst.lips.reload(func() (map[string][]resource.FileResource, error) {
		return loadCapsuleDir(inst.root, lipsDirName)
	})
}

func (inst *Installation) ReloadRims() error {
	return inst.rims.reload(func() (map[string][]resource.FileResource, error) {
		return loadCapsuleDir(inst.root, rimsDirName)
	})
}

func (inst *Installation) ReloadTexturePacks() error {
	return inst.texturePacks.reload(func() (map[string][]resource.FileResource, error) {
		return loadTexturePacks(inst.root)
	})
}

func (inst *Installation) ReloadOverride() error {
	return inst.override.reload(func() (map[string][]resource.FileResource, error) {
		return loadOverride(inst.root)
	})
}

func (inst *Installation) ReloadMusic() error {
	return inst.music.reload(func() ([]resource.FileResource, error) {
		return loadLooseDir(inst.root, musicDirName, true)
	})
}

func (inst *Installation) ReloadSounds() error {
	return inst.sounds.reload(func() ([]resource.FileResource, error) {
		return loadLooseDir(inst.root, soundsDirName, true)
	})
}

func (inst *Installation) ReloadVoices() error { return inst.voices.reload(inst.loadVoices) }

// ClearCaches returns every category to the unloaded state. Consumers
// watching the filesystem call this after external changes.
func (inst *Installation) ClearCaches() {
	inst.chitinCache.invalidate()
	inst.modules.invalidate()
	inst.lips.invalidate()
	inst.rims.invalidate()
	inst.texturePacks.invalidate()
	inst.override.invalidate()
	inst.music.invalidate()
	inst.sounds.invalidate()
	inst.voices.invalidate()
	inst.talkTable.invalidate()
	inst.femaleTalkTable.invalidate()
}

// Listing accessors.

// ChitinResources returns the archive index's descriptor list.
func (inst *Installation) ChitinResources() ([]resource.FileResource, error) {
	return inst.chitinResources()
}

// ModuleNames lists the capsule filenames in the modules directory,
// sorted.
func (inst *Installation) ModuleNames() ([]string, error) {
	modules, err := inst.moduleResources()
	if err != nil {
		return nil, err
	}
	return sortedKeys(modules), nil
}

// ModuleResources returns one module capsule's member descriptors.
func (inst *Installation) ModuleResources(filename string) ([]resource.FileResource, error) {
	modules, err := inst.moduleResources()
	if err != nil {
		return nil, err
	}
	return lookupFold(modules, filename), nil
}

// LipNames lists the capsule filenames in the lips directory, sorted.
func (inst *Installation) LipNames() ([]string, error) {
	lips, err := inst.lipResources()
	if err != nil {
		return nil, err
	}
	return sortedKeys(lips), nil
}

// LipResources returns one lips capsule's member descriptors.
func (inst *Installation) LipResources(filename string) ([]resource.FileResource, error) {
	lips, err := inst.lipResources()
	if err != nil {
		return nil, err
	}
	return lookupFold(lips, filename), nil
}

// RimNames lists the capsule filenames in the rims directory, sorted.
func (inst *Installation) RimNames() ([]string, error) {
	rims, err := inst.rimResources()
	if err != nil {
		return nil, err
	}
	return sortedKeys(rims), nil
}

// RimResources returns one rims capsule's member descriptors.
func (inst *Installation) RimResources(filename string) ([]resource.FileResource, error) {
	rims, err := inst.rimResources()
	if err != nil {
		return nil, err
	}
	return lookupFold(rims, filename), nil
}

// TexturePackNames lists the texture pack capsules present, sorted.
func (inst *Installation) TexturePackNames() ([]string, error) {
	packs, err := inst.texturePackResources()
	if err != nil {
		return nil, err
	}
	return sortedKeys(packs), nil
}

// MusicResources returns the loose stream music descriptors.
func (inst *Installation) MusicResources() ([]resource.FileResource, error) {
	return inst.musicResources()
}

// SoundResources returns the loose stream sound descriptors.
func (inst *Installation) SoundResources() ([]resource.FileResource, error) {
	return inst.soundResources()
}

// VoiceResources returns the loose stream voice descriptors. Requires
// game identity, since the directory name differs between titles.
func (inst *Installation) VoiceResources() ([]resource.FileResource, error) {
	return inst.voiceResources()
}

// TexturePackResources returns one texture pack's member descriptors.
func (inst *Installation) TexturePackResources(filename string) ([]resource.FileResource, error) {
	packs, err := inst.texturePackResources()
	if err != nil {
		return nil, err
	}
	return lookupFold(packs, filename), nil
}

// OverrideList lists the override subdirectories, "." first, sorted.
func (inst *Installation) OverrideList() ([]string, error) {
	override, err := inst.overrideResources()
	if err != nil {
		return nil, err
	}
	return sortedKeys(override), nil
}

// OverrideResources returns the loose descriptors for one override
// subdirectory ("." for the top level).
func (inst *Installation) OverrideResources(subdir string) ([]resource.FileResource, error) {
	override, err := inst.overrideResources()
	if err != nil {
		return nil, err
	}
	return lookupFold(override, subdir), nil
}

func sortedKeys(m map[string][]resource.FileResource) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func lookupFold(m map[string][]resource.FileResource, key string) []resource.FileResource {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}
