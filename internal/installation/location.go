package installation

// SearchLocation tags one physical source a query can consult. The
// order in which a caller lists locations is the priority order for
// that query, highest first; there is no fixed global priority.
type SearchLocation int

const (
	// SearchCustomFolders scans caller-supplied directories,
	// non-recursively, never cached.
	SearchCustomFolders SearchLocation = iota
	// SearchOverride scans the override directory tree.
	SearchOverride
	// SearchCustomModules probes caller-supplied capsules, never cached.
	SearchCustomModules
	// SearchModules scans the modules directory's capsules, after
	// composite grouping picks a winner per logical module.
	SearchModules
	// SearchChitin scans the key+blob archive index.
	SearchChitin
	// SearchTexturesTPA through SearchTexturesGUI each scan one of the
	// four well-known texture pack capsules.
	SearchTexturesTPA
	SearchTexturesTPB
	SearchTexturesTPC
	SearchTexturesGUI
	// SearchMusic, SearchSound and SearchVoice scan the loose stream
	// directories.
	SearchMusic
	SearchSound
	SearchVoice
	// SearchLips and SearchRims scan their capsule directories.
	SearchLips
	SearchRims
)

var searchLocationNames = map[SearchLocation]string{
	SearchCustomFolders: "custom_folders",
	SearchOverride:      "override",
	SearchCustomModules: "custom_modules",
	SearchModules:       "modules",
	SearchChitin:        "chitin",
	SearchTexturesTPA:   "textures_tpa",
	SearchTexturesTPB:   "textures_tpb",
	SearchTexturesTPC:   "textures_tpc",
	SearchTexturesGUI:   "textures_gui",
	SearchMusic:         "music",
	SearchSound:         "sound",
	SearchVoice:         "voice",
	SearchLips:          "lips",
	SearchRims:          "rims",
}

func (loc SearchLocation) String() string {
	if name, ok := searchLocationNames[loc]; ok {
		return name
	}
	return "unknown"
}

// Default priority orders. Callers override per query.
var (
	DefaultOrder        = []SearchLocation{SearchCustomFolders, SearchOverride, SearchCustomModules, SearchModules, SearchChitin}
	DefaultTextureOrder = []SearchLocation{SearchCustomFolders, SearchOverride, SearchCustomModules, SearchTexturesTPA, SearchChitin}
	DefaultSoundOrder   = []SearchLocation{SearchCustomFolders, SearchOverride, SearchCustomModules, SearchSound, SearchChitin}
)

// dedupeOrder keeps the first occurrence of each location. A category
// listed twice is honored once.
func dedupeOrder(order []SearchLocation) []SearchLocation {
	seen := make(map[SearchLocation]bool, len(order))
	out := make([]SearchLocation, 0, len(order))
	for _, loc := range order {
		if seen[loc] {
			continue
		}
		seen[loc] = true
		out = append(out, loc)
	}
	return out
}
