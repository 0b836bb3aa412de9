package installation

import (
	"path/filepath"
	"sort"
	"strings"
)

// Several physical files in the modules directory can claim one logical
// module: a mutable primary (.mod), an immutable primary (.rim), the
// static companion (_s.rim), and the dialog companion (_dlg.erf). Only
// the highest-priority form present may answer queries; the co-resident
// files are excluded from the category's effective result set.

// moduleRoot derives the logical module name from a capsule filename by
// stripping the known suffix/extension combinations.
func moduleRoot(filename string) string {
	lower := strings.ToLower(filename)
	for _, suffix := range []string{"_s.rim", "_dlg.erf"} {
		if strings.HasSuffix(lower, suffix) {
			return lower[:len(lower)-len(suffix)]
		}
	}
	return strings.TrimSuffix(lower, filepath.Ext(lower))
}

// moduleRank orders the physical forms of one module, lowest value
// highest priority.
func moduleRank(filename string) int {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".mod"):
		return 0
	case strings.HasSuffix(lower, "_s.rim"):
		return 2
	case strings.HasSuffix(lower, ".rim"):
		return 1
	case strings.HasSuffix(lower, "_dlg.erf"):
		return 3
	default:
		return 4
	}
}

// eligibleModules returns the capsule filenames allowed to answer
// queries, one winner per logical module, in deterministic order.
// Candidates are considered in directory-enumeration order (sorted
// filenames), which doubles as the tie-break when two forms share a
// rank: the first one scanned wins. The tie never arises with vanilla
// content; it is covered by tests regardless.
func eligibleModules[T any](modules map[string]T) []string {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	winners := make(map[string]string, len(names))
	for _, name := range names {
		root := moduleRoot(name)
		current, ok := winners[root]
		if !ok || moduleRank(name) < moduleRank(current) {
			winners[root] = name
		}
	}

	out := make([]string, 0, len(winners))
	for _, name := range names {
		if winners[moduleRoot(name)] == name {
			out = append(out, name)
		}
	}
	return out
}
