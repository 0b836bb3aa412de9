package installation

import (
	"fmt"

	"github.com/holocron-tools/holocron/internal/tlk"
	"github.com/holocron-tools/holocron/internal/utils"
)

// The two root-level talk tables are treated as always-present
// pseudo-resources: the primary table is required once string lookup is
// used, the gendered secondary is optional and falls back to the
// primary.

func (inst *Installation) loadTalkTable() (*tlk.Table, error) {
	path, err := utils.FindFile(inst.root, talkTableName)
	if err != nil {
		return nil, fmt.Errorf("locating talk table: %w", err)
	}
	return tlk.Load(path)
}

func (inst *Installation) loadFemaleTalkTable() (*tlk.Table, error) {
	path, err := utils.FindFile(inst.root, femaleTalkTableName)
	if err != nil {
		// No gendered table shipped; the primary answers instead.
		return nil, nil
	}
	return tlk.Load(path)
}

// TalkTable returns the primary talk table, loading it on first use.
func (inst *Installation) TalkTable() (*tlk.Table, error) {
	return inst.talkTable.ensure(inst.loadTalkTable)
}

// String resolves a localized string reference against the talk tables.
// female selects the gendered table when the installation ships one. A
// reference with no text yields "" and false, not an error.
func (inst *Installation) String(stringref int, female bool) (string, bool, error) {
	if female {
		table, err := inst.femaleTalkTable.ensure(inst.loadFemaleTalkTable)
		if err != nil {
			return "", false, fmt.Errorf("string %d: %w", stringref, err)
		}
		if table != nil {
			if text, ok := table.String(stringref); ok {
				return text, true, nil
			}
		}
	}

	table, err := inst.TalkTable()
	if err != nil {
		return "", false, fmt.Errorf("string %d: %w", stringref, err)
	}
	text, ok := table.String(stringref)
	return text, ok, nil
}
