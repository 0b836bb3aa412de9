package installation

import (
	"fmt"

	"github.com/holocron-tools/holocron/internal/utils"
)

// GameVariant is the detected product variant of an installation root.
type GameVariant int

const (
	GameUndetermined GameVariant = iota
	GameK1PC
	GameK2PC
	GameK1iOS
	GameK2iOS
	GameK1Android
	GameK2Android
	GameK1Xbox
	GameK2Xbox
)

var gameVariantNames = map[GameVariant]string{
	GameUndetermined: "undetermined",
	GameK1PC:         "k1-pc",
	GameK2PC:         "k2-pc",
	GameK1iOS:        "k1-ios",
	GameK2iOS:        "k2-ios",
	GameK1Android:    "k1-android",
	GameK2Android:    "k2-android",
	GameK1Xbox:       "k1-xbox",
	GameK2Xbox:       "k2-xbox",
}

func (g GameVariant) String() string {
	if name, ok := gameVariantNames[g]; ok {
		return name
	}
	return "undetermined"
}

// IsK2 reports whether the variant is the second title on any platform.
func (g GameVariant) IsK2() bool {
	switch g {
	case GameK2PC, GameK2iOS, GameK2Android, GameK2Xbox:
		return true
	}
	return false
}

// variantChecklists holds the existence probes scored per variant. The
// Xbox checklists are empty placeholders and always score zero.
var variantChecklists = []struct {
	variant GameVariant
	probes  []string
}{
	{GameK1PC, []string{"swkotor.exe", "swkotor.ini", "rims", "streamwaves"}},
	{GameK2PC, []string{"swkotor2.exe", "swkotor2.ini", "streamvoice"}},
	{GameK1iOS, []string{"KOTOR", "AppIcon29x29.png", "GoogleService-Info.plist"}},
	{GameK2iOS, []string{"KOTOR II", "KOTOR2_LaunchScreen.storyboardc"}},
	{GameK1Android, []string{"libkotor.so", "assets"}},
	{GameK2Android, []string{"libkotor2.so", "assets"}},
	{GameK1Xbox, nil},
	{GameK2Xbox, nil},
}

// Identify probes the root against every variant's checklist and
// returns the variant with the strictly highest score. A tie, or an
// all-zero result, is GameUndetermined. Pure existence checks; nothing
// is read.
func Identify(root string) GameVariant {
	best := GameUndetermined
	bestScore := 0
	tied := false

	for _, checklist := range variantChecklists {
		score := 0
		for _, probe := range checklist.probes {
			if utils.ExistsFold(root, probe) {
				score++
			}
		}
		switch {
		case score > bestScore:
			best = checklist.variant
			bestScore = score
			tied = false
		case score == bestScore && score > 0:
			tied = true
		}
	}

	if tied || bestScore == 0 {
		return GameUndetermined
	}
	return best
}

// Identity returns the memoized game variant, computing it on first
// use. An undetermined result is an error: callers that need identity
// must fail clearly rather than guess between variants.
func (inst *Installation) Identity() (GameVariant, error) {
	if inst.game == GameUndetermined {
		inst.game = Identify(inst.root)
	}
	if inst.game == GameUndetermined {
		return GameUndetermined, fmt.Errorf("game variant of %s could not be determined", inst.root)
	}
	return inst.game, nil
}
