package installation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holocron-tools/holocron/internal/capsule"
	"github.com/holocron-tools/holocron/internal/resource"
)

func TestLocationsRespectCallerOrder(t *testing.T) {
	f := newFixture(t, fixtureMember{"shared", resource.TypeTXT, []byte("chitin copy")})
	f.addOverride(".", "shared.txt", []byte("override copy"))
	inst := f.open()

	id := resource.NewIdentifier("shared", resource.TypeTXT)

	results, err := inst.Locations([]resource.Identifier{id}, &SearchOptions{
		Order: []SearchLocation{SearchOverride, SearchChitin},
	})
	require.NoError(t, err)
	list := results[id]
	require.Len(t, list, 2, "locations never short-circuits")
	assert.True(t, strings.Contains(list[0].Path, "override"), "override entry first: %s", list[0].Path)
	assert.True(t, strings.HasSuffix(list[1].Path, ".bif"), "chitin entry second: %s", list[1].Path)

	// Reversing the order reverses the list.
	results, err = inst.Locations([]resource.Identifier{id}, &SearchOptions{
		Order: []SearchLocation{SearchChitin, SearchOverride},
	})
	require.NoError(t, err)
	list = results[id]
	require.Len(t, list, 2)
	assert.True(t, strings.HasSuffix(list[0].Path, ".bif"))
}

func TestResourcesFirstWins(t *testing.T) {
	f := newFixture(t, fixtureMember{"shared", resource.TypeTXT, []byte("chitin copy")})
	f.addOverride(".", "shared.txt", []byte("override copy"))
	inst := f.open()

	res, err := inst.Resource("shared", resource.TypeTXT, nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("override copy"), res.Data)
}

func TestResourceAbsentIsNotError(t *testing.T) {
	f := newFixture(t, fixtureMember{"present", resource.TypeTXT, []byte("data")})
	inst := f.open()

	res, err := inst.Resource("no_such_thing", resource.TypeUTC, nil)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResourceRestrictedOrderMisses(t *testing.T) {
	f := newFixture(t, fixtureMember{"c_bantha", resource.TypeUTC, []byte("archive bytes")})
	inst := f.open()

	// Default order finds the archive copy.
	res, err := inst.Resource("c_bantha", resource.TypeUTC, nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("archive bytes"), res.Data)

	// Restricting the order to override alone is a miss.
	res, err = inst.Resource("c_bantha", resource.TypeUTC, &SearchOptions{
		Order: []SearchLocation{SearchOverride},
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResourcesCaseInsensitiveQuery(t *testing.T) {
	f := newFixture(t, fixtureMember{"c_bantha", resource.TypeUTC, []byte("bytes")})
	inst := f.open()

	res, err := inst.Resource("C_BANTHA", resource.TypeUTC, nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("bytes"), res.Data)
}

func TestDuplicateOrderHonoredOnce(t *testing.T) {
	f := newFixture(t, fixtureMember{"dup", resource.TypeTXT, []byte("data")})
	inst := f.open()

	id := resource.NewIdentifier("dup", resource.TypeTXT)
	results, err := inst.Locations([]resource.Identifier{id}, &SearchOptions{
		Order: []SearchLocation{SearchChitin, SearchChitin},
	})
	require.NoError(t, err)
	assert.Len(t, results[id], 1, "a category listed twice contributes once")
}

func TestCompositeGroupingModWins(t *testing.T) {
	f := newFixture(t)
	f.addCapsule("modules", "m01aa.mod", fixtureMember{"m01aa", resource.TypeARE, []byte("from mod")})
	f.addCapsule("modules", "m01aa.rim", fixtureMember{"m01aa", resource.TypeARE, []byte("from rim")})
	f.addCapsule("modules", "m01aa_s.rim", fixtureMember{"m01aa", resource.TypeARE, []byte("from s rim")})
	inst := f.open()

	res, err := inst.Resource("m01aa", resource.TypeARE, &SearchOptions{
		Order: []SearchLocation{SearchModules},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("from mod"), res.Data)
}

func TestCompositeGroupingRimBeatsStatic(t *testing.T) {
	f := newFixture(t)
	f.addCapsule("modules", "m01aa.rim", fixtureMember{"m01aa", resource.TypeARE, []byte("from rim")})
	f.addCapsule("modules", "m01aa_s.rim", fixtureMember{"m01aa", resource.TypeARE, []byte("from s rim")})
	inst := f.open()

	res, err := inst.Resource("m01aa", resource.TypeARE, &SearchOptions{
		Order: []SearchLocation{SearchModules},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("from rim"), res.Data)
}

func TestCompositeGroupingExcludesLosers(t *testing.T) {
	// The static companion holds a resource the winner lacks; the
	// grouping rule still excludes it from the category.
	f := newFixture(t)
	f.addCapsule("modules", "m01aa.mod", fixtureMember{"m01aa", resource.TypeARE, []byte("from mod")})
	f.addCapsule("modules", "m01aa_s.rim", fixtureMember{"hidden", resource.TypeGIT, []byte("companion only")})
	inst := f.open()

	res, err := inst.Resource("hidden", resource.TypeGIT, &SearchOptions{
		Order: []SearchLocation{SearchModules},
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestCompositeGroupingTieBreakDiscoveryOrder(t *testing.T) {
	// Two rank-equal forms of one module never occur in shipped
	// content; the tie-break is directory-enumeration order.
	f := newFixture(t)
	f.addCapsule("modules", "m03ad.erf", fixtureMember{"m03ad", resource.TypeARE, []byte("erf form")})
	f.addCapsule("modules", "m03ad.sav", fixtureMember{"m03ad", resource.TypeARE, []byte("sav form")})
	inst := f.open()

	res, err := inst.Resource("m03ad", resource.TypeARE, &SearchOptions{
		Order: []SearchLocation{SearchModules},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("erf form"), res.Data)
}

func TestCustomFolders(t *testing.T) {
	f := newFixture(t)
	inst := f.open()

	extra := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(extra, "loose.utc"), []byte("adhoc"), 0644))

	res, err := inst.Resource("loose", resource.TypeUTC, &SearchOptions{
		Order:   []SearchLocation{SearchCustomFolders},
		Folders: []string{extra},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("adhoc"), res.Data)
}

func TestCustomCapsules(t *testing.T) {
	f := newFixture(t)
	path := f.addCapsule("spare", "extra.mod", fixtureMember{"bonus", resource.TypeUTI, []byte("capsule bytes")})
	caps, err := capsule.Open(path)
	require.NoError(t, err)

	inst := f.open()
	res, err := inst.Resource("bonus", resource.TypeUTI, &SearchOptions{
		Order:    []SearchLocation{SearchCustomModules},
		Capsules: []*capsule.Capsule{caps},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("capsule bytes"), res.Data)
}

func TestBatchResourcesMixedHitsAndMisses(t *testing.T) {
	f := newFixture(t,
		fixtureMember{"a", resource.TypeTXT, []byte("aaa")},
		fixtureMember{"b", resource.TypeTXT, []byte("bbb")},
	)
	inst := f.open()

	hitA := resource.NewIdentifier("a", resource.TypeTXT)
	hitB := resource.NewIdentifier("b", resource.TypeTXT)
	miss := resource.NewIdentifier("c", resource.TypeTXT)

	results, err := inst.Resources([]resource.Identifier{hitA, hitB, miss}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3, "every query has an entry")
	assert.Equal(t, []byte("aaa"), results[hitA].Data)
	assert.Equal(t, []byte("bbb"), results[hitB].Data)
	assert.Nil(t, results[miss], "miss is an explicit absent entry")
}

func TestWinningLocationFixedOrder(t *testing.T) {
	f := newFixture(t, fixtureMember{"m01aa", resource.TypeARE, []byte("chitin copy")})
	f.addCapsule("modules", "m01aa.mod", fixtureMember{"m01aa", resource.TypeARE, []byte("module copy")})
	f.addOverride(".", "m01aa.are", []byte("override copy"))
	inst := f.open()

	id := resource.NewIdentifier("m01aa", resource.TypeARE)
	winner, err := inst.WinningLocation(id)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.True(t, strings.Contains(winner.Path, "override"), "override wins: %s", winner.Path)
}

func TestResolveAcrossInstallations(t *testing.T) {
	withOverride := newFixture(t, fixtureMember{"m01aa", resource.TypeARE, []byte("chitin copy")})
	withOverride.addOverride(".", "m01aa.are", []byte("override copy"))

	archiveOnly := newFixture(t, fixtureMember{"m01aa", resource.TypeARE, []byte("chitin copy")})

	id := resource.NewIdentifier("m01aa", resource.TypeARE)
	resolutions, err := Resolve(id, withOverride.open(), archiveOnly.open())
	require.NoError(t, err)
	require.Len(t, resolutions, 2)

	require.NotNil(t, resolutions[0].Location)
	assert.True(t, strings.Contains(resolutions[0].Location.Path, "override"))
	require.NotNil(t, resolutions[1].Location)
	assert.True(t, strings.HasSuffix(resolutions[1].Location.Path, ".bif"))
}
