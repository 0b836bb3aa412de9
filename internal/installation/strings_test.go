package installation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringLookup(t *testing.T) {
	f := newFixture(t)
	f.addTalkTable("dialog.tlk", []string{"Bastila", "Carth", "Mission"})
	inst := f.open()

	text, ok, err := inst.String(1, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Carth", text)
}

func TestStringOutOfRange(t *testing.T) {
	f := newFixture(t)
	f.addTalkTable("dialog.tlk", []string{"only one"})
	inst := f.open()

	text, ok, err := inst.String(99, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)

	text, ok, err = inst.String(-1, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestStringFemaleTable(t *testing.T) {
	f := newFixture(t)
	f.addTalkTable("dialog.tlk", []string{"neutral"})
	f.addTalkTable("dialogf.tlk", []string{"gendered"})
	inst := f.open()

	text, ok, err := inst.String(0, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gendered", text)

	text, ok, err = inst.String(0, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "neutral", text)
}

func TestStringFemaleFallsBackToPrimary(t *testing.T) {
	f := newFixture(t)
	f.addTalkTable("dialog.tlk", []string{"neutral"})
	inst := f.open()

	text, ok, err := inst.String(0, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "neutral", text)
}

func TestStringMissingPrimaryTableErrors(t *testing.T) {
	f := newFixture(t)
	inst := f.open()

	_, _, err := inst.String(0, false)
	assert.Error(t, err)
}

func TestTalkTableCached(t *testing.T) {
	f := newFixture(t)
	f.addTalkTable("dialog.tlk", []string{"first"})
	inst := f.open()

	table, err := inst.TalkTable()
	require.NoError(t, err)

	again, err := inst.TalkTable()
	require.NoError(t, err)
	assert.Same(t, table, again)
}
