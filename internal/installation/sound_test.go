package installation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holocron-tools/holocron/internal/resource"
)

func obfuscated(payload []byte) []byte {
	header := make([]byte, 470)
	copy(header, []byte{0xFF, 0xF3, 0x60, 0xC4})
	return append(header, payload...)
}

func TestSoundWavePreferredWithinLocation(t *testing.T) {
	f := newFixture(t)
	f.addLoose("streamsounds", "al_an_flybuzz.wav", []byte("RIFFwave"))
	f.addLoose("streamsounds", "al_an_flybuzz.mp3", []byte("ID3mp3"))
	inst := f.open()

	res, err := inst.Sound("al_an_flybuzz", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, resource.TypeWAV, res.Type)
	assert.Equal(t, []byte("RIFFwave"), res.Data)
}

func TestSoundMp3Fallback(t *testing.T) {
	f := newFixture(t)
	f.addLoose("streamsounds", "mus_theme_cult.mp3", []byte("ID3mp3"))
	inst := f.open()

	res, err := inst.Sound("mus_theme_cult", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, resource.TypeMP3, res.Type)
}

func TestSoundOverrideBeatsStreamDir(t *testing.T) {
	f := newFixture(t)
	f.addOverride(".", "al_an_flybuzz.wav", []byte("patched"))
	f.addLoose("streamsounds", "al_an_flybuzz.wav", []byte("stock"))
	inst := f.open()

	res, err := inst.Sound("al_an_flybuzz", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("patched"), res.Data)
}

func TestSoundObfuscationHeaderStripped(t *testing.T) {
	f := newFixture(t)
	f.addLoose("streamsounds", "vo_line.wav", obfuscated([]byte("real audio")))
	inst := f.open()

	res, err := inst.Sound("vo_line", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("real audio"), res.Data)
}

func TestSoundPlainPayloadUntouched(t *testing.T) {
	f := newFixture(t)
	f.addLoose("streamsounds", "plain.wav", []byte("RIFF untouched"))
	inst := f.open()

	res, err := inst.Sound("plain", nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("RIFF untouched"), res.Data)
}

func TestSoundMissReturnsNil(t *testing.T) {
	f := newFixture(t)
	inst := f.open()

	res, err := inst.Sound("nothing_here", nil)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestSoundRecursiveStreamDir(t *testing.T) {
	f := newFixture(t)
	f.addLoose("streamsounds/ambient", "wind.wav", []byte("whoosh"))
	inst := f.open()

	res, err := inst.Sound("wind", &SearchOptions{Order: []SearchLocation{SearchSound}})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []byte("whoosh"), res.Data)
}
