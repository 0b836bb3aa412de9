// Package audio fixes up stream sound payloads after they are read.
// Decoding the audio itself is not this module's concern.
package audio

import "bytes"

// Stream sound files ship with a fake frame header prepended so stock
// media players choke on them; real data starts after it.
var obfuscationMagic = []byte{0xFF, 0xF3, 0x60, 0xC4}

const obfuscationHeaderSize = 470

// Fixup strips the obfuscation header when present. Unobfuscated data
// is returned unchanged. The returned slice aliases the input.
func Fixup(data []byte) []byte {
	if len(data) >= obfuscationHeaderSize && bytes.HasPrefix(data, obfuscationMagic) {
		return data[obfuscationHeaderSize:]
	}
	return data
}
