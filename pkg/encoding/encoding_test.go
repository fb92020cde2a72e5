// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lassandro/go86/pkg/encoding"
)

func TestDecodeHex(t *testing.T) {
	assert := assert.New(t)

	for input, want := range map[string]uint16{
		"0x80":   0x80,
		"x80":    0x80,
		"80":     0x80,
		"0F":     0x0F,
		"0XBEEF": 0xBEEF,
		"ffff":   0xFFFF,
	} {
		have, err := encoding.DecodeHex(input)
		assert.NoError(err, input)
		assert.Equal(want, have, input)
	}

	for _, input := range []string{"", "0x", "1x2", "-1", "G0", "10000"} {
		_, err := encoding.DecodeHex(input)
		assert.Error(err, input)
	}
}

func TestDecodeByte(t *testing.T) {
	assert := assert.New(t)

	have, err := encoding.DecodeByte("0x0F")
	assert.NoError(err)
	assert.Equal(uint8(0x0F), have)

	have, err = encoding.DecodeByte("FF")
	assert.NoError(err)
	assert.Equal(uint8(0xFF), have)

	_, err = encoding.DecodeByte("100")
	assert.Error(err)
}

func TestDecodeInt(t *testing.T) {
	assert := assert.New(t)

	for input, want := range map[string]uint16{
		"0":      0,
		"5":      5,
		"#42":    42,
		"-1":     0xFFFF,
		"-32768": 0x8000,
		"65535":  0xFFFF,
	} {
		have, err := encoding.DecodeInt(input)
		assert.NoError(err, input)
		assert.Equal(want, have, input)
	}

	for _, input := range []string{"", "-", "0x10", "AX", "65536", "-32769", "1.5"} {
		_, err := encoding.DecodeInt(input)
		assert.Error(err, input)
	}
}

func TestDecodeData(t *testing.T) {
	assert := assert.New(t)

	for input, want := range map[string]int64{
		"10":     10,
		"0x10":   16,
		"0b101":  5,
		"-7":     -7,
		"0o17":   15,
		"100000": 100000,
	} {
		have, err := encoding.DecodeData(input)
		assert.NoError(err, input)
		assert.Equal(want, have, input)
	}

	_, err := encoding.DecodeData("ten")
	assert.Error(err)
}

func TestStripComment(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("MOV AX 5", encoding.StripComment("  MOV AX 5 ; load five"))
	assert.Equal("", encoding.StripComment("; only a comment"))
	assert.Equal("HLT", encoding.StripComment("HLT"))
}
