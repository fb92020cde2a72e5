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

package encoding

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidHex = errors.New("Invalid hex string")
var ErrInvalidInt = errors.New("Invalid integer string")

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, FFFF, 0F
func DecodeHex(s string) (uint16, error) {
	return decodeHex(s, 16)
}

// Decodes a hexidecimal string that must fit in a single byte
func DecodeByte(s string) (uint8, error) {
	result, err := decodeHex(s, 8)
	return uint8(result), err
}

func decodeHex(s string, bits int) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = s[1:]
	} else if i == 1 && s[0] == '0' {
		s = s[2:]
	} else if i != -1 {
		return 0, ErrInvalidHex
	}

	if len(s) == 0 || s[0] == '+' || s[0] == '-' {
		return 0, ErrInvalidHex
	}

	result, err := strconv.ParseUint(s, 16, bits)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes an optionally signed base-10 string in the formats: #-12, -12, 123.
// Negative values are returned in two's complement.
func DecodeInt(s string) (uint16, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	if !IsInt(s) {
		return 0, ErrInvalidInt
	}

	result, err := strconv.ParseInt(s, 10, 32)

	if err != nil {
		return 0, err
	}

	if result < -0x8000 || result > 0xFFFF {
		return 0, strconv.ErrRange
	}

	return uint16(result), nil
}

// Reports whether s is a run of decimal digits with an optional leading minus
func IsInt(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}

	if len(s) == 0 {
		return false
	}

	for _, char := range s {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}

// Decodes a data definition value, honouring 0x, 0o and 0b prefixes
func DecodeData(s string) (int64, error) {
	return strconv.ParseInt(s, 0, 64)
}

// Removes a trailing ';' comment and surrounding whitespace
func StripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i != -1 {
		line = line[:i]
	}

	return strings.TrimSpace(line)
}
