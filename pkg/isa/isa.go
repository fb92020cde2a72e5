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

// Package isa names the architectural registers and status flags shared by the
// assembler and the machine.
package isa

import (
	"strings"
)

type Register uint8
type Flag uint8

const (
	REG_AX Register = iota
	REG_BX
	REG_CX
	REG_DX
	REG_SP
	REG_BP
	REG_SI
	REG_DI
	REG_IP
	REG_CS
	REG_DS
	REG_ES
	REG_SS

	REGISTER_COUNT = iota
)

const (
	FLAG_CF Flag = iota
	FLAG_PF
	FLAG_ZF
	FLAG_SF
	FLAG_OF
	FLAG_DF
	FLAG_IF

	FLAG_COUNT = iota
)

var registerNames = [REGISTER_COUNT]string{
	"AX", "BX", "CX", "DX",
	"SP", "BP", "SI", "DI",
	"IP", "CS", "DS", "ES", "SS",
}

var flagNames = [FLAG_COUNT]string{
	"CF", "PF", "ZF", "SF", "OF", "DF", "IF",
}

func (reg Register) String() string {
	if int(reg) < len(registerNames) {
		return registerNames[reg]
	}

	return "<invalid>"
}

func (flag Flag) String() string {
	if int(flag) < len(flagNames) {
		return flagNames[flag]
	}

	return "<invalid>"
}

// Registers lists every register in file order.
func Registers() []Register {
	result := make([]Register, REGISTER_COUNT)
	for i := range result {
		result[i] = Register(i)
	}
	return result
}

// Flags lists every flag in status word order.
func Flags() []Flag {
	result := make([]Flag, FLAG_COUNT)
	for i := range result {
		result[i] = Flag(i)
	}
	return result
}

func ParseRegister(ident string) (Register, bool) {
	for i, name := range registerNames {
		if strings.EqualFold(ident, name) {
			return Register(i), true
		}
	}

	return 0, false
}

func ParseFlag(ident string) (Flag, bool) {
	for i, name := range flagNames {
		if strings.EqualFold(ident, name) {
			return Flag(i), true
		}
	}

	return 0, false
}
