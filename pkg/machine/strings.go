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

package machine

import (
	"encoding/binary"

	"github.com/lassandro/go86/pkg/assembler"
	"github.com/lassandro/go86/pkg/isa"
)

func (mc *Machine) advanceIndices(size int64) {
	if mc.State.Flags[isa.FLAG_DF] {
		size = -size
	}

	for _, reg := range []isa.Register{isa.REG_SI, isa.REG_DI} {
		index := quantity{mc.State.Registers[reg], mc.State.Negative[reg]}
		index = signedQuantity(index.signed() + size)

		mc.State.Registers[reg] = index.Value
		mc.State.Negative[reg] = index.Negative
	}
}

// Words are stored big-endian across two consecutive cells
func (mc *Machine) readWord(addr uint16) (uint16, error) {
	var scratch [2]byte
	var err error

	if scratch[0], err = mc.read(addr); err != nil {
		return 0, err
	}

	if scratch[1], err = mc.read(addr + 1); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(scratch[:]), nil
}

func (mc *Machine) writeWord(addr uint16, value uint16) error {
	var scratch [2]byte

	binary.BigEndian.PutUint16(scratch[:], value)

	if err := mc.write(addr, scratch[0]); err != nil {
		return err
	}

	return mc.write(addr+1, scratch[1])
}

func (mc *Machine) movsb() error {
	value, err := mc.read(mc.State.Registers[isa.REG_SI])

	if err != nil {
		return err
	}

	if err := mc.write(mc.State.Registers[isa.REG_DI], value); err != nil {
		return err
	}

	mc.advanceIndices(1)

	return nil
}

func (mc *Machine) movsw() error {
	value, err := mc.readWord(mc.State.Registers[isa.REG_SI])

	if err != nil {
		return err
	}

	if err := mc.writeWord(mc.State.Registers[isa.REG_DI], value); err != nil {
		return err
	}

	mc.advanceIndices(2)

	return nil
}

// Compares leave SI and DI where they are; only the flags change.
func (mc *Machine) cmpsb() error {
	src, err := mc.read(mc.State.Registers[isa.REG_SI])

	if err != nil {
		return err
	}

	dst, err := mc.read(mc.State.Registers[isa.REG_DI])

	if err != nil {
		return err
	}

	mc.alu(
		assembler.INSTRUCTION_SUB,
		quantity{Value: uint16(src)},
		quantity{Value: uint16(dst)},
	)

	return nil
}

func (mc *Machine) cmpsw() error {
	src, err := mc.readWord(mc.State.Registers[isa.REG_SI])

	if err != nil {
		return err
	}

	dst, err := mc.readWord(mc.State.Registers[isa.REG_DI])

	if err != nil {
		return err
	}

	mc.alu(assembler.INSTRUCTION_SUB, quantity{Value: src}, quantity{Value: dst})

	return nil
}
