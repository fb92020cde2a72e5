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
	"github.com/lassandro/go86/pkg/assembler"
	"github.com/lassandro/go86/pkg/isa"
)

// quantity is an operand as the program sees it. Storage is 16 bits wide,
// Negative marks a value that was produced from a negative number and
// stands for Value-0x10000. Only OF and CF read the sign.
type quantity struct {
	Value    uint16
	Negative bool
}

func (q quantity) signed() int64 {
	if q.Negative {
		return int64(q.Value) - 0x10000
	}

	return int64(q.Value)
}

func signedQuantity(v int64) quantity {
	return quantity{uint16(v), v < 0}
}

// Rounds toward negative infinity
func floorDiv(x, y int64) int64 {
	q := x / y

	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}

	return q
}

// Evaluates op over the signed operands and updates the flags. b is ignored
// by NOT. CF is only ever set here, by a SUB that goes negative. OF is a sign
// test on the operands and the result, not a two's complement overflow check.
// PF is never computed.
func (mc *Machine) alu(op assembler.InstructionType, a, b quantity) quantity {
	var result int64

	x, y := a.signed(), b.signed()
	flags := &mc.State.Flags

	switch op {
	case assembler.INSTRUCTION_ADD:
		// The sum is masked before the test, so only two negative operands
		// can raise OF
		result = (x + y) & 0xFFFF
		flags[isa.FLAG_OF] = x < 0 && y < 0 && result > 0

	case assembler.INSTRUCTION_SUB:
		result = x - y

		if result < 0 {
			flags[isa.FLAG_CF] = true
			result += 0x10000
		}

		flags[isa.FLAG_OF] = (x < 0 && y > 0 && result > 0) ||
			(x > 0 && y < 0 && result < 0)

	case assembler.INSTRUCTION_MUL:
		result = (x * y) & 0xFFFF

	case assembler.INSTRUCTION_DIV:
		// Division by zero yields zero
		if y != 0 {
			result = floorDiv(x, y)
		}

	case assembler.INSTRUCTION_AND:
		result = x & y

	case assembler.INSTRUCTION_OR:
		result = x | y

	case assembler.INSTRUCTION_XOR:
		result = x ^ y

	case assembler.INSTRUCTION_NOT:
		result = ^x & 0xFFFF

	default:
		panic("Invalid ALU operation")
	}

	flags[isa.FLAG_ZF] = result == 0
	flags[isa.FLAG_SF] = result&0x8000 != 0

	return signedQuantity(result)
}
