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

func (mc *Machine) addressingError(op *assembler.Operand, reason string) error {
	return &AddressingError{mc.State.Registers[isa.REG_IP], op.Value, reason}
}

// Resolves a source operand. Immediates, registers, data segment symbols,
// direct and register indirect memory are readable.
func (mc *Machine) readOperand(op *assembler.Operand) (uint16, error) {
	switch op.Type {
	case assembler.OPERAND_IMMEDIATE:
		return op.Imm, nil

	case assembler.OPERAND_REGISTER:
		return mc.State.Registers[op.Base], nil

	case assembler.OPERAND_SYMBOL:
		if value, exists := mc.State.Data[op.Value]; exists {
			return uint16(value), nil
		}

		return 0, mc.addressingError(op, "unknown data label")

	case assembler.OPERAND_DIRECT:
		value, err := mc.read(op.Imm)
		return uint16(value), err

	case assembler.OPERAND_INDIRECT:
		value, err := mc.read(mc.State.Registers[op.Base])
		return uint16(value), err

	default:
		return 0, mc.addressingError(op, op.Type.String()+" operand is not readable")
	}
}

// Resolves a destination operand and stores value there. Memory cells hold
// the low byte.
func (mc *Machine) writeOperand(op *assembler.Operand, value uint16) error {
	regs := &mc.State.Registers

	switch op.Type {
	case assembler.OPERAND_REGISTER:
		regs[op.Base] = value
		mc.State.Negative[op.Base] = false
		return nil

	case assembler.OPERAND_DIRECT:
		return mc.write(op.Imm, uint8(value))

	case assembler.OPERAND_INDIRECT:
		return mc.write(regs[op.Base], uint8(value))

	case assembler.OPERAND_BASE_INDEX:
		return mc.write(regs[op.Base]+regs[op.Index], uint8(value))

	case assembler.OPERAND_RELATIVE:
		return mc.write(regs[isa.REG_IP]+uint16(op.Offset), uint8(value))

	default:
		return mc.addressingError(op, op.Type.String()+" operand is not writable")
	}
}

// Reads an operand along with its sign. Memory only holds unsigned bytes.
func (mc *Machine) readQuantity(op *assembler.Operand) (quantity, error) {
	value, err := mc.readOperand(op)

	if err != nil {
		return quantity{}, err
	}

	switch op.Type {
	case assembler.OPERAND_IMMEDIATE:
		return quantity{value, op.Negative}, nil
	case assembler.OPERAND_REGISTER:
		return quantity{value, mc.State.Negative[op.Base]}, nil
	case assembler.OPERAND_SYMBOL:
		return signedQuantity(mc.State.Data[op.Value]), nil
	default:
		return quantity{Value: value}, nil
	}
}

// Stores q, registers keep its sign
func (mc *Machine) writeQuantity(op *assembler.Operand, q quantity) error {
	if err := mc.writeOperand(op, q.Value); err != nil {
		return err
	}

	if op.Type == assembler.OPERAND_REGISTER {
		mc.State.Negative[op.Base] = q.Negative
	}

	return nil
}

// Jump targets fall back to the label and procedure tables when the operand
// names no data label.
func (mc *Machine) resolveTarget(op *assembler.Operand) (uint16, error) {
	if op.Type == assembler.OPERAND_SYMBOL {
		if value, exists := mc.State.Data[op.Value]; exists {
			return uint16(value), nil
		}

		if ip, exists := mc.State.Labels[op.Value]; exists {
			return ip, nil
		}

		if ip, exists := mc.State.Procedures[op.Value]; exists {
			return ip, nil
		}

		return 0, mc.addressingError(op, "unknown label")
	}

	return mc.readOperand(op)
}
