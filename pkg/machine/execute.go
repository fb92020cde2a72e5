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
	"github.com/sirupsen/logrus"

	"github.com/lassandro/go86/pkg/assembler"
	"github.com/lassandro/go86/pkg/isa"
	"github.com/lassandro/go86/pkg/peripheral"
)

// Applies one decoded instruction to the machine. Returns false on HLT.
// Addressing errors are returned and must stop the run, every other failure
// is logged and execution continues.
func (mc *Machine) Execute(instruction *assembler.Instruction) (bool, error) {
	state := &mc.State
	ip := state.Registers[isa.REG_IP]
	operands := instruction.Operands

	if instruction.Label != "" {
		state.Labels[instruction.Label] = ip
		mc.Log.WithFields(logrus.Fields{
			"label": instruction.Label,
			"ip":    ip,
		}).Info("Label defined")
	}

	switch instruction.Type {
	case assembler.INSTRUCTION_NONE, assembler.INSTRUCTION_LABEL,
		assembler.INSTRUCTION_ENDP:

	case assembler.INSTRUCTION_UNKNOWN:
		mc.Log.WithFields(logrus.Fields{
			"ip":      ip,
			"keyword": instruction.Keyword,
		}).Warn("Unknown instruction ignored")

	// .CODE / .DATA / .STACK
	case assembler.INSTRUCTION_CODE:
		mc.switchSegment(SEGMENT_CODE)
	case assembler.INSTRUCTION_DATA:
		mc.switchSegment(SEGMENT_DATA)
	case assembler.INSTRUCTION_STACK:
		mc.switchSegment(SEGMENT_STACK)

	// DB/DW/DD label value
	case assembler.INSTRUCTION_DB, assembler.INSTRUCTION_DW,
		assembler.INSTRUCTION_DD:
		state.Data[instruction.Symbol] = instruction.Value
		mc.Log.WithFields(logrus.Fields{
			"label": instruction.Symbol,
			"value": instruction.Value,
		}).Infof("%s data defined", instruction.Keyword)

	// PROC name
	case assembler.INSTRUCTION_PROC:
		state.Procedures[instruction.Symbol] = ip
		mc.Log.WithFields(logrus.Fields{
			"procedure": instruction.Symbol,
			"ip":        ip,
		}).Info("Procedure defined")

	// MOV dest src
	case assembler.INSTRUCTION_MOV:
		value, err := mc.readQuantity(&operands[1])

		if err != nil {
			return false, err
		}

		if err := mc.writeQuantity(&operands[0], value); err != nil {
			return false, err
		}

	// OP dest src
	case assembler.INSTRUCTION_ADD, assembler.INSTRUCTION_SUB,
		assembler.INSTRUCTION_MUL, assembler.INSTRUCTION_DIV,
		assembler.INSTRUCTION_AND, assembler.INSTRUCTION_OR,
		assembler.INSTRUCTION_XOR:
		a, err := mc.readQuantity(&operands[0])

		if err != nil {
			return false, err
		}

		b, err := mc.readQuantity(&operands[1])

		if err != nil {
			return false, err
		}

		result := mc.alu(instruction.Type, a, b)

		if err := mc.writeQuantity(&operands[0], result); err != nil {
			return false, err
		}

	// NOT dest
	case assembler.INSTRUCTION_NOT:
		a, err := mc.readQuantity(&operands[0])

		if err != nil {
			return false, err
		}

		result := mc.alu(instruction.Type, a, quantity{})

		if err := mc.writeQuantity(&operands[0], result); err != nil {
			return false, err
		}

	// PUSH src
	case assembler.INSTRUCTION_PUSH:
		value, err := mc.readOperand(&operands[0])

		if err != nil {
			return false, err
		}

		state.Stack = append(state.Stack, value)

	// POP dest
	case assembler.INSTRUCTION_POP:
		value, ok := mc.pop()

		if !ok {
			mc.Log.WithField("ip", ip).Warn("Stack empty, nothing to pop")
			break
		}

		if err := mc.writeOperand(&operands[0], value); err != nil {
			return false, err
		}

	// IP is incremented after every instruction, so targets are pre-offset
	case assembler.INSTRUCTION_JMP:
		target, err := mc.resolveTarget(&operands[0])

		if err != nil {
			return false, err
		}

		state.Registers[isa.REG_IP] = target - 1

	case assembler.INSTRUCTION_CALL:
		target, err := mc.resolveTarget(&operands[0])

		if err != nil {
			return false, err
		}

		state.Stack = append(state.Stack, ip+1)
		state.Registers[isa.REG_IP] = target - 1

	case assembler.INSTRUCTION_RET:
		value, ok := mc.pop()

		if !ok {
			mc.Log.WithField("ip", ip).Warn("Stack empty, cannot return")
			break
		}

		state.Registers[isa.REG_IP] = value

	case assembler.INSTRUCTION_MOVSB:
		if err := mc.movsb(); err != nil {
			return false, err
		}

	case assembler.INSTRUCTION_MOVSW:
		if err := mc.movsw(); err != nil {
			return false, err
		}

	case assembler.INSTRUCTION_CMPSB:
		if err := mc.cmpsb(); err != nil {
			return false, err
		}

	case assembler.INSTRUCTION_CMPSW:
		if err := mc.cmpsw(); err != nil {
			return false, err
		}

	case assembler.INSTRUCTION_STC:
		state.Flags[isa.FLAG_CF] = true

	case assembler.INSTRUCTION_CLC:
		state.Flags[isa.FLAG_CF] = false

	case assembler.INSTRUCTION_VOICE:
		mc.voice(instruction.Symbol)

	case assembler.INSTRUCTION_STATUS:
		status, err := mc.Devices.Panel.Query(instruction.Symbol)

		if err != nil {
			mc.Log.WithError(err).Warn("Status query failed")
		}

		mc.Devices.Panel.Show(status)

	case assembler.INSTRUCTION_CONFIG_TIMER:
		mc.Devices.Timer.Configure(instruction.Mode, uint16(instruction.Value))

	case assembler.INSTRUCTION_START_TIMER:
		mc.Devices.Timer.Start()

	case assembler.INSTRUCTION_STOP_TIMER:
		mc.Devices.Timer.Stop()

	case assembler.INSTRUCTION_TICK_TIMER:
		mc.tick()

	case assembler.INSTRUCTION_WRITE_CTRL:
		mc.portWrite("", uint8(instruction.Value))

	case assembler.INSTRUCTION_WRITE_PORT:
		mc.portWrite(instruction.Symbol, uint8(instruction.Value))

	case assembler.INSTRUCTION_READ_PORT:
		mc.portRead(instruction.Symbol)

	case assembler.INSTRUCTION_HLT:
		return false, nil

	default:
		panic("Unhandled instruction type")
	}

	return true, nil
}

func (mc *Machine) switchSegment(segment Segment) {
	mc.State.Segment = segment
	mc.Log.WithField("segment", segment).Info("Switched segment")
}

func (mc *Machine) pop() (uint16, bool) {
	stack := mc.State.Stack

	if len(stack) == 0 {
		return 0, false
	}

	value := stack[len(stack)-1]
	mc.State.Stack = stack[:len(stack)-1]

	return value, true
}

func (mc *Machine) voice(code string) {
	panel := mc.Devices.Panel
	action, exists := voiceCommands[code]

	if !exists {
		mc.Log.WithError(&peripheral.UnknownCommandError{Code: code}).Warn(
			"Voice command ignored",
		)
		panel.Show("Unknown Command")
		return
	}

	if err := panel.Control(action.Device, action.On); err != nil {
		mc.Log.WithError(err).Warn("Voice command failed")
		return
	}

	if action.On {
		panel.Show(action.Device + " ON")
	} else {
		panel.Show(action.Device + " OFF")
	}
}

// Certain counter values switch panel devices after a tick, whether or not
// the tick decremented the counter.
func (mc *Machine) tick() {
	mc.Devices.Timer.Tick()

	panel := mc.Devices.Panel

	var err error

	switch mc.Devices.Timer.Count() {
	case TICK_LED3_ON:
		err = panel.Control("LED3", true)
		mc.Log.Info("Fan3 turned OFF")
	case TICK_FAN3_ON:
		err = panel.Control("Fan3", true)
	case TICK_LED3_OFF:
		mc.Log.Info("LED3 turned OFF")
	}

	if err != nil {
		mc.Log.WithError(err).Warn("Timer device update failed")
	}
}

// An empty port selects the control register
func (mc *Machine) selectPort(port string) bool {
	a1, a0 := uint8(1), uint8(1)

	if port != "" {
		var err error

		if a1, a0, err = peripheral.PortAddress(port); err != nil {
			mc.Log.WithError(err).Warn("Port access ignored")
			return false
		}
	}

	if err := mc.Devices.Parallel.SetAddress(a1, a0); err != nil {
		mc.Log.WithError(err).Warn("Port access ignored")
		return false
	}

	return true
}

func (mc *Machine) portWrite(port string, value uint8) {
	if !mc.selectPort(port) {
		return
	}

	parallel := mc.Devices.Parallel
	parallel.SetControlLines(true, false, false)

	if err := parallel.Write(value); err != nil {
		mc.Log.WithError(err).Warn("Port write failed")
	}
}

func (mc *Machine) portRead(port string) {
	if !mc.selectPort(port) {
		return
	}

	parallel := mc.Devices.Parallel
	parallel.SetControlLines(false, true, false)

	if err := parallel.Read(); err != nil {
		mc.Log.WithError(err).Warn("Port read failed")
	}
}
