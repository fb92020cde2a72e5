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
	"bufio"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/lassandro/go86/pkg/assembler"
	"github.com/lassandro/go86/pkg/isa"
	"github.com/lassandro/go86/pkg/peripheral"
)

// Builds the default peripheral set. Missing devices in an existing handler
// are filled in the same way.
func NewDevices(cfg Config, log logrus.FieldLogger) *DeviceHandler {
	var devices DeviceHandler
	devices.complete(cfg, log)
	return &devices
}

func (devices *DeviceHandler) complete(cfg Config, log logrus.FieldLogger) {
	if devices.Timer == nil {
		if cfg.TimerChannels > 0 {
			timer := peripheral.NewMultiTimer(cfg.TimerChannels, log)

			channel, err := timer.Channel(DEFAULT_TIMER_CHANNEL)

			if err != nil {
				panic(err)
			}

			devices.Timer = channel
		} else {
			devices.Timer = peripheral.NewTimer(log)
		}
	}

	if devices.Parallel == nil {
		devices.Parallel = peripheral.NewParallel(log)
	}

	if devices.Panel == nil {
		devices.Panel = peripheral.NewPanel(log)
	}

	if devices.PIC == nil {
		devices.PIC = peripheral.NewMaster(peripheral.NewController(log), log)
	}
}

func NewMachine(cfg Config, devices *DeviceHandler, log logrus.FieldLogger) *Machine {
	if log == nil {
		log = logrus.StandardLogger()
	}

	if cfg.MemorySize <= 0 {
		cfg.MemorySize = MEMORY_SIZE
	}

	if devices == nil {
		devices = NewDevices(cfg, log)
	} else {
		devices.complete(cfg, log)
	}

	mc := &Machine{Config: cfg, Devices: devices, Log: log}
	mc.State.Reset(cfg.MemorySize)

	return mc
}

func (state *MachineState) Reset(memorySize int) {
	for i := range state.Registers {
		state.Registers[i] = 0x0000
		state.Negative[i] = false
	}

	for i := range state.Flags {
		state.Flags[i] = false
	}

	if len(state.Memory) != memorySize {
		state.Memory = make([]byte, memorySize)
	} else {
		for i := range state.Memory {
			state.Memory[i] = 0x00
		}
	}

	state.Data = make(map[string]int64)
	state.Labels = make(map[string]uint16)
	state.Procedures = make(map[string]uint16)
	state.Stack = nil
	state.Segment = SEGMENT_NONE
}

// Clears all machine state and pre-loads the data segment of the current
// program so code can reference data declared further down.
func (mc *Machine) Reset() {
	if mc.Log == nil {
		mc.Log = logrus.StandardLogger()
	}

	if mc.Config.MemorySize <= 0 {
		mc.Config.MemorySize = MEMORY_SIZE
	}

	if mc.Devices == nil {
		mc.Devices = NewDevices(mc.Config, mc.Log)
	} else {
		mc.Devices.complete(mc.Config, mc.Log)
	}

	mc.State.Reset(mc.Config.MemorySize)

	for label, value := range assembler.ScanData(mc.Program) {
		mc.State.Data[label] = value
	}
}

func (mc *Machine) Load(lines []string) {
	mc.Source = lines
	mc.Program = make([]assembler.Instruction, len(lines))
	mc.faults = make([]error, len(lines))

	for i, line := range lines {
		mc.Program[i], mc.faults[i] = assembler.ParseLine(line, i+1)
	}

	mc.Reset()
}

func (mc *Machine) LoadSource(reader io.Reader) error {
	var lines []string

	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	mc.Load(lines)

	return nil
}

func (mc *Machine) Fetch(ip uint16) (assembler.Instruction, error) {
	if int(ip) >= len(mc.Program) {
		return assembler.Instruction{}, &DecodeError{
			ip, fmt.Errorf("IP beyond program of %d lines", len(mc.Program)),
		}
	}

	if mc.faults != nil && mc.faults[ip] != nil {
		return mc.Program[ip], &DecodeError{ip, mc.faults[ip]}
	}

	return mc.Program[ip], nil
}

// Executes the instruction at IP. Returns false once the machine halts, either
// on HLT or when IP runs past the end of the program.
func (mc *Machine) Step() (bool, error) {
	ip := mc.State.Registers[isa.REG_IP]

	if int(ip) >= len(mc.Program) {
		mc.Log.WithField("ip", ip).Info("IP beyond program, stopping")
		return false, nil
	}

	instruction, err := mc.Fetch(ip)

	if err != nil {
		return false, err
	}

	if instruction.Type == assembler.INSTRUCTION_HLT && instruction.Label == "" {
		mc.Log.WithField("ip", ip).Info("Halted")
		return false, nil
	}

	running, err := mc.Execute(&instruction)

	if err != nil {
		return false, err
	}

	if !running {
		mc.Log.WithField("ip", ip).Info("Halted")
		return false, nil
	}

	mc.State.Registers[isa.REG_IP]++

	mc.trace(ip, &instruction)

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return true, nil
}

func (mc *Machine) Run() error {
	for {
		running, err := mc.Step()

		if err != nil {
			mc.Log.WithError(err).Error("Execution stopped")
			return err
		}

		if !running {
			return nil
		}
	}
}

func (mc *Machine) trace(ip uint16, instruction *assembler.Instruction) {
	fields := logrus.Fields{
		"ip":          ip,
		"instruction": instruction.Text,
	}

	for _, reg := range isa.Registers() {
		fields[reg.String()] = mc.State.Registers[reg]
	}

	for _, flag := range isa.Flags() {
		fields[flag.String()] = mc.State.Flags[flag]
	}

	mc.Log.WithFields(fields).Debug("step")
}

func (mc *Machine) read(addr uint16) (uint8, error) {
	if int(addr) >= len(mc.State.Memory) {
		return 0, &AddressingError{
			mc.State.Registers[isa.REG_IP],
			fmt.Sprintf("[%d]", addr),
			fmt.Sprintf("address out of range (0-%d)", len(mc.State.Memory)-1),
		}
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr], nil
}

func (mc *Machine) write(addr uint16, value uint8) error {
	if int(addr) >= len(mc.State.Memory) {
		return &AddressingError{
			mc.State.Registers[isa.REG_IP],
			fmt.Sprintf("[%d]", addr),
			fmt.Sprintf("address out of range (0-%d)", len(mc.State.Memory)-1),
		}
	}

	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}

	return nil
}
