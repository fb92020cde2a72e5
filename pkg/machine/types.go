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
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lassandro/go86/pkg/assembler"
	"github.com/lassandro/go86/pkg/isa"
	"github.com/lassandro/go86/pkg/peripheral"
)

type Segment uint8

func (seg Segment) String() string {
	switch seg {
	case SEGMENT_CODE:
		return "Code"
	case SEGMENT_DATA:
		return "Data"
	case SEGMENT_STACK:
		return "Stack"
	default:
		return "<none>"
	}
}

// Implemented by *peripheral.Timer and *peripheral.TimerChannel
type Timer interface {
	Configure(mode uint8, initial uint16)
	Start()
	Stop()
	Tick()
	Count() uint16
	State() peripheral.Counter
}

type ParallelPort interface {
	SetAddress(a1, a0 uint8) error
	SetControlLines(rd, wr, cs bool)
	Write(data uint8) error
	Read() error
	DataLines() uint8
}

type Panel interface {
	Control(name string, on bool) error
	Query(name string) (string, error)
	Show(message string)
}

type DeviceHandler struct {
	Timer    Timer
	Parallel ParallelPort
	Panel    Panel

	// Standalone bookkeeping device, never consulted by the fetch loop
	PIC *peripheral.Master
}

type Config struct {
	MemorySize int

	// 0 attaches a single channel timer
	TimerChannels int
}

func DefaultConfig() Config {
	return Config{MemorySize: MEMORY_SIZE}
}

type MachineState struct {
	Registers [isa.REGISTER_COUNT]uint16
	Flags     [isa.FLAG_COUNT]bool
	Memory    []byte

	// Set while a register holds a value produced from a negative number
	Negative [isa.REGISTER_COUNT]bool

	Data       map[string]int64
	Labels     map[string]uint16
	Procedures map[string]uint16

	Stack   []uint16
	Segment Segment
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
}

type Machine struct {
	Config   Config
	Devices  *DeviceHandler
	State    MachineState
	Debugger MachineDebugger

	Source  []string
	Program []assembler.Instruction

	Log logrus.FieldLogger

	// Parse failures by IP, reported when the line is fetched
	faults []error
}

type AddressingError struct {
	IP      uint16
	Operand string
	Reason  string
}

func (err *AddressingError) Error() string {
	return fmt.Sprintf(
		"%04d: Cannot resolve operand '%s': %s", err.IP, err.Operand, err.Reason,
	)
}

type DecodeError struct {
	IP  uint16
	Err error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("%04d: Cannot decode instruction: %v", err.IP, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}
