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

package peripheral

import (
	"strings"

	"github.com/sirupsen/logrus"
)

type PortMode uint8

const (
	MODE_INPUT  PortMode = 0
	MODE_OUTPUT PortMode = 1
)

func (mode PortMode) String() string {
	switch mode {
	case MODE_INPUT:
		return "Input"
	case MODE_OUTPUT:
		return "Output"
	default:
		return "<invalid>"
	}
}

// ControlLines are active low: a line is asserted when false.
type ControlLines struct {
	RD    bool
	WR    bool
	CS    bool
	RESET bool
}

// Parallel is a three port interface selected by two address lines:
//
//	A1 A0
//	 0  0  Port A
//	 0  1  Port B
//	 1  0  Port C
//	 1  1  Control register
type Parallel struct {
	Control uint8
	PortA   uint8
	PortB   uint8
	PortC   uint8

	// A1, A0
	Address [2]uint8
	Lines   ControlLines
	Data    uint8

	Log logrus.FieldLogger
}

func NewParallel(log logrus.FieldLogger) *Parallel {
	return &Parallel{
		Lines: ControlLines{RD: true, WR: true, CS: true},
		Log:   logger(log),
	}
}

var portNames = [4]string{"Port A", "Port B", "Port C", "Control Register"}

// Maps a port letter to its address lines.
func PortAddress(port string) (a1 uint8, a0 uint8, err error) {
	switch strings.ToUpper(port) {
	case "A":
		return 0, 0, nil
	case "B":
		return 0, 1, nil
	case "C":
		return 1, 0, nil
	default:
		return 0, 0, &UnknownPortError{port}
	}
}

func (p *Parallel) register() *uint8 {
	switch p.Address[0]<<1 | p.Address[1] {
	case 0b00:
		return &p.PortA
	case 0b01:
		return &p.PortB
	case 0b10:
		return &p.PortC
	default:
		return &p.Control
	}
}

func (p *Parallel) registerName() string {
	return portNames[p.Address[0]<<1|p.Address[1]]
}

// Clears every register and raises RESET.
func (p *Parallel) Reset() {
	p.Control = 0x00
	p.PortA = 0x00
	p.PortB = 0x00
	p.PortC = 0x00
	p.Lines.RESET = true
	p.Log.Info("Chip reset. All ports set to 0.")
}

func (p *Parallel) SetAddress(a1, a0 uint8) error {
	if a1 > 1 || a0 > 1 {
		return &InvalidAddressError{a1, a0}
	}

	p.Address = [2]uint8{a1, a0}
	p.Log.WithFields(logrus.Fields{"A1": a1, "A0": a0}).Debug("Address lines set")

	return nil
}

func (p *Parallel) SetControlLines(rd, wr, cs bool) {
	p.Lines.RD = rd
	p.Lines.WR = wr
	p.Lines.CS = cs
	p.Log.WithFields(logrus.Fields{
		"RD": rd,
		"WR": wr,
		"CS": cs,
	}).Debug("Control lines set")
}

func (p *Parallel) SetData(data uint8) {
	p.Data = data
}

func (p *Parallel) DataLines() uint8 {
	return p.Data
}

// Latches data onto the data lines and stores it in the addressed register.
// Requires CS and WR both low.
func (p *Parallel) Write(data uint8) error {
	if p.Lines.CS || p.Lines.WR {
		return &SignalError{"Write", p.Lines}
	}

	p.SetData(data)
	*p.register() = p.Data

	p.Log.Infof("Data written to %s: %#02x", p.registerName(), p.Data)

	return nil
}

// Copies the addressed register onto the data lines. Requires CS and RD both
// low. The value is observed through DataLines.
func (p *Parallel) Read() error {
	if p.Lines.CS || p.Lines.RD {
		return &SignalError{"Read", p.Lines}
	}

	p.SetData(*p.register())

	p.Log.Infof("Data read from %s: %#02x", p.registerName(), p.Data)

	return nil
}

// Derives the two-bit mode field of each port from the control register:
// bits 0-1 port A, 2-3 port B, 4-5 port C.
func (p *Parallel) ConfigurePorts() ([3]PortMode, error) {
	var modes [3]PortMode

	for i, port := range []string{"A", "B", "C"} {
		mode := (p.Control >> (2 * i)) & 0x03

		if mode > uint8(MODE_OUTPUT) {
			return modes, &InvalidModeError{port, mode}
		}

		modes[i] = PortMode(mode)
		p.Log.Infof("Port %s set to %s mode.", port, modes[i])
	}

	return modes, nil
}
