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

// Package peripheral models the register protocols of the devices hung off the
// processor: an interval timer, a three-port parallel interface, a cascadable
// interrupt controller and a small panel of switched devices.
package peripheral

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

func logger(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}

	return log
}

type InvalidChannelError struct {
	Channel int
	Count   int
}

func (err *InvalidChannelError) Error() string {
	return fmt.Sprintf(
		"Invalid counter number %d, must be 0 to %d", err.Channel, err.Count-1,
	)
}

type InvalidIRQError struct {
	IRQ int
}

func (err *InvalidIRQError) Error() string {
	return fmt.Sprintf("Invalid IRQ number %d (0-7)", err.IRQ)
}

type InvalidAddressError struct {
	A1 uint8
	A0 uint8
}

func (err *InvalidAddressError) Error() string {
	return fmt.Sprintf("Invalid address lines A1=%d, A0=%d", err.A1, err.A0)
}

// SignalError reports a read or write attempted without chip-select and the
// matching enable line both asserted.
type SignalError struct {
	Operation string
	Lines     ControlLines
}

func (err *SignalError) Error() string {
	return fmt.Sprintf(
		"%s operation failed: Control signals not valid (RD=%t, WR=%t, CS=%t)",
		err.Operation,
		err.Lines.RD,
		err.Lines.WR,
		err.Lines.CS,
	)
}

type InvalidModeError struct {
	Port string
	Mode uint8
}

func (err *InvalidModeError) Error() string {
	return fmt.Sprintf("Invalid mode %d for port %s", err.Mode, err.Port)
}

type UnknownPortError struct {
	Port string
}

func (err *UnknownPortError) Error() string {
	return fmt.Sprintf("Invalid port specified '%s'", err.Port)
}

type UnknownDeviceError struct {
	Device string
}

func (err *UnknownDeviceError) Error() string {
	return fmt.Sprintf("Unknown device '%s'", err.Device)
}

type UnknownCommandError struct {
	Code string
}

func (err *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown voice command '%s'", err.Code)
}
