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
	"github.com/sirupsen/logrus"
)

const IRQ_COUNT = 8

// The master line a slave controller is wired to
const IRQ_CASCADE = 2

// Controller keeps the request, in-service and mask registers of eight
// interrupt lines. It does not deliver interrupts anywhere; callers poll it.
type Controller struct {
	IRR uint8
	ISR uint8
	IMR uint8

	Priority [IRQ_COUNT]uint8
	Nested   int

	// Interrupt acknowledge line, high while an interrupt is being handled
	INTA bool

	Log logrus.FieldLogger
}

func NewController(log logrus.FieldLogger) *Controller {
	pic := &Controller{Log: logger(log)}

	for i := range pic.Priority {
		pic.Priority[i] = uint8(i)
	}

	return pic
}

func checkIRQ(irq int) error {
	if irq < 0 || irq >= IRQ_COUNT {
		return &InvalidIRQError{irq}
	}

	return nil
}

func (pic *Controller) Request(irq int) error {
	if err := checkIRQ(irq); err != nil {
		return err
	}

	pic.IRR |= 1 << irq
	pic.Log.WithField("irq", irq).Info("Interrupt requested")

	return nil
}

func (pic *Controller) Mask(irq int) error {
	if err := checkIRQ(irq); err != nil {
		return err
	}

	pic.IMR |= 1 << irq
	pic.Log.WithField("irq", irq).Info("Interrupt masked")

	return nil
}

func (pic *Controller) Unmask(irq int) error {
	if err := checkIRQ(irq); err != nil {
		return err
	}

	pic.IMR &^= 1 << irq
	pic.Log.WithField("irq", irq).Info("Interrupt unmasked")

	return nil
}

// Returns the first requested, unmasked line in priority order.
func (pic *Controller) Check() (int, bool) {
	for _, irq := range pic.Priority {
		if pic.IRR&(1<<irq) != 0 && pic.IMR&(1<<irq) == 0 {
			return int(irq), true
		}
	}

	return 0, false
}

func (pic *Controller) Acknowledge(irq int) error {
	if err := checkIRQ(irq); err != nil {
		return err
	}

	pic.IRR &^= 1 << irq
	pic.ISR |= 1 << irq
	pic.Nested++
	pic.Log.WithFields(logrus.Fields{
		"irq":    irq,
		"nested": pic.Nested,
	}).Info("Interrupt acknowledged")

	return nil
}

func (pic *Controller) EndOfInterrupt(irq int) error {
	if err := checkIRQ(irq); err != nil {
		return err
	}

	pic.ISR &^= 1 << irq
	pic.Nested--
	pic.Log.WithFields(logrus.Fields{
		"irq":    irq,
		"nested": pic.Nested,
	}).Info("End of interrupt")

	return nil
}

// Moves the highest priority line to the lowest position.
func (pic *Controller) RotatePriority() {
	first := pic.Priority[0]
	copy(pic.Priority[:], pic.Priority[1:])
	pic.Priority[IRQ_COUNT-1] = first
	pic.Log.WithField("priority", pic.Priority).Info("Priority rotated")
}

func (pic *Controller) SetINTA(value bool) {
	pic.INTA = value
}

// Pulses INTA around a priority scan and reports the line that would be
// serviced next.
func (pic *Controller) HandleInterrupt() (int, bool) {
	pic.SetINTA(true)
	irq, ok := pic.Check()
	pic.SetINTA(false)

	return irq, ok
}

// Master is a controller with a slave attached to its cascade line. A request
// on the cascade line is held in Cascade until serviced; any other request is
// acknowledged on the master immediately.
type Master struct {
	Controller *Controller
	Slave      *Controller
	Cascade    bool
}

func NewMaster(slave *Controller, log logrus.FieldLogger) *Master {
	return &Master{
		Controller: NewController(log),
		Slave:      slave,
	}
}

func (m *Master) Request(irq int) error {
	if err := checkIRQ(irq); err != nil {
		return err
	}

	if irq == IRQ_CASCADE {
		m.Cascade = true
		m.Controller.Log.Info("Cascade line raised, slave access pending")
		return nil
	}

	return m.Controller.Acknowledge(irq)
}

// Acknowledges irq on the slave when a cascade request is pending, otherwise
// on the master itself.
func (m *Master) Service(irq int) error {
	if err := checkIRQ(irq); err != nil {
		return err
	}

	if m.Cascade {
		m.Cascade = false
		m.Controller.Log.Info("Servicing cascade request on slave")
		return m.Slave.Acknowledge(irq)
	}

	return m.Controller.Acknowledge(irq)
}
