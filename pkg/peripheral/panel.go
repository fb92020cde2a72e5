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
	"fmt"

	"github.com/sirupsen/logrus"
)

var DeviceNames = []string{"LED1", "LED2", "LED3", "Fan1", "Fan2", "Fan3"}

type Device struct {
	Name     string
	On       bool
	Value    int
	HasValue bool
}

func (dev *Device) String() string {
	state := "OFF"
	if dev.On {
		state = "ON"
	}

	if dev.HasValue {
		return fmt.Sprintf("%s is %s with Value: %d", dev.Name, state, dev.Value)
	}

	return fmt.Sprintf("%s is %s", dev.Name, state)
}

// Panel is a set of switched devices and a one line display.
type Panel struct {
	Devices []Device
	Display string

	Log logrus.FieldLogger
}

func NewPanel(log logrus.FieldLogger) *Panel {
	panel := &Panel{Log: logger(log)}

	for _, name := range DeviceNames {
		panel.Devices = append(panel.Devices, Device{Name: name})
	}

	return panel
}

func (p *Panel) Device(name string) (*Device, error) {
	for i := range p.Devices {
		if p.Devices[i].Name == name {
			return &p.Devices[i], nil
		}
	}

	return nil, &UnknownDeviceError{name}
}

// Switches a device and clears any value it carried.
func (p *Panel) Control(name string, on bool) error {
	dev, err := p.Device(name)

	if err != nil {
		p.Log.Warn("Unknown device")
		return err
	}

	dev.On = on
	dev.Value = 0
	dev.HasValue = false

	p.Log.Info(statusLine(dev))

	return nil
}

func (p *Panel) ControlValue(name string, on bool, value int) error {
	dev, err := p.Device(name)

	if err != nil {
		p.Log.Warn("Unknown device")
		return err
	}

	dev.On = on
	dev.Value = value
	dev.HasValue = true

	p.Log.Info(statusLine(dev))

	return nil
}

func statusLine(dev *Device) string {
	line := dev.Name + " OFF"
	if dev.On {
		line = dev.Name + " ON"
	}

	if dev.HasValue {
		line += fmt.Sprintf(" (Value: %d)", dev.Value)
	}

	return line
}

// Renders the state of a device, or "Unknown Device".
func (p *Panel) Query(name string) (string, error) {
	dev, err := p.Device(name)

	if err != nil {
		return "Unknown Device", err
	}

	return dev.String(), nil
}

func (p *Panel) Show(message string) {
	p.Display = message
	p.Log.WithField("display", message).Info("Display updated")
}
