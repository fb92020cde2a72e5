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

package peripheral_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/lassandro/go86/pkg/peripheral"
)

func TestPanel_Control(t *testing.T) {
	assert := assert.New(t)
	log, hook := test.NewNullLogger()

	panel := peripheral.NewPanel(log)
	assert.Len(panel.Devices, 6)

	assert.NoError(panel.Control("Fan2", true))
	assert.Equal("Fan2 ON", hook.LastEntry().Message)

	status, err := panel.Query("Fan2")
	assert.NoError(err)
	assert.Equal("Fan2 is ON", status)

	assert.NoError(panel.ControlValue("LED1", true, 42))

	status, err = panel.Query("LED1")
	assert.NoError(err)
	assert.Equal("LED1 is ON with Value: 42", status)

	assert.NoError(panel.Control("LED1", false))

	status, _ = panel.Query("LED1")
	assert.Equal("LED1 is OFF", status)
}

func TestPanel_UnknownDevice(t *testing.T) {
	assert := assert.New(t)
	log, hook := test.NewNullLogger()

	panel := peripheral.NewPanel(log)

	var devErr *peripheral.UnknownDeviceError
	assert.ErrorAs(panel.Control("Lamp", true), &devErr)
	assert.Equal(logrus.WarnLevel, hook.LastEntry().Level)

	status, err := panel.Query("Lamp")
	assert.ErrorAs(err, &devErr)
	assert.Equal("Unknown Device", status)
}

func TestPanel_Show(t *testing.T) {
	log, _ := test.NewNullLogger()

	panel := peripheral.NewPanel(log)
	panel.Show("LED1 ON")

	assert.Equal(t, "LED1 ON", panel.Display)
}
