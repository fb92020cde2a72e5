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

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/go86/pkg/peripheral"
)

func TestController_Request(t *testing.T) {
	assert := assert.New(t)
	log, _ := test.NewNullLogger()

	pic := peripheral.NewController(log)
	assert.NoError(pic.Request(3))
	assert.Equal(uint8(1<<3), pic.IRR)

	var irqErr *peripheral.InvalidIRQError
	assert.ErrorAs(pic.Request(8), &irqErr)
	assert.ErrorAs(pic.Request(-1), &irqErr)
	assert.ErrorAs(pic.Mask(8), &irqErr)
	assert.ErrorAs(pic.Acknowledge(9), &irqErr)
	assert.Equal(uint8(1<<3), pic.IRR)
}

func TestController_CheckSkipsMasked(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	log, _ := test.NewNullLogger()

	pic := peripheral.NewController(log)
	require.NoError(pic.Request(1))
	require.NoError(pic.Request(4))
	require.NoError(pic.Mask(1))

	irq, ok := pic.Check()
	assert.True(ok)
	assert.Equal(4, irq)

	require.NoError(pic.Mask(4))

	_, ok = pic.Check()
	assert.False(ok)

	require.NoError(pic.Unmask(1))

	irq, ok = pic.Check()
	assert.True(ok)
	assert.Equal(1, irq)
}

func TestController_CheckNone(t *testing.T) {
	log, _ := test.NewNullLogger()

	pic := peripheral.NewController(log)
	_, ok := pic.Check()

	assert.False(t, ok)
}

func TestController_AcknowledgeAndEnd(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	log, _ := test.NewNullLogger()

	pic := peripheral.NewController(log)
	require.NoError(pic.Request(5))

	before := pic.Nested

	require.NoError(pic.Acknowledge(5))
	assert.Equal(uint8(0), pic.IRR&(1<<5))
	assert.Equal(uint8(1<<5), pic.ISR&(1<<5))
	assert.Equal(before+1, pic.Nested)

	require.NoError(pic.EndOfInterrupt(5))
	assert.Equal(uint8(0), pic.ISR)
	assert.Equal(before, pic.Nested)
}

func TestController_RotatePriority(t *testing.T) {
	assert := assert.New(t)
	log, _ := test.NewNullLogger()

	pic := peripheral.NewController(log)
	original := pic.Priority

	pic.RotatePriority()
	assert.Equal([8]uint8{1, 2, 3, 4, 5, 6, 7, 0}, pic.Priority)

	for i := 1; i < 8; i++ {
		pic.RotatePriority()
	}

	assert.Equal(original, pic.Priority)
}

func TestController_PriorityOrder(t *testing.T) {
	assert := assert.New(t)
	log, _ := test.NewNullLogger()

	pic := peripheral.NewController(log)
	assert.NoError(pic.Request(0))
	assert.NoError(pic.Request(6))

	pic.RotatePriority()

	irq, ok := pic.Check()
	assert.True(ok)
	assert.Equal(6, irq)
}

func TestController_HandleInterrupt(t *testing.T) {
	assert := assert.New(t)
	log, _ := test.NewNullLogger()

	pic := peripheral.NewController(log)
	assert.NoError(pic.Request(2))

	irq, ok := pic.HandleInterrupt()
	assert.True(ok)
	assert.Equal(2, irq)
	assert.False(pic.INTA)
}

func TestMaster_Cascade(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	log, _ := test.NewNullLogger()

	slave := peripheral.NewController(log)
	master := peripheral.NewMaster(slave, log)

	require.NoError(master.Request(peripheral.IRQ_CASCADE))
	assert.True(master.Cascade)
	assert.Equal(uint8(0), master.Controller.ISR)
	assert.Equal(0, master.Controller.Nested)

	require.NoError(master.Service(4))
	assert.False(master.Cascade)
	assert.Equal(uint8(1<<4), slave.ISR)
	assert.Equal(1, slave.Nested)
	assert.Equal(uint8(0), master.Controller.ISR)
}

func TestMaster_Direct(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	log, _ := test.NewNullLogger()

	slave := peripheral.NewController(log)
	master := peripheral.NewMaster(slave, log)

	// Non-cascade requests are acknowledged on the master straight away
	require.NoError(master.Request(5))
	assert.Equal(uint8(1<<5), master.Controller.ISR)
	assert.False(master.Cascade)

	require.NoError(master.Service(3))
	assert.Equal(uint8(1<<5|1<<3), master.Controller.ISR)
	assert.Equal(uint8(0), slave.ISR)

	var irqErr *peripheral.InvalidIRQError
	assert.ErrorAs(master.Request(8), &irqErr)
}

func TestMaster_ServiceInvalidKeepsCascade(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	log, _ := test.NewNullLogger()

	slave := peripheral.NewController(log)
	master := peripheral.NewMaster(slave, log)

	require.NoError(master.Request(peripheral.IRQ_CASCADE))

	var irqErr *peripheral.InvalidIRQError
	assert.ErrorAs(master.Service(9), &irqErr)
	assert.True(master.Cascade)
	assert.Equal(uint8(0), slave.ISR)

	require.NoError(master.Service(3))
	assert.False(master.Cascade)
	assert.Equal(uint8(1<<3), slave.ISR)
}
