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
	"github.com/stretchr/testify/require"

	"github.com/lassandro/go86/pkg/peripheral"
)

func TestTimer_TickWhileStopped(t *testing.T) {
	assert := assert.New(t)
	log, _ := test.NewNullLogger()

	timer := peripheral.NewTimer(log)
	timer.Configure(1, 4)
	timer.Tick()

	assert.Equal(uint16(4), timer.Count())
	assert.False(timer.Running)
}

func TestTimer_CountsDownToZero(t *testing.T) {
	assert := assert.New(t)
	log, hook := test.NewNullLogger()

	const n = 5

	timer := peripheral.NewTimer(log)
	timer.Configure(2, n)
	timer.Start()
	assert.True(timer.Running)

	for i := 0; i < n-1; i++ {
		timer.Tick()
	}

	assert.True(timer.Running)
	assert.Equal(uint16(1), timer.Count())

	timer.Tick()

	assert.False(timer.Running)
	assert.Equal(uint16(0), timer.Count())
	assert.Equal("Timer reached zero", hook.LastEntry().Message)

	timer.Tick()
	assert.Equal(uint16(0), timer.Count())
}

func TestTimer_StartAtZero(t *testing.T) {
	log, _ := test.NewNullLogger()

	timer := peripheral.NewTimer(log)
	timer.Configure(0, 0)
	timer.Start()

	assert.False(t, timer.Running)
}

func TestTimer_ConfigureStops(t *testing.T) {
	assert := assert.New(t)
	log, _ := test.NewNullLogger()

	timer := peripheral.NewTimer(log)
	timer.Configure(1, 3)
	timer.Start()
	timer.Tick()
	timer.Configure(3, 7)

	state := timer.State()
	assert.False(state.Running)
	assert.Equal(uint16(7), state.Value)
	assert.Equal(uint16(7), state.Initial)
	assert.Equal(uint8(3), state.Mode)
}

func TestTimer_Stop(t *testing.T) {
	log, _ := test.NewNullLogger()

	timer := peripheral.NewTimer(log)
	timer.Configure(1, 3)
	timer.Start()
	timer.Stop()
	timer.Tick()

	assert.Equal(t, uint16(3), timer.Count())
}

func TestMultiTimer_ChannelRange(t *testing.T) {
	assert := assert.New(t)
	log, _ := test.NewNullLogger()

	timer := peripheral.NewMultiTimer(3, log)

	var channelErr *peripheral.InvalidChannelError

	assert.ErrorAs(timer.Configure(3, 0, 1), &channelErr)
	assert.ErrorAs(timer.Start(-1), &channelErr)
	assert.ErrorAs(timer.Stop(5), &channelErr)
	assert.ErrorAs(timer.Tick(3), &channelErr)
	assert.ErrorAs(timer.WriteCounter(3, 1), &channelErr)
	assert.ErrorAs(timer.WriteControl(3, 1, 1), &channelErr)

	_, err := timer.ReadCounter(9)
	assert.ErrorAs(err, &channelErr)

	_, err = timer.Channel(3)
	assert.ErrorAs(err, &channelErr)
}

func TestMultiTimer_IndependentChannels(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	log, _ := test.NewNullLogger()

	timer := peripheral.NewMultiTimer(3, log)

	require.NoError(timer.Configure(0, 2, 10))
	require.NoError(timer.Configure(1, 2, 3))
	require.NoError(timer.Start(0))
	require.NoError(timer.Start(1))

	for i := 0; i < 3; i++ {
		require.NoError(timer.Tick(1))
	}

	value, err := timer.ReadCounter(0)
	require.NoError(err)
	assert.Equal(uint16(10), value)
	assert.True(timer.Counters[0].Running)

	value, err = timer.ReadCounter(1)
	require.NoError(err)
	assert.Equal(uint16(0), value)
	assert.False(timer.Counters[1].Running)
}

func TestMultiTimer_WriteControl(t *testing.T) {
	assert := assert.New(t)
	log, _ := test.NewNullLogger()

	timer := peripheral.NewMultiTimer(3, log)

	assert.NoError(timer.WriteControl(2, 3, 50))
	assert.Equal(uint8(2<<6|3<<1|1), timer.Control)
	assert.Equal(uint16(50), timer.Counters[2].Value)
	assert.Equal(uint8(3), timer.Counters[2].Mode)

	assert.NoError(timer.WriteCounter(2, 8))
	assert.Equal(uint16(8), timer.Counters[2].Initial)
	assert.Equal(uint16(8), timer.Counters[2].Value)
	assert.Equal(uint8(3), timer.Counters[2].Mode)
}

func TestMultiTimer_Channel(t *testing.T) {
	assert := assert.New(t)
	log, _ := test.NewNullLogger()

	timer := peripheral.NewMultiTimer(3, log)
	channel, err := timer.Channel(1)
	assert.NoError(err)
	assert.Equal(1, channel.Index())

	channel.Configure(1, 2)
	channel.Start()
	channel.Tick()

	assert.Equal(uint16(1), channel.Count())
	assert.True(channel.State().Running)
	assert.Equal(uint16(0), timer.Counters[0].Value)

	channel.Stop()
	assert.False(timer.Counters[1].Running)
}

func TestMultiTimer_ChannelRemoved(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	log, hook := test.NewNullLogger()

	timer := peripheral.NewMultiTimer(3, log)
	channel, err := timer.Channel(2)
	require.NoError(err)

	timer.Counters = timer.Counters[:2]
	hook.Reset()

	channel.Configure(1, 5)
	channel.Start()
	channel.Tick()
	channel.Stop()

	assert.Equal(uint16(0), channel.Count())
	assert.False(channel.State().Running)
	require.Len(hook.AllEntries(), 4)

	var channelErr *peripheral.InvalidChannelError
	for _, entry := range hook.AllEntries() {
		assert.Equal(logrus.WarnLevel, entry.Level)
		assert.Equal("Timer channel unavailable", entry.Message)
		assert.ErrorAs(entry.Data[logrus.ErrorKey].(error), &channelErr)
	}
}
