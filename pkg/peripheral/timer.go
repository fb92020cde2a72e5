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

// Counter is the state of one countdown channel. It is created stopped and
// only counts while Running; reaching zero stops it.
type Counter struct {
	Mode    uint8
	Initial uint16
	Value   uint16
	Running bool
}

func (c *Counter) configure(mode uint8, initial uint16) {
	c.Mode = mode
	c.Initial = initial
	c.Value = initial
	c.Running = false
}

func (c *Counter) start() bool {
	if c.Value > 0 {
		c.Running = true
	}

	return c.Running
}

func (c *Counter) tick() (ticked bool, expired bool) {
	if !c.Running || c.Value == 0 {
		return false, false
	}

	c.Value--

	if c.Value == 0 {
		c.Running = false
		return true, true
	}

	return true, false
}

// Timer is a single channel interval timer.
type Timer struct {
	Control uint8
	Counter

	Log logrus.FieldLogger
}

func NewTimer(log logrus.FieldLogger) *Timer {
	return &Timer{Log: logger(log)}
}

func (t *Timer) Configure(mode uint8, initial uint16) {
	t.configure(mode, initial)
	t.Log.WithFields(logrus.Fields{
		"mode":    mode,
		"initial": initial,
	}).Info("Timer configured")
}

func (t *Timer) Start() {
	if t.start() {
		t.Log.Info("Timer started")
	}
}

func (t *Timer) Stop() {
	t.Running = false
	t.Log.Info("Timer stopped")
}

func (t *Timer) Tick() {
	ticked, expired := t.tick()

	if ticked {
		t.Log.WithField("counter", t.Value).Info("Timer tick")
	}

	if expired {
		t.Log.Info("Timer reached zero")
	}
}

func (t *Timer) Count() uint16 {
	return t.Value
}

func (t *Timer) State() Counter {
	return t.Counter
}

// MultiTimer is a bank of independent channels sharing one control word.
// Every operation names its channel and fails on an index outside the bank.
type MultiTimer struct {
	Control  uint8
	Counters []Counter

	Log logrus.FieldLogger
}

func NewMultiTimer(channels int, log logrus.FieldLogger) *MultiTimer {
	return &MultiTimer{
		Counters: make([]Counter, channels),
		Log:      logger(log),
	}
}

func (t *MultiTimer) check(channel int) error {
	if channel < 0 || channel >= len(t.Counters) {
		return &InvalidChannelError{channel, len(t.Counters)}
	}

	return nil
}

func (t *MultiTimer) Configure(channel int, mode uint8, initial uint16) error {
	if err := t.check(channel); err != nil {
		return err
	}

	t.Counters[channel].configure(mode, initial)
	t.Log.WithFields(logrus.Fields{
		"counter": channel,
		"mode":    mode,
		"initial": initial,
	}).Info("Counter configured")

	return nil
}

func (t *MultiTimer) Start(channel int) error {
	if err := t.check(channel); err != nil {
		return err
	}

	if t.Counters[channel].start() {
		t.Log.WithField("counter", channel).Info("Counter started")
	}

	return nil
}

func (t *MultiTimer) Stop(channel int) error {
	if err := t.check(channel); err != nil {
		return err
	}

	t.Counters[channel].Running = false
	t.Log.WithField("counter", channel).Info("Counter stopped")

	return nil
}

func (t *MultiTimer) Tick(channel int) error {
	if err := t.check(channel); err != nil {
		return err
	}

	ticked, expired := t.Counters[channel].tick()
	entry := t.Log.WithField("counter", channel)

	if ticked {
		entry.WithField("value", t.Counters[channel].Value).Info("Counter tick")
	}

	if expired {
		entry.Info("Counter reached zero")
	}

	return nil
}

// Sets the control word for a channel and configures it in one step.
func (t *MultiTimer) WriteControl(channel int, mode uint8, initial uint16) error {
	if err := t.check(channel); err != nil {
		return err
	}

	t.Control = uint8(channel)<<6 | mode<<1 | 0x01
	t.Log.WithField("control", t.Control).Info("Control word set")

	return t.Configure(channel, mode, initial)
}

func (t *MultiTimer) ReadCounter(channel int) (uint16, error) {
	if err := t.check(channel); err != nil {
		return 0, err
	}

	return t.Counters[channel].Value, nil
}

// Loads a new initial count without touching the mode or running state.
func (t *MultiTimer) WriteCounter(channel int, value uint16) error {
	if err := t.check(channel); err != nil {
		return err
	}

	t.Counters[channel].Initial = value
	t.Counters[channel].Value = value
	t.Log.WithFields(logrus.Fields{
		"counter": channel,
		"initial": value,
	}).Info("Counter written")

	return nil
}

// Binds one channel of the bank so it can stand in for a single channel Timer.
func (t *MultiTimer) Channel(channel int) (*TimerChannel, error) {
	if err := t.check(channel); err != nil {
		return nil, err
	}

	return &TimerChannel{t, channel}, nil
}

// TimerChannel is a range-checked view of one MultiTimer channel.
type TimerChannel struct {
	timer   *MultiTimer
	channel int
}

// The bank can be resized after the view is bound, so failures are logged
// rather than dropped.
func (c *TimerChannel) report(err error) {
	if err != nil {
		c.timer.Log.WithError(err).Warn("Timer channel unavailable")
	}
}

func (c *TimerChannel) Configure(mode uint8, initial uint16) {
	c.report(c.timer.Configure(c.channel, mode, initial))
}

func (c *TimerChannel) Start() {
	c.report(c.timer.Start(c.channel))
}

func (c *TimerChannel) Stop() {
	c.report(c.timer.Stop(c.channel))
}

func (c *TimerChannel) Tick() {
	c.report(c.timer.Tick(c.channel))
}

func (c *TimerChannel) Count() uint16 {
	return c.State().Value
}

// Returns a zero Counter when the channel no longer exists
func (c *TimerChannel) State() Counter {
	if err := c.timer.check(c.channel); err != nil {
		return Counter{}
	}

	return c.timer.Counters[c.channel]
}

func (c *TimerChannel) Index() int {
	return c.channel
}
