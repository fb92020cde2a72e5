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

const MEMORY_SIZE = 256

// Channel driven by the timer opcodes when a multi-channel timer is attached
const DEFAULT_TIMER_CHANNEL = 0

// Counter values checked after every TICK_TIMER
const (
	TICK_LED3_ON  uint16 = 3
	TICK_FAN3_ON  uint16 = 5
	TICK_LED3_OFF uint16 = 2
)

const (
	SEGMENT_NONE Segment = iota
	SEGMENT_CODE
	SEGMENT_DATA
	SEGMENT_STACK
)

type voiceAction struct {
	Device string
	On     bool
}

var voiceCommands = map[string]voiceAction{
	"01": {"LED1", true},
	"02": {"LED1", false},
	"03": {"LED2", true},
	"04": {"LED2", false},
	"05": {"Fan1", true},
	"06": {"Fan1", false},
	"07": {"Fan2", true},
	"08": {"Fan2", false},
	"09": {"LED3", true},
	"10": {"LED3", false},
	"11": {"Fan3", true},
	"12": {"Fan3", false},
}
