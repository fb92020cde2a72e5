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

package debugger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/go86/pkg/assembler"
	"github.com/lassandro/go86/pkg/debugger"
	"github.com/lassandro/go86/pkg/isa"
	"github.com/lassandro/go86/pkg/machine"
)

var testProgram = []string{
	"MOV AX 7",
	"MOV [10] AX",
	"loop: MOV BX [10]",
	"HLT",
}

func newTestDebugger(t *testing.T) (*debugger.Debugger, *machine.Machine, *bytes.Buffer) {
	log, _ := test.NewNullLogger()

	mc := machine.NewMachine(machine.DefaultConfig(), nil, log)
	mc.Load(testProgram)

	symtable := assembler.NewSymTable()
	_, errs := assembler.ParseSource(
		strings.NewReader(strings.Join(testProgram, "\n")), symtable,
	)
	require.Empty(t, errs)

	var out bytes.Buffer

	dbg := debugger.NewDebugger(&out)
	dbg.Source = testProgram
	dbg.SymTable = symtable

	mc.Debugger = dbg

	return dbg, mc, &out
}

func TestBreakpoint(t *testing.T) {
	dbg, mc, _ := newTestDebugger(t)

	var hits []uint16

	dbg.HandleBreak = func(dbg *debugger.Debugger, mc *machine.Machine) {
		hits = append(hits, mc.State.Registers[isa.REG_IP])
	}

	require.True(t, dbg.AddBreakpoint(2))
	require.NoError(t, mc.Run())

	assert.Equal(t, []uint16{2}, hits)
}

func TestBreakFlag(t *testing.T) {
	dbg, mc, _ := newTestDebugger(t)

	var hits []uint16

	dbg.Break = true
	dbg.HandleBreak = func(dbg *debugger.Debugger, mc *machine.Machine) {
		hits = append(hits, mc.State.Registers[isa.REG_IP])
		dbg.Break = false
	}

	require.NoError(t, mc.Run())

	assert.Equal(t, []uint16{1}, hits)
}

func TestWatchpoints(t *testing.T) {
	testCases := []struct {
		Type   debugger.WatchpointType
		Reads  int
		Writes int
	}{
		{debugger.ReadWatch, 1, 0},
		{debugger.WriteWatch, 0, 1},
		{debugger.ReadWriteWatch, 1, 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Type.String(), func(t *testing.T) {
			dbg, mc, _ := newTestDebugger(t)

			reads, writes := 0, 0

			dbg.HandleRead = func(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
				assert.Equal(t, uint16(10), addr)
				reads++
			}

			dbg.HandleWrite = func(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
				assert.Equal(t, uint16(10), addr)
				writes++
			}

			require.True(t, dbg.AddWatchpoint(10, testCase.Type))
			require.True(t, dbg.AddWatchpoint(11, debugger.ReadWriteWatch))
			require.NoError(t, mc.Run())

			assert.Equal(t, testCase.Reads, reads)
			assert.Equal(t, testCase.Writes, writes)
		})
	}
}

func TestAddRemove(t *testing.T) {
	dbg := debugger.NewDebugger(nil)

	assert.True(t, dbg.AddBreakpoint(4))
	assert.False(t, dbg.AddBreakpoint(4))
	assert.True(t, dbg.AddBreakpoint(5))

	assert.True(t, dbg.AddWatchpoint(4, debugger.ReadWatch))
	assert.False(t, dbg.AddWatchpoint(4, debugger.ReadWatch))
	assert.True(t, dbg.AddWatchpoint(4, debugger.WriteWatch))

	require.NoError(t, dbg.RemoveBreakpoint(0))
	assert.Equal(t, []debugger.Breakpoint{{5}}, dbg.Breakpoints)

	var indexErr *debugger.InvalidIndexError

	assert.ErrorAs(t, dbg.RemoveBreakpoint(1), &indexErr)
	assert.ErrorAs(t, dbg.RemoveWatchpoint(-1), &indexErr)

	require.NoError(t, dbg.RemoveWatchpoint(1))
	assert.Equal(
		t, []debugger.Watchpoint{{4, debugger.ReadWatch}}, dbg.Watchpoints,
	)
}

func TestResolve(t *testing.T) {
	dbg, mc, _ := newTestDebugger(t)

	testCases := []struct {
		Target string
		Want   uint16
	}{
		{"loop", 2},
		{"0x0A", 10},
		{"12", 12},
	}

	for _, testCase := range testCases {
		have, err := dbg.Resolve(testCase.Target, mc)

		if assert.NoError(t, err, testCase.Target) {
			assert.Equal(t, testCase.Want, have, testCase.Target)
		}
	}

	var targetErr *debugger.UnknownTargetError

	_, err := dbg.Resolve("nowhere", mc)
	assert.ErrorAs(t, err, &targetErr)

	// Without a symbol table only labels the machine has passed are known
	dbg.SymTable = nil

	_, err = dbg.Resolve("loop", mc)
	assert.ErrorAs(t, err, &targetErr)

	require.NoError(t, mc.Run())

	have, err := dbg.Resolve("loop", mc)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), have)
}

func TestPrintSource(t *testing.T) {
	dbg, _, out := newTestDebugger(t)

	dbg.PrintSource(1, 2, 5)

	assert.Equal(
		t,
		"  [0001] MOV [10] AX\n"+
			"> [0002] loop: MOV BX [10]\n"+
			"  [0003] HLT\n",
		out.String(),
	)

	out.Reset()
	dbg.PrintSource(9, 0, 1)
	assert.Equal(t, "No instruction found at 0009\n", out.String())

	out.Reset()
	dbg.Source = nil
	dbg.PrintSource(0, 0, 1)
	assert.Equal(t, "No source loaded\n", out.String())
}

func TestPrintMem(t *testing.T) {
	dbg, mc, out := newTestDebugger(t)

	mc.State.Memory[8] = 0xAB

	dbg.PrintMem(&mc.State, 8, 10)

	assert.Equal(
		t,
		"[0x08] 0xab 0x00 0x00 0x00 0x00 0x00 0x00 0x00 \n"+
			"[0x10] 0x00 0x00 \n",
		out.String(),
	)

	out.Reset()
	dbg.PrintMem(&mc.State, 300, 4)
	assert.Equal(t, "Address 300 out of range\n", out.String())
}

func TestPrintState(t *testing.T) {
	dbg, mc, out := newTestDebugger(t)

	require.NoError(t, mc.Run())

	dbg.PrintRegs(&mc.State)
	assert.Contains(t, out.String(), "AX: 0x0007")
	assert.Contains(t, out.String(), "BX: 0x0007")
	assert.Contains(t, out.String(), "IP: 0x0003")

	out.Reset()
	mc.State.Flags[isa.FLAG_ZF] = true
	dbg.PrintFlags(&mc.State)
	assert.Contains(t, out.String(), "ZF: 1")
	assert.Contains(t, out.String(), "CF: 0")

	out.Reset()
	dbg.PrintStack(&mc.State)
	assert.Equal(t, "Stack empty\n", out.String())

	out.Reset()
	mc.State.Stack = []uint16{3, 9}
	dbg.PrintStack(&mc.State)
	assert.Equal(t, "#0: 9\n#1: 3\n", out.String())

	out.Reset()
	mc.State.Data["b"] = 2
	mc.State.Data["a"] = 1
	dbg.PrintTables(&mc.State)
	assert.Equal(
		t,
		"Data segment:\n  a: 1\n  b: 2\nLabels:\n  loop: 2\nProcedures:\n",
		out.String(),
	)
}

func TestPrintDevices(t *testing.T) {
	dbg, mc, out := newTestDebugger(t)

	dbg.PrintDevices(mc.Devices)

	assert.Contains(t, out.String(), "Timer:")
	assert.Contains(t, out.String(), "Parallel:")
	assert.Contains(t, out.String(), "LED1 is OFF")

	out.Reset()
	dbg.PrintPIC(mc.Devices.PIC)
	assert.Contains(t, out.String(), "Master: IRR=00000000")
	assert.Contains(t, out.String(), "Cascade: false")

	out.Reset()
	dbg.PrintPIC(nil)
	assert.Equal(t, "No interrupt controller attached\n", out.String())
}
