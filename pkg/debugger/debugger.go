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

package debugger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/lassandro/go86/pkg/encoding"
	"github.com/lassandro/go86/pkg/isa"
	"github.com/lassandro/go86/pkg/machine"
	"github.com/lassandro/go86/pkg/peripheral"
)

func NewDebugger(out io.Writer) *Debugger {
	if out == nil {
		out = os.Stdout
	}

	return &Debugger{Out: out}
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.HandleBreak == nil {
		return
	}

	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Registers[isa.REG_IP] == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	if dbg.HandleRead == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	if dbg.HandleWrite == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// Returns false if the breakpoint already exists
func (dbg *Debugger) AddBreakpoint(addr uint16) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})

	return true
}

func (dbg *Debugger) RemoveBreakpoint(i int) error {
	if i < 0 || i >= len(dbg.Breakpoints) {
		return &InvalidIndexError{i, len(dbg.Breakpoints)}
	}

	dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
	dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]

	return nil
}

// Returns false if an identical watchpoint already exists
func (dbg *Debugger) AddWatchpoint(addr uint16, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{addr, wtype})

	return true
}

func (dbg *Debugger) RemoveWatchpoint(i int) error {
	if i < 0 || i >= len(dbg.Watchpoints) {
		return &InvalidIndexError{i, len(dbg.Watchpoints)}
	}

	dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
	dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]

	return nil
}

// Resolves a label, procedure, hex (0x##) or decimal IP. Labels come from the
// loaded symbol table first, then from those the machine has seen so far.
func (dbg *Debugger) Resolve(target string, mc *machine.Machine) (uint16, error) {
	if dbg.SymTable != nil {
		if ip, exists := dbg.SymTable.Labels[target]; exists {
			return ip, nil
		}

		if ip, exists := dbg.SymTable.Procedures[target]; exists {
			return ip, nil
		}
	}

	if mc != nil {
		if ip, exists := mc.State.Labels[target]; exists {
			return ip, nil
		}

		if ip, exists := mc.State.Procedures[target]; exists {
			return ip, nil
		}
	}

	if len(target) > 1 && (target[0:2] == "0x" || target[0:2] == "0X") {
		return encoding.DecodeHex(target)
	}

	if value, err := strconv.ParseUint(target, 10, 16); err == nil {
		return uint16(value), nil
	}

	return 0, &UnknownTargetError{target}
}

func (dbg *Debugger) bold(s string) string {
	if dbg.Color {
		return "\033[1m" + s + "\033[0m"
	}

	return s
}

func (dbg *Debugger) dim(s string) string {
	if dbg.Color {
		return "\033[1;30m" + s + "\033[0m"
	}

	return s
}

func (dbg *Debugger) Prompt() string {
	return dbg.dim("(dbg)") + " "
}

// Prints count program lines starting at ip, marking the line at current
func (dbg *Debugger) PrintSource(ip, current, count uint16) {
	if len(dbg.Source) == 0 {
		fmt.Fprintln(dbg.Out, "No source loaded")
		return
	}

	if int(ip) >= len(dbg.Source) {
		fmt.Fprintf(dbg.Out, "No instruction found at %04d\n", ip)
		return
	}

	for i := int(ip); i < int(ip)+int(count) && i < len(dbg.Source); i++ {
		marker := "  "
		if uint16(i) == current {
			marker = "> "
		}

		fmt.Fprintf(
			dbg.Out, "%s%s %s\n", marker, dbg.bold(fmt.Sprintf("[%04d]", i)), dbg.Source[i],
		)
	}
}

func (dbg *Debugger) PrintMem(state *machine.MachineState, addr, count uint16) {
	for i := int(addr); i < int(addr)+int(count); i++ {
		if i >= len(state.Memory) {
			if i == int(addr) {
				fmt.Fprintf(dbg.Out, "Address %d out of range", i)
			}
			break
		}

		if i == int(addr) {
			fmt.Fprintf(dbg.Out, "%s ", dbg.bold(fmt.Sprintf("[%#04x]", i)))
		} else if (i-int(addr))%8 == 0 {
			fmt.Fprintln(dbg.Out)
			fmt.Fprintf(dbg.Out, "%s ", dbg.bold(fmt.Sprintf("[%#04x]", i)))
		}

		value := fmt.Sprintf("0x%02x", state.Memory[i])

		if state.Memory[i] == 0 {
			value = dbg.dim(value)
		}

		fmt.Fprintf(dbg.Out, "%s ", value)
	}

	fmt.Fprintln(dbg.Out)
}

func (dbg *Debugger) PrintRegs(state *machine.MachineState) {
	for i, reg := range isa.Registers() {
		fmt.Fprintf(
			dbg.Out, "%s %#06x\t", dbg.bold(reg.String()+":"), state.Registers[reg],
		)

		if i%4 == 3 {
			fmt.Fprintln(dbg.Out)
		}
	}

	fmt.Fprintln(dbg.Out)
}

func (dbg *Debugger) PrintFlags(state *machine.MachineState) {
	for _, flag := range isa.Flags() {
		value := 0
		if state.Flags[flag] {
			value = 1
		}

		fmt.Fprintf(dbg.Out, "%s %d  ", dbg.bold(flag.String()+":"), value)
	}

	fmt.Fprintln(dbg.Out)
}

func (dbg *Debugger) PrintStack(state *machine.MachineState) {
	if len(state.Stack) == 0 {
		fmt.Fprintln(dbg.Out, "Stack empty")
		return
	}

	for i := len(state.Stack) - 1; i >= 0; i-- {
		fmt.Fprintf(dbg.Out, "#%d: %d\n", len(state.Stack)-1-i, state.Stack[i])
	}
}

func (dbg *Debugger) PrintTables(state *machine.MachineState) {
	printTable(dbg, "Data segment", state.Data)
	printTable(dbg, "Labels", state.Labels)
	printTable(dbg, "Procedures", state.Procedures)
}

func printTable[V int64 | uint16](dbg *Debugger, title string, table map[string]V) {
	fmt.Fprintln(dbg.Out, dbg.bold(title+":"))

	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(dbg.Out, "  %s: %d\n", key, table[key])
	}
}

func (dbg *Debugger) PrintDevices(devices *machine.DeviceHandler) {
	if devices == nil {
		fmt.Fprintln(dbg.Out, "No devices attached")
		return
	}

	if devices.Timer != nil {
		state := devices.Timer.State()
		fmt.Fprintf(
			dbg.Out,
			"%s mode=%d initial=%d counter=%d running=%t\n",
			dbg.bold("Timer:"),
			state.Mode,
			state.Initial,
			state.Value,
			state.Running,
		)
	}

	if ppi, ok := devices.Parallel.(*peripheral.Parallel); ok {
		fmt.Fprintf(
			dbg.Out,
			"%s ctrl=%#02x A=%#02x B=%#02x C=%#02x data=%#02x "+
				"A1=%d A0=%d RD=%t WR=%t CS=%t\n",
			dbg.bold("Parallel:"),
			ppi.Control,
			ppi.PortA,
			ppi.PortB,
			ppi.PortC,
			ppi.Data,
			ppi.Address[0],
			ppi.Address[1],
			ppi.Lines.RD,
			ppi.Lines.WR,
			ppi.Lines.CS,
		)
	}

	if panel, ok := devices.Panel.(*peripheral.Panel); ok {
		fmt.Fprintln(dbg.Out, dbg.bold("Panel:"))

		for i := range panel.Devices {
			fmt.Fprintf(dbg.Out, "  %s\n", panel.Devices[i].String())
		}

		fmt.Fprintf(dbg.Out, "  Display: %q\n", panel.Display)
	}
}

func (dbg *Debugger) PrintPIC(pic *peripheral.Master) {
	if pic == nil {
		fmt.Fprintln(dbg.Out, "No interrupt controller attached")
		return
	}

	print := func(name string, ctrl *peripheral.Controller) {
		fmt.Fprintf(
			dbg.Out,
			"%s IRR=%08b ISR=%08b IMR=%08b nested=%d priority=%v\n",
			dbg.bold(name+":"),
			ctrl.IRR,
			ctrl.ISR,
			ctrl.IMR,
			ctrl.Nested,
			ctrl.Priority,
		)
	}

	print("Master", pic.Controller)

	if pic.Slave != nil {
		print("Slave", pic.Slave)
	}

	fmt.Fprintf(dbg.Out, "%s %t\n", dbg.bold("Cascade:"), pic.Cascade)
}
