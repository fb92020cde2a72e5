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

package main

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lassandro/go86/pkg/debugger"
	"github.com/lassandro/go86/pkg/encoding"
	"github.com/lassandro/go86/pkg/isa"
	"github.com/lassandro/go86/pkg/machine"
	"github.com/lassandro/go86/pkg/peripheral"
)

var lastcmd []string

// Accepts 0x## hex or signed decimal
func parseValue(s string) (uint16, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return encoding.DecodeHex(s)
	}

	return encoding.DecodeInt(s)
}

func parseCount(s string) (uint16, error) {
	value, err := strconv.ParseUint(s, 10, 16)
	return uint16(value), err
}

func indexFormat(count int, suffix string) string {
	digits := math.Floor(math.Log10(float64(count + 1)))
	return fmt.Sprintf("#%%0%dd: %s\n", int64(digits)+1, suffix)
}

func debugBreak(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [0x####|#|label]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := dbg.Resolve(args[0], mc)

		if err != nil {
			log.Println(err)
			return
		}

		if dbg.AddBreakpoint(addr) {
			fmt.Printf("Breakpoint added [%04d]\n", addr)
		}

	case "l", "ls", "list":
		fmtstring := indexFormat(len(dbg.Breakpoints), "%04d")

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if err := dbg.RemoveBreakpoint(i); err != nil {
			log.Println(err)
			return
		}

		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		log.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [0x##|#] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := parseValue(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		if dbg.AddWatchpoint(addr, wtype) {
			fmt.Printf("Watchpoint added [%#04x] (%s)\n", addr, wtype)
		}

	case "l", "ls", "list":
		fmtstring := indexFormat(len(dbg.Watchpoints), "%#04x %s")

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchpoint.Type)
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if err := dbg.RemoveWatchpoint(i); err != nil {
			log.Println(err)
			return
		}

		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = nil
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func debugReg(dbg *debugger.Debugger, state *machine.MachineState, args []string) {
	const usage = "register [AX..SS] [value]"

	if len(args) == 0 {
		dbg.PrintRegs(state)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	reg, ok := isa.ParseRegister(args[0])

	if !ok {
		log.Println("Invalid register")
		return
	}

	value, err := parseValue(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	state.Registers[reg] = value
	state.Negative[reg] = false
	fmt.Printf("%s: %#06x\n", reg, value)
}

func debugFlags(dbg *debugger.Debugger, state *machine.MachineState, args []string) {
	const usage = "flags [CF..IF] [0|1]"

	if len(args) == 0 {
		dbg.PrintFlags(state)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	flag, ok := isa.ParseFlag(args[0])

	if !ok {
		log.Println("Invalid flag")
		return
	}

	switch args[1] {
	case "0":
		state.Flags[flag] = false
	case "1":
		state.Flags[flag] = true
	default:
		log.Println(usage)
		return
	}

	fmt.Printf("%s: %s\n", flag, args[1])
}

func debugSource(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "source [0x####|#|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	ip := mc.State.Registers[isa.REG_IP]
	addr := ip
	var size uint16 = 5

	if len(args) > 0 {
		var err error

		if addr, err = dbg.Resolve(args[0], mc); err != nil {
			log.Println(err)
			return
		}
	}

	if len(args) > 1 {
		var err error

		if size, err = parseCount(args[1]); err != nil {
			log.Println(err)
			return
		}
	}

	dbg.PrintSource(addr, ip, size)
}

func debugLabels(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	if len(args) > 0 {
		log.Println("labels")
		return
	}

	labels := mc.State.Labels

	if dbg.SymTable != nil {
		labels = dbg.SymTable.Labels
	}

	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return labels[names[i]] < labels[names[j]]
	})

	for _, name := range names {
		fmt.Printf("[%04d] %s\n", labels[name], name)
	}
}

func debugJump(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "jump [0x####|#|label]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	addr, err := dbg.Resolve(args[0], mc)

	if err != nil {
		log.Println(err)
		return
	}

	mc.State.Registers[isa.REG_IP] = addr
	fmt.Printf("IP: %04d\n", addr)
}

func debugMemory(dbg *debugger.Debugger, state *machine.MachineState, args []string) {
	const usage = "memory [0x##|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var addr uint16
	var size uint16 = 16
	var err error

	if len(args) > 0 {
		if addr, err = parseValue(args[0]); err != nil {
			log.Println(err)
			return
		}
	}

	if len(args) > 1 {
		if size, err = parseCount(args[1]); err != nil {
			log.Println(err)
			return
		}
	}

	dbg.PrintMem(state, addr, size)
}

func debugSet(dbg *debugger.Debugger, state *machine.MachineState, args []string) {
	const usage = "set [0x##|#] [0x##]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := parseValue(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	if int(addr) >= len(state.Memory) {
		log.Printf("Address %d out of range\n", addr)
		return
	}

	value, err := encoding.DecodeByte(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	state.Memory[addr] = value
	dbg.PrintMem(state, addr, 1)
}

func debugPIC(dbg *debugger.Debugger, pic *peripheral.Master, args []string) {
	const usage = "pic [request|mask|unmask|ack|eoi|service #|check|rotate|show]"

	if len(args) == 0 {
		args = append(args, "show")
	}

	cmd := args[0]
	args = args[1:]

	var irq int

	switch cmd {
	case "request", "mask", "unmask", "ack", "eoi", "service":
		if len(args) != 1 {
			log.Println(usage)
			return
		}

		var err error

		if irq, err = strconv.Atoi(args[0]); err != nil {
			log.Println(err)
			return
		}
	}

	var err error

	switch cmd {
	case "request":
		err = pic.Request(irq)
	case "mask":
		err = pic.Controller.Mask(irq)
	case "unmask":
		err = pic.Controller.Unmask(irq)
	case "ack":
		err = pic.Controller.Acknowledge(irq)
	case "eoi":
		err = pic.Controller.EndOfInterrupt(irq)
	case "service":
		err = pic.Service(irq)
	case "check":
		if pending, ok := pic.Controller.Check(); ok {
			fmt.Printf("IRQ %d pending\n", pending)
		} else {
			fmt.Println("No interrupt pending")
		}
	case "rotate":
		pic.Controller.RotatePriority()
	case "show":
	default:
		log.Println(usage)
		return
	}

	if err != nil {
		log.Println(err)
		return
	}

	dbg.PrintPIC(pic)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	exitRawTerm()

	for {
		fmt.Print(dbg.Prompt())

		line, err := stdin.ReadString('\n')

		if err != nil {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(line)

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, mc, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, &mc.State, args)

		case "f", "flag", "flags":
			debugFlags(dbg, &mc.State, args)

		case "s", "src", "source":
			debugSource(dbg, mc, args)

		case "l", "label", "labels":
			debugLabels(dbg, mc, args)

		case "j", "jmp", "jump":
			debugJump(dbg, mc, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "stack":
			dbg.PrintStack(&mc.State)

		case "tables":
			dbg.PrintTables(&mc.State)

		case "pic":
			debugPIC(dbg, mc.Devices.PIC, args)

		case "d", "dev", "devices":
			dbg.PrintDevices(mc.Devices)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			mc.Reset()
			fmt.Println("Machine reset")

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	ip := mc.State.Registers[isa.REG_IP]

	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
	}

	dbg.PrintSource(ip, ip, 1)
	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped on read")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped on write")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
