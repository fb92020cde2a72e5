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
	"bufio"
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lassandro/go86/pkg/assembler"
	"github.com/lassandro/go86/pkg/debugger"
	"github.com/lassandro/go86/pkg/isa"
	"github.com/lassandro/go86/pkg/machine"
)

var helpvar bool
var debugvar bool
var stepvar bool
var tracevar bool
var memoryvar int
var channelsvar int
var shouldexit bool

var stdin = bufio.NewReader(os.Stdin)

const usage = "go86 [-debug|-step] [-trace] [-memory #] [-timer-channels #] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(
		&stepvar, "step", false,
		"Waits for a keypress after every instruction, 'q' stops the run",
	)
	flag.BoolVar(
		&tracevar, "trace", false,
		"Logs the machine state after every instruction",
	)
	flag.IntVar(
		&memoryvar, "memory", machine.MEMORY_SIZE, "Memory size in bytes",
	)
	flag.IntVar(
		&channelsvar, "timer-channels", 0,
		"Number of timer channels, 0 selects the single channel timer",
	)
	flag.Parse()
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if tracevar {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

func loadSymTable(path string) (*assembler.SymTable, error) {
	filename := filepath.Join(filepath.Dir(path), strings.TrimSuffix(
		filepath.Base(path), filepath.Ext(path),
	)+".go86db")

	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	var symtable assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&symtable); err != nil {
		return nil, err
	}

	return &symtable, nil
}

func go86() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	if debugvar && stepvar {
		log.Println("-debug and -step cannot be combined")
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	cfg := machine.DefaultConfig()
	cfg.MemorySize = memoryvar
	cfg.TimerChannels = channelsvar

	mc := machine.NewMachine(cfg, nil, newLogger())

	if err := mc.LoadSource(file); err != nil {
		log.Println(err)
		return 1
	}

	printer := debugger.NewDebugger(os.Stdout)
	printer.Color = isTerminal()
	printer.Source = mc.Source

	if debugvar {
		dbg := printer
		dbg.HandleBreak = handleBreak
		dbg.HandleRead = handleRead
		dbg.HandleWrite = handleWrite

		if symtable, err := loadSymTable(args[0]); err == nil {
			dbg.SymTable = symtable
		} else if !os.IsNotExist(err) {
			log.Println("Error loading symbol file")
			log.Println(err)
		}

		mc.Debugger = dbg

		c := make(chan os.Signal, 1)
		defer close(c)

		signal.Notify(c, os.Interrupt)
		defer signal.Stop(c)

		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()

		debugREPL(dbg, mc)
	}

	status := 0

	for !shouldexit {
		ip := mc.State.Registers[isa.REG_IP]

		running, err := mc.Step()

		if err != nil {
			log.Println(err)
			status = 1
			break
		}

		if !running {
			break
		}

		if stepvar {
			printer.PrintSource(ip, ip, 1)
			printer.PrintRegs(&mc.State)
			printer.PrintFlags(&mc.State)

			if key := readKey(); key == 'q' || key == 'Q' {
				break
			}
		}
	}

	fmt.Println()
	printer.PrintTables(&mc.State)

	return status
}

// Blocks for a single keypress, echo disabled where stdin is a terminal
func readKey() byte {
	enterRawTerm()
	defer exitRawTerm()

	key, err := stdin.ReadByte()

	if err != nil {
		return 'q'
	}

	return key
}

func main() {
	os.Exit(go86())
}
