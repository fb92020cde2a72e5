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
	"bytes"
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lassandro/go86/pkg/assembler"
)

var helpvar bool
var debugvar bool
var outvar string

const usage = "go86-asm [-debug] [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.go86db'",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the listing file, "+
			"overriding the default means of determining it",
	)
	flag.Parse()
}

func withExt(filename, ext string) string {
	return filepath.Join(filepath.Dir(filename), strings.TrimSuffix(
		filepath.Base(filename), filepath.Ext(filename),
	)+ext)
}

// Prints the error followed by its source line with the offending token
// underlined
func printTokenError(input io.ReadSeeker, err error, tokenErr assembler.TokenError) {
	cursor := tokenErr.GetPosition()

	if _, seekErr := input.Seek(cursor.LineByte, io.SeekStart); seekErr != nil {
		log.Println(err)
		return
	}

	line, _ := bufio.NewReader(input).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")

	size := int(cursor.Size)
	if size < 1 {
		size = 1
	}

	underlinefmt := fmt.Sprintf(
		"%% %ds%s",
		int(cursor.Byte-cursor.LineByte)+1,
		strings.Repeat("~", size-1),
	)

	log.Printf(
		"%d:%d: %s\n%s\n\033[31m%s\033[0m",
		cursor.Line,
		cursor.Column,
		err,
		line,
		fmt.Sprintf(underlinefmt, "^"),
	)
}

func writeListing(filename string, program []assembler.Instruction) error {
	buffer := new(bytes.Buffer)

	for ip, instruction := range program {
		fmt.Fprintf(buffer, "%04d  %s\n", ip, instruction.Text)
	}

	return os.WriteFile(filename, buffer.Bytes(), 0666)
}

func writeSymTable(filename string, symtable *assembler.SymTable) error {
	file, err := os.OpenFile(
		filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666,
	)

	if err != nil {
		return err
	}

	defer file.Close()

	return gob.NewEncoder(file).Encode(symtable)
}

func go86_asm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var infile string
	var input io.ReadSeeker

	if stat, _ := os.Stdin.Stat(); len(args) == 0 && stat.Mode()&os.ModeCharDevice == 0 {
		data, err := io.ReadAll(os.Stdin)

		if err != nil {
			log.Println(err)
			return 1
		}

		input = bytes.NewReader(data)
		log.SetPrefix("\033[1m<stdin>:\033[0m")

		if outvar == "" {
			outvar = "out.lst"
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else if stat.IsDir() {
			log.Printf("%s is not a valid assembly file", filename)
			return 1
		}

		input = file
		infile = file.Name()
		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", filename))

		if outvar == "" {
			outvar = withExt(infile, ".lst")
		}
	}

	symtable := assembler.NewSymTable()

	if infile != "" {
		var err error
		if symtable.Source, err = filepath.Abs(infile); err != nil {
			log.Println(err)
			symtable.Source = ""
		}
	}

	program, errs := assembler.ParseSource(input, symtable)

	if len(errs) > 0 {
		for _, err := range errs {
			if tokenErr, ok := err.(assembler.TokenError); ok {
				printTokenError(input, err, tokenErr)
			} else {
				log.Println(err)
			}
		}

		return 1
	}

	if err := writeListing(outvar, program); err != nil {
		log.Println("Error writing listing file")
		log.Println(err)
		return 1
	}

	if debugvar {
		if err := writeSymTable(withExt(outvar, ".go86db"), symtable); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	os.Exit(go86_asm())
}
