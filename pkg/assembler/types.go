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

package assembler

import (
	"fmt"
	"strings"

	"github.com/lassandro/go86/pkg/isa"
)

type TokenType uint
type OperandType uint
type InstructionType uint

type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
}

// Operand is a classified operand token. Which fields are meaningful depends
// on Type:
//
//	OPERAND_IMMEDIATE   Imm, Negative (literal had a minus sign)
//	OPERAND_REGISTER    Base
//	OPERAND_SYMBOL      Value
//	OPERAND_DIRECT      Imm (address)
//	OPERAND_INDIRECT    Base
//	OPERAND_BASE_INDEX  Base, Index
//	OPERAND_RELATIVE    Offset (from IP)
type Operand struct {
	Type     OperandType
	Position Cursor
	Value    string
	Imm      uint16
	Negative bool
	Base     isa.Register
	Index    isa.Register
	Offset   int
}

// Instruction is one decoded program line.
type Instruction struct {
	Type     InstructionType
	Position Cursor
	Text     string
	Keyword  string
	Label    string
	Operands []Operand

	// DB/DW/DD and PROC name, STATUS device, VOICE code, port letter
	Symbol string

	// DB/DW/DD value, CONFIG_TIMER initial count, WRITE_CTRL/WRITE_PORT byte
	Value int64

	// CONFIG_TIMER mode
	Mode uint8
}

type SymTable struct {
	Source     string
	Data       map[string]int64
	Labels     map[string]uint16
	Procedures map[string]uint16
}

func NewSymTable() *SymTable {
	return &SymTable{
		Data:       make(map[string]int64),
		Labels:     make(map[string]uint16),
		Procedures: make(map[string]uint16),
	}
}

func (op OperandType) String() string {
	switch op {
	case OPERAND_IMMEDIATE:
		return "Immediate"
	case OPERAND_REGISTER:
		return "Register"
	case OPERAND_SYMBOL:
		return "Symbol"
	case OPERAND_DIRECT:
		return "Direct"
	case OPERAND_INDIRECT:
		return "Register Indirect"
	case OPERAND_BASE_INDEX:
		return "Base+Index"
	case OPERAND_RELATIVE:
		return "IP Relative"
	default:
		return "<invalid>"
	}
}

func (tokenType TokenType) String() string {
	switch tokenType {
	case TOKEN_IDENT:
		return "Identifier"
	case TOKEN_DIRECTIVE:
		return "Directive"
	case TOKEN_LITERAL:
		return "Literal"
	case TOKEN_MEMORY:
		return "Memory"
	case TOKEN_LABEL:
		return "Label"
	default:
		return "<invalid>"
	}
}

type TokenError interface {
	GetPosition() Cursor
}

type InvalidOperandError struct {
	Position Cursor
	Required []TokenType
	Received TokenType
}

func (err *InvalidOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidOperandError) Error() string {
	var requiredString string

	requiredStrings := make([]string, 0, len(err.Required))

	for _, tokenType := range err.Required {
		requiredStrings = append(requiredStrings, tokenType.String())
	}

	if count := len(requiredStrings); count == 1 {
		requiredString = requiredStrings[0]
	} else if count == 2 {
		requiredString = requiredStrings[0] + " or " + requiredStrings[1]
	} else if count > 2 {
		requiredString = strings.Join(
			requiredStrings[:len(requiredStrings)-1], ", ",
		) + ", or " + requiredStrings[len(requiredStrings)-1]
	}

	return fmt.Sprintf(
		"%02d:%02d: Invalid operands\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		requiredString,
		err.Received,
	)
}

type MalformedOperandError struct {
	Position Cursor
	Received string
}

func (err *MalformedOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *MalformedOperandError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Malformed operand '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type InvalidNumArgumentsError struct {
	Position Cursor
	Required int
	Received int
}

func (err *InvalidNumArgumentsError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidNumArgumentsError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid number of arguments\n\twant:%d\n\thave:%v",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type InvalidLiteralError struct {
	Position Cursor
}

func (err *InvalidLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid numeric literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type UnexpectedCharacterError struct {
	Position Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() Cursor {
	return err.Position
}

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected character %c",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type RedeclaredLabelError struct {
	Position Cursor
	Received string
}

func (err *RedeclaredLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redeclaration of label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownIdentifierError struct {
	Position Cursor
	Received string
}

func (err *UnknownIdentifierError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownIdentifierError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown instruction '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}
