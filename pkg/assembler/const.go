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

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_DIRECTIVE
	TOKEN_LITERAL
	TOKEN_MEMORY
	TOKEN_LABEL
)

const (
	OPERAND_INVALID OperandType = iota
	OPERAND_IMMEDIATE
	OPERAND_REGISTER
	OPERAND_SYMBOL
	OPERAND_DIRECT
	OPERAND_INDIRECT
	OPERAND_BASE_INDEX
	OPERAND_RELATIVE
)

const (
	// Blank or comment-only line
	INSTRUCTION_NONE InstructionType = iota

	// Anything not listed below; executes as a no-op
	INSTRUCTION_UNKNOWN

	// Segment and data pseudo-ops
	INSTRUCTION_CODE
	INSTRUCTION_DATA
	INSTRUCTION_STACK
	INSTRUCTION_DB
	INSTRUCTION_DW
	INSTRUCTION_DD
	INSTRUCTION_PROC
	INSTRUCTION_ENDP
	INSTRUCTION_LABEL

	// Arithmetic and logic
	INSTRUCTION_MOV
	INSTRUCTION_ADD
	INSTRUCTION_SUB
	INSTRUCTION_MUL
	INSTRUCTION_DIV
	INSTRUCTION_AND
	INSTRUCTION_OR
	INSTRUCTION_XOR
	INSTRUCTION_NOT

	// Stack and control transfer
	INSTRUCTION_PUSH
	INSTRUCTION_POP
	INSTRUCTION_JMP
	INSTRUCTION_CALL
	INSTRUCTION_RET

	// String operations
	INSTRUCTION_MOVSB
	INSTRUCTION_MOVSW
	INSTRUCTION_CMPSB
	INSTRUCTION_CMPSW

	// Carry flag
	INSTRUCTION_STC
	INSTRUCTION_CLC

	// Peripherals
	INSTRUCTION_VOICE
	INSTRUCTION_STATUS
	INSTRUCTION_CONFIG_TIMER
	INSTRUCTION_START_TIMER
	INSTRUCTION_STOP_TIMER
	INSTRUCTION_TICK_TIMER
	INSTRUCTION_WRITE_CTRL
	INSTRUCTION_WRITE_PORT
	INSTRUCTION_READ_PORT

	INSTRUCTION_HLT
)

var keywords = map[string]InstructionType{
	".CODE":        INSTRUCTION_CODE,
	".DATA":        INSTRUCTION_DATA,
	".STACK":       INSTRUCTION_STACK,
	"DB":           INSTRUCTION_DB,
	"DW":           INSTRUCTION_DW,
	"DD":           INSTRUCTION_DD,
	"PROC":         INSTRUCTION_PROC,
	"ENDP":         INSTRUCTION_ENDP,
	"MOV":          INSTRUCTION_MOV,
	"ADD":          INSTRUCTION_ADD,
	"SUB":          INSTRUCTION_SUB,
	"MUL":          INSTRUCTION_MUL,
	"DIV":          INSTRUCTION_DIV,
	"AND":          INSTRUCTION_AND,
	"OR":           INSTRUCTION_OR,
	"XOR":          INSTRUCTION_XOR,
	"NOT":          INSTRUCTION_NOT,
	"PUSH":         INSTRUCTION_PUSH,
	"POP":          INSTRUCTION_POP,
	"JMP":          INSTRUCTION_JMP,
	"CALL":         INSTRUCTION_CALL,
	"RET":          INSTRUCTION_RET,
	"MOVSB":        INSTRUCTION_MOVSB,
	"MOVSW":        INSTRUCTION_MOVSW,
	"CMPSB":        INSTRUCTION_CMPSB,
	"CMPSW":        INSTRUCTION_CMPSW,
	"STC":          INSTRUCTION_STC,
	"CLC":          INSTRUCTION_CLC,
	"VOICE":        INSTRUCTION_VOICE,
	"STATUS":       INSTRUCTION_STATUS,
	"CONFIG_TIMER": INSTRUCTION_CONFIG_TIMER,
	"START_TIMER":  INSTRUCTION_START_TIMER,
	"STOP_TIMER":   INSTRUCTION_STOP_TIMER,
	"TICK_TIMER":   INSTRUCTION_TICK_TIMER,
	"WRITE_CTRL":   INSTRUCTION_WRITE_CTRL,
	"WRITE_PORT":   INSTRUCTION_WRITE_PORT,
	"READ_PORT":    INSTRUCTION_READ_PORT,
	"HLT":          INSTRUCTION_HLT,
}
