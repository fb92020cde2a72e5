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
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/lassandro/go86/pkg/encoding"
	"github.com/lassandro/go86/pkg/isa"
)

func parseInstruction(ident string) InstructionType {
	if instruction, exists := keywords[strings.ToUpper(ident)]; exists {
		return instruction
	}

	return INSTRUCTION_UNKNOWN
}

func isDigits(s string) bool {
	return encoding.IsInt(s) && s[0] != '-'
}

func tokenize(line string, cursor Cursor) ([]Token, error) {
	var tokens []Token
	var builder strings.Builder
	var tokenType TokenType = TOKEN_NONE
	var tokenStart int

	flush := func() {
		if builder.Len() == 0 {
			return
		}

		value := builder.String()

		if tokenType == TOKEN_IDENT && strings.HasSuffix(value, ":") {
			tokenType = TOKEN_LABEL
		}

		tokens = append(tokens, Token{
			Type: tokenType,
			Position: Cursor{
				Line:     cursor.Line,
				Column:   tokenStart,
				Byte:     cursor.LineByte + int64(tokenStart-1),
				Size:     int64(builder.Len()),
				LineByte: cursor.LineByte,
			},
			Value: value,
		})

		builder.Reset()
		tokenType = TOKEN_NONE
	}

	for index, char := range line {
		column := index + 1

		// Comments
		if char == ';' {
			break
		}

		// Operand separators
		if unicode.IsSpace(char) || char == ',' {
			flush()
			continue
		}

		if char > unicode.MaxASCII {
			return nil, &UnexpectedCharacterError{
				Cursor{
					Line:     cursor.Line,
					Column:   column,
					Byte:     cursor.LineByte + int64(index),
					Size:     1,
					LineByte: cursor.LineByte,
				},
				char,
			}
		}

		if tokenType == TOKEN_NONE {
			tokenStart = column

			switch {
			case char == '.':
				tokenType = TOKEN_DIRECTIVE
			case char == '[':
				tokenType = TOKEN_MEMORY
			case char == '-' || char == '#' || unicode.IsDigit(char):
				tokenType = TOKEN_LITERAL
			case char == '_' || unicode.IsLetter(char):
				tokenType = TOKEN_IDENT
			default:
				return nil, &UnexpectedCharacterError{
					Cursor{
						Line:     cursor.Line,
						Column:   column,
						Byte:     cursor.LineByte + int64(index),
						Size:     1,
						LineByte: cursor.LineByte,
					},
					char,
				}
			}
		}

		builder.WriteRune(char)
	}

	flush()

	return tokens, nil
}

func parseOperand(token *Token) (Operand, error) {
	operand := Operand{Position: token.Position, Value: token.Value}

	switch token.Type {
	case TOKEN_LITERAL:
		imm, err := encoding.DecodeInt(token.Value)

		if err != nil {
			return operand, &InvalidLiteralError{token.Position}
		}

		operand.Type = OPERAND_IMMEDIATE
		operand.Imm = imm
		operand.Negative = imm != 0 && strings.Contains(token.Value, "-")

	case TOKEN_IDENT:
		if reg, ok := isa.ParseRegister(token.Value); ok {
			operand.Type = OPERAND_REGISTER
			operand.Base = reg
		} else {
			operand.Type = OPERAND_SYMBOL
		}

	case TOKEN_MEMORY:
		return parseMemoryOperand(token)

	default:
		return operand, &InvalidOperandError{
			token.Position,
			[]TokenType{TOKEN_LITERAL, TOKEN_IDENT, TOKEN_MEMORY},
			token.Type,
		}
	}

	return operand, nil
}

// [N], [REG], [REG+REG], [IP+N], [IP-N]
func parseMemoryOperand(token *Token) (Operand, error) {
	operand := Operand{Position: token.Position, Value: token.Value}
	malformed := &MalformedOperandError{token.Position, token.Value}

	if len(token.Value) < 3 || !strings.HasSuffix(token.Value, "]") {
		return operand, malformed
	}

	inner := token.Value[1 : len(token.Value)-1]

	if isDigits(inner) {
		addr, err := strconv.ParseUint(inner, 10, 16)

		if err != nil {
			return operand, &InvalidLiteralError{token.Position}
		}

		operand.Type = OPERAND_DIRECT
		operand.Imm = uint16(addr)

		return operand, nil
	}

	if reg, ok := isa.ParseRegister(inner); ok {
		operand.Type = OPERAND_INDIRECT
		operand.Base = reg

		return operand, nil
	}

	i := strings.IndexAny(inner, "+-")

	if i <= 0 {
		return operand, malformed
	}

	base, ok := isa.ParseRegister(inner[:i])

	if !ok {
		return operand, malformed
	}

	sign, rest := inner[i], inner[i+1:]

	if isDigits(rest) {
		if base != isa.REG_IP {
			return operand, malformed
		}

		offset, err := strconv.ParseInt(rest, 10, 16)

		if err != nil {
			return operand, &InvalidLiteralError{token.Position}
		}

		if sign == '-' {
			offset = -offset
		}

		operand.Type = OPERAND_RELATIVE
		operand.Base = base
		operand.Offset = int(offset)

		return operand, nil
	}

	if index, ok := isa.ParseRegister(rest); ok && sign == '+' {
		operand.Type = OPERAND_BASE_INDEX
		operand.Base = base
		operand.Index = index

		return operand, nil
	}

	return operand, malformed
}

func expectArgs(keyword *Token, args []Token, count int) error {
	if len(args) != count {
		return &InvalidNumArgumentsError{keyword.Position, count, len(args)}
	}

	return nil
}

func expectIdent(token *Token) (string, error) {
	if token.Type != TOKEN_IDENT && token.Type != TOKEN_LABEL {
		return "", &InvalidOperandError{
			token.Position, []TokenType{TOKEN_IDENT}, token.Type,
		}
	}

	return strings.TrimSuffix(token.Value, ":"), nil
}

func expectByte(token *Token) (int64, error) {
	if token.Type != TOKEN_LITERAL && token.Type != TOKEN_IDENT {
		return 0, &InvalidOperandError{
			token.Position, []TokenType{TOKEN_LITERAL}, token.Type,
		}
	}

	value, err := encoding.DecodeByte(token.Value)

	if err != nil {
		return 0, &InvalidLiteralError{token.Position}
	}

	return int64(value), nil
}

// Decodes a single program line. The line number is only used for error
// positions. Unrecognised keywords decode to INSTRUCTION_UNKNOWN without error.
func ParseLine(line string, number int) (Instruction, error) {
	return parseLine(line, Cursor{Line: number, Column: 1})
}

func parseLine(line string, cursor Cursor) (Instruction, error) {
	var instruction Instruction

	cursor.Size = int64(len(line))
	instruction.Position = cursor
	instruction.Text = encoding.StripComment(line)

	tokens, err := tokenize(line, cursor)

	if err != nil {
		return instruction, err
	}

	if len(tokens) == 0 {
		instruction.Type = INSTRUCTION_NONE
		return instruction, nil
	}

	if tokens[0].Type == TOKEN_LABEL {
		instruction.Label = strings.TrimSuffix(tokens[0].Value, ":")
		tokens = tokens[1:]

		if len(tokens) == 0 {
			instruction.Type = INSTRUCTION_LABEL
			return instruction, nil
		}
	}

	keyword := &tokens[0]
	args := tokens[1:]

	instruction.Keyword = keyword.Value
	instruction.Position = keyword.Position
	instruction.Type = parseInstruction(keyword.Value)

	switch instruction.Type {
	case INSTRUCTION_UNKNOWN:

	case INSTRUCTION_CODE, INSTRUCTION_DATA, INSTRUCTION_STACK,
		INSTRUCTION_ENDP, INSTRUCTION_RET,
		INSTRUCTION_MOVSB, INSTRUCTION_MOVSW,
		INSTRUCTION_CMPSB, INSTRUCTION_CMPSW,
		INSTRUCTION_STC, INSTRUCTION_CLC,
		INSTRUCTION_START_TIMER, INSTRUCTION_STOP_TIMER,
		INSTRUCTION_TICK_TIMER, INSTRUCTION_HLT:
		err = expectArgs(keyword, args, 0)

	// DB label value
	case INSTRUCTION_DB, INSTRUCTION_DW, INSTRUCTION_DD:
		if err = expectArgs(keyword, args, 2); err != nil {
			break
		}

		if instruction.Symbol, err = expectIdent(&args[0]); err != nil {
			break
		}

		if instruction.Value, err = encoding.DecodeData(args[1].Value); err != nil {
			err = &InvalidLiteralError{args[1].Position}
		}

	// PROC name
	case INSTRUCTION_PROC:
		if err = expectArgs(keyword, args, 1); err != nil {
			break
		}

		instruction.Symbol, err = expectIdent(&args[0])

	// OP dest src
	case INSTRUCTION_MOV, INSTRUCTION_ADD, INSTRUCTION_SUB, INSTRUCTION_MUL,
		INSTRUCTION_DIV, INSTRUCTION_AND, INSTRUCTION_OR, INSTRUCTION_XOR:
		if err = expectArgs(keyword, args, 2); err != nil {
			break
		}

		instruction.Operands = make([]Operand, 2)

		for i := range args {
			if instruction.Operands[i], err = parseOperand(&args[i]); err != nil {
				break
			}
		}

	// OP operand
	case INSTRUCTION_NOT, INSTRUCTION_PUSH, INSTRUCTION_POP,
		INSTRUCTION_JMP, INSTRUCTION_CALL:
		if err = expectArgs(keyword, args, 1); err != nil {
			break
		}

		instruction.Operands = make([]Operand, 1)
		instruction.Operands[0], err = parseOperand(&args[0])

	// VOICE code
	case INSTRUCTION_VOICE:
		if err = expectArgs(keyword, args, 1); err != nil {
			break
		}

		instruction.Symbol = args[0].Value

	// STATUS device
	case INSTRUCTION_STATUS:
		if err = expectArgs(keyword, args, 1); err != nil {
			break
		}

		instruction.Symbol = args[0].Value

	// CONFIG_TIMER mode initial
	case INSTRUCTION_CONFIG_TIMER:
		if err = expectArgs(keyword, args, 2); err != nil {
			break
		}

		mode, perr := strconv.ParseUint(args[0].Value, 10, 8)

		if perr != nil {
			err = &InvalidLiteralError{args[0].Position}
			break
		}

		initial, perr := strconv.ParseUint(args[1].Value, 10, 16)

		if perr != nil {
			err = &InvalidLiteralError{args[1].Position}
			break
		}

		instruction.Mode = uint8(mode)
		instruction.Value = int64(initial)

	// WRITE_CTRL hex
	case INSTRUCTION_WRITE_CTRL:
		if err = expectArgs(keyword, args, 1); err != nil {
			break
		}

		instruction.Value, err = expectByte(&args[0])

	// WRITE_PORT port hex
	case INSTRUCTION_WRITE_PORT:
		if err = expectArgs(keyword, args, 2); err != nil {
			break
		}

		// Unknown ports are left for the machine to reject
		instruction.Symbol = args[0].Value
		instruction.Value, err = expectByte(&args[1])

	// READ_PORT port
	case INSTRUCTION_READ_PORT:
		if err = expectArgs(keyword, args, 1); err != nil {
			break
		}

		instruction.Symbol = args[0].Value

	default:
		panic("Unhandled instruction type")
	}

	return instruction, err
}

// Parses a whole program, one instruction per line. Unknown instructions are
// reported as errors here even though the machine tolerates them. When a
// symbol table is provided it is filled from a static scan of the program.
func ParseSource(input io.Reader, symtable *SymTable) (result []Instruction, errs []error) {
	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 1, Column: 1}

	for scanner.Scan() {
		line := scanner.Text()

		cursor.Byte = cursor.LineByte

		instruction, err := parseLine(line, cursor)

		if err != nil {
			errs = append(errs, err)
		} else if instruction.Type == INSTRUCTION_UNKNOWN {
			errs = append(
				errs,
				&UnknownIdentifierError{
					instruction.Position, instruction.Keyword,
				},
			)
		}

		result = append(result, instruction)

		cursor.Line++
		cursor.LineByte += int64(len(line) + 1)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	if symtable != nil {
		errs = append(errs, ScanSymbols(result, symtable)...)
	}

	return result, errs
}

// Collects DB/DW/DD definitions that sit inside .DATA sections, stopping at
// each .CODE or .STACK.
func ScanData(program []Instruction) map[string]int64 {
	data := make(map[string]int64)
	inData := false

	for _, instruction := range program {
		switch instruction.Type {
		case INSTRUCTION_DATA:
			inData = true
		case INSTRUCTION_CODE, INSTRUCTION_STACK:
			inData = false
		case INSTRUCTION_DB, INSTRUCTION_DW, INSTRUCTION_DD:
			if inData {
				data[instruction.Symbol] = instruction.Value
			}
		}
	}

	return data
}

// Records data definitions, labels and procedures at the instruction pointer
// they will have when executed.
func ScanSymbols(program []Instruction, symtable *SymTable) (errs []error) {
	if symtable.Data == nil {
		symtable.Data = make(map[string]int64)
	}

	if symtable.Labels == nil {
		symtable.Labels = make(map[string]uint16)
	}

	if symtable.Procedures == nil {
		symtable.Procedures = make(map[string]uint16)
	}

	for label, value := range ScanData(program) {
		symtable.Data[label] = value
	}

	for ip, instruction := range program {
		if instruction.Label != "" {
			if _, exists := symtable.Labels[instruction.Label]; exists {
				errs = append(
					errs,
					&RedeclaredLabelError{
						instruction.Position, instruction.Label,
					},
				)
			} else {
				symtable.Labels[instruction.Label] = uint16(ip)
			}
		}

		if instruction.Type == INSTRUCTION_PROC {
			symtable.Procedures[instruction.Symbol] = uint16(ip)
		}
	}

	return errs
}
