// This file is part of opal, a compiler for a small imperative language.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package asmtext parses the textual assembly format asmcode.Instruction.String
// produces back into an instruction list. It is the inverse of that
// formatting: a prior opalc build run can emit a .s file; asmtext.Parse loads
// it back for execution by the vm package without recompiling from source.
//
// The grammar recognized is exactly the four line shapes the emitter
// produces: a bare mnemonic, a mnemonic with an integer operand, a mnemonic
// with a label operand, and a label definition. There is no directive
// syntax, no numeric local labels and no implicit entry-point convention;
// unlike a general-purpose assembler this format has nothing left to be
// clever about.
package asmtext

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mckerracher/opal/asmcode"
)

// mnemonics maps each opcode's textual name back to its value. Built once
// from asmcode's own String table so the two stay in sync automatically.
var mnemonics = buildMnemonicTable()

func buildMnemonicTable() map[string]asmcode.Opcode {
	ops := []asmcode.Opcode{
		asmcode.Fetch, asmcode.Store, asmcode.Push,
		asmcode.Jmp, asmcode.Jz, asmcode.Jnz,
		asmcode.Add, asmcode.Sub, asmcode.Mul, asmcode.Div, asmcode.Mod,
		asmcode.Eq, asmcode.Neq, asmcode.Lss, asmcode.Gtr, asmcode.Leq, asmcode.Geq,
		asmcode.And, asmcode.Or, asmcode.Not, asmcode.Negate,
		asmcode.Prts, asmcode.Prti, asmcode.Input,
		asmcode.Halt, asmcode.Label,
	}
	m := make(map[string]asmcode.Opcode, len(ops))
	for _, op := range ops {
		m[op.String()] = op
	}
	return m
}

// Error reports a single malformed line. Parse accumulates up to 10 of these
// before giving up, the same accumulate-then-stop-at-a-cap shape the
// original Ngaro assembler used so a typo early in a large file doesn't hide
// every later one behind a single report.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

// Errors is the error Parse returns when one or more lines are malformed.
type Errors []*Error

func (es Errors) Error() string {
	var b strings.Builder
	for i, e := range es {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

const maxErrors = 10

// Parse reads assembly text and returns the decoded instruction list. Label
// definitions need no forward-reference resolution here: unlike the
// original Ngaro assembler, which converted labels to absolute cell
// addresses at assemble time, asmtext keeps jump targets as the same label
// names the emitter wrote, letting vm.New/resolveLabels do that resolution
// against the instruction slice itself.
func Parse(r io.Reader) ([]asmcode.Instruction, error) {
	var (
		code   []asmcode.Instruction
		errs   Errors
		scan   = bufio.NewScanner(r)
		lineNo int
	)
	for scan.Scan() {
		lineNo++
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}
		in, err := parseLine(line)
		if err != nil {
			if len(errs) < maxErrors {
				errs = append(errs, &Error{Line: lineNo, Msg: err.Error()})
			}
			continue
		}
		code = append(code, in)
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return code, nil
}

func parseLine(line string) (asmcode.Instruction, error) {
	if strings.HasSuffix(line, ":") {
		name := strings.TrimSuffix(line, ":")
		if name == "" {
			return asmcode.Instruction{}, fmt.Errorf("empty label")
		}
		return asmcode.Instruction{Op: asmcode.Label, Label: name}, nil
	}

	fields := strings.Fields(line)
	op, ok := mnemonics[fields[0]]
	if !ok {
		return asmcode.Instruction{}, fmt.Errorf("unknown mnemonic %q", fields[0])
	}

	switch op {
	case asmcode.Jmp, asmcode.Jz, asmcode.Jnz:
		if len(fields) != 2 {
			return asmcode.Instruction{}, fmt.Errorf("%s expects a label operand", fields[0])
		}
		return asmcode.Instruction{Op: op, Label: fields[1]}, nil
	case asmcode.Push, asmcode.Fetch, asmcode.Store:
		if len(fields) != 2 {
			return asmcode.Instruction{}, fmt.Errorf("%s expects an integer operand", fields[0])
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return asmcode.Instruction{}, fmt.Errorf("%s: bad integer operand %q", fields[0], fields[1])
		}
		return asmcode.Instruction{Op: op, Int: n}, nil
	default:
		if len(fields) != 1 {
			return asmcode.Instruction{}, fmt.Errorf("%s takes no operand", fields[0])
		}
		return asmcode.Instruction{Op: op}, nil
	}
}
