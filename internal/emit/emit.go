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

// Package emit walks an optimized ast.Node tree and produces a linear
// asmcode.Instruction list plus the identifier and string symbol tables the
// instructions index into.
package emit

import (
	"fmt"

	"github.com/mckerracher/opal/asmcode"
	"github.com/mckerracher/opal/ast"
)

// Error reports a fatal emission failure. The AST carries no source
// position, so the message alone must be diagnostic.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// SymbolTable is an append-only, linear-scan table: Index returns the
// existing slot for a value already present, or appends and returns a new
// one. Both identifiers and string literals use this shape.
type SymbolTable struct {
	values []string
}

// Index returns the table position of v, appending it if not already
// present.
func (t *SymbolTable) Index(v string) int {
	for i, existing := range t.values {
		if existing == v {
			return i
		}
	}
	t.values = append(t.values, v)
	return len(t.values) - 1
}

// Values returns the table contents in index order.
func (t *SymbolTable) Values() []string { return t.values }

// Emitter walks an AST and accumulates code and symbol tables.
type Emitter struct {
	code    []asmcode.Instruction
	idents  SymbolTable
	strings SymbolTable
	labelN  int
}

// Emit walks root (which may be nil for an empty program) and returns the
// generated instruction list terminated by Halt, plus the identifier and
// string tables.
func Emit(root *ast.Node) ([]asmcode.Instruction, []string, []string, error) {
	e := &Emitter{}
	if root != nil {
		if err := e.walk(root); err != nil {
			return nil, nil, nil, err
		}
	}
	e.emit(asmcode.Instruction{Op: asmcode.Halt})
	return e.code, e.idents.Values(), e.strings.Values(), nil
}

func (e *Emitter) emit(in asmcode.Instruction) {
	e.code = append(e.code, in)
}

// label mints a unique label name for role, using the current instruction
// count as its distinguishing suffix. Labels must be minted immediately
// before use so that at least one instruction separates any two mintings
// for the same AST node, guaranteeing the suffix differs.
func (e *Emitter) label(role string) string {
	name := fmt.Sprintf("_%s_%d", role, len(e.code))
	e.labelN++
	return name
}

func (e *Emitter) walk(n *ast.Node) error {
	switch n.Kind {
	case ast.Sequence:
		if n.Left != nil {
			if err := e.walk(n.Left); err != nil {
				return err
			}
		}
		if n.Right != nil {
			if err := e.walk(n.Right); err != nil {
				return err
			}
		}
		return nil

	case ast.Assign:
		if err := e.walk(n.Right); err != nil {
			return err
		}
		idx := e.idents.Index(n.Left.Text)
		e.emit(asmcode.Instruction{Op: asmcode.Store, Int: idx})
		return nil

	case ast.If:
		return e.walkIf(n)

	case ast.While:
		return e.walkWhile(n)

	case ast.Prts:
		idx := e.strings.Index(n.Left.Text)
		e.emit(asmcode.Instruction{Op: asmcode.Push, Int: idx})
		e.emit(asmcode.Instruction{Op: asmcode.Prts})
		return nil

	case ast.Prti:
		if err := e.walk(n.Left); err != nil {
			return err
		}
		e.emit(asmcode.Instruction{Op: asmcode.Prti})
		return nil

	case ast.Input:
		idx := e.strings.Index(n.Text)
		e.emit(asmcode.Instruction{Op: asmcode.Push, Int: idx})
		e.emit(asmcode.Instruction{Op: asmcode.Input})
		return nil

	case ast.Ident:
		idx := e.idents.Index(n.Text)
		e.emit(asmcode.Instruction{Op: asmcode.Fetch, Int: idx})
		return nil

	case ast.Integer:
		e.emit(asmcode.Instruction{Op: asmcode.Push, Int: n.IntVal})
		return nil

	case ast.String:
		idx := e.strings.Index(n.Text)
		e.emit(asmcode.Instruction{Op: asmcode.Push, Int: idx})
		return nil

	case ast.Not:
		if err := e.walk(n.Left); err != nil {
			return err
		}
		e.emit(asmcode.Instruction{Op: asmcode.Not})
		return nil

	case ast.Negate:
		if err := e.walk(n.Left); err != nil {
			return err
		}
		e.emit(asmcode.Instruction{Op: asmcode.Negate})
		return nil

	default:
		return e.walkBinary(n)
	}
}

var binaryOps = map[ast.Kind]asmcode.Opcode{
	ast.Add: asmcode.Add, ast.Sub: asmcode.Sub, ast.Mul: asmcode.Mul,
	ast.Div: asmcode.Div, ast.Mod: asmcode.Mod,
	ast.Eq: asmcode.Eq, ast.Neq: asmcode.Neq,
	ast.Lss: asmcode.Lss, ast.Gtr: asmcode.Gtr, ast.Leq: asmcode.Leq, ast.Geq: asmcode.Geq,
	ast.And: asmcode.And, ast.Or: asmcode.Or,
}

func (e *Emitter) walkBinary(n *ast.Node) error {
	op, ok := binaryOps[n.Kind]
	if !ok {
		return &Error{Msg: fmt.Sprintf("emit: unhandled AST node kind %s", n.Kind)}
	}
	if err := e.walk(n.Left); err != nil {
		return err
	}
	if err := e.walk(n.Right); err != nil {
		return err
	}
	e.emit(asmcode.Instruction{Op: op})
	return nil
}

// walkIf emits an unconditional three-label shape regardless of whether an
// else-branch is present: start, else, fi. n is the outer If(cond, If(then,
// elseOrNil)) shape produced by the parser: n.Left is cond, n.Right is the
// inner If holding then/else.
//
// The optimizer's generic "Sequence or If with exactly one null child
// collapses to that child" rule also applies to this inner node, so by the
// time code reaches here n.Right may no longer be an If at all: if then was
// optimized away and only the else-branch survived, n.Right is the bare
// else statement with no marker distinguishing it from a surviving
// then-only branch. Source programs pairing an empty then with a non-empty
// else (`if (cond) ; else stmt;`) are degenerate enough that this case is
// treated as then-only; see DESIGN.md.
func (e *Emitter) walkIf(n *ast.Node) error {
	var then, elseStmt *ast.Node
	if n.Right.Kind == ast.If {
		then, elseStmt = n.Right.Left, n.Right.Right
	} else {
		then = n.Right
	}

	startLbl := e.label("if")
	e.emit(asmcode.Instruction{Op: asmcode.Label, Label: startLbl})

	if err := e.walk(n.Left); err != nil {
		return err
	}
	elseLbl := e.label("else")
	e.emit(asmcode.Instruction{Op: asmcode.Jz, Label: elseLbl})

	if then != nil {
		if err := e.walk(then); err != nil {
			return err
		}
	}

	fiLbl := e.label("fi")
	e.emit(asmcode.Instruction{Op: asmcode.Jmp, Label: fiLbl})
	e.emit(asmcode.Instruction{Op: asmcode.Label, Label: elseLbl})
	if elseStmt != nil {
		if err := e.walk(elseStmt); err != nil {
			return err
		}
	}
	e.emit(asmcode.Instruction{Op: asmcode.Label, Label: fiLbl})
	return nil
}

// walkWhile emits a start label, the condition, a conditional jump to the
// end on false, the body, an unconditional jump back to start, and the end
// label.
func (e *Emitter) walkWhile(n *ast.Node) error {
	startLbl := e.label("while_loop")
	e.emit(asmcode.Instruction{Op: asmcode.Label, Label: startLbl})

	if err := e.walk(n.Left); err != nil {
		return err
	}
	endLbl := e.label("while_end")
	e.emit(asmcode.Instruction{Op: asmcode.Jz, Label: endLbl})

	if n.Right != nil {
		if err := e.walk(n.Right); err != nil {
			return err
		}
	}
	e.emit(asmcode.Instruction{Op: asmcode.Jmp, Label: startLbl})
	e.emit(asmcode.Instruction{Op: asmcode.Label, Label: endLbl})
	return nil
}
