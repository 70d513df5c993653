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

package vm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mckerracher/opal/asmcode"
)

// RuntimeError reports a failure while executing code: division by zero,
// a jump to an undefined label, or any other condition the emitter should
// have made impossible for well-formed input.
type RuntimeError struct {
	PC  int
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at pc=%d: %s", e.PC, e.Msg)
}

// Run executes code from the current PC until a Halt instruction or a
// runtime error. It recovers from a panic raised by an out-of-range stack
// access (slot and string indices are checked explicitly and reported as a
// RuntimeError) and reports it as a wrapped error, mirroring the
// defensive recover wrapper the original VM's Run loop used for the same
// purpose.
func (i *Instance) Run() (err error) {
	defer func() {
		if e := recover(); e != nil {
			if re, ok := e.(error); ok {
				err = errors.Wrapf(re, "recovered panic at pc=%d", i.pc)
				return
			}
			panic(e)
		}
	}()

	for i.pc < len(i.code) {
		in := i.code[i.pc]
		switch in.Op {
		case asmcode.Halt:
			return nil

		case asmcode.Label:
			i.pc++

		case asmcode.Push:
			i.push(int64(in.Int))
			i.pc++

		case asmcode.Fetch:
			if in.Int < 0 || in.Int >= len(i.slots) {
				return i.fault("fetch: identifier index %d out of range", in.Int)
			}
			i.push(i.slots[in.Int])
			i.pc++

		case asmcode.Store:
			if in.Int < 0 || in.Int >= len(i.slots) {
				return i.fault("store: identifier index %d out of range", in.Int)
			}
			i.slots[in.Int] = i.pop()
			i.pc++

		case asmcode.Jmp:
			target, err := i.resolve(in.Label)
			if err != nil {
				return err
			}
			i.pc = target

		case asmcode.Jz:
			target, err := i.resolve(in.Label)
			if err != nil {
				return err
			}
			if i.pop() == 0 {
				i.pc = target
			} else {
				i.pc++
			}

		case asmcode.Jnz:
			target, err := i.resolve(in.Label)
			if err != nil {
				return err
			}
			if i.pop() != 0 {
				i.pc = target
			} else {
				i.pc++
			}

		case asmcode.Add:
			rhs, lhs := i.pop(), i.pop()
			i.push(lhs + rhs)
			i.pc++
		case asmcode.Sub:
			rhs, lhs := i.pop(), i.pop()
			i.push(lhs - rhs)
			i.pc++
		case asmcode.Mul:
			rhs, lhs := i.pop(), i.pop()
			i.push(lhs * rhs)
			i.pc++
		case asmcode.Div:
			rhs, lhs := i.pop(), i.pop()
			if rhs == 0 {
				return i.fault("division by zero")
			}
			i.push(lhs / rhs)
			i.pc++
		case asmcode.Mod:
			rhs, lhs := i.pop(), i.pop()
			if rhs == 0 {
				return i.fault("modulo by zero")
			}
			i.push(lhs % rhs)
			i.pc++

		case asmcode.Eq:
			i.pushBool(i.popPair(func(l, r int64) bool { return l == r }))
			i.pc++
		case asmcode.Neq:
			i.pushBool(i.popPair(func(l, r int64) bool { return l != r }))
			i.pc++
		case asmcode.Lss:
			i.pushBool(i.popPair(func(l, r int64) bool { return l < r }))
			i.pc++
		case asmcode.Gtr:
			i.pushBool(i.popPair(func(l, r int64) bool { return l > r }))
			i.pc++
		case asmcode.Leq:
			i.pushBool(i.popPair(func(l, r int64) bool { return l <= r }))
			i.pc++
		case asmcode.Geq:
			i.pushBool(i.popPair(func(l, r int64) bool { return l >= r }))
			i.pc++
		case asmcode.And:
			i.pushBool(i.popPair(func(l, r int64) bool { return l != 0 && r != 0 }))
			i.pc++
		case asmcode.Or:
			i.pushBool(i.popPair(func(l, r int64) bool { return l != 0 || r != 0 }))
			i.pc++

		case asmcode.Not:
			v := i.pop()
			i.pushBool(v == 0)
			i.pc++
		case asmcode.Negate:
			i.push(-i.pop())
			i.pc++

		case asmcode.Prts:
			idx := i.pop()
			s, serr := i.str(idx)
			if serr != nil {
				return serr
			}
			fmt.Fprint(i.out, s)
			i.pc++

		case asmcode.Prti:
			fmt.Fprint(i.out, i.pop())
			i.pc++

		case asmcode.Input:
			idx := i.pop()
			prompt, serr := i.str(idx)
			if serr != nil {
				return serr
			}
			fmt.Fprint(i.out, prompt)
			var v int64
			if _, serr := fmt.Fscan(i.in, &v); serr != nil {
				return i.fault("input: %v", serr)
			}
			i.push(v)
			i.pc++

		default:
			return i.fault("unhandled opcode %s", in.Op)
		}
		i.insExec++
	}
	return nil
}

func (i *Instance) resolve(label string) (int, error) {
	target, ok := i.labels[label]
	if !ok {
		return 0, i.fault("jump to undefined label %q", label)
	}
	return target, nil
}

func (i *Instance) str(idx int64) (string, error) {
	if idx < 0 || int(idx) >= len(i.strs) {
		return "", i.fault("string index %d out of range", idx)
	}
	return i.strs[idx], nil
}

func (i *Instance) popPair(cmp func(l, r int64) bool) bool {
	rhs, lhs := i.pop(), i.pop()
	return cmp(lhs, rhs)
}

func (i *Instance) pushBool(b bool) {
	if b {
		i.push(1)
		return
	}
	i.push(0)
}

func (i *Instance) fault(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{PC: i.pc, Msg: fmt.Sprintf(format, args...)}
}
