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
	"bufio"
	"io"
	"os"

	"github.com/mckerracher/opal/asmcode"
)

const defaultStackSize = 1024

// Option configures an Instance before it runs. The shape (a slice of
// functions applied in New, each free to fail) mirrors the original
// Ngaro VM's Option pattern, where stack sizes and I/O streams were
// likewise deferred-construction knobs rather than constructor arguments.
type Option func(*Instance) error

// StackSize sets the data stack capacity. The default is 1024 cells, ample
// for any program this compiler can produce (no recursion, no function
// calls, expressions bounded by source length).
func StackSize(size int) Option {
	return func(i *Instance) error { i.stack = make([]int64, size); return nil }
}

// Stdin sets the reader Input() opcodes read integers from. Defaults to
// os.Stdin.
func Stdin(r io.Reader) Option {
	return func(i *Instance) error { i.in = bufio.NewReader(r); return nil }
}

// Stdout sets the writer Prts/Prti opcodes write to. Defaults to os.Stdout.
func Stdout(w io.Writer) Option {
	return func(i *Instance) error { i.out = w; return nil }
}

// Instance is one execution of a compiled program: a PC, a data stack, a
// slot per identifier, and the string table Prts/Input index into.
type Instance struct {
	code    []asmcode.Instruction
	labels  map[string]int
	idents  []string
	strs    []string
	pc      int
	sp      int
	stack   []int64
	slots   []int64
	in      *bufio.Reader
	out     io.Writer
	insExec int64
}

// New builds an Instance ready to run code. idents sizes the variable slot
// table (one int64 per identifier, zero-initialized); strs is indexed by
// Prts/Input operands.
func New(code []asmcode.Instruction, idents, strs []string, opts ...Option) (*Instance, error) {
	i := &Instance{
		code:   code,
		labels: resolveLabels(code),
		idents: idents,
		strs:   strs,
		slots:  make([]int64, len(idents)),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	if i.stack == nil {
		i.stack = make([]int64, defaultStackSize)
	}
	if i.in == nil {
		i.in = bufio.NewReader(os.Stdin)
	}
	if i.out == nil {
		i.out = os.Stdout
	}
	return i, nil
}

// resolveLabels maps every Label instruction's name to its own index in
// code: jumping to a label falls through to whatever follows it, since
// Label itself executes as a no-op.
func resolveLabels(code []asmcode.Instruction) map[string]int {
	labels := make(map[string]int, len(code))
	for idx, in := range code {
		if in.Op == asmcode.Label {
			labels[in.Label] = idx
		}
	}
	return labels
}

func (i *Instance) push(v int64) {
	i.stack[i.sp] = v
	i.sp++
}

func (i *Instance) pop() int64 {
	i.sp--
	return i.stack[i.sp]
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 { return i.insExec }
