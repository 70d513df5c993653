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

// Package opal is the top-level entry point for compiling a single source
// file: read it, run it through the internal pipeline, and hand back the
// emitted assembly program.
package opal

import (
	"fmt"
	"io"

	"github.com/mckerracher/opal/asmcode"
	"github.com/mckerracher/opal/internal/errwriter"
	"github.com/mckerracher/opal/internal/pipeline"
)

// Program is the output of a successful compile: the emitted instruction
// list and the symbol tables its Push/Fetch/Store instructions index into.
type Program struct {
	Instructions []asmcode.Instruction
	Identifiers  []string
	Strings      []string
}

// Compile reads r in full and compiles it as the file named path (used for
// error messages and #include resolution). sink may be nil.
func Compile(path string, r io.Reader, sink pipeline.Sink) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	result, err := pipeline.Compile(path, string(data), sink)
	if err != nil {
		return nil, err
	}
	return &Program{
		Instructions: result.Code,
		Identifiers:  result.Identifiers,
		Strings:      result.Strings,
	}, nil
}

// WriteAssembly renders the program's instructions, one per line, in the
// textual form asmcode.Instruction.String produces. A single error check at
// the end covers the whole run: the underlying writer is wrapped in an
// errwriter.Writer that latches the first failure and ignores subsequent
// Write calls.
func (p *Program) WriteAssembly(w io.Writer) error {
	ew := errwriter.New(w)
	for _, in := range p.Instructions {
		fmt.Fprintln(ew, in.String())
	}
	return ew.Err
}
