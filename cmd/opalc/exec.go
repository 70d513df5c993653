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

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mckerracher/opal/asmcode"
	"github.com/mckerracher/opal/internal/asmtext"
	"github.com/mckerracher/opal/vm"
)

// execCmd loads a previously emitted .s file and runs it with the
// in-process interpreter. It exists for the case where a program was
// already compiled (by `opalc build`, or by hand) and the caller wants to
// re-run it without reprocessing the original source; `opalc run` covers
// the source-to-execution path in one step.
//
// The assembly format has no symbol table for identifiers or strings, so
// exec reconstructs dummy names from each distinct Fetch/Store index and
// Prts/Input index it encounters; slot count and string count only need to
// be large enough, the names themselves are never printed by the vm.
func execCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <file.s>",
		Short: "Execute a previously emitted assembly file in-process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrapf(err, "opening %s", path)
			}
			defer f.Close()

			code, err := asmtext.Parse(f)
			if err != nil {
				return errors.Wrapf(err, "parsing %s", path)
			}

			idents, strs := slotCounts(code)
			inst, err := vm.New(code, idents, strs, vm.Stdin(os.Stdin), vm.Stdout(os.Stdout))
			if err != nil {
				return err
			}
			return inst.Run()
		},
	}
	return cmd
}

// slotCounts returns placeholder identifier/string tables sized to hold
// every index exec's instruction stream references, since a standalone .s
// file carries no symbol table of its own; vm.New only uses len(idents) to
// size the slot array and len(strs) to bounds-check Prts/Input operands, so
// unnamed placeholders are sufficient to run code compiled elsewhere.
func slotCounts(code []asmcode.Instruction) (idents, strs []string) {
	var maxIdent, maxStr int
	for i, in := range code {
		switch in.Op {
		case asmcode.Fetch, asmcode.Store:
			if in.Int+1 > maxIdent {
				maxIdent = in.Int + 1
			}
		case asmcode.Push:
			// Push's Int is a string-table index only when the very next
			// instruction consumes it as one; any other Push is a plain
			// integer literal and never bounds the string table.
			if i+1 < len(code) && (code[i+1].Op == asmcode.Prts || code[i+1].Op == asmcode.Input) {
				if in.Int+1 > maxStr {
					maxStr = in.Int + 1
				}
			}
		}
	}
	return make([]string, maxIdent), make([]string, maxStr)
}
