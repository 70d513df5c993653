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

	"github.com/mckerracher/opal"
	"github.com/mckerracher/opal/vm"
)

// runCmd compiles a single file and executes it immediately with the
// in-process interpreter, bypassing the external NASM/ld toolchain
// entirely. Useful for trying a program or driving tests without an
// assembler installed.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file.opl>",
		Short: "Compile and execute a single opal source file in-process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrapf(err, "opening %s", path)
			}
			defer f.Close()

			prog, err := opal.Compile(path, f, nil)
			if err != nil {
				return err
			}
			inst, err := vm.New(prog.Instructions, prog.Identifiers, prog.Strings,
				vm.Stdin(os.Stdin), vm.Stdout(os.Stdout))
			if err != nil {
				return err
			}
			return inst.Run()
		},
	}
	return cmd
}
