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

package asmcode_test

import (
	"testing"

	"github.com/mckerracher/opal/asmcode"
)

func TestInstructionString(t *testing.T) {
	data := []struct {
		name string
		in   asmcode.Instruction
		want string
	}{
		{"bare opcode", asmcode.Instruction{Op: asmcode.Add}, "  ADD"},
		{"int operand", asmcode.Instruction{Op: asmcode.Push, Int: 7}, "  PUSH 7"},
		{"label operand", asmcode.Instruction{Op: asmcode.Jmp, Label: "L_wstart_3"}, "  JMP L_wstart_3"},
		{"label definition", asmcode.Instruction{Op: asmcode.Label, Label: "L_wstart_3"}, "L_wstart_3:"},
	}
	for _, d := range data {
		if got := d.in.String(); got != d.want {
			t.Errorf("%s: got %q, want %q", d.name, got, d.want)
		}
	}
}

func TestOpcodeStringOutOfRange(t *testing.T) {
	if got := asmcode.Opcode(-1).String(); got != "INVALID" {
		t.Errorf("got %q, want %q", got, "INVALID")
	}
}
