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

package asmtext_test

import (
	"strings"
	"testing"

	"github.com/mckerracher/opal/asmcode"
	"github.com/mckerracher/opal/internal/asmtext"
)

func TestParseRoundTrip(t *testing.T) {
	code := []asmcode.Instruction{
		{Op: asmcode.Label, Label: "_if_0"},
		{Op: asmcode.Push, Int: 1},
		{Op: asmcode.Jz, Label: "_else_1"},
		{Op: asmcode.Push, Int: 42},
		{Op: asmcode.Prti},
		{Op: asmcode.Jmp, Label: "_fi_2"},
		{Op: asmcode.Label, Label: "_else_1"},
		{Op: asmcode.Label, Label: "_fi_2"},
		{Op: asmcode.Halt},
	}
	var text strings.Builder
	for _, in := range code {
		text.WriteString(in.String())
		text.WriteByte('\n')
	}

	got, err := asmtext.Parse(strings.NewReader(text.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != len(code) {
		t.Fatalf("got %d instructions, want %d", len(got), len(code))
	}
	for i, in := range got {
		if in != code[i] {
			t.Errorf("instruction %d: got %+v, want %+v", i, in, code[i])
		}
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	src := "  PUSH 1\n\n  HALT\n"
	got, err := asmtext.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d instructions, want 2", len(got))
	}
}

func TestParseUnknownMnemonic(t *testing.T) {
	_, err := asmtext.Parse(strings.NewReader("  BOGUS\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
	errs, ok := err.(asmtext.Errors)
	if !ok || len(errs) != 1 {
		t.Fatalf("expected one asmtext.Error, got %v", err)
	}
}

func TestParseMissingOperand(t *testing.T) {
	_, err := asmtext.Parse(strings.NewReader("  PUSH\n"))
	if err == nil {
		t.Fatal("expected an error for a missing operand")
	}
}

func TestParseAccumulatesUpToTenErrors(t *testing.T) {
	var src strings.Builder
	for i := 0; i < 15; i++ {
		src.WriteString("  BOGUS\n")
	}
	_, err := asmtext.Parse(strings.NewReader(src.String()))
	errs, ok := err.(asmtext.Errors)
	if !ok {
		t.Fatalf("expected asmtext.Errors, got %T", err)
	}
	if len(errs) != 10 {
		t.Errorf("got %d errors, want 10", len(errs))
	}
}
