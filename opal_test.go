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

package opal_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/mckerracher/opal"
)

// ExampleCompile compiles a short arithmetic program and prints the
// resulting assembly, showing operator precedence (2 * 3 binds tighter than
// the addition) reflected directly in evaluation order.
func ExampleCompile() {
	src := "x = 1 + 2 * 3;\nprint(x);\n"

	prog, err := opal.Compile("arith.opl", strings.NewReader(src), nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := prog.WriteAssembly(os.Stdout); err != nil {
		fmt.Println(err)
	}

	// Output:
	//   PUSH 1
	//   PUSH 2
	//   PUSH 3
	//   MUL
	//   ADD
	//   STORE 0
	//   FETCH 0
	//   PRTI
	//   HALT
}

func TestCompilePropagatesSyntaxError(t *testing.T) {
	_, err := opal.Compile("bad.opl", strings.NewReader("x = ;"), nil)
	if err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestCompileIdentifierAndStringTables(t *testing.T) {
	src := `a = 1;
b = 2;
print("hello");
print(a);
`
	prog, err := opal.Compile("tables.opl", strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Identifiers) != 2 || prog.Identifiers[0] != "a" || prog.Identifiers[1] != "b" {
		t.Errorf("got identifiers %v, want [a b]", prog.Identifiers)
	}
	if len(prog.Strings) != 1 || prog.Strings[0] != "hello" {
		t.Errorf("got strings %v, want [hello]", prog.Strings)
	}
}

func TestWriteAssemblyPropagatesWriteError(t *testing.T) {
	prog, err := opal.Compile("x.opl", strings.NewReader("x = 1;"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := prog.WriteAssembly(failingWriter{}); err == nil {
		t.Error("expected the write error to propagate")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("disk full")
}
