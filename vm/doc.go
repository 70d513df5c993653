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

// Package vm implements a small stack-machine interpreter for the
// asmcode.Instruction list the compiler emits. It exists alongside the
// toolchain package's external NASM/ld path: toolchain.Build produces a
// native binary by shelling out, while (*Instance).Run executes the same
// instruction list directly in-process, which is convenient for tests and
// for a `run` subcommand that doesn't require a NASM-compatible assembler
// to be installed.
//
// The instruction set has no notion of memory images or I/O ports; values
// live on a single integer data stack, variables live in a flat slot table
// sized to the identifier symbol table, and Prts/Input index into the
// string symbol table.
package vm
