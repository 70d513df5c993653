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

// Package toolchain shells out to an external assembler and linker to turn
// emitted NASM-syntax assembly text into a native executable. opal never
// assembles or links itself; it only renders instructions to text.
package toolchain

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	defaultAssembler = "nasm"
	defaultLinker    = "ld"
	defaultAsmFormat = "elf64"
)

// config holds the resolved settings an Option mutates.
type config struct {
	assembler string
	linker    string
	asmFormat string
	keepAsm   bool
	asmArgs   []string
	ldArgs    []string
}

// Option configures a Build invocation.
type Option func(*config)

// Assembler overrides the assembler executable (default "nasm").
func Assembler(path string) Option {
	return func(c *config) { c.assembler = path }
}

// Linker overrides the linker executable (default "ld").
func Linker(path string) Option {
	return func(c *config) { c.linker = path }
}

// AsmFormat overrides the assembler's output format flag (default "elf64").
func AsmFormat(format string) Option {
	return func(c *config) { c.asmFormat = format }
}

// KeepAssembly retains the intermediate .s file alongside the output binary
// instead of deleting it once the build finishes.
func KeepAssembly(keep bool) Option {
	return func(c *config) { c.keepAsm = keep }
}

// ExtraAssemblerArgs appends additional arguments to the assembler
// invocation, after the format and output flags.
func ExtraAssemblerArgs(args ...string) Option {
	return func(c *config) { c.asmArgs = append(c.asmArgs, args...) }
}

// ExtraLinkerArgs appends additional arguments to the linker invocation.
func ExtraLinkerArgs(args ...string) Option {
	return func(c *config) { c.ldArgs = append(c.ldArgs, args...) }
}

// Build assembles asmSrc (NASM-syntax text) and links the result into an
// executable at outPath, by shelling out to an external assembler and
// linker. It is the only place in opal that invokes another process.
func Build(ctx context.Context, asmSrc string, outPath string, opts ...Option) error {
	c := &config{
		assembler: defaultAssembler,
		linker:    defaultLinker,
		asmFormat: defaultAsmFormat,
	}
	for _, opt := range opts {
		opt(c)
	}

	asmPath := outPath + ".s"
	if err := os.WriteFile(asmPath, []byte(asmSrc), 0o644); err != nil {
		return errors.Wrap(err, "toolchain: writing assembly source")
	}
	if !c.keepAsm {
		defer os.Remove(asmPath)
	}

	objPath := outPath + ".o"
	defer os.Remove(objPath)

	asArgs := append([]string{"-f", c.asmFormat, asmPath, "-o", objPath}, c.asmArgs...)
	if err := run(ctx, c.assembler, asArgs...); err != nil {
		return errors.Wrapf(err, "toolchain: assembling %s", filepath.Base(asmPath))
	}

	ldArgs := append([]string{objPath, "-o", outPath}, c.ldArgs...)
	if err := run(ctx, c.linker, ldArgs...); err != nil {
		return errors.Wrapf(err, "toolchain: linking %s", filepath.Base(outPath))
	}
	return nil
}

func run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
