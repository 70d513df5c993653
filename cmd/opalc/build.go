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
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mckerracher/opal"
	"github.com/mckerracher/opal/toolchain"
)

func buildCmd() *cobra.Command {
	var (
		outDir      string
		emitAsmOnly bool
		assembler   string
		linker      string
		jobs        int
	)

	cmd := &cobra.Command{
		Use:   "build <file.opl>...",
		Short: "Compile one or more opal source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, ctx := errgroup.WithContext(cmd.Context())
			if jobs > 0 {
				g.SetLimit(jobs)
			}
			for _, path := range args {
				path := path
				g.Go(func() error {
					return buildOne(ctx, path, outDir, emitAsmOnly, assembler, linker)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write outputs into")
	cmd.Flags().BoolVar(&emitAsmOnly, "emit-asm-only", false, "stop after emitting assembly; do not invoke the assembler/linker")
	cmd.Flags().StringVar(&assembler, "assembler", "nasm", "assembler executable to invoke")
	cmd.Flags().StringVar(&linker, "linker", "ld", "linker executable to invoke")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "maximum number of files to compile concurrently (0 = unlimited)")
	return cmd
}

// buildOne compiles a single file, used as the unit of work the build
// command fans out across an errgroup. Each file's pipeline runs entirely
// single-threaded; only the set of files is compiled concurrently.
func buildOne(ctx context.Context, path, outDir string, emitAsmOnly bool, assembler, linker string) error {
	l := log.With().Str("file", path).Logger()
	l.Debug().Msg("compiling")

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	prog, err := opal.Compile(path, f, nil)
	if err != nil {
		l.Error().Err(err).Msg("compile failed")
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	asmPath := filepath.Join(outDir, base+".s")
	asmFile, err := os.Create(asmPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", asmPath)
	}
	writeErr := prog.WriteAssembly(asmFile)
	closeErr := asmFile.Close()
	if writeErr != nil {
		return errors.Wrapf(writeErr, "writing %s", asmPath)
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, "closing %s", asmPath)
	}
	l.Info().Str("asm", asmPath).Msg("emitted assembly")

	if emitAsmOnly {
		return nil
	}

	asmBytes, err := os.ReadFile(asmPath)
	if err != nil {
		return errors.Wrapf(err, "rereading %s", asmPath)
	}
	outPath := filepath.Join(outDir, base)
	if err := toolchain.Build(ctx, string(asmBytes), outPath,
		toolchain.Assembler(assembler),
		toolchain.Linker(linker),
	); err != nil {
		l.Error().Err(err).Msg("build failed")
		return err
	}
	l.Info().Str("binary", outPath).Msg("built")
	return nil
}
