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

// Package pipeline orchestrates the four compiler passes — preprocess, lex,
// parse+optimize, emit — threading a single source file through each in
// turn and normalizing every pass's error type into a pipeline.Error. There
// is no recovery: the first error aborts the whole compile.
package pipeline

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mckerracher/opal/asmcode"
	"github.com/mckerracher/opal/ast"
	"github.com/mckerracher/opal/internal/emit"
	"github.com/mckerracher/opal/internal/lex"
	"github.com/mckerracher/opal/internal/optimize"
	"github.com/mckerracher/opal/internal/parse"
	"github.com/mckerracher/opal/internal/preprocess"
	"github.com/mckerracher/opal/token"
)

// Stage names one of the pipeline's passes, used in Error and by Sink
// implementations that want to label what they're looking at.
type Stage string

const (
	StagePreprocess Stage = "preprocess"
	StageLex        Stage = "lex"
	StageParse      Stage = "parse"
	StageOptimize   Stage = "optimize"
	StageEmit       Stage = "emit"
)

// Error is the single error shape the pipeline ever returns: which stage
// failed, where in the source, and why. Cause holds the stage's own error
// value for callers that want to errors.As into it.
type Error struct {
	Stage Stage
	Line  int
	Col   int
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Stage, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Result bundles every intermediate artifact a compile produces, so that
// tooling (the report package, tests) can inspect any stage's output
// without recomputing it.
type Result struct {
	Tokens      []token.Token
	AST         *ast.Node
	Optimized   *ast.Node
	Code        []asmcode.Instruction
	Identifiers []string
	Strings     []string
}

// Sink receives a snapshot after each successful pass. Implementations that
// only care about some passes can embed NopSink and override the rest.
type Sink interface {
	Lexed(path string, toks []token.Token)
	Parsed(path string, root *ast.Node)
	Optimized(path string, root *ast.Node)
	Emitted(path string, code []asmcode.Instruction, idents, strs []string)
}

// NopSink implements Sink with no-op methods, for callers that don't need
// per-pass visibility.
type NopSink struct{}

func (NopSink) Lexed(string, []token.Token)                          {}
func (NopSink) Parsed(string, *ast.Node)                              {}
func (NopSink) Optimized(string, *ast.Node)                           {}
func (NopSink) Emitted(string, []asmcode.Instruction, []string, []string) {}

// Compile runs the full preprocess -> lex -> parse -> optimize -> emit
// pipeline over src (read from path, used only for error messages and
// include resolution) and reports progress to sink after each pass.
func Compile(path string, src string, sink Sink) (*Result, error) {
	if sink == nil {
		sink = NopSink{}
	}

	processed, err := preprocess.Process(path, src)
	if err != nil {
		var pe *preprocess.Error
		if errors.As(err, &pe) {
			return nil, &Error{Stage: StagePreprocess, Line: pe.Line, Msg: pe.Msg, Cause: err}
		}
		return nil, &Error{Stage: StagePreprocess, Msg: err.Error(), Cause: err}
	}

	toks, err := lex.Tokenize(processed)
	if err != nil {
		var le *lex.Error
		if errors.As(err, &le) {
			return nil, &Error{Stage: StageLex, Line: le.Line, Col: le.Col, Msg: le.Msg, Cause: err}
		}
		return nil, &Error{Stage: StageLex, Msg: err.Error(), Cause: err}
	}
	sink.Lexed(path, toks)

	root, err := parse.Parse(toks)
	if err != nil {
		var pe *parse.Error
		if errors.As(err, &pe) {
			return nil, &Error{Stage: StageParse, Line: pe.Line, Col: pe.Col, Msg: pe.Msg, Cause: err}
		}
		return nil, &Error{Stage: StageParse, Msg: err.Error(), Cause: err}
	}
	sink.Parsed(path, root)

	optimized := optimize.Optimize(root)
	sink.Optimized(path, optimized)

	code, idents, strs, err := emit.Emit(optimized)
	if err != nil {
		var ee *emit.Error
		if errors.As(err, &ee) {
			return nil, &Error{Stage: StageEmit, Msg: ee.Msg, Cause: err}
		}
		return nil, &Error{Stage: StageEmit, Msg: err.Error(), Cause: err}
	}
	sink.Emitted(path, code, idents, strs)

	return &Result{
		Tokens:      toks,
		AST:         root,
		Optimized:   optimized,
		Code:        code,
		Identifiers: idents,
		Strings:     strs,
	}, nil
}
