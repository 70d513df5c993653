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

package pipeline_test

import (
	"testing"

	"github.com/mckerracher/opal/asmcode"
	"github.com/mckerracher/opal/ast"
	"github.com/mckerracher/opal/internal/pipeline"
	"github.com/mckerracher/opal/token"
)

func TestCompileSimpleProgram(t *testing.T) {
	src := "x = 1 + 2;\nprint(x);\n"
	result, err := pipeline.Compile("test.opl", src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Code) == 0 || result.Code[len(result.Code)-1].Op != asmcode.Halt {
		t.Errorf("got code %v, want it to end in Halt", result.Code)
	}
}

func TestCompileReportsLexStage(t *testing.T) {
	_, err := pipeline.Compile("test.opl", "x = 1 & 2;", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var pe *pipeline.Error
	if !asPipelineError(err, &pe) {
		t.Fatalf("got error of type %T, want *pipeline.Error", err)
	}
	if pe.Stage != pipeline.StageLex {
		t.Errorf("got stage %v, want %v", pe.Stage, pipeline.StageLex)
	}
}

func TestCompileReportsParseStage(t *testing.T) {
	_, err := pipeline.Compile("test.opl", "x = 1", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var pe *pipeline.Error
	if !asPipelineError(err, &pe) {
		t.Fatalf("got error of type %T, want *pipeline.Error", err)
	}
	if pe.Stage != pipeline.StageParse {
		t.Errorf("got stage %v, want %v", pe.Stage, pipeline.StageParse)
	}
}

func TestCompileReportsPreprocessStage(t *testing.T) {
	_, err := pipeline.Compile("test.opl", "x = 1; /* unterminated", nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	var pe *pipeline.Error
	if !asPipelineError(err, &pe) {
		t.Fatalf("got error of type %T, want *pipeline.Error", err)
	}
	if pe.Stage != pipeline.StagePreprocess {
		t.Errorf("got stage %v, want %v", pe.Stage, pipeline.StagePreprocess)
	}
}

func asPipelineError(err error, target **pipeline.Error) bool {
	if pe, ok := err.(*pipeline.Error); ok {
		*target = pe
		return true
	}
	return false
}

type recordingSink struct {
	lexed, parsed, optimized, emitted bool
}

func (s *recordingSink) Lexed(string, []token.Token)                              { s.lexed = true }
func (s *recordingSink) Parsed(string, *ast.Node)                                  { s.parsed = true }
func (s *recordingSink) Optimized(string, *ast.Node)                               { s.optimized = true }
func (s *recordingSink) Emitted(string, []asmcode.Instruction, []string, []string) { s.emitted = true }

func TestCompileDrivesSink(t *testing.T) {
	sink := &recordingSink{}
	if _, err := pipeline.Compile("test.opl", "x = 1;", sink); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sink.lexed || !sink.parsed || !sink.optimized || !sink.emitted {
		t.Errorf("got %+v, want every pass to have reported in", sink)
	}
}

// Empty source and source consisting only of empty statements must compile
// cleanly to a single Halt instruction.
func TestCompileEmptyProgram(t *testing.T) {
	for _, src := range []string{"", ";;;"} {
		result, err := pipeline.Compile("test.opl", src, nil)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", src, err)
			continue
		}
		if len(result.Code) != 1 || result.Code[0].Op != asmcode.Halt {
			t.Errorf("%q: got code %v, want a single Halt", src, result.Code)
		}
	}
}
