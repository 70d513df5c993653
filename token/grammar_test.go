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

package token_test

import (
	"testing"

	"github.com/mckerracher/opal/token"
)

func TestGrammarPrecedence(t *testing.T) {
	data := []struct {
		k    token.Kind
		prec int
	}{
		{token.Not, 14},
		{token.Negate, 14},
		{token.Mul, 13},
		{token.Div, 13},
		{token.Mod, 13},
		{token.Add, 12},
		{token.Sub, 12},
		{token.Lss, 10},
		{token.Gtr, 10},
		{token.Leq, 10},
		{token.Geq, 10},
		{token.Eq, 9},
		{token.Neq, 9},
		{token.And, 5},
		{token.Or, 4},
	}
	for _, d := range data {
		got := token.Grammar[d.k].Prec
		if got != d.prec {
			t.Errorf("%s: got precedence %d, want %d", token.Grammar[d.k].Name, got, d.prec)
		}
	}
}

func TestGrammarAssociativity(t *testing.T) {
	for _, e := range token.Grammar {
		if e.Binary && e.RightAssoc {
			t.Errorf("%s: binary operator unexpectedly right-associative", e.Name)
		}
	}
}

func TestLookup(t *testing.T) {
	data := []struct {
		text string
		kind token.Kind
		ok   bool
	}{
		{"if", token.If, true},
		{"else", token.Else, true},
		{"while", token.While, true},
		{"print", token.Print, true},
		{"input", token.Input, true},
		{"foo", 0, false},
	}
	for _, d := range data {
		kind, ok := token.Lookup(d.text)
		if ok != d.ok {
			t.Errorf("Lookup(%q): ok = %v, want %v", d.text, ok, d.ok)
			continue
		}
		if ok && kind != d.kind {
			t.Errorf("Lookup(%q): kind = %v, want %v", d.text, kind, d.kind)
		}
	}
}
