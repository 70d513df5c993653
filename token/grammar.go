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

package token

import "github.com/mckerracher/opal/ast"

// Entry is one row of the operator grammar table: everything the parser
// needs to know about a token kind that can head an expression.
type Entry struct {
	Text       string   // short textual form, e.g. "+", "=="
	Name       string   // human-readable name, for error messages
	Binary     bool     // usable as an infix binary operator
	Unary      bool     // usable as a prefix unary operator
	Prec       int      // binding power; higher binds tighter, -1 if inapplicable
	RightAssoc bool     // right-associative (none of this language's operators are)
	NodeKind   ast.Kind // AST node kind to emit when this operator heads a node
}

// Grammar is indexed by Kind and holds the fixed precedence/associativity/
// AST-mapping table described by the language specification.
var Grammar [numKinds]Entry

func reg(k Kind, e Entry) { Grammar[k] = e }

func init() {
	reg(EOF, Entry{Text: "<eof>", Name: "end of file", Prec: -1})
	reg(Integer, Entry{Text: "<int>", Name: "integer literal", Prec: -1})
	reg(String, Entry{Text: "<string>", Name: "string literal", Prec: -1})
	reg(Identifier, Entry{Text: "<ident>", Name: "identifier", Prec: -1})

	reg(Add, Entry{Text: "+", Name: "+", Binary: true, Unary: true, Prec: 12, NodeKind: ast.Add})
	reg(Sub, Entry{Text: "-", Name: "-", Binary: true, Unary: true, Prec: 12, NodeKind: ast.Sub})
	reg(Negate, Entry{Text: "-", Name: "unary -", Unary: true, Prec: 14, NodeKind: ast.Negate})
	reg(Mul, Entry{Text: "*", Name: "*", Binary: true, Prec: 13, NodeKind: ast.Mul})
	reg(Div, Entry{Text: "/", Name: "/", Binary: true, Prec: 13, NodeKind: ast.Div})
	reg(Mod, Entry{Text: "%", Name: "%", Binary: true, Prec: 13, NodeKind: ast.Mod})

	reg(Eq, Entry{Text: "==", Name: "==", Binary: true, Prec: 9, NodeKind: ast.Eq})
	reg(Neq, Entry{Text: "!=", Name: "!=", Binary: true, Prec: 9, NodeKind: ast.Neq})
	reg(Lss, Entry{Text: "<", Name: "<", Binary: true, Prec: 10, NodeKind: ast.Lss})
	reg(Gtr, Entry{Text: ">", Name: ">", Binary: true, Prec: 10, NodeKind: ast.Gtr})
	reg(Leq, Entry{Text: "<=", Name: "<=", Binary: true, Prec: 10, NodeKind: ast.Leq})
	reg(Geq, Entry{Text: ">=", Name: ">=", Binary: true, Prec: 10, NodeKind: ast.Geq})

	reg(And, Entry{Text: "&&", Name: "&&", Binary: true, Prec: 5, NodeKind: ast.And})
	reg(Or, Entry{Text: "||", Name: "||", Binary: true, Prec: 4, NodeKind: ast.Or})
	reg(Not, Entry{Text: "!", Name: "!", Unary: true, Prec: 14, NodeKind: ast.Not})

	reg(Assign, Entry{Text: "=", Name: "=", Prec: -1})

	reg(Lparen, Entry{Text: "(", Name: "(", Prec: -1})
	reg(Rparen, Entry{Text: ")", Name: ")", Prec: -1})
	reg(Lbrace, Entry{Text: "{", Name: "{", Prec: -1})
	reg(Rbrace, Entry{Text: "}", Name: "}", Prec: -1})
	reg(Semi, Entry{Text: ";", Name: ";", Prec: -1})
	reg(Comma, Entry{Text: ",", Name: ",", Prec: -1})

	reg(If, Entry{Text: "if", Name: "if", Prec: -1})
	reg(Else, Entry{Text: "else", Name: "else", Prec: -1})
	reg(While, Entry{Text: "while", Name: "while", Prec: -1})
	reg(Print, Entry{Text: "print", Name: "print", Prec: -1})
	reg(Input, Entry{Text: "input", Name: "input", Prec: -1})
}
