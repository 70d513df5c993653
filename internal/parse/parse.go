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

// Package parse implements the recursive-descent statement parser and the
// precedence-climbing expression parser, building the ast.Node tree.
package parse

import (
	"fmt"

	"github.com/mckerracher/opal/ast"
	"github.com/mckerracher/opal/token"
)

// Error reports a fatal parse error at a source position.
type Error struct {
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parser consumes a fixed token slice produced by the lexer and builds an
// ast.Node tree. It never looks behind the current position.
type Parser struct {
	toks []token.Token
	pos  int
}

// Parse parses toks (which must end in exactly one token.EOF) into a program
// tree. An empty program parses to a nil *ast.Node.
func Parse(toks []token.Token) (*ast.Node, error) {
	p := &Parser{toks: toks}
	n, err := p.program()
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.EOF {
		return nil, p.errorf("unexpected %s", p.cur())
	}
	return n, nil
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, p.errorf("expected %s, found %s", token.Grammar[k].Name, p.cur())
	}
	return p.advance(), nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	t := p.cur()
	return &Error{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)}
}

// program parses a sequence of statements until EOF.
func (p *Parser) program() (*ast.Node, error) {
	var seq *ast.Node
	for p.cur().Kind != token.EOF {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		seq = appendSeq(seq, stmt)
	}
	return seq, nil
}

// appendSeq chains stmt onto the end of seq, skipping nil (empty) statements.
func appendSeq(seq, stmt *ast.Node) *ast.Node {
	if stmt == nil {
		return seq
	}
	if seq == nil {
		return &ast.Node{Kind: ast.Sequence, Left: nil, Right: stmt}
	}
	return &ast.Node{Kind: ast.Sequence, Left: seq, Right: stmt}
}

// statement dispatches on the current token kind, matching the grammar's
// single-token-lookahead statement forms.
func (p *Parser) statement() (*ast.Node, error) {
	switch p.cur().Kind {
	case token.If:
		return p.ifStatement()
	case token.While:
		return p.whileStatement()
	case token.Print:
		return p.printStatement()
	case token.Identifier:
		return p.assignStatement()
	case token.Lbrace:
		return p.block()
	case token.Semi:
		p.advance()
		return nil, nil
	default:
		return nil, p.errorf("unexpected %s at start of statement", p.cur())
	}
}

// ifStatement parses `if ( expr ) stmt [else stmt]`, encoding the result as
// If(cond, If(then, elseOrNil)) so every node keeps exactly two children.
func (p *Parser) ifStatement() (*ast.Node, error) {
	p.advance() // 'if'
	if _, err := p.expect(token.Lparen); err != nil {
		return nil, err
	}
	cond, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Rparen); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseStmt *ast.Node
	if p.cur().Kind == token.Else {
		p.advance()
		elseStmt, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	inner := &ast.Node{Kind: ast.If, Left: then, Right: elseStmt}
	return &ast.Node{Kind: ast.If, Left: cond, Right: inner}, nil
}

func (p *Parser) whileStatement() (*ast.Node, error) {
	p.advance() // 'while'
	if _, err := p.expect(token.Lparen); err != nil {
		return nil, err
	}
	cond, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Rparen); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.While, Left: cond, Right: body}, nil
}

// printStatement parses `print ( arg [, arg]... ) ;`. Each arg is a bare
// string literal (producing a Prts node) or an expression (producing a Prti
// node); arguments chain left-to-right into a Sequence tree in the order
// they appear.
func (p *Parser) printStatement() (*ast.Node, error) {
	p.advance() // 'print'
	if _, err := p.expect(token.Lparen); err != nil {
		return nil, err
	}
	var seq *ast.Node
	for {
		var item *ast.Node
		if p.cur().Kind == token.String {
			str := p.advance()
			item = &ast.Node{Kind: ast.Prts, Left: &ast.Node{Kind: ast.String, Text: str.Text}}
		} else {
			expr, err := p.expression(0)
			if err != nil {
				return nil, err
			}
			item = &ast.Node{Kind: ast.Prti, Left: expr}
		}
		seq = appendSeq(seq, item)
		if p.cur().Kind != token.Comma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.Rparen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return seq, nil
}

func (p *Parser) assignStatement() (*ast.Node, error) {
	id := p.advance()
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	expr, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind:  ast.Assign,
		Left:  &ast.Node{Kind: ast.Ident, Text: id.Text},
		Right: expr,
	}, nil
}

func (p *Parser) block() (*ast.Node, error) {
	p.advance() // '{'
	var seq *ast.Node
	for p.cur().Kind != token.Rbrace {
		if p.cur().Kind == token.EOF {
			return nil, p.errorf("unexpected end of file, expected }")
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		seq = appendSeq(seq, stmt)
	}
	p.advance() // '}'
	return seq, nil
}

// expression climbs the precedence table starting from minPrec, implementing
// a standard Pratt-style parser keyed off token.Grammar.
func (p *Parser) expression(minPrec int) (*ast.Node, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		entry := token.Grammar[p.cur().Kind]
		if !entry.Binary || entry.Prec < minPrec {
			return left, nil
		}
		opKind := p.cur().Kind
		p.advance()
		nextMin := entry.Prec + 1
		if entry.RightAssoc {
			nextMin = entry.Prec
		}
		right, err := p.expression(nextMin)
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: token.Grammar[opKind].NodeKind, Left: left, Right: right}
	}
}

// primary parses a prefix form: a unary operator application, a literal, an
// identifier, the input(STRING) special form, or a parenthesized expression.
func (p *Parser) primary() (*ast.Node, error) {
	t := p.cur()
	switch t.Kind {
	case token.Not:
		p.advance()
		operand, err := p.expression(token.Grammar[token.Not].Prec)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Not, Left: operand}, nil
	case token.Sub:
		p.advance()
		operand, err := p.expression(token.Grammar[token.Negate].Prec)
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Negate, Left: operand}, nil
	case token.Add:
		// Unary + is a no-op prefix; it does not synthesize a node.
		p.advance()
		return p.expression(token.Grammar[token.Add].Prec)
	case token.Integer:
		p.advance()
		return &ast.Node{Kind: ast.Integer, IntVal: t.IntVal}, nil
	case token.Identifier:
		p.advance()
		return &ast.Node{Kind: ast.Ident, Text: t.Text}, nil
	case token.Input:
		return p.inputExpr()
	case token.Lparen:
		p.advance()
		inner, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Rparen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.errorf("unexpected %s in expression", t)
	}
}

// inputExpr parses the special form `input ( STRING )`, a prompt-and-read
// expression that evaluates to the integer the user enters. It produces
// Sequence(Input(prompt, nil), nil) rather than a bare Input node; the
// optimizer's single-null-child collapse reduces this back to the bare node,
// but pre-optimization consumers (the parsed-AST snapshot) see the literal
// shape the grammar describes.
func (p *Parser) inputExpr() (*ast.Node, error) {
	p.advance() // 'input'
	if _, err := p.expect(token.Lparen); err != nil {
		return nil, err
	}
	prompt, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Rparen); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Sequence, Left: &ast.Node{Kind: ast.Input, Text: prompt.Text}}, nil
}
