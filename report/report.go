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

// Package report renders a compile's intermediate artifacts — tokens, the
// parsed and optimized ASTs, and the emitted assembly — to a single
// self-contained HTML file, with the ASTs drawn as Mermaid graphs.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/mckerracher/opal/asmcode"
	"github.com/mckerracher/opal/ast"
	"github.com/mckerracher/opal/token"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

//go:embed templates/report.css
var reportCSS string

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

// Collector implements pipeline.Sink, accumulating one Report per path seen.
// It is safe to reuse across multiple Compile calls against different
// paths; each path gets its own Report.
type Collector struct {
	reports map[string]*Report
	order   []string
}

// NewCollector returns a ready-to-use Collector.
func NewCollector() *Collector {
	return &Collector{reports: make(map[string]*Report)}
}

func (c *Collector) entry(path string) *Report {
	r, ok := c.reports[path]
	if !ok {
		r = &Report{Path: path}
		c.reports[path] = r
		c.order = append(c.order, path)
	}
	return r
}

func (c *Collector) Lexed(path string, toks []token.Token) { c.entry(path).Tokens = toks }
func (c *Collector) Parsed(path string, root *ast.Node)     { c.entry(path).AST = root }
func (c *Collector) Optimized(path string, root *ast.Node)  { c.entry(path).Optimized = root }
func (c *Collector) Emitted(path string, code []asmcode.Instruction, idents, strs []string) {
	r := c.entry(path)
	r.Code, r.Identifiers, r.Strings = code, idents, strs
}

// Fail records that compiling path terminated with err. Callers own calling
// this from their own error-handling path; the pipeline itself has no
// notion of per-file failure reporting.
func (c *Collector) Fail(path string, err error) {
	c.entry(path).Err = err
}

// Reports returns the accumulated reports in the order their paths were
// first seen.
func (c *Collector) Reports() []*Report {
	out := make([]*Report, 0, len(c.order))
	for _, p := range c.order {
		out = append(out, c.reports[p])
	}
	return out
}

// Report is the rendering view of one file's compile artifacts.
type Report struct {
	Path        string
	Tokens      []token.Token
	AST         *ast.Node
	Optimized   *ast.Node
	Code        []asmcode.Instruction
	Identifiers []string
	Strings     []string
	Err         error
}

// view is the data the HTML template actually ranges over; it pre-renders
// the Mermaid diagrams since templates can't call arbitrary functions with
// internal state.
type view struct {
	Path             string
	Tokens           []token.Token
	ASTDiagram       template.HTML
	OptimizedDiagram template.HTML
	Code             []asmcode.Instruction
	Identifiers      []string
	Strings          []string
	Err              string
	CSS              template.CSS
}

// Render writes r as a standalone HTML document to w.
func (r *Report) Render(w io.Writer) error {
	v := view{
		Path:             r.Path,
		Tokens:           r.Tokens,
		ASTDiagram:       template.HTML(mermaidGraph(r.AST, "ast")),
		OptimizedDiagram: template.HTML(mermaidGraph(r.Optimized, "opt")),
		Code:             r.Code,
		Identifiers:      r.Identifiers,
		Strings:          r.Strings,
		CSS:              template.CSS(reportCSS),
	}
	if r.Err != nil {
		v.Err = r.Err.Error()
	}
	return reportTemplate.Execute(w, v)
}

// mermaidGraph renders root as a Mermaid "graph TD" node/edge list, prefixed
// so that two diagrams in the same document never share node ids.
func mermaidGraph(root *ast.Node, prefix string) string {
	var b strings.Builder
	if root == nil {
		b.WriteString(fmt.Sprintf("%s0[\"(empty)\"]\n", prefix))
		return b.String()
	}
	n := 0
	var walk func(node *ast.Node) string
	walk = func(node *ast.Node) string {
		id := fmt.Sprintf("%s%d", prefix, n)
		n++
		label := node.Kind.String()
		switch {
		case node.Kind == ast.Ident:
			label = fmt.Sprintf("Ident(%s)", node.Text)
		case node.Kind == ast.Integer:
			label = fmt.Sprintf("Integer(%d)", node.IntVal)
		case node.Kind == ast.String || node.Kind == ast.Input:
			label = fmt.Sprintf("%s(%q)", node.Kind, node.Text)
		}
		fmt.Fprintf(&b, "%s[\"%s\"]\n", id, label)
		if node.Left != nil {
			childID := walk(node.Left)
			fmt.Fprintf(&b, "%s --> %s\n", id, childID)
		}
		if node.Right != nil {
			childID := walk(node.Right)
			fmt.Fprintf(&b, "%s --> %s\n", id, childID)
		}
		return id
	}
	walk(root)
	return b.String()
}
