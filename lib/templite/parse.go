package templite

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// matches either {{expression}} or {%action%}, non-greedily
	tagPattern  = regexp.MustCompile(`(?s){{.*?}}|{%.*?%}`)
	namePattern = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`)
)

// Context maps names to the values a template may reference.
type Context map[string]interface{}

type node interface {
	exec(b *strings.Builder, s *scope) error
}

type literalNode string

type emitNode struct {
	expr *expr
}

type ifNode struct {
	cond *expr
	body []node
}

type forNode struct {
	name string
	src  *expr
	body []node
}

// expr is a bare name optionally followed by dotted property steps.
type expr struct {
	text string
	root string
	path []string
}

// Template is a compiled template. It is never modified after Compile
// returns, so it may be rendered concurrently.
type Template struct {
	root      []node
	base      Context
	variables []string
	loopVars  []string
}

// block is an open if or for on the parser's stack.
type block struct {
	kind  string
	line  int
	nodes []node

	cond *expr // if

	name string // for
	src  *expr  // for
}

type parser struct {
	stack     []*block
	variables map[string]struct{}
	loopVars  map[string]struct{}
	line      int
}

// Compile parses text into a Template. The optional contexts are merged, in
// order, into a base context that every Render call starts from.
func Compile(text string, contexts ...Context) (*Template, error) {
	p := &parser{
		stack:     []*block{{kind: "", line: 1}},
		variables: make(map[string]struct{}),
		loopVars:  make(map[string]struct{}),
		line:      1,
	}

	last := 0
	for _, loc := range tagPattern.FindAllStringIndex(text, -1) {
		p.literal(text[last:loc[0]])
		if err := p.tag(text[loc[0]:loc[1]]); err != nil {
			return nil, err
		}
		last = loc[1]
	}
	p.literal(text[last:])

	if len(p.stack) > 1 {
		open := p.stack[len(p.stack)-1]
		return nil, &SyntaxError{Reason: ReasonUnclosedAction, Tag: open.kind, Line: open.line}
	}

	base := make(Context)
	for _, ctx := range contexts {
		for k, v := range ctx {
			base[k] = v
		}
	}

	return &Template{
		root:      p.stack[0].nodes,
		base:      base,
		variables: sortedNames(p.variables),
		loopVars:  sortedNames(p.loopVars),
	}, nil
}

// MustCompile is like Compile but panics if the template cannot be compiled.
func MustCompile(text string, contexts ...Context) *Template {
	t, err := Compile(text, contexts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Variables returns the names the template reads from its context, sorted.
// Loop variables are only included if they are also referenced outside the
// loops that bind them.
func (t *Template) Variables() []string {
	return append([]string(nil), t.variables...)
}

// LoopVariables returns the names bound by for actions, sorted.
func (t *Template) LoopVariables() []string {
	return append([]string(nil), t.loopVars...)
}

func (p *parser) top() *block {
	return p.stack[len(p.stack)-1]
}

func (p *parser) emit(n node) {
	top := p.top()
	top.nodes = append(top.nodes, n)
}

func (p *parser) literal(s string) {
	if s == "" {
		return
	}
	p.emit(literalNode(s))
	p.line += strings.Count(s, "\n")
}

func (p *parser) tag(token string) error {
	line := p.line
	p.line += strings.Count(token, "\n")
	bad := func(reason string) error {
		return &SyntaxError{Reason: reason, Tag: token, Line: line}
	}

	if strings.HasPrefix(token, "{{") {
		e, err := p.expr(strings.TrimSpace(token[2:len(token)-2]), line)
		if err != nil {
			return err
		}
		p.emit(&emitNode{expr: e})
		return nil
	}

	words := strings.Fields(token[2 : len(token)-2])
	if len(words) == 0 {
		return bad(ReasonBadSyntax)
	}

	switch {
	case words[0] == "if":
		if len(words) != 2 {
			return bad(ReasonBadSyntax)
		}
		cond, err := p.expr(words[1], line)
		if err != nil {
			return err
		}
		p.stack = append(p.stack, &block{kind: "if", line: line, cond: cond})

	case words[0] == "for":
		if len(words) != 4 || words[2] != "in" {
			return bad(ReasonBadSyntax)
		}
		if !namePattern.MatchString(words[1]) {
			return &SyntaxError{Reason: ReasonInvalidName, Tag: words[1], Line: line}
		}
		// the source is evaluated outside the loop's own binding
		src, err := p.expr(words[3], line)
		if err != nil {
			return err
		}
		p.loopVars[words[1]] = struct{}{}
		p.stack = append(p.stack, &block{kind: "for", line: line, name: words[1], src: src})

	case strings.HasPrefix(words[0], "end"):
		if len(words) != 1 {
			return bad(ReasonBadSyntax)
		}
		if len(p.stack) == 1 {
			return bad(ReasonUnmatchedEnd)
		}
		closed := p.top()
		if closed.kind != strings.TrimPrefix(words[0], "end") {
			return bad(ReasonMismatchedEnd)
		}
		p.stack = p.stack[:len(p.stack)-1]
		if closed.kind == "if" {
			p.emit(&ifNode{cond: closed.cond, body: closed.nodes})
		} else {
			p.emit(&forNode{name: closed.name, src: closed.src, body: closed.nodes})
		}

	default:
		return bad(ReasonBadSyntax)
	}
	return nil
}

// expr parses a (possibly dotted) expression and records its root name as
// a free variable unless an enclosing loop binds it.
func (p *parser) expr(text string, line int) (*expr, error) {
	segments := strings.Split(text, ".")
	if !namePattern.MatchString(segments[0]) {
		return nil, &SyntaxError{Reason: ReasonInvalidName, Tag: text, Line: line}
	}
	for _, seg := range segments[1:] {
		if seg == "" {
			return nil, &SyntaxError{Reason: ReasonInvalidName, Tag: text, Line: line}
		}
	}

	if !p.bound(segments[0]) {
		p.variables[segments[0]] = struct{}{}
	}
	return &expr{text: text, root: segments[0], path: segments[1:]}, nil
}

func (p *parser) bound(name string) bool {
	for _, b := range p.stack {
		if b.kind == "for" && b.name == name {
			return true
		}
	}
	return false
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
