package safeeval

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Expr    = Lambda | Cond [':=' Expr]
// Lambda  = 'lambda' [name {',' name}] ':' Expr
// Cond    = Binary ['if' Binary 'else' Expr]
// Binary  = Unary {binop Unary}
// Unary   = ('+' | '-' | '~' | 'not') Unary | Postfix
// Postfix = Atom {'(' Args ')' | '.' name | '[' Expr ']'}
// Atom    = num | str | name
//         | '(' [Expr {',' Expr} [',']] ')'
//         | '[' [Expr {',' Expr} [',']] ']'
//         | '{' [Expr {',' Expr} [',']] '}'
//         | '{' [Expr ':' Expr {',' Expr ':' Expr} [',']] '}'
//
// Binary operators in decreasing binding order:
//   **   (right)
//   * / // %
//   + -
//   << >>
//   &
//   ^
//   |
//   < > <= >= == !=
//   and
//   or
// Unary + - ~ bind between ** and the multiplicative operators; not binds
// between the comparisons and and.

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of identifiers referenced by the expression, not
	// counting called function names.
	names []string
}

// Parse parses a calculator expression so it can be evaluated with a context.
// The accepted grammar is wider than what evaluation permits: constructs and
// operators outside the calculator subset parse successfully and are refused
// during evaluation, so that the reported error names the construct rather
// than a token. Parse returns a *SyntaxError when src is not an expression at
// all, and a *TooComplexError when nesting exceeds DefaultMaxDepth.
func Parse(src string) (*Expr, error) {
	toks, err := lexAll(src)
	if err != nil {
		return nil, err
	}
	p := parser{toks: toks}
	n, err := p.parseexpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		if tok.kind == tokenOp && tok.text == "=" {
			return nil, &SyntaxError{Col: tok.pos, Msg: `assignment is not an expression; use == to compare`}
		}
		return nil, &SyntaxError{Col: tok.pos, Msg: "unexpected " + strconv.Quote(tok.text) + " after expression"}
	}
	seen := make(map[string]bool)
	collectnames(n, seen)
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(seen)),
	}
	for k := range seen {
		ex.names = append(ex.names, k)
	}
	sort.Strings(ex.names)
	return &ex, nil
}

// Vars returns the names the expression refers to, sorted. Called function
// names are not included.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a fully parenthesized string representation of the parsed
// expression. Parsing the result yields an equal expression.
func (e *Expr) String() string {
	return e.n.String()
}

// collectnames records the identifiers a tree refers to, skipping names in
// call position. The walk carries its own stack: flat operator chains build
// trees far deeper than the nesting limit lets the parser recurse.
func collectnames(n *node, seen map[string]bool) {
	stack := []*node{n}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		switch n.kind {
		case nodeName:
			seen[n.text] = true
			continue
		case nodeCall:
			if n.left.kind != nodeName {
				stack = append(stack, n.left)
			}
		default:
			stack = append(stack, n.left)
		}
		stack = append(stack, n.right)
		for _, a := range n.args {
			stack = append(stack, a)
		}
	}
}

type parser struct {
	toks []lexToken
	i    int
	// depth is the current nesting level. Brackets and postfix links each
	// count one level; right-associative operator, conditional, and
	// assignment chains count one level per link.
	depth int
}

func (p *parser) peek() lexToken {
	return p.toks[p.i]
}

// advance consumes and returns the next token. The EOF token is never
// consumed, so advancing past the end of input is safe.
func (p *parser) advance() lexToken {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}
	return tok
}

func (p *parser) expect(text string) error {
	tok := p.advance()
	if tok.kind != tokenOp || tok.text != text {
		return &SyntaxError{Col: tok.pos, Msg: "expected " + strconv.Quote(text) + ", found " + unexpected(tok)}
	}
	return nil
}

func (p *parser) descend() error {
	p.depth++
	if p.depth > DefaultMaxDepth {
		return &TooComplexError{Limit: DefaultMaxDepth}
	}
	return nil
}

func (p *parser) ascend() {
	p.depth--
}

// parseexpr parses a full expression, including the forms that exist only to
// be refused during evaluation: lambdas, conditional expressions, and
// assignment expressions.
func (p *parser) parseexpr() (*node, error) {
	if tok := p.peek(); tok.kind == tokenIdent && tok.text == "lambda" {
		return p.parselambda()
	}
	n, err := p.parsebinary(exprprec)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind == tokenIdent && tok.text == "if" {
		p.advance()
		cond, err := p.parsebinary(exprprec)
		if err != nil {
			return nil, err
		}
		tok := p.advance()
		if tok.kind != tokenIdent || tok.text != "else" {
			return nil, &SyntaxError{Col: tok.pos, Msg: `expected "else", found ` + unexpected(tok)}
		}
		if err := p.descend(); err != nil {
			return nil, err
		}
		alt, err := p.parseexpr()
		p.ascend()
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeCond, args: []*node{n, cond, alt}}
	}
	if tok := p.peek(); tok.kind == tokenOp && tok.text == ":=" {
		p.advance()
		if n.kind != nodeName {
			return nil, &SyntaxError{Col: tok.pos, Msg: "cannot assign to this expression"}
		}
		if err := p.descend(); err != nil {
			return nil, err
		}
		rhs, err := p.parseexpr()
		p.ascend()
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeAssign, left: n, right: rhs}
	}
	return n, nil
}

// parsebinary parses a term and any infix operators that bind more tightly
// than until. Every nested production passes through here, so this is also
// where the nesting limit is enforced.
func (p *parser) parsebinary(until operator) (*node, error) {
	if err := p.descend(); err != nil {
		return nil, err
	}
	defer p.ascend()
	n, err := p.parseunary(until)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		var prec operator
		if tok.kind == tokenOp || tok.kind == tokenIdent {
			prec = binop(tok.text)
		}
		if prec.op == nodeNone || !prec.moreBinding(until) {
			return n, nil
		}
		p.advance()
		rhs, err := p.parsebinary(prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, text: tok.text, left: n, right: rhs}
	}
}

func (p *parser) parseunary(until operator) (*node, error) {
	tok := p.peek()
	var prec operator
	if tok.kind == tokenOp || tok.kind == tokenIdent {
		prec = unop(tok.text)
	}
	if prec.op == nodeNone {
		return p.parsepostfix()
	}
	p.advance()
	if !prec.moreBinding(until) {
		// x**-y parses as x**(-y). Just use the caller's precedence so the
		// operand binds at least as tightly.
		prec.prec, prec.right = until.prec, until.right
	}
	rhs, err := p.parsebinary(prec)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeUnary, text: tok.text, left: rhs}, nil
}

func (p *parser) parsepostfix() (*node, error) {
	n, err := p.parseatom()
	if err != nil {
		return nil, err
	}
	// Each link nests the tree one level, so the chain holds a descent per
	// link until it ends.
	held := 0
	defer func() {
		for ; held > 0; held-- {
			p.ascend()
		}
	}()
	for {
		tok := p.peek()
		if tok.kind != tokenOp {
			return n, nil
		}
		switch tok.text {
		case "(", ".", "[":
		default:
			return n, nil
		}
		if err := p.descend(); err != nil {
			return nil, err
		}
		held++
		p.advance()
		switch tok.text {
		case "(":
			args, err := p.parseargs()
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeCall, left: n, args: args}
		case ".":
			name := p.advance()
			if name.kind != tokenIdent {
				return nil, &SyntaxError{Col: name.pos, Msg: "expected attribute name, found " + unexpected(name)}
			}
			n = &node{kind: nodeAttr, left: n, text: name.text}
		case "[":
			idx, err := p.parseexpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			n = &node{kind: nodeIndex, left: n, right: idx}
		}
	}
}

func (p *parser) parseatom() (*node, error) {
	tok := p.advance()
	switch tok.kind {
	case tokenNum:
		val, _ := strconv.ParseFloat(tok.text, 64)
		if math.IsInf(val, 0) {
			return nil, &SyntaxError{Col: tok.pos, Msg: "number " + strconv.Quote(tok.text) + " out of range"}
		}
		return &node{kind: nodeNum, text: tok.text, val: val}, nil
	case tokenStr:
		return &node{kind: nodeStr, text: tok.text}, nil
	case tokenIdent:
		switch tok.text {
		case "and", "or", "if", "else":
			return nil, &SyntaxError{Col: tok.pos, Msg: "unexpected keyword " + strconv.Quote(tok.text)}
		}
		return &node{kind: nodeName, text: tok.text}, nil
	case tokenOp:
		switch tok.text {
		case "(":
			return p.parseparen()
		case "[":
			return p.parselist()
		case "{":
			return p.parsebrace()
		}
	case tokenEOF:
		return nil, &SyntaxError{Col: tok.pos, Msg: "unexpected end of input"}
	}
	return nil, &SyntaxError{Col: tok.pos, Msg: "unexpected " + strconv.Quote(tok.text)}
}

// parseparen parses a parenthesized group or a tuple. The open parenthesis is
// already consumed. A plain group contributes no node of its own.
func (p *parser) parseparen() (*node, error) {
	if tok := p.peek(); tok.kind == tokenOp && tok.text == ")" {
		p.advance()
		return &node{kind: nodeTuple}, nil
	}
	first, err := p.parseexpr()
	if err != nil {
		return nil, err
	}
	elems := []*node{first}
	tuple := false
	for {
		tok := p.advance()
		switch {
		case tok.kind == tokenOp && tok.text == ")":
			if !tuple {
				return first, nil
			}
			return &node{kind: nodeTuple, args: elems}, nil
		case tok.kind == tokenOp && tok.text == ",":
			tuple = true
			if t := p.peek(); t.kind == tokenOp && t.text == ")" {
				continue
			}
			e, err := p.parseexpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		default:
			return nil, &SyntaxError{Col: tok.pos, Msg: `expected "," or ")", found ` + unexpected(tok)}
		}
	}
}

func (p *parser) parselist() (*node, error) {
	n := &node{kind: nodeList}
	if tok := p.peek(); tok.kind == tokenOp && tok.text == "]" {
		p.advance()
		return n, nil
	}
	for {
		e, err := p.parseexpr()
		if err != nil {
			return nil, err
		}
		n.args = append(n.args, e)
		tok := p.advance()
		switch {
		case tok.kind == tokenOp && tok.text == "]":
			return n, nil
		case tok.kind == tokenOp && tok.text == ",":
			if t := p.peek(); t.kind == tokenOp && t.text == "]" {
				p.advance()
				return n, nil
			}
		default:
			return nil, &SyntaxError{Col: tok.pos, Msg: `expected "," or "]", found ` + unexpected(tok)}
		}
	}
}

// parsebrace parses a set or dict display. Empty braces are a dict.
func (p *parser) parsebrace() (*node, error) {
	if tok := p.peek(); tok.kind == tokenOp && tok.text == "}" {
		p.advance()
		return &node{kind: nodeDict}, nil
	}
	first, err := p.parseexpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind == tokenOp && tok.text == ":" {
		p.advance()
		val, err := p.parseexpr()
		if err != nil {
			return nil, err
		}
		n := &node{kind: nodeDict, args: []*node{first, val}}
		for {
			tok := p.advance()
			switch {
			case tok.kind == tokenOp && tok.text == "}":
				return n, nil
			case tok.kind == tokenOp && tok.text == ",":
				if t := p.peek(); t.kind == tokenOp && t.text == "}" {
					p.advance()
					return n, nil
				}
				k, err := p.parseexpr()
				if err != nil {
					return nil, err
				}
				if err := p.expect(":"); err != nil {
					return nil, err
				}
				v, err := p.parseexpr()
				if err != nil {
					return nil, err
				}
				n.args = append(n.args, k, v)
			default:
				return nil, &SyntaxError{Col: tok.pos, Msg: `expected "," or "}", found ` + unexpected(tok)}
			}
		}
	}
	n := &node{kind: nodeSet, args: []*node{first}}
	for {
		tok := p.advance()
		switch {
		case tok.kind == tokenOp && tok.text == "}":
			return n, nil
		case tok.kind == tokenOp && tok.text == ",":
			if t := p.peek(); t.kind == tokenOp && t.text == "}" {
				p.advance()
				return n, nil
			}
			e, err := p.parseexpr()
			if err != nil {
				return nil, err
			}
			n.args = append(n.args, e)
		default:
			return nil, &SyntaxError{Col: tok.pos, Msg: `expected "," or "}", found ` + unexpected(tok)}
		}
	}
}

// parseargs parses a call argument list. The open parenthesis is already
// consumed.
func (p *parser) parseargs() ([]*node, error) {
	if tok := p.peek(); tok.kind == tokenOp && tok.text == ")" {
		p.advance()
		return nil, nil
	}
	var args []*node
	for {
		a, err := p.parseexpr()
		if err != nil {
			return nil, err
		}
		if tok := p.peek(); tok.kind == tokenOp && tok.text == "=" {
			return nil, &SyntaxError{Col: tok.pos, Msg: "keyword arguments are not supported"}
		}
		args = append(args, a)
		tok := p.advance()
		switch {
		case tok.kind == tokenOp && tok.text == ")":
			return args, nil
		case tok.kind == tokenOp && tok.text == ",":
			if t := p.peek(); t.kind == tokenOp && t.text == ")" {
				p.advance()
				return args, nil
			}
		default:
			return nil, &SyntaxError{Col: tok.pos, Msg: `expected "," or ")", found ` + unexpected(tok)}
		}
	}
}

func (p *parser) parselambda() (*node, error) {
	if err := p.descend(); err != nil {
		return nil, err
	}
	defer p.ascend()
	p.advance()
	var params []string
	for {
		tok := p.peek()
		if tok.kind != tokenIdent {
			break
		}
		p.advance()
		params = append(params, tok.text)
		if t := p.peek(); t.kind != tokenOp || t.text != "," {
			break
		}
		p.advance()
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	body, err := p.parseexpr()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeLambda, text: strings.Join(params, ", "), left: body}, nil
}

// unexpected describes a token for an error message.
func unexpected(tok lexToken) string {
	if tok.kind == tokenEOF {
		return "end of input"
	}
	return strconv.Quote(tok.text)
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone. The table includes
// operators the evaluator refuses; their nodes parse and fail later.
func binop(text string) operator {
	switch text {
	case "or":
		return operator{1, false, nodeBoolOp}
	case "and":
		return operator{2, false, nodeBoolOp}
	case "<", ">", "<=", ">=", "==", "!=":
		return operator{4, false, nodeCompare}
	case "|":
		return operator{5, false, nodeBinary}
	case "^":
		return operator{6, false, nodeBinary}
	case "&":
		return operator{7, false, nodeBinary}
	case "<<", ">>":
		return operator{8, false, nodeBinary}
	case "+", "-":
		return operator{9, false, nodeBinary}
	case "*", "/", "//", "%":
		return operator{10, false, nodeBinary}
	case "**":
		return operator{12, true, nodeBinary}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+", "-", "~":
		return operator{11, true, nodeUnary}
	case "not":
		return operator{3, true, nodeUnary}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
