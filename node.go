package safeeval

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind

	text string  // literal text, name, operator token, or lambda parameters
	val  float64 // value of a number literal

	left  *node
	right *node
	args  []*node // call arguments and collection elements
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // text is the literal, val its value
	nodeStr  // text is the unquoted content
	nodeName // text is the identifier

	nodeUnary  // text is the operator, left the operand
	nodeBinary // text is the operator
	nodeCall   // left is the callee, args are the arguments

	// Kinds below parse but never evaluate. Keeping them in the tree lets the
	// evaluator report exactly what it refused instead of a bare parse error.
	nodeCompare // text is the comparison operator
	nodeBoolOp  // text is "and" or "or"
	nodeCond    // args are body, condition, and alternative
	nodeLambda  // text is the parameter list, left the body
	nodeAttr    // left is the base, text the attribute
	nodeIndex   // left is the base, right the index
	nodeTuple   // args are the elements
	nodeList    // args are the elements
	nodeSet     // args are the elements
	nodeDict    // args are alternating keys and values
	nodeAssign  // left is the target, right the value
)

var nodeKindNames = [...]string{
	nodeNone:    "None",
	nodeNum:     "Num",
	nodeStr:     "Str",
	nodeName:    "Name",
	nodeUnary:   "Unary",
	nodeBinary:  "Binary",
	nodeCall:    "Call",
	nodeCompare: "Compare",
	nodeBoolOp:  "BoolOp",
	nodeCond:    "Cond",
	nodeLambda:  "Lambda",
	nodeAttr:    "Attr",
	nodeIndex:   "Index",
	nodeTuple:   "Tuple",
	nodeList:    "List",
	nodeSet:     "Set",
	nodeDict:    "Dict",
	nodeAssign:  "Assign",
}

func (k nodeKind) String() string {
	if 0 <= int(k) && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "nodeKind(" + strconv.Itoa(int(k)) + ")"
}

// constructName returns the name of a construct the evaluator refuses, for
// use in ForbiddenConstructError.
func constructName(k nodeKind) string {
	switch k {
	case nodeCompare:
		return "comparison"
	case nodeBoolOp:
		return "boolean operator"
	case nodeCond:
		return "conditional expression"
	case nodeLambda:
		return "lambda"
	case nodeAttr:
		return "attribute access"
	case nodeIndex:
		return "subscript"
	case nodeTuple:
		return "tuple literal"
	case nodeList:
		return "list literal"
	case nodeSet:
		return "set literal"
	case nodeDict:
		return "dict literal"
	case nodeAssign:
		return "assignment expression"
	}
	return k.String()
}

// String renders the node fully parenthesized. Parsing the result yields an
// equal tree.
func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmtitem is one pending piece of rendering: a subtree when n is set, literal
// text otherwise.
type fmtitem struct {
	n   *node
	lit string
}

// fmtelems lays out a bracketed, comma-separated element list as items in
// output order.
func fmtelems(args []*node, open, close string) []fmtitem {
	its := make([]fmtitem, 0, 2*len(args)+2)
	its = append(its, fmtitem{lit: open})
	for i, a := range args {
		if i > 0 {
			its = append(its, fmtitem{lit: ", "})
		}
		its = append(its, fmtitem{n: a})
	}
	return append(its, fmtitem{lit: close})
}

// fmt renders the tree into b. Flat operator chains nest their trees
// arbitrarily deep, so the walk carries its own stack instead of recursing.
func (n *node) fmt(b *strings.Builder) {
	stack := []fmtitem{{n: n}}
	push := func(its ...fmtitem) {
		for i := len(its) - 1; i >= 0; i-- {
			stack = append(stack, its[i])
		}
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.n == nil {
			b.WriteString(it.lit)
			continue
		}
		n := it.n
		switch n.kind {
		case nodeNum, nodeName:
			b.WriteString(n.text)
		case nodeStr:
			b.WriteString(strconv.Quote(n.text))
		case nodeUnary:
			op := n.text
			if op == "not" {
				op = "not "
			}
			push(fmtitem{lit: "(" + op}, fmtitem{n: n.left}, fmtitem{lit: ")"})
		case nodeBinary, nodeCompare, nodeBoolOp:
			push(fmtitem{lit: "("}, fmtitem{n: n.left}, fmtitem{lit: " " + n.text + " "}, fmtitem{n: n.right}, fmtitem{lit: ")"})
		case nodeCall:
			push(append([]fmtitem{{n: n.left}}, fmtelems(n.args, "(", ")")...)...)
		case nodeCond:
			push(fmtitem{lit: "("}, fmtitem{n: n.args[0]}, fmtitem{lit: " if "}, fmtitem{n: n.args[1]}, fmtitem{lit: " else "}, fmtitem{n: n.args[2]}, fmtitem{lit: ")"})
		case nodeLambda:
			head := "(lambda"
			if n.text != "" {
				head += " " + n.text
			}
			push(fmtitem{lit: head + ": "}, fmtitem{n: n.left}, fmtitem{lit: ")"})
		case nodeAttr:
			push(fmtitem{n: n.left}, fmtitem{lit: "." + n.text})
		case nodeIndex:
			push(fmtitem{n: n.left}, fmtitem{lit: "["}, fmtitem{n: n.right}, fmtitem{lit: "]"})
		case nodeTuple:
			if len(n.args) == 1 {
				push(fmtitem{lit: "("}, fmtitem{n: n.args[0]}, fmtitem{lit: ",)"})
				break
			}
			push(fmtelems(n.args, "(", ")")...)
		case nodeList:
			push(fmtelems(n.args, "[", "]")...)
		case nodeSet:
			push(fmtelems(n.args, "{", "}")...)
		case nodeDict:
			its := make([]fmtitem, 0, 2*len(n.args)+2)
			its = append(its, fmtitem{lit: "{"})
			for i := 0; i+1 < len(n.args); i += 2 {
				if i > 0 {
					its = append(its, fmtitem{lit: ", "})
				}
				its = append(its, fmtitem{n: n.args[i]}, fmtitem{lit: ": "}, fmtitem{n: n.args[i+1]})
			}
			its = append(its, fmtitem{lit: "}"})
			push(its...)
		case nodeAssign:
			push(fmtitem{lit: "("}, fmtitem{n: n.left}, fmtitem{lit: " := "}, fmtitem{n: n.right}, fmtitem{lit: ")"})
		default:
			panic("safeeval: invalid node kind " + n.kind.String() + " after writing " + b.String())
		}
	}
}
