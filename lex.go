package safeeval

import (
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or real token.
	tokenNum
	// tokenStr is a quoted string token. Its text is the unquoted content.
	tokenStr
	// tokenIdent is a name, including word operators like and, or, and not.
	tokenIdent
	// tokenOp is an operator or punctuation token.
	tokenOp
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenStr:
		return "Str"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	}
	return "tokenKind(" + strconv.Itoa(int(k)) + ")"
}

// singleOps contains the runes which form one-rune operator and punctuation
// tokens. Two-rune tokens are listed in doubleOps and are matched first.
const singleOps = "+-*/%~^&|<>=:,.()[]{}"

var doubleOps = [...]string{"**", "//", "<<", ">>", "<=", ">=", "==", "!=", ":="}

// lexer scans an expression string. Positions are 1-based rune columns.
type lexer struct {
	src []rune
	i   int
}

// lexAll scans src into a complete token list ending with an EOF token.
func lexAll(src string) ([]lexToken, error) {
	l := &lexer{src: []rune(src)}
	var toks []lexToken
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

// next scans the next token from the input. Once the input is exhausted,
// every call returns an EOF token.
func (l *lexer) next() (lexToken, error) {
	for l.i < len(l.src) && unicode.IsSpace(l.src[l.i]) {
		l.i++
	}
	tok := lexToken{pos: l.i + 1}
	if l.i >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	r := l.src[l.i]
	switch {
	case '0' <= r && r <= '9':
		return l.scanNum(tok)
	case r == '.':
		if l.i+1 < len(l.src) && '0' <= l.src[l.i+1] && l.src[l.i+1] <= '9' {
			return l.scanNum(tok)
		}
		l.i++
		tok.text, tok.kind = ".", tokenOp
		return tok, nil
	case r == '_', unicode.IsLetter(r):
		return l.scanIdent(tok), nil
	case r == '\'', r == '"':
		return l.scanStr(tok)
	}
	return l.scanOp(tok)
}

func (l *lexer) scanNum(tok lexToken) (lexToken, error) {
	var b strings.Builder
	var dig, dot, e, le, ed bool
	for l.i < len(l.src) {
		r := l.src[l.i]
		if r == '+' || r == '-' {
			// A sign anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !le {
				break
			}
			le = false
			b.WriteRune(r)
			l.i++
			continue
		}
		if unicode.IsSpace(r) || r != '.' && strings.ContainsRune(singleOps+`'"`, r) {
			break
		}
		b.WriteRune(r)
		l.i++
		switch {
		case r == '.':
			if dot || e {
				return tok, errInvalidToken("number", b.String(), tok.pos)
			}
			dot = true
			le = false
		case r == 'e', r == 'E':
			if !dig || e {
				return tok, errInvalidToken("number", b.String(), tok.pos)
			}
			e = true
			le = true
		case '0' <= r && r <= '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return tok, errInvalidToken("number", b.String(), tok.pos)
		}
	}
	if (!dig && !ed) || (e && !ed) {
		return tok, errInvalidToken("number", b.String(), tok.pos)
	}
	tok.text = b.String()
	tok.kind = tokenNum
	return tok, nil
}

func (l *lexer) scanIdent(tok lexToken) lexToken {
	start := l.i
	for l.i < len(l.src) {
		r := l.src[l.i]
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.i++
	}
	tok.text = string(l.src[start:l.i])
	tok.kind = tokenIdent
	return tok
}

func (l *lexer) scanStr(tok lexToken) (lexToken, error) {
	q := l.src[l.i]
	l.i++
	var b strings.Builder
	for l.i < len(l.src) {
		r := l.src[l.i]
		l.i++
		switch r {
		case q:
			tok.text = b.String()
			tok.kind = tokenStr
			return tok, nil
		case '\\':
			if l.i < len(l.src) {
				b.WriteRune(l.src[l.i])
				l.i++
			}
		default:
			b.WriteRune(r)
		}
	}
	return tok, &SyntaxError{Col: tok.pos, Msg: "unterminated string literal"}
}

func (l *lexer) scanOp(tok lexToken) (lexToken, error) {
	if l.i+1 < len(l.src) {
		two := string(l.src[l.i : l.i+2])
		for _, op := range doubleOps {
			if two == op {
				l.i += 2
				tok.text, tok.kind = op, tokenOp
				return tok, nil
			}
		}
	}
	r := l.src[l.i]
	if strings.ContainsRune(singleOps, r) {
		l.i++
		tok.text, tok.kind = string(r), tokenOp
		return tok, nil
	}
	return tok, &SyntaxError{Col: tok.pos, Msg: "invalid character " + strconv.Quote(string(r))}
}

func errInvalidToken(kind, text string, pos int) error {
	return &SyntaxError{Col: pos, Msg: "invalid " + kind + " token " + strconv.Quote(text)}
}
