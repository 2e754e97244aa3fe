package rules

import (
	"strings"
	"unicode"
)

// Statement is one top-level or nested statement: a verb plus a flat list
// of argument tokens, which may include brace-enclosed groups of nested
// statements.
type Statement struct {
	Verb     string
	Args     []Arg
	Location Location
}

// Arg is one argument token. Either Text is set, or Group holds the
// statements of one brace body.
type Arg struct {
	Text     string
	Group    []Statement
	Location Location
}

// IsGroup tells if the argument is a nested-statement group.
func (a Arg) IsGroup() bool { return a.Group != nil }

// joinTexts re-joins argument tokens with a single space. Original
// whitespace is not preserved; formatting is not semantically significant.
func joinTexts(args []Arg) string {
	var parts []string
	for _, a := range args {
		if !a.IsGroup() {
			parts = append(parts, a.Text)
		}
	}
	return strings.Join(parts, " ")
}

// lexer splits a source document into statements. Verbs are words starting
// with an upper-case letter, arguments are maximal runs of non-space
// characters (excluding the structural characters ';', '{' and '}'),
// statements end with ';'. '#' starts a comment running to end of line.
type lexer struct {
	src  []rune
	file string
	pos  int
	line int
	col  int
}

// lexString lexes a whole source document into top-level statements.
func lexString(src, file string) ([]Statement, error) {
	l := &lexer{src: []rune(src), file: file, line: 1, col: 1}
	return l.statements(false)
}

func (l *lexer) loc() Location {
	return Location{File: l.file, Line: l.line, Col: l.col}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peek() rune { return l.src[l.pos] }

func (l *lexer) next() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpace() {
	for !l.eof() {
		r := l.peek()
		if unicode.IsSpace(r) {
			l.next()
			continue
		}
		if r == '#' {
			for !l.eof() && l.peek() != '\n' {
				l.next()
			}
			continue
		}
		return
	}
}

func isArgRune(r rune) bool {
	return !unicode.IsSpace(r) && r != ';' && r != '{' && r != '}' && r != '#'
}

func (l *lexer) argText() string {
	var sb strings.Builder
	for !l.eof() && isArgRune(l.peek()) {
		sb.WriteRune(l.next())
	}
	return sb.String()
}

func (l *lexer) statements(inGroup bool) ([]Statement, error) {
	var out []Statement
	for {
		l.skipSpace()
		if l.eof() {
			if inGroup {
				return nil, errSyntax(l.loc(), "unexpected end of input inside '{ ... }'")
			}
			return out, nil
		}
		if l.peek() == '}' {
			if inGroup {
				l.next()
				return out, nil
			}
			return nil, errSyntax(l.loc(), "unexpected '}'")
		}
		st, err := l.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
}

func (l *lexer) statement() (Statement, error) {
	loc := l.loc()
	verb := l.argText()
	if verb == "" || !unicode.IsUpper([]rune(verb)[0]) {
		return Statement{}, errSyntax(loc, "statement must begin with a verb, got %q", verb)
	}
	st := Statement{Verb: verb, Location: loc}
	for {
		l.skipSpace()
		if l.eof() {
			return Statement{}, errSyntax(l.loc(), "missing ';' after %s statement", verb)
		}
		switch l.peek() {
		case ';':
			l.next()
			return st, nil
		case '{':
			grpLoc := l.loc()
			l.next()
			group, err := l.statements(true)
			if err != nil {
				return Statement{}, err
			}
			if group == nil {
				group = []Statement{} // empty brace body is still a group
			}
			st.Args = append(st.Args, Arg{Group: group, Location: grpLoc})
		case '}':
			return Statement{}, errSyntax(l.loc(), "unexpected '}' in %s statement", verb)
		default:
			argLoc := l.loc()
			st.Args = append(st.Args, Arg{Text: l.argText(), Location: argLoc})
		}
	}
}
