package rules

import (
	"strconv"
	"strings"
	"unicode"
)

// scanner is a cursor over the re-joined argument text of one statement.
// The per-verb argument parsers of the base grammar are built on top of it.
// Positions inside the re-joined text are not meaningful in the source
// document, so diagnostics carry the statement location instead.
type scanner struct {
	src string
	pos int
	loc Location // statement location, for diagnostics
}

func newScanner(text string, loc Location) *scanner {
	return &scanner{src: text, loc: loc}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) rest() string { return s.src[s.pos:] }

func (s *scanner) skipSpace() {
	for !s.eof() && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

// accept consumes a literal if it is next (after whitespace).
func (s *scanner) accept(lit string) bool {
	s.skipSpace()
	if strings.HasPrefix(s.rest(), lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

// expect consumes a literal or fails with a syntax error.
func (s *scanner) expect(lit string) error {
	if !s.accept(lit) {
		return errSyntax(s.loc, "expected %q, got %q", lit, s.remainder())
	}
	return nil
}

// remainder is a shortened view of the unconsumed input, for messages.
func (s *scanner) remainder() string {
	r := s.rest()
	if len(r) > 24 {
		r = r[:24] + "…"
	}
	return r
}

func isNameStart(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

func isNameMid(b byte) bool {
	return isNameStart(b) || b == '.' || b == '-'
}

// bareName scans a glyph name: a name-start character followed by name
// characters, which include '.' and '-'.
func (s *scanner) bareName() string {
	s.skipSpace()
	start := s.pos
	if s.eof() || !isNameStart(s.peek()) {
		return ""
	}
	s.pos++
	for !s.eof() && isNameMid(s.peek()) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// word scans an identifier without '.' and '-'.
func (s *scanner) word() string {
	s.skipSpace()
	start := s.pos
	for !s.eof() && isNameStart(s.peek()) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// peekWord returns the next identifier without consuming it.
func (s *scanner) peekWord() string {
	save := s.pos
	w := s.word()
	s.pos = save
	return w
}

// number scans a signed decimal integer.
func (s *scanner) number() (int, error) {
	s.skipSpace()
	start := s.pos
	if !s.eof() && (s.peek() == '-' || s.peek() == '+') {
		s.pos++
	}
	for !s.eof() && unicode.IsDigit(rune(s.peek())) {
		s.pos++
	}
	if s.pos == start || (s.pos == start+1 && !unicode.IsDigit(rune(s.src[start]))) {
		return 0, errSyntax(s.loc, "expected number, got %q", s.remainder())
	}
	return strconv.Atoi(s.src[start:s.pos])
}

// peekNumber tells if a signed number is next.
func (s *scanner) peekNumber() bool {
	s.skipSpace()
	if s.eof() {
		return false
	}
	b := s.peek()
	if unicode.IsDigit(rune(b)) {
		return true
	}
	if (b == '-' || b == '+') && s.pos+1 < len(s.src) {
		return unicode.IsDigit(rune(s.src[s.pos+1]))
	}
	return false
}

// until scans up to (but not including) the next occurrence of one of the
// given bytes or whitespace.
func (s *scanner) untilSpace() string {
	s.skipSpace()
	start := s.pos
	for !s.eof() && s.peek() != ' ' && s.peek() != '\t' {
		s.pos++
	}
	return s.src[start:s.pos]
}
