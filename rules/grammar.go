package rules

import (
	"strconv"
	"strings"

	"github.com/npillmayer/fontrules"
)

// Parser is one composed argument parser: the shared base grammar plus a
// plugin's auxiliary productions, bound to one statement's re-joined
// argument text. A fresh Parser is created per parse, so plugins may
// define conflicting auxiliary production names.
type Parser struct {
	sess    *Session
	s       *scanner
	aux     map[string]Fragment
	helpers bool
}

// Session returns the compilation session the parser is bound to.
func (p *Parser) Session() *Session { return p.sess }

// Location returns the source location of the statement being parsed.
func (p *Parser) Location() Location { return p.s.loc }

// EOF tells if the argument text is exhausted.
func (p *Parser) EOF() bool {
	p.s.skipSpace()
	return p.s.eof()
}

// Accept consumes a literal if it is next.
func (p *Parser) Accept(lit string) bool { return p.s.accept(lit) }

// Expect consumes a literal or fails with a syntax error.
func (p *Parser) Expect(lit string) error { return p.s.expect(lit) }

// Peek tells if a literal is next, without consuming it.
func (p *Parser) Peek(lit string) bool {
	p.s.skipSpace()
	return strings.HasPrefix(p.s.rest(), lit)
}

// BareName scans a glyph-name-shaped identifier.
func (p *Parser) BareName() string { return p.s.bareName() }

// Word scans an identifier without '.' and '-'.
func (p *Parser) Word() string { return p.s.word() }

// Number scans a signed integer.
func (p *Parser) Number() (int, error) { return p.s.number() }

// RawToken scans one whitespace-delimited token without interpretation,
// for plugins that handle argument parsing at a low level.
func (p *Parser) RawToken() string { return p.s.untilSpace() }

// Production invokes an auxiliary production contributed by the plugin's
// grammar fragment table.
func (p *Parser) Production(name string) (interface{}, error) {
	frag, ok := p.aux[name]
	if !ok {
		return nil, errGrammar("", "no production %q in composed grammar", name)
	}
	return frag(p)
}

// --- Glyph selectors -------------------------------------------------------

// GlyphSelector parses one glyph selector: a bare name, @class, /regex/,
// U+XXXX codepoint, U+XXXX=>U+XXXX range, or [inline class], followed by
// any number of suffix operations.
func (p *Parser) GlyphSelector() (GlyphSelector, error) {
	p.s.skipSpace()
	loc := p.s.loc
	var gs GlyphSelector
	gs.Location = loc
	bareDots := false
	switch {
	case p.s.eof():
		return gs, errSyntax(loc, "expected glyph selector")
	case p.s.peek() == '@':
		p.s.pos++
		name := p.s.word() // class names take no '.' or '-'
		if name == "" {
			return gs, errSyntax(loc, "expected class name after '@'")
		}
		gs.Kind = SelectorClassName
		gs.Name = name
	case p.s.peek() == '/':
		p.s.pos++
		end := strings.IndexByte(p.s.rest(), '/')
		if end < 0 {
			return gs, errSyntax(loc, "unterminated regular expression")
		}
		gs.Kind = SelectorRegex
		gs.Name = p.s.rest()[:end]
		p.s.pos += end + 1
	case p.s.peek() == '[':
		p.s.pos++
		gs.Kind = SelectorInlineClass
		for {
			p.s.skipSpace()
			if p.s.eof() {
				return gs, errSyntax(loc, "unterminated inline class")
			}
			if p.s.peek() == ']' {
				p.s.pos++
				break
			}
			member, err := p.GlyphSelector()
			if err != nil {
				return gs, err
			}
			gs.Members = append(gs.Members, member)
		}
	case strings.HasPrefix(p.s.rest(), "U+"):
		cp, err := p.codepoint()
		if err != nil {
			return gs, err
		}
		gs.Kind = SelectorCodepoint
		gs.Codepoint = cp
		if p.s.accept("=>") {
			hi, err := p.codepoint()
			if err != nil {
				return gs, err
			}
			gs.Kind = SelectorCodepointRange
			gs.CodepointHigh = hi
		}
	default:
		name := p.s.bareName()
		if name == "" {
			return gs, errSyntax(loc, "expected glyph selector, got %q", p.s.remainder())
		}
		gs.Kind = SelectorBareName
		gs.Name = name
		bareDots = true // bare names already consume '.'-separated parts
	}
	// Suffix operations bind tightly: no whitespace before them.
	for !p.s.eof() {
		op := p.s.peek()
		if op == '~' || (op == '.' && !bareDots) {
			p.s.pos++
			text := p.s.bareName()
			if text == "" {
				return gs, errSyntax(loc, "expected suffix after %q", string(op))
			}
			gs.Suffixes = append(gs.Suffixes, Suffix{Op: op, Text: text})
			continue
		}
		break
	}
	return gs, nil
}

// codepoint parses "U+" followed by 1 to 6 hex digits.
func (p *Parser) codepoint() (rune, error) {
	if !p.s.accept("U+") {
		return 0, errSyntax(p.s.loc, "expected codepoint, got %q", p.s.remainder())
	}
	start := p.s.pos
	for !p.s.eof() && isHexDigit(p.s.peek()) && p.s.pos-start < 6 {
		p.s.pos++
	}
	if p.s.pos == start {
		return 0, errSyntax(p.s.loc, "expected hex digits after 'U+'")
	}
	v, err := strconv.ParseUint(p.s.src[start:p.s.pos], 16, 32)
	if err != nil {
		return 0, errSyntax(p.s.loc, "bad codepoint: %v", err)
	}
	return rune(v), nil
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// PeekSelector tells if a glyph selector can start here.
func (p *Parser) PeekSelector() bool {
	p.s.skipSpace()
	if p.s.eof() {
		return false
	}
	b := p.s.peek()
	return b == '@' || b == '/' || b == '[' || isNameStart(b)
}

// --- Value records ---------------------------------------------------------

// ValueRecord parses a positioning value record: a bare signed number
// (meaning xAdvance), a named record <xAdvance=120 yPlacement=-30>, or an
// AFDKO-style four-tuple <xPlacement yPlacement xAdvance yAdvance>.
func (p *Parser) ValueRecord() (fontrules.ValueRecord, error) {
	var vr fontrules.ValueRecord
	if p.s.peekNumber() {
		n, err := p.IntegerContainer()
		if err != nil {
			return vr, err
		}
		vr.XAdvance = n
		return vr, nil
	}
	if err := p.s.expect("<"); err != nil {
		return vr, err
	}
	p.s.skipSpace()
	w := p.s.peekWord()
	if isValueVerb(w) {
		for {
			p.s.skipSpace()
			if p.s.accept(">") {
				return vr, nil
			}
			name := p.s.word()
			if !isValueVerb(name) {
				return vr, errSyntax(p.s.loc, "expected value-record entry, got %q", p.s.remainder())
			}
			if err := p.s.expect("="); err != nil {
				return vr, err
			}
			n, err := p.IntegerContainer()
			if err != nil {
				return vr, err
			}
			switch name {
			case "xAdvance":
				vr.XAdvance = n
			case "yAdvance":
				vr.YAdvance = n
			case "xPlacement":
				vr.XPlacement = n
			case "yPlacement":
				vr.YPlacement = n
			}
		}
	}
	// AFDKO order: xPlacement yPlacement xAdvance yAdvance
	vals := [4]*int{&vr.XPlacement, &vr.YPlacement, &vr.XAdvance, &vr.YAdvance}
	for _, dst := range vals {
		n, err := p.IntegerContainer()
		if err != nil {
			return vr, err
		}
		*dst = n
	}
	if err := p.s.expect(">"); err != nil {
		return vr, err
	}
	return vr, nil
}

func isValueVerb(w string) bool {
	switch w {
	case "xAdvance", "yAdvance", "xPlacement", "yPlacement":
		return true
	}
	return false
}

// PeekValueRecord tells if a value record can start here.
func (p *Parser) PeekValueRecord() bool {
	p.s.skipSpace()
	return !p.s.eof() && (p.s.peek() == '<' || p.s.peekNumber())
}

// --- Numbers and variables -------------------------------------------------

// IntegerContainer parses an integer-valued term: a signed number, a $name
// variable reference, or a glyph metric access metric(glyph). Variable and
// metric references are reduced to their value immediately; an undefined
// variable or unknown metric is fatal here, at grammar-reduction time.
func (p *Parser) IntegerContainer() (int, error) {
	p.s.skipSpace()
	loc := p.s.loc
	if p.s.eof() {
		return 0, errSyntax(loc, "expected integer")
	}
	if p.s.peek() == '$' {
		p.s.pos++
		name := p.s.word()
		if name == "" {
			return 0, errSyntax(loc, "expected variable name after '$'")
		}
		value, ok := p.sess.Variables[name]
		if !ok {
			return 0, errUndefinedVariable(loc, name)
		}
		return value, nil
	}
	if p.s.peekNumber() {
		return p.s.number()
	}
	// metric(glyph) or metric[glyph]
	name := p.s.word()
	if name == "" {
		return 0, errSyntax(loc, "expected integer, got %q", p.s.remainder())
	}
	if !isMetricName(name) {
		return 0, errUnknownMetric(loc, name)
	}
	closing := ")"
	if !p.s.accept("(") {
		if !p.s.accept("[") {
			return 0, errSyntax(loc, "expected '(' after metric %s", name)
		}
		closing = "]"
	}
	glyph := p.s.bareName()
	if glyph == "" {
		return 0, errSyntax(loc, "expected glyph name in %s(...)", name)
	}
	if err := p.s.expect(closing); err != nil {
		return 0, err
	}
	metrics, err := p.sess.Font.Metrics(glyph)
	if err != nil {
		return 0, errResolution(loc, "%v", err)
	}
	v, _ := metrics.Metric(name)
	return v, nil
}

// --- Languages -------------------------------------------------------------

// Languages parses a script/language restriction of the form
// `<<lang/script lang/script ...>>`, where either side may be the '*'
// wildcard.
func (p *Parser) Languages() ([]fontrules.LangSysPair, error) {
	if err := p.s.expect("<<"); err != nil {
		return nil, err
	}
	var pairs []fontrules.LangSysPair
	for {
		p.s.skipSpace()
		if p.s.accept(">>") {
			if len(pairs) == 0 {
				return nil, errSyntax(p.s.loc, "empty language list")
			}
			return pairs, nil
		}
		lang := p.langOrScriptTag()
		if lang == "" {
			return nil, errSyntax(p.s.loc, "expected language tag, got %q", p.s.remainder())
		}
		if err := p.s.expect("/"); err != nil {
			return nil, err
		}
		script := p.langOrScriptTag()
		if script == "" {
			return nil, errSyntax(p.s.loc, "expected script tag, got %q", p.s.remainder())
		}
		pairs = append(pairs, p.sess.normalizeLangSys(lang, script, p.s.loc))
	}
}

// langOrScriptTag scans a 3-4 letter tag or the '*' wildcard.
func (p *Parser) langOrScriptTag() string {
	p.s.skipSpace()
	if !p.s.eof() && p.s.peek() == '*' {
		p.s.pos++
		return "*"
	}
	return p.s.word()
}
