package rules

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fontrules/fontinfo"
)

// The typed AST of the base grammar. One variant type exists per grammar
// production; verb transformers pattern-match over these, never over raw
// tokens.

// SelectorKind enumerates the variants of a glyph selector.
type SelectorKind int

const (
	SelectorBareName SelectorKind = iota
	SelectorClassName
	SelectorRegex
	SelectorCodepoint
	SelectorCodepointRange
	SelectorInlineClass
)

// Suffix is one suffix operation of a glyph selector, applied after base
// resolution: '.' appends ".Text" to every resolved name, '~' strips a
// trailing ".Text" if present.
type Suffix struct {
	Op   byte
	Text string
}

// GlyphSelector is one syntactic glyph reference. Exactly one variant is
// populated, according to Kind. Selectors are immutable once created and
// may be resolved any number of times against a font snapshot.
type GlyphSelector struct {
	Kind          SelectorKind
	Name          string // bare name, class name (sans '@'), or regex pattern
	Codepoint     rune
	CodepointHigh rune // inclusive upper bound for SelectorCodepointRange
	Members       []GlyphSelector
	Suffixes      []Suffix
	Location      Location
}

// Text renders the selector in its canonical textual form.
func (gs GlyphSelector) Text() string {
	var sb strings.Builder
	switch gs.Kind {
	case SelectorBareName:
		sb.WriteString(gs.Name)
	case SelectorClassName:
		sb.WriteByte('@')
		sb.WriteString(gs.Name)
	case SelectorRegex:
		sb.WriteByte('/')
		sb.WriteString(gs.Name)
		sb.WriteByte('/')
	case SelectorCodepoint:
		fmt.Fprintf(&sb, "U+%04X", gs.Codepoint)
	case SelectorCodepointRange:
		fmt.Fprintf(&sb, "U+%04X=>U+%04X", gs.Codepoint, gs.CodepointHigh)
	case SelectorInlineClass:
		sb.WriteByte('[')
		for i, m := range gs.Members {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(m.Text())
		}
		sb.WriteByte(']')
	}
	for _, sfx := range gs.Suffixes {
		sb.WriteByte(sfx.Op)
		sb.WriteString(sfx.Text)
	}
	return sb.String()
}

// Predicate is a pure boolean test over a glyph's metrics and properties.
// Predicates are side-effect free functions of the supplied metrics and the
// font state they close over.
type Predicate func(metrics fontinfo.GlyphMetrics, glyphName string) bool

// Negate inverts a predicate.
func Negate(p Predicate) Predicate {
	return func(m fontinfo.GlyphMetrics, g string) bool { return !p(m, g) }
}

// primaryValue is the result of reducing a `primary` production: either a
// concrete glyph-name sequence or a predicate still waiting for a left-hand
// set. Predicates are never handed to verb transformers unapplied; see
// Parser.Primary.
type primaryValue struct {
	set   []string
	pred  Predicate
	isSet bool
}

func setValue(glyphs []string) primaryValue {
	if glyphs == nil {
		glyphs = []string{}
	}
	return primaryValue{set: glyphs, isSet: true}
}

func predValue(p Predicate) primaryValue {
	return primaryValue{pred: p}
}
