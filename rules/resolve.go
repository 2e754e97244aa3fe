package rules

import (
	"regexp"
	"strings"
)

// Glyph selector resolution: one syntactic glyph reference becomes a
// concrete glyph-name sequence, resolved against the session's font
// snapshot and named-class table.

// ResolveSelector resolves a glyph selector to a glyph-name sequence.
//
// With mustExist, every resulting name is checked against the font's
// exported glyph set; missing names are dropped and reported as a warning
// rather than failing the compilation, since partial glyph coverage across
// scripts is common. A bare-name selector is exempt from the check, as a bare
// name may be intentionally synthetic.
//
// Resolving the same selector twice against an unchanged font yields
// identical ordered output.
func (sess *Session) ResolveSelector(gs GlyphSelector, mustExist bool) ([]string, error) {
	resolved, err := sess.resolveWithSuffixes(gs)
	if err != nil {
		return nil, err
	}
	if mustExist && gs.Kind != SelectorBareName {
		kept := resolved[:0]
		var missing []string
		for _, g := range resolved {
			if sess.Font.HasGlyph(g) {
				kept = append(kept, g)
			} else {
				missing = append(missing, g)
			}
		}
		if len(missing) > 0 {
			plural := ""
			if len(missing) > 1 {
				plural = "s"
			}
			sess.warn(gs.Location, "couldn't find glyph%s '%s' in font (%s)",
				plural, strings.Join(missing, ", "), gs.Text())
		}
		resolved = kept
	}
	return resolved, nil
}

// resolveWithSuffixes resolves the selector's base reference and applies its
// suffix operations, without the existence check.
func (sess *Session) resolveWithSuffixes(gs GlyphSelector) ([]string, error) {
	resolved, err := sess.resolveBase(gs)
	if err != nil {
		return nil, err
	}
	for _, sfx := range gs.Suffixes {
		for i, g := range resolved {
			resolved[i] = applySuffix(g, sfx)
		}
	}
	return resolved, nil
}

func (sess *Session) resolveBase(gs GlyphSelector) ([]string, error) {
	switch gs.Kind {
	case SelectorBareName:
		return []string{gs.Name}, nil
	case SelectorCodepoint:
		glyph, ok := sess.Font.GlyphForCodepoint(gs.Codepoint)
		if !ok {
			return nil, errResolution(gs.Location,
				"font does not contain glyph for U+%04X", gs.Codepoint)
		}
		return []string{glyph}, nil
	case SelectorCodepointRange:
		var out []string
		for cp := gs.Codepoint; cp <= gs.CodepointHigh; cp++ {
			member := GlyphSelector{Kind: SelectorCodepoint, Codepoint: cp, Location: gs.Location}
			glyphs, err := sess.resolveBase(member)
			if err != nil {
				return nil, err
			}
			out = append(out, glyphs...)
		}
		return out, nil
	case SelectorInlineClass:
		var out []string
		for _, member := range gs.Members {
			glyphs, err := sess.resolveWithSuffixes(member)
			if err != nil {
				return nil, err
			}
			// duplicates are not collapsed at this stage
			out = append(out, glyphs...)
		}
		return out, nil
	case SelectorClassName:
		glyphs, ok := sess.Features.NamedClasses[gs.Name]
		if !ok {
			return nil, errUndefinedClass(gs.Location, gs.Name)
		}
		return append([]string(nil), glyphs...), nil
	case SelectorRegex:
		re, err := regexp.Compile(gs.Name)
		if err != nil {
			return nil, errResolution(gs.Location,
				"couldn't parse regular expression '%s'", gs.Name)
		}
		// matches are returned in font glyph order, not match order, so
		// downstream binning and iteration stay deterministic
		var out []string
		for _, g := range sess.Font.GlyphOrder() {
			if re.MatchString(g) {
				out = append(out, g)
			}
		}
		return out, nil
	}
	return nil, errResolution(gs.Location, "unknown selector kind %d", gs.Kind)
}

// applySuffix applies one suffix operation to a glyph name: '.' appends
// ".x", '~' strips a trailing ".x" if present, else leaves the name alone.
func applySuffix(glyph string, sfx Suffix) string {
	if sfx.Op == '.' {
		return glyph + "." + sfx.Text
	}
	return strings.TrimSuffix(glyph, "."+sfx.Text)
}
