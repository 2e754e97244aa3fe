package rules

import (
	"strings"

	"github.com/npillmayer/fontrules"
	"golang.org/x/text/language"
)

// Language and script tags in rule sources follow the OpenType
// conventions: 3-4 letter tags, space-padded in fonts, '*' as a wildcard.
// Sources occasionally carry BCP 47 spellings instead (e.g. "ur" for
// Urdu); those are bridged through x/text and reported, so that rule
// authors see what the compiler made of their tag.

// normalizeLangSys canonicalizes one language/script pair.
func (sess *Session) normalizeLangSys(lang, script string, loc Location) fontrules.LangSysPair {
	return fontrules.LangSysPair{
		Script: sess.normalizeTag(script, 4, loc),
		Lang:   sess.normalizeTag(lang, 3, loc),
	}
}

func (sess *Session) normalizeTag(tag string, minLen int, loc Location) string {
	if tag == "*" {
		return "*"
	}
	if len(tag) >= minLen && len(tag) <= 4 {
		return tag
	}
	if tag == "" {
		sess.warn(loc, "empty script/language tag")
		return tag
	}
	// shorter than an OpenType tag: try it as a BCP 47 subtag
	if minLen == 4 {
		titled := strings.ToUpper(tag[:1]) + strings.ToLower(tag[1:])
		if s, err := language.ParseScript(titled); err == nil {
			tracer().Debugf("script tag %q read as %q", tag, s.String())
			return s.String()
		}
	} else if b, err := language.ParseBase(tag); err == nil {
		iso3 := b.ISO3()
		if iso3 != "" {
			tracer().Debugf("language tag %q read as %q", tag, iso3)
			return iso3
		}
	}
	sess.warn(loc, "cannot interpret tag %q, passing it through", tag)
	return tag
}
