package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestResolveRegexInFontOrder(t *testing.T) {
	sess := testSession(t)
	gs := GlyphSelector{Kind: SelectorRegex, Name: "^[A-Z]$"}
	glyphs, err := sess.ResolveSelector(gs, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A", "B", "C", "E", "I", "O", "U", "Z"}
	if !sameGlyphs(glyphs, want) {
		t.Errorf("expected %v, got %v", want, glyphs)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	sess := testSession(t)
	gs := GlyphSelector{Kind: SelectorRegex, Name: "^[A-Z]$"}
	first, err := sess.ResolveSelector(gs, true)
	if err != nil {
		t.Fatal(err)
	}
	second, err := sess.ResolveSelector(gs, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sameGlyphs(first, second) {
		t.Errorf("two resolutions differ: %v vs %v", first, second)
	}
}

func TestResolveCodepointRange(t *testing.T) {
	sess := testSession(t)
	gs := GlyphSelector{Kind: SelectorCodepointRange, Codepoint: 'A', CodepointHigh: 'C'}
	glyphs, err := sess.ResolveSelector(gs, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sameGlyphs(glyphs, []string{"A", "B", "C"}) {
		t.Errorf("expected [A B C], got %v", glyphs)
	}
}

func TestResolveCodepointMissing(t *testing.T) {
	sess := testSession(t)
	gs := GlyphSelector{Kind: SelectorCodepoint, Codepoint: 0x0905}
	_, err := sess.ResolveSelector(gs, true)
	if err == nil {
		t.Fatal("expected a resolution error for an unmapped codepoint")
	}
	var cerr *CompileError
	if !errors.As(err, &cerr) || cerr.Kind != ErrResolution {
		t.Errorf("expected RESOLUTION error, got %v", err)
	}
}

func TestResolveInlineClassWithSuffix(t *testing.T) {
	sess := testSession(t)
	gs := GlyphSelector{
		Kind: SelectorInlineClass,
		Members: []GlyphSelector{
			{Kind: SelectorBareName, Name: "a"},
			{Kind: SelectorBareName, Name: "e"},
		},
		Suffixes: []Suffix{{Op: '.', Text: "sc"}},
	}
	glyphs, err := sess.ResolveSelector(gs, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sameGlyphs(glyphs, []string{"a.sc", "e.sc"}) {
		t.Errorf("expected [a.sc e.sc], got %v", glyphs)
	}
}

func TestResolveMemberSuffixInsideInlineClass(t *testing.T) {
	sess := testSession(t)
	sess.Features.SetNamedClass("sc", []string{"a.sc", "e.sc"})
	gs := GlyphSelector{
		Kind: SelectorInlineClass,
		Members: []GlyphSelector{
			{Kind: SelectorClassName, Name: "sc", Suffixes: []Suffix{{Op: '~', Text: "sc"}}},
		},
	}
	glyphs, err := sess.ResolveSelector(gs, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sameGlyphs(glyphs, []string{"a", "e"}) {
		t.Errorf("expected [a e], got %v", glyphs)
	}
}

func TestSuffixRoundTrip(t *testing.T) {
	// appending and stripping the same suffix is the identity
	sess := testSession(t)
	sess.Features.SetNamedClass("vowels", []string{"a", "e"})
	gs := GlyphSelector{
		Kind: SelectorClassName,
		Name: "vowels",
		Suffixes: []Suffix{
			{Op: '.', Text: "sc"},
			{Op: '~', Text: "sc"},
		},
	}
	glyphs, err := sess.ResolveSelector(gs, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sameGlyphs(glyphs, []string{"a", "e"}) {
		t.Errorf("expected [a e], got %v", glyphs)
	}
}

func TestStripAbsentSuffixIsNoop(t *testing.T) {
	got := applySuffix("a", Suffix{Op: '~', Text: "sc"})
	if got != "a" {
		t.Errorf("stripping an absent suffix changed %q to %q", "a", got)
	}
}

func TestResolveMissingGlyphsWarn(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontrules.rules")
	defer teardown()
	//
	sess := testSession(t)
	sess.Features.SetNamedClass("mixed", []string{"a", "q", "zz"})
	gs := GlyphSelector{Kind: SelectorClassName, Name: "mixed"}
	glyphs, err := sess.ResolveSelector(gs, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sameGlyphs(glyphs, []string{"a"}) {
		t.Errorf("expected missing glyphs to be dropped, got %v", glyphs)
	}
	warnings := sess.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if !strings.Contains(warnings[0].Message, "q, zz") {
		t.Errorf("warning does not name the missing glyphs: %s", warnings[0].Message)
	}
}

func TestResolveBareNameSkipsExistenceCheck(t *testing.T) {
	sess := testSession(t)
	gs := GlyphSelector{Kind: SelectorBareName, Name: "notinfont"}
	glyphs, err := sess.ResolveSelector(gs, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sameGlyphs(glyphs, []string{"notinfont"}) {
		t.Errorf("bare names must pass through unchecked, got %v", glyphs)
	}
	if len(sess.Warnings()) != 0 {
		t.Errorf("bare names must not warn, got %v", sess.Warnings())
	}
}

func TestResolveUndefinedClass(t *testing.T) {
	sess := testSession(t)
	gs := GlyphSelector{Kind: SelectorClassName, Name: "undefined_class",
		Location: Location{File: "f.rules", Line: 3, Col: 1}}
	_, err := sess.ResolveSelector(gs, true)
	if err == nil {
		t.Fatal("expected an undefined-reference error")
	}
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if cerr.Kind != ErrUndefinedReference {
		t.Errorf("expected UNDEFINED, got %s", cerr.Kind)
	}
	if cerr.Ident != "undefined_class" {
		t.Errorf("error does not name the class: %q", cerr.Ident)
	}
	if cerr.Location.Line != 3 {
		t.Errorf("error does not carry the source location: %s", cerr.Location)
	}
}

func TestSelectorText(t *testing.T) {
	cases := []struct {
		gs   GlyphSelector
		want string
	}{
		{GlyphSelector{Kind: SelectorBareName, Name: "a"}, "a"},
		{GlyphSelector{Kind: SelectorClassName, Name: "lower"}, "@lower"},
		{GlyphSelector{Kind: SelectorRegex, Name: "^[a-z]$"}, "/^[a-z]$/"},
		{GlyphSelector{Kind: SelectorCodepoint, Codepoint: 0x41}, "U+0041"},
		{GlyphSelector{Kind: SelectorCodepointRange, Codepoint: 0x41, CodepointHigh: 0x5A}, "U+0041=>U+005A"},
		{GlyphSelector{
			Kind: SelectorInlineClass,
			Members: []GlyphSelector{
				{Kind: SelectorBareName, Name: "a"},
				{Kind: SelectorClassName, Name: "x"},
			},
			Suffixes: []Suffix{{Op: '.', Text: "sc"}},
		}, "[a @x].sc"},
	}
	for _, c := range cases {
		if got := c.gs.Text(); got != c.want {
			t.Errorf("expected %q, got %q", c.want, got)
		}
	}
}
