package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "selector", "selectors", "glyph", "glyphs":
		pterm.Info.Println("Glyph selectors")
		pterm.Println(`
	A glyph selector names one or more glyphs of the current font:

	    a               a single glyph, by name
	    @lower          a named class (defined with DefineClass)
	    /small$/        all glyphs whose name matches the regular expression
	    U+0041          the glyph mapped to a Unicode codepoint
	    U+0041=>U+005A  all glyphs in a codepoint range
	    [a e i o u]     an inline class

	Suffix operations modify selected names:

	    a.sc            append a suffix to each name
	    a.sc~sc         strip a suffix from each name
	`)
	case "class", "classes", "defineclass":
		pterm.Info.Println("Class definitions")
		pterm.Println(`
	DefineClass binds a named class to a glyph set expression:

	    DefineClass @vowels = [a e i o u];
	    DefineClass @wide = @letters & width > 600;
	    DefineClass @bases = not category(mark);

	Set expressions combine selectors and predicates with & | - (synonyms
	'and' and 'or'). A concrete set on the left and a predicate on the
	right filters the set, whatever the operator.

	DefineClassBinned splits a set into metric bins:

	    DefineClassBinned @widths[width,4] = @letters;

	defining @widths_width1 ... @widths_width4.
	`)
	case "verb", "verbs", "rules":
		pterm.Info.Println("Rule verbs")
		pterm.Println(`
	Statements are 'Verb arguments ;', optionally with { ... } blocks:

	    Feature liga { ... };
	    Routine NAME (flags) { ... };
	    Substitute a b -> c;
	    Position @kernable <xAdvance=-50>;
	    Anchors a top <250 600>;
	    Attach &top &_top;
	    Chain pre ( a ^MyRoutine ) post;
	    If $size > 12 { ... } { ... };
	    Include common.rules;
	    Set $size = 12;
	`)
	default:
		pterm.Info.Println("Commands: load:<font> compile:<file> reset classes class:<name> features routines xml:<routine> warnings quit")
		pterm.Println("Help topics: selectors, classes, verbs")
	}
}
