package rules

import "strings"

// The debug/introspection verbs. All three are diagnostics-only: they emit
// info-level diagnostics and never mutate the IR.
//
//	ShowClass @caps_vowels;
//	DumpClasses;
//	DumpClassNames;

func debugPlugin() Plugin {
	return Plugin{
		Name:    "Debug",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name: "ShowClass",
				Main: func(p *Parser) (interface{}, error) { return p.GlyphSelector() },
				New:  func(sess *Session) Transformer { return &ShowClass{sess: sess} },
			},
			{
				Name: "DumpClasses",
				New:  func(sess *Session) Transformer { return &DumpClasses{sess: sess} },
			},
			{
				Name: "DumpClassNames",
				New:  func(sess *Session) Transformer { return &DumpClassNames{sess: sess} },
			},
		},
	}
}

// ShowClass emits the canonical textual rendering of one selector together
// with its resolved glyph-name sequence.
type ShowClass struct {
	sess *Session
}

func (t *ShowClass) Action(args *StatementArgs) (interface{}, error) {
	gs, ok := args.Main.(GlyphSelector)
	if !ok {
		return nil, errSyntax(args.Location, "ShowClass takes one glyph selector")
	}
	return nil, t.sess.showSelector(gs, args.Location)
}

func (sess *Session) showSelector(gs GlyphSelector, loc Location) error {
	glyphs, err := sess.ResolveSelector(gs, true)
	if err != nil {
		return err
	}
	sess.note(loc, "%s = %s", gs.Text(), strings.Join(glyphs, " "))
	return nil
}

// DumpClasses emits the resolved textual form of every defined class, in
// definition order.
type DumpClasses struct {
	sess *Session
}

func (t *DumpClasses) Action(args *StatementArgs) (interface{}, error) {
	for _, name := range t.sess.Features.ClassNames() {
		gs := GlyphSelector{Kind: SelectorClassName, Name: name, Location: args.Location}
		if err := t.sess.showSelector(gs, args.Location); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// DumpClassNames emits every currently defined class name.
type DumpClassNames struct {
	sess *Session
}

func (t *DumpClassNames) Action(args *StatementArgs) (interface{}, error) {
	t.sess.note(args.Location, "%s", strings.Join(t.sess.Features.ClassNames(), " "))
	return nil, nil
}
