package rules

import "github.com/npillmayer/fontrules"

// The anchor verbs.
//
//	Anchors acutecomb _top <-570 1290>;
//	Anchors @bases top <679 1600> bottom <691 0>;
//	Attach &top &_top;
//
// Anchors records named anchor positions for every glyph a selector
// resolves to. Attach builds an attachment rule from two anchor names: all
// glyphs carrying the first become bases, all carrying the second become
// marks.

func anchorsPlugin() Plugin {
	return Plugin{
		Name:    "Anchors",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name: "Anchors",
				Main: parseAnchors,
				New:  func(sess *Session) Transformer { return &Anchors{sess: sess} },
			},
			{
				Name: "Attach",
				Main: parseAttach,
				New:  func(sess *Session) Transformer { return &Attach{sess: sess} },
			},
		},
	}
}

type anchorsArgs struct {
	Glyphs  []string
	Anchors map[string]fontrules.Anchor
	Order   []string
}

func parseAnchors(p *Parser) (interface{}, error) {
	gs, err := p.GlyphSelector()
	if err != nil {
		return nil, err
	}
	glyphs, err := p.sess.ResolveSelector(gs, true)
	if err != nil {
		return nil, err
	}
	out := anchorsArgs{Glyphs: glyphs, Anchors: make(map[string]fontrules.Anchor)}
	for !p.EOF() {
		name := p.BareName()
		if name == "" {
			return nil, errSyntax(p.Location(), "expected anchor name, got %q", p.s.remainder())
		}
		if err := p.Expect("<"); err != nil {
			return nil, err
		}
		x, err := p.IntegerContainer()
		if err != nil {
			return nil, err
		}
		y, err := p.IntegerContainer()
		if err != nil {
			return nil, err
		}
		if err := p.Expect(">"); err != nil {
			return nil, err
		}
		out.Anchors[name] = fontrules.Anchor{X: x, Y: y}
		out.Order = append(out.Order, name)
	}
	if len(out.Anchors) == 0 {
		return nil, errSyntax(p.Location(), "Anchors needs at least one anchor")
	}
	return out, nil
}

// Anchors is the transformer of the Anchors verb. It records anchors on
// the IR; no rule is produced.
type Anchors struct {
	sess *Session
}

func (t *Anchors) Action(args *StatementArgs) (interface{}, error) {
	anch, ok := args.Main.(anchorsArgs)
	if !ok {
		return nil, errSyntax(args.Location, "Anchors takes no block")
	}
	for _, glyph := range anch.Glyphs {
		for _, name := range anch.Order {
			t.sess.Features.SetAnchor(glyph, name, anch.Anchors[name])
		}
	}
	return nil, nil
}

type attachArgs struct {
	BaseAnchor string
	MarkAnchor string
}

func parseAttach(p *Parser) (interface{}, error) {
	args := attachArgs{}
	for _, dst := range []*string{&args.BaseAnchor, &args.MarkAnchor} {
		if err := p.Expect("&"); err != nil {
			return nil, err
		}
		name := p.BareName()
		if name == "" {
			return nil, errSyntax(p.Location(), "expected anchor name after '&'")
		}
		*dst = name
	}
	return args, nil
}

// Attach is the transformer of the Attach verb.
type Attach struct {
	sess *Session
}

func (t *Attach) Action(args *StatementArgs) (interface{}, error) {
	att, ok := args.Main.(attachArgs)
	if !ok {
		return nil, errSyntax(args.Location, "Attach takes no block")
	}
	bases := make(map[string]fontrules.Anchor)
	marks := make(map[string]fontrules.Anchor)
	for glyph, anchors := range t.sess.Features.Anchors {
		if a, ok := anchors[att.BaseAnchor]; ok {
			bases[glyph] = a
		}
		if a, ok := anchors[att.MarkAnchor]; ok {
			marks[glyph] = a
		}
	}
	if len(bases) == 0 {
		t.sess.warn(args.Location, "no glyph carries anchor %s", att.BaseAnchor)
	}
	if len(marks) == 0 {
		t.sess.warn(args.Location, "no glyph carries anchor %s", att.MarkAnchor)
	}
	return fontrules.NewAttachment(att.BaseAnchor, att.MarkAnchor, bases, marks,
		args.Location.String()), nil
}
