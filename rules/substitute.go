package rules

import "github.com/npillmayer/fontrules"

// The Substitute verb.
//
//	Substitute f i -> f_i;
//	Substitute ( @init ) beh -> beh.init ( @medi );
//	Substitute @digits -> @digits.locl <<*/arab>>;
//
// Glyph slots left of '->' are the input, slots right of it the
// replacement. Parenthesized slot sequences before and after form the
// pre/post context. An optional trailing language restriction applies to
// the rule only.

func substitutePlugin() Plugin {
	return Plugin{
		Name:    "Substitute",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name: "Substitute",
				Main: parseSubstitute,
				New:  func(sess *Session) Transformer { return &Substitute{sess: sess} },
			},
		},
	}
}

// slotSequence parses consecutive glyph selectors, resolving each to one
// slot.
func (p *Parser) slotSequence(mustExist bool) ([][]string, error) {
	var slots [][]string
	for p.PeekSelector() {
		gs, err := p.GlyphSelector()
		if err != nil {
			return nil, err
		}
		glyphs, err := p.sess.ResolveSelector(gs, mustExist)
		if err != nil {
			return nil, err
		}
		slots = append(slots, glyphs)
	}
	return slots, nil
}

// contextSlots parses an optional parenthesized slot sequence.
func (p *Parser) contextSlots() ([][]string, error) {
	if !p.Accept("(") {
		return nil, nil
	}
	slots, err := p.slotSequence(true)
	if err != nil {
		return nil, err
	}
	return slots, p.Expect(")")
}

type substituteArgs struct {
	Rule *fontrules.Substitution
}

func parseSubstitute(p *Parser) (interface{}, error) {
	pre, err := p.contextSlots()
	if err != nil {
		return nil, err
	}
	input, err := p.slotSequence(true)
	if err != nil {
		return nil, err
	}
	if len(input) == 0 {
		return nil, errSyntax(p.Location(), "Substitute needs at least one input glyph")
	}
	if err := p.Expect("->"); err != nil {
		return nil, err
	}
	replacement, err := p.slotSequence(true)
	if err != nil {
		return nil, err
	}
	post, err := p.contextSlots()
	if err != nil {
		return nil, err
	}
	rule := fontrules.NewSubstitution(input, replacement, p.Location().String())
	rule.Precontext = pre
	rule.Postcontext = post
	if p.Peek("<<") {
		langs, err := p.Languages()
		if err != nil {
			return nil, err
		}
		rule.Languages = langs
	}
	return substituteArgs{Rule: rule}, nil
}

// Substitute is the transformer of the Substitute verb. It returns the
// built rule; the enclosing routine or feature (or the top-level wrap-up)
// owns placing it into the IR.
type Substitute struct {
	sess *Session
}

func (t *Substitute) Action(args *StatementArgs) (interface{}, error) {
	sub, ok := args.Main.(substituteArgs)
	if !ok {
		return nil, errSyntax(args.Location, "Substitute takes no block")
	}
	return sub.Rule, nil
}
