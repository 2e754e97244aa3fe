package rules

import "github.com/npillmayer/fontrules"

// The Chain verb: a chaining contextual rule dispatching to named
// routines.
//
//	Chain ( @init ) beh ^BehFixup lam ^LamShape ( @fina );
//
// Each input slot may be followed by any number of '^Routine' references;
// the referenced routines are applied at that slot position. Referencing
// an unknown routine is an undefined-reference error.

func chainPlugin() Plugin {
	return Plugin{
		Name:    "Chain",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name: "Chain",
				Main: parseChain,
				New:  func(sess *Session) Transformer { return &Chain{sess: sess} },
			},
		},
	}
}

type chainArgs struct {
	Rule *fontrules.Chaining
}

func parseChain(p *Parser) (interface{}, error) {
	pre, err := p.contextSlots()
	if err != nil {
		return nil, err
	}
	var input [][]string
	var lookups [][]*fontrules.Routine
	for p.PeekSelector() {
		gs, err := p.GlyphSelector()
		if err != nil {
			return nil, err
		}
		glyphs, err := p.sess.ResolveSelector(gs, true)
		if err != nil {
			return nil, err
		}
		input = append(input, glyphs)
		var slotLookups []*fontrules.Routine
		for p.Accept("^") {
			loc := p.Location()
			name := p.BareName()
			if name == "" {
				return nil, errSyntax(loc, "expected routine name after '^'")
			}
			routine, err := p.sess.Features.ResolveRoutine(name)
			if err != nil {
				return nil, errUndefinedRoutine(loc, name)
			}
			slotLookups = append(slotLookups, routine)
		}
		lookups = append(lookups, slotLookups)
	}
	if len(input) == 0 {
		return nil, errSyntax(p.Location(), "Chain needs at least one input slot")
	}
	post, err := p.contextSlots()
	if err != nil {
		return nil, err
	}
	rule := fontrules.NewChaining(input, lookups, p.Location().String())
	rule.Precontext = pre
	rule.Postcontext = post
	return chainArgs{Rule: rule}, nil
}

// Chain is the transformer of the Chain verb.
type Chain struct {
	sess *Session
}

func (t *Chain) Action(args *StatementArgs) (interface{}, error) {
	chain, ok := args.Main.(chainArgs)
	if !ok {
		return nil, errSyntax(args.Location, "Chain takes no block")
	}
	return chain.Rule, nil
}
