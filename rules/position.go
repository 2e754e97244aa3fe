package rules

import "github.com/npillmayer/fontrules"

// The Position verb.
//
//	Position @digits <xAdvance=50>;
//	Position ( @init ) reh 30 ( @fina );
//	Position A <0 0 -25 0> V;
//
// Each glyph slot may carry a value record: a bare number adjusts the
// x-advance, `<name=value ...>` records name their fields, and a
// four-tuple `<a b c d>` follows the AFDKO order xPlacement yPlacement
// xAdvance yAdvance. Slots without a record get a zero record.

func positionPlugin() Plugin {
	return Plugin{
		Name:    "Position",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name: "Position",
				Main: parsePosition,
				New:  func(sess *Session) Transformer { return &Position{sess: sess} },
			},
		},
	}
}

type positionArgs struct {
	Rule *fontrules.Positioning
}

func parsePosition(p *Parser) (interface{}, error) {
	pre, err := p.contextSlots()
	if err != nil {
		return nil, err
	}
	var slots [][]string
	var values []fontrules.ValueRecord
	for p.PeekSelector() {
		gs, err := p.GlyphSelector()
		if err != nil {
			return nil, err
		}
		glyphs, err := p.sess.ResolveSelector(gs, true)
		if err != nil {
			return nil, err
		}
		slots = append(slots, glyphs)
		var vr fontrules.ValueRecord
		if p.PeekValueRecord() {
			if vr, err = p.ValueRecord(); err != nil {
				return nil, err
			}
		}
		values = append(values, vr)
	}
	if len(slots) == 0 {
		return nil, errSyntax(p.Location(), "Position needs at least one glyph slot")
	}
	post, err := p.contextSlots()
	if err != nil {
		return nil, err
	}
	rule := fontrules.NewPositioning(slots, values, p.Location().String())
	rule.Precontext = pre
	rule.Postcontext = post
	if p.Peek("<<") {
		langs, err := p.Languages()
		if err != nil {
			return nil, err
		}
		rule.Languages = langs
	}
	return positionArgs{Rule: rule}, nil
}

// Position is the transformer of the Position verb.
type Position struct {
	sess *Session
}

func (t *Position) Action(args *StatementArgs) (interface{}, error) {
	pos, ok := args.Main.(positionArgs)
	if !ok {
		return nil, errSyntax(args.Location, "Position takes no block")
	}
	return pos.Rule, nil
}
