package rules

import "github.com/npillmayer/fontrules"

// The Feature block verb.
//
//	Feature liga {
//	    Substitute f i -> f_i;
//	    Routine Alternates { ... };
//	};
//
// Routines inside the block are appended to the feature, in order. Loose
// rules between routines are collected into fresh anonymous routines.

func featurePlugin() Plugin {
	return Plugin{
		Name:    "Feature",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name: "Feature",
				BeforeBrace: func(p *Parser) (interface{}, error) {
					tag := p.BareName()
					if tag == "" || len(tag) > 4 {
						return nil, errSyntax(p.Location(), "expected feature tag, got %q", tag)
					}
					return tag, nil
				},
				New: func(sess *Session) Transformer { return &Feature{sess: sess} },
			},
		},
	}
}

// Feature is the transformer of the Feature verb.
type Feature struct {
	sess *Session
}

func (t *Feature) Action(args *StatementArgs) (interface{}, error) {
	tag, ok := args.Before.(string)
	if !ok {
		return nil, errSyntax(args.Location, "Feature needs a tag and a '{ ... }' block")
	}
	var pending *fontrules.Routine
	flush := func() {
		pending = nil
	}
	for _, group := range args.Groups {
		for _, res := range group {
			switch v := res.Value.(type) {
			case *fontrules.Routine:
				flush()
				t.sess.Features.AddRoutineToFeature(tag, v)
			case fontrules.Rule:
				if pending == nil {
					pending = fontrules.NewRoutine("", v.Basics().Address)
					t.sess.Features.AddRoutineToFeature(tag, pending)
				}
				pending.AddRule(v)
			default:
				// class definitions etc. inside a feature act globally
			}
		}
	}
	return tag, nil
}
