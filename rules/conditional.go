package rules

// The If verb: conditional compilation.
//
//	If $weight >= 700 {
//	    DefineClass @stems = @stems.bold;
//	} {
//	    DefineClass @stems = @stems.regular;
//	};
//
// The first brace body compiles when the condition holds, the optional
// second one when it does not. Unlike other block verbs, the bodies are
// dispatched lazily: statements of the branch not taken have no effect.

func conditionalPlugin() Plugin {
	return Plugin{
		Name:    "Conditional",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name:        "If",
				BeforeBrace: parseCondition,
				DeferGroups: true,
				New:         func(sess *Session) Transformer { return &If{sess: sess} },
			},
		},
	}
}

func parseCondition(p *Parser) (interface{}, error) {
	left, err := p.IntegerContainer()
	if err != nil {
		return nil, err
	}
	cmp, err := p.comparator()
	if err != nil {
		return nil, err
	}
	right, err := p.IntegerContainer()
	if err != nil {
		return nil, err
	}
	return compare(left, cmp, right), nil
}

// If is the transformer of the If verb.
type If struct {
	sess *Session
}

func (t *If) Action(args *StatementArgs) (interface{}, error) {
	cond, ok := args.Before.(bool)
	if !ok {
		return nil, errSyntax(args.Location, "If needs a condition and a '{ ... }' block")
	}
	branch := 0
	if !cond {
		branch = 1
	}
	if branch >= len(args.RawGroups) {
		return splice(nil), nil
	}
	results, err := t.sess.DispatchAll(args.RawGroups[branch])
	if err != nil {
		return nil, err
	}
	return splice(results), nil
}
