package rules

// The Set verb binds an integer variable: `Set $kern = 120;`. The value may
// itself be a variable reference or a glyph metric, so bindings can derive
// from font measurements. A later Set for the same name shadows the earlier
// binding.

func variablesPlugin() Plugin {
	return Plugin{
		Name:    "Set",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name: "Set",
				Main: parseSet,
				New:  func(sess *Session) Transformer { return &Set{sess: sess} },
			},
		},
	}
}

type setArgs struct {
	Name  string
	Value int
}

func parseSet(p *Parser) (interface{}, error) {
	if err := p.Expect("$"); err != nil {
		return nil, err
	}
	name := p.Word()
	if name == "" {
		return nil, errSyntax(p.Location(), "Set needs a variable name after '$'")
	}
	if err := p.Expect("="); err != nil {
		return nil, err
	}
	value, err := p.IntegerContainer()
	if err != nil {
		return nil, err
	}
	return setArgs{Name: name, Value: value}, nil
}

// Set is the transformer of the Set verb.
type Set struct {
	sess *Session
}

func (t *Set) Action(args *StatementArgs) (interface{}, error) {
	sa, ok := args.Main.(setArgs)
	if !ok {
		return nil, errSyntax(args.Location, "Set takes no block")
	}
	t.sess.Variables[sa.Name] = sa.Value
	tracer().Debugf("variable $%s = %d", sa.Name, sa.Value)
	return nil, nil
}
