package rules

import "fmt"

// The class-definition verbs.
//
//	DefineClass @lower = /^[a-z]$/;
//	DefineClass @caps_vowels = @caps & @vowels;
//	DefineClass @short = @alpha and (width < width(space));
//	DefineClassBinned @bases[width,5] = @bases;
//
// DefineClass binds a named class to the evaluation of a primary
// expression. DefineClassBinned additionally splits the result into bins
// of similar metric values and registers one class per bin, named
// `<base>_<metric><index>` with a 1-based index.

// classDefinitionPlugin declares the DefineClass and DefineClassBinned
// verbs.
func classDefinitionPlugin() Plugin {
	return Plugin{
		Name:    "ClassDefinition",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name: "DefineClass",
				Main: parseDefineClass,
				New:  func(sess *Session) Transformer { return &DefineClass{sess: sess} },
			},
			{
				Name: "DefineClassBinned",
				Main: parseDefineClassBinned,
				New:  func(sess *Session) Transformer { return &DefineClassBinned{sess: sess} },
			},
		},
	}
}

// defineClassArgs is the reduced argument record of a DefineClass
// statement.
type defineClassArgs struct {
	Name   string
	Glyphs []string
}

// binnedClassArgs is the reduced argument record of a DefineClassBinned
// statement.
type binnedClassArgs struct {
	Name     string
	Metric   string
	BinCount int
	Glyphs   []string
}

// className parses "@name" and returns the name without the sigil.
func (p *Parser) className() (string, error) {
	p.s.skipSpace()
	if err := p.s.expect("@"); err != nil {
		return "", err
	}
	name := p.s.word()
	if name == "" {
		return "", errSyntax(p.s.loc, "expected class name after '@'")
	}
	return name, nil
}

func parseDefineClass(p *Parser) (interface{}, error) {
	name, err := p.className()
	if err != nil {
		return nil, err
	}
	if err := p.Expect("="); err != nil {
		return nil, err
	}
	glyphs, err := p.Primary()
	if err != nil {
		return nil, err
	}
	return defineClassArgs{Name: name, Glyphs: glyphs}, nil
}

func parseDefineClassBinned(p *Parser) (interface{}, error) {
	name, err := p.className()
	if err != nil {
		return nil, err
	}
	if err := p.Expect("["); err != nil {
		return nil, err
	}
	metric := p.Word()
	if !isMetricName(metric) {
		return nil, errUnknownMetric(p.Location(), metric)
	}
	if err := p.Expect(","); err != nil {
		return nil, err
	}
	count, err := p.Number()
	if err != nil {
		return nil, err
	}
	if err := p.Expect("]"); err != nil {
		return nil, err
	}
	if err := p.Expect("="); err != nil {
		return nil, err
	}
	glyphs, err := p.Primary()
	if err != nil {
		return nil, err
	}
	return binnedClassArgs{Name: name, Metric: metric, BinCount: count, Glyphs: glyphs}, nil
}

// DefineClass is the transformer of the DefineClass verb.
type DefineClass struct {
	sess *Session
}

// Action binds the evaluated primary to the class name.
func (t *DefineClass) Action(args *StatementArgs) (interface{}, error) {
	def, ok := args.Main.(defineClassArgs)
	if !ok {
		return nil, errSyntax(args.Location, "DefineClass takes no block")
	}
	t.sess.Features.SetNamedClass(def.Name, def.Glyphs)
	tracer().Debugf("defined class @%s with %d glyph(s)", def.Name, len(def.Glyphs))
	return def, nil
}

// DefineClassBinned is the transformer of the DefineClassBinned verb.
type DefineClassBinned struct {
	sess *Session
}

// Action bins the evaluated primary by the metric and registers one class
// per bin.
func (t *DefineClassBinned) Action(args *StatementArgs) (interface{}, error) {
	def, ok := args.Main.(binnedClassArgs)
	if !ok {
		return nil, errSyntax(args.Location, "DefineClassBinned takes no block")
	}
	bins, err := t.sess.BinByMetric(def.Glyphs, def.Metric, def.BinCount, args.Location)
	if err != nil {
		return nil, err
	}
	for i, bin := range bins {
		name := fmt.Sprintf("%s_%s%d", def.Name, def.Metric, i+1)
		t.sess.Features.SetNamedClass(name, bin)
	}
	return def, nil
}
