package rules

import "github.com/npillmayer/fontrules"

// The Routine block verb.
//
//	Routine IMatraFixup {
//	    Substitute iMatra ka -> iMatra.wide ka;
//	} IgnoreMarks <<dflt/DFLT>>;
//
// The optional name precedes the block; lookup flags and a script/language
// restriction follow it and are applied uniformly to all contained rules at
// the moment the routine is closed.

func routinePlugin() Plugin {
	return Plugin{
		Name:    "Routine",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name:        "Routine",
				BeforeBrace: parseRoutineName,
				AfterBrace:  parseRoutineTail,
				New:         func(sess *Session) Transformer { return &RoutineVerb{sess: sess} },
			},
		},
	}
}

func parseRoutineName(p *Parser) (interface{}, error) {
	if p.EOF() {
		return "", nil // anonymous routine
	}
	name := p.BareName()
	if name == "" {
		return nil, errSyntax(p.Location(), "expected routine name")
	}
	return name, nil
}

// routineTail is the reduced after-brace record: lookup flags and optional
// languages.
type routineTail struct {
	Flags     int
	Languages []fontrules.LangSysPair
}

func parseRoutineTail(p *Parser) (interface{}, error) {
	tail := routineTail{}
	for !p.EOF() {
		if p.Peek("<<") {
			langs, err := p.Languages()
			if err != nil {
				return nil, err
			}
			tail.Languages = langs
			continue
		}
		word := p.Word()
		switch word {
		case "RightToLeft":
			tail.Flags |= fontrules.RightToLeft
		case "IgnoreBases":
			tail.Flags |= fontrules.IgnoreBases
		case "IgnoreLigatures":
			tail.Flags |= fontrules.IgnoreLigatures
		case "IgnoreMarks":
			tail.Flags |= fontrules.IgnoreMarks
		default:
			return nil, errSyntax(p.Location(), "unknown lookup flag %q", word)
		}
	}
	return tail, nil
}

// RoutineVerb is the transformer of the Routine verb.
type RoutineVerb struct {
	sess *Session
}

func (t *RoutineVerb) Action(args *StatementArgs) (interface{}, error) {
	if !args.HasBraces {
		return nil, errSyntax(args.Location, "Routine needs a '{ ... }' block")
	}
	name, _ := args.Before.(string)
	routine := fontrules.NewRoutine(name, args.Location.String())
	for _, group := range args.Groups {
		for _, res := range group {
			switch v := res.Value.(type) {
			case fontrules.Rule:
				routine.AddRule(v)
			case nil:
				// debug verbs yield nothing
			default:
				t.sess.warn(args.Location, "ignoring %s statement inside routine", res.Verb)
			}
		}
	}
	if tail, ok := args.After.(routineTail); ok {
		routine.ApplyFlags(tail.Flags)
		if len(tail.Languages) > 0 {
			routine.ApplyLanguages(tail.Languages)
		}
	}
	t.sess.Features.AddRoutine(routine)
	return routine, nil
}
