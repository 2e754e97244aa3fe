package rules

import "os"

// The Include verb splices another rule document into the compilation, at
// the point of the Include statement. Paths are resolved relative to the
// including file.

const maxIncludeDepth = 32

func includePlugin() Plugin {
	return Plugin{
		Name:    "Include",
		Options: PluginOptions{UseHelpers: false},
		Verbs: []VerbSpec{
			{
				Name: "Include",
				Main: func(p *Parser) (interface{}, error) {
					path := p.RawToken()
					if path == "" {
						return nil, errSyntax(p.Location(), "Include needs a file path")
					}
					return path, nil
				},
				New: func(sess *Session) Transformer { return &Include{sess: sess} },
			},
		},
	}
}

// Include is the transformer of the Include verb.
type Include struct {
	sess *Session
}

func (t *Include) Action(args *StatementArgs) (interface{}, error) {
	path, ok := args.Main.(string)
	if !ok {
		return nil, errSyntax(args.Location, "Include takes no block")
	}
	sess := t.sess
	if sess.includeDepth >= maxIncludeDepth {
		return nil, errResolution(args.Location, "includes nested too deeply (%s)", path)
	}
	resolved := sess.resolveIncludePath(path)
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, errResolution(args.Location, "cannot include %s: %v", path, err)
	}
	prevFile := sess.currentFile
	sess.currentFile = resolved
	sess.includeDepth++
	defer func() {
		sess.currentFile = prevFile
		sess.includeDepth--
	}()
	tracer().Debugf("including %s", resolved)
	results, err := sess.CompileString(string(data))
	if err != nil {
		return nil, err
	}
	return splice(results), nil
}
