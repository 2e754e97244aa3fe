package rules

// The grammar composer. Verb plugins contribute grammar fragments which are
// composed with the shared base grammar into ready-to-use argument parsers:
// one main parser per verb, plus a before-brace/after-brace pair for block
// verbs. Composition never mutates the base grammar; every parse runs on a
// fresh parser instance, so verbs may define conflicting auxiliary
// production names without interfering with each other.

// Fragment is one grammar fragment: a parsing function over the composed
// parser, producing a typed AST value (or a verb-specific argument record).
type Fragment func(p *Parser) (interface{}, error)

// PluginOptions is the options record every plugin must declare. UseHelpers
// grants the plugin's fragments access to the shared base-grammar
// productions (glyph selectors, value records, predicates, ...); plugins
// parsing their arguments at a lower level leave it unset and work on the
// raw scanner.
type PluginOptions struct {
	UseHelpers bool
}

// VerbSpec binds one verb name to its grammar fragments and its
// transformer. Any of the three fragments may be nil: a verb without a
// main fragment accepts empty arguments only, and a missing before/after
// brace fragment composes to a no-op parser that always yields nothing.
type VerbSpec struct {
	Name        string
	Main        Fragment
	BeforeBrace Fragment
	AfterBrace  Fragment
	// DeferGroups leaves nested statement groups undispatched; the
	// transformer receives raw statements and dispatches them itself
	// (used by conditional compilation).
	DeferGroups bool
	// New creates the verb's transformer for one statement.
	New func(*Session) Transformer
}

// Plugin is the registration contract for one semantic unit of the
// language. A plugin must declare its options record, its grammar
// fragments and a non-empty list of verbs.
type Plugin struct {
	Name    string
	Options PluginOptions
	// Grammar holds auxiliary named productions shared by the plugin's
	// verbs, available through Parser.Production. May be nil.
	Grammar map[string]Fragment
	Verbs   []VerbSpec
}

// Transformer turns the parsed arguments of one statement into the verb's
// result value. It receives only structurally reduced, typed values,
// never raw tokens.
type Transformer interface {
	Action(args *StatementArgs) (interface{}, error)
}

// StatementArgs is what a verb transformer sees for one statement. For a
// flat statement only Main is set. For a block statement, Before and After
// hold the results of the dedicated before/after-brace parsers (nil when
// the respective parser yielded nothing) and Groups holds the dispatched
// results of each brace body.
type StatementArgs struct {
	Verb      string
	Location  Location
	Main      interface{}
	Before    interface{}
	Groups    [][]Result
	RawGroups [][]Statement // set instead of Groups when the verb defers dispatch
	After     interface{}
	HasBraces bool
}

// Result is the outcome of dispatching one statement.
type Result struct {
	Verb  string
	Value interface{}
}

// splice marks results that expand in place into the enclosing statement
// list (Include, If).
type splice []Result

// argParserFunc is a composed, ready-to-use argument parser for one verb.
type argParserFunc func(text string, loc Location) (interface{}, error)

// composedVerb is the composition product for one verb: three ready
// parsers plus the transformer constructor.
type composedVerb struct {
	name           string
	main           argParserFunc
	before         argParserFunc
	after          argParserFunc
	defers         bool
	newTransformer func(*Session) Transformer
}

// nullParse is the no-op parser for absent fragments: it always yields
// nothing, whatever the input.
func nullParse(string, Location) (interface{}, error) { return nil, nil }

// RegisterPlugin validates a plugin against the registration contract and
// composes parsers for each of its verbs. A malformed plugin is reported
// as a grammar error and not registered; the session stays usable.
func (sess *Session) RegisterPlugin(pl Plugin) error {
	if pl.Name == "" {
		err := errGrammar(pl.Name, "plugin has no name")
		sess.warn(Location{}, "%s", err.Issue)
		return err
	}
	if len(pl.Verbs) == 0 {
		err := errGrammar(pl.Name, "module %s is not a rules plugin: empty verb list", pl.Name)
		sess.warn(Location{}, "%s", err.Issue)
		return err
	}
	for _, v := range pl.Verbs {
		if v.Name == "" || v.New == nil {
			err := errGrammar(pl.Name, "module %s is not a rules plugin: verb without name or transformer", pl.Name)
			sess.warn(Location{}, "%s", err.Issue)
			return err
		}
	}
	for _, v := range pl.Verbs {
		sess.verbs[v.Name] = &composedVerb{
			name:           v.Name,
			main:           sess.composeWith(pl, v.Main),
			before:         sess.composeWith(pl, v.BeforeBrace),
			after:          sess.composeWith(pl, v.AfterBrace),
			defers:         v.DeferGroups,
			newTransformer: v.New,
		}
	}
	sess.plugins[pl.Name] = pl
	tracer().Debugf("registered plugin %s with %d verb(s)", pl.Name, len(pl.Verbs))
	return nil
}

// composeWith composes one fragment with the base grammar into a ready
// parser.
func (sess *Session) composeWith(pl Plugin, frag Fragment) argParserFunc {
	if frag == nil {
		return nullParse
	}
	aux := pl.Grammar
	helpers := pl.Options.UseHelpers
	return func(text string, loc Location) (interface{}, error) {
		p := &Parser{
			sess:    sess,
			s:       newScanner(text, loc),
			aux:     aux,
			helpers: helpers,
		}
		v, err := frag(p)
		if err != nil {
			return nil, err
		}
		p.s.skipSpace()
		if !p.s.eof() {
			return nil, errSyntax(loc, "unexpected trailing input %q", p.s.remainder())
		}
		return v, nil
	}
}
