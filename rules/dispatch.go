package rules

import (
	"os"

	"github.com/npillmayer/fontrules"
)

// The statement dispatcher. Each parsed statement is routed to its verb's
// composed parsers and transformer. Two statement shapes exist: flat
// statements re-parse their joined argument text with the verb's main
// parser, while block statements (arguments containing brace groups) are
// split at the first and last group: everything before is re-parsed with
// the before-brace parser, everything after with the after-brace parser,
// and the groups themselves are passed through. The verb's transformer
// sees all parts in one composite action call.

// Compile compiles one source document and returns the IR. Fatal errors
// abort compilation; warnings are collected on the session.
func (sess *Session) Compile(src string) (*fontrules.FontFeatures, error) {
	results, err := sess.CompileString(src)
	if err != nil {
		return nil, err
	}
	sess.gatherLooseRules(results)
	return sess.Features, nil
}

// CompileFile compiles a rule document from a file.
func (sess *Session) CompileFile(filename string) (*fontrules.FontFeatures, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	prev := sess.currentFile
	sess.currentFile = filename
	defer func() { sess.currentFile = prev }()
	return sess.Compile(string(data))
}

// CompileString lexes and dispatches a source document and returns the raw
// statement results, without the top-level wrap-up of loose rules. Include
// processing uses this entry point so that rules from included files are
// gathered in their surrounding context.
func (sess *Session) CompileString(src string) ([]Result, error) {
	statements, err := lexString(src, sess.currentFile)
	if err != nil {
		return nil, err
	}
	return sess.DispatchAll(statements)
}

// DispatchAll dispatches a statement sequence in order, flattening spliced
// results (Include, If) into the output.
func (sess *Session) DispatchAll(statements []Statement) ([]Result, error) {
	var out []Result
	for _, st := range statements {
		res, err := sess.Dispatch(st)
		if err != nil {
			return nil, err
		}
		if spliced, ok := res.Value.(splice); ok {
			out = append(out, spliced...)
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

// Dispatch transforms one parsed statement into a (verb, result) pair.
//
// An unknown verb is a warning, not an error: the raw statement is passed
// through unresolved so that compilation continues.
func (sess *Session) Dispatch(st Statement) (Result, error) {
	verb, ok := sess.verbs[st.Verb]
	if !ok {
		sess.warn(st.Location, "unknown verb: %s", st.Verb)
		return Result{Verb: st.Verb, Value: st.Args}, nil
	}
	args := &StatementArgs{Verb: st.Verb, Location: st.Location}

	var groupIdx []int
	for i, a := range st.Args {
		if a.IsGroup() {
			groupIdx = append(groupIdx, i)
		}
	}
	var err error
	if len(groupIdx) > 0 {
		args.HasBraces = true
		first, last := groupIdx[0], groupIdx[len(groupIdx)-1]
		if args.Before, err = verb.before(joinTexts(st.Args[:first]), st.Location); err != nil {
			return Result{}, err
		}
		if args.After, err = verb.after(joinTexts(st.Args[last+1:]), st.Location); err != nil {
			return Result{}, err
		}
		for _, gi := range groupIdx {
			if verb.defers {
				args.RawGroups = append(args.RawGroups, st.Args[gi].Group)
				continue
			}
			results, err := sess.DispatchAll(st.Args[gi].Group)
			if err != nil {
				return Result{}, err
			}
			args.Groups = append(args.Groups, results)
		}
	} else {
		if args.Main, err = verb.main(joinTexts(st.Args), st.Location); err != nil {
			return Result{}, err
		}
	}
	transformer := verb.newTransformer(sess)
	value, err := transformer.Action(args)
	if err != nil {
		return Result{}, err
	}
	return Result{Verb: st.Verb, Value: value}, nil
}

// gatherLooseRules wraps consecutive top-level rules, produced outside any
// Routine or Feature block, into fresh anonymous routines.
func (sess *Session) gatherLooseRules(results []Result) {
	var current *fontrules.Routine
	for _, res := range results {
		rule, ok := res.Value.(fontrules.Rule)
		if !ok {
			current = nil
			continue
		}
		if current == nil {
			current = fontrules.NewRoutine("", rule.Basics().Address)
			sess.Features.AddRoutine(current)
		}
		current.AddRule(rule)
	}
}
