package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/fontrules"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestUnknownVerbWarns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontrules.rules")
	defer teardown()
	//
	sess := testSession(t)
	ff, err := sess.Compile(`Frobnicate a b c;`)
	if err != nil {
		t.Fatalf("unknown verbs must not be fatal: %v", err)
	}
	warnings := sess.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected exactly 1 warning, got %d", len(warnings))
	}
	if !strings.Contains(warnings[0].Message, "Frobnicate") {
		t.Errorf("warning does not name the verb: %s", warnings[0].Message)
	}
	if len(ff.Routines) != 0 || len(ff.ClassNames()) != 0 || len(ff.FeatureTags()) != 0 {
		t.Error("an unknown verb must not alter the compilation result")
	}
}

func TestLooseRulesGatherIntoAnonymousRoutine(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
Substitute f i -> f_i;
Substitute a -> e;
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(ff.Routines) != 1 {
		t.Fatalf("expected 1 routine, got %d", len(ff.Routines))
	}
	r := ff.Routines[0]
	if r.Name != "unnamed_routine_1" {
		t.Errorf("expected a generated name, got %q", r.Name)
	}
	if len(r.Rules) != 2 {
		t.Errorf("expected 2 rules, got %d", len(r.Rules))
	}
}

func TestSubstituteRule(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`Substitute ( a ) f i -> f_i ( e );`)
	if err != nil {
		t.Fatal(err)
	}
	if len(ff.Routines) != 1 || len(ff.Routines[0].Rules) != 1 {
		t.Fatal("expected one routine with one rule")
	}
	sub, ok := ff.Routines[0].Rules[0].(*fontrules.Substitution)
	if !ok {
		t.Fatalf("expected a substitution, got %T", ff.Routines[0].Rules[0])
	}
	if len(sub.Input) != 2 || !sameGlyphs(sub.Input[0], []string{"f"}) || !sameGlyphs(sub.Input[1], []string{"i"}) {
		t.Errorf("unexpected input slots: %v", sub.Input)
	}
	if len(sub.Replacement) != 1 || !sameGlyphs(sub.Replacement[0], []string{"f_i"}) {
		t.Errorf("unexpected replacement slots: %v", sub.Replacement)
	}
	if len(sub.Precontext) != 1 || !sameGlyphs(sub.Precontext[0], []string{"a"}) {
		t.Errorf("unexpected precontext: %v", sub.Precontext)
	}
	if len(sub.Postcontext) != 1 || !sameGlyphs(sub.Postcontext[0], []string{"e"}) {
		t.Errorf("unexpected postcontext: %v", sub.Postcontext)
	}
	if sub.Address == "" {
		t.Error("rule carries no source address")
	}
}

func TestSubstituteClassExpansion(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
DefineClass @vowels = [a e];
Substitute @vowels -> @vowels.sc;
`)
	if err != nil {
		t.Fatal(err)
	}
	sub := ff.Routines[0].Rules[0].(*fontrules.Substitution)
	if !sameGlyphs(sub.Input[0], []string{"a", "e"}) {
		t.Errorf("unexpected input slot: %v", sub.Input[0])
	}
	if !sameGlyphs(sub.Replacement[0], []string{"a.sc", "e.sc"}) {
		t.Errorf("unexpected replacement slot: %v", sub.Replacement[0])
	}
}

func TestPositionValueRecordForms(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
Position a 50;
Position b <xAdvance=-30 yPlacement=12>;
Position e <1 2 3 4>;
Position i;
`)
	if err != nil {
		t.Fatal(err)
	}
	rules := ff.Routines[0].Rules
	if len(rules) != 4 {
		t.Fatalf("expected 4 rules, got %d", len(rules))
	}
	vr := func(i int) fontrules.ValueRecord {
		return rules[i].(*fontrules.Positioning).ValueRecords[0]
	}
	if got := vr(0); got != (fontrules.ValueRecord{XAdvance: 50}) {
		t.Errorf("bare number: got %s", got)
	}
	if got := vr(1); got != (fontrules.ValueRecord{XAdvance: -30, YPlacement: 12}) {
		t.Errorf("named record: got %s", got)
	}
	if got := vr(2); got != (fontrules.ValueRecord{XPlacement: 1, YPlacement: 2, XAdvance: 3, YAdvance: 4}) {
		t.Errorf("four-tuple: got %s", got)
	}
	if got := vr(3); !got.IsZero() {
		t.Errorf("slot without record must get a zero record, got %s", got)
	}
}

func TestFeatureBlock(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
Feature liga {
	Substitute f i -> f_i;
	Routine Caps { Substitute a -> A; };
};
`)
	if err != nil {
		t.Fatal(err)
	}
	routines := ff.Feature("liga")
	if len(routines) != 2 {
		t.Fatalf("expected 2 routines under liga, got %d", len(routines))
	}
	if routines[0].Name != "unnamed_routine_1" {
		t.Errorf("loose feature rules must gather anonymously, got %q", routines[0].Name)
	}
	if routines[1].Name != "Caps" {
		t.Errorf("expected routine Caps, got %q", routines[1].Name)
	}
	if tags := ff.FeatureTags(); len(tags) != 1 || tags[0] != "liga" {
		t.Errorf("unexpected feature tags: %v", tags)
	}
}

func TestSharedRoutineRegisteredOnce(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
Routine Shared { Substitute a -> e; };
Feature ccmp { Chain a ^Shared; };
Feature liga { Chain e ^Shared; };
`)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, r := range ff.Routines {
		if r.Name == "Shared" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("routine Shared registered %d times", count)
	}
}

func TestRoutineFlagsApplyToAllRules(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
Routine X {
	Substitute a -> e;
	Position b 10;
} IgnoreMarks RightToLeft;
`)
	if err != nil {
		t.Fatal(err)
	}
	r, err := ff.ResolveRoutine("X")
	if err != nil {
		t.Fatal(err)
	}
	want := fontrules.IgnoreMarks | fontrules.RightToLeft
	if r.Flags != want {
		t.Errorf("expected flags %#x, got %#x", want, r.Flags)
	}
	for i, rule := range r.Rules {
		if rule.Basics().Flags != want {
			t.Errorf("rule %d: flags not pushed down, got %#x", i, rule.Basics().Flags)
		}
	}
}

func TestRoutineLanguages(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`Routine X { Substitute a -> e; } <<dflt/DFLT urd/arab>>;`)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := ff.ResolveRoutine("X")
	if len(r.Languages) != 2 {
		t.Fatalf("expected 2 language pairs, got %v", r.Languages)
	}
	if r.Languages[1] != (fontrules.LangSysPair{Script: "arab", Lang: "urd"}) {
		t.Errorf("unexpected language pair: %v", r.Languages[1])
	}
	if got := r.Rules[0].Basics().Languages; len(got) != 2 {
		t.Errorf("languages not pushed to rules: %v", got)
	}
}

func TestLanguageTagBridging(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`Substitute a -> e <<ur/arab>>;`)
	if err != nil {
		t.Fatal(err)
	}
	langs := ff.Routines[0].Rules[0].Basics().Languages
	if len(langs) != 1 || langs[0].Lang != "urd" {
		t.Errorf("expected BCP 47 'ur' to bridge to 'urd', got %v", langs)
	}
}

func TestLanguageWildcard(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`Substitute a -> e <<*/arab>>;`)
	if err != nil {
		t.Fatal(err)
	}
	langs := ff.Routines[0].Rules[0].Basics().Languages
	if len(langs) != 1 || langs[0].Lang != "*" || langs[0].Script != "arab" {
		t.Errorf("unexpected language pair: %v", langs)
	}
}

func TestChainResolvesRoutineReferences(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
Routine Fixup { Substitute a -> e; };
Chain b ^Fixup i;
`)
	if err != nil {
		t.Fatal(err)
	}
	var chain *fontrules.Chaining
	for _, r := range ff.Routines {
		for _, rule := range r.Rules {
			if c, ok := rule.(*fontrules.Chaining); ok {
				chain = c
			}
		}
	}
	if chain == nil {
		t.Fatal("no chaining rule produced")
	}
	if len(chain.Input) != 2 || len(chain.Lookups) != 2 {
		t.Fatalf("expected 2 slots, got %d/%d", len(chain.Input), len(chain.Lookups))
	}
	if len(chain.Lookups[0]) != 1 || chain.Lookups[0][0].Name != "Fixup" {
		t.Errorf("slot 0 lookups: %v", chain.Lookups[0])
	}
	if len(chain.Lookups[1]) != 0 {
		t.Errorf("slot 1 must have no lookups, got %v", chain.Lookups[1])
	}
}

func TestChainUndefinedRoutine(t *testing.T) {
	sess := testSession(t)
	_, err := sess.Compile(`Chain a ^Nonexistent;`)
	if err == nil {
		t.Fatal("expected an undefined-reference error")
	}
	cerr, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if cerr.Kind != ErrUndefinedReference || cerr.Ident != "Nonexistent" {
		t.Errorf("unexpected error: %v", cerr)
	}
}

func TestAnchorsAndAttach(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
Anchors a top <250 600> bottom <260 0>;
Anchors acutecomb _top <-570 1290>;
Attach &top &_top;
`)
	if err != nil {
		t.Fatal(err)
	}
	if !ff.HasAnchor("a", "top") || !ff.HasAnchor("a", "bottom") {
		t.Error("anchors of 'a' not recorded")
	}
	att := ff.Routines[0].Rules[0].(*fontrules.Attachment)
	if att.BaseName != "top" || att.MarkName != "_top" {
		t.Errorf("unexpected anchor names: %s/%s", att.BaseName, att.MarkName)
	}
	if a, ok := att.Bases["a"]; !ok || a != (fontrules.Anchor{X: 250, Y: 600}) {
		t.Errorf("unexpected base anchors: %v", att.Bases)
	}
	if m, ok := att.Marks["acutecomb"]; !ok || m != (fontrules.Anchor{X: -570, Y: 1290}) {
		t.Errorf("unexpected mark anchors: %v", att.Marks)
	}
}

func TestConditionalTakesTrueBranch(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `
Set $weight = 700;
If $weight >= 700 {
	DefineClass @stems = [a];
} {
	DefineClass @stems = [e];
};
`)
	if got := classOf(t, sess, "stems"); !sameGlyphs(got, []string{"a"}) {
		t.Errorf("expected the first branch, got %v", got)
	}
}

func TestConditionalTakesElseBranch(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `
Set $weight = 400;
If $weight >= 700 {
	DefineClass @stems = [a];
} {
	DefineClass @stems = [e];
};
`)
	if got := classOf(t, sess, "stems"); !sameGlyphs(got, []string{"e"}) {
		t.Errorf("expected the else branch, got %v", got)
	}
}

func TestConditionalBranchNotTakenHasNoEffect(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `
Set $v = 1;
If $v > 1 { DefineClass @never = [a]; };
`)
	if _, ok := sess.Features.NamedClasses["never"]; ok {
		t.Error("the branch not taken must not execute")
	}
}

func TestConditionalRulesSpliceIntoContext(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
Set $v = 1;
Feature liga {
	If $v == 1 { Substitute f i -> f_i; };
};
`)
	if err != nil {
		t.Fatal(err)
	}
	routines := ff.Feature("liga")
	if len(routines) != 1 || len(routines[0].Rules) != 1 {
		t.Fatalf("conditional rule not gathered into the feature: %v", routines)
	}
}

func TestVariableBindingAndShadowing(t *testing.T) {
	sess := testSession(t)
	ff, err := sess.Compile(`
Set $kern = 100;
Set $kern = 120;
Position a <xAdvance=$kern>;
`)
	if err != nil {
		t.Fatal(err)
	}
	pos := ff.Routines[0].Rules[0].(*fontrules.Positioning)
	if pos.ValueRecords[0].XAdvance != 120 {
		t.Errorf("expected the later binding to shadow, got %d", pos.ValueRecords[0].XAdvance)
	}
}

func TestVariableFromMetric(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `
Set $spacewidth = width(space);
DefineClass @short = [A f] & width < $spacewidth;
`)
	if got := classOf(t, sess, "short"); !sameGlyphs(got, []string{"f"}) {
		t.Errorf("expected [f], got %v", got)
	}
}

func TestUndefinedVariable(t *testing.T) {
	sess := testSession(t)
	_, err := sess.Compile(`Position a <xAdvance=$nope>;`)
	if err == nil {
		t.Fatal("expected an undefined-reference error")
	}
	cerr, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if cerr.Kind != ErrUndefinedReference || cerr.Ident != "nope" {
		t.Errorf("unexpected error: %v", cerr)
	}
}

func TestInclude(t *testing.T) {
	dir := t.TempDir()
	common := filepath.Join(dir, "common.rules")
	main := filepath.Join(dir, "main.rules")
	if err := os.WriteFile(common, []byte("DefineClass @vowels = [a e];\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(main, []byte("Include common.rules;\nSubstitute @vowels -> @vowels.sc;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	sess := testSession(t)
	ff, err := sess.CompileFile(main)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ff.NamedClasses["vowels"]; !ok {
		t.Error("included class not defined")
	}
	if len(ff.Routines) != 1 {
		t.Errorf("expected 1 routine, got %d", len(ff.Routines))
	}
}

func TestIncludeMissingFile(t *testing.T) {
	sess := testSession(t)
	_, err := sess.Compile(`Include nosuchfile.rules;`)
	if err == nil {
		t.Fatal("expected a resolution error")
	}
	cerr, ok := err.(*CompileError)
	if !ok || cerr.Kind != ErrResolution {
		t.Errorf("expected RESOLUTION error, got %v", err)
	}
}

func TestDebugVerbsEmitInfoDiagnostics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontrules.rules")
	defer teardown()
	//
	sess := testSession(t)
	ff, err := sess.Compile(`
DefineClass @vowels = [a e];
ShowClass @vowels;
DumpClassNames;
`)
	if err != nil {
		t.Fatal(err)
	}
	var infos []Diagnostic
	for _, d := range sess.Diagnostics() {
		if d.Severity == SeverityInfo {
			infos = append(infos, d)
		}
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 info diagnostics, got %d", len(infos))
	}
	if !strings.Contains(infos[0].Message, "@vowels = a e") {
		t.Errorf("unexpected ShowClass output: %s", infos[0].Message)
	}
	if len(ff.Routines) != 0 {
		t.Error("debug verbs must not produce routines")
	}
}

func TestRegisterPluginContract(t *testing.T) {
	sess := testSession(t)
	if err := sess.RegisterPlugin(Plugin{Name: "Empty"}); err == nil {
		t.Error("a plugin without verbs must be rejected")
	}
	if err := sess.RegisterPlugin(Plugin{
		Name:  "NoTransformer",
		Verbs: []VerbSpec{{Name: "Broken"}},
	}); err == nil {
		t.Error("a verb without a transformer must be rejected")
	}
	// a rejected plugin leaves the session usable
	compileOK(t, sess, `DefineClass @x = [a];`)
}

func TestExternalPlugin(t *testing.T) {
	sess := testSession(t)
	err := sess.RegisterPlugin(Plugin{
		Name:    "Marker",
		Options: PluginOptions{UseHelpers: true},
		Verbs: []VerbSpec{
			{
				Name: "Mark",
				Main: func(p *Parser) (interface{}, error) {
					gs, err := p.GlyphSelector()
					if err != nil {
						return nil, err
					}
					return p.Session().ResolveSelector(gs, true)
				},
				New: func(sess *Session) Transformer {
					return markTransformer{sess: sess}
				},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	compileOK(t, sess, `Mark [a e];`)
	if got := classOf(t, sess, "marked"); !sameGlyphs(got, []string{"a", "e"}) {
		t.Errorf("expected [a e], got %v", got)
	}
}

type markTransformer struct {
	sess *Session
}

func (m markTransformer) Action(args *StatementArgs) (interface{}, error) {
	glyphs, ok := args.Main.([]string)
	if !ok {
		return nil, errSyntax(args.Location, "Mark takes one glyph selector")
	}
	m.sess.Features.SetNamedClass("marked", glyphs)
	return nil, nil
}
