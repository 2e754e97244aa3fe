package rules

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func classOf(t *testing.T, sess *Session, name string) []string {
	t.Helper()
	glyphs, ok := sess.Features.NamedClasses[name]
	if !ok {
		t.Fatalf("class @%s was not defined", name)
	}
	return glyphs
}

func TestClassFromRegex(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `DefineClass @upper = /^[A-Z]$/;`)
	want := []string{"A", "B", "C", "E", "I", "O", "U", "Z"}
	if got := classOf(t, sess, "upper"); !sameGlyphs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestClassIntersection(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `
DefineClass @upper = /^[A-Z]$/;
DefineClass @vowels = [A E I O U];
DefineClass @caps = @upper & @vowels;
`)
	want := []string{"A", "E", "I", "O", "U"}
	if got := classOf(t, sess, "caps"); !sameGlyphs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestClassUnion(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `DefineClass @x = [A B] | [B C];`)
	if got := classOf(t, sess, "x"); !sameGlyphs(got, []string{"A", "B", "C"}) {
		t.Errorf("expected [A B C], got %v", got)
	}
}

func TestClassSubtraction(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `DefineClass @x = [A B C] - [B];`)
	if got := classOf(t, sess, "x"); !sameGlyphs(got, []string{"A", "C"}) {
		t.Errorf("expected [A C], got %v", got)
	}
}

func TestWordConjunctors(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `
DefineClass @x = [A B] and [B C];
DefineClass @y = [A] or [B];
`)
	if got := classOf(t, sess, "x"); !sameGlyphs(got, []string{"B"}) {
		t.Errorf("'and' expected [B], got %v", got)
	}
	if got := classOf(t, sess, "y"); !sameGlyphs(got, []string{"A", "B"}) {
		t.Errorf("'or' expected [A B], got %v", got)
	}
}

func TestMetricFilter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontrules.rules")
	defer teardown()
	//
	// A has width 300, f width 150, space width 200
	sess := testSession(t)
	compileOK(t, sess, `
DefineClass @alpha = [A f];
DefineClass @short = @alpha and (width < width(space));
`)
	if got := classOf(t, sess, "short"); !sameGlyphs(got, []string{"f"}) {
		t.Errorf("expected [f], got %v", got)
	}
}

func TestSetPredicateFiltersForEveryConjunctor(t *testing.T) {
	// A concrete left set with a predicate on the right filters the set
	// pointwise whatever the operator. This asymmetry is load-bearing:
	// existing rule files rely on '|' behaving like '&' here.
	sess := testSession(t)
	compileOK(t, sess, `
DefineClass @amp = [A f] & width < 200;
DefineClass @bar = [A f] | width < 200;
DefineClass @minus = [A f] - width < 200;
`)
	for _, name := range []string{"amp", "bar", "minus"} {
		if got := classOf(t, sess, name); !sameGlyphs(got, []string{"f"}) {
			t.Errorf("@%s: expected [f], got %v", name, got)
		}
	}
}

func TestPredicateOnLeftMaterializesOverFont(t *testing.T) {
	// with the predicate on the left there is no shortcut: it applies to
	// the whole font and combines with ordinary set algebra
	sess := testSession(t)
	compileOK(t, sess, `DefineClass @x = width == 150 | [A];`)
	if got := classOf(t, sess, "x"); !sameGlyphs(got, []string{"f", "A"}) {
		t.Errorf("expected [f A], got %v", got)
	}
}

func TestBarePredicateAppliesToWholeFont(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `DefineClass @wide = width >= 500;`)
	want := []string{"a", "b", "f_i", "n5", "n6"}
	if got := classOf(t, sess, "wide"); !sameGlyphs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNegatedPredicate(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `DefineClass @nonmarks = [a acutecomb] & not category(mark);`)
	if got := classOf(t, sess, "nonmarks"); !sameGlyphs(got, []string{"a"}) {
		t.Errorf("expected [a], got %v", got)
	}
}

func TestCategoryPredicate(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `DefineClass @marks = category(mark);`)
	if got := classOf(t, sess, "marks"); !sameGlyphs(got, []string{"acutecomb"}) {
		t.Errorf("expected [acutecomb], got %v", got)
	}
}

func TestHasglyphPredicate(t *testing.T) {
	// keep the glyphs whose name, with "b" replaced by "q", still exists
	sess := testSession(t)
	compileOK(t, sess, `DefineClass @x = [a b] & hasglyph(/b/ q);`)
	if got := classOf(t, sess, "x"); !sameGlyphs(got, []string{"a"}) {
		t.Errorf("expected [a], got %v", got)
	}
}

func TestHasanchorPredicate(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `
Anchors a top <250 600>;
DefineClass @withtop = [a e] & hasanchor(top);
`)
	if got := classOf(t, sess, "withtop"); !sameGlyphs(got, []string{"a"}) {
		t.Errorf("expected [a], got %v", got)
	}
}

func TestParenthesizedPrimary(t *testing.T) {
	sess := testSession(t)
	compileOK(t, sess, `DefineClass @x = ([A B] | [C]) & [B C];`)
	if got := classOf(t, sess, "x"); !sameGlyphs(got, []string{"B", "C"}) {
		t.Errorf("expected [B C], got %v", got)
	}
}

func TestUnknownMetricFailsAtReduction(t *testing.T) {
	sess := testSession(t)
	_, err := sess.Compile(`DefineClass @x = [A] & girth > 100;`)
	if err == nil {
		t.Fatal("expected an unknown-metric error")
	}
	cerr, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if cerr.Kind != ErrUnknownMetric {
		t.Errorf("expected METRIC error, got %v", err)
	}
	if cerr.Ident != "girth" {
		t.Errorf("error does not name the metric: %q", cerr.Ident)
	}
}

func TestComparators(t *testing.T) {
	cases := []struct {
		op   string
		want []string
	}{
		{">", []string{"n6"}},
		{">=", []string{"n5", "n6"}},
		{"<", []string{"n1", "n2", "n3", "n4"}},
		{"<=", []string{"n1", "n2", "n3", "n4", "n5"}},
		{"==", []string{"n5"}},
		{"=", []string{"n5"}},
	}
	for _, c := range cases {
		sess := testSession(t)
		compileOK(t, sess, `DefineClass @x = [n1 n2 n3 n4 n5 n6] & width `+c.op+` 500;`)
		if got := classOf(t, sess, "x"); !sameGlyphs(got, c.want) {
			t.Errorf("op %q: expected %v, got %v", c.op, c.want, got)
		}
	}
}
