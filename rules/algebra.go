package rules

import (
	"regexp"

	"github.com/npillmayer/fontrules/fontinfo"
)

// The class algebra engine: evaluation of `primary` expressions to glyph
// sets. A primary is a glyph selector, a predicate, a negated predicate, or
// a conjunction of primaries under '|' (union), '&' (intersection) or '-'
// (asymmetric difference). The word forms 'or' and 'and' are synonyms for
// '|' and '&'.
//
// Evaluation happens at grammar-reduction time, innermost first. A
// conjunction whose left operand is already a concrete set and whose right
// operand is still a predicate specializes to pointwise filtering of the
// left set, for every conjunctor and not only '&'. This asymmetric shortcut
// differs from materializing the predicate over the whole font first and is
// intentional; rule files depend on it.

func isMetricName(name string) bool { return fontinfo.IsMetricName(name) }

// Primary evaluates a primary expression to a concrete glyph-name
// sequence. A bare predicate with no left-hand set is applied to the
// entire font glyph order; predicates are never returned unapplied.
func (p *Parser) Primary() ([]string, error) {
	v, err := p.primary()
	if err != nil {
		return nil, err
	}
	if v.isSet {
		return v.set, nil
	}
	return p.sess.predicateOverFont(v.pred, p.s.loc)
}

// primary parses and evaluates `primary (CONJUNCTOR primary)*`.
func (p *Parser) primary() (primaryValue, error) {
	left, err := p.primaryUnit()
	if err != nil {
		return left, err
	}
	for {
		op, ok := p.conjunctor()
		if !ok {
			return left, nil
		}
		right, err := p.primaryUnit()
		if err != nil {
			return left, err
		}
		if left, err = p.sess.conjoin(left, op, right, p.s.loc); err != nil {
			return left, err
		}
	}
}

// conjunctor scans one of '&', '|', '-', 'and', 'or' if next.
func (p *Parser) conjunctor() (byte, bool) {
	p.s.skipSpace()
	if p.s.eof() {
		return 0, false
	}
	switch p.s.peek() {
	case '&', '|', '-':
		op := p.s.peek()
		p.s.pos++
		return op, true
	}
	switch p.s.peekWord() {
	case "and":
		p.s.word()
		return '&', true
	case "or":
		p.s.word()
		return '|', true
	}
	return 0, false
}

// primaryUnit parses one operand: a parenthesized primary, a (negated)
// predicate, or a glyph selector, and evaluates it.
func (p *Parser) primaryUnit() (primaryValue, error) {
	p.s.skipSpace()
	if p.s.accept("(") {
		v, err := p.primary()
		if err != nil {
			return v, err
		}
		return v, p.s.expect(")")
	}
	switch w := p.s.peekWord(); {
	case w == "not":
		p.s.word()
		pred, err := p.predicateUnit()
		if err != nil {
			return primaryValue{}, err
		}
		return predValue(Negate(pred)), nil
	case p.peekPredicate(w):
		pred, err := p.predicateUnit()
		if err != nil {
			return primaryValue{}, err
		}
		return predValue(pred), nil
	}
	gs, err := p.GlyphSelector()
	if err != nil {
		return primaryValue{}, err
	}
	glyphs, err := p.sess.ResolveSelector(gs, true)
	if err != nil {
		return primaryValue{}, err
	}
	return setValue(glyphs), nil
}

// peekPredicate decides whether the upcoming word starts a predicate
// rather than a glyph selector.
func (p *Parser) peekPredicate(w string) bool {
	switch w {
	case "hasglyph", "hasanchor", "category":
		return true
	}
	if w == "" {
		return false
	}
	// a word followed by a comparator reads as a metric comparison, so
	// that an unknown metric name fails as such and not as a stray glyph;
	// anything else (e.g. a glyph actually named "width") is a selector
	save := p.s.pos
	p.s.word()
	p.s.skipSpace()
	isCmp := !p.s.eof() && (p.s.peek() == '<' || p.s.peek() == '>' || p.s.peek() == '=')
	p.s.pos = save
	return isCmp
}

// predicateUnit parses one predicate leaf: hasglyph(/re/ repl),
// hasanchor(name), category(name), or a metric comparison.
func (p *Parser) predicateUnit() (Predicate, error) {
	p.s.skipSpace()
	loc := p.s.loc
	sess := p.sess
	switch w := p.s.peekWord(); w {
	case "hasglyph":
		p.s.word()
		if err := p.s.expect("("); err != nil {
			return nil, err
		}
		if err := p.s.expect("/"); err != nil {
			return nil, err
		}
		end := -1
		for i := 0; i < len(p.s.rest()); i++ {
			if p.s.rest()[i] == '/' {
				end = i
				break
			}
		}
		if end < 0 {
			return nil, errSyntax(loc, "unterminated regular expression in hasglyph()")
		}
		pattern := p.s.rest()[:end]
		p.s.pos += end + 1
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errResolution(loc, "couldn't parse regular expression '%s'", pattern)
		}
		replacement := p.s.bareName() // may be empty: replace with nothing
		if err := p.s.expect(")"); err != nil {
			return nil, err
		}
		return func(_ fontinfo.GlyphMetrics, glyph string) bool {
			return sess.Font.HasGlyph(re.ReplaceAllString(glyph, replacement))
		}, nil
	case "hasanchor":
		p.s.word()
		name, err := p.predicateArg()
		if err != nil {
			return nil, err
		}
		return func(_ fontinfo.GlyphMetrics, glyph string) bool {
			return sess.Features.HasAnchor(glyph, name) || sess.Font.HasAnchor(glyph, name)
		}, nil
	case "category":
		p.s.word()
		name, err := p.predicateArg()
		if err != nil {
			return nil, err
		}
		return func(_ fontinfo.GlyphMetrics, glyph string) bool {
			return sess.Font.Category(glyph) == name
		}, nil
	default:
		return p.metricComparison()
	}
}

// predicateArg parses "(name)".
func (p *Parser) predicateArg() (string, error) {
	if err := p.s.expect("("); err != nil {
		return "", err
	}
	name := p.s.bareName()
	if name == "" {
		return "", errSyntax(p.s.loc, "expected name, got %q", p.s.remainder())
	}
	return name, p.s.expect(")")
}

// metricComparison parses `METRIC COMPARATOR integer` into a predicate.
// An unknown metric fails fast here, not at evaluation time.
func (p *Parser) metricComparison() (Predicate, error) {
	p.s.skipSpace()
	loc := p.s.loc
	metric := p.s.word()
	if metric == "" {
		return nil, errSyntax(loc, "expected predicate, got %q", p.s.remainder())
	}
	if !isMetricName(metric) {
		return nil, errUnknownMetric(loc, metric)
	}
	cmp, err := p.comparator()
	if err != nil {
		return nil, err
	}
	value, err := p.IntegerContainer()
	if err != nil {
		return nil, err
	}
	return func(m fontinfo.GlyphMetrics, _ string) bool {
		v, _ := m.Metric(metric)
		return compare(v, cmp, value)
	}, nil
}

// comparator scans one of >=, <=, ==, =, <, >.
func (p *Parser) comparator() (string, error) {
	for _, c := range []string{">=", "<=", "==", "=", "<", ">"} {
		if p.s.accept(c) {
			return c, nil
		}
	}
	return "", errSyntax(p.s.loc, "expected comparison operator, got %q", p.s.remainder())
}

func compare(left int, op string, right int) bool {
	switch op {
	case ">=":
		return left >= right
	case "<=":
		return left <= right
	case "==", "=":
		return left == right
	case "<":
		return left < right
	case ">":
		return left > right
	}
	return false
}

// conjoin combines two primary values under a conjunctor.
//
// Tie-break: a concrete left set with a callable right operand filters the
// set pointwise, whatever the conjunctor (see the package comment above).
// Otherwise both operands are coerced to sets and combined with set
// algebra; callers must not depend on the output order of algebraic
// combinations.
func (sess *Session) conjoin(left primaryValue, op byte, right primaryValue, loc Location) (primaryValue, error) {
	if left.isSet && !right.isSet {
		filtered, err := sess.filterGlyphs(left.set, right.pred, loc)
		if err != nil {
			return primaryValue{}, err
		}
		return setValue(filtered), nil
	}
	l, err := sess.coerceToSet(left, loc)
	if err != nil {
		return primaryValue{}, err
	}
	r, err := sess.coerceToSet(right, loc)
	if err != nil {
		return primaryValue{}, err
	}
	switch op {
	case '|':
		return setValue(union(l, r)), nil
	case '&':
		return setValue(intersect(l, r)), nil
	case '-':
		return setValue(subtract(l, r)), nil
	}
	return primaryValue{}, errSyntax(loc, "unknown conjunctor %q", string(op))
}

func (sess *Session) coerceToSet(v primaryValue, loc Location) ([]string, error) {
	if v.isSet {
		return v.set, nil
	}
	return sess.predicateOverFont(v.pred, loc)
}

// predicateOverFont applies a predicate to the entire font glyph order.
func (sess *Session) predicateOverFont(pred Predicate, loc Location) ([]string, error) {
	return sess.filterGlyphs(sess.Font.GlyphOrder(), pred, loc)
}

// filterGlyphs keeps the glyphs of a set that satisfy a predicate.
func (sess *Session) filterGlyphs(glyphs []string, pred Predicate, loc Location) ([]string, error) {
	out := []string{}
	for _, g := range glyphs {
		metrics, err := sess.Font.Metrics(g)
		if err != nil {
			return nil, errResolution(loc, "%v", err)
		}
		if pred(metrics, g) {
			out = append(out, g)
		}
	}
	return out, nil
}

// Set algebra over glyph-name sequences. Results are deterministic
// (left-to-right first occurrence) but callers must not depend on the
// order, only on membership.

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, g := range a {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	for _, g := range b {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

func intersect(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, g := range b {
		inB[g] = true
	}
	seen := make(map[string]bool, len(a))
	out := []string{}
	for _, g := range a {
		if inB[g] && !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

func subtract(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, g := range b {
		inB[g] = true
	}
	seen := make(map[string]bool, len(a))
	out := []string{}
	for _, g := range a {
		if !inB[g] && !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}
