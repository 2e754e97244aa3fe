package fontrules

import "fmt"

// FontFeatures collects the complete result of one compilation session:
// routines, features, named glyph classes and glyph anchors.
//
// It is owned by a single session and mutated in place during one linear
// compilation pass. No locking is performed; concurrent mutation is not
// supported.
type FontFeatures struct {
	Routines     []*Routine
	NamedClasses map[string][]string
	Anchors      map[string]map[string]Anchor

	features   map[string][]*Routine
	featureTag []string // feature tags in insertion order
	classOrder []string // class names in insertion order
	gensym     int
}

// NewFontFeatures creates an empty IR container.
func NewFontFeatures() *FontFeatures {
	return &FontFeatures{
		NamedClasses: make(map[string][]string),
		Anchors:      make(map[string]map[string]Anchor),
		features:     make(map[string][]*Routine),
	}
}

// AddRoutine registers a routine with the compilation result. Routines
// referenced from features are registered exactly once, no matter how many
// features reference them.
func (ff *FontFeatures) AddRoutine(r *Routine) *Routine {
	if r == nil {
		return nil
	}
	for _, existing := range ff.Routines {
		if existing == r {
			return r
		}
	}
	if r.Name == "" {
		r.Name = ff.GensymRoutineName()
	}
	ff.Routines = append(ff.Routines, r)
	return r
}

// AddRoutineToFeature appends a routine reference to the feature with the
// given tag. The routine is referenced by identity, not copied; multiple
// routines may be appended to the same tag over the course of compilation.
func (ff *FontFeatures) AddRoutineToFeature(tag string, r *Routine) {
	ff.AddRoutine(r)
	if _, ok := ff.features[tag]; !ok {
		ff.featureTag = append(ff.featureTag, tag)
	}
	ff.features[tag] = append(ff.features[tag], r)
	tracer().Debugf("feature %s now references %d routine(s)", tag, len(ff.features[tag]))
}

// Feature returns the ordered routine references for a feature tag.
func (ff *FontFeatures) Feature(tag string) []*Routine {
	return ff.features[tag]
}

// FeatureTags returns all feature tags in the order they were first used.
func (ff *FontFeatures) FeatureTags() []string {
	return ff.featureTag
}

// ResolveRoutine finds a registered routine by name.
func (ff *FontFeatures) ResolveRoutine(name string) (*Routine, error) {
	for _, r := range ff.Routines {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("reference to undefined routine %s", name)
}

// SetNamedClass binds a named glyph class, without the '@' sigil, to a
// sequence of glyph names. Re-binding an existing name replaces its
// members but keeps its position in the class order.
func (ff *FontFeatures) SetNamedClass(name string, glyphs []string) {
	if _, ok := ff.NamedClasses[name]; !ok {
		ff.classOrder = append(ff.classOrder, name)
	}
	ff.NamedClasses[name] = glyphs
}

// ClassNames returns all defined class names in definition order.
func (ff *FontFeatures) ClassNames() []string {
	return ff.classOrder
}

// SetAnchor records a named anchor position for a glyph.
func (ff *FontFeatures) SetAnchor(glyph, anchor string, a Anchor) {
	if ff.Anchors[glyph] == nil {
		ff.Anchors[glyph] = make(map[string]Anchor)
	}
	ff.Anchors[glyph][anchor] = a
}

// HasAnchor tells if a glyph carries an anchor of the given name.
func (ff *FontFeatures) HasAnchor(glyph, anchor string) bool {
	_, ok := ff.Anchors[glyph][anchor]
	return ok
}

// GensymRoutineName produces a fresh name for an anonymous routine.
func (ff *FontFeatures) GensymRoutineName() string {
	ff.gensym++
	return fmt.Sprintf("unnamed_routine_%d", ff.gensym)
}

// Anchor is a single anchor position in font units.
type Anchor struct {
	X, Y int
}

// LangSysPair is one applicable script/language combination for a rule or
// routine. A '*' entry acts as a wildcard.
type LangSysPair struct {
	Script string
	Lang   string
}

// Lookup flags, applied uniformly to all rules of a routine at the moment
// the routine (or its enclosing feature) is closed. Values match the
// OpenType LookupFlag bit enumeration.
const (
	RightToLeft         = 0x0001
	IgnoreBases         = 0x0002
	IgnoreLigatures     = 0x0004
	IgnoreMarks         = 0x0008
	UseMarkFilteringSet = 0x0010
)

// Routine is an ordered sequence of rules compiled as one lookup.
type Routine struct {
	Name      string
	Rules     []Rule
	Address   []string // source locations, for diagnostics and round-tripping
	Flags     int
	Languages []LangSysPair
}

// NewRoutine creates an empty routine. An empty name marks the routine as
// anonymous; it receives a generated name when registered with a
// FontFeatures container.
func NewRoutine(name string, address ...string) *Routine {
	return &Routine{Name: name, Address: address}
}

// AddRule appends a rule to the routine.
func (r *Routine) AddRule(rule Rule) {
	r.Rules = append(r.Rules, rule)
}

// ApplyFlags sets the routine's lookup flags and pushes them down to all
// contained rules.
func (r *Routine) ApplyFlags(flags int) {
	r.Flags = flags
	for _, rule := range r.Rules {
		rule.basics().Flags = flags
	}
}

// ApplyLanguages restricts the routine and all contained rules to a list of
// script/language pairs.
func (r *Routine) ApplyLanguages(langs []LangSysPair) {
	r.Languages = langs
	for _, rule := range r.Rules {
		rule.basics().Languages = langs
	}
}
