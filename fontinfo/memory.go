package fontinfo

// Glyph is one glyph entry of a Memory model.
type Glyph struct {
	Name      string
	Codepoint rune // 0 if the glyph is not mapped by the cmap
	Metrics   GlyphMetrics
	Category  string
	Anchors   []string
}

// Memory is an in-memory font model, used for synthetic fonts and tests.
// Glyphs are exported in the order they were added.
type Memory struct {
	glyphs []Glyph
	index  map[string]int
	cmap   map[rune]string
	order  []string
}

var _ Model = (*Memory)(nil)

// NewMemory builds an in-memory font model from a glyph list.
func NewMemory(glyphs ...Glyph) *Memory {
	m := &Memory{
		index: make(map[string]int),
		cmap:  make(map[rune]string),
	}
	for _, g := range glyphs {
		m.AddGlyph(g)
	}
	return m
}

// AddGlyph appends a glyph to the model. A duplicate name replaces the
// earlier entry's data but keeps its position in the glyph order.
func (m *Memory) AddGlyph(g Glyph) {
	if i, ok := m.index[g.Name]; ok {
		m.glyphs[i] = g
	} else {
		m.index[g.Name] = len(m.glyphs)
		m.glyphs = append(m.glyphs, g)
		m.order = append(m.order, g.Name)
	}
	if g.Codepoint != 0 {
		m.cmap[g.Codepoint] = g.Name
	}
}

// GlyphOrder returns the glyph names in insertion order.
func (m *Memory) GlyphOrder() []string { return m.order }

// HasGlyph tells if the model contains a glyph with the given name.
func (m *Memory) HasGlyph(name string) bool {
	_, ok := m.index[name]
	return ok
}

// GlyphForCodepoint maps a Unicode codepoint to a glyph name.
func (m *Memory) GlyphForCodepoint(cp rune) (string, bool) {
	name, ok := m.cmap[cp]
	return name, ok
}

// Metrics returns the measurements of a glyph.
func (m *Memory) Metrics(name string) (GlyphMetrics, error) {
	i, ok := m.index[name]
	if !ok {
		return GlyphMetrics{}, errFontInfo("model has no glyph %s", name)
	}
	gm := m.glyphs[i].Metrics
	if gm.FullWidth == 0 && gm.XMax != gm.XMin {
		gm.FullWidth = gm.XMax - gm.XMin
	}
	return gm, nil
}

// Category returns the category assigned to a glyph.
func (m *Memory) Category(name string) string {
	if i, ok := m.index[name]; ok {
		return m.glyphs[i].Category
	}
	return ""
}

// HasAnchor tells if a glyph carries an anchor of the given name.
func (m *Memory) HasAnchor(glyph, anchor string) bool {
	i, ok := m.index[glyph]
	if !ok {
		return false
	}
	for _, a := range m.glyphs[i].Anchors {
		if a == anchor {
			return true
		}
	}
	return false
}
