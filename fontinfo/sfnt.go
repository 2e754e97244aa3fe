package fontinfo

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// SFNT is a font model backed by a TrueType or OpenType font file, parsed
// with golang.org/x/image/font/sfnt.
//
// Glyph names are taken from the font's post table; fonts without glyph
// names get synthetic names of the form "glyph00017". Categories and
// anchors are not available through the sfnt reader (decoding GDEF is a
// concern of binary table tooling, not of this model) and report empty.
//
// The sfnt buffer is not safe for concurrent use, so metric queries are
// answered from a cache built at load time.
type SFNT struct {
	Fontname string
	Filepath string

	glyphs  []string
	index   map[string]sfnt.GlyphIndex
	metrics []GlyphMetrics
	otf     *sfnt.Font
}

var _ Model = (*SFNT)(nil)

// LoadFont loads an OpenType font (TTF or OTF) from a file and prepares it
// as a font model.
func LoadFont(fontfile string) (*SFNT, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	m, err := ParseFont(bytez)
	if err != nil {
		return nil, err
	}
	m.Filepath = fontfile
	return m, nil
}

// ParseFont loads an OpenType font (TTF or OTF) from memory and prepares it
// as a font model.
func ParseFont(fbytes []byte) (*SFNT, error) {
	otf, err := sfnt.Parse(fbytes)
	if err != nil {
		return nil, err
	}
	m := &SFNT{otf: otf, index: make(map[string]sfnt.GlyphIndex)}
	var buf sfnt.Buffer
	if m.Fontname, err = otf.Name(&buf, sfnt.NameIDFull); err != nil {
		m.Fontname = ""
	}
	upem := fixed.I(int(otf.UnitsPerEm()))
	n := otf.NumGlyphs()
	m.glyphs = make([]string, n)
	m.metrics = make([]GlyphMetrics, n)
	for i := 0; i < n; i++ {
		gid := sfnt.GlyphIndex(i)
		name, err := otf.GlyphName(&buf, gid)
		if err != nil || name == "" {
			name = fmt.Sprintf("glyph%05d", i)
		}
		m.glyphs[i] = name
		if _, ok := m.index[name]; !ok {
			m.index[name] = gid
		}
		m.metrics[i] = glyphMetricsOf(otf, &buf, gid, upem)
	}
	tracer().Debugf("loaded and parsed SFNT %s with %d glyphs", m.Fontname, n)
	return m, nil
}

// glyphMetricsOf measures one glyph in font units.
func glyphMetricsOf(otf *sfnt.Font, buf *sfnt.Buffer, gid sfnt.GlyphIndex, upem fixed.Int26_6) GlyphMetrics {
	gm := GlyphMetrics{}
	if aw, err := otf.GlyphAdvance(buf, gid, upem, font.HintingNone); err == nil {
		gm.Width = aw.Round()
	}
	segments, err := otf.LoadGlyph(buf, gid, upem, nil)
	if err != nil || len(segments) == 0 {
		// Empty outline: bbox is undefined, RSB stays zero per OpenType
		// recommendation for contour-less glyphs.
		return gm
	}
	first := true
	visit := func(p fixed.Point26_6) {
		x, y := p.X.Round(), p.Y.Round()
		if first {
			gm.XMin, gm.XMax, gm.YMin, gm.YMax = x, x, y, y
			first = false
			return
		}
		gm.XMin = min(gm.XMin, x)
		gm.XMax = max(gm.XMax, x)
		gm.YMin = min(gm.YMin, y)
		gm.YMax = max(gm.YMax, y)
	}
	for _, seg := range segments {
		pts := 1
		switch seg.Op {
		case sfnt.SegmentOpQuadTo:
			pts = 2
		case sfnt.SegmentOpCubeTo:
			pts = 3
		}
		for i := 0; i < pts; i++ {
			visit(seg.Args[i])
		}
	}
	// The sfnt rasterizer flips Y downwards; undo for font-unit semantics.
	gm.YMin, gm.YMax = -gm.YMax, -gm.YMin
	gm.LSB = gm.XMin
	gm.RSB = gm.Width - gm.XMax
	gm.FullWidth = gm.XMax - gm.XMin
	return gm
}

// GlyphOrder returns the exported glyph names in font order.
func (m *SFNT) GlyphOrder() []string {
	return m.glyphs
}

// HasGlyph tells if the font contains a glyph with the given name.
func (m *SFNT) HasGlyph(name string) bool {
	_, ok := m.index[name]
	return ok
}

// GlyphForCodepoint maps a Unicode codepoint to a glyph name via the
// font's cmap table.
func (m *SFNT) GlyphForCodepoint(cp rune) (string, bool) {
	var buf sfnt.Buffer
	gid, err := m.otf.GlyphIndex(&buf, cp)
	if err != nil || gid == 0 {
		return "", false
	}
	return m.glyphs[gid], true
}

// Metrics returns the cached measurements of a glyph.
func (m *SFNT) Metrics(name string) (GlyphMetrics, error) {
	gid, ok := m.index[name]
	if !ok {
		return GlyphMetrics{}, errFontInfo("font %s has no glyph %s", m.Fontname, name)
	}
	return m.metrics[gid], nil
}

// Category reports no category: sfnt exposes no GDEF glyph classes.
func (m *SFNT) Category(string) string { return "" }

// HasAnchor reports no anchors: sfnt exposes no attachment points.
func (m *SFNT) HasAnchor(string, string) bool { return false }
