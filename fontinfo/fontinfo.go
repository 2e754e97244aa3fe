/*
Package fontinfo is a read-only glyph and metrics service for rule
compilation.

Rule front ends never touch font binaries directly; they query a [Model]
for the exported glyph order, codepoint-to-glyph mapping, per-glyph metrics,
categories and anchor names. Two implementations are provided: [SFNT] reads
TrueType/OpenType fonts via golang.org/x/image/font/sfnt, and [Memory] is an
in-memory model for synthetic fonts and tests.

A model is treated as an immutable snapshot: all queries are side-effect
free from the caller's perspective.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontinfo

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontrules.fontinfo'
func tracer() tracing.Trace {
	return tracing.Select("fontrules.fontinfo")
}

// errFontInfo produces user level errors for font queries.
func errFontInfo(format string, args ...interface{}) error {
	return fmt.Errorf("font info: "+format, args...)
}

// GlyphMetrics carries the per-glyph measurements used by metric predicates
// and binning. All values are in font units.
type GlyphMetrics struct {
	Width     int // advance width
	LSB       int // left side bearing
	RSB       int // right side bearing
	XMin      int
	XMax      int
	YMin      int
	YMax      int
	Rise      int // difference in Y between cursive entry and exit
	Run       int // difference in X between cursive entry and exit
	FullWidth int // xMax - xMin
}

// Metric returns a named metric value. The metric vocabulary is fixed:
// width, lsb, rsb, xMin, xMax, yMin, yMax, rise, run, fullwidth.
func (gm GlyphMetrics) Metric(name string) (int, bool) {
	switch name {
	case "width":
		return gm.Width, true
	case "lsb":
		return gm.LSB, true
	case "rsb":
		return gm.RSB, true
	case "xMin":
		return gm.XMin, true
	case "xMax":
		return gm.XMax, true
	case "yMin":
		return gm.YMin, true
	case "yMax":
		return gm.YMax, true
	case "rise":
		return gm.Rise, true
	case "run":
		return gm.Run, true
	case "fullwidth":
		return gm.FullWidth, true
	}
	return 0, false
}

// MetricNames is the fixed vocabulary of metric names, in canonical order.
var MetricNames = []string{
	"width", "lsb", "rsb", "xMin", "xMax", "yMin", "yMax", "rise", "run", "fullwidth",
}

// IsMetricName tells if a name belongs to the fixed metric vocabulary.
func IsMetricName(name string) bool {
	_, ok := GlyphMetrics{}.Metric(name)
	return ok
}

// Model is a read-only view onto one font snapshot.
//
// Implementations must answer every query without side effects; resolving
// independent selectors against the same model concurrently is safe.
type Model interface {
	// GlyphOrder returns the font's exported glyph names in font order.
	GlyphOrder() []string
	// HasGlyph tells if a glyph name exists in the font.
	HasGlyph(name string) bool
	// GlyphForCodepoint maps a Unicode codepoint to a glyph name.
	GlyphForCodepoint(cp rune) (string, bool)
	// Metrics returns the measurements of a glyph.
	Metrics(name string) (GlyphMetrics, error)
	// Category returns the font-assigned category of a glyph (e.g. "base",
	// "mark"), or the empty string if the font assigns none.
	Category(name string) string
	// HasAnchor tells if a glyph carries a layout anchor of the given name.
	HasAnchor(glyph, anchor string) bool
}
