package rules

import (
	"testing"

	"github.com/npillmayer/fontrules/fontinfo"
)

// testFont builds the synthetic font model used throughout the package
// tests. Glyph order is the insertion order below.
func testFont() *fontinfo.Memory {
	w := func(name string, cp rune, width int) fontinfo.Glyph {
		return fontinfo.Glyph{Name: name, Codepoint: cp, Metrics: fontinfo.GlyphMetrics{Width: width}}
	}
	return fontinfo.NewMemory(
		w("A", 'A', 300),
		w("B", 'B', 310),
		w("C", 'C', 320),
		w("E", 'E', 330),
		w("I", 'I', 340),
		w("O", 'O', 350),
		w("U", 'U', 360),
		w("Z", 'Z', 370),
		w("a", 'a', 500),
		w("b", 'b', 520),
		w("e", 'e', 480),
		w("f", 'f', 150),
		w("i", 'i', 250),
		w("f_i", 0, 550),
		w("space", ' ', 200),
		w("a.sc", 0, 400),
		w("e.sc", 0, 410),
		fontinfo.Glyph{
			Name:     "acutecomb",
			Metrics:  fontinfo.GlyphMetrics{Width: 0},
			Category: "mark",
		},
		// width clusters for binning
		w("n1", 0, 99),
		w("n2", 0, 100),
		w("n3", 0, 110),
		w("n4", 0, 120),
		w("n5", 0, 500),
		w("n6", 0, 510),
	)
}

func testSession(t *testing.T) *Session {
	t.Helper()
	sess, err := NewSession(testFont())
	if err != nil {
		t.Fatalf("cannot create session: %v", err)
	}
	return sess
}

// compileOK compiles a source snippet and fails the test on any fatal error.
func compileOK(t *testing.T, sess *Session, src string) {
	t.Helper()
	if _, err := sess.Compile(src); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
}

func sameGlyphs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
