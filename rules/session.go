package rules

import (
	"fmt"
	"path/filepath"

	"github.com/npillmayer/fontrules"
	"github.com/npillmayer/fontrules/fontinfo"
)

// Session is one compilation session. It owns the plugin table, the named
// class and variable tables (through the IR container), and the diagnostic
// sink. There is no process-wide mutable state: independent sessions do not
// interact.
//
// A session compiles source documents in a single linear pass on the
// calling goroutine. The font model is treated as a read-only snapshot.
type Session struct {
	Font      fontinfo.Model
	Features  *fontrules.FontFeatures
	Variables map[string]int

	verbs        map[string]*composedVerb
	plugins      map[string]Plugin
	diags        []Diagnostic
	currentFile  string
	includeDepth int
}

// NewSession creates a compilation session for one font snapshot and
// registers the built-in verb plugins. A grammar error during built-in
// registration aborts session setup.
func NewSession(font fontinfo.Model) (*Session, error) {
	sess := &Session{
		Font:      font,
		Features:  fontrules.NewFontFeatures(),
		Variables: make(map[string]int),
		verbs:     make(map[string]*composedVerb),
		plugins:   make(map[string]Plugin),
	}
	if err := sess.registerBuiltins(); err != nil {
		return nil, err
	}
	return sess, nil
}

// CurrentFile returns the path of the document being compiled, or "" when
// compiling from a string.
func (sess *Session) CurrentFile() string { return sess.currentFile }

// Diagnostics returns all collected diagnostics in source order.
func (sess *Session) Diagnostics() []Diagnostic { return sess.diags }

// Warnings returns the collected warning-level diagnostics in source order.
func (sess *Session) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range sess.diags {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// warn records a warning-level diagnostic. Warnings never stop compilation.
func (sess *Session) warn(loc Location, format string, args ...interface{}) {
	d := Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Location: loc}
	sess.diags = append(sess.diags, d)
	tracer().Infof("%s", d)
}

// note records an info-level diagnostic, used by the debug verbs.
func (sess *Session) note(loc Location, format string, args ...interface{}) {
	d := Diagnostic{Severity: SeverityInfo, Message: fmt.Sprintf(format, args...), Location: loc}
	sess.diags = append(sess.diags, d)
	tracer().Debugf("%s", d)
}

// resolveIncludePath resolves an include path relative to the directory of
// the including file.
func (sess *Session) resolveIncludePath(path string) string {
	if filepath.IsAbs(path) || sess.currentFile == "" {
		return path
	}
	return filepath.Join(filepath.Dir(sess.currentFile), path)
}
