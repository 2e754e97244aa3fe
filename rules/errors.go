package rules

import "fmt"

// Location is a position in a rule source document.
type Location struct {
	File string
	Line int // 1-based
	Col  int // 1-based
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// ErrorKind classifies fatal compilation errors.
type ErrorKind int

const (
	// ErrGrammar: a plugin's grammar fragments fail to compose with the
	// base grammar, or a plugin does not satisfy the registration contract.
	// Fatal at plugin-load time.
	ErrGrammar ErrorKind = iota
	// ErrSyntax: a statement does not match any composed grammar.
	ErrSyntax
	// ErrUndefinedReference: undefined named class, routine or variable.
	ErrUndefinedReference
	// ErrUnknownMetric: a metric name outside the fixed metric vocabulary,
	// detected at grammar-reduction time.
	ErrUnknownMetric
	// ErrResolution: a selector or include cannot be resolved against the
	// font or the file system.
	ErrResolution
)

// String returns a human-readable representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrGrammar:
		return "GRAMMAR"
	case ErrSyntax:
		return "SYNTAX"
	case ErrUndefinedReference:
		return "UNDEFINED"
	case ErrUnknownMetric:
		return "METRIC"
	case ErrResolution:
		return "RESOLUTION"
	default:
		return "UNKNOWN"
	}
}

// CompileError is a fatal compilation error. Fatal errors abort the whole
// compilation pass; no partial IR is considered usable.
type CompileError struct {
	Kind     ErrorKind
	Ident    string // offending identifier, if any (class, variable, metric, routine)
	Issue    string // human-readable cause
	Location Location
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Location == (Location{}) {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Issue)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Location, e.Issue)
}

func errSyntax(loc Location, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ErrSyntax, Issue: fmt.Sprintf(format, args...), Location: loc}
}

func errUndefinedClass(loc Location, name string) *CompileError {
	return &CompileError{
		Kind:     ErrUndefinedReference,
		Ident:    name,
		Issue:    fmt.Sprintf("tried to expand glyph class '@%s' but @%s was not defined", name, name),
		Location: loc,
	}
}

func errUndefinedVariable(loc Location, name string) *CompileError {
	return &CompileError{
		Kind:     ErrUndefinedReference,
		Ident:    name,
		Issue:    fmt.Sprintf("undefined variable: $%s", name),
		Location: loc,
	}
}

func errUndefinedRoutine(loc Location, name string) *CompileError {
	return &CompileError{
		Kind:     ErrUndefinedReference,
		Ident:    name,
		Issue:    fmt.Sprintf("reference to undefined routine %s", name),
		Location: loc,
	}
}

func errUnknownMetric(loc Location, name string) *CompileError {
	return &CompileError{
		Kind:     ErrUnknownMetric,
		Ident:    name,
		Issue:    fmt.Sprintf("unknown metric '%s'", name),
		Location: loc,
	}
}

func errResolution(loc Location, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: ErrResolution, Issue: fmt.Sprintf(format, args...), Location: loc}
}

func errGrammar(plugin string, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Kind:  ErrGrammar,
		Ident: plugin,
		Issue: fmt.Sprintf(format, args...),
	}
}

// Severity grades collected diagnostics.
type Severity int

const (
	// SeverityInfo marks output of debug/introspection verbs.
	SeverityInfo Severity = iota
	// SeverityWarning marks non-fatal findings (missing glyphs, unknown
	// verbs). Warnings never stop compilation.
	SeverityWarning
)

// String returns a human-readable representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is a non-fatal finding, collected on the session in source
// order and surfaced to the caller after compilation.
type Diagnostic struct {
	Severity Severity
	Message  string
	Location Location
}

func (d Diagnostic) String() string {
	if d.Location == (Location{}) {
		return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Location, d.Message)
}
