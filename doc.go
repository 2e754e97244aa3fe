/*
Package fontrules holds an intermediate representation (IR) for font-layout
rules, shared by every front end that compiles rule sources.

The IR is organized around three concepts:

▪︎ A "routine" is a named, ordered list of layout rules which will be
compiled into a single lookup of an OpenType layout table.

▪︎ A "feature" is an ordered list of routine references under a feature tag,
to be applied by a layout engine (e.g., 'liga' or 'mark').

▪︎ A "rule" is one substitution, positioning, chaining or attachment
operation, together with its context and applicable script/language pairs.

Front ends append routines to features, append rules to routines, and share
one table of named glyph classes. The rule-DSL front end lives in package
rules; an AFDKO feature-file front end may target the same IR through the
identical operations.

# Status

Work in progress.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontrules

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontrules.ir'
func tracer() tracing.Trace {
	return tracing.Select("fontrules.ir")
}
