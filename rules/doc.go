/*
Package rules compiles font-layout rule sources, written in an extensible
rule DSL, into the intermediate representation of package fontrules.

The compiler is organized as a miniature extensible-language front end:

▪︎ A statement-level lexer splits a source document into statements of the
form `Verb arguments ;`, where arguments may contain brace-enclosed blocks
of nested statements.

▪︎ A grammar composer assembles, per verb, up to three argument parsers
(main, before-brace, after-brace) from a shared base grammar and the verb's
own grammar fragments. Verbs are contributed by plugins through a static
registry; see [Plugin] and [Session.RegisterPlugin].

▪︎ A statement dispatcher routes each statement to its verb's parsers and
transformer. Unknown verbs are passed through with a warning; block verbs
receive their header arguments and brace contents together.

▪︎ A shared semantic layer resolves glyph selectors against a font model,
performs set algebra over named classes, evaluates metric predicates, and
bins glyph sets by metric similarity.

All compilation state lives on a [Session]; there is no process-wide
registry. Compilation is single-threaded and runs in one linear pass.

# Status

Work in progress.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package rules

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontrules.rules'
func tracer() tracing.Trace {
	return tracing.Select("fontrules.rules")
}
