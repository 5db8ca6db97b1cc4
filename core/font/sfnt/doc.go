/*
Package sfnt decodes TrueType font containers (the `sfnt` binary format)
into an in-memory, typed representation of their tables and glyph
outlines.

The package is a read-only decoder: given a byte blob that purports to
be a TrueType file, it produces either a fully validated Font object or
a diagnostic failure, without mutating the input. Parsing is eager (all
required tables are decoded up front), while glyph outlines are decoded
on demand through Font.Glyph.

Intended audience for this package are:

▪︎ glyph rasterizers, which consume the decoded outlines (contour end
points, point flags, coordinate deltas)

▪︎ any application needing the internal structure of a TrueType font
file available, e.g. font inspection tools

Package sfnt will not rasterize glyphs, execute hinting bytecode, or
apply advanced layout (GSUB/GPOS); TrueType instructions are captured
as opaque bytes. For text shaping or rasterizing, clients will want to
feed the decoded structures into a dedicated engine.

A Font owns a mutable read cursor, which is re-positioned during
Font.Glyph calls. A single Font is therefore not safe for concurrent
use; construct one decoder per goroutine over shared read-only bytes
if parallel access is needed.

# Status

TrueType outlines only ('glyf'/'loca'); no CFF, no font collections,
no variable fonts.

# License

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package sfnt

// Helpful resources on the sfnt container format:
// https://developer.apple.com/fonts/TrueType-Reference-Manual/
// https://docs.microsoft.com/en-us/typography/opentype/spec/

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'lipi.fonts'
func tracer() tracing.Trace {
	return tracing.Select("lipi.fonts")
}
