/*
Package locate finds font files on the host system.

It is a thin layer over the system font directories, used by commands
which accept a font by name rather than by path. The decoder core never
depends on it.

# License

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package locate

import (
	"os"

	"github.com/flopp/go-findfont"
	"github.com/hellozee/lipi/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'lipi.fonts'
func tracer() tracing.Trace {
	return tracing.Select("lipi.fonts")
}

// FontFile resolves a font name or path to the path of a font file.
// A name which is not an existing file is searched for in the system's
// font directories, matching loosely ("arial" finds Arial.ttf).
func FontFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	path, err := findfont.Find(name)
	if err != nil {
		tracer().Infof("no font matching %q in system font directories", name)
		return "", core.WrapError(err, core.EMISSING, "font not found: %s", name)
	}
	tracer().Debugf("font %q resolved to %s", name, path)
	return path, nil
}
