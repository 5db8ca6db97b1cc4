/*
Package font is for typeface and font handling.

A "scalable font" in lipi terminology is one variant of a typeface,
e.g. "Go Regular", backed by a TrueType file. This package pairs the
raw font binary with its decoded sfnt structure; the binary parsing
itself is homed in the sub-package sfnt.

# License

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package font

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hellozee/lipi/core"
	"github.com/hellozee/lipi/core/font/sfnt"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
)

// tracer writes to trace with key 'lipi.fonts'
func tracer() tracing.Trace {
	return tracing.Select("lipi.fonts")
}

// ScalableFont is a font instance backed by a TrueType file. Binary is
// the complete raw data; SFNT is the decoded view into it. SFNT keeps
// referencing Binary, so Binary must not be modified while the font is
// in use.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Font
}

// LoadTrueTypeFont reads a TrueType font file and decodes it.
func LoadTrueTypeFont(fontfile string) (*ScalableFont, error) {
	data, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "font not found: %s", fontfile)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded font %s", fontfile)
	name := filepath.Base(fontfile)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return &ScalableFont{
		Fontname: name,
		Filepath: fontfile,
		Binary:   data,
		SFNT:     f,
	}, nil
}

var fallbackOnce sync.Once
var fallbackFont *ScalableFont
var fallbackErr error

// FallbackFont returns a font to be used if everything else fails. It
// is the Go Regular font, packaged with the binary, and is decoded at
// most once.
func FallbackFont() (*ScalableFont, error) {
	fallbackOnce.Do(func() {
		f, err := sfnt.Parse(goregular.TTF)
		if err != nil {
			fallbackErr = err
			return
		}
		fallbackFont = &ScalableFont{
			Fontname: "Go Regular",
			Binary:   goregular.TTF,
			SFNT:     f,
		}
	})
	return fallbackFont, fallbackErr
}
