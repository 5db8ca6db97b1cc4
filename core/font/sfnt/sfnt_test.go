package sfnt

import (
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
	xsfnt "golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

// The Go Regular font, packaged as Go source, serves as a real-world
// TrueType file. The x/image sfnt parser reads the same bytes and acts
// as a second opinion.
type GoFontTestEnviron struct {
	suite.Suite
	font   *Font
	oracle *xsfnt.Font
}

// listen for 'go test' command --> run test methods
func TestGoFontFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lipi.fonts")
	defer teardown()
	suite.Run(t, new(GoFontTestEnviron))
}

// run once, before test suite methods
func (env *GoFontTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("lipi.fonts").SetTraceLevel(tracing.LevelError)
	var err error
	env.font, err = Parse(goregular.TTF)
	env.Require().NoError(err, "expected Go Regular to parse")
	env.oracle, err = xsfnt.Parse(goregular.TTF)
	env.Require().NoError(err, "expected x/image/font/sfnt to parse Go Regular")
	tracing.Select("lipi.fonts").SetTraceLevel(tracing.LevelInfo)
}

// --- Tests -----------------------------------------------------------------

func (env *GoFontTestEnviron) TestRequiredTables() {
	for _, tag := range requiredTables {
		_, ok := env.font.Directory[tag]
		env.True(ok, "expected table (%s) to be present", tag)
	}
}

func (env *GoFontTestEnviron) TestGlyphCountAgainstOracle() {
	env.Equal(env.oracle.NumGlyphs(), env.font.NumGlyphs(),
		"expected both parsers to agree on the glyph count")
}

func (env *GoFontTestEnviron) TestUnitsPerEmAgainstOracle() {
	env.Equal(int(env.oracle.UnitsPerEm()), int(env.font.Head.UnitsPerEm),
		"expected both parsers to agree on units per em")
}

func (env *GoFontTestEnviron) TestHeadSanity() {
	env.Equal(uint32(0x5F0F3CF5), env.font.Head.MagicNumber)
	env.GreaterOrEqual(env.font.Head.UnitsPerEm, uint16(64))
	env.LessOrEqual(env.font.Head.UnitsPerEm, uint16(16384))
	env.Contains([]int16{0, 1}, env.font.Head.IndexToLocFormat)
}

func (env *GoFontTestEnviron) TestLocaInvariant() {
	env.Equal(env.font.NumGlyphs()+1, env.font.Loca.Count(),
		"expected one loca entry per glyph plus the sentinel")
}

func (env *GoFontTestEnviron) TestHmtxInvariant() {
	covered := len(env.font.Hmtx.HMetrics) + len(env.font.Hmtx.LeftSideBearings)
	env.Equal(env.font.NumGlyphs(), covered,
		"expected hmtx to cover every glyph")
	env.GreaterOrEqual(len(env.font.Hmtx.HMetrics), 1)
}

func (env *GoFontTestEnviron) TestChecksumInvariant() {
	for tag, entry := range env.font.Directory {
		if tag == T("head") {
			continue
		}
		sum, err := env.font.checksum(entry.Offset, entry.Length)
		env.Require().NoError(err)
		env.Equal(entry.Checksum, sum, "checksum of table (%s)", tag)
	}
}

func (env *GoFontTestEnviron) TestDecodeAllGlyphs() {
	numPointless := 0
	for i := 0; i < env.font.NumGlyphs(); i++ {
		g, err := env.font.Glyph(uint32(i))
		env.Require().NoError(err, "glyph %d", i)
		if g == nil {
			numPointless++
			continue
		}
		env.GreaterOrEqual(g.NumberOfContours, int16(-1))
		n := len(g.Data.Flags)
		env.Equal(n, len(g.Data.XCoordinates), "glyph %d x-coordinates", i)
		env.Equal(n, len(g.Data.YCoordinates), "glyph %d y-coordinates", i)
		if len(g.Data.EndPtsOfContours) > 0 {
			last := g.Data.EndPtsOfContours[len(g.Data.EndPtsOfContours)-1]
			env.Equal(int(last)+1, n, "glyph %d point count", i)
		}
	}
	env.T().Logf("%d of %d glyphs are empty", numPointless, env.font.NumGlyphs())
}

func (env *GoFontTestEnviron) TestNameStrings() {
	env.Greater(len(env.font.Name.Records), 0, "expected name records")
	decoded := 0
	for _, rec := range env.font.Name.Records {
		s, err := env.font.NameString(rec)
		if err == nil && s != "" {
			decoded++
		}
	}
	env.Greater(decoded, 0, "expected at least one decodable name string")
}
