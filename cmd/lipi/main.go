package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/hellozee/lipi/core"
	"github.com/hellozee/lipi/core/font"
	"github.com/hellozee/lipi/core/locate"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'lipi.fonts'
func tracer() tracing.Trace {
	return tracing.Select("lipi.fonts")
}

func main() {
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (path or system font name)")
	flag.Parse()
	styleOutput()
	if err := setupTracing(*tlevel); err != nil {
		fmt.Fprintf(os.Stderr, "lipi: cannot configure tracing: %v\n", err)
		os.Exit(1)
	}
	pterm.Info.Println("Welcome to lipi, the TrueType inspector")
	//
	if *fontname == "" && flag.NArg() > 0 {
		*fontname = flag.Arg(0)
	}
	if *fontname == "" {
		pterm.Error.Println("no font given; use -font <path or name>")
		os.Exit(2)
	}
	sf, err := loadFont(*fontname)
	if err != nil {
		core.UserError(err)
		os.Exit(3)
	}
	printSummary(sf)
	//
	// set up REPL
	repl, err := readline.New("lipi > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	intp := &Intp{repl: repl, font: sf}
	pterm.Info.Println("Quit with <ctrl>D")
	intp.REPL()
}

// setupTracing routes the 'lipi.fonts' trace to the Go standard logger
// at the requested level. Table and glyph data go to stdout via pterm;
// tracing is diagnostics only.
func setupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":  "go",
		"trace.lipi.fonts": level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().SetTraceLevel(traceLevel(level))
	return nil
}

func traceLevel(s string) tracing.TraceLevel {
	switch strings.ToLower(s) {
	case "debug":
		return tracing.LevelDebug
	case "error":
		return tracing.LevelError
	}
	return tracing.LevelInfo
}

// styleOutput dresses pterm's message prefixes for this tool.
func styleOutput() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " lipi ",
		Style: pterm.NewStyle(pterm.BgLightBlue, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " fail ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}
}

func loadFont(name string) (*font.ScalableFont, error) {
	path, err := locate.FontFile(name)
	if err != nil {
		return nil, err
	}
	return font.LoadTrueTypeFont(path)
}

func printSummary(sf *font.ScalableFont) {
	f := sf.SFNT
	pterm.Printfln("font %s: %d tables, %d glyphs, %d units/em",
		sf.Fontname, f.OffsetSubtable.NumTables, f.NumGlyphs(), f.Head.UnitsPerEm)
}

// Intp is our interpreter object
type Intp struct {
	font *font.ScalableFont
	repl *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(line string) (bool, error) {
	f := intp.font.SFNT
	cmd, arg := line, ""
	if i := strings.IndexByte(line, ' '); i > 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i:])
	}
	switch cmd {
	case "quit":
		return true, nil
	case "tables":
		for _, tag := range f.TableTags() {
			entry := f.Directory[tag]
			pterm.Printfln("(%s)  offset %6d  length %6d  checksum 0x%08x",
				tag, entry.Offset, entry.Length, entry.Checksum)
		}
	case "head":
		h := f.Head
		pterm.Printfln("version %.1f, revision %.3f", h.Version, h.FontRevision)
		pterm.Printfln("units/em %d, flags 0x%04x, macStyle 0x%04x", h.UnitsPerEm, h.Flags, h.MacStyle)
		pterm.Printfln("bbox (%d,%d)-(%d,%d)", h.XMin, h.YMin, h.XMax, h.YMax)
		pterm.Printfln("created  %s", time.Unix(h.Created, 0).UTC().Format(time.RFC3339))
		pterm.Printfln("modified %s", time.Unix(h.Modified, 0).UTC().Format(time.RFC3339))
		pterm.Printfln("indexToLocFormat %d", h.IndexToLocFormat)
	case "maxp":
		m := f.Maxp
		pterm.Printfln("%d glyphs, max %d points / %d contours, component depth %d",
			m.NumGlyphs, m.MaxPoints, m.MaxContours, m.MaxComponentDepth)
	case "hhea":
		h := f.Hhea
		pterm.Printfln("ascent %d, descent %d, line gap %d, %d long metrics",
			h.Ascent, h.Descent, h.LineGap, h.NumOfLongHorMetrics)
	case "cmap":
		pterm.Printfln("%d encodings, decoded subtable format %d",
			len(f.Cmap.Encodings), f.Cmap.Subtable.Format())
		for _, enc := range f.Cmap.Encodings {
			pterm.Printfln("platform %-9s  specific id %2d  offset %d",
				enc.PlatformID, enc.PlatformSpecificID, enc.Offset)
		}
	case "glyph":
		return false, intp.printGlyph(arg)
	case "name":
		return false, intp.printName(arg)
	default:
		pterm.Println("commands: tables | head | maxp | hhea | cmap | glyph N | name N | quit")
	}
	return false, nil
}

func (intp *Intp) printGlyph(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("glyph wants a numeric index, got %q", arg)
	}
	g, err := intp.font.SFNT.Glyph(uint32(n))
	if err != nil {
		return err
	}
	if g == nil {
		pterm.Printfln("glyph %d is empty", n)
		return nil
	}
	adv, lsb := intp.font.SFNT.Hmtx.Metric(uint16(n))
	pterm.Printfln("glyph %d: %d contours, %d points, bbox (%d,%d)-(%d,%d), advance %d, lsb %d",
		n, len(g.Data.EndPtsOfContours), g.Data.NumPoints(),
		g.XMin, g.YMin, g.XMax, g.YMax, adv, lsb)
	for i := range g.Data.Flags {
		pterm.Printfln("  [%3d] flags 0x%02x  Δx %5d  Δy %5d",
			i, g.Data.Flags[i], g.Data.XCoordinates[i], g.Data.YCoordinates[i])
	}
	return nil
}

func (intp *Intp) printName(arg string) error {
	f := intp.font.SFNT
	if arg == "" {
		for _, rec := range f.Name.Records {
			s, err := f.NameString(rec)
			if err != nil {
				continue
			}
			pterm.Printfln("[%2d] %s", rec.NameID, s)
		}
		return nil
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("name wants a numeric id, got %q", arg)
	}
	for _, rec := range f.Name.Records {
		if int(rec.NameID) != id {
			continue
		}
		s, err := f.NameString(rec)
		if err != nil {
			return err
		}
		pterm.Printfln("[%2d] %s", rec.NameID, s)
		return nil
	}
	pterm.Printfln("no name record with id %d", id)
	return nil
}
