package sfnt

import (
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Code comments will occasionally cite passages from the Apple TrueType
// Reference Manual,
// https://developer.apple.com/fonts/TrueType-Reference-Manual/

// Tables which have to be present, and decoded, for the font to be
// usable. The order of decoding is fixed: the directory first, then
// 'head' and 'maxp' (other tables depend on fields of these two), then
// the remaining tables.
var requiredTables = []Tag{
	T("head"), T("maxp"), T("cmap"), T("hhea"),
	T("hmtx"), T("loca"), T("name"), T("glyf"),
}

// Open reads a font file and parses it. Failing to read the file yields
// an IoFailure; everything else is as in Parse.
func Open(filename string) (*Font, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errIO(err)
	}
	return Parse(data)
}

// Parse parses a TrueType font from a byte blob. The blob is shared,
// not copied; it must stay valid and unmodified while the Font remains
// in use. Parse either returns a fully validated font or the first
// error encountered; there is no partial success.
func Parse(data []byte) (*Font, error) {
	f := &Font{cursor: NewCursor(data)}
	if err := f.readOffsetSubtable(); err != nil {
		return nil, err
	}
	tracer().Debugf("font has %d tables", f.OffsetSubtable.NumTables)
	if err := f.readDirectory(); err != nil {
		return nil, err
	}
	for _, tag := range requiredTables {
		if _, ok := f.Directory[tag]; !ok {
			return nil, errMissingTable(tag)
		}
	}
	if err := f.readHead(); err != nil {
		return nil, err
	}
	if err := f.readMaxp(); err != nil {
		return nil, err
	}
	if err := f.readCmap(); err != nil {
		return nil, err
	}
	if err := f.readHhea(); err != nil {
		return nil, err
	}
	if err := f.readHmtx(); err != nil {
		return nil, err
	}
	if err := f.readLoca(); err != nil {
		return nil, err
	}
	if err := f.readName(); err != nil {
		return nil, err
	}
	tracer().Debugf("font parsed, %d glyphs", f.Maxp.NumGlyphs)
	return f, nil
}

// --- Offset subtable -------------------------------------------------------

func (f *Font) readOffsetSubtable() error {
	c := f.cursor
	if _, err := c.Seek(0); err != nil {
		return err
	}
	var err error
	sub := &f.OffsetSubtable
	if sub.ScalarType, err = c.U32(); err != nil {
		return err
	}
	if sub.NumTables, err = c.U16(); err != nil {
		return err
	}
	if sub.SearchRange, err = c.U16(); err != nil {
		return err
	}
	if sub.EntrySelector, err = c.U16(); err != nil {
		return err
	}
	sub.RangeShift, err = c.U16()
	return err
}

// --- Table directory -------------------------------------------------------

// readDirectory reads numTables directory records into the tag→entry
// mapping and verifies each table region's checksum on the fly. Tags
// are unique in a well-formed font; should a font repeat one, the last
// record wins.
func (f *Font) readDirectory() error {
	c := f.cursor
	f.Directory = make(map[Tag]DirectoryEntry, f.OffsetSubtable.NumTables)
	for i := 0; i < int(f.OffsetSubtable.NumTables); i++ {
		tag, err := c.Tag()
		if err != nil {
			return err
		}
		var entry DirectoryEntry
		if entry.Checksum, err = c.U32(); err != nil {
			return err
		}
		if entry.Offset, err = c.U32(); err != nil {
			return err
		}
		if entry.Length, err = c.U32(); err != nil {
			return err
		}
		f.Directory[tag] = entry
		// The 'head' table cannot be verified this way: its own
		// checksumAdjustment field entered the sum at font-production
		// time.
		if tag == T("head") {
			continue
		}
		sum, err := f.checksum(entry.Offset, entry.Length)
		if err != nil {
			return err
		}
		if sum != entry.Checksum {
			tracer().Infof("table (%s) checksum 0x%08x, directory says 0x%08x",
				tag, sum, entry.Checksum)
			return errChecksum(tag)
		}
	}
	return nil
}

// checksum sums ⌈length/4⌉ big-endian 32-bit words starting at offset,
// in wrapping 32-bit arithmetic. Bytes past the end of the blob count
// as zero, so a table ending unaligned is implicitly padded. The read
// position is restored on return.
func (f *Font) checksum(offset, length uint32) (uint32, error) {
	c := f.cursor
	restore, err := c.restoring(int(offset))
	if err != nil {
		return 0, err
	}
	defer restore()
	var sum uint32
	for i := uint32(0); i < (length+3)/4; i++ {
		sum += c.u32Padded()
	}
	return sum, nil
}

// --- head ------------------------------------------------------------------

func (f *Font) readHead() error {
	c := f.cursor
	if _, err := c.Seek(int(f.Directory[T("head")].Offset)); err != nil {
		return err
	}
	var err error
	h := &f.Head
	if h.Version, err = c.Fixed(); err != nil {
		return err
	}
	if h.FontRevision, err = c.Fixed(); err != nil {
		return err
	}
	if h.ChecksumAdjustment, err = c.U32(); err != nil {
		return err
	}
	if h.MagicNumber, err = c.U32(); err != nil {
		return err
	}
	if h.MagicNumber != 0x5F0F3CF5 {
		return errBadMagic(h.MagicNumber)
	}
	if h.Flags, err = c.U16(); err != nil {
		return err
	}
	if h.UnitsPerEm, err = c.U16(); err != nil {
		return err
	}
	if h.Created, err = c.LongDate(); err != nil {
		return err
	}
	if h.Modified, err = c.LongDate(); err != nil {
		return err
	}
	if h.XMin, err = c.I16(); err != nil {
		return err
	}
	if h.YMin, err = c.I16(); err != nil {
		return err
	}
	if h.XMax, err = c.I16(); err != nil {
		return err
	}
	if h.YMax, err = c.I16(); err != nil {
		return err
	}
	if h.MacStyle, err = c.U16(); err != nil {
		return err
	}
	if h.LowestRecPPEM, err = c.U16(); err != nil {
		return err
	}
	if h.FontDirectionHint, err = c.I16(); err != nil {
		return err
	}
	if h.IndexToLocFormat, err = c.I16(); err != nil {
		return err
	}
	h.GlyphDataFormat, err = c.I16()
	return err
}

// --- maxp ------------------------------------------------------------------

func (f *Font) readMaxp() error {
	c := f.cursor
	if _, err := c.Seek(int(f.Directory[T("maxp")].Offset)); err != nil {
		return err
	}
	var err error
	m := &f.Maxp
	if m.Version, err = c.Fixed(); err != nil {
		return err
	}
	if m.NumGlyphs, err = c.U16(); err != nil {
		return err
	}
	// 13 capacity fields, all uint16, in table order.
	for _, field := range []*uint16{
		&m.MaxPoints, &m.MaxContours, &m.MaxComponentPoints,
		&m.MaxComponentContours, &m.MaxZones, &m.MaxTwilightPoints,
		&m.MaxStorage, &m.MaxFunctionDefs, &m.MaxInstructionDefs,
		&m.MaxStackElements, &m.MaxSizeOfInstructions,
		&m.MaxComponentElements, &m.MaxComponentDepth,
	} {
		if *field, err = c.U16(); err != nil {
			return err
		}
	}
	return nil
}

// --- hhea ------------------------------------------------------------------

func (f *Font) readHhea() error {
	c := f.cursor
	if _, err := c.Seek(int(f.Directory[T("hhea")].Offset)); err != nil {
		return err
	}
	var err error
	h := &f.Hhea
	if h.Version, err = c.Fixed(); err != nil {
		return err
	}
	for _, field := range []*int16{
		&h.Ascent, &h.Descent, &h.LineGap,
	} {
		if *field, err = c.I16(); err != nil {
			return err
		}
	}
	if h.AdvanceWidthMax, err = c.U16(); err != nil {
		return err
	}
	for _, field := range []*int16{
		&h.MinLeftSideBearing, &h.MinRightSideBearing, &h.XMaxExtent,
		&h.CaretSlopeRise, &h.CaretSlopeRun, &h.CaretOffset,
	} {
		if *field, err = c.I16(); err != nil {
			return err
		}
	}
	for i := 0; i < 4; i++ { // reserved, read and discarded
		if _, err = c.I16(); err != nil {
			return err
		}
	}
	if h.MetricDataFormat, err = c.I16(); err != nil {
		return err
	}
	h.NumOfLongHorMetrics, err = c.U16()
	return err
}

// --- hmtx ------------------------------------------------------------------

// "In a monospaced font, only one entry is required but that entry may
// not be omitted", so numOfLongHorMetrics is at least 1, and glyphs past
// the hMetrics array contribute a bare left side bearing each.
func (f *Font) readHmtx() error {
	c := f.cursor
	if _, err := c.Seek(int(f.Directory[T("hmtx")].Offset)); err != nil {
		return err
	}
	var err error
	n := int(f.Hhea.NumOfLongHorMetrics)
	f.Hmtx.HMetrics = make([]LongHorMetric, n)
	for i := 0; i < n; i++ {
		if f.Hmtx.HMetrics[i].AdvanceWidth, err = c.U16(); err != nil {
			return err
		}
		if f.Hmtx.HMetrics[i].LeftSideBearing, err = c.I16(); err != nil {
			return err
		}
	}
	trailing := int(f.Maxp.NumGlyphs) - n
	f.Hmtx.LeftSideBearings = make([]int16, 0, max(trailing, 0))
	for i := 0; i < trailing; i++ {
		lsb, err := c.I16()
		if err != nil {
			return err
		}
		f.Hmtx.LeftSideBearings = append(f.Hmtx.LeftSideBearings, lsb)
	}
	return nil
}

// --- loca ------------------------------------------------------------------

// "The size of entries in the 'loca' table must be appropriate for the
// value of the indexToLocFormat field of the 'head' table. The number
// of entries must be the same as the numGlyphs field of the 'maxp'
// table", plus the trailing sentinel entry.
func (f *Font) readLoca() error {
	c := f.cursor
	if _, err := c.Seek(int(f.Directory[T("loca")].Offset)); err != nil {
		return err
	}
	count := int(f.Maxp.NumGlyphs) + 1
	f.Loca.Format = f.Head.IndexToLocFormat
	switch f.Head.IndexToLocFormat {
	case 0:
		f.Loca.shortOffsets = make([]uint16, count)
		for i := 0; i < count; i++ {
			half, err := c.U16()
			if err != nil {
				return err
			}
			f.Loca.shortOffsets[i] = half
		}
	case 1:
		f.Loca.longOffsets = make([]uint32, count)
		for i := 0; i < count; i++ {
			off, err := c.U32()
			if err != nil {
				return err
			}
			f.Loca.longOffsets[i] = off
		}
	default:
		return errLocaFormat(f.Head.IndexToLocFormat)
	}
	return nil
}

// --- name ------------------------------------------------------------------

func (f *Font) readName() error {
	c := f.cursor
	if _, err := c.Seek(int(f.Directory[T("name")].Offset)); err != nil {
		return err
	}
	var err error
	n := &f.Name
	if n.Format, err = c.U16(); err != nil {
		return err
	}
	if n.Count, err = c.U16(); err != nil {
		return err
	}
	if n.StringOffset, err = c.U16(); err != nil {
		return err
	}
	n.Records = make([]NameRecord, n.Count)
	for i := range n.Records {
		rec := &n.Records[i]
		for _, field := range []*uint16{
			&rec.PlatformID, &rec.PlatformSpecificID, &rec.LanguageID,
			&rec.NameID, &rec.Length, &rec.Offset,
		} {
			if *field, err = c.U16(); err != nil {
				return err
			}
		}
	}
	return nil
}

// NameString decodes the string payload of a name record on demand.
// Unicode and Microsoft platform strings are stored as UTF-16BE,
// Macintosh platform strings as MacRoman. The parse step itself never
// consumes string payloads.
func (f *Font) NameString(rec NameRecord) (string, error) {
	entry := f.Directory[T("name")]
	pos := int(entry.Offset) + int(f.Name.StringOffset) + int(rec.Offset)
	restore, err := f.cursor.restoring(pos)
	if err != nil {
		return "", err
	}
	defer restore()
	raw, err := f.cursor.Bytes(int(rec.Length))
	if err != nil {
		return "", err
	}
	var decoded []byte
	switch rec.PlatformID {
	case 1:
		decoded, err = charmap.Macintosh.NewDecoder().Bytes(raw)
	default:
		utf16be := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
		decoded, err = utf16be.NewDecoder().Bytes(raw)
	}
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
