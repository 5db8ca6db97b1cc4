package sfnt

// --- Tag -------------------------------------------------------------------

// Tag is a four-byte identifier as used for tables of a font, e.g.
// "head" or "glyf". The four bytes are kept verbatim, even if outside
// printable ASCII.
type Tag uint32

// MakeTag creates a Tag from 4 bytes.
// If b is shorter or longer, it will be silently extended or cut as
// appropriate.
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as
// appropriate.
func T(t string) Tag {
	if len(t) > 4 {
		t = t[:4]
	}
	t = "    "[:4-len(t)] + t
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Font header -----------------------------------------------------------

// OffsetSubtable is the header at byte 0 of an sfnt file. The scaler
// type is recorded but not interpreted; both 0x00010000 and 'true' are
// seen in TrueType files in the wild.
type OffsetSubtable struct {
	ScalarType    uint32
	NumTables     uint16
	SearchRange   uint16 // (maximum power of 2 <= numTables) * 16
	EntrySelector uint16 // log2(maximum power of 2 <= numTables)
	RangeShift    uint16 // numTables*16 - searchRange
}

// DirectoryEntry is one record of the table directory, locating a table
// within the font file.
type DirectoryEntry struct {
	Checksum uint32
	Offset   uint32 // from the beginning of the file
	Length   uint32 // actual length, not padded length
}

// --- Table records ---------------------------------------------------------

// Head gives global information about the font. unitsPerEm ranges from
// 64 to 16384; indexToLocFormat decides how the 'loca' table is to be
// read.
type Head struct {
	Version            float64
	FontRevision       float64
	ChecksumAdjustment uint32
	MagicNumber        uint32 // always 0x5F0F3CF5
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64 // Unix seconds
	Modified           int64 // Unix seconds
	XMin, YMin         int16 // for all glyph bounding boxes
	XMax, YMax         int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16 // one of -2, -1, 0, 1, 2
	IndexToLocFormat   int16 // 0 for short offsets, 1 for long
	GlyphDataFormat    int16 // 0 for current format
}

// Maxp establishes the memory requirements for the font. NumGlyphs is
// the authoritative glyph count; the remaining fields are capacity
// limits declared by the font producer.
type Maxp struct {
	Version               float64
	NumGlyphs             uint16
	MaxPoints             uint16 // points in non-compound glyph
	MaxContours           uint16 // contours in non-compound glyph
	MaxComponentPoints    uint16 // points in compound glyph
	MaxComponentContours  uint16 // contours in compound glyph
	MaxZones              uint16 // set to 2
	MaxTwilightPoints     uint16 // points used in Twilight Zone (Z0)
	MaxStorage            uint16 // number of Storage Area locations
	MaxFunctionDefs       uint16 // number of FDEFs
	MaxInstructionDefs    uint16 // number of IDEFs
	MaxStackElements      uint16 // maximum stack depth
	MaxSizeOfInstructions uint16 // byte count of the largest instruction stream
	MaxComponentElements  uint16 // glyphs referenced at top level
	MaxComponentDepth     uint16 // levels of recursion; 0 for simple-only fonts
}

// Hhea contains information for horizontal layout. Four reserved
// fields between caretOffset and metricDataFormat are consumed and
// discarded during parsing.
type Hhea struct {
	Version             float64
	Ascent              int16
	Descent             int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16 // max(lsb + (xMax-xMin))
	CaretSlopeRise      int16 // 1 for vertical caret
	CaretSlopeRun       int16 // 0 for vertical
	CaretOffset         int16
	MetricDataFormat    int16 // 0 for current format
	NumOfLongHorMetrics uint16
}

// LongHorMetric is one full horizontal metrics entry of the 'hmtx'
// table.
type LongHorMetric struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

// Hmtx carries per-glyph horizontal metrics. Glyphs beyond the
// HMetrics array share the advance width of the last entry and take
// their left side bearing from LeftSideBearings; together both arrays
// cover all glyphs of the font.
type Hmtx struct {
	HMetrics         []LongHorMetric
	LeftSideBearings []int16
}

// Metric returns the advance width and left side bearing of a glyph.
func (h *Hmtx) Metric(gid uint16) (advance uint16, lsb int16) {
	if int(gid) < len(h.HMetrics) {
		m := h.HMetrics[gid]
		return m.AdvanceWidth, m.LeftSideBearing
	}
	advance = h.HMetrics[len(h.HMetrics)-1].AdvanceWidth
	if i := int(gid) - len(h.HMetrics); i < len(h.LeftSideBearings) {
		lsb = h.LeftSideBearings[i]
	}
	return advance, lsb
}

// Loca maps a glyph index to a byte offset inside the 'glyf' table.
// It is a tagged variant over the two on-disk layouts: 16-bit
// half-offsets (format 0) or 32-bit offsets (format 1). By definition
// the table has one entry more than the font has glyphs; the final
// entry is a sentinel delimiting the last glyph.
type Loca struct {
	Format       int16 // head.indexToLocFormat: 0 short, 1 long
	shortOffsets []uint16
	longOffsets  []uint32
}

// Count returns the number of entries, glyph count + 1.
func (l *Loca) Count() int {
	if l.Format == 0 {
		return len(l.shortOffsets)
	}
	return len(l.longOffsets)
}

// Offset returns entry i as a byte offset into 'glyf'. Short entries
// store half-offsets and are doubled here.
func (l *Loca) Offset(i int) uint32 {
	if l.Format == 0 {
		return uint32(l.shortOffsets[i]) * 2
	}
	return l.longOffsets[i]
}

// NameRecord locates one string of the 'name' table.
type NameRecord struct {
	PlatformID         uint16
	PlatformSpecificID uint16
	LanguageID         uint16
	NameID             uint16
	Length             uint16 // string length in bytes
	Offset             uint16 // from the start of the string storage
}

// Name is the naming table. Parsing stops at the record list; the
// string payloads stay in the font blob and are decoded on demand with
// Font.NameString.
type Name struct {
	Format       uint16
	Count        uint16
	StringOffset uint16 // from the start of the table to the string storage
	Records      []NameRecord
}

// --- Font ------------------------------------------------------------------

// Font is a decoded TrueType font. All tables are parsed eagerly during
// Parse/Open; glyph outlines are decoded on demand through Glyph.
//
// A Font owns its cursor, whose position is mutated by Glyph calls, so
// a single Font must not be used concurrently.
type Font struct {
	cursor         *Cursor
	OffsetSubtable OffsetSubtable
	Directory      map[Tag]DirectoryEntry
	Head           Head
	Maxp           Maxp
	Cmap           Cmap
	Hhea           Hhea
	Hmtx           Hmtx
	Loca           Loca
	Name           Name
}

// TableTags returns the tags of all tables listed in the font's
// directory, decoded or not.
func (f *Font) TableTags() []Tag {
	tags := make([]Tag, 0, len(f.Directory))
	for tag := range f.Directory {
		tags = append(tags, tag)
	}
	return tags
}

// NumGlyphs returns the glyph count declared in 'maxp'.
func (f *Font) NumGlyphs() int {
	return int(f.Maxp.NumGlyphs)
}
