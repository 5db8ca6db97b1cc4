package sfnt

// The 'cmap' table defines the mapping of character codes to glyph
// indices. Different subtables may be present for different character
// encoding schemes; each subtable comes in one of several on-disk
// formats, discriminated by a leading uint16.
//
// See https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6cmap.html

// CmapPlatform identifies the platform of an encoding record.
type CmapPlatform uint16

// Platform ids of cmap encoding records. Id 2 is reserved and rejected
// during parsing, as are ids above 3.
const (
	PlatformUnicode   CmapPlatform = 0
	PlatformMacintosh CmapPlatform = 1
	PlatformMicrosoft CmapPlatform = 3
)

func (p CmapPlatform) String() string {
	switch p {
	case PlatformUnicode:
		return "Unicode"
	case PlatformMacintosh:
		return "Macintosh"
	case PlatformMicrosoft:
		return "Microsoft"
	}
	return "Unknown"
}

// CmapIndex is the header of the 'cmap' table.
type CmapIndex struct {
	Version       uint16 // set to 0
	SubtableCount uint16
}

// CmapEncoding announces one encoding subtable, located at Offset from
// the beginning of the 'cmap' table.
type CmapEncoding struct {
	PlatformID         CmapPlatform
	PlatformSpecificID uint16
	Offset             uint32
}

// CmapSubtable is the variant type over the decoded subtable shapes.
// Exactly one concrete shape is stored per font; clients switch on the
// concrete type or on Format().
type CmapSubtable interface {
	Format() uint16
}

// CmapFormat0 is the byte encoding table: a flat map of the 256
// single-byte character codes to glyph indices.
type CmapFormat0 struct {
	Length          uint16 // 262 for format 0
	Language        uint16
	GlyphIndexArray [256]uint8
}

// Format returns the subtable's format discriminator.
func (t *CmapFormat0) Format() uint16 { return 0 }

// CmapFormat2 is the high-byte mapping table for CJK encodings. Only
// the sub-header keys are decoded; the sub-headers and glyph index
// array beyond the keys are not interpreted.
type CmapFormat2 struct {
	Length        uint16
	Language      uint16
	SubHeaderKeys [256]uint16 // value is subHeader index * 8
}

// Format returns the subtable's format discriminator.
func (t *CmapFormat2) Format() uint16 { return 2 }

// CmapSegment is one segment of a format-4 subtable, covering the
// contiguous character range StartCode … EndCode.
type CmapSegment struct {
	EndCode       uint16 // last segment has EndCode 0xFFFF
	StartCode     uint16
	IDDelta       uint16
	IDRangeOffset uint16 // byte offset into the glyph index array, or 0
}

// CmapFormat4 is the segment mapping table, the standard format for
// fonts covering the Unicode Basic Multilingual Plane. The four
// on-disk parallel arrays are folded into one segment list.
type CmapFormat4 struct {
	Length        uint16
	Language      uint16
	SegCountX2    uint16 // 2 * segCount
	SearchRange   uint16 // 2 * (2**floor(log2(segCount)))
	EntrySelector uint16 // log2(searchRange/2)
	RangeShift    uint16 // 2*segCount - searchRange
	Segments      []CmapSegment
}

// Format returns the subtable's format discriminator.
func (t *CmapFormat4) Format() uint16 { return 4 }

// CmapFormat6 is the trimmed table mapping for a single dense range of
// character codes.
type CmapFormat6 struct {
	Length          uint16
	Language        uint16
	FirstCode       uint16
	EntryCount      uint16
	GlyphIndexArray []uint16
}

// Format returns the subtable's format discriminator.
func (t *CmapFormat6) Format() uint16 { return 6 }

// CmapGroup is a contiguous range of character codes mapped to a
// contiguous range of glyph indices, as used by formats 8 and 12.
type CmapGroup struct {
	StartCharCode  uint32
	EndCharCode    uint32
	StartGlyphCode uint32
}

// CmapFormat8 is the mixed 16/32-bit coverage table. Is32 is a packed
// bit array telling whether a 16-bit value is the start of a 32-bit
// character code.
type CmapFormat8 struct {
	Length   uint32
	Language uint32
	Is32     [8192]uint8
	Groups   []CmapGroup
}

// Format returns the subtable's format discriminator.
func (t *CmapFormat8) Format() uint16 { return 8 }

// CmapFormat10 is the trimmed array for a single dense range of 32-bit
// character codes.
type CmapFormat10 struct {
	Length          uint32
	Language        uint32
	StartCharCode   uint32
	NumChars        uint32
	GlyphIndexArray []uint16
}

// Format returns the subtable's format discriminator.
func (t *CmapFormat10) Format() uint16 { return 10 }

// CmapFormat12 is the segmented coverage table for the full Unicode
// repertoire.
type CmapFormat12 struct {
	Length   uint32
	Language uint32
	Groups   []CmapGroup
}

// Format returns the subtable's format discriminator.
func (t *CmapFormat12) Format() uint16 { return 12 }

// Cmap is the decoded 'cmap' table: the index header, all encoding
// records, and one decoded subtable.
type Cmap struct {
	Index     CmapIndex
	Encodings []CmapEncoding
	Subtable  CmapSubtable
}

// readCmap decodes the 'cmap' table. All encoding records are read;
// then one of them is selected (the first Unicode record, else the
// first Microsoft record, else the first record) and its subtable is
// decoded by seeking to the record's declared offset. Fonts routinely
// store subtables out of record order, so stream position after the
// record list means nothing.
func (f *Font) readCmap() error {
	c := f.cursor
	entry := f.Directory[T("cmap")]
	if _, err := c.Seek(int(entry.Offset)); err != nil {
		return err
	}
	var err error
	cm := &f.Cmap
	if cm.Index.Version, err = c.U16(); err != nil {
		return err
	}
	if cm.Index.SubtableCount, err = c.U16(); err != nil {
		return err
	}
	cm.Encodings = make([]CmapEncoding, 0, cm.Index.SubtableCount)
	for i := 0; i < int(cm.Index.SubtableCount); i++ {
		pid, err := c.U16()
		if err != nil {
			return err
		}
		switch pid {
		case 0, 1, 3:
			// fallthrough to record below
		case 2:
			tracer().Infof("cmap platform id 2 is reserved")
			return errCmapPlatform(pid)
		default:
			tracer().Infof("cmap platform id %d is not valid", pid)
			return errCmapPlatform(pid)
		}
		enc := CmapEncoding{PlatformID: CmapPlatform(pid)}
		if enc.PlatformSpecificID, err = c.U16(); err != nil {
			return err
		}
		if enc.Offset, err = c.U32(); err != nil {
			return err
		}
		cm.Encodings = append(cm.Encodings, enc)
	}
	if len(cm.Encodings) == 0 {
		return errEOF()
	}
	enc := selectEncoding(cm.Encodings)
	if _, err := c.Seek(int(entry.Offset + enc.Offset)); err != nil {
		return err
	}
	format, err := c.U16()
	if err != nil {
		return err
	}
	tracer().Debugf("cmap subtable for %s platform has format %d",
		enc.PlatformID, format)
	cm.Subtable, err = f.readCmapSubtable(format)
	return err
}

// selectEncoding picks the encoding record whose subtable gets decoded.
// Unicode records win over Microsoft records, which win over anything
// else; ties go to record order.
func selectEncoding(encodings []CmapEncoding) CmapEncoding {
	for _, enc := range encodings {
		if enc.PlatformID == PlatformUnicode {
			return enc
		}
	}
	for _, enc := range encodings {
		if enc.PlatformID == PlatformMicrosoft {
			return enc
		}
	}
	return encodings[0]
}

// readCmapSubtable dispatches on the format discriminator, which the
// cursor has just consumed.
func (f *Font) readCmapSubtable(format uint16) (CmapSubtable, error) {
	switch format {
	case 0:
		return f.readCmapFormat0()
	case 2:
		return f.readCmapFormat2()
	case 4:
		return f.readCmapFormat4()
	case 6:
		return f.readCmapFormat6()
	case 8:
		return f.readCmapFormat8()
	case 10:
		return f.readCmapFormat10()
	case 12:
		return f.readCmapFormat12()
	}
	return nil, errCmapFormat(format)
}

func (f *Font) readCmapFormat0() (*CmapFormat0, error) {
	c := f.cursor
	t := &CmapFormat0{}
	var err error
	if t.Length, err = c.U16(); err != nil {
		return nil, err
	}
	if t.Language, err = c.U16(); err != nil {
		return nil, err
	}
	for i := range t.GlyphIndexArray {
		if t.GlyphIndexArray[i], err = c.U8(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (f *Font) readCmapFormat2() (*CmapFormat2, error) {
	c := f.cursor
	t := &CmapFormat2{}
	var err error
	if t.Length, err = c.U16(); err != nil {
		return nil, err
	}
	if t.Language, err = c.U16(); err != nil {
		return nil, err
	}
	for i := range t.SubHeaderKeys {
		if t.SubHeaderKeys[i], err = c.U16(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (f *Font) readCmapFormat4() (*CmapFormat4, error) {
	c := f.cursor
	t := &CmapFormat4{}
	var err error
	for _, field := range []*uint16{
		&t.Length, &t.Language, &t.SegCountX2,
		&t.SearchRange, &t.EntrySelector, &t.RangeShift,
	} {
		if *field, err = c.U16(); err != nil {
			return nil, err
		}
	}
	segCount := int(t.SegCountX2 / 2)
	t.Segments = make([]CmapSegment, segCount)
	for i := 0; i < segCount; i++ {
		if t.Segments[i].EndCode, err = c.U16(); err != nil {
			return nil, err
		}
	}
	if _, err = c.U16(); err != nil { // reservedPad
		return nil, err
	}
	for i := 0; i < segCount; i++ {
		if t.Segments[i].StartCode, err = c.U16(); err != nil {
			return nil, err
		}
	}
	for i := 0; i < segCount; i++ {
		if t.Segments[i].IDDelta, err = c.U16(); err != nil {
			return nil, err
		}
	}
	for i := 0; i < segCount; i++ {
		if t.Segments[i].IDRangeOffset, err = c.U16(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (f *Font) readCmapFormat6() (*CmapFormat6, error) {
	c := f.cursor
	t := &CmapFormat6{}
	var err error
	for _, field := range []*uint16{
		&t.Length, &t.Language, &t.FirstCode, &t.EntryCount,
	} {
		if *field, err = c.U16(); err != nil {
			return nil, err
		}
	}
	t.GlyphIndexArray = make([]uint16, t.EntryCount)
	for i := range t.GlyphIndexArray {
		if t.GlyphIndexArray[i], err = c.U16(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Formats 8, 10 and 12 carry their format as a 32-bit fixed-point
// value; the dispatcher consumed the major half, so the decoders skip
// the minor half before reading the table proper.

func (f *Font) readCmapFormat8() (*CmapFormat8, error) {
	c := f.cursor
	t := &CmapFormat8{}
	if _, err := c.U16(); err != nil { // minor half of format field
		return nil, err
	}
	var err error
	if t.Length, err = c.U32(); err != nil {
		return nil, err
	}
	if t.Language, err = c.U32(); err != nil {
		return nil, err
	}
	packed, err := c.Bytes(len(t.Is32))
	if err != nil {
		return nil, err
	}
	copy(t.Is32[:], packed)
	nGroups, err := c.U32()
	if err != nil {
		return nil, err
	}
	if t.Groups, err = f.readCmapGroups(nGroups); err != nil {
		return nil, err
	}
	return t, nil
}

func (f *Font) readCmapFormat10() (*CmapFormat10, error) {
	c := f.cursor
	t := &CmapFormat10{}
	if _, err := c.U16(); err != nil { // minor half of format field
		return nil, err
	}
	var err error
	for _, field := range []*uint32{
		&t.Length, &t.Language, &t.StartCharCode, &t.NumChars,
	} {
		if *field, err = c.U32(); err != nil {
			return nil, err
		}
	}
	if t.Length < 20 { // header is 5 times 4 bytes
		return nil, errEOF()
	}
	t.GlyphIndexArray = make([]uint16, (t.Length-20)/2)
	for i := range t.GlyphIndexArray {
		if t.GlyphIndexArray[i], err = c.U16(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (f *Font) readCmapFormat12() (*CmapFormat12, error) {
	c := f.cursor
	t := &CmapFormat12{}
	if _, err := c.U16(); err != nil { // minor half of format field
		return nil, err
	}
	var err error
	if t.Length, err = c.U32(); err != nil {
		return nil, err
	}
	if t.Language, err = c.U32(); err != nil {
		return nil, err
	}
	nGroups, err := c.U32()
	if err != nil {
		return nil, err
	}
	if t.Groups, err = f.readCmapGroups(nGroups); err != nil {
		return nil, err
	}
	return t, nil
}

func (f *Font) readCmapGroups(n uint32) ([]CmapGroup, error) {
	c := f.cursor
	groups := make([]CmapGroup, 0, n)
	for i := uint32(0); i < n; i++ {
		var g CmapGroup
		var err error
		if g.StartCharCode, err = c.U32(); err != nil {
			return nil, err
		}
		if g.EndCharCode, err = c.U32(); err != nil {
			return nil, err
		}
		if g.StartGlyphCode, err = c.U32(); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}
