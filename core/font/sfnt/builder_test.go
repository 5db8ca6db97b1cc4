package sfnt

// A small TrueType file, assembled byte by byte, for exercising the
// decoder without shipping binary test data. The builder computes the
// directory and the table checksums itself, so tests can corrupt
// single bytes afterwards and watch verification fail.

import "sort"

type bin []byte

func (b *bin) u8(v uint8)   { *b = append(*b, v) }
func (b *bin) u16(v uint16) { *b = append(*b, byte(v>>8), byte(v)) }
func (b *bin) i16(v int16)  { b.u16(uint16(v)) }
func (b *bin) u32(v uint32) {
	*b = append(*b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
func (b *bin) u64(v uint64) {
	b.u32(uint32(v >> 32))
	b.u32(uint32(v))
}
func (b *bin) raw(data ...byte) { *b = append(*b, data...) }

type fontBuilder struct {
	tables map[string][]byte
}

type tableRange struct {
	offset, length uint32
}

// newTestFont returns a builder preloaded with a consistent 3-glyph
// font: glyph 0 is a simple triangle, glyph 1 is empty, glyph 2 is a
// compound placing glyph 0 scaled by 0.5 at offset (10, -5).
func newTestFont() *fontBuilder {
	fb := &fontBuilder{tables: make(map[string][]byte)}
	fb.tables["head"] = testHead(0x5F0F3CF5, 0)
	fb.tables["maxp"] = testMaxp()
	fb.tables["hhea"] = testHhea()
	fb.tables["hmtx"] = testHmtx()
	fb.tables["loca"] = testLoca()
	fb.tables["glyf"] = testGlyf(0)
	fb.tables["cmap"] = testCmap(0, 6)
	fb.tables["name"] = testName()
	return fb
}

func testHead(magic uint32, indexToLocFormat int16) []byte {
	var b bin
	b.u32(0x00010000) // version 1.0
	b.u32(0x00010000) // fontRevision
	b.u32(0)          // checksumAdjustment
	b.u32(magic)
	b.u16(0)    // flags
	b.u16(2048) // unitsPerEm
	b.u64(3345148800)
	b.u64(3345148800)
	b.i16(0) // xmin
	b.i16(0) // ymin
	b.i16(500)
	b.i16(500)
	b.u16(0) // macStyle
	b.u16(8) // lowestRecPPEM
	b.i16(2) // fontDirectionHint
	b.i16(indexToLocFormat)
	b.i16(0) // glyphDataFormat
	return b
}

func testMaxp() []byte {
	var b bin
	b.u32(0x00010000)
	b.u16(3) // numGlyphs
	for _, v := range []uint16{
		4, 1, // maxPoints, maxContours
		4, 1, // maxComponentPoints, maxComponentContours
		2, 0, 0, 0, 0, 0, 0, // zones … maxSizeOfInstructions
		1, 1, // maxComponentElements, maxComponentDepth
	} {
		b.u16(v)
	}
	return b
}

func testHhea() []byte {
	var b bin
	b.u32(0x00010000)
	b.i16(800)  // ascent
	b.i16(-200) // descent
	b.i16(90)   // lineGap
	b.u16(600)  // advanceWidthMax
	b.i16(0)
	b.i16(0)
	b.i16(500) // xMaxExtent
	b.i16(1)   // caretSlopeRise
	b.i16(0)
	b.i16(0)
	for i := 0; i < 4; i++ { // reserved
		b.i16(0)
	}
	b.i16(0) // metricDataFormat
	b.u16(2) // numOfLongHorMetrics
	return b
}

func testHmtx() []byte {
	var b bin
	b.u16(600)
	b.i16(10)
	b.u16(400)
	b.i16(20)
	b.i16(30) // trailing lsb of glyph 2
	return b
}

// Half-offsets of the short 'loca': glyph 0 occupies bytes 0–23,
// glyph 1 is empty, glyph 2 occupies bytes 24–43.
func testLoca() []byte {
	var b bin
	for _, half := range []uint16{0, 12, 12, 22} {
		b.u16(half)
	}
	return b
}

// testGlyf emits the glyph store. The compound glyph references
// componentIndex, normally 0; pointing it at glyph 2 makes the
// compound reference itself.
func testGlyf(componentIndex uint16) []byte {
	var b bin
	// glyph 0: one contour, three points (0,0) (500,0) (250,500),
	// stored as deltas
	b.i16(1) // numberOfContours
	b.i16(0)
	b.i16(0)
	b.i16(500)
	b.i16(500)
	b.u16(2)    // endPtsOfContours
	b.u16(0)    // instructionLength
	b.raw(0x31) // on-curve, x and y repeat
	b.raw(0x21) // on-curve, y repeats
	b.raw(0x01) // on-curve
	b.i16(500)  // x delta of point 1
	b.i16(-250) // x delta of point 2
	b.i16(500)  // y delta of point 2
	b.raw(0)    // pad to 4
	// glyph 2: compound, one component, scale 0.5, offset (10,-5)
	b.i16(-1)
	b.i16(-115)
	b.i16(-5)
	b.i16(260)
	b.i16(245)
	b.u16(0x000A) // ARGS_ARE_XY_VALUES | WE_HAVE_A_SCALE
	b.u16(componentIndex)
	b.u8(10)
	b.u8(0xFB) // -5
	b.u16(0x2000) // F2Dot14 0.5
	b.raw(0, 0)   // pad to 4
	return b
}

// testCmap emits a cmap with one encoding record and a format-6
// subtable mapping 'A'→2, 'B'→0. platformID and format are
// parameters so tests can produce rejected values.
func testCmap(platformID uint16, format uint16) []byte {
	var b bin
	b.u16(0) // version
	b.u16(1) // one encoding record
	b.u16(platformID)
	b.u16(3)  // platform-specific id
	b.u32(12) // subtable offset
	b.u16(format)
	b.u16(14) // length
	b.u16(0)  // language
	b.u16(65) // firstCode
	b.u16(2)  // entryCount
	b.u16(2)
	b.u16(0)
	return b
}

func testName() []byte {
	var b bin
	b.u16(0)  // format
	b.u16(1)  // count
	b.u16(18) // stringOffset
	b.u16(0)  // platform: Unicode
	b.u16(4)  // platform-specific id
	b.u16(0)  // language
	b.u16(1)  // name id: font family
	b.u16(8)  // length
	b.u16(0)  // offset
	b.raw(0x00, 'l', 0x00, 'i', 0x00, 'p', 0x00, 'i')
	return b
}

func (fb *fontBuilder) set(tag string, data []byte) {
	fb.tables[tag] = data
}

func (fb *fontBuilder) remove(tag string) {
	delete(fb.tables, tag)
}

// build assembles the font file: offset subtable, directory sorted by
// tag, then the tables at 4-byte-aligned offsets. Checksums are
// computed over the assembled bytes. The returned ranges locate each
// table, for tests that corrupt regions.
func (fb *fontBuilder) build() ([]byte, map[string]tableRange) {
	tags := make([]string, 0, len(fb.tables))
	for tag := range fb.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	n := len(tags)
	searchRange, entrySelector := uint16(16), uint16(0)
	for searchRange*2 <= uint16(n)*16 {
		searchRange *= 2
		entrySelector++
	}
	var b bin
	b.u32(0x00010000) // scalar type
	b.u16(uint16(n))
	b.u16(searchRange)
	b.u16(entrySelector)
	b.u16(uint16(n)*16 - searchRange)
	dirStart := len(b)
	for range tags {
		b.raw(make([]byte, 16)...) // directory entry placeholder
	}
	ranges := make(map[string]tableRange)
	for _, tag := range tags {
		for len(b)%4 != 0 {
			b.u8(0)
		}
		ranges[tag] = tableRange{offset: uint32(len(b)), length: uint32(len(fb.tables[tag]))}
		b.raw(fb.tables[tag]...)
	}
	for len(b)%4 != 0 {
		b.u8(0)
	}
	for i, tag := range tags {
		r := ranges[tag]
		var entry bin
		entry.raw([]byte(tag)...)
		entry.u32(regionChecksum(b, r))
		entry.u32(r.offset)
		entry.u32(r.length)
		copy(b[dirStart+16*i:], entry)
	}
	return b, ranges
}

// regionChecksum mirrors the on-disk convention: big-endian 32-bit
// words over the zero-padded region, wrapping.
func regionChecksum(data []byte, r tableRange) uint32 {
	var sum uint32
	for i := uint32(0); i < (r.length+3)/4; i++ {
		var word uint32
		for j := uint32(0); j < 4; j++ {
			word <<= 8
			if pos := r.offset + 4*i + j; pos < uint32(len(data)) {
				word |= uint32(data[pos])
			}
		}
		sum += word
	}
	return sum
}
