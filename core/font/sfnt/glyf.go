package sfnt

import (
	"fmt"
	"math"
)

// Glyph outlines live in the 'glyf' table, located through the 'loca'
// table. A glyph is either simple, with contours given directly as flagged,
// delta-encoded points, or compound, composing other glyphs under
// 2×2-plus-translation affine transforms.
//
// See https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6glyf.html

// Flags of the per-point flag stream of a simple glyph.
const (
	flagOnCurve uint8 = 0x01
	flagXIsByte uint8 = 0x02
	flagYIsByte uint8 = 0x04
	flagRepeat  uint8 = 0x08
	flagXDelta  uint8 = 0x10 // sign bit if X is a byte, else "x repeats"
	flagYDelta  uint8 = 0x20 // sign bit if Y is a byte, else "y repeats"
)

// Flags of a compound glyph component entry.
const (
	flagArg1And2AreWords   uint16 = 0x0001
	flagArgsAreXYValues    uint16 = 0x0002
	flagRoundXYToGrid      uint16 = 0x0004
	flagWeHaveAScale       uint16 = 0x0008
	flagMoreComponents     uint16 = 0x0020
	flagWeHaveAnXAndYScale uint16 = 0x0040
	flagWeHaveATwoByTwo    uint16 = 0x0080
	flagWeHaveInstructions uint16 = 0x0100
	flagUseMyMetrics       uint16 = 0x0200
	flagOverlapCompound    uint16 = 0x0400
)

// Glyph is a decoded glyph outline. NumberOfContours is the header
// value: -1 marks a glyph that was composed from components; the
// composed point set is found in Data either way.
type Glyph struct {
	NumberOfContours int16
	XMin, YMin       int16
	XMax, YMax       int16
	Data             GlyphData
}

// GlyphData holds a glyph's point set. Flags, XCoordinates and
// YCoordinates run in parallel, one entry per point; coordinates are
// deltas, not accumulated absolute positions: the on-disk deltas for a
// simple glyph, and for a compound glyph each component's deltas
// mapped through the component's matrix. Instructions
// are TrueType bytecode, captured verbatim and never executed.
type GlyphData struct {
	EndPtsOfContours  []uint16
	InstructionLength uint16
	Instructions      []byte
	Flags             []uint8
	XCoordinates      []int16
	YCoordinates      []int16
}

// NumPoints returns the number of points of the glyph.
func (d *GlyphData) NumPoints() int {
	return len(d.Flags)
}

// Component describes one entry of a compound glyph: which glyph it
// references and how its points are placed. The matrix is
// (a, b, c, d, e, f) with x' = a·x + b·y + e and y' = c·x + d·y + f.
// When the component is anchored point-to-point instead of by
// translation, DestPointIndex/SrcPointIndex carry the anchor pair and
// the matrix translation stays zero.
type Component struct {
	GlyphIndex     uint16
	Matrix         [6]float64
	DestPointIndex int
	SrcPointIndex  int
	PointAnchored  bool
}

// Glyph decodes the outline of the glyph with the given index. A nil
// glyph with nil error denotes an empty glyph (zero byte length in
// 'glyf'), which is valid; errors denote malformed data. The call
// moves the font's read cursor.
func (f *Font) Glyph(index uint32) (*Glyph, error) {
	if index >= uint32(f.Maxp.NumGlyphs) {
		return nil, errGlyph(index, "glyph index out of range")
	}
	return f.decodeGlyph(index, 0)
}

// maxComponentDepth is the recursion limit for compound glyphs. Fonts
// with components declare their nesting depth in 'maxp'; a font that
// understates it is refused rather than looped on.
func (f *Font) maxComponentDepth() int {
	if f.Maxp.MaxComponentDepth < 1 {
		return 1
	}
	return int(f.Maxp.MaxComponentDepth)
}

func (f *Font) decodeGlyph(index uint32, depth int) (*Glyph, error) {
	glyf := f.Directory[T("glyf")]
	start := f.Loca.Offset(int(index))
	end := f.Loca.Offset(int(index) + 1)
	if start == end {
		return nil, nil // empty glyph, e.g. a space
	}
	if end < start {
		return nil, errGlyph(index, "loca entries out of order")
	}
	if start >= glyf.Length {
		return nil, nil // offset past the end of 'glyf'
	}
	c := f.cursor
	if _, err := c.Seek(int(glyf.Offset + start)); err != nil {
		return nil, err
	}
	g := &Glyph{}
	var err error
	if g.NumberOfContours, err = c.I16(); err != nil {
		return nil, err
	}
	if g.NumberOfContours < -1 {
		return nil, errGlyph(index, fmt.Sprintf("number of contours is %d", g.NumberOfContours))
	}
	for _, field := range []*int16{&g.XMin, &g.YMin, &g.XMax, &g.YMax} {
		if *field, err = c.I16(); err != nil {
			return nil, err
		}
	}
	if g.NumberOfContours == -1 {
		err = f.decodeCompound(g, index, depth)
	} else {
		err = f.decodeSimple(g, index)
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// --- Simple glyphs ---------------------------------------------------------

func (f *Font) decodeSimple(g *Glyph, index uint32) error {
	c := f.cursor
	var err error
	d := &g.Data
	d.EndPtsOfContours = make([]uint16, g.NumberOfContours)
	for i := range d.EndPtsOfContours {
		if d.EndPtsOfContours[i], err = c.U16(); err != nil {
			return err
		}
	}
	if d.InstructionLength, err = c.U16(); err != nil {
		return err
	}
	if d.Instructions, err = c.Bytes(int(d.InstructionLength)); err != nil {
		return err
	}
	numPoints := 0
	if n := len(d.EndPtsOfContours); n > 0 {
		numPoints = int(d.EndPtsOfContours[n-1]) + 1
	}
	if err = f.decodeFlags(d, numPoints, index); err != nil {
		return err
	}
	if d.XCoordinates, err = f.decodeCoordinates(d.Flags, flagXIsByte, flagXDelta); err != nil {
		return err
	}
	d.YCoordinates, err = f.decodeCoordinates(d.Flags, flagYIsByte, flagYDelta)
	return err
}

// decodeFlags expands the run-length-encoded flag stream to one flag
// byte per point. A flag with the repeat bit set is followed by a
// repeat count and stands for count+1 points.
func (f *Font) decodeFlags(d *GlyphData, numPoints int, index uint32) error {
	c := f.cursor
	d.Flags = make([]uint8, 0, numPoints)
	for len(d.Flags) < numPoints {
		flag, err := c.U8()
		if err != nil {
			return err
		}
		d.Flags = append(d.Flags, flag)
		if flag&flagRepeat != 0 {
			count, err := c.U8()
			if err != nil {
				return err
			}
			if count == 0 {
				return errGlyph(index, "flag repeat count is zero")
			}
			for i := 0; i < int(count); i++ {
				d.Flags = append(d.Flags, flag)
			}
		}
	}
	if len(d.Flags) > numPoints {
		return errGlyph(index, "flag run overshoots point count")
	}
	return nil
}

// decodeCoordinates reads one delta per point. A point's delta is a
// single byte (sign taken from the delta flag), a full int16 (delta
// flag clear), or zero meaning "same coordinate as the previous point"
// (delta flag set, byte flag clear).
func (f *Font) decodeCoordinates(flags []uint8, isByte, deltaSign uint8) ([]int16, error) {
	c := f.cursor
	coords := make([]int16, len(flags))
	for i, flag := range flags {
		switch {
		case flag&isByte != 0:
			b, err := c.U8()
			if err != nil {
				return nil, err
			}
			if flag&deltaSign != 0 {
				coords[i] = int16(b)
			} else {
				coords[i] = -int16(b)
			}
		case flag&deltaSign == 0:
			delta, err := c.I16()
			if err != nil {
				return nil, err
			}
			coords[i] = delta
		default:
			coords[i] = 0 // coordinate repeats
		}
	}
	return coords, nil
}

// --- Compound glyphs -------------------------------------------------------

// decodeCompound iterates the component entries and recursively decodes
// each referenced glyph, appending its contours transformed by the
// component's affine matrix. Both transform axes are computed from the
// component's original coordinates.
func (f *Font) decodeCompound(g *Glyph, index uint32, depth int) error {
	c := f.cursor
	var flags uint16
	for more := true; more; more = flags&flagMoreComponents != 0 {
		comp, err := f.readComponent(index)
		if err != nil {
			return err
		}
		flags = comp.flags
		if uint32(comp.GlyphIndex) >= uint32(f.Maxp.NumGlyphs) {
			return errGlyph(index, fmt.Sprintf("component references glyph %d", comp.GlyphIndex))
		}
		if depth+1 > f.maxComponentDepth() {
			return errGlyph(index, "component nesting exceeds maxp.maxComponentDepth")
		}
		pos := c.Pos()
		child, err := f.decodeGlyph(uint32(comp.GlyphIndex), depth+1)
		if err != nil {
			return errGlyphWrap(index, fmt.Sprintf("component glyph %d", comp.GlyphIndex), err)
		}
		if _, err := c.Seek(pos); err != nil {
			return err
		}
		if child != nil {
			appendTransformed(&g.Data, &child.Data, comp.Matrix)
		}
	}
	if flags&flagWeHaveInstructions != 0 {
		var err error
		if g.Data.InstructionLength, err = c.U16(); err != nil {
			return err
		}
		if g.Data.Instructions, err = c.Bytes(int(g.Data.InstructionLength)); err != nil {
			return err
		}
	}
	return nil
}

// component is a Component plus the raw entry flags, which drive the
// loop and the trailing instruction block.
type component struct {
	Component
	flags uint16
}

func (f *Font) readComponent(index uint32) (*component, error) {
	c := f.cursor
	comp := &component{}
	var err error
	if comp.flags, err = c.U16(); err != nil {
		return nil, err
	}
	if comp.GlyphIndex, err = c.U16(); err != nil {
		return nil, err
	}
	var arg1, arg2 int
	if comp.flags&flagArg1And2AreWords != 0 {
		w1, err := c.I16()
		if err != nil {
			return nil, err
		}
		w2, err := c.I16()
		if err != nil {
			return nil, err
		}
		arg1, arg2 = int(w1), int(w2)
	} else {
		b1, err := c.U8()
		if err != nil {
			return nil, err
		}
		b2, err := c.U8()
		if err != nil {
			return nil, err
		}
		if comp.flags&flagArgsAreXYValues != 0 {
			// offsets are signed bytes, anchor indices are not
			arg1, arg2 = int(int8(b1)), int(int8(b2))
		} else {
			arg1, arg2 = int(b1), int(b2)
		}
	}
	comp.Matrix = [6]float64{1, 0, 0, 1, 0, 0}
	if comp.flags&flagArgsAreXYValues != 0 {
		comp.Matrix[4] = float64(arg1) // e
		comp.Matrix[5] = float64(arg2) // f
	} else {
		comp.PointAnchored = true
		comp.DestPointIndex = arg1
		comp.SrcPointIndex = arg2
	}
	switch {
	case comp.flags&flagWeHaveAScale != 0:
		s, err := c.F2Dot14()
		if err != nil {
			return nil, err
		}
		comp.Matrix[0], comp.Matrix[3] = s, s
	case comp.flags&flagWeHaveAnXAndYScale != 0:
		if comp.Matrix[0], err = c.F2Dot14(); err != nil {
			return nil, err
		}
		if comp.Matrix[3], err = c.F2Dot14(); err != nil {
			return nil, err
		}
	case comp.flags&flagWeHaveATwoByTwo != 0:
		for i := 0; i < 4; i++ {
			if comp.Matrix[i], err = c.F2Dot14(); err != nil {
				return nil, err
			}
		}
	}
	return comp, nil
}

// appendTransformed merges a component's point set into the compound
// glyph: contour end points are shifted by the points already present,
// and each point is mapped through the affine matrix.
func appendTransformed(dst, src *GlyphData, m [6]float64) {
	shift := uint16(len(dst.Flags))
	for _, endPt := range src.EndPtsOfContours {
		dst.EndPtsOfContours = append(dst.EndPtsOfContours, endPt+shift)
	}
	a, b, cc, d, e, ff := m[0], m[1], m[2], m[3], m[4], m[5]
	for i := range src.Flags {
		x := float64(src.XCoordinates[i])
		y := float64(src.YCoordinates[i])
		dst.XCoordinates = append(dst.XCoordinates, int16(math.Round(a*x+b*y+e)))
		dst.YCoordinates = append(dst.YCoordinates, int16(math.Round(cc*x+d*y+ff)))
		dst.Flags = append(dst.Flags, src.Flags[i])
	}
}
