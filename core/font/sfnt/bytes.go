package sfnt

// Reading bytes from a font's binary representation. A cursor owns the
// complete font blob and a read position; all multi-byte reads are
// big-endian, as mandated by the sfnt container format.

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// secondsBetweenHFSAndUnixEpoch is the distance from 1904-01-01 00:00 UTC
// (the epoch of 'head' dates) to 1970-01-01 00:00 UTC.
const secondsBetweenHFSAndUnixEpoch = 2082844800

// Cursor is a sequential big-endian reader over a font's binary data.
// It owns the complete blob and a read position; every read advances the
// position and fails with UnexpectedEndOfFile when the remaining buffer
// is too short.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor wraps a font blob. The blob is shared, not copied, and must
// stay valid and unmodified for the lifetime of the cursor.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the size of the underlying blob in bytes.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Pos returns the current read position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Seek sets the read position to an absolute offset and returns the
// previous position, enabling the save/restore idiom used throughout the
// decoder. Positions 0 … Len() are valid; seeking to Len() exactly is
// permitted so that callers may position to a region they will never
// read past.
func (c *Cursor) Seek(pos int) (int, error) {
	if pos < 0 || pos > len(c.data) {
		return c.pos, errEOF()
	}
	old := c.pos
	c.pos = pos
	return old, nil
}

// restoring seeks to pos and returns a closure which restores the
// previous read position. The closure is meant to be deferred, so the
// position is restored on every exit path, error returns included.
func (c *Cursor) restoring(pos int) (func(), error) {
	old, err := c.Seek(pos)
	if err != nil {
		return nil, err
	}
	return func() { c.pos = old }, nil
}

// U8 reads one byte.
func (c *Cursor) U8() (uint8, error) {
	if c.pos+1 > len(c.data) {
		return 0, errEOF()
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// U16 reads a big-endian unsigned 16-bit value.
func (c *Cursor) U16() (uint16, error) {
	if c.pos+2 > len(c.data) {
		return 0, errEOF()
	}
	n := u16(c.data[c.pos:])
	c.pos += 2
	return n, nil
}

// U32 reads a big-endian unsigned 32-bit value.
func (c *Cursor) U32() (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, errEOF()
	}
	n := u32(c.data[c.pos:])
	c.pos += 4
	return n, nil
}

// I16 reads a big-endian signed 16-bit value (two's complement).
func (c *Cursor) I16() (int16, error) {
	n, err := c.U16()
	return int16(n), err
}

// I32 reads a big-endian signed 32-bit value (two's complement).
func (c *Cursor) I32() (int32, error) {
	n, err := c.U32()
	return int32(n), err
}

// Fixed reads a signed 16.16 fixed-point value as a float64.
func (c *Cursor) Fixed() (float64, error) {
	n, err := c.I32()
	return float64(n) / 65536, err
}

// F2Dot14 reads a signed 2.14 fixed-point value as a float64.
func (c *Cursor) F2Dot14() (float64, error) {
	n, err := c.I16()
	return float64(n) / 16384, err
}

// Tag reads a four-byte table tag. The bytes are preserved verbatim,
// printable ASCII or not.
func (c *Cursor) Tag() (Tag, error) {
	if c.pos+4 > len(c.data) {
		return 0, errEOF()
	}
	t := MakeTag(c.data[c.pos : c.pos+4])
	c.pos += 4
	return t, nil
}

// Bytes reads n raw bytes. The slice returned is a view into the
// cursor's blob and must be treated as read-only.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, errEOF()
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// LongDate reads a 'head'-table date: a big-endian 64-bit count of
// seconds since 1904-01-01 00:00 UTC, converted to Unix seconds.
func (c *Cursor) LongDate() (int64, error) {
	hi, err := c.U32()
	if err != nil {
		return 0, err
	}
	lo, err := c.U32()
	if err != nil {
		return 0, err
	}
	return int64(uint64(hi)<<32|uint64(lo)) - secondsBetweenHFSAndUnixEpoch, nil
}

// u32Padded reads a big-endian 32-bit word for checksumming. Bytes past
// the end of the blob count as zero, so the final word of a table region
// is implicitly padded; the read never fails.
func (c *Cursor) u32Padded() uint32 {
	var n uint32
	for i := 0; i < 4; i++ {
		n <<= 8
		if c.pos < len(c.data) {
			n |= uint32(c.data[c.pos])
		}
		c.pos++
	}
	if c.pos > len(c.data) {
		c.pos = len(c.data)
	}
	return n
}
