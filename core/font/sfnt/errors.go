package sfnt

import (
	"fmt"

	"github.com/hellozee/lipi/core"
)

// ErrorKind discriminates the failure modes of the decoder. Every error
// returned from Parse, Open and Font.Glyph carries exactly one kind.
type ErrorKind int

// Decoder failure modes.
const (
	IoFailure               ErrorKind = iota // the underlying file could not be read
	UnexpectedEndOfFile                      // cursor reached end of buffer mid-read
	BadMagic                                 // head.magicNumber is off
	ChecksumMismatch                         // a non-'head' table fails checksum verification
	MissingTable                             // a required table is absent from the directory
	UnsupportedCmapFormat                    // cmap format not one of {0,2,4,6,8,10,12}
	UnsupportedCmapPlatform                  // encoding platform id is 2 (reserved) or > 3
	UnsupportedLocaFormat                    // head.indexToLocFormat outside {0,1}
	MalformedGlyph                           // glyph data violates the glyf grammar
)

func (k ErrorKind) String() string {
	switch k {
	case IoFailure:
		return "IoFailure"
	case UnexpectedEndOfFile:
		return "UnexpectedEndOfFile"
	case BadMagic:
		return "BadMagic"
	case ChecksumMismatch:
		return "ChecksumMismatch"
	case MissingTable:
		return "MissingTable"
	case UnsupportedCmapFormat:
		return "UnsupportedCmapFormat"
	case UnsupportedCmapPlatform:
		return "UnsupportedCmapPlatform"
	case UnsupportedLocaFormat:
		return "UnsupportedLocaFormat"
	case MalformedGlyph:
		return "MalformedGlyph"
	}
	return "UnknownError"
}

// Error is the structured error type of the decoder. Clients match on
// it with errors.As and switch on Kind; the auxiliary fields are filled
// depending on the kind (Table for ChecksumMismatch and MissingTable,
// Value for the unsupported format/platform kinds, GlyphIndex and
// Detail for MalformedGlyph).
type Error struct {
	Kind       ErrorKind
	Table      Tag    // offending table, if any
	Value      int    // offending format/platform discriminator, if any
	GlyphIndex uint32 // offending glyph, for MalformedGlyph
	Detail     string
	wrapped    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case IoFailure:
		return fmt.Sprintf("sfnt: cannot read font: %v", e.wrapped)
	case UnexpectedEndOfFile:
		return "sfnt: unexpected end of file"
	case BadMagic:
		return fmt.Sprintf("sfnt: bad magic number 0x%08x in head table", e.Value)
	case ChecksumMismatch:
		return fmt.Sprintf("sfnt: checksum mismatch for table (%s)", e.Table)
	case MissingTable:
		return fmt.Sprintf("sfnt: required table (%s) missing", e.Table)
	case UnsupportedCmapFormat:
		return fmt.Sprintf("sfnt: cmap subtable format %d not supported", e.Value)
	case UnsupportedCmapPlatform:
		return fmt.Sprintf("sfnt: cmap platform id %d not supported", e.Value)
	case UnsupportedLocaFormat:
		return fmt.Sprintf("sfnt: loca format %d not supported", e.Value)
	case MalformedGlyph:
		return fmt.Sprintf("sfnt: malformed glyph %d: %s", e.GlyphIndex, e.Detail)
	}
	return "sfnt: unknown error"
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// ErrorCode makes Error an AppError in the sense of package core.
func (e *Error) ErrorCode() int {
	switch e.Kind {
	case IoFailure, MissingTable:
		return core.EMISSING
	}
	return core.EINVALID
}

// UserMessage makes Error an AppError in the sense of package core.
func (e *Error) UserMessage() string {
	return e.Error()
}

var _ core.AppError = &Error{}

func errIO(err error) *Error {
	return &Error{Kind: IoFailure, wrapped: err}
}

func errEOF() *Error {
	return &Error{Kind: UnexpectedEndOfFile}
}

func errBadMagic(got uint32) *Error {
	return &Error{Kind: BadMagic, Value: int(got)}
}

func errChecksum(tag Tag) *Error {
	return &Error{Kind: ChecksumMismatch, Table: tag}
}

func errMissingTable(tag Tag) *Error {
	return &Error{Kind: MissingTable, Table: tag}
}

func errCmapFormat(format uint16) *Error {
	return &Error{Kind: UnsupportedCmapFormat, Value: int(format)}
}

func errCmapPlatform(pid uint16) *Error {
	return &Error{Kind: UnsupportedCmapPlatform, Value: int(pid)}
}

func errLocaFormat(format int16) *Error {
	return &Error{Kind: UnsupportedLocaFormat, Value: int(format)}
}

func errGlyph(index uint32, detail string) *Error {
	return &Error{Kind: MalformedGlyph, GlyphIndex: index, Detail: detail}
}

func errGlyphWrap(index uint32, detail string, err error) *Error {
	return &Error{Kind: MalformedGlyph, GlyphIndex: index, Detail: detail, wrapped: err}
}
