package sfnt

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestPrimitiveWidths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lipi.fonts")
	defer teardown()
	//
	c := NewCursor([]byte{0x01, 0x02, 0x03, 0x04})
	n16, err := c.U16()
	if err != nil || n16 != 0x0102 {
		t.Errorf("expected U16 at 0 to be 0x0102, is 0x%04x (err %v)", n16, err)
	}
	if _, err := c.Seek(0); err != nil {
		t.Fatal(err)
	}
	n32, err := c.U32()
	if err != nil || n32 != 0x01020304 {
		t.Errorf("expected U32 at 0 to be 0x01020304, is 0x%08x (err %v)", n32, err)
	}
	c = NewCursor([]byte{0xFF, 0xFF})
	i16, err := c.I16()
	if err != nil || i16 != -1 {
		t.Errorf("expected I16 over FF FF to be -1, is %d (err %v)", i16, err)
	}
}

func TestFixedPoint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lipi.fonts")
	defer teardown()
	//
	c := NewCursor([]byte{0x00, 0x01, 0x00, 0x00})
	fx, err := c.Fixed()
	if err != nil || fx != 1.0 {
		t.Errorf("expected Fixed over 00 01 00 00 to be 1.0, is %f", fx)
	}
	c = NewCursor([]byte{0x40, 0x00, 0xC0, 0x00, 0x20, 0x00})
	for _, want := range []float64{1.0, -1.0, 0.5} {
		f2, err := c.F2Dot14()
		if err != nil || f2 != want {
			t.Errorf("expected F2Dot14 to be %f, is %f", want, f2)
		}
	}
}

func TestLongDate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lipi.fonts")
	defer teardown()
	//
	// 3,345,148,800 seconds after 1904-01-01 is New Year 2010
	c := NewCursor([]byte{0x00, 0x00, 0x00, 0x00, 0xC7, 0x62, 0xEB, 0x80})
	unix, err := c.LongDate()
	if err != nil {
		t.Fatal(err)
	}
	if unix != 1262304000 {
		t.Errorf("expected date to be Unix 1262304000, is %d", unix)
	}
}

func TestSeekSemantics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lipi.fonts")
	defer teardown()
	//
	c := NewCursor([]byte{1, 2, 3, 4})
	if _, err := c.Seek(2); err != nil {
		t.Fatal(err)
	}
	old, err := c.Seek(0)
	if err != nil {
		t.Fatal(err)
	}
	if old != 2 {
		t.Errorf("expected Seek to return previous position 2, is %d", old)
	}
	// positioning to the buffer end is allowed, reading there is not
	if _, err := c.Seek(4); err != nil {
		t.Errorf("expected seek to len(data) to succeed, got %v", err)
	}
	if _, err := c.U8(); err == nil {
		t.Error("expected read at end of buffer to fail")
	}
	if _, err := c.Seek(5); err == nil {
		t.Error("expected seek past end of buffer to fail")
	}
}

func TestReadPastEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lipi.fonts")
	defer teardown()
	//
	c := NewCursor([]byte{1, 2, 3})
	if _, err := c.U32(); err == nil {
		t.Fatal("expected U32 over 3 bytes to fail")
	} else {
		var e *Error
		if !errors.As(err, &e) || e.Kind != UnexpectedEndOfFile {
			t.Errorf("expected UnexpectedEndOfFile, got %v", err)
		}
	}
	// the failed read must not move the position
	if c.Pos() != 0 {
		t.Errorf("expected position to stay at 0, is %d", c.Pos())
	}
}

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lipi.fonts")
	defer teardown()
	//
	tag := Tag(0x636d6170)
	if tag.String() != "cmap" {
		t.Errorf("expected tag 0x636d6170 to be 'cmap', is %s", tag.String())
	}
	tag = MakeTag([]byte("cmap"))
	if tag.String() != "cmap" {
		t.Errorf("expected tag MakeTag(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("cmap")
	if tag.String() != "cmap" {
		t.Errorf("expected tag T(cmap) to be 'cmap', is %s", tag.String())
	}
	// non-ASCII bytes are preserved verbatim
	raw := MakeTag([]byte{0x00, 0xFF, 0x20, 0x41})
	if raw != Tag(0x00FF2041) {
		t.Errorf("expected tag bytes to be preserved, got 0x%08x", uint32(raw))
	}
}

func TestChecksumPadding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lipi.fonts")
	defer teardown()
	//
	region := []byte{
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x02,
		0x00, 0x00, 0x00,
	}
	f := &Font{cursor: NewCursor(region)}
	sum, err := f.checksum(0, 11)
	if err != nil {
		t.Fatal(err)
	}
	if sum != 0x00000003 {
		t.Errorf("expected checksum over 11-byte region to be 3, is %d", sum)
	}
	// the read position is restored afterwards
	if f.cursor.Pos() != 0 {
		t.Errorf("expected checksumming to restore the position, is %d", f.cursor.Pos())
	}
}
