package eop

import (
	"math"
	"strings"
	"testing"
)

func buildTestTable() *Table {
	t := NewTable()
	t.AddRow(59000, 0.1, 0.001, 0.002)
	t.AddRow(59001, 0.15, 0.0012, 0.0022)
	t.AddRow(59002, 0.2, 0.0014, 0.0024)
	t.Preprocess()
	return t
}

func TestUT1MinusUTCInUTC_Interpolates(t *testing.T) {
	tbl := buildTestTable()
	got := tbl.UT1MinusUTCInUTC(59000.5)
	if math.Abs(got-0.125) > 1e-12 {
		t.Errorf("UT1MinusUTCInUTC(59000.5) = %v, want 0.125", got)
	}
}

func TestUT1MinusUTCInUTC_ClampsEnds(t *testing.T) {
	tbl := buildTestTable()
	if got := tbl.UT1MinusUTCInUTC(50000); got != 0.1 {
		t.Errorf("clamp low = %v, want 0.1", got)
	}
	if got := tbl.UT1MinusUTCInUTC(70000); got != 0.2 {
		t.Errorf("clamp high = %v, want 0.2", got)
	}
}

func TestPolarMotionInUTC(t *testing.T) {
	tbl := buildTestTable()
	xp, yp := tbl.PolarMotionInUTC(59001)
	if xp != 0.0012 || yp != 0.0022 {
		t.Errorf("PolarMotionInUTC(59001) = (%v,%v), want (0.0012,0.0022)", xp, yp)
	}
}

func TestEmptyTableReturnsZero(t *testing.T) {
	tbl := NewTable()
	if got := tbl.UT1MinusUTCInUTC(59000); got != 0 {
		t.Errorf("empty table = %v, want 0", got)
	}
	xp, yp := tbl.PolarMotionInUTC(59000)
	if xp != 0 || yp != 0 {
		t.Errorf("empty table polar motion = (%v,%v), want (0,0)", xp, yp)
	}
}

func TestParse(t *testing.T) {
	data := "# mjd ut1-utc xp yp\n59000 0.1 0.001 0.002\n59001 0.15 0.0012 0.0022\n"
	tbl, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(tbl.Rows()) != 2 {
		t.Fatalf("got %d rows, want 2", len(tbl.Rows()))
	}
}

func TestDefaultRegistry(t *testing.T) {
	SetDefault(buildTestTable())
	defer SetDefault(nil)
	if got := UT1MinusUTCInUTC(59000.5); math.Abs(got-0.125) > 1e-12 {
		t.Errorf("default lookup = %v, want 0.125", got)
	}
}
