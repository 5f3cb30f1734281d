// Package eop implements the Earth Orientation Parameter table: UT1-UTC and
// polar motion (xp, yp) rows indexed by UTC MJD, with clamp-then-linear
// interpolation and a process-wide shared-snapshot default registry.
package eop

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// Row is one EOP table entry.
type Row struct {
	MJDUTC        float64
	UT1MinusUTC   float64 // seconds
	PolarMotionX  float64 // radians
	PolarMotionY  float64 // radians
}

// Table is a sorted EOP table. The zero Table is empty; all lookups then
// return zero correction (spec.md §5: the library tolerates an absent EOP
// table).
type Table struct {
	rows []Row
}

// NewTable builds an empty table.
func NewTable() *Table { return &Table{} }

// AddRow appends a row. Call Preprocess before any lookup.
func (t *Table) AddRow(mjdUTC, ut1MinusUTC, xpRad, ypRad float64) {
	t.rows = append(t.rows, Row{MJDUTC: mjdUTC, UT1MinusUTC: ut1MinusUTC, PolarMotionX: xpRad, PolarMotionY: ypRad})
}

// Preprocess sorts the table by MJDUTC.
func (t *Table) Preprocess() {
	sort.Slice(t.rows, func(i, j int) bool { return t.rows[i].MJDUTC < t.rows[j].MJDUTC })
}

// Rows returns the table's rows.
func (t *Table) Rows() []Row { return t.rows }

// interpolate finds the bracketing rows for mjd and linearly interpolates
// the given field, clamping at the table ends.
func (t *Table) interpolate(mjd float64, field func(Row) float64) float64 {
	n := len(t.rows)
	if n == 0 {
		return 0
	}
	if n == 1 || mjd <= t.rows[0].MJDUTC {
		return field(t.rows[0])
	}
	if mjd >= t.rows[n-1].MJDUTC {
		return field(t.rows[n-1])
	}

	idx := sort.Search(n, func(i int) bool { return t.rows[i].MJDUTC > mjd }) - 1
	lo, hi := t.rows[idx], t.rows[idx+1]
	frac := (mjd - lo.MJDUTC) / (hi.MJDUTC - lo.MJDUTC)
	return field(lo) + frac*(field(hi)-field(lo))
}

// UT1MinusUTCInUTC returns UT1-UTC in seconds for a UTC MJD, clamped at the
// table boundaries and linearly interpolated between rows.
func (t *Table) UT1MinusUTCInUTC(mjdUTC float64) float64 {
	return t.interpolate(mjdUTC, func(r Row) float64 { return r.UT1MinusUTC })
}

// PolarMotionInUTC returns (xp, yp) in radians for a UTC MJD, using the same
// clamp-then-interpolate policy as UT1MinusUTCInUTC.
func (t *Table) PolarMotionInUTC(mjdUTC float64) (xp, yp float64) {
	xp = t.interpolate(mjdUTC, func(r Row) float64 { return r.PolarMotionX })
	yp = t.interpolate(mjdUTC, func(r Row) float64 { return r.PolarMotionY })
	return
}

// --- Parsing (spec.md §6: an external parser populates rows and calls Preprocess) ---

// Parse reads EOP rows from r: one row per non-comment, non-empty line of
// the form "<mjd> <ut1_minus_utc_sec> <xp_rad> <yp_rad>". '#' begins a
// comment line. The returned table has already had Preprocess called.
func Parse(r io.Reader) (*Table, error) {
	t := NewTable()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("eop: parse error at line %d: %q", lineNo, sc.Text())
		}
		vals := make([]float64, 4)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("eop: parse error at line %d: %q", lineNo, sc.Text())
			}
			vals[i] = v
		}
		t.AddRow(vals[0], vals[1], vals[2], vals[3])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	t.Preprocess()
	return t, nil
}

// --- Process-wide default registry ---

var defaultTable atomic.Pointer[Table]

// SetDefault atomically publishes t as the process-wide default table.
func SetDefault(t *Table) { defaultTable.Store(t) }

// Default returns the current process-wide default table, or nil.
func Default() *Table { return defaultTable.Load() }

// UT1MinusUTCInUTC looks up UT1-UTC in the default table (zero if none set).
func UT1MinusUTCInUTC(mjdUTC float64) float64 {
	t := Default()
	if t == nil {
		return 0
	}
	return t.UT1MinusUTCInUTC(mjdUTC)
}

// PolarMotionInUTC looks up polar motion in the default table (zero if none set).
func PolarMotionInUTC(mjdUTC float64) (xp, yp float64) {
	t := Default()
	if t == nil {
		return 0, 0
	}
	return t.PolarMotionInUTC(mjdUTC)
}
