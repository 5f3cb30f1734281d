// Package leapsec implements the TAI-UTC leap-second table: lookup by UTC
// MJD and by TAI MJD, the day-before-a-leap-second linear smear (matching
// SOFA and Astropy), and the hard-coded pre-1972 piecewise-linear historical
// formula.
package leapsec

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// Row is one entry of the leap-second table: the TAI-UTC offset (seconds)
// effective from mjdUTC onward. MJDTAI is derived by Preprocess.
type Row struct {
	MJDUTC     float64
	MJDTAI     float64
	TAIMinusUTC float64
}

// historicalSegment is one of the hard-coded 1961-1972 piecewise-linear
// formulas: offset + (mjd - delta) * rate, valid on [startMJD, endMJD).
type historicalSegment struct {
	startMJD, endMJD float64
	offset, delta, rate float64
}

// historicalSegments are the pre-1972 TAI-UTC formulas (IERS Bulletin C /
// USNO historical leap second table), valid for 37300 <= mjd_utc < 41317
// (1961-01-01 through 1972-01-01).
var historicalSegments = []historicalSegment{
	{37300, 37512, 1.422818, 37300, 0.001296},
	{37512, 37665, 1.372818, 37300, 0.001296},
	{37665, 38334, 1.845858, 37665, 0.0011232},
	{38334, 38395, 1.945858, 37665, 0.0011232},
	{38395, 38486, 3.240130, 38761, 0.001296},
	{38486, 38639, 3.340130, 38761, 0.001296},
	{38639, 38761, 3.440130, 38761, 0.001296},
	{38761, 38820, 3.540130, 38761, 0.001296},
	{38820, 38942, 3.640130, 38761, 0.001296},
	{38942, 39004, 3.740130, 38761, 0.001296},
	{39004, 39126, 3.840130, 38761, 0.001296},
	{39126, 39887, 4.313170, 39126, 0.002592},
	{39887, 41317, 4.213170, 39126, 0.002592},
}

// Table is a sorted leap-second table with the derived MJDTAI column filled
// in by Preprocess. The zero Table is empty (all lookups fall back to the
// historical/zero-correction rules).
type Table struct {
	rows []Row // sorted by MJDUTC
}

// NewTable builds an empty table.
func NewTable() *Table { return &Table{} }

// AddRow appends a row. Call Preprocess after all rows are added and before
// any lookup.
func (t *Table) AddRow(mjdUTC, taiMinusUTC float64) {
	t.rows = append(t.rows, Row{MJDUTC: mjdUTC, TAIMinusUTC: taiMinusUTC})
}

// Preprocess sorts the table by MJDUTC and fills in the derived MJDTAI
// column (mjd_tai = mjd_utc + tai_minus_utc/86400).
func (t *Table) Preprocess() {
	sort.Slice(t.rows, func(i, j int) bool { return t.rows[i].MJDUTC < t.rows[j].MJDUTC })
	for i := range t.rows {
		t.rows[i].MJDTAI = t.rows[i].MJDUTC + t.rows[i].TAIMinusUTC/86400.0
	}
}

// Rows returns the table's rows (read-only use expected).
func (t *Table) Rows() []Row { return t.rows }

func isHistorical(mjdUTC float64) bool {
	return mjdUTC >= 37300 && mjdUTC < 41317
}

func historicalOffset(mjdUTC float64) float64 {
	for _, seg := range historicalSegments {
		if mjdUTC >= seg.startMJD && mjdUTC < seg.endMJD {
			return seg.offset + (mjdUTC-seg.delta)*seg.rate
		}
	}
	// Fallback: nearest segment (shouldn't happen given isHistorical gate).
	if mjdUTC < historicalSegments[0].startMJD {
		seg := historicalSegments[0]
		return seg.offset + (mjdUTC-seg.delta)*seg.rate
	}
	seg := historicalSegments[len(historicalSegments)-1]
	return seg.offset + (mjdUTC-seg.delta)*seg.rate
}

// TAIMinusUTCInUTC returns TAI-UTC in seconds for a UTC MJD.
//
// Pre-1972 dates use the hard-coded historical formula. Dates covered by the
// table use a floor lookup; if the request falls in the 24h before the next
// row (and a next row exists), the leap second is linearly smeared across
// that day, matching SOFA/Astropy's treatment of the discontinuity. An empty
// table (and a request outside the historical range) returns 0.
func (t *Table) TAIMinusUTCInUTC(mjdUTC float64) float64 {
	if isHistorical(mjdUTC) {
		return historicalOffset(mjdUTC)
	}
	if len(t.rows) == 0 {
		return 0
	}

	idx := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].MJDUTC > mjdUTC }) - 1
	if idx < 0 {
		return t.rows[0].TAIMinusUTC
	}

	cur := t.rows[idx]
	if idx+1 < len(t.rows) {
		next := t.rows[idx+1]
		dayBefore := next.MJDUTC - 1.0
		if mjdUTC >= dayBefore {
			frac := mjdUTC - dayBefore // in [0,1)
			return cur.TAIMinusUTC + frac*(next.TAIMinusUTC-cur.TAIMinusUTC)
		}
	}
	return cur.TAIMinusUTC
}

// TAIMinusUTCInTAI returns TAI-UTC in seconds, given a TAI MJD (the inverse
// lookup direction). Pre-1972 dates solve the linear historical relation
// analytically; tabulated dates floor-lookup on MJDTAI and apply the same
// day-before smear, with the interpolation weight computed in TAI.
func (t *Table) TAIMinusUTCInTAI(mjdTAI float64) float64 {
	// Historical range check: estimate using the boundary segments, then
	// verify by solving analytically. mjd_tai = mjd_utc + offset/86400, and
	// offset = segOffset + (mjd_utc - segDelta) * segRate, so:
	//   mjd_tai = mjd_utc*(1 + segRate/86400) + (segOffset - segDelta*segRate)/86400
	// Solve for mjd_utc given mjd_tai.
	for _, seg := range historicalSegments {
		utcLo, utcHi := seg.startMJD, seg.endMJD
		taiLo := utcLo + (seg.offset+(utcLo-seg.delta)*seg.rate)/86400.0
		taiHi := utcHi + (seg.offset+(utcHi-seg.delta)*seg.rate)/86400.0
		if mjdTAI >= taiLo && mjdTAI < taiHi {
			k := 1.0 + seg.rate/86400.0
			b := (seg.offset - seg.delta*seg.rate) / 86400.0
			mjdUTC := (mjdTAI - b) / k
			return seg.offset + (mjdUTC-seg.delta)*seg.rate
		}
	}

	if len(t.rows) == 0 {
		return 0
	}

	idx := sort.Search(len(t.rows), func(i int) bool { return t.rows[i].MJDTAI > mjdTAI }) - 1
	if idx < 0 {
		return t.rows[0].TAIMinusUTC
	}

	cur := t.rows[idx]
	if idx+1 < len(t.rows) {
		next := t.rows[idx+1]
		// The day-before smear boundary, expressed in TAI: next row's
		// MJDTAI minus one day minus the (small) change in offset over
		// that day, approximated by walking back one day in TAI.
		dayBeforeTAI := next.MJDTAI - 1.0
		if mjdTAI >= dayBeforeTAI {
			frac := mjdTAI - dayBeforeTAI
			return cur.TAIMinusUTC + frac*(next.TAIMinusUTC-cur.TAIMinusUTC)
		}
	}
	return cur.TAIMinusUTC
}

// --- Parsing (spec.md §6) ---

// Parse reads leap-second rows from r: one row per non-comment, non-empty
// line of the form "<mjd> <dd> <mm> <yyyy> <tai_minus_utc_int_seconds>".
// '#' begins a comment line. Leading whitespace is skipped, trailing
// whitespace tolerated; any other deviation is a parse error. The returned
// table has already had Preprocess called.
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
		if len(fields) != 5 {
			return nil, fmt.Errorf("leapsec: parse error at line %d: %q", lineNo, sc.Text())
		}
		mjd, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("leapsec: parse error at line %d: %q", lineNo, sc.Text())
		}
		tmu, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("leapsec: parse error at line %d: %q", lineNo, sc.Text())
		}
		t.AddRow(mjd, tmu)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	t.Preprocess()
	return t, nil
}

// --- Process-wide default registry (spec.md §5, §9) ---

var defaultTable atomic.Pointer[Table]

// SetDefault atomically publishes t as the process-wide default table.
// Readers loading the default via Default concurrently are never blocked
// and a reader holding an older snapshot is not invalidated.
func SetDefault(t *Table) {
	defaultTable.Store(t)
}

// Default returns the current process-wide default table, or nil if none
// has been set (lookups against a nil table via the package-level helpers
// below return the historical/zero-correction fallback).
func Default() *Table {
	return defaultTable.Load()
}

// TAIMinusUTCInUTC looks up TAI-UTC in the default table (or the historical
// formula / zero if none is set).
func TAIMinusUTCInUTC(mjdUTC float64) float64 {
	t := Default()
	if t == nil {
		t = NewTable()
	}
	return t.TAIMinusUTCInUTC(mjdUTC)
}

// TAIMinusUTCInTAI looks up TAI-UTC in the default table given a TAI MJD.
func TAIMinusUTCInTAI(mjdTAI float64) float64 {
	t := Default()
	if t == nil {
		t = NewTable()
	}
	return t.TAIMinusUTCInTAI(mjdTAI)
}
